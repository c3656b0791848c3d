package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int {
	return &v
}

func TestMergeSpansOverlapping(t *testing.T) {
	source := "abcdefghij"
	spans := []RiskSpan{
		{Text: "abcde", StartIndex: intp(0), EndIndex: intp(5), RiskLevel: SeverityHigh, PolicyCategory: CategoryProfanity},
		{Text: "efghij", StartIndex: intp(4), EndIndex: intp(10), RiskLevel: SeverityHigh, PolicyCategory: CategoryProfanity},
	}

	out := MergeSpans(source, spans)

	require.Len(t, out, 1)
	assert.Equal(t, 0, *out[0].StartIndex)
	assert.Equal(t, 10, *out[0].EndIndex)
	assert.Equal(t, "abcdefghij", out[0].Text)
}

func TestMergeSpansAdjacent(t *testing.T) {
	source := "hello world"
	spans := []RiskSpan{
		{StartIndex: intp(0), EndIndex: intp(5), RiskLevel: SeverityMedium, PolicyCategory: CategoryHateSpeech},
		{StartIndex: intp(6), EndIndex: intp(11), RiskLevel: SeverityMedium, PolicyCategory: CategoryHateSpeech},
	}

	out := MergeSpans(source, spans)

	require.Len(t, out, 1)
	assert.Equal(t, "hello world", out[0].Text)
}

func TestMergeSpansDifferentCategoriesStaySeparate(t *testing.T) {
	source := "abcdefghij"
	spans := []RiskSpan{
		{StartIndex: intp(0), EndIndex: intp(5), RiskLevel: SeverityHigh, PolicyCategory: CategoryProfanity},
		{StartIndex: intp(4), EndIndex: intp(10), RiskLevel: SeverityHigh, PolicyCategory: CategoryGraphicViolence},
	}

	out := MergeSpans(source, spans)

	require.Len(t, out, 2)
}

func TestMergeSpansDifferentLevelsStaySeparate(t *testing.T) {
	source := "abcdefghij"
	spans := []RiskSpan{
		{StartIndex: intp(0), EndIndex: intp(5), RiskLevel: SeverityHigh, PolicyCategory: CategoryProfanity},
		{StartIndex: intp(4), EndIndex: intp(10), RiskLevel: SeverityLow, PolicyCategory: CategoryProfanity},
	}

	out := MergeSpans(source, spans)

	require.Len(t, out, 2)
}

func TestMergeSpansOffsetlessKeptUnmerged(t *testing.T) {
	source := "abcdefghij"
	spans := []RiskSpan{
		{Text: "floating phrase", RiskLevel: SeverityLow, PolicyCategory: CategoryProfanity},
		{StartIndex: intp(0), EndIndex: intp(3), RiskLevel: SeverityLow, PolicyCategory: CategoryProfanity},
	}

	out := MergeSpans(source, spans)

	require.Len(t, out, 2)
	assert.Equal(t, "floating phrase", out[0].Text)
	assert.Nil(t, out[0].StartIndex)
}

func TestMergeSpansIdempotent(t *testing.T) {
	source := "the quick brown fox jumps over the lazy dog"
	spans := []RiskSpan{
		{StartIndex: intp(4), EndIndex: intp(9), RiskLevel: SeverityMedium, PolicyCategory: CategoryGraphicViolence},
		{StartIndex: intp(8), EndIndex: intp(15), RiskLevel: SeverityMedium, PolicyCategory: CategoryGraphicViolence},
		{StartIndex: intp(20), EndIndex: intp(25), RiskLevel: SeverityHigh, PolicyCategory: CategoryProfanity},
	}

	once := MergeSpans(source, spans)
	twice := MergeSpans(source, once)

	assert.Equal(t, once, twice)
}

func TestMergeSpansEmpty(t *testing.T) {
	assert.Empty(t, MergeSpans("whatever", nil))
}
