package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
)

func TestNormalizeSuggestionsPadsToMinimum(t *testing.T) {
	in := []domain.Suggestion{
		{Title: "Trim the intro", Text: "The first minute repeats the title."},
	}

	out := NormalizeSuggestions(in)

	assert.Len(t, out, 5)
	assert.Equal(t, "Trim the intro", out[0].Title)
	// padded entries come from the generic pool
	for _, s := range out[1:] {
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Text)
	}
}

func TestNormalizeSuggestionsEmptyInputAllGeneric(t *testing.T) {
	out := NormalizeSuggestions(nil)
	assert.Len(t, out, 5)
}

func TestNormalizeSuggestionsTruncatesAtTwelve(t *testing.T) {
	in := make([]domain.Suggestion, 0, 20)
	for i := 0; i < 20; i++ {
		in = append(in, domain.Suggestion{Title: fmt.Sprintf("tip %d", i), Text: "..."})
	}

	out := NormalizeSuggestions(in)

	assert.Len(t, out, 12)
	assert.Equal(t, "tip 0", out[0].Title)
	assert.Equal(t, "tip 11", out[11].Title)
}

func TestNormalizeSuggestionsSkipsEmptyItems(t *testing.T) {
	in := []domain.Suggestion{
		{},
		{Title: "Real tip", Text: "something actionable"},
		{},
	}

	out := NormalizeSuggestions(in)

	assert.Len(t, out, 5)
	assert.Equal(t, "Real tip", out[0].Title)
}

func TestNormalizeSuggestionsInRangePassesThrough(t *testing.T) {
	in := make([]domain.Suggestion, 0, 7)
	for i := 0; i < 7; i++ {
		in = append(in, domain.Suggestion{Title: fmt.Sprintf("tip %d", i), Text: "..."})
	}

	out := NormalizeSuggestions(in)

	assert.Equal(t, in, out)
}
