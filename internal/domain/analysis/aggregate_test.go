package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  SeverityLevel
	}{
		{0, SeverityLow},
		{25, SeverityLow},
		{26, SeverityMedium},
		{65, SeverityMedium},
		{66, SeverityHigh},
		{100, SeverityHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %d", tc.score)
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-20))
	assert.Equal(t, 100, ClampScore(250))
	assert.Equal(t, 42, ClampScore(42))
}

func TestOverallScoreTakesMax(t *testing.T) {
	assessment := RiskAssessment{OverallRiskScore: 30}
	categories := map[string]PolicyCategoryScore{
		CategoryProfanity:       {RiskScore: 80},
		CategoryGraphicViolence: {RiskScore: 10},
	}

	assert.Equal(t, 80, OverallScore(assessment, categories))

	// assessment wins when it is the largest
	assessment.OverallRiskScore = 90
	assert.Equal(t, 90, OverallScore(assessment, categories))
}

func TestOverallScoreClamped(t *testing.T) {
	assessment := RiskAssessment{OverallRiskScore: 500}
	assert.Equal(t, 100, OverallScore(assessment, nil))
}

func TestBuildHighlightsTopFourByScore(t *testing.T) {
	categories := map[string]PolicyCategoryScore{
		CategoryProfanity:       {RiskScore: 90, Confidence: 80, Explanation: "strong language"},
		CategoryGraphicViolence: {RiskScore: 70, Confidence: 60},
		CategoryHateSpeech:      {RiskScore: 50, Confidence: 50},
		CategorySexualContent:   {RiskScore: 30, Confidence: 40},
		CategoryMisinformation:  {RiskScore: 25, Confidence: 40},
		CategoryChildSafety:     {RiskScore: 20, Confidence: 90}, // at threshold, excluded
		CategorySpamDeceptive:   {RiskScore: 5, Confidence: 10},
	}

	out := BuildHighlights(categories)

	assert.Len(t, out, 4)
	assert.Equal(t, CategoryProfanity, out[0].Category)
	assert.Equal(t, "strong language", out[0].Risk)
	assert.Equal(t, CategoryGraphicViolence, out[1].Category)
	assert.Equal(t, CategoryHateSpeech, out[2].Category)
	assert.Equal(t, CategorySexualContent, out[3].Category)
}

func TestBuildHighlightsTieBreakDeterministic(t *testing.T) {
	categories := map[string]PolicyCategoryScore{
		CategoryGraphicViolence: {RiskScore: 50},
		CategoryProfanity:       {RiskScore: 50},
	}

	out := BuildHighlights(categories)

	assert.Len(t, out, 2)
	assert.True(t, out[0].Category < out[1].Category)
}

func TestCollectRiskyPhrasesDedupes(t *testing.T) {
	byCategory := map[string][]string{
		CategoryGraphicViolence: {"fight", "damn"},
		CategoryProfanity:       {"damn", "hell"},
	}

	out := CollectRiskyPhrases(byCategory)

	// categories walked in sorted order, duplicates dropped
	assert.Equal(t, []string{"damn", "hell", "fight"}, out)
}
