package analysis

import "sort"

// Canonical score/level thresholds. Applied everywhere a score becomes a level.
const (
	lowCeiling    = 25
	mediumCeiling = 65
)

// Highlight selection rules.
const (
	highlightMinScore = 20
	highlightLimit    = 4
)

// LevelForScore maps a 0-100 risk score onto a severity level.
func LevelForScore(score int) SeverityLevel {
	switch {
	case score <= lowCeiling:
		return SeverityLow
	case score <= mediumCeiling:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// ClampScore bounds a score into [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// OverallScore combines the risk-assessment stage's own overall score with
// the highest per-category score, bounded to [0,100]. Taking the max keeps
// the aggregate monotone in both inputs: a single severe category can never
// be averaged away.
func OverallScore(assessment RiskAssessment, categories map[string]PolicyCategoryScore) int {
	score := assessment.OverallRiskScore
	for _, c := range categories {
		if c.RiskScore > score {
			score = c.RiskScore
		}
	}
	return ClampScore(score)
}

// BuildHighlights filters categories scoring above the minimum threshold,
// sorts descending by score, and caps the list at the top 4.
func BuildHighlights(categories map[string]PolicyCategoryScore) []Highlight {
	out := make([]Highlight, 0, len(categories))
	for name, c := range categories {
		if c.RiskScore <= highlightMinScore {
			continue
		}
		out = append(out, Highlight{
			Category:   name,
			Risk:       c.Explanation,
			Score:      ClampScore(c.RiskScore),
			Confidence: ClampScore(c.Confidence),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		// tie-break by name so output is deterministic
		return out[i].Category < out[j].Category
	})
	if len(out) > highlightLimit {
		out = out[:highlightLimit]
	}
	return out
}

// CollectRiskyPhrases flattens the per-category phrase map into one
// deduplicated, deterministic list.
func CollectRiskyPhrases(byCategory map[string][]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 8)
	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		for _, p := range byCategory[cat] {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
