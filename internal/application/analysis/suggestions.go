package analysis

import (
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
)

// Suggestion stage contract: always 5 to 12 items.
const (
	minSuggestions = 5
	maxSuggestions = 12
)

// genericSuggestions pads short model output. Phrased as advice, matching
// the tone the suggestion prompt asks for.
var genericSuggestions = []domain.Suggestion{
	{
		Title:       "Review flagged sections before publishing",
		Text:        "Consider re-watching the sections highlighted in this report and deciding whether the language or imagery is essential to the content.",
		Priority:    domain.SeverityMedium,
		ImpactScore: 40,
	},
	{
		Title:       "Add context for sensitive topics",
		Text:        "When covering sensitive subjects, a short verbal or on-screen framing of the educational or documentary intent tends to reduce policy friction.",
		Priority:    domain.SeverityMedium,
		ImpactScore: 35,
	},
	{
		Title:       "Keep titles and thumbnails aligned with content",
		Text:        "Titles or thumbnails that overstate the content are a common source of policy reviews; keeping them representative avoids that signal.",
		Priority:    domain.SeverityLow,
		ImpactScore: 25,
	},
	{
		Title:       "Use the self-certification questionnaire accurately",
		Text:        "Accurate self-certification builds reviewer trust over time and speeds up monetization checks on future uploads.",
		Priority:    domain.SeverityLow,
		ImpactScore: 20,
	},
	{
		Title:       "Maintain consistent upload metadata",
		Text:        "Complete descriptions and accurate category tags give automated review systems more benign context to work with.",
		Priority:    domain.SeverityLow,
		ImpactScore: 15,
	},
	{
		Title:       "Archive source material for disputes",
		Text:        "Keeping raw footage and licenses on file makes appeals straightforward if a claim or strike ever lands on this upload.",
		Priority:    domain.SeverityLow,
		ImpactScore: 15,
	},
	{
		Title:       "Monitor audience retention around flagged moments",
		Text:        "If flagged moments coincide with retention drops, trimming them can improve both compliance and watch time.",
		Priority:    domain.SeverityLow,
		ImpactScore: 10,
	},
}

// NormalizeSuggestions enforces the 5-12 window: pad with generic
// best-practice items when the model returns fewer than 5, truncate at 12.
func NormalizeSuggestions(items []domain.Suggestion) []domain.Suggestion {
	out := make([]domain.Suggestion, 0, maxSuggestions)
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		if s.Title == "" && s.Text == "" {
			continue
		}
		seen[s.Title] = struct{}{}
		out = append(out, s)
		if len(out) == maxSuggestions {
			return out
		}
	}
	for _, g := range genericSuggestions {
		if len(out) >= minSuggestions {
			break
		}
		if _, dup := seen[g.Title]; dup {
			continue
		}
		out = append(out, g)
	}
	return out
}
