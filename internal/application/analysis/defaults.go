package analysis

import (
	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
)

// Conservative stage defaults. A stage that exhausts every retry and repair
// strategy degrades to these values so a single stage failure never aborts
// the request.

const analysisUnavailable = "Analysis unavailable"

func defaultClassification(contentLength int) domain.ContextClassification {
	return domain.ContextClassification{
		ContentType:        "Unknown",
		TargetAudience:     "General",
		MonetizationImpact: 0,
		ContentLength:      contentLength,
		LanguageDetected:   "unknown",
	}
}

func defaultCategories() map[string]domain.PolicyCategoryScore {
	return map[string]domain.PolicyCategoryScore{}
}

func defaultAssessment() domain.RiskAssessment {
	return domain.RiskAssessment{
		OverallRiskScore:       0,
		FlaggedSection:         analysisUnavailable,
		RiskFactors:            []string{},
		SeverityLevel:          domain.SeverityLow,
		RiskyPhrasesByCategory: map[string][]string{},
	}
}

func defaultConfidence() domain.ConfidenceAssessment {
	return domain.ConfidenceAssessment{
		ConfidenceScore: 0,
		Reasoning:       analysisUnavailable,
	}
}
