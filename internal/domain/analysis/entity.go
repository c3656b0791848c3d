package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// SeverityLevel enum
type SeverityLevel string

const (
	SeverityLow    SeverityLevel = "LOW"
	SeverityMedium SeverityLevel = "MEDIUM"
	SeverityHigh   SeverityLevel = "HIGH"
)

// Mode enum: execution path the pipeline actually took
type Mode string

const (
	ModeTextOnly   Mode = "text-only"
	ModeMultiModal Mode = "multi-modal"
)

// VideoMetadata is the optional title/description pair supplied with a request.
type VideoMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContextClassification is the result of the context classification stage.
type ContextClassification struct {
	ContentType        string `json:"content_type"`
	TargetAudience     string `json:"target_audience"`
	MonetizationImpact int    `json:"monetization_impact"`
	ContentLength      int    `json:"content_length"`
	LanguageDetected   string `json:"language_detected"`
}

// PolicyCategoryScore is one entry of the policy-category stage result.
type PolicyCategoryScore struct {
	RiskScore   int           `json:"risk_score"`
	Confidence  int           `json:"confidence"`
	Violations  []string      `json:"violations"`
	Severity    SeverityLevel `json:"severity"`
	Explanation string        `json:"explanation"`
}

// RiskSpan is a contiguous range of source text tagged with a policy
// category and severity. Offsets are byte indexes into the analyzed content;
// EndIndex is exclusive. Spans without offsets are never merged.
type RiskSpan struct {
	Text           string        `json:"text"`
	StartIndex     *int          `json:"start_index,omitempty"`
	EndIndex       *int          `json:"end_index,omitempty"`
	RiskLevel      SeverityLevel `json:"risk_level"`
	PolicyCategory string        `json:"policy_category"`
	Explanation    string        `json:"explanation"`
}

// RiskAssessment is the result of the risk assessment stage.
type RiskAssessment struct {
	OverallRiskScore       int                 `json:"overall_risk_score"`
	FlaggedSection         string              `json:"flagged_section"`
	RiskFactors            []string            `json:"risk_factors"`
	SeverityLevel          SeverityLevel       `json:"severity_level"`
	RiskyPhrasesByCategory map[string][]string `json:"risky_phrases_by_category"`
	RiskySpans             []RiskSpan          `json:"risky_spans,omitempty"`
}

// ConfidenceAssessment is the result of the confidence analysis stage.
type ConfidenceAssessment struct {
	ConfidenceScore int    `json:"confidence_score"`
	Reasoning       string `json:"reasoning"`
}

// Suggestion is one actionable improvement item.
type Suggestion struct {
	Title       string        `json:"title"`
	Text        string        `json:"text"`
	Priority    SeverityLevel `json:"priority"`
	ImpactScore int           `json:"impact_score"`
}

// AIOriginAssessment is the optional AI-origin detection stage result.
type AIOriginAssessment struct {
	Probability int      `json:"ai_probability"`
	Confidence  int      `json:"confidence"`
	Patterns    []string `json:"patterns"`
	Explanation string   `json:"explanation"`
}

// Highlight is one of the top scored policy categories surfaced to callers.
type Highlight struct {
	Category   string `json:"category"`
	Risk       string `json:"risk"`
	Score      int    `json:"score"`
	Confidence int    `json:"confidence"`
}

// Metadata value object attached to every completed analysis.
type Metadata struct {
	ModelUsed         string `json:"model_used"`
	AnalysisTimestamp string `json:"analysis_timestamp"`
	ProcessingTimeMS  int64  `json:"processing_time_ms"`
	ContentLength     int    `json:"content_length"`
	AnalysisMode      Mode   `json:"analysis_mode"`
	QueueStatus       string `json:"queue_status,omitempty"`
}

// Aggregate Root: Analysis. Built once per request at pipeline completion,
// immutable thereafter.
type Analysis struct {
	ID                     AnalysisID                     `json:"id"`
	TenantID               string                         `json:"tenant_id"`
	RiskScore              int                            `json:"risk_score"`
	RiskLevel              SeverityLevel                  `json:"risk_level"`
	ConfidenceScore        int                            `json:"confidence_score"`
	FlaggedSection         string                         `json:"flagged_section"`
	PolicyCategories       map[string]PolicyCategoryScore `json:"policy_categories"`
	ContextAnalysis        ContextClassification          `json:"context_analysis"`
	Highlights             []Highlight                    `json:"highlights"`
	Suggestions            []Suggestion                   `json:"suggestions"`
	RiskySpans             []RiskSpan                     `json:"risky_spans"`
	RiskyPhrases           []string                       `json:"risky_phrases"`
	RiskyPhrasesByCategory map[string][]string            `json:"risky_phrases_by_category"`
	AIDetection            *AIOriginAssessment            `json:"ai_detection"`
	ArtifactURL            string                         `json:"artifact_url,omitempty"`
	Metadata               Metadata                       `json:"analysis_metadata"`
	CreatedAt              time.Time                      `json:"created_at"`
}
