package diagnostics

import "time"

// StageDiagnostic is a persisted record of a pipeline stage that needed
// retries or failed outright. RawResponse is truncated before persisting.
type StageDiagnostic struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	AnalysisID  string    `json:"analysis_id"`
	Stage       string    `json:"stage"`
	Provider    string    `json:"provider,omitempty"`
	Attempts    int       `json:"attempts"`
	Outcome     string    `json:"outcome"` // recovered | failed
	Message     string    `json:"message"`
	RawResponse string    `json:"raw_response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	OutcomeRecovered = "recovered"
	OutcomeFailed    = "failed"
)
