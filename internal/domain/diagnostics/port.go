package diagnostics

import "context"

// Repository port for the observability sink
type Repository interface {
	Save(ctx context.Context, d *StageDiagnostic) error
	ListByAnalysis(ctx context.Context, tenant string, analysisID string, limit int) ([]*StageDiagnostic, error)
}
