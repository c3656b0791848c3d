package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Analysis, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Analysis, error)
	// Summary returns totals per risk level over the last sinceDays days:
	// total, low, medium, high.
	Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error)
}

// ReportStore port (interface untuk penyimpanan report artifact)
type ReportStore interface {
	UploadReport(ctx context.Context, key string, data []byte) (string, error)
}
