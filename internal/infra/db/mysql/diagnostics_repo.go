package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/diagnostics"
)

type DiagnosticsRepository struct {
	db *sql.DB
}

func NewDiagnosticsRepository(db *sql.DB) *DiagnosticsRepository {
	return &DiagnosticsRepository{db: db}
}

func (r *DiagnosticsRepository) Save(ctx context.Context, d *domain.StageDiagnostic) error {
	const q = `
INSERT INTO stage_diagnostics
(tenant_id, analysis_id, stage, provider, attempts, outcome, message, raw_response, created_at)
VALUES (?,?,?,?,?,?,?,?,?);
`
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(d.TenantID), d.AnalysisID, d.Stage, d.Provider,
		d.Attempts, d.Outcome, d.Message, d.RawResponse, created,
	)
	return err
}

func (r *DiagnosticsRepository) ListByAnalysis(ctx context.Context, tenant string, analysisID string, limit int) ([]*domain.StageDiagnostic, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, tenant_id, analysis_id, stage, provider, attempts, outcome, message, raw_response, created_at
FROM stage_diagnostics
WHERE tenant_id=? AND analysis_id=?
ORDER BY created_at ASC, id ASC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, analysisID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.StageDiagnostic
	for rows.Next() {
		var d domain.StageDiagnostic
		if err := rows.Scan(
			&d.ID, &d.TenantID, &d.AnalysisID, &d.Stage, &d.Provider,
			&d.Attempts, &d.Outcome, &d.Message, &d.RawResponse, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
