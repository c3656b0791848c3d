package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO content_analyses
  (id, tenant_id, risk_score, risk_level, confidence_score,
   model_used, analysis_mode, artifact_url, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  risk_score=EXCLUDED.risk_score, risk_level=EXCLUDED.risk_level,
  confidence_score=EXCLUDED.confidence_score,
  model_used=EXCLUDED.model_used, analysis_mode=EXCLUDED.analysis_mode,
  artifact_url=EXCLUDED.artifact_url, result_json=EXCLUDED.result_json;
`
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	tenant := stringOrDash(a.TenantID)
	level := stringOrDash(string(a.RiskLevel))
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, tenant, a.RiskScore, level, a.ConfidenceScore,
		a.Metadata.ModelUsed, string(a.Metadata.AnalysisMode), a.ArtifactURL, doc, created,
	)
	return err
}

// Get returns one analysis by tenant + id
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT result_json
FROM content_analyses
WHERE tenant_id=$1 AND id=$2 LIMIT 1;
`
	var doc []byte
	if err := r.db.QueryRowContext(ctx, q, tenant, id).Scan(&doc); err != nil {
		return nil, err
	}
	var a domain.Analysis
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &a, nil
}

// Paginate returns a page of analyses ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT result_json
FROM content_analyses
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var a domain.Analysis
		if err := json.Unmarshal(doc, &a); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Summary counts analyses per risk level since N days
func (r *AnalysisRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN risk_level='LOW' THEN 1 ELSE 0 END),0)    AS low,
       COALESCE(SUM(CASE WHEN risk_level='MEDIUM' THEN 1 ELSE 0 END),0) AS medium,
       COALESCE(SUM(CASE WHEN risk_level='HIGH' THEN 1 ELSE 0 END),0)   AS high
FROM content_analyses
WHERE tenant_id=$1 AND created_at >= $2;
`
	var t, lo, med, hi int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&t, &lo, &med, &hi); err != nil {
		return 0, 0, 0, 0, err
	}
	return t, lo, med, hi, nil
}
