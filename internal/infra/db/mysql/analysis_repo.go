package mysql

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

// Save insert/update Analysis record. Scalar kolom untuk query cepat,
// dokumen lengkap disimpan sebagai result_json.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO content_analyses
(id, tenant_id, risk_score, risk_level, confidence_score,
 model_used, analysis_mode, artifact_url, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 risk_score=VALUES(risk_score), risk_level=VALUES(risk_level),
 confidence_score=VALUES(confidence_score),
 model_used=VALUES(model_used), analysis_mode=VALUES(analysis_mode),
 artifact_url=VALUES(artifact_url), result_json=VALUES(result_json);
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

// Get by ID + Tenant
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT result_json
FROM content_analyses
WHERE tenant_id=? AND id=? LIMIT 1;
`
	var doc []byte
	if err := r.db.QueryRowContext(ctx, q, tenant, id).Scan(&doc); err != nil {
		return nil, err
	}
	return unmarshalAnalysis(doc)
}

// Paginate with offset + limit (classic pagination)
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
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
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
		a, err := unmarshalAnalysis(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
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
       COALESCE(SUM(risk_level='LOW'),0)    AS low,
       COALESCE(SUM(risk_level='MEDIUM'),0) AS medium,
       COALESCE(SUM(risk_level='HIGH'),0)   AS high
FROM content_analyses
WHERE tenant_id=? AND created_at >= ?;
`
	var t, lo, med, hi int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&t, &lo, &med, &hi); err != nil {
		return 0, 0, 0, 0, err
	}
	return t, lo, med, hi, nil
}

func unmarshalAnalysis(doc []byte) (*domain.Analysis, error) {
	var a domain.Analysis
	if err := json.Unmarshal(doc, &a); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &a, nil
}
