package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/usage"
)

type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Get returns the counter for a provider/day, or nil when none exists yet.
func (r *UsageRepository) Get(ctx context.Context, provider, day string) (*domain.Counter, error) {
	const q = `
SELECT provider, day, used, daily_limit
FROM provider_usage
WHERE provider=$1 AND day=$2 LIMIT 1;
`
	var c domain.Counter
	err := r.db.QueryRowContext(ctx, q, provider, day).Scan(&c.Provider, &c.Day, &c.Used, &c.Limit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert writes the latest counter state for a provider/day.
func (r *UsageRepository) Upsert(ctx context.Context, c *domain.Counter) error {
	const q = `
INSERT INTO provider_usage (provider, day, used, daily_limit)
VALUES ($1,$2,$3,$4)
ON CONFLICT (provider, day) DO UPDATE SET
  used=EXCLUDED.used, daily_limit=EXCLUDED.daily_limit;
`
	_, err := r.db.ExecContext(ctx, q, c.Provider, c.Day, c.Used, c.Limit)
	return err
}
