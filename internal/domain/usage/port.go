package usage

import "context"

// Repository port (durable backing store untuk counter harian)
type Repository interface {
	// Get returns nil (no error) when no counter exists for the key yet.
	Get(ctx context.Context, provider, day string) (*Counter, error)
	Upsert(ctx context.Context, c *Counter) error
}
