package store

import (
	"context"
	"time"

	"github.com/hashboard/stat18ion/internal/event"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()

		return nil, err
	}

	return pool, nil
}

// Postgres implements the event, stats, site, and account stores.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *Postgres) Shutdown() error {
	p.pool.Close()

	return nil
}

// InsertEvent appends one event. Events are never updated or deleted.
func (p *Postgres) InsertEvent(ctx context.Context, ev *event.Recorded) error {
	query := `
		INSERT INTO events (site_id, path, referrer, device_type, browser, os, country, visitor_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.pool.Exec(ctx, query,
		ev.SiteID,
		ev.Path,
		ev.Referrer,
		ev.DeviceType,
		ev.Browser,
		ev.OS,
		ev.Country,
		ev.VisitorHash,
		ev.CreatedAt,
	)

	return err
}
