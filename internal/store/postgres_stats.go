package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hashboard/stat18ion/internal/stats"
)

func (p *Postgres) TotalViews(ctx context.Context, siteID string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE site_id = $1`,
		siteID,
	).Scan(&count)

	return count, err
}

func (p *Postgres) UniqueVisitors(ctx context.Context, siteID string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT visitor_hash) FROM events WHERE site_id = $1`,
		siteID,
	).Scan(&count)

	return count, err
}

func (p *Postgres) TopPages(ctx context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return p.topBy(ctx, "path", siteID, limit)
}

func (p *Postgres) TopReferrers(ctx context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return p.topBy(ctx, "referrer", siteID, limit)
}

func (p *Postgres) TopCountries(ctx context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return p.topBy(ctx, "country", siteID, limit)
}

func (p *Postgres) TopBrowsers(ctx context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return p.topBy(ctx, "browser", siteID, limit)
}

func (p *Postgres) TopOperatingSystems(ctx context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return p.topBy(ctx, "os", siteID, limit)
}

// topBy groups events by one dimension column. The column name is always a
// compile-time constant from the methods above, never caller input. Ties
// are broken by the dimension value ascending so repeated calls against
// the same data return the same order.
func (p *Postgres) topBy(ctx context.Context, column, siteID string, limit int) ([]stats.Bucket, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(%s, ''), COUNT(*) AS count
		FROM events
		WHERE site_id = $1
		GROUP BY 1
		ORDER BY count DESC, 1 ASC
		LIMIT $2
	`, column)

	rows, err := p.pool.Query(ctx, query, siteID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := []stats.Bucket{}

	for rows.Next() {
		var b stats.Bucket
		if err := rows.Scan(&b.Value, &b.Count); err != nil {
			return nil, err
		}

		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

// DailyViews returns per-day counts for events after since, ascending by
// date. Days without events are omitted.
func (p *Postgres) DailyViews(ctx context.Context, siteID string, since time.Time) ([]stats.DailyCount, error) {
	query := `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM events
		WHERE site_id = $1 AND created_at > $2
		GROUP BY date
		ORDER BY date ASC
	`

	rows, err := p.pool.Query(ctx, query, siteID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := []stats.DailyCount{}

	for rows.Next() {
		var d stats.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}

		series = append(series, d)
	}

	return series, rows.Err()
}
