package stats

import (
	"context"
	"time"
)

const (
	// TopLimit is how many entries each breakdown returns.
	TopLimit = 5

	// SeriesDays is the span of the trailing daily series.
	SeriesDays = 7
)

// Bucket is one dimension value and its event count.
type Bucket struct {
	Value string
	Count int64
}

// DailyCount is the event count for one calendar day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Snapshot is the full set of aggregates for one site, computed on demand.
// It is not a transactional point-in-time view: writes landing mid-query
// may appear in some sub-counts and not others.
type Snapshot struct {
	TotalViews          int64
	UniqueVisitors      int64
	TopPages            []Bucket
	TopReferrers        []Bucket
	TopCountries        []Bucket
	TopBrowsers         []Bucket
	TopOperatingSystems []Bucket
	DailyViews          []DailyCount
}

// Store defines the read-side queries over the event store. Top-K results
// are ordered by count descending with the dimension value ascending as a
// deterministic tie-break; the daily series is ascending by date and
// sparse (days without events are omitted).
type Store interface {
	TotalViews(ctx context.Context, siteID string) (int64, error)
	UniqueVisitors(ctx context.Context, siteID string) (int64, error)
	TopPages(ctx context.Context, siteID string, limit int) ([]Bucket, error)
	TopReferrers(ctx context.Context, siteID string, limit int) ([]Bucket, error)
	TopCountries(ctx context.Context, siteID string, limit int) ([]Bucket, error)
	TopBrowsers(ctx context.Context, siteID string, limit int) ([]Bucket, error)
	TopOperatingSystems(ctx context.Context, siteID string, limit int) ([]Bucket, error)
	DailyViews(ctx context.Context, siteID string, since time.Time) ([]DailyCount, error)
}

// Aggregator computes stats snapshots. There is no cache: every call
// recomputes from the store.
type Aggregator struct {
	store Store
	now   func() time.Time
}

// NewAggregator creates a new aggregator.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// WithClock overrides the aggregator's clock. Used by tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now

	return a
}

// Snapshot computes all aggregates for a site. Any sub-query failure fails
// the whole snapshot; a partially populated result would render as
// misleading zeros downstream.
func (a *Aggregator) Snapshot(ctx context.Context, siteID string) (*Snapshot, error) {
	snap := &Snapshot{}

	var err error

	if snap.TotalViews, err = a.store.TotalViews(ctx, siteID); err != nil {
		return nil, err
	}

	if snap.UniqueVisitors, err = a.store.UniqueVisitors(ctx, siteID); err != nil {
		return nil, err
	}

	if snap.TopPages, err = a.store.TopPages(ctx, siteID, TopLimit); err != nil {
		return nil, err
	}

	if snap.TopReferrers, err = a.store.TopReferrers(ctx, siteID, TopLimit); err != nil {
		return nil, err
	}

	if snap.TopCountries, err = a.store.TopCountries(ctx, siteID, TopLimit); err != nil {
		return nil, err
	}

	if snap.TopBrowsers, err = a.store.TopBrowsers(ctx, siteID, TopLimit); err != nil {
		return nil, err
	}

	if snap.TopOperatingSystems, err = a.store.TopOperatingSystems(ctx, siteID, TopLimit); err != nil {
		return nil, err
	}

	since := a.now().UTC().AddDate(0, 0, -SeriesDays)
	if snap.DailyViews, err = a.store.DailyViews(ctx, siteID, since); err != nil {
		return nil, err
	}

	return snap, nil
}
