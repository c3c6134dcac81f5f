package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashboard/stat18ion/internal/auth"
	"github.com/hashboard/stat18ion/internal/event"
	"github.com/hashboard/stat18ion/internal/site"
	"github.com/hashboard/stat18ion/internal/stats"
)

// Memory is an in-memory implementation of the event, stats, site, and
// account stores. Used by tests and local development without Postgres.
type Memory struct {
	mu       sync.RWMutex
	events   []event.Recorded
	accounts map[string]auth.Account
	emails   map[string]string
	sites    map[string]site.Site
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]auth.Account),
		emails:   make(map[string]string),
		sites:    make(map[string]site.Site),
	}
}

func (m *Memory) InsertEvent(_ context.Context, ev *event.Recorded) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, *ev)

	return nil
}

// EventCount returns the number of stored events. Used by tests.
func (m *Memory) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.events)
}

func (m *Memory) TotalViews(_ context.Context, siteID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64

	for i := range m.events {
		if m.events[i].SiteID == siteID {
			count++
		}
	}

	return count, nil
}

func (m *Memory) UniqueVisitors(_ context.Context, siteID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})

	for i := range m.events {
		if m.events[i].SiteID == siteID {
			seen[m.events[i].VisitorHash] = struct{}{}
		}
	}

	return int64(len(seen)), nil
}

func (m *Memory) TopPages(_ context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return m.topBy(siteID, limit, func(ev *event.Recorded) string { return ev.Path }), nil
}

func (m *Memory) TopReferrers(_ context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return m.topBy(siteID, limit, func(ev *event.Recorded) string { return ev.Referrer }), nil
}

func (m *Memory) TopCountries(_ context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return m.topBy(siteID, limit, func(ev *event.Recorded) string { return ev.Country }), nil
}

func (m *Memory) TopBrowsers(_ context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return m.topBy(siteID, limit, func(ev *event.Recorded) string { return ev.Browser }), nil
}

func (m *Memory) TopOperatingSystems(_ context.Context, siteID string, limit int) ([]stats.Bucket, error) {
	return m.topBy(siteID, limit, func(ev *event.Recorded) string { return ev.OS }), nil
}

func (m *Memory) topBy(siteID string, limit int, key func(*event.Recorded) string) []stats.Bucket {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)

	for i := range m.events {
		if m.events[i].SiteID == siteID {
			counts[key(&m.events[i])]++
		}
	}

	buckets := make([]stats.Bucket, 0, len(counts))
	for value, count := range counts {
		buckets = append(buckets, stats.Bucket{Value: value, Count: count})
	}

	// Count descending, value ascending: same tie-break as the SQL store.
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}

		return buckets[i].Value < buckets[j].Value
	})

	if len(buckets) > limit {
		buckets = buckets[:limit]
	}

	return buckets
}

func (m *Memory) DailyViews(_ context.Context, siteID string, since time.Time) ([]stats.DailyCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)

	for i := range m.events {
		ev := &m.events[i]
		if ev.SiteID == siteID && ev.CreatedAt.After(since) {
			counts[ev.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}

	series := make([]stats.DailyCount, 0, len(counts))
	for date, count := range counts {
		series = append(series, stats.DailyCount{Date: date, Count: count})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	return series, nil
}

func (m *Memory) CreateAccount(_ context.Context, email, passwordHash string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[email]; exists {
		return nil, auth.ErrEmailTaken
	}

	account := auth.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	m.accounts[account.ID] = account
	m.emails[email] = account.ID

	return &account, nil
}

func (m *Memory) AccountByEmail(_ context.Context, email string) (*auth.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[email]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}

	account := m.accounts[id]

	return &account, nil
}

func (m *Memory) CreateSite(_ context.Context, s *site.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sites[s.ID] = *s

	return nil
}

func (m *Memory) SitesByOwner(_ context.Context, ownerID string) ([]site.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sites := []site.Site{}

	for _, s := range m.sites {
		if s.OwnerID == ownerID {
			sites = append(sites, s)
		}
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].CreatedAt.After(sites[j].CreatedAt) })

	return sites, nil
}

func (m *Memory) SiteOwnedBy(_ context.Context, siteID, ownerID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sites[siteID]

	return ok && s.OwnerID == ownerID, nil
}
