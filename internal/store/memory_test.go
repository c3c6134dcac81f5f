package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/hashboard/stat18ion/internal/auth"
	"github.com/hashboard/stat18ion/internal/event"
	"github.com/hashboard/stat18ion/internal/site"
	"github.com/hashboard/stat18ion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEvents(t *testing.T) {
	t.Run("insert and count", func(t *testing.T) {
		mem := store.NewMemory()

		require.NoError(t, mem.InsertEvent(context.Background(), &event.Recorded{SiteID: "s1", Path: "/"}))
		require.NoError(t, mem.InsertEvent(context.Background(), &event.Recorded{SiteID: "s1", Path: "/about"}))
		require.NoError(t, mem.InsertEvent(context.Background(), &event.Recorded{SiteID: "s2", Path: "/"}))

		assert.Equal(t, 3, mem.EventCount())

		total, err := mem.TotalViews(context.Background(), "s1")

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("top buckets break ties by value", func(t *testing.T) {
		mem := store.NewMemory()

		for _, p := range []string{"/b", "/a", "/b", "/a"} {
			require.NoError(t, mem.InsertEvent(context.Background(), &event.Recorded{SiteID: "s1", Path: p}))
		}

		top, err := mem.TopPages(context.Background(), "s1", 5)

		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "/a", top[0].Value)
		assert.Equal(t, "/b", top[1].Value)
	})

	t.Run("daily views exclude events at or before since", func(t *testing.T) {
		mem := store.NewMemory()
		since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, mem.InsertEvent(context.Background(), &event.Recorded{
			SiteID: "s1", Path: "/", CreatedAt: since,
		}))
		require.NoError(t, mem.InsertEvent(context.Background(), &event.Recorded{
			SiteID: "s1", Path: "/", CreatedAt: since.Add(time.Hour),
		}))

		series, err := mem.DailyViews(context.Background(), "s1", since)

		require.NoError(t, err)
		require.Len(t, series, 1)
		assert.Equal(t, int64(1), series[0].Count)
	})
}

func TestMemoryAccounts(t *testing.T) {
	t.Run("create and look up by email", func(t *testing.T) {
		mem := store.NewMemory()

		created, err := mem.CreateAccount(context.Background(), "a@example.com", "hash")

		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		found, err := mem.AccountByEmail(context.Background(), "a@example.com")

		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		mem := store.NewMemory()

		_, err := mem.CreateAccount(context.Background(), "a@example.com", "hash")
		require.NoError(t, err)

		_, err = mem.CreateAccount(context.Background(), "a@example.com", "hash")

		require.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("unknown email yields not found", func(t *testing.T) {
		mem := store.NewMemory()

		_, err := mem.AccountByEmail(context.Background(), "nobody@example.com")

		require.ErrorIs(t, err, auth.ErrAccountNotFound)
	})
}

func TestMemorySites(t *testing.T) {
	t.Run("lists owner sites newest first", func(t *testing.T) {
		mem := store.NewMemory()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		require.NoError(t, mem.CreateSite(context.Background(), &site.Site{
			ID: "s1", OwnerID: "o1", Name: "first", CreatedAt: base,
		}))
		require.NoError(t, mem.CreateSite(context.Background(), &site.Site{
			ID: "s2", OwnerID: "o1", Name: "second", CreatedAt: base.Add(time.Hour),
		}))
		require.NoError(t, mem.CreateSite(context.Background(), &site.Site{
			ID: "s3", OwnerID: "o2", Name: "other", CreatedAt: base,
		}))

		sites, err := mem.SitesByOwner(context.Background(), "o1")

		require.NoError(t, err)
		require.Len(t, sites, 2)
		assert.Equal(t, "s2", sites[0].ID)
		assert.Equal(t, "s1", sites[1].ID)
	})

	t.Run("ownership check", func(t *testing.T) {
		mem := store.NewMemory()

		require.NoError(t, mem.CreateSite(context.Background(), &site.Site{ID: "s1", OwnerID: "o1"}))

		owned, err := mem.SiteOwnedBy(context.Background(), "s1", "o1")
		require.NoError(t, err)
		assert.True(t, owned)

		owned, err = mem.SiteOwnedBy(context.Background(), "s1", "o2")
		require.NoError(t, err)
		assert.False(t, owned)

		owned, err = mem.SiteOwnedBy(context.Background(), "missing", "o1")
		require.NoError(t, err)
		assert.False(t, owned)
	})
}
