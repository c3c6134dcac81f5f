package beacon_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hashboard/stat18ion/internal/beacon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureTransport records payloads instead of delivering them.
type captureTransport struct {
	mu       sync.Mutex
	payloads []*beacon.Payload
	closed   bool
}

func (c *captureTransport) Send(p *beacon.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.payloads = append(c.payloads, p)
}

func (c *captureTransport) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
}

func (c *captureTransport) sent() []*beacon.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*beacon.Payload(nil), c.payloads...)
}

func newTestTracker(transport beacon.Transport, trackLocal bool) *beacon.Tracker {
	return beacon.New(beacon.Config{
		SiteID:     "site-1",
		Endpoint:   "http://ingest.test/api/event",
		TrackLocal: trackLocal,
		Transport:  transport,
		Now:        func() time.Time { return time.UnixMilli(1704450600000) },
	})
}

func TestTrackPageView(t *testing.T) {
	t.Run("emits payload with configured site and clock", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		tracker.TrackPageView(beacon.Navigation{
			Host:      "example.com",
			Path:      "/pricing",
			Referrer:  "https://news.ycombinator.com/",
			UserAgent: "agent",
		})

		sent := transport.sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "site-1", sent[0].SiteID)
		assert.Equal(t, "/pricing", sent[0].Path)
		assert.Equal(t, "https://news.ycombinator.com/", sent[0].Referrer)
		assert.Equal(t, "agent", sent[0].UA)
		assert.Equal(t, int64(1704450600000), sent[0].TS)
	})

	t.Run("suppresses loopback hosts by default", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		for _, host := range []string{"localhost", "localhost:3000", "127.0.0.1", "0.0.0.0", "::1"} {
			tracker.TrackPageView(beacon.Navigation{Host: host, Path: "/"})
		}

		assert.Empty(t, transport.sent())
	})

	t.Run("tracks loopback hosts when enabled", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, true)

		tracker.TrackPageView(beacon.Navigation{Host: "localhost:3000", Path: "/"})

		assert.Len(t, transport.sent(), 1)
	})

	t.Run("suppresses static assets and api paths", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		for _, path := range []string{
			"/app.js",
			"/styles/main.css",
			"/logo.PNG",
			"/fonts/inter.woff2",
			"/_next/static/chunk.js",
			"/_next/data/page",
			"/api/event",
		} {
			tracker.TrackPageView(beacon.Navigation{Host: "example.com", Path: path})
		}

		assert.Empty(t, transport.sent())
	})

	t.Run("tracks regular pages", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		for _, path := range []string{"/", "/about", "/blog/why-go", "/docs/v2.1"} {
			tracker.TrackPageView(beacon.Navigation{Host: "example.com", Path: path})
		}

		assert.Len(t, transport.sent(), 4)
	})
}

func TestTrackServerEvent(t *testing.T) {
	t.Run("emits with explicit fields", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		tracker.TrackServerEvent(beacon.ServerEvent{
			SiteID:    "site-2",
			Path:      "/landing",
			UserAgent: "edge-runtime",
			Referrer:  "https://t.co/abc",
		})

		sent := transport.sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "site-2", sent[0].SiteID)
		assert.Equal(t, "edge-runtime", sent[0].UA)
	})

	t.Run("applies static asset filtering", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		tracker.TrackServerEvent(beacon.ServerEvent{SiteID: "site-2", Path: "/favicon.ico"})
		tracker.TrackServerEvent(beacon.ServerEvent{SiteID: "site-2", Path: "/api/health"})

		assert.Empty(t, transport.sent())
	})
}

type fakeObserver struct {
	fn func(beacon.Navigation)
}

func (f *fakeObserver) OnNavigate(fn func(beacon.Navigation)) {
	f.fn = fn
}

func TestObserve(t *testing.T) {
	transport := &captureTransport{}
	tracker := newTestTracker(transport, false)
	obs := &fakeObserver{}

	tracker.Observe(obs)

	require.NotNil(t, obs.fn)

	obs.fn(beacon.Navigation{Host: "example.com", Path: "/from-observer"})

	sent := transport.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "/from-observer", sent[0].Path)
}

func TestInit(t *testing.T) {
	// Init installs a process-wide tracker, so first-call-wins is asserted
	// within a single test.
	first := beacon.Init(beacon.Config{SiteID: "first", Transport: &captureTransport{}})
	second := beacon.Init(beacon.Config{SiteID: "second", Transport: &captureTransport{}})

	assert.Same(t, first, second)
	assert.Same(t, first, beacon.Default())
}

func TestMiddleware(t *testing.T) {
	t.Run("reports each request as a navigation", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		handler := beacon.Middleware(tracker)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "http://example.com/docs", nil)
		req.Header.Set("User-Agent", "agent")
		req.Header.Set("Referer", "https://example.com/")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		sent := transport.sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "/docs", sent[0].Path)
		assert.Equal(t, "agent", sent[0].UA)
		assert.Equal(t, "https://example.com/", sent[0].Referrer)
	})

	t.Run("skips asset requests", func(t *testing.T) {
		transport := &captureTransport{}
		tracker := newTestTracker(transport, false)

		handler := beacon.Middleware(tracker)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "http://example.com/static/app.js", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, transport.sent())
	})
}

func TestKeepAliveTransport(t *testing.T) {
	t.Run("delivers and drains on close", func(t *testing.T) {
		received := make(chan *http.Request, 4)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received <- r
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		transport := beacon.NewKeepAliveTransport(srv.URL, zap.NewNop())

		transport.Send(&beacon.Payload{SiteID: "site-1", Path: "/", TS: 1})
		transport.Close()

		select {
		case r := <-received:
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		default:
			t.Fatal("send was not delivered before Close returned")
		}
	})

	t.Run("drops sends after close", func(t *testing.T) {
		var delivered int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			delivered++
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		transport := beacon.NewKeepAliveTransport(srv.URL, zap.NewNop())
		transport.Close()
		transport.Send(&beacon.Payload{SiteID: "site-1"})
		transport.Close()

		assert.Zero(t, delivered)
	})

	t.Run("swallows delivery failure", func(t *testing.T) {
		transport := beacon.NewKeepAliveTransport("http://127.0.0.1:1/api/event", zap.NewNop())

		// Must not panic or surface anything.
		transport.Send(&beacon.Payload{SiteID: "site-1"})
		transport.Close()
	})
}

func TestAsyncTransport(t *testing.T) {
	t.Run("delivers best effort", func(t *testing.T) {
		received := make(chan struct{}, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			received <- struct{}{}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		transport := beacon.NewAsyncTransport(srv.URL, zap.NewNop())
		transport.Send(&beacon.Payload{SiteID: "site-1"})

		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for delivery")
		}

		transport.Close()
	})

	t.Run("swallows delivery failure", func(t *testing.T) {
		transport := beacon.NewAsyncTransport("http://127.0.0.1:1/api/event", zap.NewNop())

		transport.Send(&beacon.Payload{SiteID: "site-1"})
		transport.Close()
	})
}
