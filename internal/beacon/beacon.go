// Package beacon emits one page-view event per observed navigation to the
// ingestion endpoint. Delivery is at-most-once and lossy by design: no
// retries, no queueing, and a failed send never surfaces to the host.
package beacon

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the ingestion endpoint used when none is configured.
const DefaultEndpoint = "https://stats.hashboard.in/api/event"

// Config configures a Tracker.
type Config struct {
	// SiteID identifies the site events are attributed to. Required.
	SiteID string

	// Endpoint overrides the ingestion endpoint.
	Endpoint string

	// TrackLocal enables tracking for loopback hosts, which is otherwise
	// suppressed so local development does not pollute production stats.
	TrackLocal bool

	// Transport overrides transport selection. When nil the strongest
	// delivery mode the host supports is probed at initialization.
	Transport Transport

	// BestEffortOnly forces the non-draining transport for hosts that
	// cannot afford to block, even briefly, at shutdown.
	BestEffortOnly bool

	Logger *zap.Logger
	Now    func() time.Time
}

// Payload is the wire shape of one event.
type Payload struct {
	SiteID   string `json:"siteId"`
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
	UA       string `json:"ua"`
	TS       int64  `json:"ts"`
}

// Tracker observes navigations and transmits events.
type Tracker struct {
	cfg       Config
	transport Transport
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Tracker. For the shared package-level instance use Init.
func New(cfg Config) *Tracker {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	transport := cfg.Transport
	if transport == nil {
		transport = probeTransport(cfg)
	}

	return &Tracker{
		cfg:       cfg,
		transport: transport,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
}

// Navigation describes one observed page transition.
type Navigation struct {
	Host      string
	Path      string
	Referrer  string
	UserAgent string
}

// NavigationObserver is the host capability that reports navigations.
// Browser-like hosts wrap their history-mutation entry points and the
// back/forward signal; request-interception hosts need no observer because
// each request already corresponds 1:1 to a navigation (see Middleware).
type NavigationObserver interface {
	OnNavigate(fn func(Navigation))
}

// Observe registers the tracker with a navigation observer.
func (t *Tracker) Observe(obs NavigationObserver) {
	obs.OnNavigate(t.TrackPageView)
}

// TrackPageView emits an event for a navigation in an ambient host context.
// Loopback hosts (unless TrackLocal) and non-page requests are suppressed.
func (t *Tracker) TrackPageView(nav Navigation) {
	if isLoopback(nav.Host) && !t.cfg.TrackLocal {
		t.logger.Debug("skipping event on local host", zap.String("host", nav.Host))

		return
	}

	if !isPageView(nav.Path) {
		return
	}

	t.send(&Payload{
		SiteID:   t.cfg.SiteID,
		Path:     nav.Path,
		Referrer: nav.Referrer,
		UA:       nav.UserAgent,
		TS:       t.now().UnixMilli(),
	})
}

// ServerEvent is an explicit event for hosts with no ambient navigation
// context, such as a server-side request-interception layer.
type ServerEvent struct {
	SiteID    string
	Path      string
	UserAgent string
	Referrer  string
}

// TrackServerEvent emits an explicit event, applying the same non-page
// filtering as TrackPageView.
func (t *Tracker) TrackServerEvent(ev ServerEvent) {
	if !isPageView(ev.Path) {
		return
	}

	t.send(&Payload{
		SiteID:   ev.SiteID,
		Path:     ev.Path,
		Referrer: ev.Referrer,
		UA:       ev.UserAgent,
		TS:       t.now().UnixMilli(),
	})
}

func (t *Tracker) send(p *Payload) {
	t.logger.Debug("tracking page view",
		zap.String("siteId", p.SiteID),
		zap.String("path", p.Path),
	)
	t.transport.Send(p)
}

// Close releases the transport. The keep-alive transport drains in-flight
// sends so events emitted just before shutdown still leave the host.
func (t *Tracker) Close() {
	t.transport.Close()
}

var defaultTracker atomic.Pointer[Tracker]

// Init configures the package-level tracker. The first call wins: once a
// tracker is installed, later calls are no-ops and return the existing
// instance. The guard is a compare-and-set, so concurrent initialization
// from multiple goroutines is safe.
func Init(cfg Config) *Tracker {
	t := New(cfg)
	if !defaultTracker.CompareAndSwap(nil, t) {
		t.Close()

		return defaultTracker.Load()
	}

	return t
}

// Default returns the package-level tracker, or nil before Init.
func Default() *Tracker {
	return defaultTracker.Load()
}
