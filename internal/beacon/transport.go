package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const sendTimeout = 5 * time.Second

// Transport delivers payloads to the ingestion endpoint. Delivery is
// fire-and-forget: the tracker never waits for the outcome, and failures
// are swallowed after a debug log.
type Transport interface {
	Send(p *Payload)
	Close()
}

// probeTransport selects the strongest delivery mode the host supports:
// a drainable keep-alive transport when the process may block briefly at
// shutdown, otherwise plain best-effort sends.
func probeTransport(cfg Config) Transport {
	if cfg.BestEffortOnly {
		return NewAsyncTransport(cfg.Endpoint, cfg.Logger)
	}

	return NewKeepAliveTransport(cfg.Endpoint, cfg.Logger)
}

// KeepAliveTransport sends asynchronously but tracks in-flight deliveries,
// draining them on Close so events emitted right before host shutdown are
// still flushed.
type KeepAliveTransport struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	inflight sync.WaitGroup
	closed   atomic.Bool
}

// NewKeepAliveTransport creates a drain-on-close transport.
func NewKeepAliveTransport(endpoint string, logger *zap.Logger) *KeepAliveTransport {
	return &KeepAliveTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
		logger:   logger,
	}
}

func (t *KeepAliveTransport) Send(p *Payload) {
	if t.closed.Load() {
		return
	}

	t.inflight.Add(1)

	go func() {
		defer t.inflight.Done()
		post(t.client, t.endpoint, p, t.logger)
	}()
}

// Close stops accepting sends and waits for in-flight deliveries.
func (t *KeepAliveTransport) Close() {
	t.closed.Store(true)
	t.inflight.Wait()
}

// AsyncTransport sends on a detached goroutine with no drain on close.
// Events emitted immediately before shutdown may be lost.
type AsyncTransport struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewAsyncTransport creates a best-effort transport.
func NewAsyncTransport(endpoint string, logger *zap.Logger) *AsyncTransport {
	return &AsyncTransport{
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
		logger:   logger,
	}
}

func (t *AsyncTransport) Send(p *Payload) {
	go post(t.client, t.endpoint, p, t.logger)
}

func (t *AsyncTransport) Close() {}

func post(client *http.Client, endpoint string, p *Payload, logger *zap.Logger) {
	body, err := json.Marshal(p)
	if err != nil {
		logger.Debug("failed to encode event", zap.Error(err))

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		logger.Debug("failed to build event request", zap.Error(err))

		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("event delivery failed", zap.Error(err))

		return
	}

	_ = resp.Body.Close()
}
