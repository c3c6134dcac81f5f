// Package ingest exposes the public event collection endpoint. It
// validates and enriches incoming beacons, then hands them to the
// message broker; persistence happens out of band in the consumer.
package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashboard/stat18ion/internal/event"
	"github.com/hashboard/stat18ion/internal/messaging"
	"github.com/hashboard/stat18ion/internal/middleware"
	"github.com/hashboard/stat18ion/internal/ratelimit"
	"go.uber.org/zap"
)

type Handler struct {
	publish messaging.Publish[event.Recorded]
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(publish messaging.Publish[event.Recorded], logger *zap.Logger) *Handler {
	return &Handler{
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now

	return h
}

// RecordEventRequest carries the raw beacon body. The payload is decoded
// by the handler rather than the schema layer so every malformed body,
// whatever the reason, gets the same opaque 400 instead of a field-level
// validation report.
type RecordEventRequest struct {
	RawBody []byte `contentType:"application/json"`
}

type eventPayload struct {
	SiteID   string `json:"siteId"`
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
	UA       string `json:"ua"`
	TS       int64  `json:"ts"`
}

type RecordEventResponse struct {
	Body struct {
		Status string `json:"status"`
	}
}

// RecordEvent accepts a beacon payload, enriches it with request
// metadata, and publishes it for asynchronous persistence. Broker
// failures are logged but never surfaced: the beacon is fire-and-forget
// and a retrying client would only duplicate traffic.
func (h *Handler) RecordEvent(ctx context.Context, req *RecordEventRequest) (*RecordEventResponse, error) {
	var body eventPayload
	if err := json.Unmarshal(req.RawBody, &body); err != nil {
		return nil, huma.Error400BadRequest("invalid payload")
	}

	if body.SiteID == "" || body.Path == "" || body.TS <= 0 {
		return nil, huma.Error400BadRequest("invalid payload")
	}

	meta := middleware.RequestMetaFromContext(ctx)
	browser, osName := event.ParseUserAgent(body.UA)

	rec := &event.Recorded{
		SiteID:      body.SiteID,
		Path:        body.Path,
		Referrer:    body.Referrer,
		DeviceType:  event.DeviceType(body.UA),
		Browser:     browser,
		OS:          osName,
		Country:     meta.Country,
		VisitorHash: event.Fingerprint(meta.ClientIP, body.UA, h.now()),
		CreatedAt:   time.UnixMilli(body.TS).UTC(),
	}

	if err := h.publish(rec); err != nil {
		h.logger.Error("failed to publish event",
			zap.String("siteId", rec.SiteID),
			zap.Error(err),
		)
	}

	resp := &RecordEventResponse{}
	resp.Body.Status = "ok"

	return resp, nil
}

func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "record-event",
		Method:      http.MethodPost,
		Path:        "/api/event",
		Summary:     "Record a page view event",
		Metadata: map[string]any{
			// The beacon fires on every navigation of every visitor, so
			// the ceiling sits far above the dashboard defaults.
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 600},
				},
			},
		},
	}, h.RecordEvent)
}
