package event

import (
	"context"

	"go.uber.org/zap"
)

// Store persists recorded events.
type Store interface {
	InsertEvent(ctx context.Context, ev *Recorded) error
}

// NewRecorder returns a consumer handler that persists recorded events.
// A store failure is returned so the message is nacked and logged; nothing
// upstream is notified, as the ingestion response has long since been sent.
func NewRecorder(store Store, logger *zap.Logger) func(ctx context.Context, ev *Recorded) error {
	return func(ctx context.Context, ev *Recorded) error {
		if err := store.InsertEvent(ctx, ev); err != nil {
			return err
		}

		logger.Debug("event persisted",
			zap.String("siteId", ev.SiteID),
			zap.String("path", ev.Path),
		)

		return nil
	}
}
