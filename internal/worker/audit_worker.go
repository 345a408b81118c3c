package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/events"
)

// StartAuditWorker subscribes an audit-log handler to every lifecycle event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	handler := func(_ context.Context, event events.Event) error {
		logger.Info("audit event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("subject", event.Subject),
			zap.Time("timestamp", event.Timestamp),
			zap.Any("payload", event.Payload),
		)
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventProductCreated,
		events.EventProductUpdated,
		events.EventProductDeleted,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
