package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-api/internal/events"
)

// AuditService writes account and catalog changes to the structured log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handle)
	a.dispatcher.Subscribe(events.EventProductCreated, a.handle)
	a.dispatcher.Subscribe(events.EventProductUpdated, a.handle)
	a.dispatcher.Subscribe(events.EventProductDeleted, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("timestamp", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
	if event.Actor.UserID != nil {
		fields = append(fields,
			zap.Int64("actor_id", *event.Actor.UserID),
			zap.String("actor_role", string(event.Actor.Role)),
		)
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}
