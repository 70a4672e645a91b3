package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-api/internal/events"
	"github.com/spec-kit/catalog-api/internal/service"
)

// CacheInvalidator is the part of the product cache the worker needs.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// StartCatalogWorkers registers the event subscribers: the audit log and the
// product cache eviction on update or delete.
func StartCatalogWorkers(dispatcher events.Dispatcher, audit *service.AuditService, cache CacheInvalidator, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	if audit != nil {
		audit.RegisterHandlers()
	}
	if cache != nil {
		evict := evictProduct(cache, logger)
		dispatcher.Subscribe(events.EventProductUpdated, evict)
		dispatcher.Subscribe(events.EventProductDeleted, evict)
	}
}

func evictProduct(cache CacheInvalidator, logger *zap.Logger) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.ProductChangedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
		}
		if err := cache.Invalidate(ctx, payload.ProductID); err != nil {
			logger.Warn("product cache eviction failed",
				zap.Int64("product_id", payload.ProductID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
			return err
		}
		return nil
	}
}
