package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/events"
	"github.com/spec-kit/catalog-api/internal/repository"
)

var (
	errInvalidProductID     = domain.NewError(domain.ErrInvalidInput, "invalid product id")
	errCategoryRequired     = domain.NewError(domain.ErrInvalidInput, "category is required")
	errSearchQueryRequired  = domain.NewError(domain.ErrInvalidInput, "search query is required")
	errProductNameRequired  = domain.NewError(domain.ErrInvalidInput, "product name is required")
	errProductPriceNegative = domain.NewError(domain.ErrInvalidInput, "price must be a positive number")
	errProductQtyNegative   = domain.NewError(domain.ErrInvalidInput, "quantity must be a positive number")
	errProductPriceTooHigh  = domain.NewError(domain.ErrInvalidInput, "price is too large")
	errProductQtyTooHigh    = domain.NewError(domain.ErrInvalidInput, "quantity is too large")
)

// ProductCache is the read cache consulted by Get.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*domain.Product, bool, error)
	Version(ctx context.Context, id int64) (int64, error)
	Set(ctx context.Context, product *domain.Product, version int64) (bool, error)
	Invalidate(ctx context.Context, id int64) error
}

// ProductService implements the catalog use cases.
type ProductService struct {
	products repository.ProductRepository
	cache    ProductCache
	logger   *zap.Logger
	events   publisher
}

// ProductDependencies encapsulates collaborators for the product service.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Cache       ProductCache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewProductService builds the service. Cache may be nil.
func NewProductService(deps ProductDependencies) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products: deps.ProductRepo,
		cache:    deps.Cache,
		logger:   logger,
		events:   newPublisher(deps.Dispatcher, logger),
	}
}

// List returns a page of products, newest first.
func (s *ProductService) List(ctx context.Context, page domain.Page) ([]*domain.Product, error) {
	return s.products.List(ctx, page.Normalize())
}

// ListByCategory returns a page of products in category.
func (s *ProductService) ListByCategory(ctx context.Context, category string, page domain.Page) ([]*domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errCategoryRequired
	}
	return s.products.ListByCategory(ctx, category, page.Normalize())
}

// Search matches query against product names and descriptions.
func (s *ProductService) Search(ctx context.Context, query string, page domain.Page) ([]*domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errSearchQueryRequired
	}
	return s.products.Search(ctx, query, page.Normalize())
}

// Get returns one product, served from the cache when possible. A store read
// that overlaps an update or delete is returned but not cached.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, errInvalidProductID
	}

	fill := false
	var version int64
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("product cache read failed", zap.Int64("product_id", id), zap.Error(err))
		} else if ok {
			return cached, nil
		}
		if version, err = s.cache.Version(ctx, id); err != nil {
			s.logger.Warn("product cache version read failed", zap.Int64("product_id", id), zap.Error(err))
		} else {
			fill = true
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if fill {
		stored, err := s.cache.Set(ctx, product, version)
		switch {
		case err != nil:
			s.logger.Warn("product cache write failed", zap.Int64("product_id", id), zap.Error(err))
		case !stored:
			s.logger.Debug("product changed during read, not cached", zap.Int64("product_id", id))
		}
	}
	return product, nil
}

// Create stores a new product owned by actor.
func (s *ProductService) Create(ctx context.Context, actor *domain.Identity, product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, errProductNameRequired
	}
	if err := checkPrice(product.Price); err != nil {
		return nil, err
	}
	if err := checkQuantity(product.Quantity); err != nil {
		return nil, err
	}

	product.ID = 0
	product.UserID = nil
	if actor != nil {
		creator := actor.ID
		product.UserID = &creator
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.events.publish(ctx, productEvent(events.EventProductCreated, actor, product.ID, product.Name))
	return product, nil
}

// Update applies patch to product id.
func (s *ProductService) Update(ctx context.Context, actor *domain.Identity, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if id <= 0 {
		return nil, errInvalidProductID
	}
	if patch.Empty() {
		return nil, domain.ErrEmptyPatch
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, errProductNameRequired
		}
		patch.Name = &trimmed
	}
	if patch.Price != nil {
		if err := checkPrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.Quantity != nil {
		if err := checkQuantity(*patch.Quantity); err != nil {
			return nil, err
		}
	}

	product, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, productEvent(events.EventProductUpdated, actor, product.ID, product.Name))
	return product, nil
}

// Delete removes product id.
func (s *ProductService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	if id <= 0 {
		return errInvalidProductID
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.events.publish(ctx, productEvent(events.EventProductDeleted, actor, id, ""))
	return nil
}

func checkPrice(price float64) error {
	switch {
	case price < 0:
		return errProductPriceNegative
	case price > domain.MaxProductPrice:
		return errProductPriceTooHigh
	}
	return nil
}

func checkQuantity(quantity int) error {
	switch {
	case quantity < 0:
		return errProductQtyNegative
	case quantity > domain.MaxProductQuantity:
		return errProductQtyTooHigh
	}
	return nil
}

func productEvent(eventType events.EventType, actor *domain.Identity, productID int64, name string) events.Event {
	event := events.Event{
		Type:    eventType,
		Payload: events.ProductChangedPayload{ProductID: productID, Name: name},
	}
	if actor != nil {
		actorID := actor.ID
		event.Actor = events.Actor{UserID: &actorID, Role: actor.Role}
	}
	return event
}
