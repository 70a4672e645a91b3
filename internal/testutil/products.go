package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/catalog-api/internal/domain"
)

// ProductStore is an in-memory repository.ProductRepository.
type ProductStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Product
	clock  time.Time

	// Reads counts GetByID calls, to observe cache hits.
	Reads int
	// AfterRead, when set, runs after GetByID has taken its snapshot and
	// released the lock.
	AfterRead func(id int64)
}

// NewProductStore returns an empty store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		byID:  make(map[int64]domain.Product),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *ProductStore) Create(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	// Each insert is one second newer than the last so ordering is stable.
	s.clock = s.clock.Add(time.Second)
	product.ID = s.nextID
	product.CreatedAt = s.clock
	product.UpdatedAt = s.clock
	s.byID[product.ID] = *product
	return nil
}

func (s *ProductStore) Update(_ context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	patch.Apply(&product)
	s.clock = s.clock.Add(time.Second)
	product.UpdatedAt = s.clock
	s.byID[id] = product
	return &product, nil
}

func (s *ProductStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	s.Reads++
	product, ok := s.byID[id]
	hook := s.AfterRead
	s.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (s *ProductStore) List(_ context.Context, page domain.Page) ([]*domain.Product, error) {
	return s.filter(page, func(domain.Product) bool { return true }), nil
}

func (s *ProductStore) ListByCategory(_ context.Context, category string, page domain.Page) ([]*domain.Product, error) {
	return s.filter(page, func(p domain.Product) bool {
		return p.Category != nil && *p.Category == category
	}), nil
}

func (s *ProductStore) Search(_ context.Context, query string, page domain.Page) ([]*domain.Product, error) {
	needle := strings.ToLower(query)
	return s.filter(page, func(p domain.Product) bool {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return true
		}
		return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle)
	}), nil
}

func (s *ProductStore) filter(page domain.Page, match func(domain.Product) bool) []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*domain.Product, 0, len(s.byID))
	for _, p := range s.byID {
		if match(p) {
			product := p
			matched = append(matched, &product)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if page.Offset >= len(matched) {
		return []*domain.Product{}
	}
	matched = matched[page.Offset:]
	if page.Limit > 0 && page.Limit < len(matched) {
		matched = matched[:page.Limit]
	}
	return matched
}
