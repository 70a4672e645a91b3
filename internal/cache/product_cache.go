package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/catalog-api/internal/domain"
)

const (
	defaultProductTTL = 5 * time.Minute
	// Outlives any in-flight read by a wide margin.
	versionTTL = 24 * time.Hour
)

// ProductCache keeps single products in Redis.
// Key format: product:<id>, with its eviction counter at product:<id>:version
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache wraps client. A nil client yields a cache that always misses.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = defaultProductTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

type cachedProduct struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    *string   `json:"category,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	UserID      *int64    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Get returns the cached product; ok is false on a miss.
func (c *ProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("product cache get: %w", err)
	}

	var entry cachedProduct
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("product cache decode: %w", err)
	}
	return &domain.Product{
		ID:          entry.ID,
		Name:        entry.Name,
		Description: entry.Description,
		Price:       entry.Price,
		Quantity:    entry.Quantity,
		Category:    entry.Category,
		ImageURL:    entry.ImageURL,
		UserID:      entry.UserID,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}, true, nil
}

// Version returns the eviction counter for id. Pass it to Set so a fill that
// raced an Invalidate is dropped.
func (c *ProductCache) Version(ctx context.Context, id int64) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("product cache version: %w", err)
	}
	return v, nil
}

// Set stores product until the TTL elapses, provided no Invalidate ran since
// version was read. stored reports whether the entry was written.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product, version int64) (bool, error) {
	if c == nil || c.client == nil || product == nil {
		return false, nil
	}
	raw, err := json.Marshal(cachedProduct{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Category:    product.Category,
		ImageURL:    product.ImageURL,
		UserID:      product.UserID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("product cache encode: %w", err)
	}

	vkey := versionKey(product.ID)
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(product.ID), raw, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, vkey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("product cache set: %w", err)
	}
	return stored, nil
}

// Invalidate drops the entry for id and bumps its version.
func (c *ProductCache) Invalidate(ctx context.Context, id int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionTTL)
		pipe.Del(ctx, key(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("product cache invalidate: %w", err)
	}
	return nil
}

func key(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func versionKey(id int64) string {
	return fmt.Sprintf("product:%d:version", id)
}
