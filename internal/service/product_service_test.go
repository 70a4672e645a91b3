package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-api/internal/cache"
	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/events"
	"github.com/spec-kit/catalog-api/internal/service"
	"github.com/spec-kit/catalog-api/internal/testutil"
	"github.com/spec-kit/catalog-api/internal/worker"
)

type productFixture struct {
	svc        *service.ProductService
	store      *testutil.ProductStore
	cache      *cache.ProductCache
	redis      *miniredis.Miniredis
	dispatcher events.Dispatcher
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &productFixture{
		store:      testutil.NewProductStore(),
		cache:      cache.NewProductCache(client, time.Minute),
		redis:      mr,
		dispatcher: events.NewInMemoryDispatcher(),
	}
	logger := testutil.MakeNoopLogger()
	f.svc = service.NewProductService(service.ProductDependencies{
		ProductRepo: f.store,
		Cache:       f.cache,
		Dispatcher:  f.dispatcher,
		Logger:      logger,
	})
	worker.StartCatalogWorkers(f.dispatcher, service.NewAuditService(f.dispatcher, logger), f.cache, logger)
	return f
}

var admin = &domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin}

func strPtr(s string) *string { return &s }

func (f *productFixture) create(t *testing.T, name, category string, price float64) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Price: price, Quantity: 1}
	if category != "" {
		p.Category = strPtr(category)
	}
	created, err := f.svc.Create(context.Background(), admin, p)
	require.NoError(t, err)
	return created
}

func TestProductService_CreateAndGet(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created := f.create(t, "  Laptop  ", "Electronics", 999.5)
	require.NotZero(t, created.ID)
	require.Equal(t, "Laptop", created.Name)
	require.NotNil(t, created.UserID)
	require.Equal(t, admin.ID, *created.UserID)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop", got.Name)
	require.Equal(t, 1, f.store.Reads)

	// Second read is served from Redis.
	got, err = f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 999.5, got.Price)
	require.Equal(t, 1, f.store.Reads)
	require.True(t, f.redis.Exists("product:1"))
}

func TestProductService_CreateValidation(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, admin, &domain.Product{Name: "   ", Price: 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, admin, &domain.Product{Name: "x", Price: -1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, admin, &domain.Product{Name: "x", Quantity: -1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, admin, &domain.Product{Name: "x", Price: 1e10})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, admin, &domain.Product{Name: "x", Quantity: domain.MaxProductQuantity + 1})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Create(ctx, admin, &domain.Product{Name: "x", Price: domain.MaxProductPrice, Quantity: domain.MaxProductQuantity})
	require.NoError(t, err)
}

func TestProductService_GetMissing(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Get(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductService_UpdateEvictsCache(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created := f.create(t, "Phone", "Electronics", 500)
	_, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, f.redis.Exists("product:1"))

	price := 450.0
	updated, err := f.svc.Update(ctx, admin, created.ID, domain.ProductPatch{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 450.0, updated.Price)
	require.Equal(t, "Phone", updated.Name)
	require.False(t, f.redis.Exists("product:1"))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 450.0, got.Price)
}

func TestProductService_UpdateRejections(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	created := f.create(t, "Phone", "", 500)

	_, err := f.svc.Update(ctx, admin, created.ID, domain.ProductPatch{})
	require.ErrorIs(t, err, domain.ErrEmptyPatch)

	_, err = f.svc.Update(ctx, admin, created.ID, domain.ProductPatch{Name: strPtr(" ")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	tooExpensive := 1e10
	_, err = f.svc.Update(ctx, admin, created.ID, domain.ProductPatch{Price: &tooExpensive})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Update(ctx, admin, 999, domain.ProductPatch{Name: strPtr("x")})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductService_DeleteEvictsCache(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created := f.create(t, "Watch", "Wearable", 199)
	_, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, admin, created.ID))
	require.False(t, f.redis.Exists("product:1"))

	_, err = f.svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.ErrorIs(t, f.svc.Delete(ctx, admin, created.ID), domain.ErrProductNotFound)
}

func TestProductService_Listings(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	f.create(t, "Laptop Pro", "Electronics", 1299)
	f.create(t, "Smartphone X", "Electronics", 899)
	f.create(t, "Headphones", "Audio", 249)

	all, err := f.svc.List(ctx, domain.Page{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Headphones", all[0].Name)

	page, err := f.svc.List(ctx, domain.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "Smartphone X", page[0].Name)

	electronics, err := f.svc.ListByCategory(ctx, "Electronics", domain.Page{})
	require.NoError(t, err)
	require.Len(t, electronics, 2)

	found, err := f.svc.Search(ctx, "PRO", domain.Page{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Laptop Pro", found[0].Name)

	_, err = f.svc.Search(ctx, " ", domain.Page{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.ListByCategory(ctx, "", domain.Page{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductService_CacheOutageFallsBackToStore(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	created := f.create(t, "Lamp", "", 20)
	f.redis.Close()

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Lamp", got.Name)
}

func TestProductService_GetOverlappingUpdateIsNotCached(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	created := f.create(t, "Kettle", "", 40)

	newPrice := 35.0
	f.store.AfterRead = func(id int64) {
		f.store.AfterRead = nil
		_, err := f.svc.Update(ctx, admin, id, domain.ProductPatch{Price: &newPrice})
		require.NoError(t, err)
	}

	stale, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 40.0, stale.Price)
	require.False(t, f.redis.Exists("product:1"))

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 35.0, got.Price)
	require.True(t, f.redis.Exists("product:1"))
}

func TestProductService_GetOverlappingDeleteIsNotCached(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	created := f.create(t, "Toaster", "", 25)

	f.store.AfterRead = func(id int64) {
		f.store.AfterRead = nil
		require.NoError(t, f.svc.Delete(ctx, admin, id))
	}

	_, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, f.redis.Exists("product:1"))

	_, err = f.svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
