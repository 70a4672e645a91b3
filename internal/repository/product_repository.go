package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/catalog-api/internal/domain"
)

// ProductRepository defines persistence access for catalog products.
// Listings are ordered newest first.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page domain.Page) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, category string, page domain.Page) ([]*domain.Product, error)
	Search(ctx context.Context, query string, page domain.Page) ([]*domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, name, description, price, quantity, category, image_url, user_id, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, price, quantity, category, image_url, user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.Category,
		product.ImageURL,
		product.UserID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return mapError(err, domain.ErrProductNotFound)
}

// Update applies the non-nil patch fields in a single statement.
func (r *productRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	const query = `
        UPDATE products SET
            name        = COALESCE($1, name),
            description = COALESCE($2, description),
            price       = COALESCE($3, price),
            quantity    = COALESCE($4, quantity),
            category    = COALESCE($5, category),
            image_url   = COALESCE($6, image_url),
            updated_at  = NOW()
        WHERE id=$7
        RETURNING ` + productColumns

	product, err := scanProduct(r.pool.QueryRow(ctx, query,
		patch.Name,
		patch.Description,
		patch.Price,
		patch.Quantity,
		patch.Category,
		patch.ImageURL,
		id,
	))
	if err != nil {
		return nil, mapError(err, domain.ErrProductNotFound)
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM products WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return mapError(err, domain.ErrProductNotFound)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id=$1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, domain.ErrProductNotFound)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, page domain.Page) ([]*domain.Product, error) {
	const query = `
        SELECT ` + productColumns + `
        FROM products
        ORDER BY created_at DESC, id DESC
        LIMIT $1 OFFSET $2`
	return r.list(ctx, query, page.Limit, page.Offset)
}

func (r *productRepository) ListByCategory(ctx context.Context, category string, page domain.Page) ([]*domain.Product, error) {
	const query = `
        SELECT ` + productColumns + `
        FROM products
        WHERE category=$1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	return r.list(ctx, query, category, page.Limit, page.Offset)
}

// Search matches query case-insensitively anywhere in name or description.
func (r *productRepository) Search(ctx context.Context, query string, page domain.Page) ([]*domain.Product, error) {
	const stmt = `
        SELECT ` + productColumns + `
        FROM products
        WHERE name ILIKE $1 OR description ILIKE $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	return r.list(ctx, stmt, "%"+escapeLike(query)+"%", page.Limit, page.Offset)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, domain.ErrProductNotFound)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(err, domain.ErrProductNotFound)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, domain.ErrProductNotFound)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Quantity,
		&product.Category,
		&product.ImageURL,
		&product.UserID,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
