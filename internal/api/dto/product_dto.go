package dto

import (
	"time"

	"github.com/spec-kit/catalog-api/internal/domain"
)

// CreateProductRequest payload for new products.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"required,gte=0,lte=9999999999.99"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0,lte=2147483647"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=2048"`
}

// UpdateProductRequest payload for partial updates. Absent fields are unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0,lte=9999999999.99"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0,lte=2147483647"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=2048"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    *string   `json:"category"`
	ImageURL    *string   `json:"imageUrl"`
	UserID      *int64    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToDomain converts the create payload.
func (r CreateProductRequest) ToDomain() *domain.Product {
	product := &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
	}
	if r.Price != nil {
		product.Price = *r.Price
	}
	if r.Quantity != nil {
		product.Quantity = *r.Quantity
	}
	return product
}

// ToPatch converts the update payload.
func (r UpdateProductRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
	}
}

// NewProductResponse maps a product for output.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProductListResponse maps a slice of products.
func NewProductListResponse(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
