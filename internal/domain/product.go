package domain

import (
	"math"
	"time"
)

// Column bounds of the products table: price is NUMERIC(12,2), quantity INTEGER.
const (
	MaxProductPrice    = 9999999999.99
	MaxProductQuantity = math.MaxInt32
)

// Product is a catalog entry.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       float64
	Quantity    int
	Category    *string
	ImageURL    *string
	UserID      *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductPatch carries the fields of a partial update. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Quantity    *int
	Category    *string
	ImageURL    *string
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Price == nil &&
		p.Quantity == nil &&
		p.Category == nil &&
		p.ImageURL == nil
}

// Apply copies the set fields of the patch onto product.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.Category != nil {
		product.Category = p.Category
	}
	if p.ImageURL != nil {
		product.ImageURL = p.ImageURL
	}
}

// Page bounds a listing query.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
