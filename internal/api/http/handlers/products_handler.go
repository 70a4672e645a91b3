package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/catalog-api/internal/api/dto"
	"github.com/spec-kit/catalog-api/internal/api/validation"
	"github.com/spec-kit/catalog-api/internal/auth"
	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/service"
	apperrors "github.com/spec-kit/catalog-api/pkg/util"
)

// ProductsHandler exposes the catalog endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductListResponse(products)})
}

// Search handles GET /api/products/search?query=.
func (h *ProductsHandler) Search(c *fiber.Ctx) error {
	products, err := h.products.Search(c.UserContext(), c.Query("query"), pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductListResponse(products)})
}

// ListByCategory handles GET /api/products/category/:category.
func (h *ProductsHandler) ListByCategory(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return apperrors.NewValidationError("invalid category", nil)
	}
	products, err := h.products.ListByCategory(c.UserContext(), category, pageFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductListResponse(products)})
}

// Get handles GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	product, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	req, ok := validation.FromContext[dto.CreateProductRequest](c)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.products.Create(c.UserContext(), actor(c), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Update handles PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	req, ok := validation.FromContext[dto.UpdateProductRequest](c)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.products.Update(c.UserContext(), actor(c), id, req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Delete handles DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), actor(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "product deleted"}})
}

func productID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid product id", nil)
	}
	return id, nil
}

func pageFromQuery(c *fiber.Ctx) domain.Page {
	return domain.Page{
		Limit:  c.QueryInt("limit", domain.DefaultPageLimit),
		Offset: c.QueryInt("offset", 0),
	}
}

func actor(c *fiber.Ctx) *domain.Identity {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.Identity
}
