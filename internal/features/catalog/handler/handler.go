package handler

import (
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/features/catalog/domain"
	"storefront/internal/features/catalog/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogHandler renders the catalog and product detail views.
type CatalogHandler struct {
	products ports.ProductModel
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(products ports.ProductModel) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// ProductView is the product card and detail screen payload.
type ProductView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price" swaggertype:"number"`
	Image       string              `json:"image"`
	Category    string              `json:"category"`
	Purchasable bool                `json:"purchasable"`
}

// CatalogView is the catalog screen payload.
type CatalogView struct {
	Total int           `json:"total"`
	Items []ProductView `json:"items"`
}

// NewProductView maps a domain product to its view.
func NewProductView(p domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Purchasable: p.Purchasable(),
	}
}

// RegisterRoutes mounts the catalog routes.
func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/:id", h.GetProduct)
}

// ListProducts handles GET /products.
// @Summary List products
// @Description Returns the catalog, optionally filtered by category.
// @Tags Catalog
// @Produce json
// @Param category query string false "Category filter (case-insensitive)"
// @Success 200 {object} CatalogView
// @Failure 502 {object} server.ErrorResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.products.GetProductsByCategory(c.UserContext(), c.Query("category"))
	if err != nil {
		logger.Get().Error("Failed to list products", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, "Catalog is unavailable")
	}

	view := CatalogView{Total: len(products), Items: make([]ProductView, 0, len(products))}
	for _, p := range products {
		view.Items = append(view.Items, NewProductView(p))
	}

	return c.Status(http.StatusOK).JSON(view)
}

// GetProduct handles GET /products/:id.
// @Summary Get product by ID
// @Description Returns the product detail view.
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductView
// @Failure 404 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	product, err := h.products.GetProductByID(c.UserContext(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProductID):
			return server.Fail(c, http.StatusBadRequest, "Product ID is invalid")
		case errors.Is(err, domain.ErrProductNotFound):
			return server.Fail(c, http.StatusNotFound, "Product not found")
		}
		logger.Get().Error("Failed to fetch product",
			zap.String("product_id", id),
			zap.String("ray_id", server.RayID(c)),
			zap.Error(err),
		)
		return server.Fail(c, http.StatusBadGateway, "Catalog is unavailable")
	}

	return c.Status(http.StatusOK).JSON(NewProductView(*product))
}
