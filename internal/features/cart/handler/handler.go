package handler

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/features/cart/domain"
	"storefront/internal/features/cart/ports"
	catalog "storefront/internal/features/catalog/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	carts ports.CartModel
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts ports.CartModel) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItemRequest represents the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartLineView is a single priced row of the cart screen.
type CartLineView struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" swaggertype:"number"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal" swaggertype:"number"`
}

// CartView is the cart screen payload.
type CartView struct {
	CartID string          `json:"cart_id"`
	Items  []CartLineView  `json:"items"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total" swaggertype:"number"`
}

// TotalView carries only the cart total.
type TotalView struct {
	Total decimal.Decimal `json:"total" swaggertype:"number"`
}

// NewCartView maps a quote to its view.
func NewCartView(q *domain.Quote) CartView {
	view := CartView{
		CartID: q.CartID,
		Items:  make([]CartLineView, 0, len(q.Lines)),
		Count:  q.Count,
		Total:  q.Total,
	}
	for _, l := range q.Lines {
		view.Items = append(view.Items, CartLineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal,
		})
	}
	return view
}

// RegisterRoutes mounts the cart routes.
func (h *CartHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/carts/:cartId")
	g.Get("/", h.GetCart)
	g.Get("/total", h.GetTotal)
	g.Post("/items", h.AddItem)
	g.Delete("/items/:productId", h.RemoveItem)
	g.Delete("/", h.ClearCart)
}

// GetCart handles GET /carts/:cartId.
// @Summary Get cart
// @Description Returns the cart with every line priced at the current catalog price.
// @Tags Cart
// @Produce json
// @Param cartId path string true "Cart ID"
// @Success 200 {object} CartView
// @Failure 404 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /carts/{cartId} [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	return h.renderCart(c, c.Params("cartId"))
}

// GetTotal handles GET /carts/:cartId/total.
// @Summary Get cart total
// @Tags Cart
// @Produce json
// @Param cartId path string true "Cart ID"
// @Success 200 {object} TotalView
// @Failure 404 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /carts/{cartId}/total [get]
func (h *CartHandler) GetTotal(c *fiber.Ctx) error {
	total, err := h.carts.GetTotal(c.UserContext(), c.Params("cartId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(TotalView{Total: total})
}

// AddItem handles POST /carts/:cartId/items.
// @Summary Add product to cart
// @Description Adds units of a product. A product already in the cart has its quantity increased.
// @Tags Cart
// @Accept json
// @Produce json
// @Param cartId path string true "Cart ID"
// @Param item body AddItemRequest true "Product and quantity"
// @Success 200 {object} CartView
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /carts/{cartId}/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cartID := c.Params("cartId")
	if _, err := h.carts.AddItem(c.UserContext(), cartID, req.ProductID, req.Quantity); err != nil {
		return h.fail(c, err)
	}
	return h.renderCart(c, cartID)
}

// RemoveItem handles DELETE /carts/:cartId/items/:productId.
// @Summary Remove product from cart
// @Description Removes the product line whatever its quantity.
// @Tags Cart
// @Produce json
// @Param cartId path string true "Cart ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} CartView
// @Failure 400 {object} server.ErrorResponse
// @Router /carts/{cartId}/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	cartID := c.Params("cartId")
	if _, err := h.carts.RemoveItem(c.UserContext(), cartID, c.Params("productId")); err != nil {
		return h.fail(c, err)
	}
	return h.renderCart(c, cartID)
}

// ClearCart handles DELETE /carts/:cartId.
// @Summary Clear cart
// @Tags Cart
// @Param cartId path string true "Cart ID"
// @Success 204
// @Failure 500 {object} server.ErrorResponse
// @Router /carts/{cartId} [delete]
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.carts.Clear(c.UserContext(), c.Params("cartId")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *CartHandler) renderCart(c *fiber.Ctx, cartID string) error {
	quote, err := h.carts.GetQuote(c.UserContext(), cartID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(NewCartView(quote))
}

func (h *CartHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCartID):
		return server.Fail(c, http.StatusBadRequest, "Cart ID is required")
	case errors.Is(err, domain.ErrInvalidProductID), errors.Is(err, catalog.ErrInvalidProductID):
		return server.Fail(c, http.StatusBadRequest, "Product ID is invalid")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return server.Fail(c, http.StatusBadRequest, "Quantity must be greater than zero")
	case errors.Is(err, domain.ErrQuantityTooLarge):
		return server.Fail(c, http.StatusBadRequest, fmt.Sprintf("Quantity must not exceed %d", domain.MaxQuantity))
	case errors.Is(err, catalog.ErrProductNotFound):
		return server.Fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrProductNotPurchasable):
		return server.Fail(c, http.StatusUnprocessableEntity, "Product is not for sale")
	}

	logger.Get().Error("Cart operation failed",
		zap.String("cart_id", c.Params("cartId")),
		zap.String("ray_id", server.RayID(c)),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}
