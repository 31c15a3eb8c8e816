package handler

import (
	"errors"
	"net/http"

	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	cart "storefront/internal/features/cart/domain"
	catalog "storefront/internal/features/catalog/domain"
	"storefront/internal/features/checkout/domain"
	"storefront/internal/features/checkout/ports"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutHandler handles the two checkout steps and order submission.
type CheckoutHandler struct {
	orders ports.OrderModel
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(orders ports.OrderModel) *CheckoutHandler {
	return &CheckoutHandler{orders: orders}
}

// DeliveryRequest is the body of the delivery step.
type DeliveryRequest struct {
	Payment string `json:"payment"`
	Address string `json:"address"`
}

// ContactsRequest is the body of the contacts step.
type ContactsRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CheckoutView is the checkout form payload.
type CheckoutView struct {
	CartID  string      `json:"cart_id"`
	Step    domain.Step `json:"step" swaggertype:"string" enums:"delivery,contacts,ready"`
	Payment string      `json:"payment"`
	Address string      `json:"address"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
}

// SuccessView is the order confirmation screen payload.
type SuccessView struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total" swaggertype:"number"`
}

// NewCheckoutView maps a draft to its view.
func NewCheckoutView(c *domain.Checkout) CheckoutView {
	return CheckoutView{
		CartID:  c.CartID,
		Step:    c.Step(),
		Payment: string(c.PaymentMethod),
		Address: c.DeliveryAddress,
		Email:   c.ContactEmail,
		Phone:   c.ContactPhone,
	}
}

// RegisterRoutes mounts the checkout routes.
func (h *CheckoutHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/checkout/:cartId")
	g.Get("/", h.GetCheckout)
	g.Put("/delivery", h.SetDelivery)
	g.Put("/contacts", h.SetContacts)
	g.Post("/submit", h.Submit)
}

// GetCheckout handles GET /checkout/:cartId.
// @Summary Get checkout draft
// @Description Returns the draft and the step the shopper is on.
// @Tags Checkout
// @Produce json
// @Param cartId path string true "Cart ID"
// @Success 200 {object} CheckoutView
// @Failure 502 {object} server.ErrorResponse
// @Router /checkout/{cartId} [get]
func (h *CheckoutHandler) GetCheckout(c *fiber.Ctx) error {
	draft, err := h.orders.GetCheckout(c.UserContext(), c.Params("cartId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(NewCheckoutView(draft))
}

// SetDelivery handles PUT /checkout/:cartId/delivery.
// @Summary Delivery step
// @Description Sets the payment method and delivery address.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param cartId path string true "Cart ID"
// @Param delivery body DeliveryRequest true "Payment method (online or cash) and address"
// @Success 200 {object} CheckoutView
// @Failure 400 {object} server.ErrorResponse
// @Router /checkout/{cartId}/delivery [put]
func (h *CheckoutHandler) SetDelivery(c *fiber.Ctx) error {
	var req DeliveryRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	method, err := domain.ParsePaymentMethod(req.Payment)
	if err != nil {
		return h.fail(c, err)
	}

	draft, err := h.orders.SetDelivery(c.UserContext(), c.Params("cartId"), method, req.Address)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(NewCheckoutView(draft))
}

// SetContacts handles PUT /checkout/:cartId/contacts.
// @Summary Contacts step
// @Description Sets email and phone. Only allowed once the delivery step is complete.
// @Tags Checkout
// @Accept json
// @Produce json
// @Param cartId path string true "Cart ID"
// @Param contacts body ContactsRequest true "Email and phone"
// @Success 200 {object} CheckoutView
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /checkout/{cartId}/contacts [put]
func (h *CheckoutHandler) SetContacts(c *fiber.Ctx) error {
	var req ContactsRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	draft, err := h.orders.SetContactInfo(c.UserContext(), c.Params("cartId"), req.Email, req.Phone)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(NewCheckoutView(draft))
}

// Submit handles POST /checkout/:cartId/submit.
// @Summary Submit order
// @Description Validates the draft and cart, then places the order with the store.
// @Tags Checkout
// @Produce json
// @Param cartId path string true "Cart ID"
// @Success 200 {object} SuccessView
// @Failure 409 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /checkout/{cartId}/submit [post]
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	receipt, err := h.orders.SubmitOrder(c.UserContext(), c.Params("cartId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(SuccessView{ID: receipt.OrderID, Total: receipt.Total})
}

func (h *CheckoutHandler) fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(http.StatusUnprocessableEntity).JSON(server.ErrorResponse{
			Message: "Order is incomplete",
			RayID:   server.RayID(c),
			Missing: verr.Missing,
		})
	}

	switch {
	case errors.Is(err, cart.ErrInvalidCartID):
		return server.Fail(c, http.StatusBadRequest, "Cart ID is required")
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		return server.Fail(c, http.StatusBadRequest, "Payment method must be online or cash")
	case errors.Is(err, domain.ErrInvalidAddress):
		return server.Fail(c, http.StatusBadRequest, "Delivery address is required")
	case errors.Is(err, domain.ErrInvalidEmail):
		return server.Fail(c, http.StatusBadRequest, "Email is invalid")
	case errors.Is(err, domain.ErrInvalidPhone):
		return server.Fail(c, http.StatusBadRequest, "Phone is invalid")
	case errors.Is(err, domain.ErrStepOutOfOrder):
		return server.Fail(c, http.StatusConflict, "Complete the delivery step first")
	case errors.Is(err, domain.ErrOrderRejected):
		return server.Fail(c, http.StatusConflict, "Order was rejected by the store")
	case errors.Is(err, cart.ErrProductNotPurchasable), errors.Is(err, catalog.ErrProductNotFound):
		return server.Fail(c, http.StatusConflict, "Cart contains products that are no longer for sale")
	}

	logger.Get().Error("Checkout failed",
		zap.String("cart_id", c.Params("cartId")),
		zap.String("ray_id", server.RayID(c)),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusBadGateway, "Store is unavailable")
}
