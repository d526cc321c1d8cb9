// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler drives the checkout flow
type CheckoutHandler struct {
	checkout *checkout.Service
	log      *logrus.Entry
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, log *logrus.Entry) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		log:      log,
	}
}

// Begin handles POST /checkout
func (h *CheckoutHandler) Begin(c *gin.Context) {
	var req checkout.BeginCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	flow, err := h.checkout.Begin(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		h.fail(c, err, "Failed to start checkout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout started",
		"data":    flow,
	})
}

// Get handles GET /checkout
func (h *CheckoutHandler) Get(c *gin.Context) {
	flow, err := h.checkout.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, "Failed to retrieve checkout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout retrieved successfully",
		"data":    flow,
	})
}

// UpdateDetails handles PUT /checkout/details
func (h *CheckoutHandler) UpdateDetails(c *gin.Context) {
	var req checkout.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	flow, err := h.checkout.UpdateDetails(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		h.fail(c, err, "Failed to update details")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Details updated successfully",
		"data":    flow,
	})
}

// SetPaymentMethod handles PUT /checkout/payment-method
func (h *CheckoutHandler) SetPaymentMethod(c *gin.Context) {
	var req checkout.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	flow, err := h.checkout.SetPaymentMethod(c.Request.Context(), middleware.GetSessionID(c), req.PaymentMethod)
	if err != nil {
		h.fail(c, err, "Failed to update payment method")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method updated successfully",
		"data":    flow,
	})
}

// Proceed handles POST /checkout/proceed
func (h *CheckoutHandler) Proceed(c *gin.Context) {
	flow, err := h.checkout.Proceed(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, "Failed to proceed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Please confirm your order",
		"data":    flow,
	})
}

// Cancel handles POST /checkout/cancel
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	flow, err := h.checkout.Cancel(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, "Failed to cancel")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Confirmation cancelled",
		"data":    flow,
	})
}

// Confirm handles POST /checkout/confirm
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	flow, placed, err := h.checkout.Confirm(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err, "Failed to confirm order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order confirmed",
		"data": gin.H{
			"checkout": flow,
			"order":    placed,
		},
	})
}

func (h *CheckoutHandler) fail(c *gin.Context, err error, msg string) {
	var status int
	switch {
	case errors.Is(err, checkout.ErrNoCheckout):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrInvalidTransition), errors.Is(err, checkout.ErrCartChanged):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrDetailsIncomplete):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidPayment):
		status = http.StatusBadRequest
	default:
		serverError(c, h.log, msg, err)
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
