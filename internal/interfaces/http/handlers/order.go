// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// OrderHandler serves order confirmations and their receipts
type OrderHandler struct {
	orders *order.Service
	pdf    *pdf.Service
	log    *logrus.Entry
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, pdfService *pdf.Service, log *logrus.Entry) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		pdf:    pdfService,
		log:    log,
	}
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.find(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// GetReceipt handles GET /orders/:id/receipt. With ?format=html the page is
// returned as is, without PDF conversion.
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, ok := h.find(c)
	if !ok {
		return
	}

	if c.Query("format") == "html" {
		page, err := h.pdf.RenderHTML(o, time.Now())
		if err != nil {
			serverError(c, h.log, "Failed to generate receipt", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	pdfBuffer, err := h.pdf.GenerateReceipt(o)
	if err != nil {
		serverError(c, h.log, "Failed to generate receipt", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

func (h *OrderHandler) find(c *gin.Context) (*order.Order, bool) {
	o, err := h.orders.GetOrder(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return nil, false
		}
		serverError(c, h.log, "Failed to retrieve order", err)
		return nil, false
	}
	return o, true
}
