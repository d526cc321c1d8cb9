// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts   *cart.Service
	catalog *catalog.Service
	log     *logrus.Entry
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, catalogService *catalog.Service, log *logrus.Entry) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogService,
		log:     log,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	snapshot, err := h.carts.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		serverError(c, h.log, "Failed to retrieve cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    snapshot,
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	count, err := h.carts.GetCartItemCount(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		serverError(c, h.log, "Failed to retrieve cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    gin.H{"count": count},
	})
}

// AddToCart handles POST /cart/items. The product must have been listed to
// the session; its listed copy is what the cart keeps.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)

	p, err := h.catalog.Lookup(ctx, sessionID, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNoData) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No data found",
			})
			return
		}
		serverError(c, h.log, "Failed to retrieve product", err)
		return
	}

	snapshot, err := h.carts.AddToCart(ctx, sessionID, p)
	if err != nil {
		serverError(c, h.log, "Failed to add item to cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product added to cart successfully",
		"data":    snapshot,
		"event":   cart.Event{Type: cart.EventAdded, Line: lineFor(snapshot, p.ID)},
	})
}

// UpdateCartItem handles PUT /cart/items/:id. Quantities below 1 leave the
// line unchanged.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	snapshot, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.GetSessionID(c), catalog.ProductID(c.Param("id")), req.Quantity)
	if err != nil {
		serverError(c, h.log, "Failed to update cart item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    snapshot,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	snapshot, err := h.carts.RemoveFromCart(c.Request.Context(), middleware.GetSessionID(c), catalog.ProductID(c.Param("id")))
	if err != nil {
		serverError(c, h.log, "Failed to remove item from cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    snapshot,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.ClearCart(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		serverError(c, h.log, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func lineFor(snapshot *cart.Cart, id catalog.ProductID) cart.Line {
	for _, l := range snapshot.Lines {
		if l.ProductID == id {
			return l
		}
	}
	return cart.Line{}
}
