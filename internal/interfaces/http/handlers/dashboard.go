// internal/interfaces/http/handlers/dashboard.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/dashboard"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// DashboardHandler handles the admin dashboard
type DashboardHandler struct {
	dashboard *dashboard.Service
	log       *logrus.Entry
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboard.Service, log *logrus.Entry) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboardService,
		log:       log,
	}
}

// Overview handles GET /dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		serverError(c, h.log, "Failed to retrieve dashboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard retrieved successfully",
		"data":    overview,
	})
}

// Charts handles GET /dashboard/charts
func (h *DashboardHandler) Charts(c *gin.Context) {
	charts, err := h.dashboard.Charts(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		serverError(c, h.log, "Failed to retrieve charts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Charts retrieved successfully",
		"data":    charts,
	})
}

// Sync handles POST /dashboard/sync
func (h *DashboardHandler) Sync(c *gin.Context) {
	products, err := h.dashboard.Sync(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		if errors.Is(err, dashboard.ErrSyncFailed) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "Failed to fetch products",
			})
			return
		}
		serverError(c, h.log, "Failed to sync products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products synced successfully",
		"data":    products,
	})
}

// ListProducts handles GET /dashboard/:section/products
func (h *DashboardHandler) ListProducts(c *gin.Context) {
	sec, ok := h.section(c)
	if !ok {
		return
	}

	products, err := h.dashboard.ListProducts(c.Request.Context(), middleware.GetSessionID(c), sec)
	if err != nil {
		serverError(c, h.log, "Failed to retrieve products", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// AddProduct handles POST /dashboard/:section/products
func (h *DashboardHandler) AddProduct(c *gin.Context) {
	sec, ok := h.section(c)
	if !ok {
		return
	}

	var req dashboard.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	product, err := h.dashboard.AddProduct(c.Request.Context(), middleware.GetSessionID(c), sec, &req)
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidProduct) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		serverError(c, h.log, "Failed to add product", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product added successfully",
		"data":    product,
	})
}

// DeleteProduct handles DELETE /dashboard/:section/products/:id
func (h *DashboardHandler) DeleteProduct(c *gin.Context) {
	sec, ok := h.section(c)
	if !ok {
		return
	}

	if err := h.dashboard.DeleteProduct(c.Request.Context(), middleware.GetSessionID(c), sec, c.Param("id")); err != nil {
		h.notFoundOr(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ListOrders handles GET /dashboard/:section/orders
func (h *DashboardHandler) ListOrders(c *gin.Context) {
	sec, ok := h.section(c)
	if !ok {
		return
	}

	orders, err := h.dashboard.ListOrders(c.Request.Context(), middleware.GetSessionID(c), sec)
	if err != nil {
		serverError(c, h.log, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// AddOrder handles POST /dashboard/:section/orders
func (h *DashboardHandler) AddOrder(c *gin.Context) {
	sec, ok := h.section(c)
	if !ok {
		return
	}

	var req dashboard.AddOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	o, err := h.dashboard.AddOrder(c.Request.Context(), middleware.GetSessionID(c), sec, req.ProductID)
	if err != nil {
		h.notFoundOr(c, err, "Failed to add order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order added successfully",
		"data":    o,
	})
}

// DeleteOrder handles DELETE /dashboard/:section/orders/:id
func (h *DashboardHandler) DeleteOrder(c *gin.Context) {
	sec, ok := h.section(c)
	if !ok {
		return
	}

	if err := h.dashboard.DeleteOrder(c.Request.Context(), middleware.GetSessionID(c), sec, c.Param("id")); err != nil {
		h.notFoundOr(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order deleted successfully",
	})
}

func (h *DashboardHandler) section(c *gin.Context) (dashboard.Section, bool) {
	sec, err := dashboard.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Section not found",
		})
		return "", false
	}
	return sec, true
}

func (h *DashboardHandler) notFoundOr(c *gin.Context, err error, msg string) {
	if errors.Is(err, dashboard.ErrProductNotFound) || errors.Is(err, dashboard.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}
	serverError(c, h.log, msg, err)
}
