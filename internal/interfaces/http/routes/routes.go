// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// Handlers groups every handler the API exposes
type Handlers struct {
	Auth      *handlers.AuthHandler
	Catalog   *handlers.CatalogHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Order     *handlers.OrderHandler
	Dashboard *handlers.DashboardHandler
}

// SetupRoutes sets up all API routes under rg. Every route already has a
// session; gate decides who gets past the login and dashboard guards.
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, gate middleware.Gate) {
	SetupAuthRoutes(rg, h, gate)

	protected := rg.Group("")
	protected.Use(middleware.RequireLogin(gate))
	{
		protected.GET("/home", h.Catalog.Home)
		SetupCatalogRoutes(protected, h)
		SetupCartRoutes(protected, h)
		SetupCheckoutRoutes(protected, h)
		SetupOrderRoutes(protected, h)
		SetupDashboardRoutes(protected, h, gate)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, gate middleware.Gate) {
	rg.GET("/session", h.Auth.Status)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)

		// Protected auth endpoints
		auth.POST("/logout", middleware.RequireLogin(gate), h.Auth.Logout)
	}
}

// SetupCatalogRoutes sets up category listings and product pages
func SetupCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/catalog/:category", h.Catalog.List)
	rg.GET("/products/:id", h.Catalog.GetProduct)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.GET("/count", h.Cart.GetCartCount)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:id", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:id", h.Cart.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up the checkout flow
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers) {
	checkout := rg.Group("/checkout")
	{
		checkout.POST("", h.Checkout.Begin)
		checkout.GET("", h.Checkout.Get)
		checkout.PUT("/details", h.Checkout.UpdateDetails)
		checkout.PUT("/payment-method", h.Checkout.SetPaymentMethod)
		checkout.POST("/proceed", h.Checkout.Proceed)
		checkout.POST("/cancel", h.Checkout.Cancel)
		checkout.POST("/confirm", h.Checkout.Confirm)
	}
}

// SetupOrderRoutes sets up order confirmation routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers) {
	orders := rg.Group("/orders")
	{
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/receipt", h.Order.GetReceipt)
	}
}

// SetupDashboardRoutes sets up the admin dashboard
func SetupDashboardRoutes(rg *gin.RouterGroup, h *Handlers, gate middleware.Gate) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.RequireDashboardAccess(gate))
	{
		dashboard.GET("", h.Dashboard.Overview)
		dashboard.GET("/charts", h.Dashboard.Charts)
		dashboard.POST("/sync", h.Dashboard.Sync)

		dashboard.GET("/:section/products", h.Dashboard.ListProducts)
		dashboard.POST("/:section/products", h.Dashboard.AddProduct)
		dashboard.DELETE("/:section/products/:id", h.Dashboard.DeleteProduct)

		dashboard.GET("/:section/orders", h.Dashboard.ListOrders)
		dashboard.POST("/:section/orders", h.Dashboard.AddOrder)
		dashboard.DELETE("/:section/orders/:id", h.Dashboard.DeleteOrder)
	}
}
