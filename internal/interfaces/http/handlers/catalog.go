// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles the home page, category listings and product pages
type CatalogHandler struct {
	catalog *catalog.Service
	log     *logrus.Entry
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, log *logrus.Entry) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalogService,
		log:     log,
	}
}

// section is one entry of the home page
type section struct {
	Category catalog.Category `json:"category"`
	Path     string           `json:"path"`
	Bounds   catalog.Bounds   `json:"bounds"`
}

// productCard is a listing entry with its shortened description
type productCard struct {
	catalog.Product
	Summary string `json:"summary"`
}

// productPage is what the product details view shows
type productPage struct {
	catalog.Product
	Image string `json:"image"`
}

// Home handles GET /home
func (h *CatalogHandler) Home(c *gin.Context) {
	sections := make([]section, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		sections = append(sections, section{
			Category: cat,
			Path:     "/api/v1/catalog/" + string(cat),
			Bounds:   catalog.BoundsFor(cat),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Home retrieved successfully",
		"data": gin.H{
			"sections": sections,
		},
	})
}

// List handles GET /catalog/:category
func (h *CatalogHandler) List(c *gin.Context) {
	cat, err := catalog.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
		})
		return
	}

	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidRequest(c, err)
		return
	}

	listing, err := h.catalog.List(c.Request.Context(), middleware.GetSessionID(c), cat, q)
	if err != nil {
		if errors.Is(err, catalog.ErrLoadFailed) {
			h.log.WithError(err).WithField("category", cat).Error("Failed to load products")
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "failed to load",
			})
			return
		}
		if errors.Is(err, catalog.ErrUnknownCategory) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Category not found",
			})
			return
		}
		serverError(c, h.log, "Failed to retrieve products", err)
		return
	}

	cards := make([]productCard, 0, len(listing.Products))
	for _, p := range listing.Products {
		cards = append(cards, productCard{Product: p, Summary: p.Summary()})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"category": listing.Category,
			"query":    listing.Query,
			"bounds":   listing.Bounds,
			"products": cards,
			"total":    listing.Total,
		},
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.Lookup(c.Request.Context(), middleware.GetSessionID(c), catalog.ProductID(c.Param("id")))
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

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    productPage{Product: p, Image: p.DetailImage()},
	})
}
