// internal/domain/dashboard/entity.go
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownSection  = errors.New("unknown dashboard section")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrSyncFailed      = errors.New("failed to fetch products")
	ErrInvalidProduct  = errors.New("title, price and category are required")
)

// Section is one tab of the dashboard
type Section string

const (
	SectionHandmade Section = "Handmade"
	SectionKids     Section = "Kids"
	SectionMen      Section = "Men"
	SectionWomen    Section = "Women"
)

// Sections in display order
var Sections = []Section{SectionHandmade, SectionKids, SectionMen, SectionWomen}

// chartColors pairs with Sections by index
var chartColors = []string{"#28a745", "#ffc107", "#17a2b8", "#dc3545"}

// ParseSection matches a section name case-insensitively
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if strings.EqualFold(string(sec), strings.TrimSpace(s)) {
			return sec, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Product is a dashboard-managed product record
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Description string  `json:"description,omitempty"`
}

// mergeKey is the identity used when merging fetched records
func (p Product) mergeKey() string {
	return p.Title + "\x00" + p.Category
}

// Order is a dashboard order referencing a product of the same section
type Order struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"created_at"`
}

// Products holds every section's product collection
type Products map[Section][]Product

// Orders holds every section's order collection
type Orders map[Section][]Order

// fill makes sure every section is present
func (p Products) fill() Products {
	if p == nil {
		p = make(Products, len(Sections))
	}
	for _, sec := range Sections {
		if p[sec] == nil {
			p[sec] = []Product{}
		}
	}
	return p
}

func (o Orders) fill() Orders {
	if o == nil {
		o = make(Orders, len(Sections))
	}
	for _, sec := range Sections {
		if o[sec] == nil {
			o[sec] = []Order{}
		}
	}
	return o
}

// ChartPoint is one bar/slice of the overview charts
type ChartPoint struct {
	Name     Section `json:"name"`
	Products int     `json:"products"`
	Orders   int     `json:"orders"`
	Color    string  `json:"color"`
}

// Overview is everything the dashboard view shows
type Overview struct {
	Sections []Section    `json:"sections"`
	Products Products     `json:"products"`
	Orders   Orders       `json:"orders"`
	Charts   []ChartPoint `json:"charts"`
}

// AddProductRequest represents the add product form. Price must be positive.
type AddProductRequest struct {
	Title    string  `json:"title" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required"`
}

// AddOrderRequest represents add order request
type AddOrderRequest struct {
	ProductID string `json:"productId" binding:"required"`
}
