// internal/domain/catalog/entity.go
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLoadFailed is returned when any source of a category batch fails
	ErrLoadFailed = errors.New("failed to load products")
	// ErrUnknownCategory is returned for a category the shop does not list
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNoData is returned when a product was never listed to the session
	ErrNoData = errors.New("no data found")
)

// Category is one of the shop's listings
type Category string

const (
	CategoryMen      Category = "men"
	CategoryWomen    Category = "women"
	CategoryKids     Category = "kids"
	CategoryHandmade Category = "handmade"
)

// Categories lists every category in display order
var Categories = []Category{CategoryMen, CategoryWomen, CategoryKids, CategoryHandmade}

// ParseCategory accepts any casing of a known category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ProductID is the source-assigned identifier. Sources use both numbers and
// strings; both decode into the same canonical string.
type ProductID string

// UnmarshalJSON accepts a JSON string or number
func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid product id %s", b)
	}
	*id = ProductID(n.String())
	return nil
}

// Product is the canonical product shape every source is normalized into
type Product struct {
	ID          ProductID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Thumbnail   string    `json:"thumbnail"`
	Images      []string  `json:"images,omitempty"`
	Description string    `json:"description"`
}

// DetailImage is the image shown on the product page: the first gallery
// image when there is one, the thumbnail otherwise.
func (p Product) DetailImage() string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return p.Thumbnail
}

// Summary is the first ten words of the description, as listings show it
func (p Product) Summary() string {
	if p.Description == "" {
		return "No description available."
	}
	words := strings.Fields(p.Description)
	if len(words) > 10 {
		words = words[:10]
	}
	return strings.Join(words, " ") + "..."
}

// sourceRecord is the union of the static asset and remote API shapes
type sourceRecord struct {
	ID          ProductID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Thumbnail   string    `json:"thumbnail"`
	Images      []string  `json:"images"`
	Description string    `json:"description"`
}

func (r sourceRecord) normalize() (Product, bool) {
	if r.ID == "" || r.Price < 0 {
		return Product{}, false
	}

	thumb := r.Thumbnail
	if thumb == "" && len(r.Images) > 0 {
		thumb = r.Images[0]
	}

	return Product{
		ID:          r.ID,
		Title:       r.Title,
		Category:    r.Category,
		Price:       r.Price,
		Thumbnail:   thumb,
		Images:      r.Images,
		Description: r.Description,
	}, true
}

// PriceBracket selects products by price
type PriceBracket string

const (
	PriceAll  PriceBracket = "all"
	PriceLow  PriceBracket = "low"
	PriceMid  PriceBracket = "mid"
	PriceHigh PriceBracket = "high"
)

// SortOrder orders products by price
type SortOrder string

const (
	SortNone SortOrder = "none"
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Query holds the listing controls
type Query struct {
	Price PriceBracket `form:"price"`
	Sort  SortOrder    `form:"sort"`
}

// Bounds are the bracket edges of a category: low is below Low, mid is
// Low..High inclusive, high is above High.
type Bounds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Listing is what a category view renders
type Listing struct {
	Category Category  `json:"category"`
	Query    Query     `json:"query"`
	Bounds   Bounds    `json:"bounds"`
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
