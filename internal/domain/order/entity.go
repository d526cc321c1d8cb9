// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// PaymentMethod is a label chosen at checkout; no payment is processed
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// Order is the confirmation recorded when a checkout completes
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	SessionID   string      `gorm:"not null;index;size:64" json:"-"`
	Status      OrderStatus `gorm:"not null;default:'confirmed'" json:"status"`

	// Customer details as collected by the checkout form
	CustomerName    string `gorm:"not null;size:255" json:"customer_name"`
	CustomerPhone   string `gorm:"not null;size:32" json:"customer_phone"`
	CustomerAddress string `gorm:"not null;type:text" json:"customer_address"`

	PaymentMethod PaymentMethod `gorm:"not null;size:20" json:"payment_method"`
	TotalAmount   int64         `gorm:"not null" json:"total_amount"` // In cents
	Currency      string        `gorm:"size:3;default:'USD'" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is one cart line frozen into an order
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID  string    `gorm:"not null;index;size:64" json:"product_id"`
	Title      string    `gorm:"not null;size:255" json:"title"`
	Thumbnail  string    `gorm:"size:1024" json:"thumbnail,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`       // Price per unit in cents
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt  time.Time `json:"-"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// BeforeCreate assigns the id and order number when the caller left them empty
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.prepare(time.Now().UTC())
	return nil
}

func (o *Order) prepare(now time.Time) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = o.GenerateOrderNumber(now)
	}
	if o.Status == "" {
		o.Status = OrderStatusConfirmed
	}
}

// GenerateOrderNumber generates a unique order number
func (o *Order) GenerateOrderNumber(now time.Time) string {
	// Format: ORD-YYYYMMDD-XXXXXXXX
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(o.ID.String()[:8]))
}

// GetFormattedTotal returns total amount as float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// ItemCount is the sum of all item quantities
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ItemInput is a line handed over by checkout
type ItemInput struct {
	ProductID string
	Title     string
	Thumbnail string
	Quantity  int
	Price     int64
}

// PlaceOrderRequest carries everything needed to record a confirmation
type PlaceOrderRequest struct {
	SessionID       string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   PaymentMethod
	TotalAmount     int64
	Items           []ItemInput
}
