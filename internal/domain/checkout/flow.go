// internal/domain/checkout/flow.go
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

var (
	ErrDetailsIncomplete = errors.New("please fill in all fields")
	ErrInvalidTransition = errors.New("checkout step not allowed in the current state")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoCheckout        = errors.New("no checkout in progress")
	ErrInvalidPayment    = errors.New("payment method must be cash or online")
	ErrCartChanged       = errors.New("cart changed since checkout started")
)

// State of a checkout flow
type State string

const (
	StateCollectingDetails    State = "collecting_details"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateCompleted            State = "completed"
)

// ParsePaymentMethod accepts cash or online, case-insensitively
func ParsePaymentMethod(s string) (order.PaymentMethod, error) {
	switch m := order.PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case order.PaymentMethodCash, order.PaymentMethodOnline:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPayment, s)
	}
}

// Customer holds the delivery details typed into the checkout form
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Trimmed returns c with surrounding whitespace removed from every field
func (c Customer) Trimmed() Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// Complete reports whether every field is non-blank
func (c Customer) Complete() bool {
	t := c.Trimmed()
	return t.Name != "" && t.Phone != "" && t.Address != ""
}

// Flow is the persisted checkout of one session
type Flow struct {
	State         State               `json:"state"`
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	Customer      Customer            `json:"customer"`
	Lines         []cart.Line         `json:"items"`
	Total         float64             `json:"total"`
	OrderID       string              `json:"order_id,omitempty"`
	StartedAt     time.Time           `json:"started_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
}

// NewFlow starts a flow over a cart snapshot. A non-nil total overrides the
// total derived from the lines.
func NewFlow(method order.PaymentMethod, snapshot *cart.Cart, total *float64, now time.Time) *Flow {
	f := &Flow{
		State:         StateCollectingDetails,
		PaymentMethod: method,
		Lines:         snapshot.Lines,
		Total:         snapshot.Totals.TotalPrice,
		StartedAt:     now,
	}
	if total != nil {
		f.Total = *total
	}
	return f
}

// UpdateDetails replaces the customer details. Editing while the
// confirmation step is open closes it again.
func (f *Flow) UpdateDetails(c Customer) error {
	if f.State == StateCompleted {
		return ErrInvalidTransition
	}
	f.Customer = c
	f.State = StateCollectingDetails
	return nil
}

// SetPaymentMethod changes the payment label
func (f *Flow) SetPaymentMethod(m order.PaymentMethod) error {
	if f.State == StateCompleted {
		return ErrInvalidTransition
	}
	f.PaymentMethod = m
	return nil
}

// Proceed opens the confirmation step once all details are present
func (f *Flow) Proceed() error {
	if f.State != StateCollectingDetails {
		return ErrInvalidTransition
	}
	if !f.Customer.Complete() {
		return ErrDetailsIncomplete
	}
	f.State = StateAwaitingConfirmation
	return nil
}

// Cancel closes the confirmation step; the cart is not touched
func (f *Flow) Cancel() error {
	if f.State != StateAwaitingConfirmation {
		return ErrInvalidTransition
	}
	f.State = StateCollectingDetails
	return nil
}

// Complete marks the flow done with the recorded order
func (f *Flow) Complete(orderID string, now time.Time) error {
	if f.State != StateAwaitingConfirmation {
		return ErrInvalidTransition
	}
	f.State = StateCompleted
	f.OrderID = orderID
	f.CompletedAt = &now
	return nil
}

// TotalCents is the flow total in integer cents
func (f *Flow) TotalCents() int64 {
	return cart.ToCents(f.Total)
}

// BeginCheckoutRequest starts a checkout. An empty cart is rejected even
// when Total is given; Total only overrides the computed sum.
type BeginCheckoutRequest struct {
	PaymentMethod string   `json:"payment_method" binding:"required"`
	Total         *float64 `json:"total,omitempty" binding:"omitempty,gte=0"`
}

// UpdateDetailsRequest carries the customer form; blank fields are allowed
// until Proceed
type UpdateDetailsRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PaymentMethodRequest changes the payment label
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}
