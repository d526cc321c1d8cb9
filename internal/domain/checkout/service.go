// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// Carts is the part of the cart service checkout depends on
type Carts interface {
	GetCart(ctx context.Context, sessionID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// Orders records confirmations
type Orders interface {
	PlaceOrder(ctx context.Context, req *order.PlaceOrderRequest) (*order.Order, error)
}

// Service handles checkout business logic
type Service struct {
	kv     kv.Store
	carts  Carts
	orders Orders
	locks  *kv.Locker
	log    *logrus.Entry
	now    func() time.Time
}

// NewService creates a new checkout service
func NewService(store kv.Store, carts Carts, orders Orders, log *logrus.Entry) *Service {
	return &Service{
		kv:     store,
		carts:  carts,
		orders: orders,
		locks:  kv.NewLocker(),
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Begin starts a new flow from the current cart, replacing any previous one
func (s *Service) Begin(ctx context.Context, sessionID string, req *BeginCheckoutRequest) (*Flow, error) {
	method, err := ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	key := kv.SessionKey(sessionID, kv.KeyCheckout)
	unlock := s.locks.Lock(key)
	defer unlock()

	snapshot, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	if len(snapshot.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	flow := NewFlow(method, snapshot, req.Total, s.now())
	if err := s.save(ctx, key, flow); err != nil {
		return nil, err
	}
	metrics.CheckoutTransitions.WithLabelValues(string(flow.State)).Inc()

	s.log.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"payment_method": method,
		"total":          flow.Total,
	}).Info("Checkout started")
	return flow, nil
}

// Get returns the session's flow
func (s *Service) Get(ctx context.Context, sessionID string) (*Flow, error) {
	return s.load(ctx, sessionID, kv.SessionKey(sessionID, kv.KeyCheckout))
}

// UpdateDetails replaces the customer details
func (s *Service) UpdateDetails(ctx context.Context, sessionID string, req *UpdateDetailsRequest) (*Flow, error) {
	return s.transition(ctx, sessionID, func(f *Flow) error {
		return f.UpdateDetails(Customer{Name: req.Name, Phone: req.Phone, Address: req.Address})
	})
}

// SetPaymentMethod changes the payment label
func (s *Service) SetPaymentMethod(ctx context.Context, sessionID, method string) (*Flow, error) {
	m, err := ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, sessionID, func(f *Flow) error {
		return f.SetPaymentMethod(m)
	})
}

// Proceed opens the confirmation step
func (s *Service) Proceed(ctx context.Context, sessionID string) (*Flow, error) {
	return s.transition(ctx, sessionID, (*Flow).Proceed)
}

// Cancel closes the confirmation step
func (s *Service) Cancel(ctx context.Context, sessionID string) (*Flow, error) {
	return s.transition(ctx, sessionID, (*Flow).Cancel)
}

// Confirm records the order, clears the cart and completes the flow
func (s *Service) Confirm(ctx context.Context, sessionID string) (*Flow, *order.Order, error) {
	key := kv.SessionKey(sessionID, kv.KeyCheckout)
	unlock := s.locks.Lock(key)
	defer unlock()

	flow, err := s.load(ctx, sessionID, key)
	if err != nil {
		return nil, nil, err
	}
	if flow.State != StateAwaitingConfirmation {
		return nil, nil, ErrInvalidTransition
	}

	live, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !sameLines(flow.Lines, live.Lines) {
		return nil, nil, ErrCartChanged
	}

	customer := flow.Customer.Trimmed()
	req := &order.PlaceOrderRequest{
		SessionID:       sessionID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		PaymentMethod:   flow.PaymentMethod,
		TotalAmount:     flow.TotalCents(),
		Items:           make([]order.ItemInput, 0, len(flow.Lines)),
	}
	for _, l := range flow.Lines {
		req.Items = append(req.Items, order.ItemInput{
			ProductID: string(l.ProductID),
			Title:     l.Title,
			Thumbnail: l.Thumbnail,
			Quantity:  l.Quantity,
			Price:     cart.ToCents(l.Price),
		})
	}

	placed, err := s.orders.PlaceOrder(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record order: %w", err)
	}

	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear cart after order confirmation")
	}

	if err := flow.Complete(placed.ID.String(), s.now()); err != nil {
		return nil, nil, err
	}
	if err := s.save(ctx, key, flow); err != nil {
		return nil, nil, err
	}
	metrics.CheckoutTransitions.WithLabelValues(string(flow.State)).Inc()

	return flow, placed, nil
}

func (s *Service) transition(ctx context.Context, sessionID string, fn func(*Flow) error) (*Flow, error) {
	key := kv.SessionKey(sessionID, kv.KeyCheckout)
	unlock := s.locks.Lock(key)
	defer unlock()

	flow, err := s.load(ctx, sessionID, key)
	if err != nil {
		return nil, err
	}
	before := flow.State
	if err := fn(flow); err != nil {
		return nil, err
	}
	if err := s.save(ctx, key, flow); err != nil {
		return nil, err
	}
	if flow.State != before {
		metrics.CheckoutTransitions.WithLabelValues(string(flow.State)).Inc()
	}
	return flow, nil
}

func (s *Service) load(ctx context.Context, sessionID, key string) (*Flow, error) {
	var flow Flow
	err := kv.GetJSON(ctx, s.kv, key, &flow)
	switch {
	case err == nil:
		return &flow, nil
	case errors.Is(err, kv.ErrNotFound):
		return nil, ErrNoCheckout
	case kv.IsCorrupt(err):
		metrics.StorageCorruptions.WithLabelValues(kv.KeyCheckout).Inc()
		s.log.WithError(err).WithField("session_id", sessionID).Warn("Checkout state unreadable, discarding it")
		return nil, ErrNoCheckout
	default:
		return nil, fmt.Errorf("failed to read checkout: %w", err)
	}
}

func (s *Service) save(ctx context.Context, key string, flow *Flow) error {
	if err := kv.SetJSON(ctx, s.kv, key, flow); err != nil {
		return fmt.Errorf("failed to save checkout: %w", err)
	}
	return nil
}

// sameLines reports whether the cart still holds exactly the lines the
// checkout was started with.
func sameLines(snapshot, live []cart.Line) bool {
	if len(snapshot) != len(live) {
		return false
	}
	for i := range snapshot {
		a, b := snapshot[i], live[i]
		if a.ProductID != b.ProductID || a.Quantity != b.Quantity || cart.ToCents(a.Price) != cart.ToCents(b.Price) {
			return false
		}
	}
	return true
}
