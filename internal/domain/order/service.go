// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service records and retrieves order confirmations
type Service struct {
	repo     Repository
	currency string
	log      *logrus.Entry
}

// NewService creates a new order service
func NewService(repo Repository, currency string, log *logrus.Entry) *Service {
	if currency == "" {
		currency = "USD"
	}
	return &Service{repo: repo, currency: strings.ToUpper(currency), log: log}
}

// PlaceOrder records a confirmation for the given checkout
func (s *Service) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*Order, error) {
	if req.SessionID == "" {
		return nil, errors.New("session id is required")
	}
	if len(req.Items) == 0 {
		return nil, errors.New("order has no items")
	}

	o := &Order{
		SessionID:       req.SessionID,
		Status:          OrderStatusConfirmed,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
		Currency:        s.currency,
		Items:           make([]OrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		o.Items = append(o.Items, OrderItem{
			ProductID:  item.ProductID,
			Title:      item.Title,
			Thumbnail:  item.Thumbnail,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.Price * int64(item.Quantity),
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"session_id":   o.SessionID,
		"total_amount": o.TotalAmount,
	}).Info("Order confirmed")

	return o, nil
}

// GetOrder returns an order owned by sessionID. Orders of other sessions
// are reported as not found.
func (s *Service) GetOrder(ctx context.Context, sessionID, id string) (*Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if o.SessionID != sessionID {
		return nil, ErrNotFound
	}
	return o, nil
}
