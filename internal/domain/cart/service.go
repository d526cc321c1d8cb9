// internal/domain/cart/service.go
package cart

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// Service handles cart business logic. Each call loads the session's Store,
// mutates it under the session lock and returns the resulting snapshot.
type Service struct {
	kv    kv.Store
	locks *kv.Locker
	log   *logrus.Entry
}

// NewService creates a new cart service
func NewService(store kv.Store, log *logrus.Entry) *Service {
	return &Service{
		kv:    store,
		locks: kv.NewLocker(),
		log:   log,
	}
}

// GetCart retrieves the session's cart
func (s *Service) GetCart(ctx context.Context, sessionID string) (*Cart, error) {
	var out *Cart
	err := s.with(ctx, sessionID, func(st *Store) error {
		out = st.Snapshot()
		return nil
	})
	return out, err
}

// AddToCart adds one unit of p
func (s *Service) AddToCart(ctx context.Context, sessionID string, p catalog.Product) (*Cart, error) {
	return s.mutate(ctx, sessionID, "add", func(st *Store) error {
		_, err := st.Add(ctx, p)
		return err
	})
}

// UpdateQuantity sets the quantity of a line; quantities below 1 change nothing
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, id catalog.ProductID, quantity int) (*Cart, error) {
	return s.mutate(ctx, sessionID, "update", func(st *Store) error {
		return st.UpdateQuantity(ctx, id, quantity)
	})
}

// RemoveFromCart removes a line
func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, id catalog.ProductID) (*Cart, error) {
	return s.mutate(ctx, sessionID, "remove", func(st *Store) error {
		return st.Remove(ctx, id)
	})
}

// ClearCart removes all lines
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	_, err := s.mutate(ctx, sessionID, "clear", func(st *Store) error {
		return st.Clear(ctx)
	})
	return err
}

// GetCartItemCount returns the sum of all quantities, as the navbar badge shows
func (s *Service) GetCartItemCount(ctx context.Context, sessionID string) (int, error) {
	c, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Totals.ItemCount, nil
}

func (s *Service) mutate(ctx context.Context, sessionID, op string, fn func(*Store) error) (*Cart, error) {
	var out *Cart
	err := s.with(ctx, sessionID, func(st *Store) error {
		if err := fn(st); err != nil {
			return err
		}
		out = st.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.CartOperations.WithLabelValues(op).Inc()
	return out, nil
}

func (s *Service) with(ctx context.Context, sessionID string, fn func(*Store) error) error {
	key := kv.SessionKey(sessionID, kv.KeyCart)
	unlock := s.locks.Lock(key)
	defer unlock()

	log := s.log.WithField("session_id", sessionID)
	st, err := Load(ctx, s.kv, key, log)
	if err != nil {
		return err
	}
	st.OnEvent(func(e Event) {
		log.WithFields(logrus.Fields{
			"product_id": e.Line.ProductID,
			"quantity":   e.Line.Quantity,
		}).Info("Item added to cart")
	})

	return fn(st)
}
