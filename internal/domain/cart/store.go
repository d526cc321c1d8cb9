// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// Store is the authoritative cart of one session. Every mutation rewrites the
// whole snapshot at key. Store is not safe for concurrent use; Service
// serializes access per session.
type Store struct {
	kv        kv.Store
	key       string
	lines     []Line
	log       *logrus.Entry
	listeners []func(Event)
}

// Load reads the snapshot at key. A missing or undecodable snapshot yields an
// empty cart; only backend read failures are returned.
func Load(ctx context.Context, store kv.Store, key string, log *logrus.Entry) (*Store, error) {
	s := &Store{kv: store, key: key, log: log}

	var stored []Line
	err := kv.GetJSON(ctx, store, key, &stored)
	switch {
	case err == nil:
		s.lines = sanitize(stored)
	case errors.Is(err, kv.ErrNotFound):
	case kv.IsCorrupt(err):
		metrics.StorageCorruptions.WithLabelValues(kv.KeyCart).Inc()
		log.WithError(err).Warn("Cart snapshot unreadable, starting with an empty cart")
	default:
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	return s, nil
}

// sanitize enforces the line invariants on data read back from storage:
// one line per id, quantity at least 1.
func sanitize(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	seen := make(map[catalog.ProductID]bool, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		out = append(out, l)
	}
	return out
}

// OnEvent registers fn to be called after mutations that raise events
func (s *Store) OnEvent(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// Add increments the quantity of an existing line, or inserts a new line with
// quantity 1 copied from p.
func (s *Store) Add(ctx context.Context, p catalog.Product) (Line, error) {
	var line Line
	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity++
		line = s.lines[i]
	} else {
		line = Line{
			ProductID: p.ID,
			Title:     p.Title,
			Category:  p.Category,
			Price:     p.Price,
			Thumbnail: p.Thumbnail,
			Quantity:  1,
		}
		s.lines = append(s.lines, line)
	}

	if err := s.persist(ctx); err != nil {
		return Line{}, err
	}
	s.emit(Event{Type: EventAdded, Line: line})
	return line, nil
}

// UpdateQuantity overwrites the quantity of id. Quantities below 1 and
// unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id catalog.ProductID, quantity int) error {
	if quantity < 1 {
		return nil
	}
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.lines[i].Quantity = quantity
	return s.persist(ctx)
}

// Remove deletes the line for id if present
func (s *Store) Remove(ctx context.Context, id catalog.ProductID) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return s.persist(ctx)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.lines = nil
	return s.persist(ctx)
}

// Lines returns a copy of the lines in insertion order
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns the line for id
func (s *Store) Line(id catalog.ProductID) (Line, bool) {
	if i := s.index(id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// Totals derives the totals of the current lines
func (s *Store) Totals() Totals {
	return ComputeTotals(s.lines)
}

// Snapshot returns the lines together with their totals
func (s *Store) Snapshot() *Cart {
	lines := s.Lines()
	return &Cart{Lines: lines, Totals: ComputeTotals(lines)}
}

func (s *Store) index(id catalog.ProductID) int {
	for i := range s.lines {
		if s.lines[i].ProductID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) error {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}
	if err := kv.SetJSON(ctx, s.kv, s.key, lines); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Store) emit(e Event) {
	for _, fn := range s.listeners {
		fn(e)
	}
}
