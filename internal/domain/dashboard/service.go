// internal/domain/dashboard/service.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const lockName = "dashboard"

// Service manages the dashboard's products and orders. Its data is kept apart
// from the catalog listings.
type Service struct {
	kv      kv.Store
	sources map[Section]catalog.Source
	locks   *kv.Locker
	log     *logrus.Entry
	newID   func() string
	now     func() time.Time
}

// NewService syncs from the static assets in fsys
func NewService(fsys fs.FS, store kv.Store, log *logrus.Entry) *Service {
	return NewServiceWithSources(map[Section]catalog.Source{
		SectionHandmade: catalog.NewAssetSource(fsys, catalog.AssetHandmade),
		SectionKids:     catalog.NewAssetSource(fsys, catalog.AssetKids),
		SectionMen:      catalog.NewAssetSource(fsys, catalog.AssetMen),
		SectionWomen:    catalog.NewAssetSource(fsys, catalog.AssetWomen),
	}, store, log)
}

// NewServiceWithSources creates a service over explicit per-section sources
func NewServiceWithSources(sources map[Section]catalog.Source, store kv.Store, log *logrus.Entry) *Service {
	return &Service{
		kv:      store,
		sources: sources,
		locks:   kv.NewLocker(),
		log:     log,
		newID:   uuid.NewString,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Overview returns all sections with their charts
func (s *Service) Overview(ctx context.Context, sessionID string) (*Overview, error) {
	var out *Overview
	err := s.read(ctx, sessionID, func(p Products, o Orders) {
		out = &Overview{
			Sections: Sections,
			Products: p,
			Orders:   o,
			Charts:   charts(p, o),
		}
	})
	return out, err
}

// Charts returns the per-section counts
func (s *Service) Charts(ctx context.Context, sessionID string) ([]ChartPoint, error) {
	var out []ChartPoint
	err := s.read(ctx, sessionID, func(p Products, o Orders) {
		out = charts(p, o)
	})
	return out, err
}

func charts(p Products, o Orders) []ChartPoint {
	out := make([]ChartPoint, len(Sections))
	for i, sec := range Sections {
		out[i] = ChartPoint{
			Name:     sec,
			Products: len(p[sec]),
			Orders:   len(o[sec]),
			Color:    chartColors[i],
		}
	}
	return out
}

// Sync fetches every section's asset and merges it into the stored products.
// All sources must succeed; on failure stored data is left untouched.
func (s *Service) Sync(ctx context.Context, sessionID string) (Products, error) {
	incoming, err := s.fetchAll(ctx)
	if err != nil {
		metrics.DashboardSyncs.WithLabelValues("error").Inc()
		s.log.WithError(err).WithField("session_id", sessionID).Error("Failed to fetch products")
		return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	var out Products
	err = s.update(ctx, sessionID, func(p Products, o Orders) (bool, bool, error) {
		for _, sec := range Sections {
			p[sec] = Merge(p[sec], incoming[sec], s.newID)
		}
		out = p
		return true, false, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.DashboardSyncs.WithLabelValues("success").Inc()
	return out, nil
}

func (s *Service) fetchAll(ctx context.Context) (Products, error) {
	results := make([][]catalog.Product, len(Sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, sec := range Sections {
		src, ok := s.sources[sec]
		if !ok {
			continue
		}
		i, sec := i, sec
		g.Go(func() error {
			products, err := src.Fetch(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", sec, err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(Products, len(Sections))
	for i, sec := range Sections {
		records := make([]Product, 0, len(results[i]))
		for _, cp := range results[i] {
			records = append(records, Product{
				ID:          string(cp.ID),
				Title:       cp.Title,
				Price:       cp.Price,
				Category:    cp.Category,
				Thumbnail:   cp.Thumbnail,
				Description: cp.Description,
			})
		}
		out[sec] = records
	}
	return out, nil
}

// ListProducts returns one section's products
func (s *Service) ListProducts(ctx context.Context, sessionID string, sec Section) ([]Product, error) {
	var out []Product
	err := s.read(ctx, sessionID, func(p Products, _ Orders) {
		out = p[sec]
	})
	return out, err
}

// AddProduct appends a product with a generated id
func (s *Service) AddProduct(ctx context.Context, sessionID string, sec Section, req *AddProductRequest) (*Product, error) {
	if req.Title == "" || req.Price <= 0 || req.Category == "" {
		return nil, ErrInvalidProduct
	}
	prod := Product{
		ID:       s.newID(),
		Title:    req.Title,
		Price:    req.Price,
		Category: req.Category,
	}
	err := s.update(ctx, sessionID, func(p Products, _ Orders) (bool, bool, error) {
		p[sec] = append(p[sec], prod)
		return true, false, nil
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// DeleteProduct removes a product and every order of the section pointing at it
func (s *Service) DeleteProduct(ctx context.Context, sessionID string, sec Section, id string) error {
	return s.update(ctx, sessionID, func(p Products, o Orders) (bool, bool, error) {
		kept := p[sec][:0:0]
		for _, prod := range p[sec] {
			if prod.ID != id {
				kept = append(kept, prod)
			}
		}
		if len(kept) == len(p[sec]) {
			return false, false, ErrProductNotFound
		}
		p[sec] = kept

		orders := o[sec][:0:0]
		for _, ord := range o[sec] {
			if ord.ProductID != id {
				orders = append(orders, ord)
			}
		}
		o[sec] = orders
		return true, true, nil
	})
}

// ListOrders returns one section's orders
func (s *Service) ListOrders(ctx context.Context, sessionID string, sec Section) ([]Order, error) {
	var out []Order
	err := s.read(ctx, sessionID, func(_ Products, o Orders) {
		out = o[sec]
	})
	return out, err
}

// AddOrder records an order for a product of the section
func (s *Service) AddOrder(ctx context.Context, sessionID string, sec Section, productID string) (*Order, error) {
	ord := Order{ID: s.newID(), ProductID: productID, CreatedAt: s.now()}
	err := s.update(ctx, sessionID, func(p Products, o Orders) (bool, bool, error) {
		found := false
		for _, prod := range p[sec] {
			if prod.ID == productID {
				found = true
				break
			}
		}
		if !found {
			return false, false, ErrProductNotFound
		}
		o[sec] = append(o[sec], ord)
		return false, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

// DeleteOrder removes one order
func (s *Service) DeleteOrder(ctx context.Context, sessionID string, sec Section, id string) error {
	return s.update(ctx, sessionID, func(_ Products, o Orders) (bool, bool, error) {
		kept := o[sec][:0:0]
		for _, ord := range o[sec] {
			if ord.ID != id {
				kept = append(kept, ord)
			}
		}
		if len(kept) == len(o[sec]) {
			return false, false, ErrOrderNotFound
		}
		o[sec] = kept
		return false, true, nil
	})
}

func (s *Service) read(ctx context.Context, sessionID string, fn func(Products, Orders)) error {
	unlock := s.locks.Lock(kv.SessionKey(sessionID, lockName))
	defer unlock()

	p, o, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	fn(p, o)
	return nil
}

// update runs fn on the stored collections and writes back the ones fn
// reports as changed
func (s *Service) update(ctx context.Context, sessionID string, fn func(Products, Orders) (bool, bool, error)) error {
	unlock := s.locks.Lock(kv.SessionKey(sessionID, lockName))
	defer unlock()

	p, o, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	productsChanged, ordersChanged, err := fn(p, o)
	if err != nil {
		return err
	}
	if productsChanged {
		if err := kv.SetJSON(ctx, s.kv, kv.SessionKey(sessionID, kv.KeyAllProducts), p); err != nil {
			return fmt.Errorf("failed to save products: %w", err)
		}
	}
	if ordersChanged {
		if err := kv.SetJSON(ctx, s.kv, kv.SessionKey(sessionID, kv.KeyOrders), o); err != nil {
			return fmt.Errorf("failed to save orders: %w", err)
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (Products, Orders, error) {
	var p Products
	ok, err := s.decode(ctx, sessionID, kv.KeyAllProducts, &p)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		p = nil
	}

	var o Orders
	ok, err = s.decode(ctx, sessionID, kv.KeyOrders, &o)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		o = nil
	}

	return p.fill(), o.fill(), nil
}

// decode reads name into dest. It reports false when the stored value is
// corrupt; the caller then starts from empty collections.
func (s *Service) decode(ctx context.Context, sessionID, name string, dest any) (bool, error) {
	err := kv.GetJSON(ctx, s.kv, kv.SessionKey(sessionID, name), dest)
	switch {
	case err == nil, errors.Is(err, kv.ErrNotFound):
		return true, nil
	case kv.IsCorrupt(err):
		metrics.StorageCorruptions.WithLabelValues(name).Inc()
		s.log.WithError(err).WithField("session_id", sessionID).Warnf("Stored %s unreadable, starting empty", name)
		return false, nil
	default:
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
}
