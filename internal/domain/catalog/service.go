// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Static asset file names
const (
	AssetMen      = "Men.json"
	AssetWomen    = "Women.json"
	AssetKids     = "Kids-products.json"
	AssetHandmade = "Handmade.json"
)

// menCollections are the upstream sub-categories combined into the men listing
var menCollections = []string{"mens-shirts", "mens-shoes", "fragrances", "mens-watches"}

// Service loads category listings and remembers what each session has seen
type Service struct {
	sources map[Category][]Source
	store   kv.Store
	locks   *kv.Locker
	log     *logrus.Entry
}

// NewService wires the default sources: the men listing from the remote
// product API, everything else from static assets.
func NewService(apiBaseURL string, client *http.Client, assets fs.FS, store kv.Store, log *logrus.Entry) *Service {
	base := strings.TrimRight(apiBaseURL, "/")

	men := make([]Source, 0, len(menCollections))
	for _, c := range menCollections {
		men = append(men, NewRemoteSource(client, base+"/products/category/"+c))
	}

	sources := map[Category][]Source{
		CategoryMen:      men,
		CategoryWomen:    {NewAssetSource(assets, AssetWomen)},
		CategoryKids:     {NewAssetSource(assets, AssetKids)},
		CategoryHandmade: {NewAssetSource(assets, AssetHandmade)},
	}

	return NewServiceWithSources(sources, store, log)
}

// NewServiceWithSources creates a service over explicit sources
func NewServiceWithSources(sources map[Category][]Source, store kv.Store, log *logrus.Entry) *Service {
	return &Service{
		sources: sources,
		store:   store,
		locks:   kv.NewLocker(),
		log:     log,
	}
}

// Load fetches every source of the category concurrently and concatenates the
// results in source order. One failing source fails the batch.
func (s *Service) Load(ctx context.Context, c Category) ([]Product, error) {
	sources, ok := s.sources[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}

	start := time.Now()
	results := make([][]Product, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			products, err := src.Fetch(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = products
			return nil
		})
	}

	err := g.Wait()
	metrics.CatalogLoadDuration.WithLabelValues(string(c)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogLoads.WithLabelValues(string(c), "failure").Inc()
		s.log.WithError(err).WithField("category", c).Error("Catalog load failed")
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	metrics.CatalogLoads.WithLabelValues(string(c), "success").Inc()

	var combined []Product
	for _, r := range results {
		combined = append(combined, r...)
	}
	return combined, nil
}

// List loads a category, records the products as seen by the session and
// applies the listing controls.
func (s *Service) List(ctx context.Context, sessionID string, c Category, q Query) (*Listing, error) {
	products, err := s.Load(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := s.Remember(ctx, sessionID, products); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("Failed to remember listed products")
	}

	filtered := Apply(c, products, q)
	return &Listing{
		Category: c,
		Query:    q.Normalize(),
		Bounds:   BoundsFor(c),
		Products: filtered,
		Total:    len(filtered),
	}, nil
}

// Remember records products as the session's last-seen version of each id
func (s *Service) Remember(ctx context.Context, sessionID string, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	key := kv.SessionKey(sessionID, kv.KeySeenProducts)
	unlock := s.locks.Lock(key)
	defer unlock()

	seen, err := s.seen(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, p := range products {
		seen[p.ID] = p
	}
	return kv.SetJSON(ctx, s.store, key, seen)
}

// Lookup returns the last-seen product with the given id, or ErrNoData when
// the session never listed it.
func (s *Service) Lookup(ctx context.Context, sessionID string, id ProductID) (Product, error) {
	seen, err := s.seen(ctx, sessionID)
	if err != nil {
		return Product{}, err
	}
	p, ok := seen[id]
	if !ok {
		return Product{}, ErrNoData
	}
	return p, nil
}

func (s *Service) seen(ctx context.Context, sessionID string) (map[ProductID]Product, error) {
	key := kv.SessionKey(sessionID, kv.KeySeenProducts)
	seen := map[ProductID]Product{}

	err := kv.GetJSON(ctx, s.store, key, &seen)
	switch {
	case err == nil:
		return seen, nil
	case errors.Is(err, kv.ErrNotFound):
		return map[ProductID]Product{}, nil
	case kv.IsCorrupt(err):
		metrics.StorageCorruptions.WithLabelValues(kv.KeySeenProducts).Inc()
		s.log.WithError(err).Warn("Discarding unreadable seen products")
		return map[ProductID]Product{}, nil
	default:
		return nil, fmt.Errorf("failed to read seen products: %w", err)
	}
}
