// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no order matches
var ErrNotFound = errors.New("order not found")

// Repository stores order confirmations
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
}

// GormRepository keeps orders in PostgreSQL
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository over db
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Create inserts the order and its items in one transaction
func (r *GormRepository) Create(ctx context.Context, o *Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Create(&o.Items[i]).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}
		return nil
	})
	return err
}

// FindByID loads an order with its items
func (r *GormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&o, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", result.Error)
	}
	return &o, nil
}

// MemoryRepository keeps orders in process memory, used when no database is
// configured
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]Order
}

// NewMemoryRepository creates an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[uuid.UUID]Order)}
}

// Create stores a copy of o
func (r *MemoryRepository) Create(ctx context.Context, o *Order) error {
	now := time.Now().UTC()
	o.prepare(now)
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		o.Items[i].ID = uint(i + 1)
		o.Items[i].OrderID = o.ID
		o.Items[i].CreatedAt = now
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[o.ID]; exists {
		return fmt.Errorf("failed to create order: duplicate id %s", o.ID)
	}
	r.orders[o.ID] = clone(*o)
	return nil
}

// FindByID returns a copy of the stored order
func (r *MemoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(o)
	return &out, nil
}

func clone(o Order) Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

var (
	_ Repository = (*GormRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
