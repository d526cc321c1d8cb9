// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// Models lists the tables owned by the service, parents first
func Models() []interface{} {
	return []interface{}{
		&order.Order{},
		&order.OrderItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// IndexStatements are the extra indexes created after auto-migration
var IndexStatements = []string{
	"CREATE INDEX IF NOT EXISTS idx_orders_session_created ON orders(session_id, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_orders_payment_method ON orders(payment_method)",
	"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
}

// CreateIndexes creates additional indexes. Failures are logged and counted,
// never fatal.
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	successCount := 0
	failCount := 0

	for _, indexSQL := range IndexStatements {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// Run applies migrations and indexes
func (m *Migration) Run() error {
	if err := m.RunAutoMigrations(); err != nil {
		return err
	}
	return m.CreateIndexes()
}
