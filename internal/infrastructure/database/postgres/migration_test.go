package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

func TestModels_ParentsFirst(t *testing.T) {
	models := Models()
	assert.IsType(t, &order.Order{}, models[0])
	assert.IsType(t, &order.OrderItem{}, models[1])
}

func TestIndexStatements_AreIdempotent(t *testing.T) {
	for _, stmt := range IndexStatements {
		assert.True(t, strings.Contains(stmt, "IF NOT EXISTS"), stmt)
		assert.True(t, strings.Contains(stmt, " ON orders(") || strings.Contains(stmt, " ON order_items("), stmt)
	}
}
