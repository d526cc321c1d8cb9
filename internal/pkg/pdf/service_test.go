package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

func TestService_RenderHTML(t *testing.T) {
	svc := NewService(&config.Config{Receipt: config.ReceiptConfig{
		ShopName:  "Storefront",
		ShopEmail: "orders@example.com",
	}})

	o := &order.Order{
		OrderNumber:     "ORD-20240501-ABCDEF12",
		CustomerName:    "Mona <script>",
		CustomerPhone:   "01012345678",
		CustomerAddress: "12 Nile St",
		PaymentMethod:   order.PaymentMethodCash,
		TotalAmount:     2550,
		Currency:        "USD",
		Items: []order.OrderItem{
			{Title: "Shirt", Quantity: 3, Price: 850, TotalPrice: 2550},
		},
	}

	html, err := svc.RenderHTML(o, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "RCP-ORD-20240501-ABCDEF12")
	assert.Contains(t, out, "May 1, 2024")
	assert.Contains(t, out, "8.50")
	assert.Contains(t, out, "Total: 25.50 USD")
	assert.Contains(t, out, "Mona &lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}
