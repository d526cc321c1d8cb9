package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

func placeRequest(sessionID string) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		SessionID:       sessionID,
		CustomerName:    "Mona",
		CustomerPhone:   "01012345678",
		CustomerAddress: "12 Nile St",
		PaymentMethod:   PaymentMethodCash,
		TotalAmount:     2500,
		Items: []ItemInput{
			{ProductID: "1", Title: "Shirt", Quantity: 2, Price: 1000},
			{ProductID: "hm-2", Title: "Basket", Quantity: 1, Price: 500},
		},
	}
}

func TestService_PlaceAndGetOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), "egp", logger.Discard())

	o, err := svc.PlaceOrder(ctx, placeRequest("s1"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
	assert.Equal(t, OrderStatusConfirmed, o.Status)
	assert.Equal(t, "EGP", o.Currency)
	assert.Equal(t, 3, o.ItemCount())
	assert.Equal(t, int64(2000), o.Items[0].TotalPrice)
	assert.Equal(t, 25.0, o.GetFormattedTotal())

	got, err := svc.GetOrder(ctx, "s1", o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Len(t, got.Items, 2)
}

func TestService_GetOrderHidesOtherSessions(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), "", logger.Discard())

	o, err := svc.PlaceOrder(ctx, placeRequest("s1"))
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, "s2", o.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetOrder(ctx, "s1", "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetOrder(ctx, "s1", uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_PlaceOrderRejectsEmpty(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "", logger.Discard())

	req := placeRequest("s1")
	req.Items = nil
	_, err := svc.PlaceOrder(context.Background(), req)
	assert.Error(t, err)

	_, err = svc.PlaceOrder(context.Background(), placeRequest(""))
	assert.Error(t, err)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	o := &Order{SessionID: "s1", Items: []OrderItem{{ProductID: "1", Quantity: 1}}}
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	got.Items[0].Quantity = 99

	again, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Equal(t, o.ID, again.Items[0].OrderID)
}

func TestOrder_GenerateOrderNumber(t *testing.T) {
	o := Order{ID: uuid.MustParse("0a1b2c3d-0000-4000-8000-000000000000")}
	now := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-20240309-0A1B2C3D", o.GenerateOrderNumber(now))
}
