package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

type fixture struct {
	store  *kv.MemoryStore
	carts  *cart.Service
	orders *order.Service
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	carts := cart.NewService(store, logger.Discard())
	orders := order.NewService(order.NewMemoryRepository(), "USD", logger.Discard())
	return &fixture{
		store:  store,
		carts:  carts,
		orders: orders,
		svc:    NewService(store, carts, orders, logger.Discard()),
	}
}

func (f *fixture) fillCart(t *testing.T, sid string) {
	t.Helper()
	ctx := context.Background()
	p := catalog.Product{ID: "1", Title: "Shirt", Price: 10}
	_, err := f.carts.AddToCart(ctx, sid, p)
	require.NoError(t, err)
	_, err = f.carts.AddToCart(ctx, sid, p)
	require.NoError(t, err)
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var details = &UpdateDetailsRequest{Name: "Mona", Phone: "01012345678", Address: "12 Nile St"}

type failingOrders struct{}

func (failingOrders) PlaceOrder(context.Context, *order.PlaceOrderRequest) (*order.Order, error) {
	return nil, errors.New("db down")
}

func TestFlow_Transitions(t *testing.T) {
	f := NewFlow(order.PaymentMethodCash, &cart.Cart{}, nil, testNow)

	assert.ErrorIs(t, f.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, f.Proceed(), ErrDetailsIncomplete)

	require.NoError(t, f.UpdateDetails(Customer{Name: "  ", Phone: "1", Address: "x"}))
	assert.ErrorIs(t, f.Proceed(), ErrDetailsIncomplete)

	require.NoError(t, f.UpdateDetails(Customer{Name: "A", Phone: "1", Address: "x"}))
	require.NoError(t, f.Proceed())
	assert.Equal(t, StateAwaitingConfirmation, f.State)

	// editing closes the confirmation step
	require.NoError(t, f.UpdateDetails(Customer{Name: "B", Phone: "1", Address: "x"}))
	assert.Equal(t, StateCollectingDetails, f.State)

	require.NoError(t, f.Proceed())
	require.NoError(t, f.Cancel())
	assert.Equal(t, StateCollectingDetails, f.State)

	assert.ErrorIs(t, f.Complete("o1", testNow), ErrInvalidTransition)
	require.NoError(t, f.Proceed())
	require.NoError(t, f.Complete("o1", testNow))
	assert.Equal(t, StateCompleted, f.State)

	assert.ErrorIs(t, f.UpdateDetails(Customer{}), ErrInvalidTransition)
	assert.ErrorIs(t, f.SetPaymentMethod(order.PaymentMethodOnline), ErrInvalidTransition)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" Online ")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentMethodOnline, m)

	_, err = ParsePaymentMethod("card")
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestService_BeginRequiresItems(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.svc.Begin(context.Background(), "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	total := 50.0
	_, err = fx.svc.Begin(context.Background(), "s1", &BeginCheckoutRequest{PaymentMethod: "cash", Total: &total})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = fx.svc.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNoCheckout)
}

func TestService_BeginUsesExplicitTotal(t *testing.T) {
	fx := newFixture(t)
	fx.fillCart(t, "s1")

	flow, err := fx.svc.Begin(context.Background(), "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, flow.Total)
	assert.Equal(t, StateCollectingDetails, flow.State)

	total := 17.5
	flow, err = fx.svc.Begin(context.Background(), "s1", &BeginCheckoutRequest{PaymentMethod: "online", Total: &total})
	require.NoError(t, err)
	assert.Equal(t, 17.5, flow.Total)
	assert.Equal(t, order.PaymentMethodOnline, flow.PaymentMethod)
}

func TestService_ConfirmRecordsOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.fillCart(t, "s1")

	_, err := fx.svc.Begin(ctx, "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	_, _, err = fx.svc.Confirm(ctx, "s1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = fx.svc.UpdateDetails(ctx, "s1", &UpdateDetailsRequest{Name: " Mona ", Phone: "01012345678", Address: "12 Nile St"})
	require.NoError(t, err)
	flow, err := fx.svc.Proceed(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, flow.State)

	flow, placed, err := fx.svc.Confirm(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, flow.State)
	assert.Equal(t, placed.ID.String(), flow.OrderID)
	assert.NotNil(t, flow.CompletedAt)

	assert.Equal(t, "Mona", placed.CustomerName)
	assert.Equal(t, int64(2000), placed.TotalAmount)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 2, placed.Items[0].Quantity)

	c, err := fx.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)

	stored, err := fx.orders.GetOrder(ctx, "s1", placed.ID.String())
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, stored.OrderNumber)

	_, _, err = fx.svc.Confirm(ctx, "s1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_ConfirmRejectsChangedCart(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.fillCart(t, "s1")

	_, err := fx.svc.Begin(ctx, "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)
	_, err = fx.carts.AddToCart(ctx, "s1", catalog.Product{ID: "2", Title: "Scarf", Price: 5})
	require.NoError(t, err)
	_, err = fx.svc.UpdateDetails(ctx, "s1", details)
	require.NoError(t, err)
	_, err = fx.svc.Proceed(ctx, "s1")
	require.NoError(t, err)

	_, _, err = fx.svc.Confirm(ctx, "s1")
	assert.ErrorIs(t, err, ErrCartChanged)

	c, err := fx.carts.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, c.Lines, 2)

	flow, err := fx.svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, flow.State)
	assert.Empty(t, flow.OrderID)
}

func TestSameLines(t *testing.T) {
	base := []cart.Line{{ProductID: "1", Price: 10, Quantity: 2}}

	assert.True(t, sameLines(base, []cart.Line{{ProductID: "1", Title: "renamed", Price: 10, Quantity: 2}}))
	assert.False(t, sameLines(base, []cart.Line{{ProductID: "1", Price: 10, Quantity: 3}}))
	assert.False(t, sameLines(base, []cart.Line{{ProductID: "1", Price: 12, Quantity: 2}}))
	assert.False(t, sameLines(base, nil))
}

func TestService_CancelKeepsCart(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.fillCart(t, "s1")

	_, err := fx.svc.Begin(ctx, "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)
	_, err = fx.svc.UpdateDetails(ctx, "s1", details)
	require.NoError(t, err)
	_, err = fx.svc.Proceed(ctx, "s1")
	require.NoError(t, err)

	flow, err := fx.svc.Cancel(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateCollectingDetails, flow.State)

	count, err := fx.carts.GetCartItemCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_ProceedWithBlankDetails(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.fillCart(t, "s1")

	_, err := fx.svc.Begin(ctx, "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)
	_, err = fx.svc.UpdateDetails(ctx, "s1", &UpdateDetailsRequest{Name: "Mona", Phone: "   "})
	require.NoError(t, err)

	_, err = fx.svc.Proceed(ctx, "s1")
	assert.ErrorIs(t, err, ErrDetailsIncomplete)

	flow, err := fx.svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateCollectingDetails, flow.State)
}

func TestService_ConfirmFailureKeepsCartAndState(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	svc := NewService(fx.store, fx.carts, failingOrders{}, logger.Discard())
	fx.fillCart(t, "s1")

	_, err := svc.Begin(ctx, "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)
	_, err = svc.UpdateDetails(ctx, "s1", details)
	require.NoError(t, err)
	_, err = svc.Proceed(ctx, "s1")
	require.NoError(t, err)

	_, _, err = svc.Confirm(ctx, "s1")
	assert.Error(t, err)

	flow, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingConfirmation, flow.State)

	count, err := fx.carts.GetCartItemCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_CorruptStateReadsAsNoCheckout(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	require.NoError(t, fx.store.Set(ctx, kv.SessionKey("s1", kv.KeyCheckout), []byte("{")))

	_, err := fx.svc.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNoCheckout)
}

func TestService_SetPaymentMethod(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.fillCart(t, "s1")

	_, err := fx.svc.Begin(ctx, "s1", &BeginCheckoutRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	flow, err := fx.svc.SetPaymentMethod(ctx, "s1", "online")
	require.NoError(t, err)
	assert.Equal(t, order.PaymentMethodOnline, flow.PaymentMethod)

	_, err = fx.svc.SetPaymentMethod(ctx, "s1", "bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPayment)
}
