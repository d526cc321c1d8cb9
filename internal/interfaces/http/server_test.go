package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/dashboard"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@example.com"

type stubSource struct {
	products []catalog.Product
	err      error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Fetch(context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "storefront-test", Environment: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			SessionTokenExpiry: time.Hour,
			AccessTokenExpiry:  time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		Receipt:  config.ReceiptConfig{ShopName: "Storefront", Currency: "USD"},
	}
}

func newTestServer(t *testing.T, health map[string]Pinger) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	store := kv.NewMemoryStore()
	log := logrus.New()
	log.SetOutput(io.Discard)
	entry := logrus.NewEntry(log)

	jwtManager := auth.NewJWTManager(cfg)
	provider := session.NewLocalProvider(store, jwtManager, auth.NewPasswordManager(cfg))
	sessions := session.NewService(store, provider, []string{adminEmail}, entry)

	catalogService := catalog.NewServiceWithSources(map[catalog.Category][]catalog.Source{
		catalog.CategoryMen: {stubSource{products: []catalog.Product{
			{ID: "1", Title: "Shirt", Category: "mens-shirts", Price: 50, Description: "A plain cotton shirt"},
			{ID: "2", Title: "Watch", Category: "mens-watches", Price: 450, Images: []string{"watch.png"}},
		}}},
		catalog.CategoryKids: {stubSource{err: errors.New("boom")}},
	}, store, entry)
	carts := cart.NewService(store, entry)
	orders := order.NewService(order.NewMemoryRepository(), cfg.Receipt.Currency, entry)

	srv := NewServer(cfg, log, Dependencies{
		Sessions:  sessions,
		Catalog:   catalogService,
		Carts:     carts,
		Checkout:  checkout.NewService(store, carts, orders, entry),
		Orders:    orders,
		Dashboard: dashboard.NewService(catalog.DefaultAssets(), store, entry),
		PDF:       pdf.NewService(cfg),
		JWT:       jwtManager,
		Health:    health,
	})
	return srv.Handler()
}

// client keeps the session token between requests
type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

type response struct {
	Code    int
	Body    map[string]any
	Raw     []byte
	Headers http.Header
}

func (c *client) do(method, path string, body any) response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(middleware.SessionHeader, c.token)
	}

	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	if tok := w.Header().Get(middleware.SessionHeader); tok != "" {
		c.token = tok
	}

	out := response{Code: w.Code, Raw: w.Body.Bytes(), Headers: w.Header()}
	_ = json.Unmarshal(w.Body.Bytes(), &out.Body)
	return out
}

func data(t *testing.T, r response) map[string]any {
	t.Helper()
	d, ok := r.Body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %s", r.Raw)
	return d
}

func (c *client) register(email string) {
	c.t.Helper()
	r := c.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":       "Mona",
		"email":      email,
		"phone":      "01012345678",
		"password":   "Abc12345",
		"rePassword": "Abc12345",
	})
	require.Equal(c.t, http.StatusCreated, r.Code, string(r.Raw))
}

func TestServer_GateRedirects(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, nil)}

	r := c.do(http.MethodGet, "/api/v1/home", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Code)
	assert.Equal(t, "/login", r.Body["redirect"])
	assert.NotEmpty(t, c.token)

	c.register("mona@example.com")

	r = c.do(http.MethodGet, "/api/v1/home", nil)
	assert.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, r.Code)
	assert.Equal(t, "/home", r.Body["redirect"])

	r = c.do(http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, r.Code)
}

func TestServer_RegisterValidation(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, nil)}

	r := c.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":       "Mo",
		"email":      "not-an-email",
		"phone":      "0201234567",
		"password":   "weak",
		"rePassword": "other",
	})
	require.Equal(t, http.StatusBadRequest, r.Code)
	fields, ok := r.Body["fields"].(map[string]any)
	require.True(t, ok)
	for _, f := range []string{"name", "email", "phone", "password", "rePassword"} {
		assert.Contains(t, fields, f)
	}
}

func TestServer_LoginWithWrongPassword(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, nil)}
	c.register("mona@example.com")

	r := c.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "mona@example.com", "password": "Wrong123"})
	assert.Equal(t, http.StatusUnauthorized, r.Code)
	assert.Equal(t, "Incorrect email or password", r.Body["error"])
}

func TestServer_ShoppingFlow(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, nil)}
	c.register("mona@example.com")

	// product pages only know what a listing showed
	r := c.do(http.MethodGet, "/api/v1/products/2", nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
	assert.Equal(t, "No data found", r.Body["error"])

	r = c.do(http.MethodGet, "/api/v1/catalog/men?price=high&sort=desc", nil)
	require.Equal(t, http.StatusOK, r.Code, string(r.Raw))
	listing := data(t, r)
	assert.EqualValues(t, 1, listing["total"])

	r = c.do(http.MethodGet, "/api/v1/catalog/kids", nil)
	assert.Equal(t, http.StatusBadGateway, r.Code)
	assert.Equal(t, "failed to load", r.Body["error"])

	r = c.do(http.MethodGet, "/api/v1/products/2", nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "watch.png", data(t, r)["image"])

	r = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, r.Code, string(r.Raw))
	r = c.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": "1"})
	require.Equal(t, http.StatusOK, r.Code)
	r = c.do(http.MethodPut, "/api/v1/cart/items/1", gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodGet, "/api/v1/cart/count", nil)
	assert.EqualValues(t, 3, data(t, r)["count"])

	r = c.do(http.MethodPost, "/api/v1/checkout", gin.H{"payment_method": "cash"})
	require.Equal(t, http.StatusCreated, r.Code, string(r.Raw))
	assert.EqualValues(t, 150, data(t, r)["total"])

	r = c.do(http.MethodPost, "/api/v1/checkout/proceed", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, r.Code)

	r = c.do(http.MethodPut, "/api/v1/checkout/details", gin.H{"name": "Mona", "phone": "01012345678", "address": "12 Nile St"})
	require.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodPost, "/api/v1/checkout/confirm", nil)
	assert.Equal(t, http.StatusConflict, r.Code)

	r = c.do(http.MethodPost, "/api/v1/checkout/proceed", nil)
	require.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodPost, "/api/v1/checkout/confirm", nil)
	require.Equal(t, http.StatusOK, r.Code, string(r.Raw))
	placed, ok := data(t, r)["order"].(map[string]any)
	require.True(t, ok)
	orderID, _ := placed["id"].(string)
	require.NotEmpty(t, orderID)

	r = c.do(http.MethodGet, "/api/v1/cart/count", nil)
	assert.EqualValues(t, 0, data(t, r)["count"])

	r = c.do(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.EqualValues(t, 15000, data(t, r)["total_amount"])

	r = c.do(http.MethodGet, "/api/v1/orders/"+orderID+"/receipt?format=html", nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Contains(t, string(r.Raw), "12 Nile St")

	// another session cannot see the order
	other := &client{t: t, h: c.h}
	other.register("someone@example.com")
	r = other.do(http.MethodGet, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
}

func TestServer_CheckoutWithEmptyCart(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, nil)}
	c.register("mona@example.com")

	r := c.do(http.MethodPost, "/api/v1/checkout", gin.H{"payment_method": "online"})
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = c.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
}

func TestServer_Dashboard(t *testing.T) {
	c := &client{t: t, h: newTestServer(t, nil)}
	c.register(adminEmail)

	r := c.do(http.MethodPost, "/api/v1/dashboard/sync", nil)
	require.Equal(t, http.StatusOK, r.Code, string(r.Raw))

	r = c.do(http.MethodPost, "/api/v1/dashboard/kids/products", gin.H{"title": "Kite", "price": -8, "category": "toys"})
	assert.Equal(t, http.StatusBadRequest, r.Code)

	r = c.do(http.MethodPost, "/api/v1/dashboard/kids/products", gin.H{"title": "Kite", "price": 8, "category": "toys"})
	require.Equal(t, http.StatusCreated, r.Code, string(r.Raw))
	productID, _ := data(t, r)["id"].(string)
	require.NotEmpty(t, productID)

	r = c.do(http.MethodPost, "/api/v1/dashboard/kids/orders", gin.H{"productId": productID})
	require.Equal(t, http.StatusCreated, r.Code)

	r = c.do(http.MethodPost, "/api/v1/dashboard/men/orders", gin.H{"productId": productID})
	assert.Equal(t, http.StatusNotFound, r.Code)

	r = c.do(http.MethodDelete, "/api/v1/dashboard/kids/products/"+productID, nil)
	require.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodGet, "/api/v1/dashboard/kids/orders", nil)
	require.Equal(t, http.StatusOK, r.Code)
	assert.Empty(t, r.Body["data"])

	r = c.do(http.MethodGet, "/api/v1/dashboard/charts", nil)
	require.Equal(t, http.StatusOK, r.Code)
	charts, ok := r.Body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, charts, 4)

	r = c.do(http.MethodGet, "/api/v1/dashboard/garden/products", nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
}

func TestServer_HealthAndNotFound(t *testing.T) {
	h := newTestServer(t, map[string]Pinger{"storage": kv.NewMemoryStore()})
	c := &client{t: t, h: h}

	r := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "healthy", r.Body["status"])

	r = c.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, r.Code)

	r = c.do(http.MethodGet, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, r.Code)
	assert.Equal(t, "Not found", r.Body["error"])

	r = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, r.Code)

	c = &client{t: t, h: newTestServer(t, map[string]Pinger{"db": failingPinger{}})}
	r = c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, r.Code)
}
