package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/catalog"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/event"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/service"
	apperrors "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/errors"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/httputil"
	pkgkafka "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/kafka"
)

// ============================================================================
// Mock CartRepository
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testCartService(t *testing.T, repo *mockCartRepository) *service.CartService {
	t.Helper()
	return service.NewCartService(repo, testCatalog(t), testEventProducer(), testLogger(), 24*time.Hour)
}

func testCheckoutService(t *testing.T, repo *mockCartRepository) *service.CheckoutService {
	t.Helper()
	return service.NewCheckoutService(testCartService(t, repo), testEventProducer(), testLogger(), 0)
}

// setupRouter creates a chi router matching the production route layout,
// including the SessionIDFromHeader and ContentTypeJSON middleware so that
// session scoping is tested end-to-end.
func setupRouter(t *testing.T, repo *mockCartRepository) *chi.Mux {
	t.Helper()
	cat := testCatalog(t)
	logger := testLogger()
	menuHandler := NewMenuHandler(cat, logger)
	cartHandler := NewCartHandler(testCartService(t, repo), logger)
	checkoutHandler := NewCheckoutHandler(testCheckoutService(t, repo), logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/menu", menuHandler.ListItems)
		r.Get("/menu/{itemId}", menuHandler.GetItem)

		r.Group(func(r chi.Router) {
			r.Use(SessionIDFromHeader)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{itemId}", cartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/quote", checkoutHandler.Quote)
				r.Post("/", checkoutHandler.Submit)
			})
		})
	})
	return r
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		SessionID: "sess-123",
		Lines: []domain.CartLine{
			{ItemID: "1", Name: "Classic Salmon Onigiri", Price: 350, Quantity: 2},
		},
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// Menu endpoint tests
// ============================================================================

func TestListItems(t *testing.T) {
	router := setupRouter(t, new(mockCartRepository))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/menu", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.NotEmpty(t, items)
}

func TestGetItem_Found(t *testing.T) {
	router := setupRouter(t, new(mockCartRepository))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/menu/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	item, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1", item["id"])
}

func TestGetItem_NotFound(t *testing.T) {
	router := setupRouter(t, new(mockCartRepository))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/menu/999", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// ============================================================================
// Cart endpoint tests
// ============================================================================

func TestGetCart_RequiresSessionHeader(t *testing.T) {
	router := setupRouter(t, new(mockCartRepository))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestGetCart_ReturnsSnapshot(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(700), data["subtotal"])
	assert.Equal(t, float64(2), data["item_count"])
	assert.Equal(t, false, data["is_empty"])
}

func TestGetCart_EmptyCartSnapshot(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("cart", "sess-123"))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["is_empty"])
	assert.Equal(t, float64(0), data["item_count"])
	lines, ok := data["lines"].([]any)
	require.True(t, ok)
	assert.Empty(t, lines)
}

func TestAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("cart", "sess-123"))
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]string{"item_id": "1"}, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["item_count"])
	assert.Equal(t, float64(350), data["subtotal"])
}

func TestAddItem_MissingItemID(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]string{}, "sess-123")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "item_id")
}

func TestAddItem_UnknownItem(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]string{"item_id": "999"}, "sess-123")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/1", nil, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["item_count"])
}

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Delete", mock.Anything, "sess-123").Return(nil)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart", nil, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

// ============================================================================
// Checkout endpoint tests
// ============================================================================

func TestQuote_ReturnsBreakdown(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	cart := sampleCart()
	cart.Lines[0].Price = 1000
	cart.Lines[0].Quantity = 1
	repo.On("Get", mock.Anything, "sess-123").Return(cart, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/quote", map[string]string{"fulfillment_type": "delivery"}, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1000), data["subtotal"])
	assert.Equal(t, float64(399), data["delivery_fee"])
	assert.Equal(t, float64(80), data["tax"])
	assert.Equal(t, float64(1479), data["total"])
}

func TestQuote_RejectsUnknownFulfillment(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/quote", map[string]string{"fulfillment_type": "drone"}, "sess-123")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSubmit_ValidationErrors(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)

	body := map[string]string{"orderType": "delivery", "paymentMethod": "card"}
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/", body, "sess-123")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "firstName")
	assert.Contains(t, resp.Error.Fields, "cardNumber")
}

func TestSubmit_EmptyCart(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(nil, apperrors.NotFound("cart", "sess-123"))

	body := map[string]string{
		"firstName": "Ken", "lastName": "Abe", "email": "ken@example.com",
		"phone": "555-0180", "orderType": "pickup", "paymentMethod": "cash",
	}
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/", body, "sess-123")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_ConfirmsOrder(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)
	repo.On("Delete", mock.Anything, "sess-123").Return(nil)

	body := map[string]string{
		"firstName": "Ken", "lastName": "Abe", "email": "ken@example.com",
		"phone": "555-0180", "orderType": "pickup", "paymentMethod": "cash",
	}
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/", body, "sess-123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	order, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "confirmed", order["status"])
	assert.Regexp(t, `^ONI-\d{6}$`, order["number"])
	// 700 subtotal + 56 tax, no delivery fee.
	assert.Equal(t, float64(756), order["totals"].(map[string]any)["total"])
	repo.AssertExpectations(t)
}

// ============================================================================
// Middleware tests
// ============================================================================

func TestContentTypeJSON_RejectsNonJSON(t *testing.T) {
	router := setupRouter(t, new(mockCartRepository))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("item_id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Session-ID", "sess-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestSessionIDFromHeader_TrimsWhitespace(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupRouter(t, repo)

	repo.On("Get", mock.Anything, "sess-123").Return(sampleCart(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "  sess-123  ")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
