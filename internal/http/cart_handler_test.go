package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelprasad/SathikaBoutique/internal/domain"
	"github.com/abelprasad/SathikaBoutique/internal/service"
)

type storeMock struct {
	cart *domain.Cart
	err  error

	gotSessionID string
	gotItemID    string
	gotQuantity  int
}

func (s *storeMock) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.gotSessionID = sessionID
	return s.cart, s.err
}

func (s *storeMock) AddItem(_ context.Context, sessionID, productID, variantID string, quantity int) (*domain.Cart, error) {
	s.gotSessionID = sessionID
	s.gotQuantity = quantity
	return s.cart, s.err
}

func (s *storeMock) UpdateItemQuantity(_ context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	s.gotSessionID = sessionID
	s.gotItemID = itemID
	s.gotQuantity = quantity
	return s.cart, s.err
}

func (s *storeMock) RemoveItem(_ context.Context, sessionID, itemID string) (*domain.Cart, error) {
	s.gotSessionID = sessionID
	s.gotItemID = itemID
	return s.cart, s.err
}

func (s *storeMock) ClearCart(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.gotSessionID = sessionID
	return s.cart, s.err
}

func newCartRouter(store CartStore) *chi.Mux {
	handler := NewCartHandler(store, 5*time.Second)
	r := chi.NewRouter()
	r.Route("/api/cart/{sessionId}", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{itemId}", handler.UpdateItem)
		r.Delete("/items/{itemId}", handler.RemoveItem)
		r.Delete("/", handler.ClearCart)
	})
	return r
}

func fixtureCart() *domain.Cart {
	return &domain.Cart{
		ID:        "cart-1",
		SessionID: "session-1",
		Items: []domain.CartItem{
			{ID: "item-1", ProductID: "prod-1", VariantID: "var-1", Quantity: 2},
		},
		Version: 3,
	}
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env
}

func TestGetCart_Success(t *testing.T) {
	store := &storeMock{cart: fixtureCart()}
	router := newCartRouter(store)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/cart/session-1", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "session-1", store.gotSessionID)

	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "success", env.Status)
	assert.NotNil(t, env.Data)
}

func TestAddItem_Success(t *testing.T) {
	store := &storeMock{cart: fixtureCart()}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"productId":"prod-1","variantId":"var-1","quantity":2}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/cart/session-1/items", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, store.gotQuantity)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	store := &storeMock{cart: fixtureCart()}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"productId":"prod-1","variantId":"var-1"}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/cart/session-1/items", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, store.gotQuantity)
}

func TestAddItem_MissingIdentifiers(t *testing.T) {
	store := &storeMock{cart: fixtureCart()}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"quantity":2}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/cart/session-1/items", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "error", env.Status)
}

func TestAddItem_InsufficientStockPayload(t *testing.T) {
	store := &storeMock{err: &service.InsufficientStockError{Available: 3}}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"productId":"prod-1","variantId":"var-1","quantity":9}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/cart/session-1/items", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.AvailableStock)
	assert.Equal(t, 3, *env.AvailableStock)
	assert.Contains(t, env.Message, "3 item(s) available")
}

func TestAddItem_ProductNotFound(t *testing.T) {
	store := &storeMock{err: service.ErrProductNotFound}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"productId":"nope","variantId":"var-1","quantity":1}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/cart/session-1/items", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateItem_RoutesIDsAndQuantity(t *testing.T) {
	store := &storeMock{cart: fixtureCart()}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"quantity":4}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/cart/session-1/items/item-1", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "session-1", store.gotSessionID)
	assert.Equal(t, "item-1", store.gotItemID)
	assert.Equal(t, 4, store.gotQuantity)
}

func TestUpdateItem_RejectsZeroQuantity(t *testing.T) {
	store := &storeMock{cart: fixtureCart()}
	router := newCartRouter(store)

	body := bytes.NewBufferString(`{"quantity":0}`)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/cart/session-1/items/item-1", body)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRemoveItem_CartNotFound(t *testing.T) {
	store := &storeMock{err: service.ErrCartNotFound}
	router := newCartRouter(store)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/api/cart/session-1/items/item-1", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "cart not found", env.Message)
}

func TestClearCart_Success(t *testing.T) {
	empty := fixtureCart()
	empty.Items = []domain.CartItem{}
	store := &storeMock{cart: empty}
	router := newCartRouter(store)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/api/cart/session-1", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	env := decodeEnvelope(t, recorder.Body)
	assert.Equal(t, "success", env.Status)
}
