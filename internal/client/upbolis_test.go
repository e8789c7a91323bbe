package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"upbmy/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// upbolisServer - стенд маркетплейса: товары в памяти, цена после
// создания не меняется (PATCH принимает только stock/is_active).
type upbolisServer struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]*Product
	failNext bool // следующий POST /seller/products падает пятисоткой
}

func (s *upbolisServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "upbolis-token"})
	})

	mux.HandleFunc("POST /seller/products", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.failNext {
			s.failNext = false
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var payload productPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		s.nextID++
		product := &Product{
			ID:          s.nextID,
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Stock:       payload.Stock,
			IsActive:    payload.IsActive,
		}
		s.products[product.ID] = product
		json.NewEncoder(w).Encode(product)
	})

	mux.HandleFunc("PATCH /seller/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		require.NoError(t, err)

		s.mu.Lock()
		defer s.mu.Unlock()

		product, ok := s.products[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var payload productStatePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		product.Stock = payload.Stock
		product.IsActive = payload.IsActive
		json.NewEncoder(w).Encode(product)
	})

	return mux
}

func newUpbolisFixture(t *testing.T) (*UpbolisClient, *upbolisServer) {
	server := &upbolisServer{products: map[int64]*Product{}}
	ts := httptest.NewServer(server.handler(t))
	t.Cleanup(ts.Close)
	return NewUpbolisClient(ts.URL, "upbmy-bot", "secret", zap.NewNop().Sugar()), server
}

func TestUpbolisClient_CreateProduct(t *testing.T) {
	c, server := newUpbolisFixture(t)

	product, err := c.CreateProduct(context.Background(), "Curso de Go", "", 49.9)
	require.NoError(t, err)
	require.Equal(t, "Curso educativo de UPBmy", product.Description)
	require.Equal(t, 49.9, product.Price)
	require.Equal(t, productStock, product.Stock)
	require.True(t, product.IsActive)
	require.True(t, server.products[product.ID].IsActive)
}

func TestUpbolisClient_RecreateWithPrice(t *testing.T) {
	c, server := newUpbolisFixture(t)
	ctx := context.Background()

	old, err := c.CreateProduct(ctx, "Curso de Go", "desc", 49.9)
	require.NoError(t, err)

	replacement, err := c.RecreateWithPrice(ctx, &old.ID, "Curso de Go", "desc", 79.9)
	require.NoError(t, err)
	require.NotEqual(t, old.ID, replacement.ID)
	require.Equal(t, 79.9, replacement.Price)

	// старый товар снят с витрины, новый активен
	require.False(t, server.products[old.ID].IsActive)
	require.Equal(t, 0, server.products[old.ID].Stock)
	require.True(t, server.products[replacement.ID].IsActive)
}

func TestUpbolisClient_RecreateWithPrice_NoOldProduct(t *testing.T) {
	c, _ := newUpbolisFixture(t)

	product, err := c.RecreateWithPrice(context.Background(), nil, "Curso nuevo", "desc", 30)
	require.NoError(t, err)
	require.Equal(t, 30.0, product.Price)
}

func TestUpbolisClient_RecreateWithPrice_CreateFailureKeepsOldDeactivated(t *testing.T) {
	c, server := newUpbolisFixture(t)
	ctx := context.Background()

	old, err := c.CreateProduct(ctx, "Curso de Go", "desc", 49.9)
	require.NoError(t, err)

	server.mu.Lock()
	server.failNext = true
	server.mu.Unlock()

	_, err = c.RecreateWithPrice(ctx, &old.ID, "Curso de Go", "desc", 99.9)
	require.ErrorIs(t, err, domain.ErrUpstream)

	// деградация задокументированная: старый уже выключен, нового нет.
	// Повторный вызов чинит состояние.
	require.False(t, server.products[old.ID].IsActive)

	replacement, err := c.RecreateWithPrice(ctx, &old.ID, "Curso de Go", "desc", 99.9)
	require.NoError(t, err)
	require.Equal(t, 99.9, replacement.Price)
}

func TestUpbolisClient_VerifyConnectivity(t *testing.T) {
	c, _ := newUpbolisFixture(t)
	require.NoError(t, c.VerifyConnectivity(context.Background()))

	down := NewUpbolisClient("http://127.0.0.1:1", "upbmy-bot", "secret", zap.NewNop().Sugar())
	require.ErrorIs(t, down.VerifyConnectivity(context.Background()), domain.ErrUpstream)
}
