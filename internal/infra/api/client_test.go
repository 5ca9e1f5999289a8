package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/infra/api"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateCheckoutSession_OK(t *testing.T) {
	var got map[string][]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create-checkout-session", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"url":"https://pay.example/cs_1"}`)
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL, 5*time.Second)
	reply, err := c.CreateCheckoutSession(context.Background(), []repo.CheckoutItem{
		{ID: "p1", Name: "Kurta", Price: 19.99, Currency: "INR", Quantity: 3},
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "https://pay.example/cs_1", reply.URL)

	require.Equal(t, 1, len(got["items"]))
	assert.Equal(t, 19.99, got["items"][0]["price"])
	assert.Equal(t, float64(3), got["items"][0]["quantity"])
}

func TestClient_CreateCheckoutSession_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"Failed to create checkout session."}`)
	}))
	defer srv.Close()

	reply, err := api.NewClient(srv.URL, 5*time.Second).
		CreateCheckoutSession(context.Background(), []repo.CheckoutItem{{ID: "p1"}})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, reply.StatusCode)
	assert.Equal(t, "", reply.URL)
	assert.Equal(t, "Failed to create checkout session.", reply.Error)
}

func TestClient_CreateCheckoutSession_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.NewClient(url, time.Second).
		CreateCheckoutSession(context.Background(), []repo.CheckoutItem{{ID: "p1"}})

	assert.ErrorIs(t, err, repo.ErrNetwork)
}

func TestClient_FetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"p1","name":"Kurta","price":1999,"category":"clothing"}]`)
	}))
	defer srv.Close()

	products, err := api.NewClient(srv.URL, 5*time.Second).FetchProducts(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, len(products))
	assert.Equal(t, "Kurta", products[0].Name)
	assert.Equal(t, "1999", products[0].Price.String())
}

func TestClient_FetchProducts_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := api.NewClient(srv.URL, 5*time.Second).FetchProducts(context.Background())
	assert.Error(t, err)
}
