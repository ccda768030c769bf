package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/orders", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(90000), body["amount"])
			assert.Equal(t, "INR", body["currency"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(GatewayOrder{
				ID:       "order_abc",
				Amount:   90000,
				Currency: "INR",
				Receipt:  body["receipt"].(string),
				Status:   "created",
			})
		}))
		defer srv.Close()

		g := NewRazorpayGatewayWithBaseURL("key", "secret", srv.URL)

		order, err := g.CreateOrder(context.Background(), 90000, "INR", "rcpt-1")
		require.NoError(t, err)
		assert.Equal(t, "order_abc", order.ID)
		assert.Equal(t, int64(90000), order.Amount)
	})

	t.Run("GatewayError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		g := NewRazorpayGatewayWithBaseURL("key", "secret", srv.URL)

		_, err := g.CreateOrder(context.Background(), 1000, "INR", "rcpt-2")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("Unreachable", func(t *testing.T) {
		g := NewRazorpayGatewayWithBaseURL("key", "secret", "http://127.0.0.1:1")

		_, err := g.CreateOrder(context.Background(), 1000, "INR", "rcpt-3")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})
}
