package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nextchapter-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func adminTestRouter(orders order.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAdminHandler(orders)
	r.GET("/api/admin/orders", h.ListOrders)
	r.PUT("/api/admin/orders/:id/status", h.UpdateStatus)
	r.GET("/api/admin/stats", h.Stats)
	return r
}

func TestAdminHandler_ListOrders(t *testing.T) {
	t.Run("StatusFilter", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("ListAll", mock.Anything, "Shipped", 20, 1).
			Return([]order.Order{{ID: 5}}, nil)

		r := adminTestRouter(orders)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=Shipped", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("ListAll", mock.Anything, "Teleported", 20, 1).
			Return(nil, order.ErrUnknownStatus)

		r := adminTestRouter(orders)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=Teleported", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("UpdateDeliveryStatus", mock.Anything, uint(5), "Shipped", (*string)(nil)).
			Return(&order.Order{ID: 5, DeliveryStatus: order.DeliveryShipped}, nil)

		r := adminTestRouter(orders)

		body, _ := json.Marshal(gin.H{"status": "Shipped"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/5/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidTransition", func(t *testing.T) {
		orders := new(MockOrderService)
		orders.On("UpdateDeliveryStatus", mock.Anything, uint(5), "Processing", (*string)(nil)).
			Return(nil, order.ErrInvalidTransition)

		r := adminTestRouter(orders)

		body, _ := json.Marshal(gin.H{"status": "Processing"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/admin/orders/5/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler_Stats(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("Stats", mock.Anything).
		Return(&order.Stats{TotalOrders: 10, CompletedOrders: 8, Revenue: 4200.50, PendingDeliveries: 3}, nil)

	r := adminTestRouter(orders)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_orders":10`)
}
