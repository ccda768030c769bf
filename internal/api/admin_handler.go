package api

import (
	"errors"
	"net/http"
	"strconv"

	"nextchapter-be/internal/order"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	orders order.Service
}

func NewAdminHandler(orders order.Service) *AdminHandler {
	return &AdminHandler{orders: orders}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit, page := queryPaging(c)
	status := c.Query("status")

	orders, err := h.orders.ListAll(c.Request.Context(), status, limit, page)
	if err != nil {
		if errors.Is(err, order.ErrUnknownStatus) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type updateStatusRequest struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"tracking_number"`
}

func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	o, err := h.orders.UpdateDeliveryStatus(c.Request.Context(), uint(orderID),
		req.Status, req.TrackingNumber)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrUnknownStatus), errors.Is(err, order.ErrInvalidTransition):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
