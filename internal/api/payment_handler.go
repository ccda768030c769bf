package api

import (
	"errors"
	"net/http"

	"nextchapter-be/internal/metrics"
	"nextchapter-be/internal/middleware"
	"nextchapter-be/internal/order"
	"nextchapter-be/internal/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc order.Service
}

func NewPaymentHandler(svc order.Service) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type createOrderRequest struct {
	Amount          float64 `json:"amount" binding:"required"`
	ShippingAddress string  `json:"shippingAddress" binding:"required"`
}

type verifyRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := h.svc.Checkout(c.Request.Context(), userID, req.Amount, req.ShippingAddress)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidAmount), errors.Is(err, order.ErrEmptyAddress):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, payment.ErrGatewayUnavailable):
			metrics.PaymentProcessed("gateway_error")
			respondError(c, http.StatusBadGateway, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	metrics.PaymentProcessed("created")
	c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	orderID, err := h.svc.VerifyPayment(c.Request.Context(), userID,
		req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			metrics.PaymentProcessed("invalid_signature")
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, payment.ErrAlreadyProcessed):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, payment.ErrPaymentNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, order.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			metrics.PaymentProcessed("error")
			respondError(c, http.StatusInternalServerError, "failed to verify payment")
		}
		return
	}

	metrics.PaymentProcessed("completed")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": orderID,
	})
}
