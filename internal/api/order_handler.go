package api

import (
	"errors"
	"net/http"
	"strconv"

	"nextchapter-be/internal/middleware"
	"nextchapter-be/internal/order"
	"nextchapter-be/internal/review"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders  order.Service
	reviews review.Service
}

func NewOrderHandler(orders order.Service, reviews review.Service) *OrderHandler {
	return &OrderHandler{orders: orders, reviews: reviews}
}

func queryPaging(c *gin.Context) (limit, page int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	return limit, page
}

func (h *OrderHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	limit, page := queryPaging(c)

	orders, err := h.orders.GetOrders(c.Request.Context(), userID, limit, page)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), userID, uint(orderID))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load order")
		return
	}

	c.JSON(http.StatusOK, o)
}

type submitReviewRequest struct {
	OrderID uint   `json:"orderId" binding:"required"`
	BookID  uint   `json:"bookId" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *OrderHandler) SubmitReview(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := h.reviews.Submit(c.Request.Context(), userID, req.OrderID, req.BookID,
		req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating),
			errors.Is(err, review.ErrNotDeliverable),
			errors.Is(err, review.ErrItemNotFound):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, review.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, review.ErrDuplicateReview):
			respondError(c, http.StatusConflict, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to submit review")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "review submitted",
		"orderReviewed": res.FullyReviewed,
	})
}

func (h *OrderHandler) ListReviews(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	orderID, err := strconv.ParseUint(c.Query("orderId"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order id")
		return
	}

	reviews, err := h.reviews.ListByOrder(c.Request.Context(), uint(orderID), userID)
	if err != nil {
		if errors.Is(err, review.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
