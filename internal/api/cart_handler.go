package api

import (
	"errors"
	"net/http"
	"strconv"

	"nextchapter-be/internal/cart"
	"nextchapter-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{svc: svc}
}

type addToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	lines, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load cart")
		return
	}

	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}

	c.JSON(http.StatusOK, gin.H{"items": lines, "total": total})
}

func (h *CartHandler) Add(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	line, err := h.svc.Add(c.Request.Context(), cart.AddParams{
		UserID:   userID,
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, cart.ErrBookNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to add to cart")
		}
		return
	}

	c.JSON(http.StatusCreated, line)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	err = h.svc.UpdateQuantity(c.Request.Context(), cart.UpdateParams{
		UserID:   userID,
		BookID:   uint(bookID),
		Quantity: req.Quantity,
	})
	if err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (h *CartHandler) Remove(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	if err := h.svc.Remove(c.Request.Context(), userID, uint(bookID)); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to remove from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.svc.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
