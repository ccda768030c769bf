package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"nextchapter-be/internal/catalog"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc catalog.Service
}

func NewCatalogHandler(svc catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func queryLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return limit
}

func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid book id")
		return
	}

	book, err := h.svc.GetBook(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load book")
		return
	}

	c.JSON(http.StatusOK, book)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "missing search query")
		return
	}

	books, err := h.svc.Search(c.Request.Context(), query, queryLimit(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *CatalogHandler) BestSellers(c *gin.Context) {
	h.list(c, h.svc.BestSellers)
}

func (h *CatalogHandler) TopRated(c *gin.Context) {
	h.list(c, h.svc.TopRated)
}

func (h *CatalogHandler) NewArrivals(c *gin.Context) {
	h.list(c, h.svc.NewArrivals)
}

func (h *CatalogHandler) ByCategory(c *gin.Context) {
	category := c.Param("category")

	books, err := h.svc.ByCategory(c.Request.Context(), category, queryLimit(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *CatalogHandler) list(c *gin.Context, fetch func(ctx context.Context, limit int) ([]catalog.Book, error)) {
	books, err := fetch(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}
