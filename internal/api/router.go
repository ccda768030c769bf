package api

import (
	"database/sql"
	"net/http"

	"nextchapter-be/internal/cart"
	"nextchapter-be/internal/catalog"
	"nextchapter-be/internal/metrics"
	"nextchapter-be/internal/middleware"
	"nextchapter-be/internal/order"
	"nextchapter-be/internal/review"
	"nextchapter-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	DB      *sql.DB
	Users   user.Service
	Catalog catalog.Service
	Cart    cart.Service
	Orders  order.Service
	Reviews review.Service
}

func NewRouter(s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging())
	r.Use(metrics.Middleware())
	// Auth runs before the limiter so authenticated traffic is keyed
	// by user id rather than source IP.
	r.Use(middleware.Auth())
	r.Use(middleware.RateLimit())

	authH := NewAuthHandler(s.Users)
	catalogH := NewCatalogHandler(s.Catalog)
	cartH := NewCartHandler(s.Cart)
	paymentH := NewPaymentHandler(s.Orders)
	orderH := NewOrderHandler(s.Orders, s.Reviews)
	adminH := NewAdminHandler(s.Orders)

	r.GET("/health", func(c *gin.Context) {
		if err := s.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
	}

	books := api.Group("/books")
	{
		books.GET("", catalogH.NewArrivals)
		books.GET("/search", catalogH.Search)
		books.GET("/best-sellers", catalogH.BestSellers)
		books.GET("/top-rated", catalogH.TopRated)
		books.GET("/new-arrivals", catalogH.NewArrivals)
		books.GET("/category/:category", catalogH.ByCategory)
		books.GET("/:id", catalogH.GetBook)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/cart", cartH.Get)
		authed.POST("/cart", cartH.Add)
		authed.PUT("/cart/:bookId", cartH.UpdateQuantity)
		authed.DELETE("/cart/:bookId", cartH.Remove)
		authed.DELETE("/cart", cartH.Clear)

		authed.POST("/payment/create-order", paymentH.CreateOrder)
		authed.POST("/payment/verify", paymentH.Verify)

		authed.GET("/orders", orderH.List)
		authed.POST("/orders/review", orderH.SubmitReview)
		authed.GET("/orders/review", orderH.ListReviews)
		authed.GET("/orders/:id", orderH.Get)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/orders", adminH.ListOrders)
		admin.PUT("/orders/:id/status", adminH.UpdateStatus)
		admin.GET("/stats", adminH.Stats)
	}

	return r
}
