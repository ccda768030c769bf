package main

import (
	"nextchapter-be/internal/api"
	"nextchapter-be/internal/cache"
	"nextchapter-be/internal/cart"
	"nextchapter-be/internal/catalog"
	"nextchapter-be/internal/config"
	"nextchapter-be/internal/db"
	"nextchapter-be/internal/logger"
	"nextchapter-be/internal/order"
	"nextchapter-be/internal/payment"
	"nextchapter-be/internal/review"
	"nextchapter-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := db.InitDB(cfg)
	defer database.Close()

	rdb := cache.InitRedis(cfg, logger.L())
	if rdb != nil {
		defer rdb.Close()
	}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo, rdb)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, catalogRepo)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, gateway, cfg.RazorpayKeyID)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo)

	router := api.NewRouter(api.Services{
		DB:      database,
		Users:   userSvc,
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  orderSvc,
		Reviews: reviewSvc,
	})

	logger.L().Info("server starting", zap.String("port", cfg.AppPort))
	if err := router.Run(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
