package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stocklane/fulfillment-api/config"
	orderControllers "github.com/stocklane/fulfillment-api/controllers/order"
	"github.com/stocklane/fulfillment-api/database"
	"github.com/stocklane/fulfillment-api/pkg/logger"
	"github.com/stocklane/fulfillment-api/routes"
	"github.com/stocklane/fulfillment-api/services"
	"github.com/stocklane/fulfillment-api/store/postgres"
)

func main() {
	cfg := config.Load()

	slogger := logger.New(logger.Options{
		Service: "fulfillment-api",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	if cfg.SeedDB {
		if err := database.Seed(db); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		slogger.Info("database seeded")
	}

	st := postgres.New(db)
	carts := services.NewCartService(st, slogger)
	orders := services.NewOrderService(st, slogger)
	hub := orderControllers.NewHub()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Store:  st,
		Carts:  carts,
		Orders: orders,
		Hub:    hub,
	})

	slogger.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
