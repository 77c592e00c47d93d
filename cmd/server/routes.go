package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"savora-system/internal/handlers"
	"savora-system/internal/middleware"
	"savora-system/internal/services/inventory"
	"savora-system/internal/services/metrics"
	"savora-system/internal/services/orders"
	"savora-system/internal/services/reports"
)

func registerRoutes(r *gin.Engine, db *gorm.DB, tokenTTL time.Duration) {
	authHandler := handlers.NewAuthHandler(db, tokenTTL)
	businessHandler := handlers.NewBusinessHandler(db, tokenTTL)
	inventoryHandler := handlers.NewInventoryHandler(inventory.NewService(db))
	ordersHandler := handlers.NewOrdersHandler(orders.NewService(db))
	reportsHandler := handlers.NewReportsHandler(reports.NewService(db))
	metricsHandler := handlers.NewMetricsHandler(metrics.NewService(db))
	wasteHandler := handlers.NewWasteHandler()

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	// --- Authenticated, pre-business ---
	account := r.Group("/api/v1")
	account.Use(middleware.JWTAuth())
	{
		account.POST("/business", businessHandler.Create)
	}

	// --- Protected API Group ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	protected.Use(middleware.RequireBusiness())
	protected.Use(middleware.RestaurantScope(db))
	{
		inventoryGroup := protected.Group("/inventory")
		{
			inventoryGroup.GET("", inventoryHandler.List)
			inventoryGroup.GET("/lookup", inventoryHandler.LookupBarcode)
			inventoryGroup.POST("/receive", inventoryHandler.Receive)
			inventoryGroup.POST("/remove", inventoryHandler.Remove)
		}

		ordersGroup := protected.Group("/orders")
		ordersGroup.Use(middleware.RequireRole("MANAGER"))
		{
			ordersGroup.POST("", ordersHandler.Create)
		}

		metricsGroup := protected.Group("/metrics")
		{
			metricsGroup.GET("/dashboard", metricsHandler.Dashboard)
			metricsGroup.GET("/inventory", metricsHandler.Inventory)
			metricsGroup.GET("/orders", metricsHandler.Orders)
			metricsGroup.GET("/receiving", metricsHandler.Receiving)
		}

		reportsGroup := protected.Group("/reports")
		{
			reportsGroup.GET("/waste/summary", reportsHandler.WasteSummary)
			reportsGroup.GET("/waste/by-category", reportsHandler.WasteByCategory)
			reportsGroup.GET("/waste/by-reason", reportsHandler.WasteByReason)
			reportsGroup.GET("/waste/by-item", reportsHandler.WasteByItem)
			reportsGroup.GET("/waste/trends", reportsHandler.WasteTrends)
			reportsGroup.GET("/food-cost", reportsHandler.FoodCostAnalysis)
		}

		wasteGroup := protected.Group("/waste")
		{
			wasteGroup.GET("/reasons", wasteHandler.Reasons)
			wasteGroup.GET("/categories", wasteHandler.Categories)
		}
	}

	// Legacy dashboard path kept for older clients.
	legacy := r.Group("/api")
	legacy.Use(middleware.JWTAuth())
	legacy.Use(middleware.RequireBusiness())
	legacy.Use(middleware.RestaurantScope(db))
	{
		legacy.GET("/dashboard", metricsHandler.LegacyDashboard)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"message":   "Server is running",
			"timestamp": time.Now(),
		})
	})
}
