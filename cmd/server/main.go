package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"savora-system/config"
	"savora-system/internal/database"
	"savora-system/internal/middleware"
	"savora-system/internal/utils"
)

const requestTimeout = 30 * time.Second

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = config.NewRedisClient(cfg.Redis)
	} else {
		log.Println("REDIS_HOST not set, rate limiting falls back to in-process counters")
	}

	utils.SetSecret(cfg.Auth.JWTSecret)

	tokenTTL, err := time.ParseDuration(cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Invalid TOKEN_TTL %q: %v", cfg.Auth.TokenTTL, err)
	}

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.RateLimit, redisClient))
	r.Use(middleware.RequestTimeout(requestTimeout))

	registerRoutes(r, db, tokenTTL)

	addr := ":" + cfg.Port
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
