package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/database"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepo(db)

	// Redis backs the admin-listing response cache; nil disables it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))

	authHandler := handler.NewAuthHandler(cfg, users)
	userHandler := handler.NewUserHandler(users)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, users, cfg.JWTSecret)
	router.RegisterUsers(e, userHandler, users, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	// Background consumer mirrors registrations into logs/signup.log.
	go queue.StartSignupConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
