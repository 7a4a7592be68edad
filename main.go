package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"quizroom/config"
	"quizroom/game"
	"quizroom/handlers"
	"quizroom/middleware"
	"quizroom/realtime"
	"quizroom/routes"
	"quizroom/services"
	"quizroom/store/postgres"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	stores := postgres.New(db)

	redisClient := config.InitRedis(cfg)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable, cross-instance events disabled: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	bridge := realtime.NewBridge(redisClient, hub)
	go bridge.Run(context.Background())

	authService := services.NewAuthService(stores.Users(), cfg.JWTSecret)
	quizService := services.NewQuizService(stores.Quizzes())
	sessionService := game.NewSessionService(stores, bridge)

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	router := gin.Default()
	router.Use(middleware.CORS())

	routes.SetupRoutes(router, authHandler, quizHandler, sessionHandler, sessionService, hub, cfg.JWTSecret)

	addr := fmt.Sprintf("%s:%s", cfg.BindAddress, cfg.Port)
	log.Printf("server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
