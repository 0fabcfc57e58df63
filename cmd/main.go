package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kimmingyu9411/library-take-out/internal/config"
	"github.com/kimmingyu9411/library-take-out/internal/db"
	"github.com/kimmingyu9411/library-take-out/internal/events"
	"github.com/kimmingyu9411/library-take-out/internal/handler"
	"github.com/kimmingyu9411/library-take-out/internal/middleware"
	redisclient "github.com/kimmingyu9411/library-take-out/internal/redis"
	"github.com/kimmingyu9411/library-take-out/internal/repository"
	"github.com/kimmingyu9411/library-take-out/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// Database connection (write store)
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis connection (read model store + event streaming)
	rdb, err := redisclient.NewClient(cfg.RedisAddr, "", cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// --- explicit wiring, no global registry ---
	publisher := events.NewPublisher(rdb.Client)

	writeRepo := repository.NewUserWriteRepository(conn)
	readRepo := repository.NewUserReadRepository(conn, rdb.Client)

	accountSvc := service.NewAccountService(writeRepo, readRepo, publisher)
	authSvc := service.NewAuthService(writeRepo, cfg.JWTSecret)

	userHandler := handler.NewUserHandler(accountSvc, accountSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	router.POST("/signup", userHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.POST("/refresh", authHandler.RefreshToken)

	authed := router.Group("/", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/profile", userHandler.GetProfile)
		authed.PATCH("/user", userHandler.UpdateUser)
		authed.DELETE("/user", userHandler.DeleteUser)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Account service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
