package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inducthub/internal/cache"
	"inducthub/internal/config"
	"inducthub/internal/repository"
	"inducthub/internal/service"
	"inducthub/internal/session"
	"inducthub/internal/storage"
	"inducthub/internal/transport/rest"
	"inducthub/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisAddr
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	assignmentRepo := repository.NewAssignmentRepo(db)
	inductionRepo := repository.NewInductionRepo(db)

	// Initialize progress store
	progressStore := cache.NewProgressCache(rdb)

	// Initialize file storage
	fileStore, err := storage.NewGridFSStore(db, cfg.FileURLBase)
	if err != nil {
		log.Fatal("Failed to initialize file storage:", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	registry := session.NewRegistry(assignmentRepo, inductionRepo, progressStore, fileStore, wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		AssignmentRepo: assignmentRepo,
		InductionRepo:  inductionRepo,
		Registry:       registry,
		FileStore:      fileStore,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/inductions")
		log.Println("  POST/GET /v1/assignments")
		log.Println("  POST /v1/assignments/{id}/session")
		log.Println("  PUT  /v1/assignments/{id}/session/answers/{questionId}")
		log.Println("  POST /v1/assignments/{id}/session/submit")
		log.Println("  WS  /v1/ws/assignments/{id}/watch")
		log.Println("  WS  /v1/ws/assignments/{id}/session")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
