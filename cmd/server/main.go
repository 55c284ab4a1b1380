package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fitcoach-backend/internal/agent"
	"fitcoach-backend/internal/config"
	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/database"
	"fitcoach-backend/internal/handlers"
	"fitcoach-backend/internal/middleware"
	"fitcoach-backend/internal/repository"
	"fitcoach-backend/internal/router"
	"fitcoach-backend/internal/session"
	"fitcoach-backend/internal/tools"
	"fitcoach-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting FitCoach Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("✗ Invalid configuration: %v", err)
	}
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis Clients (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		var err error
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()
		log.Println("✓ Redis connected")
	}

	// ──── Step 3: Initialize History Backend ────
	sinks, closeSinks, err := historySinks(cfg, redisClients)
	if err != nil {
		log.Fatalf("✗ History backend %q failed: %v", cfg.HistoryBackend, err)
	}
	defer closeSinks()
	log.Printf("✓ History backend ready (%s)", cfg.HistoryBackend)

	// ──── Step 4: Start WebSocket Hub ────
	auth := middleware.NewSessionAuth(cfg.JWTSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	var pubsub *redis.Client
	if redisClients != nil {
		pubsub = redisClients.PubSub
	}
	wsHub := websocket.NewHub(pubsub, auth)
	log.Println("✓ WebSocket hub started")

	// ──── Step 5: Initialize Session Manager ────
	registry := tools.DefaultRegistry()
	temperature := cfg.GeminiTemperature
	sessions := session.NewManager(sinks, session.GeminiAgents(registry), wsHub, session.Options{
		DefaultModel:       cfg.GeminiModel,
		DefaultTemperature: &temperature,
		DefaultAPIKey:      cfg.GeminiAPIKey,
		MaxToolIterations:  cfg.GeminiMaxToolIters,
		Limiter:            agent.NewLimiter(cfg.GeminiConcurrentReqs),
	})
	defer sessions.Close()
	if cfg.GeminiAPIKey == "" {
		log.Println("✓ Session manager ready (no server Gemini key; sessions must supply one)")
	} else {
		log.Printf("✓ Session manager ready (%s, %d tools)", cfg.GeminiModel, registry.Len())
	}

	// ──── Step 6: Start HTTP Server ────
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	r := router.New(router.Deps{
		Auth:           auth,
		MessageLimiter: middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute),
		Sessions:       handlers.NewSessionHandler(sessions, auth),
		Chat:           handlers.NewChatHandler(sessions),
		Tools:          handlers.NewToolsHandler(registry),
		WebSocket:      wsHub.HandleWebSocket,
		FrontendURL:    cfg.FrontendURL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FitCoach Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// historySinks picks the per-session sink factory for cfg.HistoryBackend.
// The returned func releases whatever connection the backend opened.
func historySinks(cfg *config.Config, redisClients *database.RedisClients) (session.SinkFactory, func(), error) {
	noop := func() {}

	switch cfg.HistoryBackend {
	case config.BackendMemory:
		return nil, noop, nil

	case config.BackendFile:
		return func(id uuid.UUID) conversation.Sink {
			return conversation.NewFileSink(filepath.Join(cfg.HistoryPath, id.String()+".json"))
		}, noop, nil

	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewConversationRepo(pool).Sink, pool.Close, nil

	case config.BackendRedis:
		if redisClients == nil {
			return nil, nil, fmt.Errorf("redis is not connected")
		}
		ttl := time.Duration(cfg.HistoryTTLHours) * time.Hour
		return repository.NewConversationCache(redisClients.Store, ttl).Sink, noop, nil

	case config.BackendSQLite:
		repo, err := repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo.Sink, func() { repo.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
}
