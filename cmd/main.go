package main

import (
	"campusdesk/backend/internal/analysis"
	"campusdesk/backend/internal/api/handler"
	"campusdesk/backend/internal/complaint"
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/feedhub"
	"campusdesk/backend/internal/llm"
	"campusdesk/backend/internal/localization"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"campusdesk/backend/internal/telegram"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// Без Redis зміни розсилаються лише в межах цього процесу.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect Redis: %v", err)
		}
	} else {
		log.Println("WARN: REDIS_ADDR not set, change feed is process-local")
	}

	log.Println("Database and Redis connections established.")
	return db, rdb
}

func main() {
	log.Println("Starting complaint desk backend...")

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 1. Storage
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	if err := s.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Live feed
	hub := feedhub.NewManager(s)
	go func() {
		if err := hub.Run(ctx); err != nil {
			log.Printf("ERROR: feed hub exited: %v", err)
		}
	}()

	// 3. Classifier
	gemini := llm.NewGeminiClient(nil, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	if !gemini.Configured() {
		log.Println("WARN: GEMINI_API_KEY not set, every complaint will be classified as Medium")
	}
	classifier := analysis.NewClassifier(gemini, cfg.ClassifyTimeout, cfg.RateLimitBackoff)

	loc, err := localization.NewLocalizer(cfg.LocalesDir, cfg.DefaultLocale)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	// 4. Admin alerts
	var notifier complaint.Notifier
	if cfg.TelegramBotToken != "" {
		minUrgency, err := models.ParseUrgency(cfg.NotifyMinUrgency)
		if err != nil {
			log.Printf("WARN: %v, alerting from High", err)
			minUrgency = models.UrgencyHigh
		}
		tg, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramAdminChatID, minUrgency, loc, cfg.DefaultLocale)
		if err != nil {
			log.Printf("ERROR: Telegram alerts disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	svc := complaint.NewService(s, classifier, hub, notifier)

	// 5. HTTP
	h := handler.NewHandler(svc, classifier, s, loc, []byte(cfg.JWTSecret))
	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        handler.NewRouter(h),
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: graceful shutdown failed: %v", err)
	}
}
