// Standalone tracking pixel service. Runs separately from the API
// server so pixel traffic (which spikes with every mail client and
// scanner fetch) cannot affect send throughput.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/repository/postgres"
	"github.com/ignite/outreach/internal/tracking"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	cfg, err := config.LoadFromEnv("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	var deduper tracking.Deduper
	if cfg.Tracking.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Tracking.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unreachable, open dedup disabled: %v", err)
		} else {
			deduper = tracking.NewRedisDeduper(redisClient, cfg.Tracking.DedupWindow())
		}
		defer redisClient.Close()
	}

	sentRepo := postgres.NewSentEmailRepo(db)
	openRepo := postgres.NewOpenEventRepo(db)
	svc := tracking.NewService(sentRepo, openRepo, openRepo, deduper, cfg.Tracking.PrescanWindow())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	tracking.NewHandler(svc).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("tracking service listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down tracking service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
