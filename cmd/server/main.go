package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach/internal/api"
	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/pkg/logger"
	"github.com/ignite/outreach/internal/repository/postgres"
	"github.com/ignite/outreach/internal/ses"
	"github.com/ignite/outreach/internal/service/dispatch"
	"github.com/ignite/outreach/internal/service/quota"
	"github.com/ignite/outreach/internal/service/send"
	"github.com/ignite/outreach/internal/tracking"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.SES.AccessKey == "" || cfg.SES.SecretKey == "" {
		log.Fatal("AWS SES credentials are required")
	}
	if cfg.SES.FromEmail == "" {
		log.Fatal("SES_FROM_EMAIL is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}
	logger.Info("connected to database")

	ctx := context.Background()
	sesClient, err := ses.NewClient(ctx, cfg.SES)
	if err != nil {
		log.Fatalf("create ses client: %v", err)
	}

	quotaRepo := postgres.NewQuotaRepo(db)
	campaignRepo := postgres.NewCampaignRepo(db)
	sentRepo := postgres.NewSentEmailRepo(db)
	openRepo := postgres.NewOpenEventRepo(db)
	contactRepo := postgres.NewContactRepo(db)

	quotaSvc := quota.NewService(quotaRepo, sesClient, cfg.Quota.DailyLimit, cfg.Quota.WarnThreshold)

	pacer := dispatch.FixedDelayPacer{Delay: cfg.Sending.Delay()}
	dispatcher := dispatch.NewDispatcher(sesClient, sentRepo, pacer,
		cfg.SES.FromEmail, cfg.SES.FromName, cfg.Tracking.BaseURL)

	sendSvc := send.NewService(contactRepo, quotaSvc, campaignRepo, dispatcher)

	// Redis is optional. Without it duplicate opens are not suppressed,
	// which only inflates counts.
	var deduper tracking.Deduper
	if cfg.Tracking.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Tracking.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, open dedup disabled", "error", err.Error())
		} else {
			deduper = tracking.NewRedisDeduper(redisClient, cfg.Tracking.DedupWindow())
		}
		defer redisClient.Close()
	}
	trackingSvc := tracking.NewService(sentRepo, openRepo, openRepo, deduper, cfg.Tracking.PrescanWindow())

	handlers := api.NewHandlers(sendSvc, quotaSvc, sesClient, campaignRepo, trackingSvc)
	server := api.NewServer(handlers, tracking.NewHandler(trackingSvc))

	addr := cfg.Server.Addr()
	go func() {
		logger.Info("server listening", "addr", addr, "daily_limit", cfg.Quota.DailyLimit)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
