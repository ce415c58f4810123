package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"afyaconnect_back_end_go/assistant"
	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/cache"
	"afyaconnect_back_end_go/config"
	"afyaconnect_back_end_go/db"
	"afyaconnect_back_end_go/logger"
	"afyaconnect_back_end_go/notify"
	"afyaconnect_back_end_go/routes"
	"afyaconnect_back_end_go/services"
	"afyaconnect_back_end_go/storage"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	conn, err := db.InitDatabase(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to the database")
	}
	defer conn.Close()

	if _, err := db.Seed(ctx, conn); err != nil {
		log.WithError(err).Fatal("failed to seed the database")
	}

	deps := services.Dependencies{
		Notifier: notify.LogNotifier{},
		CacheTTL: cfg.StatsCacheTTL,
		Issuer:   auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}

	uploadDir := ""
	if cfg.S3Bucket != "" {
		images, err := storage.NewS3Store(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.WithError(err).Fatal("failed to configure s3 image storage")
		}
		deps.Images = images
		log.WithField("bucket", cfg.S3Bucket).Info("storing images in s3")
	} else {
		images, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
		if err != nil {
			log.WithError(err).Fatal("failed to configure local image storage")
		}
		deps.Images = images
		uploadDir = images.Dir()
	}

	if cfg.SendGridAPIKey != "" {
		deps.Notifier = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.NotifyFrom, cfg.NotifyTo)
	}

	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			// statistics still work without the cache
			log.WithError(err).Warn("redis unavailable, statistics will not be cached")
		} else {
			defer redisCache.Close()
			deps.Cache = redisCache
		}
	}

	sm := services.NewServiceManager(conn, deps)
	if err := sm.Accounts.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to create the admin account")
	}

	bot := assistant.DefaultBot()
	hub := assistant.NewHub(bot, cfg.CORSOrigins)
	defer hub.Close()

	r := routes.NewRouter(routes.Options{
		Services:    sm,
		Issuer:      deps.Issuer,
		Bot:         bot,
		Advisor:     assistant.NewAdvisor(sm.Hospitals),
		Hub:         hub,
		UploadDir:   uploadDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
