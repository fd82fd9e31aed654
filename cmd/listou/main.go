package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rcandido/listou/internal/backup"
	"github.com/rcandido/listou/internal/database"
	"github.com/rcandido/listou/internal/logging"
	"github.com/rcandido/listou/internal/push"
	"github.com/rcandido/listou/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("LISTOU_LOG_LEVEL"))

	port := os.Getenv("LISTOU_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("LISTOU_DB_PATH")
	if dbPath == "" {
		dbPath = "listou.db"
	}

	jwtSecret := os.Getenv("LISTOU_JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("LISTOU_JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("LISTOU_S3_ENDPOINT"),
			Bucket:    os.Getenv("LISTOU_S3_BUCKET"),
			Region:    os.Getenv("LISTOU_S3_REGION"),
			AccessKey: os.Getenv("LISTOU_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("LISTOU_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		ScheduleHour:  envInt("LISTOU_BACKUP_HOUR", 3),
		RetentionDays: envInt("LISTOU_BACKUP_RETENTION_DAYS", 30),
		Passphrase:    os.Getenv("LISTOU_BACKUP_PASSPHRASE"),
	}

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("LISTOU_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("LISTOU_VAPID_PRIVATE_KEY"),
		Subscriber:      os.Getenv("LISTOU_VAPID_SUBSCRIBER"),
	}

	srv := server.New(db, jwtSecret, backupCfg, pushCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if srv.BackupManager().Enabled() {
		srv.BackupManager().Start(ctx)
		defer srv.BackupManager().Stop()
	}

	// Expired rate-limit entries accumulate otherwise
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listou running", "addr", fmt.Sprintf("http://localhost:%s", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
