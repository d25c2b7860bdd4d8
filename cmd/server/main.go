package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/anontalk/config"
	"github.com/d60-Lab/anontalk/internal/api/handler"
	"github.com/d60-Lab/anontalk/internal/api/router"
	"github.com/d60-Lab/anontalk/internal/locale"
	"github.com/d60-Lab/anontalk/internal/repository"
	"github.com/d60-Lab/anontalk/internal/service"
	"github.com/d60-Lab/anontalk/pkg/cache"
	"github.com/d60-Lab/anontalk/pkg/database"
	"github.com/d60-Lab/anontalk/pkg/logger"
	"github.com/d60-Lab/anontalk/pkg/tracing"
)

// @title anontalk API
// @version 1.0
// @description 匿名问答配对服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	rdb, err := cache.InitRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// repositories & services
	humans := repository.NewHumanRepository(db)
	questions := repository.NewQuestionRepository(db)
	talks := repository.NewTalkRepository(db)
	messages := repository.NewMessageRepository(db)

	detector := locale.NewCachedDetector(
		locale.NewDetector(cfg.Detect.Endpoint, cfg.Detect.APIKey, cfg.Detect.Timeout),
		rdb, cfg.Redis.DetectTTL,
	)
	marker := service.NewSeenMarker(messages, cfg.Seen.QueueSize)
	stopMarker := marker.Start(cfg.Seen.Workers)

	h := handler.NewHandler(
		service.NewTalkService(humans, questions, talks, messages, detector),
		service.NewMessageService(talks, messages, marker),
	)

	gin.SetMode(cfg.Server.Mode)
	engine, err := router.New(cfg, h, router.Options{
		Tracing: cfg.Tracing.Enabled,
		Sentry:  cfg.Sentry.DSN != "",
		Swagger: cfg.Server.Mode != gin.ReleaseMode,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	// 等待已读标记落库后再关闭数据库
	if err := stopMarker(shutdownCtx); err != nil {
		logger.Warn("seen marker stop", zap.Error(err))
	}
	return serveErr
}
