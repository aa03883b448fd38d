package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-events-api/api/swagger"
	"github.com/noah-isme/campus-events-api/internal/handler"
	"github.com/noah-isme/campus-events-api/internal/repository"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/cache"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/database"
	"github.com/noah-isme/campus-events-api/pkg/jobs"
	"github.com/noah-isme/campus-events-api/pkg/logger"
)

// @title Campus Events API
// @version 1.0.0
// @description Browse, submit, moderate and register for campus events
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

type stores struct {
	users  service.UserDirectory
	events service.EventStore
	audit  service.AuditStore
	checks map[string]handler.ReadinessCheck
	close  func()
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStores(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer st.close()

	metrics := service.NewMetricsService()
	validate := validator.New()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			st.checks["redis"] = cache.Ping(redisClient)
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var revocations interface {
		Revoke(ctx context.Context, tokenID string, until time.Time) error
		IsRevoked(ctx context.Context, tokenID string) (bool, error)
	} = repository.NewMemoryRevocationRepository()
	if redisClient != nil {
		revocations = cacheRepo
	}

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.UpcomingTTL, logr, redisClient != nil)

	auditSvc := service.NewAuditService(st.audit, st.users, nil, metrics, logr)
	queue := jobs.NewQueue("audit", auditSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
		Logger:     logr,
		OnDrop:     func(jobs.Job, error) { metrics.CountAuditDropped() },
	})
	queue.Start(context.WithoutCancel(ctx))
	defer queue.Stop()
	auditSvc.AttachQueue(queue)

	sessionSvc := service.NewSessionService(st.users, revocations, auditSvc, validate, logr, service.SessionConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AllowSwitch:       cfg.Session.AllowSwitch,
	})
	eventSvc := service.NewEventService(st.events, st.users, validate, logr,
		service.WithEventCache(cacheSvc),
		service.WithEventAudit(auditSvc),
		service.WithEventMetrics(metrics),
	)

	router := newRouter(cfg, logr, routerDeps{
		sessions: sessionSvc,
		session:  handler.NewSessionHandler(sessionSvc),
		events:   handler.NewEventHandler(eventSvc),
		audit:    handler.NewAuditHandler(auditSvc),
		metrics:  handler.NewMetricsHandler(metrics, st.checks),
		registry: metrics,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*stores, error) {
	checks := map[string]handler.ReadinessCheck{}

	if cfg.Store.Driver == config.StorePostgres {
		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(cfg.Database, logr); err != nil {
				return nil, err
			}
		}
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		checks["postgres"] = db.PingContext
		users := repository.NewUserRepository(db)
		return &stores{
			users:  users,
			events: repository.NewEventRepository(db),
			audit:  users,
			checks: checks,
			close:  func() { _ = db.Close() },
		}, nil
	}

	events := repository.NewMemoryEventRepository(cfg.Store.Latency)
	if cfg.Store.Seed {
		events.Seed(repository.SeedEvents(time.Now()))
	}
	logr.Info("using in-memory store", zap.Duration("latency", cfg.Store.Latency), zap.Bool("seeded", cfg.Store.Seed))
	return &stores{
		users:  repository.NewMemoryUserRepository(repository.SeedUsers()),
		events: events,
		audit:  repository.NewMemoryAuditRepository(0),
		checks: checks,
		close:  func() {},
	}, nil
}
