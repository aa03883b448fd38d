package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/handler"
	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/policy"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-events-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-events-api/pkg/middleware/requestid"
)

type routerDeps struct {
	sessions middleware.TokenValidator
	session  *handler.SessionHandler
	events   *handler.EventHandler
	audit    *handler.AuditHandler
	metrics  *handler.MetricsHandler
	registry *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.registry))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.AuditOrigin())

	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", deps.metrics.Ready)
	r.GET("/metrics", deps.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(deps.sessions)
	optionalAuth := middleware.OptionalJWT(deps.sessions)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", deps.session.Login)
	auth.POST("/logout", requireAuth, deps.session.Logout)
	auth.GET("/me", requireAuth, deps.session.Me)
	auth.POST("/switch", requireAuth, deps.session.Switch)

	api.GET("/users", requireAuth, deps.session.Users)
	api.GET("/audit-logs", requireAuth, middleware.RequirePolicy(policy.CanModerateEvent, "only admins can read the audit trail"), deps.audit.List)

	events := api.Group("/events")
	events.GET("/upcoming", deps.events.Upcoming)
	events.GET("/calendar", deps.events.Calendar)
	events.GET("", requireAuth, deps.events.List)
	events.GET("/pending", requireAuth, middleware.RequirePolicy(policy.CanModerateEvent, "only admins can review pending events"), deps.events.Pending)
	events.POST("", requireAuth, middleware.RequirePolicy(policy.CanCreateEvent, "only organizers and admins can create events"), deps.events.Create)
	events.GET("/:id", optionalAuth, deps.events.Get)
	events.PATCH("/:id", requireAuth, deps.events.Update)
	events.DELETE("/:id", requireAuth, deps.events.Delete)
	events.PUT("/:id/status", requireAuth, middleware.RequirePolicy(policy.CanModerateEvent, "only admins can change event status"), deps.events.SetStatus)
	events.POST("/:id/registration", requireAuth, deps.events.Register)
	events.DELETE("/:id/registration", requireAuth, deps.events.Unregister)
	events.GET("/:id/participants/export", requireAuth, deps.events.ExportParticipants)

	return r
}
