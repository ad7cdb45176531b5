package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/http"
	httpH "github.com/yungbote/inspect-backend/internal/http/handlers"
	httpMW "github.com/yungbote/inspect-backend/internal/http/middleware"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type Middleware struct {
	Auth      *httpMW.AuthMiddleware
	RateLimit *httpMW.RateLimiter
}

type Handlers struct {
	Health   *httpH.HealthHandler
	User     *httpH.UserHandler
	Insight  *httpH.InsightHandler
	Evidence *httpH.EvidenceHandler
	Children *httpH.ChildrenHandler
	Feedback *httpH.FeedbackHandler
	Link     *httpH.LinkHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(pinger),
		User:     httpH.NewUserHandler(services.User),
		Insight:  httpH.NewInsightHandler(services.Insight),
		Evidence: httpH.NewEvidenceHandler(services.Evidence),
		Children: httpH.NewChildrenHandler(services.InsightLink),
		Feedback: httpH.NewFeedbackHandler(services.Comment, services.Reaction),
		Link:     httpH.NewLinkHandler(services.Link),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	var limiter *httpMW.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = httpMW.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return Middleware{
		Auth:      httpMW.NewAuthMiddleware(log, services.Auth),
		RateLimit: limiter,
	}
}

func wireRouterConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) http.RouterConfig {
	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	return http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		RateLimiter:     middleware.RateLimit,
		CORSOrigins:     cfg.CORSOrigins,
		TracingService:  tracing,
		HealthHandler:   handlers.Health,
		UserHandler:     handlers.User,
		InsightHandler:  handlers.Insight,
		EvidenceHandler: handlers.Evidence,
		ChildrenHandler: handlers.Children,
		FeedbackHandler: handlers.Feedback,
		LinkHandler:     handlers.Link,
	}
}
