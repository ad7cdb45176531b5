package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/inspect-backend/internal/http/handlers"
	httpMW "github.com/yungbote/inspect-backend/internal/http/middleware"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware
	RateLimiter    *httpMW.RateLimiter
	CORSOrigins    []string
	// TracingService enables otelgin spans under this service name.
	TracingService string

	HealthHandler   *httpH.HealthHandler
	UserHandler     *httpH.UserHandler
	InsightHandler  *httpH.InsightHandler
	EvidenceHandler *httpH.EvidenceHandler
	ChildrenHandler *httpH.ChildrenHandler
	FeedbackHandler *httpH.FeedbackHandler
	LinkHandler     *httpH.LinkHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.AttachRequestContext())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.ErrorReporter(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Public reads; the caller is attached when a token is present
	public := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			public.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		if cfg.InsightHandler != nil {
			public.GET("/insights/:uid", cfg.InsightHandler.GetInsight)
		}
		if cfg.LinkHandler != nil {
			public.GET("/links/:uid", cfg.LinkHandler.GetLink)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}
		protected.Use(httpMW.RateLimit(cfg.RateLimiter))

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Insights
		if cfg.InsightHandler != nil {
			protected.GET("/insights", cfg.InsightHandler.ListInsights)
			protected.POST("/insights", cfg.InsightHandler.CreateInsight)
			protected.PATCH("/insights/:uid", cfg.InsightHandler.UpdateInsight)
			protected.DELETE("/insights/:uid", cfg.InsightHandler.DeleteInsight)
			protected.GET("/insights/:uid/candidates", cfg.InsightHandler.ListCandidates)
		}

		// Evidence
		if cfg.EvidenceHandler != nil {
			protected.POST("/evidence", cfg.EvidenceHandler.CreateEvidence)
			protected.DELETE("/evidence/:id", cfg.EvidenceHandler.DeleteEvidence)
		}

		// Children (insight links)
		if cfg.ChildrenHandler != nil {
			protected.POST("/children", cfg.ChildrenHandler.CreateChildren)
			protected.DELETE("/children/:id", cfg.ChildrenHandler.DeleteChild)
		}

		// Comments and reactions
		if cfg.FeedbackHandler != nil {
			protected.POST("/comments", cfg.FeedbackHandler.CreateComment)
			protected.DELETE("/comments/:id", cfg.FeedbackHandler.DeleteComment)
			protected.POST("/reactions", cfg.FeedbackHandler.UpsertReaction)
			protected.DELETE("/reactions/:id", cfg.FeedbackHandler.DeleteReaction)
		}

		// Links
		if cfg.LinkHandler != nil {
			protected.GET("/links", cfg.LinkHandler.ListLinks)
			protected.POST("/links", cfg.LinkHandler.CreateLink)
			protected.PATCH("/links/:uid", cfg.LinkHandler.UpdateLink)
			protected.DELETE("/links/:uid", cfg.LinkHandler.DeleteLink)
		}
	}

	return r
}
