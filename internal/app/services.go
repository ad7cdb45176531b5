package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
	"github.com/yungbote/inspect-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Insight     services.InsightService
	Evidence    services.EvidenceService
	InsightLink services.InsightLinkService
	Comment     services.CommentService
	Reaction    services.ReactionService
	Source      services.SourceService
	Link        services.LinkService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients *Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}
	graph := aggregates.NewInsightGraph(aggregates.InsightGraphDeps{
		BaseDeps:     base,
		Insights:     repos.Insight,
		InsightLinks: repos.InsightLink,
		Evidence:     repos.Evidence,
		Hierarchy:    repos.Hierarchy,
		Links:        repos.Link,
		Sources:      repos.Source,
		Comments:     repos.Comment,
		Reactions:    repos.Reaction,
	})
	linkSave := aggregates.NewLinkSave(aggregates.LinkSaveDeps{
		BaseDeps: base,
		Links:    repos.Link,
		Sources:  repos.Source,
	})

	sources := services.NewSourceService(db, log, repos.Source, clients.Cache, cfg.CacheTTL)

	return Services{
		Auth:        services.NewAuthService(log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:        services.NewUserService(db, log, repos.User),
		Insight:     services.NewInsightService(db, log, repos.Insight, graph),
		Evidence:    services.NewEvidenceService(db, log, repos.Insight, repos.Evidence),
		InsightLink: services.NewInsightLinkService(db, log, repos.Insight, repos.InsightLink, repos.Hierarchy, cfg.InsightCycleCheck),
		Comment:     services.NewCommentService(db, log, repos.Comment),
		Reaction:    services.NewReactionService(db, log, repos.Reaction),
		Source:      sources,
		Link:        services.NewLinkService(db, log, repos.Link, linkSave, graph, sources, clients.Fetcher, cfg.LinkFetchTimeout),
	}
}
