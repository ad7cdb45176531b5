package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/cache"
	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/data/repos"
	repotest "github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
)

type testServices struct {
	db        *gorm.DB
	insights  InsightService
	evidence  EvidenceService
	children  InsightLinkService
	comments  CommentService
	reactions ReactionService
	sources   SourceService
	links     LinkService
}

func newTestServices(t *testing.T, fetcher MetaFetcher) *testServices {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)

	insightRepo := repos.NewInsightRepo(db, log)
	linkRepo := repos.NewLinkRepo(db, log)
	sourceRepo := repos.NewSourceRepo(db, log)
	hierarchy := repos.NewHierarchyRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log}
	graph := aggregates.NewInsightGraph(aggregates.InsightGraphDeps{
		BaseDeps:     base,
		Insights:     insightRepo,
		InsightLinks: repos.NewInsightLinkRepo(db, log),
		Evidence:     repos.NewEvidenceRepo(db, log),
		Hierarchy:    hierarchy,
		Links:        linkRepo,
		Sources:      sourceRepo,
		Comments:     repos.NewCommentRepo(db, log),
		Reactions:    repos.NewReactionRepo(db, log),
	})
	sources := NewSourceService(db, log, sourceRepo, cache.NewMemoryStore(time.Minute, time.Minute), time.Minute)
	save := aggregates.NewLinkSave(aggregates.LinkSaveDeps{BaseDeps: base, Links: linkRepo, Sources: sourceRepo})

	return &testServices{
		db:        db,
		insights:  NewInsightService(db, log, insightRepo, graph),
		evidence:  NewEvidenceService(db, log, insightRepo, repos.NewEvidenceRepo(db, log)),
		children:  NewInsightLinkService(db, log, insightRepo, repos.NewInsightLinkRepo(db, log), hierarchy, true),
		comments:  NewCommentService(db, log, repos.NewCommentRepo(db, log)),
		reactions: NewReactionService(db, log, repos.NewReactionRepo(db, log)),
		sources:   sources,
		links:     NewLinkService(db, log, linkRepo, save, graph, sources, fetcher, time.Second),
	}
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID})
}

func (ts *testServices) user(t *testing.T) *types.User {
	t.Helper()
	return repotest.SeedUser(t, context.Background(), ts.db, "")
}

func repoUsers(t *testing.T, ts *testServices) repos.UserRepo {
	t.Helper()
	return repos.NewUserRepo(ts.db, repotest.Logger(t))
}

func repoInsights(t *testing.T, ts *testServices) repos.InsightRepo {
	t.Helper()
	return repos.NewInsightRepo(ts.db, repotest.Logger(t))
}

func repoInsightLinks(t *testing.T, ts *testServices) repos.InsightLinkRepo {
	t.Helper()
	return repos.NewInsightLinkRepo(ts.db, repotest.Logger(t))
}

func repoHierarchy(t *testing.T, ts *testServices) repos.HierarchyRepo {
	t.Helper()
	return repos.NewHierarchyRepo(ts.db, repotest.Logger(t))
}
