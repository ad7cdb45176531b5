package insights

import (
	"context"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log   *logger.Logger
	Graph aggregates.InsightGraph
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

type CandidatesInput struct {
	UID    string
	UserID uint64
	Query  string
	Offset int
	Limit  int
}

// Candidates pages the owner's insights with their children and keeps the
// ones that can be linked to the insight without an obvious loop. Filtering
// happens after paging, so a page may hold fewer than Limit rows.
func (u Usecases) Candidates(ctx context.Context, in CandidatesInput) ([]*types.Insight, error) {
	const op = "insights.candidates"
	if in.UserID == 0 {
		return nil, domainagg.Unauthorized(op)
	}
	insight, err := u.deps.Graph.GetInsight(ctx, in.UID, in.UserID, aggregates.GetInsightOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if insight.UserID != in.UserID {
		return nil, domainagg.NotFound(op, "insight not found")
	}
	page, err := u.deps.Graph.ListInsights(ctx, aggregates.ListInsightsParams{
		UserID:   in.UserID,
		Query:    in.Query,
		Offset:   in.Offset,
		Limit:    in.Limit,
		Children: true,
	})
	if err != nil {
		return nil, err
	}
	out := PotentialInsightsWithoutLoops(insight, page)
	if u.deps.Log != nil {
		u.deps.Log.Debug("insight candidates filtered", "insight_id", insight.ID, "page", len(page), "kept", len(out))
	}
	return out, nil
}
