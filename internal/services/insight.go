package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	insightmod "github.com/yungbote/inspect-backend/internal/modules/insights"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

const maxTitleLength = 500

type ListInsightsInput struct {
	Query    string
	Offset   int
	Limit    int
	Parents  bool
	Children bool
	Evidence bool
}

// InsightPatch carries the mutable fields; nil means unchanged.
type InsightPatch struct {
	Title    *string `json:"title"`
	IsPublic *bool   `json:"is_public"`
}

type InsightService interface {
	Create(ctx context.Context, title string, isPublic bool) (*types.Insight, error)
	List(ctx context.Context, in ListInsightsInput) ([]*types.Insight, error)
	Get(ctx context.Context, uid string, opts aggregates.GetInsightOptions) (*types.Insight, error)
	Update(ctx context.Context, uid string, patch InsightPatch) (*types.Insight, error)
	Delete(ctx context.Context, uid string) error
	Candidates(ctx context.Context, uid, query string, offset, limit int) ([]*types.Insight, error)
}

type insightService struct {
	db       *gorm.DB
	log      *logger.Logger
	insights repos.InsightRepo
	graph    aggregates.InsightGraph
	usecases insightmod.Usecases
}

func NewInsightService(db *gorm.DB, log *logger.Logger, insights repos.InsightRepo, graph aggregates.InsightGraph) InsightService {
	serviceLog := log.With("service", "InsightService")
	return &insightService{
		db:       db,
		log:      serviceLog,
		insights: insights,
		graph:    graph,
		usecases: insightmod.New(insightmod.UsecasesDeps{Log: serviceLog, Graph: graph}),
	}
}

func (s *insightService) Create(ctx context.Context, title string, isPublic bool) (*types.Insight, error) {
	const op = "insights.create"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	title, err = normalizeTitle(op, title)
	if err != nil {
		return nil, err
	}
	created, err := s.insights.Create(dbctx.New(ctx), []*types.Insight{{
		UserID:   userID,
		Title:    title,
		IsPublic: isPublic,
	}})
	if err != nil {
		return nil, storeErr(op, err, "invalid user_id")
	}
	return created[0], nil
}

func (s *insightService) List(ctx context.Context, in ListInsightsInput) ([]*types.Insight, error) {
	userID, err := authUser(ctx, "insights.list")
	if err != nil {
		return nil, err
	}
	return s.graph.ListInsights(ctx, aggregates.ListInsightsParams{
		UserID:   userID,
		Query:    in.Query,
		Offset:   in.Offset,
		Limit:    in.Limit,
		Parents:  in.Parents,
		Children: in.Children,
		Evidence: in.Evidence,
	})
}

func (s *insightService) Get(ctx context.Context, uid string, opts aggregates.GetInsightOptions) (*types.Insight, error) {
	return s.graph.GetInsight(ctx, uid, viewerID(ctx), opts)
}

func (s *insightService) Update(ctx context.Context, uid string, patch InsightPatch) (*types.Insight, error) {
	const op = "insights.update"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if patch.Title == nil && patch.IsPublic == nil {
		return nil, domainagg.Validation(op, "title or is_public is required")
	}
	updates := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		title, err := normalizeTitle(op, *patch.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if patch.IsPublic != nil {
		updates["is_public"] = *patch.IsPublic
	}

	dbc := dbctx.New(ctx)
	rows, err := s.insights.UpdateOwned(dbc, uid, userID, updates)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	if rows == 0 {
		return nil, domainagg.NotFound(op, "insight not found")
	}
	updated, err := s.insights.GetByUID(dbc, uid)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	if updated == nil {
		return nil, domainagg.NotFound(op, "insight not found")
	}
	return updated, nil
}

// Delete reports success whenever the statement ran; a missing insight and
// another user's insight look the same.
func (s *insightService) Delete(ctx context.Context, uid string) error {
	const op = "insights.delete"
	userID, err := authUser(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.insights.DeleteOwned(dbctx.New(ctx), uid, userID)
	if err != nil {
		return storeErr(op, err, "")
	}
	s.log.Debug("Insight delete", "user_id", userID, "rows", rows)
	return nil
}

func (s *insightService) Candidates(ctx context.Context, uid, query string, offset, limit int) ([]*types.Insight, error) {
	userID, err := authUser(ctx, "insights.candidates")
	if err != nil {
		return nil, err
	}
	return s.usecases.Candidates(ctx, insightmod.CandidatesInput{
		UID:    uid,
		UserID: userID,
		Query:  query,
		Offset: offset,
		Limit:  limit,
	})
}

func normalizeTitle(op, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", domainagg.Validation(op, "title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", domainagg.Validation(op, "title is too long")
	}
	return title, nil
}
