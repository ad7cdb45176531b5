package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

const maxCommentLength = 10000

type CommentInput struct {
	Comment   string  `json:"comment"`
	InsightID *uint64 `json:"insight_id"`
	SummaryID *uint64 `json:"summary_id"`
}

type CommentService interface {
	Create(ctx context.Context, in CommentInput) (*types.Comment, error)
	Delete(ctx context.Context, id uint64) error
}

type commentService struct {
	db       *gorm.DB
	log      *logger.Logger
	comments repos.CommentRepo
}

func NewCommentService(db *gorm.DB, log *logger.Logger, comments repos.CommentRepo) CommentService {
	return &commentService{
		db:       db,
		log:      log.With("service", "CommentService"),
		comments: comments,
	}
}

func (s *commentService) Create(ctx context.Context, in CommentInput) (*types.Comment, error) {
	const op = "comments.create"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Comment)
	if body == "" {
		return nil, domainagg.Validation(op, "comment is required")
	}
	if len([]rune(body)) > maxCommentLength {
		return nil, domainagg.Validation(op, "comment is too long")
	}
	hasInsight := in.InsightID != nil && *in.InsightID != 0
	hasSummary := in.SummaryID != nil && *in.SummaryID != 0
	if hasInsight == hasSummary {
		return nil, domainagg.Validation(op, "exactly one of insight_id or summary_id is required")
	}
	row := &types.Comment{UserID: userID, Comment: body}
	fallback := "invalid summary_id"
	if hasInsight {
		row.InsightID = in.InsightID
		fallback = "invalid insight_id"
	} else {
		row.SummaryID = in.SummaryID
	}

	dbc := dbctx.New(ctx)
	if _, err := s.comments.Create(dbc, row); err != nil {
		return nil, storeErr(op, err, fallback)
	}
	stored, err := s.comments.GetByID(dbc, row.ID)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	if stored == nil {
		return row, nil
	}
	stored.Reactions = []*types.Reaction{}
	return stored, nil
}

func (s *commentService) Delete(ctx context.Context, id uint64) error {
	const op = "comments.delete"
	userID, err := authUser(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.comments.DeleteOwned(dbctx.New(ctx), id, userID)
	if err != nil {
		return storeErr(op, err, "")
	}
	if rows == 0 {
		return domainagg.NotFound(op, "comment not found")
	}
	return nil
}
