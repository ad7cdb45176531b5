package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/domain/feedback"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

const maxReactionLength = 64

type ReactionInput struct {
	Reaction  string  `json:"reaction"`
	InsightID *uint64 `json:"insight_id"`
	SummaryID *uint64 `json:"summary_id"`
	CommentID *uint64 `json:"comment_id"`
}

type ReactionService interface {
	// Upsert stores the caller's reaction on the target, replacing any earlier
	// value from the same caller.
	Upsert(ctx context.Context, in ReactionInput) (*types.Reaction, error)
	Delete(ctx context.Context, id uint64) error
}

type reactionService struct {
	db        *gorm.DB
	log       *logger.Logger
	reactions repos.ReactionRepo
}

func NewReactionService(db *gorm.DB, log *logger.Logger, reactions repos.ReactionRepo) ReactionService {
	return &reactionService{
		db:        db,
		log:       log.With("service", "ReactionService"),
		reactions: reactions,
	}
}

func (s *reactionService) Upsert(ctx context.Context, in ReactionInput) (*types.Reaction, error) {
	const op = "reactions.upsert"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	value := strings.TrimSpace(in.Reaction)
	if value == "" {
		return nil, domainagg.Validation(op, "reaction is required")
	}
	if len(value) > maxReactionLength {
		return nil, domainagg.Validation(op, "reaction is too long")
	}
	kind, _, err := feedback.TargetOf(in.InsightID, in.SummaryID, in.CommentID)
	if err != nil {
		return nil, domainagg.Validation(op, err.Error())
	}

	row := &types.Reaction{
		UserID:    userID,
		Reaction:  value,
		InsightID: nonZero(in.InsightID),
		SummaryID: nonZero(in.SummaryID),
		CommentID: nonZero(in.CommentID),
	}
	stored, err := s.reactions.Upsert(dbctx.New(ctx), row)
	if err != nil {
		return nil, storeErr(op, err, "invalid "+string(kind)+"_id")
	}
	return stored, nil
}

func (s *reactionService) Delete(ctx context.Context, id uint64) error {
	const op = "reactions.delete"
	userID, err := authUser(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.reactions.DeleteOwned(dbctx.New(ctx), id, userID)
	if err != nil {
		return storeErr(op, err, "")
	}
	if rows == 0 {
		return domainagg.NotFound(op, "reaction not found")
	}
	return nil
}

func nonZero(id *uint64) *uint64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
