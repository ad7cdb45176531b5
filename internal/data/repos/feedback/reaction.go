package feedback

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

var reactionColumns = []string{
	"id", "user_id", "reaction", "insight_id", "summary_id", "comment_id",
	"target_kind", "target_key", "created_at", "updated_at",
}

type ReactionRepo interface {
	// Upsert writes the reaction, replacing the value of an existing row for
	// the same (user_id, target_key), and returns the stored row.
	Upsert(dbc dbctx.Context, row *types.Reaction) (*types.Reaction, error)
	GetByInsightIDs(dbc dbctx.Context, insightIDs []uint64) ([]*types.Reaction, error)
	GetBySummaryIDs(dbc dbctx.Context, summaryIDs []uint64) ([]*types.Reaction, error)
	GetByCommentIDs(dbc dbctx.Context, commentIDs []uint64) ([]*types.Reaction, error)
	CountForTarget(dbc dbctx.Context, userID uint64, targetKey string) (int64, error)
	DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error)
}

type reactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
	return &reactionRepo{db: db, log: baseLog.With("repo", "ReactionRepo")}
}

func (r *reactionRepo) Upsert(dbc dbctx.Context, row *types.Reaction) (*types.Reaction, error) {
	if row == nil {
		return nil, nil
	}
	if err := row.ResolveTarget(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if err := dbc.DB(r.db).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	var stored types.Reaction
	if err := dbc.DB(r.db).
		Select(reactionColumns).
		Where("user_id = ? AND target_key = ?", row.UserID, row.TargetKey).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *reactionRepo) GetByInsightIDs(dbc dbctx.Context, insightIDs []uint64) ([]*types.Reaction, error) {
	return r.getBy(dbc, "insight_id", insightIDs)
}

func (r *reactionRepo) GetBySummaryIDs(dbc dbctx.Context, summaryIDs []uint64) ([]*types.Reaction, error) {
	return r.getBy(dbc, "summary_id", summaryIDs)
}

func (r *reactionRepo) GetByCommentIDs(dbc dbctx.Context, commentIDs []uint64) ([]*types.Reaction, error) {
	return r.getBy(dbc, "comment_id", commentIDs)
}

func (r *reactionRepo) CountForTarget(dbc dbctx.Context, userID uint64, targetKey string) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.Reaction{}).
		Where("user_id = ? AND target_key = ?", userID, targetKey).
		Count(&n).Error
	return n, err
}

func (r *reactionRepo) DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Reaction{})
	return res.RowsAffected, res.Error
}

func (r *reactionRepo) getBy(dbc dbctx.Context, column string, ids []uint64) ([]*types.Reaction, error) {
	var out []*types.Reaction
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(reactionColumns).
		Where(column+" IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
