package feedback

import (
	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// the commenter's username is projected; the user row is never loaded
const commentSelect = "c.id, c.user_id, c.comment, c.insight_id, c.summary_id, c.created_at, c.updated_at, u.username AS username"

type CommentRepo interface {
	Create(dbc dbctx.Context, row *types.Comment) (*types.Comment, error)
	GetByID(dbc dbctx.Context, id uint64) (*types.Comment, error)
	GetByInsightIDs(dbc dbctx.Context, insightIDs []uint64) ([]*types.Comment, error)
	GetBySummaryIDs(dbc dbctx.Context, summaryIDs []uint64) ([]*types.Comment, error)
	DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(dbc dbctx.Context, row *types.Comment) (*types.Comment, error) {
	if row == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Omit("User").Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByID returns the comment with its username, or nil when missing.
func (r *commentRepo) GetByID(dbc dbctx.Context, id uint64) (*types.Comment, error) {
	var out []*types.Comment
	if err := r.base(dbc).Where("c.id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *commentRepo) GetByInsightIDs(dbc dbctx.Context, insightIDs []uint64) ([]*types.Comment, error) {
	var out []*types.Comment
	if len(insightIDs) == 0 {
		return out, nil
	}
	if err := r.base(dbc).
		Where("c.insight_id IN ?", insightIDs).
		Order("c.created_at ASC, c.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *commentRepo) GetBySummaryIDs(dbc dbctx.Context, summaryIDs []uint64) ([]*types.Comment, error) {
	var out []*types.Comment
	if len(summaryIDs) == 0 {
		return out, nil
	}
	if err := r.base(dbc).
		Where("c.summary_id IN ?", summaryIDs).
		Order("c.created_at ASC, c.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned removes a comment authored by userID.
func (r *commentRepo) DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepo) base(dbc dbctx.Context) *gorm.DB {
	return dbc.DB(r.db).
		Table("comments AS c").
		Select(commentSelect).
		Joins("LEFT JOIN users u ON u.id = c.user_id")
}
