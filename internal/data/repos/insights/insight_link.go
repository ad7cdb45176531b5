package insights

import (
	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

var insightLinkColumns = []string{"id", "parent_id", "child_id", "created_at", "updated_at"}

type InsightLinkRepo interface {
	Create(dbc dbctx.Context, rows []*types.InsightLink) ([]*types.InsightLink, error)
	GetByParentIDs(dbc dbctx.Context, parentIDs []uint64) ([]*types.InsightLink, error)
	GetByChildIDs(dbc dbctx.Context, childIDs []uint64) ([]*types.InsightLink, error)
	DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error)
}

type insightLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightLinkRepo(db *gorm.DB, baseLog *logger.Logger) InsightLinkRepo {
	return &insightLinkRepo{db: db, log: baseLog.With("repo", "InsightLinkRepo")}
}

// Create inserts all rows as one batch statement.
func (r *insightLinkRepo) Create(dbc dbctx.Context, rows []*types.InsightLink) ([]*types.InsightLink, error) {
	if len(rows) == 0 {
		return []*types.InsightLink{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *insightLinkRepo) GetByParentIDs(dbc dbctx.Context, parentIDs []uint64) ([]*types.InsightLink, error) {
	var out []*types.InsightLink
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(insightLinkColumns).
		Where("parent_id IN ?", parentIDs).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *insightLinkRepo) GetByChildIDs(dbc dbctx.Context, childIDs []uint64) ([]*types.InsightLink, error) {
	var out []*types.InsightLink
	if len(childIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(insightLinkColumns).
		Where("child_id IN ?", childIDs).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned removes the link when userID owns either endpoint. Zero rows
// affected means missing or not owned; callers must not tell them apart.
func (r *insightLinkRepo) DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ?", id).
		Where(
			"parent_id IN (SELECT id FROM insights WHERE user_id = ?) OR child_id IN (SELECT id FROM insights WHERE user_id = ?)",
			userID, userID,
		).
		Delete(&types.InsightLink{})
	return res.RowsAffected, res.Error
}
