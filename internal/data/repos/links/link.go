package links

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos/insights"
	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// LinkColumns is the projection used for every link read.
var LinkColumns = []string{"id", "uid", "title", "url", "user_id", "source_id", "created_at", "updated_at"}

type LinkRepo interface {
	Create(dbc dbctx.Context, rows []*types.Link) ([]*types.Link, error)
	GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Link, error)
	GetByUID(dbc dbctx.Context, uid string) (*types.Link, error)
	PageIDsForUser(dbc dbctx.Context, userID uint64, query string, offset, limit int) ([]uint64, error)
	UpdateOwned(dbc dbctx.Context, uid string, userID uint64, updates map[string]any) (int64, error)
	DeleteOwned(dbc dbctx.Context, uid string, userID uint64) (int64, error)
	CitedByPublicInsight(dbc dbctx.Context, linkID uint64) (bool, error)
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{db: db, log: baseLog.With("repo", "LinkRepo")}
}

func (r *linkRepo) Create(dbc dbctx.Context, rows []*types.Link) ([]*types.Link, error) {
	if len(rows) == 0 {
		return []*types.Link{}, nil
	}
	if err := dbc.DB(r.db).Omit("Source").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *linkRepo) GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Link, error) {
	var out []*types.Link
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(LinkColumns).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByUID returns nil without error when no link has the uid.
func (r *linkRepo) GetByUID(dbc dbctx.Context, uid string) (*types.Link, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, nil
	}
	var row types.Link
	err := dbc.DB(r.db).
		Select(LinkColumns).
		Where("uid = ?", uid).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// PageIDsForUser matches the query against title and url.
func (r *linkRepo) PageIDsForUser(dbc dbctx.Context, userID uint64, query string, offset, limit int) ([]uint64, error) {
	q := dbc.DB(r.db).
		Model(&types.Link{}).
		Where("user_id = ?", userID)
	if pattern := insights.LikePattern(query); pattern != "" {
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(url) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ids []uint64
	if err := q.Order("updated_at DESC").Order("id DESC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *linkRepo) UpdateOwned(dbc dbctx.Context, uid string, userID uint64, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Link{}).
		Where("uid = ? AND user_id = ?", uid, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *linkRepo) DeleteOwned(dbc dbctx.Context, uid string, userID uint64) (int64, error) {
	res := dbc.DB(r.db).
		Where("uid = ? AND user_id = ?", uid, userID).
		Delete(&types.Link{})
	return res.RowsAffected, res.Error
}

// CitedByPublicInsight reports whether any public insight lists the link as
// evidence.
func (r *linkRepo) CitedByPublicInsight(dbc dbctx.Context, linkID uint64) (bool, error) {
	var n int64
	err := dbc.DB(r.db).
		Table("evidence AS e").
		Joins("JOIN insights i ON i.id = e.insight_id").
		Where("e.summary_id = ? AND i.is_public = ?", linkID, true).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
