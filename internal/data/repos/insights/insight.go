package insights

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// InsightColumns is the projection used for every insight read.
var InsightColumns = []string{"id", "uid", "title", "is_public", "user_id", "created_at", "updated_at"}

type InsightRepo interface {
	Create(dbc dbctx.Context, rows []*types.Insight) ([]*types.Insight, error)
	GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Insight, error)
	GetByUID(dbc dbctx.Context, uid string) (*types.Insight, error)
	PageIDsForUser(dbc dbctx.Context, userID uint64, query string, offset, limit int) ([]uint64, error)
	OwnedIDs(dbc dbctx.Context, userID uint64, ids []uint64) (map[uint64]bool, error)
	UpdateOwned(dbc dbctx.Context, uid string, userID uint64, updates map[string]any) (int64, error)
	DeleteOwned(dbc dbctx.Context, uid string, userID uint64) (int64, error)
}

type insightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
	return &insightRepo{db: db, log: baseLog.With("repo", "InsightRepo")}
}

func (r *insightRepo) Create(dbc dbctx.Context, rows []*types.Insight) ([]*types.Insight, error) {
	if len(rows) == 0 {
		return []*types.Insight{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByIDs returns rows in no particular order.
func (r *insightRepo) GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Insight, error) {
	var out []*types.Insight
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(InsightColumns).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetByUID returns nil without error when no insight has the uid.
func (r *insightRepo) GetByUID(dbc dbctx.Context, uid string) (*types.Insight, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, nil
	}
	var row types.Insight
	err := dbc.DB(r.db).
		Select(InsightColumns).
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

// PageIDsForUser selects one page of the user's insight ids, filtered by a
// case-insensitive title substring and ordered newest-updated first. Relations
// are attached afterwards so joins cannot shift page boundaries.
func (r *insightRepo) PageIDsForUser(dbc dbctx.Context, userID uint64, query string, offset, limit int) ([]uint64, error) {
	q := dbc.DB(r.db).
		Model(&types.Insight{}).
		Where("user_id = ?", userID)
	if pattern := LikePattern(query); pattern != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '\\'", pattern)
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

func (r *insightRepo) OwnedIDs(dbc dbctx.Context, userID uint64, ids []uint64) (map[uint64]bool, error) {
	out := map[uint64]bool{}
	if len(ids) == 0 {
		return out, nil
	}
	var owned []uint64
	if err := dbc.DB(r.db).
		Model(&types.Insight{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Pluck("id", &owned).Error; err != nil {
		return nil, err
	}
	for _, id := range owned {
		out[id] = true
	}
	return out, nil
}

// UpdateOwned patches the insight only when userID owns it.
func (r *insightRepo) UpdateOwned(dbc dbctx.Context, uid string, userID uint64, updates map[string]any) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Insight{}).
		Where("uid = ? AND user_id = ?", uid, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *insightRepo) DeleteOwned(dbc dbctx.Context, uid string, userID uint64) (int64, error) {
	res := dbc.DB(r.db).
		Where("uid = ? AND user_id = ?", uid, userID).
		Delete(&types.Insight{})
	return res.RowsAffected, res.Error
}

// LikePattern lowercases q and wraps it for a substring LIKE, escaping the
// LIKE metacharacters. An empty query yields "".
func LikePattern(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return ""
	}
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}
