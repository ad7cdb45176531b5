package insights

import (
	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

var evidenceColumns = []string{"id", "insight_id", "summary_id", "created_at", "updated_at"}

type EvidenceRepo interface {
	Create(dbc dbctx.Context, rows []*types.Evidence) ([]*types.Evidence, error)
	GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Evidence, error)
	GetByInsightIDs(dbc dbctx.Context, insightIDs []uint64) ([]*types.Evidence, error)
	PageByInsightID(dbc dbctx.Context, insightID uint64, offset, limit int) ([]*types.Evidence, error)
	DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error)
}

type evidenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceRepo {
	return &evidenceRepo{db: db, log: baseLog.With("repo", "EvidenceRepo")}
}

// Create inserts all rows as one batch statement; a failing row fails the
// statement and nothing else is attempted.
func (r *evidenceRepo) Create(dbc dbctx.Context, rows []*types.Evidence) ([]*types.Evidence, error) {
	if len(rows) == 0 {
		return []*types.Evidence{}, nil
	}
	if err := dbc.DB(r.db).Omit("Summary").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *evidenceRepo) GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Evidence, error) {
	var out []*types.Evidence
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(evidenceColumns).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evidenceRepo) GetByInsightIDs(dbc dbctx.Context, insightIDs []uint64) ([]*types.Evidence, error) {
	var out []*types.Evidence
	if len(insightIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select(evidenceColumns).
		Where("insight_id IN ?", insightIDs).
		Order("created_at DESC, id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// PageByInsightID pages one insight's evidence; limit <= 0 returns all rows
// from offset on.
func (r *evidenceRepo) PageByInsightID(dbc dbctx.Context, insightID uint64, offset, limit int) ([]*types.Evidence, error) {
	q := dbc.DB(r.db).
		Select(evidenceColumns).
		Where("insight_id = ?", insightID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []*types.Evidence
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned removes the evidence row only when userID owns the citing
// insight.
func (r *evidenceRepo) DeleteOwned(dbc dbctx.Context, id, userID uint64) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ?", id).
		Where("insight_id IN (SELECT id FROM insights WHERE user_id = ?)", userID).
		Delete(&types.Evidence{})
	return res.RowsAffected, res.Error
}
