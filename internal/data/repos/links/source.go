package links

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type SourceRepo interface {
	GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Source, error)
	GetByBaseURL(dbc dbctx.Context, baseURL string) (*types.Source, error)
	// FirstOrCreate inserts the source unless its baseurl already exists and
	// returns the stored row either way.
	FirstOrCreate(dbc dbctx.Context, row *types.Source) (*types.Source, error)
}

type sourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSourceRepo(db *gorm.DB, baseLog *logger.Logger) SourceRepo {
	return &sourceRepo{db: db, log: baseLog.With("repo", "SourceRepo")}
}

func (r *sourceRepo) GetByIDs(dbc dbctx.Context, ids []uint64) ([]*types.Source, error) {
	var out []*types.Source
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Select("id", "baseurl", "logo_uri").
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sourceRepo) GetByBaseURL(dbc dbctx.Context, baseURL string) (*types.Source, error) {
	var row types.Source
	err := dbc.DB(r.db).
		Where("baseurl = ?", baseURL).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *sourceRepo) FirstOrCreate(dbc dbctx.Context, row *types.Source) (*types.Source, error) {
	if row == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "baseurl"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	stored, err := r.GetByBaseURL(dbc, row.BaseURL)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return stored, nil
}
