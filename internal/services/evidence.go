package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

const maxBatchSize = 100

type EvidenceInput struct {
	SummaryID uint64 `json:"summary_id"`
	InsightID uint64 `json:"insight_id"`
}

type EvidenceService interface {
	Create(ctx context.Context, rows []EvidenceInput) ([]*types.Evidence, error)
	Delete(ctx context.Context, id uint64) error
}

type evidenceService struct {
	db       *gorm.DB
	log      *logger.Logger
	insights repos.InsightRepo
	evidence repos.EvidenceRepo
}

func NewEvidenceService(db *gorm.DB, log *logger.Logger, insights repos.InsightRepo, evidence repos.EvidenceRepo) EvidenceService {
	return &evidenceService{
		db:       db,
		log:      log.With("service", "EvidenceService"),
		insights: insights,
		evidence: evidence,
	}
}

// Create inserts every row in one statement. Each citing insight must belong
// to the caller; summaries are checked by the store.
func (s *evidenceService) Create(ctx context.Context, rows []EvidenceInput) ([]*types.Evidence, error) {
	const op = "evidence.create"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domainagg.Validation(op, "evidence is required")
	}
	if len(rows) > maxBatchSize {
		return nil, domainagg.Validation(op, "too many evidence rows")
	}
	insightIDs := make([]uint64, 0, len(rows))
	for _, r := range rows {
		if r.InsightID == 0 || r.SummaryID == 0 {
			return nil, domainagg.Validation(op, "summary_id and insight_id are required")
		}
		insightIDs = append(insightIDs, r.InsightID)
	}

	dbc := dbctx.New(ctx)
	owned, err := s.insights.OwnedIDs(dbc, userID, insightIDs)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	out := make([]*types.Evidence, 0, len(rows))
	for _, r := range rows {
		if !owned[r.InsightID] {
			return nil, domainagg.NotFound(op, "insight not found")
		}
		out = append(out, &types.Evidence{InsightID: r.InsightID, SummaryID: r.SummaryID})
	}
	created, err := s.evidence.Create(dbc, out)
	if err != nil {
		mapped := storeErr(op, err, "invalid summary_id")
		if !domainagg.IsCode(mapped, domainagg.CodeInternal) {
			s.log.Warn("Evidence insert rejected", "user_id", userID, "error", err)
		}
		return nil, mapped
	}
	return created, nil
}

func (s *evidenceService) Delete(ctx context.Context, id uint64) error {
	const op = "evidence.delete"
	userID, err := authUser(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.evidence.DeleteOwned(dbctx.New(ctx), id, userID)
	if err != nil {
		return storeErr(op, err, "")
	}
	if rows == 0 {
		return domainagg.NotFound(op, "evidence not found")
	}
	return nil
}
