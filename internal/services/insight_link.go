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

type InsightLinkInput struct {
	ParentID uint64 `json:"parent_id"`
	ChildID  uint64 `json:"child_id"`
}

// InsightLinkService manages parent/child edges ("children" over HTTP).
type InsightLinkService interface {
	Create(ctx context.Context, rows []InsightLinkInput) ([]*types.InsightLink, error)
	Delete(ctx context.Context, id uint64) error
}

type insightLinkService struct {
	db         *gorm.DB
	log        *logger.Logger
	insights   repos.InsightRepo
	links      repos.InsightLinkRepo
	hierarchy  repos.HierarchyRepo
	cycleCheck bool
}

func NewInsightLinkService(db *gorm.DB, log *logger.Logger, insights repos.InsightRepo, links repos.InsightLinkRepo, hierarchy repos.HierarchyRepo, cycleCheck bool) InsightLinkService {
	return &insightLinkService{
		db:         db,
		log:        log.With("service", "InsightLinkService"),
		insights:   insights,
		links:      links,
		hierarchy:  hierarchy,
		cycleCheck: cycleCheck,
	}
}

// Create inserts all edges in one statement. The caller must own the parent
// or the child of every edge. With the cycle check on, an edge whose child
// already reaches its parent is rejected; edges within one batch are not
// checked against each other.
func (s *insightLinkService) Create(ctx context.Context, rows []InsightLinkInput) ([]*types.InsightLink, error) {
	const op = "children.create"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domainagg.Validation(op, "children is required")
	}
	if len(rows) > maxBatchSize {
		return nil, domainagg.Validation(op, "too many children")
	}
	ids := make([]uint64, 0, 2*len(rows))
	for _, r := range rows {
		if r.ParentID == 0 || r.ChildID == 0 {
			return nil, domainagg.Validation(op, "parent_id and child_id are required")
		}
		if r.ParentID == r.ChildID {
			return nil, domainagg.Validation(op, "an insight cannot be its own child")
		}
		ids = append(ids, r.ParentID, r.ChildID)
	}

	dbc := dbctx.New(ctx)
	owned, err := s.insights.OwnedIDs(dbc, userID, ids)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	out := make([]*types.InsightLink, 0, len(rows))
	for _, r := range rows {
		if !owned[r.ParentID] && !owned[r.ChildID] {
			return nil, domainagg.NotFound(op, "insight not found")
		}
		if s.cycleCheck {
			cyclic, err := s.hierarchy.WouldCreateCycle(dbc, r.ParentID, r.ChildID)
			if err != nil {
				return nil, storeErr(op, err, "")
			}
			if cyclic {
				return nil, domainagg.Conflict(op, "would create a cycle")
			}
		}
		out = append(out, &types.InsightLink{ParentID: r.ParentID, ChildID: r.ChildID})
	}
	created, err := s.links.Create(dbc, out)
	if err != nil {
		return nil, storeErr(op, err, "invalid parent_id or child_id")
	}
	return created, nil
}

func (s *insightLinkService) Delete(ctx context.Context, id uint64) error {
	const op = "children.delete"
	userID, err := authUser(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.links.DeleteOwned(dbctx.New(ctx), id, userID)
	if err != nil {
		return storeErr(op, err, "")
	}
	if rows == 0 {
		return domainagg.NotFound(op, "child link not found")
	}
	return nil
}
