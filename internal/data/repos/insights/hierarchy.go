package insights

import (
	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// MaxHierarchyDepth bounds evidence rollups. The queried insight is depth 1,
// so at most MaxHierarchyDepth-1 hops are followed. The bound also keeps
// traversal finite if the link graph ever contains a cycle.
const MaxHierarchyDepth = 5

// Rolls every insight in the anchor set down through insight_links, then
// counts evidence over the distinct (root, node) pairs so a node reached by
// several paths is counted once per root.
const totalEvidenceSQL = `
WITH RECURSIVE tree(root_id, id, depth) AS (
	SELECT id, id, 1 FROM insights WHERE id IN ?
	UNION ALL
	SELECT tree.root_id, il.child_id, tree.depth + 1
	FROM insight_links il
	JOIN tree ON il.parent_id = tree.id
	WHERE tree.depth < ?
)
SELECT nodes.root_id AS insight_id, COUNT(e.id) AS total_evidence_count
FROM (SELECT DISTINCT root_id, id FROM tree) nodes
LEFT JOIN evidence e ON e.insight_id = nodes.id
GROUP BY nodes.root_id`

// UNION (not UNION ALL) drops rows already seen, which terminates on cycles.
const reachableSQL = `
WITH RECURSIVE reach(id) AS (
	SELECT CAST(? AS BIGINT)
	UNION
	SELECT il.child_id
	FROM insight_links il
	JOIN reach ON il.parent_id = reach.id
)
SELECT COUNT(*) FROM reach WHERE id = ?`

type HierarchyRepo interface {
	DirectEvidenceCounts(dbc dbctx.Context, ids []uint64) (map[uint64]int64, error)
	DirectChildrenCounts(dbc dbctx.Context, ids []uint64) (map[uint64]int64, error)
	TotalEvidenceCounts(dbc dbctx.Context, ids []uint64) (map[uint64]int64, error)
	EvidenceCounts(dbc dbctx.Context, insight *types.Insight, includeNestedEvidenceTotals bool) error
	WouldCreateCycle(dbc dbctx.Context, parentID, childID uint64) (bool, error)
}

type hierarchyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHierarchyRepo(db *gorm.DB, baseLog *logger.Logger) HierarchyRepo {
	return &hierarchyRepo{db: db, log: baseLog.With("repo", "HierarchyRepo")}
}

type countRow struct {
	InsightID uint64 `gorm:"column:insight_id"`
	N         int64  `gorm:"column:n"`
}

// DirectEvidenceCounts counts each insight's own evidence rows. Every
// requested id is present in the result, zero when it has none.
func (r *hierarchyRepo) DirectEvidenceCounts(dbc dbctx.Context, ids []uint64) (map[uint64]int64, error) {
	out := zeroCounts(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var rows []countRow
	if err := dbc.DB(r.db).
		Model(&types.Evidence{}).
		Select("insight_id, COUNT(*) AS n").
		Where("insight_id IN ?", ids).
		Group("insight_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.InsightID] = row.N
	}
	return out, nil
}

// DirectChildrenCounts counts outgoing parent->child links per insight.
func (r *hierarchyRepo) DirectChildrenCounts(dbc dbctx.Context, ids []uint64) (map[uint64]int64, error) {
	out := zeroCounts(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var rows []countRow
	if err := dbc.DB(r.db).
		Model(&types.InsightLink{}).
		Select("parent_id AS insight_id, COUNT(*) AS n").
		Where("parent_id IN ?", ids).
		Group("parent_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.InsightID] = row.N
	}
	return out, nil
}

// TotalEvidenceCounts sums evidence over each insight and its descendants
// within MaxHierarchyDepth. Ids that do not exist are reported as zero.
func (r *hierarchyRepo) TotalEvidenceCounts(dbc dbctx.Context, ids []uint64) (map[uint64]int64, error) {
	out := zeroCounts(ids)
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		InsightID          uint64 `gorm:"column:insight_id"`
		TotalEvidenceCount int64  `gorm:"column:total_evidence_count"`
	}
	if err := dbc.DB(r.db).
		Raw(totalEvidenceSQL, ids, MaxHierarchyDepth).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.InsightID] = row.TotalEvidenceCount
	}
	return out, nil
}

// EvidenceCounts augments insight and the ChildInsight of each loaded child
// link. With includeNestedEvidenceTotals every node gets totalEvidenceCount;
// otherwise every node gets directEvidenceCount and directChildrenCount.
func (r *hierarchyRepo) EvidenceCounts(dbc dbctx.Context, insight *types.Insight, includeNestedEvidenceTotals bool) error {
	if insight == nil {
		return nil
	}
	nodes := []*types.Insight{insight}
	for _, link := range insight.Children {
		if link != nil && link.ChildInsight != nil {
			nodes = append(nodes, link.ChildInsight)
		}
	}
	ids := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}

	if includeNestedEvidenceTotals {
		totals, err := r.TotalEvidenceCounts(dbc, ids)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			n.TotalEvidenceCount = countPtr(totals[n.ID])
		}
		return nil
	}

	direct, err := r.DirectEvidenceCounts(dbc, ids)
	if err != nil {
		return err
	}
	children, err := r.DirectChildrenCounts(dbc, ids)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		n.DirectEvidenceCount = countPtr(direct[n.ID])
		n.DirectChildrenCount = countPtr(children[n.ID])
	}
	return nil
}

// WouldCreateCycle reports whether linking parentID -> childID closes a
// cycle, i.e. parentID is already reachable from childID (or they are equal).
func (r *hierarchyRepo) WouldCreateCycle(dbc dbctx.Context, parentID, childID uint64) (bool, error) {
	if parentID == childID {
		return true, nil
	}
	var n int64
	if err := dbc.DB(r.db).
		Raw(reachableSQL, childID, parentID).
		Scan(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func zeroCounts(ids []uint64) map[uint64]int64 {
	out := make(map[uint64]int64, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	return out
}

func countPtr(v int64) *int64 { return &v }
