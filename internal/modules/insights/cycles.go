package insights

import (
	types "github.com/yungbote/inspect-backend/internal/domain"
)

// PotentialInsightsWithoutLoops returns the candidates that may be linked to
// insight as a new parent or child. The check only looks one hop past the
// insight's direct neighbours, so deeper cycles are left to the server guard.
//
// A candidate is dropped when it
//  1. is the insight itself,
//  2. already has the insight as a child,
//  3. is already one of the insight's children, or
//  4. is a parent of any of the insight's children.
//
// Candidates are expected to carry their own Children edges.
func PotentialInsightsWithoutLoops(insight *types.Insight, candidates []*types.Insight) []*types.Insight {
	out := make([]*types.Insight, 0, len(candidates))
	if insight == nil {
		for _, c := range candidates {
			if c != nil {
				out = append(out, c)
			}
		}
		return out
	}

	parents := make(map[uint64]struct{}, len(insight.Parents))
	for _, l := range insight.Parents {
		if l != nil {
			parents[l.ParentID] = struct{}{}
		}
	}
	children := make(map[uint64]struct{}, len(insight.Children))
	for _, l := range insight.Children {
		if l != nil {
			children[l.ChildID] = struct{}{}
		}
	}

	for _, c := range candidates {
		if c == nil || c.ID == insight.ID {
			continue
		}
		if _, ok := parents[c.ID]; ok {
			continue
		}
		if _, ok := children[c.ID]; ok {
			continue
		}
		if excludedByEdges(c, insight.ID, children) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// excludedByEdges covers rules 2 and 4 from the candidate's side: an edge from
// the candidate to the insight or to one of the insight's children.
func excludedByEdges(c *types.Insight, insightID uint64, children map[uint64]struct{}) bool {
	for _, l := range c.Children {
		if l == nil {
			continue
		}
		if l.ChildID == insightID {
			return true
		}
		if _, ok := children[l.ChildID]; ok {
			return true
		}
	}
	return false
}
