package reconcile

import (
	types "github.com/yungbote/inspect-backend/internal/domain"
)

// AddChildren prepends newly created child links, newest first as returned.
func AddChildren(list []*types.InsightLink, rows []*types.InsightLink) []*types.InsightLink {
	return prependLinks(list, rows)
}

func AddParents(list []*types.InsightLink, rows []*types.InsightLink) []*types.InsightLink {
	return prependLinks(list, rows)
}

func RemoveChildren(list []*types.InsightLink, ids []uint64) []*types.InsightLink {
	return removeLinks(list, ids)
}

func RemoveParents(list []*types.InsightLink, ids []uint64) []*types.InsightLink {
	return removeLinks(list, ids)
}

func prependLinks(list, rows []*types.InsightLink) []*types.InsightLink {
	out := make([]*types.InsightLink, 0, len(list)+len(rows))
	seen := make(map[uint64]struct{}, len(rows))
	for _, l := range rows {
		if l == nil {
			continue
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	for _, l := range list {
		if l == nil {
			continue
		}
		if _, dup := seen[l.ID]; dup {
			continue
		}
		out = append(out, l)
	}
	return out
}

func removeLinks(list []*types.InsightLink, ids []uint64) []*types.InsightLink {
	drop := idSet(ids)
	return without(list, func(l *types.InsightLink) bool {
		_, ok := drop[l.ID]
		return ok
	})
}
