package reconcile

import (
	types "github.com/yungbote/inspect-backend/internal/domain"
)

// Selection is the pending pick list of a mutation dialog. It is cleared
// after a successful mutation and left alone when the mutation fails.
type Selection struct {
	SelectedChildInsights  []*types.Insight
	SelectedParentInsights []*types.Insight
	SelectedEvidence       []*types.Link
}

func (s *Selection) ToggleChild(in *types.Insight) {
	s.SelectedChildInsights = toggle(s.SelectedChildInsights, in, func(v *types.Insight) uint64 { return v.ID })
}

func (s *Selection) ToggleParent(in *types.Insight) {
	s.SelectedParentInsights = toggle(s.SelectedParentInsights, in, func(v *types.Insight) uint64 { return v.ID })
}

func (s *Selection) ToggleEvidence(l *types.Link) {
	s.SelectedEvidence = toggle(s.SelectedEvidence, l, func(v *types.Link) uint64 { return v.ID })
}

func (s *Selection) Empty() bool {
	return len(s.SelectedChildInsights) == 0 && len(s.SelectedParentInsights) == 0 && len(s.SelectedEvidence) == 0
}

func (s *Selection) Clear() {
	s.SelectedChildInsights = nil
	s.SelectedParentInsights = nil
	s.SelectedEvidence = nil
}

func toggle[T any](list []*T, v *T, id func(*T) uint64) []*T {
	if v == nil {
		return list
	}
	for i, cur := range list {
		if cur != nil && id(cur) == id(v) {
			out := make([]*T, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return append(list, v)
}
