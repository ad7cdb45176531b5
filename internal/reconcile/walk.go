package reconcile

import (
	types "github.com/yungbote/inspect-backend/internal/domain"
)

// walk visits root and every loaded node below it: linked insights,
// evidence summaries and comments. Nodes are de-duplicated by identity, so
// separately decoded copies of the same row are each visited once and a
// cycle of shared pointers terminates.
func walk(root types.Fact, fn func(types.Fact)) {
	w := walker{fn: fn, seen: map[types.Fact]struct{}{}}
	w.visit(root)
}

type walker struct {
	fn   func(types.Fact)
	seen map[types.Fact]struct{}
}

func (w *walker) visit(f types.Fact) {
	if isNil(f) {
		return
	}
	if _, ok := w.seen[f]; ok {
		return
	}
	w.seen[f] = struct{}{}
	w.fn(f)

	switch v := f.(type) {
	case *types.Insight:
		for _, c := range v.Comments {
			w.visit(c)
		}
		for _, l := range v.Parents {
			if l != nil && l.ParentInsight != nil {
				w.visit(l.ParentInsight)
			}
		}
		for _, l := range v.Children {
			if l != nil && l.ChildInsight != nil {
				w.visit(l.ChildInsight)
			}
		}
		for _, e := range v.Evidence {
			if e != nil && e.Summary != nil {
				w.visit(e.Summary)
			}
		}
	case *types.Link:
		for _, c := range v.Comments {
			w.visit(c)
		}
	}
}

func isNil(f types.Fact) bool {
	switch v := f.(type) {
	case nil:
		return true
	case *types.Insight:
		return v == nil
	case *types.Link:
		return v == nil
	case *types.Comment:
		return v == nil
	case *types.Evidence:
		return v == nil
	case *types.InsightLink:
		return v == nil
	}
	return false
}
