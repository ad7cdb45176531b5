// Package reconcile merges server mutation results into a locally held
// Insight or Link graph. Each nested collection is an append/remove-by-id
// log; there is no version or conflict model and the last response wins.
package reconcile

import (
	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/domain/feedback"
)

// UpsertReaction drops any entry by the same user on the same target, then
// appends r. Lists may mix reactions for several targets.
func UpsertReaction(list []*types.Reaction, r *types.Reaction) []*types.Reaction {
	if r == nil {
		return list
	}
	key := reactionKey(r)
	out := make([]*types.Reaction, 0, len(list)+1)
	for _, cur := range list {
		if cur == nil {
			continue
		}
		if cur.UserID == r.UserID && reactionKey(cur) == key {
			continue
		}
		out = append(out, cur)
	}
	return append(out, r)
}

func RemoveReaction(list []*types.Reaction, id uint64) []*types.Reaction {
	return without(list, func(r *types.Reaction) bool { return r.ID == id })
}

// AddComment appends unconditionally; comments are never merged.
func AddComment(list []*types.Comment, c *types.Comment) []*types.Comment {
	if c == nil {
		return list
	}
	out := make([]*types.Comment, 0, len(list)+1)
	out = append(out, list...)
	return append(out, c)
}

func RemoveComment(list []*types.Comment, id uint64) []*types.Comment {
	return without(list, func(c *types.Comment) bool { return c.ID == id })
}

// ApplyReaction upserts r on every loaded copy of the node it targets. It
// reports false when no loaded node matches.
func ApplyReaction(root types.Fact, r *types.Reaction) bool {
	if r == nil {
		return false
	}
	key := reactionKey(r)
	if key == "" {
		return false
	}
	applied := false
	walk(root, func(f types.Fact) {
		holder, ok := f.(types.Reactable)
		if !ok || feedback.TargetKey(f.FactKind(), f.FactID()) != key {
			return
		}
		list := holder.ReactionList()
		*list = UpsertReaction(*list, r)
		applied = true
	})
	return applied
}

// DropReaction removes the reaction with id from every list holding it.
func DropReaction(root types.Fact, id uint64) bool {
	removed := false
	walk(root, func(f types.Fact) {
		holder, ok := f.(types.Reactable)
		if !ok {
			return
		}
		list := holder.ReactionList()
		before := len(*list)
		*list = RemoveReaction(*list, id)
		if len(*list) != before {
			removed = true
		}
	})
	return removed
}

// ApplyComment appends c to every loaded copy of the insight or summary it
// was written on.
func ApplyComment(root types.Fact, c *types.Comment) bool {
	if c == nil {
		return false
	}
	var key string
	switch {
	case c.InsightID != nil:
		key = feedback.TargetKey(types.FactInsight, *c.InsightID)
	case c.SummaryID != nil:
		key = feedback.TargetKey(types.FactSummary, *c.SummaryID)
	default:
		return false
	}
	applied := false
	walk(root, func(f types.Fact) {
		holder, ok := f.(types.Commentable)
		if !ok || feedback.TargetKey(f.FactKind(), f.FactID()) != key {
			return
		}
		list := holder.CommentList()
		*list = AddComment(*list, c)
		applied = true
	})
	return applied
}

// DropComment removes the comment with id from every list holding it.
func DropComment(root types.Fact, id uint64) bool {
	removed := false
	walk(root, func(f types.Fact) {
		holder, ok := f.(types.Commentable)
		if !ok {
			return
		}
		list := holder.CommentList()
		before := len(*list)
		*list = RemoveComment(*list, id)
		if len(*list) != before {
			removed = true
		}
	})
	return removed
}

func reactionKey(r *types.Reaction) string {
	if r.TargetKey != "" {
		return r.TargetKey
	}
	_, key, err := feedback.TargetOf(r.InsightID, r.SummaryID, r.CommentID)
	if err != nil {
		return ""
	}
	return key
}

func without[T any](list []*T, drop func(*T) bool) []*T {
	out := make([]*T, 0, len(list))
	for _, v := range list {
		if v == nil || drop(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
