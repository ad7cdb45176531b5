package insights

import (
	"testing"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

func node(id uint64) *types.Insight {
	return &types.Insight{ID: id, Title: "n"}
}

func link(parent, child *types.Insight) {
	edge := &types.InsightLink{ParentID: parent.ID, ChildID: child.ID}
	parent.Children = append(parent.Children, edge)
	child.Parents = append(child.Parents, edge)
}

func ids(rows []*types.Insight) map[uint64]bool {
	out := map[uint64]bool{}
	for _, r := range rows {
		out[r.ID] = true
	}
	return out
}

func TestPotentialInsightsWithoutLoops_Rules(t *testing.T) {
	self := node(1)
	parent := node(2)
	child := node(3)
	coParent := node(4)
	grandchild := node(5)
	free := node(6)
	link(parent, self)
	link(self, child)
	link(coParent, child)
	link(child, grandchild)

	got := ids(PotentialInsightsWithoutLoops(self, []*types.Insight{self, parent, child, coParent, grandchild, free}))

	cases := []struct {
		name string
		id   uint64
		want bool
	}{
		{"self", self.ID, false},
		{"existing parent", parent.ID, false},
		{"existing child", child.ID, false},
		{"parent of a child", coParent.ID, false},
		{"grandchild is beyond the checked neighbourhood", grandchild.ID, true},
		{"unrelated", free.ID, true},
	}
	for _, tc := range cases {
		if got[tc.id] != tc.want {
			t.Fatalf("%s: included=%v want %v", tc.name, got[tc.id], tc.want)
		}
	}
}

func TestPotentialInsightsWithoutLoops_ParentDetectedFromCandidateEdges(t *testing.T) {
	self := node(1)
	parent := node(2)
	// only the candidate side carries the edge, as in a list loaded with children only
	parent.Children = []*types.InsightLink{{ParentID: parent.ID, ChildID: self.ID}}

	if out := PotentialInsightsWithoutLoops(self, []*types.Insight{parent}); len(out) != 0 {
		t.Fatalf("expected parent to be excluded, got %d rows", len(out))
	}
}

// P is linked as C's parent; P must not be offered as a child of C.
func TestPotentialInsightsWithoutLoops_ParentNotOfferedAsChild(t *testing.T) {
	p := node(10)
	c := node(20)
	link(p, c)

	candidates := []*types.Insight{p, c}
	for _, in := range []*types.Insight{c, p} {
		for _, got := range PotentialInsightsWithoutLoops(in, candidates) {
			t.Fatalf("insight %d: unexpected candidate %d", in.ID, got.ID)
		}
	}
}

func TestPotentialInsightsWithoutLoops_PreservesOrderAndSkipsNil(t *testing.T) {
	self := node(1)
	a, b, c := node(7), node(8), node(9)
	out := PotentialInsightsWithoutLoops(self, []*types.Insight{c, nil, a, b})
	if len(out) != 3 || out[0] != c || out[1] != a || out[2] != b {
		t.Fatalf("unexpected result order: %+v", out)
	}
	if out := PotentialInsightsWithoutLoops(nil, []*types.Insight{a, nil}); len(out) != 1 {
		t.Fatalf("nil insight should keep non-nil candidates, got %d", len(out))
	}
}
