package feedback

import (
	"errors"
	"testing"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
)

func ptr(v uint64) *uint64 { return &v }

func TestTargetOf(t *testing.T) {
	cases := []struct {
		name      string
		insight   *uint64
		summary   *uint64
		comment   *uint64
		wantKind  facts.Kind
		wantKey   string
		wantError bool
	}{
		{name: "insight", insight: ptr(12), wantKind: facts.KindInsight, wantKey: "insight:12"},
		{name: "summary", summary: ptr(7), wantKind: facts.KindSummary, wantKey: "summary:7"},
		{name: "comment", comment: ptr(3), wantKind: facts.KindComment, wantKey: "comment:3"},
		{name: "none", wantError: true},
		{name: "zero ids count as missing", insight: ptr(0), wantError: true},
		{name: "two targets", insight: ptr(1), summary: ptr(2), wantError: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, key, err := TargetOf(tc.insight, tc.summary, tc.comment)
			if tc.wantError {
				if !errors.Is(err, ErrReactionTarget) {
					t.Fatalf("expected ErrReactionTarget, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("TargetOf: %v", err)
			}
			if kind != tc.wantKind || key != tc.wantKey {
				t.Fatalf("got (%s,%s) want (%s,%s)", kind, key, tc.wantKind, tc.wantKey)
			}
		})
	}
}

func TestResolveTarget(t *testing.T) {
	r := &Reaction{UserID: 1, Reaction: "👍", SummaryID: ptr(9)}
	if err := r.ResolveTarget(); err != nil {
		t.Fatalf("ResolveTarget: %v", err)
	}
	if r.TargetKind != facts.KindSummary || r.TargetKey != "summary:9" {
		t.Fatalf("unexpected target: %s %s", r.TargetKind, r.TargetKey)
	}
}
