package client

import (
	"context"
	"net/http"
	"testing"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/reconcile"
)

func u64(v uint64) *uint64 { return &v }

func loadedSession(t *testing.T) (*fakeAPI, *Session) {
	t.Helper()
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/insights/root", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, types.Insight{
			ID:        1,
			UID:       "root",
			Title:     "root",
			Comments:  []*types.Comment{},
			Reactions: []*types.Reaction{},
			Parents:   []*types.InsightLink{},
			Children:  []*types.InsightLink{{ID: 7, ParentID: 1, ChildID: 3, ChildInsight: &types.Insight{ID: 3, Title: "old child"}}},
			Evidence:  []*types.Evidence{},
		})
	})
	s := NewSession(c)
	if err := s.Load(context.Background(), "root", GetInsightParams{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return api, s
}

func TestSessionRequiresLoad(t *testing.T) {
	_, c := newFakeAPI(t)
	s := NewSession(c)
	if _, err := s.React(context.Background(), ReactionInput{Reaction: "like", InsightID: u64(1)}); err != ErrNoInsight {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionReactionUpsert(t *testing.T) {
	api, s := loadedSession(t)
	api.handle(http.MethodPost, "/api/reactions", func(w http.ResponseWriter, body map[string]any) {
		emoji, _ := body["reaction"].(string)
		writeJSON(w, http.StatusCreated, types.Reaction{ID: 11, UserID: 9, Reaction: emoji, InsightID: u64(1), TargetKind: types.FactInsight, TargetKey: "insight:1"})
	})

	if _, err := s.React(context.Background(), ReactionInput{Reaction: "like", InsightID: u64(1)}); err != nil {
		t.Fatalf("React: %v", err)
	}
	if _, err := s.React(context.Background(), ReactionInput{Reaction: "love", InsightID: u64(1)}); err != nil {
		t.Fatalf("React: %v", err)
	}
	got := s.Insight().Reactions
	if len(got) != 1 || got[0].Reaction != "love" {
		t.Fatalf("reactions = %+v", got)
	}

	api.handle(http.MethodDelete, "/api/reactions/11", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	})
	if err := s.Unreact(context.Background(), 11); err != nil {
		t.Fatalf("Unreact: %v", err)
	}
	if len(s.Insight().Reactions) != 0 {
		t.Fatalf("reaction not removed")
	}
}

func TestSessionAddChildrenClearsSelection(t *testing.T) {
	api, s := loadedSession(t)
	api.handle(http.MethodPost, "/api/children", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusCreated, []*types.InsightLink{{ID: 8, ParentID: 1, ChildID: 4}})
	})

	s.Select(func(sel *reconcile.Selection) { sel.ToggleChild(&types.Insight{ID: 4, Title: "new child"}) })
	rows, err := s.AddSelectedChildren(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows = %+v err = %v", rows, err)
	}
	children := s.Insight().Children
	if len(children) != 2 || children[0].ID != 8 || children[0].ChildInsight == nil || children[0].ChildInsight.Title != "new child" {
		t.Fatalf("children = %+v", children)
	}
	sel := s.Selection()
	if !sel.Empty() {
		t.Fatalf("selection not cleared: %+v", sel)
	}
}

func TestSessionFailureLeavesStateUntouched(t *testing.T) {
	api, s := loadedSession(t)
	api.handle(http.MethodPost, "/api/children", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": map[string]any{"message": "would create a cycle", "code": "invariant_violation"}})
	})
	api.handle(http.MethodDelete, "/api/children/7", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"message": "insight link not found", "code": "not_found"}})
	})

	s.Select(func(sel *reconcile.Selection) { sel.ToggleParent(&types.Insight{ID: 3}) })
	if _, err := s.AddSelectedParents(context.Background()); StatusOf(err) != http.StatusConflict {
		t.Fatalf("err = %v", err)
	}
	if len(s.Insight().Parents) != 0 {
		t.Fatalf("parents changed on failure")
	}
	sel := s.Selection()
	if len(sel.SelectedParentInsights) != 1 {
		t.Fatalf("selection should survive a failed mutation")
	}

	if err := s.RemoveChild(context.Background(), 7); StatusOf(err) != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
	if len(s.Insight().Children) != 1 {
		t.Fatalf("children changed on failure")
	}
}

func TestSessionEvidenceAndComments(t *testing.T) {
	api, s := loadedSession(t)
	api.handle(http.MethodPost, "/api/evidence", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusCreated, []*types.Evidence{{ID: 21, InsightID: 1, SummaryID: 30}})
	})
	api.handle(http.MethodDelete, "/api/evidence/21", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	})
	api.handle(http.MethodPost, "/api/comments", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusCreated, types.Comment{ID: 50, InsightID: u64(1), Comment: "hi"})
	})

	s.Select(func(sel *reconcile.Selection) {
		sel.ToggleEvidence(&types.Link{ID: 30, UID: "s-30", Title: "Go", Source: &types.Source{BaseURL: "https://go.dev"}})
	})
	if _, err := s.AddSelectedEvidence(context.Background()); err != nil {
		t.Fatalf("AddSelectedEvidence: %v", err)
	}
	snippets := s.LiveSnippets()
	if len(snippets) != 1 || snippets[0].Title != "Go" || snippets[0].SourceBaseURL != "https://go.dev" {
		t.Fatalf("snippets = %+v", snippets)
	}

	if _, err := s.Comment(context.Background(), CommentInput{Comment: "hi", InsightID: u64(1)}); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if len(s.Insight().Comments) != 1 {
		t.Fatalf("comments = %+v", s.Insight().Comments)
	}

	if err := s.RemoveEvidence(context.Background(), 21); err != nil {
		t.Fatalf("RemoveEvidence: %v", err)
	}
	if len(s.LiveSnippets()) != 0 {
		t.Fatalf("evidence not removed")
	}
}

func TestSessionEmptySelectionSkipsRequest(t *testing.T) {
	api, s := loadedSession(t)
	before := api.count()
	rows, err := s.AddSelectedChildren(context.Background())
	if err != nil || rows != nil {
		t.Fatalf("rows = %+v err = %v", rows, err)
	}
	if api.count() != before {
		t.Fatalf("empty selection should not hit the API")
	}
}

func TestSessionParentsAddAndRemove(t *testing.T) {
	api, s := loadedSession(t)
	api.handle(http.MethodPost, "/api/children", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusCreated, []*types.InsightLink{{ID: 9, ParentID: 5, ChildID: 1}})
	})
	for _, path := range []string{"/api/children/9", "/api/children/7"} {
		api.handle(http.MethodDelete, path, func(w http.ResponseWriter, _ map[string]any) {
			writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
		})
	}

	s.Select(func(sel *reconcile.Selection) { sel.ToggleParent(&types.Insight{ID: 5, Title: "broader"}) })
	if _, err := s.AddSelectedParents(context.Background()); err != nil {
		t.Fatalf("AddSelectedParents: %v", err)
	}
	parents := s.Insight().Parents
	if len(parents) != 1 || parents[0].ParentInsight == nil || parents[0].ParentInsight.Title != "broader" {
		t.Fatalf("parents = %+v", parents)
	}

	if err := s.RemoveParent(context.Background(), 9); err != nil {
		t.Fatalf("RemoveParent: %v", err)
	}
	if err := s.RemoveChild(context.Background(), 7); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if got := s.Insight(); len(got.Parents) != 0 || len(got.Children) != 0 {
		t.Fatalf("insight = %+v", got)
	}
	if last := api.last(); last.method != http.MethodDelete || last.path != "/api/children/7" {
		t.Fatalf("last call = %+v", last)
	}
}
