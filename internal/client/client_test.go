package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

type fakeAPI struct {
	t      *testing.T
	mu     sync.Mutex
	calls  []recorded
	routes map[string]func(w http.ResponseWriter, body map[string]any)
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{t: t, routes: map[string]func(http.ResponseWriter, map[string]any){}}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)
	return api, New(Config{BaseURL: srv.URL + "/", Token: "tok"})
}

func (a *fakeAPI) handle(method, path string, fn func(w http.ResponseWriter, body map[string]any)) {
	a.routes[method+" "+path] = fn
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.ContentLength > 0 {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	a.mu.Lock()
	a.calls = append(a.calls, recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization"), body: body})
	a.mu.Unlock()
	fn, ok := a.routes[r.Method+" "+r.URL.Path]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"message": "route not found", "code": "not_found"}})
		return
	}
	fn(w, body)
}

func (a *fakeAPI) last() recorded {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.calls) == 0 {
		a.t.Fatalf("no calls recorded")
	}
	return a.calls[len(a.calls)-1]
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListInsightsQuery(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodGet, "/api/insights", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, []*types.Insight{{ID: 1, Title: "a"}})
	})

	rows, err := c.ListInsights(context.Background(), ListInsightsParams{Query: "go", Offset: 20, Limit: 10, Children: true})
	if err != nil {
		t.Fatalf("ListInsights: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "a" {
		t.Fatalf("rows = %+v", rows)
	}
	got := api.last()
	if got.query != "children=1&limit=10&offset=20&query=go" {
		t.Fatalf("query = %q", got.query)
	}
	if got.auth != "Bearer tok" {
		t.Fatalf("auth = %q", got.auth)
	}
}

func TestErrorsCarryServerMessage(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodPost, "/api/evidence", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": map[string]any{"message": "invalid summary_id", "code": "precondition_failed"}})
	})
	api.handle(http.MethodGet, "/api/me", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
	})
	api.handle(http.MethodDelete, "/api/comments/4", func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CreateEvidence(context.Background(), []EvidenceInput{{SummaryID: 9, InsightID: 1}})
	var he *HTTPError
	if err == nil || StatusOf(err) != http.StatusConflict {
		t.Fatalf("err = %v", err)
	}
	he = err.(*HTTPError)
	if he.Message != "invalid summary_id" || he.Code != "precondition_failed" {
		t.Fatalf("http error = %+v", he)
	}

	_, err = c.Me(context.Background())
	if StatusOf(err) != http.StatusUnauthorized || err.(*HTTPError).Message != "unauthorized" {
		t.Fatalf("err = %v", err)
	}

	err = c.DeleteComment(context.Background(), 4)
	if StatusOf(err) != http.StatusInternalServerError || err.(*HTTPError).Message != "Internal Server Error" {
		t.Fatalf("err = %v", err)
	}
}

func TestCreateChildrenBody(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodPost, "/api/children", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusCreated, []*types.InsightLink{{ID: 5, ParentID: 1, ChildID: 2}})
	})

	rows, err := c.CreateChildren(context.Background(), []ChildInput{{ParentID: 1, ChildID: 2}})
	if err != nil || len(rows) != 1 || rows[0].ID != 5 {
		t.Fatalf("rows = %+v err = %v", rows, err)
	}
	children, ok := api.last().body["children"].([]any)
	if !ok || len(children) != 1 {
		t.Fatalf("body = %+v", api.last().body)
	}
	row := children[0].(map[string]any)
	if row["parent_id"] != float64(1) || row["child_id"] != float64(2) {
		t.Fatalf("row = %+v", row)
	}
}

func TestUpdateInsightOmitsUnsetFields(t *testing.T) {
	api, c := newFakeAPI(t)
	api.handle(http.MethodPatch, "/api/insights/abc", func(w http.ResponseWriter, _ map[string]any) {
		writeJSON(w, http.StatusOK, types.Insight{ID: 1, UID: "abc", IsPublic: true})
	})
	public := true
	in, err := c.UpdateInsight(context.Background(), "abc", InsightPatch{IsPublic: &public})
	if err != nil || !in.IsPublic {
		t.Fatalf("in = %+v err = %v", in, err)
	}
	body := api.last().body
	if _, ok := body["title"]; ok {
		t.Fatalf("title should be omitted: %+v", body)
	}
	if body["is_public"] != true {
		t.Fatalf("body = %+v", body)
	}
}
