package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/inspect-backend/internal/app"
	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	repotest "github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
	"github.com/yungbote/inspect-backend/internal/services"
)

func testApp(t *testing.T) *app.App {
	t.Helper()
	cfg := app.Config{
		Port:              "0",
		LogMode:           "test",
		JWTSecretKey:      "test-secret",
		AccessTokenTTL:    time.Hour,
		CacheTTL:          time.Minute,
		InsightCycleCheck: true,
	}
	a, err := app.NewWithDB(context.Background(), cfg, repotest.Logger(t), repotest.DB(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

const fixtureYAML = `
users:
  - username: %s
    email: %s@seed.example
    links:
      - {key: go, url: https://seed.example/go, title: Go docs}
      - {key: spec, url: https://seed.example/spec, title: Language spec}
    insights:
      - {key: root, title: Types matter, public: true, evidence: [go], comments: [agreed]}
      - {key: leaf, title: Interfaces are small, evidence: [go, spec]}
    children:
      - {parent: root, child: leaf}
`

func writeFixture(t *testing.T, username string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	body := strings.ReplaceAll(fixtureYAML, "%s", username)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSeedFixtures(t *testing.T) {
	a := testApp(t)
	username := "seed_" + strings.ReplaceAll(time.Now().Format("150405.000000"), ".", "")
	fx, err := readFixtures(writeFixture(t, username))
	if err != nil {
		t.Fatalf("readFixtures: %v", err)
	}

	rep, err := seedFixtures(context.Background(), a, fx)
	if err != nil {
		t.Fatalf("seedFixtures: %v", err)
	}
	want := SeedReport{Users: 1, Links: 2, Insights: 2, Evidence: 3, Children: 1, Comments: 1}
	if rep != want {
		t.Fatalf("report = %+v, want %+v", rep, want)
	}

	rows, err := a.Services.Insight.List(userContext(t, a, username), services.ListInsightsInput{Query: "Types matter", Limit: 10})
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows = %+v err = %v", rows, err)
	}
	root, err := a.Services.Insight.Get(userContext(t, a, username), rows[0].UID, aggregates.GetInsightOptions{IncludeNestedEvidenceTotals: true})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if root.TotalEvidenceCount == nil || *root.TotalEvidenceCount != 3 {
		t.Fatalf("total evidence = %v", root.TotalEvidenceCount)
	}
	if len(root.Comments) != 1 || len(root.Children) != 1 {
		t.Fatalf("comments = %d children = %d", len(root.Comments), len(root.Children))
	}
}

func TestSeedFixturesUnknownKey(t *testing.T) {
	a := testApp(t)
	username := "seed_badkey_" + strings.ReplaceAll(time.Now().Format("150405.000000"), ".", "")
	fx := Fixtures{Users: []FixtureUser{{
		Username: username,
		Email:    username + "@seed.example",
		Insights: []FixtureInsight{{Key: "a", Title: "A", Evidence: []string{"missing"}}},
	}}}
	_, err := seedFixtures(context.Background(), a, fx)
	if err == nil || !strings.Contains(err.Error(), `unknown link key "missing"`) {
		t.Fatalf("err = %v", err)
	}
}

func userContext(t *testing.T, a *app.App, username string) context.Context {
	t.Helper()
	u, err := a.Repos.User.GetByUsername(repotest.DBC(a.DB), username)
	if err != nil || u == nil {
		t.Fatalf("GetByUsername(%q): %v", username, err)
	}
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID})
}
