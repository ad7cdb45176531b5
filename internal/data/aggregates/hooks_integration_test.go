package aggregates_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/inspect-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/inspect-backend/internal/data/repos"
	repotest "github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

func TestLinkSaveReportsCommitFailure(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	log := repotest.Logger(t)
	u := repotest.SeedUser(t, ctx, db, "")

	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{FailCommit: errors.New("commit lost")}
	agg := aggregates.NewLinkSave(aggregates.LinkSaveDeps{
		BaseDeps: aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: hooks},
		Links:    repos.NewLinkRepo(db, log),
		Sources:  repos.NewSourceRepo(db, log),
	})
	if !agg.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("link save must own its transaction")
	}

	_, err := agg.SaveLink(ctx, aggregates.SaveLinkInput{
		UserID:  u.ID,
		URL:     "https://go.dev/blog",
		BaseURL: "https://go.dev",
	})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal, got %v", err)
	}
	if runner.RollbackCalls != 1 || runner.CommitCalls != 0 {
		t.Fatalf("unexpected runner calls: %+v", runner)
	}
	if got := hooks.Statuses("link_save.save_link"); !reflect.DeepEqual(got, []string{"internal"}) {
		t.Fatalf("unexpected statuses: %v", got)
	}
}

func TestInsightGraphReportsNotFound(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	hooks := &aggtest.HooksRecorder{}
	graph := aggregates.NewInsightGraph(aggregates.InsightGraphDeps{
		BaseDeps: aggregates.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Insights: repos.NewInsightRepo(db, log),
	})
	if graph.Contract().RequiresAggregateOwnedTx() {
		t.Fatalf("insight graph is read-only")
	}

	_, err := graph.GetInsight(context.Background(), "no-such-uid", 0, aggregates.GetInsightOptions{})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("want not_found, got %v", err)
	}
	if got := hooks.Statuses("insight_graph.get_insight"); !reflect.DeepEqual(got, []string{"not_found"}) {
		t.Fatalf("unexpected statuses: %v", got)
	}
}
