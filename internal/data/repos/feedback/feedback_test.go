package feedback

import (
	"context"
	"strconv"
	"testing"

	"github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	types "github.com/yungbote/inspect-backend/internal/domain"
)

func TestReactionRepo_UpsertKeepsOneRowPerUserTarget(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "")
	in := testutil.SeedInsight(t, ctx, tx, u.ID, "claim", false)

	repo := NewReactionRepo(db, testutil.Logger(t))

	first, err := repo.Upsert(dbc, &types.Reaction{UserID: u.ID, Reaction: "👍", InsightID: testutil.PtrU64(in.ID)})
	if err != nil {
		t.Fatalf("Upsert(first): %v", err)
	}
	second, err := repo.Upsert(dbc, &types.Reaction{UserID: u.ID, Reaction: "🎉", InsightID: testutil.PtrU64(in.ID)})
	if err != nil {
		t.Fatalf("Upsert(second): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same row to be updated, got ids %d and %d", first.ID, second.ID)
	}
	if second.Reaction != "🎉" {
		t.Fatalf("expected latest value, got %q", second.Reaction)
	}
	n, err := repo.CountForTarget(dbc, u.ID, "insight:"+strconv.FormatUint(in.ID, 10))
	if err != nil {
		t.Fatalf("CountForTarget: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one reaction row, got %d", n)
	}

	rows, err := repo.GetByInsightIDs(dbc, []uint64{in.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByInsightIDs: %+v %v", rows, err)
	}
}

func TestReactionRepo_SameUserDifferentTargets(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "")
	in := testutil.SeedInsight(t, ctx, tx, u.ID, "claim", false)
	link := testutil.SeedLink(t, ctx, tx, u.ID, "https://example.com", "ex")

	repo := NewReactionRepo(db, testutil.Logger(t))
	a, err := repo.Upsert(dbc, &types.Reaction{UserID: u.ID, Reaction: "👍", InsightID: testutil.PtrU64(in.ID)})
	if err != nil {
		t.Fatalf("Upsert(insight): %v", err)
	}
	b, err := repo.Upsert(dbc, &types.Reaction{UserID: u.ID, Reaction: "👍", SummaryID: testutil.PtrU64(link.ID)})
	if err != nil {
		t.Fatalf("Upsert(summary): %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct rows per target")
	}
	if _, err := repo.Upsert(dbc, &types.Reaction{UserID: u.ID, Reaction: "👍"}); err == nil {
		t.Fatalf("expected missing target to be rejected")
	}
}

func TestCommentRepo_ProjectsUsernameAndScopesDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	author := testutil.SeedUser(t, ctx, tx, "author")
	stranger := testutil.SeedUser(t, ctx, tx, "stranger")
	in := testutil.SeedInsight(t, ctx, tx, author.ID, "claim", true)

	repo := NewCommentRepo(db, testutil.Logger(t))
	c, err := repo.Create(dbc, &types.Comment{UserID: author.ID, Comment: "nice", InsightID: testutil.PtrU64(in.ID)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByInsightIDs(dbc, []uint64{in.ID})
	if err != nil {
		t.Fatalf("GetByInsightIDs: %v", err)
	}
	if len(rows) != 1 || rows[0].Username != "author" || rows[0].Comment != "nice" {
		t.Fatalf("unexpected comments %+v", rows)
	}

	got, err := repo.GetByID(dbc, c.ID)
	if err != nil || got == nil || got.Username != "author" {
		t.Fatalf("GetByID: %+v %v", got, err)
	}

	if n, err := repo.DeleteOwned(dbc, c.ID, stranger.ID); err != nil || n != 0 {
		t.Fatalf("DeleteOwned(stranger): n=%d err=%v", n, err)
	}
	if n, err := repo.DeleteOwned(dbc, c.ID, author.ID); err != nil || n != 1 {
		t.Fatalf("DeleteOwned(author): n=%d err=%v", n, err)
	}
	if got, err := repo.GetByID(dbc, c.ID); err != nil || got != nil {
		t.Fatalf("GetByID after delete: %+v %v", got, err)
	}
}
