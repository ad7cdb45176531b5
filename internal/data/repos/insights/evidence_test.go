package insights

import (
	"context"
	"testing"

	"github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	types "github.com/yungbote/inspect-backend/internal/domain"
)

func TestEvidenceRepo_CreateRejectsUnknownSummary(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "")
	in := testutil.SeedInsight(t, ctx, tx, u.ID, "claim", false)

	repo := NewEvidenceRepo(db, testutil.Logger(t))
	_, err := repo.Create(dbc, []*types.Evidence{{InsightID: in.ID, SummaryID: 999999}})
	if err == nil {
		t.Fatalf("expected foreign key failure")
	}
}

func TestEvidenceRepo_PageByInsightID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "")
	in := testutil.SeedInsight(t, ctx, tx, u.ID, "claim", false)
	seedEvidenceN(t, ctx, tx, u.ID, in.ID, 5)

	repo := NewEvidenceRepo(db, testutil.Logger(t))

	all, err := repo.PageByInsightID(dbc, in.ID, 0, 0)
	if err != nil {
		t.Fatalf("PageByInsightID(all): %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(all))
	}
	page, err := repo.PageByInsightID(dbc, in.ID, 2, 2)
	if err != nil {
		t.Fatalf("PageByInsightID(page): %v", err)
	}
	if len(page) != 2 || page[0].ID != all[2].ID || page[1].ID != all[3].ID {
		t.Fatalf("unexpected page %+v", page)
	}
	tail, err := repo.PageByInsightID(dbc, in.ID, 4, 0)
	if err != nil {
		t.Fatalf("PageByInsightID(tail): %v", err)
	}
	if len(tail) != 1 || tail[0].ID != all[4].ID {
		t.Fatalf("unexpected tail %+v", tail)
	}
}

func TestEvidenceRepo_DeleteOwnedHidesOtherUsersRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "")
	stranger := testutil.SeedUser(t, ctx, tx, "")
	in := testutil.SeedInsight(t, ctx, tx, owner.ID, "claim", false)
	link := testutil.SeedLink(t, ctx, tx, owner.ID, "https://example.com/a", "a")
	ev := testutil.SeedEvidence(t, ctx, tx, in.ID, link.ID)

	repo := NewEvidenceRepo(db, testutil.Logger(t))

	foreign, err := repo.DeleteOwned(dbc, ev.ID, stranger.ID)
	if err != nil {
		t.Fatalf("DeleteOwned(stranger): %v", err)
	}
	missing, err := repo.DeleteOwned(dbc, ev.ID+1000, stranger.ID)
	if err != nil {
		t.Fatalf("DeleteOwned(missing): %v", err)
	}
	if foreign != 0 || missing != 0 {
		t.Fatalf("expected 0 rows for both, got foreign=%d missing=%d", foreign, missing)
	}
	n, err := repo.DeleteOwned(dbc, ev.ID, owner.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteOwned(owner): n=%d err=%v", n, err)
	}
}
