package insights

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/yungbote/inspect-backend/internal/data/repos/testutil"
)

func TestInsightRepo_PagesConcatenateToFullList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "")
	other := testutil.SeedUser(t, ctx, tx, "")
	for i := 0; i < 7; i++ {
		testutil.SeedInsight(t, ctx, tx, u.ID, fmt.Sprintf("Topic %d", i), false)
	}
	testutil.SeedInsight(t, ctx, tx, u.ID, "unrelated", false)
	testutil.SeedInsight(t, ctx, tx, other.ID, "Topic from someone else", true)

	repo := NewInsightRepo(db, testutil.Logger(t))

	all, err := repo.PageIDsForUser(dbc, u.ID, "topic", 0, 0)
	if err != nil {
		t.Fatalf("PageIDsForUser(all): %v", err)
	}
	if len(all) != 7 {
		t.Fatalf("expected 7 matching ids, got %d", len(all))
	}

	var paged []uint64
	for offset := 0; ; offset += 3 {
		page, err := repo.PageIDsForUser(dbc, u.ID, "TOPIC", offset, 3)
		if err != nil {
			t.Fatalf("PageIDsForUser(offset=%d): %v", offset, err)
		}
		if len(page) == 0 {
			break
		}
		paged = append(paged, page...)
	}
	if !reflect.DeepEqual(all, paged) {
		t.Fatalf("pages do not concatenate to the full list:\nall=%v\npaged=%v", all, paged)
	}
}

func TestInsightRepo_SearchEscapesWildcards(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	u := testutil.SeedUser(t, ctx, tx, "")
	hit := testutil.SeedInsight(t, ctx, tx, u.ID, "100% sure", false)
	testutil.SeedInsight(t, ctx, tx, u.ID, "1000 reasons", false)

	repo := NewInsightRepo(db, testutil.Logger(t))
	ids, err := repo.PageIDsForUser(dbc, u.ID, "100%", 0, 20)
	if err != nil {
		t.Fatalf("PageIDsForUser: %v", err)
	}
	if len(ids) != 1 || ids[0] != hit.ID {
		t.Fatalf("expected only %d, got %v", hit.ID, ids)
	}
}

func TestInsightRepo_OwnershipScopedWrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "")
	stranger := testutil.SeedUser(t, ctx, tx, "")
	in := testutil.SeedInsight(t, ctx, tx, owner.ID, "mine", false)

	repo := NewInsightRepo(db, testutil.Logger(t))

	n, err := repo.UpdateOwned(dbc, in.UID, stranger.ID, map[string]any{"title": "stolen"})
	if err != nil {
		t.Fatalf("UpdateOwned(stranger): %v", err)
	}
	if n != 0 {
		t.Fatalf("expected stranger update to affect 0 rows, got %d", n)
	}

	n, err = repo.UpdateOwned(dbc, in.UID, owner.ID, map[string]any{"is_public": true})
	if err != nil {
		t.Fatalf("UpdateOwned(owner): %v", err)
	}
	if n != 1 {
		t.Fatalf("expected owner update to affect 1 row, got %d", n)
	}
	got, err := repo.GetByUID(dbc, in.UID)
	if err != nil || got == nil {
		t.Fatalf("GetByUID: %v %v", got, err)
	}
	if !got.IsPublic || got.Title != "mine" {
		t.Fatalf("unexpected row after update: %+v", got)
	}

	owned, err := repo.OwnedIDs(dbc, stranger.ID, []uint64{in.ID})
	if err != nil {
		t.Fatalf("OwnedIDs: %v", err)
	}
	if owned[in.ID] {
		t.Fatalf("stranger must not own the insight")
	}

	if n, err = repo.DeleteOwned(dbc, in.UID, stranger.ID); err != nil || n != 0 {
		t.Fatalf("DeleteOwned(stranger): n=%d err=%v", n, err)
	}
	if n, err = repo.DeleteOwned(dbc, in.UID, owner.ID); err != nil || n != 1 {
		t.Fatalf("DeleteOwned(owner): n=%d err=%v", n, err)
	}
	if got, _ := repo.GetByUID(dbc, in.UID); got != nil {
		t.Fatalf("expected insight to be gone")
	}
}

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"":         "",
		"  ":       "",
		"Go":       "%go%",
		"50%_off":  `%50\%\_off%`,
		`back\sla`: `%back\\sla%`,
	}
	for in, want := range cases {
		if got := LikePattern(in); got != want {
			t.Fatalf("LikePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
