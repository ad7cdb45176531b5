package user

import (
	"testing"

	"github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	types "github.com/yungbote/inspect-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)

	repo := NewUserRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.User{
		{Username: "userrepo", Email: "userrepo@example.com"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: expected 1 user with id, got %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uint64{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	byName, err := repo.GetByUsername(dbc, "userrepo")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName == nil || byName.ID != created[0].ID {
		t.Fatalf("GetByUsername: unexpected result: %+v", byName)
	}

	missing, err := repo.GetByID(dbc, created[0].ID+1000)
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID (missing): expected nil, got %+v", missing)
	}

	exists, err := repo.UsernameExists(dbc, "userrepo")
	if err != nil {
		t.Fatalf("UsernameExists: %v", err)
	}
	if !exists {
		t.Fatalf("UsernameExists: expected true")
	}
	exists, err = repo.UsernameExists(dbc, "nobody")
	if err != nil {
		t.Fatalf("UsernameExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("UsernameExists (missing): expected false")
	}
}
