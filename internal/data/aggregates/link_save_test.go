package aggregates

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	repotest "github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
)

func newTestLinkSave(t *testing.T, db *gorm.DB, runner TxRunner) LinkSave {
	t.Helper()
	log := repotest.Logger(t)
	return NewLinkSave(LinkSaveDeps{
		BaseDeps: BaseDeps{DB: db, Log: log, Runner: runner},
		Links:    repos.NewLinkRepo(db, log),
		Sources:  repos.NewSourceRepo(db, log),
	})
}

func TestLinkSaveReusesSourcePerDomain(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	agg := newTestLinkSave(t, db, nil)
	u := repotest.SeedUser(t, ctx, db, "")

	first, err := agg.SaveLink(ctx, SaveLinkInput{
		UserID:  u.ID,
		URL:     "https://pkg.go.dev/net/http",
		Title:   "net/http",
		BaseURL: "https://pkg.go.dev",
		LogoURI: "https://pkg.go.dev/favicon.ico",
	})
	if err != nil {
		t.Fatalf("SaveLink: %v", err)
	}
	if first.UID == "" || first.Source == nil || first.SourceID == nil {
		t.Fatalf("expected uid and source, got %+v", first)
	}
	second, err := agg.SaveLink(ctx, SaveLinkInput{
		UserID:  u.ID,
		URL:     "https://pkg.go.dev/context",
		BaseURL: "https://pkg.go.dev",
	})
	if err != nil {
		t.Fatalf("SaveLink second: %v", err)
	}
	if *second.SourceID != *first.SourceID {
		t.Fatalf("expected the same source for one domain: %d vs %d", *second.SourceID, *first.SourceID)
	}
	if second.Source.LogoURI != "https://pkg.go.dev/favicon.ico" {
		t.Fatalf("expected stored logo to win, got %q", second.Source.LogoURI)
	}
}

func TestLinkSaveValidation(t *testing.T) {
	agg := NewLinkSave(LinkSaveDeps{})
	ctx := context.Background()

	if _, err := agg.SaveLink(ctx, SaveLinkInput{URL: "https://go.dev", BaseURL: "https://go.dev"}); !domainagg.IsCode(err, domainagg.CodeUnauthorized) {
		t.Fatalf("missing user: want unauthorized, got %v", err)
	}
	if _, err := agg.SaveLink(ctx, SaveLinkInput{UserID: 1, BaseURL: "https://go.dev"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("missing url: want validation, got %v", err)
	}
	if _, err := agg.SaveLink(ctx, SaveLinkInput{UserID: 1, URL: "https://go.dev"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("missing base url: want validation, got %v", err)
	}
}

func TestLinkSaveRollsBackSourceOnFailure(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, db, "")
	agg := newTestLinkSave(t, db, rollbackAfterBodyRunner{db: db, err: errors.New("injected failure")})

	baseURL := "https://rollback-" + u.Username + ".example"
	if _, err := agg.SaveLink(ctx, SaveLinkInput{UserID: u.ID, URL: baseURL + "/x", BaseURL: baseURL}); err == nil {
		t.Fatalf("expected injected failure")
	}
	src, err := repos.NewSourceRepo(db, repotest.Logger(t)).GetByBaseURL(dbctx.Context{Ctx: ctx}, baseURL)
	if err != nil {
		t.Fatalf("GetByBaseURL: %v", err)
	}
	if src != nil {
		t.Fatalf("expected source insert to roll back, got %+v", src)
	}
}

func TestLinkSaveUnknownSourceID(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	agg := newTestLinkSave(t, db, nil)
	u := repotest.SeedUser(t, ctx, db, "")

	_, err := agg.SaveLink(ctx, SaveLinkInput{UserID: u.ID, URL: "https://go.dev", SourceID: 1 << 40})
	if !domainagg.IsCode(err, domainagg.CodePreconditionFailed) {
		t.Fatalf("want precondition_failed, got %v", err)
	}
	var links []*types.Link
	if err := db.WithContext(ctx).Where("user_id = ?", u.ID).Find(&links).Error; err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected no links, got %d", len(links))
	}
}

type rollbackAfterBodyRunner struct {
	db  *gorm.DB
	err error
}

func (r rollbackAfterBodyRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
			return err
		}
		return r.err
	})
}
