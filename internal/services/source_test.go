package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/inspect-backend/internal/cache"
	"github.com/yungbote/inspect-backend/internal/data/repos"
	repotest "github.com/yungbote/inspect-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
)

func TestSourceServiceResolveConcurrent(t *testing.T) {
	ts := newTestServices(t, nil)
	const n = 8
	ids := make([]uint64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, err := ts.sources.Resolve(context.Background(), "https://go.dev", "")
			errs[i] = err
			if src != nil {
				ids[i] = src.ID
			}
		}(i)
	}
	wg.Wait()
	for i := range ids {
		if errs[i] != nil {
			t.Fatalf("Resolve[%d]: %v", i, errs[i])
		}
		if ids[i] == 0 || ids[i] != ids[0] {
			t.Fatalf("expected one shared source, got ids %v", ids)
		}
	}
}

func TestSourceServiceServesFromCache(t *testing.T) {
	db := repotest.DB(t)
	log := repotest.Logger(t)
	store := cache.NewMemoryStore(time.Minute, time.Minute)
	svc := NewSourceService(db, log, repos.NewSourceRepo(db, log), store, time.Minute)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "https://example.com", "https://example.com/favicon.ico")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok, _ := store.Get(ctx, cache.Key("source", "https://example.com")); !ok {
		t.Fatalf("expected the source to be cached")
	}
	// a cache hit must not need the database
	if !repotest.IsPostgres() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	second, err := svc.Resolve(ctx, "https://example.com", "")
	if err != nil {
		t.Fatalf("Resolve from cache: %v", err)
	}
	if second.ID != first.ID || second.LogoURI != first.LogoURI {
		t.Fatalf("cached source differs: %+v vs %+v", second, first)
	}
	second.BaseURL = "mutated"
	third, _ := svc.Resolve(ctx, "https://example.com", "")
	if third.BaseURL != "https://example.com" {
		t.Fatalf("callers must get independent copies")
	}
}

func TestSourceServiceRequiresBaseURL(t *testing.T) {
	ts := newTestServices(t, nil)
	if _, err := ts.sources.Resolve(context.Background(), " ", ""); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("want validation, got %v", err)
	}
}
