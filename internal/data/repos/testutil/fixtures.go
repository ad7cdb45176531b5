package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

var seedSeq atomic.Uint64

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	if username == "" {
		username = fmt.Sprintf("user%d", seedSeq.Add(1))
	}
	u := &types.User{
		Username: username,
		Email:    username + "@example.com",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedInsight(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint64, title string, isPublic bool) *types.Insight {
	tb.Helper()
	in := &types.Insight{
		UserID:   userID,
		Title:    title,
		IsPublic: isPublic,
	}
	if err := tx.WithContext(ctx).Create(in).Error; err != nil {
		tb.Fatalf("seed insight: %v", err)
	}
	return in
}

func SeedLink(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint64, url, title string) *types.Link {
	tb.Helper()
	l := &types.Link{
		UserID: userID,
		URL:    url,
		Title:  title,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed link: %v", err)
	}
	return l
}

func SeedSource(tb testing.TB, ctx context.Context, tx *gorm.DB, baseURL string) *types.Source {
	tb.Helper()
	s := &types.Source{
		BaseURL: baseURL,
		LogoURI: baseURL + "/favicon.ico",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed source: %v", err)
	}
	return s
}

func SeedEvidence(tb testing.TB, ctx context.Context, tx *gorm.DB, insightID, summaryID uint64) *types.Evidence {
	tb.Helper()
	e := &types.Evidence{
		InsightID: insightID,
		SummaryID: summaryID,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed evidence: %v", err)
	}
	return e
}

func SeedInsightLink(tb testing.TB, ctx context.Context, tx *gorm.DB, parentID, childID uint64) *types.InsightLink {
	tb.Helper()
	l := &types.InsightLink{
		ParentID: parentID,
		ChildID:  childID,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed insight link: %v", err)
	}
	return l
}

func SeedComment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint64, insightID, summaryID *uint64, body string) *types.Comment {
	tb.Helper()
	c := &types.Comment{
		UserID:    userID,
		Comment:   body,
		InsightID: insightID,
		SummaryID: summaryID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed comment: %v", err)
	}
	return c
}

func PtrU64(v uint64) *uint64 { return &v }
