package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/cache"
	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// SourceService resolves the Source row for a base url, creating it on
// first use. Concurrent resolutions of one base url share a single lookup.
type SourceService interface {
	Resolve(ctx context.Context, baseURL, logoURI string) (*types.Source, error)
}

type sourceService struct {
	db      *gorm.DB
	log     *logger.Logger
	sources repos.SourceRepo
	cache   cache.Store
	ttl     time.Duration
	group   singleflight.Group
}

func NewSourceService(db *gorm.DB, log *logger.Logger, sources repos.SourceRepo, store cache.Store, ttl time.Duration) SourceService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sourceService{
		db:      db,
		log:     log.With("service", "SourceService"),
		sources: sources,
		cache:   store,
		ttl:     ttl,
	}
}

func (s *sourceService) Resolve(ctx context.Context, baseURL, logoURI string) (*types.Source, error) {
	const op = "sources.resolve"
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, domainagg.Validation(op, "base url is required")
	}
	key := cache.Key("source", baseURL)
	if src := s.cached(ctx, key); src != nil {
		observability.Current().IncSourceCache(true)
		return src, nil
	}
	observability.Current().IncSourceCache(false)

	v, err, _ := s.group.Do(baseURL, func() (any, error) {
		dbc := dbctx.New(ctx)
		src, err := s.sources.GetByBaseURL(dbc, baseURL)
		if err != nil {
			return nil, err
		}
		if src == nil {
			src, err = s.sources.FirstOrCreate(dbc, &types.Source{BaseURL: baseURL, LogoURI: strings.TrimSpace(logoURI)})
			if err != nil {
				return nil, err
			}
			s.log.Info("Source created", "baseurl", baseURL, "source_id", src.ID)
		}
		s.remember(ctx, key, src)
		return src, nil
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	// shared result; hand each caller its own copy
	src := *v.(*types.Source)
	return &src, nil
}

func (s *sourceService) cached(ctx context.Context, key string) *types.Source {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Source cache read failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var src types.Source
	if err := json.Unmarshal(raw, &src); err != nil || src.ID == 0 {
		return nil
	}
	return &src
}

func (s *sourceService) remember(ctx context.Context, key string, src *types.Source) {
	if s.cache == nil || src == nil {
		return
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("Source cache write failed", "key", key, "error", err)
	}
}
