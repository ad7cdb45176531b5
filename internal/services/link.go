package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/linkmeta"
	"github.com/yungbote/inspect-backend/internal/observability"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

// MetaFetcher looks up page metadata for a url.
type MetaFetcher interface {
	Fetch(ctx context.Context, rawURL string) (linkmeta.Meta, error)
}

type LinkService interface {
	Create(ctx context.Context, rawURL, title string) (*types.Link, error)
	List(ctx context.Context, query string, offset, limit int) ([]*types.Link, error)
	Get(ctx context.Context, uid string) (*types.Link, error)
	Update(ctx context.Context, uid, title string) (*types.Link, error)
	Delete(ctx context.Context, uid string) error
}

type linkService struct {
	db           *gorm.DB
	log          *logger.Logger
	links        repos.LinkRepo
	save         aggregates.LinkSave
	graph        aggregates.InsightGraph
	sources      SourceService
	fetcher      MetaFetcher
	fetchTimeout time.Duration
}

// NewLinkService wires link writes. fetcher may be nil, which disables title
// lookups for links saved without one.
func NewLinkService(db *gorm.DB, log *logger.Logger, links repos.LinkRepo, save aggregates.LinkSave, graph aggregates.InsightGraph, sources SourceService, fetcher MetaFetcher, fetchTimeout time.Duration) LinkService {
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}
	return &linkService{
		db:           db,
		log:          log.With("service", "LinkService"),
		links:        links,
		save:         save,
		graph:        graph,
		sources:      sources,
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
	}
}

func (s *linkService) Create(ctx context.Context, rawURL, title string) (*types.Link, error) {
	const op = "links.create"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	u, err := linkmeta.Normalize(rawURL)
	if err != nil {
		return nil, domainagg.Validation(op, err.Error())
	}
	title = strings.TrimSpace(title)
	if len([]rune(title)) > maxTitleLength {
		return nil, domainagg.Validation(op, "title is too long")
	}
	baseURL := u.Scheme + "://" + u.Host
	logo := linkmeta.DefaultLogo(baseURL)

	if title == "" && s.fetcher != nil {
		meta := s.fetchMeta(ctx, u.String())
		title = meta.Title
		if meta.LogoURI != "" {
			logo = meta.LogoURI
		}
	}

	src, err := s.sources.Resolve(ctx, baseURL, logo)
	if err != nil {
		return nil, err
	}
	return s.save.SaveLink(ctx, aggregates.SaveLinkInput{
		UserID:   userID,
		URL:      u.String(),
		Title:    title,
		SourceID: src.ID,
	})
}

// fetchMeta never fails the save; a failed lookup only loses the title.
func (s *linkService) fetchMeta(ctx context.Context, rawURL string) linkmeta.Meta {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	metrics := observability.Current()
	meta, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		level, outcome := s.log.Warn, "error"
		if errors.Is(err, linkmeta.ErrDisallowed) {
			level, outcome = s.log.Debug, "disallowed"
		}
		metrics.IncLinkFetch(outcome)
		level("Link metadata fetch failed", "url", rawURL, "error", err)
		return linkmeta.Meta{LogoURI: meta.LogoURI}
	}
	metrics.IncLinkFetch("ok")
	return meta
}

func (s *linkService) List(ctx context.Context, query string, offset, limit int) ([]*types.Link, error) {
	userID, err := authUser(ctx, "links.list")
	if err != nil {
		return nil, err
	}
	return s.graph.ListLinks(ctx, userID, query, offset, limit)
}

func (s *linkService) Get(ctx context.Context, uid string) (*types.Link, error) {
	return s.graph.GetLink(ctx, uid, viewerID(ctx))
}

func (s *linkService) Update(ctx context.Context, uid, title string) (*types.Link, error) {
	const op = "links.update"
	userID, err := authUser(ctx, op)
	if err != nil {
		return nil, err
	}
	title, err = normalizeTitle(op, title)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	rows, err := s.links.UpdateOwned(dbc, uid, userID, map[string]any{
		"title":      title,
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	if rows == 0 {
		return nil, domainagg.NotFound(op, "link not found")
	}
	updated, err := s.links.GetByUID(dbc, uid)
	if err != nil {
		return nil, storeErr(op, err, "")
	}
	if updated == nil {
		return nil, domainagg.NotFound(op, "link not found")
	}
	return updated, nil
}

func (s *linkService) Delete(ctx context.Context, uid string) error {
	const op = "links.delete"
	userID, err := authUser(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.links.DeleteOwned(dbctx.New(ctx), uid, userID)
	if err != nil {
		return storeErr(op, err, "")
	}
	if rows == 0 {
		return domainagg.NotFound(op, "link not found")
	}
	return nil
}
