package aggregates

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	types "github.com/yungbote/inspect-backend/internal/domain"
	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/platform/dbctx"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ListInsightsParams selects one page of a user's insights. Relations are
// attached only when requested; requested relations are never nil.
type ListInsightsParams struct {
	UserID   uint64
	Query    string
	Offset   int
	Limit    int
	Parents  bool
	Children bool
	Evidence bool
}

// GetInsightOptions controls the single-insight graph. Offset/Limit page the
// evidence relation; Limit <= 0 returns all evidence.
type GetInsightOptions struct {
	Offset                      int
	Limit                       int
	IncludeNestedEvidenceTotals bool
}

type InsightGraph interface {
	domainagg.Aggregate
	ListInsights(ctx context.Context, p ListInsightsParams) ([]*types.Insight, error)
	GetInsight(ctx context.Context, uid string, viewerID uint64, opts GetInsightOptions) (*types.Insight, error)
	ListLinks(ctx context.Context, userID uint64, query string, offset, limit int) ([]*types.Link, error)
	GetLink(ctx context.Context, uid string, viewerID uint64) (*types.Link, error)
}

type InsightGraphDeps struct {
	BaseDeps
	Insights     repos.InsightRepo
	InsightLinks repos.InsightLinkRepo
	Evidence     repos.EvidenceRepo
	Hierarchy    repos.HierarchyRepo
	Links        repos.LinkRepo
	Sources      repos.SourceRepo
	Comments     repos.CommentRepo
	Reactions    repos.ReactionRepo
}

type insightGraph struct {
	deps InsightGraphDeps
}

func NewInsightGraph(deps InsightGraphDeps) InsightGraph {
	return &insightGraph{deps: deps}
}

func (g *insightGraph) Contract() domainagg.Contract { return domainagg.InsightGraphContract }

// NormalizePage clamps paging input to the public defaults.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return offset, limit
}

// ListInsights pages the id set first and only then loads rows and relations
// for exactly those ids, so one-to-many joins cannot move page boundaries.
func (g *insightGraph) ListInsights(ctx context.Context, p ListInsightsParams) ([]*types.Insight, error) {
	var out []*types.Insight
	err := executeRead(ctx, g.deps.BaseDeps, "insight_graph.list_insights", func(dbc dbctx.Context) error {
		offset, limit := NormalizePage(p.Offset, p.Limit)
		ids, err := g.deps.Insights.PageIDsForUser(dbc, p.UserID, p.Query, offset, limit)
		if err != nil {
			return err
		}
		rows, err := g.deps.Insights.GetByIDs(dbc, ids)
		if err != nil {
			return err
		}
		out = orderByIDs(ids, rows, func(in *types.Insight) uint64 { return in.ID })
		if len(out) == 0 {
			out = []*types.Insight{}
			return nil
		}
		for _, in := range out {
			if p.Parents {
				in.Parents = []*types.InsightLink{}
			}
			if p.Children {
				in.Children = []*types.InsightLink{}
			}
			if p.Evidence {
				in.Evidence = []*types.Evidence{}
			}
		}
		byID := indexByID(out, func(in *types.Insight) uint64 { return in.ID })

		var (
			parentLinks []*types.InsightLink
			childLinks  []*types.InsightLink
			evidence    []*types.Evidence
		)
		eg := newGroup(dbc)
		if p.Parents {
			eg.Go(func() error {
				var err error
				parentLinks, err = g.parentLinks(dbc, ids, false)
				return err
			})
		}
		if p.Children {
			eg.Go(func() error {
				var err error
				childLinks, err = g.childLinks(dbc, ids, false)
				return err
			})
		}
		if p.Evidence {
			eg.Go(func() error {
				var err error
				evidence, err = g.deps.Evidence.GetByInsightIDs(dbc, ids)
				if err != nil {
					return err
				}
				return g.attachSummaries(dbc, evidence, false)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}

		for _, l := range parentLinks {
			if in := byID[l.ChildID]; in != nil {
				in.Parents = append(in.Parents, l)
			}
		}
		for _, l := range childLinks {
			if in := byID[l.ParentID]; in != nil {
				in.Children = append(in.Children, l)
			}
		}
		for _, e := range evidence {
			if in := byID[e.InsightID]; in != nil {
				in.Evidence = append(in.Evidence, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetInsight loads the full graph of one insight. Insights that are neither
// public nor owned by viewerID are reported exactly like missing ones.
func (g *insightGraph) GetInsight(ctx context.Context, uid string, viewerID uint64, opts GetInsightOptions) (*types.Insight, error) {
	const op = "insight_graph.get_insight"
	var out *types.Insight
	err := executeRead(ctx, g.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		in, err := g.deps.Insights.GetByUID(dbc, uid)
		if err != nil {
			return err
		}
		if in == nil || !(in.IsPublic || (viewerID != 0 && in.UserID == viewerID)) {
			return domainagg.NotFound(op, "insight not found")
		}
		ids := []uint64{in.ID}

		var (
			reactions []*types.Reaction
			parents   []*types.InsightLink
			children  []*types.InsightLink
			comments  []*types.Comment
			evidence  []*types.Evidence
		)
		eg := newGroup(dbc)
		eg.Go(func() error {
			var err error
			reactions, err = g.deps.Reactions.GetByInsightIDs(dbc, ids)
			return err
		})
		eg.Go(func() error {
			var err error
			parents, err = g.parentLinks(dbc, ids, true)
			return err
		})
		eg.Go(func() error {
			var err error
			children, err = g.childLinks(dbc, ids, true)
			return err
		})
		eg.Go(func() error {
			var err error
			comments, err = g.commentsWithReactions(dbc, func(dbc dbctx.Context) ([]*types.Comment, error) {
				return g.deps.Comments.GetByInsightIDs(dbc, ids)
			})
			return err
		})
		eg.Go(func() error {
			var err error
			evidence, err = g.deps.Evidence.PageByInsightID(dbc, in.ID, opts.Offset, opts.Limit)
			if err != nil {
				return err
			}
			return g.attachSummaries(dbc, evidence, true)
		})
		if err := eg.Wait(); err != nil {
			return err
		}

		in.Reactions = nonNil(reactions)
		in.Parents = nonNil(parents)
		in.Children = nonNil(children)
		in.Comments = nonNil(comments)
		in.Evidence = nonNil(evidence)

		if err := g.deps.Hierarchy.EvidenceCounts(dbc, in, opts.IncludeNestedEvidenceTotals); err != nil {
			return err
		}
		out = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *insightGraph) ListLinks(ctx context.Context, userID uint64, query string, offset, limit int) ([]*types.Link, error) {
	var out []*types.Link
	err := executeRead(ctx, g.deps.BaseDeps, "insight_graph.list_links", func(dbc dbctx.Context) error {
		offset, limit := NormalizePage(offset, limit)
		ids, err := g.deps.Links.PageIDsForUser(dbc, userID, query, offset, limit)
		if err != nil {
			return err
		}
		rows, err := g.deps.Links.GetByIDs(dbc, ids)
		if err != nil {
			return err
		}
		out = orderByIDs(ids, rows, func(l *types.Link) uint64 { return l.ID })
		if len(out) == 0 {
			out = []*types.Link{}
			return nil
		}
		return g.attachSources(dbc, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetLink returns a link to its owner, or to anyone when a public insight
// cites it.
func (g *insightGraph) GetLink(ctx context.Context, uid string, viewerID uint64) (*types.Link, error) {
	const op = "insight_graph.get_link"
	var out *types.Link
	err := executeRead(ctx, g.deps.BaseDeps, op, func(dbc dbctx.Context) error {
		l, err := g.deps.Links.GetByUID(dbc, uid)
		if err != nil {
			return err
		}
		if l == nil {
			return domainagg.NotFound(op, "link not found")
		}
		if viewerID == 0 || l.UserID != viewerID {
			cited, err := g.deps.Links.CitedByPublicInsight(dbc, l.ID)
			if err != nil {
				return err
			}
			if !cited {
				return domainagg.NotFound(op, "link not found")
			}
		}
		if err := g.attachSummaryRelations(dbc, []*types.Link{l}); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parentLinks loads the edges pointing at ids and embeds each parent insight.
func (g *insightGraph) parentLinks(dbc dbctx.Context, ids []uint64, withReactions bool) ([]*types.InsightLink, error) {
	links, err := g.deps.InsightLinks.GetByChildIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	parentIDs := make([]uint64, 0, len(links))
	for _, l := range links {
		parentIDs = append(parentIDs, l.ParentID)
	}
	parents, err := g.endpoints(dbc, parentIDs, withReactions)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		l.ParentInsight = parents[l.ParentID]
	}
	return links, nil
}

// childLinks loads the edges leaving ids and embeds each child insight.
func (g *insightGraph) childLinks(dbc dbctx.Context, ids []uint64, withReactions bool) ([]*types.InsightLink, error) {
	links, err := g.deps.InsightLinks.GetByParentIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	childIDs := make([]uint64, 0, len(links))
	for _, l := range links {
		childIDs = append(childIDs, l.ChildID)
	}
	children, err := g.endpoints(dbc, childIDs, withReactions)
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		l.ChildInsight = children[l.ChildID]
	}
	return links, nil
}

func (g *insightGraph) endpoints(dbc dbctx.Context, ids []uint64, withReactions bool) (map[uint64]*types.Insight, error) {
	ids = uniqueIDs(ids)
	rows, err := g.deps.Insights.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	byID := indexByID(rows, func(in *types.Insight) uint64 { return in.ID })
	if !withReactions || len(rows) == 0 {
		return byID, nil
	}
	reactions, err := g.deps.Reactions.GetByInsightIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	for _, in := range rows {
		in.Reactions = []*types.Reaction{}
	}
	for _, r := range reactions {
		if r.InsightID == nil {
			continue
		}
		if in := byID[*r.InsightID]; in != nil {
			in.Reactions = append(in.Reactions, r)
		}
	}
	return byID, nil
}

// attachSummaries embeds each evidence row's summary with its source; with
// full set the summary's comments and reactions are embedded too.
func (g *insightGraph) attachSummaries(dbc dbctx.Context, evidence []*types.Evidence, full bool) error {
	if len(evidence) == 0 {
		return nil
	}
	summaryIDs := make([]uint64, 0, len(evidence))
	for _, e := range evidence {
		summaryIDs = append(summaryIDs, e.SummaryID)
	}
	summaries, err := g.deps.Links.GetByIDs(dbc, uniqueIDs(summaryIDs))
	if err != nil {
		return err
	}
	if full {
		err = g.attachSummaryRelations(dbc, summaries)
	} else {
		err = g.attachSources(dbc, summaries)
	}
	if err != nil {
		return err
	}
	byID := indexByID(summaries, func(l *types.Link) uint64 { return l.ID })
	for _, e := range evidence {
		e.Summary = byID[e.SummaryID]
	}
	return nil
}

func (g *insightGraph) attachSummaryRelations(dbc dbctx.Context, summaries []*types.Link) error {
	if len(summaries) == 0 {
		return nil
	}
	if err := g.attachSources(dbc, summaries); err != nil {
		return err
	}
	ids := make([]uint64, 0, len(summaries))
	for _, l := range summaries {
		ids = append(ids, l.ID)
		l.Comments = []*types.Comment{}
		l.Reactions = []*types.Reaction{}
	}
	byID := indexByID(summaries, func(l *types.Link) uint64 { return l.ID })

	comments, err := g.commentsWithReactions(dbc, func(dbc dbctx.Context) ([]*types.Comment, error) {
		return g.deps.Comments.GetBySummaryIDs(dbc, ids)
	})
	if err != nil {
		return err
	}
	for _, c := range comments {
		if c.SummaryID == nil {
			continue
		}
		if l := byID[*c.SummaryID]; l != nil {
			l.Comments = append(l.Comments, c)
		}
	}

	reactions, err := g.deps.Reactions.GetBySummaryIDs(dbc, ids)
	if err != nil {
		return err
	}
	for _, r := range reactions {
		if r.SummaryID == nil {
			continue
		}
		if l := byID[*r.SummaryID]; l != nil {
			l.Reactions = append(l.Reactions, r)
		}
	}
	return nil
}

func (g *insightGraph) attachSources(dbc dbctx.Context, summaries []*types.Link) error {
	sourceIDs := make([]uint64, 0, len(summaries))
	for _, l := range summaries {
		if l.SourceID != nil {
			sourceIDs = append(sourceIDs, *l.SourceID)
		}
	}
	if len(sourceIDs) == 0 {
		return nil
	}
	sources, err := g.deps.Sources.GetByIDs(dbc, uniqueIDs(sourceIDs))
	if err != nil {
		return err
	}
	byID := indexByID(sources, func(s *types.Source) uint64 { return s.ID })
	for _, l := range summaries {
		if l.SourceID != nil {
			l.Source = byID[*l.SourceID]
		}
	}
	return nil
}

func (g *insightGraph) commentsWithReactions(dbc dbctx.Context, load func(dbctx.Context) ([]*types.Comment, error)) ([]*types.Comment, error) {
	comments, err := load(dbc)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return comments, nil
	}
	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		c.Reactions = []*types.Reaction{}
	}
	reactions, err := g.deps.Reactions.GetByCommentIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	byID := indexByID(comments, func(c *types.Comment) uint64 { return c.ID })
	for _, r := range reactions {
		if r.CommentID == nil {
			continue
		}
		if c := byID[*r.CommentID]; c != nil {
			c.Reactions = append(c.Reactions, r)
		}
	}
	return comments, nil
}

// newGroup runs relation loads concurrently on the pool. Inside a caller's
// transaction there is only one connection, so loads run one at a time.
func newGroup(dbc dbctx.Context) *errgroup.Group {
	eg := &errgroup.Group{}
	if dbc.Tx != nil {
		eg.SetLimit(1)
	}
	return eg
}

func orderByIDs[T any](ids []uint64, rows []T, id func(T) uint64) []T {
	byID := indexByID(rows, id)
	out := make([]T, 0, len(ids))
	for _, i := range ids {
		if row, ok := byID[i]; ok {
			out = append(out, row)
		}
	}
	return out
}

func indexByID[T any](rows []T, id func(T) uint64) map[uint64]T {
	out := make(map[uint64]T, len(rows))
	for _, row := range rows {
		out[id(row)] = row
	}
	return out
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
