package client

import (
	"context"
	"errors"
	"sync"

	types "github.com/yungbote/inspect-backend/internal/domain"
	"github.com/yungbote/inspect-backend/internal/reconcile"
)

var ErrNoInsight = errors.New("no insight loaded")

// Session holds one loaded insight graph and applies each mutation result
// to it. Mutations run one at a time in call order. A failed request
// leaves the graph and the selection untouched.
type Session struct {
	client *Client

	mu        sync.Mutex
	insight   *types.Insight
	selection reconcile.Selection
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

func (s *Session) Load(ctx context.Context, uid string, p GetInsightParams) error {
	in, err := s.client.GetInsight(ctx, uid, p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.insight = in
	s.selection.Clear()
	s.mu.Unlock()
	return nil
}

// Insight returns the held graph. Callers must not mutate it.
func (s *Session) Insight() *types.Insight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insight
}

// Select runs fn against the pending selection.
func (s *Session) Select(fn func(sel *reconcile.Selection)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.selection)
}

func (s *Session) Selection() reconcile.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *Session) LiveSnippets() []reconcile.LiveSnippet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil
	}
	return reconcile.LiveSnippetData(s.insight.Evidence)
}

func (s *Session) React(ctx context.Context, in ReactionInput) (*types.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil, ErrNoInsight
	}
	r, err := s.client.UpsertReaction(ctx, in)
	if err != nil {
		return nil, err
	}
	reconcile.ApplyReaction(s.insight, r)
	return r, nil
}

func (s *Session) Unreact(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return ErrNoInsight
	}
	if err := s.client.DeleteReaction(ctx, id); err != nil {
		return err
	}
	reconcile.DropReaction(s.insight, id)
	return nil
}

func (s *Session) Comment(ctx context.Context, in CommentInput) (*types.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil, ErrNoInsight
	}
	c, err := s.client.CreateComment(ctx, in)
	if err != nil {
		return nil, err
	}
	reconcile.ApplyComment(s.insight, c)
	return c, nil
}

func (s *Session) DeleteComment(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return ErrNoInsight
	}
	if err := s.client.DeleteComment(ctx, id); err != nil {
		return err
	}
	reconcile.DropComment(s.insight, id)
	return nil
}

// AddSelectedEvidence cites every selected summary on the held insight.
func (s *Session) AddSelectedEvidence(ctx context.Context) ([]*types.Evidence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil, ErrNoInsight
	}
	picked := s.selection.SelectedEvidence
	if len(picked) == 0 {
		return nil, nil
	}
	rows := make([]EvidenceInput, 0, len(picked))
	byID := make(map[uint64]*types.Link, len(picked))
	for _, l := range picked {
		rows = append(rows, EvidenceInput{SummaryID: l.ID, InsightID: s.insight.ID})
		byID[l.ID] = l
	}
	created, err := s.client.CreateEvidence(ctx, rows)
	if err != nil {
		return nil, err
	}
	for _, e := range created {
		if e != nil && e.Summary == nil {
			e.Summary = byID[e.SummaryID]
		}
	}
	s.insight.Evidence = reconcile.AddEvidence(s.insight.Evidence, created)
	s.selection.Clear()
	return created, nil
}

func (s *Session) RemoveEvidence(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return ErrNoInsight
	}
	if err := s.client.DeleteEvidence(ctx, id); err != nil {
		return err
	}
	s.insight.Evidence = reconcile.RemoveEvidence(s.insight.Evidence, []uint64{id})
	s.selection.Clear()
	return nil
}

// AddSelectedChildren links every selected child insight under the held
// insight.
func (s *Session) AddSelectedChildren(ctx context.Context) ([]*types.InsightLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil, ErrNoInsight
	}
	picked := s.selection.SelectedChildInsights
	if len(picked) == 0 {
		return nil, nil
	}
	rows := make([]ChildInput, 0, len(picked))
	byID := make(map[uint64]*types.Insight, len(picked))
	for _, in := range picked {
		rows = append(rows, ChildInput{ParentID: s.insight.ID, ChildID: in.ID})
		byID[in.ID] = in
	}
	created, err := s.client.CreateChildren(ctx, rows)
	if err != nil {
		return nil, err
	}
	for _, l := range created {
		if l != nil && l.ChildInsight == nil {
			l.ChildInsight = byID[l.ChildID]
		}
	}
	s.insight.Children = reconcile.AddChildren(s.insight.Children, created)
	s.selection.Clear()
	return created, nil
}

// AddSelectedParents links the held insight under every selected parent.
func (s *Session) AddSelectedParents(ctx context.Context) ([]*types.InsightLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return nil, ErrNoInsight
	}
	picked := s.selection.SelectedParentInsights
	if len(picked) == 0 {
		return nil, nil
	}
	rows := make([]ChildInput, 0, len(picked))
	byID := make(map[uint64]*types.Insight, len(picked))
	for _, in := range picked {
		rows = append(rows, ChildInput{ParentID: in.ID, ChildID: s.insight.ID})
		byID[in.ID] = in
	}
	created, err := s.client.CreateChildren(ctx, rows)
	if err != nil {
		return nil, err
	}
	for _, l := range created {
		if l != nil && l.ParentInsight == nil {
			l.ParentInsight = byID[l.ParentID]
		}
	}
	s.insight.Parents = reconcile.AddParents(s.insight.Parents, created)
	s.selection.Clear()
	return created, nil
}

func (s *Session) RemoveChild(ctx context.Context, linkID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return ErrNoInsight
	}
	if err := s.client.DeleteChild(ctx, linkID); err != nil {
		return err
	}
	s.insight.Children = reconcile.RemoveChildren(s.insight.Children, []uint64{linkID})
	s.selection.Clear()
	return nil
}

func (s *Session) RemoveParent(ctx context.Context, linkID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insight == nil {
		return ErrNoInsight
	}
	if err := s.client.DeleteChild(ctx, linkID); err != nil {
		return err
	}
	s.insight.Parents = reconcile.RemoveParents(s.insight.Parents, []uint64{linkID})
	s.selection.Clear()
	return nil
}
