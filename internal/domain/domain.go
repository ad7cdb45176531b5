package domain

import (
	"github.com/yungbote/inspect-backend/internal/domain/facts"
	"github.com/yungbote/inspect-backend/internal/domain/feedback"
	"github.com/yungbote/inspect-backend/internal/domain/insights"
	"github.com/yungbote/inspect-backend/internal/domain/links"
	"github.com/yungbote/inspect-backend/internal/domain/user"
)

type (
	User = user.User

	Insight     = insights.Insight
	InsightLink = insights.InsightLink
	Evidence    = insights.Evidence

	Link   = links.Link
	Source = links.Source

	Comment  = feedback.Comment
	Reaction = feedback.Reaction

	Fact     = facts.Fact
	FactKind = facts.Kind
)

const (
	FactInsight     = facts.KindInsight
	FactSummary     = facts.KindSummary
	FactEvidence    = facts.KindEvidence
	FactInsightLink = facts.KindInsightLink
	FactComment     = facts.KindComment
)

// Reactable facts carry an in-place reactions list.
type Reactable interface {
	Fact
	ReactionList() *[]*Reaction
}

// Commentable facts carry an in-place comments list.
type Commentable interface {
	Fact
	CommentList() *[]*Comment
}

var (
	_ Reactable   = (*Insight)(nil)
	_ Reactable   = (*Link)(nil)
	_ Reactable   = (*Comment)(nil)
	_ Commentable = (*Insight)(nil)
	_ Commentable = (*Link)(nil)
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&User{},
		&Source{},
		&Link{},
		&Insight{},
		&InsightLink{},
		&Evidence{},
		&Comment{},
		&Reaction{},
	}
}
