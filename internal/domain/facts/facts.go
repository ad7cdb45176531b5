// Package facts holds the tagged-variant vocabulary shared by every entity a
// user can react to, comment on or cite.
package facts

// Kind discriminates which concrete entity a fact row is.
type Kind string

const (
	KindInsight     Kind = "insight"
	KindSummary     Kind = "summary"
	KindEvidence    Kind = "evidence"
	KindInsightLink Kind = "insight_link"
	KindComment     Kind = "comment"
)

// Fact is implemented explicitly by every entity in the fact graph.
type Fact interface {
	FactID() uint64
	FactKind() Kind
}

// Titled facts have a display title.
type Titled interface {
	Fact
	FactTitle() string
}

func (k Kind) Valid() bool {
	switch k {
	case KindInsight, KindSummary, KindEvidence, KindInsightLink, KindComment:
		return true
	default:
		return false
	}
}
