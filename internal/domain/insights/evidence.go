package insights

import (
	"time"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
	"github.com/yungbote/inspect-backend/internal/domain/links"
)

// Evidence cites a summary in support of an insight.
type Evidence struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	InsightID uint64      `gorm:"column:insight_id;not null;uniqueIndex:idx_evidence_insight_summary,priority:1" json:"insight_id"`
	SummaryID uint64      `gorm:"column:summary_id;not null;uniqueIndex:idx_evidence_insight_summary,priority:2;index" json:"summary_id"`
	Summary   *links.Link `gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE" json:"summary,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Evidence) TableName() string { return "evidence" }

func (e *Evidence) FactID() uint64 { return e.ID }
func (e *Evidence) FactKind() facts.Kind { return facts.KindEvidence }

func (e *Evidence) FactTitle() string {
	if e.Summary == nil {
		return ""
	}
	return e.Summary.Title
}

var _ facts.Titled = (*Evidence)(nil)
