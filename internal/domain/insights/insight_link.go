package insights

import (
	"time"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
)

// InsightLink is a directed parent->child edge. Each direction of the graph
// embeds only the far endpoint (ChildInsight on Children, ParentInsight on
// Parents) so a serialized tree never loops.
type InsightLink struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID uint64 `gorm:"column:parent_id;not null;uniqueIndex:idx_insight_link_edge,priority:1" json:"parent_id"`
	ChildID  uint64 `gorm:"column:child_id;not null;uniqueIndex:idx_insight_link_edge,priority:2;index" json:"child_id"`

	ParentInsight *Insight `gorm:"-" json:"parent_insight,omitempty"`
	ChildInsight  *Insight `gorm:"-" json:"child_insight,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (InsightLink) TableName() string { return "insight_links" }

func (l *InsightLink) FactID() uint64 { return l.ID }
func (l *InsightLink) FactKind() facts.Kind { return facts.KindInsightLink }

var _ facts.Fact = (*InsightLink)(nil)
