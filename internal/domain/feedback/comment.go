package feedback

import (
	"time"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
	"github.com/yungbote/inspect-backend/internal/domain/user"
)

// Comment is free-form feedback attached to exactly one insight or summary.
type Comment struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	User      *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Comment   string     `gorm:"column:comment;type:text;not null" json:"comment"`
	InsightID *uint64    `gorm:"column:insight_id;index" json:"insight_id,omitempty"`
	SummaryID *uint64    `gorm:"column:summary_id;index" json:"summary_id,omitempty"`

	// Username is projected from users on read; never written.
	Username string `gorm:"column:username;->;-:migration" json:"username,omitempty"`

	Reactions []*Reaction `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"reactions,omitzero"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) FactID() uint64 { return c.ID }
func (c *Comment) FactKind() facts.Kind { return facts.KindComment }

// ReactionList exposes the reactions slice for in-place reconciliation.
func (c *Comment) ReactionList() *[]*Reaction { return &c.Reactions }

var _ facts.Fact = (*Comment)(nil)
