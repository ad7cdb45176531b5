package insights

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
	"github.com/yungbote/inspect-backend/internal/domain/feedback"
	"github.com/yungbote/inspect-backend/internal/domain/user"
)

// Insight is a titled claim owned by one user. Relation slices are nil when
// not loaded and empty when loaded with no rows; only the latter serializes.
type Insight struct {
	ID       uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UID      string     `gorm:"column:uid;size:64;not null;uniqueIndex" json:"uid"`
	Title    string     `gorm:"column:title;type:text;not null" json:"title"`
	IsPublic bool       `gorm:"column:is_public;not null;default:false" json:"is_public"`
	UserID   uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	User     *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Parents   []*InsightLink       `gorm:"foreignKey:ChildID;constraint:OnDelete:CASCADE" json:"parents,omitzero"`
	Children  []*InsightLink       `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"children,omitzero"`
	Evidence  []*Evidence          `gorm:"foreignKey:InsightID;constraint:OnDelete:CASCADE" json:"evidence,omitzero"`
	Comments  []*feedback.Comment  `gorm:"foreignKey:InsightID;constraint:OnDelete:CASCADE" json:"comments,omitzero"`
	Reactions []*feedback.Reaction `gorm:"foreignKey:InsightID;constraint:OnDelete:CASCADE" json:"reactions,omitzero"`

	// Computed; populated by the hierarchy queries only.
	DirectEvidenceCount *int64 `gorm:"-" json:"directEvidenceCount,omitempty"`
	DirectChildrenCount *int64 `gorm:"-" json:"directChildrenCount,omitempty"`
	TotalEvidenceCount  *int64 `gorm:"-" json:"totalEvidenceCount,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;index" json:"updated_at"`
}

func (Insight) TableName() string { return "insights" }

func (i *Insight) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(i.UID) == "" {
		i.UID = uuid.NewString()
	}
	return nil
}

func (i *Insight) FactID() uint64 { return i.ID }
func (i *Insight) FactKind() facts.Kind { return facts.KindInsight }
func (i *Insight) FactTitle() string { return i.Title }

func (i *Insight) ReactionList() *[]*feedback.Reaction { return &i.Reactions }
func (i *Insight) CommentList() *[]*feedback.Comment { return &i.Comments }

var _ facts.Titled = (*Insight)(nil)
