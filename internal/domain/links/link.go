package links

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
	"github.com/yungbote/inspect-backend/internal/domain/feedback"
	"github.com/yungbote/inspect-backend/internal/domain/user"
)

// Link is a saved external URL (a "summary" on the wire and in storage).
type Link struct {
	ID       uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UID      string     `gorm:"column:uid;size:64;not null;uniqueIndex" json:"uid"`
	Title    string     `gorm:"column:title;type:text" json:"title"`
	URL      string     `gorm:"column:url;type:text;not null" json:"url"`
	UserID   uint64     `gorm:"column:user_id;not null;index" json:"user_id"`
	User     *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SourceID *uint64    `gorm:"column:source_id;index" json:"source_id,omitempty"`
	Source   *Source    `gorm:"foreignKey:SourceID;constraint:OnDelete:SET NULL" json:"source,omitempty"`

	Comments  []*feedback.Comment  `gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE" json:"comments,omitzero"`
	Reactions []*feedback.Reaction `gorm:"foreignKey:SummaryID;constraint:OnDelete:CASCADE" json:"reactions,omitzero"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;index" json:"updated_at"`
}

func (Link) TableName() string { return "summaries" }

func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(l.UID) == "" {
		l.UID = uuid.NewString()
	}
	return nil
}

func (l *Link) FactID() uint64 { return l.ID }
func (l *Link) FactKind() facts.Kind { return facts.KindSummary }
func (l *Link) FactTitle() string { return l.Title }

func (l *Link) ReactionList() *[]*feedback.Reaction { return &l.Reactions }
func (l *Link) CommentList() *[]*feedback.Comment { return &l.Comments }

var _ facts.Titled = (*Link)(nil)
