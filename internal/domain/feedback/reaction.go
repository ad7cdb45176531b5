package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/inspect-backend/internal/domain/facts"
	"github.com/yungbote/inspect-backend/internal/domain/user"
)

var ErrReactionTarget = errors.New("exactly one of insight_id, summary_id or comment_id is required")

// Reaction is unique per (user_id, target_key). TargetKey is derived from
// whichever target column is set and is what the upsert conflicts on.
type Reaction struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64  `gorm:"column:user_id;not null;uniqueIndex:idx_reaction_user_target,priority:1" json:"user_id"`
	Reaction  string  `gorm:"column:reaction;size:64;not null" json:"reaction"`
	InsightID *uint64 `gorm:"column:insight_id;index" json:"insight_id,omitempty"`
	SummaryID *uint64 `gorm:"column:summary_id;index" json:"summary_id,omitempty"`
	CommentID *uint64 `gorm:"column:comment_id;index" json:"comment_id,omitempty"`

	User *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	TargetKind facts.Kind `gorm:"column:target_kind;size:32;not null" json:"target_kind"`
	TargetKey  string     `gorm:"column:target_key;size:64;not null;uniqueIndex:idx_reaction_user_target,priority:2" json:"target_key"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Reaction) TableName() string { return "reactions" }

// ResolveTarget fills TargetKind/TargetKey from the target columns.
func (r *Reaction) ResolveTarget() error {
	kind, key, err := TargetOf(r.InsightID, r.SummaryID, r.CommentID)
	if err != nil {
		return err
	}
	r.TargetKind = kind
	r.TargetKey = key
	return nil
}

// TargetOf returns the discriminant and key for a reaction target.
func TargetOf(insightID, summaryID, commentID *uint64) (facts.Kind, string, error) {
	var (
		kind facts.Kind
		id   uint64
		n    int
	)
	if insightID != nil && *insightID != 0 {
		kind, id = facts.KindInsight, *insightID
		n++
	}
	if summaryID != nil && *summaryID != 0 {
		kind, id = facts.KindSummary, *summaryID
		n++
	}
	if commentID != nil && *commentID != 0 {
		kind, id = facts.KindComment, *commentID
		n++
	}
	if n != 1 {
		return "", "", ErrReactionTarget
	}
	return kind, TargetKey(kind, id), nil
}

func TargetKey(kind facts.Kind, id uint64) string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(string(kind)), id)
}
