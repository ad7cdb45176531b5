package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos/feedback"
	"github.com/yungbote/inspect-backend/internal/data/repos/insights"
	"github.com/yungbote/inspect-backend/internal/data/repos/links"
	"github.com/yungbote/inspect-backend/internal/data/repos/user"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type InsightRepo = insights.InsightRepo
type InsightLinkRepo = insights.InsightLinkRepo
type EvidenceRepo = insights.EvidenceRepo
type HierarchyRepo = insights.HierarchyRepo

type LinkRepo = links.LinkRepo
type SourceRepo = links.SourceRepo

type CommentRepo = feedback.CommentRepo
type ReactionRepo = feedback.ReactionRepo

const MaxHierarchyDepth = insights.MaxHierarchyDepth

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewInsightRepo(db *gorm.DB, baseLog *logger.Logger) InsightRepo {
	return insights.NewInsightRepo(db, baseLog)
}
func NewInsightLinkRepo(db *gorm.DB, baseLog *logger.Logger) InsightLinkRepo {
	return insights.NewInsightLinkRepo(db, baseLog)
}
func NewEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceRepo {
	return insights.NewEvidenceRepo(db, baseLog)
}
func NewHierarchyRepo(db *gorm.DB, baseLog *logger.Logger) HierarchyRepo {
	return insights.NewHierarchyRepo(db, baseLog)
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return links.NewLinkRepo(db, baseLog)
}
func NewSourceRepo(db *gorm.DB, baseLog *logger.Logger) SourceRepo {
	return links.NewSourceRepo(db, baseLog)
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return feedback.NewCommentRepo(db, baseLog)
}
func NewReactionRepo(db *gorm.DB, baseLog *logger.Logger) ReactionRepo {
	return feedback.NewReactionRepo(db, baseLog)
}
