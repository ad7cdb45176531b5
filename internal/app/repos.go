package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/inspect-backend/internal/data/repos"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	Insight     repos.InsightRepo
	InsightLink repos.InsightLinkRepo
	Evidence    repos.EvidenceRepo
	Hierarchy   repos.HierarchyRepo
	Link        repos.LinkRepo
	Source      repos.SourceRepo
	Comment     repos.CommentRepo
	Reaction    repos.ReactionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Insight:     repos.NewInsightRepo(db, log),
		InsightLink: repos.NewInsightLinkRepo(db, log),
		Evidence:    repos.NewEvidenceRepo(db, log),
		Hierarchy:   repos.NewHierarchyRepo(db, log),
		Link:        repos.NewLinkRepo(db, log),
		Source:      repos.NewSourceRepo(db, log),
		Comment:     repos.NewCommentRepo(db, log),
		Reaction:    repos.NewReactionRepo(db, log),
	}
}
