package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return ensureIndexes(db)
}

// ensureIndexes adds the indexes the struct tags cannot express.
func ensureIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_insights_user_updated ON insights (user_id, updated_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_user_updated ON summaries (user_id, updated_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_insight_created ON comments (insight_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_summary_created ON comments (summary_id, created_at)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
