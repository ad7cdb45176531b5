package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/inspect-backend/internal/data/db"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync()

			svc, err := db.NewService(cfg.DB, log)
			if err != nil {
				return err
			}
			defer svc.Close()
			if err := db.AutoMigrateAll(svc.DB()); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", svc.Driver())
			return nil
		},
	}
}
