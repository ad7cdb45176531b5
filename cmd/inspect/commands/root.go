package commands

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/inspect-backend/internal/app"
	"github.com/yungbote/inspect-backend/internal/client"
)

type rootOptions struct {
	configFile string
	server     string
	token      string
	output     string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect knowledge-curation backend",
		Long: `inspect runs and administers the Inspect API: insights, the links
cited as their evidence, and the comments and reactions on both.

Server commands (serve, migrate, token, users, seed) read configuration
from the environment, .env and an optional --config YAML file. The
insights commands talk to a running server.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file")
	flags.StringVar(&opts.server, "server", envOr("INSPECT_SERVER", "http://localhost:8080"), "API base url")
	flags.StringVar(&opts.token, "token", os.Getenv("INSPECT_TOKEN"), "bearer token for API calls")
	flags.StringVarP(&opts.output, "output", "o", "table", "output format: table or json")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
		newUsersCmd(opts),
		newSeedCmd(opts),
		newInsightsCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (o *rootOptions) loadConfig() (app.Config, error) {
	return app.LoadConfig(o.configFile)
}

// openApp builds the full application against the configured database.
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

func (o *rootOptions) apiClient() *client.Client {
	return client.New(client.Config{BaseURL: o.server, Token: o.token, Timeout: 15 * time.Second})
}
