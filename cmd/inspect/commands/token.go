package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var userID uint64
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user",
		Long: `Mint a signed access token for an existing user, for local
development and scripting. The token lives for ACCESS_TOKEN_TTL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == 0 {
				return errors.New("--user-id is required")
			}
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Services.User.GetByID(cmd.Context(), userID); err != nil {
				return err
			}
			token, err := a.Services.Auth.IssueToken(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&userID, "user-id", 0, "user id to mint the token for")
	return cmd
}
