package commands

import (
	"github.com/spf13/cobra"
)

func newUsersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	var username, email string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.Services.User.Create(cmd.Context(), username, email)
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), opts.output, u, []string{"ID", "USERNAME", "EMAIL"}, func() [][]string {
				return [][]string{{uitoa(u.ID), u.Username, u.Email}}
			})
		},
	}
	create.Flags().StringVar(&username, "username", "", "unique username")
	create.Flags().StringVar(&email, "email", "", "unique email")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(create)
	return cmd
}
