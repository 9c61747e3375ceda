package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/fittrack/internal/app"
)

func UserCmd() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	user.AddCommand(&cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				u, err := a.UserService.PromoteByEmail(args[0])
				if err != nil {
					return fmt.Errorf("promote %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", u.Email)
				return nil
			})
		},
	})

	return user
}
