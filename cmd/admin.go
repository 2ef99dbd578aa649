package cmd

import (
	"fmt"

	"playful_math_backend/internal/app"
	"playful_math_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Manage the practice problem bank",
}

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Archive the current bank and replace it with freshly generated problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		perCategory, _ := cmd.Flags().GetInt("per-category")

		application, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer logger.Log.Sync()

		result, err := application.RegenerateProblems(cmd.Context(), perCategory)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %d problems (%d per category)\n", result.Generated, result.PerCategory)
		if result.Snapshot != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Previous bank archived as %s\n", result.Snapshot)
		}
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant the admin role to a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer logger.Log.Sync()

		user, err := application.PromoteUser(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %s (id %d) is now %s\n", user.Username, user.ID, user.Role)
		return nil
	},
}

func init() {
	regenerateCmd.Flags().Int("per-category", 5, "Problems per grade and problem type (max 50)")

	problemsCmd.AddCommand(regenerateCmd)
	userCmd.AddCommand(promoteCmd)
}

func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg.ForceMigrate = true
	return app.NewApp(cfg)
}
