package cmd

import (
	"playful_math_backend/internal/app"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrate, _ := cmd.Flags().GetBool("migrate")
		return runServe(cmd, migrate)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Run database migrations on start even in release mode")
}

func runServe(cmd *cobra.Command, migrate bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.ForceMigrate = migrate

	application, err := app.NewApp(cfg)
	if err != nil {
		return err
	}
	return application.Run()
}
