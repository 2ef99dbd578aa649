package cmd

import (
	"log"

	"playful_math_backend/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "playfulmath",
	Short: "Playful Math backend",
	Long:  "Playful Math: REST backend for grade 3-5 math practice, daily puzzles and achievements.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env 不存在时只使用真实环境变量
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded: %v", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(userCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	return config.LoadConfig(dir)
}
