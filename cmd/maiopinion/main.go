package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/maiopinion/internal/app"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "maiopinion",
		Short:         "MaiOpinion multi-agent diagnostic assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a dotenv file with configuration")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(dbCmd())
	rootCmd.AddCommand(remindersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp builds the application for a subcommand. Non-server commands log
// warnings only unless LOG_MODE is set.
func loadApp(cmd *cobra.Command, quiet bool) (*app.App, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := app.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}
	if quiet && strings.TrimSpace(os.Getenv("LOG_MODE")) == "" {
		cfg.LogMode = "quiet"
	}
	return app.New(cfg, nil)
}
