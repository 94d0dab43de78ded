package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lumina-learn/lumina/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "Student engagement and risk dashboard",
	Long:  "Lumina: terminal dashboard and API that tracks student engagement rhythm, flags academic risk and adds AI observations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LUMINA_DB env var)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file read before the environment")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(insightCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LUMINA_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
