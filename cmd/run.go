package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/app"
	"github.com/lumina-learn/lumina/internal/views"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the runtime and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := openRuntime(cmd, runtimeOpts{logToFile: true, enrichOnLoad: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	role, err := views.LoadRole(cmd.Context(), rt.persist)
	if err != nil {
		rt.logger.Warn("load role", zap.Error(err))
	}

	return app.Run(app.Options{
		Store:           rt.students,
		Persist:         rt.persist,
		Logger:          rt.logger,
		Role:            role,
		InsightsEnabled: rt.insights != nil,
	})
}
