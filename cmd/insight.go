package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var insightCmd = &cobra.Command{
	Use:   "insight",
	Short: "Work with AI observations",
}

var insightRefreshCmd = &cobra.Command{
	Use:   "refresh [id]",
	Short: "Regenerate the observation for a student and wait for it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.insights == nil {
			return errors.New("no LLM provider configured; set LUMINA_LLM_PROVIDER or a vendor API key")
		}

		st, err := rt.lookupStudent(args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		merged := rt.students.EnsureInsight(ctx, st, true)
		rt.settle()
		if !merged {
			return errors.New("insight generation failed; see the log for details")
		}

		updated, ok := rt.students.Student(st.ID)
		if !ok {
			return fmt.Errorf("student %s was removed during refresh", st.ID)
		}
		printInsight(os.Stdout, updated.Insight)
		return nil
	},
}

func init() {
	insightCmd.AddCommand(insightRefreshCmd)
}
