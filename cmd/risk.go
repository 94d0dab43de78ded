package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var riskCmd = &cobra.Command{
	Use:   "risk [id]",
	Short: "Print the risk prediction for a student (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.lookupStudent(args)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st.Risk())
		}

		fmt.Printf("%s (%s)\n\n", st.Name, st.ID)
		printMetrics(os.Stdout, st.AcademicMetrics)
		fmt.Println()
		printPrediction(os.Stdout, st)
		return nil
	},
}

func init() {
	riskCmd.Flags().Bool("json", false, "Print the prediction as JSON")
}
