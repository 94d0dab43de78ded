package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumina-learn/lumina/internal/views"
)

var roleCmd = &cobra.Command{
	Use:       "role [student|teacher|parent]",
	Short:     "Show or set the viewer role",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(views.RoleStudent), string(views.RoleTeacher), string(views.RoleParent)},
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if len(args) == 0 {
			role, err := views.LoadRole(ctx, rt.persist)
			if err != nil {
				return fmt.Errorf("load role: %w", err)
			}
			fmt.Println(role)
			for _, v := range views.Visible(role) {
				fmt.Printf("  %s %s\n", v.Icon, v.Title)
			}
			return nil
		}

		role, ok := views.ParseRole(strings.ToLower(args[0]))
		if !ok {
			return fmt.Errorf("unknown role %q (want student, teacher or parent)", args[0])
		}
		if err := views.SaveRole(ctx, rt.persist, role); err != nil {
			return fmt.Errorf("save role: %w", err)
		}
		fmt.Printf("Role set to %s\n", role)
		return nil
	},
}
