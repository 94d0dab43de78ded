package cmd

import (
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/lumina-learn/lumina/internal/risk"
	"github.com/lumina-learn/lumina/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage tracked students",
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		students := rt.students.Students()
		if len(students) == 0 {
			fmt.Println("No students yet. Add one with `lumina roster add <name>`.")
			return nil
		}

		activeID := ""
		if st, ok := rt.students.Active(); ok {
			activeID = st.ID
		}

		t := newTable([]string{"", "ID", "Name", "Risk", "Help", "Status", "Insight"}, 3)
		for _, st := range students {
			marker := ""
			if st.ID == activeID {
				marker = "●"
			}
			insight := "pending"
			if st.Insight != nil {
				insight = fmt.Sprintf("%d/100", st.Insight.EngagementScore)
			}
			p := st.Risk()
			t.Row(marker, st.ID, truncate(st.Name, 24), fmt.Sprintf("%.2f", p.RiskScore),
				p.AcademicHelpRequired, st.AcademicMetrics.SystemStatus(), insight)
		}
		lipgloss.Println(t)
		return nil
	},
}

var rosterShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a student (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.lookupStudent(args)
		if err != nil {
			return err
		}
		printStudent(os.Stdout, st, st.ID == rt.students.ActiveID())
		return nil
	},
}

var rosterAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a student with synthetic engagement data and make them active",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.students.Add(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", st.Name, st.ID)
		rt.settle()
		return nil
	},
}

var rosterUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a student's profile, remarks or metrics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		st, err := rt.lookupStudent(args)
		if err != nil {
			return err
		}
		patch, err := patchFromFlags(cmd, st)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update; see `lumina roster update --help`")
		}

		rt.students.Update(cmd.Context(), st.ID, patch)
		fmt.Printf("Updated %s\n", st.ID)
		rt.settle()
		return nil
	},
}

var rosterDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if !rt.students.Delete(cmd.Context(), args[0]) {
			return fmt.Errorf("%s: %w", args[0], roster.ErrNotFound)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var rosterSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Make a student active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, runtimeOpts{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if !rt.students.Select(cmd.Context(), args[0]) {
			return fmt.Errorf("%s: %w", args[0], roster.ErrNotFound)
		}
		fmt.Printf("Active student is now %s\n", args[0])
		rt.settle()
		return nil
	},
}

var rosterResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all students, the selection and the role",
	Long:  "Remove all stored students, the active selection and the viewer role. The next start seeds a fresh roster.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("reset deletes every student; rerun with --yes to confirm")
		}
		rt, err := openRuntime(cmd, runtimeOpts{skipLoad: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := roster.Reset(cmd.Context(), rt.persist); err != nil {
			return fmt.Errorf("reset roster: %w", err)
		}
		fmt.Println("Roster reset")
		return nil
	},
}

// patchFromFlags builds a Patch from the flags the user changed. Metric
// flags are applied on top of the student's current metrics, since the store
// replaces AcademicMetrics as a whole.
func patchFromFlags(cmd *cobra.Command, st roster.Student) (roster.Patch, error) {
	var p roster.Patch
	f := cmd.Flags()

	str := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	p.Name = str("name")
	p.Age = str("age")
	p.Grade = str("grade")
	p.FocusArea = str("focus")
	p.SubjectEmoji = str("emoji")
	p.Remarks = str("remarks")

	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return roster.Patch{}, roster.ErrEmptyName
		}
		p.Name = &trimmed
	}

	m := st.AcademicMetrics
	changed := false
	if f.Changed("submissions") {
		m.AssignmentSubmissionCount, _ = f.GetInt("submissions")
		changed = true
	}
	if f.Changed("attendance-drop") {
		m.AttendanceDropPercentage, _ = f.GetFloat64("attendance-drop")
		changed = true
	}
	if f.Changed("marks-drop") {
		m.MarksDropBetweenTerms, _ = f.GetFloat64("marks-drop")
		changed = true
	}
	if f.Changed("late-ratio") {
		m.LateSubmissionRatio, _ = f.GetFloat64("late-ratio")
		changed = true
	}
	if f.Changed("trend") {
		v, _ := f.GetString("trend")
		t := risk.Trend(v)
		if !t.Valid() {
			return roster.Patch{}, fmt.Errorf("invalid trend %q (want rising, falling or stable)", v)
		}
		m.AttendanceTrend = t
		changed = true
	}
	if f.Changed("grade-variance") {
		m.GradeVariance, _ = f.GetFloat64("grade-variance")
		changed = true
	}
	if f.Changed("missing-streak") {
		m.MissingAssignmentStreak, _ = f.GetInt("missing-streak")
		changed = true
	}
	if changed {
		p.AcademicMetrics = &m
	}
	return p, nil
}

// registerUpdateFlags declares one flag per patchable field on cmd.
func registerUpdateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("name", "", "Display name")
	f.String("age", "", "Age")
	f.String("grade", "", "Grade, e.g. 11th")
	f.String("focus", "", "Focus area")
	f.String("emoji", "", "Subject emoji")
	f.String("remarks", "", "Educator remarks")
	f.Int("submissions", 0, "Assignment submission count")
	f.Float64("attendance-drop", 0, "Attendance drop percentage (0-100)")
	f.Float64("marks-drop", 0, "Marks drop between terms")
	f.Float64("late-ratio", 0, "Late submission ratio (0-1)")
	f.String("trend", "", "Attendance trend: rising, falling or stable")
	f.Float64("grade-variance", 0, "Grade variance")
	f.Int("missing-streak", 0, "Missing assignment streak")
}

func init() {
	registerUpdateFlags(rosterUpdateCmd)
	rosterResetCmd.Flags().Bool("yes", false, "Confirm the reset")

	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterShowCmd)
	rosterCmd.AddCommand(rosterAddCmd)
	rosterCmd.AddCommand(rosterUpdateCmd)
	rosterCmd.AddCommand(rosterDeleteCmd)
	rosterCmd.AddCommand(rosterSelectCmd)
	rosterCmd.AddCommand(rosterResetCmd)
}
