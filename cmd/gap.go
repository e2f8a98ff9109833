package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/gap"
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Show skill gaps against job roles, most ready first",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		roleIDs, _ := cmd.Flags().GetStringSlice("role")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		reports, err := d.Gaps.Readiness(cmd.Context(), user, roleIDs...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(reports) == 0 && len(roleIDs) > 0 {
			fmt.Fprintln(out, "No matching job roles.")
			return nil
		}
		if len(reports) == 0 {
			fmt.Fprintln(out, "No job roles. Run `skillpath seed` first.")
			return nil
		}
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printReport(out, r)
		}
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show the weighted match score for one role",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		roleID, _ := cmd.Flags().GetString("role")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		score, report, err := d.Gaps.Match(cmd.Context(), user, roleID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Match score: %d%%\n\n", score)
		printReport(out, report)
		return nil
	},
}

func printReport(out io.Writer, r *gap.Report) {
	fmt.Fprintf(out, "%s  readiness %d%%  (met %d, partial %d, missing %d)\n",
		r.RoleTitle, r.Readiness, r.Met, r.Partial, r.Missing)
	for _, e := range r.Entries {
		note := ""
		if e.UnknownUserLevel {
			note = "  (recorded level not recognised)"
		}
		fmt.Fprintf(out, "    %-24s  %-9s  %-7s  have %d / need %d%s\n",
			e.SkillName, e.Importance, e.Status, e.UserLevel, e.RequiredLevel, note)
	}
}

func init() {
	gapCmd.Flags().StringSlice("role", nil, "Role IDs to compare against (default: all roles)")
	matchCmd.Flags().String("role", "", "Role ID")
	_ = matchCmd.MarkFlagRequired("role")
}
