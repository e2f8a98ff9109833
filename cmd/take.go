package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/app"
	"github.com/abhisek/skillpath/internal/assessment"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Take a catalog assessment",
	Long:  "Take a catalog assessment in the terminal. Without --assessment the available assessments are listed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		id, _ := cmd.Flags().GetString("assessment")

		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()

		if id == "" {
			return listAssessments(ctx, d, cmd.OutOrStdout())
		}
		a, err := d.Store.AssessmentRepo().Get(ctx, id)
		if err != nil {
			return err
		}
		return runAttempt(ctx, d, a, user, cmd.OutOrStdout())
	},
}

var adaptiveCmd = &cobra.Command{
	Use:   "adaptive",
	Short: "Generate and take an assessment tailored to the learner's level",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		skillID, _ := cmd.Flags().GetString("skill")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.RequireLLM(); err != nil {
			return err
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Generating questions...")
		a, err := d.Adaptive.Prepare(ctx, user, skillID, difficulty)
		if err != nil {
			return err
		}
		return runAttempt(ctx, d, a, user, out)
	},
}

func listAssessments(ctx context.Context, d *app.Deps, out io.Writer) error {
	list, err := d.Store.AssessmentRepo().List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No assessments. Run `skillpath seed` first.")
		return nil
	}
	fmt.Fprintf(out, "%-20s  %-28s  %-10s  %9s  %s\n", "ID", "Title", "Skill", "Questions", "Time")
	for _, a := range list {
		limit := "untimed"
		if a.TimeLimitMinutes != nil && *a.TimeLimitMinutes > 0 {
			limit = fmt.Sprintf("%d min", *a.TimeLimitMinutes)
		}
		fmt.Fprintf(out, "%-20s  %-28s  %-10s  %9d  %s\n", a.ID, a.Title, a.SkillID, a.QuestionCount, limit)
	}
	fmt.Fprintln(out, "\nStart one with: skillpath take --assessment <id>")
	return nil
}

func runAttempt(ctx context.Context, d *app.Deps, a *assessment.Assessment, user string, out io.Writer) error {
	res, err := d.Take(ctx, a, user)
	if err != nil {
		return err
	}
	if res == nil {
		fmt.Fprintln(out, "Attempt abandoned. Nothing was recorded.")
		return nil
	}
	o := res.Outcome
	fmt.Fprintf(out, "Score %d/%d (%d%%), level %s. Result %s\n", o.Score, o.MaxScore, o.Percentage, o.Level, res.Receipt.RecordID)
	if dec := res.Receipt.Decision; dec.Upgraded {
		fmt.Fprintf(out, "Skill %s raised from %s to %s.\n", dec.SkillID, dec.From, dec.To)
	}
	return nil
}

func init() {
	takeCmd.Flags().StringP("assessment", "a", "", "Assessment ID")

	adaptiveCmd.Flags().String("skill", "", "Skill ID")
	adaptiveCmd.Flags().String("difficulty", "", "Target level (default: the learner's current level)")
	adaptiveCmd.Flags().Int("count", 0, "Number of questions to generate (overrides adaptive.question_count)")
	_ = adaptiveCmd.MarkFlagRequired("skill")
	_ = v.BindPFlag("adaptive.question_count", adaptiveCmd.Flags().Lookup("count"))
}
