package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/adaptive"
	"github.com/abhisek/skillpath/internal/store"
)

const timeLayout = "2006-01-02 15:04"

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List a learner's recorded attempts and level changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		std, err := d.Store.ResultRepo().ListResults(ctx, user, limit)
		if err != nil {
			return err
		}
		adp, err := d.Store.ResultRepo().ListAdaptive(ctx, user, limit)
		if err != nil {
			return err
		}
		esc, err := d.Store.EventRepo().QueryEscalations(ctx, user, store.QueryOpts{Limit: limit})
		if err != nil {
			return err
		}

		if len(std)+len(adp) == 0 {
			fmt.Fprintf(out, "No results recorded for %s.\n", user)
			return nil
		}
		if len(std) > 0 {
			fmt.Fprintln(out, "Assessments")
			fmt.Fprintf(out, "%-16s  %-20s  %7s  %4s  %-13s  %s\n", "Completed", "Assessment", "Score", "%", "Level", "Trigger")
			for _, r := range std {
				fmt.Fprintf(out, "%-16s  %-20s  %3d/%-3d  %4d  %-13s  %s\n",
					r.CompletedAt.Local().Format(timeLayout), r.AssessmentID, r.Score, r.MaxScore, r.Percentage, r.CalculatedLevel, r.Trigger)
			}
		}
		if len(adp) > 0 {
			if len(std) > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, "Adaptive")
			fmt.Fprintf(out, "%-36s  %-16s  %-10s  %-13s  %7s  %-13s\n", "ID", "Completed", "Skill", "Difficulty", "Score", "Level")
			for _, r := range adp {
				fmt.Fprintf(out, "%-36s  %-16s  %-10s  %-13s  %3d/%-3d  %-13s\n",
					r.ID, r.CompletedAt.Local().Format(timeLayout), r.SkillID, r.DifficultyLevel, r.Score, r.MaxScore, r.CalculatedLevel)
			}
		}
		var ups []store.EscalationEvent
		for _, e := range esc {
			if e.Upgraded {
				ups = append(ups, e)
			}
		}
		if len(ups) > 0 {
			fmt.Fprintln(out, "\nLevel changes")
			for _, e := range ups {
				fmt.Fprintf(out, "%-16s  %-10s  %s -> %s\n", e.Timestamp.Local().Format(timeLayout), e.SkillID, e.FromLevel, e.ToLevel)
			}
		}
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <adaptive-id>",
	Short: "Replay a completed adaptive assessment with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()
		// Reviewing reads the stored snapshot only; no generator needed.
		svc := d.Adaptive
		if svc == nil {
			svc = adaptive.NewService(d.Store, nil, adaptive.Config{}, d.Logger)
		}
		rv, err := svc.Review(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		r := rv.Result
		fmt.Fprintf(out, "%s  %s (%s)  %d/%d  %s\n", r.CompletedAt.Local().Format(timeLayout), r.SkillID, r.DifficultyLevel, r.Score, r.MaxScore, r.CalculatedLevel)
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for i, item := range rv.Items {
			mark := "✗"
			if item.Correct {
				mark = "✓"
			}
			fmt.Fprintf(out, "%s %d. %s\n", mark, i+1, item.Question.QuestionText)
			if item.Question.Code != "" {
				fmt.Fprintf(out, "      %s\n", strings.ReplaceAll(item.Question.Code, "\n", "\n      "))
			}
			answer := "(no answer)"
			if item.Answered {
				answer = item.Answer
			}
			fmt.Fprintf(out, "    your answer: %s\n", answer)
			if item.Question.CorrectAnswer != "" && !item.Correct {
				fmt.Fprintf(out, "    correct:     %s\n", item.Question.CorrectAnswer)
			}
		}
		return nil
	},
}

func init() {
	resultsCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
}
