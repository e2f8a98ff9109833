package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		events, err := d.Store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM requests recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 98))
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		e, err := d.Store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("LLM event %d not found", id)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}
		for _, part := range []struct{ title, body string }{
			{"REQUEST", e.RequestBody},
			{"RESPONSE", e.ResponseBody},
		} {
			fmt.Fprintf(out, "\n%s\n%s\n%s\n", sep, part.title, sep)
			if part.body == "" {
				fmt.Fprintln(out, "(not captured)")
				continue
			}
			fmt.Fprintln(out, part.body)
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (question-gen, code-check)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
}
