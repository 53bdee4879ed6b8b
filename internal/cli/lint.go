package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"persona-quiz-service/internal/domain"
)

// NewLintCmd runs the offline content checks over a quiz JSON file: ranges
// that overlap, result labels no option scores, labels no result matches.
// Play-time matching resolves all of these deterministically, so findings are
// warnings for authors, not failures; --strict makes them fatal for CI.
func NewLintCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint <quiz.json>",
		Short: "Check authored quiz content for ambiguous data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var quiz domain.Quiz
			if err := json.Unmarshal(raw, &quiz); err != nil {
				return fmt.Errorf("parse quiz: %w", err)
			}
			if err := domain.ValidateQuiz(&quiz); err != nil {
				return err
			}

			findings := domain.LintQuiz(quiz)
			for _, f := range findings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Code, f.Message)
			}
			if len(findings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no findings")
				return nil
			}
			if strict {
				return fmt.Errorf("%d lint finding(s)", len(findings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero on findings")
	return cmd
}
