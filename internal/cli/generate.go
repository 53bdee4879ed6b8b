package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"persona-quiz-service/internal/authoring"
	"persona-quiz-service/internal/config"
)

// NewGenerateCmd asks the configured text-generation service for a full
// personality quiz and writes the validated document as JSON. The output is
// the same shape the quiz loader reads, so it can be inserted into the
// quizzes table as-is.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var (
		title       string
		category    string
		questions   int
		options     int
		resultCount int
		output      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate quiz content with an OpenAI-compatible service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("openai api key not configured")
			}
			model := cfg.OpenAI.Model
			if model == "" {
				model = "gpt-4o-mini"
			}

			gen := authoring.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, model)
			quiz, err := gen.GenerateQuiz(cmd.Context(), authoring.Request{
				Title:         title,
				Category:      category,
				QuestionCount: questions,
				OptionCount:   options,
				ResultCount:   resultCount,
			})
			if err != nil {
				return err
			}

			raw, err := json.MarshalIndent(quiz, "", "  ")
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			return os.WriteFile(output, append(raw, '\n'), 0o644)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "quiz title")
	cmd.Flags().StringVar(&category, "category", "", "quiz category")
	cmd.Flags().IntVar(&questions, "questions", 8, "number of questions")
	cmd.Flags().IntVar(&options, "options", 4, "options per question")
	cmd.Flags().IntVar(&resultCount, "results", 4, "number of results")
	cmd.Flags().StringVar(&output, "out", "-", "output file (- for stdout)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
