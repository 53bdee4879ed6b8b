// Package authoring produces quiz content with an OpenAI-compatible
// text-generation service. The play engine never calls this package; it only
// consumes the data it produces, after boundary validation.
package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"persona-quiz-service/internal/domain"
)

// Request describes the quiz to generate.
type Request struct {
	Title         string
	Category      string
	QuestionCount int
	OptionCount   int
	ResultCount   int
}

// Generator wraps an OpenAI-compatible API client.
type Generator struct {
	api   *openai.Client
	model string
}

// New creates a generator. baseURL may be empty for the default endpoint.
func New(baseURL, apiKey, model string) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Generator{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// GenerateQuiz asks the model for a complete personality quiz and returns it
// as a validated domain quiz ready for storage.
func (g *Generator) GenerateQuiz(ctx context.Context, req Request) (domain.Quiz, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("content generation API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Quiz{}, fmt.Errorf("content generation returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	quiz, err := ParseQuizDocument([]byte(raw), req.Title, req.Category)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("parse generated quiz: %w (raw: %s)", err, raw)
	}
	for _, finding := range domain.LintQuiz(quiz) {
		log.Printf("generated quiz %s: lint %s: %s", quiz.ID, finding.Code, finding.Message)
	}
	return quiz, nil
}

// quizDocument is the wire shape the generation service must honor.
type quizDocument struct {
	Questions []questionDocument `json:"questions"`
	Results   []resultDocument   `json:"results"`
}

type questionDocument struct {
	QuestionText string           `json:"question_text"`
	Options      []optionDocument `json:"options"`
}

type optionDocument struct {
	Text              string         `json:"text"`
	PersonalityScores map[string]int `json:"personality_scores"`
}

type resultDocument struct {
	PersonalityType string   `json:"personality_type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	MinScore        *int     `json:"min_score"`
	MaxScore        *int     `json:"max_score"`
}

// ParseQuizDocument decodes the generation wire format into a validated domain
// quiz, assigning IDs and play order. Correctness of the engine depends only
// on this shape being honored, not on how the document was produced.
func ParseQuizDocument(raw []byte, title, category string) (domain.Quiz, error) {
	var doc quizDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Quiz{}, err
	}
	if len(doc.Questions) == 0 {
		return domain.Quiz{}, fmt.Errorf("document has no questions")
	}
	if len(doc.Results) == 0 {
		return domain.Quiz{}, fmt.Errorf("document has no results")
	}

	quiz := domain.Quiz{
		ID:       uuid.NewString(),
		Title:    title,
		Category: category,
	}
	for qi, qd := range doc.Questions {
		question := domain.Question{
			ID:    uuid.NewString(),
			Order: qi,
			Text:  strings.TrimSpace(qd.QuestionText),
		}
		if question.Text == "" {
			return domain.Quiz{}, fmt.Errorf("question %d has empty text", qi)
		}
		for oi, od := range qd.Options {
			scores := make(domain.ScoreMap, len(od.PersonalityScores))
			for label, weight := range od.PersonalityScores {
				scores[domain.PersonalityLabel(label)] = weight
			}
			question.Options = append(question.Options, domain.Option{
				ID:     uuid.NewString(),
				Order:  oi,
				Text:   strings.TrimSpace(od.Text),
				Scores: scores,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	for _, rd := range doc.Results {
		quiz.Results = append(quiz.Results, domain.Result{
			ID:               uuid.NewString(),
			PersonalityLabel: domain.PersonalityLabel(rd.PersonalityType),
			Title:            strings.TrimSpace(rd.Title),
			Description:      strings.TrimSpace(rd.Description),
			Strengths:        rd.Strengths,
			Weaknesses:       rd.Weaknesses,
			MinScore:         rd.MinScore,
			MaxScore:         rd.MaxScore,
		})
	}

	if err := domain.ValidateQuiz(&quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

func buildSystemPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You author personality quizzes. Respond with a single JSON object:\n")
	b.WriteString(`{"questions": [{"question_text": "...", "options": [{"text": "...", "personality_scores": {"LABEL": 2}}]}], `)
	b.WriteString(`"results": [{"personality_type": "LABEL", "title": "...", "description": "...", "strengths": ["..."], "weaknesses": ["..."], "min_score": 0, "max_score": 10}]}`)
	b.WriteString("\nRules:\n")
	b.WriteString("- Every personality_scores key must be the personality_type of one of the results.\n")
	b.WriteString("- Weights are small positive integers.\n")
	b.WriteString("- min_score/max_score ranges must not overlap across results.\n")
	fmt.Fprintf(&b, "- Produce exactly %d questions, %d options per question, and %d results.\n",
		req.QuestionCount, req.OptionCount, req.ResultCount)
	return b.String()
}

func buildUserPrompt(req Request) string {
	return fmt.Sprintf("Write a personality quiz titled %q in the category %q.", req.Title, req.Category)
}
