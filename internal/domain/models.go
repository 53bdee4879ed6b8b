package domain

import "time"

// PersonalityLabel identifies a personality/result category (e.g. "INTJ", "type2").
type PersonalityLabel string

// ScoreMap is a sparse mapping from personality label to integer weight.
// Absent labels count as weight 0.
type ScoreMap map[PersonalityLabel]int

// ScoreVector is the aggregate of every answered option's ScoreMap for one
// play-through. Derived from answers, never stored independently of them.
type ScoreVector = ScoreMap

// Total returns the scalar sum of all weights in the map.
func (m ScoreMap) Total() int {
	total := 0
	for _, w := range m {
		total += w
	}
	return total
}

// Clone returns an independent copy so a recorded answer cannot be mutated
// through shared option data.
func (m ScoreMap) Clone() ScoreMap {
	if m == nil {
		return nil
	}
	out := make(ScoreMap, len(m))
	for label, w := range m {
		out[label] = w
	}
	return out
}

// Option is one possible answer for a question, carrying personality weights.
type Option struct {
	ID     string   `json:"id"`
	Order  int      `json:"order"`
	Text   string   `json:"text"`
	Scores ScoreMap `json:"scores,omitempty"`
}

// Question models a single quiz question with ordered options.
// Immutable for the duration of a quiz session.
type Question struct {
	ID       string   `json:"id"`
	Order    int      `json:"order"`
	Text     string   `json:"text"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Options  []Option `json:"options"`
}

// Result is an authored outcome record. MinScore/MaxScore define an inclusive
// range over the total scalar score, used only as a fallback match; nil means
// unbounded on that side (min defaults to 0).
type Result struct {
	ID               string           `json:"id"`
	PersonalityLabel PersonalityLabel `json:"personalityLabel"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	MinScore         *int             `json:"minScore,omitempty"`
	MaxScore         *int             `json:"maxScore,omitempty"`
	Strengths        []string         `json:"strengths,omitempty"`
	Weaknesses       []string         `json:"weaknesses,omitempty"`
}

// Quiz bundles the questions and authored results consumed by one play
// session. Loaded once per session and treated as a read-only snapshot.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  string     `json:"category,omitempty"`
	Questions []Question `json:"questions"`
	Results   []Result   `json:"results"`
}

// Answer snapshots the chosen option's score map at selection time, so later
// edits to option data cannot retroactively change a recorded answer.
type Answer struct {
	QuestionID       string   `json:"questionId"`
	SelectedOptionID string   `json:"selectedOptionId"`
	Scores           ScoreMap `json:"scores,omitempty"`
}

// Attempt is the durable, immutable record of one completed play-through.
// It references its matched result by ID; the result's lifetime is independent.
type Attempt struct {
	ID           string      `json:"id"`
	QuizID       string      `json:"quizId"`
	ResultID     string      `json:"resultId"`
	Answers      []Answer    `json:"answers"`
	Scores       ScoreVector `json:"scores"`
	CompletedAt  time.Time   `json:"completedAt"`
	IdentityHint string      `json:"identityHint,omitempty"`
}
