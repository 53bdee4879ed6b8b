package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateQuiz checks quiz content at the data-read boundary so malformed
// authored or AI-generated data never reaches the play engine. It also
// normalizes personality labels in place (whitespace trimmed).
//
// A quiz with zero questions or zero results is not rejected here; those are
// session-level conditions reported as ErrNoQuestions / ErrNoResults when the
// quiz is actually played.
func ValidateQuiz(quiz *Quiz) error {
	if quiz.ID == "" {
		return fmt.Errorf("%w: missing quiz id", ErrInvalidQuiz)
	}

	questionIDs := make(map[string]struct{}, len(quiz.Questions))
	questionOrders := make(map[int]struct{}, len(quiz.Questions))
	for qi := range quiz.Questions {
		q := &quiz.Questions[qi]
		if q.ID == "" {
			return fmt.Errorf("%w: question %d missing id", ErrInvalidQuiz, qi)
		}
		if _, dup := questionIDs[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, q.ID)
		}
		questionIDs[q.ID] = struct{}{}
		if _, dup := questionOrders[q.Order]; dup {
			return fmt.Errorf("%w: duplicate question order %d", ErrInvalidQuiz, q.Order)
		}
		questionOrders[q.Order] = struct{}{}

		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %q has no options", ErrInvalidQuiz, q.ID)
		}
		optionIDs := make(map[string]struct{}, len(q.Options))
		for oi := range q.Options {
			opt := &q.Options[oi]
			if opt.ID == "" {
				return fmt.Errorf("%w: question %q option %d missing id", ErrInvalidQuiz, q.ID, oi)
			}
			if _, dup := optionIDs[opt.ID]; dup {
				return fmt.Errorf("%w: question %q duplicate option id %q", ErrInvalidQuiz, q.ID, opt.ID)
			}
			optionIDs[opt.ID] = struct{}{}
			normalized, err := normalizeScores(opt.Scores)
			if err != nil {
				return fmt.Errorf("%w: question %q option %q: %v", ErrInvalidQuiz, q.ID, opt.ID, err)
			}
			opt.Scores = normalized
		}
	}

	resultIDs := make(map[string]struct{}, len(quiz.Results))
	for ri := range quiz.Results {
		r := &quiz.Results[ri]
		if r.ID == "" {
			return fmt.Errorf("%w: result %d missing id", ErrInvalidQuiz, ri)
		}
		if _, dup := resultIDs[r.ID]; dup {
			return fmt.Errorf("%w: duplicate result id %q", ErrInvalidQuiz, r.ID)
		}
		resultIDs[r.ID] = struct{}{}
		r.PersonalityLabel = PersonalityLabel(strings.TrimSpace(string(r.PersonalityLabel)))
		if r.MinScore != nil && r.MaxScore != nil && *r.MinScore > *r.MaxScore {
			return fmt.Errorf("%w: result %q has minScore %d > maxScore %d", ErrInvalidQuiz, r.ID, *r.MinScore, *r.MaxScore)
		}
	}

	// Keep questions and options in play order regardless of storage order.
	sort.SliceStable(quiz.Questions, func(i, j int) bool {
		return quiz.Questions[i].Order < quiz.Questions[j].Order
	})
	for qi := range quiz.Questions {
		opts := quiz.Questions[qi].Options
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Order < opts[j].Order })
	}
	return nil
}

func normalizeScores(scores ScoreMap) (ScoreMap, error) {
	if len(scores) == 0 {
		return scores, nil
	}
	out := make(ScoreMap, len(scores))
	for label, weight := range scores {
		trimmed := PersonalityLabel(strings.TrimSpace(string(label)))
		if trimmed == "" {
			return nil, fmt.Errorf("empty personality label")
		}
		if _, dup := out[trimmed]; dup {
			return nil, fmt.Errorf("personality label %q appears twice after trimming", trimmed)
		}
		out[trimmed] = weight
	}
	return out, nil
}

// LintFinding is a non-fatal issue in authored quiz content, produced by the
// offline lint pass. Play-time matching resolves all of these deterministically;
// the lint exists so authors can fix them before players hit the fallbacks.
type LintFinding struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LintQuiz flags ambiguous authoring data: result labels no option ever
// scores, option labels no result matches, and overlapping result score
// ranges. Findings are advisory, never errors.
func LintQuiz(quiz Quiz) []LintFinding {
	var findings []LintFinding

	scored := make(map[PersonalityLabel]struct{})
	for _, q := range quiz.Questions {
		for _, opt := range q.Options {
			for label := range opt.Scores {
				scored[lowerLabel(label)] = struct{}{}
			}
		}
	}
	matched := make(map[PersonalityLabel]struct{})
	for _, r := range quiz.Results {
		if r.PersonalityLabel == "" {
			continue
		}
		key := lowerLabel(r.PersonalityLabel)
		matched[key] = struct{}{}
		if _, ok := scored[key]; !ok {
			findings = append(findings, LintFinding{
				Code:    "unreachable-label",
				Message: fmt.Sprintf("result %q has personality label %q which no option ever scores", r.ID, r.PersonalityLabel),
			})
		}
	}
	for _, label := range sortedLabels(scored) {
		if _, ok := matched[label]; !ok {
			findings = append(findings, LintFinding{
				Code:    "unmatched-label",
				Message: fmt.Sprintf("options score personality label %q but no result carries it", label),
			})
		}
	}

	for i := 0; i < len(quiz.Results); i++ {
		for j := i + 1; j < len(quiz.Results); j++ {
			if rangesOverlap(quiz.Results[i], quiz.Results[j]) {
				findings = append(findings, LintFinding{
					Code:    "overlapping-range",
					Message: fmt.Sprintf("results %q and %q have overlapping score ranges; the earlier authored one wins", quiz.Results[i].ID, quiz.Results[j].ID),
				})
			}
		}
	}
	return findings
}

func rangesOverlap(a, b Result) bool {
	if a.MinScore == nil && a.MaxScore == nil {
		return false
	}
	if b.MinScore == nil && b.MaxScore == nil {
		return false
	}
	aMin, aMax := rangeBounds(a)
	bMin, bMax := rangeBounds(b)
	return aMin <= bMax && bMin <= aMax
}

func rangeBounds(r Result) (int, int) {
	min := 0
	if r.MinScore != nil {
		min = *r.MinScore
	}
	max := int(^uint(0) >> 1)
	if r.MaxScore != nil {
		max = *r.MaxScore
	}
	return min, max
}

func lowerLabel(label PersonalityLabel) PersonalityLabel {
	return PersonalityLabel(strings.ToLower(string(label)))
}

func sortedLabels(set map[PersonalityLabel]struct{}) []PersonalityLabel {
	labels := make([]PersonalityLabel, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
