package app

import (
	"strings"

	"persona-quiz-service/internal/domain"
)

// Aggregate reduces a set of answers into a single score vector by summing
// every (label, weight) pair. Integer addition is commutative, so the result
// is independent of answer order. An empty ledger yields an empty vector.
func Aggregate(answers []domain.Answer) domain.ScoreVector {
	vector := make(domain.ScoreVector)
	for _, answer := range answers {
		for label, weight := range answer.Scores {
			vector[label] += weight
		}
	}
	return vector
}

// Match maps a score vector to exactly one of the quiz's authored results
// using three ordered tiers, each tried only if the previous one yields no
// match:
//
//  1. Top label: the vector's highest-weighted label (ties broken
//     lexicographically so the choice never depends on map iteration order)
//     compared case-insensitively against each result's personality label.
//  2. Range: the vector's total scalar score against each result's inclusive
//     [minScore, maxScore] range (min defaults to 0, max to unbounded). On
//     overlapping ranges the first result in authored order wins.
//  3. Fallback: the first result in authored order.
//
// Match is deterministic and always returns a member of results; an empty
// result set is a configuration error reported as ErrNoResults.
func Match(vector domain.ScoreVector, results []domain.Result) (domain.Result, error) {
	if len(results) == 0 {
		return domain.Result{}, domain.ErrNoResults
	}

	if top, ok := topLabel(vector); ok {
		for _, r := range results {
			if strings.EqualFold(string(r.PersonalityLabel), string(top)) {
				return r, nil
			}
		}
	}

	total := vector.Total()
	for _, r := range results {
		min := 0
		if r.MinScore != nil {
			min = *r.MinScore
		}
		if total < min {
			continue
		}
		if r.MaxScore != nil && total > *r.MaxScore {
			continue
		}
		return r, nil
	}

	return results[0], nil
}

// topLabel returns the highest-weighted label in the vector. When several
// labels share the maximum weight the lexicographically smallest wins, so the
// outcome is stable across runs and implementations. ok is false for an empty
// vector.
func topLabel(vector domain.ScoreVector) (domain.PersonalityLabel, bool) {
	var (
		best  domain.PersonalityLabel
		bestW int
		found bool
	)
	for label, weight := range vector {
		if !found || weight > bestW || (weight == bestW && label < best) {
			best, bestW, found = label, weight, true
		}
	}
	return best, found
}
