package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions is a configuration error: the quiz has zero questions,
	// so a play session must not be started for it.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrNoResults is a configuration error: the quiz has zero authored
	// results, so submission cannot produce a match.
	ErrNoResults = errors.New("quiz has no results")
	// ErrSessionNotFound is returned when a play session does not exist.
	ErrSessionNotFound = errors.New("play session not found")
	// ErrOptionNotFound indicates a selected option ID is not part of the
	// current question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrSessionCompleted is returned when acting on an already submitted session.
	ErrSessionCompleted = errors.New("play session already submitted")
	// ErrQuizIncomplete rejects submission before the final question is answered.
	ErrQuizIncomplete = errors.New("quiz not ready for submission")
	// ErrNotStarted is returned when acting on a session still at the intro step.
	ErrNotStarted = errors.New("play session not started")
	// ErrInvalidQuiz indicates quiz content failed boundary validation.
	ErrInvalidQuiz = errors.New("invalid quiz content")
)
