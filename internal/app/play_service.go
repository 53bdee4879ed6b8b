package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"persona-quiz-service/internal/domain"
)

// SessionRepository abstracts how play sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AttemptRecorder persists completed attempts. Implementations are invoked
// off the rendering path; errors are logged, never shown to the player.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt domain.Attempt) error
}

const recordTimeout = 10 * time.Second

// PlayService contains the personality-quiz play use cases.
type PlayService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	recorder AttemptRecorder
	now      func() time.Time
	newID    func() string
}

func NewPlayService(sessions SessionRepository, quizzes QuizRepository, recorder AttemptRecorder) *PlayService {
	return &PlayService{
		sessions: sessions,
		quizzes:  quizzes,
		recorder: recorder,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// NewPlayServiceWithClock is test-only for deterministic timestamps and IDs.
func NewPlayServiceWithClock(sessions SessionRepository, quizzes QuizRepository, recorder AttemptRecorder, now func() time.Time, newID func() string) *PlayService {
	return &PlayService{sessions: sessions, quizzes: quizzes, recorder: recorder, now: now, newID: newID}
}

// NewSession loads the quiz snapshot and creates a fresh session at the intro
// step. A quiz with zero questions or zero results is refused here so the
// caller can show a "quiz unavailable" state instead of a degenerate result.
func (s *PlayService) NewSession(ctx context.Context, quizID string) (*Session, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	session, err := newSession(s.newID(), quiz, s.now)
	if err != nil {
		return nil, err
	}
	s.sessions.Put(session)
	return session, nil
}

// Start moves a session past the intro step, storing the optional identity hint.
func (s *PlayService) Start(sessionID, identityHint string) (QuestionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return QuestionView{}, domain.ErrSessionNotFound
	}
	return session.Start(identityHint)
}

// Select records the option chosen for the session's current question.
func (s *PlayService) Select(sessionID, optionID string) (QuestionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return QuestionView{}, domain.ErrSessionNotFound
	}
	return session.Select(optionID)
}

// Next advances the session; moved is false when the transition was rejected.
func (s *PlayService) Next(sessionID string) (QuestionView, bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return QuestionView{}, false, domain.ErrSessionNotFound
	}
	return session.Next()
}

// Back moves the session to the previous question (or the intro step).
func (s *PlayService) Back(sessionID string) (QuestionView, bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return QuestionView{}, false, domain.ErrSessionNotFound
	}
	return session.Back()
}

// Submit finishes the session and returns the matched result. Attempt
// recording is dispatched fire-and-forget after the match: the outcome is
// rendered regardless of recording success, a failure is only logged, and the
// terminal session state guarantees at most one recording per play-through.
func (s *PlayService) Submit(ctx context.Context, quizID, sessionID string) (Outcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Outcome{}, domain.ErrSessionNotFound
	}
	outcome, err := session.Submit()
	if err != nil {
		return Outcome{}, err
	}

	attempt := domain.Attempt{
		ID:           s.newID(),
		QuizID:       quizID,
		ResultID:     outcome.Result.ID,
		Answers:      outcome.Answers,
		Scores:       outcome.Scores,
		CompletedAt:  outcome.CompletedAt,
		IdentityHint: session.IdentityHint(),
	}
	// Detached from the caller's context: abandoning the page must not cancel
	// the write, but it still gets a deadline of its own.
	go func() {
		recordCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.recorder.RecordAttempt(recordCtx, attempt); err != nil {
			log.Printf("record attempt %s for quiz %s failed: %v", attempt.ID, attempt.QuizID, err)
		}
	}()

	return outcome, nil
}

// EndSession drops a session, whether abandoned mid-play or finished.
func (s *PlayService) EndSession(sessionID string) {
	s.sessions.Delete(sessionID)
}
