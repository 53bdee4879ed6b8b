package app

import (
	"sync"
	"time"

	"persona-quiz-service/internal/domain"
)

// State is the navigation state of one play session.
type State string

const (
	// StateIntro is the optional identity-capture step before the first question.
	StateIntro State = "intro"
	// StateQuestion means the session is positioned on a question.
	StateQuestion State = "question"
	// StateSubmitted is terminal; restarting a quiz means creating a new session.
	StateSubmitted State = "submitted"
)

// QuestionView is what the hosting transport renders for the current question,
// including the previously recorded selection when the player navigates back.
type QuestionView struct {
	Index            int             `json:"index"`
	Total            int             `json:"total"`
	Question         domain.Question `json:"question"`
	SelectedOptionID string          `json:"selectedOptionId,omitempty"`
}

// Outcome is the user-visible product of a submitted session. It is complete
// before any attempt recording happens; recording is best-effort telemetry.
type Outcome struct {
	Result      domain.Result      `json:"result"`
	Scores      domain.ScoreVector `json:"scores"`
	Total       int                `json:"total"`
	Answers     []domain.Answer    `json:"answers"`
	CompletedAt time.Time          `json:"completedAt"`
}

// Session holds the answer ledger and navigation cursor for one in-progress
// play-through of a quiz. Each play-through gets a fresh session; the quiz
// snapshot it holds is never mutated.
//
// The ledger never contains an answer for a question that was never shown,
// and always contains one for every question before the cursor. Moving
// backward never deletes answers; re-selecting overwrites (last choice wins).
type Session struct {
	id        string
	quiz      domain.Quiz
	createdAt time.Time
	now       func() time.Time

	mu           sync.Mutex
	state        State
	cursor       int
	ledger       map[string]domain.Answer
	identityHint string
}

// NewSession is exported for infrastructure layers and tests that need to
// seed sessions directly.
func NewSession(id string, quiz domain.Quiz) (*Session, error) {
	return newSession(id, quiz, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, quiz domain.Quiz, now func() time.Time) (*Session, error) {
	return newSession(id, quiz, now)
}

func newSession(id string, quiz domain.Quiz, now func() time.Time) (*Session, error) {
	if len(quiz.Questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	if len(quiz.Results) == 0 {
		return nil, domain.ErrNoResults
	}
	return &Session{
		id:        id,
		quiz:      quiz,
		createdAt: now(),
		now:       now,
		state:     StateIntro,
		ledger:    make(map[string]domain.Answer),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the read-only content snapshot this session plays against.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// State returns the current navigation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves the session from the intro step to the first question. The
// identity hint is optional and stored verbatim. Calling Start on a session
// already past the intro returns the current question unchanged.
func (s *Session) Start(identityHint string) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSubmitted:
		return QuestionView{}, domain.ErrSessionCompleted
	case StateIntro:
		s.identityHint = identityHint
		s.state = StateQuestion
		s.cursor = 0
	}
	return s.viewLocked(), nil
}

// Select records the chosen option for the current question, overwriting any
// prior answer for it. The option's score map is snapshotted so later edits to
// quiz content cannot change what this session recorded.
func (s *Session) Select(optionID string) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted {
		return QuestionView{}, domain.ErrSessionCompleted
	}
	if s.state != StateQuestion {
		return QuestionView{}, domain.ErrNotStarted
	}

	question := s.quiz.Questions[s.cursor]
	for _, opt := range question.Options {
		if opt.ID == optionID {
			s.ledger[question.ID] = domain.Answer{
				QuestionID:       question.ID,
				SelectedOptionID: opt.ID,
				Scores:           opt.Scores.Clone(),
			}
			return s.viewLocked(), nil
		}
	}
	return QuestionView{}, domain.ErrOptionNotFound
}

// Next advances to the following question. The transition is rejected, not an
// error, when the current question has no recorded selection or the session is
// already on the last question; moved reports whether the cursor advanced.
func (s *Session) Next() (QuestionView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted {
		return QuestionView{}, false, domain.ErrSessionCompleted
	}
	if s.state != StateQuestion {
		return QuestionView{}, false, domain.ErrNotStarted
	}

	if _, answered := s.ledger[s.quiz.Questions[s.cursor].ID]; !answered {
		return s.viewLocked(), false, nil
	}
	if s.cursor == len(s.quiz.Questions)-1 {
		return s.viewLocked(), false, nil
	}
	s.cursor++
	return s.viewLocked(), true, nil
}

// Back moves to the previous question, or to the intro step from the first
// question. The answer for the question being left stays in the ledger, and
// the returned view restores whatever selection the target question had.
func (s *Session) Back() (QuestionView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted {
		return QuestionView{}, true, domain.ErrSessionCompleted
	}
	if s.state != StateQuestion {
		return QuestionView{}, true, domain.ErrNotStarted
	}

	if s.cursor == 0 {
		s.state = StateIntro
		return QuestionView{Total: len(s.quiz.Questions)}, true, nil
	}
	s.cursor--
	return s.viewLocked(), false, nil
}

// Submit finishes the session from the last question, aggregates the ledger
// and matches a result. It is the terminal transition; a second Submit
// returns ErrSessionCompleted, which is what guarantees at most one attempt
// recording per play-through.
func (s *Session) Submit() (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitted {
		return Outcome{}, domain.ErrSessionCompleted
	}
	if s.state != StateQuestion || s.cursor != len(s.quiz.Questions)-1 {
		return Outcome{}, domain.ErrQuizIncomplete
	}
	if _, answered := s.ledger[s.quiz.Questions[s.cursor].ID]; !answered {
		return Outcome{}, domain.ErrQuizIncomplete
	}

	answers := s.answersLocked()
	vector := Aggregate(answers)
	result, err := Match(vector, s.quiz.Results)
	if err != nil {
		return Outcome{}, err
	}
	s.state = StateSubmitted
	return Outcome{
		Result:      result,
		Scores:      vector,
		Total:       vector.Total(),
		Answers:     answers,
		CompletedAt: s.now(),
	}, nil
}

// Answers returns the ledger snapshot in question order.
func (s *Session) Answers() []domain.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answersLocked()
}

// IdentityHint returns the optional identity captured at the intro step.
func (s *Session) IdentityHint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identityHint
}

func (s *Session) answersLocked() []domain.Answer {
	answers := make([]domain.Answer, 0, len(s.ledger))
	for _, q := range s.quiz.Questions {
		if answer, ok := s.ledger[q.ID]; ok {
			answers = append(answers, answer)
		}
	}
	return answers
}

func (s *Session) viewLocked() QuestionView {
	question := s.quiz.Questions[s.cursor]
	view := QuestionView{
		Index:    s.cursor,
		Total:    len(s.quiz.Questions),
		Question: question,
	}
	if answer, ok := s.ledger[question.ID]; ok {
		view.SelectedOptionID = answer.SelectedOptionID
	}
	return view
}
