package quiz

import (
	"fmt"
	"sync"

	"daily-quiz-service/internal/domain"
)

// Rewards are the points granted once an answer is revealed.
type Rewards struct {
	Correct       int `json:"correct" yaml:"correct"`
	Participation int `json:"participation" yaml:"participation"`
}

// DefaultRewards grants 50 for a correct answer and 10 for taking part.
func DefaultRewards() Rewards {
	return Rewards{Correct: 50, Participation: 10}
}

const noSelection = -1

// Session tracks one player's answer to one question:
// unanswered -> selected -> revealed. Revealed is terminal until Reset.
type Session struct {
	mu        sync.Mutex
	question  domain.Question
	rewards   Rewards
	selection int
	revealed  bool
}

// NewSession binds a fresh, unanswered session to q.
func NewSession(q domain.Question, rewards Rewards) (*Session, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &Session{question: q.Clone(), rewards: rewards, selection: noSelection}, nil
}

// Select records option i. Re-selecting before submit overwrites the previous choice.
func (s *Session) Select(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed {
		return domain.ErrAlreadyRevealed
	}
	if !s.question.HasOption(i) {
		return fmt.Errorf("%w: %d not in [0,%d)", domain.ErrInvalidOption, i, len(s.question.Options))
	}
	s.selection = i
	return nil
}

// Submit reveals the selected answer.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed {
		return domain.ErrAlreadyRevealed
	}
	if s.selection == noSelection {
		return domain.ErrNoSelection
	}
	s.revealed = true
	return nil
}

// Reset discards the current answer and binds the session to q.
func (s *Session) Reset(q domain.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = q.Clone()
	s.selection = noSelection
	s.revealed = false
	return nil
}

func (s *Session) Question() domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question.Clone()
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

// Selection returns the selected index, if any.
func (s *Session) Selection() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection, s.selection != noSelection
}

func (s *Session) ProgressPercent() int {
	return s.Phase().Progress()
}

// IsCorrect is only defined once the answer is revealed.
func (s *Session) IsCorrect() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.revealed {
		return false, domain.ErrNotRevealed
	}
	return s.correctLocked(), nil
}

// AwardedPoints is only defined once the answer is revealed.
func (s *Session) AwardedPoints() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.revealed {
		return 0, domain.ErrNotRevealed
	}
	return s.pointsLocked(), nil
}

// View snapshots the session for presentation.
func (s *Session) View() domain.AnswerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := s.phaseLocked()
	view := domain.AnswerView{
		Question: s.question.Public(),
		Phase:    phase.String(),
		Progress: phase.Progress(),
		Revealed: s.revealed,
	}
	if s.selection != noSelection {
		selection := s.selection
		view.Selection = &selection
	}
	if s.revealed {
		correct := s.correctLocked()
		correctIndex := s.question.CorrectIndex
		view.Correct = &correct
		view.CorrectIndex = &correctIndex
		view.Awarded = s.pointsLocked()
		view.Explanation = s.question.Explanation
	}
	return view
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.revealed:
		return PhaseRevealed
	case s.selection != noSelection:
		return PhaseSelected
	default:
		return PhaseUnanswered
	}
}

func (s *Session) correctLocked() bool {
	return s.selection == s.question.CorrectIndex
}

func (s *Session) pointsLocked() int {
	if s.correctLocked() {
		return s.rewards.Correct
	}
	return s.rewards.Participation
}
