package domain

import (
	"fmt"
	"strings"
)

// Question is a single multiple-choice prompt. It is never mutated once issued.
type Question struct {
	ID           string   `json:"id" yaml:"id"`
	Prompt       string   `json:"prompt" yaml:"prompt"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correct"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
}

// Validate checks that the question has at least two options and a usable correct index.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: empty prompt", ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: need at least 2 options, got %d", ErrInvalidQuestion, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: correct index %d out of range", ErrInvalidQuestion, q.CorrectIndex)
	}
	return nil
}

// HasOption reports whether i indexes one of the options.
func (q Question) HasOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// Clone returns a copy that shares no memory with q.
func (q Question) Clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// Public strips the answer and explanation so the question can be shown before reveal.
func (q Question) Public() QuestionView {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return QuestionView{ID: q.ID, Prompt: q.Prompt, Options: options}
}

// QuestionView is the pre-reveal projection of a question.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// AnswerView is a snapshot of one player's answer state. Reveal-only fields stay
// empty until the answer is revealed.
type AnswerView struct {
	Question     QuestionView `json:"question"`
	Phase        string       `json:"phase"`
	Selection    *int         `json:"selection,omitempty"`
	Progress     int          `json:"progress"`
	Revealed     bool         `json:"revealed"`
	Correct      *bool        `json:"correct,omitempty"`
	CorrectIndex *int         `json:"correctIndex,omitempty"`
	Awarded      int          `json:"awarded,omitempty"`
	Explanation  string       `json:"explanation,omitempty"`
}

// Countdown is the time left in the current quiz period.
type Countdown struct {
	Remaining int    `json:"remaining"`
	Display   string `json:"display"`
}

// CurrentQuiz is the public state of the running daily quiz.
type CurrentQuiz struct {
	Slot      int64        `json:"slot"`
	Question  QuestionView `json:"question"`
	Countdown Countdown    `json:"countdown"`
	Players   int          `json:"players"`
}

// EventType tags the events fanned out to subscribers.
type EventType string

const (
	EventCountdown EventType = "countdown"
	EventRollover  EventType = "rollover"
)

// Event is pushed to subscribers on every tick and on period rollover.
type Event struct {
	Type      EventType     `json:"type"`
	Slot      int64         `json:"slot"`
	Countdown Countdown     `json:"countdown"`
	Question  *QuestionView `json:"question,omitempty"`
}
