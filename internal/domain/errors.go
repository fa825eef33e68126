package domain

import "errors"

var (
	// ErrInvalidOption is returned when a selected index is outside the question's options.
	ErrInvalidOption = errors.New("invalid option")
	// ErrNoSelection is returned when an answer is submitted before any option was picked.
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadyRevealed is returned for select/submit calls after the answer was revealed.
	ErrAlreadyRevealed = errors.New("answer already revealed")
	// ErrNotRevealed is returned when correctness or points are read before reveal.
	ErrNotRevealed = errors.New("answer not revealed yet")
	// ErrInvalidQuestion indicates a question that cannot back a session.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidPeriod is returned when a countdown is started with a non-positive period.
	ErrInvalidPeriod = errors.New("countdown period must be positive")
	// ErrQuestionNotFound indicates the question bank had nothing for the requested slot.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrPlayerNotFound is returned when a player acts before joining.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNotStarted is returned when the daily quiz has no active question yet.
	ErrNotStarted = errors.New("daily quiz not started")
)
