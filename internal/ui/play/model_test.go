package play

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/infra/memory"
	"daily-quiz-service/internal/quiz"
)

func TestPlayCorrectAnswer(t *testing.T) {
	m := newTestModel(t, 86400)
	if !strings.Contains(m.View(), "Next reset: 24:00:00") {
		t.Fatalf("expected countdown in header, got:\n%s", m.View())
	}

	m = press(m, runes("2"))
	if m.session.ProgressPercent() != 75 {
		t.Fatalf("expected 75 progress, got %d", m.session.ProgressPercent())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	if !strings.Contains(view, "Correct!  +50 XP") || !strings.Contains(view, "Castling moves") {
		t.Fatalf("expected correct result with explanation, got:\n%s", view)
	}
	if !strings.Contains(view, "100%") {
		t.Fatalf("expected full progress, got:\n%s", view)
	}
}

func TestPlayCursorSelectionAndWrongAnswer(t *testing.T) {
	m := newTestModel(t, 86400)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	if sel, ok := m.session.Selection(); !ok || sel != 2 {
		t.Fatalf("expected selection 2, got %d %v", sel, ok)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Incorrect  +10 XP") {
		t.Fatalf("expected incorrect result, got:\n%s", m.View())
	}
}

func TestPlaySubmitWithoutSelection(t *testing.T) {
	m := newTestModel(t, 86400)
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.Phase() != quiz.PhaseUnanswered {
		t.Fatalf("expected unanswered")
	}
	if !strings.Contains(m.View(), "Pick an answer first.") {
		t.Fatalf("expected prompt to pick an answer, got:\n%s", m.View())
	}
}

func TestPlaySelectionDisabledAfterReveal(t *testing.T) {
	m := newTestModel(t, 86400)
	m = press(m, runes("1"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(m, runes("2"))
	if sel, _ := m.session.Selection(); sel != 0 {
		t.Fatalf("selection changed after reveal: %d", sel)
	}
	if !strings.Contains(m.View(), "Come back tomorrow!") {
		t.Fatalf("expected come back message, got:\n%s", m.View())
	}
}

func TestPlayRolloverLoadsNextQuestion(t *testing.T) {
	m := newTestModel(t, 2)
	m = press(m, runes("1"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	if !strings.Contains(m.View(), "00:00:01") {
		t.Fatalf("expected 00:00:01, got:\n%s", m.View())
	}
	next, _ = m.Update(tickMsg(time.Now()))
	m = next.(Model)

	if m.session.Question().ID != "tetris" || m.session.Phase() != quiz.PhaseUnanswered {
		t.Fatalf("expected fresh tetris session, got %s %s", m.session.Question().ID, m.session.Phase())
	}
	if !strings.Contains(m.View(), "A new daily question is here!") {
		t.Fatalf("expected rollover notice, got:\n%s", m.View())
	}
}

func TestPlayNextKeyAdvancesWithoutResettingClock(t *testing.T) {
	m := newTestModel(t, 100)
	next, _ := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	m = press(m, runes("n"))
	if m.session.Question().ID != "tetris" {
		t.Fatalf("expected next question, got %s", m.session.Question().ID)
	}
	if m.clock.Remaining() != 99 {
		t.Fatalf("expected clock untouched, got %d", m.clock.Remaining())
	}
}

func TestPlayQuitStopsClock(t *testing.T) {
	m := newTestModel(t, 100)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if m.clock.Running() {
		t.Fatalf("expected clock stopped on quit")
	}
}

func newTestModel(t *testing.T, period int) Model {
	t.Helper()
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader([]domain.Question{
		{
			ID:           "chess",
			Prompt:       "In chess, what is the special move where a king and rook move simultaneously?",
			Options:      []string{"En passant", "Castling", "Promotion", "Zugzwang"},
			CorrectIndex: 1,
			Explanation:  "Castling moves the king and a rook together.",
		},
		{
			ID:           "tetris",
			Prompt:       "Which genre is Tetris?",
			Options:      []string{"Puzzle", "Shooter"},
			CorrectIndex: 0,
		},
	}), time.Minute)
	m, err := NewModel(context.Background(), questions, Options{
		PeriodSeconds: period,
		Rewards:       quiz.DefaultRewards(),
		NoColor:       true,
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
