package play

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/quiz"
)

// Model is a terminal front end over one quiz Clock and one quiz Session.
type Model struct {
	questions    app.QuestionRepository
	clock        *quiz.Clock
	session      *quiz.Session
	slot         int64
	cursor       int
	status       string
	progress     progress.Model
	keys         keyMap
	tickInterval time.Duration
	noColor      bool
}

// Options configures the play model.
type Options struct {
	PeriodSeconds int
	TickInterval  time.Duration
	Rewards       quiz.Rewards
	NoColor       bool
}

// NewModel loads the first question and starts the countdown.
func NewModel(ctx context.Context, questions app.QuestionRepository, opts Options) (Model, error) {
	q, err := questions.GetQuestion(ctx, 0)
	if err != nil {
		return Model{}, err
	}
	session, err := quiz.NewSession(q, opts.Rewards)
	if err != nil {
		return Model{}, err
	}
	clock := quiz.NewClock()
	if err := clock.Start(opts.PeriodSeconds); err != nil {
		return Model{}, err
	}
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return Model{
		questions:    questions,
		clock:        clock,
		session:      session,
		progress:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		keys:         defaultKeys(),
		tickInterval: tickInterval,
		noColor:      opts.NoColor,
	}, nil
}

// tickMsg carries one countdown second.
type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the countdown ticks.
func (m Model) Init() tea.Cmd {
	return tick(m.tickInterval)
}

// Update handles key presses and countdown ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(typed.Width-12, 10), 60)
		return m, nil
	case tickMsg:
		if m.clock.Tick() {
			m = m.advance("A new daily question is here!")
		}
		return m, tick(m.tickInterval)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := len(m.session.Question().Options)
	revealed := m.session.Phase() == quiz.PhaseRevealed

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.clock.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m = m.advance("")
	case revealed && (key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down) || key.Matches(msg, m.keys.Choose)):
		m.status = "Come back tomorrow!"
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < options-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Choose):
		idx := m.cursor
		if n, err := strconv.Atoi(msg.String()); err == nil {
			idx = n - 1
		}
		m = m.choose(idx)
	case key.Matches(msg, m.keys.Submit):
		m = m.submit()
	}
	return m, nil
}

func (m Model) choose(idx int) Model {
	if err := m.session.Select(idx); err != nil {
		m.status = describe(err)
		return m
	}
	m.cursor = idx
	m.status = ""
	return m
}

func (m Model) submit() Model {
	if err := m.session.Submit(); err != nil {
		m.status = describe(err)
		return m
	}
	m.status = ""
	return m
}

// advance binds the session to the next slot's question, keeping the current
// one when the bank cannot supply another.
func (m Model) advance(status string) Model {
	next := m.slot + 1
	q, err := m.questions.GetQuestion(context.Background(), next)
	if err != nil {
		q = m.session.Question()
	}
	if err := m.session.Reset(q); err != nil {
		m.status = describe(err)
		return m
	}
	m.slot = next
	m.cursor = 0
	m.status = status
	return m
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSelection):
		return "Pick an answer first."
	case errors.Is(err, domain.ErrAlreadyRevealed):
		return "Come back tomorrow!"
	case errors.Is(err, domain.ErrInvalidOption):
		return "That option does not exist."
	default:
		return err.Error()
	}
}
