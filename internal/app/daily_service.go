package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/quiz"
)

// QuestionRepository supplies the question for a quiz period. Slot 0 is the
// first period after Start; each rollover moves to the next slot.
type QuestionRepository interface {
	GetQuestion(ctx context.Context, slot int64) (domain.Question, error)
}

// SessionRepository abstracts where player sessions live (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *PlayerSession)
	Get(playerID string) (*PlayerSession, bool)
	Delete(playerID string)
	Range(fn func(*PlayerSession))
}

// PlayerCounter is implemented by session stores that can count live players.
type PlayerCounter interface {
	ActivePlayers(ctx context.Context) (int, error)
}

// PlayerSession is one player's answer state for the current question.
type PlayerSession struct {
	*quiz.Session
	PlayerID string
	JoinedAt time.Time
}

// NewPlayerSession is exported for infrastructure layers and tests.
func NewPlayerSession(playerID string, q domain.Question, rewards quiz.Rewards, joinedAt time.Time) (*PlayerSession, error) {
	session, err := quiz.NewSession(q, rewards)
	if err != nil {
		return nil, err
	}
	return &PlayerSession{Session: session, PlayerID: playerID, JoinedAt: joinedAt}, nil
}

// Options tunes a DailyQuizService. Zero values fall back to the defaults.
type Options struct {
	PeriodSeconds int
	TickInterval  time.Duration
	Rewards       *quiz.Rewards
	Logger        *slog.Logger
	Now           func() time.Time
}

// DailyQuizService runs one countdown and one question per period, and keeps a
// quiz session for every player that joined.
type DailyQuizService struct {
	questions    QuestionRepository
	sessions     SessionRepository
	clock        *quiz.Clock
	period       int
	tickInterval time.Duration
	rewards      quiz.Rewards
	logger       *slog.Logger
	now          func() time.Time

	mu      sync.RWMutex
	started bool
	slot    int64
	current domain.Question

	subMu       sync.Mutex
	subscribers map[chan domain.Event]struct{}
}

func NewDailyQuizService(questions QuestionRepository, sessions SessionRepository, opts Options) *DailyQuizService {
	s := &DailyQuizService{
		questions:    questions,
		sessions:     sessions,
		clock:        quiz.NewClock(),
		period:       opts.PeriodSeconds,
		tickInterval: opts.TickInterval,
		rewards:      quiz.DefaultRewards(),
		logger:       opts.Logger,
		now:          opts.Now,
		subscribers:  make(map[chan domain.Event]struct{}),
	}
	if s.period <= 0 {
		s.period = 86400
	}
	if s.tickInterval <= 0 {
		s.tickInterval = time.Second
	}
	if opts.Rewards != nil {
		s.rewards = *opts.Rewards
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Start loads the first question and arms the countdown.
func (s *DailyQuizService) Start(ctx context.Context) error {
	q, err := s.questions.GetQuestion(ctx, 0)
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return err
	}
	if err := s.clock.Start(s.period); err != nil {
		return err
	}

	s.mu.Lock()
	s.started = true
	s.slot = 0
	s.current = q
	s.mu.Unlock()

	s.logger.Info("daily quiz started", "question", q.ID, "period_seconds", s.period)
	return nil
}

// Run ticks the countdown once per tick interval until ctx is done.
func (s *DailyQuizService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	defer s.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Stop halts the countdown. Safe to call more than once.
func (s *DailyQuizService) Stop() {
	s.clock.Stop()
}

// Tick advances the countdown by one second and handles rollover. It reports
// whether the period rolled over.
func (s *DailyQuizService) Tick(ctx context.Context) bool {
	if !s.clock.Running() {
		return false
	}
	if !s.clock.Tick() {
		s.mu.RLock()
		slot := s.slot
		s.mu.RUnlock()
		s.broadcast(domain.Event{Type: domain.EventCountdown, Slot: slot, Countdown: s.clock.Countdown()})
		return false
	}
	s.rollover(ctx)
	return true
}

func (s *DailyQuizService) rollover(ctx context.Context) {
	s.mu.RLock()
	next := s.slot + 1
	s.mu.RUnlock()

	q, err := s.questions.GetQuestion(ctx, next)
	if err == nil {
		err = q.Validate()
	}

	s.mu.Lock()
	if err != nil {
		s.logger.Warn("next question unavailable, repeating current", "slot", next, "error", err)
		q = s.current
	}
	s.slot = next
	s.current = q
	s.sessions.Range(func(ps *PlayerSession) {
		_ = ps.Reset(q)
	})
	s.mu.Unlock()

	s.logger.Info("daily quiz rolled over", "slot", next, "question", q.ID)
	view := q.Public()
	s.broadcast(domain.Event{Type: domain.EventRollover, Slot: next, Countdown: s.clock.Countdown(), Question: &view})
}

// Current returns the public view of the running quiz. Players is filled when
// the session store can count live players.
func (s *DailyQuizService) Current(ctx context.Context) (domain.CurrentQuiz, error) {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return domain.CurrentQuiz{}, domain.ErrNotStarted
	}
	current := domain.CurrentQuiz{
		Slot:      s.slot,
		Question:  s.current.Public(),
		Countdown: s.clock.Countdown(),
	}
	s.mu.RUnlock()

	if counter, ok := s.sessions.(PlayerCounter); ok {
		players, err := counter.ActivePlayers(ctx)
		if err != nil {
			s.logger.Warn("count players", "error", err)
		} else {
			current.Players = players
		}
	}
	return current, nil
}

// Countdown returns the time left until the next rollover.
func (s *DailyQuizService) Countdown() domain.Countdown {
	return s.clock.Countdown()
}

// Join registers a player, or returns the existing state for a returning player.
func (s *DailyQuizService) Join(_ context.Context, playerID string) (domain.AnswerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return domain.AnswerView{}, domain.ErrNotStarted
	}
	if ps, ok := s.sessions.Get(playerID); ok {
		return ps.View(), nil
	}
	ps, err := NewPlayerSession(playerID, s.current, s.rewards, s.now())
	if err != nil {
		return domain.AnswerView{}, err
	}
	s.sessions.Put(ps)
	s.logger.Debug("player joined", "player", playerID, "question", s.current.ID)
	return ps.View(), nil
}

// Select records the player's option. On error the view reflects the unchanged state.
func (s *DailyQuizService) Select(playerID string, option int) (domain.AnswerView, error) {
	ps, err := s.player(playerID)
	if err != nil {
		return domain.AnswerView{}, err
	}
	err = ps.Select(option)
	return ps.View(), err
}

// Submit reveals the player's answer.
func (s *DailyQuizService) Submit(playerID string) (domain.AnswerView, error) {
	ps, err := s.player(playerID)
	if err != nil {
		return domain.AnswerView{}, err
	}
	err = ps.Submit()
	if err == nil {
		points, _ := ps.AwardedPoints()
		s.logger.Debug("answer revealed", "player", playerID, "awarded", points)
	}
	return ps.View(), err
}

// State returns the player's current answer view.
func (s *DailyQuizService) State(playerID string) (domain.AnswerView, error) {
	ps, err := s.player(playerID)
	if err != nil {
		return domain.AnswerView{}, err
	}
	return ps.View(), nil
}

// Leave drops the player's session.
func (s *DailyQuizService) Leave(playerID string) {
	s.sessions.Delete(playerID)
}

func (s *DailyQuizService) player(playerID string) (*PlayerSession, error) {
	ps, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return ps, nil
}

// Subscribe returns a channel that receives countdown and rollover events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *DailyQuizService) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 8)

	s.mu.RLock()
	initial := domain.Event{Type: domain.EventCountdown, Slot: s.slot, Countdown: s.clock.Countdown()}
	s.mu.RUnlock()

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- initial
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *DailyQuizService) broadcast(event domain.Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// drop the oldest event so a slow subscriber never blocks the clock
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
