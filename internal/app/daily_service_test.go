package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/infra/memory"
	"daily-quiz-service/internal/quiz"
)

func TestJoinSelectSubmit(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 60, nil)

	view, err := service.Join(ctx, "u1")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if view.Phase != "unanswered" || view.Progress != 0 || view.Question.ID != "chess" {
		t.Fatalf("unexpected join view %+v", view)
	}

	view, err = service.Select("u1", 1)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if view.Progress != 75 {
		t.Fatalf("expected 75 progress, got %d", view.Progress)
	}

	view, err = service.Submit("u1")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !view.Revealed || view.Correct == nil || !*view.Correct || view.Awarded != 50 {
		t.Fatalf("expected correct reveal with 50 points, got %+v", view)
	}
}

func TestErrorsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 60, nil)

	if _, err := service.Select("ghost", 0); !errors.Is(err, domain.ErrPlayerNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}

	_, _ = service.Join(ctx, "u1")
	view, err := service.Submit("u1")
	if !errors.Is(err, domain.ErrNoSelection) || view.Phase != "unanswered" {
		t.Fatalf("expected no selection error, got %v %+v", err, view)
	}
	view, err = service.Select("u1", 9)
	if !errors.Is(err, domain.ErrInvalidOption) || view.Selection != nil {
		t.Fatalf("expected invalid option error, got %v %+v", err, view)
	}

	_, _ = service.Select("u1", 0)
	_, _ = service.Submit("u1")
	view, err = service.Select("u1", 1)
	if !errors.Is(err, domain.ErrAlreadyRevealed) || *view.Selection != 0 || view.Awarded != 10 {
		t.Fatalf("expected revealed state kept, got %v %+v", err, view)
	}
}

func TestRejoinKeepsState(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 60, nil)

	_, _ = service.Join(ctx, "u1")
	_, _ = service.Select("u1", 2)
	view, err := service.Join(ctx, "u1")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if view.Selection == nil || *view.Selection != 2 {
		t.Fatalf("expected selection kept on rejoin, got %+v", view)
	}
}

func TestCurrentCountsPlayers(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 60, nil)

	current, err := service.Current(ctx)
	if err != nil || current.Players != 0 {
		t.Fatalf("expected no players yet, got %+v (%v)", current, err)
	}
	_, _ = service.Join(ctx, "u1")
	_, _ = service.Join(ctx, "u2")
	_, _ = service.Join(ctx, "u1")
	if current, _ = service.Current(ctx); current.Players != 2 {
		t.Fatalf("expected 2 players, got %d", current.Players)
	}
	service.Leave("u2")
	if current, _ = service.Current(ctx); current.Players != 1 {
		t.Fatalf("expected 1 player after leave, got %d", current.Players)
	}
}

func TestRolloverResetsPlayersAndRotatesQuestion(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 3, nil)

	_, _ = service.Join(ctx, "u1")
	_, _ = service.Select("u1", 1)
	_, _ = service.Submit("u1")

	if service.Tick(ctx) || service.Tick(ctx) {
		t.Fatalf("rolled over too early")
	}
	if service.Countdown().Display != "00:00:01" {
		t.Fatalf("expected 00:00:01, got %s", service.Countdown().Display)
	}
	if !service.Tick(ctx) {
		t.Fatalf("expected rollover on third tick")
	}

	current, err := service.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Slot != 1 || current.Question.ID != "tetris" || current.Countdown.Remaining != 3 {
		t.Fatalf("unexpected current quiz after rollover %+v", current)
	}

	view, _ := service.State("u1")
	if view.Revealed || view.Selection != nil || view.Question.ID != "tetris" {
		t.Fatalf("expected player reset to next question, got %+v", view)
	}
}

func TestRolloverKeepsQuestionWhenLoadFails(t *testing.T) {
	ctx := context.Background()
	loader := &flakyLoader{questions: testQuestions()}
	service := app.NewDailyQuizService(loader, memory.NewSessionStore(), app.Options{
		PeriodSeconds: 1,
		Logger:        discardLogger(),
	})
	if err := service.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _ = service.Join(ctx, "u1")
	_, _ = service.Select("u1", 0)

	loader.fail = true
	if !service.Tick(ctx) {
		t.Fatalf("expected rollover")
	}
	current, _ := service.Current(ctx)
	if current.Question.ID != "chess" || current.Slot != 1 {
		t.Fatalf("expected current question kept, got %+v", current)
	}
	view, _ := service.State("u1")
	if view.Selection != nil {
		t.Fatalf("expected player reset even when question repeats")
	}
}

func TestSubscribeReceivesCountdownAndRollover(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 2, nil)

	ch, cancel := service.Subscribe()
	defer cancel()

	initial := <-ch
	if initial.Type != domain.EventCountdown || initial.Countdown.Remaining != 2 {
		t.Fatalf("unexpected initial event %+v", initial)
	}

	service.Tick(ctx)
	tick := <-ch
	if tick.Type != domain.EventCountdown || tick.Countdown.Display != "00:00:01" {
		t.Fatalf("unexpected countdown event %+v", tick)
	}

	service.Tick(ctx)
	roll := <-ch
	if roll.Type != domain.EventRollover || roll.Question == nil || roll.Question.ID != "tetris" {
		t.Fatalf("unexpected rollover event %+v", roll)
	}
	if roll.Countdown.Remaining != 2 {
		t.Fatalf("expected countdown reset to 2, got %d", roll.Countdown.Remaining)
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 1000, nil)

	ch, cancel := service.Subscribe()
	defer cancel()
	for i := 0; i < 50; i++ {
		service.Tick(ctx)
	}

	var last domain.Event
	for len(ch) > 0 {
		last = <-ch
	}
	if last.Countdown.Remaining != 950 {
		t.Fatalf("expected newest event retained, got %+v", last)
	}
}

func TestStopFreezesCountdown(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, 10, nil)

	service.Tick(ctx)
	service.Stop()
	service.Stop()
	service.Tick(ctx)
	if service.Countdown().Remaining != 9 {
		t.Fatalf("expected frozen countdown at 9, got %d", service.Countdown().Remaining)
	}
}

func TestRunTicksUntilCanceled(t *testing.T) {
	service := newTestService(t, 100, nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch, unsubscribe := service.Subscribe()
	defer unsubscribe()
	<-ch

	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	select {
	case ev := <-ch:
		if ev.Countdown.Remaining >= 100 {
			t.Fatalf("expected countdown to move, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no tick observed")
	}
	cancel()
	<-done
}

func TestCustomRewards(t *testing.T) {
	ctx := context.Background()
	rewards := quiz.Rewards{Correct: 5, Participation: 1}
	service := newTestService(t, 60, &rewards)

	_, _ = service.Join(ctx, "u1")
	_, _ = service.Select("u1", 3)
	view, _ := service.Submit("u1")
	if view.Awarded != 1 {
		t.Fatalf("expected participation reward 1, got %d", view.Awarded)
	}
}

func TestActionsBeforeStart(t *testing.T) {
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(testQuestions()), time.Minute)
	service := app.NewDailyQuizService(questions, memory.NewSessionStore(), app.Options{Logger: discardLogger()})
	if _, err := service.Join(context.Background(), "u1"); !errors.Is(err, domain.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if _, err := service.Current(context.Background()); !errors.Is(err, domain.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if service.Tick(context.Background()) {
		t.Fatalf("unstarted service must not roll over")
	}
}

func newTestService(t *testing.T, period int, rewards *quiz.Rewards) *app.DailyQuizService {
	t.Helper()
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(testQuestions()), 5*time.Minute)
	service := app.NewDailyQuizService(questions, memory.NewSessionStore(), app.Options{
		PeriodSeconds: period,
		TickInterval:  10 * time.Millisecond,
		Rewards:       rewards,
		Logger:        discardLogger(),
	})
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return service
}

func testQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:           "chess",
			Prompt:       "In chess, what is the special move where a king and rook move simultaneously?",
			Options:      []string{"En passant", "Castling", "Promotion", "Zugzwang"},
			CorrectIndex: 1,
			Explanation:  "Castling moves king and rook together.",
		},
		{
			ID:           "tetris",
			Prompt:       "Which genre is Tetris?",
			Options:      []string{"Puzzle", "Shooter", "Racing"},
			CorrectIndex: 0,
		},
	}
}

type flakyLoader struct {
	questions []domain.Question
	fail      bool
}

func (l *flakyLoader) GetQuestion(_ context.Context, slot int64) (domain.Question, error) {
	if l.fail {
		return domain.Question{}, errors.New("backing store down")
	}
	return l.questions[slot%int64(len(l.questions))], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
