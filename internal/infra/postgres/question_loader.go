package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"daily-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionLoader loads question JSONB from Postgres, rotating through the bank by position.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestion(ctx context.Context, slot int64) (domain.Question, error) {
	var count int64
	if err := l.pool.QueryRow(ctx, `SELECT count(*) FROM daily_questions`).Scan(&count); err != nil {
		return domain.Question{}, fmt.Errorf("count questions: %w", err)
	}
	if count == 0 {
		return domain.Question{}, domain.ErrQuestionNotFound
	}

	var raw []byte
	err := l.pool.QueryRow(ctx,
		`SELECT data FROM daily_questions ORDER BY position, id LIMIT 1 OFFSET $1`,
		rotate(slot, count),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}

	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal question: %w", err)
	}
	return q, nil
}

// rotate maps a slot onto [0, count).
func rotate(slot, count int64) int64 {
	offset := slot % count
	if offset < 0 {
		offset += count
	}
	return offset
}
