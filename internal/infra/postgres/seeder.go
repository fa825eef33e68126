package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"daily-quiz-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type questionRow struct {
	bun.BaseModel `bun:"table:daily_questions"`

	ID       string          `bun:"id,pk"`
	Position int             `bun:"position,notnull,unique"`
	Data     domain.Question `bun:"data,type:jsonb"`
}

// OpenDB opens a bun handle over the pg driver.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Seeder replaces the question bank in daily_questions, keeping bank order as
// rotation order. Questions missing from the bank are removed.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

func (s *Seeder) Seed(ctx context.Context, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, domain.ErrQuestionNotFound
	}
	rows := make([]questionRow, 0, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return 0, fmt.Errorf("question %q: %w", q.ID, err)
		}
		rows = append(rows, questionRow{ID: q.ID, Position: i, Data: q})
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*questionRow)(nil)).
			Where("id NOT IN (?)", bun.In(ids)).
			Exec(ctx); err != nil {
			return fmt.Errorf("prune questions: %w", err)
		}
		// position is unique and checked per row: park survivors on negative positions first
		if _, err := tx.NewUpdate().
			Model((*questionRow)(nil)).
			Set("position = -position - 1").
			Where("position >= 0").
			Exec(ctx); err != nil {
			return fmt.Errorf("park positions: %w", err)
		}
		if _, err := tx.NewInsert().
			Model(&rows).
			On("CONFLICT (id) DO UPDATE").
			Set("position = EXCLUDED.position").
			Set("data = EXCLUDED.data").
			Exec(ctx); err != nil {
			return fmt.Errorf("seed questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
