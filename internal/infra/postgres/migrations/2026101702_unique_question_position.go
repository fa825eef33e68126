package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0002_unique_question_position.sql
var uniqueQuestionPositionSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, uniqueQuestionPositionSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
ALTER TABLE daily_questions DROP CONSTRAINT IF EXISTS daily_questions_position_key;
CREATE INDEX IF NOT EXISTS daily_questions_position_idx ON daily_questions (position);`)
			return err
		},
	)
}
