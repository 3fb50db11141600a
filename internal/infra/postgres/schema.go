package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schema creates the tables owned by the progress engine. Every statement is
// idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_words (
		user_id       TEXT        NOT NULL,
		word_id       TEXT        NOT NULL,
		group_id      TEXT        NOT NULL DEFAULT '',
		proficiency   SMALLINT    NOT NULL DEFAULT 0,
		last_reviewed TIMESTAMPTZ,
		next_review   TIMESTAMPTZ NOT NULL,
		reviews_count INTEGER     NOT NULL DEFAULT 0,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, word_id, group_id)
	)`,
	`CREATE INDEX IF NOT EXISTS user_words_due_idx ON user_words (next_review)`,
	`CREATE TABLE IF NOT EXISTS user_streaks (
		user_id            TEXT        PRIMARY KEY,
		streak_days        INTEGER     NOT NULL DEFAULT 0,
		last_practice_date DATE,
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema in a single transaction.
func (t *Transactor) Migrate(ctx context.Context) error {
	return t.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}
