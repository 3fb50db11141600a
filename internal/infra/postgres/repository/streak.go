package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/infra/postgres"
)

// StreakRepository provides access to practice streaks in user_streaks.
type StreakRepository struct {
	db postgres.DBTX
}

// NewStreakRepository creates a new StreakRepository.
func NewStreakRepository(db postgres.DBTX) *StreakRepository {
	return &StreakRepository{db: db}
}

// GetStreak returns the streak of a user, or an empty streak when none is stored.
func (r *StreakRepository) GetStreak(ctx context.Context, userID string) (*entities.Streak, error) {
	query := `
		SELECT streak_days, last_practice_date
		FROM user_streaks
		WHERE user_id = $1
	`

	var streak entities.Streak
	var last pgtype.Date

	err := r.db.QueryRow(ctx, query, userID).Scan(&streak.StreakDays, &last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entities.Streak{}, nil
		}
		return nil, fmt.Errorf("get streak: %w", err)
	}

	if last.Valid {
		d := entities.CalendarDate(last.Time, nil)
		streak.LastPracticeDate = &d
	}
	if streak.StreakDays < 0 {
		streak.StreakDays = 0
	}

	return &streak, nil
}

// SaveStreak creates or replaces the streak of a user.
func (r *StreakRepository) SaveStreak(ctx context.Context, userID string, streak *entities.Streak) error {
	query := `
		INSERT INTO user_streaks (user_id, streak_days, last_practice_date, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			streak_days = EXCLUDED.streak_days,
			last_practice_date = EXCLUDED.last_practice_date,
			updated_at = NOW()
	`

	var last pgtype.Date
	if streak.LastPracticeDate != nil {
		last = pgtype.Date{Time: *streak.LastPracticeDate, Valid: true}
	}

	if _, err := r.db.Exec(ctx, query, userID, streak.StreakDays, last); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}

	return nil
}
