package service

import (
	"context"
	"time"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/realtime"
)

// ProgressRepository persists learning items. Implementations clamp malformed
// rows on read and resolve concurrent writes by last review time.
// Load returns exactly one group, where "" is the ungrouped words; LoadAll
// returns every group.
type ProgressRepository interface {
	Load(ctx context.Context, userID, groupID string) ([]*entities.LearningItem, error)
	LoadAll(ctx context.Context, userID string) ([]*entities.LearningItem, error)
	Get(ctx context.Context, userID, groupID, wordID string) (*entities.LearningItem, error)
	Save(ctx context.Context, item *entities.LearningItem) (bool, error)
	CountDueByUser(ctx context.Context, now time.Time, limit, offset int) ([]entities.DueCount, error)
}

// StreakRepository persists practice streaks.
type StreakRepository interface {
	GetStreak(ctx context.Context, userID string) (*entities.Streak, error)
	SaveStreak(ctx context.Context, userID string, streak *entities.Streak) error
}

// EventPublisher notifies other sessions of the same user about changes.
type EventPublisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}
