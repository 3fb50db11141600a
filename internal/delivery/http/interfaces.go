package http

import (
	"context"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/realtime"
)

type ProgressService interface {
	Initialize(ctx context.Context, userID, groupID, wordID string) (*entities.LearningItem, error)
	UpdateWordProgress(ctx context.Context, userID, groupID, wordID string, success bool) (*entities.LearningItem, error)
	GetWordsForReview(ctx context.Context, userID, groupID string, candidates []string) ([]string, error)
	GetUserProgress(ctx context.Context, userID string) (*entities.ProgressSummary, error)
	UpdateUserStreak(ctx context.Context, userID string) (int, error)
}

// EventStream hands out per-user event subscriptions.
type EventStream interface {
	Subscribe(userID string) (<-chan realtime.Event, func())
}
