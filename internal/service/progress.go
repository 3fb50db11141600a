package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/realtime"
)

// ProgressService applies review outcomes and streaks on top of a pluggable store.
type ProgressService struct {
	progress  ProgressRepository
	streaks   StreakRepository
	publisher EventPublisher
	logger    *zap.Logger

	batchSize int
	location  *time.Location
	now       func() time.Time
}

// Option customises a ProgressService.
type Option func(*ProgressService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressService) { s.now = now }
}

// WithReviewBatchSize sets how many words a review queue is topped up to.
func WithReviewBatchSize(n int) Option {
	return func(s *ProgressService) { s.batchSize = n }
}

// WithLocation sets the zone that decides the calendar day of a practice.
func WithLocation(loc *time.Location) Option {
	return func(s *ProgressService) {
		if loc != nil {
			s.location = loc
		}
	}
}

func NewProgressService(
	progress ProgressRepository,
	streaks StreakRepository,
	publisher EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *ProgressService {
	s := &ProgressService{
		progress:  progress,
		streaks:   streaks,
		publisher: publisher,
		logger:    logger,
		batchSize: entities.DefaultReviewBatchSize,
		location:  time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = realtime.NopBus{}
	}
	return s
}

// Initialize returns the progress of a word, creating it on first sight.
// Existing progress is never reset.
func (s *ProgressService) Initialize(ctx context.Context, userID, groupID, wordID string) (*entities.LearningItem, error) {
	item, err := s.progress.Get(ctx, userID, groupID, wordID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, entities.ErrItemNotFound) {
		s.logger.Error("failed to get word progress", zap.String("user_id", userID), zap.String("word_id", wordID), zap.Error(err))
		return nil, fmt.Errorf("get progress: %w", err)
	}

	item = entities.NewLearningItem(userID, groupID, wordID, s.now())
	return s.save(ctx, item)
}

// UpdateWordProgress records the outcome of one review and returns the updated item.
// Unknown words are initialised first.
func (s *ProgressService) UpdateWordProgress(ctx context.Context, userID, groupID, wordID string, success bool) (*entities.LearningItem, error) {
	now := s.now()

	item, err := s.progress.Get(ctx, userID, groupID, wordID)
	switch {
	case errors.Is(err, entities.ErrItemNotFound):
		item = entities.NewLearningItem(userID, groupID, wordID, now)
	case err != nil:
		s.logger.Error("failed to get word progress", zap.String("user_id", userID), zap.String("word_id", wordID), zap.Error(err))
		return nil, fmt.Errorf("get progress: %w", err)
	}

	item.ApplyReview(success, now)

	item, err = s.save(ctx, item)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.EventWordProgressUpdated, item.UserID, item.WordID, item.GroupID, wordProgressPayload{
		FamiliarityLevel: item.FamiliarityLevel,
		NextReviewAt:     item.NextReviewAt,
		ReviewCount:      item.ReviewCount,
	})

	s.logger.Debug("review recorded",
		zap.String("user_id", userID),
		zap.String("word_id", wordID),
		zap.Bool("success", success),
		zap.Int("familiarity", item.FamiliarityLevel),
	)

	return item, nil
}

// GetWordsForReview selects which of the candidate words to practise now.
func (s *ProgressService) GetWordsForReview(ctx context.Context, userID, groupID string, candidates []string) ([]string, error) {
	items, err := s.progress.Load(ctx, userID, groupID)
	if err != nil {
		s.logger.Error("failed to load progress", zap.String("user_id", userID), zap.String("group_id", groupID), zap.Error(err))
		return nil, fmt.Errorf("load progress: %w", err)
	}

	return entities.SelectDueItems(candidates, entities.IndexByWord(items), s.now(), s.batchSize), nil
}

// GetUserProgress derives the progress summary from all of the user's words.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID string) (*entities.ProgressSummary, error) {
	items, err := s.progress.LoadAll(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load progress", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("load progress: %w", err)
	}

	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get streak", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("get streak: %w", err)
	}

	summary := entities.Summarize(items, *streak, s.now())
	return &summary, nil
}

// UpdateUserStreak registers practice today and returns the current streak length.
func (s *ProgressService) UpdateUserStreak(ctx context.Context, userID string) (int, error) {
	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get streak", zap.String("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("get streak: %w", err)
	}

	streak.RecordPracticeDay(entities.CalendarDate(s.now(), s.location))

	if err := s.streaks.SaveStreak(ctx, userID, streak); err != nil {
		s.logger.Error("failed to save streak", zap.String("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("save streak: %w", err)
	}

	s.publish(ctx, realtime.EventStreakUpdated, userID, "", "", streakPayload{StreakDays: streak.StreakDays})

	return streak.StreakDays, nil
}

// save writes item. When a newer review from another session is already stored,
// the stored item is returned instead.
func (s *ProgressService) save(ctx context.Context, item *entities.LearningItem) (*entities.LearningItem, error) {
	applied, err := s.progress.Save(ctx, item)
	if err != nil {
		s.logger.Error("failed to save word progress", zap.String("user_id", item.UserID), zap.String("word_id", item.WordID), zap.Error(err))
		return nil, fmt.Errorf("save progress: %w", err)
	}
	if applied {
		return item, nil
	}

	s.logger.Warn("newer progress already stored",
		zap.String("user_id", item.UserID),
		zap.String("word_id", item.WordID),
	)

	current, err := s.progress.Get(ctx, item.UserID, item.GroupID, item.WordID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return current, nil
}

func (s *ProgressService) publish(ctx context.Context, typ realtime.EventType, userID, wordID, groupID string, payload any) {
	ev, err := realtime.NewEvent(typ, userID, payload, s.now())
	if err != nil {
		s.logger.Error("failed to build event", zap.String("type", string(typ)), zap.Error(err))
		return
	}
	ev.WordID = wordID
	ev.GroupID = groupID

	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", string(typ)),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

type wordProgressPayload struct {
	FamiliarityLevel int       `json:"familiarity_level"`
	NextReviewAt     time.Time `json:"next_review_at"`
	ReviewCount      int       `json:"review_count"`
}

type streakPayload struct {
	StreakDays int `json:"streak_days"`
}
