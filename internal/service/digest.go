package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/realtime"
)

const (
	DefaultDigestSchedule = "0 * * * *"

	digestBatchSize     = 100
	digestMaxConcurrent = 10
)

// ReviewDigestService periodically tells users that words are waiting for review.
type ReviewDigestService struct {
	progress  ProgressRepository
	publisher EventPublisher
	logger    *zap.Logger
	schedule  string
	now       func() time.Time
}

// NewReviewDigestService creates a digest job. An empty schedule means hourly.
func NewReviewDigestService(progress ProgressRepository, publisher EventPublisher, schedule string, logger *zap.Logger) *ReviewDigestService {
	if schedule == "" {
		schedule = DefaultDigestSchedule
	}
	return &ReviewDigestService{
		progress:  progress,
		publisher: publisher,
		logger:    logger,
		schedule:  schedule,
		now:       time.Now,
	}
}

// Start runs the schedule until ctx is cancelled.
func (s *ReviewDigestService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: publishing review digests")
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("failed to publish review digests", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	c.Start()
	s.logger.Info("review digest started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("review digest stopped")
	return nil
}

// RunOnce publishes a review.due event for every user with due words and
// returns how many were published.
func (s *ReviewDigestService) RunOnce(ctx context.Context) (int, error) {
	now := s.now().UTC()
	offset := 0
	total := 0

	for {
		counts, err := s.progress.CountDueByUser(ctx, now, digestBatchSize, offset)
		if err != nil {
			return total, fmt.Errorf("count due by user: %w", err)
		}
		if len(counts) == 0 {
			break
		}

		total += s.processBatch(ctx, counts, now)

		if len(counts) < digestBatchSize {
			break
		}
		offset += digestBatchSize
	}

	s.logger.Info("review digests published", zap.Int("total_sent", total))
	return total, nil
}

func (s *ReviewDigestService) processBatch(ctx context.Context, counts []entities.DueCount, now time.Time) int {
	sem := make(chan struct{}, digestMaxConcurrent)
	var wg sync.WaitGroup
	var sent atomic.Int64

	for _, c := range counts {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ev, err := realtime.NewEvent(realtime.EventReviewDue, c.UserID, entities.NewReviewDuePayload(c), now)
			if err == nil {
				err = s.publisher.Publish(ctx, ev)
			}
			if err != nil {
				s.logger.Error("failed to publish review digest",
					zap.String("user_id", c.UserID),
					zap.Error(err))
				return
			}
			sent.Add(1)
		}()
	}

	wg.Wait()
	return int(sent.Load())
}
