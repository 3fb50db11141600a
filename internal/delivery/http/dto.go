package http

import (
	"time"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
)

type initRequest struct {
	GroupID string `json:"group_id"`
}

type reviewRequest struct {
	GroupID string `json:"group_id"`
	Success *bool  `json:"success" binding:"required"`
}

type reviewQueueRequest struct {
	GroupID string   `json:"group_id"`
	WordIDs []string `json:"word_ids" binding:"required"`
}

type reviewQueueResponse struct {
	WordIDs []string `json:"word_ids"`
}

type streakResponse struct {
	StreakDays int `json:"streak_days"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// wordProgressResponse mirrors the user_words row consumed by the web client.
type wordProgressResponse struct {
	UserID       string     `json:"user_id"`
	WordID       string     `json:"word_id"`
	GroupID      string     `json:"group_id,omitempty"`
	Proficiency  int        `json:"proficiency"`
	LastReviewed *time.Time `json:"last_reviewed"`
	NextReview   time.Time  `json:"next_review"`
	ReviewsCount int        `json:"reviews_count"`
}

func newWordProgressResponse(item *entities.LearningItem) wordProgressResponse {
	return wordProgressResponse{
		UserID:       item.UserID,
		WordID:       item.WordID,
		GroupID:      item.GroupID,
		Proficiency:  item.FamiliarityLevel,
		LastReviewed: item.LastReviewedAt,
		NextReview:   item.NextReviewAt,
		ReviewsCount: item.ReviewCount,
	}
}

type progressResponse struct {
	TotalWords       int     `json:"total_words"`
	MasteredWords    int     `json:"mastered_words"`
	LearningWords    int     `json:"learning_words"`
	NewWords         int     `json:"new_words"`
	DueWords         int     `json:"due_words"`
	MasteryPercent   int     `json:"mastery_percent"`
	StreakDays       int     `json:"streak_days"`
	LastPracticeDate *string `json:"last_practice_date"`
}

func newProgressResponse(s *entities.ProgressSummary) progressResponse {
	resp := progressResponse{
		TotalWords:     s.TotalWords,
		MasteredWords:  s.MasteredWords,
		LearningWords:  s.LearningWords,
		NewWords:       s.NewWords,
		DueWords:       s.DueWords,
		MasteryPercent: s.MasteryPercent,
		StreakDays:     s.StreakDays,
	}
	if s.LastPracticeDate != nil {
		d := s.LastPracticeDate.Format(time.DateOnly)
		resp.LastPracticeDate = &d
	}
	return resp
}
