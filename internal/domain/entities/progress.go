package entities

import "time"

const (
	MinFamiliarity      = 0 // unseen or just missed
	MaxFamiliarity      = 5 // fully mastered
	MasteredFamiliarity = 4 // lowest level counted as mastered
)

// ReviewIntervals maps a familiarity level to the delay before the next review.
var ReviewIntervals = [MaxFamiliarity + 1]time.Duration{
	1 * time.Hour,
	6 * time.Hour,
	24 * time.Hour,
	72 * time.Hour,
	168 * time.Hour,
	336 * time.Hour,
}

// Phase represents a learning phase of a word derived from its familiarity level.
type Phase string

const (
	PhaseNew      Phase = "new"      // level 0
	PhaseLearning Phase = "learning" // levels 1-3
	PhaseMastered Phase = "mastered" // levels 4-5
)

// LearningItem stores the learning progress of a user for a specific vocabulary word.
type LearningItem struct {
	UserID  string
	WordID  string
	GroupID string // learning path id, empty when the word is not grouped

	FamiliarityLevel int        // 0..5
	LastReviewedAt   *time.Time // nil until the first review
	NextReviewAt     time.Time
	ReviewCount      int
}

// NewLearningItem creates a LearningItem for a word the user has never seen.
// The word is due immediately.
func NewLearningItem(userID, groupID, wordID string, now time.Time) *LearningItem {
	return &LearningItem{
		UserID:           userID,
		WordID:           wordID,
		GroupID:          groupID,
		FamiliarityLevel: MinFamiliarity,
		NextReviewAt:     now,
	}
}

// ApplyReview updates the spaced repetition state after the user answers.
//
// A successful answer raises the familiarity level by one, a failed answer lowers it
// by one, both clamped to [MinFamiliarity, MaxFamiliarity]. The next review is then
// scheduled from now using the interval of the new level.
func (i *LearningItem) ApplyReview(success bool, now time.Time) {
	i.LastReviewedAt = &now
	i.ReviewCount++

	if success {
		i.FamiliarityLevel = min(MaxFamiliarity, i.FamiliarityLevel+1)
	} else {
		i.FamiliarityLevel = max(MinFamiliarity, i.FamiliarityLevel-1)
	}

	i.NextReviewAt = now.Add(ReviewInterval(i.FamiliarityLevel))
}

// Normalize clamps values that arrived out of range from storage.
func (i *LearningItem) Normalize() {
	i.FamiliarityLevel = clampFamiliarity(i.FamiliarityLevel)
	if i.ReviewCount < 0 {
		i.ReviewCount = 0
	}
}

// IsDue reports whether the word should be reviewed at now.
func (i *LearningItem) IsDue(now time.Time) bool {
	return !i.NextReviewAt.After(now)
}

// IsNew reports whether the word has never been reviewed.
func (i *LearningItem) IsNew() bool {
	return i.ReviewCount == 0
}

// Phase classifies the item by familiarity level.
func (i *LearningItem) Phase() Phase {
	switch {
	case i.FamiliarityLevel >= MasteredFamiliarity:
		return PhaseMastered
	case i.FamiliarityLevel > MinFamiliarity:
		return PhaseLearning
	default:
		return PhaseNew
	}
}

// Newer reports whether i should overwrite stored when both describe the same word.
// Writes are ordered by LastReviewedAt; a missing timestamp is the oldest, and on
// a tie the incoming write wins.
func (i *LearningItem) Newer(stored *LearningItem) bool {
	if stored == nil || stored.LastReviewedAt == nil {
		return true
	}
	if i.LastReviewedAt == nil {
		return false
	}
	return !i.LastReviewedAt.Before(*stored.LastReviewedAt)
}

// Clone returns a deep copy of the item.
func (i *LearningItem) Clone() *LearningItem {
	c := *i
	if i.LastReviewedAt != nil {
		t := *i.LastReviewedAt
		c.LastReviewedAt = &t
	}
	return &c
}

// ReviewInterval returns the delay before the next review for a familiarity level.
func ReviewInterval(level int) time.Duration {
	return ReviewIntervals[clampFamiliarity(level)]
}

func clampFamiliarity(level int) int {
	return min(MaxFamiliarity, max(MinFamiliarity, level))
}
