package entities

import "time"

// Streak tracks consecutive calendar days with at least one practice action.
type Streak struct {
	StreakDays       int
	LastPracticeDate *time.Time // calendar date as midnight UTC, nil without history
}

// RecordPracticeDay registers practice on today and updates the streak.
//
// Practising twice on the same day does not count twice. Practice on the day after
// the last one extends the streak. Any other gap, including a last date in the
// future, starts a new streak of one day.
func (s *Streak) RecordPracticeDay(today time.Time) {
	today = CalendarDate(today, time.UTC)

	switch {
	case s.LastPracticeDate == nil:
		s.StreakDays = 1
	case s.LastPracticeDate.Equal(today):
		if s.StreakDays < 1 {
			s.StreakDays = 1
		}
	case s.LastPracticeDate.Equal(today.AddDate(0, 0, -1)):
		s.StreakDays++
	default:
		s.StreakDays = 1
	}

	s.LastPracticeDate = &today
}

// CalendarDate returns the civil date of t in loc as midnight UTC,
// so that dates compare with Equal regardless of the zone they came from.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProgressSummary is derived from all learning items of a user and their streak.
type ProgressSummary struct {
	TotalWords     int
	MasteredWords  int // familiarity >= 4
	LearningWords  int // familiarity 1..3
	NewWords       int // familiarity 0
	DueWords       int
	MasteryPercent int

	StreakDays       int
	LastPracticeDate *time.Time
}

// Summarize computes progress statistics for a user's learning items.
func Summarize(items []*LearningItem, streak Streak, now time.Time) ProgressSummary {
	summary := ProgressSummary{
		TotalWords:       len(items),
		StreakDays:       streak.StreakDays,
		LastPracticeDate: streak.LastPracticeDate,
	}

	for _, item := range items {
		switch item.Phase() {
		case PhaseMastered:
			summary.MasteredWords++
		case PhaseLearning:
			summary.LearningWords++
		default:
			summary.NewWords++
		}
		if item.IsDue(now) {
			summary.DueWords++
		}
	}

	summary.MasteryPercent = percentRoundHalfUp(summary.MasteredWords, summary.TotalWords)
	return summary
}

func percentRoundHalfUp(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (total * 2)
}
