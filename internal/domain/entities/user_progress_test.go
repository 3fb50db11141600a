package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordPracticeDay(t *testing.T) {
	today := date(2025, 3, 10)

	tests := []struct {
		name     string
		last     *time.Time
		streak   int
		expected int
	}{
		{"no history", nil, 0, 1},
		{"same day", ptr(today), 4, 4},
		{"yesterday", ptr(today.AddDate(0, 0, -1)), 4, 5},
		{"three days ago", ptr(today.AddDate(0, 0, -3)), 9, 1},
		{"two days ago", ptr(today.AddDate(0, 0, -2)), 2, 1},
		{"future date", ptr(today.AddDate(0, 0, 2)), 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Streak{StreakDays: tt.streak, LastPracticeDate: tt.last}
			s.RecordPracticeDay(today.Add(15 * time.Hour))

			assert.Equal(t, tt.expected, s.StreakDays)
			require.NotNil(t, s.LastPracticeDate)
			assert.True(t, s.LastPracticeDate.Equal(today))
		})
	}
}

func TestRecordPracticeDay_AcrossMonth(t *testing.T) {
	s := Streak{StreakDays: 2, LastPracticeDate: ptr(date(2025, 2, 28))}

	s.RecordPracticeDay(date(2025, 3, 1))
	assert.Equal(t, 3, s.StreakDays)

	s.RecordPracticeDay(date(2025, 3, 1))
	assert.Equal(t, 3, s.StreakDays)
}

func TestCalendarDate(t *testing.T) {
	riyadh := time.FixedZone("UTC+03:00", 3*3600)
	instant := time.Date(2025, 3, 9, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, date(2025, 3, 9), CalendarDate(instant, time.UTC))
	assert.Equal(t, date(2025, 3, 10), CalendarDate(instant, riyadh))
	assert.Equal(t, date(2025, 3, 9), CalendarDate(instant, nil))
}

func TestSummarize(t *testing.T) {
	now := t0
	items := []*LearningItem{
		{WordID: "a", FamiliarityLevel: 0, NextReviewAt: now},
		{WordID: "b", FamiliarityLevel: 1, NextReviewAt: now.Add(time.Hour)},
		{WordID: "c", FamiliarityLevel: 3, NextReviewAt: now.Add(-time.Hour)},
		{WordID: "d", FamiliarityLevel: 4, NextReviewAt: now.Add(time.Hour)},
		{WordID: "e", FamiliarityLevel: 5, NextReviewAt: now.Add(time.Hour)},
		{WordID: "f", FamiliarityLevel: 5, NextReviewAt: now.Add(time.Hour)},
		{WordID: "g", FamiliarityLevel: 2, NextReviewAt: now.Add(time.Hour)},
		{WordID: "h", FamiliarityLevel: 0, NextReviewAt: now.Add(time.Hour)},
	}
	last := date(2025, 2, 28)

	summary := Summarize(items, Streak{StreakDays: 3, LastPracticeDate: &last}, now)

	assert.Equal(t, 8, summary.TotalWords)
	assert.Equal(t, 3, summary.MasteredWords)
	assert.Equal(t, 3, summary.LearningWords)
	assert.Equal(t, 2, summary.NewWords)
	assert.Equal(t, 2, summary.DueWords)
	assert.Equal(t, 38, summary.MasteryPercent) // 37.5 rounds up
	assert.Equal(t, 3, summary.StreakDays)
	assert.Equal(t, &last, summary.LastPracticeDate)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, Streak{}, t0)

	assert.Equal(t, 0, summary.TotalWords)
	assert.Equal(t, 0, summary.MasteryPercent)
	assert.Nil(t, summary.LastPracticeDate)
}

func TestPercentRoundHalfUp(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{0, 7, 0},
		{1, 8, 13},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1},
		{1, 201, 0},
		{5, 5, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, percentRoundHalfUp(tt.part, tt.total), "%d/%d", tt.part, tt.total)
	}
}

func ptr[T any](v T) *T {
	return &v
}
