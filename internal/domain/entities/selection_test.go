package entities

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reviewed(wordID string, next time.Time) *LearningItem {
	last := next.Add(-time.Hour)
	return &LearningItem{WordID: wordID, FamiliarityLevel: 2, ReviewCount: 3, LastReviewedAt: &last, NextReviewAt: next}
}

func unseen(wordID string, next time.Time) *LearningItem {
	return &LearningItem{WordID: wordID, NextReviewAt: next}
}

func TestSelectDueItems_Backfill(t *testing.T) {
	now := t0
	later := now.Add(24 * time.Hour)

	candidates := make([]string, 10)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("w%d", i)
	}

	items := IndexByWord([]*LearningItem{
		reviewed("w0", later),
		reviewed("w1", later),
		reviewed("w2", now.Add(-time.Minute)),
		unseen("w3", later),
		reviewed("w4", later),
		reviewed("w5", later),
		unseen("w6", later),
		reviewed("w7", now),
		unseen("w8", later),
		reviewed("w9", later),
	})

	got := SelectDueItems(candidates, items, now, DefaultReviewBatchSize)

	assert.Equal(t, []string{"w2", "w7", "w3", "w6", "w8"}, got)
}

func TestSelectDueItems_EnoughDue(t *testing.T) {
	now := t0
	past := now.Add(-time.Hour)

	candidates := []string{"a", "b", "c", "d", "e", "f", "g"}
	items := map[string]*LearningItem{}
	for _, id := range candidates[:6] {
		items[id] = reviewed(id, past)
	}

	got := SelectDueItems(candidates, items, now, DefaultReviewBatchSize)

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, got)
}

func TestSelectDueItems_MissingItemsBackfillButAreNotDue(t *testing.T) {
	now := t0

	got := SelectDueItems([]string{"x", "y", "z", "q", "r", "s", "t"}, nil, now, DefaultReviewBatchSize)

	assert.Equal(t, []string{"x", "y", "z", "q", "r"}, got)
}

func TestSelectDueItems_NewDueItemIsCountedOnce(t *testing.T) {
	now := t0
	items := IndexByWord([]*LearningItem{
		unseen("a", now),
		unseen("b", now.Add(time.Hour)),
	})

	got := SelectDueItems([]string{"b", "a", "a"}, items, now, DefaultReviewBatchSize)

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSelectDueItems_NoBackfillWhenDisabled(t *testing.T) {
	now := t0
	items := IndexByWord([]*LearningItem{reviewed("a", now.Add(-time.Hour))})

	got := SelectDueItems([]string{"a", "b", "c"}, items, now, 0)

	assert.Equal(t, []string{"a"}, got)
}

func TestSelectDueItems_NothingAvailable(t *testing.T) {
	now := t0
	items := IndexByWord([]*LearningItem{reviewed("a", now.Add(time.Hour))})

	got := SelectDueItems([]string{"a"}, items, now, DefaultReviewBatchSize)

	assert.Empty(t, got)
}
