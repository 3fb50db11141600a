// Package memory keeps learning progress in process memory. It is meant for
// tests and single-instance deployments; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
)

type itemKey struct {
	groupID string
	wordID  string
}

// Store implements the progress and streak repositories on top of maps.
// Items are copied on the way in and out.
type Store struct {
	mu      sync.RWMutex
	items   map[string]map[itemKey]*entities.LearningItem // by user id
	streaks map[string]entities.Streak
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		items:   make(map[string]map[itemKey]*entities.LearningItem),
		streaks: make(map[string]entities.Streak),
	}
}

// Save stores item unless the stored copy was reviewed later.
func (s *Store) Save(_ context.Context, item *entities.LearningItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userItems, ok := s.items[item.UserID]
	if !ok {
		userItems = make(map[itemKey]*entities.LearningItem)
		s.items[item.UserID] = userItems
	}

	key := itemKey{groupID: item.GroupID, wordID: item.WordID}
	if !item.Newer(userItems[key]) {
		return false, nil
	}

	userItems[key] = item.Clone()
	return true, nil
}

// Get returns a copy of one item.
func (s *Store) Get(_ context.Context, userID, groupID, wordID string) (*entities.LearningItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[userID][itemKey{groupID: groupID, wordID: wordID}]
	if !ok {
		return nil, entities.ErrItemNotFound
	}

	c := item.Clone()
	c.Normalize()
	return c, nil
}

// Load returns copies of the user's items in one group ordered by word id.
// An empty groupID selects the ungrouped words.
func (s *Store) Load(_ context.Context, userID, groupID string) ([]*entities.LearningItem, error) {
	return s.load(userID, func(key itemKey) bool { return key.groupID == groupID }), nil
}

// LoadAll returns copies of all of the user's items ordered by group and word id.
func (s *Store) LoadAll(_ context.Context, userID string) ([]*entities.LearningItem, error) {
	return s.load(userID, func(itemKey) bool { return true }), nil
}

func (s *Store) load(userID string, match func(itemKey) bool) []*entities.LearningItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*entities.LearningItem
	for key, item := range s.items[userID] {
		if !match(key) {
			continue
		}
		c := item.Clone()
		c.Normalize()
		items = append(items, c)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].GroupID != items[j].GroupID {
			return items[i].GroupID < items[j].GroupID
		}
		return items[i].WordID < items[j].WordID
	})

	return items
}

// CountDueByUser pages through users with due words, ordered by user id.
func (s *Store) CountDueByUser(_ context.Context, now time.Time, limit, offset int) ([]entities.DueCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts []entities.DueCount
	for userID, userItems := range s.items {
		c := entities.DueCount{UserID: userID}
		for _, item := range userItems {
			if !item.IsDue(now) {
				continue
			}
			if c.Due == 0 || item.NextReviewAt.Before(c.Oldest) {
				c.Oldest = item.NextReviewAt
			}
			c.Due++
		}
		if c.Due > 0 {
			counts = append(counts, c)
		}
	}

	sort.Slice(counts, func(i, j int) bool { return counts[i].UserID < counts[j].UserID })

	if offset >= len(counts) {
		return nil, nil
	}
	counts = counts[offset:]
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// GetStreak returns the user's streak or an empty one.
func (s *Store) GetStreak(_ context.Context, userID string) (*entities.Streak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	streak := s.streaks[userID]
	if streak.LastPracticeDate != nil {
		d := *streak.LastPracticeDate
		streak.LastPracticeDate = &d
	}
	return &streak, nil
}

// SaveStreak replaces the user's streak.
func (s *Store) SaveStreak(_ context.Context, userID string, streak *entities.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *streak
	if streak.LastPracticeDate != nil {
		d := *streak.LastPracticeDate
		stored.LastPracticeDate = &d
	}
	s.streaks[userID] = stored
	return nil
}
