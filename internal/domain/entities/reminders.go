package entities

import "time"

// DueCount is the number of words due for one user at a point in time.
type DueCount struct {
	UserID string
	Due    int
	Oldest time.Time // earliest next review among the due words
}

// ReviewDuePayload is published to a user when words are waiting for review.
type ReviewDuePayload struct {
	DueWords int       `json:"due_words"`
	Since    time.Time `json:"since"`
}

// NewReviewDuePayload builds the payload for a due count.
func NewReviewDuePayload(c DueCount) ReviewDuePayload {
	return ReviewDuePayload{
		DueWords: c.Due,
		Since:    c.Oldest.UTC(),
	}
}
