package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/infra/postgres"
)

// ProgressRepository provides access to per-word learning progress in user_words.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const selectItemColumns = `
	SELECT user_id, word_id, group_id, proficiency, last_reviewed, next_review, reviews_count
	FROM user_words
`

// Save upserts an item. A row that was reviewed later than item is left untouched
// and Save reports applied = false.
func (r *ProgressRepository) Save(ctx context.Context, item *entities.LearningItem) (bool, error) {
	query := `
		INSERT INTO user_words (
			user_id, word_id, group_id, proficiency, last_reviewed, next_review, reviews_count, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id, word_id, group_id) DO UPDATE SET
			proficiency = EXCLUDED.proficiency,
			last_reviewed = EXCLUDED.last_reviewed,
			next_review = EXCLUDED.next_review,
			reviews_count = EXCLUDED.reviews_count,
			updated_at = NOW()
		WHERE user_words.last_reviewed IS NULL
		   OR (EXCLUDED.last_reviewed IS NOT NULL AND EXCLUDED.last_reviewed >= user_words.last_reviewed)
		RETURNING true
	`

	var applied bool
	err := r.db.QueryRow(
		ctx,
		query,
		item.UserID,
		item.WordID,
		item.GroupID,
		item.FamiliarityLevel,
		item.LastReviewedAt,
		item.NextReviewAt,
		item.ReviewCount,
	).Scan(&applied)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("save progress: %w", err)
	}

	return applied, nil
}

// Get retrieves the progress of one word.
func (r *ProgressRepository) Get(ctx context.Context, userID, groupID, wordID string) (*entities.LearningItem, error) {
	query := selectItemColumns + `WHERE user_id = $1 AND group_id = $2 AND word_id = $3`

	item, err := scanItem(r.db.QueryRow(ctx, query, userID, groupID, wordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrItemNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	return item, nil
}

// Load retrieves the items of one group. An empty groupID selects the
// ungrouped words.
func (r *ProgressRepository) Load(ctx context.Context, userID, groupID string) ([]*entities.LearningItem, error) {
	query := selectItemColumns + `
		WHERE user_id = $1 AND group_id = $2
		ORDER BY word_id
	`

	return r.query(ctx, query, userID, groupID)
}

// LoadAll retrieves the items of every group.
func (r *ProgressRepository) LoadAll(ctx context.Context, userID string) ([]*entities.LearningItem, error) {
	query := selectItemColumns + `
		WHERE user_id = $1
		ORDER BY group_id, word_id
	`

	return r.query(ctx, query, userID)
}

func (r *ProgressRepository) query(ctx context.Context, query string, args ...any) ([]*entities.LearningItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	var items []*entities.LearningItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CountDueByUser pages through users that have words due at now.
func (r *ProgressRepository) CountDueByUser(ctx context.Context, now time.Time, limit, offset int) ([]entities.DueCount, error) {
	query := `
		SELECT user_id, COUNT(*), MIN(next_review)
		FROM user_words
		WHERE next_review <= $1
		GROUP BY user_id
		ORDER BY user_id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, now, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("count due by user: %w", err)
	}
	defer rows.Close()

	counts := make([]entities.DueCount, 0, limit)
	for rows.Next() {
		var c entities.DueCount
		if err := rows.Scan(&c.UserID, &c.Due, &c.Oldest); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func scanItem(row pgx.Row) (*entities.LearningItem, error) {
	var item entities.LearningItem
	err := row.Scan(
		&item.UserID,
		&item.WordID,
		&item.GroupID,
		&item.FamiliarityLevel,
		&item.LastReviewedAt,
		&item.NextReviewAt,
		&item.ReviewCount,
	)
	if err != nil {
		return nil, err
	}

	// Partially written rows are clamped rather than rejected.
	item.Normalize()
	return &item, nil
}
