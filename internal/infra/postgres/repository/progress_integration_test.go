//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/kalimat/internal/domain/entities"
	"github.com/aliskhannn/kalimat/internal/infra/postgres"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infra/postgres/...

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.NewTransactor(pool).Migrate(ctx))
	return pool
}

func TestProgressRepository_SaveLastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(setupPool(t))
	userID := uuid.NewString()

	applied, err := repo.Save(ctx, entities.NewLearningItem(userID, "", "kitab", t0))
	require.NoError(t, err)
	assert.True(t, applied)

	newer := entities.NewLearningItem(userID, "", "kitab", t0)
	newer.ApplyReview(true, t0.Add(time.Hour))
	newer.ApplyReview(true, t0.Add(2*time.Hour))
	applied, err = repo.Save(ctx, newer)
	require.NoError(t, err)
	assert.True(t, applied)

	stale := entities.NewLearningItem(userID, "", "kitab", t0)
	stale.ApplyReview(false, t0.Add(time.Hour))
	applied, err = repo.Save(ctx, stale)
	require.NoError(t, err)
	assert.False(t, applied)

	// An unreviewed initialisation never overwrites real progress.
	applied, err = repo.Save(ctx, entities.NewLearningItem(userID, "", "kitab", t0))
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := repo.Get(ctx, userID, "", "kitab")
	require.NoError(t, err)
	assert.Equal(t, 2, got.FamiliarityLevel)
	assert.Equal(t, 2, got.ReviewCount)
	require.NotNil(t, got.LastReviewedAt)
	assert.True(t, got.LastReviewedAt.Equal(t0.Add(2*time.Hour)))
	assert.True(t, got.NextReviewAt.Equal(t0.Add(2*time.Hour+24*time.Hour)))

	// Equal review times go to the incoming write.
	tie := got.Clone()
	tie.ReviewCount = 7
	applied, err = repo.Save(ctx, tie)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestProgressRepository_GetMissing(t *testing.T) {
	repo := NewProgressRepository(setupPool(t))

	_, err := repo.Get(context.Background(), uuid.NewString(), "", "nothing")
	assert.ErrorIs(t, err, entities.ErrItemNotFound)
}

func TestProgressRepository_LoadScopesGroups(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(setupPool(t))
	userID := uuid.NewString()

	for _, it := range []*entities.LearningItem{
		entities.NewLearningItem(userID, "", "a", t0),
		entities.NewLearningItem(userID, "z", "a", t0),
		entities.NewLearningItem(userID, "z", "b", t0),
	} {
		_, err := repo.Save(ctx, it)
		require.NoError(t, err)
	}

	ungrouped, err := repo.Load(ctx, userID, "")
	require.NoError(t, err)
	require.Len(t, ungrouped, 1)
	assert.Equal(t, "", ungrouped[0].GroupID)

	group, err := repo.Load(ctx, userID, "z")
	require.NoError(t, err)
	assert.Len(t, group, 2)

	all, err := repo.LoadAll(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProgressRepository_ClampsMalformedRows(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(t)
	repo := NewProgressRepository(pool)
	userID := uuid.NewString()

	_, err := pool.Exec(ctx, `
		INSERT INTO user_words (user_id, word_id, group_id, proficiency, next_review, reviews_count)
		VALUES ($1, 'qalam', '', 9, $2, -3)
	`, userID, t0)
	require.NoError(t, err)

	got, err := repo.Get(ctx, userID, "", "qalam")
	require.NoError(t, err)
	assert.Equal(t, entities.MaxFamiliarity, got.FamiliarityLevel)
	assert.Equal(t, 0, got.ReviewCount)
}

func TestStreakRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewStreakRepository(setupPool(t))
	userID := uuid.NewString()

	empty, err := repo.GetStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.StreakDays)
	assert.Nil(t, empty.LastPracticeDate)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveStreak(ctx, userID, &entities.Streak{StreakDays: 3, LastPracticeDate: &day}))

	got, err := repo.GetStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.StreakDays)
	require.NotNil(t, got.LastPracticeDate)
	assert.True(t, got.LastPracticeDate.Equal(day))
}
