package gamification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofoodhero/api/internal/email"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/repository/kv"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

func newTestService(t *testing.T) (Service, repository.GamificationRepository, repository.UserRepository) {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	log := logger.NewLogger(nil)
	repo := kv.NewGamificationRepository(store, log)
	userRepo := kv.NewUserRepository(store, log)
	notifier := notification.NewService(
		kv.NewNotificationRepository(store, log),
		kv.NewSettingsRepository(store, log),
		userRepo,
		email.NewNoopService(),
		log,
	)
	return NewService(repo, userRepo, notifier, log), repo, userRepo
}

func TestAddPointsAccumulates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	stats, err := svc.AddPoints(ctx, "u1", PointsDonationCreated, "donation created", Counters{Donations: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalPoints)
	assert.Equal(t, 1, stats.DonationsMade)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, "Helper", stats.LevelTitle)
	assert.Equal(t, 1, stats.Streak)

	stats, err = svc.AddPoints(ctx, "u1", PointsVolunteerDelivery, "donation delivered", Counters{Deliveries: 1, FoodSavedKg: 5})
	require.NoError(t, err)
	assert.Equal(t, 35, stats.TotalPoints)
	assert.Equal(t, 1, stats.Deliveries)
	assert.Equal(t, 5.0, stats.FoodSavedKg)
}

func TestAddPointsRejectsNegative(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddPoints(context.Background(), "u1", -5, "bogus", Counters{})
	assert.Error(t, err)

	stats, err := svc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPoints)
}

func TestLevelProgression(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	stats, err := svc.AddPoints(ctx, "u1", 49, "warmup", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Level)

	stats, err = svc.AddPoints(ctx, "u1", 1, "tip over", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, "Contributor", stats.LevelTitle)
	assert.Equal(t, 0.0, stats.Progress)

	stats, err = svc.AddPoints(ctx, "u1", 2000, "jackpot", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Level)
	assert.Equal(t, "Legend", stats.LevelTitle)
	assert.Equal(t, 100.0, stats.Progress)
}

func TestAchievementsUnlock(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	stats, err := svc.AddPoints(ctx, "u1", PointsDonationCreated, "donation created", Counters{Donations: 1})
	require.NoError(t, err)

	var first *model.Achievement
	for i := range stats.Achievements {
		if stats.Achievements[i].ID == "first_donation" {
			first = &stats.Achievements[i]
		}
	}
	require.NotNil(t, first)
	assert.True(t, first.Unlocked)
	require.NotNil(t, first.UnlockedAt)

	// generous_giver needs 10 donations and stays locked
	for _, a := range stats.Achievements {
		if a.ID == "generous_giver" {
			assert.False(t, a.Unlocked)
		}
	}
}

func TestAchievementsAreMonotonic(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddPoints(ctx, "u1", PointsDonationCreated, "donation created", Counters{Donations: 1})
	require.NoError(t, err)

	// wind the counter back behind the threshold
	stats, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	unlockedAt := findAchievement(t, stats, "first_donation").UnlockedAt
	stats.DonationsMade = 0
	require.NoError(t, repo.Save(ctx, stats))

	stats, err = svc.AddPoints(ctx, "u1", PointsSocialShare, "shared", Counters{})
	require.NoError(t, err)
	got := findAchievement(t, stats, "first_donation")
	assert.True(t, got.Unlocked)
	assert.Equal(t, unlockedAt, got.UnlockedAt)
}

func findAchievement(t *testing.T, stats *model.GamificationStats, id string) model.Achievement {
	t.Helper()
	for _, a := range stats.Achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not present", id)
	return model.Achievement{}
}

func TestStreak(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	stats, err := svc.AddPoints(ctx, "u1", 5, "first activity", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)

	// same day: unchanged
	stats, err = svc.AddPoints(ctx, "u1", 5, "second activity", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)

	// previous calendar day within 24h: increments
	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	stored.LastActivityAt = time.Now().Add(-24*time.Hour + time.Minute)
	require.NoError(t, repo.Save(ctx, stored))

	stats, err = svc.AddPoints(ctx, "u1", 5, "next day", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Streak)

	// a two-day gap resets
	stored, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	stored.LastActivityAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.Save(ctx, stored))

	stats, err = svc.AddPoints(ctx, "u1", 5, "after a gap", Counters{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Streak)
}

func TestReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddPoints(ctx, "u1", 100, "warmup", Counters{})
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "u1"))

	stats, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPoints)
	assert.Equal(t, 1, stats.Level)
}

func TestLeaderboard(t *testing.T) {
	svc, _, userRepo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, userRepo.Add(ctx, &model.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: model.RoleDonor}))
	require.NoError(t, userRepo.Add(ctx, &model.User{ID: "u2", Name: "Ravi", Email: "ravi@example.com", Role: model.RoleVolunteer}))

	_, err := svc.AddPoints(ctx, "u1", 30, "warmup", Counters{})
	require.NoError(t, err)
	_, err = svc.AddPoints(ctx, "u2", 80, "warmup", Counters{})
	require.NoError(t, err)
	_, err = svc.AddPoints(ctx, "u3", 10, "warmup", Counters{})
	require.NoError(t, err)

	board, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "Ravi", board[0].Name)
	assert.Equal(t, 80, board[0].TotalPoints)
	assert.Equal(t, "Asha", board[1].Name)

	// users without an account row fall back to their id
	board, err = svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "u3", board[2].Name)
}
