package gamification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/pkg/logger"
)

// Point awards per recognized action
const (
	PointsDonationCreated   = 10
	PointsDonationDelivered = 20
	PointsVolunteerPickup   = 15
	PointsVolunteerDelivery = 25
	PointsSocialShare       = 5
)

// levelTable is the static points-to-level mapping. Level and progress are
// pure functions of total points against this table.
var levelTable = []model.Level{
	{Number: 1, Title: "Helper", MinPoints: 0},
	{Number: 2, Title: "Contributor", MinPoints: 50},
	{Number: 3, Title: "Supporter", MinPoints: 150},
	{Number: 4, Title: "Champion", MinPoints: 300},
	{Number: 5, Title: "Hero", MinPoints: 600},
	{Number: 6, Title: "Legend", MinPoints: 1200},
}

// achievementDefs is re-scanned on every point-earning event; unlocked flags
// are monotonic.
var achievementDefs = []model.Achievement{
	{ID: "first_donation", Title: "First Donation", Predicate: model.AchievementDonations, Threshold: 1},
	{ID: "generous_giver", Title: "Generous Giver", Predicate: model.AchievementDonations, Threshold: 10},
	{ID: "food_rescuer", Title: "Food Rescuer", Predicate: model.AchievementFoodSaved, Threshold: 25},
	{ID: "hunger_fighter", Title: "Hunger Fighter", Predicate: model.AchievementFoodSaved, Threshold: 100},
	{ID: "first_delivery", Title: "First Delivery", Predicate: model.AchievementDelivered, Threshold: 1},
	{ID: "delivery_pro", Title: "Delivery Pro", Predicate: model.AchievementDelivered, Threshold: 10},
	{ID: "on_a_roll", Title: "On a Roll", Predicate: model.AchievementStreak, Threshold: 3},
	{ID: "unstoppable", Title: "Unstoppable", Predicate: model.AchievementStreak, Threshold: 7},
}

// Counters holds the cumulative activity deltas applied with a point award
type Counters struct {
	Donations   int
	Deliveries  int
	FoodSavedKg float64
}

// Service is the points ledger
type Service interface {
	AddPoints(ctx context.Context, userID string, amount int, reason string, deltas Counters) (*model.GamificationStats, error)
	Stats(ctx context.Context, userID string) (*model.GamificationStats, error)
	Reset(ctx context.Context, userID string) error
	Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
}

type service struct {
	repo     repository.GamificationRepository
	userRepo repository.UserRepository
	notifier notification.Service
	log      *logger.Logger
}

func NewService(repo repository.GamificationRepository, userRepo repository.UserRepository, notifier notification.Service, log *logger.Logger) Service {
	return &service{repo: repo, userRepo: userRepo, notifier: notifier, log: log}
}

// AddPoints applies a point award: bump total, update the activity streak,
// recompute level and progress, evaluate achievement predicates against the
// updated counters, persist and return the snapshot.
func (s *service) AddPoints(ctx context.Context, userID string, amount int, reason string, deltas Counters) (*model.GamificationStats, error) {
	if amount < 0 {
		return nil, fmt.Errorf("point award must not be negative")
	}

	stats, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	now := time.Now()
	stats.TotalPoints += amount
	stats.DonationsMade += deltas.Donations
	stats.Deliveries += deltas.Deliveries
	stats.FoodSavedKg += deltas.FoodSavedKg
	stats.Streak = nextStreak(stats.Streak, stats.LastActivityAt, now)
	stats.LastActivityAt = now

	applyLevel(stats)
	unlocked := evaluateAchievements(stats, now)

	if err := s.repo.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save stats: %w", err)
	}

	s.log.Debug("points awarded", "user_id", userID, "amount", amount, "reason", reason)

	for _, a := range unlocked {
		if err := s.notifier.Notify(ctx, userID, model.NotificationAchievement,
			"Achievement unlocked", fmt.Sprintf("You earned %q!", a.Title), "", nil); err != nil {
			s.log.Error(err, "achievement notification failed", "user_id", userID)
		}
	}

	return stats, nil
}

// nextStreak increments when the previous activity was within a day,
// otherwise resets to 1. Repeat activity on the same calendar day keeps the
// streak unchanged.
func nextStreak(streak int, last, now time.Time) int {
	if streak == 0 || last.IsZero() {
		return 1
	}
	if sameDay(last, now) {
		return streak
	}
	if now.Sub(last) <= 24*time.Hour {
		return streak + 1
	}
	return 1
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// applyLevel recomputes level and progress from the static table. Progress
// is the proportional distance toward the next level; a maxed level reports
// 100.
func applyLevel(stats *model.GamificationStats) {
	current := levelTable[0]
	var next *model.Level
	for i := range levelTable {
		if stats.TotalPoints >= levelTable[i].MinPoints {
			current = levelTable[i]
			if i+1 < len(levelTable) {
				next = &levelTable[i+1]
			} else {
				next = nil
			}
		}
	}

	stats.Level = current.Number
	stats.LevelTitle = current.Title
	if next == nil {
		stats.Progress = 100
		return
	}
	span := float64(next.MinPoints - current.MinPoints)
	stats.Progress = float64(stats.TotalPoints-current.MinPoints) / span * 100
}

// evaluateAchievements scans every definition; already-unlocked entries are
// never re-locked. Returns the achievements newly unlocked by this event.
func evaluateAchievements(stats *model.GamificationStats, now time.Time) []model.Achievement {
	existing := make(map[string]model.Achievement, len(stats.Achievements))
	for _, a := range stats.Achievements {
		existing[a.ID] = a
	}

	var newlyUnlocked []model.Achievement
	merged := make([]model.Achievement, 0, len(achievementDefs))
	for _, def := range achievementDefs {
		a := def
		if prev, ok := existing[def.ID]; ok && prev.Unlocked {
			a.Unlocked = true
			a.UnlockedAt = prev.UnlockedAt
		} else if counterFor(stats, def.Predicate) >= def.Threshold {
			ts := now
			a.Unlocked = true
			a.UnlockedAt = &ts
			newlyUnlocked = append(newlyUnlocked, a)
		}
		merged = append(merged, a)
	}
	stats.Achievements = merged
	return newlyUnlocked
}

func counterFor(stats *model.GamificationStats, p model.Achieves) float64 {
	switch p {
	case model.AchievementDonations:
		return float64(stats.DonationsMade)
	case model.AchievementFoodSaved:
		return stats.FoodSavedKg
	case model.AchievementDelivered:
		return float64(stats.Deliveries)
	case model.AchievementStreak:
		return float64(stats.Streak)
	default:
		return 0
	}
}

func (s *service) Stats(ctx context.Context, userID string) (*model.GamificationStats, error) {
	stats, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	applyLevel(stats)
	return stats, nil
}

func (s *service) Reset(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	return nil
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].TotalPoints > all[j].TotalPoints })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	entries := make([]*model.LeaderboardEntry, 0, len(all))
	for i, stats := range all {
		name := stats.UserID
		if user, err := s.userRepo.GetByID(ctx, stats.UserID); err == nil {
			name = user.Name
		}
		entries = append(entries, &model.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      stats.UserID,
			Name:        name,
			TotalPoints: stats.TotalPoints,
			Level:       stats.Level,
		})
	}
	return entries, nil
}
