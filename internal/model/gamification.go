package model

import "time"

// Achievement predicate types
const (
	AchievementDonations Achieves = "donations"
	AchievementFoodSaved Achieves = "food_saved_kg"
	AchievementDelivered Achieves = "deliveries"
	AchievementStreak    Achieves = "streak"
)

// Achieves names the counter an achievement predicate is evaluated against
type Achieves string

// Achievement is one unlockable badge. Unlocked is monotonic: once set it is
// never cleared by further point awards.
type Achievement struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Predicate  Achieves   `json:"predicate"`
	Threshold  float64    `json:"threshold"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Level is one row of the static points-to-level table
type Level struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	MinPoints int    `json:"min_points"`
}

// GamificationStats is the per-user points ledger snapshot
type GamificationStats struct {
	UserID         string        `json:"user_id"`
	TotalPoints    int           `json:"total_points"`
	Level          int           `json:"level"`
	LevelTitle     string        `json:"level_title"`
	Progress       float64       `json:"progress"`
	Achievements   []Achievement `json:"achievements"`
	Streak         int           `json:"streak"`
	LastActivityAt time.Time     `json:"last_activity_at"`
	DonationsMade  int           `json:"donations_made"`
	Deliveries     int           `json:"deliveries"`
	FoodSavedKg    float64       `json:"food_saved_kg"`
}

// LeaderboardEntry is one ranked row of the points leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
}
