package model

import "time"

// NotificationType tags what kind of event a notification surfaces
type NotificationType string

const (
	NotificationDonation    NotificationType = "donation"
	NotificationPickup      NotificationType = "pickup"
	NotificationDelivery    NotificationType = "delivery"
	NotificationSystem      NotificationType = "system"
	NotificationAchievement NotificationType = "achievement"
)

// MaxNotifications caps the per-user feed; the oldest entries are dropped
// once the cap is reached.
const MaxNotifications = 50

// Notification is one entry in a user's feed
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Link      string           `json:"link,omitempty"`
	Payload   JSONMap          `json:"payload,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
