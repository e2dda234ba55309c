package model

// Settings is the per-user preference document. Stored settings are merged
// over DefaultSettings on read, so new preference fields pick up defaults
// without a migration.
type Settings struct {
	Privacy       PrivacySettings      `json:"privacy"`
	Security      SecuritySettings     `json:"security"`
	Notifications NotificationSettings `json:"notifications"`
	Language      string               `json:"language"`
	Appearance    AppearanceSettings   `json:"appearance"`
}

type PrivacySettings struct {
	ShowProfile  bool `json:"show_profile"`
	ShowLocation bool `json:"show_location"`
	ShowActivity bool `json:"show_activity"`
}

type SecuritySettings struct {
	LoginAlerts    bool `json:"login_alerts"`
	SessionTimeout int  `json:"session_timeout_minutes"`
}

type NotificationSettings struct {
	Email        bool `json:"email"`
	InApp        bool `json:"in_app"`
	Donations    bool `json:"donations"`
	Pickups      bool `json:"pickups"`
	Deliveries   bool `json:"deliveries"`
	Achievements bool `json:"achievements"`
}

type AppearanceSettings struct {
	Theme    string `json:"theme"`
	FontSize string `json:"font_size"`
}

// DefaultSettings returns the documented defaults
func DefaultSettings() Settings {
	return Settings{
		Privacy: PrivacySettings{
			ShowProfile:  true,
			ShowLocation: true,
			ShowActivity: false,
		},
		Security: SecuritySettings{
			LoginAlerts:    true,
			SessionTimeout: 60,
		},
		Notifications: NotificationSettings{
			Email:        false,
			InApp:        true,
			Donations:    true,
			Pickups:      true,
			Deliveries:   true,
			Achievements: true,
		},
		Language: "en",
		Appearance: AppearanceSettings{
			Theme:    "light",
			FontSize: "medium",
		},
	}
}
