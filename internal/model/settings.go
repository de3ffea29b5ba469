package model

import "time"

// Theme names accepted in Settings.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Settings holds per-user preferences.
type Settings struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	UserID               uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Theme                string    `json:"theme" gorm:"size:20;not null;default:'light'"`
	ReceiveNotifications bool      `json:"receive_notifications" gorm:"not null;default:true"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings row created alongside a new user.
func DefaultSettings(userID uint) *Settings {
	return &Settings{
		UserID:               userID,
		Theme:                ThemeLight,
		ReceiveNotifications: true,
	}
}

// SettingsUpdate carries the fields of a partial settings update.
type SettingsUpdate struct {
	Theme                *string `json:"theme" validate:"omitempty,oneof=light dark"`
	ReceiveNotifications *bool   `json:"receive_notifications"`
}

// Apply copies the set fields onto s and reports whether anything was set.
func (u SettingsUpdate) Apply(s *Settings) bool {
	changed := false
	if u.Theme != nil {
		s.Theme = *u.Theme
		changed = true
	}
	if u.ReceiveNotifications != nil {
		s.ReceiveNotifications = *u.ReceiveNotifications
		changed = true
	}
	return changed
}
