package model

import "time"

// User represents an authenticated identity in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	IsActive     bool      `json:"is_active" gorm:"default:true;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Profile  *Profile  `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Settings *Settings `json:"settings,omitempty" gorm:"foreignKey:UserID"`
	Projects []Project `json:"-" gorm:"foreignKey:UserID"`
}
