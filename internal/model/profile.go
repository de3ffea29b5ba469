package model

import "time"

// Profile holds the optional personal details of a user.
type Profile struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName         *string   `json:"first_name" gorm:"size:100"`
	LastName          *string   `json:"last_name" gorm:"size:100"`
	Bio               *string   `json:"bio" gorm:"type:text"`
	ProfilePictureURL *string   `json:"profile_picture_url" gorm:"size:512"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProfileUpdate carries the fields of a partial profile update. Nil fields
// are left untouched.
type ProfileUpdate struct {
	FirstName         *string `json:"first_name" validate:"omitempty,max=100"`
	LastName          *string `json:"last_name" validate:"omitempty,max=100"`
	Bio               *string `json:"bio" validate:"omitempty,max=2000"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url,max=512"`
}

// Apply copies the set fields onto p and reports whether anything was set.
func (u ProfileUpdate) Apply(p *Profile) bool {
	changed := false
	if u.FirstName != nil {
		p.FirstName = u.FirstName
		changed = true
	}
	if u.LastName != nil {
		p.LastName = u.LastName
		changed = true
	}
	if u.Bio != nil {
		p.Bio = u.Bio
		changed = true
	}
	if u.ProfilePictureURL != nil {
		p.ProfilePictureURL = u.ProfilePictureURL
		changed = true
	}
	return changed
}
