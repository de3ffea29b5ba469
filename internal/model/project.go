package model

import "time"

// Project groups the charts built from one uploaded source file. The owner
// (UserID) is fixed at creation.
type Project struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	Title          string    `json:"title" gorm:"size:200;not null"`
	Description    *string   `json:"description" gorm:"size:1000"`
	SourceFilePath string    `json:"source_file_path" gorm:"size:512;not null"`
	IsPublic       bool      `json:"is_public" gorm:"not null;default:false;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Charts []Chart `json:"charts,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectSummary is a project listing row with its chart count.
type ProjectSummary struct {
	Project
	ChartsCount int64 `json:"charts_count"`
}

// ProjectUpdate carries the fields of a partial project update. Ownership
// cannot be changed through it.
type ProjectUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool   `json:"is_public"`
}

// Apply copies the set fields onto p and reports whether anything was set.
func (u ProjectUpdate) Apply(p *Project) bool {
	changed := false
	if u.Title != nil {
		p.Title = *u.Title
		changed = true
	}
	if u.Description != nil {
		p.Description = u.Description
		changed = true
	}
	if u.IsPublic != nil {
		p.IsPublic = *u.IsPublic
		changed = true
	}
	return changed
}
