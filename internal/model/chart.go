package model

import (
	"time"

	"gorm.io/datatypes"
)

// Chart is a rendered chart stored inside a project. OrderIndex controls
// display order; duplicates are allowed and fall back to CreatedAt.
type Chart struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ProjectID   uint           `json:"project_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"size:200;not null"`
	Description *string        `json:"description" gorm:"size:500"`
	ImagePath   string         `json:"image_path" gorm:"size:512;not null"`
	ChartType   string         `json:"chart_type" gorm:"size:50;not null"`
	Config      datatypes.JSON `json:"config,omitempty" swaggertype:"object"`
	OrderIndex  int            `json:"order_index" gorm:"not null;default:0;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	Project *Project `json:"-" gorm:"foreignKey:ProjectID"`
}

// ChartUpdate carries the fields of a partial chart update.
type ChartUpdate struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=0"`
}

// Apply copies the set fields onto c and reports whether anything was set.
func (u ChartUpdate) Apply(c *Chart) bool {
	changed := false
	if u.Title != nil {
		c.Title = *u.Title
		changed = true
	}
	if u.Description != nil {
		c.Description = u.Description
		changed = true
	}
	if u.OrderIndex != nil {
		c.OrderIndex = *u.OrderIndex
		changed = true
	}
	return changed
}

// ChartOrder moves one chart to a new order index.
type ChartOrder struct {
	ChartID    uint `json:"chart_id" validate:"required"`
	OrderIndex int  `json:"order_index" validate:"min=0"`
}
