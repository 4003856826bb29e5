package models

import "time"

// Milestone is a dated checkpoint of a project.
type Milestone struct {
	Base
	ProjectID     string    `gorm:"type:uuid;not null;index" json:"project_id"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	MilestoneDate time.Time `gorm:"not null" json:"milestone_date"`
	IsCritical    bool      `gorm:"default:false" json:"is_critical"`
	Completed     bool      `gorm:"default:false" json:"completed"`
}
