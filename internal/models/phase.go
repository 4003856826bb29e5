package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PhaseStatus represents the progress of a phase
type PhaseStatus string

const (
	PhaseNotStarted PhaseStatus = "not_started"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseDelayed    PhaseStatus = "delayed"
)

// Phase is a scheduled slice of a project with its own budget allocation.
type Phase struct {
	Base
	ProjectID        string          `gorm:"type:uuid;not null;index" json:"project_id"`
	Name             string          `gorm:"not null" json:"name"`
	Description      string          `json:"description"`
	BudgetAllocation decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"budget_allocation"`
	StartDate        time.Time       `gorm:"not null" json:"start_date"`
	EndDate          time.Time       `gorm:"not null" json:"end_date"`
	Status           PhaseStatus     `gorm:"not null;default:not_started" json:"status"`
}
