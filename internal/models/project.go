package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the budget utilisation indicator of a project.
type ProjectStatus string

const (
	ProjectOnTrack    ProjectStatus = "on_track"
	ProjectWarning    ProjectStatus = "warning"
	ProjectOverBudget ProjectStatus = "over_budget"
)

// StatusForUtilization maps spent/budget percentage to a status:
// up to 75% on track, up to 90% warning, over budget beyond.
func StatusForUtilization(pct float64) ProjectStatus {
	switch {
	case pct <= 75:
		return ProjectOnTrack
	case pct <= 90:
		return ProjectWarning
	default:
		return ProjectOverBudget
	}
}

// Project is a budgeted undertaking whose costs are tracked.
type Project struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_budget"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     time.Time       `gorm:"not null" json:"end_date"`
	// BaselineCurve overrides the configured planned value curve when set.
	BaselineCurve string `json:"baseline_curve,omitempty"`

	CostEstimates []CostEstimate `gorm:"foreignKey:ProjectID" json:"-"`
}

// CostEstimate is the planned amount for one cost category of a project.
type CostEstimate struct {
	Base
	ProjectID    string          `gorm:"type:uuid;not null;uniqueIndex:idx_estimate_project_category" json:"project_id"`
	CategoryName string          `gorm:"not null;uniqueIndex:idx_estimate_project_category" json:"category_name"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
}

// EstimateMap flattens estimates into category name to amount.
func EstimateMap(estimates []CostEstimate) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(estimates))
	for _, e := range estimates {
		out[e.CategoryName] = e.Amount
	}
	return out
}
