package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConfidenceLevel is how likely an obligation is to turn into actual cost
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Percentage returns the weighting of the level in percent.
func (c ConfidenceLevel) Percentage() int {
	switch c {
	case ConfidenceHigh:
		return 95
	case ConfidenceMedium:
		return 80
	case ConfidenceLow:
		return 60
	}
	return 0
}

// ObligationStatus represents the lifecycle of an obligation
type ObligationStatus string

const (
	ObligationActive    ObligationStatus = "active"
	ObligationCancelled ObligationStatus = "cancelled"
	ObligationConverted ObligationStatus = "converted_to_actual"
)

// ObligationPriority ranks obligations for follow-up
type ObligationPriority string

const (
	PriorityLow      ObligationPriority = "low"
	PriorityMedium   ObligationPriority = "medium"
	PriorityHigh     ObligationPriority = "high"
	PriorityCritical ObligationPriority = "critical"
)

// Obligation is a committed cost that has not been incurred yet.
type Obligation struct {
	Base
	ProjectID         string             `gorm:"type:uuid;not null;index" json:"project_id"`
	CategoryID        *string            `gorm:"type:uuid" json:"category_id,omitempty"`
	Description       string             `gorm:"not null" json:"description"`
	Amount            decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"amount"`
	ConfidenceLevel   ConfidenceLevel    `gorm:"not null" json:"confidence_level"`
	Status            ObligationStatus   `gorm:"not null;default:active;index" json:"status"`
	Priority          ObligationPriority `gorm:"not null;default:medium" json:"priority"`
	ContractReference string             `json:"contract_reference,omitempty"`
	VendorSupplier    string             `json:"vendor_supplier,omitempty"`
	ExpectedIncurDate *time.Time         `json:"expected_incur_date,omitempty"`

	ConfidencePercentage int `gorm:"-" json:"confidence_percentage"`
}

// AfterFind fills the derived confidence percentage.
func (o *Obligation) AfterFind(tx *gorm.DB) error {
	o.ConfidencePercentage = o.ConfidenceLevel.Percentage()
	return nil
}

// AfterSave fills the derived confidence percentage.
func (o *Obligation) AfterSave(tx *gorm.DB) error {
	o.ConfidencePercentage = o.ConfidenceLevel.Percentage()
	return nil
}
