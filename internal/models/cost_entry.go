package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents whether a cost has been settled
type PaymentStatus string

const (
	PaymentOutstanding PaymentStatus = "outstanding"
	PaymentPaid        PaymentStatus = "paid"
)

// CostEntry is an incurred cost. Both outstanding and paid entries count
// as actual cost.
type CostEntry struct {
	Base
	ProjectID    string              `gorm:"type:uuid;not null;index" json:"project_id"`
	CategoryID   string              `gorm:"type:uuid;not null;index" json:"category_id"`
	CategoryName string              `gorm:"not null" json:"category_name"`
	PhaseID      *string             `gorm:"type:uuid;index" json:"phase_id,omitempty"`
	Description  string              `json:"description"`
	Hours        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"hours"`
	HourlyRate   decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"hourly_rate"`
	Quantity     decimal.NullDecimal `gorm:"type:decimal(14,4)" json:"quantity"`
	UnitPrice    decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"unit_price"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	EntryDate    time.Time           `gorm:"not null;index" json:"entry_date"`
	Status       PaymentStatus       `gorm:"not null;default:outstanding;index" json:"status"`
	DueDate      *time.Time          `json:"due_date,omitempty"`
	PaidAt       *time.Time          `json:"paid_at,omitempty"`
}
