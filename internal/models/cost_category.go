package models

import "github.com/shopspring/decimal"

// CostType represents how a category's costs are calculated
type CostType string

const (
	CostTypeHourly   CostType = "hourly"
	CostTypeMaterial CostType = "material"
	CostTypeFixed    CostType = "fixed"
	CostTypeCustom   CostType = "custom"
)

// CostCategory classifies cost entries. Categories are shared by all
// projects.
type CostCategory struct {
	Base
	Name        string              `gorm:"not null;index" json:"name"`
	Type        CostType            `gorm:"not null" json:"type"`
	Description string              `json:"description"`
	DefaultRate decimal.NullDecimal `gorm:"type:decimal(14,2)" json:"default_rate"`
}

// DefaultCostCategories is the set installed by InitializeDefaults.
func DefaultCostCategories() []CostCategory {
	rate := func(v int64) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	}
	return []CostCategory{
		{Name: "Internal Hours", Type: CostTypeHourly, Description: "Internal staff time", DefaultRate: rate(50)},
		{Name: "External Hours", Type: CostTypeHourly, Description: "Contractors and consultants", DefaultRate: rate(75)},
		{Name: "Materials", Type: CostTypeMaterial, Description: "Physical materials and supplies"},
		{Name: "Mechanical Costs", Type: CostTypeFixed, Description: "Mechanical equipment and services"},
		{Name: "Software Licenses", Type: CostTypeFixed, Description: "Software licences and subscriptions"},
		{Name: "Travel & Expenses", Type: CostTypeFixed, Description: "Travel, lodging and other expenses"},
	}
}
