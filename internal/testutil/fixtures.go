package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateTestProject creates a project running through 2024 with a budget
// of 100,000.
func CreateTestProject(t *testing.T, db *gorm.DB) *models.Project {
	t.Helper()
	return CreateTestProjectWithBudget(t, db, 100000, Date(2024, 1, 1), Date(2024, 12, 31))
}

// CreateTestProjectWithBudget creates a project with the given baseline.
func CreateTestProjectWithBudget(t *testing.T, db *gorm.DB, budget int64, start, end time.Time) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:        fmt.Sprintf("Project %d", nextID()),
		TotalBudget: decimal.NewFromInt(budget),
		StartDate:   start,
		EndDate:     end,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestPhase creates a phase spanning the whole project.
func CreateTestPhase(t *testing.T, db *gorm.DB, project *models.Project, budget int64, status models.PhaseStatus) *models.Phase {
	t.Helper()

	phase := &models.Phase{
		ProjectID:        project.ID,
		Name:             fmt.Sprintf("Phase %d", nextID()),
		BudgetAllocation: decimal.NewFromInt(budget),
		StartDate:        project.StartDate,
		EndDate:          project.EndDate,
		Status:           status,
	}
	if err := db.Create(phase).Error; err != nil {
		t.Fatalf("failed to create test phase: %v", err)
	}
	return phase
}

// CreateTestCostCategory creates a category with a unique name.
func CreateTestCostCategory(t *testing.T, db *gorm.DB, costType models.CostType) *models.CostCategory {
	t.Helper()

	category := &models.CostCategory{
		Name: fmt.Sprintf("Category %d", nextID()),
		Type: costType,
	}
	if costType == models.CostTypeHourly {
		category.DefaultRate = decimal.NewNullDecimal(decimal.NewFromInt(60))
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test cost category: %v", err)
	}
	return category
}

// CreateTestCostEntry creates a fixed-amount entry.
func CreateTestCostEntry(t *testing.T, db *gorm.DB, project *models.Project, category *models.CostCategory, amount int64, date time.Time, status models.PaymentStatus) *models.CostEntry {
	t.Helper()

	entry := &models.CostEntry{
		ProjectID:    project.ID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Description:  fmt.Sprintf("Entry %d", nextID()),
		TotalAmount:  decimal.NewFromInt(amount),
		EntryDate:    date,
		Status:       status,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test cost entry: %v", err)
	}
	return entry
}

// CreateTestObligation creates an active obligation.
func CreateTestObligation(t *testing.T, db *gorm.DB, project *models.Project, amount int64, confidence models.ConfidenceLevel) *models.Obligation {
	t.Helper()

	obligation := &models.Obligation{
		ProjectID:       project.ID,
		Description:     fmt.Sprintf("Obligation %d", nextID()),
		Amount:          decimal.NewFromInt(amount),
		ConfidenceLevel: confidence,
		Status:          models.ObligationActive,
		Priority:        models.PriorityMedium,
	}
	if err := db.Create(obligation).Error; err != nil {
		t.Fatalf("failed to create test obligation: %v", err)
	}
	return obligation
}

// CreateTestMilestone creates a milestone in the middle of the project.
func CreateTestMilestone(t *testing.T, db *gorm.DB, project *models.Project) *models.Milestone {
	t.Helper()

	milestone := &models.Milestone{
		ProjectID:     project.ID,
		Name:          fmt.Sprintf("Milestone %d", nextID()),
		MilestoneDate: project.StartDate.AddDate(0, 6, 0),
	}
	if err := db.Create(milestone).Error; err != nil {
		t.Fatalf("failed to create test milestone: %v", err)
	}
	return milestone
}
