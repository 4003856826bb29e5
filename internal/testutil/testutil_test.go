package testutil_test

import (
	"testing"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"projects", "cost_estimates", "phases", "cost_categories", "cost_entries", "obligations", "milestones", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestProject(t, first)

	var count int64
	second.Model(&models.Project{}).Count(&count)
	if count != 0 {
		t.Errorf("expected isolated databases, found %d projects", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	project := testutil.CreateTestProject(t, db)
	if project.ID == "" {
		t.Fatal("project should have an ID")
	}

	category := testutil.CreateTestCostCategory(t, db, models.CostTypeHourly)
	if !category.DefaultRate.Valid {
		t.Error("hourly category should carry a default rate")
	}

	entry := testutil.CreateTestCostEntry(t, db, project, category, 1500, project.StartDate, models.PaymentPaid)
	testutil.AssertDecimal(t, "total", entry.TotalAmount, "1500")

	obligation := testutil.CreateTestObligation(t, db, project, 1000, models.ConfidenceLow)
	if obligation.ConfidencePercentage != 60 {
		t.Errorf("expected 60%%, got %d", obligation.ConfidencePercentage)
	}

	var loaded models.CostEntry
	if err := db.First(&loaded, "id = ?", entry.ID).Error; err != nil {
		t.Fatalf("failed to reload entry: %v", err)
	}
	testutil.AssertDecimal(t, "reloaded total", loaded.TotalAmount, "1500")
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrPhaseNotFound, "PHASE_NOT_FOUND")
	testutil.AssertNoError(t, nil)
	testutil.AssertFloat(t, "pi", 3.14159, 3.1416, 0.001)
}
