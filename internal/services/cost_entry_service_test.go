package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/testutil"
)

func newTestCostEntryService(db *gorm.DB, today time.Time) *costEntryService {
	return &costEntryService{db: db, now: func() time.Time { return today }}
}

func nullDec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func TestCreateCostEntry(t *testing.T) {
	today := testutil.Date(2024, 6, 15)

	t.Run("hours_times_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeHourly)

		entry, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID: category.ID,
			Hours:      nullDec("7.5"),
			HourlyRate: nullDec("80"),
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "total", entry.TotalAmount, "600")
		if entry.CategoryName != category.Name {
			t.Errorf("expected denormalised category name %s, got %s", category.Name, entry.CategoryName)
		}
		if !entry.EntryDate.Equal(today) {
			t.Errorf("expected entry date to default to today, got %v", entry.EntryDate)
		}
		if entry.Status != models.PaymentOutstanding {
			t.Errorf("expected outstanding, got %s", entry.Status)
		}
	})

	t.Run("hourly_default_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeHourly)

		entry, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID: category.ID,
			Hours:      nullDec("10"),
		})
		testutil.AssertNoError(t, err)

		// Fixture hourly categories default to 60/h.
		testutil.AssertDecimal(t, "total", entry.TotalAmount, "600")
		testutil.AssertDecimal(t, "rate", entry.HourlyRate.Decimal, "60")
	})

	t.Run("quantity_times_unit_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeMaterial)

		entry, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID: category.ID,
			Quantity:   nullDec("12"),
			UnitPrice:  nullDec("19.99"),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "total", entry.TotalAmount, "239.88")
	})

	t.Run("supplied_total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)

		entry, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID:  category.ID,
			TotalAmount: nullDec("1500"),
			Status:      models.PaymentPaid,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "total", entry.TotalAmount, "1500")
		if entry.PaidAt == nil {
			t.Error("expected paid entries to carry paid_at")
		}
	})

	t.Run("not_computable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeMaterial)

		_, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID: category.ID,
			Quantity:   nullDec("3"),
		})
		testutil.AssertAppError(t, err, "AMOUNT_NOT_COMPUTABLE")
	})

	t.Run("due_date_on_paid_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)

		due := today.AddDate(0, 0, 10)
		_, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID:  category.ID,
			TotalAmount: nullDec("100"),
			Status:      models.PaymentPaid,
			DueDate:     &due,
		})
		testutil.AssertAppError(t, err, "DUE_DATE_NOT_ALLOWED")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)

		_, err := svc.CreateCostEntry(project.ID, CostEntryInput{CategoryID: "missing", TotalAmount: nullDec("1")})
		testutil.AssertAppError(t, err, "COST_CATEGORY_NOT_FOUND")
	})

	t.Run("phase_of_other_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		other := testutil.CreateTestProject(t, db)
		phase := testutil.CreateTestPhase(t, db, other, 100, models.PhaseInProgress)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)

		_, err := svc.CreateCostEntry(project.ID, CostEntryInput{
			CategoryID:  category.ID,
			PhaseID:     &phase.ID,
			TotalAmount: nullDec("1"),
		})
		testutil.AssertAppError(t, err, "PHASE_NOT_FOUND")
	})
}

func TestGetProjectCostEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestCostEntryService(db, testutil.Date(2024, 6, 15))
	project := testutil.CreateTestProject(t, db)
	category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)

	testutil.CreateTestCostEntry(t, db, project, category, 100, testutil.Date(2024, 1, 10), models.PaymentPaid)
	testutil.CreateTestCostEntry(t, db, project, category, 200, testutil.Date(2024, 3, 10), models.PaymentOutstanding)
	testutil.CreateTestCostEntry(t, db, project, category, 300, testutil.Date(2024, 2, 10), models.PaymentOutstanding)

	t.Run("most_recent_first", func(t *testing.T) {
		result, err := svc.GetProjectCostEntries(project.ID, pagination.PageRequest{}, CostEntryFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 entries, got %d", result.TotalItems)
		}
		testutil.AssertDecimal(t, "first", result.Data[0].TotalAmount, "200")
	})

	t.Run("status_filter", func(t *testing.T) {
		status := models.PaymentOutstanding
		result, err := svc.GetProjectCostEntries(project.ID, pagination.PageRequest{}, CostEntryFilter{Status: &status})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 outstanding entries, got %d", result.TotalItems)
		}
	})

	t.Run("by_status", func(t *testing.T) {
		paid, err := svc.GetEntriesByStatus(project.ID, models.PaymentPaid)
		testutil.AssertNoError(t, err)
		if len(paid) != 1 {
			t.Errorf("expected 1 paid entry, got %d", len(paid))
		}
	})
}

func TestUpdateCostEntryStatus(t *testing.T) {
	today := testutil.Date(2024, 6, 15)

	t.Run("mark_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)
		entry := testutil.CreateTestCostEntry(t, db, project, category, 100, today, models.PaymentOutstanding)

		updated, err := svc.UpdateCostEntryStatus(entry.ID, models.PaymentPaid, nil)
		testutil.AssertNoError(t, err)

		if updated.Status != models.PaymentPaid || updated.PaidAt == nil {
			t.Errorf("expected paid entry with paid_at, got %+v", updated)
		}

		reloaded, err := svc.GetCostEntryByID(entry.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Status != models.PaymentPaid {
			t.Errorf("expected stored status paid, got %s", reloaded.Status)
		}
	})

	t.Run("reopen_with_due_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)
		entry := testutil.CreateTestCostEntry(t, db, project, category, 100, today, models.PaymentPaid)

		due := today.AddDate(0, 0, 14)
		updated, err := svc.UpdateCostEntryStatus(entry.ID, models.PaymentOutstanding, &due)
		testutil.AssertNoError(t, err)

		if updated.PaidAt != nil {
			t.Error("expected paid_at to be cleared")
		}
		if updated.DueDate == nil || !updated.DueDate.Equal(due) {
			t.Errorf("expected due date %v, got %v", due, updated.DueDate)
		}
	})

	t.Run("paying_keeps_due_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)
		project := testutil.CreateTestProject(t, db)
		category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)
		entry := testutil.CreateTestCostEntry(t, db, project, category, 100, today, models.PaymentOutstanding)

		due := testutil.Date(2024, 4, 1)
		_, err := svc.UpdateCostEntryStatus(entry.ID, models.PaymentOutstanding, &due)
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateCostEntryStatus(entry.ID, models.PaymentPaid, nil)
		testutil.AssertNoError(t, err)
		if updated.DueDate == nil || updated.DueDate.Format("2006-01-02") != "2024-04-01" {
			t.Errorf("expected returned due date 2024-04-01, got %v", updated.DueDate)
		}

		reloaded, err := svc.GetCostEntryByID(entry.ID)
		testutil.AssertNoError(t, err)
		if reloaded.Status != models.PaymentPaid {
			t.Errorf("expected stored status paid, got %s", reloaded.Status)
		}
		if reloaded.DueDate == nil || reloaded.DueDate.Format("2006-01-02") != "2024-04-01" {
			t.Errorf("expected stored due date 2024-04-01, got %v", reloaded.DueDate)
		}
	})

	t.Run("due_date_with_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestCostEntryService(db, today)

		due := today
		_, err := svc.UpdateCostEntryStatus("any", models.PaymentPaid, &due)
		testutil.AssertAppError(t, err, "DUE_DATE_NOT_ALLOWED")
	})
}

func TestDeleteCostEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestCostEntryService(db, testutil.Date(2024, 6, 15))
	project := testutil.CreateTestProject(t, db)
	category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)
	entry := testutil.CreateTestCostEntry(t, db, project, category, 100, project.StartDate, models.PaymentPaid)

	testutil.AssertNoError(t, svc.DeleteCostEntry(entry.ID))

	err := svc.DeleteCostEntry(entry.ID)
	testutil.AssertAppError(t, err, "COST_ENTRY_NOT_FOUND")
}

func TestGetPaymentTimeline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	today := testutil.Date(2024, 6, 15)
	svc := newTestCostEntryService(db, today)
	project := testutil.CreateTestProject(t, db)
	category := testutil.CreateTestCostCategory(t, db, models.CostTypeFixed)

	withDue := func(amount int64, due *time.Time) {
		entry := testutil.CreateTestCostEntry(t, db, project, category, amount, project.StartDate, models.PaymentOutstanding)
		if due != nil {
			db.Model(entry).Update("due_date", *due)
		}
	}
	at := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}
	withDue(100, at(-1))
	withDue(200, at(0))
	withDue(300, at(6))
	withDue(400, at(20))
	withDue(500, at(45))
	withDue(600, nil)
	testutil.CreateTestCostEntry(t, db, project, category, 9999, project.StartDate, models.PaymentPaid)

	timeline, err := svc.GetPaymentTimeline(project.ID)
	testutil.AssertNoError(t, err)

	tests := []struct {
		name   string
		bucket PaymentBucket
		count  int
		total  string
	}{
		{"overdue", timeline.Overdue, 1, "100"},
		{"due_this_week", timeline.DueThisWeek, 2, "500"},
		{"due_this_month", timeline.DueThisMonth, 1, "400"},
		{"due_later", timeline.DueLater, 1, "500"},
		{"no_due_date", timeline.NoDueDate, 1, "600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.bucket.Count != tt.count {
				t.Errorf("expected %d entries, got %d", tt.count, tt.bucket.Count)
			}
			testutil.AssertDecimal(t, "total", tt.bucket.Total, tt.total)
		})
	}
	testutil.AssertDecimal(t, "outstanding", timeline.TotalOutstanding, "2100")
}
