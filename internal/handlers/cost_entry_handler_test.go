package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// --- mock cost entry service ---

type mockCostEntryService struct {
	createCostEntryFn       func(projectID string, input services.CostEntryInput) (*models.CostEntry, error)
	getProjectCostEntriesFn func(projectID string, page pagination.PageRequest, filter services.CostEntryFilter) (*pagination.PageResponse[models.CostEntry], error)
	getEntriesByStatusFn    func(projectID string, status models.PaymentStatus) ([]models.CostEntry, error)
	getCostEntryByIDFn      func(entryID string) (*models.CostEntry, error)
	updateCostEntryStatusFn func(entryID string, status models.PaymentStatus, dueDate *time.Time) (*models.CostEntry, error)
	deleteCostEntryFn       func(entryID string) error
	getPaymentTimelineFn    func(projectID string) (*services.PaymentTimeline, error)
}

func (m *mockCostEntryService) CreateCostEntry(projectID string, input services.CostEntryInput) (*models.CostEntry, error) {
	if m.createCostEntryFn != nil {
		return m.createCostEntryFn(projectID, input)
	}
	return &models.CostEntry{}, nil
}

func (m *mockCostEntryService) GetProjectCostEntries(projectID string, page pagination.PageRequest, filter services.CostEntryFilter) (*pagination.PageResponse[models.CostEntry], error) {
	if m.getProjectCostEntriesFn != nil {
		return m.getProjectCostEntriesFn(projectID, page, filter)
	}
	return pagination.NewPageResponse([]models.CostEntry{}, pagination.PageRequest{Page: 1, PageSize: 20}, 0), nil
}

func (m *mockCostEntryService) GetEntriesByStatus(projectID string, status models.PaymentStatus) ([]models.CostEntry, error) {
	if m.getEntriesByStatusFn != nil {
		return m.getEntriesByStatusFn(projectID, status)
	}
	return []models.CostEntry{}, nil
}

func (m *mockCostEntryService) GetCostEntryByID(entryID string) (*models.CostEntry, error) {
	if m.getCostEntryByIDFn != nil {
		return m.getCostEntryByIDFn(entryID)
	}
	return &models.CostEntry{}, nil
}

func (m *mockCostEntryService) UpdateCostEntryStatus(entryID string, status models.PaymentStatus, dueDate *time.Time) (*models.CostEntry, error) {
	if m.updateCostEntryStatusFn != nil {
		return m.updateCostEntryStatusFn(entryID, status, dueDate)
	}
	return &models.CostEntry{Status: status}, nil
}

func (m *mockCostEntryService) DeleteCostEntry(entryID string) error {
	if m.deleteCostEntryFn != nil {
		return m.deleteCostEntryFn(entryID)
	}
	return nil
}

func (m *mockCostEntryService) GetPaymentTimeline(projectID string) (*services.PaymentTimeline, error) {
	if m.getPaymentTimelineFn != nil {
		return m.getPaymentTimelineFn(projectID)
	}
	return &services.PaymentTimeline{}, nil
}

var _ services.CostEntryServicer = (*mockCostEntryService)(nil)

func setupCostEntryRouter(handler *CostEntryHandler) *gin.Engine {
	r := gin.New()
	r.POST("/projects/:id/cost-entries", handler.CreateCostEntry)
	r.GET("/projects/:id/cost-entries", handler.GetProjectCostEntries)
	r.GET("/projects/:id/cost-entries/outstanding", handler.GetOutstandingEntries)
	r.GET("/projects/:id/cost-entries/paid", handler.GetPaidEntries)
	r.GET("/projects/:id/payment-timeline", handler.GetPaymentTimeline)
	r.GET("/cost-entries/:id", handler.GetCostEntry)
	r.PUT("/cost-entries/:id/status", handler.UpdateCostEntryStatus)
	r.DELETE("/cost-entries/:id", handler.DeleteCostEntry)
	return r
}

func TestCostEntryHandler_CreateCostEntry(t *testing.T) {
	t.Run("maps request onto input", func(t *testing.T) {
		var got services.CostEntryInput
		svc := &mockCostEntryService{
			createCostEntryFn: func(projectID string, input services.CostEntryInput) (*models.CostEntry, error) {
				got = input
				return &models.CostEntry{
					Base:        models.Base{ID: testEntryID},
					ProjectID:   projectID,
					CategoryID:  input.CategoryID,
					TotalAmount: input.Hours.Decimal.Mul(input.HourlyRate.Decimal),
					Status:      models.PaymentOutstanding,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCostEntryRouter(NewCostEntryHandler(svc, audit))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/cost-entries",
			`{"category_id":"`+testCategoryID+`","phase_id":"`+testPhaseID+`","hours":8,"hourly_rate":"62.50","entry_date":"2024-05-02","due_date":"2024-06-01"}`)

		assertStatus(t, rec, http.StatusCreated)
		if got.CategoryID != testCategoryID || got.PhaseID == nil || *got.PhaseID != testPhaseID {
			t.Errorf("unexpected ids %+v", got)
		}
		if !got.Hours.Valid || !got.HourlyRate.Valid || got.Quantity.Valid || got.TotalAmount.Valid {
			t.Errorf("unexpected amount fields %+v", got)
		}
		if got.EntryDate == nil || got.EntryDate.Format("2006-01-02") != "2024-05-02" {
			t.Errorf("unexpected entry date %v", got.EntryDate)
		}
		if got.DueDate == nil || got.DueDate.Format("2006-01-02") != "2024-06-01" {
			t.Errorf("unexpected due date %v", got.DueDate)
		}
		entry := parseJSON(t, rec)["cost_entry"].(map[string]interface{})
		if entry["total_amount"].(float64) != 500 {
			t.Errorf("expected total 500, got %v", entry["total_amount"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_COST_ENTRY" {
			t.Errorf("unexpected audit %v", audit.actions)
		}
	})

	t.Run("returns 400 when amount is not computable", func(t *testing.T) {
		svc := &mockCostEntryService{
			createCostEntryFn: func(string, services.CostEntryInput) (*models.CostEntry, error) {
				return nil, apperrors.ErrAmountNotComputable
			},
		}
		r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/cost-entries",
			`{"category_id":"`+testCategoryID+`","hours":8}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "AMOUNT_NOT_COMPUTABLE")
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		r := setupCostEntryRouter(NewCostEntryHandler(&mockCostEntryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/cost-entries", `{"total_amount":100}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on negative quantity", func(t *testing.T) {
		r := setupCostEntryRouter(NewCostEntryHandler(&mockCostEntryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/cost-entries",
			`{"category_id":"`+testCategoryID+`","quantity":-2,"unit_price":10}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		r := setupCostEntryRouter(NewCostEntryHandler(&mockCostEntryService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/cost-entries",
			`{"category_id":"`+testCategoryID+`","total_amount":100,"status":"pending"}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestCostEntryHandler_GetProjectCostEntries(t *testing.T) {
	t.Run("binds filters", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.CostEntryFilter
		svc := &mockCostEntryService{
			getProjectCostEntriesFn: func(_ string, page pagination.PageRequest, filter services.CostEntryFilter) (*pagination.PageResponse[models.CostEntry], error) {
				gotPage, gotFilter = page, filter
				return pagination.NewPageResponse([]models.CostEntry{}, pagination.PageRequest{Page: 1, PageSize: 10}, 0), nil
			},
		}
		r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/cost-entries?status=paid&category_id="+testCategoryID+"&page_size=10", "")

		assertStatus(t, rec, http.StatusOK)
		if gotPage.PageSize != 10 {
			t.Errorf("expected page size 10, got %d", gotPage.PageSize)
		}
		if gotFilter.Status == nil || *gotFilter.Status != models.PaymentPaid {
			t.Errorf("expected paid filter, got %v", gotFilter.Status)
		}
		if gotFilter.CategoryID == nil || *gotFilter.CategoryID != testCategoryID {
			t.Errorf("expected category filter, got %v", gotFilter.CategoryID)
		}
		if gotFilter.PhaseID != nil {
			t.Errorf("expected no phase filter, got %v", *gotFilter.PhaseID)
		}
	})

	t.Run("returns 400 on invalid status filter", func(t *testing.T) {
		r := setupCostEntryRouter(NewCostEntryHandler(&mockCostEntryService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/cost-entries?status=late", "")

		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestCostEntryHandler_EntriesByStatus(t *testing.T) {
	var statuses []models.PaymentStatus
	svc := &mockCostEntryService{
		getEntriesByStatusFn: func(_ string, status models.PaymentStatus) ([]models.CostEntry, error) {
			statuses = append(statuses, status)
			return []models.CostEntry{{Status: status}}, nil
		},
	}
	r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

	for _, path := range []string{"outstanding", "paid"} {
		rec := doRequest(r, "GET", "/projects/"+testProjectID+"/cost-entries/"+path, "")
		assertStatus(t, rec, http.StatusOK)
		if parseJSON(t, rec)["count"].(float64) != 1 {
			t.Errorf("%s: expected count 1", path)
		}
	}

	if len(statuses) != 2 || statuses[0] != models.PaymentOutstanding || statuses[1] != models.PaymentPaid {
		t.Errorf("unexpected statuses %v", statuses)
	}
}

func TestCostEntryHandler_GetPaymentTimeline(t *testing.T) {
	svc := &mockCostEntryService{
		getPaymentTimelineFn: func(string) (*services.PaymentTimeline, error) {
			return &services.PaymentTimeline{
				Overdue:          services.PaymentBucket{Count: 1, Total: decimal.NewFromInt(100), Entries: []models.CostEntry{{}}},
				TotalOutstanding: decimal.NewFromInt(100),
			}, nil
		},
	}
	r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/projects/"+testProjectID+"/payment-timeline", "")

	assertStatus(t, rec, http.StatusOK)
	result := parseJSON(t, rec)
	overdue := result["overdue"].(map[string]interface{})
	if overdue["count"].(float64) != 1 || overdue["total"].(float64) != 100 {
		t.Errorf("unexpected overdue bucket %v", overdue)
	}
	if result["total_outstanding"].(float64) != 100 {
		t.Errorf("unexpected total %v", result["total_outstanding"])
	}
}

func TestCostEntryHandler_GetCostEntry(t *testing.T) {
	svc := &mockCostEntryService{
		getCostEntryByIDFn: func(string) (*models.CostEntry, error) { return nil, apperrors.ErrCostEntryNotFound },
	}
	r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/cost-entries/"+testEntryID, "")

	assertStatus(t, rec, http.StatusNotFound)
	assertErrorCode(t, parseJSON(t, rec), "COST_ENTRY_NOT_FOUND")
}

func TestCostEntryHandler_UpdateCostEntryStatus(t *testing.T) {
	t.Run("forwards status and due date", func(t *testing.T) {
		var gotStatus models.PaymentStatus
		var gotDue *time.Time
		svc := &mockCostEntryService{
			updateCostEntryStatusFn: func(_ string, status models.PaymentStatus, due *time.Time) (*models.CostEntry, error) {
				gotStatus, gotDue = status, due
				return &models.CostEntry{Status: status, DueDate: due}, nil
			},
		}
		r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/cost-entries/"+testEntryID+"/status", `{"status":"outstanding","due_date":"2024-09-30"}`)

		assertStatus(t, rec, http.StatusOK)
		if gotStatus != models.PaymentOutstanding || gotDue == nil || gotDue.Format("2006-01-02") != "2024-09-30" {
			t.Errorf("unexpected args %v %v", gotStatus, gotDue)
		}
	})

	t.Run("returns 400 when due date accompanies paid", func(t *testing.T) {
		svc := &mockCostEntryService{
			updateCostEntryStatusFn: func(string, models.PaymentStatus, *time.Time) (*models.CostEntry, error) {
				return nil, apperrors.ErrDueDateNotAllowed
			},
		}
		r := setupCostEntryRouter(NewCostEntryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/cost-entries/"+testEntryID+"/status", `{"status":"paid","due_date":"2024-09-30"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "DUE_DATE_NOT_ALLOWED")
	})
}

func TestCostEntryHandler_DeleteCostEntry(t *testing.T) {
	audit := &mockAuditService{}
	r := setupCostEntryRouter(NewCostEntryHandler(&mockCostEntryService{}, audit))

	rec := doRequest(r, "DELETE", "/cost-entries/"+testEntryID, "")

	assertStatus(t, rec, http.StatusOK)
	if len(audit.actions) != 1 || audit.actions[0] != "DELETE_COST_ENTRY" {
		t.Errorf("unexpected audit %v", audit.actions)
	}
}
