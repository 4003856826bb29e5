package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/config"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/testutil"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/validator"
)

// testApp holds the full application stack for router tests.
type testApp struct {
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the full stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	evmCfg, dashCfg := config.Defaults()
	cfg := &config.Config{Env: "test", EVM: evmCfg, Dashboard: dashCfg}

	return &testApp{Router: New(db, cfg)}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	e, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	return e["code"].(string)
}

func day(d time.Time) string {
	return d.Format("2006-01-02")
}

// createProject creates a project running three months either side of today.
func (app *testApp) createProject(t *testing.T, budget int) string {
	t.Helper()
	today := time.Now()
	rec := app.request(http.MethodPost, "/api/v1/projects", fmt.Sprintf(
		`{"name":"Line 4 Upgrade","total_budget":%d,"start_date":%q,"end_date":%q}`,
		budget, day(today.AddDate(0, -3, 0)), day(today.AddDate(0, 3, 0))))
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["project"].(map[string]interface{})["id"].(string)
}

// defaultCategories seeds the default categories and returns their IDs by name.
func (app *testApp) defaultCategories(t *testing.T) map[string]string {
	t.Helper()
	rec := app.request(http.MethodPost, "/api/v1/cost-categories/defaults", "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodGet, "/api/v1/cost-categories", "")
	expectStatus(t, rec, http.StatusOK)
	ids := map[string]string{}
	for _, c := range parseJSON(t, rec)["cost_categories"].([]interface{}) {
		cat := c.(map[string]interface{})
		ids[cat["name"].(string)] = cat["id"].(string)
	}
	return ids
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t)

	rec := app.request(http.MethodGet, "/api/health", "")
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("expected status ok, got %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	rec = app.request(http.MethodGet, "/metrics", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "http_request_duration_seconds") {
		t.Error("expected request duration histogram in metrics output")
	}
}

func TestProjectFlow_EntriesToSummary(t *testing.T) {
	app := setupApp(t)
	projectID := app.createProject(t, 100000)
	categories := app.defaultCategories(t)
	if len(categories) != 6 {
		t.Fatalf("expected 6 default categories, got %d", len(categories))
	}

	today := time.Now()

	// Materials: 10 x 500, paid
	rec := app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/cost-entries", fmt.Sprintf(
		`{"category_id":%q,"quantity":10,"unit_price":500,"entry_date":%q,"status":"paid"}`,
		categories["Materials"], day(today.AddDate(0, -1, 0))))
	expectStatus(t, rec, http.StatusCreated)
	if got := parseJSON(t, rec)["cost_entry"].(map[string]interface{})["total_amount"].(float64); got != 5000 {
		t.Errorf("expected total 5000, got %v", got)
	}

	// Internal hours at the default rate of 50, outstanding
	rec = app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/cost-entries", fmt.Sprintf(
		`{"category_id":%q,"hours":20,"entry_date":%q,"due_date":%q}`,
		categories["Internal Hours"], day(today), day(today.AddDate(0, 0, 20))))
	expectStatus(t, rec, http.StatusCreated)
	entry := parseJSON(t, rec)["cost_entry"].(map[string]interface{})
	if entry["total_amount"].(float64) != 1000 || entry["status"] != "outstanding" {
		t.Errorf("expected outstanding entry of 1000, got %v", entry)
	}

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/summary", "")
	expectStatus(t, rec, http.StatusOK)
	summary := parseJSON(t, rec)
	if summary["total_spent"].(float64) != 6000 {
		t.Errorf("expected total_spent 6000, got %v", summary["total_spent"])
	}
	if summary["total_paid"].(float64) != 5000 || summary["total_outstanding"].(float64) != 1000 {
		t.Errorf("expected 5000 paid and 1000 outstanding, got %v / %v", summary["total_paid"], summary["total_outstanding"])
	}
	metrics := summary["evm_metrics"].(map[string]interface{})
	if metrics["actual_cost"].(float64) != 6000 {
		t.Errorf("expected actual_cost 6000, got %v", metrics["actual_cost"])
	}
	if metrics["budget_at_completion"].(float64) != 100000 {
		t.Errorf("expected BAC to fall back to the budget, got %v", metrics["budget_at_completion"])
	}

	// Estimates replace the budget as BAC.
	rec = app.request(http.MethodPut, "/api/v1/projects/"+projectID+"/cost-estimates",
		`{"cost_estimates":{"Materials":60000,"Internal Hours":20000}}`)
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["total"].(float64) != 80000 {
		t.Errorf("expected estimates total 80000, got %s", rec.Body.String())
	}

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/summary", "")
	expectStatus(t, rec, http.StatusOK)
	metrics = parseJSON(t, rec)["evm_metrics"].(map[string]interface{})
	if metrics["budget_at_completion"].(float64) != 80000 {
		t.Errorf("expected BAC 80000 from estimates, got %v", metrics["budget_at_completion"])
	}

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/payment-timeline", "")
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["total_outstanding"].(float64) != 1000 {
		t.Errorf("expected 1000 outstanding in payment timeline, got %s", rec.Body.String())
	}

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/dashboard-data", "")
	expectStatus(t, rec, http.StatusOK)
	if len(parseJSON(t, rec)["recent_entries"].([]interface{})) != 2 {
		t.Errorf("expected 2 recent entries, got %s", rec.Body.String())
	}
}

func TestProjectFlow_Timelines(t *testing.T) {
	app := setupApp(t)
	projectID := app.createProject(t, 60000)
	categories := app.defaultCategories(t)

	rec := app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/cost-entries", fmt.Sprintf(
		`{"category_id":%q,"total_amount":12000,"entry_date":%q,"status":"paid"}`,
		categories["Mechanical Costs"], day(time.Now().AddDate(0, -2, 0))))
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/obligations",
		`{"description":"Pump order","amount":10000,"confidence_level":"medium"}`)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/evm-timeline", "")
	expectStatus(t, rec, http.StatusOK)
	timeline := parseJSON(t, rec)
	if timeline["project_name"] != "Line 4 Upgrade" {
		t.Errorf("expected project name, got %v", timeline["project_name"])
	}
	points := timeline["timeline_data"].([]interface{})
	if len(points) == 0 {
		t.Fatal("expected timeline points")
	}
	if len(timeline["cost_baseline"].([]interface{})) == 0 {
		t.Error("expected cost baseline")
	}
	if _, ok := timeline["completion_prediction"].(map[string]interface{}); !ok {
		t.Error("expected completion prediction")
	}

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/evm-timeline/enhanced", "")
	expectStatus(t, rec, http.StatusOK)
	enhanced := parseJSON(t, rec)
	summary := enhanced["obligation_summary"].(map[string]interface{})
	if summary["active_count"].(float64) != 1 || summary["weighted_total"].(float64) != 8000 {
		t.Errorf("expected one medium obligation weighted at 8000, got %v", summary)
	}
	last := enhanced["timeline_data"].([]interface{})
	if _, ok := last[len(last)-1].(map[string]interface{})["eac_adjusted"]; !ok {
		t.Error("expected obligation-adjusted points")
	}
}

func TestProjectValidation(t *testing.T) {
	app := setupApp(t)

	t.Run("inverted schedule", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/v1/projects",
			`{"name":"Bad","total_budget":1000,"start_date":"2025-06-01","end_date":"2025-01-01"}`)
		expectStatus(t, rec, http.StatusUnprocessableEntity)
		if code := errorCode(t, rec); code != "INVALID_BASELINE" {
			t.Errorf("expected INVALID_BASELINE, got %s", code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := app.request(http.MethodPost, "/api/v1/projects",
			`{"total_budget":1000,"start_date":"2025-01-01","end_date":"2025-06-01"}`)
		expectStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown estimate category", func(t *testing.T) {
		projectID := app.createProject(t, 1000)
		rec := app.request(http.MethodPut, "/api/v1/projects/"+projectID+"/cost-estimates",
			`{"cost_estimates":{"Unicorns":500}}`)
		expectStatus(t, rec, http.StatusBadRequest)
		if code := errorCode(t, rec); code != "UNKNOWN_COST_CATEGORY" {
			t.Errorf("expected UNKNOWN_COST_CATEGORY, got %s", code)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/v1/projects/0190a0b2-7c3e-7000-8000-000000000000/summary", "")
		expectStatus(t, rec, http.StatusNotFound)
		if code := errorCode(t, rec); code != "PROJECT_NOT_FOUND" {
			t.Errorf("expected PROJECT_NOT_FOUND, got %s", code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := app.request(http.MethodGet, "/api/v1/projects/not-a-uuid", "")
		expectStatus(t, rec, http.StatusBadRequest)
	})
}

func TestDeleteProject_RemovesDependents(t *testing.T) {
	app := setupApp(t)
	projectID := app.createProject(t, 50000)
	categories := app.defaultCategories(t)

	rec := app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/phases", fmt.Sprintf(
		`{"name":"Design","budget_allocation":10000,"start_date":%q,"end_date":%q}`,
		day(time.Now().AddDate(0, -1, 0)), day(time.Now().AddDate(0, 1, 0))))
	expectStatus(t, rec, http.StatusCreated)
	phaseID := parseJSON(t, rec)["phase"].(map[string]interface{})["id"].(string)

	rec = app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/cost-entries", fmt.Sprintf(
		`{"category_id":%q,"phase_id":%q,"total_amount":400}`, categories["Travel & Expenses"], phaseID))
	expectStatus(t, rec, http.StatusCreated)
	entryID := parseJSON(t, rec)["cost_entry"].(map[string]interface{})["id"].(string)

	rec = app.request(http.MethodDelete, "/api/v1/projects/"+projectID, "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID, "")
	expectStatus(t, rec, http.StatusNotFound)
	rec = app.request(http.MethodGet, "/api/v1/phases/"+phaseID, "")
	expectStatus(t, rec, http.StatusNotFound)
	rec = app.request(http.MethodGet, "/api/v1/cost-entries/"+entryID, "")
	expectStatus(t, rec, http.StatusNotFound)

	// Categories are shared and survive.
	rec = app.request(http.MethodGet, "/api/v1/cost-categories/"+categories["Travel & Expenses"], "")
	expectStatus(t, rec, http.StatusOK)
}

func TestProjectAuditLog(t *testing.T) {
	app := setupApp(t)
	projectID := app.createProject(t, 50000)

	rec := app.request(http.MethodPut, "/api/v1/projects/"+projectID, `{"name":"Renamed"}`)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/audit-log", "")
	expectStatus(t, rec, http.StatusOK)
	body := parseJSON(t, rec)
	if body["count"].(float64) != 2 {
		t.Fatalf("expected create and update entries, got %v", body["count"])
	}
	actions := map[string]bool{}
	for _, e := range body["audit_log"].([]interface{}) {
		actions[e.(map[string]interface{})["action"].(string)] = true
	}
	if !actions["CREATE_PROJECT"] || !actions["UPDATE_PROJECT"] {
		t.Errorf("unexpected actions %v", actions)
	}
}

func TestObligationLifecycle(t *testing.T) {
	app := setupApp(t)
	projectID := app.createProject(t, 50000)

	rec := app.request(http.MethodPost, "/api/v1/projects/"+projectID+"/obligations",
		`{"description":"Framework contract","amount":2000,"confidence_level":"high","priority":"critical"}`)
	expectStatus(t, rec, http.StatusCreated)
	obligation := parseJSON(t, rec)["obligation"].(map[string]interface{})
	if obligation["confidence_percentage"].(float64) != 95 {
		t.Errorf("expected 95%% confidence, got %v", obligation["confidence_percentage"])
	}
	id := obligation["id"].(string)

	rec = app.request(http.MethodPut, "/api/v1/obligations/"+id+"/status", `{"status":"converted_to_actual"}`)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodPut, "/api/v1/obligations/"+id+"/status", `{"status":"cancelled"}`)
	expectStatus(t, rec, http.StatusConflict)

	rec = app.request(http.MethodGet, "/api/v1/projects/"+projectID+"/obligations/summary", "")
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["active_count"].(float64) != 0 {
		t.Errorf("expected no active obligations, got %s", rec.Body.String())
	}
}
