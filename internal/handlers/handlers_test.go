package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/validator"
)

const (
	testProjectID  = "3f1c8c2e-6a4b-4f57-9f3e-2b8d7d0a1c11"
	testPhaseID    = "9b2e4d6a-1c3f-4e5a-8b7c-0d1e2f3a4b5c"
	testCategoryID = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
	testEntryID    = "7c8d9e0f-1a2b-4c3d-9e4f-5a6b7c8d9e0f"
	testObligation = "1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a5b"
	testMilestone  = "2f3a4b5c-6d7e-4f8a-9b0c-1d2e3f4a5b6c"
)

// --- mock audit service ---

type mockAuditService struct {
	actions    []string
	history    []models.AuditLog
	historyErr error
}

func (m *mockAuditService) Log(action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

func (m *mockAuditService) History(_, _ string, _ int) ([]models.AuditLog, error) {
	return m.history, m.historyErr
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// --- tests ---

func TestRespondWithError(t *testing.T) {
	r := gin.New()
	r.GET("/app", func(c *gin.Context) { respondWithError(c, apperrors.ErrProjectNotFound) })
	r.GET("/wrapped", func(c *gin.Context) {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")))
	})
	r.GET("/plain", func(c *gin.Context) { respondWithError(c, errors.New("boom")) })

	t.Run("uses app error status and code", func(t *testing.T) {
		rec := doRequest(r, "GET", "/app", "")
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "PROJECT_NOT_FOUND")
	})

	t.Run("hides internal cause", func(t *testing.T) {
		rec := doRequest(r, "GET", "/wrapped", "")
		assertStatus(t, rec, http.StatusInternalServerError)
		if strings.Contains(rec.Body.String(), "db down") {
			t.Errorf("internal cause leaked: %s", rec.Body.String())
		}
	})

	t.Run("maps unknown errors to internal error", func(t *testing.T) {
		rec := doRequest(r, "GET", "/plain", "")
		assertStatus(t, rec, http.StatusInternalServerError)
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestParsePathID(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	t.Run("accepts uuid", func(t *testing.T) {
		rec := doRequest(r, "GET", "/things/"+testProjectID, "")
		assertStatus(t, rec, http.StatusOK)
		if parseJSON(t, rec)["id"] != testProjectID {
			t.Errorf("unexpected id in %s", rec.Body.String())
		}
	})

	t.Run("rejects non-uuid", func(t *testing.T) {
		rec := doRequest(r, "GET", "/things/42", "")
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestParseOptionalDate(t *testing.T) {
	empty := ""
	if d, err := parseOptionalDate(nil); d != nil || err != nil {
		t.Errorf("nil input: got %v, %v", d, err)
	}
	if d, err := parseOptionalDate(&empty); d != nil || err != nil {
		t.Errorf("empty input: got %v, %v", d, err)
	}
	valid := "2024-03-15"
	d, err := parseOptionalDate(&valid)
	if err != nil || d == nil || d.Format("2006-01-02") != valid {
		t.Errorf("valid input: got %v, %v", d, err)
	}
	bad := "15/03/2024"
	if _, err := parseOptionalDate(&bad); err == nil {
		t.Error("expected error for malformed date")
	}
}
