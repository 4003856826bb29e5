package testutil

import (
	"errors"
	"math"
	"testing"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"

	"github.com/shopspring/decimal"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertFloat fails the test if got differs from want by more than tol.
func AssertFloat(t *testing.T, name string, got, want, tol float64) {
	t.Helper()

	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s: expected %.4f, got %.4f", name, want, got)
	}
}

// AssertDecimal fails the test unless got equals want exactly.
func AssertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}
