package evm

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertClose(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: expected %.4f, got %.4f", name, want, got)
	}
}

func mustBaseline(t *testing.T, start, end time.Time, bac float64) Baseline {
	t.Helper()
	b, err := NewBaseline(start, end, bac, CurveLinear)
	if err != nil {
		t.Fatalf("unexpected baseline error: %v", err)
	}
	return b
}
