package evm

import (
	"errors"
	"time"
)

// Curve selects how planned spend is distributed between start and end.
type Curve string

const (
	CurveLinear Curve = "linear"
	// CurveS is a slow-fast-slow distribution (smoothstep).
	CurveS Curve = "s_curve"
)

// ErrInvalidBaseline is returned when a baseline has no budget or ends
// before it starts.
var ErrInvalidBaseline = errors.New("evm: invalid baseline")

// Baseline is the planned value curve of a project.
type Baseline struct {
	Start time.Time
	End   time.Time
	BAC   float64
	Curve Curve
}

// NewBaseline validates and normalises a baseline. Dates are reduced to
// calendar days. start == end is allowed and plans the full budget on that day.
func NewBaseline(start, end time.Time, bac float64, curve Curve) (Baseline, error) {
	start, end = Day(start), Day(end)
	if bac <= 0 || end.Before(start) {
		return Baseline{}, ErrInvalidBaseline
	}
	if curve != CurveS {
		curve = CurveLinear
	}
	return Baseline{Start: start, End: end, BAC: bac, Curve: curve}, nil
}

// ElapsedFraction returns the share of the schedule elapsed at the given
// date, clamped to [0, 1].
func (b Baseline) ElapsedFraction(at time.Time) float64 {
	at = Day(at)
	if at.Before(b.Start) {
		return 0
	}
	if !at.Before(b.End) {
		return 1
	}
	total := daysBetween(b.Start, b.End)
	return float64(daysBetween(b.Start, at)) / float64(total)
}

// PlannedFraction is the elapsed fraction shaped by the baseline curve.
func (b Baseline) PlannedFraction(at time.Time) float64 {
	f := b.ElapsedFraction(at)
	if b.Curve == CurveS {
		return f * f * (3 - 2*f)
	}
	return f
}

// PlannedValue returns the cumulative budget planned to be spent by the
// given date: 0 before start, BAC from end onwards.
func (b Baseline) PlannedValue(at time.Time) float64 {
	return b.PlannedFraction(at) * b.BAC
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
