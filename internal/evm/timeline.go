package evm

import (
	"time"
)

// MonthLayout is the label format of timeline months.
const MonthLayout = "2006-01"

// Point is one month of the timeline. Historical points carry the
// cumulative state at the end of the month (or at today for the current
// month); future points are projections.
type Point struct {
	Month            string    `json:"month"`
	Date             time.Time `json:"date"`
	PlannedValue     float64   `json:"planned_value"`
	EarnedValue      float64   `json:"earned_value"`
	ActualCost       float64   `json:"actual_cost"`
	EAC              float64   `json:"eac"`
	CPI              Index     `json:"cpi"`
	SPI              Index     `json:"spi"`
	CostVariance     float64   `json:"cost_variance"`
	ScheduleVariance float64   `json:"schedule_variance"`
	IsFuture         bool      `json:"is_future"`
}

// OverrunPoint is the first projected month whose cumulative cost exceeds
// the budget.
type OverrunPoint struct {
	Month          string  `json:"month"`
	ProjectedCost  float64 `json:"projected_cost"`
	EAC            float64 `json:"eac"`
	AmountExceeded float64 `json:"amount_exceeded"`
	IsPrediction   bool    `json:"is_prediction"`
}

// Deterioration flags a recent drop in CPI.
type Deterioration struct {
	FromMonth   string        `json:"from_month"`
	ToMonth     string        `json:"to_month"`
	PreviousCPI float64       `json:"previous_cpi"`
	CurrentCPI  float64       `json:"current_cpi"`
	Decline     float64       `json:"decline"`
	Severity    TrendSeverity `json:"severity"`
}

// CurrentPerformance summarises the snapshot for timeline consumers.
type CurrentPerformance struct {
	CurrentCPI       Index   `json:"current_cpi"`
	CurrentSPI       Index   `json:"current_spi"`
	FinalEAC         float64 `json:"final_eac"`
	ProjectedOverrun float64 `json:"projected_overrun"`
}

// CompletionPrediction forecasts where the project will land.
type CompletionPrediction struct {
	CurrentProgressPct      float64    `json:"current_progress_pct"`
	MonthsRemaining         int        `json:"months_remaining"`
	ProjectedCompletionCost float64    `json:"projected_completion_cost"`
	CostEfficiency          Efficiency `json:"cost_efficiency"`
	ProjectedOverrunPct     float64    `json:"projected_overrun_pct"`
}

// BaselinePoint is one month of the planned cost baseline.
type BaselinePoint struct {
	Month        string  `json:"month"`
	PlannedValue float64 `json:"planned_value"`
}

// EACPoint is one month of the EAC trend.
type EACPoint struct {
	Month    string  `json:"month"`
	EAC      float64 `json:"eac"`
	IsFuture bool    `json:"is_future"`
}

// Timeline is the monthly series with its derived forecasts.
type Timeline struct {
	Snapshot               Snapshot             `json:"-"`
	Points                 []Point              `json:"timeline_data"`
	CurrentPerformance     CurrentPerformance   `json:"current_performance"`
	CompletionPrediction   CompletionPrediction `json:"completion_prediction"`
	OverrunPoint           *OverrunPoint        `json:"overrun_point"`
	CostTrendDeterioration *Deterioration       `json:"cost_trend_deterioration"`

	// historyEnd is the index one past the last historical point.
	historyEnd int
}

// History returns the observed points.
func (t Timeline) History() []Point {
	return t.Points[:t.historyEnd]
}

// Future returns the projected points.
func (t Timeline) Future() []Point {
	return t.Points[t.historyEnd:]
}

// CostBaseline returns the planned value per month.
func (t Timeline) CostBaseline() []BaselinePoint {
	out := make([]BaselinePoint, 0, len(t.Points))
	for _, p := range t.Points {
		out = append(out, BaselinePoint{Month: p.Month, PlannedValue: p.PlannedValue})
	}
	return out
}

// EACTrend returns the estimate at completion per month.
func (t Timeline) EACTrend() []EACPoint {
	out := make([]EACPoint, 0, len(t.Points))
	for _, p := range t.Points {
		out = append(out, EACPoint{Month: p.Month, EAC: p.EAC, IsFuture: p.IsFuture})
	}
	return out
}

// BuildTimeline computes the historical monthly series from the project
// start through today and projects it forward to the end date, capped at
// opts.MaxFutureMonths beyond today.
func BuildTimeline(in Input, opts Options) Timeline {
	opts = opts.normalized()
	b := in.Baseline
	asOf := Day(in.AsOf)
	snap := Calculate(in, opts)

	t := Timeline{Snapshot: snap}
	t.Points = history(in, snap)
	t.historyEnd = len(t.Points)
	t.CostTrendDeterioration = detectDeterioration(t.Points, opts)

	trend := 1.0
	if t.CostTrendDeterioration != nil {
		trend += t.CostTrendDeterioration.Decline
	}
	t.Points = append(t.Points, project(in, snap, opts, trend)...)

	for _, p := range t.Future() {
		if p.ActualCost > b.BAC {
			t.OverrunPoint = &OverrunPoint{
				Month:          p.Month,
				ProjectedCost:  p.ActualCost,
				EAC:            p.EAC,
				AmountExceeded: p.ActualCost - b.BAC,
				IsPrediction:   true,
			}
			break
		}
	}

	t.CurrentPerformance = CurrentPerformance{
		CurrentCPI:       snap.CPI,
		CurrentSPI:       snap.SPI,
		FinalEAC:         snap.EAC,
		ProjectedOverrun: snap.EAC - b.BAC,
	}
	t.CompletionPrediction = CompletionPrediction{
		CurrentProgressPct:      snap.PercentComplete * 100,
		MonthsRemaining:         MonthsRemaining(asOf, b.End),
		ProjectedCompletionCost: snap.EAC,
		CostEfficiency:          ClassifyEfficiency(snap.CPI),
		ProjectedOverrunPct:     (snap.EAC - b.BAC) / b.BAC * 100,
	}
	return t
}

// history builds one point per month from the start month through the
// current month (or the end month once the project has finished). Earned
// value for past months follows the planned curve scaled by today's SPI so
// that the last point matches the snapshot exactly. Past months count the
// entries dated up to their month end; the current point carries the
// snapshot AC, which includes every entry, future-dated ones too.
func history(in Input, snap Snapshot) []Point {
	b := in.Baseline
	asOf := Day(in.AsOf)
	if asOf.Before(b.Start) {
		return nil
	}
	last := monthStart(asOf)
	if asOf.After(b.End) {
		last = monthStart(b.End)
	}
	spi := snap.SPI.Or(1)

	var points []Point
	for m := monthStart(b.Start); !m.After(last); m = m.AddDate(0, 1, 0) {
		var ac, ev, pv float64
		at := minTime(monthEnd(m), b.End)
		if m.Equal(last) {
			at = minTime(asOf, b.End)
			ac, ev, pv = snap.AC, snap.EV, snap.PV
		} else {
			pv = b.PlannedValue(at)
			ev = minFloat(b.BAC, spi*pv)
			ac = actualCostUntil(in.Entries, at)
		}
		points = append(points, newPoint(m, at, b.BAC, ac, ev, pv, false))
	}
	return points
}

// project extends the series month by month. Earned value follows the
// planned curve scaled by SPI. Actual cost consumes ETC, multiplied by the
// trend factor, in proportion to the elapsed share of the remaining schedule,
// so the end month lands on EAC whatever the SPI.
func project(in Input, snap Snapshot, opts Options, trend float64) []Point {
	b := in.Baseline
	asOf := Day(in.AsOf)
	if !asOf.Before(b.End) {
		return nil
	}

	first := monthStart(b.Start)
	if !asOf.Before(b.Start) {
		first = monthStart(asOf).AddDate(0, 1, 0)
	}
	limit := monthStart(asOf).AddDate(0, opts.MaxFutureMonths, 0)
	last := monthStart(b.End)
	if limit.Before(last) {
		last = limit
	}

	spi := snap.SPI.Or(1)
	span := float64(daysBetween(asOf, b.End))

	var points []Point
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		at := minTime(monthEnd(m), b.End)
		pv := b.PlannedValue(at)
		ev := minFloat(b.BAC, snap.EV+spi*(pv-snap.PV))
		if ev < snap.EV {
			ev = snap.EV
		}
		share := 1.0
		if span > 0 {
			share = minFloat(1, float64(daysBetween(asOf, at))/span)
		}
		ac := snap.AC + share*snap.ETC*trend
		points = append(points, newPoint(m, at, b.BAC, ac, ev, pv, true))
	}
	return points
}

func newPoint(month, at time.Time, bac, ac, ev, pv float64, future bool) Point {
	s := Evaluate(Measures{BAC: bac, AC: ac, EV: ev, PV: pv})
	return Point{
		Month:            month.Format(MonthLayout),
		Date:             at,
		PlannedValue:     pv,
		EarnedValue:      ev,
		ActualCost:       ac,
		EAC:              s.EAC,
		CPI:              s.CPI,
		SPI:              s.SPI,
		CostVariance:     s.CV,
		ScheduleVariance: s.SV,
		IsFuture:         future,
	}
}

// detectDeterioration compares the latest historical CPI with the CPI
// TrendWindow-1 months earlier.
func detectDeterioration(points []Point, opts Options) *Deterioration {
	n := len(points)
	if n < 2 {
		return nil
	}
	ref := n - opts.TrendWindow
	if ref < 0 {
		ref = 0
	}
	prev, ok := points[ref].CPI.Value()
	if !ok {
		return nil
	}
	curr, ok := points[n-1].CPI.Value()
	if !ok {
		return nil
	}
	decline := prev - curr
	if decline <= opts.DeteriorationThreshold {
		return nil
	}
	return &Deterioration{
		FromMonth:   points[ref].Month,
		ToMonth:     points[n-1].Month,
		PreviousCPI: prev,
		CurrentCPI:  curr,
		Decline:     decline,
		Severity:    classifyTrend(decline),
	}
}

// MonthsRemaining is the number of months from today to the end date,
// rounded up, or 0 once the end date is reached.
func MonthsRemaining(today, end time.Time) int {
	today, end = Day(today), Day(end)
	if !today.Before(end) {
		return 0
	}
	months := (end.Year()-today.Year())*12 + int(end.Month()-today.Month())
	if today.AddDate(0, months, 0).Before(end) {
		months++
	}
	for months > 0 && !today.AddDate(0, months-1, 0).Before(end) {
		months--
	}
	return months
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, -1)
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
