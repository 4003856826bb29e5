package evm

import (
	"time"

	"github.com/shopspring/decimal"
)

// PhaseStatus is the progress state of a phase.
type PhaseStatus string

const (
	PhaseNotStarted PhaseStatus = "not_started"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseDelayed    PhaseStatus = "delayed"
)

// ProgressSource names the heuristic used for percent complete.
type ProgressSource string

const (
	ProgressFromPhases      ProgressSource = "phases"
	ProgressFromElapsedTime ProgressSource = "elapsed_time"
)

// CostEntry is an incurred cost. Paid and outstanding entries both count
// towards actual cost.
type CostEntry struct {
	Amount decimal.Decimal
	Date   time.Time
	Paid   bool
}

// Phase is the budget share and status of one project phase.
type Phase struct {
	Budget decimal.Decimal
	Status PhaseStatus
}

// Input is everything the engine needs about one project.
type Input struct {
	Baseline    Baseline
	Entries     []CostEntry
	Phases      []Phase
	Obligations []Obligation
	AsOf        time.Time
}

// Options tunes the heuristics of the engine.
type Options struct {
	// InProgressWeight is the completion credited to an in-progress phase.
	InProgressWeight float64
	// MaxFutureMonths caps how many months are projected beyond today.
	MaxFutureMonths int
	// DeteriorationThreshold is the CPI drop that flags a cost trend.
	DeteriorationThreshold float64
	// TrendWindow is the number of recent historical months compared.
	TrendWindow int
}

// DefaultOptions returns the standard engine settings.
func DefaultOptions() Options {
	return Options{
		InProgressWeight:       0.5,
		MaxFutureMonths:        12,
		DeteriorationThreshold: 0.05,
		TrendWindow:            2,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.InProgressWeight <= 0 || o.InProgressWeight > 1 {
		o.InProgressWeight = d.InProgressWeight
	}
	if o.MaxFutureMonths <= 0 {
		o.MaxFutureMonths = d.MaxFutureMonths
	}
	if o.DeteriorationThreshold <= 0 {
		o.DeteriorationThreshold = d.DeteriorationThreshold
	}
	if o.TrendWindow < 2 {
		o.TrendWindow = d.TrendWindow
	}
	return o
}

// Measures are the raw quantities the formulas are applied to.
type Measures struct {
	BAC                 float64
	AC                  float64
	EV                  float64
	PV                  float64
	Obligations         float64
	WeightedObligations float64
}

// Snapshot is the full set of EVM metrics at one point in time.
type Snapshot struct {
	BAC float64 `json:"budget_at_completion"`
	AC  float64 `json:"actual_cost"`
	EV  float64 `json:"earned_value"`
	PV  float64 `json:"planned_value"`
	CV  float64 `json:"cost_variance"`
	SV  float64 `json:"schedule_variance"`
	CPI Index   `json:"cost_performance_index"`
	SPI Index   `json:"schedule_performance_index"`
	EAC float64 `json:"estimate_at_completion"`
	VAC float64 `json:"variance_at_completion"`
	ETC float64 `json:"estimate_to_complete"`

	CPIAdjusted Index   `json:"cost_performance_index_adjusted"`
	ETCAdjusted float64 `json:"estimate_to_complete_adjusted"`
	EACAdjusted float64 `json:"estimate_at_completion_adjusted"`
	VACAdjusted float64 `json:"variance_at_completion_adjusted"`

	ObligationsTotal         float64 `json:"obligations_total"`
	WeightedObligationsTotal float64 `json:"weighted_obligations_total"`

	PercentComplete float64        `json:"percent_complete"`
	ProgressSource  ProgressSource `json:"progress_source,omitempty"`

	CostStatus         CostStatus     `json:"cost_status"`
	CostStatusAdjusted CostStatus     `json:"cost_status_adjusted"`
	ScheduleStatus     ScheduleStatus `json:"schedule_status"`
	BudgetBreachRisk   bool           `json:"budget_breach_risk"`
	BreachSeverity     Severity       `json:"breach_severity"`
}

// Evaluate applies the EVM formulas to a set of measures. No path divides by
// zero: undefined indices fall back as documented on each field.
func Evaluate(m Measures) Snapshot {
	s := Snapshot{
		BAC:                      m.BAC,
		AC:                       m.AC,
		EV:                       m.EV,
		PV:                       m.PV,
		CV:                       m.EV - m.AC,
		SV:                       m.EV - m.PV,
		CPI:                      ratio(m.EV, m.AC),
		SPI:                      ratio(m.EV, m.PV),
		ObligationsTotal:         m.Obligations,
		WeightedObligationsTotal: m.WeightedObligations,
	}
	if m.BAC > 0 {
		s.PercentComplete = m.EV / m.BAC
	}

	s.EAC = estimateAtCompletion(m.BAC, m.AC, m.EV, s.CPI)
	s.VAC = m.BAC - s.EAC
	s.ETC = s.EAC - m.AC

	committed := m.AC + m.WeightedObligations
	s.CPIAdjusted = ratio(m.EV, committed)
	s.ETCAdjusted = remainingWork(m.BAC, m.EV, s.CPIAdjusted)
	s.EACAdjusted = committed + s.ETCAdjusted
	s.VACAdjusted = m.BAC - s.EACAdjusted

	s.CostStatus = ClassifyCost(s.CPI)
	s.CostStatusAdjusted = ClassifyCostAdjusted(s.CPIAdjusted)
	s.ScheduleStatus = ClassifySchedule(s.SPI)
	s.BudgetBreachRisk, s.BreachSeverity = ClassifyBreach(s.EACAdjusted, m.BAC)
	return s
}

// estimateAtCompletion is BAC/CPI, or AC + (BAC - EV) when CPI is not
// usable.
func estimateAtCompletion(bac, ac, ev float64, cpi Index) float64 {
	if v, ok := cpi.Value(); ok && v > 0 {
		return bac / v
	}
	return ac + (bac - ev)
}

// remainingWork is (BAC - EV) / CPI, or BAC - EV when CPI is not usable.
func remainingWork(bac, ev float64, cpi Index) float64 {
	if v, ok := cpi.Value(); ok && v > 0 {
		return (bac - ev) / v
	}
	return bac - ev
}

// PercentComplete estimates progress as a fraction in [0, 1]. With phases
// carrying budget it is the budget-weighted phase completion (completed 1,
// in progress InProgressWeight, otherwise 0); without them it is the planned
// fraction of the baseline at asOf, which is the elapsed-time fraction for a
// linear curve.
func PercentComplete(b Baseline, phases []Phase, asOf time.Time, opts Options) (float64, ProgressSource) {
	opts = opts.normalized()

	total := decimal.Zero
	earned := decimal.Zero
	inProgress := decimal.NewFromFloat(opts.InProgressWeight)
	for _, p := range phases {
		if !p.Budget.IsPositive() {
			continue
		}
		total = total.Add(p.Budget)
		switch p.Status {
		case PhaseCompleted:
			earned = earned.Add(p.Budget)
		case PhaseInProgress:
			earned = earned.Add(p.Budget.Mul(inProgress))
		}
	}
	if total.IsPositive() {
		return earned.Div(total).InexactFloat64(), ProgressFromPhases
	}
	return b.PlannedFraction(asOf), ProgressFromElapsedTime
}

// ActualCost sums every entry regardless of payment status.
func ActualCost(entries []CostEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// actualCostUntil sums entries dated on or before the given day.
func actualCostUntil(entries []CostEntry, until time.Time) float64 {
	until = Day(until)
	sum := decimal.Zero
	for _, e := range entries {
		if !Day(e.Date).After(until) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum.InexactFloat64()
}

// Calculate produces the snapshot for a project as of in.AsOf. PV is read
// from the baseline at AsOf, which is BAC once the end date has passed.
func Calculate(in Input, opts Options) Snapshot {
	opts = opts.normalized()

	pct, source := PercentComplete(in.Baseline, in.Phases, in.AsOf, opts)
	obligations := WeighObligations(in.Obligations)

	s := Evaluate(Measures{
		BAC:                 in.Baseline.BAC,
		AC:                  ActualCost(in.Entries).InexactFloat64(),
		EV:                  pct * in.Baseline.BAC,
		PV:                  in.Baseline.PlannedValue(in.AsOf),
		Obligations:         obligations.Total.InexactFloat64(),
		WeightedObligations: obligations.Weighted.InexactFloat64(),
	})
	s.PercentComplete = pct
	s.ProgressSource = source
	return s
}
