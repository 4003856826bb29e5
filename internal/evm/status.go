package evm

// CostStatus classifies a cost performance index.
type CostStatus string

const (
	CostUnderBudget   CostStatus = "under_budget"
	CostOnBudget      CostStatus = "on_budget"
	CostWarning       CostStatus = "warning"
	CostOverBudget    CostStatus = "over_budget"
	CostNotApplicable CostStatus = "not_applicable"
)

// OverBudget reports whether the status is in one of the bands below
// CPI 0.95 (warning or over budget).
func (s CostStatus) OverBudget() bool {
	return s == CostWarning || s == CostOverBudget
}

// ScheduleStatus classifies a schedule performance index.
type ScheduleStatus string

const (
	ScheduleAhead          ScheduleStatus = "ahead"
	ScheduleOnSchedule     ScheduleStatus = "on_schedule"
	ScheduleSlightlyBehind ScheduleStatus = "slightly_behind"
	ScheduleBehind         ScheduleStatus = "behind"
	ScheduleNotApplicable  ScheduleStatus = "not_applicable"
)

// Severity grades how far the adjusted forecast exceeds the budget.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Efficiency is the cost efficiency label of a completion prediction.
type Efficiency string

const (
	EfficiencyGood          Efficiency = "good"
	EfficiencyFair          Efficiency = "fair"
	EfficiencyPoor          Efficiency = "poor"
	EfficiencyNotApplicable Efficiency = "not_applicable"
)

// TrendSeverity grades a drop in CPI between recent months.
type TrendSeverity string

const (
	TrendMinor    TrendSeverity = "minor"
	TrendModerate TrendSeverity = "moderate"
	TrendSevere   TrendSeverity = "severe"
)

// Band boundaries. Lower bounds are inclusive.
const (
	upperBand         = 1.05
	onTargetBand      = 0.95
	warningBand       = 0.85
	adjustedOverBand  = 0.90
	breachMediumRatio = 0.05
	breachHighRatio   = 0.15
)

// ClassifyCost maps CPI to a cost status.
func ClassifyCost(cpi Index) CostStatus {
	return classifyCost(cpi, warningBand)
}

// ClassifyCostAdjusted maps the obligation-adjusted CPI to a cost status.
// Committed risk moves the over-budget boundary up to 0.90.
func ClassifyCostAdjusted(cpi Index) CostStatus {
	return classifyCost(cpi, adjustedOverBand)
}

func classifyCost(cpi Index, overBelow float64) CostStatus {
	v, ok := cpi.Value()
	switch {
	case !ok:
		return CostNotApplicable
	case v >= upperBand:
		return CostUnderBudget
	case v >= onTargetBand:
		return CostOnBudget
	case v >= overBelow:
		return CostWarning
	default:
		return CostOverBudget
	}
}

// ClassifySchedule maps SPI to a schedule status.
func ClassifySchedule(spi Index) ScheduleStatus {
	v, ok := spi.Value()
	switch {
	case !ok:
		return ScheduleNotApplicable
	case v >= upperBand:
		return ScheduleAhead
	case v >= onTargetBand:
		return ScheduleOnSchedule
	case v >= warningBand:
		return ScheduleSlightlyBehind
	default:
		return ScheduleBehind
	}
}

// ClassifyBreach reports whether the adjusted estimate exceeds the budget and
// how badly.
func ClassifyBreach(eacAdjusted, bac float64) (bool, Severity) {
	if bac <= 0 || eacAdjusted <= bac {
		return false, SeverityNone
	}
	over := (eacAdjusted - bac) / bac
	switch {
	case over < breachMediumRatio:
		return true, SeverityLow
	case over <= breachHighRatio:
		return true, SeverityMedium
	default:
		return true, SeverityHigh
	}
}

// ClassifyEfficiency labels CPI for completion predictions.
func ClassifyEfficiency(cpi Index) Efficiency {
	v, ok := cpi.Value()
	switch {
	case !ok:
		return EfficiencyNotApplicable
	case v >= 1.0:
		return EfficiencyGood
	case v >= 0.9:
		return EfficiencyFair
	default:
		return EfficiencyPoor
	}
}

func classifyTrend(decline float64) TrendSeverity {
	switch {
	case decline < 0.10:
		return TrendMinor
	case decline < 0.20:
		return TrendModerate
	default:
		return TrendSevere
	}
}
