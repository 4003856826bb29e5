package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/config"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/metrics"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/validator"
)

// PhaseSummary is the spend of one phase against its allocation.
type PhaseSummary struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	BudgetAllocated       decimal.Decimal    `json:"budget_allocated"`
	AmountSpent           decimal.Decimal    `json:"amount_spent"`
	BudgetRemaining       decimal.Decimal    `json:"budget_remaining"`
	UtilizationPercentage float64            `json:"utilization_percentage"`
	Status                models.PhaseStatus `json:"status"`
}

// DailyAmount is the total cost booked on one day.
type DailyAmount struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyAmount is the total cost booked in one month.
type MonthlyAmount struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// ProjectSummary is the budget position of a project with its EVM snapshot.
type ProjectSummary struct {
	Project    *models.Project `json:"project"`
	EVMMetrics evm.Snapshot    `json:"evm_metrics"`

	TotalSpent       decimal.Decimal `json:"total_spent"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`

	BudgetRemaining          decimal.Decimal      `json:"budget_remaining"`
	BudgetRemainingActual    decimal.Decimal      `json:"budget_remaining_actual"`
	BudgetRemainingCommitted decimal.Decimal      `json:"budget_remaining_committed"`
	BudgetUtilization        float64              `json:"budget_utilization"`
	StatusIndicator          models.ProjectStatus `json:"status_indicator"`

	PhasesSummary        []PhaseSummary             `json:"phases_summary"`
	CostBreakdown        map[string]decimal.Decimal `json:"cost_breakdown"`
	OutstandingBreakdown map[string]decimal.Decimal `json:"outstanding_breakdown"`
	PaidBreakdown        map[string]decimal.Decimal `json:"paid_breakdown"`
	TrendData            []DailyAmount              `json:"trend_data"`
	Obligations          *ObligationSummary         `json:"obligations"`
}

// Dashboard is the summary with the monthly trend and the latest entries.
type Dashboard struct {
	Summary       *ProjectSummary    `json:"summary"`
	MonthlyTrend  []MonthlyAmount    `json:"monthly_trend"`
	RecentEntries []models.CostEntry `json:"recent_entries"`
}

// TimelineResponse is the EVM timeline of a project.
type TimelineResponse struct {
	ProjectName   string               `json:"project_name"`
	TotalBudget   decimal.Decimal      `json:"total_budget"`
	ProjectStatus models.ProjectStatus `json:"project_status"`
	evm.Timeline
	CostBaseline []evm.BaselinePoint `json:"cost_baseline"`
	EACTrend     []evm.EACPoint      `json:"eac_trend"`
}

// EnhancedTimelineResponse is the EVM timeline with obligation-adjusted
// points.
type EnhancedTimelineResponse struct {
	ProjectName   string               `json:"project_name"`
	TotalBudget   decimal.Decimal      `json:"total_budget"`
	ProjectStatus models.ProjectStatus `json:"project_status"`
	evm.EnhancedTimeline
	CostBaseline      []evm.BaselinePoint `json:"cost_baseline"`
	EACTrend          []evm.EACPoint      `json:"eac_trend"`
	ObligationSummary *ObligationSummary  `json:"obligation_summary"`
}

// dashboardService computes EVM views from the stored project state.
type dashboardService struct {
	db            *gorm.DB
	opts          evm.Options
	curve         evm.Curve
	recentEntries int
	now           func() time.Time
}

// NewDashboardService creates a new DashboardServicer tuned by the analytics
// configuration.
func NewDashboardService(db *gorm.DB, evmCfg config.EVMConfig, dashboardCfg config.DashboardConfig) DashboardServicer {
	recent := dashboardCfg.RecentEntries
	if recent <= 0 {
		recent = 10
	}
	return &dashboardService{
		db: db,
		opts: evm.Options{
			InProgressWeight:       evmCfg.InProgressWeight,
			MaxFutureMonths:        evmCfg.MaxFutureMonths,
			DeteriorationThreshold: evmCfg.DeteriorationThreshold,
			TrendWindow:            evmCfg.TrendWindow,
		},
		curve:         evm.Curve(evmCfg.Curve),
		recentEntries: recent,
		now:           time.Now,
	}
}

// projectState is everything read from storage before a computation.
type projectState struct {
	project     *models.Project
	entries     []models.CostEntry
	phases      []models.Phase
	obligations []models.Obligation
	estimates   []models.CostEstimate
}

func (s *dashboardService) load(projectID string) (*projectState, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	state := &projectState{project: &project}
	queries := []struct {
		dest  interface{}
		order string
	}{
		{&state.entries, "entry_date ASC, created_at ASC"},
		{&state.phases, "start_date ASC, created_at ASC"},
		{&state.obligations, "created_at ASC"},
		{&state.estimates, "category_name ASC"},
	}
	for _, q := range queries {
		if err := s.db.Where("project_id = ?", projectID).Order(q.order).Find(q.dest).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return state, nil
}

// budgetAtCompletion is the sum of the cost estimates, or the total budget
// when the estimates are absent or sum to zero.
func budgetAtCompletion(project *models.Project, estimates []models.CostEstimate) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range estimates {
		sum = sum.Add(e.Amount)
	}
	if sum.IsPositive() {
		return sum
	}
	if len(estimates) > 0 {
		logger.Named("dashboard").Debugw("cost estimates sum to zero, using total budget as BAC", "project_id", project.ID)
	}
	return project.TotalBudget
}

// input converts the stored state into the engine's plain input.
func (s *dashboardService) input(state *projectState) (evm.Input, error) {
	p := state.project
	curve := s.curve
	if p.BaselineCurve != "" {
		curve = evm.Curve(p.BaselineCurve)
	}

	bac := budgetAtCompletion(p, state.estimates)

	baseline, err := evm.NewBaseline(p.StartDate, p.EndDate, bac.InexactFloat64(), curve)
	if err != nil {
		logger.Named("dashboard").Warnw("project has an invalid baseline", "project_id", p.ID, "error", err)
		return evm.Input{}, apperrors.Wrap(apperrors.ErrInvalidBaseline, err)
	}

	in := evm.Input{
		Baseline:    baseline,
		Entries:     make([]evm.CostEntry, 0, len(state.entries)),
		Phases:      make([]evm.Phase, 0, len(state.phases)),
		Obligations: toEVMObligations(state.obligations),
		AsOf:        s.now(),
	}
	for _, e := range state.entries {
		in.Entries = append(in.Entries, evm.CostEntry{
			Amount: e.TotalAmount,
			Date:   e.EntryDate,
			Paid:   e.Status == models.PaymentPaid,
		})
	}
	for _, ph := range state.phases {
		in.Phases = append(in.Phases, evm.Phase{
			Budget: ph.BudgetAllocation,
			Status: evm.PhaseStatus(ph.Status),
		})
	}
	return in, nil
}

// GetProjectSummary returns the summary view of a project.
func (s *dashboardService) GetProjectSummary(projectID string) (*ProjectSummary, error) {
	state, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	return s.summary(state, metrics.ViewSummary)
}

func (s *dashboardService) summary(state *projectState, view string) (*ProjectSummary, error) {
	in, err := s.input(state)
	if err != nil {
		return nil, err
	}
	snapshot := evm.Calculate(in, s.opts)
	recordSnapshot(view, snapshot)

	p := state.project
	summary := &ProjectSummary{
		Project:              p,
		EVMMetrics:           snapshot,
		TotalSpent:           decimal.Zero,
		TotalPaid:            decimal.Zero,
		TotalOutstanding:     decimal.Zero,
		PhasesSummary:        make([]PhaseSummary, 0, len(state.phases)),
		CostBreakdown:        map[string]decimal.Decimal{},
		OutstandingBreakdown: map[string]decimal.Decimal{},
		PaidBreakdown:        map[string]decimal.Decimal{},
		Obligations:          summarizeObligations(state.obligations),
	}

	byPhase := map[string]decimal.Decimal{}
	byDay := map[string]decimal.Decimal{}
	for _, e := range state.entries {
		amount := e.TotalAmount
		summary.TotalSpent = summary.TotalSpent.Add(amount)
		addTo(summary.CostBreakdown, e.CategoryName, amount)
		if e.Status == models.PaymentPaid {
			summary.TotalPaid = summary.TotalPaid.Add(amount)
			addTo(summary.PaidBreakdown, e.CategoryName, amount)
		} else {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(amount)
			addTo(summary.OutstandingBreakdown, e.CategoryName, amount)
		}
		if e.PhaseID != nil {
			addTo(byPhase, *e.PhaseID, amount)
		}
		addTo(byDay, e.EntryDate.Format(validator.DateLayout), amount)
	}

	for _, ph := range state.phases {
		spent, ok := byPhase[ph.ID]
		if !ok {
			spent = decimal.Zero
		}
		summary.PhasesSummary = append(summary.PhasesSummary, PhaseSummary{
			ID:                    ph.ID,
			Name:                  ph.Name,
			BudgetAllocated:       ph.BudgetAllocation,
			AmountSpent:           spent,
			BudgetRemaining:       ph.BudgetAllocation.Sub(spent),
			UtilizationPercentage: percentage(spent, ph.BudgetAllocation),
			Status:                ph.Status,
		})
	}

	for _, day := range sortedKeys(byDay) {
		summary.TrendData = append(summary.TrendData, DailyAmount{Date: day, Amount: byDay[day]})
	}
	if summary.TrendData == nil {
		summary.TrendData = []DailyAmount{}
	}

	summary.BudgetRemainingActual = p.TotalBudget.Sub(summary.TotalSpent)
	summary.BudgetRemainingCommitted = p.TotalBudget.Sub(summary.TotalPaid)
	summary.BudgetRemaining = summary.BudgetRemainingActual
	summary.BudgetUtilization = percentage(summary.TotalSpent, p.TotalBudget)
	summary.StatusIndicator = models.StatusForUtilization(summary.BudgetUtilization)
	return summary, nil
}

// GetDashboard returns the summary with the monthly trend and the most
// recently recorded entries.
func (s *dashboardService) GetDashboard(projectID string) (*Dashboard, error) {
	state, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	summary, err := s.summary(state, metrics.ViewDashboard)
	if err != nil {
		return nil, err
	}

	byMonth := map[string]decimal.Decimal{}
	for _, e := range state.entries {
		addTo(byMonth, e.EntryDate.Format(evm.MonthLayout), e.TotalAmount)
	}
	trend := make([]MonthlyAmount, 0, len(byMonth))
	for _, month := range sortedKeys(byMonth) {
		trend = append(trend, MonthlyAmount{Month: month, Amount: byMonth[month]})
	}

	recent := []models.CostEntry{}
	if err := s.db.Where("project_id = ?", projectID).Order("created_at DESC").Limit(s.recentEntries).Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Dashboard{Summary: summary, MonthlyTrend: trend, RecentEntries: recent}, nil
}

// GetEVMTimeline returns the monthly EVM series with its projections.
func (s *dashboardService) GetEVMTimeline(projectID string) (*TimelineResponse, error) {
	state, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(state)
	if err != nil {
		return nil, err
	}

	timeline := evm.BuildTimeline(in, s.opts)
	recordTimeline(metrics.ViewTimeline, timeline.Snapshot, timeline.OverrunPoint)

	return &TimelineResponse{
		ProjectName:   state.project.Name,
		TotalBudget:   state.project.TotalBudget,
		ProjectStatus: projectStatus(state),
		Timeline:      timeline,
		CostBaseline:  timeline.CostBaseline(),
		EACTrend:      timeline.EACTrend(),
	}, nil
}

// GetEnhancedEVMTimeline returns the timeline with obligation-adjusted
// metrics on every point.
func (s *dashboardService) GetEnhancedEVMTimeline(projectID string) (*EnhancedTimelineResponse, error) {
	state, err := s.load(projectID)
	if err != nil {
		return nil, err
	}
	in, err := s.input(state)
	if err != nil {
		return nil, err
	}

	timeline := evm.BuildEnhancedTimeline(in, s.opts)
	recordTimeline(metrics.ViewEnhancedTimeline, timeline.Snapshot, timeline.OverrunPoint)

	return &EnhancedTimelineResponse{
		ProjectName:       state.project.Name,
		TotalBudget:       state.project.TotalBudget,
		ProjectStatus:     projectStatus(state),
		EnhancedTimeline:  timeline,
		CostBaseline:      timeline.CostBaseline(),
		EACTrend:          timeline.EACTrend(),
		ObligationSummary: summarizeObligations(state.obligations),
	}, nil
}

func recordSnapshot(view string, snapshot evm.Snapshot) {
	metrics.IncrementEVMComputation(view)
	if snapshot.BudgetBreachRisk {
		metrics.IncrementBreachRisk(string(snapshot.BreachSeverity))
	}
}

func recordTimeline(view string, snapshot evm.Snapshot, overrun *evm.OverrunPoint) {
	recordSnapshot(view, snapshot)
	if overrun != nil {
		metrics.IncrementOverrunPrediction()
	}
}

func projectStatus(state *projectState) models.ProjectStatus {
	spent := decimal.Zero
	for _, e := range state.entries {
		spent = spent.Add(e.TotalAmount)
	}
	return models.StatusForUtilization(percentage(spent, state.project.TotalBudget))
}

// percentage is part/whole×100, or 0 for a non-positive whole.
func percentage(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func addTo(m map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	if cur, ok := m[key]; ok {
		m[key] = cur.Add(amount)
		return
	}
	m[key] = amount
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
