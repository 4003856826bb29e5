package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
)

// ProjectUpdate holds the optional fields of a project update. Nil fields are
// left unchanged.
type ProjectUpdate struct {
	Name          *string
	Description   *string
	TotalBudget   *decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	BaselineCurve *string
}

// CostEstimates is the per-category planned budget of a project.
type CostEstimates struct {
	Estimates map[string]decimal.Decimal `json:"cost_estimates"`
	Total     decimal.Decimal            `json:"total"`
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(name, description string, totalBudget decimal.Decimal, startDate, endDate time.Time, curve string) (*models.Project, error)
	GetProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(projectID string) (*models.Project, error)
	UpdateProject(projectID string, update ProjectUpdate) (*models.Project, error)
	DeleteProject(projectID string) error
	GetCostEstimates(projectID string) (*CostEstimates, error)
	UpdateCostEstimates(projectID string, estimates map[string]decimal.Decimal) (*CostEstimates, error)
}

// PhaseUpdate holds the optional fields of a phase update.
type PhaseUpdate struct {
	Name             *string
	Description      *string
	BudgetAllocation *decimal.Decimal
	StartDate        *time.Time
	EndDate          *time.Time
}

// PhaseServicer defines the contract for phase-related business logic.
type PhaseServicer interface {
	CreatePhase(projectID, name, description string, budget decimal.Decimal, startDate, endDate time.Time, status models.PhaseStatus) (*models.Phase, error)
	GetProjectPhases(projectID string) ([]models.Phase, error)
	GetPhaseByID(phaseID string) (*models.Phase, error)
	UpdatePhase(phaseID string, update PhaseUpdate) (*models.Phase, error)
	UpdatePhaseStatus(phaseID string, status models.PhaseStatus) (*models.Phase, error)
	DeletePhase(phaseID string) error
}

// CostCategoryUpdate holds the optional fields of a cost category update.
type CostCategoryUpdate struct {
	Name        *string
	Type        *models.CostType
	Description *string
	DefaultRate *decimal.NullDecimal
}

// CostCategoryServicer defines the contract for cost category business logic.
type CostCategoryServicer interface {
	CreateCostCategory(name string, costType models.CostType, description string, defaultRate decimal.NullDecimal) (*models.CostCategory, error)
	GetCostCategories() ([]models.CostCategory, error)
	GetCostCategoryByID(categoryID string) (*models.CostCategory, error)
	UpdateCostCategory(categoryID string, update CostCategoryUpdate) (*models.CostCategory, error)
	DeleteCostCategory(categoryID string) error
	InitializeDefaults() ([]models.CostCategory, error)
}

// CostEntryInput carries the fields of a new cost entry. The total is
// derived from hours and rate, or quantity and unit price, before falling
// back to TotalAmount.
type CostEntryInput struct {
	CategoryID  string
	PhaseID     *string
	Description string
	Hours       decimal.NullDecimal
	HourlyRate  decimal.NullDecimal
	Quantity    decimal.NullDecimal
	UnitPrice   decimal.NullDecimal
	TotalAmount decimal.NullDecimal
	EntryDate   *time.Time
	Status      models.PaymentStatus
	DueDate     *time.Time
}

// CostEntryFilter holds optional filter parameters for listing cost entries.
type CostEntryFilter struct {
	Status     *models.PaymentStatus
	PhaseID    *string
	CategoryID *string
}

// PaymentBucket groups outstanding entries by due date.
type PaymentBucket struct {
	Count   int                `json:"count"`
	Total   decimal.Decimal    `json:"total"`
	Entries []models.CostEntry `json:"entries"`
}

// PaymentTimeline is the outstanding balance of a project split by due date.
type PaymentTimeline struct {
	Overdue          PaymentBucket   `json:"overdue"`
	DueThisWeek      PaymentBucket   `json:"due_this_week"`
	DueThisMonth     PaymentBucket   `json:"due_this_month"`
	DueLater         PaymentBucket   `json:"due_later"`
	NoDueDate        PaymentBucket   `json:"no_due_date"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// CostEntryServicer defines the contract for cost entry business logic.
type CostEntryServicer interface {
	CreateCostEntry(projectID string, input CostEntryInput) (*models.CostEntry, error)
	GetProjectCostEntries(projectID string, page pagination.PageRequest, filter CostEntryFilter) (*pagination.PageResponse[models.CostEntry], error)
	GetEntriesByStatus(projectID string, status models.PaymentStatus) ([]models.CostEntry, error)
	GetCostEntryByID(entryID string) (*models.CostEntry, error)
	UpdateCostEntryStatus(entryID string, status models.PaymentStatus, dueDate *time.Time) (*models.CostEntry, error)
	DeleteCostEntry(entryID string) error
	GetPaymentTimeline(projectID string) (*PaymentTimeline, error)
}

// ObligationInput carries the fields of a new obligation.
type ObligationInput struct {
	CategoryID        *string
	Description       string
	Amount            decimal.Decimal
	ConfidenceLevel   models.ConfidenceLevel
	Priority          models.ObligationPriority
	ContractReference string
	VendorSupplier    string
	ExpectedIncurDate *time.Time
}

// ConfidenceSummary is the count and simple total for one confidence level.
type ConfidenceSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ObligationSummary aggregates the active obligations of a project.
type ObligationSummary struct {
	ActiveCount   int                                          `json:"active_count"`
	TotalAmount   decimal.Decimal                              `json:"total_amount"`
	WeightedTotal decimal.Decimal                              `json:"weighted_total"`
	ByConfidence  map[models.ConfidenceLevel]ConfidenceSummary `json:"by_confidence"`
}

// ObligationServicer defines the contract for obligation business logic.
type ObligationServicer interface {
	CreateObligation(projectID string, input ObligationInput) (*models.Obligation, error)
	GetProjectObligations(projectID string, status *models.ObligationStatus) ([]models.Obligation, error)
	GetObligationByID(obligationID string) (*models.Obligation, error)
	UpdateObligationStatus(obligationID string, status models.ObligationStatus) (*models.Obligation, error)
	DeleteObligation(obligationID string) error
	GetObligationSummary(projectID string) (*ObligationSummary, error)
}

// MilestoneUpdate holds the optional fields of a milestone update.
type MilestoneUpdate struct {
	Name          *string
	Description   *string
	MilestoneDate *time.Time
	IsCritical    *bool
	Completed     *bool
}

// MilestoneServicer defines the contract for milestone business logic.
type MilestoneServicer interface {
	CreateMilestone(projectID, name, description string, date time.Time, isCritical bool) (*models.Milestone, error)
	GetProjectMilestones(projectID string) ([]models.Milestone, error)
	UpdateMilestone(milestoneID string, update MilestoneUpdate) (*models.Milestone, error)
	DeleteMilestone(milestoneID string) error
}

// DashboardServicer computes the read-side views of a project.
type DashboardServicer interface {
	GetProjectSummary(projectID string) (*ProjectSummary, error)
	GetDashboard(projectID string) (*Dashboard, error)
	GetEVMTimeline(projectID string) (*TimelineResponse, error)
	GetEnhancedEVMTimeline(projectID string) (*EnhancedTimelineResponse, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	History(resourceType, resourceID string, limit int) ([]models.AuditLog, error)
}
