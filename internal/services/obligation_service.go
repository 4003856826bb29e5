package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
)

// obligationService handles obligation business logic.
type obligationService struct {
	db *gorm.DB
}

// NewObligationService creates a new ObligationServicer.
func NewObligationService(db *gorm.DB) ObligationServicer {
	return &obligationService{db: db}
}

// CreateObligation records an active obligation against a project.
func (s *obligationService) CreateObligation(projectID string, input ObligationInput) (*models.Obligation, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be positive")
	}
	if input.CategoryID != nil {
		var count int64
		if err := s.db.Model(&models.CostCategory{}).Where("id = ?", *input.CategoryID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCostCategoryNotFound
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	obligation := &models.Obligation{
		ProjectID:         projectID,
		CategoryID:        input.CategoryID,
		Description:       input.Description,
		Amount:            input.Amount,
		ConfidenceLevel:   input.ConfidenceLevel,
		Status:            models.ObligationActive,
		Priority:          priority,
		ContractReference: input.ContractReference,
		VendorSupplier:    input.VendorSupplier,
		ExpectedIncurDate: dayPtr(input.ExpectedIncurDate),
	}

	if err := s.db.Create(obligation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return obligation, nil
}

// GetProjectObligations returns a project's obligations, optionally filtered
// by status.
func (s *obligationService) GetProjectObligations(projectID string, status *models.ObligationStatus) ([]models.Obligation, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	query := s.db.Where("project_id = ?", projectID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	obligations := []models.Obligation{}
	if err := query.Order("created_at DESC").Find(&obligations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return obligations, nil
}

// GetObligationByID returns an obligation by ID.
func (s *obligationService) GetObligationByID(obligationID string) (*models.Obligation, error) {
	var obligation models.Obligation
	if err := s.db.Where("id = ?", obligationID).First(&obligation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrObligationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &obligation, nil
}

// UpdateObligationStatus moves an active obligation to cancelled or
// converted_to_actual. Terminal obligations cannot change.
func (s *obligationService) UpdateObligationStatus(obligationID string, status models.ObligationStatus) (*models.Obligation, error) {
	obligation, err := s.GetObligationByID(obligationID)
	if err != nil {
		return nil, err
	}

	if obligation.Status == status {
		return obligation, nil
	}
	if obligation.Status != models.ObligationActive || status == models.ObligationActive {
		return nil, apperrors.ErrInvalidObligationTransition
	}

	if err := s.db.Model(obligation).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	obligation.Status = status
	return obligation, nil
}

// DeleteObligation soft-deletes an obligation.
func (s *obligationService) DeleteObligation(obligationID string) error {
	obligation, err := s.GetObligationByID(obligationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(obligation).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetObligationSummary returns the simple and confidence-weighted totals of
// the active obligations of a project.
func (s *obligationService) GetObligationSummary(projectID string) (*ObligationSummary, error) {
	status := models.ObligationActive
	obligations, err := s.GetProjectObligations(projectID, &status)
	if err != nil {
		return nil, err
	}
	return summarizeObligations(obligations), nil
}

func summarizeObligations(obligations []models.Obligation) *ObligationSummary {
	totals := evm.WeighObligations(toEVMObligations(obligations))

	summary := &ObligationSummary{
		ActiveCount:   totals.Count,
		TotalAmount:   totals.Total,
		WeightedTotal: totals.Weighted,
		ByConfidence:  make(map[models.ConfidenceLevel]ConfidenceSummary, 3),
	}
	for _, level := range []models.ConfidenceLevel{models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow} {
		summary.ByConfidence[level] = ConfidenceSummary{Total: totals.ByConfidence[evm.Confidence(level)]}
	}
	for _, o := range obligations {
		if o.Status != models.ObligationActive {
			continue
		}
		if c, ok := summary.ByConfidence[o.ConfidenceLevel]; ok {
			c.Count++
			summary.ByConfidence[o.ConfidenceLevel] = c
		}
	}
	return summary
}

func toEVMObligations(obligations []models.Obligation) []evm.Obligation {
	out := make([]evm.Obligation, 0, len(obligations))
	for _, o := range obligations {
		out = append(out, evm.Obligation{
			Amount:     o.Amount,
			Confidence: evm.Confidence(o.ConfidenceLevel),
			Status:     evm.ObligationStatus(o.Status),
		})
	}
	return out
}

