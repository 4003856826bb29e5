package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
)

// phaseService handles phase-related business logic.
type phaseService struct {
	db *gorm.DB
}

// NewPhaseService creates a new PhaseServicer.
func NewPhaseService(db *gorm.DB) PhaseServicer {
	return &phaseService{db: db}
}

// CreatePhase adds a phase to a project. An empty status means not started.
func (s *phaseService) CreatePhase(
	projectID, name, description string,
	budget decimal.Decimal,
	startDate, endDate time.Time,
	status models.PhaseStatus,
) (*models.Phase, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}
	if err := validatePhase(budget, startDate, endDate); err != nil {
		return nil, err
	}
	if status == "" {
		status = models.PhaseNotStarted
	}

	phase := &models.Phase{
		ProjectID:        projectID,
		Name:             name,
		Description:      description,
		BudgetAllocation: budget,
		StartDate:        evm.Day(startDate),
		EndDate:          evm.Day(endDate),
		Status:           status,
	}

	if err := s.db.Create(phase).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return phase, nil
}

func validatePhase(budget decimal.Decimal, startDate, endDate time.Time) error {
	if budget.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget allocation must not be negative")
	}
	if evm.Day(endDate).Before(evm.Day(startDate)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Phase end date must not be before its start date")
	}
	return nil
}

// GetProjectPhases returns the phases of a project in schedule order.
func (s *phaseService) GetProjectPhases(projectID string) ([]models.Phase, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	var phases []models.Phase
	if err := s.db.Where("project_id = ?", projectID).Order("start_date ASC, created_at ASC").Find(&phases).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phases, nil
}

// GetPhaseByID returns a phase by ID.
func (s *phaseService) GetPhaseByID(phaseID string) (*models.Phase, error) {
	var phase models.Phase
	if err := s.db.Where("id = ?", phaseID).First(&phase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPhaseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &phase, nil
}

// UpdatePhase applies the non-nil fields.
func (s *phaseService) UpdatePhase(phaseID string, update PhaseUpdate) (*models.Phase, error) {
	phase, err := s.GetPhaseByID(phaseID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		phase.Name = *update.Name
	}
	if update.Description != nil {
		phase.Description = *update.Description
	}
	if update.BudgetAllocation != nil {
		phase.BudgetAllocation = *update.BudgetAllocation
	}
	if update.StartDate != nil {
		phase.StartDate = evm.Day(*update.StartDate)
	}
	if update.EndDate != nil {
		phase.EndDate = evm.Day(*update.EndDate)
	}

	if err := validatePhase(phase.BudgetAllocation, phase.StartDate, phase.EndDate); err != nil {
		return nil, err
	}

	if err := s.db.Save(phase).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return phase, nil
}

// UpdatePhaseStatus moves a phase to a new status. Any status may follow any
// other; phases are reopened as often as they are delayed.
func (s *phaseService) UpdatePhaseStatus(phaseID string, status models.PhaseStatus) (*models.Phase, error) {
	phase, err := s.GetPhaseByID(phaseID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(phase).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	phase.Status = status
	return phase, nil
}

// DeletePhase soft-deletes a phase and detaches its cost entries, which stay
// on the project.
func (s *phaseService) DeletePhase(phaseID string) error {
	phase, err := s.GetPhaseByID(phaseID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CostEntry{}).Where("phase_id = ?", phase.ID).Update("phase_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(phase).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ensureProject returns ErrProjectNotFound unless the project exists.
func ensureProject(db *gorm.DB, projectID string) error {
	var count int64
	if err := db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
