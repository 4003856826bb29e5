package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// validateBaseline rejects a non-positive budget or a schedule that does not
// end after it starts.
func validateBaseline(totalBudget decimal.Decimal, startDate, endDate time.Time) error {
	if !evm.Day(endDate).After(evm.Day(startDate)) {
		return apperrors.ErrInvalidBaseline
	}
	if _, err := evm.NewBaseline(startDate, endDate, totalBudget.InexactFloat64(), evm.CurveLinear); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidBaseline, err)
	}
	return nil
}

// CreateProject creates a new project after validating its baseline.
func (s *projectService) CreateProject(
	name, description string,
	totalBudget decimal.Decimal,
	startDate, endDate time.Time,
	curve string,
) (*models.Project, error) {
	if err := validateBaseline(totalBudget, startDate, endDate); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          name,
		Description:   description,
		TotalBudget:   totalBudget,
		StartDate:     evm.Day(startDate),
		EndDate:       evm.Day(endDate),
		BaselineCurve: curve,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// GetProjects returns a paginated list of projects, newest first.
func (s *projectService) GetProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	result, err := pagination.Query[models.Project](s.db.Model(&models.Project{}), page, "created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetProjectByID returns a project by ID.
func (s *projectService) GetProjectByID(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// UpdateProject applies the non-nil fields. The resulting baseline must
// still be valid.
func (s *projectService) UpdateProject(projectID string, update ProjectUpdate) (*models.Project, error) {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		project.Name = *update.Name
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.TotalBudget != nil {
		project.TotalBudget = *update.TotalBudget
	}
	if update.StartDate != nil {
		project.StartDate = evm.Day(*update.StartDate)
	}
	if update.EndDate != nil {
		project.EndDate = evm.Day(*update.EndDate)
	}
	if update.BaselineCurve != nil {
		project.BaselineCurve = *update.BaselineCurve
	}

	if err := validateBaseline(project.TotalBudget, project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// DeleteProject soft-deletes a project together with everything that
// belongs to it.
func (s *projectService) DeleteProject(projectID string) error {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.Phase{},
			&models.CostEntry{},
			&models.Obligation{},
			&models.Milestone{},
		}
		for _, model := range dependents {
			if err := tx.Where("project_id = ?", project.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.CostEstimate{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCostEstimates returns the category to amount mapping of a project.
func (s *projectService) GetCostEstimates(projectID string) (*CostEstimates, error) {
	if _, err := s.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	var estimates []models.CostEstimate
	if err := s.db.Where("project_id = ?", projectID).Find(&estimates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return newCostEstimates(models.EstimateMap(estimates)), nil
}

// UpdateCostEstimates replaces the mapping. Every key must name an existing
// cost category and every amount must be non-negative.
func (s *projectService) UpdateCostEstimates(projectID string, estimates map[string]decimal.Decimal) (*CostEstimates, error) {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	for name, amount := range estimates {
		if amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Estimate for "+name+" must not be negative")
		}
	}

	var known []string
	if err := s.db.Model(&models.CostCategory{}).Pluck("name", &known).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if unknown := unknownCategories(estimates, known); len(unknown) > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrUnknownCostCategory,
			"Unknown cost categories: "+strings.Join(unknown, ", "))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.CostEstimate{}).Error; err != nil {
			return err
		}
		for name, amount := range estimates {
			estimate := &models.CostEstimate{ProjectID: project.ID, CategoryName: name, Amount: amount}
			if err := tx.Create(estimate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return newCostEstimates(estimates), nil
}

func newCostEstimates(estimates map[string]decimal.Decimal) *CostEstimates {
	total := decimal.Zero
	out := make(map[string]decimal.Decimal, len(estimates))
	for name, amount := range estimates {
		out[name] = amount
		total = total.Add(amount)
	}
	return &CostEstimates{Estimates: out, Total: total}
}

// unknownCategories returns the sorted keys that are not in known.
func unknownCategories(estimates map[string]decimal.Decimal, known []string) []string {
	set := make(map[string]bool, len(known))
	for _, name := range known {
		set[name] = true
	}
	var unknown []string
	for name := range estimates {
		if !set[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
