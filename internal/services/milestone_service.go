package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
)

// milestoneService handles milestone business logic.
type milestoneService struct {
	db *gorm.DB
}

// NewMilestoneService creates a new MilestoneServicer.
func NewMilestoneService(db *gorm.DB) MilestoneServicer {
	return &milestoneService{db: db}
}

// CreateMilestone adds a milestone to a project.
func (s *milestoneService) CreateMilestone(projectID, name, description string, date time.Time, isCritical bool) (*models.Milestone, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	milestone := &models.Milestone{
		ProjectID:     projectID,
		Name:          name,
		Description:   description,
		MilestoneDate: evm.Day(date),
		IsCritical:    isCritical,
	}

	if err := s.db.Create(milestone).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return milestone, nil
}

// GetProjectMilestones returns the milestones of a project by date.
func (s *milestoneService) GetProjectMilestones(projectID string) ([]models.Milestone, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	milestones := []models.Milestone{}
	if err := s.db.Where("project_id = ?", projectID).Order("milestone_date ASC").Find(&milestones).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return milestones, nil
}

func (s *milestoneService) getMilestoneByID(milestoneID string) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := s.db.Where("id = ?", milestoneID).First(&milestone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMilestoneNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &milestone, nil
}

// UpdateMilestone applies the non-nil fields.
func (s *milestoneService) UpdateMilestone(milestoneID string, update MilestoneUpdate) (*models.Milestone, error) {
	milestone, err := s.getMilestoneByID(milestoneID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		milestone.Name = *update.Name
	}
	if update.Description != nil {
		milestone.Description = *update.Description
	}
	if update.MilestoneDate != nil {
		milestone.MilestoneDate = evm.Day(*update.MilestoneDate)
	}
	if update.IsCritical != nil {
		milestone.IsCritical = *update.IsCritical
	}
	if update.Completed != nil {
		milestone.Completed = *update.Completed
	}

	if err := s.db.Save(milestone).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return milestone, nil
}

// DeleteMilestone soft-deletes a milestone.
func (s *milestoneService) DeleteMilestone(milestoneID string) error {
	milestone, err := s.getMilestoneByID(milestoneID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(milestone).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
