package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
)

// DefaultAuditLimit caps History when the caller passes no limit.
const DefaultAuditLimit = 50

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records a mutation. Failures are logged and swallowed so that an
// audit write never fails the request that triggered it.
func (s *auditService) Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	log := logger.Named("audit").With("action", action, "resource_type", resourceType, "resource_id", resourceID)

	entry := &models.AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(changes),
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to write audit entry", "error", err)
		return
	}
	log.Debug("audit entry written")
}

// History returns the newest audit entries for one resource.
func (s *auditService) History(resourceType, resourceID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > DefaultAuditLimit {
		limit = DefaultAuditLimit
	}

	var entries []models.AuditLog
	err := s.db.
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// encodeChanges serialises the change set; nil stays NULL and values that
// cannot be encoded collapse to an empty object.
func encodeChanges(changes map[string]interface{}) datatypes.JSON {
	if changes == nil {
		return nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Named("audit").Warnw("audit changes not serialisable", "error", err)
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}
