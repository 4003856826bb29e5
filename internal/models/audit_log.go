package models

import "gorm.io/datatypes"

// AuditLog records mutating operations on project data.
type AuditLog struct {
	Base
	Action       string         `gorm:"not null" json:"action"`
	ResourceType string         `gorm:"not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   string         `gorm:"index:idx_audit_resource" json:"resource_id"`
	IPAddress    string         `json:"ip_address"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
}
