package permission

import "time"

// Grant is an append-mostly row: revocation sets revoked_at instead of
// deleting, preserving the audit trail.
type Grant struct {
	ID           string     `gorm:"primaryKey;type:uuid"`
	EntityType   string     `gorm:"column:entity_type;not null;index:idx_grants_entity,priority:1"`
	EntityID     string     `gorm:"column:entity_id;type:uuid;not null;index:idx_grants_entity,priority:2"`
	Permission   string     `gorm:"column:permission;not null;index:idx_grants_entity,priority:3"`
	GrantedBy    string     `gorm:"column:granted_by;type:uuid"`
	GrantedAt    time.Time  `gorm:"column:granted_at;default:now()"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	RevokedAt    *time.Time `gorm:"column:revoked_at"`
	RevokedBy    *string    `gorm:"column:revoked_by;type:uuid"`
	TemplateName string     `gorm:"column:template_name"`
	Notes        string     `gorm:"column:notes"`
}

func (Grant) TableName() string { return "permission_grants" }

type PermissionTemplate struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Permissions []string  `gorm:"column:permissions;serializer:json;not null"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedBy   string    `gorm:"column:created_by;type:uuid"`
	UsageCount  int       `gorm:"column:usage_count;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (PermissionTemplate) TableName() string { return "permission_templates" }

type AuditLog struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Action       string    `gorm:"column:action;not null;index"`
	Permission   string    `gorm:"column:permission"`
	EntityType   string    `gorm:"column:entity_type"`
	EntityID     string    `gorm:"column:entity_id;type:uuid"`
	TemplateName string    `gorm:"column:template_name;index"`
	PerformedBy  string    `gorm:"column:performed_by;type:uuid"`
	PerformedAt  time.Time `gorm:"column:performed_at;default:now()"`
	Notes        string    `gorm:"column:notes"`
}

func (AuditLog) TableName() string { return "permission_audit_log" }
