package report

import "time"

// Anomaly classes flagged by the permission report.
const (
	AnomalyOrphanedDepartmentGrant = "orphaned_department_grant"
	AnomalyMultiplePrimary         = "multiple_primary_assignments"
)

// GrantSummary is one active grant as shown in the report, with its
// template origin reconstructed from the name stamped at application
// time.
type GrantSummary struct {
	GrantID      string     `json:"grant_id"`
	Permission   string     `json:"permission"`
	GrantedBy    string     `json:"granted_by,omitempty"`
	GrantedAt    time.Time  `json:"granted_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	FromTemplate string     `json:"from_template,omitempty"`
}

// EntityReport groups the active grants held by one (scope, id) pair.
type EntityReport struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Grants     []GrantSummary `json:"grants"`
}

// Anomaly flags a suspicious state found while assembling the report.
type Anomaly struct {
	Kind       string `json:"kind"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Detail     string `json:"detail"`
}

type Summary struct {
	TotalActiveGrants int `json:"total_active_grants"`
	UserGrants        int `json:"user_grants"`
	DepartmentGrants  int `json:"department_grants"`
	CategoryGrants    int `json:"category_grants"`
	FromTemplates     int `json:"from_templates"`
	Entities          int `json:"entities"`
	Anomalies         int `json:"anomalies"`
}

// PermissionReport is the full audit view of who can do what, computed
// fresh on every request.
type PermissionReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     Summary        `json:"summary"`
	Entities    []EntityReport `json:"entities"`
	Anomalies   []Anomaly      `json:"anomalies"`
}
