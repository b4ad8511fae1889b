package report

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/assignment"
	"github.com/frahmantamala/docportal-access/internal/grant"
	"github.com/frahmantamala/docportal-access/internal/permission"
)

type GrantSource interface {
	ListActive(asOf time.Time) ([]*grant.Grant, error)
}

type AssignmentSource interface {
	ListActive(asOf time.Time) ([]*assignment.Assignment, error)
}

// Service assembles the permission report from the active grants and
// assignments. Nothing is cached between requests.
type Service struct {
	grants      GrantSource
	assignments AssignmentSource
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(grants GrantSource, assignments AssignmentSource, logger *slog.Logger) *Service {
	return &Service{
		grants:      grants,
		assignments: assignments,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the report's time source for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate builds the report: active grants grouped per entity, their
// template origins, and anomaly flags for department grants without any
// active assignment and for employees carrying more than one active
// primary assignment.
func (s *Service) Generate() (*PermissionReport, error) {
	asOf := s.now()

	activeGrants, err := s.grants.ListActive(asOf)
	if err != nil {
		return nil, internal.NewInternalError("failed to list active grants", err)
	}
	activeAssignments, err := s.assignments.ListActive(asOf)
	if err != nil {
		return nil, internal.NewInternalError("failed to list active assignments", err)
	}

	report := &PermissionReport{
		GeneratedAt: asOf,
		Entities:    s.groupByEntity(activeGrants),
		Anomalies:   s.findAnomalies(activeGrants, activeAssignments),
	}
	report.Summary = s.summarize(activeGrants, report)

	s.logger.Info("permission report generated",
		"entities", len(report.Entities),
		"active_grants", report.Summary.TotalActiveGrants,
		"anomalies", len(report.Anomalies))
	return report, nil
}

func (s *Service) groupByEntity(grants []*grant.Grant) []EntityReport {
	type entityKey struct {
		scope    string
		entityID string
	}

	grouped := make(map[entityKey][]GrantSummary)
	for _, g := range grants {
		key := entityKey{scope: g.Scope.String(), entityID: g.EntityID}
		grouped[key] = append(grouped[key], GrantSummary{
			GrantID:      g.ID,
			Permission:   g.Permission,
			GrantedBy:    g.GrantedBy,
			GrantedAt:    g.GrantedAt,
			ExpiresAt:    g.ExpiresAt,
			FromTemplate: g.TemplateName,
		})
	}

	entities := make([]EntityReport, 0, len(grouped))
	for key, summaries := range grouped {
		sort.Slice(summaries, func(i, j int) bool {
			return summaries[i].Permission < summaries[j].Permission
		})
		entities = append(entities, EntityReport{
			EntityType: key.scope,
			EntityID:   key.entityID,
			Grants:     summaries,
		})
	}
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].EntityType != entities[j].EntityType {
			return entities[i].EntityType < entities[j].EntityType
		}
		return entities[i].EntityID < entities[j].EntityID
	})
	return entities
}

func (s *Service) findAnomalies(grants []*grant.Grant, assignments []*assignment.Assignment) []Anomaly {
	anomalies := make([]Anomaly, 0)

	departmentsWithMembers := make(map[string]bool)
	primaryCounts := make(map[string]int)
	for _, a := range assignments {
		departmentsWithMembers[a.DepartmentID] = true
		if a.IsPrimary {
			primaryCounts[a.EmployeeID]++
		}
	}

	flaggedDepartments := make(map[string]bool)
	for _, g := range grants {
		if g.Scope != permission.ScopeDepartment {
			continue
		}
		if departmentsWithMembers[g.EntityID] || flaggedDepartments[g.EntityID] {
			continue
		}
		flaggedDepartments[g.EntityID] = true
		anomalies = append(anomalies, Anomaly{
			Kind:       AnomalyOrphanedDepartmentGrant,
			EntityType: permission.ScopeDepartment.String(),
			EntityID:   g.EntityID,
			Detail:     "department holds active grants but has no active assignments",
		})
	}

	employees := make([]string, 0, len(primaryCounts))
	for employeeID, count := range primaryCounts {
		if count > 1 {
			employees = append(employees, employeeID)
		}
	}
	sort.Strings(employees)
	for _, employeeID := range employees {
		anomalies = append(anomalies, Anomaly{
			Kind:       AnomalyMultiplePrimary,
			EntityType: permission.ScopeUser.String(),
			EntityID:   employeeID,
			Detail:     fmt.Sprintf("employee has %d active primary assignments", primaryCounts[employeeID]),
		})
	}

	return anomalies
}

func (s *Service) summarize(grants []*grant.Grant, report *PermissionReport) Summary {
	summary := Summary{
		TotalActiveGrants: len(grants),
		Entities:          len(report.Entities),
		Anomalies:         len(report.Anomalies),
	}
	for _, g := range grants {
		switch g.Scope {
		case permission.ScopeUser:
			summary.UserGrants++
		case permission.ScopeDepartment:
			summary.DepartmentGrants++
		case permission.ScopeCategory:
			summary.CategoryGrants++
		}
		if g.TemplateName != "" {
			summary.FromTemplates++
		}
	}
	return summary
}
