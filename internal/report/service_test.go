package report_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/docportal-access/internal/assignment"
	"github.com/frahmantamala/docportal-access/internal/grant"
	"github.com/frahmantamala/docportal-access/internal/permission"
	"github.com/frahmantamala/docportal-access/internal/report"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Service Suite")
}

type MockGrantSource struct {
	grants []*grant.Grant
}

func (m *MockGrantSource) ListActive(asOf time.Time) ([]*grant.Grant, error) {
	return m.grants, nil
}

type MockAssignmentSource struct {
	assignments []*assignment.Assignment
}

func (m *MockAssignmentSource) ListActive(asOf time.Time) ([]*assignment.Assignment, error) {
	return m.assignments, nil
}

var _ = Describe("ReportService", func() {
	var (
		grants      *MockGrantSource
		assignments *MockAssignmentSource
		service     *report.Service
	)

	reportTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	grantedAt := reportTime.Add(-48 * time.Hour)

	activeGrant := func(scope permission.Scope, entityID, key, templateName string) *grant.Grant {
		return &grant.Grant{
			ID:           "grant-" + string(scope) + "-" + entityID + "-" + key,
			Scope:        scope,
			EntityID:     entityID,
			Permission:   key,
			GrantedBy:    "admin-1",
			GrantedAt:    grantedAt,
			TemplateName: templateName,
		}
	}

	activeAssignment := func(id, employeeID, departmentID string, primary bool) *assignment.Assignment {
		return &assignment.Assignment{
			ID:           id,
			EmployeeID:   employeeID,
			DepartmentID: departmentID,
			StartDate:    grantedAt,
			IsPrimary:    primary,
		}
	}

	BeforeEach(func() {
		grants = &MockGrantSource{}
		assignments = &MockAssignmentSource{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = report.NewService(grants, assignments, logger).WithClock(func() time.Time { return reportTime })
	})

	Describe("Generate", func() {
		It("groups active grants by entity in a deterministic order", func() {
			grants.grants = []*grant.Grant{
				activeGrant(permission.ScopeUser, "emp-1", "documents.view_all", ""),
				activeGrant(permission.ScopeCategory, "cat-eng", "documents.view_all", ""),
				activeGrant(permission.ScopeUser, "emp-1", "documents.create", ""),
				activeGrant(permission.ScopeDepartment, "dept-eng", "documents.edit_all", ""),
			}
			assignments.assignments = []*assignment.Assignment{
				activeAssignment("assign-1", "emp-1", "dept-eng", true),
			}

			generated, err := service.Generate()
			Expect(err).ToNot(HaveOccurred())
			Expect(generated.GeneratedAt).To(Equal(reportTime))
			Expect(generated.Entities).To(HaveLen(3))

			Expect(generated.Entities[0].EntityType).To(Equal("category"))
			Expect(generated.Entities[1].EntityType).To(Equal("department"))
			Expect(generated.Entities[2].EntityType).To(Equal("user"))

			userEntity := generated.Entities[2]
			Expect(userEntity.EntityID).To(Equal("emp-1"))
			Expect(userEntity.Grants).To(HaveLen(2))
			Expect(userEntity.Grants[0].Permission).To(Equal("documents.create"))
			Expect(userEntity.Grants[1].Permission).To(Equal("documents.view_all"))
		})

		It("carries the template origin on each grant", func() {
			grants.grants = []*grant.Grant{
				activeGrant(permission.ScopeUser, "emp-1", "documents.view_all", "document_viewer"),
				activeGrant(permission.ScopeUser, "emp-1", "documents.create", ""),
			}

			generated, err := service.Generate()
			Expect(err).ToNot(HaveOccurred())

			byKey := map[string]string{}
			for _, g := range generated.Entities[0].Grants {
				byKey[g.Permission] = g.FromTemplate
			}
			Expect(byKey["documents.view_all"]).To(Equal("document_viewer"))
			Expect(byKey["documents.create"]).To(BeEmpty())
			Expect(generated.Summary.FromTemplates).To(Equal(1))
		})

		It("summarizes grant counts per scope", func() {
			grants.grants = []*grant.Grant{
				activeGrant(permission.ScopeUser, "emp-1", "documents.view_all", ""),
				activeGrant(permission.ScopeUser, "emp-2", "documents.view_all", ""),
				activeGrant(permission.ScopeDepartment, "dept-eng", "documents.edit_all", ""),
				activeGrant(permission.ScopeCategory, "cat-eng", "documents.view_all", ""),
			}
			assignments.assignments = []*assignment.Assignment{
				activeAssignment("assign-1", "emp-1", "dept-eng", true),
			}

			generated, err := service.Generate()
			Expect(err).ToNot(HaveOccurred())
			Expect(generated.Summary.TotalActiveGrants).To(Equal(4))
			Expect(generated.Summary.UserGrants).To(Equal(2))
			Expect(generated.Summary.DepartmentGrants).To(Equal(1))
			Expect(generated.Summary.CategoryGrants).To(Equal(1))
			Expect(generated.Summary.Entities).To(Equal(4))
		})

		It("flags department grants with no active assignments once per department", func() {
			grants.grants = []*grant.Grant{
				activeGrant(permission.ScopeDepartment, "dept-empty", "documents.view_all", ""),
				activeGrant(permission.ScopeDepartment, "dept-empty", "documents.edit_all", ""),
				activeGrant(permission.ScopeDepartment, "dept-eng", "documents.view_all", ""),
			}
			assignments.assignments = []*assignment.Assignment{
				activeAssignment("assign-1", "emp-1", "dept-eng", true),
			}

			generated, err := service.Generate()
			Expect(err).ToNot(HaveOccurred())
			Expect(generated.Anomalies).To(HaveLen(1))
			Expect(generated.Anomalies[0].Kind).To(Equal(report.AnomalyOrphanedDepartmentGrant))
			Expect(generated.Anomalies[0].EntityID).To(Equal("dept-empty"))
		})

		It("flags employees holding more than one active primary assignment", func() {
			assignments.assignments = []*assignment.Assignment{
				activeAssignment("assign-1", "emp-1", "dept-eng", true),
				activeAssignment("assign-2", "emp-1", "dept-hr", true),
				activeAssignment("assign-3", "emp-2", "dept-eng", true),
			}

			generated, err := service.Generate()
			Expect(err).ToNot(HaveOccurred())
			Expect(generated.Anomalies).To(HaveLen(1))
			Expect(generated.Anomalies[0].Kind).To(Equal(report.AnomalyMultiplePrimary))
			Expect(generated.Anomalies[0].EntityID).To(Equal("emp-1"))
			Expect(generated.Summary.Anomalies).To(Equal(1))
		})

		It("produces an empty report when nothing is active", func() {
			generated, err := service.Generate()
			Expect(err).ToNot(HaveOccurred())
			Expect(generated.Entities).To(BeEmpty())
			Expect(generated.Anomalies).To(BeEmpty())
			Expect(generated.Summary.TotalActiveGrants).To(Equal(0))
		})
	})
})
