package assignment_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/docportal-access/internal"
	"github.com/frahmantamala/docportal-access/internal/assignment"
	assignmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/assignment"
	"github.com/frahmantamala/docportal-access/internal/core/events"
)

func TestAssignmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Assignment Service Suite")
}

// MockRepository implements assignment.RepositoryAPI in memory,
// including the primary-demotion rule of the postgres repository.
type MockRepository struct {
	rows        map[string]*assignmentDatamodel.EmployeeAssignment
	employees   map[string]bool
	departments map[string]bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		rows:        make(map[string]*assignmentDatamodel.EmployeeAssignment),
		employees:   make(map[string]bool),
		departments: make(map[string]bool),
	}
}

func (m *MockRepository) isActive(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) bool {
	if row.StartDate.After(asOf) {
		return false
	}
	return row.EndDate == nil || row.EndDate.After(asOf)
}

func (m *MockRepository) demote(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) {
	if !row.IsPrimary {
		return
	}
	for _, other := range m.rows {
		if other.ID != row.ID && other.EmployeeID == row.EmployeeID && other.IsPrimary && m.isActive(other, asOf) {
			other.IsPrimary = false
		}
	}
}

func (m *MockRepository) CreateDemotingPrimary(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) error {
	m.demote(row, asOf)
	m.rows[row.ID] = row
	return nil
}

func (m *MockRepository) UpdateDemotingPrimary(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) error {
	m.demote(row, asOf)
	m.rows[row.ID] = row
	return nil
}

func (m *MockRepository) GetByID(id string) (*assignmentDatamodel.EmployeeAssignment, error) {
	return m.rows[id], nil
}

func (m *MockRepository) SetEndDate(id string, endDate time.Time) error {
	if row, ok := m.rows[id]; ok && row.EndDate == nil {
		row.EndDate = &endDate
	}
	return nil
}

func (m *MockRepository) ActiveDepartmentIDs(employeeID string, asOf time.Time) ([]string, error) {
	var ids []string
	for _, row := range m.rows {
		if row.EmployeeID == employeeID && m.isActive(row, asOf) {
			ids = append(ids, row.DepartmentID)
		}
	}
	return ids, nil
}

func (m *MockRepository) ListByEmployee(employeeID string) ([]*assignmentDatamodel.EmployeeAssignment, error) {
	var rows []*assignmentDatamodel.EmployeeAssignment
	for _, row := range m.rows {
		if row.EmployeeID == employeeID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *MockRepository) ListByDepartment(departmentID string) ([]*assignmentDatamodel.EmployeeAssignment, error) {
	var rows []*assignmentDatamodel.EmployeeAssignment
	for _, row := range m.rows {
		if row.DepartmentID == departmentID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *MockRepository) ListActive(asOf time.Time) ([]*assignmentDatamodel.EmployeeAssignment, error) {
	var rows []*assignmentDatamodel.EmployeeAssignment
	for _, row := range m.rows {
		if m.isActive(row, asOf) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (m *MockRepository) EmployeeExists(employeeID string) (bool, error) {
	return m.employees[employeeID], nil
}

func (m *MockRepository) DepartmentExists(departmentID string) (bool, error) {
	return m.departments[departmentID], nil
}

// MockEventBus records synchronously published events.
type MockEventBus struct {
	published []events.Event
}

func (m *MockEventBus) PublishSync(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("AssignmentService", func() {
	var (
		repo    *MockRepository
		bus     *MockEventBus
		service *assignment.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		repo.employees["emp-1"] = true
		repo.departments["dept-eng"] = true
		repo.departments["dept-hr"] = true
		bus = &MockEventBus{}
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		service = assignment.NewService(repo, bus, logger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("defaults start date to now and is_primary to true", func() {
			before := time.Now()

			created, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.IsPrimary).To(BeTrue())
			Expect(created.StartDate).To(BeTemporally(">=", before))
			Expect(created.EndDate).To(BeNil())
		})

		It("demotes the previous primary assignment instead of rejecting", func() {
			first, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})
			Expect(err).ToNot(HaveOccurred())

			second, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-hr",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(second.IsPrimary).To(BeTrue())

			reloaded, err := service.GetByID(first.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(reloaded.IsPrimary).To(BeFalse())
		})

		It("never leaves more than one active primary assignment", func() {
			repo.departments["dept-ops"] = true

			var last *assignment.Assignment
			for _, departmentID := range []string{"dept-eng", "dept-hr", "dept-ops"} {
				created, err := service.Create(ctx, assignment.CreateAssignmentDTO{
					EmployeeID:   "emp-1",
					DepartmentID: departmentID,
				})
				Expect(err).ToNot(HaveOccurred())
				last = created
			}

			all, err := service.ListByEmployee("emp-1")
			Expect(err).ToNot(HaveOccurred())

			var primaries []string
			for _, a := range all {
				if a.IsPrimary && a.IsActive(time.Now()) {
					primaries = append(primaries, a.ID)
				}
			}
			Expect(primaries).To(ConsistOf(last.ID))
		})

		It("keeps multiple simultaneously active non-primary assignments", func() {
			nonPrimary := false
			_, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-hr",
				IsPrimary:    &nonPrimary,
			})
			Expect(err).ToNot(HaveOccurred())

			ids, err := service.ActiveDepartmentIDs("emp-1", time.Now())
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(ConsistOf("dept-eng", "dept-hr"))
		})

		It("fails with NotFound for an unknown employee", func() {
			_, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "ghost",
				DepartmentID: "dept-eng",
			})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("fails with NotFound for an unknown department", func() {
			_, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-ghost",
			})
			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})
	})

	Describe("Update", func() {
		It("promoting an assignment demotes the current primary", func() {
			nonPrimary := false
			first, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})
			Expect(err).ToNot(HaveOccurred())

			second, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-hr",
				IsPrimary:    &nonPrimary,
			})
			Expect(err).ToNot(HaveOccurred())

			promote := true
			updated, err := service.Update(ctx, second.ID, assignment.UpdateAssignmentDTO{IsPrimary: &promote})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.IsPrimary).To(BeTrue())

			reloaded, err := service.GetByID(first.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(reloaded.IsPrimary).To(BeFalse())
		})

		It("fails with NotFound for an unknown assignment", func() {
			position := "engineer"
			_, err := service.Update(ctx, "ghost", assignment.UpdateAssignmentDTO{Position: &position})
			Expect(err).To(Equal(internal.ErrAssignmentNotFound))
		})
	})

	Describe("End", func() {
		It("stamps end_date and publishes an event", func() {
			created, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})
			Expect(err).ToNot(HaveOccurred())

			ended, err := service.End(ctx, created.ID, "admin-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(ended.EndDate).ToNot(BeNil())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventAssignmentEnded))
		})

		It("is idempotent when the assignment is already ended", func() {
			created, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})
			Expect(err).ToNot(HaveOccurred())

			first, err := service.End(ctx, created.ID, "admin-1")
			Expect(err).ToNot(HaveOccurred())

			second, err := service.End(ctx, created.ID, "admin-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(second.EndDate).To(Equal(first.EndDate))
			Expect(bus.published).To(HaveLen(1))
		})

		It("fails with NotFound for an unknown assignment", func() {
			_, err := service.End(ctx, "ghost", "admin-1")
			Expect(err).To(Equal(internal.ErrAssignmentNotFound))
		})

		It("removes the department from the active set", func() {
			created, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.End(ctx, created.ID, "admin-1")
			Expect(err).ToNot(HaveOccurred())

			ids, err := service.ActiveDepartmentIDs("emp-1", time.Now())
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(BeEmpty())
		})
	})

	Describe("validity windows", func() {
		It("excludes future-dated assignments until their start passes", func() {
			future := time.Now().Add(24 * time.Hour)
			_, err := service.Create(ctx, assignment.CreateAssignmentDTO{
				EmployeeID:   "emp-1",
				DepartmentID: "dept-eng",
				StartDate:    &future,
			})
			Expect(err).ToNot(HaveOccurred())

			ids, err := service.ActiveDepartmentIDs("emp-1", time.Now())
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(BeEmpty())

			ids, err = service.ActiveDepartmentIDs("emp-1", future.Add(time.Hour))
			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(ConsistOf("dept-eng"))
		})
	})
})
