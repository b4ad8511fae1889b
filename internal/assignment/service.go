package assignment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/docportal-access/internal"
	assignmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/assignment"
	"github.com/frahmantamala/docportal-access/internal/core/events"
)

type RepositoryAPI interface {
	// CreateDemotingPrimary inserts the row and, when it is marked
	// primary, demotes any other active primary assignment of the same
	// employee inside the same transaction (last write wins).
	CreateDemotingPrimary(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) error
	// UpdateDemotingPrimary saves the row with the same demotion rule.
	UpdateDemotingPrimary(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) error
	GetByID(id string) (*assignmentDatamodel.EmployeeAssignment, error)
	SetEndDate(id string, endDate time.Time) error
	ActiveDepartmentIDs(employeeID string, asOf time.Time) ([]string, error)
	ListByEmployee(employeeID string) ([]*assignmentDatamodel.EmployeeAssignment, error)
	ListByDepartment(departmentID string) ([]*assignmentDatamodel.EmployeeAssignment, error)
	ListActive(asOf time.Time) ([]*assignmentDatamodel.EmployeeAssignment, error)
	EmployeeExists(employeeID string) (bool, error)
	DepartmentExists(departmentID string) (bool, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo   RepositoryAPI
	bus    EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// Create records a department assignment. StartDate defaults to now and
// IsPrimary defaults to true; an existing active primary assignment for
// the employee is demoted rather than rejected.
func (s *Service) Create(ctx context.Context, dto CreateAssignmentDTO) (*Assignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmployeeExists(dto.EmployeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up employee", err)
	}
	if !exists {
		return nil, internal.ErrUserNotFound
	}

	exists, err = s.repo.DepartmentExists(dto.DepartmentID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up department", err)
	}
	if !exists {
		return nil, internal.ErrDepartmentNotFound
	}

	now := s.now()
	startDate := now
	if dto.StartDate != nil {
		startDate = *dto.StartDate
	}
	isPrimary := true
	if dto.IsPrimary != nil {
		isPrimary = *dto.IsPrimary
	}

	row := &assignmentDatamodel.EmployeeAssignment{
		ID:           uuid.NewString(),
		EmployeeID:   dto.EmployeeID,
		DepartmentID: dto.DepartmentID,
		Position:     dto.Position,
		StartDate:    startDate,
		IsPrimary:    isPrimary,
		Notes:        dto.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateDemotingPrimary(row, now); err != nil {
		return nil, internal.NewInternalError("failed to create assignment", err)
	}

	s.logger.Info("assignment created",
		"assignment_id", row.ID,
		"employee_id", row.EmployeeID,
		"department_id", row.DepartmentID,
		"is_primary", row.IsPrimary)
	return FromDataModel(row), nil
}

// Update applies a patch to an assignment; promoting it to primary
// demotes the employee's other active primary assignment.
func (s *Service) Update(ctx context.Context, id string, dto UpdateAssignmentDTO) (*Assignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load assignment", err)
	}
	if row == nil {
		return nil, internal.ErrAssignmentNotFound
	}

	if dto.Position != nil {
		row.Position = *dto.Position
	}
	if dto.StartDate != nil {
		row.StartDate = *dto.StartDate
	}
	if dto.EndDate != nil {
		row.EndDate = dto.EndDate
	}
	if dto.IsPrimary != nil {
		row.IsPrimary = *dto.IsPrimary
	}
	if dto.Notes != nil {
		row.Notes = *dto.Notes
	}
	row.UpdatedAt = s.now()

	if err := s.repo.UpdateDemotingPrimary(row, s.now()); err != nil {
		return nil, internal.NewInternalError("failed to update assignment", err)
	}

	return FromDataModel(row), nil
}

// End stamps end_date on the assignment. Ending an already-ended
// assignment returns the unchanged record: unlike grant revocation this
// is a state convergence, not an audited act that must happen once.
func (s *Service) End(ctx context.Context, id, actor string) (*Assignment, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load assignment", err)
	}
	if row == nil {
		return nil, internal.ErrAssignmentNotFound
	}
	if row.EndDate != nil {
		return FromDataModel(row), nil
	}

	endDate := s.now()
	if err := s.repo.SetEndDate(id, endDate); err != nil {
		return nil, internal.NewInternalError("failed to end assignment", err)
	}
	row.EndDate = &endDate

	if err := s.bus.PublishSync(ctx, events.NewAssignmentEndedEvent(row.ID, row.EmployeeID, row.DepartmentID, actor)); err != nil {
		return nil, err
	}

	s.logger.Info("assignment ended",
		"assignment_id", row.ID,
		"employee_id", row.EmployeeID,
		"department_id", row.DepartmentID,
		"ended_by", actor)
	return FromDataModel(row), nil
}

func (s *Service) GetByID(id string) (*Assignment, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load assignment", err)
	}
	if row == nil {
		return nil, internal.ErrAssignmentNotFound
	}
	return FromDataModel(row), nil
}

// ActiveDepartmentIDs is the resolver's read path: departments whose
// assignment interval covers asOf.
func (s *Service) ActiveDepartmentIDs(employeeID string, asOf time.Time) ([]string, error) {
	return s.repo.ActiveDepartmentIDs(employeeID, asOf)
}

func (s *Service) ListByEmployee(employeeID string) ([]*Assignment, error) {
	rows, err := s.repo.ListByEmployee(employeeID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assignments", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) ListByDepartment(departmentID string) ([]*Assignment, error) {
	rows, err := s.repo.ListByDepartment(departmentID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list assignments", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) ListActive(asOf time.Time) ([]*Assignment, error) {
	rows, err := s.repo.ListActive(asOf)
	if err != nil {
		return nil, internal.NewInternalError("failed to list active assignments", err)
	}
	return FromDataModels(rows), nil
}
