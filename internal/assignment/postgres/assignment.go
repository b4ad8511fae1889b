package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/docportal-access/internal/assignment"
	assignmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/assignment"
	departmentDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/user"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) assignment.RepositoryAPI {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) CreateDemotingPrimary(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if row.IsPrimary {
			if err := demoteActivePrimary(tx, row.EmployeeID, row.ID, asOf); err != nil {
				return err
			}
		}
		return tx.Create(row).Error
	})
}

func (r *AssignmentRepository) UpdateDemotingPrimary(row *assignmentDatamodel.EmployeeAssignment, asOf time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if row.IsPrimary {
			if err := demoteActivePrimary(tx, row.EmployeeID, row.ID, asOf); err != nil {
				return err
			}
		}
		return tx.Save(row).Error
	})
}

// demoteActivePrimary demotes the employee's other active primary
// assignments so that at most one survives. Last write wins. Primary
// writes for one employee serialize on the employee's users row;
// locking only the visible assignment rows cannot stop a concurrent
// insert of a second primary.
func demoteActivePrimary(tx *gorm.DB, employeeID, exceptID string, asOf time.Time) error {
	var employee userDatamodel.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", employeeID).
		First(&employee).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	var others []*assignmentDatamodel.EmployeeAssignment
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND id <> ? AND is_primary = ?", employeeID, exceptID, true).
		Where("start_date <= ?", asOf).
		Where("end_date IS NULL OR end_date > ?", asOf).
		Find(&others).Error
	if err != nil {
		return err
	}
	for _, other := range others {
		if err := tx.Model(other).Updates(map[string]interface{}{
			"is_primary": false,
			"updated_at": asOf,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *AssignmentRepository) GetByID(id string) (*assignmentDatamodel.EmployeeAssignment, error) {
	var row assignmentDatamodel.EmployeeAssignment
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AssignmentRepository) SetEndDate(id string, endDate time.Time) error {
	return r.db.Model(&assignmentDatamodel.EmployeeAssignment{}).
		Where("id = ? AND end_date IS NULL", id).
		Updates(map[string]interface{}{
			"end_date":   endDate,
			"updated_at": endDate,
		}).Error
}

func (r *AssignmentRepository) ActiveDepartmentIDs(employeeID string, asOf time.Time) ([]string, error) {
	var departmentIDs []string
	err := r.db.Model(&assignmentDatamodel.EmployeeAssignment{}).
		Where("employee_id = ?", employeeID).
		Where("start_date <= ?", asOf).
		Where("end_date IS NULL OR end_date > ?", asOf).
		Distinct().
		Pluck("department_id", &departmentIDs).Error
	return departmentIDs, err
}

func (r *AssignmentRepository) ListByEmployee(employeeID string) ([]*assignmentDatamodel.EmployeeAssignment, error) {
	var rows []*assignmentDatamodel.EmployeeAssignment
	err := r.db.Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) ListByDepartment(departmentID string) ([]*assignmentDatamodel.EmployeeAssignment, error) {
	var rows []*assignmentDatamodel.EmployeeAssignment
	err := r.db.Where("department_id = ?", departmentID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) ListActive(asOf time.Time) ([]*assignmentDatamodel.EmployeeAssignment, error) {
	var rows []*assignmentDatamodel.EmployeeAssignment
	err := r.db.Where("start_date <= ?", asOf).
		Where("end_date IS NULL OR end_date > ?", asOf).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) EmployeeExists(employeeID string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepository) DepartmentExists(departmentID string) (bool, error) {
	var count int64
	err := r.db.Model(&departmentDatamodel.Department{}).Where("id = ?", departmentID).Count(&count).Error
	return count > 0, err
}
