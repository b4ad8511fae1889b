package assignment

import "time"

// EmployeeAssignment links a user to a department for a validity interval.
// Ending an assignment sets end_date instead of deleting the row.
type EmployeeAssignment struct {
	ID           string     `gorm:"primaryKey;type:uuid"`
	EmployeeID   string     `gorm:"column:employee_id;type:uuid;not null;index"`
	DepartmentID string     `gorm:"column:department_id;type:uuid;not null;index"`
	Position     string     `gorm:"column:position"`
	StartDate    time.Time  `gorm:"column:start_date;not null"`
	EndDate      *time.Time `gorm:"column:end_date"`
	IsPrimary    bool       `gorm:"column:is_primary;default:true"`
	Notes        string     `gorm:"column:notes"`
	CreatedAt    time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;default:now()"`
}

func (EmployeeAssignment) TableName() string { return "department_assignments" }
