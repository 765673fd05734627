package models

import (
	"time"

	"github.com/google/uuid"
)

// Salary is one payroll record for a user and month (format YYYY-MM).
// TotalSalary is stored rather than derived so historical rows survive
// later changes to the calculation.
type Salary struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_salaries_user_month,unique"`
	Month       string    `json:"month" gorm:"size:7;not null;index:idx_salaries_user_month,unique"`
	BaseSalary  float64   `json:"base_salary" gorm:"not null"`
	Bonus       float64   `json:"bonus" gorm:"default:0"`
	Deductions  float64   `json:"deductions" gorm:"default:0"`
	TotalSalary float64   `json:"total_salary" gorm:"not null"`
	HoursWorked float64   `json:"hours_worked" gorm:"default:0"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User Profile `json:"user" gorm:"foreignKey:UserID"`
}
