package employees

import "time"

// Employee is a payroll-relevant worker attached to an agency.
type Employee struct {
	ID           string    `json:"id"`
	AgencyID     string    `json:"agency_id"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	WeeklySalary float64   `json:"weekly_salary_bs"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
