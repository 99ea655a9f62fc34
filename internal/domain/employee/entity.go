package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Department   *string
	Branch       *string
	Position     *string
	HireDate     time.Time
	BaseSalary   *decimal.Decimal
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UngroupedName labels the synthetic bucket for employees without a
// department or branch when reports group rows.
const UngroupedName = "Ungrouped"
