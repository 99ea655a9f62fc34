package employee

import (
	"context"
)

// EmployeeRepository provides read access to the employee roster.
type EmployeeRepository interface {
	// GetByID returns one employee, or ErrEmployeeNotFound.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns all active employees ordered by employee code.
	ListActive(ctx context.Context) ([]Employee, error)

	// ListActiveByIDs returns the active subset of the given IDs, ordered
	// by employee code. Unknown IDs are ignored.
	ListActiveByIDs(ctx context.Context, ids []string) ([]Employee, error)

	// CountAll returns total and active employee counts.
	CountAll(ctx context.Context) (total int64, active int64, err error)
}
