package employee

import "context"

// EmployeeRepository is the persistence gateway: the aggregate is loaded
// whole, mutated in memory, and replaced whole. Replace is a compare-and-swap
// on the document version loaded with the aggregate and returns
// ErrVersionConflict when another writer got there first.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	ListBySite(ctx context.Context, teamID, siteID string) ([]Employee, error)
	Create(ctx context.Context, emp Employee) (Employee, error)
	Replace(ctx context.Context, emp Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}
