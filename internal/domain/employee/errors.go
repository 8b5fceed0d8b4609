package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeExists   = errors.New("employee already exists")
	ErrLastAssignment   = errors.New("cannot remove an employee's only assignment")
	ErrVersionConflict  = errors.New("employee document was modified by another writer")
)
