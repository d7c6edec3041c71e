package entities

import "errors"

var (
	// ErrEmployeeNotFound is returned when an employee lookup finds no record.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrCyclicHierarchy is returned when a reports-to traversal revisits
	// an employee, meaning the manager graph is not a tree. Callers are
	// expected to fail closed (self-only visibility) when they see it.
	ErrCyclicHierarchy = errors.New("cyclic manager hierarchy")
)
