// Package repository declares the persistence contracts of the health service.
// Implementations live in subpackages (postgres); they run parameterised SQL and hold no business rules.
package repository

import "time"

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// TimeRange is a half-open [From, To) interval used by reporting queries.
type TimeRange struct {
	From time.Time
	To   time.Time
}
