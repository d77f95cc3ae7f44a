package query

import "errors"

var (
	// ErrStatusNotFound reports that no term of a status option resolved.
	ErrStatusNotFound = errors.New("status not found")

	// ErrTooManyDates reports more than two date expressions for one option.
	ErrTooManyDates = errors.New("too many dates, give one expression or a two-element range")

	// ErrInvalidDate reports an unparseable date expression.
	ErrInvalidDate = errors.New("invalid date format")

	// ErrInvalidSort reports a malformed sort option.
	ErrInvalidSort = errors.New(`invalid sort, expected "field:asc" or "field:desc"`)

	// ErrPriorityNotFound reports a priority name absent from the listing.
	ErrPriorityNotFound = errors.New("priority not found")

	// ErrInvalidPriorityOrder reports a malformed priority-order option.
	ErrInvalidPriorityOrder = errors.New(`invalid priority-order, expected "operator|priority name"`)

	// ErrProjectRequired reports a category filter without a project id.
	ErrProjectRequired = errors.New("a project id is required to filter by category")
)
