package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownPhysicianType is returned for a roster entry whose variant is
	// missing or not one of the six known types. This is a programming error.
	ErrUnknownPhysicianType = errors.New("unknown physician type")

	// ErrPortionOutOfRange is returned when a timing portion is outside [0,1]
	ErrPortionOutOfRange = errors.New("portion of year out of range")

	// ErrUnknownField is returned for a projected field name that does not exist
	ErrUnknownField = errors.New("unknown projection field")

	// ErrBaselineNotFound is returned when a data mode names no available baseline
	ErrBaselineNotFound = errors.New("baseline not found")

	// ErrYearNotProjected is returned when an edit targets a year outside the projection
	ErrYearNotProjected = errors.New("year not in projection")
)

// PortionError carries the offending physician and field for ErrPortionOutOfRange
type PortionError struct {
	PhysicianID string
	Field       string
	Value       decimal.Decimal
}

func (e *PortionError) Error() string {
	return fmt.Sprintf("physician %q: %s=%s: %v", e.PhysicianID, e.Field, e.Value.String(), ErrPortionOutOfRange)
}

func (e *PortionError) Unwrap() error { return ErrPortionOutOfRange }
