package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors (raised eagerly when an aggregator is built)
	ErrNoTimeStrategy   = errors.New("no aggregation strategy resolvable for time level")
	ErrInvalidStrategy  = errors.New("aggregation strategy must be a name or a function")
	ErrLevelSetMismatch = errors.New("entity and aggregatable levels do not partition the key fields")

	// Format errors (raised when an input table has the wrong shape)
	ErrNoColumnIndex  = errors.New("table has no hierarchical column index")
	ErrMissingLevel   = errors.New("required column level missing")
	ErrMixedGroups    = errors.New("cannot aggregate across mixed entity groups")
	ErrLengthMismatch = errors.New("column length does not match time index")

	// Domain errors (raised by identity operations)
	ErrDuplicateUnderflow = errors.New("duplicate index cannot go below zero")
	ErrDerivedQuery       = errors.New("derived series has no underlying storage query")
	ErrUnknownGroup       = errors.New("unknown entity group")
	ErrUnknownQuantity    = errors.New("unknown quantity")
	ErrLocationNotFound   = errors.New("location not found in network")

	// Repository errors
	ErrRunNotFound = errors.New("aggregation run not found")
)

// Error constructors with context
func NewFormatError(base error, detail string) error {
	return fmt.Errorf("%w: %s", base, detail)
}

func NewMissingLevelError(level string) error {
	return fmt.Errorf("%w: %q; read the result table in full column mode before aggregating", ErrMissingLevel, level)
}

func NewMixedGroupsError(groups []string) error {
	return fmt.Errorf("%w: found %v", ErrMixedGroups, groups)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoTimeStrategy) ||
		errors.Is(err, ErrInvalidStrategy) ||
		errors.Is(err, ErrLevelSetMismatch)
}

func IsFormatError(err error) bool {
	return errors.Is(err, ErrNoColumnIndex) ||
		errors.Is(err, ErrMissingLevel) ||
		errors.Is(err, ErrMixedGroups) ||
		errors.Is(err, ErrLengthMismatch)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrDuplicateUnderflow) ||
		errors.Is(err, ErrDerivedQuery) ||
		errors.Is(err, ErrUnknownGroup) ||
		errors.Is(err, ErrLocationNotFound)
}
