package domain

import "fmt"

// ValidationError: the request is malformed or references something that
// cannot be acted on (unknown reason code, inactive SKU, non-positive weight).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError: the entity exists but its lifecycle state forbids the
// attempted operation (commit a cancelled purchase, approve a DRAFT settlement).
type InvalidStateError struct {
	Entity    string
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s is %s: cannot %s", e.Entity, e.Current, e.Attempted)
}

func InvalidState(entity, current, attempted string) *InvalidStateError {
	return &InvalidStateError{Entity: entity, Current: current, Attempted: attempted}
}

// InsufficientStockError: a debit would drive a partition balance negative.
type InsufficientStockError struct {
	BirdType  string
	State     string
	Available string
	Requested string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s/%s: available %s kg, requested %s kg",
		e.BirdType, e.State, e.Available, e.Requested)
}

// ConflictError: a concurrent writer won an optimistic or unique-key race.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError: required operational config is missing or inconsistent
// (no active wastage percentage, non-descending grade thresholds).
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError wraps a lookup miss on any aggregate.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}
