package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrValueIsRequired     = errors.New("value is required")
	ErrTransitionDenied    = errors.New("transition denied")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrAllocation          = errors.New("allocation exceeds remaining quantity")
)

// IsValidation reports whether err is one of the input validation errors.
// Validation failures are rejected before any mutation and never audited.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

// ObjectNotFoundError is returned when an aggregate or entity cannot be found by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value is present but not acceptable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a value falls outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// TransitionDeniedError is returned when the acting role may not perform Action
// while the aggregate is in state From.
type TransitionDeniedError struct {
	Action string
	Role   string
	From   string
	Cause  error
}

func NewTransitionDeniedError(action, role, from string) *TransitionDeniedError {
	return &TransitionDeniedError{Action: action, Role: role, From: from}
}

func NewTransitionDeniedErrorWithCause(action, role, from string, cause error) *TransitionDeniedError {
	return &TransitionDeniedError{Action: action, Role: role, From: from, Cause: cause}
}

func (e *TransitionDeniedError) Error() string {
	msg := fmt.Sprintf("%s: %s cannot %s from %s", ErrTransitionDenied, e.Role, e.Action, e.From)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *TransitionDeniedError) Unwrap() error {
	return ErrTransitionDenied
}

// ConcurrencyConflictError is returned when a write was prepared against a stale
// version of an aggregate. It is a TransitionDenied error: the caller must re-read.
type ConcurrencyConflictError struct {
	ParamName string
	ID        any
	Expected  int
	Actual    int
}

func NewConcurrencyConflictError(paramName string, id any, expected, actual int) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{ParamName: paramName, ID: id, Expected: expected, Actual: actual}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Actual == 0 {
		return fmt.Sprintf("%s: %s %s was modified concurrently (expected version %d)",
			ErrConcurrencyConflict, e.ParamName, sanitize(e.ID), e.Expected)
	}
	return fmt.Sprintf("%s: %s %s is at version %d, expected %d",
		ErrConcurrencyConflict, e.ParamName, sanitize(e.ID), e.Actual, e.Expected)
}

func (e *ConcurrencyConflictError) Unwrap() []error {
	return []error{ErrConcurrencyConflict, ErrTransitionDenied}
}

// AllocationError is returned when a shipment requests more of an item than
// remains unallocated on the order.
type AllocationError struct {
	ItemName  string
	Requested int
	Remaining int
}

func NewAllocationError(itemName string, requested, remaining int) *AllocationError {
	return &AllocationError{ItemName: itemName, Requested: requested, Remaining: remaining}
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: %d of %q requested, %d remaining",
		ErrAllocation, e.Requested, sanitize(e.ItemName), e.Remaining)
}

func (e *AllocationError) Unwrap() error {
	return ErrAllocation
}

func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
