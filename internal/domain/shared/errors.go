package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Reference errors

// UnknownReferenceError is raised when a world definition points at an entity
// that was never declared (a recipe naming a missing ware, a fleet owned by a
// missing corporation, ...). The running engine never returns it; unknown ids
// at runtime are dropped instead.
type UnknownReferenceError struct {
	*DomainError
	Kind string
	ID   string
}

func NewUnknownReferenceError(kind, id string) *UnknownReferenceError {
	return &UnknownReferenceError{
		DomainError: NewDomainError(fmt.Sprintf("unknown %s: %s", kind, id)),
		Kind:        kind,
		ID:          id,
	}
}

// DuplicateIDError is raised when two entities of the same kind share an id
type DuplicateIDError struct {
	*DomainError
	Kind string
	ID   string
}

func NewDuplicateIDError(kind, id string) *DuplicateIDError {
	return &DuplicateIDError{
		DomainError: NewDomainError(fmt.Sprintf("duplicate %s id: %s", kind, id)),
		Kind:        kind,
		ID:          id,
	}
}
