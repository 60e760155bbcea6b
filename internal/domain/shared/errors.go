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

// Argument errors

// ArgumentNilError signals a caller contract violation, e.g. a task started
// without an actor. It is never produced by game-state conditions.
type ArgumentNilError struct {
	*DomainError
	Argument string
}

func NewArgumentNilError(argument string) *ArgumentNilError {
	return &ArgumentNilError{
		DomainError: NewDomainError(fmt.Sprintf("argument %s cannot be nil", argument)),
		Argument:    argument,
	}
}

// InvalidArgumentError is returned when an argument has the wrong variant,
// e.g. a position context handed to a unit interaction handler.
type InvalidArgumentError struct {
	*DomainError
	Argument string
}

func NewInvalidArgumentError(argument, message string) *InvalidArgumentError {
	return &InvalidArgumentError{
		DomainError: NewDomainError(fmt.Sprintf("invalid %s: %s", argument, message)),
		Argument:    argument,
	}
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

// Production-related errors

type ProductionError struct {
	*DomainError
	ProducibleID string
}

func NewProductionError(producibleID, message string) *ProductionError {
	return &ProductionError{
		DomainError:  NewDomainError(message),
		ProducibleID: producibleID,
	}
}

type InsufficientResourcesError struct {
	*ProductionError
	Resource  ResourceType
	Required  int
	Available int
}

func NewInsufficientResourcesError(producibleID string, resource ResourceType, required, available int) *InsufficientResourcesError {
	return &InsufficientResourcesError{
		ProductionError: NewProductionError(
			producibleID,
			fmt.Sprintf("insufficient %s for %s: need %d, have %d", resource, producibleID, required, available),
		),
		Resource:  resource,
		Required:  required,
		Available: available,
	}
}

type QueueFullError struct {
	*ProductionError
	Capacity int
}

func NewQueueFullError(producibleID string, capacity int) *QueueFullError {
	return &QueueFullError{
		ProductionError: NewProductionError(
			producibleID,
			fmt.Sprintf("production queue is full (%d orders), cannot queue %s", capacity, producibleID),
		),
		Capacity: capacity,
	}
}

type RequirementsNotMetError struct {
	*ProductionError
	Missing []string
}

func NewRequirementsNotMetError(producibleID string, missing []string) *RequirementsNotMetError {
	return &RequirementsNotMetError{
		ProductionError: NewProductionError(
			producibleID,
			fmt.Sprintf("requirements not met for %s: missing %v", producibleID, missing),
		),
		Missing: missing,
	}
}

// Entity lookup errors

type EntityNotFoundError struct {
	*DomainError
	Kind string
	ID   string
}

func NewEntityNotFoundError(kind, id string) *EntityNotFoundError {
	return &EntityNotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("%s %s not found", kind, id)),
		Kind:        kind,
		ID:          id,
	}
}
