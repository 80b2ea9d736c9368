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

// ConfigurationError marks a request or colony layout that can never be
// served as declared. The tick logs it and discards the assignment.
type ConfigurationError struct {
	*DomainError
	Subject string
}

func NewConfigurationError(subject, message string) *ConfigurationError {
	return &ConfigurationError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", subject, message)},
		Subject:     subject,
	}
}

// TargetGoneError is returned when a request target no longer exists
type TargetGoneError struct {
	*DomainError
	TargetID string
}

func NewTargetGoneError(targetID string) *TargetGoneError {
	return &TargetGoneError{
		DomainError: &DomainError{Message: fmt.Sprintf("target %s no longer exists", targetID)},
		TargetID:    targetID,
	}
}

// AgentNotFoundError is returned when an agent lookup fails
type AgentNotFoundError struct {
	*DomainError
	AgentName string
}

func NewAgentNotFoundError(name string) *AgentNotFoundError {
	return &AgentNotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("agent %s not found", name)},
		AgentName:   name,
	}
}
