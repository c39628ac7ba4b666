package services

import (
	"errors"
	"fmt"

	apperrors "github.com/leonardo-school/simulation-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Simulation specific errors
	ErrSimulationNotFound      = errors.New("simulation not found")
	ErrSimulationNotEditable   = errors.New("simulation cannot be edited in current status")
	ErrSimulationNotDeletable  = errors.New("simulation cannot be deleted - has existing results")
	ErrSimulationInvalidStatus = errors.New("invalid simulation status transition")
	ErrSimulationNotPublished  = errors.New("simulation is not published")
	ErrSimulationNoQuestions   = errors.New("simulation has no questions")

	// Question specific errors
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionNotInSim    = errors.New("question is not part of this simulation")
	ErrQuestionDuplicate   = errors.New("question already added to simulation")
	ErrQuestionInvalidType = errors.New("invalid question type")

	// Assignment specific errors
	ErrAssignmentNotFound      = errors.New("assignment not found")
	ErrAssignmentInvalidTarget = errors.New("assignment must target exactly one of student or group")

	// Session / attempt specific errors
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionNotActive        = errors.New("session is not in progress")
	ErrSessionAlreadySubmitted = errors.New("session already submitted")
	ErrAccessNotStarted        = errors.New("simulation is not yet available")
	ErrAccessExpired           = errors.New("simulation access window has closed")
	ErrNotRepeatable           = errors.New("simulation does not allow repeated attempts")
	ErrMaxAttemptsReached      = errors.New("maximum number of attempts reached")
	ErrNoAssignment            = errors.New("no assignment grants access to this simulation")

	// Result / grading specific errors
	ErrResultNotFound    = errors.New("result not found")
	ErrRegradeNotAllowed = errors.New("only open text answers can be re-graded")
	ErrInvalidScore      = errors.New("score outside the allowed range for this question")

	// Virtual room errors
	ErrVirtualRoomNotFound    = errors.New("virtual room not found")
	ErrVirtualRoomAlreadyOpen = errors.New("a virtual room is already open for this simulation")
	ErrVirtualRoomClosed      = errors.New("virtual room is already closed")

	// User/Permission errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid user role")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSimulationNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrVirtualRoomNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsForbidden checks if error represents a "forbidden" condition
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsAccessDenied checks if error represents a window or attempt limit denial
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessNotStarted) ||
		errors.Is(err, ErrAccessExpired) ||
		errors.Is(err, ErrNotRepeatable) ||
		errors.Is(err, ErrMaxAttemptsReached) ||
		errors.Is(err, ErrNoAssignment)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSimulationNotDeletable) ||
		errors.Is(err, ErrQuestionDuplicate) ||
		errors.Is(err, ErrSessionAlreadySubmitted) ||
		errors.Is(err, ErrVirtualRoomAlreadyOpen)
}
