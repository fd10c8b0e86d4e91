package errors

import (
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeEmptyInput indicates input text that is blank after normalization
	ErrorTypeEmptyInput ErrorType = "EMPTY_INPUT"

	// ErrorTypeNoMatch indicates no district cleared the match confidence floor
	ErrorTypeNoMatch ErrorType = "NO_MATCH"

	// ErrorTypeGeocodeFailure indicates the geocoding service returned no usable result
	ErrorTypeGeocodeFailure ErrorType = "GEOCODE_FAILURE"

	// ErrorTypeDistrictFieldMissing indicates a geocode result without a district-like field
	ErrorTypeDistrictFieldMissing ErrorType = "DISTRICT_FIELD_MISSING"

	// ErrorTypeAnalysisFailed indicates both analysis branches failed
	ErrorTypeAnalysisFailed ErrorType = "ANALYSIS_FAILED"

	// ErrorTypePersistenceFailed indicates the analysis succeeded but could not be recorded
	ErrorTypePersistenceFailed ErrorType = "PERSISTENCE_FAILED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewEmptyInputError creates a new empty input error
func NewEmptyInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeEmptyInput,
		Message: message,
	}
}

// NewNoMatchError creates a new no-match error wrapping the matcher detail
func NewNoMatchError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNoMatch,
		Message: message,
		Err:     err,
	}
}

// NewGeocodeFailureError creates a new geocode failure error
func NewGeocodeFailureError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeGeocodeFailure,
		Message: message,
		Err:     err,
	}
}

// NewDistrictFieldMissingError creates a new district-field-missing error
func NewDistrictFieldMissingError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeDistrictFieldMissing,
		Message: message,
	}
}

// NewAnalysisFailedError creates a new analysis failed error
func NewAnalysisFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeAnalysisFailed,
		Message: message,
		Err:     err,
	}
}

// NewPersistenceFailedError creates a new persistence failed error
func NewPersistenceFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePersistenceFailed,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
