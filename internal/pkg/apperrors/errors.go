package apperrors

import (
	"errors"
	"fmt"
)

// Startup errors
var (
	ErrDatabaseUnavailable = errors.New("database unavailable")
	ErrSchemaScriptMissing = errors.New("schema script not found")
)

// Console errors
var (
	ErrUsage            = errors.New("wrong number of arguments")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrExitRequested    = errors.New("exit requested")
)

// Export errors
var (
	ErrInvalidDestination = errors.New("invalid export destination")
	ErrExportFailed       = errors.New("export failed")
)

// NewUsageError reports that command expected exactly required arguments
func NewUsageError(command string, required int) error {
	return NewCustomError(ErrUsage, fmt.Sprintf("The %s command requires %d arguments.", command, required)).
		WithCode("USAGE").
		WithDetails(map[string]interface{}{"command": command, "required": required})
}

// NewUnknownCommandError reports an unrecognized command token
func NewUnknownCommandError(command string) error {
	return NewCustomError(ErrUnknownCommand, fmt.Sprintf("Incorrect command: '%s'", command)).
		WithCode("UNKNOWN_COMMAND")
}

// NewInvalidArgumentError reports an argument that cannot be used in a query
func NewInvalidArgumentError(name, value string) error {
	return NewCustomError(ErrInvalidArgument, fmt.Sprintf("Invalid %s: '%s'", name, value)).
		WithCode("INVALID_ARGUMENT").
		WithDetails(map[string]interface{}{"argument": name, "value": value})
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
