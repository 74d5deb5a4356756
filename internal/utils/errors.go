package utils

import (
	"errors"
	"fmt"

	"github.com/dl-alexandre/chspool/internal/types"
)

// Exit codes
const (
	ExitSuccess = 0
	// Query errors (30-39); recovered by the report command but used by
	// callers that want a failing status
	ExitNetworkError = 30
	ExitTimeout      = 31
	ExitServerError  = 32
	ExitAuthFailed   = 33
	// Validation errors (40-49)
	ExitInvalidArgument = 40
	// Data errors (60-69)
	ExitMalformedResponse = 65
	// Filesystem errors (70-79)
	ExitOutputFailed = 73
	ExitKeyringError = 74
	// Interrupted by signal
	ExitCancelled = 130
	// Unknown
	ExitUnknown = 99
)

// Error codes (tool-owned, stable)
const (
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeServerError       = "SERVER_ERROR"
	ErrCodeAuthFailed        = "AUTH_FAILED"
	ErrCodeQueryRejected     = "QUERY_REJECTED"
	ErrCodeUnexpectedStatus  = "UNEXPECTED_STATUS"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
	ErrCodeOutputFailed      = "OUTPUT_FAILED"
	ErrCodeReportNotFound    = "REPORT_NOT_FOUND"
	ErrCodeKeyringError      = "KEYRING_ERROR"
	ErrCodeCancelled         = "CANCELLED"
	ErrCodeUnknown           = "UNKNOWN"
)

// CLIErrorBuilder helps construct CLIError instances
type CLIErrorBuilder struct {
	err types.CLIError
}

// NewCLIError creates a new error builder
func NewCLIError(code, message string) *CLIErrorBuilder {
	return &CLIErrorBuilder{
		err: types.CLIError{
			Code:    code,
			Message: message,
		},
	}
}

func (b *CLIErrorBuilder) WithHTTPStatus(status int) *CLIErrorBuilder {
	b.err.HTTPStatus = status
	return b
}

func (b *CLIErrorBuilder) WithRetryable(retryable bool) *CLIErrorBuilder {
	b.err.Retryable = retryable
	return b
}

func (b *CLIErrorBuilder) WithContext(key string, value interface{}) *CLIErrorBuilder {
	if b.err.Context == nil {
		b.err.Context = make(map[string]interface{})
	}
	b.err.Context[key] = value
	return b
}

func (b *CLIErrorBuilder) Build() types.CLIError {
	return b.err
}

// GetExitCode returns the exit code for an error code
func GetExitCode(errorCode string) int {
	mapping := map[string]int{
		ErrCodeNetworkError:      ExitNetworkError,
		ErrCodeTimeout:           ExitTimeout,
		ErrCodeServerError:       ExitServerError,
		ErrCodeAuthFailed:        ExitAuthFailed,
		ErrCodeQueryRejected:     ExitServerError,
		ErrCodeUnexpectedStatus:  ExitServerError,
		ErrCodeInvalidArgument:   ExitInvalidArgument,
		ErrCodeMalformedResponse: ExitMalformedResponse,
		ErrCodeOutputFailed:      ExitOutputFailed,
		ErrCodeReportNotFound:    ExitOutputFailed,
		ErrCodeKeyringError:      ExitKeyringError,
		ErrCodeCancelled:         ExitCancelled,
	}
	if code, ok := mapping[errorCode]; ok {
		return code
	}
	return ExitUnknown
}

// AppError is a custom error type that carries CLI error info
type AppError struct {
	CLIError types.CLIError
	cause    error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.CLIError.Code, e.CLIError.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// NewAppError creates an AppError from a CLIError
func NewAppError(cliErr types.CLIError) *AppError {
	return &AppError{CLIError: cliErr}
}

// WrapAppError creates an AppError that keeps err reachable through errors.Is/As
func WrapAppError(cliErr types.CLIError, err error) *AppError {
	return &AppError{CLIError: cliErr, cause: err}
}

// ExitCodeFor returns the process exit code for any error
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return GetExitCode(appErr.CLIError.Code)
	}
	return ExitUnknown
}
