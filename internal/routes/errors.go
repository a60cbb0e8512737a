package routes

import (
	"errors"
	"net/http"

	"time-tracker/internal/jwt"
	"time-tracker/internal/screenshot"
	"time-tracker/internal/storage"
	"time-tracker/internal/tracker"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly message
	Internal   bool   // Whether this is an internal error (hide details from user)
}

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message string // User-friendly message
	Code    string // Optional stable code for client-side handling
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Internal:   statusCode >= 500,
	}
}

// Routes-specific errors (that don't conflict with other packages)
var (
	// Validation errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Registration / verification errors
	ErrAlreadyVerified         = errors.New("employee with this email already exists and is verified")
	ErrInvalidVerificationLink = errors.New("invalid or expired verification token")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials or unverified user")

	// Internal errors
	ErrInternalServer = errors.New("internal server error")
	ErrDatabaseError  = errors.New("database error")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:              http.StatusBadRequest,
	ErrMissingParameter:            http.StatusBadRequest,
	ErrInvalidParameter:            http.StatusBadRequest,
	ErrAlreadyVerified:             http.StatusBadRequest,
	ErrInvalidVerificationLink:     http.StatusBadRequest,
	ErrInvalidCredentials:          http.StatusBadRequest,
	jwt.ErrNonValidToken:           http.StatusBadRequest,
	jwt.ErrWrongTokenType:          http.StatusBadRequest,
	screenshot.ErrNotAnImage:       http.StatusBadRequest,
	screenshot.ErrFormatNotAllowed: http.StatusBadRequest,
	storage.ErrDuplicateEmail:      http.StatusBadRequest,

	// 404 Not Found
	storage.ErrNotFound:              http.StatusNotFound,
	tracker.ErrEmployeeNotFound:      http.StatusNotFound,
	tracker.ErrProjectNotFound:       http.StatusNotFound,
	tracker.ErrTaskNotFound:          http.StatusNotFound,
	tracker.ErrNoActiveSession:       http.StatusNotFound,
	screenshot.ErrEmployeeNotFound:   http.StatusNotFound,
	screenshot.ErrTimeEntryNotFound:  http.StatusNotFound,
	screenshot.ErrScreenshotNotFound: http.StatusNotFound,
	screenshot.ErrFileMissing:        http.StatusNotFound,

	// 409 Conflict
	tracker.ErrSessionExists: http.StatusConflict,

	// 413 Payload Too Large
	screenshot.ErrTooLarge: http.StatusRequestEntityTooLarge,

	// 500 Internal Server Error
	screenshot.ErrProcessing: http.StatusInternalServerError,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseError:         http.StatusInternalServerError,
}

// errorInfoMap maps errors to user-friendly messages and stable codes
var errorInfoMap = map[error]ErrorInfo{
	ErrInvalidRequest: {
		Message: "Invalid request format",
		Code:    "INVALID_REQUEST",
	},
	ErrMissingParameter: {
		Message: "Required parameter is missing",
		Code:    "MISSING_PARAMETER",
	},
	ErrInvalidParameter: {
		Message: "Invalid parameter value",
		Code:    "INVALID_PARAMETER",
	},

	ErrAlreadyVerified: {
		Message: "Employee with this email already exists and is verified",
		Code:    "ALREADY_VERIFIED",
	},
	ErrInvalidVerificationLink: {
		Message: "Invalid or expired verification token",
		Code:    "VERIFICATION_INVALID",
	},
	jwt.ErrNonValidToken: {
		Message: "Invalid or expired token",
		Code:    "TOKEN_INVALID",
	},
	jwt.ErrWrongTokenType: {
		Message: "Invalid or expired verification token",
		Code:    "VERIFICATION_INVALID",
	},
	ErrInvalidCredentials: {
		Message: "Invalid credentials or unverified user",
		Code:    "INVALID_CREDENTIALS",
	},
	storage.ErrDuplicateEmail: {
		Message: "Email is already registered",
		Code:    "DUPLICATE_EMAIL",
	},

	tracker.ErrEmployeeNotFound: {
		Message: "Employee not found or inactive",
		Code:    "EMPLOYEE_NOT_FOUND",
	},
	tracker.ErrProjectNotFound: {
		Message: "Project not found",
		Code:    "PROJECT_NOT_FOUND",
	},
	tracker.ErrTaskNotFound: {
		Message: "Task not found or doesn't belong to project",
		Code:    "TASK_NOT_FOUND",
	},
	tracker.ErrSessionExists: {
		Message: "Employee already has an active time tracking session",
		Code:    "SESSION_EXISTS",
	},
	tracker.ErrNoActiveSession: {
		Message: "No active time tracking session found for employee",
		Code:    "NO_ACTIVE_SESSION",
	},

	screenshot.ErrEmployeeNotFound: {
		Message: "Employee not found",
		Code:    "EMPLOYEE_NOT_FOUND",
	},
	screenshot.ErrTimeEntryNotFound: {
		Message: "Time entry not found or doesn't belong to employee",
		Code:    "TIME_ENTRY_NOT_FOUND",
	},
	screenshot.ErrNotAnImage: {
		Message: "File must be an image",
		Code:    "NOT_AN_IMAGE",
	},
	screenshot.ErrFormatNotAllowed: {
		Message: "File format not allowed",
		Code:    "FORMAT_NOT_ALLOWED",
	},
	screenshot.ErrTooLarge: {
		Message: "File size exceeds maximum allowed size",
		Code:    "FILE_TOO_LARGE",
	},
	screenshot.ErrScreenshotNotFound: {
		Message: "Screenshot not found",
		Code:    "SCREENSHOT_NOT_FOUND",
	},
	screenshot.ErrFileMissing: {
		Message: "Screenshot file not found on disk",
		Code:    "SCREENSHOT_FILE_MISSING",
	},

	storage.ErrNotFound: {
		Message: "Record not found",
		Code:    "NOT_FOUND",
	},

	// Internal (no codes for internal errors)
	screenshot.ErrProcessing: {
		Message: "Error processing screenshot",
	},
	ErrInternalServer: {
		Message: "An internal error occurred",
	},
	ErrDatabaseError: {
		Message: "Database operation failed",
	},
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	// Check if it's already an HTTPError
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	// Check direct match
	if status, ok := errorStatusMap[err]; ok {
		return status
	}

	// Check if error wraps a known error
	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	// Default to 500 Internal Server Error
	return http.StatusInternalServerError
}

// GetErrorInfo returns error information including message and code
func GetErrorInfo(err error) ErrorInfo {
	// Check if it's an HTTPError with custom info
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{Message: httpErr.Message}
	}

	// Check direct match
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	// Check if error wraps a known error
	for knownErr, info := range errorInfoMap {
		if errors.Is(err, knownErr) {
			return info
		}
	}

	// For unknown errors, return a generic message for 5xx, specific for others
	status := GetErrorStatus(err)
	if status >= 500 {
		return ErrorInfo{Message: "An internal error occurred"}
	}
	return ErrorInfo{Message: err.Error()}
}
