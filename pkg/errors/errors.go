package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// DuplicateContent is returned when an uploader submits a file whose
// content hash already exists for that uploader.
func DuplicateContent(message string, err error) *AppError {
	return &AppError{
		Code:    "DUPLICATE_CONTENT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// VirusDetected is returned when a scanning backend gives a definitive
// infected verdict.
func VirusDetected(message string) *AppError {
	return &AppError{
		Code:    "VIRUS_DETECTED",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     nil,
	}
}

func Storage(message string, err error) *AppError {
	return &AppError{
		Code:    "STORAGE_ERROR",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Persistence(message string, err error) *AppError {
	return &AppError{
		Code:    "PERSISTENCE_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func DecryptionFailed(message string, err error) *AppError {
	return &AppError{
		Code:    "DECRYPTION_FAILED",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
