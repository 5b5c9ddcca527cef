package service

import (
	"errors"
	"fmt"

	repo "organizese/internal/repository"
	"organizese/internal/schedule"
	"organizese/internal/session"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid value for field '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewVersionConflict(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeVersionConflict,
		Message: fmt.Sprintf("%s %s was modified concurrently, reload and retry", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

// translate maps lower-layer errors onto business errors; anything unknown
// is wrapped with op and passed through.
func translate(err error, op, resource, id string) error {
	var validation *schedule.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(resource, id)
	case errors.Is(err, repo.ErrVersionConflict):
		return NewVersionConflict(resource, id)
	case errors.As(err, &validation):
		return NewValidationError(validation.Field, validation.Reason)
	case errors.Is(err, session.ErrNoSession):
		return &BusinessError{Code: CodeUnauthorized, Message: "session required", Err: err}
	case errors.Is(err, session.ErrImpersonationDenied):
		return &BusinessError{Code: CodeForbidden, Message: "impersonation denied", Err: err}
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return be
	}
	return fmt.Errorf("%s: %w", op, err)
}
