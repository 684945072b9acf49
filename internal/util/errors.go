package util

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrValidation         = errors.New("invalid request data")
	ErrInvalidEventType   = fmt.Errorf("%w: type must be one of question, note, voice_interaction", ErrValidation)
	ErrEmptyContent       = fmt.Errorf("%w: content must not be empty", ErrValidation)
	ErrNotFound           = errors.New("resource not found")
	ErrNoLearningData     = errors.New("No learning data available")
	ErrNotImplemented     = errors.New("not implemented")
	ErrReadOnlyCredential = errors.New("store credential is read-only")
	ErrAIUnavailable      = errors.New("AI provider is not configured")
	ErrEmptyAIResponse    = errors.New("AI provider returned no content")
	ErrInvalidAIResponse  = errors.New("AI provider returned an unexpected answer")
)

// AppError 携带 HTTP 状态码与对外消息，Err 只写日志
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// ValidationError 包装 ErrValidation，保留可读的原因
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
