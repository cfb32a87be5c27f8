package domain

import (
	"errors"
	"sort"
	"strings"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoRefreshToken     = errors.New("no refresh token available")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
)

// Registry errors
var (
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	ErrUserNotFound   = errors.New("user not found")
)

// Catalog errors
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrCourseInactive = errors.New("course is not active")
)

// Enrollment errors
var (
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrCourseFull      = errors.New("this course is full")
)

// ErrStorageCorruption is returned by the store when a persisted value fails
// to parse. Callers treat it as empty state and purge the key.
var ErrStorageCorruption = errors.New("stored value is corrupt")

// ValidationError carries per-field messages for inline form display
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a validation error from field/message pairs
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Kind classifies an error into the portal's error taxonomy
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindDuplicate  Kind = "duplicate"
	KindBusiness   Kind = "business"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
	KindInternal   Kind = "internal"
)

// KindOf returns the taxonomy kind of err
func KindOf(err error) Kind {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrNoRefreshToken),
		errors.Is(err, ErrNotAuthenticated):
		return KindAuth
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrDuplicateEmail):
		return KindDuplicate
	case errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrCourseFull),
		errors.Is(err, ErrCourseInactive):
		return KindBusiness
	case errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrStorageCorruption):
		return KindStorage
	default:
		return KindInternal
	}
}
