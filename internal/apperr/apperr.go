package apperr

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error for logging and user notification.
type ErrorKind string

const (
	KindNetwork         ErrorKind = "network"
	KindValidation      ErrorKind = "validation"
	KindUnknownSection  ErrorKind = "unknown_section"
	KindSectionNotFound ErrorKind = "section_not_found"
	KindBackend         ErrorKind = "backend"
	KindOther           ErrorKind = "other"
)

// NetworkError is a transport failure or a non-2xx response without a
// structured error payload.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.Status)
	}
	return e.Op + ": network error"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnknownSectionError is returned when a write targets a title that is not
// part of the document template.
type UnknownSectionError struct {
	Title string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q", e.Title)
}

// SectionNotFoundError is returned when a chat response targets a section
// that disappeared from the template mid-session.
type SectionNotFoundError struct {
	Title string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("Section %q not found", e.Title)
}

// BackendError carries the server's structured {error} payload.
type BackendError struct {
	Op      string
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Validation is a shorthand constructor for ValidationError.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Kind classifies err by walking its wrap chain.
func Kind(err error) ErrorKind {
	var (
		netErr      *NetworkError
		valErr      *ValidationError
		unknownErr  *UnknownSectionError
		notFoundErr *SectionNotFoundError
		backendErr  *BackendError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &valErr):
		return KindValidation
	case errors.As(err, &unknownErr):
		return KindUnknownSection
	case errors.As(err, &notFoundErr):
		return KindSectionNotFound
	case errors.As(err, &backendErr):
		return KindBackend
	case errors.As(err, &netErr):
		return KindNetwork
	}
	return KindOther
}

// IsStatus reports whether err came from a response with the given HTTP status.
func IsStatus(err error, status int) bool {
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Status == status {
		return true
	}
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.Status == status
}
