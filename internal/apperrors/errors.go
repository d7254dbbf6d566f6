// Package apperrors defines the closed set of error kinds surfaced by the
// API and their mapping to HTTP status codes.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an Error for the HTTP boundary.
type Kind int

const (
	// KindValidation marks missing or malformed input.
	KindValidation Kind = iota + 1
	// KindAuth marks bad credentials or token mismatches.
	KindAuth
	// KindNotFound marks lookups that resolved no record.
	KindNotFound
	// KindConflict marks duplicate resources or relations.
	KindConflict
	// KindServer marks unexpected faults.
	KindServer
)

// Error is a tagged error variant carrying a kind and a message list.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a KindValidation error.
func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Auth returns a KindAuth error.
func Auth(message string, details ...string) *Error {
	return &Error{Kind: KindAuth, Message: message, Details: details}
}

// NotFound returns a KindNotFound error.
func NotFound(message string, details ...string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Details: details}
}

// Conflict returns a KindConflict error.
func Conflict(message string, details ...string) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

// Server returns a KindServer error.
func Server(message string, details ...string) *Error {
	return &Error{Kind: KindServer, Message: message, Details: details}
}

// KindOf extracts the kind from err, defaulting to KindServer for anything
// outside the taxonomy so internal faults never leak a misleading status.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServer
}

// HTTPStatus maps an error kind to its response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
