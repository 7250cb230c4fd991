package services

import "net/http"

// Error is a service failure carrying the HTTP status it maps to.
// Handlers render it through the standard response envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errInvalidInput(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func errUnauthenticated(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func errConflict(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func errNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}
