package server

import "net/http"

// RequestError is a malformed request, reported with its HTTP status before
// any exercise runs.
type RequestError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e RequestError) Error() string {
	return e.Message
}

func badRequest(message string) RequestError {
	return RequestError{Message: message, StatusCode: http.StatusBadRequest}
}
