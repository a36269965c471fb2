package api

import (
	"errors"
	"net/http"
)

// Error is a non-2xx API response. Status is the HTTP status code, Message a
// human-readable summary (the body's "error" field when present, otherwise
// the HTTP status text), and Body the parsed JSON body when it was an object.
type Error struct {
	Status  int
	Message string
	Body    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is an API error with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
