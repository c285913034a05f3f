// Package services contains the clients for the external collaborators of a
// sync pass (TMDB, Plex, Trakt) and the error types they share.
package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned (wrapped) when a service rejects our credentials.
// It is fatal for a run.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is returned when a service answers with a non-2xx status
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API request failed with status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrUnauthorized) true for 401 and 403 responses
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Temporary reports whether retrying the request may succeed
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
