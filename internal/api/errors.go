package api

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned when the backend rejects the session token.
// By the time a caller sees it, the credential store has been cleared and
// the teardown callback has run; the only recovery is re-authentication.
var ErrAuthExpired = errors.New("authentication failed")

// ErrNotAuthenticated is returned when an authenticated call is attempted
// with no active session. No request is issued.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a non-2xx response from the backend, carrying the detail
// message it provided when one was decodable.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// ConnectivityError is a transport-level failure: the request never produced
// a response. Distinct from APIError so the UI can suggest a retry.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
