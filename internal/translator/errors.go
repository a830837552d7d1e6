// SPDX-License-Identifier: MIT

package translator

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound     = errors.New("translator: resource not found")
	ErrUnauthorized = errors.New("translator: authentication rejected")
	ErrUnavailable  = errors.New("translator: service unreachable or transport failure")
	ErrServer       = errors.New("translator: internal service error (5xx)")
	ErrBadResponse  = errors.New("translator: invalid response format or malformed data")
	ErrBadRequest   = errors.New("translator: request rejected (4xx)")
)

// APIError is a rich error type that wraps the sentinel errors with context.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("translator: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}

func sentinelForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	case status >= 400:
		return ErrBadRequest
	default:
		return nil
	}
}
