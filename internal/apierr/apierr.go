// Package apierr classifies failed API calls into the handful of kinds the
// rest of the client branches on.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// KindNetwork means no usable response reached the client (includes
	// timeouts).
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
)

type Error struct {
	Kind      Kind
	Status    int    // HTTP status, 0 for network failures
	Message   string // server-supplied detail when present
	RequestID string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Network wraps a transport-level failure (connection refused, timeout,
// malformed response body).
func Network(msg string) *Error {
	return &Error{Kind: KindNetwork, Message: msg}
}

// FromStatus maps a non-2xx HTTP status to an Error. detail is the
// server-supplied message and is passed through verbatim when present.
func FromStatus(status int, detail string) *Error {
	e := &Error{Status: status, Message: detail}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status == http.StatusForbidden:
		e.Kind = KindForbidden
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 400 && status < 500:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// KindOf returns the classification of err, or "" if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }
func IsForbidden(err error) bool    { return KindOf(err) == KindForbidden }
func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
func IsNetwork(err error) bool      { return KindOf(err) == KindNetwork }

// UserMessage returns the text a view should show for err. Classified
// errors surface the server detail; anything else gets a generic line.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
