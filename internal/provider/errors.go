package provider

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures so callers can branch on them
// without string matching.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindNotFound: the provider has no data for the locator (unknown city).
	KindNotFound
	// KindAuthFailure: the credential was rejected. Triggers the one-way
	// live to demo transition.
	KindAuthFailure
	// KindNetwork: transport-level failure, surfaced verbatim.
	KindNetwork
	// KindMalformed: the response shape was missing required fields.
	KindMalformed
	// KindGeolocation: a geolocation failure passed through from the client.
	KindGeolocation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthFailure:
		return "auth_failure"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	case KindGeolocation:
		return "geolocation"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or KindUnknown for errors that
// did not originate from a provider.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func IsAuthFailure(err error) bool {
	return KindOf(err) == KindAuthFailure
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
