// Package failure classifies command errors into the three outcomes a user
// can see: bad input, nothing found, or an unreadable upstream.
package failure

import (
	"errors"
	"fmt"
)

type Kind int

const (
	InvalidInput Kind = iota + 1
	NotFound
	UpstreamError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case NotFound:
		return "not found"
	case UpstreamError:
		return "upstream error"
	default:
		return "unknown"
	}
}

// Error carries a Kind, the short text shown to the user and the
// underlying cause (if any) for logs.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(reason string, err error) *Error {
	return &Error{Kind: InvalidInput, Reason: reason, Err: err}
}

func Missing(reason string) *Error {
	return &Error{Kind: NotFound, Reason: reason}
}

func Upstream(reason string, err error) *Error {
	return &Error{Kind: UpstreamError, Reason: reason, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
// Errors outside the taxonomy count as UpstreamError.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	return UpstreamError
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Message renders err as the single line a user gets back. fallback is
// used for upstream failures and for errors outside the taxonomy, whose
// details only belong in logs.
func Message(err error, fallback string) string {
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind == UpstreamError || fe.Reason == "" {
		return fallback
	}

	return fe.Reason
}
