package graph

import (
	"fmt"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// AuthError describes an authenticate reply with a non-SUCCEEDED code,
// carrying the server-provided message (spec.md §4.4). ServiceClient
// does not return it; pkg/nebula reports authentication failures as
// its own AuthenticateError.
type AuthError struct {
	Code ntype.ErrorCode
	Msg  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("graph: authenticate failed: %s: %s", e.Code, e.Msg)
}

// ErrMissingSessionID is returned when the server reports SUCCEEDED but
// omits the session id (spec.md §4.4).
var ErrMissingSessionID = fmt.Errorf("graph: authenticate succeeded but server did not return a session id")

// ExecuteError wraps a transport-layer failure of the execute RPC.
// ServiceClient returns the transport error unwrapped.
type ExecuteError struct {
	Cause error
}

func (e *ExecuteError) Error() string { return fmt.Sprintf("graph: execute: %s", e.Cause) }
func (e *ExecuteError) Unwrap() error { return e.Cause }

// ExecuteJSONError wraps a transport-layer failure of the executeJson
// RPC. ServiceClient returns the transport error unwrapped.
type ExecuteJSONError struct {
	Cause error
}

func (e *ExecuteJSONError) Error() string { return fmt.Sprintf("graph: executeJson: %s", e.Cause) }
func (e *ExecuteJSONError) Unwrap() error { return e.Cause }

// SignoutError wraps a transport-layer failure of the signout RPC.
// ServiceClient returns the transport error unwrapped.
type SignoutError struct {
	Cause error
}

func (e *SignoutError) Error() string { return fmt.Sprintf("graph: signout: %s", e.Cause) }
func (e *SignoutError) Unwrap() error { return e.Cause }
