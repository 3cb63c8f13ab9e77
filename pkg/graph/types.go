// Package graph implements the graph-service wire client (spec.md §4.4,
// C4): authenticate/execute/executeJson/signout against a graphd leader.
// The request/response structs here stand in for what a Thrift IDL
// compiler would generate from graph.thrift (spec.md §1 scopes that
// generation step out), restricted to the fields this client relies on
// (spec.md §6).
package graph

import "github.com/nebula-contrib/nebula-go/pkg/ntype"

// AuthenticateRequest is sent to authenticate a new session.
type AuthenticateRequest struct {
	Username []byte
	Password []byte
}

// AuthenticateResponse carries the new session id on success.
type AuthenticateResponse struct {
	ErrorCode ntype.ErrorCode
	ErrorMsg  []byte
	SessionID *int64
}

// ExecutionResponse is the result of a graph-service `execute` call
// (spec.md §3 ExecutionResponse).
type ExecutionResponse struct {
	ErrorCode  ntype.ErrorCode
	ErrorMsg   []byte
	LatencyUs  int64
	SpaceName  []byte
	PlanDesc   []byte
	Comment    []byte
	Data       *ntype.DataSet
}
