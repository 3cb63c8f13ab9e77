package nebula

import (
	"context"
	"sync/atomic"

	"github.com/nebula-contrib/nebula-go/pkg/graph"
	"github.com/nebula-contrib/nebula-go/pkg/ntrans"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// Session is one authenticated connection to a graphd host. A session
// that hits a SESSION_INVALID/SESSION_TIMEOUT response, or a broken-pipe
// transport error on the underlying RPC, marks itself closeRequired; callers
// (normally the pool) must then drop it instead of returning it to
// circulation (grounded on single_conn_session/mod.rs's response-policy
// table).
type Session struct {
	transport ntrans.Transport
	client    graph.ServiceClient
	sessionID int64
	timezone  TimezoneInfo
	metrics   *Metrics

	closeRequired int32
}

// NewSession wraps an authenticated graph-service connection. sessionID
// is the id returned by Authenticate.
func NewSession(t ntrans.Transport, client graph.ServiceClient, sessionID int64, tz TimezoneInfo) *Session {
	return &Session{transport: t, client: client, sessionID: sessionID, timezone: tz}
}

// SetMetrics wires m into this session; a nil m (the default) disables
// instrumentation. Returns s for chaining.
func (s *Session) SetMetrics(m *Metrics) *Session {
	s.metrics = m
	return s
}

func (s *Session) SessionID() int64 { return s.sessionID }

// IsCloseRequired reports whether this session must be torn down rather
// than reused.
func (s *Session) IsCloseRequired() bool { return atomic.LoadInt32(&s.closeRequired) != 0 }

func (s *Session) markCloseRequired() { atomic.StoreInt32(&s.closeRequired, 1) }

// Close signs out and releases the underlying transport. A session that
// is closeRequired skips the signout RPC and only releases the transport.
func (s *Session) Close(ctx context.Context) error {
	reason := "closed"
	if s.IsCloseRequired() {
		reason = "broken"
	} else {
		_ = s.client.Signout(ctx, s.sessionID)
	}
	s.metrics.ObserveSessionClosed(reason)
	return s.transport.Close()
}

// Execute runs one statement and returns its decoded result. It applies
// the response-code policy table: SUCCEEDED returns normally;
// SESSION_INVALID/SESSION_TIMEOUT both return a ResponseError and mark
// the session closeRequired; any other non-SUCCEEDED code returns a
// ResponseError without forcing a close. A broken-pipe transport error
// on the RPC itself also marks the session closeRequired, independent of
// this table; any other transport error is returned as a GraphQueryError
// without marking the session.
func (s *Session) Execute(ctx context.Context, stmt string) (*GraphQueryOutput, error) {
	resp, err := s.client.Execute(ctx, s.sessionID, []byte(stmt))
	if err != nil {
		if ntrans.IsBrokenPipe(err) {
			s.markCloseRequired()
		}
		s.metrics.ObserveQuery("transport_error", 0)
		return nil, &GraphQueryError{Cause: err}
	}
	return s.handleExecuteResponse(resp)
}

func (s *Session) handleExecuteResponse(resp *graph.ExecutionResponse) (*GraphQueryOutput, error) {
	switch resp.ErrorCode {
	case ntype.ErrSucceeded:
		s.metrics.ObserveQuery("success", resp.LatencyUs)
		return newGraphQueryOutput(resp, s.timezone), nil
	case ntype.ErrSessionInvalid, ntype.ErrSessionTimeout:
		s.markCloseRequired()
		s.metrics.ObserveQuery("session_error", resp.LatencyUs)
		return nil, &ResponseError{Code: int32(resp.ErrorCode), Msg: string(resp.ErrorMsg), CloseRequired: true}
	default:
		s.metrics.ObserveQuery("error", resp.LatencyUs)
		return nil, &ResponseError{Code: int32(resp.ErrorCode), Msg: string(resp.ErrorMsg)}
	}
}

// ExecuteJSON runs one statement and returns the graphd service's raw
// JSON-encoded response, bypassing the typed DataSet decode. The
// response-policy table above does not apply here: executeJson returns
// its status only inside the JSON payload, so callers must inspect it
// themselves.
func (s *Session) ExecuteJSON(ctx context.Context, stmt string) ([]byte, error) {
	out, err := s.client.ExecuteJSON(ctx, s.sessionID, []byte(stmt))
	if err != nil {
		if ntrans.IsBrokenPipe(err) {
			s.markCloseRequired()
		}
		return nil, &GraphQueryError{Cause: err}
	}
	return out, nil
}

// Query is an alias for Execute. It is not part of the GraphQuery
// interface, which names only Execute and ExecuteJSON.
func (s *Session) Query(ctx context.Context, stmt string) (*GraphQueryOutput, error) {
	return s.Execute(ctx, stmt)
}

// GraphQuery is the minimal query surface a Session exposes, factored
// out so callers can be handed either a raw *Session or a pooled
// wrapper around one.
type GraphQuery interface {
	Execute(ctx context.Context, stmt string) (*GraphQueryOutput, error)
	ExecuteJSON(ctx context.Context, stmt string) ([]byte, error)
}
