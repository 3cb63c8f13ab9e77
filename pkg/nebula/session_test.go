package nebula

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/nebula-contrib/nebula-go/pkg/graph"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

type fakeGraphClient struct {
	execResp *graph.ExecutionResponse
	execErr  error
	signedOut bool
}

func (f *fakeGraphClient) Authenticate(ctx context.Context, username, password []byte) (*graph.AuthenticateResponse, error) {
	id := int64(1)
	return &graph.AuthenticateResponse{ErrorCode: ntype.ErrSucceeded, SessionID: &id}, nil
}

func (f *fakeGraphClient) Execute(ctx context.Context, sessionID int64, stmt []byte) (*graph.ExecutionResponse, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	return f.execResp, nil
}

func (f *fakeGraphClient) ExecuteJSON(ctx context.Context, sessionID int64, stmt []byte) ([]byte, error) {
	return []byte(`{}`), nil
}

func (f *fakeGraphClient) Signout(ctx context.Context, sessionID int64) error {
	f.signedOut = true
	return nil
}

var _ graph.ServiceClient = (*fakeGraphClient)(nil)

type noopTransport struct{}

func (noopTransport) Protocol() thrift.TProtocol          { return nil }
func (noopTransport) SetReadTimeout(d time.Duration) error { return nil }
func (noopTransport) Close() error                         { return nil }

func TestSessionExecuteSucceeded(t *testing.T) {
	client := &fakeGraphClient{execResp: &graph.ExecutionResponse{ErrorCode: ntype.ErrSucceeded, LatencyUs: 12}}
	s := NewSession(noopTransport{}, client, 1, TimezoneInfo{})

	out, err := s.Execute(context.Background(), "YIELD 1;")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.LatencyUs() != 12 {
		t.Fatalf("LatencyUs() = %d, want 12", out.LatencyUs())
	}
	if s.IsCloseRequired() {
		t.Fatalf("session should not require close on SUCCEEDED")
	}
}

func TestSessionExecuteSessionInvalidMarksCloseRequired(t *testing.T) {
	client := &fakeGraphClient{execResp: &graph.ExecutionResponse{ErrorCode: ntype.ErrSessionInvalid, ErrorMsg: []byte("bad session")}}
	s := NewSession(noopTransport{}, client, 1, TimezoneInfo{})

	_, err := s.Execute(context.Background(), "YIELD 1;")
	if err == nil {
		t.Fatalf("expected ResponseError")
	}
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %T", err)
	}
	if !respErr.CloseRequired {
		t.Fatalf("expected CloseRequired = true for E_SESSION_INVALID")
	}
	if !s.IsCloseRequired() {
		t.Fatalf("session.IsCloseRequired() = false, want true")
	}
}

func TestSessionExecuteOtherErrorDoesNotMarkCloseRequired(t *testing.T) {
	client := &fakeGraphClient{execResp: &graph.ExecutionResponse{ErrorCode: ntype.ErrPartialSucceeded}}
	s := NewSession(noopTransport{}, client, 1, TimezoneInfo{})

	_, err := s.Execute(context.Background(), "YIELD 1;")
	if err == nil {
		t.Fatalf("expected ResponseError")
	}
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected *ResponseError, got %T", err)
	}
	if respErr.CloseRequired {
		t.Fatalf("non session-invalid/timeout codes must not force a close")
	}
	if s.IsCloseRequired() {
		t.Fatalf("session.IsCloseRequired() = true, want false")
	}
}
