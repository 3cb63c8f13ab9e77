package graph

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/nebula-contrib/nebula-go/pkg/ntrans"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// Thrift field ids for the messages in types.go. These mirror the field
// ordering nebula's graph.thrift assigns; a real generated client would
// bake these in as unexported constants the same way.
const (
	fieldAuthUsername = 1
	fieldAuthPassword = 2

	fieldAuthRespCode      = 1
	fieldAuthRespMsg       = 2
	fieldAuthRespSessionID = 3

	fieldExecSessionID = 1
	fieldExecStmt      = 2

	fieldExecRespCode      = 1
	fieldExecRespMsg       = 2
	fieldExecRespData      = 3
	fieldExecRespLatency   = 4
	fieldExecRespSpace     = 5
	fieldExecRespPlanDesc  = 6
	fieldExecRespComment   = 7
)

// ServiceClient is the graph-service RPC surface relied on by
// pkg/nebula's SessionManager and Session (spec.md §6 "Graph service").
// It is the seam generated
// thrift code would normally occupy.
type ServiceClient interface {
	Authenticate(ctx context.Context, username, password []byte) (*AuthenticateResponse, error)
	Execute(ctx context.Context, sessionID int64, stmt []byte) (*ExecutionResponse, error)
	ExecuteJSON(ctx context.Context, sessionID int64, stmt []byte) ([]byte, error)
	Signout(ctx context.Context, sessionID int64) error
}

type thriftServiceClient struct {
	transport ntrans.Transport
}

// NewServiceClient builds a ServiceClient bound to an open transport.
func NewServiceClient(t ntrans.Transport) ServiceClient {
	return &thriftServiceClient{transport: t}
}

func (c *thriftServiceClient) proto() thrift.TProtocol { return c.transport.Protocol() }

func (c *thriftServiceClient) Authenticate(ctx context.Context, username, password []byte) (*AuthenticateResponse, error) {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, "authenticate", thrift.CALL, 0); err != nil {
		return nil, err
	}
	if err := ntrans.WriteStruct(ctx, p, "AuthenticateRequest", func() error {
		if err := ntrans.WriteBinaryField(ctx, p, fieldAuthUsername, username); err != nil {
			return err
		}
		return ntrans.WriteBinaryField(ctx, p, fieldAuthPassword, password)
	}); err != nil {
		return nil, err
	}
	if err := p.WriteMessageEnd(ctx); err != nil {
		return nil, err
	}
	if err := p.Flush(ctx); err != nil {
		return nil, err
	}

	if err := ntrans.ReadMessageReply(ctx, p); err != nil {
		return nil, err
	}
	resp := &AuthenticateResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldAuthRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldAuthRespMsg:
			v, err := p.ReadBinary(ctx)
			resp.ErrorMsg = v
			return err
		case fieldAuthRespSessionID:
			v, err := p.ReadI64(ctx)
			resp.SessionID = &v
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	if err := p.ReadMessageEnd(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *thriftServiceClient) Execute(ctx context.Context, sessionID int64, stmt []byte) (*ExecutionResponse, error) {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, "execute", thrift.CALL, 0); err != nil {
		return nil, err
	}
	if err := ntrans.WriteStruct(ctx, p, "ExecutionRequest", func() error {
		if err := ntrans.WriteI64Field(ctx, p, fieldExecSessionID, sessionID); err != nil {
			return err
		}
		return ntrans.WriteBinaryField(ctx, p, fieldExecStmt, stmt)
	}); err != nil {
		return nil, err
	}
	if err := p.WriteMessageEnd(ctx); err != nil {
		return nil, err
	}
	if err := p.Flush(ctx); err != nil {
		return nil, err
	}

	if err := ntrans.ReadMessageReply(ctx, p); err != nil {
		return nil, err
	}
	resp := &ExecutionResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldExecRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldExecRespMsg:
			v, err := p.ReadBinary(ctx)
			resp.ErrorMsg = v
			return err
		case fieldExecRespLatency:
			v, err := p.ReadI64(ctx)
			resp.LatencyUs = v
			return err
		case fieldExecRespSpace:
			v, err := p.ReadBinary(ctx)
			resp.SpaceName = v
			return err
		case fieldExecRespPlanDesc:
			v, err := p.ReadBinary(ctx)
			resp.PlanDesc = v
			return err
		case fieldExecRespComment:
			v, err := p.ReadBinary(ctx)
			resp.Comment = v
			return err
		case fieldExecRespData:
			ds, err := ntrans.ReadDataSet(ctx, p)
			resp.Data = ds
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) ExecuteJSON(ctx context.Context, sessionID int64, stmt []byte) ([]byte, error) {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, "executeJson", thrift.CALL, 0); err != nil {
		return nil, err
	}
	if err := ntrans.WriteStruct(ctx, p, "ExecutionRequest", func() error {
		if err := ntrans.WriteI64Field(ctx, p, fieldExecSessionID, sessionID); err != nil {
			return err
		}
		return ntrans.WriteBinaryField(ctx, p, fieldExecStmt, stmt)
	}); err != nil {
		return nil, err
	}
	if err := p.WriteMessageEnd(ctx); err != nil {
		return nil, err
	}
	if err := p.Flush(ctx); err != nil {
		return nil, err
	}
	if err := ntrans.ReadMessageReply(ctx, p); err != nil {
		return nil, err
	}
	var out []byte
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		if id == 0 {
			v, err := p.ReadBinary(ctx)
			out = v
			return err
		}
		return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
	})
	if err != nil {
		return nil, err
	}
	return out, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) Signout(ctx context.Context, sessionID int64) error {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, "signout", thrift.ONEWAY, 0); err != nil {
		return err
	}
	if err := ntrans.WriteStruct(ctx, p, "SignoutRequest", func() error {
		return ntrans.WriteI64Field(ctx, p, fieldExecSessionID, sessionID)
	}); err != nil {
		return err
	}
	if err := p.WriteMessageEnd(ctx); err != nil {
		return err
	}
	return p.Flush(ctx)
}
