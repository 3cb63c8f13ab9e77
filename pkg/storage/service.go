package storage

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/nebula-contrib/nebula-go/pkg/ntrans"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

const (
	fieldSpaceID        = 1
	fieldParts          = 2
	fieldReturnColumns   = 3
	fieldLimit          = 4
	fieldStartTime      = 5
	fieldEndTime        = 6
	fieldFilter         = 7
	fieldOnlyLatestVer  = 8
	fieldEnableFollower = 9

	fieldVertexPropTag   = 1
	fieldVertexPropProps = 2
	fieldEdgePropType    = 1
	fieldEdgePropProps   = 2
	fieldCursorNext      = 1

	fieldRespCode    = 1
	fieldRespProps   = 2
	fieldRespCursors = 3
)

// ServiceClient is the storage-service RPC surface relied on by
// StorageClient (spec.md §4.8). It is the seam generated thrift code
// would normally occupy.
type ServiceClient interface {
	ScanVertex(ctx context.Context, req *ScanVertexRequest) (*ScanResponse, error)
	ScanEdge(ctx context.Context, req *ScanEdgeRequest) (*ScanResponse, error)
}

type thriftServiceClient struct {
	transport ntrans.Transport
}

// NewServiceClient builds a ServiceClient bound to an open transport.
func NewServiceClient(t ntrans.Transport) ServiceClient {
	return &thriftServiceClient{transport: t}
}

func (c *thriftServiceClient) proto() thrift.TProtocol { return c.transport.Protocol() }

func (c *thriftServiceClient) ScanVertex(ctx context.Context, req *ScanVertexRequest) (*ScanResponse, error) {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, "scanVertex", thrift.CALL, 0); err != nil {
		return nil, err
	}
	if err := ntrans.WriteStruct(ctx, p, "ScanVertexRequest", func() error {
		return writeScanVertexRequest(ctx, p, req)
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
	resp, err := readScanResponse(ctx, p)
	if err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) ScanEdge(ctx context.Context, req *ScanEdgeRequest) (*ScanResponse, error) {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, "scanEdge", thrift.CALL, 0); err != nil {
		return nil, err
	}
	if err := ntrans.WriteStruct(ctx, p, "ScanEdgeRequest", func() error {
		return writeScanEdgeRequest(ctx, p, req)
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
	resp, err := readScanResponse(ctx, p)
	if err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func writeScanVertexRequest(ctx context.Context, p thrift.TProtocol, req *ScanVertexRequest) error {
	if err := ntrans.WriteI32Field(ctx, p, fieldSpaceID, req.SpaceID); err != nil {
		return err
	}
	if err := writePartsMap(ctx, p, req.Parts); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "return_columns", thrift.LIST, fieldReturnColumns); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(req.ReturnColumns)); err != nil {
		return err
	}
	for _, prop := range req.ReturnColumns {
		if err := writeVertexProp(ctx, p, prop); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	return writeScanCommon(ctx, p, req.Limit, req.StartTime, req.EndTime, req.Filter, req.OnlyLatestVersion, req.EnableReadFromFollower)
}

func writeScanEdgeRequest(ctx context.Context, p thrift.TProtocol, req *ScanEdgeRequest) error {
	if err := ntrans.WriteI32Field(ctx, p, fieldSpaceID, req.SpaceID); err != nil {
		return err
	}
	if err := writePartsMap(ctx, p, req.Parts); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "return_columns", thrift.LIST, fieldReturnColumns); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(req.ReturnColumns)); err != nil {
		return err
	}
	for _, prop := range req.ReturnColumns {
		if err := writeEdgeProp(ctx, p, prop); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	return writeScanCommon(ctx, p, req.Limit, req.StartTime, req.EndTime, req.Filter, req.OnlyLatestVersion, req.EnableReadFromFollower)
}

func writeScanCommon(ctx context.Context, p thrift.TProtocol, limit int64, startTime, endTime *int64, filter []byte, onlyLatest, enableFollower bool) error {
	if err := ntrans.WriteI64Field(ctx, p, fieldLimit, limit); err != nil {
		return err
	}
	if startTime != nil {
		if err := ntrans.WriteI64Field(ctx, p, fieldStartTime, *startTime); err != nil {
			return err
		}
	}
	if endTime != nil {
		if err := ntrans.WriteI64Field(ctx, p, fieldEndTime, *endTime); err != nil {
			return err
		}
	}
	if filter != nil {
		if err := ntrans.WriteBinaryField(ctx, p, fieldFilter, filter); err != nil {
			return err
		}
	}
	if err := p.WriteFieldBegin(ctx, "only_latest_version", thrift.BOOL, fieldOnlyLatestVer); err != nil {
		return err
	}
	if err := p.WriteBool(ctx, onlyLatest); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "enable_read_from_follower", thrift.BOOL, fieldEnableFollower); err != nil {
		return err
	}
	if err := p.WriteBool(ctx, enableFollower); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writePartsMap(ctx context.Context, p thrift.TProtocol, parts map[int32]ScanCursor) error {
	if err := p.WriteFieldBegin(ctx, "parts", thrift.MAP, fieldParts); err != nil {
		return err
	}
	if err := p.WriteMapBegin(ctx, thrift.I32, thrift.STRUCT, len(parts)); err != nil {
		return err
	}
	for partID, cursor := range parts {
		if err := p.WriteI32(ctx, partID); err != nil {
			return err
		}
		if err := writeScanCursor(ctx, p, cursor); err != nil {
			return err
		}
	}
	if err := p.WriteMapEnd(ctx); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func writeScanCursor(ctx context.Context, p thrift.TProtocol, c ScanCursor) error {
	return ntrans.WriteStruct(ctx, p, "ScanCursor", func() error {
		if c.NextCursor == nil {
			return nil
		}
		return ntrans.WriteBinaryField(ctx, p, fieldCursorNext, c.NextCursor)
	})
}

func writeVertexProp(ctx context.Context, p thrift.TProtocol, prop VertexProp) error {
	return ntrans.WriteStruct(ctx, p, "VertexProp", func() error {
		if err := ntrans.WriteI32Field(ctx, p, fieldVertexPropTag, prop.Tag); err != nil {
			return err
		}
		return writeBinaryList(ctx, p, fieldVertexPropProps, prop.Props)
	})
}

func writeEdgeProp(ctx context.Context, p thrift.TProtocol, prop EdgeProp) error {
	return ntrans.WriteStruct(ctx, p, "EdgeProp", func() error {
		if err := ntrans.WriteI32Field(ctx, p, fieldEdgePropType, prop.Type); err != nil {
			return err
		}
		return writeBinaryList(ctx, p, fieldEdgePropProps, prop.Props)
	})
}

func writeBinaryList(ctx context.Context, p thrift.TProtocol, id int16, items [][]byte) error {
	if err := p.WriteFieldBegin(ctx, "", thrift.LIST, id); err != nil {
		return err
	}
	if err := p.WriteListBegin(ctx, thrift.STRING, len(items)); err != nil {
		return err
	}
	for _, item := range items {
		if err := p.WriteBinary(ctx, item); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func readScanResponse(ctx context.Context, p thrift.TProtocol) (*ScanResponse, error) {
	resp := &ScanResponse{Cursors: make(map[int32]ScanCursor)}
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespProps:
			ds, err := ntrans.ReadDataSet(ctx, p)
			resp.Props = ds
			return err
		case fieldRespCursors:
			_, _, size, err := p.ReadMapBegin(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				partID, err := p.ReadI32(ctx)
				if err != nil {
					return err
				}
				cursor, err := readScanCursor(ctx, p)
				if err != nil {
					return err
				}
				resp.Cursors[partID] = cursor
			}
			return p.ReadMapEnd(ctx)
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return resp, err
}

func readScanCursor(ctx context.Context, p thrift.TProtocol) (ScanCursor, error) {
	var c ScanCursor
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		if id != fieldCursorNext {
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
		v, err := p.ReadBinary(ctx)
		c.NextCursor = v
		return err
	})
	return c, err
}
