package meta

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/nebula-contrib/nebula-go/pkg/ntrans"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

const (
	fieldListHostsType = 1

	fieldListPartsSpaceID = 1
	fieldListPartsIDs     = 2

	fieldSpaceID = 1

	fieldRespCode  = 1
	fieldRespItems = 3

	fieldTagID      = 1
	fieldTagName    = 2
	fieldTagVersion = 3
	fieldTagSchema  = 4

	fieldEdgeType    = 1
	fieldEdgeName    = 2
	fieldEdgeVersion = 3
	fieldEdgeSchema  = 4

	fieldPartID     = 1
	fieldPartLeader = 2
	fieldPartPeers  = 3

	fieldHostAddr   = 1
	fieldHostStatus = 2

	fieldIDNameSpaceID = 1
	fieldIDNameName    = 2
)

// ServiceClient is the meta-service RPC surface relied on by MetaClient
// (spec.md §4.7). It is the seam generated thrift code would normally
// occupy.
type ServiceClient interface {
	ListSpaces(ctx context.Context) (*ListSpacesResponse, error)
	ListHosts(ctx context.Context, t ListHostType) (*ListHostsResponse, error)
	ListParts(ctx context.Context, spaceID int32, partIDs []int32) (*ListPartsResponse, error)
	ListTags(ctx context.Context, spaceID int32) (*ListTagsResponse, error)
	ListEdges(ctx context.Context, spaceID int32) (*ListEdgesResponse, error)
	GetPartsAlloc(ctx context.Context, spaceID int32) (*GetPartsAllocResponse, error)
}

type thriftServiceClient struct {
	transport ntrans.Transport
}

// NewServiceClient builds a ServiceClient bound to an open transport.
func NewServiceClient(t ntrans.Transport) ServiceClient {
	return &thriftServiceClient{transport: t}
}

func (c *thriftServiceClient) proto() thrift.TProtocol { return c.transport.Protocol() }

func (c *thriftServiceClient) call(ctx context.Context, name string, writeArgs func() error) error {
	p := c.proto()
	if err := p.WriteMessageBegin(ctx, name, thrift.CALL, 0); err != nil {
		return err
	}
	if err := ntrans.WriteStruct(ctx, p, name+"_args", writeArgs); err != nil {
		return err
	}
	if err := p.WriteMessageEnd(ctx); err != nil {
		return err
	}
	if err := p.Flush(ctx); err != nil {
		return err
	}
	return ntrans.ReadMessageReply(ctx, p)
}

func (c *thriftServiceClient) ListSpaces(ctx context.Context) (*ListSpacesResponse, error) {
	p := c.proto()
	if err := c.call(ctx, "listSpaces", func() error { return nil }); err != nil {
		return nil, err
	}
	resp := &ListSpacesResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespItems:
			return readList(ctx, p, func() error {
				idname, err := readIDName(ctx, p)
				resp.Spaces = append(resp.Spaces, idname)
				return err
			})
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) ListHosts(ctx context.Context, t ListHostType) (*ListHostsResponse, error) {
	p := c.proto()
	if err := c.call(ctx, "listHosts", func() error {
		return ntrans.WriteI32Field(ctx, p, fieldListHostsType, int32(t))
	}); err != nil {
		return nil, err
	}
	resp := &ListHostsResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespItems:
			return readList(ctx, p, func() error {
				item, err := readHostItem(ctx, p)
				resp.Hosts = append(resp.Hosts, item)
				return err
			})
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) ListParts(ctx context.Context, spaceID int32, partIDs []int32) (*ListPartsResponse, error) {
	p := c.proto()
	if err := c.call(ctx, "listParts", func() error {
		if err := ntrans.WriteI32Field(ctx, p, fieldListPartsSpaceID, spaceID); err != nil {
			return err
		}
		if err := p.WriteFieldBegin(ctx, "part_ids", thrift.LIST, fieldListPartsIDs); err != nil {
			return err
		}
		if err := p.WriteListBegin(ctx, thrift.I32, len(partIDs)); err != nil {
			return err
		}
		for _, id := range partIDs {
			if err := p.WriteI32(ctx, id); err != nil {
				return err
			}
		}
		if err := p.WriteListEnd(ctx); err != nil {
			return err
		}
		return p.WriteFieldEnd(ctx)
	}); err != nil {
		return nil, err
	}
	resp := &ListPartsResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespItems:
			return readList(ctx, p, func() error {
				item, err := readPartItem(ctx, p)
				resp.Parts = append(resp.Parts, item)
				return err
			})
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) ListTags(ctx context.Context, spaceID int32) (*ListTagsResponse, error) {
	p := c.proto()
	if err := c.call(ctx, "listTags", func() error {
		return ntrans.WriteI32Field(ctx, p, fieldSpaceID, spaceID)
	}); err != nil {
		return nil, err
	}
	resp := &ListTagsResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespItems:
			return readList(ctx, p, func() error {
				item, err := readTagItem(ctx, p)
				resp.Tags = append(resp.Tags, item)
				return err
			})
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) ListEdges(ctx context.Context, spaceID int32) (*ListEdgesResponse, error) {
	p := c.proto()
	if err := c.call(ctx, "listEdges", func() error {
		return ntrans.WriteI32Field(ctx, p, fieldSpaceID, spaceID)
	}); err != nil {
		return nil, err
	}
	resp := &ListEdgesResponse{}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespItems:
			return readList(ctx, p, func() error {
				item, err := readEdgeItem(ctx, p)
				resp.Edges = append(resp.Edges, item)
				return err
			})
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func (c *thriftServiceClient) GetPartsAlloc(ctx context.Context, spaceID int32) (*GetPartsAllocResponse, error) {
	p := c.proto()
	if err := c.call(ctx, "getPartsAlloc", func() error {
		return ntrans.WriteI32Field(ctx, p, fieldSpaceID, spaceID)
	}); err != nil {
		return nil, err
	}
	resp := &GetPartsAllocResponse{Parts: make(map[int32][]ntype.HostAddress)}
	if err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldRespCode:
			v, err := p.ReadI32(ctx)
			resp.ErrorCode = ntype.ErrorCode(v)
			return err
		case fieldRespItems:
			_, _, size, err := p.ReadMapBegin(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				partID, err := p.ReadI32(ctx)
				if err != nil {
					return err
				}
				_, n, err := p.ReadListBegin(ctx)
				if err != nil {
					return err
				}
				hosts := make([]ntype.HostAddress, 0, n)
				for j := 0; j < n; j++ {
					addr, err := ntrans.ReadHostAddress(ctx, p)
					if err != nil {
						return err
					}
					hosts = append(hosts, addr)
				}
				if err := p.ReadListEnd(ctx); err != nil {
					return err
				}
				resp.Parts[partID] = hosts
			}
			return p.ReadMapEnd(ctx)
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	}); err != nil {
		return nil, err
	}
	return resp, p.ReadMessageEnd(ctx)
}

func readList(ctx context.Context, p thrift.TProtocol, each func() error) error {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		if err := each(); err != nil {
			return err
		}
	}
	return p.ReadListEnd(ctx)
}

func readIDName(ctx context.Context, p thrift.TProtocol) (ntype.IdName, error) {
	var v ntype.IdName
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldIDNameSpaceID:
			x, err := p.ReadI32(ctx)
			v.SpaceID = x
			return err
		case fieldIDNameName:
			x, err := p.ReadBinary(ctx)
			v.Name = x
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return v, err
}

func readHostItem(ctx context.Context, p thrift.TProtocol) (ntype.HostItem, error) {
	var v ntype.HostItem
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldHostAddr:
			addr, err := ntrans.ReadHostAddress(ctx, p)
			v.HostAddr = addr
			return err
		case fieldHostStatus:
			s, err := p.ReadString(ctx)
			v.Status = s
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return v, err
}

func readPartItem(ctx context.Context, p thrift.TProtocol) (ntype.PartItem, error) {
	var v ntype.PartItem
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldPartID:
			x, err := p.ReadI32(ctx)
			v.PartID = x
			return err
		case fieldPartLeader:
			addr, err := ntrans.ReadHostAddress(ctx, p)
			v.Leader = &addr
			return err
		case fieldPartPeers:
			return readList(ctx, p, func() error {
				addr, err := ntrans.ReadHostAddress(ctx, p)
				v.Peers = append(v.Peers, addr)
				return err
			})
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return v, err
}

func readTagItem(ctx context.Context, p thrift.TProtocol) (ntype.TagItem, error) {
	var v ntype.TagItem
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldTagID:
			x, err := p.ReadI32(ctx)
			v.TagID = x
			return err
		case fieldTagName:
			x, err := p.ReadBinary(ctx)
			v.TagName = x
			return err
		case fieldTagVersion:
			x, err := p.ReadI64(ctx)
			v.Version = x
			return err
		case fieldTagSchema:
			schema, err := ntrans.ReadSchema(ctx, p)
			v.Schema = schema
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return v, err
}

func readEdgeItem(ctx context.Context, p thrift.TProtocol) (ntype.EdgeItem, error) {
	var v ntype.EdgeItem
	err := ntrans.ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case fieldEdgeType:
			x, err := p.ReadI32(ctx)
			v.EdgeType = x
			return err
		case fieldEdgeName:
			x, err := p.ReadBinary(ctx)
			v.EdgeName = x
			return err
		case fieldEdgeVersion:
			x, err := p.ReadI64(ctx)
			v.Version = x
			return err
		case fieldEdgeSchema:
			schema, err := ntrans.ReadSchema(ctx, p)
			v.Schema = schema
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return v, err
}
