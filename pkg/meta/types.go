// Package meta implements the meta-service wire client (spec.md §4.7,
// C7): schema and partition-topology lookups against a metad leader, plus
// the load-on-miss cache that backs them. Request/response shapes mirror
// what a Thrift IDL compiler would generate from meta.thrift, restricted
// to the fields this client relies on.
package meta

import "github.com/nebula-contrib/nebula-go/pkg/ntype"

// ListHostType selects which hosts a ListHosts call returns.
type ListHostType int32

const (
	ListHostGraph ListHostType = iota
	ListHostMeta
	ListHostStorage
)

type ListSpacesRequest struct{}

type ListSpacesResponse struct {
	ErrorCode ntype.ErrorCode
	Spaces    []ntype.IdName
}

type ListHostsRequest struct {
	Type ListHostType
}

type ListHostsResponse struct {
	ErrorCode ntype.ErrorCode
	Hosts     []ntype.HostItem
}

type ListPartsRequest struct {
	SpaceID int32
	PartIDs []int32
}

type ListPartsResponse struct {
	ErrorCode ntype.ErrorCode
	Parts     []ntype.PartItem
}

type ListTagsRequest struct {
	SpaceID int32
}

type ListTagsResponse struct {
	ErrorCode ntype.ErrorCode
	Tags      []ntype.TagItem
}

type ListEdgesRequest struct {
	SpaceID int32
}

type ListEdgesResponse struct {
	ErrorCode ntype.ErrorCode
	Edges     []ntype.EdgeItem
}

type GetPartsAllocRequest struct {
	SpaceID int32
}

// GetPartsAllocResponse carries, per partition id, the ordered replica
// list with the leader first (spec.md §4.7 "Partition allocation").
type GetPartsAllocResponse struct {
	ErrorCode ntype.ErrorCode
	Parts     map[int32][]ntype.HostAddress
}
