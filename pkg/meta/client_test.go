package meta

import (
	"context"
	"testing"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

type fakeServiceClient struct {
	spaces  []ntype.IdName
	parts   map[int32]map[int32][]ntype.HostAddress
	tags    map[int32][]ntype.TagItem
	edges   map[int32][]ntype.EdgeItem
	hosts   []ntype.HostItem
	calls   map[string]int

	listTagsErrorCode  ntype.ErrorCode
	listEdgesErrorCode ntype.ErrorCode
	listHostsErrorCode ntype.ErrorCode
}

func newFakeServiceClient() *fakeServiceClient {
	return &fakeServiceClient{
		parts: make(map[int32]map[int32][]ntype.HostAddress),
		tags:  make(map[int32][]ntype.TagItem),
		edges: make(map[int32][]ntype.EdgeItem),
		calls: make(map[string]int),
	}
}

func (f *fakeServiceClient) ListSpaces(ctx context.Context) (*ListSpacesResponse, error) {
	f.calls["ListSpaces"]++
	return &ListSpacesResponse{ErrorCode: ntype.ErrSucceeded, Spaces: f.spaces}, nil
}

func (f *fakeServiceClient) ListHosts(ctx context.Context, typ ListHostType) (*ListHostsResponse, error) {
	f.calls["ListHosts"]++
	code := f.listHostsErrorCode
	if code == 0 {
		code = ntype.ErrSucceeded
	}
	return &ListHostsResponse{ErrorCode: code, Hosts: f.hosts}, nil
}

func (f *fakeServiceClient) ListParts(ctx context.Context, spaceID int32, partIDs []int32) (*ListPartsResponse, error) {
	f.calls["ListParts"]++
	return &ListPartsResponse{ErrorCode: ntype.ErrSucceeded}, nil
}

func (f *fakeServiceClient) ListTags(ctx context.Context, spaceID int32) (*ListTagsResponse, error) {
	f.calls["ListTags"]++
	code := f.listTagsErrorCode
	if code == 0 {
		code = ntype.ErrSucceeded
	}
	return &ListTagsResponse{ErrorCode: code, Tags: f.tags[spaceID]}, nil
}

func (f *fakeServiceClient) ListEdges(ctx context.Context, spaceID int32) (*ListEdgesResponse, error) {
	f.calls["ListEdges"]++
	code := f.listEdgesErrorCode
	if code == 0 {
		code = ntype.ErrSucceeded
	}
	return &ListEdgesResponse{ErrorCode: code, Edges: f.edges[spaceID]}, nil
}

func (f *fakeServiceClient) GetPartsAlloc(ctx context.Context, spaceID int32) (*GetPartsAllocResponse, error) {
	f.calls["GetPartsAlloc"]++
	return &GetPartsAllocResponse{ErrorCode: ntype.ErrSucceeded, Parts: f.parts[spaceID]}, nil
}

var _ ServiceClient = (*fakeServiceClient)(nil)

func TestMetaClientGetSpaceIDLoadsOnMiss(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("test")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{1: {{Host: "h1", Port: 9779}}}

	m := NewMetaClient(fc, []string{"meta1:9559"})
	id, err := m.GetSpaceID(context.Background(), "test")
	if err != nil {
		t.Fatalf("GetSpaceID() error = %v", err)
	}
	if id != 1 {
		t.Fatalf("GetSpaceID() = %d, want 1", id)
	}
	if fc.calls["ListSpaces"] != 1 {
		t.Fatalf("ListSpaces called %d times, want 1", fc.calls["ListSpaces"])
	}

	// Second lookup of an already-cached space must not reload.
	if _, err := m.GetSpaceID(context.Background(), "test"); err != nil {
		t.Fatalf("GetSpaceID() second call error = %v", err)
	}
	if fc.calls["ListSpaces"] != 1 {
		t.Fatalf("ListSpaces called %d times after cache hit, want 1", fc.calls["ListSpaces"])
	}
}

func TestMetaClientGetSpaceIDUnknownSpaceReturnsError(t *testing.T) {
	fc := newFakeServiceClient()
	m := NewMetaClient(fc, nil)
	if _, err := m.GetSpaceID(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for unknown space")
	}
}

func TestMetaClientTagMaxVersionWins(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("s")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{1: {{Host: "h1", Port: 1}}}
	fc.tags[1] = []ntype.TagItem{
		{TagID: 10, TagName: []byte("player"), Version: 1},
		{TagID: 10, TagName: []byte("player"), Version: 3},
		{TagID: 10, TagName: []byte("player"), Version: 2},
	}

	m := NewMetaClient(fc, nil)
	item, err := m.GetTagItem(context.Background(), "s", "player")
	if err != nil {
		t.Fatalf("GetTagItem() error = %v", err)
	}
	if item.Version != 3 {
		t.Fatalf("GetTagItem().Version = %d, want 3 (max)", item.Version)
	}
}

func TestMetaClientGetPartLeadersIsFirstReplica(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("s")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{
		1: {{Host: "leader1", Port: 1}, {Host: "follower1", Port: 2}},
		2: {{Host: "leader2", Port: 1}},
	}

	m := NewMetaClient(fc, nil)
	leaders, err := m.GetPartLeaders(context.Background(), "s")
	if err != nil {
		t.Fatalf("GetPartLeaders() error = %v", err)
	}
	if leaders[1].Host != "leader1" || leaders[2].Host != "leader2" {
		t.Fatalf("leaders = %+v", leaders)
	}
}

func TestMetaClientLoadAllRejectsListTagsFailure(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("s")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{1: {{Host: "h1", Port: 1}}}
	fc.listTagsErrorCode = ntype.ErrDisconnected

	m := NewMetaClient(fc, nil)
	if _, err := m.GetSpaceID(context.Background(), "s"); err == nil {
		t.Fatalf("expected error when ListTags reports a non-SUCCEEDED code")
	}
}

func TestMetaClientLoadAllRejectsListEdgesFailure(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("s")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{1: {{Host: "h1", Port: 1}}}
	fc.listEdgesErrorCode = ntype.ErrDisconnected

	m := NewMetaClient(fc, nil)
	if _, err := m.GetSpaceID(context.Background(), "s"); err == nil {
		t.Fatalf("expected error when ListEdges reports a non-SUCCEEDED code")
	}
}

func TestMetaClientLoadAllRejectsListHostsFailure(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("s")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{1: {{Host: "h1", Port: 1}}}
	fc.listHostsErrorCode = ntype.ErrDisconnected

	m := NewMetaClient(fc, nil)
	if _, err := m.GetAllStorageAddrs(context.Background()); err == nil {
		t.Fatalf("expected error when ListHosts reports a non-SUCCEEDED code")
	}
}

func TestMetaClientUpdateStorageLeader(t *testing.T) {
	fc := newFakeServiceClient()
	fc.spaces = []ntype.IdName{{SpaceID: 1, Name: []byte("s")}}
	fc.parts[1] = map[int32][]ntype.HostAddress{1: {{Host: "old", Port: 1}}}

	m := NewMetaClient(fc, nil)
	if _, err := m.GetPartLeaders(context.Background(), "s"); err != nil {
		t.Fatalf("GetPartLeaders() error = %v", err)
	}

	newAddr := ntype.HostAddress{Host: "new", Port: 2}
	m.UpdateStorageLeader("s", 1, &newAddr)

	leaders, err := m.GetPartLeaders(context.Background(), "s")
	if err != nil {
		t.Fatalf("GetPartLeaders() error = %v", err)
	}
	if leaders[1].Host != "new" {
		t.Fatalf("leaders[1].Host = %q, want new", leaders[1].Host)
	}

	m.UpdateStorageLeader("s", 1, nil)
	leaders, _ = m.GetPartLeaders(context.Background(), "s")
	if _, ok := leaders[1]; ok {
		t.Fatalf("expected leader for part 1 to be removed")
	}
}
