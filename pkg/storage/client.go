package storage

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nebula-contrib/nebula-go/pkg/meta"
	"github.com/nebula-contrib/nebula-go/pkg/nebula"
	"github.com/nebula-contrib/nebula-go/pkg/ntrans"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// Dialer opens a ServiceClient bound to a storaged leader address.
// Injected so StorageClient can be exercised against a fake without a
// real network (spec.md §4.8 step 3, "open/cache one connection per
// distinct leader").
type Dialer func(ctx context.Context, addr string) (ServiceClient, ntrans.Transport, error)

// DialStorage opens a thrift transport to a storaged host and wraps it
// as a ServiceClient.
func DialStorage(ctx context.Context, addr string) (ServiceClient, ntrans.Transport, error) {
	transport, err := ntrans.Dial(ctx, addr, ntrans.Options{})
	if err != nil {
		return nil, nil, &CreateTransportError{Addr: addr, Cause: err}
	}
	return NewServiceClient(transport), transport, nil
}

// StorageClient resolves a space/tag/edge through a MetaClient, fans a
// scan out across every partition leader the space allocates, and
// returns one StorageQueryOutput per partition (spec.md §4.8 step 6,
// "collect responses into a list of wrapped outputs" — never merged
// into one dataset). One connection is opened per distinct leader
// address and cached for reuse across scans (spec.md §4.8).
type StorageClient struct {
	meta  *meta.MetaClient
	dial  Dialer

	mu    sync.Mutex
	conns map[string]ServiceClient
}

// NewStorageClient builds a StorageClient over a MetaClient, dialing
// storaged connections with dial (pass DialStorage in production).
func NewStorageClient(metaClient *meta.MetaClient, dial Dialer) *StorageClient {
	return &StorageClient{meta: metaClient, dial: dial, conns: make(map[string]ServiceClient)}
}

func (c *StorageClient) connFor(ctx context.Context, addr ntype.HostAddress) (ServiceClient, error) {
	key := addr.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.conns[key]; ok {
		return client, nil
	}

	client, _, err := c.dial(ctx, key)
	if err != nil {
		return nil, err
	}
	c.conns[key] = client
	return client, nil
}

// ScanVertex scans every property of tagName across every partition of
// spaceName. An empty columns slice requests every column the tag's
// current schema names.
func (c *StorageClient) ScanVertex(ctx context.Context, spaceName, tagName string, columns []string) ([]*StorageQueryOutput, error) {
	spaceID, err := c.meta.GetSpaceID(ctx, spaceName)
	if err != nil {
		return nil, &MetaClientError{Cause: err}
	}
	tag, err := c.meta.GetTagItem(ctx, spaceName, tagName)
	if err != nil {
		return nil, &MetaClientError{Cause: err}
	}
	leaders, err := c.meta.GetPartLeaders(ctx, spaceName)
	if err != nil {
		return nil, &MetaClientError{Cause: err}
	}

	propCols := columns
	if len(propCols) == 0 {
		propCols = schemaColumnNames(tag.Schema)
	}
	prop := VertexProp{Tag: tag.TagID, Props: toBinaryColumns(propCols)}

	results, err := c.scanAllParts(ctx, leaders, func(ctx context.Context, client ServiceClient, partID int32) (*ScanResponse, error) {
		req := newScanVertexRequest(spaceID, partID, prop)
		resp, err := client.ScanVertex(ctx, req)
		if err != nil {
			return nil, &ScanVertexError{PartID: partID, Cause: err}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	colNames := append([]string{KVID}, propCols...)
	return wrapScanResults(colNames, results), nil
}

// ScanEdge scans every property of edgeName across every partition of
// spaceName. An empty columns slice requests every column the edge
// type's current schema names.
func (c *StorageClient) ScanEdge(ctx context.Context, spaceName, edgeName string, columns []string) ([]*StorageQueryOutput, error) {
	spaceID, err := c.meta.GetSpaceID(ctx, spaceName)
	if err != nil {
		return nil, &MetaClientError{Cause: err}
	}
	edge, err := c.meta.GetEdgeItem(ctx, spaceName, edgeName)
	if err != nil {
		return nil, &MetaClientError{Cause: err}
	}
	leaders, err := c.meta.GetPartLeaders(ctx, spaceName)
	if err != nil {
		return nil, &MetaClientError{Cause: err}
	}

	propCols := columns
	if len(propCols) == 0 {
		propCols = schemaColumnNames(edge.Schema)
	}
	prop := EdgeProp{Type: edge.EdgeType, Props: toBinaryColumns(propCols)}

	results, err := c.scanAllParts(ctx, leaders, func(ctx context.Context, client ServiceClient, partID int32) (*ScanResponse, error) {
		req := newScanEdgeRequest(spaceID, partID, prop)
		resp, err := client.ScanEdge(ctx, req)
		if err != nil {
			return nil, &ScanEdgeError{PartID: partID, Cause: err}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	colNames := append([]string{KSrc, KType, KRank, KDst}, propCols...)
	return wrapScanResults(colNames, results), nil
}

func (c *StorageClient) scanAllParts(ctx context.Context, leaders map[int32]ntype.HostAddress, scanOne func(ctx context.Context, client ServiceClient, partID int32) (*ScanResponse, error)) ([]*ScanResponse, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]*ScanResponse, len(leaders))
	partIDs := make([]int32, 0, len(leaders))
	for partID := range leaders {
		partIDs = append(partIDs, partID)
	}
	for i, partID := range partIDs {
		i, partID := i, partID
		addr := leaders[partID]
		g.Go(func() error {
			client, err := c.connFor(gctx, addr)
			if err != nil {
				return err
			}
			resp, err := scanOne(gctx, client, partID)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func schemaColumnNames(schema ntype.Schema) []string {
	out := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		out[i] = string(col.Name)
	}
	return out
}

func toBinaryColumns(names []string) [][]byte {
	out := make([][]byte, len(names))
	for i, n := range names {
		out[i] = []byte(n)
	}
	return out
}

// wrapScanResults turns one ScanResponse per partition into one
// StorageQueryOutput per partition, in the same order scanAllParts
// returned them (spec.md §4.8 step 6: a list of wrapped outputs, never
// merged into one dataset).
func wrapScanResults(colNames []string, results []*ScanResponse) []*StorageQueryOutput {
	out := make([]*StorageQueryOutput, len(results))
	for i, resp := range results {
		out[i] = newStorageQueryOutput(colNames, resp)
	}
	return out
}

func newStorageQueryOutput(colNames []string, resp *ScanResponse) *StorageQueryOutput {
	ds := &ntype.DataSet{ColumnNames: toBinaryColumns(colNames)}
	errorCode := ntype.ErrSucceeded
	if resp != nil {
		errorCode = resp.ErrorCode
		if resp.Props != nil {
			ds.Rows = resp.Props.Rows
		}
	}
	return &StorageQueryOutput{
		dataset:   nebula.NewDataSetWrapper(ds, nebula.TimezoneInfo{}),
		errorCode: errorCode,
	}
}

// StorageQueryOutput wraps one partition's scan result as a
// nebula.DataSetWrapper, with the same dataset-proxy methods
// GraphQueryOutput exposes so callers can treat either result
// uniformly, plus the per-partition status SUPPLEMENTED FEATURES item 4
// names (IsSucceed/IsPartialSucceed).
type StorageQueryOutput struct {
	dataset   *nebula.DataSetWrapper
	errorCode ntype.ErrorCode
}

// NewStorageQueryOutput wraps a DataSet as a successful, standalone
// StorageQueryOutput (used by callers assembling a result outside a
// StorageClient scan, e.g. tests).
func NewStorageQueryOutput(ds *ntype.DataSet) *StorageQueryOutput {
	return &StorageQueryOutput{dataset: nebula.NewDataSetWrapper(ds, nebula.TimezoneInfo{}), errorCode: ntype.ErrSucceeded}
}

func (o *StorageQueryOutput) Dataset() *nebula.DataSetWrapper    { return o.dataset }
func (o *StorageQueryOutput) IsEmpty() bool                      { return o.dataset.IsEmpty() }
func (o *StorageQueryOutput) GetRowSize() int                     { return o.dataset.GetRowSize() }
func (o *StorageQueryOutput) GetColSize() int                     { return o.dataset.GetColSize() }
func (o *StorageQueryOutput) GetColNames() []string                { return o.dataset.GetColNames() }
func (o *StorageQueryOutput) GetRows() ([]*nebula.Record, error)   { return o.dataset.GetRows() }
func (o *StorageQueryOutput) AsStringTable() [][]string            { return o.dataset.AsStringTable() }
func (o *StorageQueryOutput) String() string                       { return o.dataset.String() }

// ErrorCode returns this partition's scan status.
func (o *StorageQueryOutput) ErrorCode() ntype.ErrorCode { return o.errorCode }

// IsSucceed reports whether this partition's scan completed with
// SUCCEEDED.
func (o *StorageQueryOutput) IsSucceed() bool { return o.errorCode == ntype.ErrSucceeded }

// IsPartialSucceed reports whether this partition's scan completed with
// E_PARTIAL_SUCCEEDED.
func (o *StorageQueryOutput) IsPartialSucceed() bool {
	return o.errorCode == ntype.ErrPartialSucceeded
}

func (o *StorageQueryOutput) GetRowValuesByIndex(index int) ([]nebula.ValueWrapper, error) {
	return o.dataset.GetRowValuesByIndex(index)
}

func (o *StorageQueryOutput) GetValuesByColName(name string) ([]nebula.ValueWrapper, error) {
	return o.dataset.GetValuesByColName(name)
}

// ScanStorageOutput decodes every row of this result into T.
func ScanStorageOutput[T any](o *StorageQueryOutput) ([]T, error) {
	return nebula.Scan[T](o.dataset)
}
