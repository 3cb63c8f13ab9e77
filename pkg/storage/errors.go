package storage

import "fmt"

// CreateTransportError wraps a dial failure when opening a new storage
// connection to a partition leader.
type CreateTransportError struct {
	Addr  string
	Cause error
}

func (e *CreateTransportError) Error() string {
	return fmt.Sprintf("storage: create transport to %s: %s", e.Addr, e.Cause)
}
func (e *CreateTransportError) Unwrap() error { return e.Cause }

// MetaClientError wraps a failure from the meta-client lookups
// scan_vertex/scan_edge depend on (space id, tag/edge id, schema,
// part leaders).
type MetaClientError struct {
	Cause error
}

func (e *MetaClientError) Error() string { return fmt.Sprintf("storage: meta lookup: %s", e.Cause) }
func (e *MetaClientError) Unwrap() error { return e.Cause }

// ScanVertexError wraps a scanVertex RPC failure against one partition
// leader.
type ScanVertexError struct {
	PartID int32
	Cause  error
}

func (e *ScanVertexError) Error() string {
	return fmt.Sprintf("storage: scanVertex(part=%d): %s", e.PartID, e.Cause)
}
func (e *ScanVertexError) Unwrap() error { return e.Cause }

// ScanEdgeError wraps a scanEdge RPC failure against one partition
// leader.
type ScanEdgeError struct {
	PartID int32
	Cause  error
}

func (e *ScanEdgeError) Error() string {
	return fmt.Sprintf("storage: scanEdge(part=%d): %s", e.PartID, e.Cause)
}
func (e *ScanEdgeError) Unwrap() error { return e.Cause }
