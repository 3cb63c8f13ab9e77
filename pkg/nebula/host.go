// Package nebula is the client-facing surface: session lifecycle,
// connection pooling, the typed value/dataset model, and the graph and
// storage query facades built on pkg/graph, pkg/meta, and pkg/storage.
package nebula

import "github.com/nebula-contrib/nebula-go/pkg/ntype"

// HostAddress identifies a graphd/metad/storaged endpoint.
type HostAddress = ntype.HostAddress

// NewHostAddress builds a HostAddress from a host and port.
func NewHostAddress(host string, port uint16) HostAddress {
	return HostAddress{Host: host, Port: port}
}
