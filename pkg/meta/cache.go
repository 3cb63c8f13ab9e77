package meta

import (
	"sort"

	rbtree "github.com/twmb/go-rbtree"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// partAllocItem orders parts_alloc entries by partition id so SpaceCache
// can hand back an ordered view the way the rust client's BTreeMap does,
// without pulling in a second ordered-map dependency for one field.
type partAllocItem struct {
	partID int32
	hosts  []ntype.HostAddress
}

func (i *partAllocItem) Less(than rbtree.Item) bool {
	return i.partID < than.(*partAllocItem).partID
}

// SpaceCache is the per-space slice of metadata the storage client fans
// scans out against: tag/edge schemas keyed by name, and the partition to
// replica-list allocation (spec.md §4.7, §4.8 "Partition allocation").
type SpaceCache struct {
	SpaceID   int32
	SpaceName []byte
	TagItems  map[string]ntype.TagItem
	EdgeItems map[string]ntype.EdgeItem

	parts *rbtree.Tree
}

func newSpaceCache(id int32, name []byte) *SpaceCache {
	return &SpaceCache{
		SpaceID:   id,
		SpaceName: name,
		TagItems:  make(map[string]ntype.TagItem),
		EdgeItems: make(map[string]ntype.EdgeItem),
		parts:     &rbtree.Tree{},
	}
}

func (s *SpaceCache) setPartAlloc(partID int32, hosts []ntype.HostAddress) {
	s.parts.Insert(&partAllocItem{partID: partID, hosts: hosts})
}

// PartAlloc returns the partition-id -> ordered-replica-list allocation,
// leader first. The result is a Go map, so ranging over it yields no
// particular partition order; PartIDsSorted gives the ascending ids.
func (s *SpaceCache) PartAlloc() map[int32][]ntype.HostAddress {
	out := make(map[int32][]ntype.HostAddress)
	for n := s.parts.Min(); n != nil; n = n.Next() {
		item := n.Item.(*partAllocItem)
		out[item.partID] = item.hosts
	}
	return out
}

// PartIDsSorted returns the partition ids in ascending order, the
// iteration order the storage client's scan fan-out relies on.
func (s *SpaceCache) PartIDsSorted() []int32 {
	ids := make([]int32, 0)
	for n := s.parts.Min(); n != nil; n = n.Next() {
		ids = append(ids, n.Item.(*partAllocItem).partID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *SpaceCache) partLeader(partID int32) (ntype.HostAddress, bool) {
	for n := s.parts.Min(); n != nil; n = n.Next() {
		item := n.Item.(*partAllocItem)
		if item.partID == partID {
			if len(item.hosts) == 0 {
				return ntype.HostAddress{}, false
			}
			return item.hosts[0], true
		}
	}
	return ntype.HostAddress{}, false
}

// MetaCache is the process-wide cache MetaClient loads on miss and reuses
// across calls (spec.md §4.7 "Metadata caching"). SpaceCaches and
// StorageLeader are keyed by the string form of the space name so they
// work as plain map keys; SpaceIDNames maps a space id to its name.
type MetaCache struct {
	SpaceCaches   map[string]*SpaceCache
	SpaceIDNames  map[int32]string
	StorageAddrs  []ntype.HostAddress
	HasStorageAddrs bool
	StorageLeader map[string]map[int32]ntype.HostAddress
}

func newMetaCache() *MetaCache {
	return &MetaCache{
		SpaceCaches:   make(map[string]*SpaceCache),
		SpaceIDNames:  make(map[int32]string),
		StorageLeader: make(map[string]map[int32]ntype.HostAddress),
	}
}

func (c *MetaCache) containsSpace(name string) bool {
	_, ok := c.SpaceCaches[name]
	return ok
}

func (c *MetaCache) getSpaceCache(name string) (*SpaceCache, error) {
	sc, ok := c.SpaceCaches[name]
	if !ok {
		return nil, errSpaceNotFound(name)
	}
	return sc, nil
}

func (c *MetaCache) containsTag(space, tag string) bool {
	sc, ok := c.SpaceCaches[space]
	if !ok {
		return false
	}
	_, ok = sc.TagItems[tag]
	return ok
}

func (c *MetaCache) getTagItem(space, tag string) (ntype.TagItem, error) {
	sc, ok := c.SpaceCaches[space]
	if !ok {
		return ntype.TagItem{}, errSpaceNotFound(space)
	}
	item, ok := sc.TagItems[tag]
	if !ok {
		return ntype.TagItem{}, errTagNotFound(tag)
	}
	return item, nil
}

func (c *MetaCache) containsEdge(space, edge string) bool {
	sc, ok := c.SpaceCaches[space]
	if !ok {
		return false
	}
	_, ok = sc.EdgeItems[edge]
	return ok
}

func (c *MetaCache) getEdgeItem(space, edge string) (ntype.EdgeItem, error) {
	sc, ok := c.SpaceCaches[space]
	if !ok {
		return ntype.EdgeItem{}, errSpaceNotFound(space)
	}
	item, ok := sc.EdgeItems[edge]
	if !ok {
		return ntype.EdgeItem{}, errEdgeNotFound(edge)
	}
	return item, nil
}
