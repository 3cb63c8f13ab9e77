package meta

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// MetaClient is the lookup surface storage and graph-level code uses to
// resolve names to ids, schemas, and partition leaders (spec.md §4.7).
// It holds a single connection to a meta server and a cache that is
// refreshed on miss.
type MetaClient struct {
	client ServiceClient
	// addrs is the configured meta address list. It is stored as given
	// and not read: MetaClient does not dial, it issues every RPC over
	// the ServiceClient it was constructed with.
	addrs []string

	mu    sync.RWMutex
	cache *MetaCache
}

// NewMetaClient wraps an already-connected ServiceClient. addrs is the
// full configured meta address list (spec.md §3 SessionConfig).
func NewMetaClient(client ServiceClient, addrs []string) *MetaClient {
	return &MetaClient{
		client: client,
		addrs:  addrs,
		cache:  newMetaCache(),
	}
}

func (m *MetaClient) loadAll(ctx context.Context) error {
	spacesResp, err := m.client.ListSpaces(ctx)
	if err != nil {
		return errLoad(err)
	}
	if spacesResp.ErrorCode != ntype.ErrSucceeded {
		return errLoad(fmt.Errorf("listSpaces: %s", spacesResp.ErrorCode))
	}

	newCache := newMetaCache()
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, sp := range spacesResp.Spaces {
		sp := sp
		g.Go(func() error {
			spaceID := sp.SpaceID
			spaceName := string(sp.Name)
			sc := newSpaceCache(spaceID, sp.Name)

			partsResp, err := m.client.GetPartsAlloc(gctx, spaceID)
			if err != nil {
				return errLoad(err)
			}
			if partsResp.ErrorCode != ntype.ErrSucceeded {
				return errLoad(fmt.Errorf("getPartsAlloc(%s): %s", spaceName, partsResp.ErrorCode))
			}
			for partID, hosts := range partsResp.Parts {
				sc.setPartAlloc(partID, hosts)
			}

			tagsResp, err := m.client.ListTags(gctx, spaceID)
			if err != nil {
				return errLoad(err)
			}
			if tagsResp.ErrorCode != ntype.ErrSucceeded {
				return errLoad(fmt.Errorf("listTags(%s): %s", spaceName, tagsResp.ErrorCode))
			}
			for _, tag := range tagsResp.Tags {
				name := string(tag.TagName)
				if existing, ok := sc.TagItems[name]; !ok || existing.Version < tag.Version {
					sc.TagItems[name] = tag
				}
			}

			edgesResp, err := m.client.ListEdges(gctx, spaceID)
			if err != nil {
				return errLoad(err)
			}
			if edgesResp.ErrorCode != ntype.ErrSucceeded {
				return errLoad(fmt.Errorf("listEdges(%s): %s", spaceName, edgesResp.ErrorCode))
			}
			for _, edge := range edgesResp.Edges {
				name := string(edge.EdgeName)
				if existing, ok := sc.EdgeItems[name]; !ok || existing.Version < edge.Version {
					sc.EdgeItems[name] = edge
				}
			}

			leaders := make(map[int32]ntype.HostAddress)
			for partID, hosts := range sc.PartAlloc() {
				if len(hosts) > 0 {
					leaders[partID] = hosts[0]
				}
			}

			mu.Lock()
			newCache.SpaceIDNames[spaceID] = spaceName
			newCache.SpaceCaches[spaceName] = sc
			newCache.StorageLeader[spaceName] = leaders
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	hostsResp, err := m.client.ListHosts(ctx, ListHostStorage)
	if err != nil {
		return errLoad(err)
	}
	if hostsResp.ErrorCode != ntype.ErrSucceeded {
		return errLoad(fmt.Errorf("listHosts: %s", hostsResp.ErrorCode))
	}
	addrs := make([]ntype.HostAddress, 0, len(hostsResp.Hosts))
	for _, h := range hostsResp.Hosts {
		addrs = append(addrs, h.HostAddr)
	}
	newCache.StorageAddrs = addrs
	newCache.HasStorageAddrs = true

	m.mu.Lock()
	m.cache = newCache
	m.mu.Unlock()
	return nil
}

// GetAllStorageAddrs returns every storage host known to the cluster.
func (m *MetaClient) GetAllStorageAddrs(ctx context.Context) ([]ntype.HostAddress, error) {
	m.mu.RLock()
	has := m.cache.HasStorageAddrs
	addrs := m.cache.StorageAddrs
	m.mu.RUnlock()
	if !has {
		if err := m.loadAll(ctx); err != nil {
			return nil, err
		}
		m.mu.RLock()
		addrs = m.cache.StorageAddrs
		m.mu.RUnlock()
	}
	return addrs, nil
}

// GetSpaceID resolves a space name to its numeric id.
func (m *MetaClient) GetSpaceID(ctx context.Context, spaceName string) (int32, error) {
	sc, err := m.getSpaceCache(ctx, spaceName)
	if err != nil {
		return 0, err
	}
	return sc.SpaceID, nil
}

func (m *MetaClient) getSpaceCache(ctx context.Context, spaceName string) (*SpaceCache, error) {
	m.mu.RLock()
	sc, err := m.cache.getSpaceCache(spaceName)
	m.mu.RUnlock()
	if err == nil {
		return sc, nil
	}
	if err := m.loadAll(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.getSpaceCache(spaceName)
}

// GetTagItem resolves a tag by name within a space, loading the cache on
// miss and retrying exactly once.
func (m *MetaClient) GetTagItem(ctx context.Context, spaceName, tagName string) (ntype.TagItem, error) {
	m.mu.RLock()
	ok := m.cache.containsTag(spaceName, tagName)
	m.mu.RUnlock()
	if !ok {
		if err := m.loadAll(ctx); err != nil {
			return ntype.TagItem{}, err
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.getTagItem(spaceName, tagName)
}

// GetEdgeItem resolves an edge type by name within a space, loading the
// cache on miss and retrying exactly once.
func (m *MetaClient) GetEdgeItem(ctx context.Context, spaceName, edgeName string) (ntype.EdgeItem, error) {
	m.mu.RLock()
	ok := m.cache.containsEdge(spaceName, edgeName)
	m.mu.RUnlock()
	if !ok {
		if err := m.loadAll(ctx); err != nil {
			return ntype.EdgeItem{}, err
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.getEdgeItem(spaceName, edgeName)
}

// GetTagID resolves a tag name to its numeric id.
func (m *MetaClient) GetTagID(ctx context.Context, spaceName, tagName string) (int32, error) {
	item, err := m.GetTagItem(ctx, spaceName, tagName)
	if err != nil {
		return 0, err
	}
	return item.TagID, nil
}

// GetEdgeType resolves an edge name to its numeric edge type.
func (m *MetaClient) GetEdgeType(ctx context.Context, spaceName, edgeName string) (int32, error) {
	item, err := m.GetEdgeItem(ctx, spaceName, edgeName)
	if err != nil {
		return 0, err
	}
	return item.EdgeType, nil
}

// GetTagSchema resolves the schema of a tag within a space.
func (m *MetaClient) GetTagSchema(ctx context.Context, spaceName, tagName string) (ntype.Schema, error) {
	item, err := m.GetTagItem(ctx, spaceName, tagName)
	if err != nil {
		return ntype.Schema{}, err
	}
	return item.Schema, nil
}

// GetEdgeSchema resolves the schema of an edge within a space.
func (m *MetaClient) GetEdgeSchema(ctx context.Context, spaceName, edgeName string) (ntype.Schema, error) {
	item, err := m.GetEdgeItem(ctx, spaceName, edgeName)
	if err != nil {
		return ntype.Schema{}, err
	}
	return item.Schema, nil
}

// GetPartLeaders returns the partition-id -> leader map for a space,
// loading the cache on miss and retrying exactly once.
func (m *MetaClient) GetPartLeaders(ctx context.Context, spaceName string) (map[int32]ntype.HostAddress, error) {
	m.mu.RLock()
	leaders, ok := m.cache.StorageLeader[spaceName]
	m.mu.RUnlock()
	if !ok {
		if err := m.loadAll(ctx); err != nil {
			return nil, err
		}
		m.mu.RLock()
		leaders, ok = m.cache.StorageLeader[spaceName]
		m.mu.RUnlock()
		if !ok {
			return nil, errSpaceNotFound(spaceName)
		}
	}
	return leaders, nil
}

// GetPartLeader returns the leader of a single partition within a space.
func (m *MetaClient) GetPartLeader(ctx context.Context, spaceName string, partID int32) (ntype.HostAddress, error) {
	leaders, err := m.GetPartLeaders(ctx, spaceName)
	if err != nil {
		return ntype.HostAddress{}, err
	}
	addr, ok := leaders[partID]
	if !ok {
		return ntype.HostAddress{}, errPartNotFound(partID)
	}
	return addr, nil
}

// GetPartAlloc returns the full partition-id -> replica-list allocation
// for a space (leader first in each list).
func (m *MetaClient) GetPartAlloc(ctx context.Context, spaceName string) (map[int32][]ntype.HostAddress, error) {
	sc, err := m.getSpaceCache(ctx, spaceName)
	if err != nil {
		return nil, err
	}
	return sc.PartAlloc(), nil
}

// UpdateStorageLeader overwrites the cached leader for a single
// partition. Reserved for future use (spec.md §4.7, §9): nothing in this
// client calls it yet, since no RPC surfaces a leader-moved notification.
func (m *MetaClient) UpdateStorageLeader(spaceName string, partID int32, addr *ntype.HostAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	leaders, ok := m.cache.StorageLeader[spaceName]
	if !ok {
		leaders = make(map[int32]ntype.HostAddress)
		m.cache.StorageLeader[spaceName] = leaders
	}
	if addr == nil {
		delete(leaders, partID)
		return
	}
	leaders[partID] = *addr
}
