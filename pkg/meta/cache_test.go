package meta

import (
	"testing"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

func TestSpaceCachePartAllocIsOrderedByPartID(t *testing.T) {
	sc := newSpaceCache(1, []byte("s"))
	sc.setPartAlloc(3, []ntype.HostAddress{{Host: "h3", Port: 1}})
	sc.setPartAlloc(1, []ntype.HostAddress{{Host: "h1", Port: 1}})
	sc.setPartAlloc(2, []ntype.HostAddress{{Host: "h2", Port: 1}})

	ids := sc.PartIDsSorted()
	want := []int32{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("PartIDsSorted() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("PartIDsSorted() = %v, want %v", ids, want)
		}
	}
}

func TestSpaceCachePartLeaderIsFirstReplica(t *testing.T) {
	sc := newSpaceCache(1, []byte("s"))
	sc.setPartAlloc(1, []ntype.HostAddress{{Host: "leader", Port: 1}, {Host: "follower", Port: 2}})

	leader, ok := sc.partLeader(1)
	if !ok {
		t.Fatalf("expected partLeader(1) to be found")
	}
	if leader.Host != "leader" {
		t.Fatalf("partLeader(1).Host = %q, want leader", leader.Host)
	}

	if _, ok := sc.partLeader(99); ok {
		t.Fatalf("partLeader(99) should not be found")
	}
}

func TestMetaCacheGetSpaceCacheNotFound(t *testing.T) {
	c := newMetaCache()
	if _, err := c.getSpaceCache("missing"); err == nil {
		t.Fatalf("expected errSpaceNotFound")
	}
}

func TestMetaCacheTagAndEdgeLookup(t *testing.T) {
	c := newMetaCache()
	sc := newSpaceCache(1, []byte("s"))
	sc.TagItems["player"] = ntype.TagItem{TagID: 9, TagName: []byte("player"), Version: 2}
	c.SpaceCaches["s"] = sc

	if !c.containsTag("s", "player") {
		t.Fatalf("expected containsTag(s, player) to be true")
	}
	item, err := c.getTagItem("s", "player")
	if err != nil {
		t.Fatalf("getTagItem() error = %v", err)
	}
	if item.TagID != 9 {
		t.Fatalf("getTagItem().TagID = %d, want 9", item.TagID)
	}
	if _, err := c.getTagItem("s", "missing"); err == nil {
		t.Fatalf("expected errTagNotFound")
	}
	if _, err := c.getEdgeItem("s", "missing"); err == nil {
		t.Fatalf("expected errEdgeNotFound")
	}
}
