package nebula

import "github.com/nebula-contrib/nebula-go/pkg/ntype"

// Node wraps a vertex with its tag names indexed for lookup, the shape
// query results walk a path's node list as (spec.md's SUPPLEMENTED
// FEATURES: path/node/relationship accessors).
type Node struct {
	vertex       ntype.Vertex
	tagNames     []string
	tagNameIndex map[string]int32
}

func newNode(v ntype.Vertex) *Node {
	n := &Node{vertex: v, tagNameIndex: make(map[string]int32)}
	for i, tag := range v.Tags {
		name := string(tag.Name)
		n.tagNames = append(n.tagNames, name)
		n.tagNameIndex[name] = int32(i)
	}
	return n
}

// GetID returns the vertex id as a ValueWrapper.
func (n *Node) GetID() ValueWrapper { return NewValueWrapper(n.vertex.VID, TimezoneInfo{}) }

// TagNames returns every tag name attached to this vertex.
func (n *Node) TagNames() []string { return n.tagNames }

// HasTag reports whether this vertex carries the named tag.
func (n *Node) HasTag(name string) bool {
	_, ok := n.tagNameIndex[name]
	return ok
}

// Properties returns the tag's property map, or nil if the vertex does
// not carry that tag.
func (n *Node) Properties(tagName string) map[string]ValueWrapper {
	idx, ok := n.tagNameIndex[tagName]
	if !ok {
		return nil
	}
	props := n.vertex.Tags[idx].Props
	out := make(map[string]ValueWrapper, len(props))
	for k, v := range props {
		out[k] = NewValueWrapper(v, TimezoneInfo{})
	}
	return out
}

// Relationship wraps an edge.
type Relationship struct {
	edge ntype.Edge
}

func newRelationship(e ntype.Edge) *Relationship { return &Relationship{edge: e} }

func (r *Relationship) Name() string { return string(r.edge.Name) }
func (r *Relationship) Ranking() int64 { return r.edge.Ranking }
func (r *Relationship) Src() ValueWrapper { return NewValueWrapper(r.edge.Src, TimezoneInfo{}) }
func (r *Relationship) Dst() ValueWrapper { return NewValueWrapper(r.edge.Dst, TimezoneInfo{}) }

func (r *Relationship) Properties() map[string]ValueWrapper {
	out := make(map[string]ValueWrapper, len(r.edge.Props))
	for k, v := range r.edge.Props {
		out[k] = NewValueWrapper(v, TimezoneInfo{})
	}
	return out
}

// Segment is one hop of a path: the node/relationship/node triple
// between two consecutive steps.
type Segment struct {
	StartNode    *Node
	Relationship *Relationship
	EndNode      *Node
}

// PathWrapper decodes a ntype.Path into an arena of Node/Relationship
// values plus the Segment views over it, mirroring the rust client's
// node_list/relationship_list/segments split over a single owned arena.
type PathWrapper struct {
	path         ntype.Path
	nodeList     []*Node
	relationList []*Relationship
	segments     []Segment
}

// NewPathWrapper builds the node/relationship arena and per-hop segment
// views for a decoded path.
func NewPathWrapper(path ntype.Path) *PathWrapper {
	w := &PathWrapper{path: path}
	w.nodeList = append(w.nodeList, newNode(path.Src))
	for _, step := range path.Steps {
		src := w.nodeList[len(w.nodeList)-1]
		w.nodeList = append(w.nodeList, newNode(step.Dst))
		edge := ntype.Edge{
			Src:     src.vertex.VID,
			Dst:     step.Dst.VID,
			Type:    step.Type,
			Name:    step.Name,
			Ranking: step.Ranking,
			Props:   step.Props,
		}
		w.relationList = append(w.relationList, newRelationship(edge))
	}
	for i := range w.relationList {
		w.segments = append(w.segments, Segment{
			StartNode:    w.nodeList[i],
			Relationship: w.relationList[i],
			EndNode:      w.nodeList[i+1],
		})
	}
	return w
}

func (w *PathWrapper) Nodes() []*Node                 { return w.nodeList }
func (w *PathWrapper) Relationships() []*Relationship { return w.relationList }
func (w *PathWrapper) Segments() []Segment            { return w.segments }
func (w *PathWrapper) Length() int                    { return len(w.path.Steps) }
