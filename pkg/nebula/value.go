package nebula

import (
	"fmt"
	"strings"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// TimezoneInfo is a timezone name and offset carried alongside decoded
// values. SessionManager and the storage client always pass the zero
// TimezoneInfo, and ValueWrapper.String does not apply the offset:
// Time/DateTime values render exactly as the server sent them.
type TimezoneInfo struct {
	Name       string
	OffsetSecs int32
}

// ValueWrapper is the typed accessor over one of the 17 Value variants.
// Every query result cell and every vertex/edge property value is handed
// back to callers as a ValueWrapper rather than the bare ntype.Value, so
// callers get IsXxx/AsXxx and a canonical String() instead of a raw union.
type ValueWrapper struct {
	value    ntype.Value
	timezone TimezoneInfo
}

// NewValueWrapper wraps a decoded Value with a TimezoneInfo, which
// AsList/AsSet/AsMap pass on to the wrapped elements.
func NewValueWrapper(v ntype.Value, tz TimezoneInfo) ValueWrapper {
	return ValueWrapper{value: v, timezone: tz}
}

func (w ValueWrapper) Raw() ntype.Value { return w.value }

func (w ValueWrapper) IsEmpty() bool     { return w.value.IsEmpty() }
func (w ValueWrapper) IsNull() bool      { return w.value.IsNull() }
func (w ValueWrapper) IsBool() bool      { return w.value.IsBool() }
func (w ValueWrapper) IsInt() bool       { return w.value.IsInt() }
func (w ValueWrapper) IsFloat() bool     { return w.value.IsFloat() }
func (w ValueWrapper) IsString() bool    { return w.value.IsString() }
func (w ValueWrapper) IsDate() bool      { return w.value.IsDate() }
func (w ValueWrapper) IsTime() bool      { return w.value.IsTime() }
func (w ValueWrapper) IsDateTime() bool  { return w.value.IsDateTime() }
func (w ValueWrapper) IsVertex() bool    { return w.value.IsVertex() }
func (w ValueWrapper) IsEdge() bool      { return w.value.IsEdge() }
func (w ValueWrapper) IsPath() bool      { return w.value.IsPath() }
func (w ValueWrapper) IsList() bool      { return w.value.IsList() }
func (w ValueWrapper) IsMap() bool       { return w.value.IsMap() }
func (w ValueWrapper) IsSet() bool       { return w.value.IsSet() }
func (w ValueWrapper) IsGeography() bool { return w.value.IsGeography() }
func (w ValueWrapper) IsDuration() bool  { return w.value.IsDuration() }

func (w ValueWrapper) AsBool() (bool, error)         { return w.value.AsBool() }
func (w ValueWrapper) AsInt() (int64, error)         { return w.value.AsInt() }
func (w ValueWrapper) AsFloat() (float64, error)     { return w.value.AsFloat() }
func (w ValueWrapper) AsString() (string, error)     { return w.value.AsString() }
func (w ValueWrapper) AsDate() (ntype.Date, error)   { return w.value.AsDate() }
func (w ValueWrapper) AsTime() (ntype.Time, error)   { return w.value.AsTime() }
func (w ValueWrapper) AsDateTime() (ntype.DateTime, error) { return w.value.AsDateTime() }
func (w ValueWrapper) AsGeography() (ntype.Geography, error) { return w.value.AsGeography() }
func (w ValueWrapper) AsDuration() (ntype.Duration, error)   { return w.value.AsDuration() }

// AsNode decodes this value as a vertex, arena-wrapped so tag lookups are
// indexed rather than linear-scanned (spec.md SUPPLEMENTED FEATURES:
// container rendering left as todo upstream).
func (w ValueWrapper) AsNode() (*Node, error) {
	v, err := w.value.AsVertex()
	if err != nil {
		return nil, err
	}
	return newNode(v), nil
}

// AsRelationship decodes this value as an edge.
func (w ValueWrapper) AsRelationship() (*Relationship, error) {
	e, err := w.value.AsEdge()
	if err != nil {
		return nil, err
	}
	return newRelationship(e), nil
}

// AsPath decodes this value as a path, building its node/relationship
// arena.
func (w ValueWrapper) AsPath() (*PathWrapper, error) {
	p, err := w.value.AsPath()
	if err != nil {
		return nil, err
	}
	return NewPathWrapper(p), nil
}

// AsList decodes this value as a list, wrapping every element with the
// same timezone.
func (w ValueWrapper) AsList() ([]ValueWrapper, error) {
	l, err := w.value.AsList()
	if err != nil {
		return nil, err
	}
	return wrapAll(l, w.timezone), nil
}

// AsSet decodes this value as a set, wrapping every element with the
// same timezone. Nebula sets carry no uniqueness guarantee on the wire;
// this accessor preserves server order rather than imposing one.
func (w ValueWrapper) AsSet() ([]ValueWrapper, error) {
	s, err := w.value.AsSet()
	if err != nil {
		return nil, err
	}
	return wrapAll(s, w.timezone), nil
}

// AsMap decodes this value as a map, wrapping every value with the same
// timezone.
func (w ValueWrapper) AsMap() (map[string]ValueWrapper, error) {
	m, err := w.value.AsMap()
	if err != nil {
		return nil, err
	}
	out := make(map[string]ValueWrapper, len(m))
	for k, v := range m {
		out[k] = NewValueWrapper(v, w.timezone)
	}
	return out, nil
}

// AsDedupList would decode this value as a list with duplicate elements
// removed. No call site in this client exercises dedup semantics, and
// there is no reference behavior to ground a dedup key against, so this
// accessor is left undemonstrated and always reports a conversion
// failure rather than guess at one.
func (w ValueWrapper) AsDedupList() ([]ValueWrapper, error) {
	return nil, &ntype.ConversionError{From: w.value.TypeName(), To: "dedup_list"}
}

func wrapAll(vs []ntype.Value, tz TimezoneInfo) []ValueWrapper {
	out := make([]ValueWrapper, len(vs))
	for i, v := range vs {
		out[i] = NewValueWrapper(v, tz)
	}
	return out
}

// String renders the value the way the graphd console would: quoted
// strings, zero-padded date/time components, and a fixed duration
// layout. Container/graph variants print a best-effort inline form since
// the original client left theirs unimplemented.
func (w ValueWrapper) String() string {
	v := w.value
	switch {
	case v.IsEmpty():
		return "__EMPTY__"
	case v.IsNull():
		n, _ := v.AsNull()
		return nullString(n)
	case v.IsBool():
		b, _ := v.AsBool()
		return fmt.Sprintf("%t", b)
	case v.IsInt():
		i, _ := v.AsInt()
		return fmt.Sprintf("%d", i)
	case v.IsFloat():
		f, _ := v.AsFloat()
		return fmt.Sprintf("%v", f)
	case v.IsString():
		s, _ := v.AsString()
		return fmt.Sprintf("%q", s)
	case v.IsDate():
		d, _ := v.AsDate()
		return formatDate(d)
	case v.IsTime():
		t, _ := v.AsTime()
		return formatTime(t)
	case v.IsDateTime():
		dt, _ := v.AsDateTime()
		return formatDateTime(dt)
	case v.IsDuration():
		d, _ := v.AsDuration()
		return fmt.Sprintf("%d months, %d seconds, %d microseconds", d.Months, d.Seconds, d.Microseconds)
	case v.IsVertex():
		n, _ := w.AsNode()
		return n.String()
	case v.IsEdge():
		r, _ := w.AsRelationship()
		return r.String()
	case v.IsPath():
		p, _ := w.AsPath()
		return p.String()
	case v.IsList():
		l, _ := w.AsList()
		return "[" + joinValueWrappers(l) + "]"
	case v.IsSet():
		s, _ := w.AsSet()
		return "{" + joinValueWrappers(s) + "}"
	case v.IsMap():
		m, _ := w.AsMap()
		return formatMap(m)
	case v.IsGeography():
		g, _ := v.AsGeography()
		return fmt.Sprintf("geography(%d bytes)", len(g.WKB))
	default:
		return "__EMPTY__"
	}
}

func nullString(n ntype.NullType) string {
	switch n {
	case ntype.NullNaN:
		return "NaN"
	case ntype.NullBadData:
		return "BAD_DATA"
	case ntype.NullBadType:
		return "BAD_TYPE"
	case ntype.NullOutOfRange:
		return "OUT_OF_RANGE"
	case ntype.NullUnknownProp:
		return "UNKNOWN_PROP"
	case ntype.NullDivByZero:
		return "DIV_BY_ZERO"
	default:
		return "NULL"
	}
}

func formatDate(d ntype.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func formatTime(t ntype.Time) string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Sec, t.Microsec)
}

func formatDateTime(dt ntype.DateTime) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%06d", dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Sec, dt.Microsec)
}

func joinValueWrappers(vs []ValueWrapper) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func formatMap(m map[string]ValueWrapper) string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("%q: %s", k, v.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// String renders a node as its id plus its tags, e.g. ("1" :player{name: "a"}).
func (n *Node) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(NewValueWrapper(n.vertex.VID, TimezoneInfo{}).String())
	for _, tag := range n.vertex.Tags {
		b.WriteString(" :")
		b.WriteString(string(tag.Name))
		b.WriteString(formatPropsInline(tag.Props))
	}
	b.WriteString(")")
	return b.String()
}

// String renders a relationship as -[:name@rank{props}]->, with {} when
// the edge has no properties.
func (r *Relationship) String() string {
	var b strings.Builder
	b.WriteString("-[:")
	b.WriteString(string(r.edge.Name))
	b.WriteString(fmt.Sprintf("@%d", r.edge.Ranking))
	b.WriteString(formatPropsInline(r.edge.Props))
	b.WriteString("]->")
	return b.String()
}

// String renders a path as its node/relationship sequence.
func (p *PathWrapper) String() string {
	var b strings.Builder
	for i, n := range p.nodeList {
		b.WriteString(n.String())
		if i < len(p.relationList) {
			b.WriteString(p.relationList[i].String())
		}
	}
	return b.String()
}

func formatPropsInline(props map[string]ntype.Value) string {
	if len(props) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(props))
	for k, v := range props {
		parts = append(parts, fmt.Sprintf("%s: %s", k, NewValueWrapper(v, TimezoneInfo{}).String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
