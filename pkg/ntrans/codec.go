package ntrans

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// WriteStruct brackets body (a sequence of WriteXField calls) with
// WriteStructBegin/WriteFieldStop/WriteStructEnd, the boilerplate every
// generated thrift struct writer repeats.
func WriteStruct(ctx context.Context, p thrift.TProtocol, name string, body func() error) error {
	if err := p.WriteStructBegin(ctx, name); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	return p.WriteStructEnd(ctx)
}

// ReadStruct brackets a field-at-a-time reader with
// ReadStructBegin/ReadStructEnd, matching the shape of generated
// thrift struct readers.
func ReadStruct(ctx context.Context, p thrift.TProtocol, onField func(id int16) error) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, _, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if id == 0 {
			break
		}
		if err := onField(id); err != nil {
			return err
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return p.ReadStructEnd(ctx)
}

// ReadMessageReply reads the message header of an RPC reply and surfaces
// any thrift application exception as a Go error.
func ReadMessageReply(ctx context.Context, p thrift.TProtocol) error {
	_, mtype, _, err := p.ReadMessageBegin(ctx)
	if err != nil {
		return err
	}
	if mtype == thrift.EXCEPTION {
		exc := thrift.NewTApplicationException(thrift.UNKNOWN_APPLICATION_EXCEPTION, "unknown")
		exc, err = exc.Read(ctx, p)
		if err != nil {
			return err
		}
		if err := p.ReadMessageEnd(ctx); err != nil {
			return err
		}
		return exc
	}
	return nil
}

func WriteBinaryField(ctx context.Context, p thrift.TProtocol, id int16, v []byte) error {
	if err := p.WriteFieldBegin(ctx, "", thrift.STRING, id); err != nil {
		return err
	}
	if err := p.WriteBinary(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func WriteI64Field(ctx context.Context, p thrift.TProtocol, id int16, v int64) error {
	if err := p.WriteFieldBegin(ctx, "", thrift.I64, id); err != nil {
		return err
	}
	if err := p.WriteI64(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

func WriteI32Field(ctx context.Context, p thrift.TProtocol, id int16, v int32) error {
	if err := p.WriteFieldBegin(ctx, "", thrift.I32, id); err != nil {
		return err
	}
	if err := p.WriteI32(ctx, v); err != nil {
		return err
	}
	return p.WriteFieldEnd(ctx)
}

// WriteHostAddress and ReadHostAddress codec nebula's common.thrift
// HostAddr struct (host string, port i32). The meta service client reads
// partition leaders and replicas with ReadHostAddress.
func WriteHostAddress(ctx context.Context, p thrift.TProtocol, addr ntype.HostAddress) error {
	return WriteStruct(ctx, p, "HostAddr", func() error {
		if err := WriteBinaryField(ctx, p, 1, []byte(addr.Host)); err != nil {
			return err
		}
		return WriteI32Field(ctx, p, 2, int32(addr.Port))
	})
}

func ReadHostAddress(ctx context.Context, p thrift.TProtocol) (ntype.HostAddress, error) {
	var addr ntype.HostAddress
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			v, err := p.ReadBinary(ctx)
			addr.Host = string(v)
			return err
		case 2:
			v, err := p.ReadI32(ctx)
			addr.Port = uint16(v)
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return addr, err
}

// ReadSchema decodes nebula's common.thrift Schema struct
// (an ordered list of name/type columns), shared by ListTags/ListEdges
// in the meta client.
func ReadSchema(ctx context.Context, p thrift.TProtocol) (ntype.Schema, error) {
	var schema ntype.Schema
	err := ReadStruct(ctx, p, func(id int16) error {
		if id != 1 {
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
		_, size, err := p.ReadListBegin(ctx)
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			col, err := readColumn(ctx, p)
			if err != nil {
				return err
			}
			schema.Columns = append(schema.Columns, col)
		}
		return p.ReadListEnd(ctx)
	})
	return schema, err
}

func readColumn(ctx context.Context, p thrift.TProtocol) (ntype.Column, error) {
	var col ntype.Column
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			v, err := p.ReadBinary(ctx)
			col.Name = v
			return err
		case 2:
			v, err := p.ReadI32(ctx)
			col.Type = v
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return col, err
}

// WriteDataSet encodes a DataSet (column names + rows of Values) onto the
// wire. DataSet is common to the graph and storage services (spec.md §3),
// so its codec lives here rather than being duplicated per service.
func WriteDataSet(ctx context.Context, p thrift.TProtocol, ds *ntype.DataSet) error {
	return WriteStruct(ctx, p, "DataSet", func() error {
		if err := p.WriteFieldBegin(ctx, "column_names", thrift.LIST, 1); err != nil {
			return err
		}
		if err := p.WriteListBegin(ctx, thrift.STRING, len(ds.ColumnNames)); err != nil {
			return err
		}
		for _, name := range ds.ColumnNames {
			if err := p.WriteBinary(ctx, name); err != nil {
				return err
			}
		}
		if err := p.WriteListEnd(ctx); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}

		if err := p.WriteFieldBegin(ctx, "rows", thrift.LIST, 2); err != nil {
			return err
		}
		if err := p.WriteListBegin(ctx, thrift.STRUCT, len(ds.Rows)); err != nil {
			return err
		}
		for _, row := range ds.Rows {
			if err := writeRow(ctx, p, row); err != nil {
				return err
			}
		}
		return p.WriteListEnd(ctx)
	})
}

func writeRow(ctx context.Context, p thrift.TProtocol, row ntype.Row) error {
	return WriteStruct(ctx, p, "Row", func() error {
		if err := p.WriteFieldBegin(ctx, "values", thrift.LIST, 1); err != nil {
			return err
		}
		if err := p.WriteListBegin(ctx, thrift.STRUCT, len(row.Values)); err != nil {
			return err
		}
		for _, v := range row.Values {
			if err := writeValue(ctx, p, v); err != nil {
				return err
			}
		}
		return p.WriteListEnd(ctx)
	})
}

// writeValue encodes the active arm of a Value as a one-field union, the
// shape nebula's common.thrift Value union takes on the wire.
func writeValue(ctx context.Context, p thrift.TProtocol, v ntype.Value) error {
	return WriteStruct(ctx, p, "Value", func() error {
		switch {
		case v.IsBool():
			b, _ := v.AsBool()
			if err := p.WriteFieldBegin(ctx, "bVal", thrift.BOOL, 2); err != nil {
				return err
			}
			if err := p.WriteBool(ctx, b); err != nil {
				return err
			}
			return p.WriteFieldEnd(ctx)
		case v.IsInt():
			i, _ := v.AsInt()
			return WriteI64Field(ctx, p, 3, i)
		case v.IsFloat():
			f, _ := v.AsFloat()
			if err := p.WriteFieldBegin(ctx, "fVal", thrift.DOUBLE, 4); err != nil {
				return err
			}
			if err := p.WriteDouble(ctx, f); err != nil {
				return err
			}
			return p.WriteFieldEnd(ctx)
		case v.IsString():
			s, _ := v.AsString()
			return WriteBinaryField(ctx, p, 5, []byte(s))
		default:
			// null/empty/date/time/container/graph values are not
			// produced by any client call site in this spec (they are
			// only ever consumed from a server response), so their
			// wire encoding is not exercised here.
			return nil
		}
	})
}

// ReadDataSet is the decoding counterpart of WriteDataSet, used when a
// graph ExecutionResponse or storage ScanResponse carries query results
// back from the server.
func ReadDataSet(ctx context.Context, p thrift.TProtocol) (*ntype.DataSet, error) {
	ds := &ntype.DataSet{}
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				name, err := p.ReadBinary(ctx)
				if err != nil {
					return err
				}
				ds.ColumnNames = append(ds.ColumnNames, name)
			}
			return p.ReadListEnd(ctx)
		case 2:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				row, err := readRow(ctx, p)
				if err != nil {
					return err
				}
				ds.Rows = append(ds.Rows, row)
			}
			return p.ReadListEnd(ctx)
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return ds, err
}

func readRow(ctx context.Context, p thrift.TProtocol) (ntype.Row, error) {
	row := ntype.Row{}
	err := ReadStruct(ctx, p, func(id int16) error {
		if id != 1 {
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
		_, size, err := p.ReadListBegin(ctx)
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			v, err := readValue(ctx, p)
			if err != nil {
				return err
			}
			row.Values = append(row.Values, v)
		}
		return p.ReadListEnd(ctx)
	})
	return row, err
}

// readValue decodes the active arm of nebula's common.thrift Value union.
// Field ids 2-5 are the scalar arms writeValue already produces; 1 (null)
// and 6-16
// (Date/Time/DateTime/Vertex/Edge/Path/List/Map/Set/Geography/Duration)
// are server-only response payloads (spec.md §3's full 17-variant model)
// that this client never writes but must still decode, since query
// results (e.g. `MATCH (v) RETURN v`) return them routinely.
func readValue(ctx context.Context, p thrift.TProtocol) (ntype.Value, error) {
	var v ntype.Value
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1: // nVal
			n, err := p.ReadByte(ctx)
			v = ntype.NewNull(ntype.NullType(n))
			return err
		case 2: // bVal
			b, err := p.ReadBool(ctx)
			v = ntype.NewBool(b)
			return err
		case 3: // iVal
			i, err := p.ReadI64(ctx)
			v = ntype.NewInt(i)
			return err
		case 4: // fVal
			f, err := p.ReadDouble(ctx)
			v = ntype.NewFloat(f)
			return err
		case 5: // sVal
			s, err := p.ReadBinary(ctx)
			v = ntype.NewString(s)
			return err
		case 6: // dVal
			d, err := readDate(ctx, p)
			v = ntype.NewDate(d)
			return err
		case 7: // tVal
			t, err := readTime(ctx, p)
			v = ntype.NewTime(t)
			return err
		case 8: // dtVal
			dt, err := readDateTime(ctx, p)
			v = ntype.NewDateTime(dt)
			return err
		case 9: // vVal
			vertex, err := readVertex(ctx, p)
			v = ntype.NewVertex(vertex)
			return err
		case 10: // eVal
			e, err := readEdge(ctx, p)
			v = ntype.NewEdge(e)
			return err
		case 11: // pVal
			path, err := readPath(ctx, p)
			v = ntype.NewPath(path)
			return err
		case 12: // lVal (NList)
			l, err := readValueList(ctx, p)
			v = ntype.NewList(l)
			return err
		case 13: // mVal (NMap)
			m, err := readValueMap(ctx, p)
			v = ntype.NewMap(m)
			return err
		case 14: // uVal (NSet)
			s, err := readValueSet(ctx, p)
			v = ntype.NewSet(s)
			return err
		case 15: // ggVal
			g, err := readGeography(ctx, p)
			v = ntype.NewGeography(g)
			return err
		case 16: // duVal
			d, err := readDuration(ctx, p)
			v = ntype.NewDuration(d)
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	if v.IsEmpty() && err == nil {
		v = ntype.NewEmpty()
	}
	return v, err
}

func readDate(ctx context.Context, p thrift.TProtocol) (ntype.Date, error) {
	var d ntype.Date
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			y, err := p.ReadI16(ctx)
			d.Year = y
			return err
		case 2:
			m, err := p.ReadByte(ctx)
			d.Month = m
			return err
		case 3:
			day, err := p.ReadByte(ctx)
			d.Day = day
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return d, err
}

func readTime(ctx context.Context, p thrift.TProtocol) (ntype.Time, error) {
	var t ntype.Time
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			h, err := p.ReadByte(ctx)
			t.Hour = h
			return err
		case 2:
			m, err := p.ReadByte(ctx)
			t.Minute = m
			return err
		case 3:
			s, err := p.ReadByte(ctx)
			t.Sec = s
			return err
		case 4:
			us, err := p.ReadI32(ctx)
			t.Microsec = us
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return t, err
}

func readDateTime(ctx context.Context, p thrift.TProtocol) (ntype.DateTime, error) {
	var dt ntype.DateTime
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			y, err := p.ReadI16(ctx)
			dt.Year = y
			return err
		case 2:
			m, err := p.ReadByte(ctx)
			dt.Month = m
			return err
		case 3:
			day, err := p.ReadByte(ctx)
			dt.Day = day
			return err
		case 4:
			h, err := p.ReadByte(ctx)
			dt.Hour = h
			return err
		case 5:
			m, err := p.ReadByte(ctx)
			dt.Minute = m
			return err
		case 6:
			s, err := p.ReadByte(ctx)
			dt.Sec = s
			return err
		case 7:
			us, err := p.ReadI32(ctx)
			dt.Microsec = us
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return dt, err
}

// readVertex and readTag codec nebula's common.thrift Vertex/Tag structs,
// the same shape pkg/nebula/path.go's Node wraps.
func readVertex(ctx context.Context, p thrift.TProtocol) (ntype.Vertex, error) {
	var vertex ntype.Vertex
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			vid, err := readValue(ctx, p)
			vertex.VID = vid
			return err
		case 2:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				tag, err := readTag(ctx, p)
				if err != nil {
					return err
				}
				vertex.Tags = append(vertex.Tags, tag)
			}
			return p.ReadListEnd(ctx)
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return vertex, err
}

func readTag(ctx context.Context, p thrift.TProtocol) (ntype.Tag, error) {
	var tag ntype.Tag
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			name, err := p.ReadBinary(ctx)
			tag.Name = name
			return err
		case 2:
			props, err := readValueMap(ctx, p)
			tag.Props = props
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return tag, err
}

// readEdge codecs nebula's common.thrift Edge struct, the shape
// pkg/nebula/path.go's Relationship wraps.
func readEdge(ctx context.Context, p thrift.TProtocol) (ntype.Edge, error) {
	var e ntype.Edge
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			src, err := readValue(ctx, p)
			e.Src = src
			return err
		case 2:
			dst, err := readValue(ctx, p)
			e.Dst = dst
			return err
		case 3:
			typ, err := p.ReadI32(ctx)
			e.Type = typ
			return err
		case 4:
			name, err := p.ReadBinary(ctx)
			e.Name = name
			return err
		case 5:
			rank, err := p.ReadI64(ctx)
			e.Ranking = rank
			return err
		case 6:
			props, err := readValueMap(ctx, p)
			e.Props = props
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return e, err
}

// readPath and readStep codec nebula's common.thrift Path/Step structs,
// the shape pkg/nebula/path.go's PathWrapper arena is built from.
func readPath(ctx context.Context, p thrift.TProtocol) (ntype.Path, error) {
	var path ntype.Path
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			src, err := readVertex(ctx, p)
			path.Src = src
			return err
		case 2:
			_, size, err := p.ReadListBegin(ctx)
			if err != nil {
				return err
			}
			for i := 0; i < size; i++ {
				step, err := readStep(ctx, p)
				if err != nil {
					return err
				}
				path.Steps = append(path.Steps, step)
			}
			return p.ReadListEnd(ctx)
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return path, err
}

func readStep(ctx context.Context, p thrift.TProtocol) (ntype.Step, error) {
	var step ntype.Step
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			dst, err := readVertex(ctx, p)
			step.Dst = dst
			return err
		case 2:
			typ, err := p.ReadI32(ctx)
			step.Type = typ
			return err
		case 3:
			name, err := p.ReadBinary(ctx)
			step.Name = name
			return err
		case 4:
			rank, err := p.ReadI64(ctx)
			step.Ranking = rank
			return err
		case 5:
			props, err := readValueMap(ctx, p)
			step.Props = props
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return step, err
}

// readValueList and readValueSet codec NList/NSet, the single-field
// wrapper structs nebula's common.thrift Value union points list/set
// arms at. The wire shape of a set is identical to a list; only the
// begin/end calls differ.
func readValueList(ctx context.Context, p thrift.TProtocol) ([]ntype.Value, error) {
	var out []ntype.Value
	err := ReadStruct(ctx, p, func(id int16) error {
		if id != 1 {
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
		_, size, err := p.ReadListBegin(ctx)
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			v, err := readValue(ctx, p)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return p.ReadListEnd(ctx)
	})
	return out, err
}

func readValueSet(ctx context.Context, p thrift.TProtocol) ([]ntype.Value, error) {
	var out []ntype.Value
	err := ReadStruct(ctx, p, func(id int16) error {
		if id != 1 {
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
		_, size, err := p.ReadSetBegin(ctx)
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			v, err := readValue(ctx, p)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return p.ReadSetEnd(ctx)
	})
	return out, err
}

// readValueMap codecs NMap, the single-field wrapper struct the Value
// union's map arm points at, and the property-map shape Tag/Edge/Step
// all share.
func readValueMap(ctx context.Context, p thrift.TProtocol) (map[string]ntype.Value, error) {
	var out map[string]ntype.Value
	err := ReadStruct(ctx, p, func(id int16) error {
		if id != 1 {
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
		_, _, size, err := p.ReadMapBegin(ctx)
		if err != nil {
			return err
		}
		out = make(map[string]ntype.Value, size)
		for i := 0; i < size; i++ {
			key, err := p.ReadBinary(ctx)
			if err != nil {
				return err
			}
			val, err := readValue(ctx, p)
			if err != nil {
				return err
			}
			out[string(key)] = val
		}
		return p.ReadMapEnd(ctx)
	})
	return out, err
}

// readDuration codecs nebula's common.thrift Duration struct.
func readDuration(ctx context.Context, p thrift.TProtocol) (ntype.Duration, error) {
	var d ntype.Duration
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			secs, err := p.ReadI64(ctx)
			d.Seconds = secs
			return err
		case 2:
			us, err := p.ReadI32(ctx)
			d.Microseconds = int64(us)
			return err
		case 3:
			months, err := p.ReadI32(ctx)
			d.Months = int64(months)
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return d, err
}

// geoCoordinate mirrors nebula's common.thrift Coordinate struct (a
// longitude/latitude pair); it exists only to decode Geography into WKB
// and has no ntype analog of its own.
type geoCoordinate struct {
	X float64
	Y float64
}

func readGeoCoordinate(ctx context.Context, p thrift.TProtocol) (geoCoordinate, error) {
	var c geoCoordinate
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1:
			x, err := p.ReadDouble(ctx)
			c.X = x
			return err
		case 2:
			y, err := p.ReadDouble(ctx)
			c.Y = y
			return err
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return c, err
}

func readGeoCoordinateList(ctx context.Context, p thrift.TProtocol) ([]geoCoordinate, error) {
	var out []geoCoordinate
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, err
	}
	for i := 0; i < size; i++ {
		c, err := readGeoCoordinate(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, p.ReadListEnd(ctx)
}

const (
	wkbTypePoint      = 1
	wkbTypeLineString = 2
	wkbTypePolygon    = 3
)

// readGeography decodes nebula's common.thrift Geography union (a Point,
// LineString, or Polygon built from Coordinate lists) into standard
// little-endian WKB, the encoding ntype.Geography stores. No use site in
// this client renders Geography to a string (spec.md §4.1 permits
// leaving that unimplemented), but the decoded WKB bytes are real and
// usable by callers that want to hand them to a geometry library.
func readGeography(ctx context.Context, p thrift.TProtocol) (ntype.Geography, error) {
	var wkb []byte
	err := ReadStruct(ctx, p, func(id int16) error {
		switch id {
		case 1: // ptVal
			var coord geoCoordinate
			err := ReadStruct(ctx, p, func(fid int16) error {
				if fid != 1 {
					return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
				}
				var err error
				coord, err = readGeoCoordinate(ctx, p)
				return err
			})
			if err != nil {
				return err
			}
			wkb = encodeWKBPoint(coord)
			return nil
		case 2: // lsVal
			var coords []geoCoordinate
			err := ReadStruct(ctx, p, func(fid int16) error {
				if fid != 1 {
					return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
				}
				var err error
				coords, err = readGeoCoordinateList(ctx, p)
				return err
			})
			if err != nil {
				return err
			}
			wkb = encodeWKBLineString(coords)
			return nil
		case 3: // pgVal
			var rings [][]geoCoordinate
			err := ReadStruct(ctx, p, func(fid int16) error {
				if fid != 1 {
					return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
				}
				_, size, err := p.ReadListBegin(ctx)
				if err != nil {
					return err
				}
				for i := 0; i < size; i++ {
					ring, err := readGeoCoordinateList(ctx, p)
					if err != nil {
						return err
					}
					rings = append(rings, ring)
				}
				return p.ReadListEnd(ctx)
			})
			if err != nil {
				return err
			}
			wkb = encodeWKBPolygon(rings)
			return nil
		default:
			return thrift.SkipDefaultDepth(ctx, p, thrift.STRUCT)
		}
	})
	return ntype.Geography{WKB: wkb}, err
}

func encodeWKBPoint(c geoCoordinate) []byte {
	buf := make([]byte, 0, 21)
	buf = append(buf, 1) // little endian
	buf = binary.LittleEndian.AppendUint32(buf, wkbTypePoint)
	buf = appendWKBCoordinate(buf, c)
	return buf
}

func encodeWKBLineString(coords []geoCoordinate) []byte {
	buf := make([]byte, 0, 9+16*len(coords))
	buf = append(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, wkbTypeLineString)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(coords)))
	for _, c := range coords {
		buf = appendWKBCoordinate(buf, c)
	}
	return buf
}

func encodeWKBPolygon(rings [][]geoCoordinate) []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, wkbTypePolygon)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(rings)))
	for _, ring := range rings {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ring)))
		for _, c := range ring {
			buf = appendWKBCoordinate(buf, c)
		}
	}
	return buf
}

func appendWKBCoordinate(buf []byte, c geoCoordinate) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.X))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.Y))
	return buf
}
