package ntrans

import (
	"context"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

func newMemoryProtocol() thrift.TProtocol {
	buf := thrift.NewTMemoryBuffer()
	return thrift.NewTBinaryProtocolConf(buf, &thrift.TConfiguration{})
}

// writeRawVertexValue hand-encodes a Value union in its vVal (field 9)
// arm, the shape a real `MATCH (v) RETURN v` response carries and that
// writeValue (this client only ever writes scalar requests) never
// produces itself.
func writeRawVertexValue(ctx context.Context, p thrift.TProtocol, vid []byte, tagName string, propName string, propVal int64) error {
	return WriteStruct(ctx, p, "Value", func() error {
		if err := p.WriteFieldBegin(ctx, "vVal", thrift.STRUCT, 9); err != nil {
			return err
		}
		if err := WriteStruct(ctx, p, "Vertex", func() error {
			if err := p.WriteFieldBegin(ctx, "vid", thrift.STRUCT, 1); err != nil {
				return err
			}
			if err := WriteStruct(ctx, p, "Value", func() error {
				if err := p.WriteFieldBegin(ctx, "sVal", thrift.STRING, 5); err != nil {
					return err
				}
				if err := p.WriteBinary(ctx, vid); err != nil {
					return err
				}
				return p.WriteFieldEnd(ctx)
			}); err != nil {
				return err
			}
			if err := p.WriteFieldEnd(ctx); err != nil {
				return err
			}

			if err := p.WriteFieldBegin(ctx, "tags", thrift.LIST, 2); err != nil {
				return err
			}
			if err := p.WriteListBegin(ctx, thrift.STRUCT, 1); err != nil {
				return err
			}
			if err := WriteStruct(ctx, p, "Tag", func() error {
				if err := p.WriteFieldBegin(ctx, "name", thrift.STRING, 1); err != nil {
					return err
				}
				if err := p.WriteBinary(ctx, []byte(tagName)); err != nil {
					return err
				}
				if err := p.WriteFieldEnd(ctx); err != nil {
					return err
				}

				if err := p.WriteFieldBegin(ctx, "props", thrift.MAP, 2); err != nil {
					return err
				}
				if err := p.WriteMapBegin(ctx, thrift.STRING, thrift.STRUCT, 1); err != nil {
					return err
				}
				if err := p.WriteBinary(ctx, []byte(propName)); err != nil {
					return err
				}
				if err := WriteStruct(ctx, p, "Value", func() error {
					if err := p.WriteFieldBegin(ctx, "iVal", thrift.I64, 3); err != nil {
						return err
					}
					if err := p.WriteI64(ctx, propVal); err != nil {
						return err
					}
					return p.WriteFieldEnd(ctx)
				}); err != nil {
					return err
				}
				if err := p.WriteMapEnd(ctx); err != nil {
					return err
				}
				return p.WriteFieldEnd(ctx)
			}); err != nil {
				return err
			}
			if err := p.WriteListEnd(ctx); err != nil {
				return err
			}
			return p.WriteFieldEnd(ctx)
		}); err != nil {
			return err
		}
		return p.WriteFieldEnd(ctx)
	})
}

func TestReadValueDecodesVertex(t *testing.T) {
	ctx := context.Background()
	p := newMemoryProtocol()

	if err := writeRawVertexValue(ctx, p, []byte("player100"), "player", "age", 30); err != nil {
		t.Fatalf("writeRawVertexValue() error = %v", err)
	}

	v, err := readValue(ctx, p)
	if err != nil {
		t.Fatalf("readValue() error = %v", err)
	}
	if !v.IsVertex() {
		t.Fatalf("readValue() decoded kind is not Vertex: %+v", v)
	}

	vertex, err := v.AsVertex()
	if err != nil {
		t.Fatalf("AsVertex() error = %v", err)
	}
	vid, err := vertex.VID.AsString()
	if err != nil {
		t.Fatalf("vertex.VID.AsString() error = %v", err)
	}
	if vid != "player100" {
		t.Fatalf("vertex.VID = %q, want player100", vid)
	}
	if len(vertex.Tags) != 1 {
		t.Fatalf("len(vertex.Tags) = %d, want 1", len(vertex.Tags))
	}
	if string(vertex.Tags[0].Name) != "player" {
		t.Fatalf("tag name = %q, want player", vertex.Tags[0].Name)
	}
	age, ok := vertex.Tags[0].Props["age"]
	if !ok {
		t.Fatalf("tag props missing %q", "age")
	}
	ageVal, err := age.AsInt()
	if err != nil {
		t.Fatalf("age.AsInt() error = %v", err)
	}
	if ageVal != 30 {
		t.Fatalf("age = %d, want 30", ageVal)
	}
}

func TestReadValueUnknownFieldIDDecodesEmpty(t *testing.T) {
	ctx := context.Background()
	p := newMemoryProtocol()

	err := WriteStruct(ctx, p, "Value", func() error {
		if err := p.WriteFieldBegin(ctx, "unknown", thrift.I32, 99); err != nil {
			return err
		}
		if err := p.WriteI32(ctx, 1); err != nil {
			return err
		}
		return p.WriteFieldEnd(ctx)
	})
	if err != nil {
		t.Fatalf("WriteStruct() error = %v", err)
	}

	v, err := readValue(ctx, p)
	if err != nil {
		t.Fatalf("readValue() error = %v", err)
	}
	if !v.IsEmpty() {
		t.Fatalf("readValue() on an unrecognized field id should decode Empty, got %+v", v)
	}
}
