package ntype

import (
	"errors"
	"testing"
)

func TestValueTypeNameForEveryVariant(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		kind string
	}{
		{"empty", NewEmpty(), "empty"},
		{"null", NewNull(NullBadType), "null"},
		{"bool", NewBool(true), "bool"},
		{"int", NewInt(42), "int"},
		{"float", NewFloat(3.5), "float"},
		{"string", NewString([]byte("hi")), "string"},
		{"date", NewDate(Date{Year: 2024, Month: 1, Day: 2}), "date"},
		{"time", NewTime(Time{Hour: 1, Minute: 2, Sec: 3}), "time"},
		{"datetime", NewDateTime(DateTime{Year: 2024}), "datetime"},
		{"vertex", NewVertex(Vertex{}), "vertex"},
		{"edge", NewEdge(Edge{}), "edge"},
		{"path", NewPath(Path{}), "path"},
		{"list", NewList([]Value{NewInt(1)}), "list"},
		{"map", NewMap(map[string]Value{"a": NewInt(1)}), "map"},
		{"set", NewSet([]Value{NewInt(1)}), "set"},
		{"geography", NewGeography(Geography{}), "geography"},
		{"duration", NewDuration(Duration{Months: 1}), "duration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.TypeName(); got != tc.kind {
				t.Fatalf("TypeName() = %q, want %q", got, tc.kind)
			}
		})
	}
}

func TestValueEmptyIsDefaultZeroValue(t *testing.T) {
	var v Value
	if !v.IsEmpty() {
		t.Fatalf("zero Value must be Empty, got %s", v.TypeName())
	}
}

func TestValueWrongAccessorReturnsConversionError(t *testing.T) {
	v := NewInt(7)
	_, err := v.AsString()
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("expected *ConversionError, got %T (%v)", err, err)
	}
	if convErr.From != "int" || convErr.To != "string" {
		t.Fatalf("unexpected conversion error: %+v", convErr)
	}
}

func TestValueCorrectAccessorRoundTrips(t *testing.T) {
	v := NewInt(99)
	got, err := v.AsInt()
	if err != nil {
		t.Fatalf("AsInt() error = %v", err)
	}
	if got != 99 {
		t.Fatalf("AsInt() = %d, want 99", got)
	}
}

func TestErrorCodeString(t *testing.T) {
	if got := ErrSucceeded.String(); got != "SUCCEEDED" {
		t.Fatalf("ErrSucceeded.String() = %q", got)
	}
	if got := ErrorCode(-999).String(); got != "ErrorCode(-999)" {
		t.Fatalf("unknown ErrorCode.String() = %q", got)
	}
}

func TestHostAddressString(t *testing.T) {
	h := HostAddress{Host: "127.0.0.1", Port: 9669}
	if got, want := h.String(), "127.0.0.1:9669"; got != want {
		t.Fatalf("HostAddress.String() = %q, want %q", got, want)
	}
}
