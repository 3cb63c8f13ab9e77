package nebula

import (
	"errors"
	"testing"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

type person struct {
	ID   int64  `nebula:"id"`
	Name string `nebula:"name"`
}

func TestScanDecodesRowsIntoStructs(t *testing.T) {
	w := NewDataSetWrapper(sampleDataSet(), TimezoneInfo{})
	people, err := Scan[person](w)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("Scan() len = %d, want 2", len(people))
	}
	if people[0] != (person{ID: 1, Name: "a"}) {
		t.Fatalf("people[0] = %+v", people[0])
	}
	if people[1] != (person{ID: 2, Name: "bb"}) {
		t.Fatalf("people[1] = %+v", people[1])
	}
}

func TestScanFallsBackToFieldNameWithoutTag(t *testing.T) {
	type untagged struct {
		Id   int64
		Name string
	}
	ds := &ntype.DataSet{
		ColumnNames: [][]byte{[]byte("Id"), []byte("Name")},
		Rows: []ntype.Row{
			{Values: []ntype.Value{ntype.NewInt(5), ntype.NewString([]byte("z"))}},
		},
	}
	w := NewDataSetWrapper(ds, TimezoneInfo{})
	out, err := Scan[untagged](w)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if out[0].Id != 5 || out[0].Name != "z" {
		t.Fatalf("out[0] = %+v", out[0])
	}
}

func TestScanFieldMatchingIsCaseSensitive(t *testing.T) {
	type lower struct {
		Id int64 `nebula:"id"`
	}
	ds := &ntype.DataSet{
		ColumnNames: [][]byte{[]byte("ID")},
		Rows: []ntype.Row{
			{Values: []ntype.Value{ntype.NewInt(7)}},
		},
	}
	w := NewDataSetWrapper(ds, TimezoneInfo{})
	if _, err := Scan[lower](w); err == nil {
		t.Fatalf("Scan() error = nil, want DataDeserializeError (column %q must not match tag %q case-insensitively, so %q is missing)", "ID", "id", "id")
	}
}

func TestScanMissingFieldReturnsDataDeserializeError(t *testing.T) {
	type withExtra struct {
		ID      int64  `nebula:"id"`
		Missing string `nebula:"nope"`
	}
	ds := &ntype.DataSet{
		ColumnNames: [][]byte{[]byte("id")},
		Rows: []ntype.Row{
			{Values: []ntype.Value{ntype.NewInt(1)}},
		},
	}
	w := NewDataSetWrapper(ds, TimezoneInfo{})
	_, err := Scan[withExtra](w)
	if err == nil {
		t.Fatalf("Scan() error = nil, want error for field with no matching column")
	}
	var dderr *DataDeserializeError
	if !errors.As(err, &dderr) {
		t.Fatalf("Scan() error = %v, want *DataDeserializeError", err)
	}
}

func TestScanRejectsNonStructTarget(t *testing.T) {
	w := NewDataSetWrapper(sampleDataSet(), TimezoneInfo{})
	if _, err := Scan[int](w); err == nil {
		t.Fatalf("expected error scanning into non-struct type")
	}
}
