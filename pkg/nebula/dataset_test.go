package nebula

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

func sampleDataSet() *ntype.DataSet {
	return &ntype.DataSet{
		ColumnNames: [][]byte{[]byte("id"), []byte("name")},
		Rows: []ntype.Row{
			{Values: []ntype.Value{ntype.NewInt(1), ntype.NewString([]byte("a"))}},
			{Values: []ntype.Value{ntype.NewInt(2), ntype.NewString([]byte("bb"))}},
		},
	}
}

func TestDataSetWrapperBasics(t *testing.T) {
	w := NewDataSetWrapper(sampleDataSet(), TimezoneInfo{})
	if w.GetColSize() != 2 {
		t.Fatalf("GetColSize() = %d, want 2", w.GetColSize())
	}
	if w.GetRowSize() != 2 {
		t.Fatalf("GetRowSize() = %d, want 2", w.GetRowSize())
	}
	if diff := cmp.Diff([]string{"id", "name"}, w.GetColNames()); diff != "" {
		t.Fatalf("GetColNames() mismatch (-want +got):\n%s", diff)
	}
	if w.IsEmpty() {
		t.Fatalf("dataset with columns must not be IsEmpty()")
	}
}

func TestDataSetWrapperIsEmptyIsColSizeNotRowSize(t *testing.T) {
	ds := &ntype.DataSet{ColumnNames: [][]byte{[]byte("id")}}
	w := NewDataSetWrapper(ds, TimezoneInfo{})
	if w.GetRowSize() != 0 {
		t.Fatalf("expected zero rows")
	}
	if w.IsEmpty() {
		t.Fatalf("zero rows with a column set must not be IsEmpty()")
	}

	noCols := &ntype.DataSet{Rows: []ntype.Row{{Values: nil}}}
	w2 := NewDataSetWrapper(noCols, TimezoneInfo{})
	if !w2.IsEmpty() {
		t.Fatalf("zero columns must be IsEmpty() regardless of row count")
	}
}

func TestDataSetWrapperColumnIndexLastOccurrenceWins(t *testing.T) {
	ds := &ntype.DataSet{
		ColumnNames: [][]byte{[]byte("id"), []byte("id")},
		Rows: []ntype.Row{
			{Values: []ntype.Value{ntype.NewInt(1), ntype.NewInt(2)}},
		},
	}
	w := NewDataSetWrapper(ds, TimezoneInfo{})
	values, err := w.GetValuesByColName("id")
	if err != nil {
		t.Fatalf("GetValuesByColName() error = %v", err)
	}
	got, _ := values[0].AsInt()
	if got != 2 {
		t.Fatalf("duplicate column lookup = %d, want 2 (last occurrence)", got)
	}
}

func TestDataSetWrapperGetRowsMatchesColumnCount(t *testing.T) {
	w := NewDataSetWrapper(sampleDataSet(), TimezoneInfo{})
	rows, err := w.GetRows()
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("GetRows() len = %d, want 2", len(rows))
	}
	v, err := rows[1].GetValueByColName("name")
	if err != nil {
		t.Fatalf("GetValueByColName() error = %v", err)
	}
	s, _ := v.AsString()
	if s != "bb" {
		t.Fatalf("row[1].name = %q, want bb", s)
	}
}

func TestDataSetWrapperUnexistedColumn(t *testing.T) {
	w := NewDataSetWrapper(sampleDataSet(), TimezoneInfo{})
	if _, err := w.GetValuesByColName("nope"); err == nil {
		t.Fatalf("expected UnexistedColumnError")
	}
}

func TestDataSetWrapperStringRendersTable(t *testing.T) {
	w := NewDataSetWrapper(sampleDataSet(), TimezoneInfo{})
	out := w.String()
	if !strings.Contains(out, "id") || !strings.Contains(out, "name") {
		t.Fatalf("String() missing header: %s", out)
	}
	if !strings.HasPrefix(out, "+") {
		t.Fatalf("String() must open with a border row: %s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines (top border, header, sep, 2 rows, bottom border), got %d:\n%s", len(lines), out)
	}
}

func TestDataSetWrapperStringOnZeroColumnsIsEmptyString(t *testing.T) {
	ds := &ntype.DataSet{Rows: []ntype.Row{{Values: nil}}}
	w := NewDataSetWrapper(ds, TimezoneInfo{})
	if out := w.String(); out != "" {
		t.Fatalf("String() on a zero-column dataset = %q, want empty string", out)
	}
}
