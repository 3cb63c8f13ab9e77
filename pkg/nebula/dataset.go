package nebula

import (
	"fmt"
	"strings"

	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// Record is one row of a DataSetWrapper, addressable by column name or
// index.
type Record struct {
	columnNames []string
	columnIndex map[string]int
	values      []ValueWrapper
}

// GetValueByColName looks up a cell by its column name.
func (r *Record) GetValueByColName(name string) (ValueWrapper, error) {
	idx, ok := r.columnIndex[name]
	if !ok {
		return ValueWrapper{}, &UnexistedColumnError{Column: name}
	}
	return r.values[idx], nil
}

// GetValueByIndex looks up a cell by its 0-based column index.
func (r *Record) GetValueByIndex(index int) (ValueWrapper, error) {
	if index < 0 || index >= len(r.values) {
		return ValueWrapper{}, &InvalidIndexError{Index: index, Size: len(r.values)}
	}
	return r.values[index], nil
}

// Values returns every cell of the record in column order.
func (r *Record) Values() []ValueWrapper { return r.values }

// DataSetWrapper wraps a decoded ntype.DataSet with a column-name index
// and the timezone its cells are wrapped with, plus the
// spreadsheet-style accessors query callers use (spec.md §5
// "DataSetWrapper").
type DataSetWrapper struct {
	ds          *ntype.DataSet
	columnNames []string
	columnIndex map[string]int
	timezone    TimezoneInfo
}

// NewDataSetWrapper builds a DataSetWrapper over a decoded DataSet. The
// column-name index is built last-occurrence-wins: if the DataSet
// contains a duplicate column name, the later index shadows the
// earlier one, matching the source's insert-overwrite loop.
func NewDataSetWrapper(ds *ntype.DataSet, tz TimezoneInfo) *DataSetWrapper {
	w := &DataSetWrapper{ds: ds, timezone: tz, columnIndex: make(map[string]int)}
	for i, name := range ds.ColumnNames {
		s := string(name)
		w.columnNames = append(w.columnNames, s)
		w.columnIndex[s] = i
	}
	return w
}

func (w *DataSetWrapper) Dataset() *ntype.DataSet    { return w.ds }
func (w *DataSetWrapper) GetColNames() []string       { return w.columnNames }
func (w *DataSetWrapper) GetColSize() int             { return len(w.columnNames) }
func (w *DataSetWrapper) GetRowSize() int             { return len(w.ds.Rows) }

// IsEmpty reports whether this result carries no columns. Row count is
// deliberately not part of this check: a query can legitimately return
// zero rows over a known column set, and that is not "empty" in the
// sense this accessor reports.
func (w *DataSetWrapper) IsEmpty() bool { return w.GetColSize() == 0 }

// GetRows returns every row as a Record.
func (w *DataSetWrapper) GetRows() ([]*Record, error) {
	out := make([]*Record, len(w.ds.Rows))
	for i, row := range w.ds.Rows {
		if len(row.Values) != len(w.columnNames) {
			return nil, &DataDeserializeError{Reason: fmt.Sprintf("row %d has %d values, expected %d columns", i, len(row.Values), len(w.columnNames))}
		}
		out[i] = &Record{
			columnNames: w.columnNames,
			columnIndex: w.columnIndex,
			values:      wrapAll(row.Values, w.timezone),
		}
	}
	return out, nil
}

// GetRowValuesByIndex returns one row's cells in column order.
func (w *DataSetWrapper) GetRowValuesByIndex(index int) ([]ValueWrapper, error) {
	if index < 0 || index >= len(w.ds.Rows) {
		return nil, &InvalidIndexError{Index: index, Size: len(w.ds.Rows)}
	}
	return wrapAll(w.ds.Rows[index].Values, w.timezone), nil
}

// GetValuesByColName returns every row's value for one column, in row
// order.
func (w *DataSetWrapper) GetValuesByColName(name string) ([]ValueWrapper, error) {
	idx, ok := w.columnIndex[name]
	if !ok {
		return nil, &UnexistedColumnError{Column: name}
	}
	out := make([]ValueWrapper, len(w.ds.Rows))
	for i, row := range w.ds.Rows {
		out[i] = NewValueWrapper(row.Values[idx], w.timezone)
	}
	return out, nil
}

// AsStringTable renders the dataset as a header row followed by every
// data row, each cell as its String() form. Used both by callers that
// want a plain [][]string and internally by String()'s pretty-printer.
func (w *DataSetWrapper) AsStringTable() [][]string {
	table := make([][]string, 0, len(w.ds.Rows)+1)
	table = append(table, append([]string(nil), w.columnNames...))
	for _, row := range w.ds.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = NewValueWrapper(v, w.timezone).String()
		}
		table = append(table, cells)
	}
	return table
}

// String renders the dataset as an ASCII table: a top border, a header
// row, a separator, every data row, and a bottom border. Column widths
// are the widest cell (including the header) across that column, plus
// padding of 2 (3 for the first column, to match the source's leading
// space before the opening border character). A dataset with no columns
// (e.g. a DDL statement's empty result) renders as the empty string
// rather than a border with nothing inside it.
func (w *DataSetWrapper) String() string {
	if w.GetColSize() == 0 {
		return ""
	}
	table := w.AsStringTable()
	cols := len(table[0])
	widths := make([]int, cols)
	for _, row := range table {
		for i, cell := range row {
			pad := 2
			if i == 0 {
				pad = 3
			}
			if n := len(cell) + pad; n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeBorder(&b, widths)
	writeRow(&b, table[0], widths)
	writeBorder(&b, widths)
	for _, row := range table[1:] {
		writeRow(&b, row, widths)
	}
	writeBorder(&b, widths)
	return b.String()
}

func writeBorder(b *strings.Builder, widths []int) {
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w))
		b.WriteString("+")
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, cell := range cells {
		pad := widths[i] - len(cell)
		left := pad / 2
		right := pad - left
		b.WriteString(strings.Repeat(" ", left))
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", right))
		b.WriteString("|")
	}
	b.WriteString("\n")
}
