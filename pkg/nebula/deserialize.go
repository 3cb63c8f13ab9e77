package nebula

import (
	"reflect"
)

// Scan decodes every row of a DataSetWrapper into a slice of T. T must
// be a struct; each exported field is matched to a column by its raw
// byte-string name, exact and case-sensitive: the `nebula:"name"` tag
// gives the column name directly (for names that aren't valid Go
// identifiers, such as "Leader count"), falling back to the field name
// itself when no tag is present. A column with no matching field is
// ignored; a field requested by T with no matching column in a row
// produces a DataDeserializeError for that row.
func Scan[T any](w *DataSetWrapper) ([]T, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, &DataDeserializeError{Reason: "scan target must be a struct"}
	}

	fieldForCol := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.PkgPath != "" {
			continue
		}
		name := f.Tag.Get("nebula")
		if name == "" {
			name = f.Name
		}
		fieldForCol[name] = i
	}

	rows, err := w.GetRows()
	if err != nil {
		return nil, err
	}

	colForField := make(map[int]string, len(fieldForCol))
	for colName, fieldIdx := range fieldForCol {
		colForField[fieldIdx] = colName
	}

	out := make([]T, len(rows))
	for i, row := range rows {
		v := reflect.New(typ).Elem()
		matched := make(map[int]bool, len(fieldForCol))
		for _, colName := range row.columnNames {
			fieldIdx, ok := fieldForCol[colName]
			if !ok {
				continue
			}
			cell, err := row.GetValueByColName(colName)
			if err != nil {
				return nil, err
			}
			if err := assignField(v.Field(fieldIdx), cell); err != nil {
				return nil, &DataDeserializeError{Reason: "column " + colName, Cause: err}
			}
			matched[fieldIdx] = true
		}
		for fieldIdx, colName := range colForField {
			if !matched[fieldIdx] {
				return nil, &DataDeserializeError{Reason: "column " + colName + " missing from row"}
			}
		}
		out[i] = v.Interface().(T)
	}
	return out, nil
}

func assignField(field reflect.Value, v ValueWrapper) error {
	switch field.Kind() {
	case reflect.String:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := v.AsInt()
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := v.AsFloat()
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		if field.Type() == reflect.TypeOf(ValueWrapper{}) {
			field.Set(reflect.ValueOf(v))
			return nil
		}
		return &DataDeserializeError{Reason: "unsupported field type " + field.Type().String()}
	}
	return nil
}
