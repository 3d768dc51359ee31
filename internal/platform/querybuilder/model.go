package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertRows builds one multi-row INSERT from structs tagged with `db`.
// Every row must share the first row's type.
func InsertRows[T any](table string, rows []T, returning ...string) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, fmt.Errorf("insert rows are required")
	}

	b := InsertInto(table).Returning(returning...)
	for i, row := range rows {
		cols, vals, err := columnsAndValues(row)
		if err != nil {
			return "", nil, fmt.Errorf("row %d: %w", i, err)
		}
		if i == 0 {
			b.Columns(cols...)
		}
		b.Values(vals...)
	}
	return b.ToSQL()
}

// InsertModel builds a single-row INSERT from a struct tagged with `db`.
func InsertModel(table string, model any, returning ...string) (string, []any, error) {
	cols, vals, err := columnsAndValues(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Returning(returning...).
		ToSQL()
}

func columnsAndValues(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col := strings.TrimSpace(strings.Split(field.Tag.Get("db"), ",")[0])
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}
