package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// InsertModel renders a single-row INSERT from the db-tagged fields of model.
// suffix (ON CONFLICT, RETURNING) is appended verbatim.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	fields := dbFields(value.Type())
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("model %s has no db columns", value.Type())
	}

	var s stmt
	s.write("INSERT INTO ", table, " (")
	for i, f := range fields {
		if i > 0 {
			s.write(", ")
		}
		s.write(f.column)
	}
	s.write(") VALUES (")
	for i, f := range fields {
		if i > 0 {
			s.write(", ")
		}
		s.bind(value.Field(f.index).Interface())
	}
	s.write(")")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		s.write(" ", suffix)
	}
	return s.done()
}

type dbField struct {
	index  int
	column string
}

var fieldCache sync.Map // reflect.Type -> []dbField

func dbFields(typ reflect.Type) []dbField {
	if cached, ok := fieldCache.Load(typ); ok {
		return cached.([]dbField)
	}

	fields := make([]dbField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		column = strings.TrimSpace(column)
		if column == "" || column == "-" {
			continue
		}
		fields = append(fields, dbField{index: i, column: column})
	}
	fieldCache.Store(typ, fields)
	return fields
}
