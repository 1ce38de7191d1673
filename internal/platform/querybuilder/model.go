package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// modelField is one db-tagged exported field of a row struct.
type modelField struct {
	column    string
	index     int
	omitEmpty bool
}

var modelFieldCache sync.Map // reflect.Type -> []modelField

func fieldsOf(typ reflect.Type) []modelField {
	if cached, ok := modelFieldCache.Load(typ); ok {
		return cached.([]modelField)
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, modelField{
			column:    name,
			index:     i,
			omitEmpty: strings.Contains(opts, "omitempty"),
		})
	}

	modelFieldCache.Store(typ, fields)
	return fields
}

func structValue(model any) (reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("model must be struct, got %s", value.Kind())
	}
	return value, nil
}

// ModelColumns lists the db columns of model in field order, ignoring
// omitempty. It panics on a non-struct model, which is a programming error.
func ModelColumns(model any) []string {
	value, err := structValue(model)
	if err != nil {
		panic(err)
	}
	fields := fieldsOf(value.Type())
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols
}

// columnsAndValues skips omitempty fields holding their zero value.
func columnsAndValues(model any) ([]string, []any, error) {
	value, err := structValue(model)
	if err != nil {
		return nil, nil, err
	}

	fields := fieldsOf(value.Type())
	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		fv := value.Field(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		cols = append(cols, f.column)
		vals = append(vals, fv.Interface())
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("model has no db columns")
	}
	return cols, vals, nil
}

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := columnsAndValues(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpsertModel inserts model and, on a conflict over conflictCols, overwrites
// every other inserted column with its EXCLUDED value.
func UpsertModel(table string, model any, conflictCols ...string) (string, []any, error) {
	if len(conflictCols) == 0 {
		return "", nil, fmt.Errorf("upsert conflict columns are required")
	}
	cols, vals, err := columnsAndValues(model)
	if err != nil {
		return "", nil, err
	}

	conflict := make(map[string]struct{}, len(conflictCols))
	for _, c := range conflictCols {
		conflict[c] = struct{}{}
	}
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if _, ok := conflict[c]; ok {
			continue
		}
		sets = append(sets, c+" = EXCLUDED."+c)
	}

	suffix := "ON CONFLICT (" + strings.Join(conflictCols, ", ") + ") "
	if len(sets) == 0 {
		suffix += "DO NOTHING"
	} else {
		suffix += "DO UPDATE SET " + strings.Join(sets, ", ")
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}
