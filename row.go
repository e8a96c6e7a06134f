package ygggo_jdbd

import (
	"fmt"
	"math"
	"strconv"
)

// ColumnType is the declared type recorded with a row's column value.
type ColumnType int

const (
	TypeString ColumnType = iota + 1
	TypeInt
	TypeDouble
	TypeBool
	TypeBytes
)

func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeBool:
		return "bool"
	case TypeBytes:
		return "bytes"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

type column struct {
	value any
	typ   ColumnType
}

// Row is an immutable, named-column result record with type-checked
// accessors.
type Row struct {
	names []string
	cols  map[string]column
}

// NewRow builds a row from three parallel sequences. Lengths must match.
// Values are normalized to the Go type of their declared column type
// (string, int64, float64, bool, []byte); nil means SQL NULL.
// Duplicate names overwrite earlier entries.
func NewRow(names []string, values []any, types []ColumnType) (*Row, error) {
	if len(names) != len(values) || len(values) != len(types) {
		return nil, &ShapeError{Names: len(names), Values: len(values), Types: len(types)}
	}
	r := &Row{
		names: make([]string, 0, len(names)),
		cols:  make(map[string]column, len(names)),
	}
	for i, name := range names {
		v, err := normalizeValue(types[i], values[i])
		if err != nil {
			return nil, &ShapeError{Names: len(names), Values: len(values), Types: len(types), Column: name, Err: err}
		}
		if _, dup := r.cols[name]; !dup {
			r.names = append(r.names, name)
		}
		r.cols[name] = column{value: v, typ: types[i]}
	}
	return r, nil
}

// Columns returns column names in first-appearance order.
func (r *Row) Columns() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

func (r *Row) Has(column string) bool {
	if r == nil {
		return false
	}
	_, ok := r.cols[column]
	return ok
}

// TypeOf returns the declared type of column, or false if absent.
func (r *Row) TypeOf(column string) (ColumnType, bool) {
	if r == nil {
		return 0, false
	}
	c, ok := r.cols[column]
	return c.typ, ok
}

// Value returns the raw stored value without a type check.
func (r *Row) Value(column string) any {
	if r == nil {
		return nil
	}
	return r.cols[column].value
}

// Map returns a copy of the row as name -> value.
func (r *Row) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.cols))
	for k, c := range r.cols {
		out[k] = c.value
	}
	return out
}

// GetString returns nil when column is absent or NULL, and a
// *TypeMismatchError when it was not declared as a string.
func (r *Row) GetString(column string) (*string, error) {
	v, err := r.get(column, TypeString)
	if err != nil || v == nil {
		return nil, err
	}
	s := v.(string)
	return &s, nil
}

func (r *Row) GetInt(column string) (*int64, error) {
	v, err := r.get(column, TypeInt)
	if err != nil || v == nil {
		return nil, err
	}
	n := v.(int64)
	return &n, nil
}

func (r *Row) GetDouble(column string) (*float64, error) {
	v, err := r.get(column, TypeDouble)
	if err != nil || v == nil {
		return nil, err
	}
	f := v.(float64)
	return &f, nil
}

func (r *Row) GetBool(column string) (*bool, error) {
	v, err := r.get(column, TypeBool)
	if err != nil || v == nil {
		return nil, err
	}
	b := v.(bool)
	return &b, nil
}

// GetBytes returns a copy of the stored bytes; nil means no value.
func (r *Row) GetBytes(column string) ([]byte, error) {
	v, err := r.get(column, TypeBytes)
	if err != nil || v == nil {
		return nil, err
	}
	src := v.([]byte)
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

func (r *Row) get(column string, want ColumnType) (any, error) {
	if r == nil {
		return nil, nil
	}
	c, ok := r.cols[column]
	if !ok {
		return nil, nil
	}
	if c.typ != want {
		return nil, &TypeMismatchError{Column: column, Requested: want, Declared: c.typ}
	}
	return c.value, nil
}

// normalizeValue converts v to the canonical Go type of t. Backends hand
// over whatever their protocol produced, e.g. []byte for every column of
// a MySQL text-protocol result or int32 for a PostgreSQL int4.
func normalizeValue(t ColumnType, v any) (any, error) {
	if v == nil {
		if t < TypeString || t > TypeBytes {
			return nil, fmt.Errorf("unknown declared type %v", t)
		}
		return nil, nil
	}
	switch t {
	case TypeString:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		}
	case TypeInt:
		return toInt64(v)
	case TypeDouble:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case []byte:
			return strconv.ParseFloat(string(x), 64)
		case string:
			return strconv.ParseFloat(x, 64)
		}
		if n, err := toInt64(v); err == nil {
			return float64(n), nil
		}
	case TypeBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case []byte:
			return strconv.ParseBool(string(x))
		case string:
			return strconv.ParseBool(x)
		}
		if n, err := toInt64(v); err == nil {
			return n != 0, nil
		}
	case TypeBytes:
		switch x := v.(type) {
		case []byte:
			out := make([]byte, len(x))
			copy(out, x)
			return out, nil
		case string:
			return []byte(x), nil
		}
	default:
		return nil, fmt.Errorf("unknown declared type %v", t)
	}
	return nil, fmt.Errorf("value of type %T cannot be stored as %v", v, t)
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", x)
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", x)
		}
		return int64(x), nil
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	case string:
		return strconv.ParseInt(x, 10, 64)
	}
	return 0, fmt.Errorf("value of type %T cannot be stored as %v", v, TypeInt)
}
