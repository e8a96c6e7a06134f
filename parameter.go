package ygggo_jdbd

import (
	"bytes"
	"fmt"
	"math"
)

// ParamKind tags the value carried by a Parameter.
type ParamKind int

const (
	ParamNull ParamKind = iota
	ParamBytes
	ParamInt
	ParamFloat
	ParamDouble
)

func (k ParamKind) String() string {
	switch k {
	case ParamNull:
		return "Null"
	case ParamBytes:
		return "Bytes"
	case ParamInt:
		return "Integer"
	case ParamFloat:
		return "Float"
	case ParamDouble:
		return "Double"
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// Parameter is one bound SQL value. It is immutable once constructed;
// the zero value is NULL.
//
// There is no boolean or string variant: booleans are stored as Integer(1)
// or Integer(0) and strings as their UTF-8 bytes.
type Parameter struct {
	kind ParamKind
	b    []byte
	i    int64
	f    float32
	d    float64
}

// NullParam returns the SQL NULL parameter.
func NullParam() Parameter { return Parameter{kind: ParamNull} }

// BytesParam returns a Bytes parameter holding a copy of b.
// A nil slice is still a (zero length) Bytes value, not NULL.
func BytesParam(b []byte) Parameter {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Parameter{kind: ParamBytes, b: cp}
}

// IntParam returns a signed 64-bit Integer parameter.
func IntParam(v int64) Parameter { return Parameter{kind: ParamInt, i: v} }

// FloatParam returns a 32-bit Float parameter.
func FloatParam(v float32) Parameter { return Parameter{kind: ParamFloat, f: v} }

// DoubleParam returns a 64-bit Double parameter.
func DoubleParam(v float64) Parameter { return Parameter{kind: ParamDouble, d: v} }

// ParamOf canonicalizes a Go value into a Parameter.
//
//	nil                 -> Null
//	[]byte              -> Bytes
//	string              -> Bytes (UTF-8)
//	bool                -> Integer(1) / Integer(0)
//	int*, uint*         -> Integer (uint values above MaxInt64 are rejected)
//	float32             -> Float
//	float64             -> Double
//	Parameter           -> itself
func ParamOf(v any) (Parameter, error) {
	switch x := v.(type) {
	case nil:
		return NullParam(), nil
	case Parameter:
		return x, nil
	case *Parameter:
		if x == nil {
			return NullParam(), nil
		}
		return *x, nil
	case []byte:
		return BytesParam(x), nil
	case string:
		return Parameter{kind: ParamBytes, b: []byte(x)}, nil
	case bool:
		if x {
			return IntParam(1), nil
		}
		return IntParam(0), nil
	case int:
		return IntParam(int64(x)), nil
	case int8:
		return IntParam(int64(x)), nil
	case int16:
		return IntParam(int64(x)), nil
	case int32:
		return IntParam(int64(x)), nil
	case int64:
		return IntParam(x), nil
	case uint8:
		return IntParam(int64(x)), nil
	case uint16:
		return IntParam(int64(x)), nil
	case uint32:
		return IntParam(int64(x)), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return Parameter{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
		}
		return IntParam(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Parameter{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
		}
		return IntParam(int64(x)), nil
	case float32:
		return FloatParam(x), nil
	case float64:
		return DoubleParam(x), nil
	}
	return Parameter{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

// Kind reports the variant tag.
func (p Parameter) Kind() ParamKind { return p.kind }

// IsNull reports whether p is the NULL parameter.
func (p Parameter) IsNull() bool { return p.kind == ParamNull }

// Bytes returns a copy of the byte payload, or nil if p is not Bytes.
func (p Parameter) Bytes() []byte {
	if p.kind != ParamBytes {
		return nil
	}
	cp := make([]byte, len(p.b))
	copy(cp, p.b)
	return cp
}

func (p Parameter) Int() int64      { return p.i }
func (p Parameter) Float() float32  { return p.f }
func (p Parameter) Double() float64 { return p.d }

// Value returns the wire value handed to a backend:
// nil, []byte, int64, float32 or float64.
// The returned byte slice aliases p and must not be modified.
func (p Parameter) Value() any {
	switch p.kind {
	case ParamBytes:
		return p.b
	case ParamInt:
		return p.i
	case ParamFloat:
		return p.f
	case ParamDouble:
		return p.d
	}
	return nil
}

// Equal reports whether p and o have the same tag and payload.
func (p Parameter) Equal(o Parameter) bool {
	if p.kind != o.kind {
		return false
	}
	switch p.kind {
	case ParamBytes:
		return bytes.Equal(p.b, o.b)
	case ParamInt:
		return p.i == o.i
	case ParamFloat:
		return p.f == o.f
	case ParamDouble:
		return p.d == o.d
	}
	return true
}

func (p Parameter) String() string {
	switch p.kind {
	case ParamBytes:
		return fmt.Sprintf("Bytes(%q)", p.b)
	case ParamInt:
		return fmt.Sprintf("Integer(%d)", p.i)
	case ParamFloat:
		return fmt.Sprintf("Float(%g)", p.f)
	case ParamDouble:
		return fmt.Sprintf("Double(%g)", p.d)
	}
	return "Null"
}
