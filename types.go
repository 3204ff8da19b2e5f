package cdl

import (
	"fmt"
	"strings"
)

// Type is the element type of a variable or attribute.
// The zero value is not a valid type.
type Type int

const (
	Float32 Type = iota + 1
	Float64
	Int16
	Int32
	Int64
	Bool
	String // fixed-width character data
)

var typeNames = map[Type]string{
	Float32: "float32",
	Float64: "float64",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Bool:    "bool",
	String:  "string",
}

// CDL declaration keywords.
var typeKeywords = map[Type]string{
	Float32: "float",
	Float64: "double",
	Int16:   "short",
	Int32:   "integer",
	Int64:   "long",
	Bool:    "bool",
	String:  "char",
}

// String returns the type name ("float32", "int16", ...).
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is one of the defined types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Keyword returns the CDL keyword used in variable declarations.
func (t Type) Keyword() (string, error) {
	if kw, ok := typeKeywords[t]; ok {
		return kw, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnmappedType, t)
}

// ParseType accepts a type name or a CDL keyword.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	for t, kw := range typeKeywords {
		if kw == s {
			return t, nil
		}
	}
	switch s {
	case "int":
		return Int32, nil
	case "str":
		return String, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnmappedType, s)
}

// Value is a typed scalar or sequence used for attribute values and
// variable data. Data is held as a slice of the Go type matching Type.
type Value struct {
	typ  Type
	data any
}

func Float32s(v ...float32) Value { return Value{typ: Float32, data: v} }
func Float64s(v ...float64) Value { return Value{typ: Float64, data: v} }
func Int16s(v ...int16) Value     { return Value{typ: Int16, data: v} }
func Int32s(v ...int32) Value     { return Value{typ: Int32, data: v} }
func Int64s(v ...int64) Value     { return Value{typ: Int64, data: v} }
func Bools(v ...bool) Value       { return Value{typ: Bool, data: v} }
func Strings(v ...string) Value   { return Value{typ: String, data: v} }

// Text is a single string value.
func Text(s string) Value { return Strings(s) }

// RawValue builds a Value from a type tag and an arbitrary payload without
// checking that they agree. Mismatches surface as ErrUnmappedType when the
// value is rendered. Data providers that cannot know their types statically
// use it.
func RawValue(t Type, data any) Value { return Value{typ: t, data: data} }

// Type returns the element type.
func (v Value) Type() Type { return v.typ }

// Data returns the underlying slice.
func (v Value) Data() any { return v.data }

// Len returns the number of elements, or 0 when the payload does not match
// the type.
func (v Value) Len() int {
	switch d := v.data.(type) {
	case []float32:
		return len(d)
	case []float64:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []bool:
		return len(d)
	case []string:
		return len(d)
	}
	return 0
}

// check verifies that the payload matches the declared type.
func (v Value) check() error {
	ok := false
	switch v.data.(type) {
	case []float32:
		ok = v.typ == Float32
	case []float64:
		ok = v.typ == Float64
	case []int16:
		ok = v.typ == Int16
	case []int32:
		ok = v.typ == Int32
	case []int64:
		ok = v.typ == Int64
	case []bool:
		ok = v.typ == Bool
	case []string:
		ok = v.typ == String
	}
	if !ok {
		return fmt.Errorf("%w: %s holding %T", ErrUnmappedType, v.typ, v.data)
	}
	return nil
}
