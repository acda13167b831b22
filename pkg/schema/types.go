package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// Type validates one recorded value.
type Type interface {
	// Name returns the type as written in documents ("int", "[string]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

type basicType struct {
	name  string
	check func(any) bool
}

func (t basicType) Name() string { return t.name }

func (t basicType) Validate(value any) error {
	if !t.check(value) {
		return fmt.Errorf("expected %s, got %T", t.name, value)
	}
	return nil
}

// String accepts strings.
func String() Type {
	return basicType{name: "string", check: func(v any) bool {
		_, ok := v.(string)
		return ok
	}}
}

// Int accepts integers and whole floats.
func Int() Type {
	return basicType{name: "int", check: func(v any) bool {
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			return n == float64(int64(n))
		}
		return false
	}}
}

// Float accepts any number.
func Float() Type {
	return basicType{name: "float", check: func(v any) bool {
		switch v.(type) {
		case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	}}
}

// Bool accepts booleans.
func Bool() Type {
	return basicType{name: "bool", check: func(v any) bool {
		_, ok := v.(bool)
		return ok
	}}
}

// Any accepts every value; use it to require presence only.
func Any() Type {
	return basicType{name: "any", check: func(any) bool { return true }}
}

type sliceType struct {
	elem Type
}

// Slice accepts slices whose elements all conform to elem.
func Slice(elem Type) Type {
	return sliceType{elem: elem}
}

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type customType struct {
	name     string
	validate func(any) error
}

// Custom creates a type from a user-defined validation function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}

func (t customType) Name() string { return t.name }

func (t customType) Validate(value any) error { return t.validate(value) }

// Field is the expectation for one input.
type Field struct {
	Type     Type
	Optional bool
}

// Required declares an input that must be recorded.
func Required(t Type) Field { return Field{Type: t} }

// Optional declares an input that may be absent.
func Optional(t Type) Field { return Field{Type: t, Optional: true} }

// ParseType converts a type name to a Type.
// Supports "string", "int", "float", "bool", "any" and slices such as "[int]".
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elem, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elem), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "any":
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts input names to type strings into a Schema.
// A trailing '?' makes the input optional.
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema, len(typeMap))
	for key, typeStr := range typeMap {
		typeStr = strings.TrimSpace(typeStr)
		optional := strings.HasSuffix(typeStr, "?")
		t, err := ParseType(strings.TrimSuffix(typeStr, "?"))
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", key, err)
		}
		result[key] = Field{Type: t, Optional: optional}
	}
	return result, nil
}
