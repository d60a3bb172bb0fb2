package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Type defines the contract for value validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "number").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// NumberType validates numeric values. Browsers report number inputs as strings,
// so numeric strings are accepted too.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	_, err := AsFloat(value)
	return err
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// OneOfType accepts only the listed options, compared by their string form.
type OneOfType struct {
	options []any
}

func (t *OneOfType) Name() string {
	names := make([]string, len(t.options))
	for i, o := range t.options {
		names[i] = fmt.Sprint(o)
	}
	return "one of [" + strings.Join(names, ", ") + "]"
}

func (t *OneOfType) Validate(value any) error {
	s := fmt.Sprint(value)
	for _, o := range t.options {
		if fmt.Sprint(o) == s {
			return nil
		}
	}
	return fmt.Errorf("expected %s, got %q", t.Name(), s)
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// String creates a string type validator.
func String() Type { return &StringType{} }

// Number creates a numeric type validator.
func Number() Type { return &NumberType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// OneOf creates a validator that accepts only the given options.
func OneOf(options ...any) Type { return &OneOfType{options: options} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// TypeOf returns the validator matching a field's kind.
func TypeOf(f Field) Type {
	switch f.Kind {
	case KindNumber:
		return Number()
	case KindCheckbox:
		return Bool()
	case KindSelect:
		return OneOf(f.Options...)
	default:
		return String()
	}
}

// AsFloat converts numeric values and numeric strings to float64.
func AsFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}
