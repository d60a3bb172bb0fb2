package schema

import "fmt"

// ValidateValue checks a single value against the field's kind, options and numeric bounds.
func ValidateValue(f Field, value any) error {
	if value == nil {
		return &ValidationError{Key: f.Key, Reason: "required"}
	}
	if err := TypeOf(f).Validate(value); err != nil {
		return &ValidationError{Key: f.Key, Reason: err.Error(), Value: value}
	}
	if f.Kind != KindNumber {
		return nil
	}

	n, _ := AsFloat(value)
	if c := f.Constraints; c.Min != nil && n < *c.Min {
		return &ValidationError{Key: f.Key, Reason: fmt.Sprintf("must be >= %v", *c.Min), Value: value}
	}
	if c := f.Constraints; c.Max != nil && n > *c.Max {
		return &ValidationError{Key: f.Key, Reason: fmt.Sprintf("must be <= %v", *c.Max), Value: value}
	}
	return nil
}

// Validate checks every declared field of data.
// Returns an *AggregateError with all failures found, in declaration order.
func Validate(fields []Field, data map[string]any) error {
	var errs []error
	for _, f := range fields {
		if err := ValidateValue(f, data[f.Key]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Lookup returns the field declared with key.
func Lookup(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
