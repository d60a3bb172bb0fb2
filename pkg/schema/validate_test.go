package schema

import (
	"errors"
	"strings"
	"testing"
)

var errEmpty = errors.New("empty")

var delayFields = []Field{
	{Key: "ms", Label: "Milliseconds", Kind: KindNumber, Default: 1000,
		Constraints: Constraints{Min: Float(0), Max: Float(60000)}},
	{Key: "mode", Label: "Mode", Kind: KindSelect, Options: []any{"fixed", "jitter"}, Default: "fixed"},
	{Key: "enabled", Label: "Enabled", Kind: KindCheckbox, Default: true},
}

func TestValidate_Success(t *testing.T) {
	data := map[string]any{"ms": "250", "mode": "jitter", "enabled": false}

	if err := Validate(delayFields, data); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_MissingField(t *testing.T) {
	data := map[string]any{"ms": 10, "mode": "fixed"}

	err := Validate(delayFields, data)
	if err == nil {
		t.Fatal("Validate() should return error for missing field")
	}

	errs := ValidationErrors(err)
	if len(errs) != 1 {
		t.Fatalf("Validate() = %d errors, want 1", len(errs))
	}

	var validErr *ValidationError
	if !errors.As(errs[0], &validErr) {
		t.Fatalf("error should be *ValidationError, got %T", errs[0])
	}
	if validErr.Key != "enabled" || validErr.Reason != "required" {
		t.Errorf("got %+v, want required error for enabled", validErr)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	data := map[string]any{"ms": -5, "mode": "burst", "enabled": "yes"}

	err := Validate(delayFields, data)
	errs := ValidationErrors(err)
	if len(errs) != 3 {
		t.Fatalf("Validate() = %d errors, want 3: %v", len(errs), err)
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "3 validation errors:") {
		t.Errorf("unexpected message: %q", msg)
	}
	// Declaration order is preserved.
	for i, key := range []string{"ms", "mode", "enabled"} {
		var ve *ValidationError
		if !errors.As(errs[i], &ve) || ve.Key != key {
			t.Errorf("errs[%d] = %v, want key %q", i, errs[i], key)
		}
	}
}

func TestValidateValue_Bounds(t *testing.T) {
	ms := delayFields[0]

	tests := []struct {
		value   any
		wantErr string
	}{
		{0, ""},
		{60000, ""},
		{"60001", "must be <= 60000"},
		{-1, "must be >= 0"},
		{"soon", "expected number"},
	}

	for _, tt := range tests {
		err := ValidateValue(ms, tt.value)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateValue(%v) error = %v", tt.value, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("ValidateValue(%v) error = %v, want containing %q", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidationErrors_NonAggregate(t *testing.T) {
	if errs := ValidationErrors(errEmpty); errs != nil {
		t.Errorf("ValidationErrors() = %v, want nil", errs)
	}
}

func TestField_Check(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantErr bool
	}{
		{"valid text", Field{Key: "k", Kind: KindText}, false},
		{"missing key", Field{Kind: KindText}, true},
		{"bad kind", Field{Key: "k", Kind: "slider"}, true},
		{"select without options", Field{Key: "k", Kind: KindSelect}, true},
		{"inverted bounds", Field{Key: "k", Kind: KindNumber, Constraints: Constraints{Min: Float(5), Max: Float(1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.field.Check(); (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup(delayFields, "mode")
	if !ok || f.Label != "Mode" {
		t.Errorf("Lookup(mode) = %+v, %v", f, ok)
	}
	if _, ok := Lookup(delayFields, "nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}
