package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAssumptionSetFloat(t *testing.T) {
	a := NewAssumptionSet(map[string]any{
		"Days Payable":  50,
		"Tax Rate":      0.4,
		"LIBOR":         "0.01",
		"Common Stock":  json.Number("10"),
		"Revenue Label": "fast",
		"Enabled":       true,
	})

	tests := []struct {
		name    string
		want    float64
		wantErr error
	}{
		{"Days Payable", 50, nil},
		{"Tax Rate", 0.4, nil},
		{"LIBOR", 0.01, nil},
		{"Common Stock", 10, nil},
		{"Revenue Label", 0, ErrTypeMismatch},
		{"Enabled", 0, ErrTypeMismatch},
		{"Days Inventory", 0, ErrMissingField},
	}

	for _, tt := range tests {
		got, err := a.Float(tt.name)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Float(%q) error = %v, want %v", tt.name, err, tt.wantErr)
			}
			if ErrorField(err) != tt.name {
				t.Errorf("Float(%q) error field = %q", tt.name, ErrorField(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("Float(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Float(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAssumptionSetFloatOr(t *testing.T) {
	a := NewAssumptionSet(map[string]any{"Other Assets": "n/a"})

	got, err := a.FloatOr("Other Current Assets", 0)
	if err != nil || got != 0 {
		t.Fatalf("FloatOr absent = (%v, %v), want (0, nil)", got, err)
	}

	if _, err := a.FloatOr("Other Assets", 0); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("FloatOr present text error = %v, want ErrTypeMismatch", err)
	}
}

func TestAssumptionSetIsImmutable(t *testing.T) {
	src := map[string]any{"Tax Rate": 0.4}
	a := NewAssumptionSet(src)
	src["Tax Rate"] = 0.9

	if got, _ := a.Float("Tax Rate"); got != 0.4 {
		t.Fatalf("Tax Rate = %v after mutating source map, want 0.4", got)
	}

	b := a.With("Tax Rate", 0.3)
	if got, _ := a.Float("Tax Rate"); got != 0.4 {
		t.Errorf("original Tax Rate = %v after With, want 0.4", got)
	}
	if got, _ := b.Float("Tax Rate"); got != 0.3 {
		t.Errorf("copy Tax Rate = %v, want 0.3", got)
	}
}

func TestAssumptionSetJSON(t *testing.T) {
	var a AssumptionSet
	if err := json.Unmarshal([]byte(`{"Days Inventory": 45, "Revenue Growth Rate": 0.05}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}
	if got, err := a.Float("Days Inventory"); err != nil || got != 45 {
		t.Errorf("Days Inventory = (%v, %v), want 45", got, err)
	}
	names := a.Names()
	if names[0] != "Days Inventory" || names[1] != "Revenue Growth Rate" {
		t.Errorf("Names = %v, want sorted", names)
	}
}

func TestErrorKind(t *testing.T) {
	if got := ErrorKind(missing("Cash")); got != "missing_field" {
		t.Errorf("ErrorKind(missing) = %q", got)
	}
	if got := ErrorKind(errors.New("boom")); got != "internal" {
		t.Errorf("ErrorKind(other) = %q", got)
	}
}
