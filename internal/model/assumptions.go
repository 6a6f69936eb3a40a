package model

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AssumptionSet is an immutable mapping of named scalar drivers
// (growth rates, days ratios, percentages, flat amounts).
type AssumptionSet struct {
	values map[string]any
}

// NewAssumptionSet copies values into a new set.
func NewAssumptionSet(values map[string]any) AssumptionSet {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[strings.TrimSpace(k)] = v
	}
	return AssumptionSet{values: cp}
}

// Len returns the number of assumptions in the set.
func (a AssumptionSet) Len() int {
	return len(a.values)
}

// Has reports whether name is present, regardless of its type.
func (a AssumptionSet) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Raw returns the stored value for name as supplied by the caller.
func (a AssumptionSet) Raw(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Float returns a required numeric driver.
func (a AssumptionSet) Float(name string) (float64, error) {
	v, ok := a.values[name]
	if !ok {
		return 0, missing(name)
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, &FieldError{Field: name, Err: ErrTypeMismatch, Detail: err.Error()}
	}
	return f, nil
}

// FloatOr returns def only when name is absent. A present but
// non-numeric value is still a type mismatch.
func (a AssumptionSet) FloatOr(name string, def float64) (float64, error) {
	if !a.Has(name) {
		return def, nil
	}
	return a.Float(name)
}

// With returns a copy of the set with name set to v.
func (a AssumptionSet) With(name string, v any) AssumptionSet {
	cp := make(map[string]any, len(a.values)+1)
	for k, val := range a.values {
		cp[k] = val
	}
	cp[name] = v
	return AssumptionSet{values: cp}
}

// Names returns the assumption names in sorted order.
func (a AssumptionSet) Names() []string {
	names := make([]string, 0, len(a.values))
	for k := range a.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the underlying map.
func (a AssumptionSet) Values() map[string]any {
	cp := make(map[string]any, len(a.values))
	for k, v := range a.values {
		cp[k] = v
	}
	return cp
}

// MarshalJSON encodes the set as a flat object.
func (a AssumptionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.values)
}

// UnmarshalJSON decodes a flat object, keeping numbers as json.Number
// so integer and float drivers survive unchanged.
func (a *AssumptionSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*a = NewAssumptionSet(m)
	return nil
}

// toFloat accepts numeric kinds and numeric text. Anything else,
// including booleans and nested values, is rejected.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return parseNumeric(string(n))
	case string:
		return parseNumeric(n)
	case nil:
		return 0, fmt.Errorf("value is empty")
	default:
		return 0, fmt.Errorf("value of type %T is not numeric", v)
	}
}

func parseNumeric(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("value is empty")
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}
