package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/proforma/internal/model"
	"github.com/theirongolddev/proforma/internal/projection"
	"github.com/theirongolddev/proforma/internal/source"
)

// driverForm edits assumption values as text. The form binds to the
// pointers in values, so it must outlive the App copy that created it.
type driverForm struct {
	names  []string
	values []string
}

// driverNames lists every projection driver, followed by any extra names
// present in a, without duplicates.
func driverNames(a model.AssumptionSet) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, n := range projection.IncomeStatementAssumptions {
		add(n)
	}
	for _, n := range projection.BalanceSheetAssumptions {
		add(n)
	}
	for _, n := range a.Names() {
		add(n)
	}
	return names
}

func newDriverForm(a model.AssumptionSet) *driverForm {
	f := &driverForm{names: driverNames(a)}
	f.values = make([]string, len(f.names))
	for i, n := range f.names {
		if v, ok := a.Raw(n); ok {
			f.values[i] = rawString(v)
		}
	}
	return f
}

func rawString(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func validateDriver(s string) error {
	if s == "" {
		return nil
	}
	if _, err := source.ParseAmount(s); err != nil {
		return fmt.Errorf("not a number")
	}
	return nil
}

// build renders one input per driver, grouped five to a page.
func (f *driverForm) build() *huh.Form {
	const perGroup = 5

	var groups []*huh.Group
	for start := 0; start < len(f.names); start += perGroup {
		end := min(start+perGroup, len(f.names))
		fields := make([]huh.Field, 0, end-start)
		for i := start; i < end; i++ {
			fields = append(fields, huh.NewInput().
				Title(f.names[i]).
				Value(&f.values[i]).
				Validate(validateDriver))
		}
		groups = append(groups, huh.NewGroup(fields...))
	}
	return huh.NewForm(groups...).WithTheme(huh.ThemeBase()).WithShowHelp(true)
}

// apply returns base with every non-empty answer parsed as a number.
// Cleared fields remove nothing; the previous value stays.
func (f *driverForm) apply(base model.AssumptionSet) (model.AssumptionSet, error) {
	out := base
	for i, n := range f.names {
		if f.values[i] == "" {
			continue
		}
		v, err := source.ParseAmount(f.values[i])
		if err != nil {
			return base, &model.FieldError{Field: n, Err: model.ErrTypeMismatch, Detail: err.Error()}
		}
		out = out.With(n, v)
	}
	return out, nil
}
