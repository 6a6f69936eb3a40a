package model

// Horizon is the number of projected years in every statement.
const Horizon = 5

// Strategy names how a line item is composed.
type Strategy string

// Composition strategies.
const (
	StrategyFlat        Strategy = "flat"
	StrategyGrowth      Strategy = "growth"
	StrategyRatio       Strategy = "ratio"
	StrategyAggregate   Strategy = "aggregate"
	StrategyPassthrough Strategy = "passthrough"
)

// Series is one value per projected year.
type Series [Horizon]float64

// Add returns the element-wise sum of s and o.
func (s Series) Add(o Series) Series {
	var out Series
	for i := range s {
		out[i] = s[i] + o[i]
	}
	return out
}

// Sub returns the element-wise difference s - o.
func (s Series) Sub(o Series) Series {
	var out Series
	for i := range s {
		out[i] = s[i] - o[i]
	}
	return out
}

// Scale multiplies every element by k.
func (s Series) Scale(k float64) Series {
	var out Series
	for i := range s {
		out[i] = s[i] * k
	}
	return out
}

// ProjectionYears returns lastYear+1 .. lastYear+Horizon.
func ProjectionYears(lastYear int) [Horizon]int {
	var ys [Horizon]int
	for i := range ys {
		ys[i] = lastYear + i + 1
	}
	return ys
}

// Column is one projected line item.
type Column struct {
	Name     string   `json:"name"`
	Strategy Strategy `json:"strategy"`
	Values   Series   `json:"values"`
}

// Table is a projected statement: a shared year axis and ordered line items.
type Table struct {
	Statement string       `json:"statement"`
	Years     [Horizon]int `json:"years"`
	Columns   []Column     `json:"columns"`
}

// Lookup returns the named column.
func (t *Table) Lookup(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns every column's value for projected year index i.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}
