package model

// Snapshot is a single-period balance sheet: named scalar buckets with no
// year dimension. The scalars are pointers so an absent key stays nil
// instead of decoding to zero.
type Snapshot struct {
	Assets                  map[string]float64 `json:"assets" toml:"assets" yaml:"assets"`
	OtherAsset              *float64           `json:"other_asset" toml:"other_asset" yaml:"other_asset"`
	Liabilities             map[string]float64 `json:"liabilities" toml:"liabilities" yaml:"liabilities"`
	Equity                  map[string]float64 `json:"equity" toml:"equity" yaml:"equity"`
	GrossPPE                *float64           `json:"gross_ppe" toml:"gross_ppe" yaml:"gross_ppe"`
	AccumulatedDepreciation *float64           `json:"accumulated_depreciation" toml:"accumulated_depreciation" yaml:"accumulated_depreciation"`
	Goodwill                *float64           `json:"goodwill" toml:"goodwill" yaml:"goodwill"`
}

// Scalar returns a pointer to v for filling Snapshot fields.
func Scalar(v float64) *float64 { return &v }

// LineItem is a labelled amount used when rendering or exporting a snapshot.
type LineItem struct {
	Section string  `json:"section"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Total   bool    `json:"total,omitempty"`
}
