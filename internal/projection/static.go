package projection

import (
	"sort"
	"strings"

	"github.com/theirongolddev/proforma/internal/model"
)

// Static balance sheet asset bucket keys.
const (
	AssetCash               = "Cash"
	AssetAccountsReceivable = "Accounts Receivable"
	AssetInventory          = "inventory"
	AssetOtherCurrent       = "Other Current Assets"
)

// RequiredAssets are the asset buckets a snapshot must carry.
var RequiredAssets = []string{AssetCash, AssetAccountsReceivable, AssetInventory, AssetOtherCurrent}

// Snapshot scalar keys, as spelled in snapshot files.
const (
	ScalarOtherAsset              = "other_asset"
	ScalarGrossPPE                = "gross_ppe"
	ScalarAccumulatedDepreciation = "accumulated_depreciation"
	ScalarGoodwill                = "goodwill"
)

// Display order for well-known liability and equity buckets. Unknown
// buckets follow in name order.
var (
	liabilityOrder = []string{
		"Accounts Payable", "Accrued Liabilities", "Other Current Liabilities",
		"Revolving Credit Facility", "Term Loan", "Unsecured Debt", "Other Liabilities",
	}
	equityOrder = []string{"Retained Earnings", "Common Stock"}
)

// StaticBalanceSheet aggregates a single-period snapshot.
type StaticBalanceSheet struct {
	assets      [4]float64
	otherAsset  float64
	liabilities map[string]float64
	equity      map[string]float64
	grossPPE    float64
	accDep      float64
	goodwill    float64
}

// NewStaticBalanceSheet validates s and returns its aggregator. Asset keys
// match exactly first, then case-insensitively. Every scalar must be present.
func NewStaticBalanceSheet(s model.Snapshot) (*StaticBalanceSheet, error) {
	b := &StaticBalanceSheet{
		liabilities: copyBucket(s.Liabilities),
		equity:      copyBucket(s.Equity),
	}
	scalars := []struct {
		key string
		src *float64
		dst *float64
	}{
		{ScalarOtherAsset, s.OtherAsset, &b.otherAsset},
		{ScalarGrossPPE, s.GrossPPE, &b.grossPPE},
		{ScalarAccumulatedDepreciation, s.AccumulatedDepreciation, &b.accDep},
		{ScalarGoodwill, s.Goodwill, &b.goodwill},
	}
	for _, sc := range scalars {
		if sc.src == nil {
			return nil, &model.FieldError{Field: sc.key, Err: model.ErrMissingField, Detail: "snapshot scalar"}
		}
		*sc.dst = *sc.src
	}
	for i, key := range RequiredAssets {
		v, ok := lookupBucket(s.Assets, key)
		if !ok {
			return nil, &model.FieldError{Field: key, Err: model.ErrMissingField, Detail: "asset bucket"}
		}
		b.assets[i] = v
	}
	return b, nil
}

func copyBucket(m map[string]float64) map[string]float64 {
	cp := make(map[string]float64, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func lookupBucket(m map[string]float64, key string) (float64, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return v, true
		}
	}
	return 0, false
}

// TotalCurrentAssets is the four asset buckets plus the other-asset scalar.
func (b *StaticBalanceSheet) TotalCurrentAssets() float64 {
	return b.assets[0] + b.assets[1] + b.assets[2] + b.assets[3] + b.otherAsset
}

// NetPPE is gross PP&E less accumulated depreciation. It is not clamped.
func (b *StaticBalanceSheet) NetPPE() float64 {
	return b.grossPPE - b.accDep
}

// TotalAssets is TCA + goodwill + Net PP&E.
func (b *StaticBalanceSheet) TotalAssets() float64 {
	return b.TotalCurrentAssets() + b.goodwill + b.NetPPE()
}

// TotalLiabilities sums every liabilities bucket.
func (b *StaticBalanceSheet) TotalLiabilities() float64 {
	return sumBucket(b.liabilities, liabilityOrder)
}

// TotalEquity sums every equity bucket.
func (b *StaticBalanceSheet) TotalEquity() float64 {
	return sumBucket(b.equity, equityOrder)
}

// TotalLiabilitiesAndEquity is TotalLiabilities + TotalEquity.
func (b *StaticBalanceSheet) TotalLiabilitiesAndEquity() float64 {
	return b.TotalLiabilities() + b.TotalEquity()
}

// Lines returns the labelled breakdown in presentation order.
func (b *StaticBalanceSheet) Lines() []model.LineItem {
	var items []model.LineItem
	add := func(section, name string, amount float64, total bool) {
		items = append(items, model.LineItem{Section: section, Name: name, Amount: amount, Total: total})
	}

	add("Current Assets", AssetCash, b.assets[0], false)
	add("Current Assets", AssetAccountsReceivable, b.assets[1], false)
	add("Current Assets", "Inventory", b.assets[2], false)
	add("Current Assets", AssetOtherCurrent, b.assets[3], false)
	add("Current Assets", "Other Assets", b.otherAsset, false)
	add("Current Assets", LineTotalCurrentAssets, b.TotalCurrentAssets(), true)

	add("Property, Plant & Equipment", ColumnGrossPPE, b.grossPPE, false)
	add("Property, Plant & Equipment", ColumnAccumulatedDepreciation, b.accDep, false)
	add("Property, Plant & Equipment", LineNetPPE, b.NetPPE(), true)

	add("Assets", LineGoodwill, b.goodwill, false)
	add("Assets", LineTotalAssets, b.TotalAssets(), true)

	for _, k := range orderedKeys(b.liabilities, liabilityOrder) {
		add("Liabilities", k, b.liabilities[k], false)
	}
	add("Liabilities", LineTotalLiabilities, b.TotalLiabilities(), true)

	for _, k := range orderedKeys(b.equity, equityOrder) {
		add("Equity", k, b.equity[k], false)
	}
	add("Equity", "Total Equity", b.TotalEquity(), true)
	add("Equity", LineTotalLiabilitiesAndEquity, b.TotalLiabilitiesAndEquity(), true)

	return items
}

// orderedKeys lists preferred keys that are present, then the rest sorted,
// so bucket sums are deterministic.
func orderedKeys(m map[string]float64, preferred []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(preferred))
	for _, k := range preferred {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func sumBucket(m map[string]float64, preferred []string) float64 {
	var total float64
	for _, k := range orderedKeys(m, preferred) {
		total += m[k]
	}
	return total
}
