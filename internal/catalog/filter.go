package catalog

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

const DefaultPageSize = 24

type SortKey string

const (
	SortNewest    SortKey = "novo"
	SortPriceAsc  SortKey = "cijena_rastuce"
	SortPriceDesc SortKey = "cijena_opadajuce"
)

// ParseSortKey maps unknown keys to SortNewest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc:
		return k
	}
	return SortNewest
}

// FilterState holds the user's listing choices. Any filter or sort change
// sends the user back to page 1.
type FilterState struct {
	Sort        SortKey
	OnlyInStock bool
	OnlySale    bool
	Brands      map[string]struct{}
	Sizes       map[string]struct{}
	MinPrice    *float64
	MaxPrice    *float64
	Page        int
	PageSize    int
}

func NewFilterState() FilterState {
	return FilterState{
		Sort:     SortNewest,
		Brands:   map[string]struct{}{},
		Sizes:    map[string]struct{}{},
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Clone returns a copy that shares no sets with f.
func (f FilterState) Clone() FilterState {
	out := f
	out.Brands = cloneSet(f.Brands)
	out.Sizes = cloneSet(f.Sizes)
	if f.MinPrice != nil {
		v := *f.MinPrice
		out.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		out.MaxPrice = &v
	}
	return out
}

func (f *FilterState) SetSort(key SortKey) {
	f.Sort = key
	f.Page = 1
}

func (f *FilterState) SetInStock(on bool) {
	f.OnlyInStock = on
	f.Page = 1
}

func (f *FilterState) SetSale(on bool) {
	f.OnlySale = on
	f.Page = 1
}

func (f *FilterState) ToggleBrand(brand string) {
	f.Brands = toggle(f.Brands, brand)
	f.Page = 1
}

func (f *FilterState) ToggleSize(size string) {
	f.Sizes = toggle(f.Sizes, size)
	f.Page = 1
}

// ApplyPrice sets both bounds from raw user input. Blank or non-numeric
// input leaves that bound unset.
func (f *FilterState) ApplyPrice(minRaw, maxRaw string) {
	f.MinPrice = parsePrice(minRaw)
	f.MaxPrice = parsePrice(maxRaw)
	f.Page = 1
}

func (f *FilterState) ClearPrice() {
	f.MinPrice = nil
	f.MaxPrice = nil
	f.Page = 1
}

// Reset clears every filter and the sort but keeps the page size.
func (f *FilterState) Reset() {
	size := f.PageSize
	*f = NewFilterState()
	if size > 0 {
		f.PageSize = size
	}
}

// GoPage moves to page p clamped into [1, totalPages].
func (f *FilterState) GoPage(p, totalPages int) {
	f.Page = clampPage(p, totalPages)
}

// SelectedBrands returns the selected brands in label order.
func (f FilterState) SelectedBrands() []string {
	return sortedKeys(f.Brands, compareText)
}

// SelectedSizes returns the selected sizes in size order.
func (f FilterState) SelectedSizes() []string {
	return sortedKeys(f.Sizes, CompareSizes)
}

func (f FilterState) pageSize() int {
	if f.PageSize <= 0 {
		return DefaultPageSize
	}
	return f.PageSize
}

func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func clampPage(p, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return max(1, min(p, totalPages))
}

func toggle(set map[string]struct{}, v string) map[string]struct{} {
	out := cloneSet(set)
	if _, ok := out[v]; ok {
		delete(out, v)
	} else {
		out[v] = struct{}{}
	}
	return out
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func sortedKeys(set map[string]struct{}, cmp func(a, b string) int) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.SortFunc(out, cmp)
	return out
}
