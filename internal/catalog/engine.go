package catalog

import (
	"cmp"
	"slices"
)

// Result is one pass of the filter pipeline over a search response.
type Result struct {
	Filtered   []Variant
	Items      []Variant
	TotalCount int
	TotalPages int
	Page       int
}

// Apply filters, sorts and paginates variants. The input is never modified.
func Apply(variants []Variant, f FilterState) Result {
	filtered := make([]Variant, 0, len(variants))
	for _, v := range variants {
		if matches(v, f) {
			filtered = append(filtered, v)
		}
	}

	sortVariants(filtered, f.Sort)

	size := f.pageSize()
	total := len(filtered)
	totalPages := max(1, (total+size-1)/size)
	page := clampPage(f.Page, totalPages)

	start := min((page-1)*size, total)
	end := min(start+size, total)

	return Result{
		Filtered:   filtered,
		Items:      filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
	}
}

func matches(v Variant, f FilterState) bool {
	if f.OnlyInStock && !v.InStock() {
		return false
	}
	if f.OnlySale && !v.OnSale() {
		return false
	}
	if len(f.Brands) > 0 {
		if _, ok := f.Brands[v.Brand()]; !ok {
			return false
		}
	}
	if len(f.Sizes) > 0 && !anyIn(v.Sizes(), f.Sizes) {
		return false
	}
	if f.MinPrice != nil && v.FinalPrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && v.FinalPrice > *f.MaxPrice {
		return false
	}
	return true
}

func anyIn(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func sortVariants(vs []Variant, key SortKey) {
	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(vs, func(a, b Variant) int {
			return cmp.Compare(a.FinalPrice, b.FinalPrice)
		})
	case SortPriceDesc:
		slices.SortStableFunc(vs, func(a, b Variant) int {
			return cmp.Compare(b.FinalPrice, a.FinalPrice)
		})
	default:
		slices.SortStableFunc(vs, func(a, b Variant) int {
			return cmp.Compare(newRank(a), newRank(b))
		})
	}
}

func newRank(v Variant) int {
	if v.New {
		return 0
	}
	return 1
}
