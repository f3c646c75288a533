package catalog

import (
	"math"
	"slices"
	"strings"
)

// Facet is one selectable brand or size with its count.
type Facet struct {
	Value           string `json:"value"`
	Count           int    `json:"count"`
	AlreadySelected bool   `json:"alreadySelected"`
}

type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BrandFacets prefers the server's BREND aggregate and otherwise counts the
// unfiltered variants.
func BrandFacets(resp *SearchResponse) []Facet {
	if resp == nil {
		return nil
	}
	if agg := findAggregate(resp.AvailableCategories, BrandCategory); agg != nil {
		return fromAggregate(agg, compareText)
	}

	counts := map[string]int{}
	for _, v := range resp.Variants {
		if b := v.Brand(); b != "" {
			counts[b]++
		}
	}
	return fromCounts(counts, compareText)
}

// SizeFacets prefers the server's VELICINA aggregate and otherwise counts the
// unfiltered variants offering each size.
func SizeFacets(resp *SearchResponse) []Facet {
	if resp == nil {
		return nil
	}
	if agg := findAggregate(resp.AvailableAttributes, SizeAttribute); agg != nil {
		return fromAggregate(agg, CompareSizes)
	}

	counts := map[string]int{}
	for _, v := range resp.Variants {
		seen := map[string]bool{}
		for _, s := range v.Sizes() {
			if !seen[s] {
				seen[s] = true
				counts[s]++
			}
		}
	}
	return fromCounts(counts, CompareSizes)
}

// Bounds returns the server price range when present, else the min and max
// final price of the unfiltered variants.
func Bounds(resp *SearchResponse) PriceBounds {
	if resp == nil {
		return PriceBounds{}
	}
	if pr := resp.PriceRange; pr != nil {
		return PriceBounds{Min: pr.MinPrice, Max: pr.MaxPrice}
	}
	if len(resp.Variants) == 0 {
		return PriceBounds{}
	}

	b := PriceBounds{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range resp.Variants {
		b.Min = math.Min(b.Min, v.FinalPrice)
		b.Max = math.Max(b.Max, v.FinalPrice)
	}
	return b
}

func findAggregate(aggs []Aggregate, name string) *Aggregate {
	for i := range aggs {
		if equalFold(aggs[i].Name, name) && len(aggs[i].Values) > 0 {
			return &aggs[i]
		}
	}
	return nil
}

func fromAggregate(agg *Aggregate, cmp func(a, b string) int) []Facet {
	out := make([]Facet, 0, len(agg.Values))
	for _, v := range agg.Values {
		out = append(out, Facet{Value: v.Value, Count: v.Count, AlreadySelected: v.AlreadySelected})
	}
	slices.SortStableFunc(out, func(a, b Facet) int { return cmp(a.Value, b.Value) })
	return out
}

func fromCounts(counts map[string]int, cmp func(a, b string) int) []Facet {
	out := make([]Facet, 0, len(counts))
	for v, n := range counts {
		out = append(out, Facet{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b Facet) int {
		if c := cmp(a.Value, b.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	})
	return out
}
