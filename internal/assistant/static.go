package assistant

import (
	"context"
	"sort"

	"github.com/campusnest/rentals/api/internal/entity"
	"github.com/campusnest/rentals/api/internal/filter"
)

// StaticAccessor answers lookups from an in-memory set of listings.
type StaticAccessor []entity.Listing

// InPriceRange implements ListingsAccessor.
func (s StaticAccessor) InPriceRange(_ context.Context, minPrice, maxPrice, limit int) ([]entity.Listing, error) {
	matched := filter.Apply(s, filter.Criteria{MinPrice: &minPrice, MaxPrice: &maxPrice})
	out := make([]entity.Listing, len(matched))
	copy(out, matched)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PriceSpan implements ListingsAccessor.
func (s StaticAccessor) PriceSpan(context.Context) (int, int, bool, error) {
	if len(s) == 0 {
		return 0, 0, false, nil
	}
	lo, hi := s[0].Price, s[0].Price
	for _, l := range s[1:] {
		if l.Price < lo {
			lo = l.Price
		}
		if l.Price > hi {
			hi = l.Price
		}
	}
	return lo, hi, true, nil
}

// Addresses implements ListingsAccessor.
func (s StaticAccessor) Addresses(_ context.Context, limit int) ([]string, error) {
	all := make([]string, 0, len(s))
	for _, l := range s {
		all = append(all, l.Address)
	}
	if limit <= 0 {
		limit = len(all)
	}
	return firstDistinct(all, limit), nil
}

// BedroomCounts implements ListingsAccessor.
func (s StaticAccessor) BedroomCounts(context.Context) ([]int, error) {
	seen := make(map[int]struct{})
	counts := make([]int, 0)
	for _, l := range s {
		if _, ok := seen[l.Bedrooms]; ok {
			continue
		}
		seen[l.Bedrooms] = struct{}{}
		counts = append(counts, l.Bedrooms)
	}
	sort.Ints(counts)
	return counts, nil
}

// AmenitySets implements ListingsAccessor.
func (s StaticAccessor) AmenitySets(_ context.Context, limit int) ([][]string, error) {
	n := len(s)
	if limit > 0 && n > limit {
		n = limit
	}
	sets := make([][]string, 0, n)
	for _, l := range s[:n] {
		sets = append(sets, l.Amenities)
	}
	return sets, nil
}
