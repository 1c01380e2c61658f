package assistant

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Rule pairs a predicate over normalised input with the handler producing the reply.
type Rule struct {
	Name   string
	Match  func(input string) bool
	Handle func(ctx context.Context, input string, accessor ListingsAccessor) (string, error)
}

// Rule names, in priority order.
const (
	RuleSuggestion = "suggestion"
	RuleBudget     = "budget_range"
	RulePriceSpan  = "price_span"
	RuleLocation   = "location"
	RuleBedrooms   = "bedrooms"
	RuleAmenities  = "amenities"
	RuleFallback   = "fallback"
)

const (
	budgetOffset      = 500
	maxAmount         = math.MaxInt32
	locationLimit     = 3
	amenityListings   = 5
	amenityReplyLimit = 5
)

var budgetPattern = regexp.MustCompile(`\$?(\d+)(?:\s*-\s*\$?(\d+))?`)

var (
	priceWords    = []string{"budget", "price", "cost"}
	locationWords = []string{"location", "where", "area"}
	bedroomWords  = []string{"bedroom", "bed"}
	amenityWords  = []string{"amenities", "features"}
)

func (a *Assistant) defaultRules() []Rule {
	return []Rule{
		{Name: RuleSuggestion, Match: isSuggestion, Handle: answerSuggestion},
		{Name: RuleBudget, Match: mentionsBudgetRange, Handle: a.answerBudget},
		{Name: RulePriceSpan, Match: keywords(priceWords...), Handle: answerPriceSpan},
		{Name: RuleLocation, Match: keywords(locationWords...), Handle: answerLocations},
		{Name: RuleBedrooms, Match: keywords(bedroomWords...), Handle: answerBedrooms},
		{Name: RuleAmenities, Match: keywords(amenityWords...), Handle: answerAmenities},
		{Name: RuleFallback, Match: func(string) bool { return true }, Handle: answerFallback},
	}
}

func keywords(words ...string) func(string) bool {
	return func(input string) bool { return containsAny(input, words...) }
}

// extractRange reads the first number in input, optionally followed by "-<number>".
// A lone number becomes [n, n+500]. Reversed bounds are swapped. Amounts above
// maxAmount are not a range.
func extractRange(input string) (lo, hi int, ok bool) {
	m := budgetPattern.FindStringSubmatch(input)
	if m == nil {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(m[1])
	if err != nil || lo > maxAmount {
		return 0, 0, false
	}
	if m[2] == "" {
		return lo, min(lo+budgetOffset, maxAmount), true
	}
	hi, err = strconv.Atoi(m[2])
	if err != nil || hi > maxAmount {
		return 0, 0, false
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

func mentionsBudgetRange(input string) bool {
	if _, _, ok := extractRange(input); !ok {
		return false
	}
	return containsAny(input, priceWords...) || strings.Contains(input, "$")
}

func answerSuggestion(_ context.Context, input string, _ ListingsAccessor) (string, error) {
	answer, _ := suggestionAnswer(input)
	return answer, nil
}

func (a *Assistant) answerBudget(ctx context.Context, input string, accessor ListingsAccessor) (string, error) {
	lo, hi, _ := extractRange(input)
	// One extra row tells whether the cap hid any matches.
	listings, err := accessor.InPriceRange(ctx, lo, hi, a.maxResults+1)
	if err != nil {
		return "", fmt.Errorf("listings in price range: %w", err)
	}
	if len(listings) == 0 {
		return fmt.Sprintf("I couldn't find any properties between $%d and $%d. Would you like to try a different budget range?", lo, hi), nil
	}

	var b strings.Builder
	if len(listings) > a.maxResults {
		listings = listings[:a.maxResults]
		fmt.Fprintf(&b, "I found more than %d properties within your budget range ($%d-$%d). Here are the first %d:\n\n", a.maxResults, lo, hi, a.maxResults)
	} else {
		fmt.Fprintf(&b, "I found %d properties within your budget range ($%d-$%d):\n\n", len(listings), lo, hi)
	}
	for _, l := range listings {
		b.WriteString(formatListingLine(l))
		b.WriteByte('\n')
	}
	b.WriteString("\nWould you like to know more about any of these properties?")
	return b.String(), nil
}

func answerPriceSpan(ctx context.Context, _ string, accessor ListingsAccessor) (string, error) {
	lo, hi, found, err := accessor.PriceSpan(ctx)
	if err != nil {
		return "", fmt.Errorf("price span: %w", err)
	}
	if !found {
		return "I couldn't find any properties right now. Please try again later.", nil
	}
	return fmt.Sprintf("Available properties range from $%d to $%d per month. You can tell me your budget range (e.g., \"$800-1200\") and I'll find matching properties.", lo, hi), nil
}

func answerLocations(ctx context.Context, _ string, accessor ListingsAccessor) (string, error) {
	addresses, err := accessor.Addresses(ctx, locationLimit)
	if err != nil {
		return "", fmt.Errorf("addresses: %w", err)
	}
	addresses = firstDistinct(addresses, locationLimit)
	if len(addresses) == 0 {
		return "I couldn't find any property locations right now. Please try again later.", nil
	}
	return "We have properties in several locations, including:\n" + bulleted(addresses) +
		"\n\nWould you like to know more about any of these areas?", nil
}

func answerBedrooms(ctx context.Context, _ string, accessor ListingsAccessor) (string, error) {
	counts, err := accessor.BedroomCounts(ctx)
	if err != nil {
		return "", fmt.Errorf("bedroom counts: %w", err)
	}
	if len(counts) == 0 {
		return "I couldn't find any bedroom information right now. Please try again later.", nil
	}
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("We have properties with %s bedrooms. How many bedrooms are you looking for?", strings.Join(parts, ", ")), nil
}

func answerAmenities(ctx context.Context, _ string, accessor ListingsAccessor) (string, error) {
	sets, err := accessor.AmenitySets(ctx, amenityListings)
	if err != nil {
		return "", fmt.Errorf("amenity sets: %w", err)
	}
	var all []string
	for _, set := range sets {
		all = append(all, set...)
	}
	amenities := firstDistinct(all, amenityReplyLimit)
	if len(amenities) == 0 {
		return "I couldn't find any amenities listed right now. Please try again later.", nil
	}
	return "Common amenities in our properties include:\n" + bulleted(amenities) +
		"\n\nWould you like to know about specific amenities?", nil
}

func answerFallback(context.Context, string, ListingsAccessor) (string, error) {
	return FallbackMessage, nil
}

// firstDistinct keeps the first limit distinct non-blank values in order.
func firstDistinct(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, limit)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
