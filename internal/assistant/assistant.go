// Package assistant answers housing questions with an ordered table of keyword rules.
//
// The assistant does no language understanding. The first rule whose predicate matches
// the normalised utterance produces the reply, usually after a single lookup through a
// ListingsAccessor.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campusnest/rentals/api/internal/entity"
)

// Fixed replies.
const (
	WelcomeMessage  = "Hi! I'm your housing assistant. How can I help you today?"
	ApologyMessage  = "Sorry, I encountered an error. Please try again."
	FallbackMessage = "I can help you find housing based on your budget, location, number of bedrooms, or amenities. For example, you can tell me 'Show properties between $800-1200' or ask about specific locations."
)

// DefaultMaxResults caps the listings enumerated by a budget reply.
const DefaultMaxResults = 5

// ListingsAccessor exposes the aggregate lookups the rules need.
type ListingsAccessor interface {
	// InPriceRange returns up to limit listings with minPrice <= price <= maxPrice, cheapest first.
	InPriceRange(ctx context.Context, minPrice, maxPrice, limit int) ([]entity.Listing, error)
	// PriceSpan returns the lowest and highest price. found is false when there are no listings.
	PriceSpan(ctx context.Context) (lowest, highest int, found bool, err error)
	// Addresses returns up to limit distinct addresses.
	Addresses(ctx context.Context, limit int) ([]string, error)
	// BedroomCounts returns the distinct bedroom counts in ascending order.
	BedroomCounts(ctx context.Context) ([]int, error)
	// AmenitySets returns the amenity lists of up to limit listings.
	AmenitySets(ctx context.Context, limit int) ([][]string, error)
}

// Config tunes an Assistant.
type Config struct {
	MaxResults int
	Logger     *slog.Logger
}

// Assistant evaluates the rule table against user input.
type Assistant struct {
	maxResults int
	logger     *slog.Logger
	rules      []Rule
}

// New builds an Assistant with the default rule table.
func New(cfg Config) *Assistant {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	a := &Assistant{maxResults: cfg.MaxResults, logger: cfg.Logger}
	a.rules = a.defaultRules()
	return a
}

// Rules returns a copy of the rule table in priority order.
func (a *Assistant) Rules() []Rule {
	out := make([]Rule, len(a.rules))
	copy(out, a.rules)
	return out
}

// Respond answers utterance, querying accessor when the matched rule needs data.
// Lookup failures are logged and replaced with ApologyMessage.
func (a *Assistant) Respond(ctx context.Context, utterance string, accessor ListingsAccessor) (reply string) {
	input := normalize(utterance)

	var ruleName string
	defer func() {
		if r := recover(); r != nil {
			a.logger.ErrorContext(ctx, "assistant rule panicked", slog.String("rule", ruleName), slog.Any("panic", r))
			reply = ApologyMessage
		}
	}()

	for _, rule := range a.rules {
		if !rule.Match(input) {
			continue
		}
		ruleName = rule.Name
		text, err := rule.Handle(ctx, input, accessor)
		if err != nil {
			a.logger.ErrorContext(ctx, "assistant lookup failed", slog.String("rule", rule.Name), slog.Any("error", err))
			return ApologyMessage
		}
		return text
	}
	return FallbackMessage
}

// RespondFromListings answers utterance using aggregates computed over known.
func (a *Assistant) RespondFromListings(ctx context.Context, utterance string, known []entity.Listing) string {
	return a.Respond(ctx, utterance, StaticAccessor(known))
}

// Bind returns a ResponderFunc answering through accessor, suitable for a Widget.
func (a *Assistant) Bind(accessor ListingsAccessor) ResponderFunc {
	return func(ctx context.Context, utterance string) string {
		return a.Respond(ctx, utterance, accessor)
	}
}

var apostrophes = strings.NewReplacer("‘", "'", "’", "'")

func normalize(utterance string) string {
	return strings.TrimSpace(strings.ToLower(apostrophes.Replace(utterance)))
}

func containsAny(input string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(input, w) {
			return true
		}
	}
	return false
}

func formatListingLine(l entity.Listing) string {
	return fmt.Sprintf("- %s: $%d/month, %d bed, %d bath", l.Title, l.Price, l.Bedrooms, l.Bathrooms)
}
