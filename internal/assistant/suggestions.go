package assistant

import "strings"

type suggestion struct {
	phrase string
	answer string
}

var suggestions = []suggestion{
	{
		phrase: "What's the average rent?",
		answer: "Rent for our listings typically ranges from $800 to $2,500 per month. Studios sit at the lower end of that range and larger apartments at the top.",
	},
	{
		phrase: "Are utilities included?",
		answer: "Utilities vary by property. Many listings include water and trash, while electricity and internet are usually paid by the tenant. Check the listing details or contact the landlord to confirm.",
	},
	{
		phrase: "Is parking available?",
		answer: "Most properties offer on-site or street parking. The parking details for each property are listed under transportation on its page.",
	},
	{
		phrase: "What amenities are available?",
		answer: "Popular amenities include in-unit laundry, WiFi and air conditioning, and many buildings also have a fitness center. Each listing shows its full amenity list.",
	},
	{
		phrase: "How far is it from the Innovation Campus?",
		answer: "All of our listings are close to the Virginia Tech Innovation Campus in Alexandria. Most are a 10 to 20 minute walk, bike ride or bus trip away.",
	},
}

// Suggestions returns the canned questions offered to the user. Sending one is the same
// as typing it.
func Suggestions() []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.phrase
	}
	return out
}

func suggestionKey(input string) string {
	return strings.TrimRight(normalize(input), "?.! ")
}

func suggestionAnswer(input string) (string, bool) {
	key := suggestionKey(input)
	for _, s := range suggestions {
		if suggestionKey(s.phrase) == key {
			return s.answer, true
		}
	}
	return "", false
}

func isSuggestion(input string) bool {
	_, ok := suggestionAnswer(input)
	return ok
}
