// Package extract pulls single typed facts (age, city) out of noisy free-text
// conversation turns. It only knows the fixed vocabulary the screening rules
// need; anything else is reported as not found so the caller can re-prompt.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"codee/internal/city"
	"codee/internal/facts"
)

// Kind names a fact the extractor knows how to pull from text.
type Kind string

const (
	KindAge  Kind = "age"
	KindCity Kind = "city"
)

var (
	firstInteger = regexp.MustCompile(`[0-9]+`)
	postalInText = regexp.MustCompile(`93[\s.\-]?[0-9]{3}`)
	nonWord      = regexp.MustCompile(`[^\p{L}']+`)
)

// Words that signal the user is talking about where they live. A digit match
// in that context is a postal code, not an age.
var cityContextCues = []string{"ville", "habite", "code", "postal", "adresse"}

// CityResult is the outcome of a city extraction attempt. Exactly one of the
// fields is meaningful: Resolved when an exact/variant hit committed the
// fact, Mention when the text names a municipality outside the covered area,
// Suggestion when only a fuzzy match was found and confirmation is needed.
// All empty means nothing was recognized and the caller must re-prompt.
type CityResult struct {
	Resolved   *city.City
	OutOfZone  bool
	Mention    string
	Suggestion *Suggestion
}

// Suggestion is a fuzzy match that must be confirmed before it becomes a fact.
type Suggestion struct {
	City  city.City
	Score int
}

// Extractor resolves facts against the canonical city index.
type Extractor struct {
	cities    *city.Index
	threshold int
}

// New builds an extractor using the default fuzzy-confirmation threshold.
func New(cities *city.Index) *Extractor {
	return &Extractor{cities: cities, threshold: city.DefaultFuzzyThreshold}
}

// Age extracts an age from text. If the facts already hold an age it is
// returned unchanged: extraction never overwrites a confirmed fact.
func (e *Extractor) Age(text string, known *facts.Facts) (float64, bool) {
	if known != nil && known.Age != nil {
		return *known.Age, true
	}

	lower := strings.ToLower(text)

	// In a city/postal context a 93xxx number is an address, not an age.
	if inCityContext(lower) && postalInText.MatchString(lower) {
		return 0, false
	}

	if m := firstInteger.FindString(lower); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return v, true
		}
	}

	return ageFromWords(lower)
}

// City extracts a canonical city from text. Resolution order: exact/variant
// match, then the out-of-zone table, then the fuzzy resolver. A known city in
// the facts short-circuits everything.
func (e *Extractor) City(text string, known *facts.Facts) CityResult {
	if known != nil && known.City != nil {
		return CityResult{Resolved: known.City}
	}

	if c, ok := e.cities.ResolveExact(text); ok {
		return CityResult{Resolved: &c}
	}

	if mention, ok := city.ResolveOutOfZone(text); ok {
		return CityResult{OutOfZone: true, Mention: mention}
	}

	if c, score, ok := city.FindClosest(text, e.cities.CanonicalIDs(), e.threshold); ok {
		return CityResult{Suggestion: &Suggestion{City: c, Score: score}}
	}

	return CityResult{}
}

func inCityContext(lower string) bool {
	for _, cue := range cityContextCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// YesNo interprets a turn as an affirmative or negative answer, first from
// the classified intent, then from the lexical oui/non fallback. ok=false
// means the answer was ambiguous.
func YesNo(intent, text string) (value, ok bool) {
	switch strings.ToLower(intent) {
	case "yes", "affirm", "agree":
		return true, true
	case "no", "deny", "disagree":
		return false, true
	}

	// Punctuation separates tokens the same way spaces do, so "oui." and
	// "non, merci" read as plain answers.
	lower := " " + nonWord.ReplaceAllString(strings.ToLower(text), " ") + " "
	for _, w := range []string{" non ", " pas ", " jamais "} {
		if strings.Contains(lower, w) {
			return false, true
		}
	}
	for _, w := range []string{" oui ", " ouais ", " d'accord ", " ok ", " si ", " yes "} {
		if strings.Contains(lower, w) {
			return true, true
		}
	}
	return false, false
}
