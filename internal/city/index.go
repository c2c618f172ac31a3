package city

import (
	"regexp"
	"sort"
	"strings"
)

// postalPattern tolerates the spacing and punctuation users put inside a
// Seine-Saint-Denis postal code ("93 200", "93.200", "93-200").
var postalPattern = regexp.MustCompile(`93[\s.\-]?[0-9]{3}`)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Normalize folds a city mention into its comparison form: lower case,
// hyphens and underscores as spaces, whitespace collapsed. It is idempotent,
// so stored values can be re-normalized freely.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

type scanEntry struct {
	variant string // normalized
	city    City
}

// Index provides exact (variant and postal-code) lookup over the canonical
// city table. It is immutable after construction and safe for concurrent use.
type Index struct {
	byVariant map[string]City
	scan      []scanEntry
}

// NewIndex builds the lookup structures from the static variant table.
func NewIndex() *Index {
	ix := &Index{byVariant: make(map[string]City)}
	for c, vs := range variants {
		ix.byVariant[Normalize(string(c))] = c
		for _, v := range vs {
			n := Normalize(v)
			ix.byVariant[n] = c
			ix.scan = append(ix.scan, scanEntry{variant: n, city: c})
		}
	}
	// Longest variants first so "la plaine saint denis" wins over "saint denis"
	// and short colloquial forms never shadow full names.
	sort.Slice(ix.scan, func(i, j int) bool {
		if len(ix.scan[i].variant) != len(ix.scan[j].variant) {
			return len(ix.scan[i].variant) > len(ix.scan[j].variant)
		}
		return ix.scan[i].variant < ix.scan[j].variant
	})
	return ix
}

// CanonicalIDs returns every canonical city known to the index.
func (ix *Index) CanonicalIDs() []City {
	return Canonical()
}

// ResolveExact finds a canonical city mentioned anywhere in text, via a
// covered postal code or any known variant spelling. Variant matching is
// case- and hyphen-insensitive and bounded at word edges.
func (ix *Index) ResolveExact(text string) (City, bool) {
	norm := Normalize(text)
	if norm == "" {
		return "", false
	}

	if m := postalPattern.FindString(norm); m != "" {
		code := nonDigit.ReplaceAllString(m, "")
		if c, ok := postalCodes[code]; ok {
			return c, true
		}
	}

	padded := " " + norm + " "
	for _, e := range ix.scan {
		if strings.Contains(padded, " "+e.variant+" ") {
			return e.city, true
		}
	}
	return "", false
}

// Canonicalize maps a single city token (a stored value or a rule-condition
// literal such as "epinay") to its canonical id. Unlike ResolveExact it
// requires the whole token to be a known spelling.
func (ix *Index) Canonicalize(s string) (City, bool) {
	c, ok := ix.byVariant[Normalize(s)]
	return c, ok
}
