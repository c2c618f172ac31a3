package city

import (
	"regexp"
	"strings"
)

// Mentions of these municipalities mean the person lives outside the covered
// area: the conversation ends on the not-eligible-city terminal instead of
// re-prompting. Mostly neighboring Seine-Saint-Denis communes and Paris.
var outOfZoneCities = []string{
	"paris",
	"bobigny",
	"montreuil",
	"drancy",
	"pantin",
	"bagnolet",
	"romainville",
	"noisy le sec",
	"noisy le grand",
	"bondy",
	"rosny sous bois",
	"aulnay sous bois",
	"sevran",
	"livry gargan",
	"tremblay en france",
	"le blanc mesnil",
	"blanc mesnil",
	"dugny",
	"le bourget",
	"gagny",
	"neuilly sur marne",
	"neuilly plaisance",
	"clichy sous bois",
	"villepinte",
	"gennevilliers",
	"asnières",
	"asnieres",
	"clichy",
	"argenteuil",
	"sarcelles",
	"garges les gonesse",
	"enghien",
	"colombes",
	"nanterre",
	"créteil",
	"creteil",
	"versailles",
}

// Postal codes from these départements are always outside the covered area.
// 93 codes are handled by the covered-code table first, so an unknown 93 code
// stays a re-prompt rather than a hard rejection.
var outOfZonePostalPrefix = regexp.MustCompile(`\b(7[5-8]|9[1245])[0-9]{3}\b`)

// ResolveOutOfZone reports whether the text names a municipality known to be
// outside the covered area, returning the mention for the refusal message.
func ResolveOutOfZone(text string) (string, bool) {
	norm := Normalize(text)
	if norm == "" {
		return "", false
	}

	if m := outOfZonePostalPrefix.FindString(norm); m != "" {
		return m, true
	}

	padded := " " + norm + " "
	for _, name := range outOfZoneCities {
		if strings.Contains(padded, " "+name+" ") {
			return name, true
		}
	}
	return "", false
}
