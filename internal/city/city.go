// Package city maps free-text mentions of municipalities onto the fixed set
// of canonical cities the screening rules reason about. The covered area is
// Plaine Commune plus Montfermeil; everything else is either explicitly known
// as out of zone or unrecognized.
package city

// City is the canonical identifier of a covered municipality. Rule conditions
// and the fact store only ever hold canonical values; raw user spellings are
// resolved through the Index before they are stored.
type City string

const (
	SaintDenis    City = "saint-denis"
	Stains        City = "stains"
	Pierrefitte   City = "pierrefitte"
	SaintOuen     City = "saint-ouen"
	Epinay        City = "épinay-sur-seine"
	Villetaneuse  City = "villetaneuse"
	IleSaintDenis City = "île-saint-denis"
	Aubervilliers City = "aubervilliers"
	LaCourneuve   City = "la-courneuve"
	Montfermeil   City = "montfermeil"
)

// Canonical returns every canonical city, in stable order.
func Canonical() []City {
	return []City{
		SaintDenis,
		Stains,
		Pierrefitte,
		SaintOuen,
		Epinay,
		Villetaneuse,
		IleSaintDenis,
		Aubervilliers,
		LaCourneuve,
		Montfermeil,
	}
}

// Zone names a subset of canonical cities used as an eligibility criterion.
type Zone string

const (
	ZoneALI  Zone = "ALI"
	ZoneML   Zone = "ML"
	ZonePLIE Zone = "PLIE"
)

// zoneMembers is the rule authors' configuration decision on which
// municipality belongs to which program. Montfermeil is indexed (postal
// 93370) but belongs to no zone.
var zoneMembers = map[Zone][]City{
	ZoneALI: {SaintDenis, Stains, Pierrefitte},
	ZoneML:  {SaintDenis, Pierrefitte, SaintOuen, Epinay, Villetaneuse, IleSaintDenis},
	ZonePLIE: {
		Aubervilliers, Epinay, IleSaintDenis, LaCourneuve, Pierrefitte,
		SaintDenis, SaintOuen, Stains, Villetaneuse,
	},
}

// ZoneMembers returns the cities belonging to a zone.
func ZoneMembers(z Zone) []City {
	return append([]City(nil), zoneMembers[z]...)
}

// InZone reports whether the city belongs to the named zone.
func (c City) InZone(z Zone) bool {
	for _, member := range zoneMembers[z] {
		if member == c {
			return true
		}
	}
	return false
}
