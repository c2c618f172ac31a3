// Package facts holds the per-conversation fact store: the structured data
// collected across turns that the eligibility rules evaluate against.
package facts

import (
	"time"

	"codee/internal/city"
)

// Facts is the mutable set of structured data known about one conversation.
// Fields are pointers so "unknown" and "answered no" stay distinct; facts are
// only ever added, never cleared or rolled back.
type Facts struct {
	Age       *float64   `json:"age,omitempty"`
	RSA       *bool      `json:"rsa,omitempty"`
	Schooling *bool      `json:"schooling,omitempty"`
	City      *city.City `json:"city,omitempty"`

	// Pending carries an unconfirmed fuzzy city suggestion between turns.
	// It is transient: committed or discarded by the next yes/no answer.
	Pending *PendingConfirmation `json:"pending_city_confirmation,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// PendingConfirmation is a fuzzy city match awaiting the user's yes/no.
// ResumeState is where the conversation continues once the suggestion is
// confirmed or rejected.
type PendingConfirmation struct {
	SuggestedCity city.City `json:"suggested_city"`
	Score         int       `json:"score"`
	ResumeState   string    `json:"resume_state"`
}

// Merge copies every fact set in src into f, leaving facts absent from src
// untouched. Scalar merges are idempotent, so replaying a turn cannot corrupt
// the store.
func (f *Facts) Merge(src Facts) {
	if src.Age != nil {
		f.Age = src.Age
	}
	if src.RSA != nil {
		f.RSA = src.RSA
	}
	if src.Schooling != nil {
		f.Schooling = src.Schooling
	}
	if src.City != nil {
		f.City = src.City
	}
}

// Value returns the named fact for condition evaluation, with ok=false when
// the fact is not yet known. Conditions referencing unknown facts fail closed.
func (f *Facts) Value(name string) (any, bool) {
	switch name {
	case "age":
		if f.Age == nil {
			return nil, false
		}
		return *f.Age, true
	case "rsa":
		if f.RSA == nil {
			return nil, false
		}
		return *f.RSA, true
	case "schooling":
		if f.Schooling == nil {
			return nil, false
		}
		return *f.Schooling, true
	case "city":
		if f.City == nil {
			return nil, false
		}
		return string(*f.City), true
	default:
		return nil, false
	}
}

// Helpers for building fact literals without temporaries all over call sites.

func AgeOf(v float64) *float64 { return &v }

func BoolOf(v bool) *bool { return &v }

func CityOf(c city.City) *city.City { return &c }
