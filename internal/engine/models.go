// Package engine drives one turn of the eligibility conversation: it merges
// the caller's data into the fact store, extracts facts from the utterance,
// and walks the rule tree to a decision.
package engine

import (
	"codee/internal/city"
	"codee/internal/facts"
)

// EvaluateRequest is one conversational turn to evaluate.
type EvaluateRequest struct {
	ConversationID string   `json:"conversation_id"`
	CurrentState   string   `json:"current_state"`
	NLP            NLPData  `json:"nlp_data"`
	UserData       UserData `json:"user_data"`
}

// NLPData carries the upstream NLP classification of the utterance. All
// fields are optional; evaluation falls back to lexical analysis of Text.
type NLPData struct {
	Intent   string   `json:"intent,omitempty"`
	Text     string   `json:"text,omitempty"`
	Entities Entities `json:"entities,omitempty"`
}

// Entities are facts the NLP layer already extracted upstream.
type Entities struct {
	Age       *float64 `json:"age,omitempty"`
	City      string   `json:"city,omitempty"`
	RSA       *bool    `json:"rsa,omitempty"`
	Schooling *bool    `json:"schooling,omitempty"`
}

// UserData is the caller-side fact snapshot, merged into the store before
// evaluation so a restarted client can resubmit what it already knows.
type UserData struct {
	Age       *float64 `json:"age,omitempty"`
	RSA       *bool    `json:"rsa,omitempty"`
	Schooling *bool    `json:"schooling,omitempty"`
	City      string   `json:"city,omitempty"`
}

// Decision is the outcome of one turn.
type Decision struct {
	NextState      string `json:"next_state"`
	Message        string `json:"message"`
	IsFinal        bool   `json:"is_final"`
	EligibilityTag string `json:"eligibility_result,omitempty"`
}

// facts converts the snapshots into a mergeable fact set. City names go
// through the canonical index; unrecognized ones are dropped rather than
// stored raw.
func (r EvaluateRequest) facts(cities *city.Index) facts.Facts {
	var f facts.Facts
	if r.UserData.Age != nil {
		f.Age = r.UserData.Age
	}
	if r.NLP.Entities.Age != nil {
		f.Age = r.NLP.Entities.Age
	}
	if r.UserData.RSA != nil {
		f.RSA = r.UserData.RSA
	}
	if r.NLP.Entities.RSA != nil {
		f.RSA = r.NLP.Entities.RSA
	}
	if r.UserData.Schooling != nil {
		f.Schooling = r.UserData.Schooling
	}
	if r.NLP.Entities.Schooling != nil {
		f.Schooling = r.NLP.Entities.Schooling
	}
	for _, raw := range []string{r.UserData.City, r.NLP.Entities.City} {
		if raw == "" {
			continue
		}
		if c, ok := cities.Canonicalize(raw); ok {
			f.City = facts.CityOf(c)
		}
	}
	return f
}
