// Package rules defines the declarative eligibility rule tree: the states of
// the screening conversation, their guarded transitions, and the global
// override rules evaluated every turn. Rules are data, loaded from JSON and
// compiled once; all interpretation happens in the engine.
package rules

import (
	"encoding/json"
	"fmt"
)

// Eligibility tags produced by terminal states. The French labels are part
// of the external contract and must not be localized away.
const (
	TagALI                  = "ALI"
	TagML                   = "ML"
	TagPLIE                 = "PLIE"
	TagNotEligibleAge       = "Non éligible (âge)"
	TagNotEligibleCity      = "Non éligible (ville)"
	TagNotEligibleSchooling = "Non éligible (scolarisation)"
)

// StateInitial is where every conversation starts.
const StateInitial = "initial"

// FactKind names a fact a state extracts or records.
type FactKind string

const (
	FactAge       FactKind = "age"
	FactCity      FactKind = "city"
	FactRSA       FactKind = "rsa"
	FactSchooling FactKind = "schooling"
)

// Tree is the full rule document: a state graph plus global overrides.
type Tree struct {
	States    map[string]*State `json:"states"`
	Overrides []*Override       `json:"overrides,omitempty"`
}

// State describes one node of the screening conversation.
type State struct {
	// Prompt is the question shown when the conversation enters this state.
	Prompt string `json:"message,omitempty"`

	// Extract names the fact to pull from the user's turn before
	// transitions are evaluated (age or city).
	Extract FactKind `json:"extract,omitempty"`

	// Records names the boolean fact a yes/no answer to this state sets
	// (rsa or schooling). Recording is what lets overrides fire on facts
	// gathered out of order.
	Records FactKind `json:"records_fact,omitempty"`

	// Transitions are evaluated in order against the fact store;
	// the first satisfied guard wins.
	Transitions []*Transition `json:"transitions,omitempty"`

	// Responses handles direct yes/no states.
	Responses *Responses `json:"responses,omitempty"`

	// DefaultNext advances states that need no input.
	DefaultNext string `json:"default_next,omitempty"`

	IsFinal        bool   `json:"is_final,omitempty"`
	EligibilityTag string `json:"eligibility_result,omitempty"`
}

// Responses holds the two branches of a binary state.
type Responses struct {
	Yes *Branch `json:"yes,omitempty"`
	No  *Branch `json:"no,omitempty"`
}

// Branch is the outcome of a yes or no answer.
type Branch struct {
	Next           string `json:"next"`
	Message        string `json:"message"`
	IsFinal        bool   `json:"is_final,omitempty"`
	EligibilityTag string `json:"eligibility_result,omitempty"`
}

// Transition is one guarded edge out of a state.
type Transition struct {
	Condition      string `json:"condition"`
	Next           string `json:"next"`
	Message        string `json:"message"`
	IsFinal        bool   `json:"is_final,omitempty"`
	EligibilityTag string `json:"eligibility_result,omitempty"`

	compiled Expr
}

// Override is a global rule checked every turn before path-based
// transitions. It short-circuits to a terminal once enough facts are known,
// making the outcome a function of the fact store rather than of the order
// the facts arrived in.
type Override struct {
	Condition      string `json:"condition"`
	Next           string `json:"next"`
	Message        string `json:"message"`
	EligibilityTag string `json:"eligibility_result,omitempty"`

	compiled Expr
}

// Get looks up a state definition by id.
func (t *Tree) Get(id string) (*State, bool) {
	s, ok := t.States[id]
	return s, ok
}

// Compile parses every condition in the tree. Must be called after
// unmarshalling and before any evaluation.
func (t *Tree) Compile() error {
	for id, s := range t.States {
		for i, tr := range s.Transitions {
			expr, err := ParseCondition(tr.Condition)
			if err != nil {
				return fmt.Errorf("state %q transition %d: %w", id, i, err)
			}
			tr.compiled = expr
		}
	}
	for i, ov := range t.Overrides {
		expr, err := ParseCondition(ov.Condition)
		if err != nil {
			return fmt.Errorf("override %d: %w", i, err)
		}
		ov.compiled = expr
	}
	return nil
}

// Matches reports whether the transition's guard holds in env.
func (tr *Transition) Matches(env Env) bool {
	if tr.compiled == nil {
		return false
	}
	return tr.compiled.Eval(env)
}

// Matches reports whether the override's condition holds in env.
func (ov *Override) Matches(env Env) bool {
	if ov.compiled == nil {
		return false
	}
	return ov.compiled.Eval(env)
}

// Dump renders the tree back to indented JSON for the inspection endpoint.
func (t *Tree) Dump() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
