package rules

import (
	"fmt"
	"sort"
)

// Report lists the structural problems found in a rule tree. A tree with
// problems still evaluates; unknown targets surface at runtime as the error
// terminal, so validation is advisory and exposed to operators over HTTP.
type Report struct {
	MissingInitial bool     `json:"missing_initial,omitempty"`
	UnknownTargets []string `json:"unknown_targets,omitempty"`
	Unreachable    []string `json:"unreachable_states,omitempty"`
	DeadEnds       []string `json:"dead_end_states,omitempty"`
}

// OK reports whether the tree passed every structural check.
func (r Report) OK() bool {
	return !r.MissingInitial &&
		len(r.UnknownTargets) == 0 &&
		len(r.Unreachable) == 0 &&
		len(r.DeadEnds) == 0
}

// Validate walks the state graph and reports unknown transition targets,
// states unreachable from initial, and non-final states with no way out.
func (t *Tree) Validate() Report {
	var rep Report

	if _, ok := t.States[StateInitial]; !ok {
		rep.MissingInitial = true
	}

	unknown := map[string]bool{}
	note := func(from, to string) {
		if to == "" {
			return
		}
		if _, ok := t.States[to]; !ok {
			unknown[fmt.Sprintf("%s -> %s", from, to)] = true
		}
	}

	for id, st := range t.States {
		for _, tr := range st.Transitions {
			note(id, tr.Next)
		}
		if st.Responses != nil {
			if st.Responses.Yes != nil {
				note(id, st.Responses.Yes.Next)
			}
			if st.Responses.No != nil {
				note(id, st.Responses.No.Next)
			}
		}
		note(id, st.DefaultNext)
	}
	for _, ov := range t.Overrides {
		note("override", ov.Next)
	}

	reachable := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		st, ok := t.States[id]
		if !ok || reachable[id] {
			return
		}
		reachable[id] = true
		for _, tr := range st.Transitions {
			walk(tr.Next)
		}
		if st.Responses != nil {
			if st.Responses.Yes != nil {
				walk(st.Responses.Yes.Next)
			}
			if st.Responses.No != nil {
				walk(st.Responses.No.Next)
			}
		}
		walk(st.DefaultNext)
	}
	walk(StateInitial)
	for _, ov := range t.Overrides {
		walk(ov.Next)
	}

	for id, st := range t.States {
		if !reachable[id] {
			rep.Unreachable = append(rep.Unreachable, id)
		}
		if st.IsFinal {
			continue
		}
		if len(st.Transitions) == 0 && st.Responses == nil && st.DefaultNext == "" {
			rep.DeadEnds = append(rep.DeadEnds, id)
		}
	}

	for k := range unknown {
		rep.UnknownTargets = append(rep.UnknownTargets, k)
	}
	sort.Strings(rep.UnknownTargets)
	sort.Strings(rep.Unreachable)
	sort.Strings(rep.DeadEnds)
	return rep
}
