package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RulesSuite struct {
	suite.Suite
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) TestDefaultTreeIsValid() {
	tree := DefaultTree(62)
	s.Require().NoError(tree.Compile())

	rep := tree.Validate()
	s.True(rep.OK(), "default tree must be structurally clean: %+v", rep)

	initial, ok := tree.Get(StateInitial)
	s.Require().True(ok)
	s.Equal("consent", initial.DefaultNext)

	s.Require().Len(tree.Overrides, 1)
	s.Equal("eligible_ml", tree.Overrides[0].Next)
	s.Equal(TagML, tree.Overrides[0].EligibilityTag)
}

func (s *RulesSuite) TestDefaultTreeAgeLimitIsConfigurable() {
	tree := DefaultTree(64)
	s.Require().NoError(tree.Compile())

	age, ok := tree.Get("age_verification")
	s.Require().True(ok)
	s.Contains(age.Transitions[2].Condition, "age < 64")
}

func (s *RulesSuite) TestLoadWritesDefaultWhenMissing() {
	path := filepath.Join(s.T().TempDir(), "rules", "tree.json")

	tree, err := Load(path, 62)
	s.Require().NoError(err)
	s.Contains(tree.States, "consent")

	// The persisted copy must round-trip to the same graph.
	again, err := Load(path, 62)
	s.Require().NoError(err)
	s.Len(again.States, len(tree.States))
	s.Len(again.Overrides, 1)
	s.True(again.Validate().OK())
}

func (s *RulesSuite) TestLoadTrimsByteOrderMark() {
	tree := DefaultTree(62)
	data, err := tree.Dump()
	s.Require().NoError(err)

	path := filepath.Join(s.T().TempDir(), "tree.json")
	s.Require().NoError(os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, data...), 0o644))

	loaded, err := Load(path, 62)
	s.Require().NoError(err)
	s.Contains(loaded.States, StateInitial)
}

func (s *RulesSuite) TestLoadRejectsBadInput() {
	dir := s.T().TempDir()

	bad := filepath.Join(dir, "bad.json")
	s.Require().NoError(os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err := Load(bad, 62)
	s.Error(err)

	empty := filepath.Join(dir, "empty.json")
	s.Require().NoError(os.WriteFile(empty, []byte(`{"states": {}}`), 0o644))
	_, err = Load(empty, 62)
	s.Error(err)

	badCond := filepath.Join(dir, "cond.json")
	s.Require().NoError(os.WriteFile(badCond, []byte(
		`{"states": {"initial": {"transitions": [{"condition": "age >", "next": "end"}]}, "end": {"is_final": true}}}`), 0o644))
	_, err = Load(badCond, 62)
	s.Error(err)
}

func (s *RulesSuite) TestValidateFindsStructuralProblems() {
	tree := &Tree{States: map[string]*State{
		StateInitial: {DefaultNext: "nowhere"},
		"orphan":     {DefaultNext: StateInitial},
		"stuck":      {Prompt: "?"},
	}}
	s.Require().NoError(tree.Compile())

	rep := tree.Validate()
	s.False(rep.OK())
	s.Contains(rep.UnknownTargets, "initial -> nowhere")
	s.Contains(rep.Unreachable, "orphan")
	s.Contains(rep.Unreachable, "stuck")
	s.Contains(rep.DeadEnds, "stuck")
}
