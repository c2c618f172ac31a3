package city

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type FuzzySuite struct {
	suite.Suite
}

func TestFuzzySuite(t *testing.T) {
	suite.Run(t, new(FuzzySuite))
}

func (s *FuzzySuite) TestLevenshtein() {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"saint-denis", "saint-denis", 0},
		{"sain-denis", "saint-denis", 1},
		{"stains", "stain", 1},
		{"épinay", "epinay", 1},
		{"kitten", "sitting", 3},
	}
	for _, tc := range cases {
		s.Equal(tc.want, Levenshtein(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func (s *FuzzySuite) TestSimilarity() {
	s.Equal(100, Similarity("stains", "stains"))
	// one edit over eleven runes: (1 - 1/11) * 100 = 90
	s.Equal(90, Similarity("sain-denis", "saint-denis"))
	s.Less(Similarity("paris", "saint-denis"), DefaultFuzzyThreshold)
}

func (s *FuzzySuite) TestFindClosest() {
	all := Canonical()

	s.Run("typo above threshold", func() {
		got, score, ok := FindClosest("sain-denis", all, DefaultFuzzyThreshold)
		s.Require().True(ok)
		s.Equal(SaintDenis, got)
		s.GreaterOrEqual(score, DefaultFuzzyThreshold)
	})

	s.Run("unrelated city below threshold", func() {
		_, _, ok := FindClosest("paris", all, DefaultFuzzyThreshold)
		s.False(ok)
	})

	s.Run("case folded", func() {
		got, _, ok := FindClosest("STAINS", all, DefaultFuzzyThreshold)
		s.Require().True(ok)
		s.Equal(Stains, got)
	})

	s.Run("empty input", func() {
		_, _, ok := FindClosest("   ", all, DefaultFuzzyThreshold)
		s.False(ok)
	})
}

func (s *FuzzySuite) TestResolveOutOfZone() {
	s.Run("named municipality", func() {
		name, ok := ResolveOutOfZone("j'habite à paris")
		s.Require().True(ok)
		s.Equal("paris", name)
	})
	s.Run("neighboring commune", func() {
		_, ok := ResolveOutOfZone("bobigny")
		s.True(ok)
	})
	s.Run("out-of-zone postal code", func() {
		_, ok := ResolveOutOfZone("75011")
		s.True(ok)
	})
	s.Run("covered postal code is not out of zone", func() {
		_, ok := ResolveOutOfZone("93200")
		s.False(ok)
	})
	s.Run("unknown text is not out of zone", func() {
		_, ok := ResolveOutOfZone("je ne sais pas")
		s.False(ok)
	})
}
