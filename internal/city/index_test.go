package city

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndexSuite struct {
	suite.Suite
	index *Index
}

func TestIndexSuite(t *testing.T) {
	suite.Run(t, new(IndexSuite))
}

func (s *IndexSuite) SetupSuite() {
	s.index = NewIndex()
}

func (s *IndexSuite) TestResolveExact() {
	cases := []struct {
		name string
		text string
		want City
	}{
		{"canonical spelling", "j'habite à saint-denis", SaintDenis},
		{"space variant", "saint denis", SaintDenis},
		{"abbreviation", "st denis", SaintDenis},
		{"missing diacritic", "epinay sur seine", Epinay},
		{"short colloquial form", "épinay", Epinay},
		{"postal code", "93430", Villetaneuse},
		{"postal code with space", "j'habite au 93 200", SaintDenis},
		{"postal code with dot", "93.240", Stains},
		{"spelled-out postal code", "quatre-vingt-treize cent vingt", LaCourneuve},
		{"typo from transcripts", "pierefitte", Pierrefitte},
		{"landmark variant", "près du stade de france", SaintDenis},
		{"article form", "l'île-saint-denis", IleSaintDenis},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			got, ok := s.index.ResolveExact(tc.text)
			s.Require().True(ok)
			s.Equal(tc.want, got)
		})
	}
}

func (s *IndexSuite) TestResolveExactMisses() {
	for _, text := range []string{"", "je ne sais pas", "paris", "bonjour", "75011"} {
		s.Run(text, func() {
			_, ok := s.index.ResolveExact(text)
			s.False(ok)
		})
	}
}

func (s *IndexSuite) TestLongestVariantWins() {
	got, ok := s.index.ResolveExact("la plaine saint denis")
	s.Require().True(ok)
	s.Equal(SaintDenis, got)
}

func (s *IndexSuite) TestCanonicalize() {
	s.Run("rule literal maps to canonical id", func() {
		got, ok := s.index.Canonicalize("epinay")
		s.Require().True(ok)
		s.Equal(Epinay, got)
	})
	s.Run("canonical id maps to itself", func() {
		got, ok := s.index.Canonicalize("île-saint-denis")
		s.Require().True(ok)
		s.Equal(IleSaintDenis, got)
	})
	s.Run("unknown token fails", func() {
		_, ok := s.index.Canonicalize("paris")
		s.False(ok)
	})
}

func (s *IndexSuite) TestNormalizeIdempotence() {
	for _, vs := range variants {
		for _, v := range vs {
			s.Equal(Normalize(v), Normalize(Normalize(v)), "variant %q", v)
		}
	}
}

func (s *IndexSuite) TestZones() {
	s.True(SaintDenis.InZone(ZoneALI))
	s.True(SaintDenis.InZone(ZoneML))
	s.True(SaintDenis.InZone(ZonePLIE))
	s.False(Aubervilliers.InZone(ZoneALI))
	s.False(Aubervilliers.InZone(ZoneML))
	s.True(Aubervilliers.InZone(ZonePLIE))
	s.False(Montfermeil.InZone(ZoneALI))
	s.False(Montfermeil.InZone(ZoneML))
	s.False(Montfermeil.InZone(ZonePLIE))
}
