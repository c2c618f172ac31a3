package rules

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"codee/internal/city"
	"codee/internal/facts"
)

type ExprSuite struct {
	suite.Suite

	cities *city.Index
}

func TestExprSuite(t *testing.T) {
	suite.Run(t, new(ExprSuite))
}

func (s *ExprSuite) SetupSuite() {
	s.cities = city.NewIndex()
}

func (s *ExprSuite) env(f *facts.Facts) Env {
	return Env{Facts: f, Cities: s.cities}
}

func fl(v float64) *float64 { return &v }
func bl(v bool) *bool       { return &v }
func ct(c city.City) *city.City {
	return &c
}

func (s *ExprSuite) TestEval() {
	young := &facts.Facts{Age: fl(19), RSA: bl(false), Schooling: bl(false), City: ct(city.SaintDenis)}

	cases := []struct {
		name string
		cond string
		f    *facts.Facts
		want bool
	}{
		{"true literal", "True", &facts.Facts{}, true},
		{"age lower bound hit", "age >= 16", young, true},
		{"age range", "age >= 16 and age <= 25.5", young, true},
		{"age range boundary", "age >= 16 and age <= 25.5", &facts.Facts{Age: fl(25.5)}, true},
		{"age above range", "age > 25.5 and age < 62", young, false},
		{"missing fact fails closed", "age < 16", &facts.Facts{}, false},
		{"negated and still closed", "age >= 16 and rsa == true", &facts.Facts{Age: fl(30)}, false},
		{"bool equality", "rsa == false", young, true},
		{"bool inequality", "rsa != true", young, true},
		{"or short circuit", "age < 16 or rsa == false", young, true},
		{"city equality canonical", "city == 'saint-denis'", young, true},
		{"city equality variant literal", "city == 'st denis'", young, true},
		{"city inequality", "city != 'stains'", young, true},
		{"city in list", "city in ['saint-denis', 'stains', 'pierrefitte']", young, true},
		{"city in list canonicalizes literals", "city in ['epinay']", &facts.Facts{City: ct(city.Epinay)}, true},
		{"city not in list", "city in ['stains', 'pierrefitte']", young, false},
		{"city missing fails closed", "city in ['saint-denis']", &facts.Facts{}, false},
		{"parentheses", "(age < 16 or age > 62) and rsa == false", young, false},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			expr, err := ParseCondition(tc.cond)
			s.Require().NoError(err)
			s.Equal(tc.want, expr.Eval(s.env(tc.f)))
		})
	}
}

func (s *ExprSuite) TestParseErrors() {
	for _, cond := range []string{
		"",
		"age >",
		"age <> 16",
		"age >= 16 and",
		"city in [",
		"city in [16]",
		"city == ",
		"(age < 16",
		"age < 16 extra",
		"city < 'stains'",
	} {
		s.Run(cond, func() {
			_, err := ParseCondition(cond)
			s.Error(err)
		})
	}
}

func (s *ExprSuite) TestOverrideConditionIsOrderInsensitive() {
	expr, err := ParseCondition(
		"age >= 16 and age <= 25.5 and rsa == false and schooling == false and city in ['saint-denis', 'pierrefitte', 'saint-ouen', 'epinay', 'villetaneuse', 'ile-saint-denis']")
	s.Require().NoError(err)

	full := &facts.Facts{Age: fl(20), RSA: bl(false), Schooling: bl(false), City: ct(city.Villetaneuse)}
	s.True(expr.Eval(s.env(full)))

	partial := &facts.Facts{Age: fl(20), RSA: bl(false), Schooling: bl(false)}
	s.False(expr.Eval(s.env(partial)), "must not fire before the city is known")
}
