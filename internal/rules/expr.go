package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"codee/internal/city"
)

// Conditions are authored as strings in the rule file ("age < 16",
// "city in ['saint-denis', 'stains']", "True") and compiled once at load time
// into this closed AST. Evaluation is total: a condition referencing a fact
// that is not yet known evaluates to false, so partially filled fact stores
// fall through to the catch-all guard instead of failing the turn.

// Env supplies fact values and city canonicalization to condition evaluation.
type Env struct {
	Facts  FactSource
	Cities *city.Index
}

// FactSource exposes collected facts by name. Missing facts return ok=false.
type FactSource interface {
	Value(name string) (any, bool)
}

// Expr is a compiled condition.
type Expr interface {
	Eval(env Env) bool
}

// TrueExpr is the unconditional catch-all guard.
type TrueExpr struct{}

func (TrueExpr) Eval(Env) bool { return true }

// AndExpr evaluates left-to-right with short-circuiting.
type AndExpr struct{ Left, Right Expr }

func (e AndExpr) Eval(env Env) bool { return e.Left.Eval(env) && e.Right.Eval(env) }

// OrExpr evaluates left-to-right with short-circuiting.
type OrExpr struct{ Left, Right Expr }

func (e OrExpr) Eval(env Env) bool { return e.Left.Eval(env) || e.Right.Eval(env) }

// CmpExpr compares a fact against a literal.
type CmpExpr struct {
	Field string
	Op    string // < <= > >= == !=
	Num   float64
	Bool  bool
	Str   string
	Kind  litKind
}

type litKind int

const (
	litNum litKind = iota
	litBool
	litStr
)

func (e CmpExpr) Eval(env Env) bool {
	v, ok := env.Facts.Value(e.Field)
	if !ok {
		return false
	}
	switch e.Kind {
	case litNum:
		n, ok := toFloat(v)
		if !ok {
			return false
		}
		switch e.Op {
		case "<":
			return n < e.Num
		case "<=":
			return n <= e.Num
		case ">":
			return n > e.Num
		case ">=":
			return n >= e.Num
		case "==":
			return n == e.Num
		case "!=":
			return n != e.Num
		}
	case litBool:
		b, ok := v.(bool)
		if !ok {
			return false
		}
		switch e.Op {
		case "==":
			return b == e.Bool
		case "!=":
			return b != e.Bool
		}
	case litStr:
		s, ok := v.(string)
		if !ok {
			return false
		}
		if e.Field == "city" {
			return canonEqual(env.Cities, s, e.Str)
		}
		switch e.Op {
		case "==":
			return s == e.Str
		case "!=":
			return s != e.Str
		}
	}
	return false
}

// InExpr tests membership of a fact in a literal list. For the city fact both
// the stored value and every list entry are canonicalized first, so the rule
// literal "epinay" matches the stored id "épinay-sur-seine".
type InExpr struct {
	Field string
	List  []string
}

func (e InExpr) Eval(env Env) bool {
	v, ok := env.Facts.Value(e.Field)
	if !ok {
		return false
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	for _, item := range e.List {
		if e.Field == "city" {
			if canonEqual(env.Cities, s, item) {
				return true
			}
			continue
		}
		if s == item {
			return true
		}
	}
	return false
}

func canonEqual(ix *city.Index, stored, literal string) bool {
	if ix == nil {
		return strings.EqualFold(stored, literal)
	}
	a, okA := ix.Canonicalize(stored)
	b, okB := ix.Canonicalize(literal)
	if okA && okB {
		return a == b
	}
	return city.Normalize(stored) == city.Normalize(literal)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// ParseCondition compiles a condition string into an Expr. The grammar is the
// subset the rule files actually use:
//
//	expr   := and { "or" and }
//	and    := term { "and" term }
//	term   := "(" expr ")" | "True" | ident cmp literal | ident "in" list
//	cmp    := < | <= | > | >= | == | !=
//	list   := "[" string { "," string } "]"
func ParseCondition(src string) (Expr, error) {
	p := &parser{}
	if err := p.lex(src); err != nil {
		return nil, fmt.Errorf("condition %q: %w", src, err)
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", src, err)
	}
	if !p.done() {
		return nil, fmt.Errorf("condition %q: unexpected trailing %q", src, p.peek().text)
	}
	return expr, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) lex(src string) error {
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			p.tokens = append(p.tokens, token{tokLParen, "("})
			i++
		case r == ')':
			p.tokens = append(p.tokens, token{tokRParen, ")"})
			i++
		case r == '[':
			p.tokens = append(p.tokens, token{tokLBracket, "["})
			i++
		case r == ']':
			p.tokens = append(p.tokens, token{tokRBracket, "]"})
			i++
		case r == ',':
			p.tokens = append(p.tokens, token{tokComma, ","})
			i++
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return fmt.Errorf("unterminated string at offset %d", i)
			}
			p.tokens = append(p.tokens, token{tokString, string(runes[i+1 : j])})
			i = j + 1
		case r == '<' || r == '>' || r == '=' || r == '!':
			op := string(r)
			if i+1 < len(runes) && runes[i+1] == '=' {
				op += "="
				i++
			}
			if op == "=" || op == "!" {
				return fmt.Errorf("invalid operator %q", op)
			}
			p.tokens = append(p.tokens, token{tokOp, op})
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			p.tokens = append(p.tokens, token{tokNumber, string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			p.tokens = append(p.tokens, token{tokIdent, string(runes[i:j])})
			i = j
		default:
			return fmt.Errorf("unexpected character %q", string(r))
		}
	}
	p.tokens = append(p.tokens, token{tokEOF, ""})
	return nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) done() bool { return p.peek().kind == tokEOF }

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && p.peek().text == "or" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = OrExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIdent && p.peek().text == "and" {
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = AndExpr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	t := p.next()
	switch {
	case t.kind == tokLParen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("expected ) got %q", closing.text)
		}
		return expr, nil
	case t.kind == tokIdent && (t.text == "True" || t.text == "true"):
		return TrueExpr{}, nil
	case t.kind == tokIdent:
		return p.parsePredicate(t.text)
	default:
		return nil, fmt.Errorf("unexpected token %q", t.text)
	}
}

func (p *parser) parsePredicate(field string) (Expr, error) {
	op := p.next()
	if op.kind == tokIdent && op.text == "in" {
		return p.parseIn(field)
	}
	if op.kind != tokOp {
		return nil, fmt.Errorf("expected operator after %q, got %q", field, op.text)
	}

	lit := p.next()
	e := CmpExpr{Field: field, Op: op.text}
	switch {
	case lit.kind == tokNumber:
		n, err := strconv.ParseFloat(lit.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", lit.text)
		}
		e.Kind, e.Num = litNum, n
	case lit.kind == tokIdent && (lit.text == "true" || lit.text == "True"):
		e.Kind, e.Bool = litBool, true
	case lit.kind == tokIdent && (lit.text == "false" || lit.text == "False"):
		e.Kind, e.Bool = litBool, false
	case lit.kind == tokString:
		e.Kind, e.Str = litStr, lit.text
	default:
		return nil, fmt.Errorf("bad literal %q", lit.text)
	}
	if e.Kind != litNum && e.Op != "==" && e.Op != "!=" {
		return nil, fmt.Errorf("operator %q requires a numeric literal", e.Op)
	}
	return e, nil
}

func (p *parser) parseIn(field string) (Expr, error) {
	if open := p.next(); open.kind != tokLBracket {
		return nil, fmt.Errorf("expected [ after in, got %q", open.text)
	}
	var list []string
	for {
		t := p.next()
		switch t.kind {
		case tokString:
			list = append(list, t.text)
		case tokRBracket:
			if len(list) == 0 {
				return nil, fmt.Errorf("empty list for %q", field)
			}
			return InExpr{Field: field, List: list}, nil
		default:
			return nil, fmt.Errorf("unexpected %q in list", t.text)
		}
		switch sep := p.next(); sep.kind {
		case tokComma:
		case tokRBracket:
			return InExpr{Field: field, List: list}, nil
		default:
			return nil, fmt.Errorf("expected , or ] got %q", sep.text)
		}
	}
}
