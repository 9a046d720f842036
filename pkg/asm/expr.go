package asm

import (
	"errors"
	"math/big"
	"slices"
	"strings"
)

// maxShift bounds shift counts; nothing wider than a dt element is encodable.
const maxShift = 128

// errNotReady is returned while folding eagerly when an expression refers
// to a name whose value is only known after addresses are assigned.
var errNotReady = errors.New("value not known yet")

type exprToken struct {
	op   string // operator or parenthesis; empty for operands
	text string
}

// tokenizeExpr splits the interior of a parenthesized expression.
func tokenizeExpr(s string) ([]exprToken, bool) {
	var out []exprToken
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '<' || c == '>':
			if i+1 >= len(s) || s[i+1] != c {
				return nil, false
			}
			out = append(out, exprToken{op: s[i : i+2]})
			i += 2
		case strings.IndexByte("+-^&|()", c) >= 0:
			out = append(out, exprToken{op: string(c)})
			i++
		case isWordByte(c):
			j := i
			for j < len(s) && isWordByte(s[j]) {
				j++
			}
			out = append(out, exprToken{text: strings.ToLower(s[i:j])})
			i = j
		default:
			return nil, false
		}
	}
	return out, true
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '?' || c == '@' || c == '$'
}

// Binary operators from loosest to tightest binding.
var precedence = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
}

// evaluator folds constant expressions, looking names up in the symbol
// table. With eager set, names without a concrete value yet make the
// evaluation fail with errNotReady instead of an error.
type evaluator struct {
	symbols   *SymbolTable
	eager     bool
	resolving map[*Token]bool
}

func newEvaluator(symbols *SymbolTable, eager bool) *evaluator {
	return &evaluator{symbols: symbols, eager: eager, resolving: make(map[*Token]bool)}
}

type exprParser struct {
	ev   *evaluator
	toks []exprToken
	pos  int
	line int
	src  string
}

func (e *evaluator) eval(src string, line int) (*big.Int, error) {
	toks, ok := tokenizeExpr(src)
	if !ok || len(toks) == 0 {
		return nil, lineErr(line, ErrWrongParameter, "bad expression (%s)", src)
	}
	p := &exprParser{ev: e, toks: toks, line: line, src: src}
	v, err := p.binary(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, p.syntaxErr()
	}
	return v, nil
}

func (p *exprParser) syntaxErr() error {
	return lineErr(p.line, ErrWrongParameter, "bad expression (%s)", p.src)
}

func (p *exprParser) peekOp() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].op
	}
	return ""
}

func (p *exprParser) binary(level int) (*big.Int, error) {
	if level == len(precedence) {
		return p.unary()
	}
	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op := p.peekOp()
		if !slices.Contains(precedence[level], op) {
			return left, nil
		}
		p.pos++
		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}
		if left, err = p.apply(op, left, right); err != nil {
			return nil, err
		}
	}
}

func (p *exprParser) apply(op string, x, y *big.Int) (*big.Int, error) {
	z := new(big.Int)
	switch op {
	case "+":
		return z.Add(x, y), nil
	case "-":
		return z.Sub(x, y), nil
	case "&":
		return z.And(x, y), nil
	case "|":
		return z.Or(x, y), nil
	case "^":
		return z.Xor(x, y), nil
	}
	if y.Sign() < 0 || y.Cmp(big.NewInt(maxShift)) > 0 {
		return nil, lineErr(p.line, ErrWrongOperandValue, "shift count %s out of range", y)
	}
	if op == "<<" {
		return z.Lsh(x, uint(y.Int64())), nil
	}
	return z.Rsh(x, uint(y.Int64())), nil
}

func (p *exprParser) unary() (*big.Int, error) {
	if p.peekOp() == "-" {
		p.pos++
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		return new(big.Int).Neg(v), nil
	}
	return p.primary()
}

func (p *exprParser) primary() (*big.Int, error) {
	if p.pos >= len(p.toks) {
		return nil, p.syntaxErr()
	}
	tok := p.toks[p.pos]
	p.pos++

	switch tok.op {
	case "":
	case "(":
		v, err := p.binary(0)
		if err != nil {
			return nil, err
		}
		if p.peekOp() != ")" {
			return nil, p.syntaxErr()
		}
		p.pos++
		return v, nil
	default:
		return nil, p.syntaxErr()
	}

	if tok.text == "?" {
		return new(big.Int), nil
	}
	if v, ok := parseNumber(tok.text); ok {
		return v, nil
	}
	if !identifier.MatchString(tok.text) {
		return nil, p.syntaxErr()
	}
	def, ok := p.ev.symbols.Lookup(tok.text)
	if !ok {
		return nil, lineErr(p.line, ErrUndefinedName, "%s", tok.text)
	}
	return p.ev.resolve(def, p.line)
}

// resolve returns the integer value of a table entry, evaluating and
// memoizing it first when it is still an expression.
func (e *evaluator) resolve(def *Token, line int) (*big.Int, error) {
	switch def.Value.Kind {
	case ValueInt:
		return def.Value.Int, nil
	case ValueString:
		return nil, lineErr(line, ErrWrongParameter, "string %s used in an expression", def.Text)
	case ValueNone:
		if e.eager {
			return nil, errNotReady
		}
		return nil, lineErr(line, ErrUndefinedName, "%s has no value", def.Text)
	}

	if e.resolving[def] {
		return nil, lineErr(def.Line, ErrCircularDefinition, "%s", def.Text)
	}
	e.resolving[def] = true
	v, err := e.eval(def.Value.Expr, def.Line)
	delete(e.resolving, def)
	if err != nil {
		return nil, err
	}

	def.Value = bigValue(v)
	if e.eager {
		// Widths are still open while folding eagerly.
		if w, ok := minWidth(v); ok && w > def.Allocate {
			def.Allocate = w
		}
	}
	return v, nil
}
