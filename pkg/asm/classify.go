package asm

import (
	"math/big"
	"regexp"
	"strings"
)

var (
	identifier = regexp.MustCompile(`^[a-z_][a-z0-9?@_$]{0,31}:?$`)

	binLiteral = regexp.MustCompile(`^-?[01]+b$`)
	octLiteral = regexp.MustCompile(`^-?[0-7]+[oq]$`)
	hexLiteral = regexp.MustCompile(`^-?[0-9][0-9a-f]*h$`)
	decLiteral = regexp.MustCompile(`^-?[0-9]+d?$`)
)

// parseNumber parses a numeric literal with an optional radix suffix:
// b (2), o or q (8), h (16), d or none (10).
func parseNumber(word string) (*big.Int, bool) {
	digits, base := word[:len(word)-1], 10
	switch {
	case binLiteral.MatchString(word):
		base = 2
	case octLiteral.MatchString(word):
		base = 8
	case hexLiteral.MatchString(word):
		base = 16
	case decLiteral.MatchString(word):
		digits = strings.TrimSuffix(word, "d")
	default:
		return nil, false
	}
	return new(big.Int).SetString(digits, base)
}

// parseLiteral parses '?', a quoted string or a number.
func parseLiteral(word string) (Value, bool) {
	if word == "?" {
		return IntValue(0), true
	}
	if n := len(word); n >= 2 && (word[0] == '\'' || word[0] == '"') && word[n-1] == word[0] {
		return Value{Kind: ValueString, Str: word[1 : n-1]}, true
	}
	if v, ok := parseNumber(word); ok {
		return bigValue(v), true
	}
	return Value{}, false
}

// minWidth returns the narrowest immediate width that holds v, either as a
// signed or as an unsigned number.
func minWidth(v *big.Int) (int, bool) {
	for _, w := range widths {
		if fits(v, w, true) {
			return w, true
		}
	}
	return 0, false
}

// fits reports whether v can be encoded in width bytes. Negative values
// need signed to be set and use two's complement.
func fits(v *big.Int, width int, signed bool) bool {
	bits := uint(8 * width)
	if v.Sign() < 0 {
		if !signed {
			return false
		}
		limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
		return v.CmpAbs(limit) <= 0
	}
	return v.BitLen() <= int(bits)
}

func newImmediate(num int, word string, v Value) (*Token, error) {
	tok := &Token{Kind: KindImmediate, Text: word, Value: v, Allocate: 1}
	switch v.Kind {
	case ValueInt:
		w, ok := minWidth(v.Int)
		if !ok {
			return nil, lineErr(num, ErrWrongOperandSize, "%s does not fit in %d bytes", word, widths[len(widths)-1])
		}
		tok.Allocate = w
		tok.Size = w
	case ValueString:
		tok.Size = len(v.Str)
	default:
		tok.Size = tok.Allocate
	}
	return tok, nil
}

func isOperandShape(word string) bool {
	if _, ok := registers[word]; ok || word == "?" {
		return true
	}
	switch c := word[0]; {
	case c >= '0' && c <= '9', c == '\'', c == '"', c == '-', c == '(':
		return true
	}
	return false
}

// classifyWord turns a word that is not at the head of its line into a
// token. Identifiers become unbound names; binding happens once every line
// has been classified.
func classifyWord(num int, word string) (*Token, error) {
	if word == "," {
		return &Token{Kind: KindComma, Text: word}, nil
	}
	if _, ok := instructions[word]; ok {
		return &Token{Kind: KindInstruction, Text: word, Size: 1}, nil
	}
	if directives[word] {
		return &Token{Kind: KindDirective, Text: word, Allocate: storage[word]}, nil
	}
	if isOperandShape(word) {
		return classifyOperand(num, word)
	}
	if identifier.MatchString(word) {
		return &Token{Kind: KindName, Text: word}, nil
	}
	return nil, lineErr(num, ErrUnknownWord, "%s", word)
}

func classifyOperand(num int, word string) (*Token, error) {
	if reg, ok := registers[word]; ok {
		return &Token{Kind: KindRegister, Text: word, Reg: reg, Allocate: 1}, nil
	}
	if word[0] == '(' {
		if len(word) < 2 || word[len(word)-1] != ')' {
			return nil, lineErr(num, ErrUnknownWord, "%s", word)
		}
		return newImmediate(num, word, Value{Kind: ValueExpr, Expr: word[1 : len(word)-1]})
	}
	v, ok := parseLiteral(word)
	if !ok {
		return nil, lineErr(num, ErrUnknownWord, "%s", word)
	}
	return newImmediate(num, word, v)
}

// classifyHead decides what an identifier at the start of a line defines,
// looking at the keyword that follows it. It returns the definition and the
// words still to classify.
func classifyHead(num int, words []string) (*Token, []string, error) {
	name := words[0]
	if strings.HasSuffix(name, ":") {
		return &Token{Kind: KindLabel, Text: strings.TrimSuffix(name, ":"), Allocate: addressSize, Line: num}, words[1:], nil
	}
	if len(words) < 2 {
		return nil, nil, lineErr(num, ErrUndefinedName, "%s", name)
	}

	switch next := words[1]; {
	case next == "proc", next == "label" && len(words) > 2:
		return &Token{Kind: KindLabel, Text: name, Allocate: addressSize, Line: num}, nil, nil
	case storage[next] > 0:
		return &Token{Kind: KindVariable, Text: name, Allocate: storage[next], Line: num}, words[1:], nil
	case next == "equ" || next == "=":
		rest := words[1:]
		if len(rest) > 2 {
			rest = rest[:2]
		}
		return &Token{Kind: KindSymbol, Text: name, Allocate: 1, Line: num}, rest, nil
	}
	return nil, nil, lineErr(num, ErrUndefinedName, "%s", name)
}

// classifyLine classifies the words of one line. Definitions at the head of
// the line are registered in the symbol table.
func (a *Assembler) classifyLine(num int, words []string) ([]*Token, error) {
	tokens := make([]*Token, 0, len(words))

	// "name endp" closes a procedure; the name refers to it.
	if len(words) > 1 && (words[1] == "endp" || words[1] == "end") {
		words = words[1:]
	}

	first := words[0]
	_, isInstr := instructions[first]
	if first != "," && !isInstr && !directives[first] && !isOperandShape(first) && identifier.MatchString(first) {
		def, rest, err := classifyHead(num, words)
		if err != nil {
			return nil, err
		}
		if err := a.define(def); err != nil {
			return nil, err
		}
		tokens = append(tokens, def)
		words = rest
	}

	for _, word := range words {
		tok, err := classifyWord(num, word)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func (a *Assembler) define(def *Token) error {
	if a.symbols.Register(def.Text, def) {
		return nil
	}
	prev, _ := a.symbols.Lookup(def.Text)
	if a.strict {
		return lineErr(def.Line, ErrRedefinition, "%s (first defined at line %d)", def.Text, prev.Line)
	}
	a.log.Warnf("line %d: ignoring redefinition of %q, first defined at line %d", def.Line, def.Text, prev.Line)
	return nil
}

// bind returns the token an identifier occurrence resolves to: a bound
// occurrence of its table entry, or the unbound name itself.
func (a *Assembler) bind(tok *Token) *Token {
	if tok.Kind != KindName {
		return tok
	}
	def, ok := a.symbols.Lookup(tok.Text)
	if !ok {
		return tok
	}
	return &Token{Kind: def.Kind, Text: tok.Text, Def: def}
}

// bindNames replaces every identifier occurrence that has a table entry
// with a bound occurrence of that entry.
func (a *Assembler) bindNames(program Program) Program {
	out := make(Program, len(program))
	for i, line := range program {
		tokens := make([]*Token, len(line.Tokens))
		for j, tok := range line.Tokens {
			tokens[j] = a.bind(tok)
		}
		out[i] = Line{Num: line.Num, Tokens: tokens}
	}
	return out
}
