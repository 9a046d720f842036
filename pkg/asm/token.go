package asm

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind identifies the variant of a Token.
type Kind int

const (
	KindComma Kind = iota
	KindInstruction
	KindDirective
	KindRegister
	KindImmediate

	// Identifiers. KindName is an identifier with no symbol table entry;
	// the other three are either table entries (definitions) or bound
	// occurrences pointing at one through Token.Def.
	KindName
	KindLabel    // address-valued
	KindVariable // data-valued, defined by db/dw/dd/dq/dt
	KindSymbol   // constant-valued, defined by equ or =
)

var kindNames = [...]string{
	KindComma:       "Comma",
	KindInstruction: "Instruction",
	KindDirective:   "Directive",
	KindRegister:    "Register",
	KindImmediate:   "Immediate",
	KindName:        "Name",
	KindLabel:       "Label",
	KindVariable:    "Variable",
	KindSymbol:      "Symbol",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsName reports whether k is one of the identifier kinds.
func (k Kind) IsName() bool {
	return k >= KindName
}

// Register is a 3-bit register field code.
type Register uint8

const (
	RegA Register = iota
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegMem // memory indirect
)

var registers = map[string]Register{
	"a":   RegA,
	"b":   RegB,
	"c":   RegC,
	"d":   RegD,
	"e":   RegE,
	"h":   RegH,
	"l":   RegL,
	"mem": RegMem,
}

// ValueKind tells which field of a Value is meaningful.
type ValueKind int

const (
	ValueNone   ValueKind = iota // not bound yet
	ValueInt                     // Int
	ValueString                  // Str, emitted as raw bytes
	ValueExpr                    // Expr, a constant expression pending evaluation
)

type Value struct {
	Kind ValueKind
	Int  *big.Int
	Str  string
	Expr string
}

func IntValue(v int64) Value {
	return Value{Kind: ValueInt, Int: big.NewInt(v)}
}

func bigValue(v *big.Int) Value {
	return Value{Kind: ValueInt, Int: v}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return v.Int.String()
	case ValueString:
		return fmt.Sprintf("%q", v.Str)
	case ValueExpr:
		return "(" + v.Expr + ")"
	}
	return "<unbound>"
}

// Token is one element of a source line after classification.
type Token struct {
	Kind Kind
	Text string

	Reg   Register
	Value Value

	// Allocate is the byte width of the value; Size is the number of bytes
	// the token contributes to the image. For bound occurrences Allocate is
	// a per-use override and zero means "inherit from Def".
	Allocate int
	Size     int

	// Def is the symbol table entry a bound occurrence refers to.
	Def *Token
	// Line is the source line a table entry was defined on.
	Line int
}

// entry returns the token holding the value: the definition for a bound
// occurrence, the token itself otherwise.
func (t *Token) entry() *Token {
	if t.Def != nil {
		return t.Def
	}
	return t
}

// width returns the number of bytes the token's value occupies when emitted.
func (t *Token) width() int {
	e := t.entry()
	if e.Value.Kind == ValueString {
		return paddedLen(len(e.Value.Str), t.alloc())
	}
	return t.alloc()
}

func (t *Token) alloc() int {
	if t.Allocate > 0 || t.Def == nil {
		return t.Allocate
	}
	return t.Def.Allocate
}

func paddedLen(n, alloc int) int {
	if alloc <= 1 {
		return n
	}
	return (n + alloc - 1) / alloc * alloc
}

func (t *Token) String() string {
	switch t.Kind {
	case KindComma:
		return "[,]"
	case KindInstruction, KindDirective:
		return fmt.Sprintf("[%s: %s]", t.Kind, t.Text)
	case KindRegister:
		return fmt.Sprintf("[Register: %s]", t.Text)
	case KindImmediate:
		return fmt.Sprintf("[Immediate: %s: %s: alloc=%d size=%d]", t.Text, t.Value, t.Allocate, t.Size)
	}
	e := t.entry()
	return fmt.Sprintf("[%s: %q: %s: alloc=%d size=%d]", t.Kind, t.Text, e.Value, t.alloc(), t.Size)
}

// Line is the token sequence of one source line.
type Line struct {
	Num    int
	Tokens []*Token
}

func (l Line) String() string {
	parts := make([]string, len(l.Tokens))
	for i, tok := range l.Tokens {
		parts[i] = tok.String()
	}
	return fmt.Sprintf("%d: %s", l.Num, strings.Join(parts, " "))
}

// Program is the ordered list of non-empty source lines.
type Program []Line
