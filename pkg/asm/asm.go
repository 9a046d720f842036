package asm

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Assembler turns LSC8 assembly source into a raw memory image. It keeps the
// symbol table and the resolved program of the last run for inspection.
type Assembler struct {
	symbols *SymbolTable
	log     logrus.FieldLogger
	strict  bool

	origin    int
	originSet bool
	program   Program
}

type Option func(*Assembler)

// WithStrict makes a redefined name an error instead of a warning.
func WithStrict(strict bool) Option {
	return func(a *Assembler) {
		a.strict = strict
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Assembler) {
		a.log = log
	}
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		symbols: NewSymbolTable(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

// Assemble runs every stage over code and returns the image together with a
// map from CPU address to the source line that emitted it.
func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	program, err := a.Classify(code)
	if err != nil {
		return nil, nil, err
	}
	if program, err = a.Resolve(program); err != nil {
		return nil, nil, err
	}
	if err := a.Evaluate(program); err != nil {
		return nil, nil, err
	}
	a.program = program

	return a.Generate(program)
}

// Classify splits and classifies every line of code, fills a fresh symbol
// table and binds identifier occurrences to it. Lines without words are
// dropped; line numbers are 1-based.
func (a *Assembler) Classify(code string) (Program, error) {
	a.symbols = NewSymbolTable()
	a.origin, a.originSet = 0, false
	a.program = nil

	var program Program
	for i, raw := range strings.Split(code, "\n") {
		words := Split(strings.TrimSuffix(raw, "\r"))
		if len(words) == 0 {
			continue
		}
		tokens, err := a.classifyLine(i+1, words)
		if err != nil {
			return nil, err
		}
		program = append(program, Line{Num: i + 1, Tokens: tokens})
	}
	a.log.Debugf("classified %d lines, %d names", len(program), a.symbols.Len())

	return a.bindNames(program), nil
}

// Evaluate computes every constant expression left after Resolve, now that
// label addresses are known, and stores the results in place.
func (a *Assembler) Evaluate(program Program) error {
	ev := newEvaluator(a.symbols, false)
	for _, line := range program {
		for _, tok := range line.Tokens {
			if tok.Kind != KindImmediate || tok.Value.Kind != ValueExpr {
				continue
			}
			v, err := ev.eval(tok.Value.Expr, line.Num)
			if err != nil {
				return err
			}
			tok.Value = bigValue(v)
		}
	}

	for _, name := range a.symbols.Names() {
		def, _ := a.symbols.Lookup(name)
		if def.Value.Kind != ValueExpr {
			continue
		}
		if _, err := ev.resolve(def, def.Line); err != nil {
			return err
		}
	}
	a.log.Debugf("evaluated expressions over %d names", a.symbols.Len())
	return nil
}

// Symbols returns the symbol table of the last run.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// Origin returns the load address set by org, 0 when there was none.
func (a *Assembler) Origin() int {
	return a.origin
}

// Program returns the resolved program of the last successful run.
func (a *Assembler) Program() Program {
	return a.program
}
