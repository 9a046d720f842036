package asm

import (
	"errors"
	"math/big"
	"strings"
)

// maxDupElements caps dup expansion; the address space is 64K.
const maxDupElements = 1 << 16

// Resolve validates every line, applies the directives and assigns sizes
// and addresses. It returns the program without its zero-byte lines; label
// values include the origin.
func (a *Assembler) Resolve(program Program) (Program, error) {
	out := make(Program, 0, len(program))
	for _, line := range program {
		tokens, err := a.resolveLine(line)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}
		out = append(out, Line{Num: line.Num, Tokens: tokens})
	}
	a.log.Debugf("directive pass: %d of %d lines kept, origin 0x%04X", len(out), len(program), a.origin)

	pc := 0
	for _, line := range out {
		n, err := a.sizeLine(line, pc)
		if err != nil {
			return nil, err
		}
		pc += n
	}
	a.log.Debugf("address pass: %d bytes", pc)

	return out, nil
}

// isDefinition reports whether tok is a table entry (or an ignored
// redefinition) rather than an occurrence.
func isDefinition(tok *Token) bool {
	return tok.Kind.IsName() && tok.Kind != KindName && tok.Def == nil
}

// resolveLine runs the directive pass over one line. A nil result deletes
// the line.
func (a *Assembler) resolveLine(line Line) ([]*Token, error) {
	num, toks := line.Num, line.Tokens
	pos := 0
	if isDefinition(toks[0]) {
		pos = 1
	}
	if pos == len(toks) {
		return toks, nil
	}

	switch action := toks[pos]; action.Kind {
	case KindInstruction:
		if err := a.fold(num, toks); err != nil {
			return nil, err
		}
		return toks, checkInstruction(num, toks, pos)
	case KindDirective:
		return a.resolveDirective(num, toks, pos)
	default:
		return nil, lineErr(num, ErrWrongParameter, "%s", action.Text)
	}
}

// fold evaluates the constant expressions whose names already have values,
// giving them their minimal width. Data lines are folded after dup
// expansion since a dup group is not an expression.
func (a *Assembler) fold(num int, toks []*Token) error {
	ev := newEvaluator(a.symbols, true)
	for _, tok := range toks {
		if tok.Kind != KindImmediate || tok.Value.Kind != ValueExpr {
			continue
		}
		v, err := ev.eval(tok.Value.Expr, num)
		if errors.Is(err, errNotReady) {
			continue
		}
		if err != nil {
			return err
		}
		w, ok := minWidth(v)
		if !ok {
			return lineErr(num, ErrWrongOperandSize, "%s does not fit in %d bytes", tok.Text, widths[len(widths)-1])
		}
		tok.Value = bigValue(v)
		tok.Allocate = max(tok.Allocate, w)
		tok.Size = tok.Allocate
	}
	return nil
}

func checkInstruction(num int, toks []*Token, pos int) error {
	name := toks[pos].Text
	ins := instructions[name]
	ops := toks[pos+1:]

	if ins.form == formNone {
		if len(ops) > 0 {
			return lineErr(num, ErrTooManyOperands, "%s needs 0 args", name)
		}
		return nil
	}

	if ins.form == formTwo {
		switch {
		case len(ops) > 1 && ops[1].Kind != KindComma:
			return lineErr(num, ErrCommaExpected, "%s", ops[1].Text)
		case len(ops) < 3:
			return lineErr(num, ErrFewOperands, "%s needs 2 args", name)
		case len(ops) > 3:
			return lineErr(num, ErrTooManyOperands, "%s needs 2 args", name)
		}
		dst, src := ops[0], ops[2]
		if dst.Kind != KindRegister {
			return lineErr(num, ErrWrongParameter, "%s", dst.Text)
		}
		if !isOperand(src) {
			return lineErr(num, ErrWrongParameter, "%s", src.Text)
		}
		if dst.Reg == RegMem && src.Kind == KindRegister && src.Reg == RegMem {
			return lineErr(num, ErrWrongParameter, "%s mem, mem", name)
		}
		if ins.group != grpMove && dst.Reg != RegA {
			return lineErr(num, ErrWrongParameter, "%s destination must be a", name)
		}
		return nil
	}

	switch {
	case len(ops) < 1:
		return lineErr(num, ErrFewOperands, "%s needs 1 args", name)
	case len(ops) > 1:
		return lineErr(num, ErrTooManyOperands, "%s needs 1 args", name)
	}

	op := ops[0]
	ok := false
	switch ins.form {
	case formRegister:
		ok = op.Kind == KindRegister
	case formPort, formByte:
		ok = op.Kind == KindImmediate || op.Kind == KindSymbol
	case formTarget:
		ok = op.Kind == KindImmediate || op.Kind.IsName()
	case formPush:
		ok = op.Kind == KindRegister || op.Kind == KindImmediate
	}
	if !ok && op.Kind == KindName {
		return lineErr(num, ErrUndefinedName, "%s", op.Text)
	}
	if !ok {
		return lineErr(num, ErrWrongParameter, "%s %s", name, op.Text)
	}
	return nil
}

func isOperand(tok *Token) bool {
	return tok.Kind == KindRegister || tok.Kind == KindImmediate || tok.Kind.IsName()
}

func (a *Assembler) resolveDirective(num int, toks []*Token, pos int) ([]*Token, error) {
	name := toks[pos].Text
	switch name {
	case "db", "dw", "dd", "dq", "dt":
		return a.storageDirective(num, toks, pos)
	case "equ", "=":
		if err := a.fold(num, toks); err != nil {
			return nil, err
		}
		return nil, a.defineConstant(num, toks, pos)
	case "org":
		if err := a.fold(num, toks); err != nil {
			return nil, err
		}
		return nil, a.setOrigin(num, toks, pos)
	case "dup":
		return nil, lineErr(num, ErrWrongParameter, "dup outside a data directive")
	}

	// end, endp, proc, label, near, far and the size keywords emit nothing;
	// a label in front of them keeps its place.
	if pos == 0 {
		return nil, nil
	}
	return toks[:pos], nil
}

func (a *Assembler) defineConstant(num int, toks []*Token, pos int) error {
	if pos != 1 || toks[0].Kind != KindSymbol {
		return lineErr(num, ErrWrongParameter, "%s needs a name", toks[pos].Text)
	}
	if len(toks) < 3 {
		return lineErr(num, ErrFewOperands, "%s needs 1 args", toks[pos].Text)
	}

	sym, rhs := toks[0], toks[2]
	var width int
	switch {
	case rhs.Kind == KindImmediate:
		width = rhs.Size
		sym.Value = rhs.Value
	case rhs.Kind == KindName:
		return lineErr(num, ErrUndefinedName, "%s", rhs.Text)
	case rhs.Kind.IsName():
		width = rhs.width()
		sym.Value = valueOf(rhs)
	default:
		return lineErr(num, ErrWrongParameter, "%s", rhs.Text)
	}

	if width > sym.Allocate {
		sym.Allocate = width
	}
	return nil
}

// valueOf returns the value an operand stands for, deferring to an
// expression naming it when the value is not known yet.
func valueOf(tok *Token) Value {
	e := tok.entry()
	switch e.Value.Kind {
	case ValueInt, ValueString:
		return e.Value
	case ValueExpr:
		if tok.Kind == KindImmediate {
			return e.Value
		}
	}
	return Value{Kind: ValueExpr, Expr: tok.Text}
}

func (a *Assembler) setOrigin(num int, toks []*Token, pos int) error {
	switch {
	case pos != 0:
		return lineErr(num, ErrWrongParameter, "org must start the line")
	case len(toks) < 2:
		return lineErr(num, ErrFewOperands, "org needs 1 args")
	case len(toks) > 2:
		return lineErr(num, ErrTooManyOperands, "org needs 1 args")
	}

	op := toks[1]
	if op.Kind != KindImmediate || op.Value.Kind != ValueInt || op.Allocate > addressSize {
		return lineErr(num, ErrWrongParameter, "org %s", op.Text)
	}
	if op.Value.Int.Sign() < 0 {
		return lineErr(num, ErrWrongOperandValue, "org %s", op.Text)
	}

	if a.originSet {
		a.log.Debugf("line %d: origin already set, ignoring org %s", num, op.Text)
		return nil
	}
	a.origin = int(op.Value.Int.Int64())
	a.originSet = true
	return nil
}

func (a *Assembler) storageDirective(num int, toks []*Token, pos int) ([]*Token, error) {
	dir := toks[pos]
	elem := storage[dir.Text]
	if len(toks) == pos+1 {
		return nil, lineErr(num, ErrFewOperands, "%s needs values", dir.Text)
	}

	ops, err := a.expandDup(num, toks[pos+1:])
	if err != nil {
		return nil, err
	}
	if err := a.fold(num, ops); err != nil {
		return nil, err
	}

	for i, op := range ops {
		if i%2 == 1 {
			if op.Kind != KindComma {
				return nil, lineErr(num, ErrCommaExpected, "%s", op.Text)
			}
			continue
		}
		if op.Kind != KindImmediate && !op.Kind.IsName() {
			return nil, lineErr(num, ErrWrongParameter, "%s", op.Text)
		}
		if err := widen(num, op, elem); err != nil {
			return nil, err
		}
	}
	if len(ops)%2 == 0 {
		return nil, lineErr(num, ErrWrongParameter, "%s ends with a comma", dir.Text)
	}

	if head := toks[0]; pos == 1 && head.Kind == KindVariable {
		head.Allocate = elem
		head.Value = valueOf(ops[0])
	}

	out := make([]*Token, 0, pos+1+len(ops))
	out = append(out, toks[:pos+1]...)
	return append(out, ops...), nil
}

// widen brings a data value up to the element size of its directive.
// Values wider than the element are rejected.
func widen(num int, op *Token, elem int) error {
	switch {
	case op.Kind == KindName:
		return nil // reported when sizes are assigned
	case op.Kind == KindImmediate:
		if op.Value.Kind != ValueString && op.Allocate > elem {
			return lineErr(num, ErrWrongOperandSize, "operand %q over %d byte", op.Text, elem)
		}
		op.Allocate = elem
		op.Size = op.width()
	default:
		if op.entry().Value.Kind != ValueString && op.alloc() > elem {
			return lineErr(num, ErrWrongOperandSize, "operand %q over %d byte", op.Text, elem)
		}
		op.Allocate = elem
	}
	return nil
}

// expandDup rewrites a data operand list carrying a dup marker. Two forms
// are accepted:
//
//	db 4 dup(1, 2)     ; the group, 4 times: 1, 2, 1, 2, 1, 2, 1, 2
//	db 1, 2, 3 dup(2)  ; the values after the first, 2 times: 1, 2, 3, 2, 3
func (a *Assembler) expandDup(num int, ops []*Token) ([]*Token, error) {
	at := -1
	for i, op := range ops {
		if op.Kind == KindDirective && op.Text == "dup" {
			at = i
			break
		}
	}
	if at < 0 {
		return ops, nil
	}
	if at == 0 || at+2 != len(ops) {
		return nil, lineErr(num, ErrWrongParameter, "dup needs a count and a group")
	}

	if at == 1 {
		count, err := a.constInt(num, ops[0])
		if err != nil {
			return nil, err
		}
		group, err := a.dupGroup(num, ops[2])
		if err != nil {
			return nil, err
		}
		return repeat(num, nil, group, count)
	}

	if ops[1].Kind != KindComma {
		return nil, lineErr(num, ErrCommaExpected, "%s", ops[1].Text)
	}
	n, err := a.constInt(num, ops[at+1])
	if err != nil {
		return nil, err
	}
	return repeat(num, ops[:1], ops[1:at], n)
}

// repeat appends n copies of tail to head. Copies are joined by a comma
// unless tail already starts with one; the tokens of each copy are kept
// as written.
func repeat(num int, head, tail []*Token, n int) ([]*Token, error) {
	if n < 1 {
		return nil, lineErr(num, ErrWrongOperandValue, "dup count %d", n)
	}
	if len(head)+n*(len(tail)+1) > 2*maxDupElements {
		return nil, lineErr(num, ErrWrongOperandValue, "dup count %d too large", n)
	}

	out := append([]*Token(nil), head...)
	for i := 0; i < n; i++ {
		if i > 0 && tail[0].Kind != KindComma {
			out = append(out, &Token{Kind: KindComma, Text: ","})
		}
		for _, tok := range tail {
			clone := *tok
			out = append(out, &clone)
		}
	}
	return out, nil
}

// dupGroup returns the values inside a dup(...) group as operand tokens.
func (a *Assembler) dupGroup(num int, arg *Token) ([]*Token, error) {
	if arg.Kind != KindImmediate || arg.Value.Kind != ValueExpr {
		return []*Token{arg}, nil
	}

	var group []*Token
	for i, part := range splitValues(arg.Value.Expr) {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, lineErr(num, ErrWrongParameter, "empty value in %s", arg.Text)
		}
		tok, err := a.operandToken(num, part)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			group = append(group, &Token{Kind: KindComma, Text: ","})
		}
		group = append(group, tok)
	}
	return group, nil
}

// splitValues cuts a value list at the commas that are outside quotes and
// parentheses.
func splitValues(list string) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, list[start:i])
			start = i + 1
		}
	}
	return append(parts, list[start:])
}

// operandToken classifies one value written inside a dup group.
func (a *Assembler) operandToken(num int, text string) (*Token, error) {
	word := text
	if text[0] != '\'' && text[0] != '"' {
		word = strings.ToLower(text)
	}
	if v, ok := parseLiteral(word); ok {
		return newImmediate(num, word, v)
	}
	if identifier.MatchString(word) {
		if _, ok := registers[word]; !ok {
			return a.bind(&Token{Kind: KindName, Text: word}), nil
		}
	}
	return newImmediate(num, "("+text+")", Value{Kind: ValueExpr, Expr: text})
}

// constInt returns the integer an operand must already stand for.
func (a *Assembler) constInt(num int, tok *Token) (int, error) {
	var v *big.Int
	switch {
	case tok.Kind == KindImmediate && tok.Value.Kind == ValueExpr:
		n, err := newEvaluator(a.symbols, true).eval(tok.Value.Expr, num)
		if errors.Is(err, errNotReady) {
			return 0, lineErr(num, ErrWrongParameter, "%s is not a constant", tok.Text)
		}
		if err != nil {
			return 0, err
		}
		v = n
	case (tok.Kind == KindImmediate || tok.Kind.IsName()) && tok.entry().Value.Kind == ValueInt:
		v = tok.entry().Value.Int
	default:
		return 0, lineErr(num, ErrWrongParameter, "%s is not a constant", tok.Text)
	}
	if !v.IsInt64() || v.Int64() > maxDupElements {
		return 0, lineErr(num, ErrWrongOperandValue, "count %s too large", v)
	}
	return int(v.Int64()), nil
}

// sizeLine runs the address pass over one line starting at pc and returns
// the number of bytes the line emits.
func (a *Assembler) sizeLine(line Line, pc int) (int, error) {
	num, toks := line.Num, line.Tokens
	pos := 0
	if head := toks[0]; isDefinition(head) {
		head.Size = 0
		if head.Kind == KindLabel {
			head.Value = IntValue(int64(pc + a.origin))
		}
		pos = 1
	}
	if pos == len(toks) {
		return 0, nil
	}

	var err error
	if toks[pos].Kind == KindInstruction {
		err = sizeInstruction(num, toks, pos)
	} else {
		err = sizeData(num, toks[pos+1:])
	}
	if err != nil {
		return 0, err
	}

	n := 0
	for _, tok := range toks[pos:] {
		n += tok.Size
	}
	return n, nil
}

func sizeData(num int, ops []*Token) error {
	for _, op := range ops {
		switch {
		case op.Kind == KindComma:
		case op.Kind == KindName:
			return lineErr(num, ErrUndefinedName, "%s", op.Text)
		default:
			op.Size = op.width()
		}
	}
	return nil
}

func sizeInstruction(num int, toks []*Token, pos int) error {
	ins := instructions[toks[pos].Text]
	toks[pos].Size = 1

	switch ins.form {
	case formTwo:
		if src := toks[pos+3]; src.Kind != KindRegister {
			return operandSize(num, src, 1)
		}
	case formPort:
		op := toks[pos+1]
		if err := operandSize(num, op, 1); err != nil {
			return err
		}
		op.Size = 0 // folded into the opcode
	case formByte:
		return operandSize(num, toks[pos+1], 1)
	case formPush:
		if op := toks[pos+1]; op.Kind == KindImmediate {
			return operandSize(num, op, 1)
		}
	case formTarget:
		op := toks[pos+1]
		switch {
		case op.Kind == KindName:
			return lineErr(num, ErrUndefinedName, "%s", op.Text)
		case op.entry().Value.Kind == ValueString:
			return lineErr(num, ErrWrongParameter, "%s", op.Text)
		case op.alloc() > addressSize:
			return lineErr(num, ErrWrongOperandSize, "operand %q over %d byte", op.Text, addressSize)
		}
		op.Allocate = addressSize
		op.Size = addressSize
	}
	return nil
}

// operandSize checks that a value operand is exactly want bytes wide and
// sets its size accordingly.
func operandSize(num int, op *Token, want int) error {
	if op.Kind == KindName {
		return lineErr(num, ErrUndefinedName, "%s", op.Text)
	}
	if w := op.width(); w != want {
		return lineErr(num, ErrWrongOperandSize, "operand %q over %d byte", op.Text, want)
	}
	op.Size = want
	return nil
}
