package asm

import (
	"math/big"
)

// Generate emits the bytes of a resolved and evaluated program. The source
// map is keyed by CPU address, so it includes the origin.
func (a *Assembler) Generate(program Program) ([]byte, map[uint16]int, error) {
	image := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for _, line := range program {
		start := len(image)
		for i, tok := range line.Tokens {
			var err error
			if tok.Kind == KindInstruction {
				image, err = a.encode(image, line, i)
			} else {
				image, err = emit(image, line.Num, tok)
			}
			if err != nil {
				return nil, nil, err
			}
		}
		if addr := start + a.origin; len(image) > start && addr <= 0xFFFF {
			sourceMap[uint16(addr)] = line.Num
		}
	}
	a.log.Debugf("generated %d bytes at origin 0x%04X", len(image), a.origin)

	return image, sourceMap, nil
}

// emit appends the bytes of a value token. Tokens of size zero emit nothing.
func emit(image []byte, num int, tok *Token) ([]byte, error) {
	if tok.Size == 0 {
		return image, nil
	}
	if tok.Kind == KindName {
		return nil, lineErr(num, ErrUndefinedName, "%s", tok.Text)
	}

	e := tok.entry()
	switch e.Value.Kind {
	case ValueString:
		b := make([]byte, tok.Size)
		copy(b, e.Value.Str)
		return append(image, b...), nil
	case ValueInt:
		// Addresses are unsigned; other values may be written either way.
		signed := e.Kind != KindLabel
		b, ok := littleEndian(e.Value.Int, tok.Size, signed)
		if !ok {
			return nil, lineErr(num, ErrWrongOperandSize, "%s = %s does not fit in %d bytes", tok.Text, e.Value.Int, tok.Size)
		}
		return append(image, b...), nil
	}
	return nil, lineErr(num, ErrUndefinedName, "%s has no value", tok.Text)
}

// littleEndian encodes v in size bytes, two's complement when negative.
func littleEndian(v *big.Int, size int, signed bool) ([]byte, bool) {
	if !fits(v, size, signed) {
		return nil, false
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), uint(8*size)))
	}

	b := make([]byte, size)
	be := u.Bytes()
	for i := range be {
		b[i] = be[len(be)-1-i]
	}
	return b, true
}

// encode appends the opcode of the instruction at line.Tokens[pos].
func (a *Assembler) encode(image []byte, line Line, pos int) ([]byte, error) {
	toks := line.Tokens
	name := toks[pos].Text
	ins := instructions[name]

	var op byte
	switch ins.group {
	case grpHalt:
		op = opHalt
	case grpMove:
		dst, src := toks[pos+1], toks[pos+3]
		if src.Kind == KindRegister {
			op = opMoveReg | byte(dst.Reg)<<3 | byte(src.Reg)
		} else {
			op = opMoveImm | byte(dst.Reg)<<3
		}
	case grpIncDec:
		op = byte(toks[pos+1].Reg)<<3 | ins.code
	case grpPush:
		if reg := toks[pos+1]; reg.Kind == KindRegister {
			op = opPush | byte(reg.Reg)<<3
		} else {
			op = opPushImm
		}
	case grpPop:
		op = opPush | opPopBit | byte(toks[pos+1].Reg)<<3
	case grpALU:
		if src := toks[pos+3]; src.Kind == KindRegister {
			op = opALUReg | ins.code<<3 | byte(src.Reg)
		} else {
			op = opALUImm | ins.code<<3
		}
	case grpIO:
		port, err := portNumber(line.Num, toks[pos+1])
		if err != nil {
			return nil, err
		}
		op = ins.code | port<<1
	case grpReturn:
		op = conditional(ins, opRet, opRetCond)
	case grpCall:
		op = conditional(ins, opCall, opCallCond)
	case grpJump:
		op = conditional(ins, opJump, opJumpCond)
	case grpInt:
		op = opInt
	case grpIret:
		op = opIret
	case grpFlag:
		op = opFlag | ins.code<<4
	case grpUnencoded:
		a.log.Warnf("line %d: %s has no opcode on this CPU, emitting 0x%02X", line.Num, name, opHalt)
		op = opHalt
	}
	return append(image, op), nil
}

func conditional(ins instruction, plain, cond byte) byte {
	if !ins.cond {
		return plain
	}
	return cond | ins.code<<3
}

func portNumber(num int, tok *Token) (byte, error) {
	e := tok.entry()
	if e.Value.Kind != ValueInt {
		return 0, lineErr(num, ErrWrongOperandValue, "port %s", tok.Text)
	}
	if p := e.Value.Int; p.Sign() < 0 || p.Cmp(big.NewInt(maxPort)) > 0 {
		return 0, lineErr(num, ErrWrongOperandValue, "port %s out of range 0..%d", p, maxPort)
	}
	return byte(e.Value.Int.Int64()), nil
}
