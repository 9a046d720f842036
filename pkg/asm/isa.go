package asm

// operandForm is the operand pattern an instruction accepts.
type operandForm int

const (
	formNone     operandForm = iota // no operands
	formTwo                         // Register, Comma, Operand
	formRegister                    // Register
	formPort                        // Immediate or Symbol, folded into the opcode
	formByte                        // Immediate or Symbol, one follow byte
	formTarget                      // Name or Immediate, two address bytes
	formPush                        // Register or Immediate
)

type opGroup int

const (
	grpHalt opGroup = iota
	grpMove
	grpIncDec
	grpPush
	grpPop
	grpALU
	grpIO
	grpReturn
	grpCall
	grpJump
	grpInt
	grpIret
	grpFlag
	grpUnencoded
)

// Condition flag codes, placed in bits 5:3 of conditional transfers.
const (
	flagNC = iota
	flagNZ
	flagNS
	flagNP
	flagC
	flagZ
	flagS
	flagP
)

const (
	opHalt      = 0b11_111_111
	opMoveReg   = 0b11_000_000
	opMoveImm   = 0b00_000_110
	opPush      = 0b01_000_100
	opPushImm   = 0b00_110_010
	opPopBit    = 0b00_000_010
	opALUReg    = 0b10_000_000
	opALUImm    = 0b00_000_100
	opIn        = 0b01_000_001
	opOut       = 0b01_100_001
	opRet       = 0b00_100_010
	opRetCond   = 0b00_000_011
	opCall      = 0b00_111_001
	opCallCond  = 0b01_000_010
	opJump      = 0b00_111_000
	opJumpCond  = 0b01_000_000
	opInt       = 0b00_101_010
	opIret      = 0b00_111_010
	opFlag      = 0b00_000_101
	maxPort     = 15
	addressSize = 2
)

type instruction struct {
	form  operandForm
	group opGroup
	code  byte // ALU select, flag code, I/O base or flag-instruction code
	cond  bool
}

func cond(group opGroup, flag byte) instruction {
	form := formTarget
	if group == grpReturn {
		form = formNone
	}
	return instruction{form: form, group: group, code: flag, cond: true}
}

var instructions = map[string]instruction{
	"hlt":  {form: formNone, group: grpHalt},
	"mov":  {form: formTwo, group: grpMove},
	"push": {form: formPush, group: grpPush},
	"pop":  {form: formRegister, group: grpPop},
	"in":   {form: formPort, group: grpIO, code: opIn},
	"out":  {form: formPort, group: grpIO, code: opOut},

	"inc": {form: formRegister, group: grpIncDec},
	"dec": {form: formRegister, group: grpIncDec, code: 1},
	"add": {form: formTwo, group: grpALU, code: 0},
	"adc": {form: formTwo, group: grpALU, code: 1},
	"sub": {form: formTwo, group: grpALU, code: 2},
	"sbb": {form: formTwo, group: grpALU, code: 3},
	"and": {form: formTwo, group: grpALU, code: 4},
	"xor": {form: formTwo, group: grpALU, code: 5},
	"or":  {form: formTwo, group: grpALU, code: 6},
	"cmp": {form: formTwo, group: grpALU, code: 7},

	"jmp":  {form: formTarget, group: grpJump},
	"call": {form: formTarget, group: grpCall},
	"ret":  {form: formNone, group: grpReturn},

	"clc": {form: formNone, group: grpFlag, code: 0},
	"stc": {form: formNone, group: grpFlag, code: 1},
	"cli": {form: formNone, group: grpFlag, code: 2},
	"sti": {form: formNone, group: grpFlag, code: 3},

	"jnc": cond(grpJump, flagNC), "jae": cond(grpJump, flagNC), "jnb": cond(grpJump, flagNC),
	"jc": cond(grpJump, flagC), "jb": cond(grpJump, flagC), "jnae": cond(grpJump, flagC),
	"jnz": cond(grpJump, flagNZ), "jne": cond(grpJump, flagNZ),
	"jz": cond(grpJump, flagZ), "je": cond(grpJump, flagZ),
	"jns": cond(grpJump, flagNS),
	"js":  cond(grpJump, flagS),
	"jnp": cond(grpJump, flagNP), "jpo": cond(grpJump, flagNP),
	"jp": cond(grpJump, flagP), "jpe": cond(grpJump, flagP),

	"cnc": cond(grpCall, flagNC), "cc": cond(grpCall, flagC),
	"cnz": cond(grpCall, flagNZ), "cz": cond(grpCall, flagZ),
	"cp": cond(grpCall, flagNS), "cm": cond(grpCall, flagS),
	"cpo": cond(grpCall, flagNP), "cpe": cond(grpCall, flagP),

	"rnc": cond(grpReturn, flagNC), "rc": cond(grpReturn, flagC),
	"rnz": cond(grpReturn, flagNZ), "rz": cond(grpReturn, flagZ),
	"rp": cond(grpReturn, flagNS), "rm": cond(grpReturn, flagS),
	"rpo": cond(grpReturn, flagNP), "rpe": cond(grpReturn, flagP),

	"int":  {form: formByte, group: grpInt},
	"iret": {form: formNone, group: grpIret},

	// Accepted by the syntax but without an opcode on this CPU.
	"nop":  {form: formNone, group: grpUnencoded},
	"into": {form: formNone, group: grpUnencoded},
	"rlc":  {form: formNone, group: grpUnencoded},
	"rol":  {form: formNone, group: grpUnencoded},
	"rrc":  {form: formNone, group: grpUnencoded},
	"ror":  {form: formNone, group: grpUnencoded},
	"ral":  {form: formNone, group: grpUnencoded},
	"rcl":  {form: formNone, group: grpUnencoded},
	"rar":  {form: formNone, group: grpUnencoded},
	"rcr":  {form: formNone, group: grpUnencoded},
}

// storage maps the data directives to their element size in bytes.
var storage = map[string]int{
	"db": 1,
	"dw": 2,
	"dd": 4,
	"dq": 8,
	"dt": 10,
}

var directives = map[string]bool{
	"db": true, "dw": true, "dd": true, "dq": true, "dt": true,
	"dup":  true,
	"byte": true, "word": true, "dword": true, "qword": true, "tbyte": true,
	"equ": true, "=": true,
	"end": true, "endp": true,
	"proc": true, "label": true,
	"org":  true,
	"near": true, "far": true,
}

// widths are the value widths an immediate may take, narrowest first.
var widths = [...]int{1, 2, 4, 8, 10}
