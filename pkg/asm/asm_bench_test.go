package asm

import (
	"fmt"
	"strings"
	"testing"
)

// smallProgram is a counter loop.
const smallProgram = `
    mov a, 10
    mov b, 0
loop:
    add a, b
    sub a, 1
    jnz loop
    hlt
`

// mediumProgram has several subroutines, constants, an origin and data.
const mediumProgram = `
        org 100h
port    equ 3
step    = (1 << 2)

        jmp main

double  proc
        add a, a
        ret
double  endp

negate:
        xor a, 0ffh
        add a, 1
        ret

emit:
        out port
        ret

main:
        mov a, step
        call double
        call negate
        push a
        pop b
        mov mem, b
        cmp a, 0
        jz done
        call emit
done:
        hlt

greeting db 'Hello, World!', 0
table    dw 10h, 20h, 30h, 40h
zeros    db 16 dup(0)
`

// largeProgram repeats a block of typical code with uniquely named labels.
var largeProgram = func() string {
	var sb strings.Builder
	sb.WriteString("        org 0\n        jmp start\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, `
fn%[1]d:
        mov b, %[1]d
loop%[1]d:
        add a, b
        adc a, 1
        sbb a, c
        and a, 7fh
        or a, 80h
        dec b
        jnz loop%[1]d
        cc fn%[1]d
        ret
data%[1]d dw fn%[1]d, (loop%[1]d + 2)
`, i)
	}
	sb.WriteString("start:\n")
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "        call fn%d\n", i)
	}
	sb.WriteString("        hlt\nmsg db 'Benchmark complete', 0\n")
	return sb.String()
}()

func TestBenchmarkProgramsAssemble(t *testing.T) {
	for name, code := range map[string]string{
		"small":  smallProgram,
		"medium": mediumProgram,
		"large":  largeProgram,
	} {
		if _, _, err := quietAssembler().Assemble(code); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func BenchmarkAssemble_Small(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, err := Assemble(smallProgram)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Medium(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, err := Assemble(mediumProgram)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Large(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, err := Assemble(largeProgram)
		if err != nil {
			b.Fatal(err)
		}
	}
}
