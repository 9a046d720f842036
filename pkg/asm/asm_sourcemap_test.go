package asm

import (
	"testing"
)

func TestAssembleSourceMap(t *testing.T) {
	code := `
; Line 2: Comment
org 100h        ; Line 3: origin, emits nothing
mov a, 10       ; Line 4: 2 bytes
                ; Line 5: Empty
label1:         ; Line 6: Label
add a, b        ; Line 7: 1 byte
count equ 3     ; Line 8: constant, emits nothing
jmp label1      ; Line 9: 3 bytes
msg db 'AB', 0  ; Line 10: 3 bytes
`
	// Expected byte layout:
	// 0x0100: mov a, 10 opcode (Line 4)
	// 0x0101: immediate 10
	// 0x0102: add a, b (Line 7). label1 on Line 6 points here.
	// 0x0103: jmp opcode (Line 9)
	// 0x0104: address low byte
	// 0x0105: address high byte
	// 0x0106: 'A' (Line 10)
	// 0x0107: 'B'
	// 0x0108: 0

	image, sourceMap, err := quietAssembler().Assemble(code)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(image) != 9 {
		t.Fatalf("len(image) = %d; want 9", len(image))
	}
	if image[4] != 0x02 || image[5] != 0x01 {
		t.Errorf("jump target = %02X %02X; want 02 01", image[4], image[5])
	}

	tests := []struct {
		addr uint16
		line int
	}{
		{0x0100, 4},
		{0x0102, 7},
		{0x0103, 9},
		{0x0106, 10},
	}

	for _, tc := range tests {
		if got := sourceMap[tc.addr]; got != tc.line {
			t.Errorf("sourceMap[0x%04X] = %d; want %d", tc.addr, got, tc.line)
		}
	}
	if len(sourceMap) != len(tests) {
		t.Errorf("len(sourceMap) = %d; want %d", len(sourceMap), len(tests))
	}
}
