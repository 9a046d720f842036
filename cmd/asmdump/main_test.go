package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"lsc8/pkg/asm"
)

func TestDumpStages(t *testing.T) {
	var buf bytes.Buffer
	if err := dump(&buf, testSource); err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Words",
		"Classified",
		"Resolved",
		"Names:",
		"Source Map",
		"v2.0 raw\n06 20 01 48 02 00 63 38 00 00 AA 55",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestDumpStageError(t *testing.T) {
	tests := []struct {
		src   string
		stage string
		want  error
	}{
		{"mov a, #", "classify error", asm.ErrUnknownWord},
		{"jmp nowhere", "resolve error", asm.ErrUndefinedName},
		{"out 20", "codegen error", asm.ErrWrongOperandValue},
	}

	for _, tc := range tests {
		var buf bytes.Buffer
		err := dump(&buf, tc.src)
		if err == nil || !strings.HasPrefix(err.Error(), tc.stage) {
			t.Errorf("dump(%q) error = %v; want %s", tc.src, err, tc.stage)
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("dump(%q) error = %v; want %v", tc.src, err, tc.want)
		}
	}
}
