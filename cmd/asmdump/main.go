package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"

	"lsc8/pkg/asm"
	"lsc8/pkg/listing"
)

const testSource = `; blink the port 1 led
        org 0
delay   equ 20h
start:  mov a, delay
loop:   dec a
        jnz loop
        out 1
        jmp start
pattern db 0aah, 55h
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	if err := dump(os.Stdout, src); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dump prints every stage of assembling src.
func dump(w io.Writer, src string) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	fmt.Fprintln(w, "Words")
	for i, line := range strings.Split(src, "\n") {
		if words := asm.Split(line); len(words) > 0 {
			fmt.Fprintf(w, "  %d: %q\n", i+1, words)
		}
	}
	fmt.Fprintln(w)

	log := logrus.New()
	log.SetOutput(w)
	a := asm.NewAssembler(asm.WithLogger(log))

	// Classify
	program, err := a.Classify(src)
	if err != nil {
		return fmt.Errorf("classify error: %w", err)
	}
	fmt.Fprintln(w, "Classified")
	for _, line := range program {
		fmt.Fprintln(w, " ", line)
	}
	fmt.Fprintln(w)

	// Resolve
	program, err = a.Resolve(program)
	if err != nil {
		return fmt.Errorf("resolve error: %w", err)
	}
	if err := a.Evaluate(program); err != nil {
		return fmt.Errorf("evaluate error: %w", err)
	}
	fmt.Fprintln(w, "Resolved")
	for _, line := range program {
		fmt.Fprintln(w, " ", line)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, a.Symbols())
	fmt.Fprintln(w)

	// code Generation
	image, sourceMap, err := a.Generate(program)
	if err != nil {
		return fmt.Errorf("codegen error: %w", err)
	}
	fmt.Fprintln(w, "Source Map")
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(false)
	printer.Println(sourceMap)
	fmt.Fprintln(w)

	fmt.Fprintln(w, listing.Format(image, 16))
	return nil
}
