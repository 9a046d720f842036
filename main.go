//go:build !js

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lsc8/pkg/asm"
	"lsc8/pkg/config"
	"lsc8/pkg/listing"
	"lsc8/pkg/utils"
)

// usageError marks failures caused by the command line rather than the
// source being assembled.
type usageError struct{ error }

type options struct {
	out        string
	bin        string
	configPath string
	columns    int
	write      bool
	verbose    bool
	strict     bool
}

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		var ue usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "lsc8asm <file.asm>",
		Short: "Assemble source code into the byte code of the 8-bit LogiSim CPU",
		Example: `  lsc8asm file.asm
  lsc8asm file.asm -o file.txt -v`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args[0], opts)
			if err != nil {
				return err
			}
			out := opts.out
			if out == "" && opts.write {
				out = utils.DefaultOutputPath(args[0], ".txt")
			}
			return run(stdout, stderr, args[0], out, cfg)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.out, "out", "o", "", "write the listing to this LogiSim file")
	flags.BoolVarP(&opts.write, "write", "w", false, "write the listing next to the source as <file>.txt")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&opts.strict, "strict", false, "treat a redefined name as an error")
	flags.StringVar(&opts.bin, "bin", "", "also write the raw image to this file")
	flags.IntVar(&opts.columns, "columns", 0, "bytes per listing line (0: one line, or the terminal width)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default: "+config.FileName+" next to the source)")

	return cmd
}

// loadConfig reads the config file and lets flags given on the command line
// override it.
func loadConfig(cmd *cobra.Command, src string, opts options) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = utils.Sibling(src, config.FileName); err != nil {
			return config.Config{}, errors.Wrapf(err, "locating config for %s", src)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if flags.Changed("bin") {
		cfg.Binary = opts.bin
	}
	if flags.Changed("columns") {
		if opts.columns < 0 {
			return config.Config{}, usageError{errors.New("--columns must not be negative")}
		}
		cfg.Columns = opts.columns
	}
	return cfg, nil
}

func run(stdout, stderr io.Writer, src, out string, cfg config.Config) error {
	log := logrus.New()
	log.SetOutput(stderr)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	source, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, "reading %s", src)
	}

	a := asm.NewAssembler(asm.WithLogger(log), asm.WithStrict(cfg.Strict))
	image, _, err := a.Assemble(string(source))
	if err != nil {
		return errors.Wrapf(err, "assembling %s", src)
	}

	if cfg.Verbose {
		dump(stderr, a)
	}

	if out != "" {
		if err := writeListing(out, image, cfg.Columns); err != nil {
			return err
		}
		log.Debugf("wrote %d bytes -> %s", len(image), out)
	}
	if cfg.Binary != "" {
		if err := os.WriteFile(cfg.Binary, image, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", cfg.Binary)
		}
		log.Debugf("wrote %d bytes -> %s", len(image), cfg.Binary)
	}

	if out == "" || cfg.Verbose {
		fmt.Fprintf(stdout, "Result:\n%s\n", listing.Format(image, columnsFor(stdout, cfg.Columns)))
	}
	return nil
}

func writeListing(path string, image []byte, columns int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := listing.Write(f, image, columns); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// columnsFor fits the printed listing to the terminal when no explicit
// width was asked for. Each byte takes three characters.
func columnsFor(w io.Writer, columns int) int {
	if columns > 0 {
		return columns
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < 3 {
		return 0
	}
	return width / 3
}

// symbolEntry is the dumped view of one symbol table entry.
type symbolEntry struct {
	Kind  string
	Value string
	Width int
	Line  int
}

func dump(w io.Writer, a *asm.Assembler) {
	printer := pp.New()
	printer.SetOutput(w)
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		printer.SetColoringEnabled(false)
	}

	symbols := a.Symbols()
	entries := make(map[string]symbolEntry, symbols.Len())
	for _, name := range symbols.Names() {
		def, _ := symbols.Lookup(name)
		entries[name] = symbolEntry{Kind: def.Kind.String(), Value: def.Value.String(), Width: def.Allocate, Line: def.Line}
	}
	fmt.Fprintln(w, "Symbol Table")
	printer.Println(entries)

	fmt.Fprintf(w, "Program (origin 0x%04X)\n", a.Origin())
	for _, line := range a.Program() {
		fmt.Fprintln(w, " ", line)
	}
}
