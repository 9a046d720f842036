// Package config loads assembler settings from a TOML file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"lsc8/pkg/listing"
)

// FileName is looked up next to the source file when no path is given.
const FileName = "lsc8asm.toml"

type Config struct {
	// Strict turns ignored redefinitions into errors.
	Strict  bool `toml:"strict"`
	Verbose bool `toml:"verbose"`
	// Columns is the number of bytes per listing line; 0 keeps one line.
	Columns int `toml:"columns"`
	// Binary, when set, is where the raw image is written as well.
	Binary string `toml:"binary"`
	Header string `toml:"header"`
}

func Default() Config {
	return Config{Header: listing.Header}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), errors.Wrapf(err, "decoding %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), errors.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Columns < 0 {
		return Default(), errors.Errorf("%s: columns must not be negative", path)
	}
	return cfg, nil
}
