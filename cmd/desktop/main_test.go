package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lsc8/pkg/config"
	"lsc8/pkg/listing"
)

func TestLoadWiringIntegration(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	code := "org 10h\nstart: mov a, 1\njmp start\ndb 20 dup(0eeh)\n"
	if err := os.WriteFile(src, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}

	image, sourceMap, origin, err := load(src, config.Default())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if origin != 0x10 {
		t.Errorf("origin = 0x%X; want 0x10", origin)
	}
	if len(image) != 25 {
		t.Fatalf("len(image) = %d; want 25", len(image))
	}

	txt := filepath.Join(dir, "prog.txt")
	if err := os.WriteFile(txt, []byte(listing.Format(image, 8)), 0o644); err != nil {
		t.Fatal(err)
	}
	again, noMap, _, err := load(txt, config.Default())
	if err != nil {
		t.Fatalf("load listing failed: %v", err)
	}
	if string(again) != string(image) || noMap != nil {
		t.Errorf("listing load = %X, %v; want %X, nil", again, noMap, image)
	}

	v := newViewer(image, sourceMap, origin, 1)
	if got := v.totalRows(); got != 2 {
		t.Errorf("totalRows() = %d; want 2", got)
	}
	if got := v.row(0); !strings.HasPrefix(got, "0010  06 01 38 10 00 EE") {
		t.Errorf("row(0) = %q", got)
	}
	if got := v.status(); !strings.HasSuffix(got, "line 2") {
		t.Errorf("status() = %q; want line 2", got)
	}

	v.move(1)
	if v.cursor != 1 || v.top != 1 {
		t.Errorf("after move(1) cursor=%d top=%d; want 1, 1", v.cursor, v.top)
	}
	if got := v.row(1); !strings.HasPrefix(got, "0020  EE") {
		t.Errorf("row(1) = %q", got)
	}
	if got := v.status(); !strings.HasSuffix(got, "line 4") {
		t.Errorf("status() = %q; want line 4", got)
	}

	v.move(10)
	if v.cursor != 1 {
		t.Errorf("cursor past the end = %d; want 1", v.cursor)
	}
	v.move(-10)
	if v.cursor != 0 || v.top != 0 {
		t.Errorf("after move(-10) cursor=%d top=%d; want 0, 0", v.cursor, v.top)
	}
}

func TestViewerEmpty(t *testing.T) {
	v := newViewer(nil, nil, 0, 4)
	v.move(3)
	if v.cursor != 0 || len(v.visible()) != 0 {
		t.Errorf("empty viewer cursor=%d visible=%v", v.cursor, v.visible())
	}
	if got := v.status(); got != "empty image" {
		t.Errorf("status() = %q", got)
	}
}
