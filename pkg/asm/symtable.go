package asm

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolTable maps identifiers to the Label, Variable or Symbol token that
// defined them. Names are case-insensitive and the first definition wins.
type SymbolTable struct {
	entries map[string]*Token
	order   []string // definition order
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		entries: make(map[string]*Token),
	}
}

// Register adds def under name unless the name is already taken. It
// reports whether def became the entry.
func (s *SymbolTable) Register(name string, def *Token) bool {
	key := strings.ToLower(name)
	if _, exists := s.entries[key]; exists {
		return false
	}
	s.entries[key] = def
	s.order = append(s.order, key)
	return true
}

// Lookup returns the entry for name and whether it was found.
func (s *SymbolTable) Lookup(name string) (*Token, bool) {
	def, ok := s.entries[strings.ToLower(name)]
	return def, ok
}

// Names returns the registered names in definition order.
func (s *SymbolTable) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *SymbolTable) Len() int {
	return len(s.entries)
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.entries) == 0 {
		sb.WriteString("Names: (empty)\n")
		return sb.String()
	}

	sb.WriteString("Names:\n")
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def := s.entries[name]
		fmt.Fprintf(&sb, "  %-20s  %-8s  Value: %s (Width: %d, Line: %d)\n", name, def.Kind, def.Value, def.Allocate, def.Line)
	}
	return sb.String()
}
