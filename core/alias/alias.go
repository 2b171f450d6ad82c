// Package alias holds the session's command alias table.
package alias

import (
	"errors"
	"strings"
)

// DefaultCapacity bounds the number of live aliases in a session.
const DefaultCapacity = 64

// ErrCapacityExceeded is returned by Set once the table is full.
var ErrCapacityExceeded = errors.New("alias table full")

// ErrNotFound is returned by Remove for names that aren't defined.
var ErrNotFound = errors.New("alias not found")

// Entry is a single name to expansion-text mapping.
type Entry struct {
	Name  string
	Value string
}

// Table is a bounded, insertion-ordered alias table. Names are unique;
// setting an existing name overwrites its value in place.
//
// The table is only ever touched from the interpreter's main loop, so it
// carries no locking.
type Table struct {
	entries  []Entry
	capacity int
}

// NewTable returns an empty table bounded at DefaultCapacity.
func NewTable() *Table {
	return &Table{capacity: DefaultCapacity}
}

func (t *Table) index(name string) int {
	for i := range t.entries {
		if t.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Set defines or overwrites an alias. A full table rejects new names with
// ErrCapacityExceeded but still allows overwrites.
func (t *Table) Set(name, value string) error {
	if i := t.index(name); i >= 0 {
		t.entries[i].Value = value
		return nil
	}
	if len(t.entries) >= t.capacity {
		return ErrCapacityExceeded
	}
	t.entries = append(t.entries, Entry{Name: name, Value: value})
	return nil
}

// Remove deletes an alias, preserving the order of the rest.
func (t *Table) Remove(name string) error {
	i := t.index(name)
	if i < 0 {
		return ErrNotFound
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return nil
}

// Resolve looks up an alias value.
func (t *Table) Resolve(name string) (string, bool) {
	if i := t.index(name); i >= 0 {
		return t.entries[i].Value, true
	}
	return "", false
}

// All returns the live entries in insertion order. The slice is shared;
// callers must not mutate it.
func (t *Table) All() []Entry {
	return t.entries
}

// Len reports the number of live aliases.
func (t *Table) Len() int {
	return len(t.entries)
}

// ExpandLine applies a single level of alias expansion to a raw line: if the
// first token names an alias, the alias text replaces that token verbatim and
// the unmodified remainder of the line is appended.
//
// Expansion is never recursive. An alias whose value starts with another
// alias name is left for the next tokenization pass to treat as a command
// name, so cycles cannot loop.
func (t *Table) ExpandLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return line
	}

	first := trimmed
	rest := ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		first, rest = trimmed[:i], trimmed[i:]
	}

	value, ok := t.Resolve(first)
	if !ok {
		return line
	}
	return value + rest
}
