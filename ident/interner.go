// Package ident provides interned identifiers for use as fact keys.
//
// An Interner maps each distinct string (e.g. a variable name) to a small
// integer Name, so analyses can key their facts by a cheap comparable value
// instead of a string.
package ident

import (
	"fmt"
	"sync"
)

// Name is an interned identifier. The zero Name is never issued.
type Name int

func (n Name) String() string {
	return fmt.Sprintf("name_%d", int(n))
}

// UndefError is the error returned when looking up a Name the Interner did
// not issue.
type UndefError struct {
	Name Name
}

func (e UndefError) Error() string {
	return fmt.Sprintf("name undefined (id: %d)", int(e.Name))
}

// Interner issues Names for strings.
//
// The same string always gets the same Name from the same Interner. Names
// from different Interners must not be mixed.
type Interner struct {
	ids   map[string]Name
	names []string // names[i] is the string of Name(i+1).

	mu sync.Mutex
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]Name)}
}

// Intern returns the Name for s, issuing a new one if s is not yet known.
func (in *Interner) Intern(s string) Name {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[s]; ok {
		return id
	}
	in.names = append(in.names, s)
	id := Name(len(in.names))
	in.ids[s] = id
	return id
}

// Find returns the Name of s without interning it.
func (in *Interner) Find(s string) (Name, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	id, ok := in.ids[s]
	return id, ok
}

// Lookup returns the string n was issued for.
func (in *Interner) Lookup(n Name) (string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if n < 1 || int(n) > len(in.names) {
		return "", UndefError{Name: n}
	}
	return in.names[n-1], nil
}

// Len returns the number of Names issued.
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.names)
}
