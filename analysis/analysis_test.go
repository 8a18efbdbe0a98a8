package analysis

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/fixpoint"
	"github.com/nickng/dataflow/ident"
	"github.com/nickng/dataflow/ssa/build"
)

func getNaiveFn(t *testing.T, prog, name string) *ssa.Function {
	info, err := build.FromReader(strings.NewReader(prog)).Default().Naive().Build()
	if err != nil {
		t.Fatalf("SSA build failed: %v", err)
	}
	fn, err := info.FindFunc(name)
	if err != nil {
		t.Fatalf("cannot find %s: %v", name, err)
	}
	return fn
}

func localNames(t *testing.T, locals map[*ssa.Alloc]ident.Name, names *ident.Interner) []string {
	var s []string
	for _, id := range locals {
		name, err := names.Lookup(id)
		if err != nil {
			t.Fatalf("local not interned: %v", err)
		}
		s = append(s, varName(name))
	}
	sort.Strings(s)
	return s
}

func TestLocals(t *testing.T) {
	fn := getNaiveFn(t, `package main
func main() {
	x := 1
	s := []int{x, 2}
	if len(s) > 1 {
		y := s[0]
		_ = y
	}
}`, "main")
	names := ident.NewInterner()
	locals := Locals(fn, names)
	if want, got := []string{"s", "x", "y"}, localNames(t, locals, names); !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected locals\nwant: %v\ngot: %v\n", want, got)
	}
	for alloc := range locals {
		if alloc.Comment == "slicelit" {
			t.Errorf("composite literal %s should not be a named local", alloc.Name())
		}
	}
}

func TestLocalsClosure(t *testing.T) {
	fn := getNaiveFn(t, `package main
func main() {
	x := 1
	f := func() {
		z := 2
		_ = z
	}
	f()
	_ = x
}`, "main$1")
	names := ident.NewInterner()
	if want, got := []string{"z"}, localNames(t, Locals(fn, names), names); !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected locals of closure\nwant: %v\ngot: %v\n", want, got)
	}
}

func TestLocalsShadowed(t *testing.T) {
	fn := getNaiveFn(t, `package main

func main() {
	x := 1
	{
		x := 2
		_ = x
	}
	println(x)
}`, "main")
	names := ident.NewInterner()
	var keys []string
	for _, id := range Locals(fn, names) {
		key, err := names.Lookup(id)
		if err != nil {
			t.Fatalf("local not interned: %v", err)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if want, got := []string{"x@4:2", "x@6:3"}, keys; !reflect.DeepEqual(want, got) {
		t.Errorf("shadowed variables should have distinct keys\nwant: %v\ngot: %v\n", want, got)
	}
}

func TestEscapes(t *testing.T) {
	fn := getNaiveFn(t, `package main

func main() {
	x := 1
	p := &x
	*p = 3
	y := 1
	f := func() { y = 4 }
	f()
	z := 5
	z++
	println(x, y, z)
}`, "main")
	names := ident.NewInterner()
	var escaping []string
	for alloc, id := range Locals(fn, names) {
		if Escapes(alloc) {
			key, _ := names.Lookup(id)
			escaping = append(escaping, varName(key))
		}
	}
	sort.Strings(escaping)
	if want, got := []string{"x", "y"}, escaping; !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected escaping locals\nwant: %v\ngot: %v\n", want, got)
	}
}

func TestFind(t *testing.T) {
	names := ident.NewInterner()
	m := fixpoint.Map[ident.Name, fact]{
		names.Intern("x@4:2"): "a",
		names.Intern("x@6:3"): "b",
		names.Intern("y@5:2"): "c",
	}
	tests := []struct {
		name string
		want fact
		ok   bool
	}{
		{"y", "c", true},
		{"y@5:2", "c", true},
		{"x@6:3", "b", true},
		{"x", "", false},
		{"z", "", false},
	}
	for _, tt := range tests {
		got, ok := Find(m, names, tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Find(%q): want %q %v, got %q %v", tt.name, tt.want, tt.ok, got, ok)
		}
	}
}

func TestFormatShadowed(t *testing.T) {
	names := ident.NewInterner()
	m := fixpoint.Map[ident.Name, fact]{
		names.Intern("x@6:3"): "b",
		names.Intern("x@4:2"): "a",
		names.Intern("y@5:2"): "c",
	}
	want := []string{"x@4:2=a", "x@6:3=b", "y=c"}
	if got := Format(m, names); !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected format\nwant: %v\ngot: %v\n", want, got)
	}
}

func TestFormat(t *testing.T) {
	names := ident.NewInterner()
	m := fixpoint.Map[ident.Name, fact]{
		names.Intern("y"): "b",
		names.Intern("x"): "a",
		ident.Name(99):    "c",
	}
	want := []string{"name_99=c", "x=a", "y=b"}
	if got := Format(m, names); !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected format\nwant: %v\ngot: %v\n", want, got)
	}
	if got := Format(fixpoint.Map[ident.Name, fact]{}, names); len(got) != 0 {
		t.Errorf("empty map should format to nothing, got %v", got)
	}
}

type fact string

func (f fact) String() string { return string(f) }
