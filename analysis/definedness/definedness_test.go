package definedness

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/cfg"
	"github.com/nickng/dataflow/ident"
	"github.com/nickng/dataflow/ssa/build"
)

const loopProg = `package main

func cond() bool { return true }

func main() {
	a := 1
	n := 0
	for n < 10 {
		b := n
		n = b + 1
	}
	if cond() {
		c := 2
		_ = c
	}
	a++
	_ = a
}`

func getNaiveMain(t *testing.T, prog string) *ssa.Function {
	info, err := build.FromReader(strings.NewReader(prog)).Default().Naive().Build()
	if err != nil {
		t.Fatalf("SSA build failed: %v", err)
	}
	fn, err := info.FindFunc("main")
	if err != nil {
		t.Fatalf("cannot find main: %v", err)
	}
	return fn
}

// blockOf returns the index of the block with the given comment.
func blockOf(t *testing.T, g *cfg.Graph, comment string) int {
	for _, b := range g.Blocks() {
		if b.Comment == comment {
			return b.Index
		}
	}
	t.Fatalf("no block %q in\n%s", comment, g)
	return -1
}

func TestMerge(t *testing.T) {
	a := &Analyser{}
	tests := []struct {
		from, into, want State
	}{
		{Defined, Defined, Defined},
		{PotentiallyDefined, PotentiallyDefined, PotentiallyDefined},
		{Defined, PotentiallyDefined, PotentiallyDefined},
		{PotentiallyDefined, Defined, PotentiallyDefined},
	}
	for _, tt := range tests {
		if got := a.Merge(tt.from, tt.into); got != tt.want {
			t.Errorf("Merge(%v, %v): want %v, got %v", tt.from, tt.into, tt.want, got)
		}
	}
	if got := a.MergeBlank(Defined); got != PotentiallyDefined {
		t.Errorf("MergeBlank(defined): want %v, got %v", PotentiallyDefined, got)
	}
}

func TestRun(t *testing.T) {
	fn := getNaiveMain(t, loopProg)
	res, err := Run(fn, ident.NewInterner(), nil)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	done := blockOf(t, res.Graph, "for.done")
	tests := []struct {
		block int
		name  string
		want  State
	}{
		{done, "a", Defined},
		{done, "n", Defined},
		{done, "b", PotentiallyDefined},
		{blockOf(t, res.Graph, "for.body"), "b", Defined},
		{blockOf(t, res.Graph, "if.then"), "c", Defined},
		{blockOf(t, res.Graph, "if.done"), "c", PotentiallyDefined},
		{blockOf(t, res.Graph, "if.done"), "a", Defined},
	}
	for _, tt := range tests {
		got, ok := res.State(tt.block, tt.name)
		if !ok {
			t.Errorf("%s at block %d: expects %v, got no fact", tt.name, tt.block, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("%s at block %d: want %v, got %v", tt.name, tt.block, tt.want, got)
		}
	}
	if _, ok := res.State(0, "c"); ok {
		t.Errorf("c should have no fact at entry")
	}
	if _, ok := res.State(0, "nosuchvar"); ok {
		t.Errorf("unknown variable should have no fact")
	}
}

func TestFacts(t *testing.T) {
	res, err := Run(getNaiveMain(t, loopProg), ident.NewInterner(), nil)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	want := []string{"a=defined", "b=potentially-defined", "n=defined"}
	if got := res.Facts(blockOf(t, res.Graph, "for.done")); !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected facts at for.done\nwant: %v\ngot: %v\n", want, got)
	}
}

func TestRunNoBody(t *testing.T) {
	fn := getNaiveMain(t, loopProg)
	ext := fn.Prog.NewFunction("ext", fn.Signature, "external")
	if _, err := Run(ext, ident.NewInterner(), nil); err == nil {
		t.Errorf("function without body should fail")
	}
}

func TestShadowed(t *testing.T) {
	res, err := Run(getNaiveMain(t, `package main

func cond() bool { return true }

func main() {
	x := 1
	if cond() {
		x := 2
		_ = x
	}
	println(x)
}`), ident.NewInterner(), nil)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	done := blockOf(t, res.Graph, "if.done")
	want := []string{"x@6:2=defined", "x@8:3=potentially-defined"}
	if got := res.Facts(done); !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected facts of shadowed variables\nwant: %v\ngot: %v\n", want, got)
	}
	if s, ok := res.State(done, "x@6:2"); !ok || s != Defined {
		t.Errorf("outer x: want %v, got %v (%v)", Defined, s, ok)
	}
}
