package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nickng/dataflow/ssa/build"
)

func TestView(t *testing.T) {
	info, err := build.FromReader(strings.NewReader(`package main
func main() {
	for i := 0; i < 3; i++ {
	}
}`)).Default().Naive().Build()
	if err != nil {
		t.Fatalf("SSA build failed: %v", err)
	}
	var buf bytes.Buffer
	if err := view(&buf, info, "main", true); err != nil {
		t.Fatalf("cannot view main: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"func main()", "# main", "reachable [", "loops [["} {
		if !strings.Contains(out, want) {
			t.Errorf("expects %q in output:\n%s", want, out)
		}
	}
	if err := view(&buf, info, "nosuchfunc", false); err == nil {
		t.Errorf("unknown function should fail")
	}
}
