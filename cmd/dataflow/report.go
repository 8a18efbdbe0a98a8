package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
	gossa "golang.org/x/tools/go/ssa"

	"github.com/nickng/dataflow/cfg"
)

// setColor sets up colour output to f for mode.
func setColor(mode string, f *os.File) {
	switch mode {
	case colorAlways:
		color.NoColor = false
	case colorNever:
		color.NoColor = true
	default:
		color.NoColor = !term.IsTerminal(int(f.Fd()))
	}
}

// funcReport is the outcome of one analysis on one function.
type funcReport struct {
	Fn          *gossa.Function
	Graph       *cfg.Graph
	Reached     []int
	Facts       func(block int) []string
	Evaluations int
	PerBlock    float64
}

func (r *funcReport) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	sb.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("func %s", r.Fn.String()))
	sb.WriteString(fmt.Sprintf(": %d blocks, %d evaluations = %.1f evaluations/block\n",
		r.Graph.Len(), r.Evaluations, r.PerBlock))
	for _, i := range r.Reached {
		b := r.Graph.Block(i)
		sb.WriteString(color.YellowString("  %s", b))
		if facts := r.Facts(i); len(facts) > 0 {
			sb.WriteString(": " + strings.Join(facts, " "))
		}
		sb.WriteString("\n")
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// writeGraph writes the block graph of g and its loops.
func writeGraph(w io.Writer, g *cfg.Graph) error {
	if _, err := io.WriteString(w, g.String()); err != nil {
		return err
	}
	for _, loop := range g.Loops() {
		if _, err := fmt.Fprintf(w, "%s %v\n", color.MagentaString("loop"), loop); err != nil {
			return err
		}
	}
	return nil
}
