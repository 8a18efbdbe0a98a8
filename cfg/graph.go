// Package cfg provides the control-flow graph the dataflow engine runs on.
//
// A Graph is an arena of Blocks addressed by index. Successor lists are
// stored as index sequences, so a Graph can be built by hand (e.g. in tests)
// or from an ssa.Function with FromFunction. Once built, a Graph is only read.
package cfg

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrNoStart = errors.New("cfg: graph has no starting block")
	ErrNoBody  = errors.New("cfg: function has no body")
)

// BlockRangeError is the error returned when a block index is not in the
// Graph.
type BlockRangeError struct {
	Index int
	Len   int
}

func (e BlockRangeError) Error() string {
	return fmt.Sprintf("cfg: block #%d out of range (%d blocks)", e.Index, e.Len)
}

// Block is a basic block in a Graph.
type Block struct {
	Index   int    // Position in the Graph, ascending in program order.
	Succs   []int  // Successor block indices, in order.
	Comment string // Optional description, e.g. "for.body".

	SSA *ssa.BasicBlock // Block the Block was built from, nil for synthetic graphs.
}

func (b *Block) String() string {
	if b.Comment != "" {
		return fmt.Sprintf("#%d (%s)", b.Index, b.Comment)
	}
	return fmt.Sprintf("#%d", b.Index)
}

// Graph is a control-flow graph with one designated starting block.
type Graph struct {
	blocks []*Block
	start  int // -1 until SetStart.

	logger *log.Logger
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		start:  -1,
		logger: log.New(io.Discard, "cfg: ", 0),
	}
}

// SetLog sets debug output stream to w.
func (g *Graph) SetLog(w io.Writer) {
	if w != nil {
		g.logger.SetOutput(w)
	}
}

// AddBlock appends a new Block to the Graph. Its index is the number of
// blocks added before it.
func (g *Graph) AddBlock(comment string) *Block {
	b := &Block{Index: len(g.blocks), Comment: comment}
	g.blocks = append(g.blocks, b)
	g.logger.Printf("AddBlock: %s", b)
	return b
}

// AddEdge adds to as the next successor of from.
func (g *Graph) AddEdge(from, to int) error {
	if !g.valid(from) {
		return BlockRangeError{Index: from, Len: len(g.blocks)}
	}
	if !g.valid(to) {
		return BlockRangeError{Index: to, Len: len(g.blocks)}
	}
	g.blocks[from].Succs = append(g.blocks[from].Succs, to)
	g.logger.Printf("AddEdge: #%d → #%d", from, to)
	return nil
}

// SetStart designates block i as the entry of the Graph.
func (g *Graph) SetStart(i int) error {
	if !g.valid(i) {
		return BlockRangeError{Index: i, Len: len(g.blocks)}
	}
	g.start = i
	return nil
}

// Start returns the starting block, or nil if none is set.
func (g *Graph) Start() *Block {
	if g.start < 0 {
		return nil
	}
	return g.blocks[g.start]
}

// Block returns block i, or nil if i is out of range.
func (g *Graph) Block(i int) *Block {
	if !g.valid(i) {
		return nil
	}
	return g.blocks[i]
}

// Blocks returns all blocks in index order.
func (g *Graph) Blocks() []*Block {
	return g.blocks
}

// Len returns the number of blocks.
func (g *Graph) Len() int {
	return len(g.blocks)
}

func (g *Graph) valid(i int) bool {
	return i >= 0 && i < len(g.blocks)
}

func (g *Graph) String() string {
	var buf bytes.Buffer
	for _, b := range g.blocks {
		if b.Index == g.start {
			buf.WriteString("→ ")
		} else {
			buf.WriteString("  ")
		}
		buf.WriteString(fmt.Sprintf("%s → %v\n", b, b.Succs))
	}
	return buf.String()
}
