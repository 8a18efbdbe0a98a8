package cfg

import (
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

// FromFunction builds a Graph from the basic blocks of fn.
//
// Block i of the Graph is fn.Blocks[i], with the same successor order, and
// block 0 is the start. The recover block, if any, is included but has no
// predecessors.
func FromFunction(fn *ssa.Function) (*Graph, error) {
	if len(fn.Blocks) == 0 {
		return nil, errors.Wrapf(ErrNoBody, "%s", fn.String())
	}
	g := New()
	for i, blk := range fn.Blocks {
		if blk.Index != i {
			return nil, errors.Errorf("cfg: %s: block at %d has index %d", fn.String(), i, blk.Index)
		}
		b := g.AddBlock(blk.Comment)
		b.SSA = blk
	}
	for _, blk := range fn.Blocks {
		for _, succ := range blk.Succs {
			if err := g.AddEdge(blk.Index, succ.Index); err != nil {
				return nil, errors.Wrapf(err, "%s", fn.String())
			}
		}
	}
	if err := g.SetStart(0); err != nil {
		return nil, err
	}
	return g, nil
}
