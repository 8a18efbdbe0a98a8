package fixpoint

import (
	"go.uber.org/zap"

	"github.com/nickng/dataflow/cfg"
)

// Tracer observes the progress of an engine run. It never affects results.
type Tracer interface {
	// EnterBlock is called each time block b is taken off the worklist,
	// with the number of facts known at its entry.
	EnterBlock(b *cfg.Block, entries int)

	// Summary is called once at the end of a run.
	Summary(blocks, evaluations int)
}

type nopTracer struct{}

func (nopTracer) EnterBlock(*cfg.Block, int) {}
func (nopTracer) Summary(int, int)           {}

// LogTracer is a Tracer writing to a zap logger, gated by verbosity.
//
// At verbosity 1 only the summary is logged; at 2 and above every block
// evaluation is logged too.
type LogTracer struct {
	logger    *zap.SugaredLogger
	verbosity int
}

// NewLogTracer returns a LogTracer writing to l.
func NewLogTracer(l *zap.SugaredLogger, verbosity int) *LogTracer {
	return &LogTracer{logger: l, verbosity: verbosity}
}

func (t *LogTracer) EnterBlock(b *cfg.Block, entries int) {
	if t.verbosity >= 2 {
		t.logger.Infof("fixpoint on block %d - %d entries", b.Index, entries)
	}
}

func (t *LogTracer) Summary(blocks, evaluations int) {
	if t.verbosity < 1 {
		return
	}
	perBlock := 0.0
	if blocks > 0 {
		perBlock = float64(evaluations) / float64(blocks)
	}
	t.logger.Infof("%d BBs, %d evaluations = %.1f evaluations/block", blocks, evaluations, perBlock)
}
