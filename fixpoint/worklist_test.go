package fixpoint

import (
	"testing"

	"github.com/nickng/dataflow/cfg"
)

func TestWorklistOrder(t *testing.T) {
	w := newWorklist()
	for _, i := range []int{4, 1, 3, 0, 2} {
		w.push(&cfg.Block{Index: i})
	}
	for want := 0; want < 5; want++ {
		b, ok := w.pop()
		if !ok {
			t.Fatalf("worklist empty, expects block %d", want)
		}
		if b.Index != want {
			t.Errorf("blocks should come out by ascending index\nwant: %d\ngot: %d\n", want, b.Index)
		}
	}
	if _, ok := w.pop(); ok {
		t.Errorf("pop on empty worklist should fail")
	}
}

func TestWorklistDedup(t *testing.T) {
	w := newWorklist()
	b := &cfg.Block{Index: 7}
	if !w.push(b) {
		t.Errorf("first push should add the block")
	}
	if w.push(b) {
		t.Errorf("pushing a pending block should be a no-op")
	}
	if w.size() != 1 {
		t.Errorf("expects 1 pending block, got %d", w.size())
	}
	w.pop()
	if !w.push(b) {
		t.Errorf("block should be pushable again once popped")
	}
}
