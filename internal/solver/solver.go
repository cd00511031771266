// Package solver implements the chaotic-iteration fixpoint solver: it
// drives transfer.Apply across a function's CFG, merging predecessor
// OUT facts into each block's IN fact, until no block's OUT fact
// changes. Grounded on original_source/src/ChaoticIteration.cpp's
// worklist loop.
package solver

import (
	"oobcheck/internal/alias"
	"oobcheck/internal/factmap"
	"oobcheck/internal/ir"
	"oobcheck/internal/transfer"
)

// Result holds the fixpoint IN/OUT fact for every block in a function,
// plus the allocation-size table accumulated along the way.
type Result struct {
	In    map[*ir.BasicBlock]factmap.FactMap
	Out   map[*ir.BasicBlock]factmap.FactMap
	Sizes transfer.AllocationSizes
}

// Solve runs chaotic iteration to a fixpoint over fn's CFG using oracle
// as the may-alias predicate.
//
// The worklist starts with every block in program order and always
// reprocesses a block's successors after its OUT fact changes; this
// FIFO discipline is arbitrary as far as soundness goes (the lattice is
// finite height and every transfer function is monotone, so any
// processing order converges) but it is fixed so that repeated runs
// over the same input always visit blocks in the same sequence, making
// solver output reproducible for tests and diagnostics.
func Solve(fn *ir.Function, oracle alias.Oracle) *Result {
	res := &Result{
		In:    make(map[*ir.BasicBlock]factmap.FactMap),
		Out:   make(map[*ir.BasicBlock]factmap.FactMap),
		Sizes: transfer.NewAllocationSizes(),
	}
	for _, b := range fn.Blocks {
		res.In[b] = factmap.New()
		res.Out[b] = factmap.New()
	}

	worklist := append([]*ir.BasicBlock(nil), fn.Blocks...)
	queued := make(map[*ir.BasicBlock]bool, len(fn.Blocks))
	for _, b := range worklist {
		queued[b] = true
	}
	visits := make(map[*ir.BasicBlock]int, len(fn.Blocks))

	ctx := transfer.NewContext(oracle)
	ctx.Sizes = res.Sizes
	ctx.Pointers = transfer.CollectPointers(fn)

	for len(worklist) > 0 {
		b := worklist[0]
		worklist = worklist[1:]
		queued[b] = false

		in := mergePredecessors(b, res.Out)
		res.In[b] = in

		out := in.Clone()
		for _, i := range b.AllInstructions() {
			transfer.Apply(i, out, ctx)
		}

		// A block revisited after already having an OUT fact on
		// record is either a loop header reached again via a back
		// edge, or a join point still catching up with an upstream
		// DAG predecessor; either way, widen against what was there
		// before instead of letting the value creep forward one step
		// per round (see domain.Domain.Widen).
		if visits[b] > 0 {
			out = factmap.WidenMerge(res.Out[b], out)
		}
		visits[b]++

		if factmap.Equal(res.Out[b], out) {
			continue
		}
		res.Out[b] = out

		for _, succ := range b.Successors {
			if !queued[succ] {
				worklist = append(worklist, succ)
				queued[succ] = true
			}
		}
	}

	return res
}

func mergePredecessors(b *ir.BasicBlock, out map[*ir.BasicBlock]factmap.FactMap) factmap.FactMap {
	if len(b.Predecessors) == 0 {
		return factmap.New()
	}
	maps := make([]factmap.FactMap, len(b.Predecessors))
	for i, p := range b.Predecessors {
		maps[i] = out[p]
	}
	return factmap.Merge(maps...)
}
