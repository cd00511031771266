// Package boundscheck implements the array out-of-bounds predicate: a
// post-fixpoint walk over every GEP instruction in a function, flagging
// any whose index domain can reach outside its allocation's bounds.
// Grounded on original_source/src/OOBCheckerPass.cpp's checkGEP.
package boundscheck

import (
	"fmt"

	"oobcheck/internal/alias"
	"oobcheck/internal/domain"
	"oobcheck/internal/ir"
	"oobcheck/internal/solver"
	"oobcheck/internal/transfer"
)

// Finding describes one instruction flagged as potentially
// out-of-bounds.
type Finding struct {
	Instruction ir.Instruction
	Index       domain.Domain
	Size        int
}

// Check walks every block of fn using res (the solver's fixpoint
// output) and returns one Finding per GEP whose index operand's domain
// is not entirely contained in [0, size). oracle must be the same
// Oracle the solver run in res was produced with, so replaying the
// transfer function within a block reproduces identical facts.
//
// Two index-count rules apply, matching spec.md §4.6: a two-operand GEP
// (pointer indexing, p[i]) is checked against the index at position 0;
// a three-operand GEP (array-of-arrays addressing, a[0][i]) is checked
// against the index at position 1, since the first index only selects
// the outer array element and is assumed in range by construction.
func Check(fn *ir.Function, res *solver.Result, oracle alias.Oracle) []Finding {
	var findings []Finding
	ctx := transfer.NewContext(oracle)
	ctx.Sizes = res.Sizes
	ctx.Pointers = transfer.CollectPointers(fn)
	for _, b := range fn.Blocks {
		facts := res.In[b].Clone()
		for _, in := range b.AllInstructions() {
			if gep, ok := in.(*ir.GEPInstruction); ok {
				if idxVal := gep.IndexOperand(); idxVal != nil {
					if size, known := res.Sizes[gep.Base.Name()]; known {
						idxDomain := facts.GetOrExtract(idxVal)
						if !inBounds(idxDomain, size) {
							findings = append(findings, Finding{Instruction: gep, Index: idxDomain, Size: size})
						}
					}
				}
			}
			transfer.Apply(in, facts, ctx)
		}
	}
	return findings
}

func inBounds(idx domain.Domain, size int) bool {
	if idx.IsUnknown() {
		return false
	}
	if idx.IsBottom() {
		return true // infeasible index value, never reached
	}
	return idx.Lower() >= 0 && idx.Upper() < size
}

// String renders a Finding the way internal/report expects.
func (f Finding) String() string {
	return fmt.Sprintf("index %s out of bounds for allocation of size %d at %s", f.Index, f.Size, f.Instruction)
}
