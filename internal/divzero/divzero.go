// Package divzero implements the sibling divide-by-zero check: a
// post-fixpoint walk flagging any division whose divisor domain might
// contain zero. It shares the same solver.Result as boundscheck,
// since both passes read off the same fixpoint rather than running two
// separate analyses. Grounded on original_source/src/OOBCheckerPass.cpp,
// which runs both checks from one pass over the same facts.
package divzero

import (
	"fmt"

	"oobcheck/internal/alias"
	"oobcheck/internal/ir"
	"oobcheck/internal/solver"
	"oobcheck/internal/transfer"
)

// Finding describes one division instruction whose divisor might be
// zero.
type Finding struct {
	Instruction *ir.BinaryInstruction
}

func (f Finding) String() string {
	return fmt.Sprintf("divisor may be zero at %s", f.Instruction)
}

// Check walks every block of fn, replaying the transfer function with
// res's already-solved facts, and returns one Finding per sdiv/udiv
// whose right-hand operand's domain contains zero.
func Check(fn *ir.Function, res *solver.Result, oracle alias.Oracle) []Finding {
	var findings []Finding
	ctx := transfer.NewContext(oracle)
	ctx.Sizes = res.Sizes
	ctx.Pointers = transfer.CollectPointers(fn)
	for _, b := range fn.Blocks {
		facts := res.In[b].Clone()
		for _, in := range b.AllInstructions() {
			if bin, ok := in.(*ir.BinaryInstruction); ok && bin.Op.IsDivision() {
				divisor := facts.GetOrExtract(bin.Right)
				if divisor.IsUnknown() || divisor.Contains(0) {
					findings = append(findings, Finding{Instruction: bin})
				}
			}
			transfer.Apply(in, facts, ctx)
		}
	}
	return findings
}
