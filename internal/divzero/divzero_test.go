package divzero

import (
	"testing"

	"oobcheck/internal/alias"
	"oobcheck/internal/ir"
	"oobcheck/internal/solver"
)

func i32() ir.Type { return &ir.IntType{Bits: 32} }

func TestSafeDivisionNotFlagged(t *testing.T) {
	b := ir.NewBuilder("f", nil, i32())
	entry := b.Block("entry")
	d := b.Emit(entry, func(id int) ir.Instruction {
		return ir.NewBinary(id, entry, ir.OpSDiv, "q", i32(), &ir.Const{Val: 10, Ty: i32()}, &ir.Const{Val: 2, Ty: i32()})
	})
	b.Terminate(entry, func(id int) ir.Terminator { return ir.NewReturn(id, entry, d.Result()) })
	fn := b.Func()

	res := solver.Solve(fn, alias.Conservative{})
	findings := Check(fn, res, alias.Conservative{})
	if len(findings) != 0 {
		t.Errorf("dividing by a nonzero constant should not be flagged, got %v", findings)
	}
}

func TestDivisionByZeroFlagged(t *testing.T) {
	b := ir.NewBuilder("f", nil, i32())
	entry := b.Block("entry")
	d := b.Emit(entry, func(id int) ir.Instruction {
		return ir.NewBinary(id, entry, ir.OpSDiv, "q", i32(), &ir.Const{Val: 10, Ty: i32()}, &ir.Const{Val: 0, Ty: i32()})
	})
	b.Terminate(entry, func(id int) ir.Terminator { return ir.NewReturn(id, entry, d.Result()) })
	fn := b.Func()

	res := solver.Solve(fn, alias.Conservative{})
	findings := Check(fn, res, alias.Conservative{})
	if len(findings) != 1 {
		t.Fatalf("expected exactly one finding, got %d", len(findings))
	}
}

func TestUnconstrainedDivisorFlagged(t *testing.T) {
	n := &ir.Param{Ident: "n", Ty: i32()}
	b := ir.NewBuilder("f", []*ir.Param{n}, i32())
	entry := b.Block("entry")
	d := b.Emit(entry, func(id int) ir.Instruction {
		return ir.NewBinary(id, entry, ir.OpSDiv, "q", i32(), &ir.Const{Val: 10, Ty: i32()}, n)
	})
	b.Terminate(entry, func(id int) ir.Terminator { return ir.NewReturn(id, entry, d.Result()) })
	fn := b.Func()

	res := solver.Solve(fn, alias.Conservative{})
	findings := Check(fn, res, alias.Conservative{})
	if len(findings) != 1 {
		t.Fatalf("an unconstrained divisor should be flagged, got %d findings", len(findings))
	}
}
