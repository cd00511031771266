package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"oobcheck/internal/boundscheck"
	"oobcheck/internal/domain"
	"oobcheck/internal/ir"
)

func i32() ir.Type { return &ir.IntType{Bits: 32} }

func TestFromBoundsCheckMessageFormat(t *testing.T) {
	a := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	g := ir.NewGEP(2, nil, "g", i32(), a, &ir.Const{Val: 15, Ty: i32()})
	fn := &ir.Function{Name: "f"}
	diags := FromBoundsCheck(fn, []boundscheck.Finding{{Instruction: g, Index: domain.Singleton(15), Size: 10}})

	assert.Len(t, diags, 1)
	assert.True(t, strings.HasPrefix(diags[0].Message, "Potential array out of bounds error: "))
}

func TestFormatAllIsDeterministicallyOrdered(t *testing.T) {
	a := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	g1 := ir.NewGEP(5, nil, "g1", i32(), a, &ir.Const{Val: 15, Ty: i32()})
	g2 := ir.NewGEP(2, nil, "g2", i32(), a, &ir.Const{Val: 20, Ty: i32()})
	fn := &ir.Function{Name: "f"}
	diags := FromBoundsCheck(fn, []boundscheck.Finding{
		{Instruction: g1, Index: domain.Singleton(15), Size: 10},
		{Instruction: g2, Index: domain.Singleton(20), Size: 10},
	})
	out := NewPrinter(true).FormatAll(diags)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "g2", "expected the lower-ID instruction to print first")
}

func TestFormatNoColorHasNoEscapeCodes(t *testing.T) {
	a := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	g := ir.NewGEP(2, nil, "g", i32(), a, &ir.Const{Val: 15, Ty: i32()})
	fn := &ir.Function{Name: "f"}
	diags := FromBoundsCheck(fn, []boundscheck.Finding{{Instruction: g, Index: domain.Singleton(15), Size: 10}})
	out := NewPrinter(true).Format(diags[0])
	assert.NotContains(t, out, "\x1b[")
}
