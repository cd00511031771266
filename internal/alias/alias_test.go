package alias

import "testing"
import "oobcheck/internal/ir"

func i32() ir.Type { return &ir.IntType{Bits: 32} }

func TestReflexive(t *testing.T) {
	o := Conservative{}
	p := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	if !o.MayAlias(p, p) {
		t.Error("an address should always may-alias itself")
	}
}

func TestSymmetric(t *testing.T) {
	o := Conservative{}
	p := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	q := ir.NewAlloca(2, nil, "q", &ir.ArrayType{Elem: i32(), Len: 10})
	if o.MayAlias(p, q) != o.MayAlias(q, p) {
		t.Error("MayAlias should be symmetric")
	}
}

func TestDistinctAllocasDoNotAlias(t *testing.T) {
	o := Conservative{}
	p := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	q := ir.NewAlloca(2, nil, "q", &ir.ArrayType{Elem: i32(), Len: 10})
	if o.MayAlias(p, q) {
		t.Error("two distinct, traceable allocas should not may-alias")
	}
}

func TestGEPChainsToSameRootAlias(t *testing.T) {
	o := Conservative{}
	p := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	g1 := ir.NewGEP(2, nil, "g1", i32(), p, &ir.Const{Val: 1, Ty: i32()})
	g2 := ir.NewGEP(3, nil, "g2", i32(), p, &ir.Const{Val: 2, Ty: i32()})
	if !o.MayAlias(g1, g2) {
		t.Error("two GEPs off the same base should conservatively may-alias")
	}
}

func TestEscapingAddressAliasesEverything(t *testing.T) {
	o := Conservative{}
	p := ir.NewAlloca(1, nil, "p", &ir.ArrayType{Elem: i32(), Len: 10})
	param := &ir.Param{Ident: "q", Ty: &ir.PointerType{Elem: i32()}}
	if !o.MayAlias(p, param) {
		t.Error("an address that cannot be traced to a root should may-alias anything")
	}
}
