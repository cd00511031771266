package factmap

import (
	"testing"

	"oobcheck/internal/domain"
	"oobcheck/internal/ir"
)

func i32() ir.Type { return &ir.IntType{Bits: 32} }

func TestGetOrExtractConst(t *testing.T) {
	f := New()
	c := &ir.Const{Val: 7, Ty: i32()}
	got := f.GetOrExtract(c)
	if want := domain.Singleton(7); !got.Equal(want) {
		t.Errorf("GetOrExtract(const 7) = %s, want %s", got, want)
	}
}

func TestGetOrExtractParamIsFullLine(t *testing.T) {
	f := New()
	p := &ir.Param{Ident: "n", Ty: i32()}
	got := f.GetOrExtract(p)
	if !got.Equal(domain.FullLine()) {
		t.Errorf("GetOrExtract(param) = %s, want full line", got)
	}
}

func TestGetOrExtractCachesResult(t *testing.T) {
	f := New()
	p := &ir.Param{Ident: "n", Ty: i32()}
	f.GetOrExtract(p)
	f.Set(p, domain.Singleton(5))
	got := f.GetOrExtract(p)
	if !got.Equal(domain.Singleton(5)) {
		t.Errorf("GetOrExtract should return the recorded value, got %s", got)
	}
}

func TestMergeJoinsAcrossPredecessors(t *testing.T) {
	a := New()
	a.Set(&ir.Param{Ident: "x", Ty: i32()}, domain.Singleton(1))
	b := New()
	b.Set(&ir.Param{Ident: "x", Ty: i32()}, domain.Singleton(5))

	merged := Merge(a, b)
	want := domain.Singleton(1).Join(domain.Singleton(5))
	if !merged["x"].Equal(want) {
		t.Errorf("merged x = %s, want %s", merged["x"], want)
	}
}

func TestMergeTreatsMissingAsBottom(t *testing.T) {
	a := New()
	a.Set(&ir.Param{Ident: "x", Ty: i32()}, domain.Singleton(1))
	b := New() // x absent

	merged := Merge(a, b)
	if !merged["x"].Equal(domain.Singleton(1)) {
		t.Errorf("merging with an absent key should behave as Join with bottom, got %s", merged["x"])
	}
}

func TestWidenMergeLeavesNewKeysAlone(t *testing.T) {
	prev := New()
	next := New()
	next.Set(&ir.Param{Ident: "x", Ty: i32()}, domain.Singleton(1))

	got := WidenMerge(prev, next)
	if !got["x"].Equal(domain.Singleton(1)) {
		t.Errorf("a key absent from prev should pass through unwidened, got %s", got["x"])
	}
}

func TestWidenMergeSaturatesChangedKeys(t *testing.T) {
	x := &ir.Param{Ident: "x", Ty: i32()}
	prev := New()
	prev.Set(x, domain.Singleton(0))
	next := New()
	next.Set(x, domain.Singleton(1))

	got := WidenMerge(prev, next)
	if !got["x"].Equal(domain.FullLine()) {
		t.Errorf("a key that moved between rounds should widen to the full line, got %s", got["x"])
	}
}

func TestEqual(t *testing.T) {
	a := New()
	a.Set(&ir.Param{Ident: "x", Ty: i32()}, domain.Singleton(1))
	b := a.Clone()
	if !Equal(a, b) {
		t.Error("a clone should equal its source")
	}
	b.Set(&ir.Param{Ident: "x", Ty: i32()}, domain.Singleton(2))
	if Equal(a, b) {
		t.Error("maps with diverging values should not be equal")
	}
}
