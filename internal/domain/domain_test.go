package domain

import (
	"testing"

	"oobcheck/internal/interval"
)

func TestIdempotence(t *testing.T) {
	a := FromIntervals(interval.New(1, 5), interval.New(10, 20))
	if got := a.Join(a); !got.Equal(a) {
		t.Errorf("a u a = %s, want %s", got, a)
	}
	if got := a.Meet(a); !got.Equal(a) {
		t.Errorf("a n a = %s, want %s", got, a)
	}
}

func TestCommutativityAndAssociativity(t *testing.T) {
	a := FromIntervals(interval.New(1, 5))
	b := FromIntervals(interval.New(10, 20))
	c := FromIntervals(interval.New(-5, -1))

	if got1, got2 := a.Join(b), b.Join(a); !got1.Equal(got2) {
		t.Errorf("join not commutative: %s vs %s", got1, got2)
	}
	if got1, got2 := a.Join(b).Join(c), a.Join(b.Join(c)); !got1.Equal(got2) {
		t.Errorf("join not associative: %s vs %s", got1, got2)
	}
	if got1, got2 := a.Meet(b), b.Meet(a); !got1.Equal(got2) {
		t.Errorf("meet not commutative: %s vs %s", got1, got2)
	}
}

func TestAbsorption(t *testing.T) {
	a := FromIntervals(interval.New(1, 10))
	b := FromIntervals(interval.New(5, 20))
	if got := a.Join(a.Meet(b)); !got.Equal(a) {
		t.Errorf("a u (a n b) = %s, want %s", got, a)
	}
}

func TestBottomIsJoinIdentity(t *testing.T) {
	a := FromIntervals(interval.New(1, 10))
	if got := a.Join(Bottom()); !got.Equal(a) {
		t.Errorf("a u bottom = %s, want %s", got, a)
	}
}

func TestUnknownAbsorbsJoin(t *testing.T) {
	a := FromIntervals(interval.New(1, 10))
	if got := a.Join(Unknown()); !got.IsUnknown() {
		t.Errorf("a u unknown = %s, want unknown", got)
	}
	if got := Unknown().Meet(a); !got.IsUnknown() {
		t.Errorf("unknown n a = %s, want unknown", got)
	}
}

func TestCanonicalization(t *testing.T) {
	d := FromIntervals(interval.New(10, 20), interval.New(1, 5), interval.New(6, 9), interval.Empty())
	ivs := d.Intervals()
	if len(ivs) != 1 {
		t.Fatalf("expected coalescing into a single run, got %v", ivs)
	}
	if !ivs[0].Equal(interval.New(1, 20)) {
		t.Errorf("expected [1,20], got %s", ivs[0])
	}
	for i := 1; i < len(ivs); i++ {
		if ivs[i-1].Lo >= ivs[i].Lo {
			t.Errorf("intervals not sorted: %v", ivs)
		}
	}
}

func TestDoubleComplement(t *testing.T) {
	d := FromIntervals(interval.New(1, 5), interval.New(10, 20))
	got := d.Complement().Complement()
	if !got.Equal(d) {
		t.Errorf("~~d = %s, want %s", got, d)
	}
}

func TestArithmeticOnSingletons(t *testing.T) {
	a, b := Singleton(3), Singleton(4)
	if got, want := a.Add(b), Singleton(7); !got.Equal(want) {
		t.Errorf("3+4 = %s, want %s", got, want)
	}
	if got, want := a.Sub(b), Singleton(-1); !got.Equal(want) {
		t.Errorf("3-4 = %s, want %s", got, want)
	}
	if got, want := a.Mul(b), Singleton(12); !got.Equal(want) {
		t.Errorf("3*4 = %s, want %s", got, want)
	}
	if got, want := Singleton(10).Div(Singleton(3)), Singleton(3); !got.Equal(want) {
		t.Errorf("10/3 = %s, want %s", got, want)
	}
	if got, want := a.Negate(), Singleton(-3); !got.Equal(want) {
		t.Errorf("-3 = %s, want %s", got, want)
	}
}

func TestUnknownAbsorbsArithmetic(t *testing.T) {
	u, a := Unknown(), Singleton(5)
	ops := []func(Domain, Domain) Domain{Domain.Add, Domain.Sub, Domain.Mul, Domain.Div, Domain.Join, Domain.Meet}
	for _, op := range ops {
		if got := op(u, a); !got.IsUnknown() {
			t.Errorf("op(unknown, a) = %s, want unknown", got)
		}
		if got := op(a, u); !got.IsUnknown() {
			t.Errorf("op(a, unknown) = %s, want unknown", got)
		}
	}
}

func TestDivideByZeroCrossingDomain(t *testing.T) {
	d := Singleton(10).Div(FromIntervals(interval.New(-2, 3)))
	if !d.Equal(FullLine()) {
		t.Errorf("dividing by a domain spanning zero should yield the full line, got %s", d)
	}
}

func TestClamp(t *testing.T) {
	d := FromIntervals(interval.New(-100, 100))
	got := d.Clamp(0, 10)
	if !got.Equal(FromIntervals(interval.New(0, 10))) {
		t.Errorf("clamp(0,10) = %s, want [0,10]", got)
	}
}

func TestWidenStableValueIsUnchanged(t *testing.T) {
	a := Singleton(5)
	if got := a.Widen(a); !got.Equal(a) {
		t.Errorf("widening an unchanged value should be a no-op, got %s", got)
	}
}

func TestWidenUnstableValueSaturates(t *testing.T) {
	prev := Singleton(0)
	next := FromIntervals(interval.New(0, 1))
	if got := prev.Widen(prev); !got.Equal(prev) {
		t.Fatalf("sanity: widen against self should be stable, got %s", got)
	}
	if got := next.Widen(prev); !got.Equal(FullLine()) {
		t.Errorf("widening a growing value should saturate to the full line, got %s", got)
	}
}

func TestWidenUnknownStaysUnknown(t *testing.T) {
	if got := Unknown().Widen(Singleton(1)); !got.IsUnknown() {
		t.Errorf("widening unknown should stay unknown, got %s", got)
	}
	if got := Singleton(1).Widen(Unknown()); !got.IsUnknown() {
		t.Errorf("widening against unknown should stay unknown, got %s", got)
	}
}

func TestAsConstant(t *testing.T) {
	if v, ok := Singleton(42).AsConstant(); !ok || v != 42 {
		t.Errorf("AsConstant of singleton 42 = (%d, %v), want (42, true)", v, ok)
	}
	if _, ok := FromIntervals(interval.New(1, 2)).AsConstant(); ok {
		t.Error("AsConstant of [1,2] should report false")
	}
	if _, ok := Unknown().AsConstant(); ok {
		t.Error("AsConstant of unknown should report false")
	}
}
