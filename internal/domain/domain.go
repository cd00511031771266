// Package domain implements the interval-union abstract domain: the
// dataflow lattice used by the engine. A Domain is either the unknown
// sentinel (top of the lattice) or an ordered, disjoint, non-adjacent,
// non-empty sequence of interval.Interval values.
package domain

import (
	"strings"

	"oobcheck/internal/interval"
)

// Domain is the lattice element every FactMap entry holds.
//
// The zero value is the empty sequence, i.e. bottom (⊥), matching
// original_source/include/Domain.h's default-constructed IntervalDomain
// (which starts unknown=true there; we instead give Go callers an
// explicit Unknown() constructor and let the zero value mean ⊥, since a
// Go zero value that silently means "unknown" is a sharper footgun than
// one that means "no information yet").
type Domain struct {
	intervals []interval.Interval
	unknown   bool
}

// Unknown returns the top of the lattice: an integer-typed engine cannot
// say anything about this value (spec.md §3's "unknown" sentinel).
func Unknown() Domain {
	return Domain{unknown: true}
}

// Bottom returns ⊥, the infeasible domain and the identity of Join.
func Bottom() Domain {
	return Domain{}
}

// FullLine returns [-∞, +∞] as a Domain, used for integer-typed
// arguments, allocas of integer type, and call results (spec.md §4.2's
// "Construction from an IR value").
func FullLine() Domain {
	return Single(interval.Full())
}

// Singleton returns the Domain {[v, v]}.
func Singleton(v int) Domain {
	return Single(interval.Point(v))
}

// Single wraps one interval as a Domain, canonicalizing it (an empty
// interval produces ⊥).
func Single(i interval.Interval) Domain {
	d := Domain{intervals: []interval.Interval{i}}
	d.maintain()
	return d
}

// FromIntervals builds a Domain from a set of intervals, canonicalizing
// them into sorted, disjoint, non-adjacent, non-empty form.
func FromIntervals(is ...interval.Interval) Domain {
	d := Domain{intervals: append([]interval.Interval(nil), is...)}
	d.maintain()
	return d
}

// IsUnknown reports whether d is the top of the lattice.
func (d Domain) IsUnknown() bool {
	return d.unknown
}

// IsBottom reports whether d is ⊥ (infeasible, the empty union).
func (d Domain) IsBottom() bool {
	return !d.unknown && len(d.intervals) == 0
}

// Intervals returns the canonical, read-only slice of component
// intervals. Empty (possibly nil) when d is unknown or bottom.
func (d Domain) Intervals() []interval.Interval {
	return d.intervals
}

// Lower returns the minimum value d can take, interval.NegInf for an
// unknown domain, or interval.Inf for bottom (mirroring
// original_source/include/Domain.h's
// lower()/upper() conventions: bottom's bounds are the "identity" ends so
// that a stray read from an infeasible domain cannot look like a tight,
// satisfiable range).
func (d Domain) Lower() int {
	if d.unknown {
		return interval.NegInf
	}
	if len(d.intervals) == 0 {
		return interval.Inf
	}
	return d.intervals[0].Lo
}

// Upper returns the maximum value d can take.
func (d Domain) Upper() int {
	if d.unknown {
		return interval.Inf
	}
	if len(d.intervals) == 0 {
		return interval.NegInf
	}
	return d.intervals[len(d.intervals)-1].Hi
}

// Contains reports whether v is one of the values d may hold.
func (d Domain) Contains(v int) bool {
	if d.unknown {
		return true
	}
	for _, i := range d.intervals {
		if i.Contains(v) {
			return true
		}
	}
	return false
}

// AsConstant returns (v, true) if d is exactly the singleton {v}.
func (d Domain) AsConstant() (int, bool) {
	if d.unknown || len(d.intervals) != 1 {
		return 0, false
	}
	i := d.intervals[0]
	if i.Lo == i.Hi {
		return i.Lo, true
	}
	return 0, false
}

// maintain sorts the component intervals by lower bound, drops empties,
// and coalesces any pair that overlaps or merely touches, restoring the
// three canonical-form invariants of spec.md §3. Grounded on
// original_source/src/Domain.cpp's IntervalDomain::maintain.
func (d *Domain) maintain() {
	if d.unknown {
		d.intervals = nil
		return
	}
	filtered := d.intervals[:0]
	for _, i := range d.intervals {
		if !i.IsEmpty() {
			filtered = append(filtered, i)
		}
	}
	d.intervals = filtered
	sortIntervals(d.intervals)

	out := d.intervals[:0]
	for _, i := range d.intervals {
		if len(out) == 0 {
			out = append(out, i)
			continue
		}
		last := &out[len(out)-1]
		if last.Overlaps(i) || last.Adjacent(i) {
			*last = last.Hull(i)
		} else {
			out = append(out, i)
		}
	}
	d.intervals = out
}

func sortIntervals(is []interval.Interval) {
	// Small-slice insertion sort: FactMap-sized domains rarely carry more
	// than a handful of disjoint ranges, and this keeps the package
	// stdlib-only without importing sort for a few dozen elements.
	for i := 1; i < len(is); i++ {
		for j := i; j > 0 && is[j-1].Lo > is[j].Lo; j-- {
			is[j-1], is[j] = is[j], is[j-1]
		}
	}
}

// lift applies op pointwise to every pair of component intervals from d
// and other, then canonicalizes. unknown is absorbing on both sides, per
// spec.md §4.2: "If either operand is unknown, the result is unknown."
//
// This differs from original_source/src/Domain.cpp's genImpl, which
// mutates a single working interval in its inner loop instead of
// collecting the full cross product — correct only when one side has a
// single component. We implement spec.md's literal "apply to every pair,
// collect the results" wording instead, which is strictly more precise
// and still sound.
func (d Domain) lift(other Domain, op func(a, b interval.Interval) interval.Interval) Domain {
	if d.unknown || other.unknown {
		return Unknown()
	}
	var out []interval.Interval
	for _, a := range d.intervals {
		for _, b := range other.intervals {
			out = append(out, op(a, b))
		}
	}
	res := Domain{intervals: out}
	res.maintain()
	return res
}

// Join computes d ⊔ other (⊔ is commutative, associative, idempotent; ⊥
// is its identity; unknown is absorbing).
func (d Domain) Join(other Domain) Domain {
	if d.unknown || other.unknown {
		return Unknown()
	}
	res := Domain{intervals: append(append([]interval.Interval(nil), d.intervals...), other.intervals...)}
	res.maintain()
	return res
}

// Meet computes d ⊓ other.
func (d Domain) Meet(other Domain) Domain {
	return d.lift(other, interval.Interval.Meet)
}

// Add, Sub, Mul, Div compute the pointwise-lifted arithmetic operations.
func (d Domain) Add(other Domain) Domain { return d.lift(other, interval.Interval.Add) }
func (d Domain) Sub(other Domain) Domain { return d.lift(other, interval.Interval.Sub) }
func (d Domain) Mul(other Domain) Domain { return d.lift(other, interval.Interval.Mul) }
func (d Domain) Div(other Domain) Domain { return d.lift(other, interval.Interval.Div) }

// Negate computes -d.
func (d Domain) Negate() Domain {
	if d.unknown {
		return Unknown()
	}
	out := make([]interval.Interval, len(d.intervals))
	for i, iv := range d.intervals {
		out[i] = iv.Negate()
	}
	res := Domain{intervals: out}
	res.maintain()
	return res
}

// Complement returns the integer-line complement of d: everything d does
// not cover. Complement of unknown is unknown; complement of ⊥ is the
// full line.
func (d Domain) Complement() Domain {
	if d.unknown {
		return Unknown()
	}
	if len(d.intervals) == 0 {
		return FullLine()
	}
	var out []interval.Interval
	first := d.intervals[0]
	if first.Lo > interval.NegInf {
		out = append(out, interval.New(interval.NegInf, first.Lo-1))
	}
	for i := 1; i < len(d.intervals); i++ {
		out = append(out, interval.New(d.intervals[i-1].Hi+1, d.intervals[i].Lo-1))
	}
	last := d.intervals[len(d.intervals)-1]
	if last.Hi < interval.Inf {
		out = append(out, interval.New(last.Hi+1, interval.Inf))
	}
	res := Domain{intervals: out}
	res.maintain()
	return res
}

// Clamp intersects every component interval with [lo, hi] and
// re-canonicalizes. A no-op on unknown.
func (d Domain) Clamp(lo, hi int) Domain {
	if d.unknown {
		return Unknown()
	}
	bound := interval.New(lo, hi)
	out := make([]interval.Interval, 0, len(d.intervals))
	for _, i := range d.intervals {
		out = append(out, i.Meet(bound))
	}
	res := Domain{intervals: out}
	res.maintain()
	return res
}

// Equal reports whether d and other are the same lattice element.
func (d Domain) Equal(other Domain) bool {
	if d.unknown != other.unknown {
		return false
	}
	if d.unknown {
		return true
	}
	if len(d.intervals) != len(other.intervals) {
		return false
	}
	for i := range d.intervals {
		if !d.intervals[i].Equal(other.intervals[i]) {
			return false
		}
	}
	return true
}

// Widen compares d (freshly computed) against prev (the previously
// recorded value at the same program point) and returns the widened
// result: d unchanged if the two agree, otherwise unknown when either
// side is unknown and the full line in every other case.
//
// This is the engine's only widening operator, applied by the solver
// at a block's second and later visits rather than inside Join itself,
// per spec.md §9's "saturation vs widening" note: a monotone sequence
// that has not already stabilized is replaced by its upper bound (the
// full line) instead of being allowed to grow one step at a time,
// which is what bounds the chain height a loop-carried value can climb
// before chaotic iteration reaches a fixpoint (spec.md §8 scenario 3:
// a flow-insensitive loop counter widens to [-∞,+∞] in a small, fixed
// number of rounds rather than one round per concrete loop trip).
func (d Domain) Widen(prev Domain) Domain {
	if d.Equal(prev) {
		return d
	}
	if d.unknown || prev.unknown {
		return Unknown()
	}
	return FullLine()
}

func (d Domain) String() string {
	if d.unknown {
		return "unknown"
	}
	if len(d.intervals) == 0 {
		return "bottom"
	}
	parts := make([]string, len(d.intervals))
	for i, iv := range d.intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " u ")
}
