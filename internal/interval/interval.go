// Package interval implements a single closed integer range with
// saturating arithmetic and set operations, the base lattice element of
// the interval-union abstract domain in package domain.
package interval

import "fmt"

// Inf and NegInf model +∞ and -∞. They are ordinary machine integers at
// the far ends of the representable range, so that arithmetic on them can
// saturate instead of needing a separate symbolic case.
const (
	Inf    = int(^uint(0) >> 1)
	NegInf = -Inf - 1
)

// Interval is a closed range [Lo, Hi]. Lo > Hi encodes the empty interval.
type Interval struct {
	Lo, Hi int
}

// New returns the interval [lo, hi]. Callers that want the canonical empty
// interval should use Empty instead of New with lo > hi, though both
// compare equal under IsEmpty.
func New(lo, hi int) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Point returns the singleton interval [v, v].
func Point(v int) Interval {
	return Interval{Lo: v, Hi: v}
}

// Full returns [-∞, +∞].
func Full() Interval {
	return Interval{Lo: NegInf, Hi: Inf}
}

// Empty returns the canonical empty interval.
func Empty() Interval {
	return Interval{Lo: 2, Hi: 1}
}

// IsEmpty reports whether the interval contains no values.
func (i Interval) IsEmpty() bool {
	return i.Lo > i.Hi
}

// Contains reports whether v lies within the interval.
func (i Interval) Contains(v int) bool {
	return i.Lo <= v && v <= i.Hi
}

// ContainsInterval reports whether other is a subset of i.
func (i Interval) ContainsInterval(other Interval) bool {
	if other.IsEmpty() {
		return true
	}
	return i.Lo <= other.Lo && other.Hi <= i.Hi
}

// Overlaps reports whether the two intervals share at least one value.
func (i Interval) Overlaps(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return i.Lo <= other.Hi && other.Lo <= i.Hi
}

// Adjacent reports whether the two intervals are disjoint but touch, i.e.
// merging them into a single interval loses no information. Used by
// domain.Domain's canonicalization to decide when to coalesce.
func (i Interval) Adjacent(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	if i.Overlaps(other) {
		return false
	}
	if i.Hi < other.Lo {
		return addSat(i.Hi, 1) >= other.Lo
	}
	return addSat(other.Hi, 1) >= i.Lo
}

// Meet returns the intersection of the two intervals, or Empty if they do
// not overlap.
func (i Interval) Meet(other Interval) Interval {
	if !i.Overlaps(other) {
		return Empty()
	}
	return Interval{Lo: max(i.Lo, other.Lo), Hi: min(i.Hi, other.Hi)}
}

// Hull returns the smallest interval containing both operands.
func (i Interval) Hull(other Interval) Interval {
	if i.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return i
	}
	return Interval{Lo: min(i.Lo, other.Lo), Hi: max(i.Hi, other.Hi)}
}

// Cut subtracts the overlap with other from i, shrinking whichever side i
// extends beyond other on. If the two do not overlap, i is returned
// unchanged. Used for predicate refinement (spec.md §9's Open Question
// (b) documents that this engine never actually calls Cut from a
// transfer rule, but the operation itself is part of the domain's
// contract).
func (i Interval) Cut(other Interval) Interval {
	if !i.Overlaps(other) {
		return i
	}
	if i.Lo <= other.Lo {
		return Interval{Lo: i.Lo, Hi: min(i.Hi, subSat(other.Lo, 1))}
	}
	return Interval{Lo: max(i.Lo, addSat(other.Hi, 1)), Hi: i.Hi}
}

// Add returns the saturating sum of the two intervals.
func (i Interval) Add(other Interval) Interval {
	return Interval{Lo: addSat(i.Lo, other.Lo), Hi: addSat(i.Hi, other.Hi)}
}

// Sub returns the saturating difference i - other.
func (i Interval) Sub(other Interval) Interval {
	return Interval{Lo: subSat(i.Lo, other.Hi), Hi: subSat(i.Hi, other.Lo)}
}

// Negate returns -i.
func (i Interval) Negate() Interval {
	return Interval{Lo: negSat(i.Hi), Hi: negSat(i.Lo)}
}

// Mul returns the saturating product of the two intervals, taking the
// min/max of the four corner products.
func (i Interval) Mul(other Interval) Interval {
	corners := [4]int{
		mulSat(i.Lo, other.Lo),
		mulSat(i.Lo, other.Hi),
		mulSat(i.Hi, other.Lo),
		mulSat(i.Hi, other.Hi),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo, hi = min(lo, c), max(hi, c)
	}
	return Interval{Lo: lo, Hi: hi}
}

// Div returns the saturating quotient i / other. If other contains zero,
// the permissive policy from spec.md §4.1/§9(a) applies and the result is
// the full line [-∞, +∞].
func (i Interval) Div(other Interval) Interval {
	if other.Contains(0) {
		return Full()
	}
	corners := [4]int{
		divSat(i.Lo, other.Lo),
		divSat(i.Lo, other.Hi),
		divSat(i.Hi, other.Lo),
		divSat(i.Hi, other.Hi),
	}
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		lo, hi = min(lo, c), max(hi, c)
	}
	return Interval{Lo: lo, Hi: hi}
}

func (i Interval) Equal(other Interval) bool {
	if i.IsEmpty() && other.IsEmpty() {
		return true
	}
	return i.Lo == other.Lo && i.Hi == other.Hi
}

func (i Interval) String() string {
	if i.IsEmpty() {
		return "[]"
	}
	return fmt.Sprintf("[%s, %s]", boundString(i.Lo), boundString(i.Hi))
}

func boundString(v int) string {
	switch v {
	case Inf:
		return "+inf"
	case NegInf:
		return "-inf"
	default:
		return fmt.Sprintf("%d", v)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// addSat, subSat, negSat and mulSat saturate at ±∞ rather than wrapping on
// signed overflow, per spec.md §9's "saturation vs widening" design note.
func addSat(a, b int) int {
	if a == Inf || b == Inf {
		if a == NegInf || b == NegInf {
			return 0 // inf + -inf is not meaningful; treat as unreachable in practice
		}
		return Inf
	}
	if a == NegInf || b == NegInf {
		return NegInf
	}
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return Inf
		}
		return NegInf
	}
	return clampBound(sum)
}

func subSat(a, b int) int {
	if b == NegInf {
		return addSat(a, Inf)
	}
	if b == Inf {
		return addSat(a, NegInf)
	}
	return addSat(a, -b)
}

func negSat(a int) int {
	if a == Inf {
		return NegInf
	}
	if a == NegInf {
		return Inf
	}
	return -a
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a == Inf || a == NegInf || b == Inf || b == NegInf {
		neg := (a < 0) != (b < 0)
		if neg {
			return NegInf
		}
		return Inf
	}
	p := a * b
	if p/b != a {
		neg := (a < 0) != (b < 0)
		if neg {
			return NegInf
		}
		return Inf
	}
	return clampBound(p)
}

func divSat(a, b int) int {
	if b == 0 {
		if a >= 0 {
			return Inf
		}
		return NegInf
	}
	if a == Inf {
		if b > 0 {
			return Inf
		}
		return NegInf
	}
	if a == NegInf {
		if b > 0 {
			return NegInf
		}
		return Inf
	}
	if b == Inf || b == NegInf {
		return 0
	}
	return clampBound(a / b)
}

// clampBound keeps an in-range computation from landing exactly on one of
// the sentinels by accident, which would otherwise be misread as ±∞.
func clampBound(v int) int {
	if v >= Inf {
		return Inf - 1
	}
	if v <= NegInf {
		return NegInf + 1
	}
	return v
}
