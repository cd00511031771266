// Package factmap implements the per-program-point dataflow fact store:
// a map from SSA value name to its abstract domain.Domain, plus the
// getOrExtract/merge operations the transfer function and solver share.
// Grounded on original_source/include/FactMap.h and
// original_source/src/FactMap.cpp.
package factmap

import (
	"sort"
	"strings"

	"oobcheck/internal/domain"
	"oobcheck/internal/ir"
)

// FactMap associates SSA value names with their current abstract
// domain. A missing entry is not read as domain.Unknown(): Get returns
// domain.Bottom() for it, Merge and Equal treat it as absent (Bottom on
// that side for Merge, a difference for Equal), and GetOrExtract fills
// it in from the value's static form.
type FactMap map[string]domain.Domain

// New returns an empty FactMap.
func New() FactMap {
	return make(FactMap)
}

// Get returns the Domain associated with v's name, or domain.Bottom()
// if v has never been recorded (no information has reached this
// program point for v yet).
func (f FactMap) Get(v ir.Value) domain.Domain {
	if v == nil {
		return domain.Bottom()
	}
	if d, ok := f[v.Name()]; ok {
		return d
	}
	return domain.Bottom()
}

// Set records d as the current Domain for v. A no-op if v is nil (e.g.
// an instruction with no result, like a store).
func (f FactMap) Set(v ir.Value, d domain.Domain) {
	if v == nil {
		return
	}
	f[v.Name()] = d
}

// GetOrExtract returns the current Domain recorded for v, falling back
// to extracting one directly from v's static form when nothing has been
// recorded yet: a *ir.Const yields its singleton value, a *ir.Global
// its initializer's singleton (domain.Unknown() when it has none), an
// integer-typed *ir.Param domain.FullLine() and any other *ir.Param
// domain.Unknown() (spec.md §4.2's "Construction from an IR
// value": an unconstrained integer-typed argument starts as the full
// line, not unknown, the same way
// original_source/src/FactMap.cpp's getOrExtract seeds a fresh
// llvm::Value* the first time it's seen).
//
// Any other still-unrecorded value is the result of some instruction in
// this same function that the solver simply hasn't reached yet in this
// round of chaotic iteration; an integer-typed one falls back to
// domain.Bottom(), the identity of Join (a non-integer one to
// domain.Unknown()), so repeated rounds can grow its Domain to a
// fixpoint instead of latching onto the full line before the solver
// ever gets a chance to narrow it (alloca/call results get their own
// domain.FullLine() directly from internal/transfer.Apply when those
// instructions are themselves visited, not through this fallback).
func (f FactMap) GetOrExtract(v ir.Value) domain.Domain {
	if v == nil {
		return domain.Bottom()
	}
	if d, ok := f[v.Name()]; ok {
		return d
	}
	d := extract(v)
	f[v.Name()] = d
	return d
}

func extract(v ir.Value) domain.Domain {
	switch c := v.(type) {
	case *ir.Const:
		return domain.Singleton(c.Val)
	case *ir.Global:
		if c.Initializer != nil {
			return domain.Singleton(*c.Initializer)
		}
		return domain.Unknown()
	case *ir.Param:
		if ir.IsInteger(v.Type()) {
			return domain.FullLine()
		}
		return domain.Unknown()
	default:
		if ir.IsInteger(v.Type()) {
			return domain.Bottom()
		}
		return domain.Unknown()
	}
}

// Clone returns an independent copy of f.
func (f FactMap) Clone() FactMap {
	out := make(FactMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Merge computes the pointwise join of f and other over the union of
// their keys, per spec.md §4.5's "the IN fact of a block is the
// pointwise join of every predecessor's OUT fact". A name present in
// only one map is treated as domain.Bottom() in the other, so Join
// degrades gracefully to the present side's value (⊥ is Join's
// identity).
func Merge(maps ...FactMap) FactMap {
	out := New()
	for _, m := range maps {
		for k, d := range m {
			if existing, ok := out[k]; ok {
				out[k] = existing.Join(d)
			} else {
				out[k] = d
			}
		}
	}
	return out
}

// WidenMerge returns next with every entry that has a same-named,
// differing counterpart in prev widened against it (domain.Domain.Widen),
// and every entry new to this point (absent from prev, i.e. the first
// time the solver has ever recorded a value for it here) left as-is —
// growth from no information is not instability. Used by the solver on
// a block's second and later visits so that a loop-carried value widens
// to the full line in a fixed number of rounds instead of growing one
// step per chaotic-iteration pass.
func WidenMerge(prev, next FactMap) FactMap {
	out := make(FactMap, len(next))
	for k, d := range next {
		if p, ok := prev[k]; ok {
			out[k] = d.Widen(p)
		} else {
			out[k] = d
		}
	}
	return out
}

// Equal reports whether f and other hold the same Domain for every
// name either one mentions; used by the solver's fixpoint check.
func Equal(a, b FactMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, d := range a {
		other, ok := b[k]
		if !ok || !d.Equal(other) {
			return false
		}
	}
	return true
}

// String renders f deterministically (sorted by name) for diagnostics
// and golden-file tests.
func (f FactMap) String() string {
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteString(" = ")
		b.WriteString(f[n].String())
		b.WriteString("\n")
	}
	return b.String()
}
