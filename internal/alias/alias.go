// Package alias implements the may-alias oracle: an opaque predicate
// the transfer function consults to decide whether a store must use a
// weak (join with prior) or strong (overwrite) update, per spec.md
// §4.4 and §9(b). The engine is parameterized over Oracle so a more
// precise points-to analysis can be substituted without touching
// transfer/solver; Conservative is the default, grounded on
// original_source/src/Utils.cpp's mayAlias, which answers "yes" to
// anything it cannot prove disjoint.
package alias

import "oobcheck/internal/ir"

// Oracle decides whether two addresses might refer to the same memory.
type Oracle interface {
	MayAlias(a, b ir.Value) bool
}

// Conservative is the default Oracle: it tracks each address back to
// its ultimate Alloca or Global root through Cast/GEP chains, and
// reports aliasing whenever it cannot prove the two roots are distinct.
// Any address it cannot trace to a root (a call result, a parameter) is
// treated as aliasing everything, matching the escape-to-unknown rule
// in original_source/src/Utils.cpp.
type Conservative struct{}

// MayAlias reports whether a and b might reference the same storage.
func (Conservative) MayAlias(a, b ir.Value) bool {
	ra, oka := root(a)
	rb, okb := root(b)
	if !oka || !okb {
		return true
	}
	if ra == rb {
		return true
	}
	return false
}

// root walks a chain of GEP/Cast instructions back to the Alloca or
// Global it ultimately addresses. ok is false when the chain escapes
// (reaches a Param, a Call result, or an unresolved Value), in which
// case the caller must assume the address can point anywhere.
func root(v ir.Value) (ir.Value, bool) {
	for {
		switch t := v.(type) {
		case *ir.AllocaInstruction:
			return t, true
		case *ir.Global:
			return t, true
		case *ir.GEPInstruction:
			v = t.Base
		case *ir.CastInstruction:
			v = t.Source
		default:
			return nil, false
		}
	}
}
