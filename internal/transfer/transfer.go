// Package transfer implements the per-instruction gen/kill dataflow
// transfer function: given an instruction and the FactMap holding at
// its program point, it produces the FactMap holding immediately after.
// Grounded on original_source/src/Transfer.cpp's instruction-kind
// dispatch (visit* overrides of an LLVM InstVisitor).
package transfer

import (
	"oobcheck/internal/alias"
	"oobcheck/internal/domain"
	"oobcheck/internal/factmap"
	"oobcheck/internal/ir"
)

// AllocationSizes maps an address's SSA name to the element count of
// the array it was allocated with, propagated from Alloca through GEP
// so bounds checks further down the chain can still see it. Grounded on
// original_source/include/OOBCheckerPass.h's AllocationSizeMap.
type AllocationSizes map[string]int

// NewAllocationSizes returns an empty size table.
func NewAllocationSizes() AllocationSizes { return make(AllocationSizes) }

// Context carries the per-function state threaded through every
// Apply call: the allocation-size table, the alias oracle, the set of
// addresses stored to so far (needed to ask the oracle whether a new
// store might clobber a binding recorded under a different name), and
// the function's PointerSet (every address a store might have to
// weak-update, per spec.md §4.4/§4.5).
type Context struct {
	Sizes    AllocationSizes
	Oracle   alias.Oracle
	Pointers []ir.Value
	written  map[string]ir.Value
}

// NewContext returns a Context ready for a fresh function walk. Callers
// that will Apply a StoreInstruction should also set Pointers (via
// CollectPointers) so aliasing addresses other than the store's own
// target get weak-updated too.
func NewContext(oracle alias.Oracle) *Context {
	return &Context{Sizes: NewAllocationSizes(), Oracle: oracle, written: make(map[string]ir.Value)}
}

// CollectPointers builds the PointerSet spec.md §4.5 says to seed from
// "all arguments and all instructions": every function parameter and
// instruction result that could plausibly denote an address (an
// Alloca, a GEP, a Cast, or a pointer-typed Param). Grounded on
// original_source/src/ChaoticIteration.cpp's doAnalysis, which inserts
// every argument and every instruction into context.pointerSet
// unfiltered — but that pool is only ever consulted through
// pa.alias(toStoreStr, ptrStr), and the only aliasing oracle this
// engine ships (alias.Conservative) already treats anything it cannot
// trace to an Alloca/Global root as an unconditional may-alias; feeding
// it unrelated scalar integers (the result of an Add, a Phi, a plain
// integer Param) would make every store weak-update every scalar
// variable in the function, not just the addresses that could
// genuinely coincide with it. Restricting the pool to values that are
// themselves address-shaped keeps the contract spec.md documents
// ("every name that may-alias the store target is joined") without
// that explosion.
func CollectPointers(fn *ir.Function) []ir.Value {
	var out []ir.Value
	for _, p := range fn.Params {
		if ir.IsPointer(p.Type()) {
			out = append(out, p)
		}
	}
	for _, b := range fn.Blocks {
		for _, in := range b.AllInstructions() {
			switch in.(type) {
			case *ir.AllocaInstruction, *ir.GEPInstruction, *ir.CastInstruction:
				out = append(out, in.Result())
			}
		}
	}
	return out
}

// Apply runs the transfer function for in, mutating facts to reflect
// its effect and recording any new allocation-size facts in ctx.Sizes.
// ctx.Oracle resolves whether a store must weak- or strong-update an
// existing binding.
func Apply(in ir.Instruction, facts factmap.FactMap, ctx *Context) {
	sizes := ctx.Sizes
	switch v := in.(type) {
	case *ir.AllocaInstruction:
		if arr, ok := v.AllocType.(*ir.ArrayType); ok {
			sizes[v.Name()] = arr.Len
		} else {
			facts.Set(v.Result(), domain.FullLine())
		}

	case *ir.GEPInstruction:
		if n, ok := sizes[v.Base.Name()]; ok {
			sizes[v.Name()] = n
		}
		// GEP itself computes an address, not an integer value; nothing
		// to record in facts.

	case *ir.PhiInstruction:
		var d domain.Domain
		first := true
		for _, incoming := range v.Incoming {
			val := facts.GetOrExtract(incoming)
			if first {
				d, first = val, false
			} else {
				d = d.Join(val)
			}
		}
		if first {
			d = domain.Bottom()
		}
		facts.Set(v.Result(), d)

	case *ir.BinaryInstruction:
		l := facts.GetOrExtract(v.Left)
		r := facts.GetOrExtract(v.Right)
		var result domain.Domain
		switch v.Op {
		case ir.OpAdd:
			result = l.Add(r)
		case ir.OpSub:
			result = l.Sub(r)
		case ir.OpMul:
			result = l.Mul(r)
		case ir.OpSDiv, ir.OpUDiv:
			result = l.Div(r)
		default:
			result = domain.Unknown()
		}
		facts.Set(v.Result(), result)

	case *ir.CmpInstruction:
		// Flow-insensitive by design (spec.md Non-goals): the result is
		// never used to refine either operand's domain on the branch
		// edges, matching original_source/src/Transfer.cpp's no-op
		// visitBranchInst. The result's own boolean domain is still
		// computed properly (spec.md §4.4), not stubbed to the full
		// line: {0}/{1} when the operand ranges make the relation
		// definitely false/true, {0,1} when it's indeterminate, unknown
		// when both operands are unknown.
		l := facts.GetOrExtract(v.Left)
		r := facts.GetOrExtract(v.Right)
		facts.Set(v.Result(), cmpDomain(v.Pred, l, r))

	case *ir.CastInstruction:
		src := facts.GetOrExtract(v.Source)
		facts.Set(v.Result(), src)
		if n, ok := sizes[v.Source.Name()]; ok {
			sizes[v.Name()] = n
		}

	case *ir.CallInstruction:
		switch v.Kind {
		case ir.CallInput:
			facts.Set(v.Result(), domain.FullLine())
		case ir.CallMalloc:
			facts.Set(v.Result(), domain.FullLine())
			// A constant byte count N records N / sizeof(int) elements.
			if v.Result() != nil && len(v.Args) == 1 {
				if n, ok := v.Args[0].(*ir.Const); ok {
					sizes[v.Result().Name()] = n.Val / 4
				}
			}
		default:
			if v.Result() != nil {
				facts.Set(v.Result(), domain.FullLine())
			}
		}

	case *ir.LoadInstruction:
		if v.Result() != nil {
			facts.Set(v.Result(), facts.GetOrExtract(v.Address))
		}

	case *ir.StoreInstruction:
		val := facts.GetOrExtract(v.Val)
		addrName := v.Address.Name()

		// Weak-update every other PointerSet member the oracle says
		// might alias the store target, per spec.md §4.4/§4.5 and
		// original_source/src/Transfer.cpp:139-148's loop over
		// context.pointerSet: an ambiguous pointer's store must not be
		// visible only under its own SSA name.
		for _, q := range ctx.Pointers {
			qName := q.Name()
			if qName == addrName {
				continue
			}
			if !ctx.Oracle.MayAlias(v.Address, q) {
				continue
			}
			facts[qName] = facts.GetOrExtract(q).Join(val)
		}

		if mustBeStrong(v.Address, ctx) {
			facts[addrName] = val
		} else if prior, ok := facts[addrName]; ok {
			facts[addrName] = prior.Join(val)
		} else {
			facts[addrName] = val
		}
		ctx.written[addrName] = v.Address

	case *ir.BranchInstruction, *ir.JumpInstruction, *ir.ReturnInstruction:
		// Terminators have no effect on the abstract state.
	}
}

// cmpDomain computes the boolean-valued domain of a comparison between
// l and r under pred, per spec.md §4.4: {0} when the operand ranges
// make the relation definitely false, {1} when definitely true, {0,1}
// when neither can be ruled out, and unknown when both operands are
// unknown (no range information to decide anything from). Grounded on
// spec.md's own prose description of Cmp, not on
// original_source/src/Transfer.cpp's visitICmpInst, which the source
// itself flags as unfinished ("//TODO: improve this") and implements
// as a bitwise `left & right` / `left | right` stub rather than an
// actual range comparison.
func cmpDomain(pred ir.CmpPred, l, r domain.Domain) domain.Domain {
	if l.IsBottom() || r.IsBottom() {
		return domain.Bottom()
	}
	if l.IsUnknown() && r.IsUnknown() {
		return domain.Unknown()
	}

	lLo, lHi := l.Lower(), l.Upper()
	rLo, rHi := r.Lower(), r.Upper()

	definitely := func(ok bool) domain.Domain {
		if ok {
			return domain.Singleton(1)
		}
		return domain.Singleton(0)
	}

	switch pred {
	case ir.CmpEQ:
		if lLo == lHi && rLo == rHi && lLo == rLo {
			return definitely(true)
		}
		if lHi < rLo || rHi < lLo {
			return definitely(false)
		}
	case ir.CmpNE:
		if lHi < rLo || rHi < lLo {
			return definitely(true)
		}
		if lLo == lHi && rLo == rHi && lLo == rLo {
			return definitely(false)
		}
	case ir.CmpSLT, ir.CmpULT:
		if lHi < rLo {
			return definitely(true)
		}
		if lLo >= rHi {
			return definitely(false)
		}
	case ir.CmpSLE, ir.CmpULE:
		if lHi <= rLo {
			return definitely(true)
		}
		if lLo > rHi {
			return definitely(false)
		}
	case ir.CmpSGT, ir.CmpUGT:
		if lLo > rHi {
			return definitely(true)
		}
		if lHi <= rLo {
			return definitely(false)
		}
	case ir.CmpSGE, ir.CmpUGE:
		if lLo >= rHi {
			return definitely(true)
		}
		if lHi < rLo {
			return definitely(false)
		}
	}
	return domain.Singleton(0).Join(domain.Singleton(1))
}

// mustBeStrong reports whether a store to addr can safely strong-update
// (overwrite) rather than weak-update (join), per spec.md §4.4 and
// §9(b): a strong update is sound only when addr is an alloca itself
// (not an address reached through a GEP, so no other address can coincide
// with it) and the oracle confirms none of the addresses already
// written to in this function may alias it.
func mustBeStrong(addr ir.Value, ctx *Context) bool {
	if _, isAlloca := addr.(*ir.AllocaInstruction); !isAlloca {
		return false
	}
	for _, other := range ctx.written {
		if other == addr {
			continue
		}
		if ctx.Oracle.MayAlias(addr, other) {
			return false
		}
	}
	return true
}
