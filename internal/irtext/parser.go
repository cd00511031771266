package irtext

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"oobcheck/internal/ir"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(irLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses src into an ir.Program.
func Parse(src string) (*ir.Program, error) {
	p, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("irtext: %w", err)
	}
	return build(p)
}

func build(p *Program) (*ir.Program, error) {
	out := &ir.Program{Name: "module"}
	for _, f := range p.Functions {
		fn, err := buildFunction(f)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fn)
	}
	return out, nil
}

type funcBuilder struct {
	fn      *ir.Function
	nextID  int
	blocks  map[string]*ir.BasicBlock
	values  map[string]ir.Value
	pending []func() error // instruction resolution deferred until all blocks exist
}

func buildFunction(f *Function) (*ir.Function, error) {
	retType, err := buildType(f.RetType)
	if err != nil {
		return nil, err
	}
	fn := &ir.Function{Name: f.Name, RetType: retType}

	fb := &funcBuilder{fn: fn, blocks: make(map[string]*ir.BasicBlock), values: make(map[string]ir.Value)}

	for _, pd := range f.Params {
		ty, err := buildType(pd.Type)
		if err != nil {
			return nil, err
		}
		p := &ir.Param{Ident: trimPercent(pd.Name), Ty: ty}
		fn.Params = append(fn.Params, p)
		fb.values[p.Ident] = p
	}

	for _, b := range f.Blocks {
		blk := &ir.BasicBlock{Label: b.Label}
		fn.Blocks = append(fn.Blocks, blk)
		fb.blocks[b.Label] = blk
	}
	if len(fn.Blocks) > 0 {
		fn.Entry = fn.Blocks[0]
	}

	for i, b := range f.Blocks {
		if err := fb.buildBlock(fn.Blocks[i], b); err != nil {
			return nil, err
		}
	}
	for _, resolve := range fb.pending {
		if err := resolve(); err != nil {
			return nil, err
		}
	}
	return fn, nil
}

func (fb *funcBuilder) id() int {
	fb.nextID++
	return fb.nextID
}

func (fb *funcBuilder) connect(from, to *ir.BasicBlock) {
	from.Successors = append(from.Successors, to)
	to.Predecessors = append(to.Predecessors, from)
}

func (fb *funcBuilder) block(label string) (*ir.BasicBlock, error) {
	b, ok := fb.blocks[label]
	if !ok {
		return nil, fmt.Errorf("irtext: undefined block %q", label)
	}
	return b, nil
}

func (fb *funcBuilder) value(v *ValueExpr, ty ir.Type) (ir.Value, error) {
	switch {
	case v.Reg != "":
		name := trimPercent(v.Reg)
		val, ok := fb.values[name]
		if !ok {
			return nil, fmt.Errorf("irtext: undefined value %%%s", name)
		}
		return val, nil
	case v.Global != "":
		name := v.Global[1:]
		return &ir.Global{Ident: name, Ty: ty}, nil
	case v.Int != nil:
		return &ir.Const{Val: *v.Int, Ty: ty}, nil
	default:
		return nil, fmt.Errorf("irtext: empty value expression")
	}
}

func defaultIntType() ir.Type { return &ir.IntType{Bits: 32} }

func buildType(t *TypeExpr) (ir.Type, error) {
	if t == nil {
		return defaultIntType(), nil
	}
	if t.Void {
		return &ir.VoidType{}, nil
	}
	if t.Array != nil {
		elem, err := buildType(t.Array.Elem)
		if err != nil {
			return nil, err
		}
		return &ir.ArrayType{Elem: elem, Len: t.Array.Len}, nil
	}
	var base ir.Type
	if len(t.Name) > 0 && t.Name[0] == 'i' {
		bits := 32
		if n, err := parseBits(t.Name); err == nil {
			bits = n
		}
		base = &ir.IntType{Bits: bits}
	} else {
		base = defaultIntType()
	}
	if t.Pointer {
		return &ir.PointerType{Elem: base}, nil
	}
	return base, nil
}

func parseBits(name string) (int, error) {
	n := 0
	if len(name) < 2 {
		return 0, fmt.Errorf("invalid int type %q", name)
	}
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid int type %q", name)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func trimPercent(s string) string {
	if len(s) > 0 && s[0] == '%' {
		return s[1:]
	}
	return s
}

func (fb *funcBuilder) buildBlock(blk *ir.BasicBlock, b *Block) error {
	for _, in := range b.Instructions {
		if err := fb.buildInstruction(blk, in); err != nil {
			return err
		}
	}
	return nil
}

func (fb *funcBuilder) buildInstruction(blk *ir.BasicBlock, in *Instruction) error {
	switch {
	case in.Alloca != nil:
		ty, err := buildType(in.Alloca.Type)
		if err != nil {
			return err
		}
		name := trimPercent(in.Alloca.Name)
		a := ir.NewAlloca(fb.id(), blk, name, ty)
		blk.Instructions = append(blk.Instructions, a)
		fb.values[name] = a.Result()

	case in.GEP != nil:
		name := trimPercent(in.GEP.Name)
		base, err := fb.value(in.GEP.Base, nil)
		if err != nil {
			return err
		}
		var indices []ir.Value
		for _, idxExpr := range in.GEP.Indices {
			idx, err := fb.value(idxExpr, defaultIntType())
			if err != nil {
				return err
			}
			indices = append(indices, idx)
		}
		g := ir.NewGEP(fb.id(), blk, name, defaultIntType(), base, indices...)
		blk.Instructions = append(blk.Instructions, g)
		fb.values[name] = g.Result()

	case in.Load != nil:
		name := trimPercent(in.Load.Name)
		addr, err := fb.value(in.Load.Address, nil)
		if err != nil {
			return err
		}
		l := ir.NewLoadInstruction(fb.id(), blk, addr, name, defaultIntType())
		blk.Instructions = append(blk.Instructions, l)
		if l.Result() != nil {
			fb.values[name] = l.Result()
		}

	case in.Store != nil:
		addr, err := fb.value(in.Store.Address, nil)
		if err != nil {
			return err
		}
		val, err := fb.value(in.Store.Val, defaultIntType())
		if err != nil {
			return err
		}
		s := ir.NewStore(fb.id(), blk, addr, val)
		blk.Instructions = append(blk.Instructions, s)

	case in.Binary != nil:
		name := trimPercent(in.Binary.Name)
		l, err := fb.value(in.Binary.Left, defaultIntType())
		if err != nil {
			return err
		}
		r, err := fb.value(in.Binary.Right, defaultIntType())
		if err != nil {
			return err
		}
		b := ir.NewBinary(fb.id(), blk, ir.BinOp(in.Binary.Op), name, defaultIntType(), l, r)
		blk.Instructions = append(blk.Instructions, b)
		fb.values[name] = b.Result()

	case in.Cmp != nil:
		name := trimPercent(in.Cmp.Name)
		l, err := fb.value(in.Cmp.Left, defaultIntType())
		if err != nil {
			return err
		}
		r, err := fb.value(in.Cmp.Right, defaultIntType())
		if err != nil {
			return err
		}
		c := ir.NewCmp(fb.id(), blk, ir.CmpPred(in.Cmp.Pred), name, l, r)
		blk.Instructions = append(blk.Instructions, c)
		fb.values[name] = c.Result()

	case in.Cast != nil:
		name := trimPercent(in.Cast.Name)
		ty, err := buildType(in.Cast.Type)
		if err != nil {
			return err
		}
		src, err := fb.value(in.Cast.Source, defaultIntType())
		if err != nil {
			return err
		}
		c := ir.NewCast(fb.id(), blk, name, ty, src)
		blk.Instructions = append(blk.Instructions, c)
		fb.values[name] = c.Result()

	case in.Call != nil:
		var args []ir.Value
		for _, a := range in.Call.Args {
			v, err := fb.value(a, defaultIntType())
			if err != nil {
				return err
			}
			args = append(args, v)
		}
		kind := ir.CallOrdinary
		switch in.Call.Callee {
		case "getchar", "fgetc":
			kind = ir.CallInput
		case "malloc":
			kind = ir.CallMalloc
		}
		name := trimPercent(in.Call.Name)
		ty := ir.Type(&ir.VoidType{})
		if name != "" {
			ty = defaultIntType()
		}
		c := ir.NewCallInstruction(fb.id(), blk, in.Call.Callee, kind, args, name, ty)
		blk.Instructions = append(blk.Instructions, c)
		if c.Result() != nil {
			fb.values[name] = c.Result()
		}

	case in.Phi != nil:
		name := trimPercent(in.Phi.Name)
		ty := defaultIntType()
		phi := ir.NewPhi(fb.id(), blk, name, ty, make(map[*ir.BasicBlock]ir.Value))
		blk.Instructions = append(blk.Instructions, phi)
		fb.values[name] = phi.Result()
		// Incoming values may reference SSA names not yet defined (e.g.
		// a loop-carried value from a later block), so resolution is
		// deferred until every block's instructions have been built.
		operands := in.Phi.Incoming
		fb.pending = append(fb.pending, func() error {
			for _, op := range operands {
				pred, err := fb.block(op.Label)
				if err != nil {
					return err
				}
				v, err := fb.value(op.Val, ty)
				if err != nil {
					return err
				}
				phi.Incoming[pred] = v
			}
			return nil
		})

	case in.Br != nil:
		cond, err := fb.value(in.Br.Cond, &ir.IntType{Bits: 1})
		if err != nil {
			return err
		}
		ifTrue, err := fb.block(in.Br.IfTrue)
		if err != nil {
			return err
		}
		ifFalse, err := fb.block(in.Br.IfFalse)
		if err != nil {
			return err
		}
		blk.Terminator = ir.NewBranch(fb.id(), blk, cond, ifTrue, ifFalse)
		fb.connect(blk, ifTrue)
		fb.connect(blk, ifFalse)

	case in.Jmp != nil:
		target, err := fb.block(in.Jmp.Target)
		if err != nil {
			return err
		}
		blk.Terminator = ir.NewJump(fb.id(), blk, target)
		fb.connect(blk, target)

	case in.Ret != nil:
		if in.Ret.Void {
			blk.Terminator = ir.NewReturn(fb.id(), blk, nil)
			return nil
		}
		v, err := fb.value(in.Ret.Val, defaultIntType())
		if err != nil {
			return err
		}
		blk.Terminator = ir.NewReturn(fb.id(), blk, v)
	}
	return nil
}
