package ir

// Builder assembles a Function one block and instruction at a time,
// threading IDs and predecessor/successor edges automatically. Used by
// tests that need fixture IR without hand-wiring every pointer
// (internal/irtext's parser wires its blocks itself).
type Builder struct {
	fn     *Function
	nextID int
}

// NewBuilder starts building a function named name with the given
// parameters and return type.
func NewBuilder(name string, params []*Param, ret Type) *Builder {
	return &Builder{fn: &Function{Name: name, Params: params, RetType: ret}}
}

// Block creates a new, empty basic block and appends it to the
// function. The first block created becomes the entry block.
func (b *Builder) Block(label string) *BasicBlock {
	blk := &BasicBlock{Label: label}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	if b.fn.Entry == nil {
		b.fn.Entry = blk
	}
	return blk
}

// Connect records a CFG edge from -> to.
func (b *Builder) Connect(from, to *BasicBlock) {
	from.Successors = append(from.Successors, to)
	to.Predecessors = append(to.Predecessors, from)
}

func (b *Builder) id() int {
	b.nextID++
	return b.nextID
}

// Emit appends a non-terminator instruction to blk and assigns it an ID.
func (b *Builder) Emit(blk *BasicBlock, mk func(id int) Instruction) Instruction {
	in := mk(b.id())
	blk.Instructions = append(blk.Instructions, in)
	return in
}

// Terminate sets blk's terminator and wires its CFG successor edges.
func (b *Builder) Terminate(blk *BasicBlock, mk func(id int) Terminator) Terminator {
	t := mk(b.id())
	blk.Terminator = t
	for _, succ := range t.Successors() {
		if succ != nil {
			b.Connect(blk, succ)
		}
	}
	return t
}

// Func returns the function assembled so far.
func (b *Builder) Func() *Function { return b.fn }

// NewBinary constructs a BinaryInstruction bound to blk.
func NewBinary(id int, blk *BasicBlock, op BinOp, name string, ty Type, l, r Value) *BinaryInstruction {
	return &BinaryInstruction{instr: instr{id: id, block: blk}, result: &result{name: name, ty: ty}, Op: op, Left: l, Right: r}
}

// NewCmp constructs a CmpInstruction bound to blk.
func NewCmp(id int, blk *BasicBlock, pred CmpPred, name string, l, r Value) *CmpInstruction {
	return &CmpInstruction{instr: instr{id: id, block: blk}, result: &result{name: name, ty: &IntType{Bits: 1}}, Pred: pred, Left: l, Right: r}
}

// NewAlloca constructs an AllocaInstruction bound to blk.
func NewAlloca(id int, blk *BasicBlock, name string, allocType Type) *AllocaInstruction {
	return &AllocaInstruction{instr: instr{id: id, block: blk}, result: &result{name: name, ty: &PointerType{Elem: allocType}}, AllocType: allocType}
}

// NewGEP constructs a GEPInstruction bound to blk.
func NewGEP(id int, blk *BasicBlock, name string, ty Type, base Value, indices ...Value) *GEPInstruction {
	return &GEPInstruction{instr: instr{id: id, block: blk}, result: &result{name: name, ty: ty}, Base: base, Indices: indices}
}

// NewCast constructs a CastInstruction bound to blk.
func NewCast(id int, blk *BasicBlock, name string, ty Type, source Value) *CastInstruction {
	return &CastInstruction{instr: instr{id: id, block: blk}, result: &result{name: name, ty: ty}, Source: source}
}

// NewPhi constructs a PhiInstruction bound to blk.
func NewPhi(id int, blk *BasicBlock, name string, ty Type, incoming map[*BasicBlock]Value) *PhiInstruction {
	return &PhiInstruction{instr: instr{id: id, block: blk}, result: &result{name: name, ty: ty}, Incoming: incoming}
}

// NewStore constructs a StoreInstruction bound to blk.
func NewStore(id int, blk *BasicBlock, address, val Value) *StoreInstruction {
	return &StoreInstruction{instr: instr{id: id, block: blk}, Address: address, Val: val}
}

// NewBranch constructs a BranchInstruction bound to blk.
func NewBranch(id int, blk *BasicBlock, cond Value, ifTrue, ifFalse *BasicBlock) *BranchInstruction {
	return &BranchInstruction{instr: instr{id: id, block: blk}, Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse}
}

// NewJump constructs a JumpInstruction bound to blk.
func NewJump(id int, blk *BasicBlock, target *BasicBlock) *JumpInstruction {
	return &JumpInstruction{instr: instr{id: id, block: blk}, Target: target}
}

// NewReturn constructs a ReturnInstruction bound to blk.
func NewReturn(id int, blk *BasicBlock, val Value) *ReturnInstruction {
	return &ReturnInstruction{instr: instr{id: id, block: blk}, Val: val}
}
