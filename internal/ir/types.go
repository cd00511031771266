package ir

import (
	"fmt"
	"strings"
)

// Program is the top-level container for all functions under analysis.
// One-function-at-a-time is the unit of analysis (spec.md §1, §5): the
// engine never shares state across Program.Functions.
type Program struct {
	Name      string
	Functions []*Function
	Globals   []*Global
}

// Function is one analyzable unit: a CFG of basic blocks in SSA form.
type Function struct {
	Name    string
	Params  []*Param
	RetType Type
	Entry   *BasicBlock
	Blocks  []*BasicBlock
}

// BasicBlock is a straight-line run of Instructions ending in a
// Terminator, with explicit predecessor/successor edges (spec.md §4.5's
// solver walks these directly instead of re-deriving them from raw
// iterator arithmetic, the way original_source/src/ChaoticIteration.cpp's
// getPredecessors/getSuccessors do over LLVM's block iterators).
type BasicBlock struct {
	Label        string
	Instructions []Instruction
	Terminator   Terminator
	Predecessors []*BasicBlock
	Successors   []*BasicBlock
}

// AllInstructions returns every instruction in the block, including its
// terminator, in program order.
func (b *BasicBlock) AllInstructions() []Instruction {
	if b.Terminator == nil {
		return b.Instructions
	}
	return append(append([]Instruction(nil), b.Instructions...), b.Terminator)
}

// Instruction is the common interface every IR instruction implements,
// mirroring spec.md §6's "every instruction exposes" list exactly:
// parent block, operand list, opcode (via the concrete Go type), result
// type, and a printable unique identifier (ID).
type Instruction interface {
	ID() int
	Result() Value // nil if the instruction produces no value
	Operands() []Value
	Block() *BasicBlock
	IsTerminator() bool
	String() string
}

// Terminator is an Instruction that ends a basic block and names its
// successor blocks.
type Terminator interface {
	Instruction
	Successors() []*BasicBlock
}

// instr carries the fields every concrete instruction needs: a unique
// id and its parent block. Embedded by every concrete instruction type
// below, the way the teacher's instruction structs each keep their own
// ID/Block fields.
type instr struct {
	id    int
	block *BasicBlock
}

func (i *instr) ID() int           { return i.id }
func (i *instr) Block() *BasicBlock { return i.block }

// result is a defined SSA value: an instruction's own Value identity.
// Embedding *result on an instruction both implements Value and gives
// the instruction a stable Name for FactMap lookups.
type result struct {
	name string
	ty   Type
}

func (r *result) Type() Type   { return r.ty }
func (r *result) Name() string { return r.name }
func (r *result) String() string {
	return "%" + r.name
}

// PhiInstruction merges values flowing in from each predecessor block.
type PhiInstruction struct {
	instr
	*result
	Incoming map[*BasicBlock]Value
}

func (p *PhiInstruction) Result() Value { return p }
func (p *PhiInstruction) Operands() []Value {
	ops := make([]Value, 0, len(p.Incoming))
	for _, v := range p.Incoming {
		ops = append(ops, v)
	}
	return ops
}
func (p *PhiInstruction) IsTerminator() bool { return false }
func (p *PhiInstruction) String() string {
	return fmt.Sprintf("%%%s = phi %s", p.name, formatIncoming(p.Incoming))
}

func formatIncoming(in map[*BasicBlock]Value) string {
	parts := make([]string, 0, len(in))
	for b, v := range in {
		s := "%" + v.Name()
		if _, isInstr := v.(Instruction); !isInstr {
			s = v.String()
		}
		parts = append(parts, fmt.Sprintf("[%s, %%%s]", s, b.Label))
	}
	return strings.Join(parts, ", ")
}

// BinOp is the opcode of a BinaryInstruction.
type BinOp string

const (
	OpAdd  BinOp = "add"
	OpSub  BinOp = "sub"
	OpMul  BinOp = "mul"
	OpSDiv BinOp = "sdiv"
	OpUDiv BinOp = "udiv"
)

// IsDivision reports whether op is a (possibly unsigned) division.
func (op BinOp) IsDivision() bool {
	return op == OpSDiv || op == OpUDiv
}

// BinaryInstruction computes Op(Left, Right).
type BinaryInstruction struct {
	instr
	*result
	Op          BinOp
	Left, Right Value
}

func (b *BinaryInstruction) Result() Value     { return b }
func (b *BinaryInstruction) Operands() []Value { return []Value{b.Left, b.Right} }
func (b *BinaryInstruction) IsTerminator() bool { return false }
func (b *BinaryInstruction) String() string {
	return fmt.Sprintf("%%%s = %s %s, %s", b.name, b.Op, b.Left, b.Right)
}

// CmpPred is a comparison predicate.
type CmpPred string

const (
	CmpEQ  CmpPred = "eq"
	CmpNE  CmpPred = "ne"
	CmpSLT CmpPred = "slt"
	CmpSLE CmpPred = "sle"
	CmpSGT CmpPred = "sgt"
	CmpSGE CmpPred = "sge"
	CmpULT CmpPred = "ult"
	CmpULE CmpPred = "ule"
	CmpUGT CmpPred = "ugt"
	CmpUGE CmpPred = "uge"
)

// CmpInstruction computes a boolean-valued comparison.
type CmpInstruction struct {
	instr
	*result
	Pred        CmpPred
	Left, Right Value
}

func (c *CmpInstruction) Result() Value     { return c }
func (c *CmpInstruction) Operands() []Value { return []Value{c.Left, c.Right} }
func (c *CmpInstruction) IsTerminator() bool { return false }
func (c *CmpInstruction) String() string {
	return fmt.Sprintf("%%%s = cmp %s %s, %s", c.name, c.Pred, c.Left, c.Right)
}

// CastInstruction forwards Source's value (and allocation size, if any)
// under a new type.
type CastInstruction struct {
	instr
	*result
	Source Value
}

func (c *CastInstruction) Result() Value     { return c }
func (c *CastInstruction) Operands() []Value { return []Value{c.Source} }
func (c *CastInstruction) IsTerminator() bool { return false }
func (c *CastInstruction) String() string {
	return fmt.Sprintf("%%%s = cast %s to %s", c.name, c.Source, c.ty)
}

// AllocaInstruction reserves stack storage of AllocType, which may be an
// *ArrayType (recording an allocation size) or a scalar *IntType.
type AllocaInstruction struct {
	instr
	*result
	AllocType Type
}

func (a *AllocaInstruction) Result() Value     { return a }
func (a *AllocaInstruction) Operands() []Value { return nil }
func (a *AllocaInstruction) IsTerminator() bool { return false }
func (a *AllocaInstruction) String() string {
	return fmt.Sprintf("%%%s = alloca %s", a.name, a.AllocType)
}

// GEPInstruction computes a pointer offset from Base. Indices holds
// either one index (pointer indexing, e.g. p[i]) or two indices (array-
// of-arrays addressing, e.g. a[0][i]); spec.md §4.6 dispatches on this
// operand count.
type GEPInstruction struct {
	instr
	*result
	Base    Value
	Indices []Value
}

func (g *GEPInstruction) Result() Value { return g }
func (g *GEPInstruction) Operands() []Value {
	return append([]Value{g.Base}, g.Indices...)
}
func (g *GEPInstruction) IsTerminator() bool { return false }

// IndexOperand returns the index operand the bounds check should use:
// the second index for a three-operand (array-of-arrays) GEP, the first
// for a two-operand GEP, per spec.md §4.6.
func (g *GEPInstruction) IndexOperand() Value {
	if len(g.Indices) >= 2 {
		return g.Indices[1]
	}
	if len(g.Indices) == 1 {
		return g.Indices[0]
	}
	return nil
}

func (g *GEPInstruction) String() string {
	parts := make([]string, len(g.Indices))
	for i, idx := range g.Indices {
		parts[i] = idx.String()
	}
	return fmt.Sprintf("%%%s = gep %s, %s", g.name, g.Base, strings.Join(parts, ", "))
}

// CallKind distinguishes the call targets the transfer function treats
// specially.
type CallKind string

const (
	CallOrdinary CallKind = ""
	CallInput    CallKind = "input"  // getchar, fgetc
	CallMalloc   CallKind = "malloc" // malloc
)

// CallInstruction calls Callee with Args. Result() is nil for calls
// constructed with a nil or VoidType result type.
type CallInstruction struct {
	instr
	resultVal *result // nil when the call has no result
	Callee    string
	Kind      CallKind
	Args      []Value
}

func NewCallInstruction(id int, block *BasicBlock, callee string, kind CallKind, args []Value, name string, ty Type) *CallInstruction {
	c := &CallInstruction{instr: instr{id: id, block: block}, Callee: callee, Kind: kind, Args: args}
	if ty != nil {
		if _, isVoid := ty.(*VoidType); !isVoid {
			c.resultVal = &result{name: name, ty: ty}
		}
	}
	return c
}

func (c *CallInstruction) Result() Value {
	if c.resultVal == nil {
		return nil
	}
	return c.resultVal
}
func (c *CallInstruction) Operands() []Value { return c.Args }
func (c *CallInstruction) IsTerminator() bool { return false }
func (c *CallInstruction) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	if c.resultVal != nil {
		return fmt.Sprintf("%%%s = call %s(%s)", c.resultVal.name, c.Callee, strings.Join(args, ", "))
	}
	return fmt.Sprintf("call %s(%s)", c.Callee, strings.Join(args, ", "))
}

// LoadInstruction reads the value stored at Address. Result is nil when
// the loaded type is not integral (spec.md §4.4: "gen {var(I) ->
// getOrExtract(p)}" only fires for integer-typed results).
type LoadInstruction struct {
	instr
	resultVal *result
	Address   Value
}

func NewLoadInstruction(id int, block *BasicBlock, address Value, name string, ty Type) *LoadInstruction {
	l := &LoadInstruction{instr: instr{id: id, block: block}, Address: address}
	if IsInteger(ty) {
		l.resultVal = &result{name: name, ty: ty}
	}
	return l
}

func (l *LoadInstruction) Result() Value {
	if l.resultVal == nil {
		return nil
	}
	return l.resultVal
}
func (l *LoadInstruction) Operands() []Value { return []Value{l.Address} }
func (l *LoadInstruction) IsTerminator() bool { return false }
func (l *LoadInstruction) String() string {
	if l.resultVal != nil {
		return fmt.Sprintf("%%%s = load %s", l.resultVal.name, l.Address)
	}
	return fmt.Sprintf("load %s", l.Address)
}

// StoreInstruction writes Val to Address.
type StoreInstruction struct {
	instr
	Address Value
	Val     Value
}

func (s *StoreInstruction) Result() Value     { return nil }
func (s *StoreInstruction) Operands() []Value { return []Value{s.Address, s.Val} }
func (s *StoreInstruction) IsTerminator() bool { return false }
func (s *StoreInstruction) String() string {
	return fmt.Sprintf("store %s, %s", s.Val, s.Address)
}

// BranchInstruction is a conditional branch. Flow-insensitive by design
// (spec.md Non-goals): its transfer is always a no-op.
type BranchInstruction struct {
	instr
	Cond             Value
	IfTrue, IfFalse  *BasicBlock
}

func (b *BranchInstruction) Result() Value     { return nil }
func (b *BranchInstruction) Operands() []Value { return []Value{b.Cond} }
func (b *BranchInstruction) IsTerminator() bool { return true }
func (b *BranchInstruction) Successors() []*BasicBlock {
	return []*BasicBlock{b.IfTrue, b.IfFalse}
}
func (b *BranchInstruction) String() string {
	return fmt.Sprintf("br %s, %%%s, %%%s", b.Cond, b.IfTrue.Label, b.IfFalse.Label)
}

// JumpInstruction is an unconditional branch.
type JumpInstruction struct {
	instr
	Target *BasicBlock
}

func (j *JumpInstruction) Result() Value     { return nil }
func (j *JumpInstruction) Operands() []Value { return nil }
func (j *JumpInstruction) IsTerminator() bool { return true }
func (j *JumpInstruction) Successors() []*BasicBlock {
	return []*BasicBlock{j.Target}
}
func (j *JumpInstruction) String() string { return fmt.Sprintf("jmp %%%s", j.Target.Label) }

// ReturnInstruction ends a function, optionally with a value.
type ReturnInstruction struct {
	instr
	Val Value // nil for a void return
}

func (r *ReturnInstruction) Result() Value { return nil }
func (r *ReturnInstruction) Operands() []Value {
	if r.Val != nil {
		return []Value{r.Val}
	}
	return nil
}
func (r *ReturnInstruction) IsTerminator() bool          { return true }
func (r *ReturnInstruction) Successors() []*BasicBlock   { return nil }
func (r *ReturnInstruction) String() string {
	if r.Val != nil {
		return fmt.Sprintf("ret %s", r.Val)
	}
	return "ret void"
}
