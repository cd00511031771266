// Package ir implements a minimal three-address, SSA-form intermediate
// representation: the IR the abstract interpretation engine (packages
// interval, domain, factmap, transfer, solver, boundscheck, divzero)
// consumes. Parsing/construction of this IR is explicitly out of scope
// for analytical effort (spec.md §1); this package exists to give the
// engine real instructions to walk and is kept deliberately small, the
// way the teacher's internal/ir kept its own Type/Value/Instruction
// layer stdlib-only.
package ir

import "fmt"

// Type is the static type of an IR value.
type Type interface {
	String() string
}

// IntType is a signed integer type of the given bit width.
type IntType struct{ Bits int }

func (t *IntType) String() string { return fmt.Sprintf("i%d", t.Bits) }

// PointerType is a pointer to elements of Elem.
type PointerType struct{ Elem Type }

func (t *PointerType) String() string { return t.Elem.String() + "*" }

// ArrayType is a fixed-length array of Elem, Len elements.
type ArrayType struct {
	Elem Type
	Len  int
}

func (t *ArrayType) String() string { return fmt.Sprintf("[%d x %s]", t.Len, t.Elem.String()) }

// VoidType is the type of instructions with no result (store, branch,
// return).
type VoidType struct{}

func (t *VoidType) String() string { return "void" }

// IsInteger reports whether t is an integer type.
func IsInteger(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}

// IsPointer reports whether t is a pointer type.
func IsPointer(t Type) bool {
	_, ok := t.(*PointerType)
	return ok
}

// Value is anything an instruction can use as an operand: another
// instruction's result, a function argument, or a constant.
type Value interface {
	Type() Type
	Name() string
	String() string
}

// Const is a compile-time integer constant.
type Const struct {
	Val int
	Ty  Type
}

func (c *Const) Type() Type     { return c.Ty }
func (c *Const) Name() string   { return fmt.Sprintf("%d", c.Val) }
func (c *Const) String() string { return c.Name() }

// Param is a function parameter.
type Param struct {
	Ident string
	Ty    Type
}

func (p *Param) Type() Type     { return p.Ty }
func (p *Param) Name() string   { return p.Ident }
func (p *Param) String() string { return "%" + p.Ident }

// Global is a module-level global with an optional known constant
// initializer; spec.md §4.2 says an unpacked constant initializer yields
// a singleton Domain, while no initializer (or a non-integral one) is
// unknown.
type Global struct {
	Ident       string
	Ty          Type
	Initializer *int
}

func (g *Global) Type() Type     { return g.Ty }
func (g *Global) Name() string   { return "@" + g.Ident }
func (g *Global) String() string { return g.Name() }
