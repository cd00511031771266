package irtext

// Program is the root grammar rule: a sequence of functions.
type Program struct {
	Functions []*Function `@@*`
}

// Function is "func name(params) -> type { blocks }".
type Function struct {
	Name    string       `"func" @Ident`
	Params  []*ParamDecl `"(" [ @@ { "," @@ } ] ")"`
	RetType *TypeExpr    `"->" @@`
	Blocks  []*Block     `"{" @@+ "}"`
}

// ParamDecl is "%name: type".
type ParamDecl struct {
	Name string    `@Percent ":"`
	Type *TypeExpr `@@`
}

// TypeExpr covers i<N>, i<N>*, [<N> x <elem>], and void.
type TypeExpr struct {
	Array   *ArrayTypeExpr `  @@`
	Void    bool           `| @"void"`
	Name    string         `| @Ident`
	Pointer bool           `  [ @"*" ]`
}

// ArrayTypeExpr is "[<len> x <elem>]".
type ArrayTypeExpr struct {
	Len  int       `"[" @Integer`
	Elem *TypeExpr `"x" @@ "]"`
}

// Block is "label: instr*".
type Block struct {
	Label        string         `@Ident ":"`
	Instructions []*Instruction `@@*`
}

// ValueExpr is a reference to an SSA name, global, or integer literal.
type ValueExpr struct {
	Reg    string `  @Percent`
	Global string `| @At`
	Int    *int   `| @Integer`
}

// Instruction covers every opcode irtext accepts. Only one alternative
// field is ever populated per parsed instruction.
type Instruction struct {
	Alloca *AllocaInstr `  @@`
	GEP    *GEPInstr    `| @@`
	Load   *LoadInstr   `| @@`
	Store  *StoreInstr  `| @@`
	Binary *BinaryInstr `| @@`
	Cmp    *CmpInstr    `| @@`
	Cast   *CastInstr   `| @@`
	Call   *CallInstr   `| @@`
	Phi    *PhiInstr    `| @@`
	Br     *BrInstr     `| @@`
	Jmp    *JmpInstr    `| @@`
	Ret    *RetInstr    `| @@`
}

type AllocaInstr struct {
	Name string    `@Percent "=" "alloca"`
	Type *TypeExpr `@@`
}

type GEPInstr struct {
	Name    string       `@Percent "=" "gep"`
	Base    *ValueExpr   `@@`
	Indices []*ValueExpr `{ "," @@ }`
}

type LoadInstr struct {
	Name    string     `@Percent "=" "load"`
	Address *ValueExpr `@@`
}

type StoreInstr struct {
	Val     *ValueExpr `"store" @@`
	Address *ValueExpr `"," @@`
}

type BinaryInstr struct {
	Name  string     `@Percent "="`
	Op    string      `@("add" | "sub" | "mul" | "sdiv" | "udiv")`
	Left  *ValueExpr `@@`
	Right *ValueExpr `"," @@`
}

type CmpInstr struct {
	Name  string     `@Percent "=" "cmp"`
	Pred  string     `@("eq" | "ne" | "slt" | "sle" | "sgt" | "sge" | "ult" | "ule" | "ugt" | "uge")`
	Left  *ValueExpr `@@`
	Right *ValueExpr `"," @@`
}

type CastInstr struct {
	Name   string     `@Percent "=" "cast"`
	Source *ValueExpr `@@ "to"`
	Type   *TypeExpr  `@@`
}

type CallInstr struct {
	Name   string       `[ @Percent "=" ]`
	Callee string       `"call" @Ident`
	Args   []*ValueExpr `"(" [ @@ { "," @@ } ] ")"`
}

type PhiInstr struct {
	Name     string         `@Percent "=" "phi"`
	Incoming []*PhiOperand  `@@ { "," @@ }`
}

type PhiOperand struct {
	Val   *ValueExpr `"[" @@`
	Label string     `"," @Ident "]"`
}

type BrInstr struct {
	Cond    *ValueExpr `"br" @@`
	IfTrue  string     `"," @Ident`
	IfFalse string     `"," @Ident`
}

type JmpInstr struct {
	Target string `"jmp" @Ident`
}

type RetInstr struct {
	Void bool       `"ret" ( @"void"`
	Val  *ValueExpr `  | @@ )`
}
