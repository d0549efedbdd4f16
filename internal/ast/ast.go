// Package ast defines Clay's abstract syntax tree, following spec.md §3's
// Expression/Statement/Code/Top-level item variants. Nodes are plain
// structs implementing small marker interfaces rather than one god object
// with an integer tag (spec.md Design Notes §9, "Polymorphism").
package ast

import "github.com/clayscript/clay/internal/types"

// Pos is a 1-based source location, used to build the location stack
// (internal/diag) during evaluation.
type Pos struct {
	File string
	Line int
	Col  int
}

// Node is implemented by every AST node so the location stack can be
// pushed/popped uniformly.
type Node interface {
	Position() Pos
}

// Expression is the marker interface for the Expression variant.
type Expression interface {
	Node
	exprNode()
}

// Statement is the marker interface for the Statement variant.
type Statement interface {
	Node
	stmtNode()
}

type base struct{ Pos Pos }

func (b base) Position() Pos { return b.Pos }

// ---- Expressions ----

type BoolLit struct {
	base
	Value bool
}

// IntLit is an integer literal with an explicit size suffix. Suffix is one
// of "i8".."i64"/"u8".."u64"; an absent suffix in source defaults to "i32"
// at parse time (spec.md §6, "Numeric suffix semantics").
type IntLit struct {
	base
	Text   string // original digits, for range-checking against Suffix
	Suffix string
}

type FloatLit struct {
	base
	Text   string
	Suffix string // "f32" or "f64", default "f64"
}

// CharLit is syntactic sugar: spec.md §4.9 desugars it to a call to a
// module Char constructor on the byte value. Converted caches that call.
type CharLit struct {
	base
	Value     byte
	Converted Expression
}

// StringLit desugars to a call to a module string constructor over an
// array of char constructions.
type StringLit struct {
	base
	Value     string
	Converted Expression
}

type NameRef struct {
	base
	Name string
}

// TupleExpr is syntactic sugar: one element desugars to the element
// itself; two-or-more desugars to a call `tuple(...)`.
type TupleExpr struct {
	base
	Elems     []Expression
	Converted Expression
}

// ArrayExpr desugars to a call `array(...)`.
type ArrayExpr struct {
	base
	Elems     []Expression
	Converted Expression
}

// IndexExpr is `expr[args]`.
type IndexExpr struct {
	base
	Callee Expression
	Args   []Expression
}

// CallExpr is `expr(args)`.
type CallExpr struct {
	base
	Callee Expression
	Args   []Expression
}

// FieldRef is `expr.name`.
type FieldRef struct {
	base
	Target Expression
	Name   string
}

// TupleRef is `expr.index`.
type TupleRef struct {
	base
	Target Expression
	Index  int
}

// UnaryOp desugars to a call to a named core function or primitive
// (spec.md §4.9).
type UnaryOp struct {
	base
	Op        string
	Operand   Expression
	Converted Expression
}

// BinaryOp desugars to a call to a named core function (plus, minus, add,
// subtract, multiply, divide, remainder, equals?, notEquals?, lesser?,
// lesserEquals?, greater?, greaterEquals?) -- see spec.md §4.9.
type BinaryOp struct {
	base
	Op        string
	Left      Expression
	Right     Expression
	Converted Expression
}

// ShortCircuit is `and`/`or`.
type ShortCircuit struct {
	base
	Op    string // "and" or "or"
	Left  Expression
	Right Expression
}

// EnvExpr pairs an expression with a captured environment, used when a
// pattern cell's bound value must be re-evaluated in the environment where
// it was originally written (spec.md §3, "captured-environment expression").
type EnvExpr struct {
	base
	Inner Expression
	Env   any // *env.Environment; kept as any to avoid an import cycle
}

// ValueExpr wraps an already-computed value so it can flow back through
// expression-evaluation call sites (spec.md §3, "value-expression").
type ValueExpr struct {
	base
	Value any // *evaluator.Value
}

func (BoolLit) exprNode()      {}
func (IntLit) exprNode()       {}
func (FloatLit) exprNode()     {}
func (CharLit) exprNode()      {}
func (StringLit) exprNode()    {}
func (NameRef) exprNode()      {}
func (TupleExpr) exprNode()    {}
func (ArrayExpr) exprNode()    {}
func (IndexExpr) exprNode()    {}
func (CallExpr) exprNode()     {}
func (FieldRef) exprNode()     {}
func (TupleRef) exprNode()     {}
func (UnaryOp) exprNode()      {}
func (BinaryOp) exprNode()     {}
func (ShortCircuit) exprNode() {}
func (EnvExpr) exprNode()      {}
func (ValueExpr) exprNode()    {}

// ---- Statements ----

type Block struct {
	base
	Stmts []Statement
}

type Label struct {
	base
	Name string
}

// BindingKind is var/ref/static (spec.md §3, §4.6 "Bindings").
type BindingKind int

const (
	BindVar BindingKind = iota
	BindRef
	BindStatic
)

type Binding struct {
	base
	Kind BindingKind
	Name string
	Init Expression
}

type Assign struct {
	base
	Left  Expression
	Right Expression
}

type Goto struct {
	base
	Label string
}

type Return struct {
	base
	Value Expression // nil for bare `return;`
}

type ReturnRef struct {
	base
	Value Expression
}

type If struct {
	base
	Cond Expression
	Then Statement
	Else Statement // nil if absent
}

type ExprStmt struct {
	base
	Expr Expression
}

type While struct {
	base
	Cond Expression
	Body Statement
}

type Break struct{ base }

type Continue struct{ base }

// For desugars once to a while loop over an iterator (spec.md §4.6);
// Converted caches the rewritten Block.
type For struct {
	base
	Var       string
	Iterable  Expression
	Body      Statement
	Converted Statement
}

func (Block) stmtNode()     {}
func (Label) stmtNode()     {}
func (Binding) stmtNode()   {}
func (Assign) stmtNode()    {}
func (Goto) stmtNode()      {}
func (Return) stmtNode()    {}
func (ReturnRef) stmtNode() {}
func (If) stmtNode()        {}
func (ExprStmt) stmtNode()  {}
func (While) stmtNode()     {}
func (Break) stmtNode()     {}
func (Continue) stmtNode()  {}
func (For) stmtNode()       {}

// ---- Code & top-level items ----

// FormalArg is either a value argument (Type may be nil, meaning
// unannotated) or a static argument (Pattern holds the pattern expression).
type FormalArg struct {
	Name    string
	Static  bool
	Type    Expression // value-argument type annotation, or nil
	Pattern Expression // static-argument pattern expression, when Static
}

// Code is a pattern-variable list, optional predicate, formal arguments,
// and a body -- the shared shape behind procedures, overloads, and record
// constructors (spec.md §3).
type Code struct {
	PatternVars []string
	Predicate   Expression // nil if absent
	Formals     []FormalArg
	Body        Statement
}

// TopLevel is the marker interface for Record/Procedure/Overloadable/
// ExternalProcedure.
type TopLevel interface {
	Node
	topLevelNode()
}

type RecordItem struct {
	base
	Name        string
	PatternVars []string
	Fields      []FormalArg
	// Def is the types.RecordDef created for this declaration when the
	// module is loaded; field types are filled in lazily the first time
	// they are asked for (spec.md §3).
	Def *types.RecordDef
}

type ProcedureItem struct {
	base
	Name string
	Code Code
	// InvocationTable is attached by the loader once the invocation
	// package is available (held as `any` here to avoid an import cycle).
	InvocationTable any
}

type OverloadableItem struct {
	base
	Name      string
	Overloads []Code
	// InvocationTables is indexed by arity, attached by the loader.
	InvocationTables map[int]any
}

type ExternalProcedureItem struct {
	base
	Name       string
	Args       []FormalArg
	ReturnType Expression
	// JITHandle is populated lazily on first call by internal/ffi.
	JITHandle any
}

// PrimitiveOp names one of the ~60 closed-set primitive operators of
// spec.md §4.7. It is bound into the synthesized __primitives__ module
// rather than declared in source.
type PrimitiveOp struct {
	base
	Name string
}

func (RecordItem) topLevelNode()            {}
func (ProcedureItem) topLevelNode()          {}
func (OverloadableItem) topLevelNode()       {}
func (ExternalProcedureItem) topLevelNode()  {}
func (PrimitiveOp) topLevelNode()            {}
