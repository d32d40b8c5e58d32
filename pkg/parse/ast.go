package parse

import (
	"src.iok.sh/pkg/diag"
)

// Node is implemented by all AST nodes.
type Node interface {
	diag.Ranger
	isNode()
}

// Stmt is a statement.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression.
type Expr interface {
	Node
	isExpr()
}

type node struct{ diag.Ranging }

func (node) isNode() {}

type stmt struct{ node }

func (stmt) isStmt() {}

type expr struct{ node }

func (expr) isExpr() {}

// Program is the root of a parsed source.
type Program struct {
	node
	Source Source
	Stmts  []Stmt
}

// Imports returns the import statements of the program, in source order.
func (p *Program) Imports() []*ImportStmt {
	var imports []*ImportStmt
	for _, s := range p.Stmts {
		if s, ok := s.(*ImportStmt); ok {
			imports = append(imports, s)
		}
	}
	return imports
}

// Statements.

// LetStmt is "let NAME = VALUE". Value is nil when the initializer is
// omitted.
type LetStmt struct {
	stmt
	Name  *Ident
	Value Expr
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	stmt
	Expr Expr
}

// Block is a brace-delimited statement sequence. It is also a statement on
// its own.
type Block struct {
	stmt
	Stmts []Stmt
}

// ForStmt is "for VAR -> ITER { BODY }".
type ForStmt struct {
	stmt
	Var  *Ident
	Iter Expr
	Body *Block
}

// WhileStmt is "while COND { BODY }".
type WhileStmt struct {
	stmt
	Cond Expr
	Body *Block
}

// IfStmt is an if statement with any number of elsif clauses. Else is nil
// when there is no els clause.
type IfStmt struct {
	stmt
	Conds  []Expr
	Bodies []*Block
	Else   *Block
}

// FnDecl is a named function declaration.
type FnDecl struct {
	stmt
	Fn *FnLit
}

// StructDecl declares a struct type.
type StructDecl struct {
	stmt
	Name    *Ident
	Fields  []*FieldDecl
	Methods []*FnLit
}

// FieldDecl is a field of a struct declaration. Default is nil when there is
// no initializer.
type FieldDecl struct {
	node
	Name    *Ident
	Default Expr
}

// RetStmt is "ret" with an optional value.
type RetStmt struct {
	stmt
	Value Expr
}

// ImportStmt is "import a::b::c".
type ImportStmt struct {
	stmt
	Path []string
}

// Expressions.

// Ident is a name.
type Ident struct {
	expr
	Name string
}

// IntLit is an integer literal.
type IntLit struct {
	expr
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	expr
	Value float64
}

// BoolLit is true or false.
type BoolLit struct {
	expr
	Value bool
}

// NullLit is null.
type NullLit struct{ expr }

// SelfExpr is the self receiver.
type SelfExpr struct{ expr }

// StringLit is a string literal, possibly with interpolated expressions.
type StringLit struct {
	expr
	Parts []TemplatePart
}

// TemplatePart is either literal text or an interpolated expression.
type TemplatePart struct {
	Text string
	Expr Expr
}

// ArrayLit is "[e1, e2, ...]".
type ArrayLit struct {
	expr
	Elems []Expr
}

// StructLit is "NAME { field: value, ... }".
type StructLit struct {
	expr
	Name   *Ident
	Fields []*FieldInit
}

// FieldInit is one "field: value" entry of a struct literal.
type FieldInit struct {
	node
	Name  *Ident
	Value Expr
}

// FnLit is a function: the body of a declaration, a struct method or an
// anonymous function. Exactly one of Arrow and Body is non-nil.
type FnLit struct {
	expr
	// Empty for anonymous functions.
	Name   string
	Params []*Ident
	Arrow  Expr
	Body   *Block
}

// Binary is a binary operation.
type Binary struct {
	expr
	Op    string
	OpPos diag.Ranging
	Left  Expr
	Right Expr
}

// Unary is "-x" or "!x".
type Unary struct {
	expr
	Op      string
	Operand Expr
}

// RangeExpr is "START..END".
type RangeExpr struct {
	expr
	Start Expr
	End   Expr
}

// Assign is an assignment; Op is "=" or a compound operator like "+=".
type Assign struct {
	expr
	Op     string
	Target Expr
	Value  Expr
}

// Call is "CALLEE(ARGS)".
type Call struct {
	expr
	Callee Expr
	Args   []Expr
}

// Index is "TARGET[INDEX]".
type Index struct {
	expr
	Target Expr
	Index  Expr
}

// Field is "TARGET.NAME".
type Field struct {
	expr
	Target Expr
	Name   *Ident
}

// MethodCall is "TARGET.NAME(ARGS)".
type MethodCall struct {
	expr
	Target Expr
	Name   *Ident
	Args   []Expr
}

func (n *node) setRange(r diag.Ranging) { n.Ranging = r }
