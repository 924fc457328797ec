package ast

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Source position
// ---------------------------------------------------------------------------

// Position represents a line/column pair in source code (1-based).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// Node is implemented by every AST node.
type Node interface {
	GetPos() Position
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// IntLit is a decimal integer literal.
type IntLit struct {
	Value int
	Pos   Position
}

func (n *IntLit) GetPos() Position { return n.Pos }
func (n *IntLit) exprNode()        {}

// Var is a plain variable reference.
type Var struct {
	Name string
	Pos  Position
}

func (n *Var) GetPos() Position { return n.Pos }
func (n *Var) exprNode()        {}

// BinaryExpr: <left> <op> <right>
// Op is one of + - * / % < <= > >= == != && !!
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Position
}

func (n *BinaryExpr) GetPos() Position { return n.Pos }
func (n *BinaryExpr) exprNode()        {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// SkipStmt: skip — does nothing.
type SkipStmt struct {
	Pos Position
}

func (n *SkipStmt) GetPos() Position { return n.Pos }
func (n *SkipStmt) stmtNode()        {}

// AssignStmt: <name> := <value>
type AssignStmt struct {
	Name  string
	Value Expr
	Pos   Position
}

func (n *AssignStmt) GetPos() Position { return n.Pos }
func (n *AssignStmt) stmtNode()        {}

// ReadStmt: read (<name>)
type ReadStmt struct {
	Name string
	Pos  Position
}

func (n *ReadStmt) GetPos() Position { return n.Pos }
func (n *ReadStmt) stmtNode()        {}

// WriteStmt: write (<value>)
type WriteStmt struct {
	Value Expr
	Pos   Position
}

func (n *WriteStmt) GetPos() Position { return n.Pos }
func (n *WriteStmt) stmtNode()        {}

// SeqStmt: <first> ; <second>
type SeqStmt struct {
	First  Stmt
	Second Stmt
	Pos    Position
}

func (n *SeqStmt) GetPos() Position { return n.Pos }
func (n *SeqStmt) stmtNode()        {}

// ---------------------------------------------------------------------------
// Debug printer – produces a human-readable tree representation
// ---------------------------------------------------------------------------

// DebugString returns a readable multi-line representation of the AST.
func DebugString(s Stmt) string {
	var b strings.Builder
	debugStmt(&b, s, 0)
	return b.String()
}

func writeIndent(b *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		b.WriteString("  ")
	}
}

func debugStmt(b *strings.Builder, s Stmt, level int) {
	switch s := s.(type) {
	case *SkipStmt:
		writeIndent(b, level)
		b.WriteString("SkipStmt\n")
	case *AssignStmt:
		writeIndent(b, level)
		fmt.Fprintf(b, "AssignStmt %s := %s\n", s.Name, ExprString(s.Value))
	case *ReadStmt:
		writeIndent(b, level)
		fmt.Fprintf(b, "ReadStmt %s\n", s.Name)
	case *WriteStmt:
		writeIndent(b, level)
		fmt.Fprintf(b, "WriteStmt %s\n", ExprString(s.Value))
	case *SeqStmt:
		writeIndent(b, level)
		b.WriteString("SeqStmt\n")
		debugStmt(b, s.First, level+1)
		debugStmt(b, s.Second, level+1)
	default:
		writeIndent(b, level)
		b.WriteString("<unknown stmt>\n")
	}
}

// ExprString returns a concise one-line representation of an expression.
func ExprString(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch e := e.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", e.Value)
	case *Var:
		return e.Name
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", ExprString(e.Left), e.Op, ExprString(e.Right))
	default:
		return "<unknown expr>"
	}
}
