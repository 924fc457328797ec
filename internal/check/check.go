package check

import (
	"fmt"
	"rill/internal/ast"
)

// ---------------------------------------------------------------------------
// Diagnostic severity
// ---------------------------------------------------------------------------

// Severity indicates whether a diagnostic is an error or a warning.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// ---------------------------------------------------------------------------
// Diagnostic
// ---------------------------------------------------------------------------

// Diagnostic represents a single message produced by the checker.
type Diagnostic struct {
	Message  string
	Pos      ast.Position
	Severity Severity
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d, col %d: %s: %s", d.Pos.Line, d.Pos.Column, d.Severity, d.Message)
}

// HasErrors returns true if any diagnostic in the slice is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Analysis
// ---------------------------------------------------------------------------

// Analyze walks the program in execution order and reports variables that
// may be used before any read or assignment reaches them.  Because the
// language has no branching, a straight-line walk is exact: a variable use
// is flagged iff no earlier statement defines it.
func Analyze(s ast.Stmt) []Diagnostic {
	c := &checker{defined: map[string]bool{}}
	c.checkStmt(s)
	return c.diags
}

type checker struct {
	defined map[string]bool
	diags   []Diagnostic
}

func (c *checker) report(pos ast.Position, sev Severity, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Severity: sev,
	})
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.SkipStmt:

	case *ast.AssignStmt:
		c.checkExpr(s.Value)
		c.defined[s.Name] = true

	case *ast.ReadStmt:
		c.defined[s.Name] = true

	case *ast.WriteStmt:
		c.checkExpr(s.Value)

	case *ast.SeqStmt:
		c.checkStmt(s.First)
		c.checkStmt(s.Second)
	}
}

func (c *checker) checkExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Var:
		if !c.defined[e.Name] {
			c.report(e.Pos, Error, "variable %q used before assignment", e.Name)
		}

	case *ast.BinaryExpr:
		c.checkExpr(e.Left)
		c.checkExpr(e.Right)
		if e.Op == "/" || e.Op == "%" {
			if lit, ok := e.Right.(*ast.IntLit); ok && lit.Value == 0 {
				c.report(e.Pos, Warning, "division by constant zero")
			}
		}
	}
}
