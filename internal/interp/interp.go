package interp

import (
	"bufio"
	"fmt"
	"io"
	"rill/internal/ast"
	"rill/internal/sm"
)

// ---------------------------------------------------------------------------
// Reference interpreter — executes the AST directly
// ---------------------------------------------------------------------------

// Run executes a program AST.  read scans whitespace-separated integers
// from in; write prints one integer per line to out.
func Run(s ast.Stmt, in io.Reader, out io.Writer) error {
	i := &interpreter{
		state: map[string]int{},
		out:   out,
	}
	i.scanner = bufio.NewScanner(in)
	i.scanner.Split(bufio.ScanWords)
	return i.execStmt(s)
}

type interpreter struct {
	state   map[string]int
	scanner *bufio.Scanner
	out     io.Writer
}

func (i *interpreter) execStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.SkipStmt:
		return nil

	case *ast.AssignStmt:
		v, err := i.evalExpr(s.Value)
		if err != nil {
			return err
		}
		i.state[s.Name] = v
		return nil

	case *ast.ReadStmt:
		if !i.scanner.Scan() {
			if err := i.scanner.Err(); err != nil {
				return fmt.Errorf("%s: read: %w", s.Pos, err)
			}
			return fmt.Errorf("%s: read: input exhausted", s.Pos)
		}
		var v int
		if _, err := fmt.Sscanf(i.scanner.Text(), "%d", &v); err != nil {
			return fmt.Errorf("%s: read: bad integer %q", s.Pos, i.scanner.Text())
		}
		i.state[s.Name] = v
		return nil

	case *ast.WriteStmt:
		v, err := i.evalExpr(s.Value)
		if err != nil {
			return err
		}
		fmt.Fprintf(i.out, "%d\n", v)
		return nil

	case *ast.SeqStmt:
		if err := i.execStmt(s.First); err != nil {
			return err
		}
		return i.execStmt(s.Second)

	default:
		return fmt.Errorf("%s: cannot execute statement %T", s.GetPos(), s)
	}
}

func (i *interpreter) evalExpr(e ast.Expr) (int, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return e.Value, nil

	case *ast.Var:
		v, ok := i.state[e.Name]
		if !ok {
			return 0, fmt.Errorf("%s: undefined variable %q", e.Pos, e.Name)
		}
		return v, nil

	case *ast.BinaryExpr:
		left, err := i.evalExpr(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := i.evalExpr(e.Right)
		if err != nil {
			return 0, err
		}
		v, err := sm.EvalBinop(e.Op, left, right)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", e.Pos, err)
		}
		return v, nil

	default:
		return 0, fmt.Errorf("%s: cannot evaluate expression %T", e.GetPos(), e)
	}
}
