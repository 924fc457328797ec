package sm

import (
	"fmt"
	"rill/internal/ast"
)

// ---------------------------------------------------------------------------
// Lowerer — translates an AST statement into a stack-machine program
// ---------------------------------------------------------------------------

// Compile lowers a program AST into stack-machine form.  Expressions are
// emitted in postorder, so each subexpression leaves exactly one value on
// the evaluation stack.
func Compile(s ast.Stmt) (Program, error) {
	l := &lowerer{}
	if err := l.lowerStmt(s); err != nil {
		return nil, err
	}
	return l.prog, nil
}

type lowerer struct {
	prog Program
}

func (l *lowerer) emit(insn Insn) {
	l.prog = append(l.prog, insn)
}

func (l *lowerer) lowerStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.SkipStmt:
		return nil

	case *ast.AssignStmt:
		if err := l.lowerExpr(s.Value); err != nil {
			return err
		}
		l.emit(St(s.Name))
		return nil

	case *ast.ReadStmt:
		l.emit(Read())
		l.emit(St(s.Name))
		return nil

	case *ast.WriteStmt:
		if err := l.lowerExpr(s.Value); err != nil {
			return err
		}
		l.emit(Write())
		return nil

	case *ast.SeqStmt:
		if err := l.lowerStmt(s.First); err != nil {
			return err
		}
		return l.lowerStmt(s.Second)

	default:
		return fmt.Errorf("cannot lower statement %T", s)
	}
}

func (l *lowerer) lowerExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.IntLit:
		l.emit(Const(e.Value))
		return nil

	case *ast.Var:
		l.emit(Ld(e.Name))
		return nil

	case *ast.BinaryExpr:
		if err := l.lowerExpr(e.Left); err != nil {
			return err
		}
		if err := l.lowerExpr(e.Right); err != nil {
			return err
		}
		l.emit(Binop(e.Op))
		return nil

	default:
		return fmt.Errorf("cannot lower expression %T", e)
	}
}
