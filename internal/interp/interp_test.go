package interp_test

import (
	"bytes"
	"rill/internal/ast"
	"rill/internal/interp"
	"rill/internal/lexer"
	"rill/internal/parser"
	"rill/internal/sm"
	"strings"
	"testing"
)

func parseInput(t *testing.T, input string) ast.Stmt {
	t.Helper()
	tokens, lexErrs := lexer.Lex(input)
	if len(lexErrs) > 0 {
		t.Fatalf("lex errors: %v", lexErrs)
	}
	prog, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		t.Fatalf("parse errors: %v", parseErrs)
	}
	return prog
}

func runSource(t *testing.T, src, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := interp.Run(parseInput(t, src), strings.NewReader(input), &out); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	return out.String()
}

func TestRunWriteLiteral(t *testing.T) {
	if got := runSource(t, "write (42)", ""); got != "42\n" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
}

func TestRunReadAssignWrite(t *testing.T) {
	src := "read (n); square := n * n; write (square)"
	if got := runSource(t, src, "7"); got != "49\n" {
		t.Errorf("got %q, want %q", got, "49\n")
	}
}

func TestRunOperatorPrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"write (2 + 3 * 4)", "14\n"},
		{"write ((2 + 3) * 4)", "20\n"},
		{"write (10 - 3 - 2)", "5\n"},
		{"write (1 + 2 < 4)", "1\n"},
		{"write (7 % 3 == 1)", "1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			if got := runSource(t, tc.src, ""); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRunSkip(t *testing.T) {
	if got := runSource(t, "skip; write (1)", ""); got != "1\n" {
		t.Errorf("got %q, want %q", got, "1\n")
	}
}

func TestRunUndefinedVariable(t *testing.T) {
	var out bytes.Buffer
	err := interp.Run(parseInput(t, "write (ghost)"), strings.NewReader(""), &out)
	if err == nil {
		t.Fatal("expected an undefined-variable error")
	}
}

func TestRunDivisionByZero(t *testing.T) {
	var out bytes.Buffer
	err := interp.Run(parseInput(t, "read (a); write (1 / a)"), strings.NewReader("0"), &out)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

// The AST interpreter and the stack machine must agree on every program.
func TestRunMatchesStackMachine(t *testing.T) {
	cases := []struct {
		src   string
		input string
	}{
		{"read (a); read (b); write (a + b)", "2 3"},
		{"read (a); write (a * a - 1)", "5"},
		{"read (a); read (b); write (a / b); write (a % b)", "17 5"},
		{"read (a); write (a > 0 && a < 100)", "50"},
		{"x := 1; y := 2; z := x + y * 3; write (z)", ""},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			tree := parseInput(t, tc.src)

			var astOut bytes.Buffer
			if err := interp.Run(tree, strings.NewReader(tc.input), &astOut); err != nil {
				t.Fatalf("AST interpreter error: %v", err)
			}

			prog, err := sm.Compile(tree)
			if err != nil {
				t.Fatalf("lowering error: %v", err)
			}
			var smOut bytes.Buffer
			if err := sm.Run(prog, strings.NewReader(tc.input), &smOut); err != nil {
				t.Fatalf("SM interpreter error: %v", err)
			}

			if astOut.String() != smOut.String() {
				t.Errorf("interpreters disagree: AST=%q SM=%q", astOut.String(), smOut.String())
			}
		})
	}
}
