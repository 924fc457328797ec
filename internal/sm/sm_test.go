package sm_test

import (
	"bytes"
	"rill/internal/ast"
	"rill/internal/lexer"
	"rill/internal/parser"
	"rill/internal/sm"
	"strings"
	"testing"
)

// helper: parse source into an AST, failing the test on any error.
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

// helper: lower source to a stack-machine program.
func lowerInput(t *testing.T, input string) sm.Program {
	t.Helper()
	prog, err := sm.Compile(parseInput(t, input))
	if err != nil {
		t.Fatalf("lowering error: %v", err)
	}
	return prog
}

// helper: run a program with the given input text and return its output.
func runProgram(t *testing.T, prog sm.Program, input string) string {
	t.Helper()
	var out bytes.Buffer
	if err := sm.Run(prog, strings.NewReader(input), &out); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	return out.String()
}

// ---------------------------------------------------------------------------
// Lowering
// ---------------------------------------------------------------------------

func TestCompileConstWrite(t *testing.T) {
	prog := lowerInput(t, "write (42)")

	want := sm.Program{sm.Const(42), sm.Write()}
	if len(prog) != len(want) {
		t.Fatalf("program length: got %d, want %d", len(prog), len(want))
	}
	for i := range want {
		if prog[i] != want[i] {
			t.Errorf("insn %d: got %v, want %v", i, prog[i], want[i])
		}
	}
}

func TestCompileReadAssignWrite(t *testing.T) {
	prog := lowerInput(t, "read (x); y := x * 2; write (y)")

	want := sm.Program{
		sm.Read(), sm.St("x"),
		sm.Ld("x"), sm.Const(2), sm.Binop("*"), sm.St("y"),
		sm.Ld("y"), sm.Write(),
	}
	if len(prog) != len(want) {
		t.Fatalf("program length: got %d, want %d\n%s", len(prog), len(want), prog.DebugDump())
	}
	for i := range want {
		if prog[i] != want[i] {
			t.Errorf("insn %d: got %v, want %v", i, prog[i], want[i])
		}
	}
}

func TestCompileExpressionPostorder(t *testing.T) {
	// (1 + 2) * 3 must evaluate the parenthesised sum first.
	prog := lowerInput(t, "write ((1 + 2) * 3)")

	want := sm.Program{
		sm.Const(1), sm.Const(2), sm.Binop("+"),
		sm.Const(3), sm.Binop("*"),
		sm.Write(),
	}
	for i := range want {
		if prog[i] != want[i] {
			t.Errorf("insn %d: got %v, want %v", i, prog[i], want[i])
		}
	}
}

func TestCompileSkipEmitsNothing(t *testing.T) {
	prog := lowerInput(t, "skip")
	if len(prog) != 0 {
		t.Errorf("skip should lower to an empty program, got %s", prog.DebugDump())
	}
}

// ---------------------------------------------------------------------------
// Instruction printer
// ---------------------------------------------------------------------------

func TestInsnString(t *testing.T) {
	cases := []struct {
		insn sm.Insn
		want string
	}{
		{sm.Read(), "READ"},
		{sm.Write(), "WRITE"},
		{sm.Binop("+"), "BINOP +"},
		{sm.Binop("<="), "BINOP <="},
		{sm.Ld("x"), "LD x"},
		{sm.St("total"), "ST total"},
		{sm.Const(42), "CONST 42"},
		{sm.Const(-1), "CONST -1"},
	}
	for _, tc := range cases {
		if got := tc.insn.String(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Interpreter
// ---------------------------------------------------------------------------

func TestRunArithmetic(t *testing.T) {
	prog := lowerInput(t, "read (a); read (b); write (a + b * 2)")
	if got := runProgram(t, prog, "10 3"); got != "16\n" {
		t.Errorf("got %q, want %q", got, "16\n")
	}
}

func TestRunDivMod(t *testing.T) {
	prog := lowerInput(t, "read (a); write (a / 3); write (a % 3)")
	if got := runProgram(t, prog, "10"); got != "3\n1\n" {
		t.Errorf("got %q, want %q", got, "3\n1\n")
	}
}

func TestRunComparisonsProduceZeroOne(t *testing.T) {
	cases := []struct {
		src   string
		input string
		want  string
	}{
		{"read (a); write (a < 5)", "3", "1\n"},
		{"read (a); write (a < 5)", "7", "0\n"},
		{"read (a); write (a == 5)", "5", "1\n"},
		{"read (a); write (a != 5)", "5", "0\n"},
		{"read (a); write (a >= 5 && a <= 10)", "7", "1\n"},
		{"read (a); write (a < 5 !! a > 10)", "7", "0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			prog := lowerInput(t, tc.src)
			if got := runProgram(t, prog, tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRunDivisionByZero(t *testing.T) {
	prog := lowerInput(t, "read (a); write (1 / a)")
	var out bytes.Buffer
	err := sm.Run(prog, strings.NewReader("0"), &out)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestRunUndefinedVariable(t *testing.T) {
	prog := sm.Program{sm.Ld("nope"), sm.Write()}
	var out bytes.Buffer
	if err := sm.Run(prog, strings.NewReader(""), &out); err == nil {
		t.Fatal("expected an undefined-variable error")
	}
}

func TestRunStackUnderflow(t *testing.T) {
	prog := sm.Program{sm.Write()}
	var out bytes.Buffer
	if err := sm.Run(prog, strings.NewReader(""), &out); err == nil {
		t.Fatal("expected a stack underflow error")
	}
}

func TestRunInputExhausted(t *testing.T) {
	prog := sm.Program{sm.Read(), sm.Write()}
	var out bytes.Buffer
	if err := sm.Run(prog, strings.NewReader(""), &out); err == nil {
		t.Fatal("expected an input-exhausted error")
	}
}

func TestEvalBinopUnknownOperator(t *testing.T) {
	if _, err := sm.EvalBinop("@", 1, 2); err == nil {
		t.Fatal("expected an unknown-operator error")
	}
}
