package codegen

import (
	"fmt"
	"rill/internal/sm"
	"strings"
)

// ---------------------------------------------------------------------------
// Emitter — lowers a stack-machine program to x86 (32-bit, AT&T) assembly
//
// The runtime contract: Lread returns its result in %eax; Lwrite takes one
// cdecl stack argument.  Every stack-machine value is kept in the location
// the symbolic stack assigned to it, so opcodes compile independently.
// ---------------------------------------------------------------------------

// Compile translates a stack-machine program into the full text of an
// assembly translation unit.
func Compile(prog sm.Program) (string, error) {
	env := NewEnv()
	var body []Insn
	var err error
	for pc, insn := range prog {
		env, body, err = compileInsn(env, body, insn)
		if err != nil {
			return "", fmt.Errorf("at %d (%s): %w", pc, insn, err)
		}
	}

	var b strings.Builder
	for _, i := range assembleUnit(env, body) {
		b.WriteString(i.String())
	}
	return b.String(), nil
}

// compileInsn emits the x86 sequence for one stack-machine instruction,
// threading the environment.  Each opcode is preceded by a comment line
// naming it.
func compileInsn(env *Env, code []Insn, insn sm.Insn) (*Env, []Insn, error) {
	code = append(code, meta("# "+insn.String()+"\n"))

	switch insn.Op {
	case sm.OpRead:
		s, env1 := env.Allocate()
		code = append(code, call("Lread"), mov(ax, s))
		return env1, code, nil

	case sm.OpWrite:
		if env.Depth() < 1 {
			return env, code, fmt.Errorf("symbolic stack underflow")
		}
		s, env1 := env.Pop()
		// The popped %eax discards the cdecl argument.
		code = append(code, push(s), call("Lwrite"), pop(ax))
		return env1, code, nil

	case sm.OpConst:
		s, env1 := env.Allocate()
		code = append(code, move(Imm(insn.Arg), s)...)
		return env1, code, nil

	case sm.OpLd:
		env1 := env.AddGlobal(insn.Name)
		s, env2 := env1.Allocate()
		code = append(code, move(env1.Loc(insn.Name), s)...)
		return env2, code, nil

	case sm.OpSt:
		env1 := env.AddGlobal(insn.Name)
		if env1.Depth() < 1 {
			return env, code, fmt.Errorf("symbolic stack underflow")
		}
		s, env2 := env1.Pop()
		code = append(code, move(s, env1.Loc(insn.Name))...)
		return env2, code, nil

	case sm.OpBinop:
		if env.Depth() < 2 {
			return env, code, fmt.Errorf("symbolic stack underflow")
		}
		a, b, env1 := env.Pop2()
		seq, err := opCode(insn.Binop, a, b)
		if err != nil {
			return env, code, err
		}
		code = append(code, seq...)
		// The result reuses b's storage.
		return env1.Push(b), code, nil

	default:
		return env, code, fmt.Errorf("unknown stack-machine opcode %d", int(insn.Op))
	}
}

// move emits a mov from one location to another.  x86 has no
// memory-to-memory mov, so that case goes through %eax.
func move(from, to Operand) []Insn {
	if from.isMem() && to.isMem() {
		return []Insn{mov(from, ax), mov(ax, to)}
	}
	return []Insn{mov(from, to)}
}

// opCode dispatches one BINOP operator.  a is the right operand (old stack
// top), b the left; the result lands in b's storage.
func opCode(op string, a, b Operand) ([]Insn, error) {
	switch op {
	case "+", "-", "*", "&&", "!!":
		return compileOp(op, a, b), nil
	case "/":
		return compileDivOp(ax, a, b), nil
	case "%":
		return compileDivOp(dx, a, b), nil
	case "<", "<=", "==", "!=", ">=", ">":
		return compileCompare(op, a, b), nil
	default:
		return nil, fmt.Errorf("unknown binary operator %q", op)
	}
}

// compileOp emits a two-operand ALU op.  The destination must be a
// register; otherwise the operation runs in %eax and the result moves back.
func compileOp(op string, a, b Operand) []Insn {
	if b.Kind == OpReg {
		return []Insn{binop(op, a, b)}
	}
	var seq []Insn
	seq = append(seq, move(b, ax)...)
	seq = append(seq, binop(op, a, ax))
	seq = append(seq, move(ax, b)...)
	return seq
}

// compileDivOp emits a signed division.  cltd sign-extends %eax into
// %edx:%eax; idivl leaves the quotient in %eax and the remainder in %edx,
// and result selects which one b receives.  a is never an immediate: every
// stack entry came from Allocate, which only produces registers and slots.
func compileDivOp(result, a, b Operand) []Insn {
	var seq []Insn
	seq = append(seq, move(b, ax)...)
	seq = append(seq, cltd(), idiv(a))
	seq = append(seq, move(result, b)...)
	return seq
}

// compareSuffix maps comparison operators to setcc condition suffixes.
var compareSuffix = map[string]string{
	"<": "l", "<=": "le", "==": "e", "!=": "ne", ">=": "ge", ">": "g",
}

// compileCompare emits a comparison whose 0/1 outcome is set in %al.
// set<cc> writes only %al; the upper bits of %eax keep whatever they held,
// and the full %eax is stored, so consumers must treat any non-zero value
// as true.
func compileCompare(op string, a, b Operand) []Insn {
	seq := compileOp("cmp", a, b)
	seq = append(seq, set(compareSuffix[op], "%al"))
	seq = append(seq, move(ax, b)...)
	return seq
}

// assembleUnit wraps the body with the data section and the main
// prologue/epilogue, producing the complete translation unit.
func assembleUnit(env *Env, body []Insn) []Insn {
	unit := []Insn{
		meta("\t.global\tmain\n"),
		meta("\t.data\n"),
	}
	for _, g := range env.Globals() {
		unit = append(unit, meta(g+":\t.int\t0\n"))
	}
	unit = append(unit,
		meta("\t.text\n"),
		meta("main:\n"),
		push(bp),
		mov(sp, bp),
		binop("-", Imm(wordSize*env.StackSize()), sp),
	)
	unit = append(unit, body...)
	unit = append(unit,
		mov(bp, sp),
		pop(bp),
		binop("^", ax, ax),
		ret(),
	)
	return unit
}
