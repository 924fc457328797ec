package parser

import (
	"fmt"
	"rill/internal/ast"
	"rill/internal/lexer"
	"strconv"
)

// ---------------------------------------------------------------------------
// ParseError
// ---------------------------------------------------------------------------

// ParseError represents a single error found during parsing.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Message)
}

// ---------------------------------------------------------------------------
// Parser
// ---------------------------------------------------------------------------

// Parser holds the state for a single parse pass over a token stream.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []ParseError
}

// Parse is the main entry point. It takes a token slice (as produced by
// lexer.Lex) and returns the program statement plus any parse errors
// collected. The returned statement is never nil; on a hopeless parse it is
// a SkipStmt.
func Parse(tokens []lexer.Token) (ast.Stmt, []ParseError) {
	p := &Parser{tokens: tokens, pos: 0}
	prog := p.parseProgram()
	return prog, p.errors
}

// ---------------------------------------------------------------------------
// Token helpers
// ---------------------------------------------------------------------------

// peek returns the current token without consuming it.
func (p *Parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Type: lexer.EOF}
}

// advance consumes and returns the current token.
func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

// check returns true if the current token has the given type.
func (p *Parser) check(typ string) bool {
	return p.peek().Type == typ
}

// match consumes the current token if it matches any of the given types.
func (p *Parser) match(types ...string) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches typ; otherwise it records
// an error and returns the current token WITHOUT advancing.
func (p *Parser) expect(typ string, msg string) lexer.Token {
	if p.check(typ) {
		return p.advance()
	}
	tok := p.peek()
	p.addError(tok, fmt.Sprintf("%s (got %s %q)", msg, tok.Type, tok.Value))
	return tok
}

// addError appends a ParseError at the given token's location.
func (p *Parser) addError(tok lexer.Token, msg string) {
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

// synchronize advances past tokens until it reaches a likely statement
// boundary, allowing the parser to recover from an error and keep going.
func (p *Parser) synchronize() {
	p.advance()
	for !p.check(lexer.EOF) {
		switch p.peek().Type {
		case lexer.SEMICOLON, lexer.SKIP, lexer.READ, lexer.WRITE:
			return
		}
		p.advance()
	}
}

// position converts a token into an ast.Position.
func (p *Parser) position(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column}
}

// ---------------------------------------------------------------------------
// Grammar
//
//	program := stmt (';' stmt)* [';'] EOF
//	stmt    := 'skip'
//	         | 'read' '(' IDENT ')'
//	         | 'write' '(' expr ')'
//	         | IDENT ':=' expr
//	expr    := or
//	or      := and ('!!' and)*
//	and     := cmp ('&&' cmp)*
//	cmp     := add (('<'|'<='|'>'|'>='|'=='|'!=') add)*
//	add     := mul (('+'|'-') mul)*
//	mul     := primary (('*'|'/'|'%') primary)*
//	primary := INT | IDENT | '(' expr ')'
// ---------------------------------------------------------------------------

func (p *Parser) parseProgram() ast.Stmt {
	prog := p.parseStmt()
	for p.match(lexer.SEMICOLON) {
		// Tolerate a trailing semicolon before EOF.
		if p.check(lexer.EOF) {
			break
		}
		next := p.parseStmt()
		prog = &ast.SeqStmt{First: prog, Second: next, Pos: prog.GetPos()}
	}
	p.expect(lexer.EOF, "expected ';' or end of program")
	return prog
}

func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	switch tok.Type {
	case lexer.SKIP:
		p.advance()
		return &ast.SkipStmt{Pos: p.position(tok)}

	case lexer.READ:
		p.advance()
		p.expect(lexer.LPAREN, "expected '(' after read")
		name := p.expect(lexer.IDENT, "expected variable name in read")
		p.expect(lexer.RPAREN, "expected ')' after read argument")
		return &ast.ReadStmt{Name: name.Value, Pos: p.position(tok)}

	case lexer.WRITE:
		p.advance()
		p.expect(lexer.LPAREN, "expected '(' after write")
		value := p.parseExpr()
		p.expect(lexer.RPAREN, "expected ')' after write argument")
		return &ast.WriteStmt{Value: value, Pos: p.position(tok)}

	case lexer.IDENT:
		p.advance()
		p.expect(lexer.ASSIGN, "expected ':=' in assignment")
		value := p.parseExpr()
		return &ast.AssignStmt{Name: tok.Value, Value: value, Pos: p.position(tok)}

	default:
		p.addError(tok, fmt.Sprintf("expected statement (got %s %q)", tok.Type, tok.Value))
		p.synchronize()
		return &ast.SkipStmt{Pos: p.position(tok)}
	}
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.OR) {
		tok := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{Op: tok.Value, Left: left, Right: right, Pos: p.position(tok)}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseCmp()
	for p.check(lexer.AND) {
		tok := p.advance()
		right := p.parseCmp()
		left = &ast.BinaryExpr{Op: tok.Value, Left: left, Right: right, Pos: p.position(tok)}
	}
	return left
}

func (p *Parser) parseCmp() ast.Expr {
	left := p.parseAdd()
	for p.check(lexer.LT) || p.check(lexer.LTE) || p.check(lexer.GT) ||
		p.check(lexer.GTE) || p.check(lexer.EQ) || p.check(lexer.NEQ) {
		tok := p.advance()
		right := p.parseAdd()
		left = &ast.BinaryExpr{Op: tok.Value, Left: left, Right: right, Pos: p.position(tok)}
	}
	return left
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		tok := p.advance()
		right := p.parseMul()
		left = &ast.BinaryExpr{Op: tok.Value, Left: left, Right: right, Pos: p.position(tok)}
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parsePrimary()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		tok := p.advance()
		right := p.parsePrimary()
		left = &ast.BinaryExpr{Op: tok.Value, Left: left, Right: right, Pos: p.position(tok)}
	}
	return left
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.INT:
		p.advance()
		value, err := strconv.Atoi(tok.Value)
		if err != nil {
			p.addError(tok, fmt.Sprintf("integer literal out of range: %s", tok.Value))
		}
		return &ast.IntLit{Value: value, Pos: p.position(tok)}

	case lexer.IDENT:
		p.advance()
		return &ast.Var{Name: tok.Value, Pos: p.position(tok)}

	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RPAREN, "expected ')'")
		return inner

	default:
		p.addError(tok, fmt.Sprintf("expected expression (got %s %q)", tok.Type, tok.Value))
		p.advance()
		return &ast.IntLit{Value: 0, Pos: p.position(tok)}
	}
}
