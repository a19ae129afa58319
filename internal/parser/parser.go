// Package parser implements a recursive-descent parser for plox. Grammar
// precedence is expressed as a chain of mutually-recursive methods (one per
// tier), from loosest (assignment) to tightest (primary), following the
// classic Lox grammar this language descends from.
package parser

import (
	"github.com/plu7o/plox/internal/ast"
	"github.com/plu7o/plox/internal/errors"
	"github.com/plu7o/plox/internal/token"
)

const maxArgs = 255

// parseError is the sentinel thrown to unwind to the nearest declaration
// boundary on a syntax error. It carries no data: the diagnostic itself was
// already reported to the sink at the point of failure.
type parseError struct{}

// Parser consumes a token slice produced by the lexer and builds a list of
// top-level statements.
type Parser struct {
	tokens  []token.Token
	current int
}

// New creates a Parser over tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole token stream into a list of statements. Entries
// corresponding to a declaration that failed to parse are omitted: the
// error was reported and the parser resynchronized at the next statement
// boundary rather than aborting the whole parse.
func (p *Parser) Parse() []ast.Stmt {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			statements = append(statements, s)
		}
	}
	return statements
}

func (p *Parser) declaration() (result ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				result = nil
				return
			}
			panic(r)
		}
	}()

	if p.match(token.CLASS) {
		return p.classDeclaration()
	}
	if p.match(token.FN) {
		return p.function("function")
	}
	if p.match(token.LET) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous()}
		p.consume(token.GREATER, "Expect '>' after superclass.")
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Methods: methods, Superclass: superclass}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expected variable name.")

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}
	p.consume(token.SEMICOLON, "Expected ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.ECHO):
		return p.echoStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		return &ast.Block{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for init; cond; incr body` (the clauses are not
// wrapped in parentheses) into `{ init; while (cond) { body; incr; } }`.
func (p *Parser) forStatement() ast.Stmt {
	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.LET):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expected ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: true}
	}
	body = &ast.While{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{Statements: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	condition := p.expression()
	p.consume(token.COLON, "Expected ':' after condition.")
	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) echoStatement() ast.Stmt {
	value := p.expression()
	p.consume(token.SEMICOLON, "Expected ';' after value.")
	return &ast.Echo{Expression: value}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expected ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Stmt {
	condition := p.expression()
	p.consume(token.COLON, "Expected ':' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expected ';' after expression")
	return &ast.Expression{Expression: expr}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expected "+kind+" name.")
	p.consume(token.LEFT_PAREN, "Expected '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				errors.ParseError(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expected parameter name"))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expected ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expected '{' before "+kind+" body")
	body := p.block()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			statements = append(statements, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expected '}' after block.")
	return statements
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment is right-associative: `a = b = c` parses as `a = (b = c)`.
func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch e := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: e.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: e.Object, Name: e.Name, Value: value}
		}
		// Not a valid assignment target: report but keep the evaluated
		// expression so parsing can continue (matches the source's
		// non-fatal handling of this case).
		errors.ParseError(equals, "Invalid assignment target.")
	}

	return expr
}

// ternary is right-nested: `a ? b : c ? d : e` parses as `a ? b : (c ? d : e)`.
func (p *Parser) ternary() ast.Expr {
	expr := p.or()

	for p.match(token.QUESTION_MARK) {
		questionMark := p.previous()
		thenExpr := p.ternary()
		p.consume(token.COLON, "Expected ':' after ? in ternary expression (condition ? true: false).")
		colon := p.previous()
		elseExpr := p.ternary()
		expr = &ast.Ternary{
			Condition:      expr,
			QuestionMark:   questionMark,
			ExpressionTrue: thenExpr,
			Colon:          colon,
			ExpressionElse: elseExpr,
		}
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.compound()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right := p.compound()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

// compound handles in-place operators (`+=` etc). They sit above term in
// precedence so `a += b + c` reads the whole additive expression as the RHS.
func (p *Parser) compound() ast.Expr {
	expr := p.term()
	for p.match(token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN) {
		operator := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.modulo()
	for p.match(token.MINUS, token.PLUS) {
		operator := p.previous()
		right := p.modulo()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) modulo() ast.Expr {
	expr := p.factor()
	for p.match(token.MODULO) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}
	return p.increment()
}

func (p *Parser) increment() ast.Expr {
	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		operator := p.previous()
		right := p.increment()
		return &ast.Prefix{Operator: operator, Right: right}
	}

	expr := p.call()
	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		operator := p.previous()
		expr = &ast.Postfix{Left: expr, Operator: operator}
	}
	return expr
}

func (p *Parser) call() ast.Expr {
	expr := p.anonym()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var arguments []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(arguments) >= maxArgs {
				errors.ParseError(p.peek(), "Can't have more than 255 arguments.")
			}
			arguments = append(arguments, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expected ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: arguments}
}

func (p *Parser) anonym() ast.Expr {
	if !p.match(token.FN) {
		return p.primary()
	}
	keyword := p.previous()

	p.consume(token.LEFT_PAREN, "Expected '(' after anonymous name.")
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				errors.ParseError(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expected parameter name"))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expected ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expected '{' before anonymous body")
	body := p.block()

	return &ast.Anonym{Keyword: keyword, Params: params, Body: body}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false, Token: p.previous()}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true, Token: p.previous()}
	case p.match(token.NONE):
		return &ast.Literal{Value: nil, Token: p.previous()}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal, Token: p.previous()}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOUBLE_COLON, "Expect '::' after 'super'")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.SELF):
		return &ast.Self{Keyword: p.previous()}
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LEFT_PAREN):
		paren := p.previous()
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expected ')' after expression.")
		return &ast.Grouping{Expression: expr, Token: paren}
	}

	tok := p.peek()
	if tok.Type == token.EOF {
		tok = p.previous()
	}
	panic(p.error(tok, "Expected expression."))
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.error(p.previous(), message))
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) error(tok token.Token, message string) parseError {
	errors.ParseError(tok, message)
	return parseError{}
}

// synchronize discards tokens until it reaches a likely statement boundary:
// just past a semicolon, or just before a keyword that starts a new
// declaration or statement.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.peek().Type {
		case token.CLASS, token.FN, token.LET, token.FOR, token.IF, token.WHILE, token.ECHO, token.RETURN:
			return
		}

		if p.advance().Type == token.SEMICOLON {
			return
		}
	}
}
