package parser

import "strings"

// CodeParser builds the Lua syntax tree from the token stream. It
// never looks inside Annotation tokens; those belong to the
// annotation parser. Unrecognized constructs are skipped one token at
// a time, each skip recorded as a diagnostic.
type CodeParser struct {
	tokens []Token
	pos    int
	diags  []Diagnostic
}

func NewCodeParser(tokens []Token) *CodeParser {
	return &CodeParser{tokens: tokens}
}

// Parse consumes the whole stream and returns the top-level nodes.
func (p *CodeParser) Parse() []Node {
	var nodes []Node
	for !p.atEnd() {
		start := p.pos
		if node := p.parseNode(); node != nil {
			nodes = append(nodes, node)
		}
		if p.pos == start {
			// parseNode is expected to always make progress;
			// this guards against a cursor stall.
			p.pos++
		}
	}
	return nodes
}

// Diagnostics reports every token run the parser dropped.
func (p *CodeParser) Diagnostics() []Diagnostic {
	return p.diags
}

func (p *CodeParser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *CodeParser) peek() *Token {
	if p.atEnd() {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *CodeParser) peekAt(offset int) *Token {
	if p.pos+offset >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+offset]
}

func (p *CodeParser) next() *Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *CodeParser) peekKeyword(word string) bool {
	tok := p.peek()
	return tok != nil && tok.Kind == TokenKeyword && tok.Text == word
}

func (p *CodeParser) acceptKeyword(word string) bool {
	if p.peekKeyword(word) {
		p.pos++
		return true
	}
	return false
}

func (p *CodeParser) acceptOperator(text string) bool {
	tok := p.peek()
	if tok != nil && tok.Kind == TokenOperator && tok.Text == text {
		p.pos++
		return true
	}
	return false
}

func (p *CodeParser) accept(kind TokenKind) *Token {
	tok := p.peek()
	if tok != nil && tok.Kind == kind {
		p.pos++
		return tok
	}
	return nil
}

func (p *CodeParser) skip(reason string) {
	tok := p.next()
	if tok != nil {
		p.diags = append(p.diags, Diagnostic{Span: tok.Span, Reason: reason})
	}
}

// parseNode skips any run of annotation tokens, captures at most one
// plain comment as the upcoming node's doc string, then dispatches on
// the next token. A comment with nothing attachable after it becomes
// a standalone Comment node.
func (p *CodeParser) parseNode() Node {
	for p.peek() != nil && p.peek().Kind == TokenAnnotation {
		p.pos++
	}
	var doc string
	var docTok *Token
	if tok := p.peek(); tok != nil && (tok.Kind == TokenComment || tok.Kind == TokenBlockComment) {
		doc = tok.Text
		docTok = tok
		p.pos++
	}
	tok := p.peek()
	if tok == nil {
		if docTok != nil {
			return &Comment{Text: doc, IsBlock: docTok.Kind == TokenBlockComment, Span: docTok.Span}
		}
		return nil
	}
	switch {
	case tok.Kind == TokenKeyword && tok.Text == "function":
		p.pos++
		return p.parseFunction(doc, false, tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "local":
		p.pos++
		if p.acceptKeyword("function") {
			return p.parseFunction(doc, true, tok.Span)
		}
		return p.parseLocal(doc, tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "return":
		p.pos++
		return p.parseReturn(tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "if":
		p.pos++
		return p.parseIf(tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "while":
		p.pos++
		return p.parseWhile(tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "for":
		p.pos++
		return p.parseFor(tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "do":
		p.pos++
		body := p.parseBlock()
		return &DoBlock{Body: body, Span: tok.Span}
	case tok.Kind == TokenKeyword && tok.Text == "repeat":
		p.pos++
		return p.parseRepeat(tok.Span)
	case tok.Kind == TokenKeyword && tok.Text == "require":
		if expr := p.parseExpression(); expr != nil {
			return &FunctionCallStmt{Call: *expr, Span: tok.Span}
		}
		return nil
	case tok.Kind == TokenIdentifier:
		return p.parseIdentifierStatement(tok.Span)
	case tok.Kind == TokenBraceOpen:
		table := p.parseTableConstructor()
		if table != nil {
			return table
		}
		return nil
	default:
		if docTok != nil {
			// The comment stands alone; re-dispatch the
			// unhandled token on the next call.
			return &Comment{Text: doc, IsBlock: docTok.Kind == TokenBlockComment, Span: docTok.Span}
		}
		p.skip("unexpected token " + tok.Kind.String())
		return nil
	}
}

// parseBlock collects statements until the matching "end" keyword is
// consumed. Running out of tokens closes the block with whatever was
// collected.
func (p *CodeParser) parseBlock() []Node {
	var body []Node
	for !p.atEnd() {
		if p.acceptKeyword("end") {
			return body
		}
		start := p.pos
		if node := p.parseNode(); node != nil {
			body = append(body, node)
		}
		if p.pos == start {
			p.pos++
		}
	}
	return body
}

// parseBlockUntil is parseBlock with extra stop keywords; it returns
// the keyword that ended the block ("" at end of input). The stop
// keyword is consumed.
func (p *CodeParser) parseBlockUntil(stops ...string) ([]Node, string) {
	var body []Node
	for !p.atEnd() {
		for _, stop := range stops {
			if p.acceptKeyword(stop) {
				return body, stop
			}
		}
		start := p.pos
		if node := p.parseNode(); node != nil {
			body = append(body, node)
		}
		if p.pos == start {
			p.pos++
		}
	}
	return body, ""
}

func (p *CodeParser) parseDottedName() []string {
	var parts []string
	tok := p.accept(TokenIdentifier)
	if tok == nil {
		return nil
	}
	parts = append(parts, tok.Parts...)
	for p.acceptOperator(".") || p.acceptOperator(":") {
		seg := p.accept(TokenIdentifier)
		if seg == nil {
			break
		}
		parts = append(parts, seg.Parts...)
	}
	return parts
}

func (p *CodeParser) parseFunction(doc string, isLocal bool, span Span) Node {
	var parts []string
	isMethod := false
	if tok := p.peek(); tok != nil && tok.Kind == TokenIdentifier {
		start := p.pos
		parts = p.parseDottedName()
		for i := start; i < p.pos; i++ {
			if p.tokens[i].Kind == TokenOperator && p.tokens[i].Text == ":" {
				isMethod = true
			}
		}
	}
	params := p.parseParamList()
	body := p.parseBlock()
	name := ""
	if len(parts) > 0 {
		name = joinParts(parts)
	}
	return &FunctionDef{
		Name:      name,
		NameParts: parts,
		Params:    params,
		IsLocal:   isLocal,
		IsMethod:  isMethod,
		Body:      body,
		Doc:       doc,
		Span:      span,
	}
}

func (p *CodeParser) parseParamList() []Param {
	var params []Param
	if p.accept(TokenParenOpen) == nil {
		return params
	}
	for !p.atEnd() {
		if p.accept(TokenParenClose) != nil {
			return params
		}
		if tok := p.accept(TokenIdentifier); tok != nil {
			params = append(params, Param{Name: tok.Name(), Type: Unknown()})
		} else if tok := p.accept(TokenVarArg); tok != nil {
			params = append(params, Param{Name: "...", Type: Unknown()})
		} else {
			p.skip("unexpected token in parameter list")
		}
		p.acceptComma()
	}
	return params
}

func (p *CodeParser) acceptComma() bool {
	return p.acceptOperator(",")
}

// parseLocal handles everything after a consumed "local" keyword. A
// table-constructor initializer turns the declaration into a
// ModuleDeclaration whose exports are the constructor's field names;
// the field values are not inspected further.
func (p *CodeParser) parseLocal(doc string, span Span) Node {
	nameTok := p.accept(TokenIdentifier)
	if nameTok == nil {
		p.skip("expected identifier after local")
		return nil
	}
	name := nameTok.Name()
	if p.accept(TokenAssignment) == nil {
		return &VariableDeclaration{Name: name, IsLocal: true, Doc: doc, Span: span}
	}
	if tok := p.peek(); tok != nil && tok.Kind == TokenBraceOpen {
		table := p.parseTableConstructor()
		var exports []ExportItem
		if table != nil {
			for _, field := range table.Fields {
				if field.Name != "" {
					exports = append(exports, ExportItem{Name: field.Name, Type: Unknown()})
				}
			}
		}
		return &ModuleDeclaration{Name: name, Exports: exports, Doc: doc, Span: span}
	}
	value := p.parseExpression()
	return &VariableDeclaration{Name: name, IsLocal: true, Value: value, Doc: doc, Span: span}
}

func (p *CodeParser) parseReturn(span Span) Node {
	stmt := &ReturnStatement{Span: span}
	for {
		expr := p.parseExpression()
		if expr == nil {
			break
		}
		stmt.Values = append(stmt.Values, *expr)
		if !p.acceptComma() {
			break
		}
	}
	return stmt
}

// parseExpression recognizes the expression forms the analyzer
// understands; anything else yields nil and leaves the cursor alone.
func (p *CodeParser) parseExpression() *Expression {
	tok := p.peek()
	if tok == nil {
		return nil
	}
	switch tok.Kind {
	case TokenIdentifier:
		parts := p.parseDottedName()
		name := joinParts(parts)
		if p.peek() != nil && p.peek().Kind == TokenParenOpen {
			return p.parseCallArgs(name, tok.Span)
		}
		return &Expression{Kind: ExprIdentifier, Name: name, Span: tok.Span}
	case TokenNumberLiteral, TokenStringLiteral:
		p.pos++
		return &Expression{Kind: ExprLiteral, Literal: tok.Text, Span: tok.Span}
	case TokenKeyword:
		switch tok.Text {
		case "nil", "true", "false":
			p.pos++
			return &Expression{Kind: ExprLiteral, Literal: tok.Text, Span: tok.Span}
		case "function":
			p.pos++
			def, ok := p.parseFunction("", false, tok.Span).(*FunctionDef)
			if !ok {
				return nil
			}
			return &Expression{Kind: ExprFunctionDef, Func: def, Span: tok.Span}
		case "require":
			// require is tokenized as a keyword but behaves as a
			// call; keeping the call shape preserves dependency
			// edges for the project catalog.
			p.pos++
			if p.peek() != nil && p.peek().Kind == TokenParenOpen {
				return p.parseCallArgs("require", tok.Span)
			}
			return &Expression{Kind: ExprIdentifier, Name: "require", Span: tok.Span}
		}
		return nil
	case TokenBraceOpen:
		table := p.parseTableConstructor()
		if table == nil {
			return nil
		}
		return &Expression{Kind: ExprTableConstructor, Table: table, Span: tok.Span}
	case TokenVarArg:
		p.pos++
		return &Expression{Kind: ExprVarArg, Span: tok.Span}
	default:
		return nil
	}
}

func (p *CodeParser) parseCallArgs(name string, span Span) *Expression {
	call := &Expression{Kind: ExprFunctionCall, Name: name, Span: span}
	p.accept(TokenParenOpen)
	for !p.atEnd() {
		if p.accept(TokenParenClose) != nil {
			return call
		}
		arg := p.parseExpression()
		if arg != nil {
			call.Args = append(call.Args, *arg)
		} else {
			p.skip("unexpected token in call arguments")
		}
		p.acceptComma()
	}
	return call
}

// parseIdentifierStatement handles an identifier in statement
// position: either an assignment or a call statement.
func (p *CodeParser) parseIdentifierStatement(span Span) Node {
	start := p.pos
	parts := p.parseDottedName()
	name := joinParts(parts)
	switch {
	case p.accept(TokenAssignment) != nil:
		value := p.parseExpression()
		return &Assignment{Target: name, TargetParts: parts, Value: value, Span: span}
	case p.peek() != nil && p.peek().Kind == TokenParenOpen:
		call := p.parseCallArgs(name, span)
		return &FunctionCallStmt{Call: *call, Span: span}
	default:
		// Not a statement form we model; drop the first token
		// only so nearby constructs still get a chance.
		p.pos = start
		p.skip("identifier in unsupported statement position")
		return nil
	}
}

func (p *CodeParser) parseTableConstructor() *TableConstructor {
	open := p.accept(TokenBraceOpen)
	if open == nil {
		return nil
	}
	table := &TableConstructor{Span: open.Span}
	for !p.atEnd() {
		if p.accept(TokenBraceClose) != nil {
			return table
		}
		if p.acceptComma() || p.acceptOperator(";") {
			continue
		}
		name := ""
		if tok := p.peek(); tok != nil && tok.Kind == TokenIdentifier {
			if after := p.peekAt(1); after != nil && after.Kind == TokenAssignment {
				name = tok.Name()
				p.pos += 2
			}
		} else if tok != nil && tok.Kind == TokenStringLiteral {
			if after := p.peekAt(1); after != nil && after.Kind == TokenAssignment {
				name = tok.Text
				p.pos += 2
			}
		}
		value := p.parseExpression()
		if value == nil {
			p.skip("unexpected token in table constructor")
			continue
		}
		table.Fields = append(table.Fields, TableEntry{Name: name, Value: *value})
	}
	return table
}

func (p *CodeParser) parseIf(span Span) Node {
	stmt := &IfStatement{Span: span}
	p.skipCondition("then")
	body, stop := p.parseBlockUntil("end", "else", "elseif")
	stmt.Then = body
	for stop == "elseif" {
		p.skipCondition("then")
		var arm []Node
		arm, stop = p.parseBlockUntil("end", "else", "elseif")
		stmt.Elifs = append(stmt.Elifs, arm)
	}
	if stop == "else" {
		stmt.Else, _ = p.parseBlockUntil("end")
	}
	return stmt
}

func (p *CodeParser) parseWhile(span Span) Node {
	p.skipCondition("do")
	body := p.parseBlock()
	return &WhileLoop{Body: body, Span: span}
}

func (p *CodeParser) parseFor(span Span) Node {
	loop := &ForLoop{Span: span}
	for {
		tok := p.accept(TokenIdentifier)
		if tok == nil {
			break
		}
		loop.Names = append(loop.Names, tok.Name())
		if !p.acceptComma() {
			break
		}
	}
	p.skipCondition("do")
	loop.Body = p.parseBlock()
	return loop
}

func (p *CodeParser) parseRepeat(span Span) Node {
	body, _ := p.parseBlockUntil("until")
	p.parseExpression()
	return &RepeatUntil{Body: body, Span: span}
}

// skipCondition advances past a condition or loop-bounds expression
// up to and including the given keyword. Conditions are not modeled,
// only the block structure is.
func (p *CodeParser) skipCondition(until string) {
	for !p.atEnd() {
		if p.acceptKeyword(until) {
			return
		}
		p.pos++
	}
}

func joinParts(parts []string) string {
	return strings.Join(parts, ".")
}
