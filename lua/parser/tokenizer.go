package parser

import "unicode"

// CodeTokenizer turns Lua source text into the unified token stream
// consumed by both the code parser and the annotation parser.
type CodeTokenizer struct {
	lexer *Lexer
}

func NewCodeTokenizer(input string) *CodeTokenizer {
	return &CodeTokenizer{lexer: NewLexer(input)}
}

// Tokenize scans the whole input. It never fails: unterminated
// constructs are consumed to end of input and returned as partial
// tokens.
func (t *CodeTokenizer) Tokenize() []Token {
	var tokens []Token
	for !t.lexer.AtEnd() {
		ch := t.lexer.Peek()
		switch {
		case unicode.IsSpace(ch):
			t.lexer.ConsumeWhitespace()
		case ch == '-' && t.lexer.PeekN(1) == '-':
			tokens = append(tokens, t.scanDashes())
		case unicode.IsLetter(ch) || ch == '_':
			tokens = append(tokens, t.scanIdentOrKeyword())
		case unicode.IsDigit(ch):
			tokens = append(tokens, t.scanNumber())
		case ch == '"' || ch == '\'':
			tokens = append(tokens, t.scanString())
		default:
			tokens = append(tokens, t.scanOperator())
		}
	}
	return tokens
}

// scanDashes is the decision table separating plain comments, block
// comments and annotation lines. With the cursor on the first of two
// dashes:
//
//	dashes  next       token
//	2       "[["       BlockComment (to "--]]")
//	3       '@' | '|'  Annotation (to end of line)
//	2       other      Comment (to end of line)
func (t *CodeTokenizer) scanDashes() Token {
	start := t.lexer.Pos()
	line := t.lexer.Line()
	col := t.lexer.Column()
	t.lexer.AdvanceBy(2)

	if t.lexer.Peek() == '[' && t.lexer.PeekN(1) == '[' {
		t.lexer.AdvanceBy(2)
		body := t.lexer.CollectUntilString("--]]")
		t.lexer.AdvanceBy(4)
		return Token{
			Kind: TokenBlockComment,
			Text: body,
			Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
		}
	}

	if t.lexer.Peek() == '-' {
		if prefix := t.lexer.PeekN(1); prefix == '@' || prefix == '|' {
			t.lexer.AdvanceBy(2)
			body := t.lexer.CollectUntil('\n')
			span := Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col}
			subtokens := ParseAnnotationSubtokens("---" + string(prefix) + body)
			return Token{Kind: TokenAnnotation, Subtokens: subtokens, Span: span}
		}
	}

	body := t.lexer.CollectUntil('\n')
	return Token{
		Kind: TokenComment,
		Text: body,
		Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
	}
}

func (t *CodeTokenizer) scanIdentOrKeyword() Token {
	start := t.lexer.Pos()
	line := t.lexer.Line()
	col := t.lexer.Column()
	word := t.lexer.CollectWhile(func(c rune) bool {
		return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
	})
	span := Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col}
	if IsKeyword(word) {
		return Token{Kind: TokenKeyword, Text: word, Span: span}
	}
	return Token{Kind: TokenIdentifier, Parts: []string{word}, Span: span}
}

func (t *CodeTokenizer) scanNumber() Token {
	start := t.lexer.Pos()
	line := t.lexer.Line()
	col := t.lexer.Column()
	number := t.lexer.CollectWhile(unicode.IsDigit)
	return Token{
		Kind: TokenNumberLiteral,
		Text: number,
		Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
	}
}

// scanString collects a quoted literal verbatim, with no escape
// processing. A missing closing quote ends the literal at end of
// input.
func (t *CodeTokenizer) scanString() Token {
	start := t.lexer.Pos()
	line := t.lexer.Line()
	col := t.lexer.Column()
	quote := t.lexer.Advance()
	value := t.lexer.CollectUntil(quote)
	t.lexer.Advance() // closing quote, if any
	return Token{
		Kind: TokenStringLiteral,
		Text: value,
		Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
	}
}

func (t *CodeTokenizer) scanOperator() Token {
	start := t.lexer.Pos()
	line := t.lexer.Line()
	col := t.lexer.Column()
	ch := t.lexer.Peek()

	kind := TokenOperator
	text := string(ch)
	switch ch {
	case '(':
		kind = TokenParenOpen
	case ')':
		kind = TokenParenClose
	case '{':
		kind = TokenBraceOpen
	case '}':
		kind = TokenBraceClose
	case '[':
		kind = TokenBracketOpen
	case ']':
		kind = TokenBracketClose
	case '=':
		if t.lexer.PeekN(1) == '=' {
			t.lexer.AdvanceBy(2)
			return Token{
				Kind: TokenOperator,
				Text: "==",
				Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
			}
		}
		kind = TokenAssignment
	case '.':
		if t.lexer.PeekN(1) == '.' && t.lexer.PeekN(2) == '.' {
			t.lexer.AdvanceBy(3)
			return Token{
				Kind: TokenVarArg,
				Text: "...",
				Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
			}
		}
	}
	t.lexer.Advance()
	return Token{
		Kind: kind,
		Text: text,
		Span: Span{Start: start, End: t.lexer.Pos(), Line: line, Column: col},
	}
}
