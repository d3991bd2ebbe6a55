package parser

import (
	"strings"
	"unicode"
)

// Lexer is the character-cursor primitive every scanning stage runs
// on. It tracks the 1-based line and column of the cursor. All
// Collect* operations stop at end of input when the terminator never
// appears and return what was accumulated; an unterminated construct
// is not an error.
type Lexer struct {
	input  []rune
	pos    int
	line   int
	column int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  []rune(input),
		pos:    0,
		line:   1,
		column: 1,
	}
}

// Pos returns the cursor's offset into the input.
func (l *Lexer) Pos() int { return l.pos }

// Line returns the 1-based line of the cursor.
func (l *Lexer) Line() int { return l.line }

// Column returns the 1-based column of the cursor.
func (l *Lexer) Column() int { return l.column }

// AtEnd reports whether the cursor has consumed all input.
func (l *Lexer) AtEnd() bool { return l.pos >= len(l.input) }

// Peek returns the current character without consuming it, or 0 at
// end of input.
func (l *Lexer) Peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// PeekN returns the character n positions ahead of the cursor, or 0
// past end of input.
func (l *Lexer) PeekN(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// Advance consumes one character and returns it. A newline increments
// the line counter and resets the column to 1.
func (l *Lexer) Advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// AdvanceBy consumes n characters.
func (l *Lexer) AdvanceBy(n int) {
	for i := 0; i < n; i++ {
		l.Advance()
	}
}

// ConsumeWhitespace consumes a run of whitespace characters.
func (l *Lexer) ConsumeWhitespace() {
	for !l.AtEnd() && unicode.IsSpace(l.Peek()) {
		l.Advance()
	}
}

// CollectWhile consumes characters as long as predicate holds and
// returns them.
func (l *Lexer) CollectWhile(predicate func(rune) bool) string {
	var sb strings.Builder
	for !l.AtEnd() && predicate(l.Peek()) {
		sb.WriteRune(l.Advance())
	}
	return sb.String()
}

// CollectUntil consumes characters up to (not including) the
// delimiter and returns them.
func (l *Lexer) CollectUntil(delimiter rune) string {
	var sb strings.Builder
	for !l.AtEnd() && l.Peek() != delimiter {
		sb.WriteRune(l.Advance())
	}
	return sb.String()
}

// CollectUntilString consumes characters up to (not including) the
// first occurrence of delimiter and returns them.
func (l *Lexer) CollectUntilString(delimiter string) string {
	var sb strings.Builder
	delim := []rune(delimiter)
	for !l.AtEnd() {
		if l.hasPrefix(delim) {
			break
		}
		sb.WriteRune(l.Advance())
	}
	return sb.String()
}

func (l *Lexer) hasPrefix(delim []rune) bool {
	if l.pos+len(delim) > len(l.input) {
		return false
	}
	for i, ch := range delim {
		if l.input[l.pos+i] != ch {
			return false
		}
	}
	return true
}
