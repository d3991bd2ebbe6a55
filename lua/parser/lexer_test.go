package parser

import (
	"testing"
	"unicode"
)

func TestLexerAdvanceTracksPosition(t *testing.T) {
	lexer := NewLexer("ab\ncd")

	if got := lexer.Advance(); got != 'a' {
		t.Errorf("Advance() = %q, want %q", got, 'a')
	}
	if lexer.Line() != 1 || lexer.Column() != 2 {
		t.Errorf("position = %d:%d, want 1:2", lexer.Line(), lexer.Column())
	}

	lexer.Advance()
	lexer.Advance() // newline
	if lexer.Line() != 2 || lexer.Column() != 1 {
		t.Errorf("position after newline = %d:%d, want 2:1", lexer.Line(), lexer.Column())
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lexer := NewLexer("xy")
	if got := lexer.Peek(); got != 'x' {
		t.Errorf("Peek() = %q, want %q", got, 'x')
	}
	if got := lexer.PeekN(1); got != 'y' {
		t.Errorf("PeekN(1) = %q, want %q", got, 'y')
	}
	if lexer.Pos() != 0 {
		t.Errorf("Pos() = %d, want 0", lexer.Pos())
	}
}

func TestLexerPeekAtEnd(t *testing.T) {
	lexer := NewLexer("")
	if got := lexer.Peek(); got != 0 {
		t.Errorf("Peek() at end = %q, want 0", got)
	}
}

func TestLexerCollectWhile(t *testing.T) {
	lexer := NewLexer("abc123 rest")
	got := lexer.CollectWhile(func(c rune) bool {
		return unicode.IsLetter(c) || unicode.IsDigit(c)
	})
	if got != "abc123" {
		t.Errorf("CollectWhile = %q, want %q", got, "abc123")
	}
}

func TestLexerCollectUntil(t *testing.T) {
	lexer := NewLexer(`hello"`)
	if got := lexer.CollectUntil('"'); got != "hello" {
		t.Errorf("CollectUntil = %q, want %q", got, "hello")
	}
}

func TestLexerCollectUntilUnterminated(t *testing.T) {
	lexer := NewLexer("no terminator here")
	if got := lexer.CollectUntil('"'); got != "no terminator here" {
		t.Errorf("CollectUntil = %q, want full input", got)
	}
	if !lexer.AtEnd() {
		t.Error("lexer should be at end after unterminated collect")
	}
}

func TestLexerCollectUntilString(t *testing.T) {
	lexer := NewLexer(" body --]] after")
	if got := lexer.CollectUntilString("--]]"); got != " body " {
		t.Errorf("CollectUntilString = %q, want %q", got, " body ")
	}
}

func TestLexerConsumeWhitespace(t *testing.T) {
	lexer := NewLexer("  \t\n  x")
	lexer.ConsumeWhitespace()
	if got := lexer.Peek(); got != 'x' {
		t.Errorf("Peek() after ConsumeWhitespace = %q, want %q", got, 'x')
	}
	if lexer.Line() != 2 {
		t.Errorf("Line() = %d, want 2", lexer.Line())
	}
}
