package parser

import (
	"strings"
	"unicode"
)

func isAnnotationPunctuation(ch rune) bool {
	switch ch {
	case ':', ',', '<', '>', '(', ')', '|', '#':
		return true
	}
	return false
}

// ParseAnnotationSubtokens re-scans the text of a single annotation
// line (including its "---@" or "---|" marker) into structured
// sub-tokens. Dots inside an identifier act only as segment
// separators and are not emitted as tokens.
func ParseAnnotationSubtokens(text string) []AnnotationSubToken {
	var tokens []AnnotationSubToken
	lexer := NewLexer(text)

	trimmed := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(trimmed, "---@") {
		tokens = append(tokens, AnnotationSubToken{Kind: SubPrefix, Text: "---@"})
		lexer.AdvanceBy(4)
	} else if strings.HasPrefix(trimmed, "---|") {
		tokens = append(tokens, AnnotationSubToken{Kind: SubPrefix, Text: "---|"})
		lexer.AdvanceBy(4)
	}

	for !lexer.AtEnd() {
		ch := lexer.Peek()
		if unicode.IsSpace(ch) {
			lexer.Advance()
			continue
		}
		if isAnnotationPunctuation(ch) {
			tokens = append(tokens, punctuationSubToken(ch))
			lexer.Advance()
			continue
		}
		if unicode.IsLetter(ch) || ch == '_' {
			tokens = append(tokens, AnnotationSubToken{
				Kind:  SubIdentifier,
				Parts: readDottedIdentifier(lexer),
			})
			continue
		}
		text := lexer.CollectWhile(func(c rune) bool {
			return !unicode.IsSpace(c) && !isAnnotationPunctuation(c)
		})
		tokens = append(tokens, AnnotationSubToken{Kind: SubText, Text: text})
	}
	return tokens
}

func punctuationSubToken(ch rune) AnnotationSubToken {
	switch ch {
	case ':':
		return AnnotationSubToken{Kind: SubColon, Text: ":"}
	case ',':
		return AnnotationSubToken{Kind: SubComma, Text: ","}
	case '<':
		return AnnotationSubToken{Kind: SubLessThan, Text: "<"}
	case '>':
		return AnnotationSubToken{Kind: SubGreaterThan, Text: ">"}
	case '(':
		return AnnotationSubToken{Kind: SubOpenParen, Text: "("}
	case ')':
		return AnnotationSubToken{Kind: SubCloseParen, Text: ")"}
	}
	return AnnotationSubToken{Kind: SubOperator, Text: string(ch)}
}

// readDottedIdentifier collects an identifier, consuming interior
// dots as segment separators, e.g. "wezterm.gui" -> ["wezterm" "gui"].
func readDottedIdentifier(lexer *Lexer) []string {
	var parts []string
	var current strings.Builder
	for !lexer.AtEnd() {
		c := lexer.Peek()
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			current.WriteRune(c)
			lexer.Advance()
		} else if c == '.' {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			lexer.Advance()
		} else {
			break
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
