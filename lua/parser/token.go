package parser

import "strings"

// Span records a token's source position: byte offsets plus the
// 1-based line and column of its first character.
type Span struct {
	Start  int
	End    int // exclusive
	Line   int
	Column int
}

type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenKeyword
	TokenOperator
	TokenAssignment
	TokenAnnotation
	TokenBlockCommentOpen
	TokenBlockComment
	TokenBlockCommentClose
	TokenComment
	TokenStringLiteral
	TokenNumberLiteral
	TokenVarArg
	TokenParenOpen
	TokenParenClose
	TokenBraceOpen
	TokenBraceClose
	TokenBracketOpen
	TokenBracketClose
)

var tokenKindNames = map[TokenKind]string{
	TokenIdentifier:        "Identifier",
	TokenKeyword:           "Keyword",
	TokenOperator:          "Operator",
	TokenAssignment:        "Assignment",
	TokenAnnotation:        "Annotation",
	TokenBlockCommentOpen:  "BlockCommentOpen",
	TokenBlockComment:      "BlockComment",
	TokenBlockCommentClose: "BlockCommentClose",
	TokenComment:           "Comment",
	TokenStringLiteral:     "StringLiteral",
	TokenNumberLiteral:     "NumberLiteral",
	TokenVarArg:            "VarArg",
	TokenParenOpen:         "ParenOpen",
	TokenParenClose:        "ParenClose",
	TokenBraceOpen:         "BraceOpen",
	TokenBraceClose:        "BraceClose",
	TokenBracketOpen:       "BracketOpen",
	TokenBracketClose:      "BracketClose",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is the unified token shape shared by the code parser and the
// annotation parser. Text carries the literal for keywords, operators,
// comments and literals; Parts carries the segments of a dotted
// identifier; Subtokens is populated only for TokenAnnotation.
type Token struct {
	Kind      TokenKind
	Text      string
	Parts     []string
	Subtokens []AnnotationSubToken
	Span      Span
}

// Name joins an identifier token's segments with dots.
func (t Token) Name() string {
	return strings.Join(t.Parts, ".")
}

// AnnotationSubTokenKind classifies the structural units produced by
// re-scanning one annotation line.
type AnnotationSubTokenKind int

const (
	SubPrefix AnnotationSubTokenKind = iota
	SubIdentifier
	SubOperator
	SubColon
	SubComma
	SubLessThan
	SubGreaterThan
	SubOpenParen
	SubCloseParen
	SubText
)

var subTokenKindNames = map[AnnotationSubTokenKind]string{
	SubPrefix:      "Prefix",
	SubIdentifier:  "Identifier",
	SubOperator:    "Operator",
	SubColon:       "Colon",
	SubComma:       "Comma",
	SubLessThan:    "LessThan",
	SubGreaterThan: "GreaterThan",
	SubOpenParen:   "OpenParen",
	SubCloseParen:  "CloseParen",
	SubText:        "Text",
}

func (k AnnotationSubTokenKind) String() string {
	if name, ok := subTokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// AnnotationSubToken is one structural unit of an annotation line.
// Text carries prefix/operator/free-text content; Parts carries the
// segments of a dotted identifier.
type AnnotationSubToken struct {
	Kind  AnnotationSubTokenKind
	Text  string
	Parts []string
}

// Name joins an identifier sub-token's segments with dots.
func (s AnnotationSubToken) Name() string {
	return strings.Join(s.Parts, ".")
}

var keywords = map[string]bool{
	"and":      true,
	"break":    true,
	"do":       true,
	"else":     true,
	"elseif":   true,
	"end":      true,
	"false":    true,
	"for":      true,
	"function": true,
	"if":       true,
	"in":       true,
	"local":    true,
	"nil":      true,
	"not":      true,
	"or":       true,
	"repeat":   true,
	"return":   true,
	"then":     true,
	"true":     true,
	"until":    true,
	"while":    true,
	"require":  true,
}

// IsKeyword reports whether ident is a reserved word of the subset of
// Lua the tokenizer understands (plus "require", which the original
// tool treats as a keyword).
func IsKeyword(ident string) bool {
	return keywords[ident]
}
