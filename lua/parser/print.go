package parser

import (
	"fmt"
	"strings"
)

// FormatTokens renders the token stream one token per line, for the
// parse inspection command and for debugging.
func FormatTokens(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%d:%d %s", tok.Span.Line, tok.Span.Column, tok.Kind)
		switch {
		case tok.Kind == TokenAnnotation:
			sb.WriteString(" [")
			for i, sub := range tok.Subtokens {
				if i > 0 {
					sb.WriteString(" ")
				}
				fmt.Fprintf(&sb, "%s(%q)", sub.Kind, subTokenText(&sub))
			}
			sb.WriteString("]")
		case len(tok.Parts) > 0:
			fmt.Fprintf(&sb, " %q", tok.Name())
		case tok.Text != "":
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatNodes renders a code syntax tree as an indented outline.
func FormatNodes(nodes []Node) string {
	var sb strings.Builder
	for _, node := range nodes {
		writeNode(&sb, node, 0)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, node Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := node.(type) {
	case *ModuleDeclaration:
		fmt.Fprintf(sb, "%sModuleDeclaration %s\n", indent, n.Name)
		for _, export := range n.Exports {
			fmt.Fprintf(sb, "%s  export %s: %s\n", indent, export.Name, export.Type.Kind)
		}
	case *FunctionDef:
		name := n.Name
		if name == "" {
			name = "<anonymous>"
		}
		fmt.Fprintf(sb, "%sFunctionDef %s(%s)\n", indent, name, paramNames(n.Params))
		for _, child := range n.Body {
			writeNode(sb, child, depth+1)
		}
	case *VariableDeclaration:
		fmt.Fprintf(sb, "%sVariableDeclaration %s\n", indent, n.Name)
	case *Assignment:
		fmt.Fprintf(sb, "%sAssignment %s\n", indent, n.Target)
	case *ReturnStatement:
		fmt.Fprintf(sb, "%sReturnStatement (%d values)\n", indent, len(n.Values))
	case *FunctionCallStmt:
		fmt.Fprintf(sb, "%sFunctionCall %s\n", indent, n.Call.Name)
	case *TableConstructor:
		fmt.Fprintf(sb, "%sTableConstructor (%d fields)\n", indent, len(n.Fields))
	case *Comment:
		fmt.Fprintf(sb, "%sComment %q\n", indent, n.Text)
	case *IfStatement:
		fmt.Fprintf(sb, "%sIf\n", indent)
		for _, child := range n.Then {
			writeNode(sb, child, depth+1)
		}
		for _, arm := range n.Elifs {
			fmt.Fprintf(sb, "%sElseif\n", indent)
			for _, child := range arm {
				writeNode(sb, child, depth+1)
			}
		}
		if len(n.Else) > 0 {
			fmt.Fprintf(sb, "%sElse\n", indent)
			for _, child := range n.Else {
				writeNode(sb, child, depth+1)
			}
		}
	case *WhileLoop:
		fmt.Fprintf(sb, "%sWhile\n", indent)
		for _, child := range n.Body {
			writeNode(sb, child, depth+1)
		}
	case *ForLoop:
		fmt.Fprintf(sb, "%sFor %s\n", indent, strings.Join(n.Names, ", "))
		for _, child := range n.Body {
			writeNode(sb, child, depth+1)
		}
	case *RepeatUntil:
		fmt.Fprintf(sb, "%sRepeat\n", indent)
		for _, child := range n.Body {
			writeNode(sb, child, depth+1)
		}
	case *DoBlock:
		fmt.Fprintf(sb, "%sDo\n", indent)
		for _, child := range n.Body {
			writeNode(sb, child, depth+1)
		}
	}
}

func paramNames(params []Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// FormatAnnotations renders an annotation syntax tree one node per
// line.
func FormatAnnotations(nodes []AnnotationNode) string {
	var sb strings.Builder
	for _, node := range nodes {
		switch n := node.(type) {
		case *Alias:
			fmt.Fprintf(&sb, "Alias %s (%d variants)\n", n.Name, len(n.Variants))
		case *Class:
			fmt.Fprintf(&sb, "Class %s parents=%v fields=%d\n", n.Name, n.Parents, len(n.Fields))
		case *Enum:
			fmt.Fprintf(&sb, "Enum %s (%d variants)\n", n.Name, len(n.Variants))
		case *ParamAnn:
			fmt.Fprintf(&sb, "Param %s %s %q\n", n.Name, n.Type, n.Description)
		case *ReturnAnn:
			fmt.Fprintf(&sb, "Return %s %q\n", n.Type, n.Description)
		case *Field:
			fmt.Fprintf(&sb, "Field %s %s %q\n", n.Name, n.Type, n.Description)
		case *Generic:
			fmt.Fprintf(&sb, "Generic %q %q\n", n.Word, n.Content)
		default:
			fmt.Fprintf(&sb, "%s\n", capitalize(node.Keyword()))
		}
	}
	return sb.String()
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
