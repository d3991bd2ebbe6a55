// Package annotate renders EmmyLua/LuaDoc annotation text for a
// parsed and type-analyzed Lua syntax tree.
package annotate

import (
	"strings"

	"github.com/dhamidi/luadoc/lua/parser"
)

const todoSuffix = " @TODO: Specify type"

// Annotator turns code nodes into `---@...` annotation lines. With
// PreserveExisting set, a node's existing doc strings are re-emitted
// ahead of the generated lines, each at most once per Render call.
type Annotator struct {
	PreserveExisting bool

	docSeen map[string]bool
}

func NewAnnotator(preserveExisting bool) *Annotator {
	return &Annotator{PreserveExisting: preserveExisting}
}

// Render annotates every node in order, joining the per-node blocks
// with one blank line. Nodes that produce no annotation are dropped
// from the output entirely.
func (a *Annotator) Render(nodes []parser.Node) string {
	a.docSeen = map[string]bool{}
	var blocks []string
	for _, node := range nodes {
		if block := a.renderNode(node); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// RenderNode annotates a single node.
func (a *Annotator) RenderNode(node parser.Node) string {
	if a.docSeen == nil {
		a.docSeen = map[string]bool{}
	}
	return a.renderNode(node)
}

func (a *Annotator) renderNode(node parser.Node) string {
	switch n := node.(type) {
	case *parser.Comment:
		return renderComment(n)
	case *parser.ModuleDeclaration:
		return a.renderModule(n)
	case *parser.FunctionDef:
		return a.renderFunction(n)
	default:
		return ""
	}
}

func renderComment(comment *parser.Comment) string {
	if strings.Contains(comment.Text, "\n") {
		return "--[[\n" + comment.Text + "\n--]]"
	}
	return "--" + comment.Text
}

func (a *Annotator) renderModule(module *parser.ModuleDeclaration) string {
	out := newBlock()
	out.add("---@module " + module.Name)
	if len(module.Exports) > 0 {
		out.add("---Exports:")
		for _, export := range module.Exports {
			out.add("---@field " + export.Name + " " + TypeString(export.Type))
		}
	}
	return out.String()
}

func (a *Annotator) renderFunction(fn *parser.FunctionDef) string {
	out := newBlock()
	if a.PreserveExisting && fn.Doc != "" && !a.docSeen[fn.Doc] {
		a.docSeen[fn.Doc] = true
		out.add("---" + fn.Doc)
	}
	out.add("---@function " + functionName(fn))
	for _, param := range fn.Params {
		line := "---@param " + param.Name + " " + TypeString(param.Type)
		if needsTodo(param.Type) {
			line += todoSuffix
		}
		out.add(line)
	}
	if len(fn.ReturnTypes) > 0 {
		names := make([]string, len(fn.ReturnTypes))
		for i, rt := range fn.ReturnTypes {
			names[i] = TypeString(rt)
		}
		out.add("---@return " + strings.Join(names, ", "))
	}
	return out.String()
}

// functionName is the name emitted after ---@function: the last
// segment only, without any module prefix.
func functionName(fn *parser.FunctionDef) string {
	if len(fn.NameParts) > 0 {
		return fn.NameParts[len(fn.NameParts)-1]
	}
	if fn.Name != "" {
		return fn.Name
	}
	return "anonymous"
}

// needsTodo reports whether a parameter type warrants the TODO
// suffix: Unknown itself, or an Optional directly wrapping Unknown.
// The check recurses exactly one level through Optional.
func needsTodo(t parser.TypeInfo) bool {
	if t.Kind == parser.TypeUnknown {
		return true
	}
	return t.Kind == parser.TypeOptional && t.Elem != nil && t.Elem.Kind == parser.TypeUnknown
}

// TypeString maps a TypeInfo to its EmmyLua spelling.
func TypeString(t parser.TypeInfo) string {
	switch t.Kind {
	case parser.TypeString:
		return "string"
	case parser.TypeNumber:
		return "number"
	case parser.TypeBoolean:
		return "boolean"
	case parser.TypeTable:
		if len(t.Fields) > 0 {
			parts := make([]string, len(t.Fields))
			for i, field := range t.Fields {
				parts[i] = field.Name + ": " + TypeString(field.Type)
			}
			return "table<" + strings.Join(parts, ", ") + ">"
		}
		return "table"
	case parser.TypeFunction:
		if t.Signature != nil {
			params := make([]string, len(t.Signature.Params))
			for i, param := range t.Signature.Params {
				params[i] = param.Name + ": " + TypeString(param.Type)
			}
			returns := make([]string, len(t.Signature.Returns))
			for i, rt := range t.Signature.Returns {
				returns[i] = TypeString(rt)
			}
			out := "fun(" + strings.Join(params, ", ") + ")"
			if len(returns) > 0 {
				out += " -> " + strings.Join(returns, ", ")
			}
			return out
		}
		return "function"
	case parser.TypeUnion:
		parts := make([]string, len(t.Members))
		for i, member := range t.Members {
			parts[i] = TypeString(member)
		}
		return strings.Join(parts, "|")
	case parser.TypeOptional:
		if t.Elem != nil {
			return TypeString(*t.Elem) + "?"
		}
		return "any?"
	default:
		return "any"
	}
}

// block accumulates one node's annotation lines. A line whose text
// already occurs in the block is dropped, so no annotation is emitted
// twice within a single node's render.
type block struct {
	sb strings.Builder
}

func newBlock() *block {
	return &block{}
}

func (b *block) add(line string) {
	if strings.Contains(b.sb.String(), line) {
		return
	}
	if b.sb.Len() > 0 {
		b.sb.WriteString("\n")
	}
	b.sb.WriteString(line)
}

func (b *block) String() string {
	return b.sb.String()
}
