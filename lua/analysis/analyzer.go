package analysis

import (
	"sort"

	"github.com/dhamidi/luadoc/lua/parser"
)

// Catalog is the project-wide type store the analyzer reports into.
// The analyzer is single-threaded and assumes it is the only writer
// for the duration of one file's analysis; callers serialize
// multi-file runs or merge per-worker catalogs afterwards.
type Catalog interface {
	AddExport(moduleName string, export parser.ExportItem)
	ResolveType(name string) (parser.TypeInfo, bool)
}

// TypeAnalyzer walks a code syntax tree top-down, filling in function
// return types in place and forwarding module exports to the catalog.
type TypeAnalyzer struct {
	catalog Catalog
	scopes  *Scopes
	current int
}

func NewTypeAnalyzer(catalog Catalog) *TypeAnalyzer {
	return &TypeAnalyzer{
		catalog: catalog,
		scopes:  NewScopes(),
	}
}

// Analyze processes a file's top-level nodes in order. FunctionDef
// nodes get their ReturnTypes populated; ModuleDeclaration exports
// are handed to the catalog without inspecting the table's values.
func (a *TypeAnalyzer) Analyze(nodes []parser.Node) {
	for _, node := range nodes {
		a.analyzeNode(node)
	}
}

func (a *TypeAnalyzer) analyzeNode(node parser.Node) {
	switch n := node.(type) {
	case *parser.FunctionDef:
		a.analyzeFunction(n)
	case *parser.ModuleDeclaration:
		for _, export := range n.Exports {
			a.catalog.AddExport(n.Name, export)
		}
	case *parser.VariableDeclaration:
		t := parser.Unknown()
		if n.Value != nil {
			t = a.inferExpressionType(n.Value)
			if n.Value.Kind == parser.ExprFunctionDef && n.Value.Func != nil {
				a.analyzeFunction(n.Value.Func)
			}
		}
		a.scopes.Bind(a.current, n.Name, t)
	case *parser.Assignment:
		if n.Value != nil && n.Value.Kind == parser.ExprFunctionDef && n.Value.Func != nil {
			a.analyzeFunction(n.Value.Func)
		}
	case *parser.IfStatement:
		a.Analyze(n.Then)
		for _, arm := range n.Elifs {
			a.Analyze(arm)
		}
		a.Analyze(n.Else)
	case *parser.WhileLoop:
		a.Analyze(n.Body)
	case *parser.ForLoop:
		a.Analyze(n.Body)
	case *parser.RepeatUntil:
		a.Analyze(n.Body)
	case *parser.DoBlock:
		a.Analyze(n.Body)
	}
}

// analyzeFunction runs a function's body in a fresh child scope
// seeded with the parameter types, then restores the previous scope.
// Scope handling is strictly stack-disciplined.
func (a *TypeAnalyzer) analyzeFunction(fn *parser.FunctionDef) {
	previous := a.current
	a.current = a.scopes.Push(previous)
	for _, param := range fn.Params {
		a.scopes.Bind(a.current, param.Name, param.Type)
	}
	a.Analyze(fn.Body)
	fn.ReturnTypes = a.InferReturnTypes(fn.Body)
	a.current = previous
}

// InferReturnTypes collects one TypeInfo per return site in a body.
// A multi-value return collapses to Unknown rather than a product
// type. Returns found in a nested function body are folded into the
// same list as the enclosing function's own returns. The result is
// sorted and deduplicated by structural key so output is
// deterministic; the order itself carries no meaning.
func (a *TypeAnalyzer) InferReturnTypes(body []parser.Node) []parser.TypeInfo {
	types := a.collectReturnTypes(body)
	if len(types) == 0 {
		return nil
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].Key() < types[j].Key()
	})
	deduped := types[:1]
	for _, t := range types[1:] {
		if t.Key() != deduped[len(deduped)-1].Key() {
			deduped = append(deduped, t)
		}
	}
	return deduped
}

func (a *TypeAnalyzer) collectReturnTypes(body []parser.Node) []parser.TypeInfo {
	var types []parser.TypeInfo
	for _, node := range body {
		switch n := node.(type) {
		case *parser.ReturnStatement:
			types = append(types, a.reduceReturn(n))
		case *parser.FunctionDef:
			types = append(types, a.collectReturnTypes(n.Body)...)
		case *parser.VariableDeclaration:
			if n.Value != nil && n.Value.Kind == parser.ExprFunctionDef && n.Value.Func != nil {
				types = append(types, a.collectReturnTypes(n.Value.Func.Body)...)
			}
		case *parser.Assignment:
			if n.Value != nil && n.Value.Kind == parser.ExprFunctionDef && n.Value.Func != nil {
				types = append(types, a.collectReturnTypes(n.Value.Func.Body)...)
			}
		case *parser.IfStatement:
			types = append(types, a.collectReturnTypes(n.Then)...)
			for _, arm := range n.Elifs {
				types = append(types, a.collectReturnTypes(arm)...)
			}
			types = append(types, a.collectReturnTypes(n.Else)...)
		case *parser.WhileLoop:
			types = append(types, a.collectReturnTypes(n.Body)...)
		case *parser.ForLoop:
			types = append(types, a.collectReturnTypes(n.Body)...)
		case *parser.RepeatUntil:
			types = append(types, a.collectReturnTypes(n.Body)...)
		case *parser.DoBlock:
			types = append(types, a.collectReturnTypes(n.Body)...)
		}
	}
	return types
}

// reduceReturn collapses one return statement's expressions to a
// single TypeInfo: no values is Unknown, one value is its inferred
// type, several values are Unknown.
func (a *TypeAnalyzer) reduceReturn(stmt *parser.ReturnStatement) parser.TypeInfo {
	switch len(stmt.Values) {
	case 0:
		return parser.Unknown()
	case 1:
		return a.inferExpressionType(&stmt.Values[0])
	default:
		return parser.Unknown()
	}
}

// inferExpressionType is shallow: identifiers go through the scope
// chain and then the catalog, literals all map to the string type,
// and any call or function value maps to the function marker without
// looking at the callee.
func (a *TypeAnalyzer) inferExpressionType(expr *parser.Expression) parser.TypeInfo {
	switch expr.Kind {
	case parser.ExprIdentifier:
		if t, ok := a.scopes.Lookup(a.current, expr.Name); ok {
			return t
		}
		if a.catalog != nil {
			if t, ok := a.catalog.ResolveType(expr.Name); ok {
				return t
			}
		}
		return parser.Unknown()
	case parser.ExprLiteral:
		return parser.StringType()
	case parser.ExprFunctionCall, parser.ExprFunctionDef:
		return parser.FunctionType()
	case parser.ExprTableConstructor:
		return parser.TableType()
	default:
		return parser.Unknown()
	}
}
