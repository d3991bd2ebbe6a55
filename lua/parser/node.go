package parser

// Node is the common interface of all Lua code AST nodes.
type Node interface {
	node()
	NodeSpan() Span
}

// ExprKind distinguishes the expression forms the analyzer cares
// about. Anything richer is reduced to one of these during parsing.
type ExprKind int

const (
	ExprIdentifier ExprKind = iota
	ExprLiteral
	ExprFunctionCall
	ExprFunctionDef
	ExprTableConstructor
	ExprVarArg
)

var exprKindNames = map[ExprKind]string{
	ExprIdentifier:       "Identifier",
	ExprLiteral:          "Literal",
	ExprFunctionCall:     "FunctionCall",
	ExprFunctionDef:      "FunctionDef",
	ExprTableConstructor: "TableConstructor",
	ExprVarArg:           "VarArg",
}

func (k ExprKind) String() string {
	if name, ok := exprKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// Expression is a flattened expression node. Name holds the dotted
// identifier or call target, Literal the raw literal text, Func the
// nested function for ExprFunctionDef, Table the nested constructor
// for ExprTableConstructor.
type Expression struct {
	Kind    ExprKind
	Name    string
	Literal string
	Args    []Expression
	Func    *FunctionDef
	Table   *TableConstructor
	Span    Span
}

// ModuleDeclaration is `local M = {}` (or a populated table) at the
// top level: the table that accumulates a module's exports.
// Annotations stays empty after parsing; callers that want the two
// trees associated fill it themselves.
type ModuleDeclaration struct {
	Name        string
	Exports     []ExportItem
	Doc         string
	Annotations []AnnotationNode
	Span        Span
}

// FunctionDef is a named or anonymous function definition. For
// `function M.get(id)` Name holds the full dotted path and NameParts
// its segments. ReturnTypes is filled in by the type analyzer.
type FunctionDef struct {
	Name        string
	NameParts   []string
	Params      []Param
	IsLocal     bool
	IsMethod    bool
	Body        []Node
	ReturnTypes []TypeInfo
	Doc         string
	Annotations []AnnotationNode
	Span        Span
}

// VariableDeclaration is `local name = value` (value optional).
type VariableDeclaration struct {
	Name        string
	IsLocal     bool
	Value       *Expression
	Doc         string
	Annotations []AnnotationNode
	Span        Span
}

// Assignment is `target = value` without a `local` keyword, including
// dotted targets like `M.field = 1`.
type Assignment struct {
	Target      string
	TargetParts []string
	Value       *Expression
	Annotations []AnnotationNode
	Span        Span
}

// ReturnStatement carries the returned expressions; an empty slice is
// a bare `return`.
type ReturnStatement struct {
	Values []Expression
	Span   Span
}

// FunctionCallStmt is a call in statement position.
type FunctionCallStmt struct {
	Call Expression
	Span Span
}

// TableConstructor is a `{ ... }` literal with its named entries.
type TableConstructor struct {
	Fields []TableEntry
	Span   Span
}

// TableEntry is one `name = value` pair inside a table constructor.
// Positional entries keep an empty Name.
type TableEntry struct {
	Name  string
	Value Expression
}

// Comment is a standalone comment that was not attached to a
// following declaration.
type Comment struct {
	Text    string
	IsBlock bool
	Span    Span
}

// IfStatement keeps the consequent, elseif arms and else arm so the
// analyzer can walk nested returns.
type IfStatement struct {
	Then   []Node
	Elifs  [][]Node
	Else   []Node
	Span   Span
}

// WhileLoop is `while <cond> do ... end`.
type WhileLoop struct {
	Body []Node
	Span Span
}

// ForLoop covers both numeric and generic `for` forms; only the body
// matters downstream.
type ForLoop struct {
	Names []string
	Body  []Node
	Span  Span
}

// RepeatUntil is `repeat ... until <cond>`.
type RepeatUntil struct {
	Body []Node
	Span Span
}

// DoBlock is a bare `do ... end` scope.
type DoBlock struct {
	Body []Node
	Span Span
}

func (*ModuleDeclaration) node()   {}
func (*FunctionDef) node()         {}
func (*VariableDeclaration) node() {}
func (*Assignment) node()          {}
func (*ReturnStatement) node()     {}
func (*FunctionCallStmt) node()    {}
func (*TableConstructor) node()    {}
func (*Comment) node()             {}
func (*IfStatement) node()         {}
func (*WhileLoop) node()           {}
func (*ForLoop) node()             {}
func (*RepeatUntil) node()         {}
func (*DoBlock) node()             {}

func (n *ModuleDeclaration) NodeSpan() Span   { return n.Span }
func (n *FunctionDef) NodeSpan() Span         { return n.Span }
func (n *VariableDeclaration) NodeSpan() Span { return n.Span }
func (n *Assignment) NodeSpan() Span          { return n.Span }
func (n *ReturnStatement) NodeSpan() Span     { return n.Span }
func (n *FunctionCallStmt) NodeSpan() Span    { return n.Span }
func (n *TableConstructor) NodeSpan() Span    { return n.Span }
func (n *Comment) NodeSpan() Span             { return n.Span }
func (n *IfStatement) NodeSpan() Span         { return n.Span }
func (n *WhileLoop) NodeSpan() Span           { return n.Span }
func (n *ForLoop) NodeSpan() Span             { return n.Span }
func (n *RepeatUntil) NodeSpan() Span         { return n.Span }
func (n *DoBlock) NodeSpan() Span             { return n.Span }
