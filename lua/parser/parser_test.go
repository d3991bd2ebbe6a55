package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseSource(t *testing.T, source string) []Node {
	t.Helper()
	tokens := NewCodeTokenizer(source).Tokenize()
	return NewCodeParser(tokens).Parse()
}

func TestParseModuleDeclaration(t *testing.T) {
	nodes := parseSource(t, "local M = { get_user = 0 }")

	if len(nodes) != 1 {
		t.Fatalf("node count = %d, want 1", len(nodes))
	}
	module, ok := nodes[0].(*ModuleDeclaration)
	if !ok {
		t.Fatalf("node = %T, want *ModuleDeclaration", nodes[0])
	}
	if module.Name != "M" {
		t.Errorf("Name = %q, want %q", module.Name, "M")
	}
	if len(module.Exports) != 1 || module.Exports[0].Name != "get_user" {
		t.Errorf("Exports = %v, want [get_user]", module.Exports)
	}
	if module.Exports[0].Type.Kind != TypeUnknown {
		t.Errorf("export type = %v, want Unknown", module.Exports[0].Type.Kind)
	}
}

func TestParseEmptyModuleTable(t *testing.T) {
	nodes := parseSource(t, "local M = {}")

	module, ok := nodes[0].(*ModuleDeclaration)
	if !ok {
		t.Fatalf("node = %T, want *ModuleDeclaration", nodes[0])
	}
	if len(module.Exports) != 0 {
		t.Errorf("Exports = %v, want none", module.Exports)
	}
}

func TestParseFunctionWithDottedName(t *testing.T) {
	nodes := parseSource(t, "function M.users.get(id, opts)\n  return id\nend")

	fn, ok := nodes[0].(*FunctionDef)
	if !ok {
		t.Fatalf("node = %T, want *FunctionDef", nodes[0])
	}
	if fn.Name != "M.users.get" {
		t.Errorf("Name = %q, want %q", fn.Name, "M.users.get")
	}
	if diff := cmp.Diff([]string{"M", "users", "get"}, fn.NameParts); diff != "" {
		t.Errorf("NameParts mismatch (-want +got):\n%s", diff)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "id" || fn.Params[1].Name != "opts" {
		t.Errorf("Params = %v, want id, opts", fn.Params)
	}
	if fn.Params[0].Type.Kind != TypeUnknown {
		t.Errorf("param type = %v, want Unknown before analysis", fn.Params[0].Type.Kind)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("body length = %d, want 1", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ReturnStatement); !ok {
		t.Errorf("body[0] = %T, want *ReturnStatement", fn.Body[0])
	}
}

func TestParseMethodDefinition(t *testing.T) {
	nodes := parseSource(t, "function Account:deposit(amount)\nend")

	fn := nodes[0].(*FunctionDef)
	if !fn.IsMethod {
		t.Error("IsMethod = false, want true")
	}
	if fn.Name != "Account.deposit" {
		t.Errorf("Name = %q, want %q", fn.Name, "Account.deposit")
	}
}

func TestParseLocalFunction(t *testing.T) {
	nodes := parseSource(t, "local function helper()\nend")

	fn, ok := nodes[0].(*FunctionDef)
	if !ok {
		t.Fatalf("node = %T, want *FunctionDef", nodes[0])
	}
	if !fn.IsLocal {
		t.Error("IsLocal = false, want true")
	}
	if fn.Name != "helper" {
		t.Errorf("Name = %q, want %q", fn.Name, "helper")
	}
}

func TestParseDocCommentAttachment(t *testing.T) {
	source := "---@param id number\n-- Fetches a user by id.\nfunction get_user(id)\nend"
	nodes := parseSource(t, source)

	if len(nodes) != 1 {
		t.Fatalf("node count = %d, want 1 (annotations are not code nodes)", len(nodes))
	}
	fn := nodes[0].(*FunctionDef)
	if fn.Doc != " Fetches a user by id." {
		t.Errorf("Doc = %q, want the comment text", fn.Doc)
	}
}

func TestParseStandaloneComment(t *testing.T) {
	nodes := parseSource(t, "-- just a remark")

	comment, ok := nodes[0].(*Comment)
	if !ok {
		t.Fatalf("node = %T, want *Comment", nodes[0])
	}
	if comment.Text != " just a remark" {
		t.Errorf("Text = %q, want %q", comment.Text, " just a remark")
	}
}

func TestParseVariableDeclaration(t *testing.T) {
	nodes := parseSource(t, `local greeting = "hello"`)

	decl, ok := nodes[0].(*VariableDeclaration)
	if !ok {
		t.Fatalf("node = %T, want *VariableDeclaration", nodes[0])
	}
	if decl.Name != "greeting" {
		t.Errorf("Name = %q, want %q", decl.Name, "greeting")
	}
	if decl.Value == nil || decl.Value.Kind != ExprLiteral || decl.Value.Literal != "hello" {
		t.Errorf("Value = %+v, want literal hello", decl.Value)
	}
}

func TestParseVariableWithoutInitializer(t *testing.T) {
	nodes := parseSource(t, "local pending")

	decl := nodes[0].(*VariableDeclaration)
	if decl.Value != nil {
		t.Errorf("Value = %+v, want nil", decl.Value)
	}
}

func TestParseReturnMultipleValues(t *testing.T) {
	nodes := parseSource(t, `return count, "label"`)

	stmt := nodes[0].(*ReturnStatement)
	if len(stmt.Values) != 2 {
		t.Fatalf("value count = %d, want 2", len(stmt.Values))
	}
	if stmt.Values[0].Kind != ExprIdentifier || stmt.Values[0].Name != "count" {
		t.Errorf("values[0] = %+v, want identifier count", stmt.Values[0])
	}
	if stmt.Values[1].Kind != ExprLiteral {
		t.Errorf("values[1] = %+v, want literal", stmt.Values[1])
	}
}

func TestParseAssignmentAndCall(t *testing.T) {
	nodes := parseSource(t, "config = load_config()\nprint(config)")

	if len(nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(nodes))
	}
	assign, ok := nodes[0].(*Assignment)
	if !ok {
		t.Fatalf("nodes[0] = %T, want *Assignment", nodes[0])
	}
	if assign.Target != "config" {
		t.Errorf("Target = %q, want config", assign.Target)
	}
	if assign.Value == nil || assign.Value.Kind != ExprFunctionCall {
		t.Errorf("Value = %+v, want a call", assign.Value)
	}
	call, ok := nodes[1].(*FunctionCallStmt)
	if !ok {
		t.Fatalf("nodes[1] = %T, want *FunctionCallStmt", nodes[1])
	}
	if call.Call.Name != "print" || len(call.Call.Args) != 1 {
		t.Errorf("Call = %+v, want print with one argument", call.Call)
	}
}

func TestParseIfElseifElse(t *testing.T) {
	source := `
if ready then
  return 1
elseif waiting then
  return 2
else
  return 3
end`
	nodes := parseSource(t, source)

	stmt, ok := nodes[0].(*IfStatement)
	if !ok {
		t.Fatalf("node = %T, want *IfStatement", nodes[0])
	}
	if len(stmt.Then) != 1 || len(stmt.Elifs) != 1 || len(stmt.Else) != 1 {
		t.Errorf("branches = then:%d elseif:%d else:%d, want 1 each",
			len(stmt.Then), len(stmt.Elifs), len(stmt.Else))
	}
}

func TestParseLoops(t *testing.T) {
	source := `
while running do
  tick()
end
for i = 1, 10 do
  step(i)
end
repeat
  poll()
until done
do
  setup()
end`
	nodes := parseSource(t, source)

	if len(nodes) != 4 {
		t.Fatalf("node count = %d, want 4 (%v)", len(nodes), nodes)
	}
	if _, ok := nodes[0].(*WhileLoop); !ok {
		t.Errorf("nodes[0] = %T, want *WhileLoop", nodes[0])
	}
	if _, ok := nodes[1].(*ForLoop); !ok {
		t.Errorf("nodes[1] = %T, want *ForLoop", nodes[1])
	}
	if _, ok := nodes[2].(*RepeatUntil); !ok {
		t.Errorf("nodes[2] = %T, want *RepeatUntil", nodes[2])
	}
	if _, ok := nodes[3].(*DoBlock); !ok {
		t.Errorf("nodes[3] = %T, want *DoBlock", nodes[3])
	}
}

func TestParseUnterminatedBlockClosesSilently(t *testing.T) {
	nodes := parseSource(t, "function incomplete()\n  return 1\n")

	fn, ok := nodes[0].(*FunctionDef)
	if !ok {
		t.Fatalf("node = %T, want *FunctionDef", nodes[0])
	}
	if len(fn.Body) != 1 {
		t.Errorf("body length = %d, want the collected statement", len(fn.Body))
	}
}

func TestParseSkipsUnrecognizedTokens(t *testing.T) {
	tokens := NewCodeTokenizer("@@ local x = 1").Tokenize()
	parser := NewCodeParser(tokens)
	nodes := parser.Parse()

	if len(nodes) != 1 {
		t.Fatalf("node count = %d, want 1", len(nodes))
	}
	if _, ok := nodes[0].(*VariableDeclaration); !ok {
		t.Errorf("node = %T, want *VariableDeclaration", nodes[0])
	}
	if len(parser.Diagnostics()) == 0 {
		t.Error("expected diagnostics for skipped tokens")
	}
}

func TestParseAnonymousFunctionValue(t *testing.T) {
	nodes := parseSource(t, "local handler = function(event)\n  return event\nend")

	decl := nodes[0].(*VariableDeclaration)
	if decl.Value == nil || decl.Value.Kind != ExprFunctionDef {
		t.Fatalf("Value = %+v, want a function definition", decl.Value)
	}
	if got := decl.Value.Func.Params[0].Name; got != "event" {
		t.Errorf("param = %q, want event", got)
	}
}

func TestParseVarArgParameter(t *testing.T) {
	nodes := parseSource(t, "function log(fmt, ...)\nend")

	fn := nodes[0].(*FunctionDef)
	if len(fn.Params) != 2 || fn.Params[1].Name != "..." {
		t.Errorf("Params = %v, want fmt and ...", fn.Params)
	}
}

func TestParseLeavesAnnotationsUnattached(t *testing.T) {
	nodes := parseSource(t, `---@class Config
local M = {}

---@param name string
function M.greet(name)
  return name
end

---@type number
local count = 1

M.total = count`)

	for _, node := range nodes {
		switch n := node.(type) {
		case *ModuleDeclaration:
			if len(n.Annotations) != 0 {
				t.Errorf("ModuleDeclaration.Annotations = %v, want empty", n.Annotations)
			}
		case *FunctionDef:
			if len(n.Annotations) != 0 {
				t.Errorf("FunctionDef.Annotations = %v, want empty", n.Annotations)
			}
		case *VariableDeclaration:
			if len(n.Annotations) != 0 {
				t.Errorf("VariableDeclaration.Annotations = %v, want empty", n.Annotations)
			}
		case *Assignment:
			if len(n.Annotations) != 0 {
				t.Errorf("Assignment.Annotations = %v, want empty", n.Annotations)
			}
		}
	}
}
