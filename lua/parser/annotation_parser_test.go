package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseAnnotations(t *testing.T, source string) []AnnotationNode {
	t.Helper()
	tokens := NewCodeTokenizer(source).Tokenize()
	return NewAnnotationParser(tokens).Parse()
}

func TestParseAliasWithVariantLines(t *testing.T) {
	source := `---@alias DeviceSide
---| '"left"' # The left side of the device
---| '"right"' # The right side of the device`
	nodes := parseAnnotations(t, source)

	if len(nodes) != 1 {
		t.Fatalf("node count = %d, want 1 (continuation lines fold into the alias)", len(nodes))
	}
	alias, ok := nodes[0].(*Alias)
	if !ok {
		t.Fatalf("node = %T, want *Alias", nodes[0])
	}
	want := &Alias{
		Name: "DeviceSide",
		Variants: []Variant{
			{Value: `'"left"'`, Description: "The left side of the device"},
			{Value: `'"right"'`, Description: "The right side of the device"},
		},
	}
	if diff := cmp.Diff(want, alias); diff != "" {
		t.Errorf("alias mismatch (-want +got):\n%s", diff)
	}
}

func TestParseParamAnnotation(t *testing.T) {
	nodes := parseAnnotations(t, "---@param timeout number how long to wait")

	param, ok := nodes[0].(*ParamAnn)
	if !ok {
		t.Fatalf("node = %T, want *ParamAnn", nodes[0])
	}
	if param.Name != "timeout" || param.Type != "number" {
		t.Errorf("param = %+v, want timeout number", param)
	}
	if param.Description != "how long to wait" {
		t.Errorf("Description = %q, want %q", param.Description, "how long to wait")
	}
}

func TestParseParamUnionType(t *testing.T) {
	nodes := parseAnnotations(t, "---@param id string|number the identifier")

	param := nodes[0].(*ParamAnn)
	if param.Type != "string|number" {
		t.Errorf("Type = %q, want %q", param.Type, "string|number")
	}
	if param.Description != "the identifier" {
		t.Errorf("Description = %q, want %q", param.Description, "the identifier")
	}
}

func TestParseParamTableType(t *testing.T) {
	nodes := parseAnnotations(t, "---@param opts table<string, number>")

	param := nodes[0].(*ParamAnn)
	if param.Type != "table<string, number>" {
		t.Errorf("Type = %q, want %q", param.Type, "table<string, number>")
	}
}

func TestParseReturnAnnotation(t *testing.T) {
	nodes := parseAnnotations(t, "---@return string name the user name")

	ret, ok := nodes[0].(*ReturnAnn)
	if !ok {
		t.Fatalf("node = %T, want *ReturnAnn", nodes[0])
	}
	if ret.Type != "string" || ret.Name != "name" {
		t.Errorf("return = %+v, want string name", ret)
	}
	if ret.Description != "the user name" {
		t.Errorf("Description = %q, want %q", ret.Description, "the user name")
	}
}

func TestParseClassAnnotation(t *testing.T) {
	nodes := parseAnnotations(t, "---@class Window : Widget, Drawable")

	class, ok := nodes[0].(*Class)
	if !ok {
		t.Fatalf("node = %T, want *Class", nodes[0])
	}
	if class.Name != "Window" {
		t.Errorf("Name = %q, want Window", class.Name)
	}
	if diff := cmp.Diff([]string{"Widget", "Drawable"}, class.Parents); diff != "" {
		t.Errorf("Parents mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFieldAnnotationWithScope(t *testing.T) {
	nodes := parseAnnotations(t, "---@field private cache table internal cache")

	field, ok := nodes[0].(*Field)
	if !ok {
		t.Fatalf("node = %T, want *Field", nodes[0])
	}
	if field.Scope != "private" || field.Name != "cache" || field.Type != "table" {
		t.Errorf("field = %+v, want private cache table", field)
	}
}

func TestParseEnumWithKey(t *testing.T) {
	source := `---@enum Direction (key)
---| North
---| South`
	nodes := parseAnnotations(t, source)

	enum, ok := nodes[0].(*Enum)
	if !ok {
		t.Fatalf("node = %T, want *Enum", nodes[0])
	}
	if !enum.IsKey {
		t.Error("IsKey = false, want true")
	}
	if len(enum.Variants) != 2 || enum.Variants[0].Value != "North" {
		t.Errorf("Variants = %v, want North, South", enum.Variants)
	}
}

func TestParseMarkerAnnotations(t *testing.T) {
	source := `---@async
---@nodiscard
---@package
---@private
---@protected`
	nodes := parseAnnotations(t, source)

	if len(nodes) != 5 {
		t.Fatalf("node count = %d, want 5", len(nodes))
	}
	wantKeywords := []string{"async", "nodiscard", "package", "private", "protected"}
	for i, node := range nodes {
		if node.Keyword() != wantKeywords[i] {
			t.Errorf("nodes[%d].Keyword() = %q, want %q", i, node.Keyword(), wantKeywords[i])
		}
	}
}

func TestParseUnknownKeywordFallsBackToGeneric(t *testing.T) {
	nodes := parseAnnotations(t, "---@frobnicate with great care")

	generic, ok := nodes[0].(*Generic)
	if !ok {
		t.Fatalf("node = %T, want *Generic", nodes[0])
	}
	if generic.Word != "frobnicate" {
		t.Errorf("Word = %q, want frobnicate", generic.Word)
	}
	if generic.Content != "with great care" {
		t.Errorf("Content = %q, want %q", generic.Content, "with great care")
	}
}

func TestParseIncompleteAnnotationDropped(t *testing.T) {
	tokens := NewCodeTokenizer("---@param").Tokenize()
	annotations := NewAnnotationParser(tokens)
	nodes := annotations.Parse()

	if len(nodes) != 0 {
		t.Errorf("nodes = %v, want the incomplete param dropped", nodes)
	}
	if len(annotations.Diagnostics()) != 1 {
		t.Errorf("diagnostic count = %d, want 1", len(annotations.Diagnostics()))
	}
}

func TestParseIgnoresCodeTokens(t *testing.T) {
	source := "local x = 1\n---@type number\nfunction f() end"
	nodes := parseAnnotations(t, source)

	if len(nodes) != 1 {
		t.Fatalf("node count = %d, want 1", len(nodes))
	}
	typeAnn, ok := nodes[0].(*TypeAnn)
	if !ok {
		t.Fatalf("node = %T, want *TypeAnn", nodes[0])
	}
	if typeAnn.Type != "number" {
		t.Errorf("Type = %q, want number", typeAnn.Type)
	}
}

func TestParseModuleAnnotation(t *testing.T) {
	nodes := parseAnnotations(t, "---@module 'wezterm.gui'")

	module, ok := nodes[0].(*Module)
	if !ok {
		t.Fatalf("node = %T, want *Module", nodes[0])
	}
	if module.Name != "wezterm.gui" {
		t.Errorf("Name = %q, want wezterm.gui", module.Name)
	}
}

func TestParseDiagnosticAnnotation(t *testing.T) {
	nodes := parseAnnotations(t, "---@diagnostic disable-next-line: undefined-global")

	diag, ok := nodes[0].(*DiagnosticAnn)
	if !ok {
		t.Fatalf("node = %T, want *DiagnosticAnn", nodes[0])
	}
	if diag.Action != "disable-next-line" {
		t.Errorf("Action = %q, want disable-next-line", diag.Action)
	}
	if diff := cmp.Diff([]string{"undefined-global"}, diag.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOverloadAnnotation(t *testing.T) {
	nodes := parseAnnotations(t, "---@overload fun(name: string): number")

	overload, ok := nodes[0].(*Overload)
	if !ok {
		t.Fatalf("node = %T, want *Overload", nodes[0])
	}
	if overload.Signature != "fun(name: string): number" {
		t.Errorf("Signature = %q, want %q", overload.Signature, "fun(name: string): number")
	}
}
