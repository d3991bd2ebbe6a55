package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/luadoc/lua/parser"
)

func TestAddExportCreatesModule(t *testing.T) {
	ctx := NewContext()
	ctx.AddExport("users", parser.ExportItem{Name: "get", Type: parser.FunctionType()})

	module, ok := ctx.Modules["users"]
	if !ok {
		t.Fatal("module users not created")
	}
	if export, ok := module.Exports["get"]; !ok || export.Type.Kind != parser.TypeFunction {
		t.Errorf("Exports[get] = %v, %v; want Function export", export, ok)
	}
}

func TestResolveTypeStandardAndCustom(t *testing.T) {
	ctx := NewContext()

	if got, ok := ctx.ResolveType("string"); !ok || got.Kind != parser.TypeString {
		t.Errorf("ResolveType(string) = %v, %v", got, ok)
	}
	if _, ok := ctx.ResolveType("Widget"); ok {
		t.Error("ResolveType(Widget) = true before declaration")
	}

	ctx.AddCustomType(&CustomType{Name: "Widget"})
	if got, ok := ctx.ResolveType("Widget"); !ok || got.Kind != parser.TypeTable {
		t.Errorf("ResolveType(Widget) = %v, %v; want Table", got, ok)
	}
}

func TestStandardLibraryPerVersion(t *testing.T) {
	old := NewContextWithVersion(Lua51)
	if _, ok := old.Modules["_G"].Exports["unpack"]; !ok {
		t.Error("Lua 5.1 is missing unpack")
	}
	if _, ok := old.Modules["utf8"]; ok {
		t.Error("Lua 5.1 should not have utf8")
	}

	modern := NewContextWithVersion(Lua54)
	if _, ok := modern.Modules["_G"].Exports["warn"]; !ok {
		t.Error("Lua 5.4 is missing warn")
	}
	if _, ok := modern.Modules["utf8"]; !ok {
		t.Error("Lua 5.4 is missing utf8")
	}
	if _, ok := modern.StandardTypes["integer"]; !ok {
		t.Error("Lua 5.4 is missing the integer type")
	}
}

func TestRegisterAnnotationsClassAndAlias(t *testing.T) {
	source := `---@class User
---@field id number the identifier
---@field name string

---@alias Side
---| '"left"'
---| '"right"'`
	ctx := NewContext()
	tokens := parser.NewCodeTokenizer(source).Tokenize()
	ctx.RegisterAnnotations(parser.NewAnnotationParser(tokens).Parse())

	user, ok := ctx.CustomTypes["User"]
	if !ok {
		t.Fatal("User not registered")
	}
	if len(user.Fields) != 2 || user.Fields[0].Name != "id" || user.Fields[0].Type.Kind != parser.TypeNumber {
		t.Errorf("User fields = %v", user.Fields)
	}

	side, ok := ctx.CustomTypes["Side"]
	if !ok {
		t.Fatal("Side not registered")
	}
	if !side.IsAlias || len(side.Variants) != 2 || side.Variants[0] != "left" {
		t.Errorf("Side = %+v, want alias with left/right variants", side)
	}
}

func TestCollectDependencies(t *testing.T) {
	source := `local json = require("lib.json")
require("setup")`
	tokens := parser.NewCodeTokenizer(source).Tokenize()
	nodes := parser.NewCodeParser(tokens).Parse()

	ctx := NewContext()
	ctx.CollectDependencies("app", nodes)

	deps := ctx.Modules["app"].Dependencies
	if len(deps) != 2 {
		t.Fatalf("dependency count = %d, want 2 (%v)", len(deps), deps)
	}
	if deps[0].RequiredPath != "lib.json" || deps[0].LocalAlias != "json" {
		t.Errorf("deps[0] = %+v, want lib.json aliased as json", deps[0])
	}
	if deps[1].RequiredPath != "setup" || deps[1].LocalAlias != "" {
		t.Errorf("deps[1] = %+v, want bare setup", deps[1])
	}
}

func TestBuildDependencyGraph(t *testing.T) {
	ctx := NewContext()
	ctx.AddDependency("a", DependencyInfo{RequiredPath: "shared"})
	ctx.AddDependency("b", DependencyInfo{RequiredPath: "shared"})
	ctx.BuildDependencyGraph()

	dependents := ctx.DependencyGraph["shared"]
	if !dependents["a"] || !dependents["b"] {
		t.Errorf("dependents of shared = %v, want a and b", dependents)
	}
}

func TestDetectProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "init.lua"), []byte("local M = {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext()
	got := ctx.DetectProjectRoot(nested)
	if got != root {
		t.Errorf("DetectProjectRoot = %q, want %q", got, root)
	}
}

func TestScanLuaFilesSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.lua"), "print(1)")
	mustWrite(t, filepath.Join(root, "lib", "util.lua"), "return {}")
	mustWrite(t, filepath.Join(root, ".git", "hook.lua"), "ignored")

	ctx := NewContext()
	ctx.ProjectRoot = root
	if err := ctx.ScanLuaFiles(); err != nil {
		t.Fatal(err)
	}
	if len(ctx.LuaFiles) != 2 {
		t.Errorf("LuaFiles = %v, want main.lua and lib/util.lua only", ctx.LuaFiles)
	}
}

func TestProcessTypeFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "type.lua"), `---@class Point
---@field x number
---@field y number
local Types = {}
return Types`)

	ctx := NewContext()
	ctx.ProjectRoot = root
	processed, err := ctx.ProcessTypeFiles()
	if err != nil {
		t.Fatal(err)
	}
	if !processed {
		t.Error("processed = false, want true")
	}
	if _, ok := ctx.CustomTypes["Point"]; !ok {
		t.Error("Point not registered from type.lua")
	}
}

func TestGenerateTypeFile(t *testing.T) {
	ctx := NewContext()
	ctx.AddCustomType(&CustomType{
		Name: "User",
		Fields: []FieldInfo{
			{Name: "id", Type: parser.NumberType(), Description: "the identifier"},
			{Name: "email", Type: parser.StringType(), Optional: true},
		},
		Methods: map[string]FunctionSignature{},
	})
	ctx.AddCustomType(&CustomType{
		Name:     "Side",
		IsAlias:  true,
		Variants: []string{"left", "right"},
		Methods:  map[string]FunctionSignature{},
	})

	out, err := ctx.GenerateTypeFile()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"---@class User",
		"---@field id number the identifier",
		"---@field email? string",
		"---@alias Side",
		`---| '"left"'`,
		"return Types",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateTypeFileWithoutTypes(t *testing.T) {
	ctx := NewContext()
	if _, err := ctx.GenerateTypeFile(); err == nil {
		t.Error("err = nil, want error with no custom types")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
