package project

import (
	"path/filepath"
	"testing"
)

func TestParseLuaVersion(t *testing.T) {
	tests := []struct {
		input string
		want  LuaVersion
		ok    bool
	}{
		{"5.1", Lua51, true},
		{"52", Lua52, true},
		{" 5.4\n", Lua54, true},
		{"jit", Lua54, false},
	}
	for _, tt := range tests {
		got, ok := ParseLuaVersion(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLuaVersion(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHasFeature(t *testing.T) {
	if !Lua51.HasFeature("unpack") || Lua52.HasFeature("unpack") {
		t.Error("unpack should be a 5.1-only feature")
	}
	if !Lua52.HasFeature("goto") || Lua51.HasFeature("goto") {
		t.Error("goto arrives in 5.2")
	}
	if !Lua54.HasFeature("utf8") || !Lua53.HasFeature("utf8") || Lua52.HasFeature("utf8") {
		t.Error("utf8 arrives in 5.3")
	}
	if !Lua54.HasFeature("to_close") || Lua53.HasFeature("to_close") {
		t.Error("to-close variables are 5.4 only")
	}
}

func TestDetectFromLuarcWithComments(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".luarc.json"), `{
  // language server settings
  "runtime": {
    "version": "Lua 5.3",
  },
}`)
	if got := DetectLuaVersion(dir, Lua54); got != Lua53 {
		t.Errorf("DetectLuaVersion = %v, want 5.3", got)
	}
}

func TestDetectFromLuarcFlatKeyAndLuaJIT(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".luarc.json"), `{"runtime.version": "LuaJIT"}`)
	if got := DetectLuaVersion(dir, Lua54); got != Lua51 {
		t.Errorf("DetectLuaVersion = %v, want 5.1 for LuaJIT", got)
	}
}

func TestDetectFromMarkerFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".lua-version"), "5.2\n")
	if got := DetectLuaVersion(dir, Lua54); got != Lua52 {
		t.Errorf("DetectLuaVersion = %v, want 5.2", got)
	}
}

func TestDetectFromLuacheckrc(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".luacheckrc"), `std = "lua53"`)
	if got := DetectLuaVersion(dir, Lua54); got != Lua53 {
		t.Errorf("DetectLuaVersion = %v, want 5.3", got)
	}
}

func TestDetectFromRockspec(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "mylib-1.0-1.rockspec"), `dependencies = {
   "lua ~> 5.1"
}`)
	if got := DetectLuaVersion(dir, Lua54); got != Lua51 {
		t.Errorf("DetectLuaVersion = %v, want 5.1", got)
	}
}

func TestDetectNeovimPluginShape(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "lua", "plugin", "init.lua"), "local M = {}")
	mustWrite(t, filepath.Join(dir, "plugin", "load.vim"), "")
	if got := DetectLuaVersion(dir, Lua54); got != Lua51 {
		t.Errorf("DetectLuaVersion = %v, want 5.1 for Neovim plugin layout", got)
	}
}

func TestDetectFromSyntax(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.lua"), `local resource <close> = open()
print(resource)`)
	if got := DetectLuaVersion(dir, Lua51); got != Lua54 {
		t.Errorf("DetectLuaVersion = %v, want 5.4 for <close>", got)
	}
}

func TestDetectFallback(t *testing.T) {
	dir := t.TempDir()
	if got := DetectLuaVersion(dir, Lua52); got != Lua52 {
		t.Errorf("DetectLuaVersion = %v, want fallback 5.2", got)
	}
}
