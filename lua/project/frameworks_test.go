package project

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryVersions(t *testing.T) {
	r := NewFrameworkRegistry()

	if got := r.LatestVersion("neovim"); got != "0.11.0" {
		t.Errorf("LatestVersion(neovim) = %q, want 0.11.0", got)
	}
	if got := r.LatestVersion("wezterm"); got != "20240222" {
		t.Errorf("LatestVersion(wezterm) = %q, want 20240222", got)
	}

	fw, ok := r.Framework("love2d", "")
	if !ok || fw.Version != "11.5" || fw.LuaVersion != Lua53 {
		t.Errorf("Framework(love2d, latest) = %+v, %v", fw, ok)
	}
	if _, ok := r.Framework("neovim", "0.8.0"); ok {
		t.Error("Framework(neovim, 0.8.0) = true, want false")
	}
}

func TestVersionNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"0.10.0", "0.9.0", true},
		{"0.9.0", "0.10.0", false},
		{"11.5", "11.4", true},
		{"20240222", "20230712", true},
		{"1.0", "1.0", false},
	}
	for _, tt := range tests {
		if got := versionNewer(tt.a, tt.b); got != tt.want {
			t.Errorf("versionNewer(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDetectWezTermByShape(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "wezterm.lua"), `local wezterm = require("wezterm")
return {}`)

	got := NewFrameworkRegistry().Detect(dir)
	want := []DetectedFramework{{Name: "wezterm", Version: "20240222"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectNeovimByImports(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "keymaps.lua"), `vim.keymap.set("n", "<leader>f", find_files)`)

	got := NewFrameworkRegistry().Detect(dir)
	if len(got) != 1 || got[0].Name != "neovim" {
		t.Errorf("Detect() = %v, want neovim", got)
	}
}

func TestDetectLoveWithVersion(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "main.lua"), "function love.draw() end")
	mustWrite(t, filepath.Join(dir, "conf.lua"), `function love.conf(t)
  t.version = "11.5"
end`)

	got := NewFrameworkRegistry().Detect(dir)
	if len(got) != 1 || got[0].Name != "love2d" || got[0].Version != "11.5" {
		t.Errorf("Detect() = %v, want love2d 11.5", got)
	}
}

func TestApplyFrameworks(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "wezterm.lua"), `local wezterm = require("wezterm")`)

	ctx := NewContextWithVersion(Lua51)
	ctx.DetectProjectRoot(dir)
	ctx.ApplyFrameworks()

	if ctx.LuaVersion != Lua54 {
		t.Errorf("LuaVersion = %v, want 5.4 after applying wezterm", ctx.LuaVersion)
	}
	if _, ok := ctx.Modules["wezterm"]; !ok {
		t.Error("wezterm global not registered as a module")
	}
}
