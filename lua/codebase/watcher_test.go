package codebase

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWatcherScanPicksUpLuaFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "mod.lua"), "local M = {}\nreturn M")

	c := New(root)
	w := NewFileWatcher(c)
	w.scan()

	if c.GetFile(filepath.Join(root, "mod.lua")) == nil {
		t.Error("mod.lua not scanned")
	}
}

func TestWatcherSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.lua"), "local M = {}")
	writeFile(t, filepath.Join(root, "node_modules", "dep.lua"), "local M = {}")
	writeFile(t, filepath.Join(root, "target", "gen.lua"), "local M = {}")
	writeFile(t, filepath.Join(root, ".cache", "tmp.lua"), "local M = {}")

	c := New(root)
	w := NewFileWatcher(c)
	w.scan()

	if c.GetFile(filepath.Join(root, "keep.lua")) == nil {
		t.Error("keep.lua not scanned")
	}
	for _, ignored := range []string{
		filepath.Join(root, "node_modules", "dep.lua"),
		filepath.Join(root, "target", "gen.lua"),
		filepath.Join(root, ".cache", "tmp.lua"),
	} {
		if c.GetFile(ignored) != nil {
			t.Errorf("%s scanned, want ignored", ignored)
		}
	}
}

func TestWatcherForgetsDeletedFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "gone.lua")
	writeFile(t, path, "local M = {}")

	c := New(root)
	w := NewFileWatcher(c)
	w.scan()
	if c.GetFile(path) == nil {
		t.Fatal("gone.lua not scanned on first pass")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(path) != nil {
		t.Error("gone.lua still registered after removal")
	}
}
