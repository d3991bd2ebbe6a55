package project

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/luadoc/lua/parser"
)

// Framework pins one supported version of a Lua host environment and
// the Lua release it embeds.
type Framework struct {
	Name        string
	Version     string
	LuaVersion  LuaVersion
	Description string
	// Globals are the table names the framework injects into every
	// script.
	Globals []string
}

// DetectedFramework is one framework found in a project; Version is
// empty when only the framework itself could be identified.
type DetectedFramework struct {
	Name    string
	Version string
}

// FrameworkRegistry holds the known framework definitions.
type FrameworkRegistry struct {
	frameworks map[string]Framework
	versions   map[string][]string
}

func NewFrameworkRegistry() *FrameworkRegistry {
	r := &FrameworkRegistry{
		frameworks: map[string]Framework{},
		versions:   map[string][]string{},
	}
	for _, fw := range builtinFrameworks() {
		r.Register(fw)
	}
	return r
}

func builtinFrameworks() []Framework {
	return []Framework{
		{Name: "neovim", Version: "0.9.0", LuaVersion: Lua51, Description: "Neovim API for version 0.9.x", Globals: []string{"vim"}},
		{Name: "neovim", Version: "0.10.0", LuaVersion: Lua51, Description: "Neovim API for version 0.10.x", Globals: []string{"vim"}},
		{Name: "neovim", Version: "0.11.0", LuaVersion: Lua51, Description: "Neovim API for version 0.11.x", Globals: []string{"vim"}},
		{Name: "wezterm", Version: "20230712", LuaVersion: Lua54, Description: "WezTerm API (July 2023 release)", Globals: []string{"wezterm"}},
		{Name: "wezterm", Version: "20240222", LuaVersion: Lua54, Description: "WezTerm API (February 2024 release)", Globals: []string{"wezterm"}},
		{Name: "love2d", Version: "11.4", LuaVersion: Lua53, Description: "LOVE2D API for version 11.4", Globals: []string{"love"}},
		{Name: "love2d", Version: "11.5", LuaVersion: Lua53, Description: "LOVE2D API for version 11.5", Globals: []string{"love"}},
		{Name: "yazi", Version: "0.1.5", LuaVersion: Lua54, Description: "Yazi file manager API", Globals: []string{"ya"}},
	}
}

// Register adds a framework version to the registry.
func (r *FrameworkRegistry) Register(fw Framework) {
	r.frameworks[fw.Name+":"+fw.Version] = fw
	r.versions[fw.Name] = append(r.versions[fw.Name], fw.Version)
}

// Names lists the registered framework names, sorted.
func (r *FrameworkRegistry) Names() []string {
	names := make([]string, 0, len(r.versions))
	for name := range r.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions lists the registered versions of one framework.
func (r *FrameworkRegistry) Versions(name string) []string {
	return r.versions[name]
}

// LatestVersion returns the newest registered version of a framework.
func (r *FrameworkRegistry) LatestVersion(name string) string {
	latest := ""
	for _, version := range r.versions[name] {
		if latest == "" || versionNewer(version, latest) {
			latest = version
		}
	}
	return latest
}

// Framework looks up one framework version; the empty version selects
// the latest.
func (r *FrameworkRegistry) Framework(name, version string) (Framework, bool) {
	if version == "" {
		version = r.LatestVersion(name)
	}
	fw, ok := r.frameworks[name+":"+version]
	return fw, ok
}

// Detect inspects a project directory for framework usage, first by
// directory shape and then by scanning source files for
// framework-specific requires and globals.
func (r *FrameworkRegistry) Detect(dir string) []DetectedFramework {
	var detected []DetectedFramework
	seen := map[string]bool{}
	add := func(name, version string) {
		if !seen[name] {
			seen[name] = true
			detected = append(detected, DetectedFramework{Name: name, Version: version})
		}
	}

	if hasAny(dir, "lua") && hasAny(dir, "plugin", "doc", "after", "ftplugin", "autoload") {
		add("neovim", detectNeovimVersion(dir))
	}
	if hasAny(dir, "wezterm.lua", ".wezterm.lua") {
		add("wezterm", r.LatestVersion("wezterm"))
	}
	if hasAny(dir, "main.lua") && hasAny(dir, "conf.lua") {
		add("love2d", detectLoveVersion(dir))
	}

	for _, name := range scanForFrameworkImports(dir) {
		version := ""
		switch name {
		case "neovim":
			version = detectNeovimVersion(dir)
		default:
			version = r.LatestVersion(name)
		}
		add(name, version)
	}
	return detected
}

// frameworkImportMarkers maps source substrings to the framework they
// reveal.
var frameworkImportMarkers = []struct {
	pattern   string
	framework string
}{
	{`require("nvim`, "neovim"},
	{`require('nvim`, "neovim"},
	{"vim.api.", "neovim"},
	{"vim.fn.", "neovim"},
	{"vim.cmd", "neovim"},
	{"vim.keymap", "neovim"},
	{`require("wezterm`, "wezterm"},
	{`require('wezterm`, "wezterm"},
	{"wezterm.action", "wezterm"},
	{"wezterm.format", "wezterm"},
	{"love.graphics", "love2d"},
	{"love.audio", "love2d"},
	{"love.event", "love2d"},
	{"function love.", "love2d"},
	{`require("yazi`, "yazi"},
	{`require('yazi`, "yazi"},
	{"ya.manager", "yazi"},
	{"ya.preview", "yazi"},
}

func scanForFrameworkImports(dir string) []string {
	found := map[string]bool{}
	scanned := 0
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && IgnoredDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".lua" || scanned >= 20 {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		scanned++
		content := string(raw)
		for _, marker := range frameworkImportMarkers {
			if strings.Contains(content, marker.pattern) {
				found[marker.framework] = true
			}
		}
		return nil
	})
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func detectNeovimVersion(dir string) string {
	for _, file := range []string{"README.md", "doc/help.txt", "plugin/init.lua"} {
		raw, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			continue
		}
		content := string(raw)
		for _, minor := range []string{"0.11", "0.10", "0.9"} {
			if strings.Contains(content, "neovim >= "+minor) ||
				strings.Contains(content, "nvim >= "+minor) ||
				strings.Contains(content, "requires Neovim "+minor) {
				return minor + ".0"
			}
		}
	}
	return ""
}

func detectLoveVersion(dir string) string {
	raw, err := os.ReadFile(filepath.Join(dir, "conf.lua"))
	if err != nil {
		return ""
	}
	content := string(raw)
	if strings.Contains(content, `t.version = "11.5`) {
		return "11.5"
	}
	if strings.Contains(content, `t.version = "11.`) {
		return "11.4"
	}
	return ""
}

// ApplyFrameworks registers each detected framework's injected
// globals as modules in the catalog and aligns the Lua version with
// the framework's runtime.
func (c *Context) ApplyFrameworks() {
	for _, detected := range c.detected {
		fw, ok := c.frameworks.Framework(detected.Name, detected.Version)
		if !ok {
			continue
		}
		log.Infof("applying framework %s %s", fw.Name, fw.Version)
		c.SetLuaVersion(fw.LuaVersion)
		for _, global := range fw.Globals {
			if _, exists := c.Modules[global]; !exists {
				c.Modules[global] = &ModuleInfo{
					Exports:   map[string]parser.ExportItem{},
					Processed: true,
				}
			}
			c.StandardTypes[global] = parser.TableType()
		}
	}
}

// versionNewer compares two version strings, handling both dotted
// semver-style versions and WezTerm's date-based YYYYMMDD scheme.
func versionNewer(a, b string) bool {
	if len(a) == 8 && len(b) == 8 && allDigits(a) && allDigits(b) {
		return a > b
	}
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		an, bn := 0, 0
		if i < len(as) {
			an, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bn, _ = strconv.Atoi(bs[i])
		}
		if an != bn {
			return an > bn
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
