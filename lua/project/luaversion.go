package project

import (
	"os"
	"path/filepath"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"
)

// LuaVersion is the Lua release a project targets.
type LuaVersion int

const (
	Lua51 LuaVersion = iota
	Lua52
	Lua53
	Lua54
)

var luaVersionNames = map[LuaVersion]string{
	Lua51: "5.1",
	Lua52: "5.2",
	Lua53: "5.3",
	Lua54: "5.4",
}

func (v LuaVersion) String() string {
	if name, ok := luaVersionNames[v]; ok {
		return name
	}
	return "unknown"
}

// ParseLuaVersion accepts "5.1".."5.4" and the shorthand "51".."54".
func ParseLuaVersion(s string) (LuaVersion, bool) {
	switch strings.TrimSpace(s) {
	case "5.1", "51":
		return Lua51, true
	case "5.2", "52":
		return Lua52, true
	case "5.3", "53":
		return Lua53, true
	case "5.4", "54":
		return Lua54, true
	}
	return Lua54, false
}

// HasFeature reports whether a named language or library feature is
// available in this version.
func (v LuaVersion) HasFeature(feature string) bool {
	switch feature {
	case "module", "setfenv", "getfenv", "unpack", "loadstring":
		return v == Lua51
	case "goto", "bit32":
		return v >= Lua52
	case "integer_division", "utf8":
		return v >= Lua53
	case "to_close":
		return v == Lua54
	}
	return false
}

// luarcConfig is the subset of .luarc.json the detector reads. The
// file is JSONC, so it goes through hujson before decoding. Both the
// nested and the flat key spellings are in use in the wild.
type luarcConfig struct {
	Runtime struct {
		Version string `json:"version"`
	} `json:"runtime"`
	RuntimeVersion string `json:"runtime.version"`
}

// DetectLuaVersion inspects a directory's configuration files and
// source to determine the target Lua version, falling back to the
// given default when nothing is conclusive.
func DetectLuaVersion(dir string, fallback LuaVersion) LuaVersion {
	if v, ok := versionFromLuarc(dir); ok {
		log.Infof("detected Lua %s from .luarc.json", v)
		return v
	}
	if v, ok := versionFromMarkerFile(filepath.Join(dir, ".lua-version")); ok {
		log.Infof("detected Lua %s from .lua-version", v)
		return v
	}
	if v, ok := versionFromConfigLua(filepath.Join(dir, "config.lua")); ok {
		log.Infof("detected Lua %s from config.lua", v)
		return v
	}
	if v, ok := versionFromLuacheckrc(filepath.Join(dir, ".luacheckrc")); ok {
		log.Infof("detected Lua %s from .luacheckrc", v)
		return v
	}
	if v, ok := versionFromRockspecs(dir); ok {
		log.Infof("detected Lua %s from rockspec", v)
		return v
	}
	if v, ok := versionFromProjectShape(dir); ok {
		log.Infof("detected Lua %s from project structure", v)
		return v
	}
	if v, ok := versionFromSyntax(dir); ok {
		log.Infof("detected Lua %s from syntax features", v)
		return v
	}
	return fallback
}

func versionFromLuarc(dir string) (LuaVersion, bool) {
	raw, err := os.ReadFile(filepath.Join(dir, ".luarc.json"))
	if err != nil {
		return 0, false
	}
	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return 0, false
	}
	var config luarcConfig
	if err := jsonv2.Unmarshal(standardized, &config); err != nil {
		return 0, false
	}
	version := config.Runtime.Version
	if version == "" {
		version = config.RuntimeVersion
	}
	if version == "" {
		return 0, false
	}
	// Values look like "Lua 5.4", "5.4" or "LuaJIT". LuaJIT is
	// treated as 5.1 compatible.
	if strings.EqualFold(version, "LuaJIT") {
		return Lua51, true
	}
	version = strings.TrimPrefix(version, "Lua ")
	return ParseLuaVersion(version)
}

func versionFromMarkerFile(path string) (LuaVersion, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return ParseLuaVersion(string(raw))
}

func versionFromConfigLua(path string) (LuaVersion, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	content := string(raw)
	if !strings.Contains(content, "lua_version") && !strings.Contains(content, "LUA_VERSION") {
		return 0, false
	}
	return versionMentioned(content, `"`, `'`)
}

func versionFromLuacheckrc(path string) (LuaVersion, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	content := string(raw)
	if !strings.Contains(content, "std = ") {
		return 0, false
	}
	for v, name := range map[LuaVersion]string{Lua51: "lua51", Lua52: "lua52", Lua53: "lua53", Lua54: "lua54"} {
		if strings.Contains(content, `"`+name+`"`) || strings.Contains(content, `'`+name+`'`) {
			return v, true
		}
	}
	return 0, false
}

func versionFromRockspecs(dir string) (LuaVersion, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, false
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".rockspec" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		content := string(raw)
		for v, needle := range map[LuaVersion]string{
			Lua51: "lua ~> 5.1",
			Lua52: "lua ~> 5.2",
			Lua53: "lua ~> 5.3",
			Lua54: "lua ~> 5.4",
		} {
			if strings.Contains(content, needle) {
				return v, true
			}
		}
	}
	return 0, false
}

// versionFromProjectShape checks directory layouts that pin a Lua
// version: Neovim plugins run LuaJIT (5.1), WezTerm embeds 5.4,
// LOVE 11.x ships 5.3 and Luvit ships 5.2.
func versionFromProjectShape(dir string) (LuaVersion, bool) {
	if hasAny(dir, "lua") && hasAny(dir, "plugin", "doc", "after", "ftplugin", "autoload") {
		return Lua51, true
	}
	if hasAny(dir, "main.lua") && hasAny(dir, "conf.lua") {
		if raw, err := os.ReadFile(filepath.Join(dir, "conf.lua")); err == nil &&
			strings.Contains(string(raw), `t.version = "11.`) {
			return Lua53, true
		}
		return Lua51, true
	}
	if hasAny(dir, "wezterm.lua", ".wezterm.lua") {
		return Lua54, true
	}
	if hasAny(dir, "package.lua") && hasAny(dir, "deps") {
		return Lua52, true
	}
	return 0, false
}

// versionFromSyntax scans up to ten .lua files in the directory for
// version-revealing syntax.
func versionFromSyntax(dir string) (LuaVersion, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, false
	}
	var hasGoto, hasBitwise, hasIntegerDivision, hasToClose bool
	scanned := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		content := string(raw)
		scanned++
		if strings.Contains(content, "goto ") || strings.Contains(content, "::") {
			hasGoto = true
		}
		for _, op := range []string{" & ", " | ", " ~ ", " << ", " >> "} {
			if strings.Contains(content, op) {
				hasBitwise = true
			}
		}
		if strings.Contains(content, " // ") {
			hasIntegerDivision = true
		}
		if strings.Contains(content, "<close>") {
			hasToClose = true
		}
		if scanned >= 10 {
			break
		}
	}
	switch {
	case hasToClose:
		return Lua54, true
	case hasIntegerDivision:
		return Lua53, true
	case hasGoto || hasBitwise:
		return Lua52, true
	case scanned > 0:
		return Lua51, true
	}
	return 0, false
}

func versionMentioned(content string, quotes ...string) (LuaVersion, bool) {
	for v, name := range luaVersionNames {
		for _, q := range quotes {
			if strings.Contains(content, q+name+q) {
				return v, true
			}
		}
	}
	return 0, false
}
