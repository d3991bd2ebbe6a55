// Package project holds the cross-file state of an annotation run:
// which modules exist, what they export, which custom types have been
// declared, and which Lua version and frameworks the project targets.
package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/luadoc/lua/parser"
)

var log = commonlog.GetLogger("luadoc.project")

// DependencyInfo is one require() edge out of a module.
type DependencyInfo struct {
	// RequiredPath is the module path as written in the require call.
	RequiredPath string
	// LocalAlias is the local variable the module was bound to, if
	// any.
	LocalAlias string
	// ResolvedPath is the absolute path of the dependency once
	// resolved.
	ResolvedPath string
}

// ModuleInfo describes one Lua module of the project.
type ModuleInfo struct {
	Exports      map[string]parser.ExportItem
	Dependencies []DependencyInfo
	SourcePath   string
	IsMain       bool
	Processed    bool
}

// CustomType is a project-declared type, built from class, alias and
// enum annotations found in type definition files.
type CustomType struct {
	Name        string
	Fields      []FieldInfo
	Methods     map[string]FunctionSignature
	Description string
	IsAlias     bool
	Variants    []string
}

// FieldInfo is one declared field of a custom type.
type FieldInfo struct {
	Name        string
	Type        parser.TypeInfo
	Description string
	Optional    bool
}

// FunctionSignature is a declared function's full shape, richer than
// the inferred parser.Signature because it keeps descriptions.
type FunctionSignature struct {
	Name        string
	Parameters  []ParameterInfo
	ReturnTypes []parser.TypeInfo
	Description string
	IsMethod    bool
}

// ParameterInfo is one declared parameter of a function signature.
type ParameterInfo struct {
	Name        string
	Type        parser.TypeInfo
	Description string
	Optional    bool
}

// Context is the project type catalog. It satisfies
// analysis.Catalog. It performs no locking: one analyzer writes to
// one Context at a time, and multi-file runs are serialized by the
// caller.
type Context struct {
	Modules         map[string]*ModuleInfo
	StandardTypes   map[string]parser.TypeInfo
	CustomTypes     map[string]*CustomType
	Signatures      map[string]FunctionSignature
	ProjectRoot     string
	LuaFiles        []string
	DependencyGraph map[string]map[string]bool
	LuaVersion      LuaVersion

	frameworks        *FrameworkRegistry
	detected          []DetectedFramework
	typeFileProcessed bool
}

// NewContext builds a catalog targeting the newest supported Lua
// version.
func NewContext() *Context {
	return NewContextWithVersion(Lua54)
}

func NewContextWithVersion(version LuaVersion) *Context {
	ctx := &Context{
		Modules:         map[string]*ModuleInfo{},
		StandardTypes:   map[string]parser.TypeInfo{},
		CustomTypes:     map[string]*CustomType{},
		Signatures:      map[string]FunctionSignature{},
		DependencyGraph: map[string]map[string]bool{},
		LuaVersion:      version,
		frameworks:      NewFrameworkRegistry(),
	}
	ctx.loadStandardTypes()
	ctx.loadStandardLibrary()
	return ctx
}

func (c *Context) loadStandardTypes() {
	c.StandardTypes["string"] = parser.StringType()
	c.StandardTypes["number"] = parser.NumberType()
	c.StandardTypes["boolean"] = parser.BooleanType()
	c.StandardTypes["table"] = parser.TableType()
	c.StandardTypes["function"] = parser.FunctionType()
	c.StandardTypes["nil"] = parser.Unknown()
	c.StandardTypes["any"] = parser.Unknown()
	if c.LuaVersion == Lua53 || c.LuaVersion == Lua54 {
		c.StandardTypes["integer"] = parser.NumberType()
	}
}

// SetLuaVersion switches the target version and reloads the standard
// library modules to match.
func (c *Context) SetLuaVersion(version LuaVersion) {
	if c.LuaVersion == version {
		return
	}
	c.LuaVersion = version
	for name := range c.Modules {
		if isStandardModule(name) {
			delete(c.Modules, name)
		}
	}
	c.loadStandardTypes()
	c.loadStandardLibrary()
}

// AddExport records one export of a module, creating the module entry
// on first use.
func (c *Context) AddExport(moduleName string, export parser.ExportItem) {
	module, ok := c.Modules[moduleName]
	if !ok {
		module = &ModuleInfo{Exports: map[string]parser.ExportItem{}}
		c.Modules[moduleName] = module
	}
	module.Exports[export.Name] = export
}

// ResolveType resolves a type name against custom types first, then
// the standard types. Custom types currently surface as plain tables.
func (c *Context) ResolveType(name string) (parser.TypeInfo, bool) {
	if _, ok := c.CustomTypes[name]; ok {
		return parser.TableType(), true
	}
	if t, ok := c.StandardTypes[name]; ok {
		return t, true
	}
	return parser.Unknown(), false
}

// AddModule registers or replaces a module entry wholesale.
func (c *Context) AddModule(name string, info *ModuleInfo) {
	c.Modules[name] = info
}

// AddCustomType registers a project-declared type.
func (c *Context) AddCustomType(t *CustomType) {
	c.CustomTypes[t.Name] = t
}

// DetectProjectRoot walks up from the starting path looking for
// common project markers and fixes the root, then runs Lua version
// and framework detection there.
func (c *Context) DetectProjectRoot(startingPath string) string {
	dir := startingPath
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for current := dir; ; {
		if hasAny(current, "init.lua", "main.lua", ".git", "lua") {
			c.ProjectRoot = current
			c.LuaVersion = DetectLuaVersion(current, c.LuaVersion)
			c.detected = c.frameworks.Detect(current)
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	c.ProjectRoot = startingPath
	c.LuaVersion = DetectLuaVersion(startingPath, c.LuaVersion)
	c.detected = c.frameworks.Detect(startingPath)
	return startingPath
}

func hasAny(dir string, names ...string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether a directory name is excluded from
// project scans: hidden directories and common build output.
func IgnoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "target"
}

// ScanLuaFiles walks the project root collecting every .lua file,
// skipping hidden directories and common build output.
func (c *Context) ScanLuaFiles() error {
	if c.ProjectRoot == "" {
		return errProjectRootUnset
	}
	c.LuaFiles = c.LuaFiles[:0]
	return filepath.WalkDir(c.ProjectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != c.ProjectRoot && IgnoredDir(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) == ".lua" {
			c.LuaFiles = append(c.LuaFiles, path)
			if name == "type.lua" {
				log.Infof("found type definition file: %s", path)
			}
		}
		return nil
	})
}

// ProcessTypeFiles parses type.lua in the project root and every .lua
// file under types/, registering the declared classes, aliases and
// enums. It runs at most once per context.
func (c *Context) ProcessTypeFiles() (bool, error) {
	if c.typeFileProcessed {
		return true, nil
	}
	if c.ProjectRoot == "" {
		return false, errProjectRootUnset
	}
	processed := false
	typeFile := filepath.Join(c.ProjectRoot, "type.lua")
	if _, err := os.Stat(typeFile); err == nil {
		if err := c.processTypeFile(typeFile); err != nil {
			return false, err
		}
		processed = true
	}
	typesDir := filepath.Join(c.ProjectRoot, "types")
	entries, err := os.ReadDir(typesDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
				continue
			}
			path := filepath.Join(typesDir, entry.Name())
			log.Infof("processing additional type file: %s", path)
			if err := c.processTypeFile(path); err != nil {
				return false, err
			}
			processed = true
		}
	}
	c.typeFileProcessed = true
	return processed, nil
}

func (c *Context) processTypeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.RegisterAnnotations(parseAnnotationFile(string(content)))
	return nil
}

func parseAnnotationFile(source string) []parser.AnnotationNode {
	tokens := parser.NewCodeTokenizer(source).Tokenize()
	return parser.NewAnnotationParser(tokens).Parse()
}

// RegisterAnnotations folds a file's annotation tree into the
// catalog: classes become custom types with their trailing field
// annotations, aliases and enums become variant types.
func (c *Context) RegisterAnnotations(nodes []parser.AnnotationNode) {
	var current *CustomType
	for _, node := range nodes {
		switch n := node.(type) {
		case *parser.Class:
			current = &CustomType{
				Name:    n.Name,
				Methods: map[string]FunctionSignature{},
			}
			for _, field := range n.Fields {
				current.Fields = append(current.Fields, FieldInfo{
					Name: field.Name,
					Type: c.typeFromName(field.Type),
				})
			}
			c.AddCustomType(current)
		case *parser.Field:
			if current == nil {
				continue
			}
			current.Fields = append(current.Fields, FieldInfo{
				Name:        n.Name,
				Type:        c.typeFromName(n.Type),
				Description: n.Description,
				Optional:    strings.HasSuffix(n.Type, "?"),
			})
		case *parser.Alias:
			t := &CustomType{Name: n.Name, IsAlias: true, Methods: map[string]FunctionSignature{}}
			for _, variant := range n.Variants {
				t.Variants = append(t.Variants, strings.Trim(variant.Value, `'"`))
			}
			c.AddCustomType(t)
			current = nil
		case *parser.Enum:
			t := &CustomType{Name: n.Name, IsAlias: true, Methods: map[string]FunctionSignature{}}
			for _, variant := range n.Variants {
				t.Variants = append(t.Variants, strings.Trim(variant.Value, `'"`))
			}
			c.AddCustomType(t)
			current = nil
		}
	}
}

func (c *Context) typeFromName(name string) parser.TypeInfo {
	name = strings.TrimSuffix(name, "?")
	if t, ok := c.ResolveType(name); ok {
		return t
	}
	return parser.Unknown()
}

// AddDependency records a require() edge for a module.
func (c *Context) AddDependency(moduleName string, dep DependencyInfo) {
	module, ok := c.Modules[moduleName]
	if !ok {
		module = &ModuleInfo{Exports: map[string]parser.ExportItem{}}
		c.Modules[moduleName] = module
	}
	module.Dependencies = append(module.Dependencies, dep)
}

// CollectDependencies walks a file's top-level nodes for require()
// calls and records them as dependency edges of the given module. A
// `local name = require("path")` binding keeps the alias.
func (c *Context) CollectDependencies(moduleName string, nodes []parser.Node) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *parser.VariableDeclaration:
			if path, ok := requirePath(n.Value); ok {
				c.AddDependency(moduleName, DependencyInfo{
					RequiredPath: path,
					LocalAlias:   n.Name,
				})
			}
		case *parser.FunctionCallStmt:
			if path, ok := requirePath(&n.Call); ok {
				c.AddDependency(moduleName, DependencyInfo{RequiredPath: path})
			}
		}
	}
}

func requirePath(expr *parser.Expression) (string, bool) {
	if expr == nil || expr.Kind != parser.ExprFunctionCall || expr.Name != "require" {
		return "", false
	}
	if len(expr.Args) != 1 || expr.Args[0].Kind != parser.ExprLiteral {
		return "", false
	}
	return expr.Args[0].Literal, true
}

// BuildDependencyGraph recomputes the reverse dependency map
// (required path to the set of modules requiring it).
func (c *Context) BuildDependencyGraph() {
	c.DependencyGraph = map[string]map[string]bool{}
	for moduleName, module := range c.Modules {
		for _, dep := range module.Dependencies {
			dependents, ok := c.DependencyGraph[dep.RequiredPath]
			if !ok {
				dependents = map[string]bool{}
				c.DependencyGraph[dep.RequiredPath] = dependents
			}
			dependents[moduleName] = true
		}
	}
}

// DetectedFrameworks lists the frameworks found during root
// detection.
func (c *Context) DetectedFrameworks() []DetectedFramework {
	return c.detected
}

// CustomTypesCount reports how many project types have been declared.
func (c *Context) CustomTypesCount() int {
	return len(c.CustomTypes)
}
