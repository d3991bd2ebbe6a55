package codebase

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/luadoc/lua/analysis"
	"github.com/dhamidi/luadoc/lua/parser"
	"github.com/dhamidi/luadoc/lua/project"
)

var log = commonlog.GetLogger("luadoc.codebase")

// Codebase is the shared view of a Lua project: every scanned file's
// tokens, syntax nodes and annotations, plus the project context that
// accumulates exports and custom types across files.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	context *project.Context
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path        string
	Content     []byte
	Tokens      []parser.Token
	Nodes       []parser.Node
	Annotations []parser.AnnotationNode
	Diagnostics []parser.Diagnostic
}

func New(rootDir string) *Codebase {
	ctx := project.NewContext()
	ctx.DetectProjectRoot(rootDir)
	ctx.ApplyFrameworks()
	return &Codebase{
		rootDir: rootDir,
		context: ctx,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Context() *project.Context {
	return c.context
}

func (c *Codebase) ScanAll() error {
	if err := c.context.ScanLuaFiles(); err != nil {
		return err
	}
	if _, err := c.context.ProcessTypeFiles(); err != nil {
		log.Errorf("processing type files: %s", err)
	}
	for _, path := range c.context.LuaFiles {
		if err := c.ScanFile(path); err != nil {
			log.Errorf("scanning %s: %s", path, err)
		}
	}
	c.context.BuildDependencyGraph()
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateFileLocked(path, content)
}

func (c *Codebase) updateFileLocked(path string, content []byte) error {
	tokens := parser.NewCodeTokenizer(string(content)).Tokenize()

	codeParser := parser.NewCodeParser(tokens)
	nodes := codeParser.Parse()

	annParser := parser.NewAnnotationParser(tokens)
	annotations := annParser.Parse()

	diags := append(codeParser.Diagnostics(), annParser.Diagnostics()...)

	moduleName := c.moduleNameFor(path)
	c.context.RegisterAnnotations(annotations)
	c.context.CollectDependencies(moduleName, nodes)

	analysis.NewTypeAnalyzer(c.context).Analyze(nodes)

	c.files[path] = &FileInfo{
		Path:        path,
		Content:     content,
		Tokens:      tokens,
		Nodes:       nodes,
		Annotations: annotations,
		Diagnostics: diags,
	}
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// moduleNameFor maps a file path to the name require() would use for
// it: relative to the project root, extension dropped, separators
// turned into dots.
func (c *Codebase) moduleNameFor(path string) string {
	name := path
	if root := c.context.ProjectRoot; root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}
	name = strings.TrimSuffix(name, ".lua")
	name = strings.TrimSuffix(name, string(filepath.Separator)+"init")
	return strings.ReplaceAll(name, string(filepath.Separator), ".")
}

// FunctionAt returns the innermost function definition whose source
// span covers the given 1-based line, or nil.
func (c *Codebase) FunctionAt(path string, line int) *parser.FunctionDef {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f := c.files[path]
	if f == nil {
		return nil
	}
	return functionAt(f.Nodes, line)
}

func functionAt(nodes []parser.Node, line int) *parser.FunctionDef {
	var best *parser.FunctionDef
	for _, node := range nodes {
		fn, ok := node.(*parser.FunctionDef)
		if !ok {
			continue
		}
		if fn.Span.Line > line {
			continue
		}
		if inner := functionAt(fn.Body, line); inner != nil {
			best = inner
			continue
		}
		if best == nil || fn.Span.Line > best.Span.Line {
			best = fn
		}
	}
	return best
}

// NodeAt returns the top-level node whose span starts closest above
// the given line.
func (c *Codebase) NodeAt(path string, line int) parser.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f := c.files[path]
	if f == nil {
		return nil
	}
	var best parser.Node
	for _, node := range f.Nodes {
		if node.NodeSpan().Line > line {
			break
		}
		best = node
	}
	return best
}
