package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/luadoc/lua/annotate"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "luadoc"

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
		TextDocumentHover:      ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"@"},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.codebase.ScanAll()
	ls.watcher = NewFileWatcher(ls.codebase)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri, path string) {
	file := ls.codebase.GetFile(path)
	if file == nil {
		return
	}

	severity := protocol.DiagnosticSeverityWarning
	source := lsName
	diagnostics := make([]protocol.Diagnostic, 0, len(file.Diagnostics))
	for _, d := range file.Diagnostics {
		line := uint32(0)
		if d.Span.Line > 0 {
			line = uint32(d.Span.Line - 1)
		}
		col := uint32(0)
		if d.Span.Column > 0 {
			col = uint32(d.Span.Column - 1)
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + uint32(d.Span.End-d.Span.Start)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  d.Reason,
		})
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// annotationKeywords are the recognized ---@ keywords offered as
// completions after the trigger character.
var annotationKeywords = []struct {
	label  string
	detail string
	insert string
}{
	{"module", "Declare the module name", "module '${1:name}'"},
	{"function", "Document a function", "function ${1:name}"},
	{"param", "Document a parameter", "param ${1:name} ${2:type}"},
	{"return", "Document a return value", "return ${1:type}"},
	{"field", "Document a table field", "field ${1:name} ${2:type}"},
	{"class", "Declare a class", "class ${1:Name}"},
	{"alias", "Declare a type alias", "alias ${1:Name}"},
	{"enum", "Declare an enum", "enum ${1:Name}"},
	{"type", "Annotate a variable's type", "type ${1:type}"},
	{"generic", "Declare a generic type parameter", "generic ${1:T}"},
	{"overload", "Declare an alternative signature", "overload fun(${1:params}): ${2:type}"},
	{"deprecated", "Mark as deprecated", "deprecated"},
	{"async", "Mark as asynchronous", "async"},
	{"nodiscard", "Require the return value to be used", "nodiscard"},
	{"see", "Reference related code", "see ${1:name}"},
	{"version", "Restrict to Lua versions", "version ${1:5.4}"},
	{"diagnostic", "Control diagnostics", "diagnostic ${1:disable-next-line}"},
	{"cast", "Narrow a variable's type", "cast ${1:name} ${2:type}"},
	{"vararg", "Document variadic arguments", "vararg ${1:type}"},
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	col := int(params.Position.Character)
	if !atAnnotationTrigger(file.Content, line, col) {
		return nil, nil
	}

	kind := protocol.CompletionItemKindKeyword
	format := protocol.InsertTextFormatSnippet
	var items []protocol.CompletionItem
	for _, kw := range annotationKeywords {
		detail := kw.detail
		insert := kw.insert
		items = append(items, protocol.CompletionItem{
			Label:            kw.label,
			Kind:             &kind,
			Detail:           &detail,
			InsertText:       &insert,
			InsertTextFormat: &format,
		})
	}
	return items, nil
}

// atAnnotationTrigger reports whether the cursor sits right after the
// "@" of a "---@" prefix.
func atAnnotationTrigger(content []byte, line, col int) bool {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return false
	}
	lineContent := lines[line-1]
	if col > len(lineContent) {
		col = len(lineContent)
	}
	head := strings.TrimLeft(lineContent[:col], " \t")
	return strings.HasPrefix(head, "---@")
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line := int(params.Position.Line) + 1
	fn := ls.codebase.FunctionAt(path, line)
	if fn == nil {
		return nil, nil
	}

	rendered := annotate.NewAnnotator(true).RenderNode(fn)
	if rendered == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```lua\n" + rendered + "\n```",
		},
	}, nil
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
