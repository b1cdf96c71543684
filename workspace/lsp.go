package workspace

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cnf/structhash"
	"github.com/dhamidi/yash/config"
	"github.com/dhamidi/yash/grammar"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "yash"

type LSPServer struct {
	workspace *Workspace
	watcher   *FileWatcher
	settings  config.Settings
	handler   protocol.Handler
	server    *server.Server
	version   string

	mu        sync.Mutex
	notify    glsp.NotifyFunc
	published map[string]string
}

func NewLSPServer(version string, settings config.Settings) *LSPServer {
	ls := &LSPServer{
		version:   version,
		settings:  settings,
		published: make(map[string]string),
	}

	ls.handler = protocol.Handler{
		Initialize:                      ls.initialize,
		Initialized:                     ls.initialized,
		Shutdown:                        ls.shutdown,
		SetTrace:                        ls.setTrace,
		WorkspaceDidChangeConfiguration: ls.workspaceDidChangeConfiguration,
		TextDocumentDidOpen:             ls.textDocumentDidOpen,
		TextDocumentDidChange:           ls.textDocumentDidChange,
		TextDocumentDidClose:            ls.textDocumentDidClose,
		TextDocumentDidSave:             ls.textDocumentDidSave,
		TextDocumentDefinition:          ls.textDocumentDefinition,
		TextDocumentReferences:          ls.textDocumentReferences,
		TextDocumentHover:               ls.textDocumentHover,
		TextDocumentDocumentSymbol:      ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

func (ls *LSPServer) RunWebSocket(address string) error {
	return ls.server.RunWebSocket(address)
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

	settings := ls.settings
	if options, ok := params.InitializationOptions.(map[string]any); ok {
		updated, err := settings.FromMap(options)
		if err != nil {
			logger().Warningf("initializationOptions: %s", err)
		} else {
			settings = updated
		}
	}

	ls.workspace = New(rootDir, settings)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.setNotify(ctx.Notify)
	ls.watcher = NewFileWatcher(ls.workspace, func(path string, removed bool) {
		if removed {
			ls.clearDiagnostics(path)
			return
		}
		ls.publishDiagnostics(path)
	})
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) workspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	options, ok := params.Settings.(map[string]any)
	if !ok {
		return nil
	}
	if nested, ok := options[lsName].(map[string]any); ok {
		options = nested
	}
	settings, err := ls.workspace.Settings().FromMap(options)
	if err != nil {
		logger().Warningf("configuration: %s", err)
		return nil
	}
	ls.setNotify(ctx.Notify)
	ls.workspace.SetSettings(settings)
	for _, path := range ls.workspace.Paths() {
		ls.publishDiagnostics(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.setNotify(ctx.Notify)
	return ls.update(params.TextDocument.URI, []byte(params.TextDocument.Text))
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	ls.setNotify(ctx.Notify)
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			return ls.update(params.TextDocument.URI, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	ls.setNotify(ctx.Notify)
	if params.Text != nil {
		return ls.update(params.TextDocument.URI, []byte(*params.Text))
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.workspace.ScanFile(path); err != nil {
		logger().Warningf("%s", err)
		return nil
	}
	ls.publishDiagnostics(path)
	return nil
}

func (ls *LSPServer) update(uri protocol.DocumentUri, content []byte) error {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	if err := ls.workspace.UpdateFile(path, content); err != nil {
		logger().Debugf("%s", err)
		return nil
	}
	ls.publishDiagnostics(path)
	return nil
}

// fileAt resolves a request position to a parsed file and a byte offset.
func (ls *LSPServer) fileAt(params protocol.TextDocumentPositionParams) (*File, string, int, bool) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, "", 0, false
	}
	file := ls.workspace.GetFile(path)
	if file == nil {
		return nil, "", 0, false
	}
	offset := file.Lines.OffsetUTF16(int(params.Position.Line), int(params.Position.Character))
	return file, params.TextDocument.URI, offset, true
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	file, uri, offset, ok := ls.fileAt(params.TextDocumentPositionParams)
	if !ok {
		return nil, nil
	}
	r, ok := file.Definition(offset).First()
	if !ok {
		return nil, nil
	}
	return protocol.Location{URI: uri, Range: toProtocolRange(file.Lines, r)}, nil
}

func (ls *LSPServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	file, uri, offset, ok := ls.fileAt(params.TextDocumentPositionParams)
	if !ok {
		return nil, nil
	}
	var locations []protocol.Location
	for _, r := range file.References(offset, params.Context.IncludeDeclaration).All() {
		locations = append(locations, protocol.Location{URI: uri, Range: toProtocolRange(file.Lines, r)})
	}
	return locations, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	file, _, offset, ok := ls.fileAt(params.TextDocumentPositionParams)
	if !ok {
		return nil, nil
	}
	text, r, ok := file.Hover(offset)
	if !ok {
		return nil, nil
	}
	hoverRange := toProtocolRange(file.Lines, r)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &hoverRange,
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.workspace.GetFile(path)
	if file == nil {
		return nil, nil
	}
	var symbols []protocol.DocumentSymbol
	for _, entry := range file.Outline() {
		r := toProtocolRange(file.Lines, entry.Range)
		symbol := protocol.DocumentSymbol{
			Name:           entry.Name,
			Kind:           toSymbolKind(entry.Kind),
			Range:          r,
			SelectionRange: r,
		}
		if entry.Detail != "" {
			detail := entry.Detail
			symbol.Detail = &detail
		}
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}

func (ls *LSPServer) setNotify(notify glsp.NotifyFunc) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.notify = notify
}

// publishDiagnostics sends the problems of path unless the client already
// has exactly these diagnostics, line and column positions included.
func (ls *LSPServer) publishDiagnostics(path string) {
	file := ls.workspace.GetFile(path)
	if file == nil {
		return
	}
	uri := pathToURI(path)
	problems := file.Problems()
	diagnostics := make([]protocol.Diagnostic, 0, len(problems))
	for _, p := range problems {
		diagnostics = append(diagnostics, toDiagnostic(file.Lines, uri, p))
	}
	hash, _ := structhash.Hash(diagnostics, 1)

	ls.mu.Lock()
	notify := ls.notify
	if notify == nil || ls.published[path] == hash {
		ls.mu.Unlock()
		return
	}
	ls.published[path] = hash
	ls.mu.Unlock()

	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) clearDiagnostics(path string) {
	ls.mu.Lock()
	notify := ls.notify
	delete(ls.published, path)
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: []protocol.Diagnostic{},
	})
}

func toDiagnostic(lines *grammar.LineIndex, uri string, p grammar.Problem) protocol.Diagnostic {
	severity := toSeverity(p.Severity)
	source := lsName
	d := protocol.Diagnostic{
		Range:    toProtocolRange(lines, p.Range()),
		Severity: &severity,
		Source:   &source,
		Message:  p.Message,
	}
	if p.Related != nil {
		d.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
			Location: protocol.Location{
				URI:   uri,
				Range: toProtocolRange(lines, grammar.Range{Start: p.Related.Offset, End: p.Related.End}),
			},
			Message: p.Related.Message,
		}}
	}
	return d
}

func toSeverity(s grammar.Severity) protocol.DiagnosticSeverity {
	switch s {
	case grammar.SeverityError:
		return protocol.DiagnosticSeverityError
	case grammar.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func toSymbolKind(kind string) protocol.SymbolKind {
	switch kind {
	case "token":
		return protocol.SymbolKindConstant
	case "nonterminal":
		return protocol.SymbolKindFunction
	case "type":
		return protocol.SymbolKindField
	case "state":
		return protocol.SymbolKindEnumMember
	default:
		return protocol.SymbolKindVariable
	}
}

func toProtocolRange(lines *grammar.LineIndex, r grammar.Range) protocol.Range {
	startLine, startCol := lines.UTF16Position(r.Start)
	endLine, endCol := lines.UTF16Position(r.End)
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startCol)},
		End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endCol)},
	}
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

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
