package lsp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.iok.sh/pkg/diag"
	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/parse"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	mu      sync.Mutex
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{content: make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,
		"shutdown":                noop,
		"exit":                    exit,

		// Notification sent once the initialize handshake is done.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func exit(_ context.Context, conn jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, conn.Close()
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		logger.Println("request", req.Method)
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
			HoverProvider:      true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return lsp.Hover{}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.getContent(params.TextDocument.URI)
	dot := lspPositionToIdx(content, params.Position)
	start := dot
	for start > 0 && isIdentByte(content[start-1]) {
		start--
	}
	prefix := content[start:dot]
	replace := lspRangeFromRange(content, diag.Ranging{From: start, To: dot})

	items := []lsp.CompletionItem{}
	add := func(names []string, kind lsp.CompletionItemKind) {
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				items = append(items, lsp.CompletionItem{
					Label:    name,
					Kind:     kind,
					TextEdit: &lsp.TextEdit{Range: replace, NewText: name},
				})
			}
		}
	}
	keywords := parse.Keywords()
	sort.Strings(keywords)
	add(keywords, lsp.CIKKeyword)
	add(eval.BuiltinNames(), lsp.CIKFunction)
	for _, d := range topLevelDecls(content) {
		add([]string{d.name}, d.kind)
	}
	return items, nil
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[uri] = content
}

func (s *server) getContent(uri lsp.DocumentURI) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content[uri]
}

type decl struct {
	name string
	kind lsp.CompletionItemKind
}

var declKinds = map[string]lsp.CompletionItemKind{
	"let": lsp.CIKVariable, "fn": lsp.CIKFunction, "struct": lsp.CIKStruct,
}

// Finds the names declared at the top level, in order and without
// duplicates. It scans tokens instead of parsing, so that the names before
// a syntax error are still found.
func topLevelDecls(content string) []decl {
	var decls []decl
	seen := map[string]bool{}
	l := parse.NewLexer(parse.Source{Code: content})
	depth := 0
	declKeyword := ""
	for {
		t, err := l.Next()
		if err != nil || t.Kind == parse.EOF {
			return decls
		}
		if kind, ok := declKinds[declKeyword]; ok && depth == 0 && t.Kind == parse.IdentToken && !seen[t.Val] {
			seen[t.Val] = true
			decls = append(decls, decl{t.Val, kind})
		}
		declKeyword = ""
		switch {
		case t.IsPunct("{"), t.IsPunct("("), t.IsPunct("["):
			depth++
		case t.IsPunct("}"), t.IsPunct(")"), t.IsPunct("]"):
			if depth > 0 {
				depth--
			}
		case t.Kind == parse.Keyword:
			declKeyword = t.Val
		}
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content)})
}

func diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	_, err := parse.Parse(parse.Source{Name: string(uri), Code: content})
	if err == nil {
		return []lsp.Diagnostic{}
	}

	entries := parse.UnpackErrors(err)
	diags := make([]lsp.Diagnostic, len(entries))
	for i, e := range entries {
		source := "parse"
		if e.Tag == (parse.LexErrorTag{}).ErrorTag() {
			source = "lex"
		}
		diags[i] = lsp.Diagnostic{
			Range:    lspRangeFromRange(content, e.Context),
			Severity: lsp.Error,
			Source:   source,
			Message:  e.Message,
		}
	}
	return diags
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
