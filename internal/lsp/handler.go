// SPDX-License-Identifier: Apache-2.0

// Package lsp wires the engine into a Language Server Protocol handler:
// on every open/change notification it reparses the document through
// internal/irtext, runs the solver plus both checks, and publishes the
// findings as diagnostics. Grounded on the teacher's internal/lsp
// handler.go (same glsp.Context/protocol.Handler wiring), re-targeted
// from the Kanso AST to internal/ir.Program.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"oobcheck/internal/alias"
	"oobcheck/internal/boundscheck"
	"oobcheck/internal/divzero"
	"oobcheck/internal/ir"
	"oobcheck/internal/irtext"
	"oobcheck/internal/report"
	"oobcheck/internal/solver"
)

// Handler implements the LSP server handlers for the oobcheck engine.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	progs   map[string]*ir.Program
}

// NewHandler creates and returns a new Handler instance.
func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		progs:   make(map[string]*ir.Program),
	}
}

// Initialize responds to the LSP client's initialize request and
// advertises the server's capabilities.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's
// capabilities and completes initialization.
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("oobcheck LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("oobcheck LSP Shutdown")
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)
	return h.analyzeAndPublish(ctx, params.TextDocument.URI)
}

// TextDocumentDidClose handles file close notifications from the editor.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.progs, path)
	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)
	return h.analyzeAndPublish(ctx, params.TextDocument.URI)
}

// TextDocumentCompletion handles completion requests; the textual IR
// grammar has no useful completions to offer yet.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	return &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}, nil
}

func (h *Handler) analyzeAndPublish(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	prog, err := irtext.Parse(string(source))
	if err != nil {
		sendDiagnostics(ctx, uri, parseErrorDiagnostic(err))
		return nil
	}

	h.mu.Lock()
	h.content[path] = string(source)
	h.progs[path] = prog
	h.mu.Unlock()

	sendDiagnostics(ctx, uri, analyze(prog))
	return nil
}

// analyze runs the full engine over every function in prog and converts
// the combined findings into LSP diagnostics.
func analyze(prog *ir.Program) []protocol.Diagnostic {
	oracle := alias.Conservative{}
	var diags []report.Diagnostic
	for _, fn := range prog.Functions {
		res := solver.Solve(fn, oracle)
		diags = append(diags, report.FromBoundsCheck(fn, boundscheck.Check(fn, res, oracle))...)
		diags = append(diags, report.FromDivZero(fn, divzero.Check(fn, res, oracle))...)
	}
	return toProtocolDiagnostics(report.Sort(diags))
}

func toProtocolDiagnostics(diags []report.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = protocol.Diagnostic{
			Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("oobcheck"),
			Message:  d.Message,
		}
	}
	return out
}

func parseErrorDiagnostic(err error) []protocol.Diagnostic {
	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("oobcheck-parser"),
		Message:  err.Error(),
	}}
}

// uriToPath converts an LSP document URI to a platform-local file path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
