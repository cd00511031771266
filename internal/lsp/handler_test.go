package lsp

import (
	"testing"

	"oobcheck/internal/irtext"
)

func TestAnalyzeFlagsOutOfBounds(t *testing.T) {
	src := `
func f() -> i32 {
entry:
  %p = alloca [10 x i32]
  %g = gep %p, 15
  %v = load %g
  ret %v
}
`
	prog, err := irtext.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	diags := analyze(prog)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
}

func TestAnalyzeCleanProgramHasNoDiagnostics(t *testing.T) {
	src := `
func f() -> i32 {
entry:
  %p = alloca [10 x i32]
  %g = gep %p, 3
  %v = load %g
  ret %v
}
`
	prog, err := irtext.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	diags := analyze(prog)
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(diags))
	}
}
