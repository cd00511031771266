// Package report formats boundscheck and divzero findings into
// diagnostics, colorized the way the teacher's internal/errors package
// formats compiler diagnostics (github.com/fatih/color severity
// colors), adapted here to a flat per-instruction message instead of a
// source-line excerpt, since the engine's IR carries no source
// positions (spec.md §1's scope is the IR, not its surface syntax).
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"oobcheck/internal/boundscheck"
	"oobcheck/internal/divzero"
	"oobcheck/internal/ir"
)

// Severity mirrors the teacher's ErrorLevel, trimmed to two levels.
// FromBoundsCheck and FromDivZero report SeverityWarning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind identifies which check produced a Diagnostic.
type Kind string

const (
	KindOutOfBounds Kind = "out-of-bounds"
	KindDivideByZero Kind = "divide-by-zero"
)

// Diagnostic is one reported finding, function-scoped since the engine
// analyzes one function at a time (spec.md §1, §5).
type Diagnostic struct {
	Function string
	Kind     Kind
	Severity Severity
	Message  string
	Instr    ir.Instruction
}

// FromBoundsCheck converts boundscheck.Finding values from fn into
// Diagnostics, using spec.md's literal message format.
func FromBoundsCheck(fn *ir.Function, findings []boundscheck.Finding) []Diagnostic {
	out := make([]Diagnostic, len(findings))
	for i, f := range findings {
		out[i] = Diagnostic{
			Function: fn.Name,
			Kind:     KindOutOfBounds,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Potential array out of bounds error: %s", f.Instruction.String()),
			Instr:    f.Instruction,
		}
	}
	return out
}

// FromDivZero converts divzero.Finding values from fn into Diagnostics.
func FromDivZero(fn *ir.Function, findings []divzero.Finding) []Diagnostic {
	out := make([]Diagnostic, len(findings))
	for i, f := range findings {
		out[i] = Diagnostic{
			Function: fn.Name,
			Kind:     KindDivideByZero,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Potential divide by zero error: %s", f.Instruction.String()),
			Instr:    f.Instruction,
		}
	}
	return out
}

// byInstructionID sorts Diagnostics into a stable, instruction-ordered
// sequence so repeated runs print identically.
type byInstructionID []Diagnostic

func (d byInstructionID) Len() int      { return len(d) }
func (d byInstructionID) Swap(i, j int) { d[i], d[j] = d[j], d[i] }
func (d byInstructionID) Less(i, j int) bool {
	return d[i].Instr.ID() < d[j].Instr.ID()
}

// Sort orders diags by instruction ID in place and returns it.
func Sort(diags []Diagnostic) []Diagnostic {
	sort.Stable(byInstructionID(diags))
	return diags
}

// Printer renders Diagnostics to colorized text, the way
// internal/errors.ErrorReporter renders CompilerErrors.
type Printer struct {
	NoColor bool
}

// NewPrinter returns a Printer. Colors follow color.NoColor when
// noColor is false; the CLI passes color.NoColor itself.
func NewPrinter(noColor bool) *Printer {
	return &Printer{NoColor: noColor}
}

// Format renders a single Diagnostic as one line, e.g.:
//
//	warning: Potential array out of bounds error: %g = gep %p, %i [in f]
func (p *Printer) Format(d Diagnostic) string {
	levelColor := color.New(color.FgRed, color.Bold)
	if d.Severity == SeverityWarning {
		levelColor = color.New(color.FgYellow, color.Bold)
	}
	if p.NoColor {
		levelColor.DisableColor()
	}
	dim := color.New(color.Faint)
	if p.NoColor {
		dim.DisableColor()
	}
	return fmt.Sprintf("%s %s %s", levelColor.Sprint(string(d.Severity)+":"), d.Message, dim.Sprintf("[in %s]", d.Function))
}

// FormatAll renders every Diagnostic, one per line, followed by a
// summary count.
func (p *Printer) FormatAll(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range Sort(diags) {
		b.WriteString(p.Format(d))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d diagnostic(s)\n", len(diags))
	return b.String()
}
