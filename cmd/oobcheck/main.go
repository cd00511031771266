// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"oobcheck/internal/alias"
	"oobcheck/internal/boundscheck"
	"oobcheck/internal/divzero"
	"oobcheck/internal/ir"
	"oobcheck/internal/irtext"
	"oobcheck/internal/report"
	"oobcheck/internal/solver"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: oobcheck <file.ir>")
		os.Exit(1)
	}

	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := irtext.Parse(string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	diags := runChecks(prog)
	printer := report.NewPrinter(color.NoColor)
	fmt.Print(printer.FormatAll(diags))

	if len(diags) > 0 {
		os.Exit(1)
	}
	color.Green("✅ No issues found in %s", path)
}

// runChecks solves every function's fixpoint and runs both checks
// against it, returning the combined diagnostics in a stable order.
func runChecks(prog *ir.Program) []report.Diagnostic {
	oracle := alias.Conservative{}
	var diags []report.Diagnostic
	for _, fn := range prog.Functions {
		res := solver.Solve(fn, oracle)
		diags = append(diags, report.FromBoundsCheck(fn, boundscheck.Check(fn, res, oracle))...)
		diags = append(diags, report.FromDivZero(fn, divzero.Check(fn, res, oracle))...)
	}
	return report.Sort(diags)
}

// reportParseError prints a parse error message with its line and column.
func reportParseError(src string, err error) {
	var pe participle.Error
	if !errors.As(err, &pe) {
		color.Red("Unexpected error: %s", err)
		return
	}
	pos := pe.Position()
	color.Red("❌ Syntax error at line %d, column %d: %s", pos.Line, pos.Column, pe.Message())
}
