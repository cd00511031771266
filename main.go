// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"oobcheck/internal/ir"
	"oobcheck/internal/irtext"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: oobcheck <file.ir>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read file: %s", err)
		os.Exit(1)
	}

	prog, err := irtext.Parse(string(source))
	if err != nil {
		reportParseError(string(source), err)
		os.Exit(1)
	}

	fmt.Println("Parsed program:")
	fmt.Print(ir.Print(prog))

	color.Green("✅ Successfully parsed %s", path)
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
	fmt.Printf("→ %s\n", pe.Message())
}
