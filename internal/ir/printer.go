package ir

import (
	"fmt"
	"strings"
)

// Print renders p in the textual form internal/irtext parses back,
// mirroring the teacher's internal/ir/printer.go convention of a plain
// fmt.Stringer-driven dump with no external templating dependency.
func Print(p *Program) string {
	var b strings.Builder
	for _, fn := range p.Functions {
		printFunction(&b, fn)
	}
	return b.String()
}

func printFunction(b *strings.Builder, fn *Function) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%%%s: %s", p.Ident, p.Ty)
	}
	fmt.Fprintf(b, "func %s(%s) -> %s {\n", fn.Name, strings.Join(params, ", "), fn.RetType)
	for _, blk := range fn.Blocks {
		fmt.Fprintf(b, "%s:\n", blk.Label)
		for _, in := range blk.Instructions {
			fmt.Fprintf(b, "  %s\n", in.String())
		}
		if blk.Terminator != nil {
			fmt.Fprintf(b, "  %s\n", blk.Terminator.String())
		}
	}
	b.WriteString("}\n")
}
