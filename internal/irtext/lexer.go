// Package irtext implements a small textual surface syntax for
// internal/ir programs: the format internal/ir.Print emits and this
// package parses back, for fixtures and the oobcheck CLI's file input.
// Grounded on the teacher's grammar/lexer.go participle-stateful-lexer
// idiom, re-keyed to the three-address instruction vocabulary instead
// of the teacher's surface language.
package irtext

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var irLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},
		{"Percent", `%[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"At", `@[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Arrow", `->`, nil},
		{"Punctuation", `[{}()\[\]:,*=]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
