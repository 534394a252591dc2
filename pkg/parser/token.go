package parser

import "fmt"

// Tokens are runes: single character tokens are themselves, everything
// else is negative.
const (
	EOF rune = -(iota + 1)
	EndOfStatement
	Error
	Identifier
	Reserved
	String
	Integer
	Float

	LParen = '('
	RParen = ')'
	Comma  = ','
	Dot    = '.'
	Equal  = '='
	Minus  = '-'
)

func formatToken(t rune) string {
	switch t {
	case EOF:
		return "EOF"
	case EndOfStatement:
		return "EndOfStatement"
	case Error:
		return "Error"
	case Identifier:
		return "Identifier"
	case Reserved:
		return "Reserved"
	case String:
		return "String"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	}
	return fmt.Sprintf("%q", string(t))
}

// Reserved words the grammar branches on; anything else scans as a plain
// identifier, so column and type names may reuse SQL keywords.
var keywords = map[string]bool{
	"action":     true,
	"add":        true,
	"alter":      true,
	"asc":        true,
	"cascade":    true,
	"check":      true,
	"constraint": true,
	"create":     true,
	"default":    true,
	"delete":     true,
	"desc":       true,
	"drop":       true,
	"exists":     true,
	"foreign":    true,
	"if":         true,
	"key":        true,
	"no":         true,
	"not":        true,
	"null":       true,
	"on":         true,
	"primary":    true,
	"references": true,
	"restrict":   true,
	"set":        true,
	"table":      true,
	"unique":     true,
	"update":     true,
}
