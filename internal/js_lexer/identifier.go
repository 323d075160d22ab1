package js_lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"
)

// Identifier characters follow the Unicode ID_Start and ID_Continue
// properties: letters, letter numbers and the "Other_ID_*" stability sets,
// plus marks, digits and connectors after the first character, minus
// anything that counts as pattern syntax or whitespace.

var idStart = rangetable.Merge(
	unicode.L,
	unicode.Nl,
	unicode.Other_ID_Start,
)

var idContinue = rangetable.Merge(
	idStart,
	unicode.Mn,
	unicode.Mc,
	unicode.Nd,
	unicode.Pc,
	unicode.Other_ID_Continue,
)

var patternChars = rangetable.Merge(
	unicode.Pattern_Syntax,
	unicode.Pattern_White_Space,
)

func isASCIILetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func IsIdentifierStart(c rune) bool {
	if c < utf8.RuneSelf {
		return isASCIILetter(c) || c == '_' || c == '$'
	}
	return unicode.Is(idStart, c) && !unicode.Is(patternChars, c)
}

func IsIdentifierContinue(c rune) bool {
	if c < utf8.RuneSelf {
		return isASCIILetter(c) || isDigit(c) || c == '_' || c == '$'
	}

	// ZWNJ and ZWJ
	if c == 0x200C || c == 0x200D {
		return true
	}
	return unicode.Is(idContinue, c) && !unicode.Is(patternChars, c)
}

// IsIdentifier reports whether "text" can be written as a bare identifier,
// which decides between "a.b" and "a['b']" and between "{b: 1}" and
// "{'b': 1}"
func IsIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for i, c := range text {
		if i == 0 && !IsIdentifierStart(c) {
			return false
		}
		if i > 0 && !IsIdentifierContinue(c) {
			return false
		}
	}
	return true
}

func isLineTerminator(c rune) bool {
	return c == '\n' || c == '\r' || c == '\u2028' || c == '\u2029'
}

// Whitespace other than line terminators: the ASCII blanks, NBSP, the BOM
// and everything in the Unicode "Space_Separator" category
func isBlank(c rune) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\u00A0', '\uFEFF':
		return true
	}
	return c > 0x7F && unicode.Is(unicode.Zs, c)
}

// Words that can never name a binding. Contextual keywords such as "let",
// "async", "of", "get" and "static" are ordinary identifiers to the lexer
// and are recognized by the parser where they matter.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
}

func IsReservedWord(text string) bool {
	return reservedWords[text]
}
