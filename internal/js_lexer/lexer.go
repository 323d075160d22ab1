package js_lexer

// The lexer hands the parser one token at a time instead of tokenizing the
// whole file up front. Two tokens depend on where they appear: a "/" may
// start a regular expression and a "}" may resume a template literal. Only
// the parser knows which one it is looking at, so it asks for a rescan.
//
// Punctuators and keywords are not given token kinds of their own. They are
// compared by their text, which keeps the token set small.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/unprivate/unprivate/internal/logger"
)

type T uint8

const (
	TEndOfFile T = iota
	TPunctuator
	TIdentifier // Keywords included
	TPrivateName
	TNumber
	TBigInt
	TString
	TRegExp
	TTemplate       // "`a`"
	TTemplateHead   // "`a${"
	TTemplateMiddle // "}a${"
	TTemplateTail   // "}a`"
)

// Longer punctuators come first so the first match is the longest one
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--", "**",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", ".", ":", "?", "=", "<", ">",
	"+", "-", "*", "/", "%", "&", "|", "^", "!", "~",
}

// This is thrown after a syntax error has been logged and is recovered by
// the parser's entry point
type LexerPanic struct{}

type Lexer struct {
	log    logger.Log
	source logger.Source
	pos    int

	Kind  T
	Start int
	End   int

	// The punctuator, the name of an identifier or private name with any
	// escapes decoded, or the value of a string literal
	Text string

	NewlineBefore bool

	// The identifier used a "\u" escape, so it never counts as a keyword
	Escaped bool

	// "#!/usr/bin/env node" on the first line, if present
	Hashbang string
}

func NewLexer(log logger.Log, source logger.Source) *Lexer {
	l := &Lexer{log: log, source: source}
	if strings.HasPrefix(source.Contents, "#!") {
		end := strings.IndexAny(source.Contents, "\r\n\u2028\u2029")
		if end < 0 {
			end = len(source.Contents)
		}
		l.Hashbang = source.Contents[:end]
		l.pos = end
	}
	l.Next()
	l.NewlineBefore = true
	return l
}

func (l *Lexer) Loc() logger.Loc {
	return logger.Loc{Start: int32(l.Start)}
}

func (l *Lexer) Range() logger.Range {
	return logger.Range{Loc: l.Loc(), Len: int32(l.End - l.Start)}
}

func (l *Lexer) Raw() string {
	return l.source.Contents[l.Start:l.End]
}

// Is reports whether the current token is the punctuator "text"
func (l *Lexer) Is(text string) bool {
	return l.Kind == TPunctuator && l.Text == text
}

// IsWord reports whether the current token is the keyword or contextual
// keyword "word" written without escapes
func (l *Lexer) IsWord(word string) bool {
	return l.Kind == TIdentifier && !l.Escaped && l.Text == word
}

// TemplateText returns the raw text of a template literal part without its
// delimiters
func (l *Lexer) TemplateText() string {
	raw := l.Raw()
	switch l.Kind {
	case TTemplate, TTemplateTail:
		return raw[1 : len(raw)-1]
	case TTemplateHead, TTemplateMiddle:
		return raw[1 : len(raw)-2]
	}
	panic("Internal error: not a template literal")
}

////////////////////////////////////////////////////////////////////////////////
// Errors

func (l *Lexer) failAt(r logger.Range, text string) {
	l.log.AddRangeError(&l.source, r, text)
	panic(LexerPanic{})
}

func (l *Lexer) fail(start int, end int, text string) {
	l.failAt(logger.Range{Loc: logger.Loc{Start: int32(start)}, Len: int32(end - start)}, text)
}

func (l *Lexer) found() string {
	if l.Kind == TEndOfFile {
		return "end of file"
	}
	return fmt.Sprintf("%q", l.Raw())
}

// Unexpected reports the current token as an error
func (l *Lexer) Unexpected() {
	l.failAt(l.Range(), "Unexpected "+l.found())
}

// Expected reports that "what" should have been here instead of the current
// token. Punctuators and keywords should be passed in quotes.
func (l *Lexer) Expected(what string) {
	l.failAt(l.Range(), fmt.Sprintf("Expected %s but found %s", what, l.found()))
}

// Fail reports an error over the current token
func (l *Lexer) Fail(text string) {
	l.failAt(l.Range(), text)
}

func (l *Lexer) Expect(punctuator string) {
	if !l.Is(punctuator) {
		l.Expected(fmt.Sprintf("%q", punctuator))
	}
	l.Next()
}

func (l *Lexer) ExpectWord(word string) {
	if !l.IsWord(word) {
		l.Expected(fmt.Sprintf("%q", word))
	}
	l.Next()
}

// Eat consumes the punctuator "text" if it is next
func (l *Lexer) Eat(text string) bool {
	if l.Is(text) {
		l.Next()
		return true
	}
	return false
}

// ExpectSemicolon consumes a semicolon, or accepts one inserted automatically
// before a newline, a "}" or the end of the file
func (l *Lexer) ExpectSemicolon() {
	if l.Eat(";") {
		return
	}
	if !l.NewlineBefore && !l.Is("}") && l.Kind != TEndOfFile {
		l.Expected(`";"`)
	}
}

////////////////////////////////////////////////////////////////////////////////
// Scanning

func (l *Lexer) peekRune(i int) (rune, int) {
	if i >= len(l.source.Contents) {
		return -1, 0
	}
	return utf8.DecodeRuneInString(l.source.Contents[i:])
}

func (l *Lexer) Next() {
	l.NewlineBefore = false
	l.Escaped = false
	l.Text = ""
	l.skipTrivia()
	l.Start = l.pos

	c, size := l.peekRune(l.pos)
	switch {
	case c == -1:
		l.Kind = TEndOfFile

	case c == '#':
		l.pos += size
		c, _ := l.peekRune(l.pos)
		if !IsIdentifierStart(c) && c != '\\' {
			l.fail(l.Start, l.pos, `Unexpected "#"`)
		}
		l.Kind = TPrivateName
		l.Text = "#" + l.scanIdentifierName()

	case c == '"' || c == '\'':
		l.Kind = TString
		l.Text = l.scanString(byte(c))

	case c == '`':
		l.scanTemplate(l.pos+1, TTemplate, TTemplateHead)

	case isDigit(c):
		l.scanNumber()

	case c == '.' && l.pos+1 < len(l.source.Contents) && isDigit(rune(l.source.Contents[l.pos+1])):
		l.scanNumber()

	case IsIdentifierStart(c) || c == '\\':
		l.Kind = TIdentifier
		l.Text = l.scanIdentifierName()

	default:
		l.scanPunctuator()
	}
	l.End = l.pos
}

func (l *Lexer) skipTrivia() {
	src := l.source.Contents
	for l.pos < len(src) {
		c, size := utf8.DecodeRuneInString(src[l.pos:])
		switch {
		case isLineTerminator(c):
			l.NewlineBefore = true
			l.pos += size

		case isBlank(c):
			l.pos += size

		case strings.HasPrefix(src[l.pos:], "//"):
			end := strings.IndexAny(src[l.pos:], "\r\n\u2028\u2029")
			if end < 0 {
				l.pos = len(src)
			} else {
				l.pos += end
			}

		case strings.HasPrefix(src[l.pos:], "/*"):
			end := strings.Index(src[l.pos+2:], "*/")
			if end < 0 {
				l.fail(l.pos, l.pos+2, `Expected "*/" to terminate multi-line comment`)
			}
			if strings.ContainsAny(src[l.pos:l.pos+2+end], "\r\n\u2028\u2029") {
				l.NewlineBefore = true
			}
			l.pos += end + 4

		default:
			return
		}
	}
}

func (l *Lexer) scanPunctuator() {
	rest := l.source.Contents[l.pos:]
	for _, p := range punctuators {
		if !strings.HasPrefix(rest, p) {
			continue
		}

		// "a?.5:b" is a conditional, not an optional chain
		if p == "?." && len(rest) > 2 && isDigit(rune(rest[2])) {
			continue
		}

		l.Kind = TPunctuator
		l.Text = p
		l.pos += len(p)
		return
	}

	c, size := utf8.DecodeRuneInString(rest)
	l.fail(l.pos, l.pos+size, fmt.Sprintf("Unexpected %q", string(c)))
}

// Scans an identifier starting at the current position and returns its name
// with escapes decoded
func (l *Lexer) scanIdentifierName() string {
	src := l.source.Contents
	start := l.pos
	var decoded strings.Builder

	for l.pos < len(src) {
		c, size := utf8.DecodeRuneInString(src[l.pos:])
		if c == '\\' {
			escapeStart := l.pos
			value, n, ok := parseUnicodeEscape(src[l.pos:])
			if !ok {
				l.fail(escapeStart, escapeStart+1, "Invalid escape sequence in identifier")
			}
			valid := IsIdentifierContinue(value)
			if decoded.Len() == 0 && escapeStart == start {
				valid = IsIdentifierStart(value)
			}
			if !valid {
				l.fail(escapeStart, escapeStart+n, "Invalid identifier character")
			}
			if !l.Escaped {
				decoded.WriteString(src[start:escapeStart])
				l.Escaped = true
			}
			decoded.WriteRune(value)
			l.pos += n
			continue
		}

		if l.pos == start && !IsIdentifierStart(c) || l.pos > start && !IsIdentifierContinue(c) {
			break
		}
		if l.Escaped {
			decoded.WriteRune(c)
		}
		l.pos += size
	}

	if l.Escaped {
		return decoded.String()
	}
	return src[start:l.pos]
}

// RescanRegExp turns the current "/" or "/=" into a regular expression
// literal. The parser calls this where an expression is expected.
func (l *Lexer) RescanRegExp() {
	src := l.source.Contents
	i := l.Start + 1
	inClass := false

	for {
		c, size := l.peekRune(i)
		if c == -1 || isLineTerminator(c) {
			l.fail(l.Start, i, "Unterminated regular expression")
		}
		i += size
		if c == '\\' {
			c, size = l.peekRune(i)
			if c == -1 || isLineTerminator(c) {
				l.fail(l.Start, i, "Unterminated regular expression")
			}
			i += size
		} else if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		}
	}

	seen := ""
	for i < len(src) {
		c, size := utf8.DecodeRuneInString(src[i:])
		if !IsIdentifierContinue(c) {
			break
		}
		switch {
		case !strings.ContainsRune("dgimsuvy", c):
			l.fail(i, i+size, fmt.Sprintf("Invalid flag %q in regular expression", string(c)))
		case strings.ContainsRune(seen, c):
			l.fail(i, i+size, fmt.Sprintf("Duplicate flag %q in regular expression", string(c)))
		}
		seen += string(c)
		i += size
	}

	l.Kind = TRegExp
	l.Text = ""
	l.pos = i
	l.End = i
}

// RescanTemplate continues a template literal after the "}" that closes a
// substitution
func (l *Lexer) RescanTemplate() {
	if !l.Is("}") {
		l.Expected(`"}"`)
	}
	l.scanTemplate(l.Start+1, TTemplateTail, TTemplateMiddle)
	l.End = l.pos
}

// Scans template text starting at "i", just after the opening delimiter.
// The token is "whole" if it ends with a backtick and "open" if it ends
// with "${".
func (l *Lexer) scanTemplate(i int, whole T, open T) {
	src := l.source.Contents
	for i < len(src) {
		switch src[i] {
		case '`':
			l.Kind = whole
			l.pos = i + 1
			return

		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				l.Kind = open
				l.pos = i + 2
				return
			}

		case '\\':
			_, size := l.peekRune(i + 1)
			i += size
		}
		i++
	}
	l.fail(l.Start, l.Start+1, "Unterminated template literal")
}
