package js_lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Numeric literals are validated but never evaluated. The printer writes
// them back exactly as they appear in the source.
func (l *Lexer) scanNumber() {
	src := l.source.Contents
	i := l.pos

	// Consumes digits accepted by "ok" with single "_" separators between
	// them and returns how many digits there were
	digits := func(ok func(byte) bool) int {
		n := 0
		for i < len(src) {
			if ok(src[i]) {
				i++
				n++
			} else if src[i] == '_' && n > 0 && i+1 < len(src) && ok(src[i+1]) {
				i++
			} else {
				break
			}
		}
		return n
	}
	decimal := func(c byte) bool { return c >= '0' && c <= '9' }

	isInteger := true
	isLegacyOctal := false

	if src[i] == '0' && i+1 < len(src) && strings.IndexByte("xXoObB", src[i+1]) >= 0 {
		var ok func(byte) bool
		switch src[i+1] | 0x20 {
		case 'x':
			ok = func(c byte) bool { return decimal(c) || (c|0x20 >= 'a' && c|0x20 <= 'f') }
		case 'o':
			ok = func(c byte) bool { return c >= '0' && c <= '7' }
		default:
			ok = func(c byte) bool { return c == '0' || c == '1' }
		}
		i += 2
		if digits(ok) == 0 {
			l.fail(l.pos, i, "Invalid number")
		}
	} else {
		if src[i] == '0' && i+1 < len(src) && decimal(src[i+1]) {
			// "0123" is a legacy octal literal, which can't have separators
			for i < len(src) && decimal(src[i]) {
				i++
			}
			isLegacyOctal = true
		} else {
			digits(decimal)
		}

		if i < len(src) && src[i] == '.' {
			i++
			digits(decimal)
			isInteger = false
		}

		if i < len(src) && src[i]|0x20 == 'e' {
			i++
			if i < len(src) && (src[i] == '+' || src[i] == '-') {
				i++
			}
			if digits(decimal) == 0 {
				l.fail(l.pos, i, "Invalid number")
			}
			isInteger = false
		}
	}

	l.Kind = TNumber
	if i < len(src) && src[i] == 'n' {
		if !isInteger || isLegacyOctal {
			l.fail(l.pos, i+1, "Invalid BigInt literal")
		}
		l.Kind = TBigInt
		i++
	}

	// "3in x" and "1_" are not numbers followed by something else
	if c, _ := l.peekRune(i); c == '\\' || IsIdentifierContinue(c) {
		l.fail(l.pos, i, "Invalid number")
	}
	l.pos = i
}

// Scans a string literal and returns its value. Lone surrogates written as
// escapes can't be represented in UTF-8 and decode to U+FFFD, which only
// matters for property names since the printer uses the original text.
func (l *Lexer) scanString(quote byte) string {
	src := l.source.Contents
	start := l.pos
	i := start + 1
	var value strings.Builder
	chunk := i

	for {
		if i >= len(src) || src[i] == '\n' || src[i] == '\r' {
			l.fail(start, start+1, "Unterminated string literal")
		}

		switch src[i] {
		case quote:
			value.WriteString(src[chunk:i])
			l.pos = i + 1
			return value.String()

		case '\\':
			value.WriteString(src[chunk:i])
			i = l.decodeEscape(i, &value)
			chunk = i

		default:
			i++
		}
	}
}

// Decodes the escape sequence starting with the backslash at "i" into
// "value" and returns the position after it
func (l *Lexer) decodeEscape(i int, value *strings.Builder) int {
	src := l.source.Contents
	c, size := l.peekRune(i + 1)
	next := i + 1 + size

	switch c {
	case -1:
		l.fail(i, i+1, "Unterminated string literal")

	case 'n':
		value.WriteByte('\n')
	case 'r':
		value.WriteByte('\r')
	case 't':
		value.WriteByte('\t')
	case 'b':
		value.WriteByte('\b')
	case 'f':
		value.WriteByte('\f')
	case 'v':
		value.WriteByte('\v')

	// Line continuations
	case '\r':
		if next < len(src) && src[next] == '\n' {
			next++
		}
	case '\n', '\u2028', '\u2029':

	case 'x':
		if next+2 > len(src) {
			l.fail(i, len(src), "Invalid escape sequence")
		}
		n, err := strconv.ParseUint(src[next:next+2], 16, 8)
		if err != nil {
			l.fail(i, next+2, "Invalid escape sequence")
		}
		value.WriteRune(rune(n))
		next += 2

	case 'u':
		r, n, ok := parseUnicodeEscape(src[i:])
		if !ok {
			l.fail(i, next, "Invalid escape sequence")
		}
		next = i + n

		// A surrogate pair written as two escapes
		if utf16.IsSurrogate(r) && r < 0xDC00 && strings.HasPrefix(src[next:], "\\u") {
			if low, n2, ok := parseUnicodeEscape(src[next:]); ok && low >= 0xDC00 && low <= 0xDFFF {
				r = utf16.DecodeRune(r, low)
				next += n2
			}
		}
		value.WriteRune(r)

	default:
		if c >= '0' && c <= '7' {
			// "\0" and legacy octal escapes such as "\101"
			end := next
			limit := i + 4
			if c > '3' {
				limit = i + 3
			}
			for end < limit && end < len(src) && src[end] >= '0' && src[end] <= '7' {
				end++
			}
			n, _ := strconv.ParseUint(src[i+1:end], 8, 8)
			value.WriteRune(rune(n))
			next = end
		} else {
			value.WriteRune(c)
		}
	}
	return next
}

// Parses "\uXXXX" or "\u{X...}" at the start of "text". It returns the code
// point, how many bytes the escape takes and whether it is well formed.
func parseUnicodeEscape(text string) (rune, int, bool) {
	if !strings.HasPrefix(text, "\\u") {
		return 0, 0, false
	}

	if strings.HasPrefix(text[2:], "{") {
		end := strings.IndexByte(text, '}')
		if end < 4 {
			return 0, 0, false
		}
		n, err := strconv.ParseUint(text[3:end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(n), end + 1, true
	}

	if len(text) < 6 {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(text[2:6], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return rune(n), 6, true
}
