package js_lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/unprivate/unprivate/internal/logger"
	"github.com/unprivate/unprivate/internal/test"
)

var tokenNames = map[T]string{
	TEndOfFile:      "eof",
	TPunctuator:     "punct",
	TIdentifier:     "ident",
	TPrivateName:    "private",
	TNumber:         "number",
	TBigInt:         "bigint",
	TString:         "string",
	TRegExp:         "regexp",
	TTemplate:       "template",
	TTemplateHead:   "head",
	TTemplateMiddle: "middle",
	TTemplateTail:   "tail",
}

// Runs "steps" against a lexer for "contents" and returns the log text.
// The lexer is nil if the first token was already an error.
func lexWith(contents string, steps func(l *Lexer)) string {
	log := logger.NewDeferLog()
	func() {
		defer func() {
			r := recover()
			if _, isLexerPanic := r.(LexerPanic); r != nil && !isLexerPanic {
				panic(r)
			}
		}()
		steps(NewLexer(log, test.SourceForTest(contents)))
	}()
	text := ""
	for _, msg := range log.Done() {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	return text
}

func describe(l *Lexer) string {
	return fmt.Sprintf("%s %s", tokenNames[l.Kind], l.Raw())
}

func expectTokens(t *testing.T, contents string, expected ...string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		var observed []string
		text := lexWith(contents, func(l *Lexer) {
			for l.Kind != TEndOfFile {
				observed = append(observed, describe(l))
				l.Next()
			}
		})
		test.AssertEqual(t, text, "")
		test.AssertEqualWithDiff(t, strings.Join(observed, "\n"), strings.Join(expected, "\n"))
	})
}

func expectLexerError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		text := lexWith(contents, func(l *Lexer) {
			for l.Kind != TEndOfFile {
				l.Next()
			}
		})
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func expectText(t *testing.T, contents string, kind T, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		text := lexWith(contents, func(l *Lexer) {
			test.AssertEqual(t, tokenNames[l.Kind], tokenNames[kind])
			test.AssertEqualWithDiff(t, l.Text, expected)
			test.AssertEqual(t, l.Raw(), contents)
		})
		test.AssertEqual(t, text, "")
	})
}

func TestPunctuators(t *testing.T) {
	expectTokens(t, "a>>>=b", "ident a", "punct >>>=", "ident b")
	expectTokens(t, "a>>>b", "ident a", "punct >>>", "ident b")
	expectTokens(t, "...a", "punct ...", "ident a")
	expectTokens(t, "a=>b", "ident a", "punct =>", "ident b")
	expectTokens(t, "a??=b", "ident a", "punct ??=", "ident b")
	expectTokens(t, "a**=b", "ident a", "punct **=", "ident b")
	expectTokens(t, "a+++b", "ident a", "punct ++", "punct +", "ident b")

	expectLexerError(t, "@", "<stdin>: error: Unexpected \"@\"\n")
	expectLexerError(t, "a # b", "<stdin>: error: Unexpected \"#\"\n")
}

func TestOptionalChain(t *testing.T) {
	expectTokens(t, "?.", "punct ?.")
	expectTokens(t, "?.a", "punct ?.", "ident a")
	expectTokens(t, "a?.[0]", "ident a", "punct ?.", "punct [", "number 0", "punct ]")
	expectTokens(t, "a?.#b", "ident a", "punct ?.", "private #b")

	// A digit after "?." means a conditional with a fraction
	expectTokens(t, "?.5", "punct ?", "number .5")
	expectTokens(t, "a?.5:b", "ident a", "punct ?", "number .5", "punct :", "ident b")
}

func TestComment(t *testing.T) {
	expectLexerError(t, "/*", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/*/", "<stdin>: error: Expected \"*/\" to terminate multi-line comment\n")
	expectLexerError(t, "/**/", "")
	expectLexerError(t, "//", "")
	expectTokens(t, "a /* b */ c // d\ne", "ident a", "ident c", "ident e")
}

func TestNewlineBefore(t *testing.T) {
	check := func(contents string, expected bool) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			text := lexWith(contents, func(l *Lexer) {
				test.AssertEqual(t, l.NewlineBefore, true)
				l.Next()
				test.AssertEqual(t, l.NewlineBefore, expected)
			})
			test.AssertEqual(t, text, "")
		})
	}

	check("a b", false)
	check("a\nb", true)
	check("a\r\nb", true)
	check("a\u2028b", true)
	check("a /* x */ b", false)
	check("a /*\n*/ b", true)
	check("a // x\nb", true)
	check("a\u00A0\uFEFFb", false)
}

func TestHashbang(t *testing.T) {
	check := func(contents string, hashbang string, first string) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			text := lexWith(contents, func(l *Lexer) {
				test.AssertEqual(t, l.Hashbang, hashbang)
				test.AssertEqual(t, describe(l), first)
			})
			test.AssertEqual(t, text, "")
		})
	}

	check("#!/usr/bin/env node", "#!/usr/bin/env node", "eof ")
	check("#!/usr/bin/env node\n", "#!/usr/bin/env node", "eof ")
	check("#!/usr/bin/env node\nlet x", "#!/usr/bin/env node", "ident let")
	expectLexerError(t, " #!/usr/bin/env node", "<stdin>: error: Unexpected \"#\"\n")
}

func TestIdentifier(t *testing.T) {
	expectText(t, "_", TIdentifier, "_")
	expectText(t, "$", TIdentifier, "$")
	expectText(t, "test", TIdentifier, "test")
	expectText(t, "t\\u0065st", TIdentifier, "test")
	expectText(t, "t\\u{65}st", TIdentifier, "test")
	expectText(t, "\\u0061", TIdentifier, "a")
	expectText(t, "ᐁ", TIdentifier, "ᐁ")
	expectText(t, "a\u200Cb", TIdentifier, "a\u200Cb")

	expectLexerError(t, "t\\u.", "<stdin>: error: Invalid escape sequence in identifier\n")
	expectLexerError(t, "t\\u{.", "<stdin>: error: Invalid escape sequence in identifier\n")
	expectLexerError(t, "a\\u0020b", "<stdin>: error: Invalid identifier character\n")
	expectLexerError(t, "\\u0031", "<stdin>: error: Invalid identifier character\n")
}

func TestEscapedKeyword(t *testing.T) {
	text := lexWith("\\u0069f if", func(l *Lexer) {
		test.AssertEqual(t, l.Text, "if")
		test.AssertEqual(t, l.Escaped, true)
		test.AssertEqual(t, l.IsWord("if"), false)
		l.Next()
		test.AssertEqual(t, l.Escaped, false)
		test.AssertEqual(t, l.IsWord("if"), true)
	})
	test.AssertEqual(t, text, "")
}

func TestPrivateName(t *testing.T) {
	expectText(t, "#x", TPrivateName, "#x")
	expectText(t, "#foo_bar", TPrivateName, "#foo_bar")
	expectText(t, "#ᐁ", TPrivateName, "#ᐁ")
	expectText(t, "#\\u0078", TPrivateName, "#x")
	expectText(t, "#a\\u{62}", TPrivateName, "#ab")

	expectLexerError(t, "# x", "<stdin>: error: Unexpected \"#\"\n")
	expectLexerError(t, "#1", "<stdin>: error: Unexpected \"#\"\n")
}

func TestNumber(t *testing.T) {
	for _, number := range []string{
		"0", "000", "010", "123", "0.5", ".5", "1.", "1e3", "1E-3", "1_000",
		"0b101", "0B1_1", "0o17", "0xFF", "0x1_f", "1.5e+10",
	} {
		expectText(t, number, TNumber, "")
	}
	for _, number := range []string{"0n", "123n", "0xFFn", "1_0n"} {
		expectText(t, number, TBigInt, "")
	}

	expectLexerError(t, "0x", "<stdin>: error: Invalid number\n")
	expectLexerError(t, "0b2", "<stdin>: error: Invalid number\n")
	expectLexerError(t, "1e", "<stdin>: error: Invalid number\n")
	expectLexerError(t, "1_", "<stdin>: error: Invalid number\n")
	expectLexerError(t, "1__0", "<stdin>: error: Invalid number\n")
	expectLexerError(t, "3in x", "<stdin>: error: Invalid number\n")
	expectLexerError(t, "1.5n", "<stdin>: error: Invalid BigInt literal\n")
	expectLexerError(t, "1e3n", "<stdin>: error: Invalid BigInt literal\n")
	expectLexerError(t, "0123n", "<stdin>: error: Invalid BigInt literal\n")

	// The dot after an integer belongs to the number
	expectTokens(t, "1..a", "number 1.", "punct .", "ident a")
}

func TestString(t *testing.T) {
	expectText(t, "''", TString, "")
	expectText(t, "'abc'", TString, "abc")
	expectText(t, "\"it's\"", TString, "it's")
	expectText(t, "'a\\nb\\tc'", TString, "a\nb\tc")
	expectText(t, "'\\x41'", TString, "A")
	expectText(t, "'\\u0041'", TString, "A")
	expectText(t, "'\\u{1F600}'", TString, "\U0001F600")
	expectText(t, "'\\uD83D\\uDE00'", TString, "\U0001F600")
	expectText(t, "'\\101'", TString, "A")
	expectText(t, "'\\0'", TString, "\x00")
	expectText(t, "'\\q'", TString, "q")
	expectText(t, "'a\\\nb'", TString, "ab")
	expectText(t, "'a\\\r\nb'", TString, "ab")
	expectText(t, "'a\u2028b'", TString, "a\u2028b")

	expectLexerError(t, "'abc", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "'a\nb'", "<stdin>: error: Unterminated string literal\n")
	expectLexerError(t, "'\\x4'", "<stdin>: error: Invalid escape sequence\n")
	expectLexerError(t, "'\\u{110000}'", "<stdin>: error: Invalid escape sequence\n")
}

func TestRegExp(t *testing.T) {
	check := func(contents string, expected string) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			var observed []string
			text := lexWith(contents, func(l *Lexer) {
				l.RescanRegExp()
				for l.Kind != TEndOfFile {
					observed = append(observed, describe(l))
					l.Next()
				}
			})
			test.AssertEqual(t, text, "")
			test.AssertEqualWithDiff(t, strings.Join(observed, "\n"), expected)
		})
	}
	expectRegExpError := func(contents string, expected string) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			text := lexWith(contents, func(l *Lexer) { l.RescanRegExp() })
			test.AssertEqualWithDiff(t, text, expected)
		})
	}

	check("/a/", "regexp /a/")
	check("/a/gi.test", "regexp /a/gi\npunct .\nident test")
	check("/[/]/", "regexp /[/]/")
	check("/\\//", "regexp /\\//")
	check("/=/", "regexp /=/")

	expectRegExpError("/a", "<stdin>: error: Unterminated regular expression\n")
	expectRegExpError("/a\n/", "<stdin>: error: Unterminated regular expression\n")
	expectRegExpError("/a\\\n/", "<stdin>: error: Unterminated regular expression\n")
	expectRegExpError("/a/x", "<stdin>: error: Invalid flag \"x\" in regular expression\n")
	expectRegExpError("/a/gg", "<stdin>: error: Duplicate flag \"g\" in regular expression\n")
}

func TestTemplate(t *testing.T) {
	text := lexWith("`a${b}c${d}e` f", func(l *Lexer) {
		test.AssertEqual(t, describe(l), "head `a${")
		test.AssertEqual(t, l.TemplateText(), "a")
		l.Next()
		test.AssertEqual(t, describe(l), "ident b")
		l.Next()
		l.RescanTemplate()
		test.AssertEqual(t, describe(l), "middle }c${")
		test.AssertEqual(t, l.TemplateText(), "c")
		l.Next()
		l.Next()
		l.RescanTemplate()
		test.AssertEqual(t, describe(l), "tail }e`")
		test.AssertEqual(t, l.TemplateText(), "e")
		l.Next()
		test.AssertEqual(t, describe(l), "ident f")
	})
	test.AssertEqual(t, text, "")

	expectTokens(t, "`a\\`b`", "template `a\\`b`")
	expectTokens(t, "`$`", "template `$`")
	expectLexerError(t, "`abc", "<stdin>: error: Unterminated template literal\n")
}

func TestExpect(t *testing.T) {
	check := func(contents string, steps func(l *Lexer), expected string) {
		t.Helper()
		t.Run(contents, func(t *testing.T) {
			t.Helper()
			test.AssertEqualWithDiff(t, lexWith(contents, steps), expected)
		})
	}

	check("a", func(l *Lexer) { l.Expect("(") }, "<stdin>: error: Expected \"(\" but found \"a\"\n")
	check("", func(l *Lexer) { l.Expect(")") }, "<stdin>: error: Expected \")\" but found end of file\n")
	check("of", func(l *Lexer) { l.ExpectWord("of") }, "")
	check("in", func(l *Lexer) { l.ExpectWord("of") }, "<stdin>: error: Expected \"of\" but found \"in\"\n")
	check("a b", func(l *Lexer) { l.Next(); l.ExpectSemicolon() }, "<stdin>: error: Expected \";\" but found \"b\"\n")
	check("a\nb", func(l *Lexer) { l.Next(); l.ExpectSemicolon() }, "")
	check("a}", func(l *Lexer) { l.Next(); l.ExpectSemicolon() }, "")
	check("a", func(l *Lexer) { l.Next(); l.ExpectSemicolon() }, "")
}

func TestIsIdentifier(t *testing.T) {
	test.AssertEqual(t, IsIdentifier("foo"), true)
	test.AssertEqual(t, IsIdentifier("\U0001D400"), true)
	test.AssertEqual(t, IsIdentifier("ᐁ"), true)
	test.AssertEqual(t, IsIdentifier("a b"), false)
	test.AssertEqual(t, IsIdentifier("1a"), false)
	test.AssertEqual(t, IsIdentifier("a-b"), false)
	test.AssertEqual(t, IsIdentifier(""), false)

	test.AssertEqual(t, IsReservedWord("class"), true)
	test.AssertEqual(t, IsReservedWord("let"), false)
	test.AssertEqual(t, IsReservedWord("async"), false)
}
