package js_parser

import (
	"testing"

	"github.com/unprivate/unprivate/internal/js_printer"
	"github.com/unprivate/unprivate/internal/logger"
	"github.com/unprivate/unprivate/internal/test"
)

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func expectPrintedCommon(t *testing.T, contents string, expected string, options js_printer.Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, options).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, js_printer.Options{})
}

func expectPrintedMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, js_printer.Options{MinifyWhitespace: true})
}

func TestComments(t *testing.T) {
	expectPrinted(t, "// comment\nx", "x;\n")
	expectPrinted(t, "/* comment */ x", "x;\n")
	expectPrinted(t, "/*! legal */ x", "x;\n")
	expectPrinted(t, "a /*\n*/ b", "a;\nb;\n")
	expectPrinted(t, "#!/usr/bin/env node\nx", "#!/usr/bin/env node\nx;\n")
}

// Strings keep their quotes and escapes
func TestStrings(t *testing.T) {
	expectPrinted(t, "x = 'a'", "x = 'a';\n")
	expectPrinted(t, "x = \"'\"", "x = \"'\";\n")
	expectPrinted(t, "x = '\"'", "x = '\"';\n")
	expectPrinted(t, "x = '\\n'", "x = '\\n';\n")
	expectPrinted(t, "x = '\\x41'", "x = '\\x41';\n")
	expectPrinted(t, "x = 'a\\\nb'", "x = 'a\\\nb';\n")
	expectPrinted(t, "'use strict'", "'use strict';\n")
	expectPrinted(t, "'use strict'; 'use asm'; x", "'use strict';\n'use asm';\nx;\n")
	expectPrinted(t, "x; 'a'", "x;\n'a';\n")
	expectPrinted(t, "('use strict')", "'use strict';\n")
	expectParseError(t, "x = 'a", "<stdin>: error: Unterminated string literal\n")
}

func TestNumbers(t *testing.T) {
	expectPrinted(t, "x = 0x10", "x = 0x10;\n")
	expectPrinted(t, "x = 1_000", "x = 1_000;\n")
	expectPrinted(t, "x = 1e3", "x = 1e3;\n")
	expectPrinted(t, "x = 123n", "x = 123n;\n")
	expectPrinted(t, "1..toString()", "1..toString();\n")
	expectPrinted(t, "1 .toString()", "1 .toString();\n")
	expectPrinted(t, "x = .5", "x = .5;\n")
	expectPrinted(t, "x = a?.5:b", "x = a ? .5 : b;\n")
	expectPrintedMinify(t, "x = a ? .5 : b", "x=a?.5:b;")
	expectParseError(t, "x = 1_", "<stdin>: error: Invalid number\n")
}

func TestTemplates(t *testing.T) {
	expectPrinted(t, "x = `a${b}c`", "x = `a${b}c`;\n")
	expectPrinted(t, "x = tag`a${b}c${d}`", "x = tag`a${b}c${d}`;\n")
	expectPrinted(t, "x = `\\n`", "x = `\\n`;\n")
	expectPrinted(t, "(a?.b)`c`", "(a?.b)`c`;\n")
	expectParseError(t, "a?.b`c`", "<stdin>: error: Template literals cannot have an optional chain as a tag\n")
}

func TestRegExp(t *testing.T) {
	expectPrinted(t, "x = /a/g", "x = /a/g;\n")
	expectPrinted(t, "x = a / b / c", "x = a / b / c;\n")
}

func TestOperatorPrecedence(t *testing.T) {
	expectPrinted(t, "a + b * c", "a + b * c;\n")
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "a - (b - c)", "a - (b - c);\n")
	expectPrinted(t, "(a, b)", "a, b;\n")
	expectPrinted(t, "a ?? (b || c)", "a ?? (b || c);\n")
	expectPrinted(t, "(a || b) ?? c", "(a || b) ?? c;\n")
	expectPrinted(t, "a ** b ** c", "a ** b ** c;\n")
	expectPrinted(t, "(a ** b) ** c", "(a ** b) ** c;\n")
	expectPrinted(t, "(-1) ** 2", "(-1) ** 2;\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "a ? b : c ? d : e", "a ? b : c ? d : e;\n")
	expectPrinted(t, "(a ? b : c) ? d : e", "(a ? b : c) ? d : e;\n")
	expectPrinted(t, "x = typeof a", "x = typeof a;\n")
	expectPrinted(t, "x = a++ + ++b", "x = a++ + ++b;\n")
	expectPrinted(t, "x = a - -b", "x = a - -b;\n")
	expectPrintedMinify(t, "x = a - -b", "x=a- -b;")
	expectPrintedMinify(t, "x = a + +b", "x=a+ +b;")
	expectParseError(t, "-a ** 2", "<stdin>: error: Unexpected \"**\"\n")
}

func TestCallAndNew(t *testing.T) {
	expectPrinted(t, "new a", "new a();\n")
	expectPrinted(t, "new a.b(c)", "new a.b(c);\n")
	expectPrinted(t, "new (a())", "new (a())();\n")
	expectPrinted(t, "new (a().b)", "new (a()).b();\n")
	expectPrinted(t, "a(...b, c)", "a(...b, c);\n")
	expectPrinted(t, "new.target", "new.target;\n")
	expectPrinted(t, "import.meta", "import.meta;\n")
	expectPrinted(t, "import('x')", "import('x');\n")
}

func TestOptionalChain(t *testing.T) {
	expectPrinted(t, "a?.b.c", "a?.b.c;\n")
	expectPrinted(t, "a?.[b]", "a?.[b];\n")
	expectPrinted(t, "a?.()", "a?.();\n")
	expectPrinted(t, "(a?.b).c", "(a?.b).c;\n")
	expectPrinted(t, "(a?.b)()", "(a?.b)();\n")
	expectPrinted(t, "a?.b?.c", "a?.b?.c;\n")
	expectPrinted(t, "a?.#b", "a?.#b;\n")
	expectParseError(t, "new a?.b()", "<stdin>: error: Invalid optional chain from new expression\n")
	expectParseError(t, "a?.b = 1", "<stdin>: error: Invalid assignment target\n")
}

func TestStatementStart(t *testing.T) {
	expectPrinted(t, "(function() {})", "(function() {\n});\n")
	expectPrinted(t, "(class {})", "(class {\n});\n")
	expectPrinted(t, "({} = x)", "({} = x);\n")
	expectPrinted(t, "({}).x", "({}).x;\n")
	expectPrinted(t, "x => ({})", "(x) => ({});\n")
}

func TestArrow(t *testing.T) {
	expectPrinted(t, "x = a => a", "x = (a) => a;\n")
	expectPrinted(t, "x = (a, b = 1, ...c) => {}", "x = (a, b = 1, ...c) => {\n};\n")
	expectPrinted(t, "x = async a => a", "x = async (a) => a;\n")
	expectPrinted(t, "x = async (a) => await a", "x = async (a) => await a;\n")
	expectPrinted(t, "x = async()", "x = async();\n")
	expectPrinted(t, "x = async", "x = async;\n")
	expectPrinted(t, "x = ([a, b], {c}) => c", "x = ([a, b], { c }) => c;\n")
	expectPrintedMinify(t, "x = a => a", "x=a=>a;")
	expectParseError(t, "x = (a\n=> a)", "<stdin>: error: Unexpected newline before \"=>\"\n")
	expectParseError(t, "x = (a)\n=> a", "<stdin>: error: Unexpected newline before \"=>\"\n")
	expectParseError(t, "x = a\n=> a", "<stdin>: error: Unexpected newline before \"=>\"\n")
	expectParseError(t, "(a, ...b, c) => {}", "<stdin>: error: Unexpected \",\" after rest pattern\n")
}

func TestDestructuring(t *testing.T) {
	expectPrinted(t, "let [a, , b] = c", "let [a, , b] = c;\n")
	expectPrinted(t, "let [a, ...b] = c", "let [a, ...b] = c;\n")
	expectPrinted(t, "let {a, b: c = 1, ...d} = e", "let { a, b: c = 1, ...d } = e;\n")
	expectPrinted(t, "let {[a]: b} = c", "let { [a]: b } = c;\n")
	expectPrinted(t, "[a, b] = [b, a]", "[a, b] = [b, a];\n")
	expectPrinted(t, "x = [a, ,]", "x = [a, ,];\n")
	expectParseError(t, "const a", "<stdin>: error: The constant \"a\" must be initialized\n")
}

func TestObjects(t *testing.T) {
	expectPrinted(t, "x = {}", "x = {};\n")
	expectPrinted(t, "x = {a, b: c}", "x = { a, b: c };\n")
	expectPrinted(t, "x = {'a-b': 1, 2: 3}", "x = { 'a-b': 1, 2: 3 };\n")
	expectPrinted(t, "x = {[a]: b}", "x = { [a]: b };\n")
	expectPrinted(t, "x = {...a}", "x = { ...a };\n")
	expectPrinted(t, "x = {a() {}, get b() { return 1 }, set b(v) {}}",
		"x = { a() {\n}, get b() {\n  return 1;\n}, set b(v) {\n} };\n")
	expectPrinted(t, "x = {async *a() {}}", "x = { async *a() {\n} };\n")
	expectParseError(t, "x = {get a(b) {}}", "<stdin>: error: Getter functions must have no arguments\n")
	expectParseError(t, "x = {set a() {}}", "<stdin>: error: Setter functions must have exactly one argument\n")
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class A {}", "class A {\n}\n")
	expectPrinted(t, "class A extends B {}", "class A extends B {\n}\n")
	expectPrinted(t, "class A { x; y = 1; static z = 2 }", "class A {\n  x;\n  y = 1;\n  static z = 2;\n}\n")
	expectPrinted(t, "class A { constructor() {} m() {} static s() {} }",
		"class A {\n  constructor() {\n  }\n  m() {\n  }\n  static s() {\n  }\n}\n")
	expectPrinted(t, "class A { get x() { return 1 } set x(v) {} }",
		"class A {\n  get x() {\n    return 1;\n  }\n  set x(v) {\n  }\n}\n")
	expectPrinted(t, "class A { static { a() } }", "class A {\n  static {\n    a();\n  }\n}\n")
	expectPrinted(t, "class A { ['a' + b] = 1 }", "class A {\n  ['a' + b] = 1;\n}\n")
	expectPrinted(t, "class A { 'a-b' = 1 }", "class A {\n  'a-b' = 1;\n}\n")
	expectPrinted(t, "class A { static = 1; get = 2; async }", "class A {\n  static = 1;\n  get = 2;\n  async;\n}\n")
	expectPrinted(t, "x = class {}", "x = class {\n};\n")
	expectPrinted(t, "x = class B extends (a, b) {}", "x = class B extends (a, b) {\n};\n")

	expectParseError(t, "class A { constructor() {} constructor() {} }",
		"<stdin>: error: Classes cannot contain more than one constructor\n")
	expectParseError(t, "class A { constructor = 1 }", "<stdin>: error: Invalid field name \"constructor\"\n")
	expectParseError(t, "class A { static prototype = 1 }", "<stdin>: error: Invalid field name \"prototype\"\n")
}

func TestPrivateIdentifiers(t *testing.T) {
	expectPrinted(t, "class A { #x; #y = 1; static #z = 2 }", "class A {\n  #x;\n  #y = 1;\n  static #z = 2;\n}\n")
	expectPrinted(t, "class A { #m() {} get #g() { return 1 } set #g(v) {} }",
		"class A {\n  #m() {\n  }\n  get #g() {\n    return 1;\n  }\n  set #g(v) {\n  }\n}\n")
	expectPrinted(t, "class A { #x; m() { return this.#x } }", "class A {\n  #x;\n  m() {\n    return this.#x;\n  }\n}\n")
	expectPrinted(t, "class A { #x; m() { return this?.#x } }", "class A {\n  #x;\n  m() {\n    return this?.#x;\n  }\n}\n")
	expectPrinted(t, "class A { #x; m(o) { return #x in o } }", "class A {\n  #x;\n  m(o) {\n    return #x in o;\n  }\n}\n")
	expectPrinted(t, "class A { #x; m(o) { return o.a.#x.b } }", "class A {\n  #x;\n  m(o) {\n    return o.a.#x.b;\n  }\n}\n")

	expectParseError(t, "class A { #constructor() {} }", "<stdin>: error: Invalid field name \"#constructor\"\n")
	expectParseError(t, "class A { #x; m() { delete this.#x } }", "<stdin>: error: Deleting the private name \"#x\" is forbidden\n")
	expectParseError(t, "x = {#a: 1}", "<stdin>: error: Expected identifier but found \"#a\"\n")
	expectParseError(t, "class A { #x; m(o) { return #x } }", "<stdin>: error: Expected \"in\" but found \"}\"\n")
}

func TestFunctions(t *testing.T) {
	expectPrinted(t, "function f(a, b = 1) { return a }", "function f(a, b = 1) {\n  return a;\n}\n")
	expectPrinted(t, "async function f() { await x }", "async function f() {\n  await x;\n}\n")
	expectPrinted(t, "function* f() { yield; yield x; yield* y }", "function* f() {\n  yield;\n  yield x;\n  yield* y;\n}\n")
	expectPrinted(t, "x = function() {}", "x = function() {\n};\n")
	expectPrinted(t, "x = async function f() {}", "x = async function f() {\n};\n")
	expectPrinted(t, "function f() { 'use strict'; return }", "function f() {\n  'use strict';\n  return;\n}\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "if (a) b; else c", "if (a)\n  b;\nelse\n  c;\n")
	expectPrinted(t, "if (a) { b } else if (c) { d }", "if (a) {\n  b;\n} else if (c) {\n  d;\n}\n")
	expectPrinted(t, "for (;;) ;", "for (; ; )\n  ;\n")
	expectPrinted(t, "for (let i = 0; i < n; i++) {}", "for (let i = 0; i < n; i++) {\n}\n")
	expectPrinted(t, "for (const a in b) {}", "for (const a in b) {\n}\n")
	expectPrinted(t, "for (const a of b) {}", "for (const a of b) {\n}\n")
	expectPrinted(t, "for (var x = (a in b); ;) {}", "for (var x = (a in b); ; ) {\n}\n")
	expectPrinted(t, "while (a) b()", "while (a)\n  b();\n")
	expectPrinted(t, "do a(); while (b)", "do\n  a();\nwhile (b);\n")
	expectPrinted(t, "try { a } catch (e) { b } finally { c }", "try {\n  a;\n} catch (e) {\n  b;\n} finally {\n  c;\n}\n")
	expectPrinted(t, "try { a } catch { b }", "try {\n  a;\n} catch {\n  b;\n}\n")
	expectPrinted(t, "switch (a) { case 1: b(); break; default: c() }",
		"switch (a) {\n  case 1:\n    b();\n    break;\n  default:\n    c();\n}\n")
	expectPrinted(t, "a: for (;;) break a", "a:\n  for (; ; )\n    break a;\n")
	expectPrinted(t, "throw a", "throw a;\n")
	expectPrinted(t, "debugger", "debugger;\n")
	expectPrinted(t, ";", ";\n")

	expectParseError(t, "with (a) {}", "<stdin>: error: With statements are not supported\n")
	expectParseError(t, "switch (a) { default: default: }", "<stdin>: error: Multiple default clauses are not allowed\n")
}

func TestImportExport(t *testing.T) {
	expectPrinted(t, "import 'a'", "import 'a';\n")
	expectPrinted(t, "import a from 'a'", "import a from 'a';\n")
	expectPrinted(t, "import {a, b as c} from 'a'", "import { a, b as c } from 'a';\n")
	expectPrinted(t, "import * as ns from 'a'", "import * as ns from 'a';\n")
	expectPrinted(t, "import a, {b} from 'a'", "import a, { b } from 'a';\n")
	expectPrinted(t, "export {a, b as c}", "export { a, b as c };\n")
	expectPrinted(t, "export {a as default} from 'a'", "export { a as default } from 'a';\n")
	expectPrinted(t, "export * from 'a'", "export * from 'a';\n")
	expectPrinted(t, "export * as ns from 'a'", "export * as ns from 'a';\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {\n}\n")
	expectPrinted(t, "export class A {}", "export class A {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
	expectPrinted(t, "export default class A {}", "export default class A {\n}\n")
	expectPrinted(t, "export default function() {}", "export default function() {\n}\n")
	expectPrinted(t, "export default a + b", "export default a + b;\n")
	expectPrinted(t, "export default (function() {})", "export default (function() {\n});\n")
}

func TestMinifyWhitespace(t *testing.T) {
	expectPrintedMinify(t, "class A { #x = 1; m() { return this.#x } }", "class A{#x=1;m(){return this.#x}}")
	expectPrintedMinify(t, "if (a) b(); else c()", "if(a)b();else c();")
	expectPrintedMinify(t, "x = a in b", "x=a in b;")
	expectPrintedMinify(t, "return_ = /a/g in b", "return_=/a/g in b;")
	expectPrintedMinify(t, "x = ᐁ in b", "x=ᐁ in b;")
}

func TestSyntaxErrors(t *testing.T) {
	expectParseError(t, "(a", "<stdin>: error: Expected \")\" but found end of file\n")
	expectParseError(t, "a b", "<stdin>: error: Expected \";\" but found \"b\"\n")
	expectParseError(t, "x = )", "<stdin>: error: Unexpected \")\"\n")
	expectParseError(t, "super", "<stdin>: error: Unexpected \"super\"\n")
}
