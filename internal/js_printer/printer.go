package js_printer

// The printer writes a tree back out as JavaScript. Literals are printed
// exactly as they were written, so the output only differs from the input
// in whitespace, comments, parentheses and whatever a pass changed.
//
// Parentheses come from operator precedence alone. A few constructs also
// need them because of where they appear rather than what they contain: an
// object literal, function or class at the very start of a statement would
// be read as a block or a declaration. The printer remembers the output
// position where such a context starts and wraps the expression printed
// there.

import (
	"unicode/utf8"

	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/js_lexer"
)

type Options struct {
	MinifyWhitespace bool
}

type PrintResult struct {
	JS []byte
}

type printer struct {
	options Options
	js      []byte
	indent  int

	// Output positions. An expression printed exactly at one of these may
	// need parentheses because of what comes before it.
	stmtStart          int
	exportDefaultStart int
	arrowBodyStart     int
	forInitStart       int

	// The end of the last regular expression, since "/a/ in b" can't lose
	// its space
	regExpEnd int

	// The end of the last semicolon that ends a statement. In minified
	// output it is removed again when a closing brace follows it.
	semicolonEnd int
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := &printer{
		options:            options,
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowBodyStart:     -1,
		forInitStart:       -1,
		regExpEnd:          -1,
		semicolonEnd:       -1,
	}

	if tree.Hashbang != "" {
		p.print(tree.Hashbang)
		p.print("\n")
	}
	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
	}
	return PrintResult{JS: p.js}
}

////////////////////////////////////////////////////////////////////////////////
// Output

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

func (p *printer) printSpace() {
	if !p.options.MinifyWhitespace {
		p.print(" ")
	}
}

func (p *printer) printNewline() {
	if !p.options.MinifyWhitespace {
		p.print("\n")
	}
}

func (p *printer) printIndent() {
	if !p.options.MinifyWhitespace {
		for i := 0; i < p.indent; i++ {
			p.print("  ")
		}
	}
}

// Prints a keyword, name or number, separated from a previous one by a space
func (p *printer) printWord(text string) {
	if p.needsSpaceBefore(text) {
		p.print(" ")
	}
	p.print(text)
}

func (p *printer) needsSpaceBefore(text string) bool {
	if len(p.js) == 0 || text == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	if !js_lexer.IsIdentifierContinue(first) && first != '\\' {
		return false
	}
	if len(p.js) == p.regExpEnd {
		return true
	}
	last, _ := utf8.DecodeLastRune(p.js)
	return js_lexer.IsIdentifierContinue(last) || last == '\\'
}

// Prints an operator made of punctuation. "a - -b" and "a / /b/" must keep
// their spaces or they turn into different tokens.
func (p *printer) printOp(op string) {
	if n := len(p.js); n > 0 {
		last := p.js[n-1]
		if (op[0] == '+' || op[0] == '-' || op[0] == '/') && last == op[0] {
			p.print(" ")
		}
	}
	p.print(op)
}

func (p *printer) printSemicolonAfterStatement() {
	p.print(";")
	p.semicolonEnd = len(p.js)
	p.printNewline()
}

// A semicolon right before a closing brace is never needed
func (p *printer) printCloseBrace() {
	if p.options.MinifyWhitespace && len(p.js) == p.semicolonEnd {
		p.js = p.js[:len(p.js)-1]
	}
	p.semicolonEnd = -1
	p.print("}")
}

func (p *printer) printQuotedString(text string) {
	p.print(quoteString(text))
}

func quoteString(text string) string {
	buffer := make([]byte, 0, len(text)+2)
	buffer = append(buffer, '"')
	for i := 0; i < len(text); {
		c, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case c == '\\':
			buffer = append(buffer, `\\`...)
		case c == '"':
			buffer = append(buffer, `\"`...)
		case c == '\n':
			buffer = append(buffer, `\n`...)
		case c == '\r':
			buffer = append(buffer, `\r`...)
		case c == '\t':
			buffer = append(buffer, `\t`...)
		case c == '\u2028':
			buffer = append(buffer, `\u2028`...)
		case c == '\u2029':
			buffer = append(buffer, `\u2029`...)
		case c < 0x20 || c == 0x7F:
			const hex = "0123456789ABCDEF"
			buffer = append(buffer, '\\', 'x', hex[c>>4], hex[c&15])
		default:
			// Invalid UTF-8 is copied byte by byte
			buffer = append(buffer, text[i:i+size]...)
		}
		i += size
	}
	return string(append(buffer, '"'))
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{")
	p.printNewline()
	p.indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.printIndent()
	p.printCloseBrace()
}

// Prints the body of "if", "for", "while" and labels, which is either a
// block on the same line or a single statement indented on the next
func (p *printer) printBody(body js_ast.Stmt) {
	if block, ok := body.Data.(*js_ast.SBlock); ok {
		p.printSpace()
		p.printBlock(block.Stmts)
		p.printNewline()
		return
	}
	p.printNewline()
	p.indent++
	p.printStmt(body)
	p.indent--
}

func (p *printer) printExprStmt(value js_ast.Expr) {
	p.stmtStart = len(p.js)
	p.printExpr(value, js_ast.PrecLowest, 0)
	p.printSemicolonAfterStatement()
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.printIndent()
		p.print(";")
		p.printNewline()

	case *js_ast.SDebugger:
		p.printIndent()
		p.printWord("debugger")
		p.printSemicolonAfterStatement()

	case *js_ast.SDirective:
		p.printIndent()
		p.print(s.Raw)
		p.printSemicolonAfterStatement()

	case *js_ast.SBlock:
		p.printIndent()
		p.printBlock(s.Stmts)
		p.printNewline()

	case *js_ast.SExpr:
		p.printIndent()
		p.printExprStmt(s.Value)

	case *js_ast.SLocal:
		p.printIndent()
		if s.IsExport {
			p.printWord("export")
			p.print(" ")
		}
		p.printLocal(s, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SFunction:
		p.printIndent()
		if s.IsExport {
			p.printWord("export")
			p.print(" ")
		}
		p.printFn(&s.Fn)
		p.printNewline()

	case *js_ast.SClass:
		p.printIndent()
		if s.IsExport {
			p.printWord("export")
			p.print(" ")
		}
		p.printClass(&s.Class)
		p.printNewline()

	case *js_ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *js_ast.SFor:
		p.printIndent()
		p.printWord("for")
		p.printSpace()
		p.print("(")
		if s.Init != nil {
			p.printForInit(*s.Init)
		}
		p.print(";")
		p.printSpace()
		if s.Test != nil {
			p.printExpr(*s.Test, js_ast.PrecLowest, 0)
		}
		p.print(";")
		p.printSpace()
		if s.Update != nil {
			p.printExpr(*s.Update, js_ast.PrecLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SForEach:
		p.printIndent()
		p.printWord("for")
		if s.IsAwait {
			p.print(" await")
		}
		p.printSpace()
		p.print("(")
		p.printForInit(s.Init)
		if s.IsOf {
			p.print(" of ")
			p.printExpr(s.Value, js_ast.PrecComma, 0)
		} else {
			p.printSpace()
			p.printWord("in")
			p.printSpace()
			p.printExpr(s.Value, js_ast.PrecLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWhile:
		p.printIndent()
		p.printWord("while")
		p.printSpace()
		p.print("(")
		p.printExpr(s.Test, js_ast.PrecLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SDoWhile:
		p.printIndent()
		p.printWord("do")
		if block, ok := s.Body.Data.(*js_ast.SBlock); ok {
			p.printSpace()
			p.printBlock(block.Stmts)
			p.printSpace()
		} else {
			p.printNewline()
			p.indent++
			p.printStmt(s.Body)
			p.indent--
			p.printIndent()
		}
		p.printWord("while")
		p.printSpace()
		p.print("(")
		p.printExpr(s.Test, js_ast.PrecLowest, 0)
		p.print(")")
		p.printSemicolonAfterStatement()

	case *js_ast.STry:
		p.printIndent()
		p.printWord("try")
		p.printSpace()
		p.printBlock(s.Body)
		if s.Catch != nil {
			p.printSpace()
			p.printWord("catch")
			p.printSpace()
			if s.Catch.Binding != nil {
				p.print("(")
				p.printBinding(*s.Catch.Binding)
				p.print(")")
				p.printSpace()
			}
			p.printBlock(s.Catch.Body)
		}
		if s.Finally != nil {
			p.printSpace()
			p.printWord("finally")
			p.printSpace()
			p.printBlock(*s.Finally)
		}
		p.printNewline()

	case *js_ast.SSwitch:
		p.printIndent()
		p.printSwitch(s)

	case *js_ast.SLabel:
		p.printIndent()
		p.printWord(s.Name.Name)
		p.print(":")
		p.printBody(s.Stmt)

	case *js_ast.SJump:
		p.printIndent()
		if s.IsContinue {
			p.printWord("continue")
		} else {
			p.printWord("break")
		}
		if s.Label != nil {
			p.print(" ")
			p.printWord(s.Label.Name)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SReturn:
		p.printIndent()
		p.printWord("return")
		if s.Value != nil {
			p.printSpace()
			p.printExpr(*s.Value, js_ast.PrecLowest, 0)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SThrow:
		p.printIndent()
		p.printWord("throw")
		p.printSpace()
		p.printExpr(s.Value, js_ast.PrecLowest, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SImport:
		p.printIndent()
		p.printImport(s)

	case *js_ast.SExportList:
		p.printIndent()
		p.printExportList(s)

	case *js_ast.SExportDefault:
		p.printIndent()
		p.printWord("export")
		p.print(" default")
		if s.Stmt != nil {
			p.print(" ")
			switch decl := s.Stmt.Data.(type) {
			case *js_ast.SFunction:
				p.printFn(&decl.Fn)
			case *js_ast.SClass:
				p.printClass(&decl.Class)
			}
			p.printNewline()
		} else {
			p.printSpace()
			p.exportDefaultStart = len(p.js)
			p.printExpr(*s.Expr, js_ast.PrecComma, 0)
			p.printSemicolonAfterStatement()
		}

	default:
		panic("Internal error: unexpected statement")
	}
}

func (p *printer) printLocal(s *js_ast.SLocal, flags printFlags) {
	switch s.Kind {
	case js_ast.LocalVar:
		p.printWord("var")
	case js_ast.LocalLet:
		p.printWord("let")
	case js_ast.LocalConst:
		p.printWord("const")
	}
	p.printSpace()
	for i, decl := range s.Decls {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		p.printBinding(decl.Binding)
		if decl.Value != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(*decl.Value, js_ast.PrecComma, flags)
		}
	}
}

// The first part of a "for" loop can't contain a bare "in"
func (p *printer) printForInit(init js_ast.Stmt) {
	switch s := init.Data.(type) {
	case *js_ast.SLocal:
		p.printLocal(s, forbidIn)
	case *js_ast.SExpr:
		p.forInitStart = len(p.js)
		p.printExpr(s.Value, js_ast.PrecLowest, forbidIn)
	}
}

// Reports whether "else" after this statement would attach to an "if"
// inside of it
func endsWithIfWithoutElse(stmt js_ast.Stmt) bool {
	for {
		switch s := stmt.Data.(type) {
		case *js_ast.SIf:
			if s.No == nil {
				return true
			}
			stmt = *s.No
		case *js_ast.SFor:
			stmt = s.Body
		case *js_ast.SForEach:
			stmt = s.Body
		case *js_ast.SWhile:
			stmt = s.Body
		case *js_ast.SLabel:
			stmt = s.Stmt
		default:
			return false
		}
	}
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.printWord("if")
	p.printSpace()
	p.print("(")
	p.printExpr(s.Test, js_ast.PrecLowest, 0)
	p.print(")")

	yes := s.Yes
	if s.No != nil && endsWithIfWithoutElse(yes) {
		yes = js_ast.Stmt{Loc: yes.Loc, Data: &js_ast.SBlock{Stmts: []js_ast.Stmt{yes}}}
	}

	if block, ok := yes.Data.(*js_ast.SBlock); ok {
		p.printSpace()
		p.printBlock(block.Stmts)
		if s.No == nil {
			p.printNewline()
			return
		}
		p.printSpace()
	} else {
		p.printBody(yes)
		if s.No == nil {
			return
		}
		p.printIndent()
	}

	p.printWord("else")
	if elseIf, ok := s.No.Data.(*js_ast.SIf); ok {
		p.print(" ")
		p.printIf(elseIf)
		return
	}
	p.printBody(*s.No)
}

func (p *printer) printSwitch(s *js_ast.SSwitch) {
	p.printWord("switch")
	p.printSpace()
	p.print("(")
	p.printExpr(s.Test, js_ast.PrecLowest, 0)
	p.print(")")
	p.printSpace()
	p.print("{")
	p.printNewline()
	p.indent++

	for _, c := range s.Cases {
		p.printIndent()
		if c.Value != nil {
			p.printWord("case")
			p.printSpace()
			p.printExpr(*c.Value, js_ast.PrecLowest, 0)
		} else {
			p.printWord("default")
		}
		p.print(":")

		if len(c.Body) == 1 {
			if block, ok := c.Body[0].Data.(*js_ast.SBlock); ok {
				p.printSpace()
				p.printBlock(block.Stmts)
				p.printNewline()
				continue
			}
		}

		p.printNewline()
		p.indent++
		for _, stmt := range c.Body {
			p.printStmt(stmt)
		}
		p.indent--
	}

	p.indent--
	p.printIndent()
	p.printCloseBrace()
	p.printNewline()
}

func (p *printer) printClause(items []js_ast.ClauseItem) {
	p.print("{")
	for i, item := range items {
		if i > 0 {
			p.print(",")
		}
		p.printSpace()
		p.printWord(item.Name)
		if item.Alias != "" {
			p.print(" as ")
			p.print(item.Alias)
		}
	}
	if len(items) > 0 {
		p.printSpace()
	}
	p.print("}")
}

func (p *printer) printFrom(path string) {
	p.printSpace()
	p.printWord("from")
	p.printSpace()
	p.print(path)
}

func (p *printer) printImport(s *js_ast.SImport) {
	p.printWord("import")
	if s.Default == nil && s.Star == nil && s.Items == nil {
		p.printSpace()
		p.print(s.Path)
		p.printSemicolonAfterStatement()
		return
	}

	p.print(" ")
	if s.Default != nil {
		p.printWord(s.Default.Name)
		if s.Star != nil || s.Items != nil {
			p.print(",")
			p.printSpace()
		}
	}
	if s.Star != nil {
		p.print("*")
		p.printSpace()
		p.print("as ")
		p.print(s.Star.Name)
	}
	if s.Items != nil {
		p.printClause(*s.Items)
	}
	p.printFrom(s.Path)
	p.printSemicolonAfterStatement()
}

func (p *printer) printExportList(s *js_ast.SExportList) {
	p.printWord("export")
	p.printSpace()
	if s.IsStar {
		p.print("*")
		if s.Alias != "" {
			p.printSpace()
			p.print("as ")
			p.print(s.Alias)
		}
	} else {
		p.printClause(s.Items)
	}
	if s.Path != "" {
		p.printFrom(s.Path)
	}
	p.printSemicolonAfterStatement()
}
