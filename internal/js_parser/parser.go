package js_parser

// This is a recursive descent parser with precedence climbing for binary
// operators. It stops at the first syntax error: the error is logged and the
// parse is abandoned by panicking with "js_lexer.LexerPanic", which "Parse"
// recovers from.
//
// There is no scope analysis. The tree only has to be good enough to find
// every class and every use of a private name, and to be printed back.

import (
	"fmt"

	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/js_lexer"
	"github.com/unprivate/unprivate/internal/logger"
)

// The function whose body is being parsed decides what "await" and "yield"
// mean
type fnContext struct {
	isAsync     bool
	isGenerator bool
}

type parser struct {
	log    logger.Log
	source logger.Source
	lexer  *js_lexer.Lexer
	fn     fnContext

	// Cleared while parsing the head of a "for" loop, where "in" ends the
	// expression instead of being an operator
	allowIn bool
}

// Parse returns the syntax tree for "source". When "ok" is false an error
// was written to "log" and the tree must not be used.
func Parse(log logger.Log, source logger.Source) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:    log,
		source: source,
		lexer:  js_lexer.NewLexer(log, source),

		// Files are parsed as modules, where "await" may appear at the top level
		fn:      fnContext{isAsync: true},
		allowIn: true,
	}
	result.Hashbang = p.lexer.Hashbang
	result.Stmts = p.parseStmtsUntil("", true)
	return
}

func (p *parser) failAt(r logger.Range, text string) {
	p.log.AddRangeError(&p.source, r, text)
	panic(js_lexer.LexerPanic{})
}

// lookahead calls "check" with the lexer on the next token and then puts the
// lexer back where it was
func (p *parser) lookahead(check func() bool) bool {
	saved := *p.lexer
	p.lexer.Next()
	result := check()
	*p.lexer = saved
	return result
}

func (p *parser) isIdentifier() bool {
	return p.lexer.Kind == js_lexer.TIdentifier && (p.lexer.Escaped || !js_lexer.IsReservedWord(p.lexer.Text))
}

func (p *parser) parseIdent() js_ast.Ident {
	if !p.isIdentifier() {
		p.lexer.Expected("identifier")
	}
	ident := js_ast.Ident{Loc: p.lexer.Loc(), Name: p.lexer.Text}
	p.lexer.Next()
	return ident
}

////////////////////////////////////////////////////////////////////////////////
// Statements

// Parses statements up to the punctuator "end", or to the end of the file
// when "end" is empty. Top-level statement lists are the only ones where
// import and export declarations are allowed.
func (p *parser) parseStmtsUntil(end string, isTopLevel bool) []js_ast.Stmt {
	var stmts []js_ast.Stmt
	directives := true

	for {
		if end == "" && p.lexer.Kind == js_lexer.TEndOfFile {
			break
		}
		if end != "" && p.lexer.Is(end) {
			break
		}
		if p.lexer.Kind == js_lexer.TEndOfFile {
			p.lexer.Expected(fmt.Sprintf("%q", end))
		}

		stmt := p.parseStmt(isTopLevel)

		// A string on its own at the start of a body is a directive such as
		// "use strict". Anything else ends the prologue.
		if directives {
			if s, ok := stmt.Data.(*js_ast.SExpr); ok {
				if str, ok := s.Value.Data.(*js_ast.EString); ok && str.Raw != "" && s.Value.Loc == stmt.Loc {
					stmt.Data = &js_ast.SDirective{Raw: str.Raw}
					stmts = append(stmts, stmt)
					continue
				}
			}
			directives = false
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *parser) parseBlockBody() []js_ast.Stmt {
	p.lexer.Expect("{")
	stmts := p.parseStmtsUntil("}", false)
	p.lexer.Next()
	return stmts
}

func (p *parser) parseParenTest() js_ast.Expr {
	p.lexer.Expect("(")
	test := p.parseNestedExpr(js_ast.PrecLowest)
	p.lexer.Expect(")")
	return test
}

func (p *parser) parseStmt(isTopLevel bool) js_ast.Stmt {
	loc := p.lexer.Loc()

	if p.lexer.Is(";") {
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}
	}
	if p.lexer.Is("{") {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: p.parseBlockBody()}}
	}

	if p.lexer.Kind == js_lexer.TIdentifier && !p.lexer.Escaped {
		switch p.lexer.Text {
		case "var":
			p.lexer.Next()
			return p.parseLocalStmt(loc, js_ast.LocalVar)

		case "const":
			p.lexer.Next()
			return p.parseLocalStmt(loc, js_ast.LocalConst)

		case "let":
			if p.lookahead(p.startsLetDecl) {
				p.lexer.Next()
				return p.parseLocalStmt(loc, js_ast.LocalLet)
			}

		case "function":
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: p.parseFnDecl(false, false)}}

		case "async":
			if p.lookahead(func() bool { return p.lexer.IsWord("function") && !p.lexer.NewlineBefore }) {
				p.lexer.Next()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: p.parseFnDecl(true, false)}}
			}

		case "class":
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: p.parseClass(false)}}

		case "if":
			p.lexer.Next()
			test := p.parseParenTest()
			yes := p.parseStmt(false)
			var no *js_ast.Stmt
			if p.lexer.IsWord("else") {
				p.lexer.Next()
				stmt := p.parseStmt(false)
				no = &stmt
			}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, No: no}}

		case "for":
			return p.parseForStmt(loc)

		case "while":
			p.lexer.Next()
			test := p.parseParenTest()
			body := p.parseStmt(false)
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

		case "do":
			p.lexer.Next()
			body := p.parseStmt(false)
			p.lexer.ExpectWord("while")
			test := p.parseParenTest()

			// The semicolon after "do-while" is always optional
			p.lexer.Eat(";")
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

		case "try":
			return p.parseTryStmt(loc)

		case "switch":
			return p.parseSwitchStmt(loc)

		case "return":
			p.lexer.Next()
			var value *js_ast.Expr
			if !p.lexer.Is(";") && !p.lexer.Is("}") && !p.lexer.NewlineBefore && p.lexer.Kind != js_lexer.TEndOfFile {
				expr := p.parseExpr(js_ast.PrecLowest)
				value = &expr
			}
			p.lexer.ExpectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{Value: value}}

		case "throw":
			p.lexer.Next()
			if p.lexer.NewlineBefore {
				p.lexer.Fail(`Unexpected newline after "throw"`)
			}
			value := p.parseExpr(js_ast.PrecLowest)
			p.lexer.ExpectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: value}}

		case "break", "continue":
			isContinue := p.lexer.Text == "continue"
			p.lexer.Next()
			var label *js_ast.Ident
			if p.isIdentifier() && !p.lexer.NewlineBefore {
				name := p.parseIdent()
				label = &name
			}
			p.lexer.ExpectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SJump{IsContinue: isContinue, Label: label}}

		case "debugger":
			p.lexer.Next()
			p.lexer.ExpectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

		case "with":
			p.lexer.Fail("With statements are not supported")

		case "import":
			if isTopLevel && !p.lookahead(func() bool { return p.lexer.Is("(") || p.lexer.Is(".") }) {
				return p.parseImportStmt(loc)
			}

		case "export":
			if !isTopLevel {
				p.lexer.Unexpected()
			}
			return p.parseExportStmt(loc)
		}
	}

	expr := p.parseExpr(js_ast.PrecLowest)

	// "a: stmt"
	if id, ok := expr.Data.(*js_ast.EIdentifier); ok && p.lexer.Is(":") {
		p.lexer.Next()
		stmt := p.parseStmt(false)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: js_ast.Ident{Loc: expr.Loc, Name: id.Name}, Stmt: stmt}}
	}

	p.lexer.ExpectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
}

// "let" starts a declaration only when a binding follows it
func (p *parser) startsLetDecl() bool {
	if p.lexer.Is("[") || p.lexer.Is("{") {
		return true
	}
	return p.lexer.Kind == js_lexer.TIdentifier && !p.lexer.IsWord("in") && !p.lexer.IsWord("instanceof")
}

func (p *parser) parseLocalStmt(loc logger.Loc, kind js_ast.LocalKind) js_ast.Stmt {
	decls := p.parseDecls()
	if kind == js_ast.LocalConst {
		p.requireInitializers(decls)
	}
	p.lexer.ExpectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: kind, Decls: decls}}
}

func (p *parser) parseDecls() []js_ast.Decl {
	var decls []js_ast.Decl
	for {
		decl := js_ast.Decl{Binding: p.parseBinding()}
		if p.lexer.Eat("=") {
			value := p.parseExpr(js_ast.PrecComma)
			decl.Value = &value
		}
		decls = append(decls, decl)
		if !p.lexer.Eat(",") {
			return decls
		}
	}
}

func (p *parser) requireInitializers(decls []js_ast.Decl) {
	for _, decl := range decls {
		if decl.Value != nil {
			continue
		}
		r := logger.Range{Loc: decl.Binding.Loc}
		if id, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok {
			r.Len = int32(len(id.Name))
			p.failAt(r, fmt.Sprintf("The constant %q must be initialized", id.Name))
		}
		p.failAt(r, "This constant must be initialized")
	}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	isAwait := false
	if p.lexer.IsWord("await") {
		if !p.fn.isAsync {
			p.lexer.Unexpected()
		}
		isAwait = true
		p.lexer.Next()
	}
	p.lexer.Expect("(")

	// "in" is the start of a for-in loop here, not an operator
	oldAllowIn := p.allowIn
	p.allowIn = false

	var init *js_ast.Stmt
	var decls []js_ast.Decl
	initLoc := p.lexer.Loc()
	kind := js_ast.LocalVar
	isDecl := false

	switch {
	case p.lexer.Is(";"):

	case p.lexer.IsWord("var"), p.lexer.IsWord("const"),
		p.lexer.IsWord("let") && p.lookahead(p.startsLetDecl):
		switch p.lexer.Text {
		case "let":
			kind = js_ast.LocalLet
		case "const":
			kind = js_ast.LocalConst
		}
		isDecl = true
		p.lexer.Next()
		decls = p.parseDecls()
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: kind, Decls: decls}}

	default:
		expr := p.parseExpr(js_ast.PrecLowest)
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: expr}}
	}
	p.allowIn = oldAllowIn

	// "for (a of b)" and "for (a in b)"
	if init != nil && (p.lexer.IsWord("of") || p.lexer.IsWord("in")) {
		isOf := p.lexer.Text == "of"
		loopType := "for-in"
		if isOf {
			loopType = "for-of"
		}
		if isDecl {
			if len(decls) != 1 {
				p.failAt(logger.Range{Loc: initLoc}, fmt.Sprintf("%s loops must have a single declaration", loopType))
			}
			if decls[0].Value != nil {
				p.failAt(logger.Range{Loc: decls[0].Binding.Loc}, fmt.Sprintf("%s loop variables cannot have an initializer", loopType))
			}
		} else {
			p.checkAssignTarget(init.Data.(*js_ast.SExpr).Value, "=")
		}
		p.lexer.Next()

		var value js_ast.Expr
		if isOf {
			value = p.parseNestedExpr(js_ast.PrecComma)
		} else {
			value = p.parseNestedExpr(js_ast.PrecLowest)
		}
		p.lexer.Expect(")")
		body := p.parseStmt(false)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForEach{Init: *init, Value: value, Body: body, IsOf: isOf, IsAwait: isAwait}}
	}

	if isAwait {
		p.lexer.Expected(`"of"`)
	}
	if isDecl && kind == js_ast.LocalConst {
		p.requireInitializers(decls)
	}
	p.lexer.Expect(";")

	var test, update *js_ast.Expr
	if !p.lexer.Is(";") {
		expr := p.parseNestedExpr(js_ast.PrecLowest)
		test = &expr
	}
	p.lexer.Expect(";")
	if !p.lexer.Is(")") {
		expr := p.parseNestedExpr(js_ast.PrecLowest)
		update = &expr
	}
	p.lexer.Expect(")")
	body := p.parseStmt(false)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{Init: init, Test: test, Update: update, Body: body}}
}

func (p *parser) parseTryStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	try := &js_ast.STry{Body: p.parseBlockBody()}

	if p.lexer.IsWord("catch") {
		p.lexer.Next()
		try.Catch = &js_ast.Catch{}
		if p.lexer.Eat("(") {
			binding := p.parseBinding()
			try.Catch.Binding = &binding
			p.lexer.Expect(")")
		}
		try.Catch.Body = p.parseBlockBody()
	}

	if p.lexer.IsWord("finally") {
		p.lexer.Next()
		body := p.parseBlockBody()
		try.Finally = &body
	}

	if try.Catch == nil && try.Finally == nil {
		p.lexer.Expected(`"finally"`)
	}
	return js_ast.Stmt{Loc: loc, Data: try}
}

func (p *parser) parseSwitchStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	s := &js_ast.SSwitch{Test: p.parseParenTest()}
	p.lexer.Expect("{")
	hasDefault := false

	for !p.lexer.Is("}") {
		var c js_ast.Case
		switch {
		case p.lexer.IsWord("case"):
			p.lexer.Next()
			value := p.parseNestedExpr(js_ast.PrecLowest)
			c.Value = &value

		case p.lexer.IsWord("default"):
			if hasDefault {
				p.lexer.Fail("Multiple default clauses are not allowed")
			}
			hasDefault = true
			p.lexer.Next()

		default:
			p.lexer.Expected(`"case"`)
		}
		p.lexer.Expect(":")

		for !p.lexer.Is("}") && !p.lexer.IsWord("case") && !p.lexer.IsWord("default") {
			if p.lexer.Kind == js_lexer.TEndOfFile {
				p.lexer.Expected(`"}"`)
			}
			c.Body = append(c.Body, p.parseStmt(false))
		}
		s.Cases = append(s.Cases, c)
	}

	p.lexer.Next()
	return js_ast.Stmt{Loc: loc, Data: s}
}

////////////////////////////////////////////////////////////////////////////////
// Imports and exports

// Import paths are kept as written, quotes included
func (p *parser) parsePath() string {
	if p.lexer.Kind != js_lexer.TString {
		p.lexer.Expected("string")
	}
	path := p.lexer.Raw()
	p.lexer.Next()
	return path
}

// Names in import and export clauses may be keywords, as in "a as default"
func (p *parser) parseClauseName() string {
	if p.lexer.Kind != js_lexer.TIdentifier {
		p.lexer.Expected("identifier")
	}
	name := p.lexer.Text
	p.lexer.Next()
	return name
}

func (p *parser) parseClause() []js_ast.ClauseItem {
	p.lexer.Expect("{")
	var items []js_ast.ClauseItem
	for !p.lexer.Is("}") {
		item := js_ast.ClauseItem{Name: p.parseClauseName()}
		if p.lexer.IsWord("as") {
			p.lexer.Next()
			item.Alias = p.parseClauseName()
		}
		items = append(items, item)
		if !p.lexer.Eat(",") {
			break
		}
	}
	p.lexer.Expect("}")
	return items
}

func (p *parser) parseImportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	s := &js_ast.SImport{}

	if p.lexer.Kind == js_lexer.TString {
		s.Path = p.parsePath()
		p.lexer.ExpectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: s}
	}

	if p.isIdentifier() {
		name := p.parseIdent()
		s.Default = &name
		if !p.lexer.Eat(",") {
			p.lexer.ExpectWord("from")
			s.Path = p.parsePath()
			p.lexer.ExpectSemicolon()
			return js_ast.Stmt{Loc: loc, Data: s}
		}
	}

	switch {
	case p.lexer.Is("*"):
		p.lexer.Next()
		p.lexer.ExpectWord("as")
		name := p.parseIdent()
		s.Star = &name

	case p.lexer.Is("{"):
		items := p.parseClause()
		s.Items = &items

	default:
		p.lexer.Unexpected()
	}

	p.lexer.ExpectWord("from")
	s.Path = p.parsePath()
	p.lexer.ExpectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: s}
}

func (p *parser) parseExportStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	switch {
	case p.lexer.Is("*"):
		p.lexer.Next()
		s := &js_ast.SExportList{IsStar: true}
		if p.lexer.IsWord("as") {
			p.lexer.Next()
			s.Alias = p.parseClauseName()
		}
		p.lexer.ExpectWord("from")
		s.Path = p.parsePath()
		p.lexer.ExpectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: s}

	case p.lexer.Is("{"):
		s := &js_ast.SExportList{Items: p.parseClause()}
		if p.lexer.IsWord("from") {
			p.lexer.Next()
			s.Path = p.parsePath()
		}
		p.lexer.ExpectSemicolon()
		return js_ast.Stmt{Loc: loc, Data: s}

	case p.lexer.IsWord("default"):
		return p.parseExportDefault(loc)

	case p.lexer.IsWord("var"), p.lexer.IsWord("let"), p.lexer.IsWord("const"):
		kind := map[string]js_ast.LocalKind{"var": js_ast.LocalVar, "let": js_ast.LocalLet, "const": js_ast.LocalConst}[p.lexer.Text]
		p.lexer.Next()
		stmt := p.parseLocalStmt(loc, kind)
		stmt.Data.(*js_ast.SLocal).IsExport = true
		return stmt

	case p.lexer.IsWord("function"):
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: p.parseFnDecl(false, false), IsExport: true}}

	case p.lexer.IsWord("async"):
		p.lexer.Next()
		if !p.lexer.IsWord("function") || p.lexer.NewlineBefore {
			p.lexer.Expected(`"function"`)
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: p.parseFnDecl(true, false), IsExport: true}}

	case p.lexer.IsWord("class"):
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: p.parseClass(false), IsExport: true}}
	}

	p.lexer.Unexpected()
	return js_ast.Stmt{}
}

// Functions and classes after "export default" are declarations with an
// optional name. Everything else is an expression.
func (p *parser) parseExportDefault(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	declLoc := p.lexer.Loc()
	var decl *js_ast.Stmt

	switch {
	case p.lexer.IsWord("function"):
		decl = &js_ast.Stmt{Loc: declLoc, Data: &js_ast.SFunction{Fn: p.parseFnDecl(false, true)}}

	case p.lexer.IsWord("async") && p.lookahead(func() bool { return p.lexer.IsWord("function") && !p.lexer.NewlineBefore }):
		p.lexer.Next()
		decl = &js_ast.Stmt{Loc: declLoc, Data: &js_ast.SFunction{Fn: p.parseFnDecl(true, true)}}

	case p.lexer.IsWord("class"):
		decl = &js_ast.Stmt{Loc: declLoc, Data: &js_ast.SClass{Class: p.parseClass(true)}}
	}

	if decl != nil {
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Stmt: decl}}
	}

	expr := p.parseExpr(js_ast.PrecComma)
	p.lexer.ExpectSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{Expr: &expr}}
}
