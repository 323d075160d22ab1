package js_printer

import (
	"strings"

	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/js_lexer"
)

type printFlags uint8

const (
	// "in" must be parenthesized inside the first part of a "for" loop
	forbidIn printFlags = 1 << iota

	// The target of "new" can't contain a call, since the first argument
	// list would belong to the "new"
	forbidCall
)

func (p *printer) printExprs(exprs []js_ast.Expr) {
	for i, expr := range exprs {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		p.printExpr(expr, js_ast.PrecComma, 0)
	}
}

// Reports whether "stmtStart", "exportDefaultStart" or "arrowBodyStart" is
// where the expression about to be printed begins
func (p *printer) atStmtStart() bool {
	return len(p.js) == p.stmtStart
}

func (p *printer) atExportDefaultStart() bool {
	return len(p.js) == p.exportDefaultStart
}

func (p *printer) atArrowBodyStart() bool {
	return len(p.js) == p.arrowBodyStart
}

// Number literals made of digits alone take the following "." as a decimal
// point, so "1 .x" needs its space
func isDigitsOnly(raw string) bool {
	return strings.Trim(raw, "0123456789_") == ""
}

// Prints the target of a member access or a call. A chain that the parser
// saw end at a closing parenthesis must keep it.
func (p *printer) printTarget(target js_ast.Expr, chain js_ast.OptionalChain, flags printFlags) {
	if chain == js_ast.OptionalChainNone && js_ast.IsOptionalChain(target) {
		p.print("(")
		p.printExpr(target, js_ast.PrecLowest, 0)
		p.print(")")
		return
	}
	p.printExpr(target, js_ast.PrecPostfix, flags&forbidCall)
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.Prec, flags printFlags) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EThis:
		p.printWord("this")

	case *js_ast.ESuper:
		p.printWord("super")

	case *js_ast.ENull:
		p.printWord("null")

	case *js_ast.ENewTarget:
		p.printWord("new.target")

	case *js_ast.EImportMeta:
		p.printWord("import.meta")

	case *js_ast.EBoolean:
		if e.Value {
			p.printWord("true")
		} else {
			p.printWord("false")
		}

	case *js_ast.EIdentifier:
		// "let [a] = b" is a declaration and "for (async of b)" is the start
		// of an arrow function
		wrap := (p.atStmtStart() || len(p.js) == p.forInitStart) && e.Name == "let" ||
			len(p.js) == p.forInitStart && e.Name == "async"
		if wrap {
			p.print("(")
		}
		p.printWord(e.Name)
		if wrap {
			p.print(")")
		}

	case *js_ast.EPrivateIdentifier:
		p.print(e.Name)

	case *js_ast.ENumber:
		p.printWord(e.Raw)

	case *js_ast.EBigInt:
		p.printWord(e.Raw)

	case *js_ast.ERegExp:
		if n := len(p.js); n > 0 && p.js[n-1] == '/' {
			p.print(" ")
		}
		p.printWord(e.Raw)
		p.regExpEnd = len(p.js)

	case *js_ast.EString:
		if e.Raw != "" {
			p.print(e.Raw)
		} else {
			p.printQuotedString(e.Value)
		}

	case *js_ast.ETemplate:
		if e.Tag != nil {
			p.printTarget(*e.Tag, js_ast.OptionalChainNone, 0)
		}
		p.print("`")
		p.print(e.Head)
		for _, part := range e.Parts {
			p.print("${")
			p.printExpr(part.Value, js_ast.PrecLowest, 0)
			p.print("}")
			p.print(part.Tail)
		}
		p.print("`")

	case *js_ast.EArray:
		p.print("[")
		p.printExprs(e.Items)

		// A hole at the end needs its own comma
		if n := len(e.Items); n > 0 {
			if _, ok := e.Items[n-1].Data.(*js_ast.EMissing); ok {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.EObject:
		wrap := p.atStmtStart() || p.atArrowBodyStart()
		if wrap {
			p.print("(")
		}
		p.printObject(e)
		if wrap {
			p.print(")")
		}

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.PrecComma, 0)

	case *js_ast.EUnary:
		p.printUnary(e, level, flags)

	case *js_ast.EBinary:
		p.printBinary(e, level, flags)

	case *js_ast.ECond:
		wrap := level >= js_ast.PrecConditional
		if wrap {
			p.print("(")
			flags &^= forbidIn
		}
		p.printExpr(e.Test, js_ast.PrecConditional, flags&forbidIn)
		p.printSpace()
		p.print("?")
		p.printSpace()
		p.printExpr(e.Yes, js_ast.PrecYield, 0)
		p.printSpace()
		p.print(":")
		p.printSpace()
		p.printExpr(e.No, js_ast.PrecYield, flags&forbidIn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		p.printTarget(e.Target, e.OptionalChain, flags)
		if number, ok := e.Target.Data.(*js_ast.ENumber); ok && isDigitsOnly(number.Raw) {
			p.print(" ")
		}
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}
		if js_lexer.IsIdentifier(e.Name) {
			if e.OptionalChain != js_ast.OptionalChainStart {
				p.print(".")
			}
			p.print(e.Name)
		} else {
			p.print("[")
			p.printQuotedString(e.Name)
			p.print("]")
		}

	case *js_ast.EIndex:
		p.printTarget(e.Target, e.OptionalChain, flags)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}
		if private, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			if e.OptionalChain != js_ast.OptionalChainStart {
				p.print(".")
			}
			p.print(private.Name)
		} else {
			p.print("[")
			p.printExpr(e.Index, js_ast.PrecLowest, 0)
			p.print("]")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.PrecCall || flags&forbidCall != 0
		if wrap {
			p.print("(")
		}
		p.printTarget(e.Target, e.OptionalChain, 0)
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}
		p.print("(")
		p.printExprs(e.Args)
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.ENew:
		p.printWord("new")
		p.print(" ")
		if js_ast.IsOptionalChain(e.Target) {
			p.print("(")
			p.printExpr(e.Target, js_ast.PrecLowest, 0)
			p.print(")")
		} else {
			p.printExpr(e.Target, js_ast.PrecNew, forbidCall)
		}
		p.print("(")
		p.printExprs(e.Args)
		p.print(")")

	case *js_ast.EImport:
		p.printWord("import")
		p.print("(")
		p.printExpr(e.Path, js_ast.PrecComma, 0)
		p.print(")")

	case *js_ast.EAwait:
		wrap := level >= js_ast.PrecPrefix
		if wrap {
			p.print("(")
		}
		p.printWord("await")
		p.printSpace()
		p.printExpr(e.Value, js_ast.PrecPrefix-1, 0)
		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.PrecAssign
		if wrap {
			p.print("(")
		}
		p.printWord("yield")
		if e.Delegate {
			p.print("*")
		}
		if e.Value != nil {
			p.printSpace()
			p.printExpr(*e.Value, js_ast.PrecYield, 0)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		wrap := p.atStmtStart() || p.atExportDefaultStart()
		if wrap {
			p.print("(")
		}
		p.printFn(&e.Fn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		wrap := p.atStmtStart() || p.atExportDefaultStart()
		if wrap {
			p.print("(")
		}
		p.printClass(&e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.PrecAssign
		if wrap {
			p.print("(")
		}
		p.printArrow(e, flags)
		if wrap {
			p.print(")")
		}

	default:
		panic("Internal error: unexpected expression")
	}
}

func (p *printer) printUnary(e *js_ast.EUnary, level js_ast.Prec, flags printFlags) {
	prec := js_ast.PrecPrefix
	if e.Postfix {
		prec = js_ast.PrecPostfix
	}
	wrap := level >= prec
	if wrap {
		p.print("(")
	}

	if e.Postfix {
		p.printExpr(e.Value, js_ast.PrecPostfix-1, 0)
		p.printOp(e.Op)
	} else {
		if js_lexer.IsIdentifierStart(rune(e.Op[0])) {
			p.printWord(e.Op)
			p.printSpace()
		} else {
			p.printOp(e.Op)
		}
		p.printExpr(e.Value, js_ast.PrecPrefix-1, 0)
	}

	if wrap {
		p.print(")")
	}
}

func isLogical(op string) bool {
	return op == "||" || op == "&&"
}

func (p *printer) printBinary(e *js_ast.EBinary, level js_ast.Prec, flags printFlags) {
	prec := js_ast.BinaryPrec[e.Op]
	wrap := level >= prec || (e.Op == "in" && flags&forbidIn != 0)

	// "({} = x)" can't lose its parentheses, unlike "({}).x"
	if e.Op == "=" && (p.atStmtStart() || p.atArrowBodyStart()) {
		if _, ok := e.Left.Data.(*js_ast.EObject); ok {
			wrap = true
		}
	}
	if wrap {
		p.print("(")
		flags &^= forbidIn
	}

	leftLevel, rightLevel := prec-1, prec
	if js_ast.IsRightAssociative(e.Op) {
		leftLevel, rightLevel = prec, prec-1
	}

	// "??" can't be mixed with "||" or "&&" without parentheses
	if child, ok := e.Left.Data.(*js_ast.EBinary); ok && (e.Op == "??" && isLogical(child.Op) || isLogical(e.Op) && child.Op == "??") {
		leftLevel = js_ast.PrecPrefix
	}
	if child, ok := e.Right.Data.(*js_ast.EBinary); ok && (e.Op == "??" && isLogical(child.Op) || isLogical(e.Op) && child.Op == "??") {
		rightLevel = js_ast.PrecPrefix
	}

	// "-a ** b" is a syntax error
	if e.Op == "**" {
		switch left := e.Left.Data.(type) {
		case *js_ast.EUnary:
			if !left.Postfix {
				leftLevel = js_ast.PrecCall
			}
		case *js_ast.EAwait:
			leftLevel = js_ast.PrecCall
		}
	}

	p.printExpr(e.Left, leftLevel, flags&forbidIn)

	switch e.Op {
	case ",":
		p.print(",")
		p.printSpace()
	case "in", "instanceof":
		p.printSpace()
		p.printWord(e.Op)
		p.printSpace()
	default:
		p.printSpace()
		p.printOp(e.Op)
		p.printSpace()
	}

	p.printExpr(e.Right, rightLevel, flags&forbidIn)

	if wrap {
		p.print(")")
	}
}

////////////////////////////////////////////////////////////////////////////////
// Functions and classes

func (p *printer) printArgs(args []js_ast.Arg, hasRest bool) {
	p.print("(")
	for i, arg := range args {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		if hasRest && i+1 == len(args) {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		if arg.Default != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(*arg.Default, js_ast.PrecComma, 0)
		}
	}
	p.print(")")
}

func (p *printer) printFn(fn *js_ast.Fn) {
	if fn.IsAsync {
		p.printWord("async")
		p.print(" ")
	}
	p.printWord("function")
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		if !fn.IsGenerator {
			p.print(" ")
		} else {
			p.printSpace()
		}
		p.printWord(fn.Name.Name)
	}
	p.printArgs(fn.Args, fn.HasRestArg)
	p.printSpace()
	p.printBlock(fn.Body)
}

func (p *printer) printArrow(e *js_ast.EArrow, flags printFlags) {
	if e.IsAsync {
		p.printWord("async")
		p.printSpace()
	}

	// "a => a" only when minifying, to keep the arguments easy to read
	bare := false
	if p.options.MinifyWhitespace && len(e.Args) == 1 && !e.HasRestArg && e.Args[0].Default == nil {
		_, bare = e.Args[0].Binding.Data.(*js_ast.BIdentifier)
	}
	if bare {
		p.printBinding(e.Args[0].Binding)
	} else {
		p.printArgs(e.Args, e.HasRestArg)
	}

	p.printSpace()
	p.print("=>")
	p.printSpace()

	if e.ExprBody {
		if ret, ok := e.Body[0].Data.(*js_ast.SReturn); ok && len(e.Body) == 1 && ret.Value != nil {
			p.arrowBodyStart = len(p.js)
			p.printExpr(*ret.Value, js_ast.PrecComma, flags&forbidIn)
			return
		}
	}
	p.printBlock(e.Body)
}

func (p *printer) printClass(class *js_ast.Class) {
	p.printWord("class")
	if class.Name != nil {
		p.print(" ")
		p.printWord(class.Name.Name)
	}
	if class.Extends != nil {
		p.print(" ")
		p.printWord("extends")
		p.print(" ")
		p.printExpr(*class.Extends, js_ast.PrecPostfix, 0)
	}
	p.printSpace()

	p.print("{")
	p.printNewline()
	p.indent++
	for i := range class.Properties {
		property := &class.Properties[i]
		p.printIndent()
		p.printProperty(property)

		// Fields end with a semicolon, methods and blocks don't
		if property.Kind == js_ast.PropertyNormal && !property.IsMethod && property.Value == nil {
			p.printSemicolonAfterStatement()
		} else {
			p.printNewline()
		}
	}
	p.indent--
	p.printIndent()
	p.printCloseBrace()
}

func (p *printer) printObject(e *js_ast.EObject) {
	if len(e.Properties) == 0 {
		p.print("{}")
		return
	}
	p.print("{")
	p.printSpace()
	for i := range e.Properties {
		if i > 0 {
			p.print(",")
			p.printSpace()
		}
		p.printProperty(&e.Properties[i])
	}
	p.printSpace()
	p.print("}")
}

func (p *printer) printPropertyKey(key js_ast.Expr, isComputed bool) {
	if isComputed {
		p.print("[")
		p.printExpr(key, js_ast.PrecComma, 0)
		p.print("]")
		return
	}

	switch k := key.Data.(type) {
	case *js_ast.EString:
		switch {
		case k.Raw != "":
			p.print(k.Raw)
		case js_lexer.IsIdentifier(k.Value):
			p.printWord(k.Value)
		default:
			p.printQuotedString(k.Value)
		}
	default:
		p.printExpr(key, js_ast.PrecLowest, 0)
	}
}

// Prints a member of an object literal or a class body
func (p *printer) printProperty(property *js_ast.Property) {
	switch property.Kind {
	case js_ast.PropertySpread:
		p.print("...")
		p.printExpr(*property.Value, js_ast.PrecComma, 0)
		return

	case js_ast.PropertyStaticBlock:
		p.printWord("static")
		p.printSpace()
		p.printBlock(property.Body)
		return
	}

	if property.IsStatic {
		p.printWord("static")
		p.print(" ")
	}

	if fn, ok := propertyFn(property); ok {
		switch property.Kind {
		case js_ast.PropertyGet:
			p.printWord("get")
			p.print(" ")
		case js_ast.PropertySet:
			p.printWord("set")
			p.print(" ")
		}
		if fn.IsAsync {
			p.printWord("async")
			p.print(" ")
		}
		if fn.IsGenerator {
			p.print("*")
		}
		p.printPropertyKey(property.Key, property.IsComputed)
		p.printArgs(fn.Args, fn.HasRestArg)
		p.printSpace()
		p.printBlock(fn.Body)
		return
	}

	// "{a}" stays short as long as the name still matches
	if property.IsShorthand && property.Value != nil {
		if id, ok := property.Value.Data.(*js_ast.EIdentifier); ok {
			if key, ok := property.Key.Data.(*js_ast.EString); ok && key.Value == id.Name {
				p.printWord(id.Name)
				if property.Initializer != nil {
					p.printSpace()
					p.print("=")
					p.printSpace()
					p.printExpr(*property.Initializer, js_ast.PrecComma, 0)
				}
				return
			}
		}
	}

	p.printPropertyKey(property.Key, property.IsComputed)
	if property.Value != nil {
		p.print(":")
		p.printSpace()
		p.printExpr(*property.Value, js_ast.PrecComma, 0)
	}
	if property.Initializer != nil {
		p.printSpace()
		p.print("=")
		p.printSpace()
		p.printExpr(*property.Initializer, js_ast.PrecComma, 0)
	}
}

// Methods and accessors keep their function in the property value
func propertyFn(property *js_ast.Property) (*js_ast.Fn, bool) {
	if !property.IsMethod && property.Kind != js_ast.PropertyGet && property.Kind != js_ast.PropertySet {
		return nil, false
	}
	if fn, ok := property.Value.Data.(*js_ast.EFunction); ok {
		return &fn.Fn, true
	}
	return nil, false
}

////////////////////////////////////////////////////////////////////////////////
// Bindings

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.printWord(b.Name)

	case *js_ast.BArray:
		p.print("[")
		for i, item := range b.Items {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			if b.HasSpread && i+1 == len(b.Items) {
				p.print("...")
			}
			p.printBinding(item.Binding)
			if item.Default != nil {
				p.printSpace()
				p.print("=")
				p.printSpace()
				p.printExpr(*item.Default, js_ast.PrecComma, 0)
			}
		}
		if n := len(b.Items); n > 0 {
			if _, ok := b.Items[n-1].Binding.Data.(*js_ast.BMissing); ok {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.BObject:
		if len(b.Properties) == 0 {
			p.print("{}")
			return
		}
		p.print("{")
		p.printSpace()
		for i, property := range b.Properties {
			if i > 0 {
				p.print(",")
				p.printSpace()
			}
			p.printPropertyBinding(property)
		}
		p.printSpace()
		p.print("}")

	default:
		panic("Internal error: unexpected binding")
	}
}

func (p *printer) printPropertyBinding(property js_ast.PropertyBinding) {
	if property.IsSpread {
		p.print("...")
		p.printBinding(property.Value)
		return
	}

	shorthand := false
	if key, ok := property.Key.Data.(*js_ast.EString); ok && !property.IsComputed && key.Raw == "" {
		if id, ok := property.Value.Data.(*js_ast.BIdentifier); ok && id.Name == key.Value {
			shorthand = true
		}
	}

	if !shorthand {
		p.printPropertyKey(property.Key, property.IsComputed)
		p.print(":")
		p.printSpace()
	}
	p.printBinding(property.Value)
	if property.Default != nil {
		p.printSpace()
		p.print("=")
		p.printSpace()
		p.printExpr(*property.Default, js_ast.PrecComma, 0)
	}
}
