package js_parser

import (
	"fmt"

	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/js_lexer"
	"github.com/unprivate/unprivate/internal/logger"
)

// parseExpr parses every operator that binds tighter than "level"
func (p *parser) parseExpr(level js_ast.Prec) js_ast.Expr {
	return p.parseSuffix(p.parsePrefix(level), level)
}

// Brackets of any kind reset the "for" loop restriction on "in"
func (p *parser) parseNestedExpr(level js_ast.Prec) js_ast.Expr {
	oldAllowIn := p.allowIn
	p.allowIn = true
	expr := p.parseExpr(level)
	p.allowIn = oldAllowIn
	return expr
}

func (p *parser) parsePrefix(level js_ast.Prec) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Kind {
	case js_lexer.TEndOfFile:
		p.lexer.Unexpected()

	case js_lexer.TNumber:
		raw := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Raw: raw}}

	case js_lexer.TBigInt:
		raw := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Raw: raw}}

	case js_lexer.TString:
		str := &js_ast.EString{Value: p.lexer.Text, Raw: p.lexer.Raw()}
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: str}

	case js_lexer.TTemplate, js_lexer.TTemplateHead:
		return js_ast.Expr{Loc: loc, Data: p.parseTemplate(nil)}

	case js_lexer.TPrivateName:
		// "#x in obj" is the only place a private name stands on its own
		r := p.lexer.Range()
		name := p.lexer.Text
		if level >= js_ast.PrecRelational {
			p.lexer.Unexpected()
		}
		p.lexer.Next()
		if !p.lexer.IsWord("in") {
			p.lexer.Expected(`"in"`)
		}
		return js_ast.Expr{Loc: r.Loc, Data: &js_ast.EPrivateIdentifier{Name: name}}

	case js_lexer.TIdentifier:
		return p.parseWordPrefix(level)

	case js_lexer.TPunctuator:
		return p.parsePunctuatorPrefix(level)
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *parser) parsePunctuatorPrefix(level js_ast.Prec) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Text {
	case "(":
		return p.parseParenOrArrow(loc, level)

	case "[":
		p.lexer.Next()
		var items []js_ast.Expr
		for !p.lexer.Is("]") {
			switch {
			case p.lexer.Is(","):
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})
			case p.lexer.Is("..."):
				spreadLoc := p.lexer.Loc()
				p.lexer.Next()
				value := p.parseNestedExpr(js_ast.PrecComma)
				items = append(items, js_ast.Expr{Loc: spreadLoc, Data: &js_ast.ESpread{Value: value}})
			default:
				items = append(items, p.parseNestedExpr(js_ast.PrecComma))
			}
			if !p.lexer.Eat(",") {
				break
			}
		}
		p.lexer.Expect("]")
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case "{":
		return p.parseObject()

	case "/", "/=":
		p.lexer.RescanRegExp()
		raw := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Raw: raw}}

	case "!", "~", "+", "-":
		op := p.lexer.Text
		p.lexer.Next()
		return p.finishPrefixOp(loc, op)

	case "++", "--":
		op := p.lexer.Text
		p.lexer.Next()
		value := p.parseExpr(js_ast.PrecPrefix)
		p.checkAssignTarget(value, op)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

// Parses the operand of a prefix operator. "-a ** b" is a syntax error since
// it isn't clear which operator applies first.
func (p *parser) finishPrefixOp(loc logger.Loc, op string) js_ast.Expr {
	value := p.parseExpr(js_ast.PrecPrefix)
	if p.lexer.Is("**") {
		p.lexer.Unexpected()
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

func (p *parser) parseWordPrefix(level js_ast.Prec) js_ast.Expr {
	loc := p.lexer.Loc()
	r := p.lexer.Range()
	name := p.lexer.Text

	if p.lexer.Escaped {
		p.lexer.Next()
		return p.parseIdentifierOrArrow(loc, name, level)
	}

	switch name {
	case "this":
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case "null":
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case "true", "false":
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: name == "true"}}

	case "super":
		p.lexer.Next()
		if !p.lexer.Is("(") && !p.lexer.Is(".") && !p.lexer.Is("[") {
			p.failAt(r, `Unexpected "super"`)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}

	case "function":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: p.parseFnExpr(false)}}

	case "class":
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: p.parseClass(true)}}

	case "new":
		p.lexer.Next()
		if p.lexer.Eat(".") {
			if !p.lexer.IsWord("target") {
				p.lexer.Expected(`"target"`)
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{}}
		}

		// The arguments belong to the "new", so calls end the target
		target := p.parseExpr(js_ast.PrecCall)
		var args []js_ast.Expr
		if p.lexer.Is("(") {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case "import":
		p.lexer.Next()
		if p.lexer.Eat(".") {
			if !p.lexer.IsWord("meta") {
				p.lexer.Expected(`"meta"`)
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
		}
		if !p.lexer.Is("(") {
			p.failAt(r, `Unexpected "import"`)
		}
		p.lexer.Next()
		path := p.parseNestedExpr(js_ast.PrecComma)
		p.lexer.Eat(",")
		p.lexer.Expect(")")
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImport{Path: path}}

	case "typeof", "void":
		p.lexer.Next()
		return p.finishPrefixOp(loc, name)

	case "delete":
		p.lexer.Next()
		expr := p.finishPrefixOp(loc, name)
		if index, ok := expr.Data.(*js_ast.EUnary).Value.Data.(*js_ast.EIndex); ok {
			if private, ok := index.Index.Data.(*js_ast.EPrivateIdentifier); ok {
				p.failAt(logger.Range{Loc: index.Index.Loc, Len: int32(len(private.Name))},
					fmt.Sprintf("Deleting the private name %q is forbidden", private.Name))
			}
		}
		return expr

	case "await":
		if p.fn.isAsync {
			p.lexer.Next()
			value := p.parseExpr(js_ast.PrecPrefix)
			if p.lexer.Is("**") {
				p.lexer.Unexpected()
			}
			return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: value}}
		}

	case "yield":
		if p.fn.isGenerator {
			if level > js_ast.PrecAssign {
				p.failAt(r, `Cannot use "yield" outside of an assignment`)
			}
			return p.parseYield(loc)
		}

	case "async":
		return p.parseAsyncPrefix(r, level)
	}

	if js_lexer.IsReservedWord(name) {
		p.lexer.Unexpected()
	}
	p.lexer.Next()
	return p.parseIdentifierOrArrow(loc, name, level)
}

// "a" or "a => body" once the name has been consumed
func (p *parser) parseIdentifierOrArrow(loc logger.Loc, name string, level js_ast.Prec) js_ast.Expr {
	if p.lexer.Is("=>") && level <= js_ast.PrecAssign {
		arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}
		return js_ast.Expr{Loc: loc, Data: p.parseArrowBody([]js_ast.Arg{arg}, false, false)}
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: name}}
}

func (p *parser) parseYield(loc logger.Loc) js_ast.Expr {
	p.lexer.Next()
	yield := &js_ast.EYield{}
	if p.lexer.Is("*") && !p.lexer.NewlineBefore {
		p.lexer.Next()
		yield.Delegate = true
		value := p.parseExpr(js_ast.PrecYield)
		yield.Value = &value
	} else if !p.lexer.NewlineBefore && p.startsYieldValue() {
		value := p.parseExpr(js_ast.PrecYield)
		yield.Value = &value
	}
	return js_ast.Expr{Loc: loc, Data: yield}
}

func (p *parser) startsYieldValue() bool {
	switch p.lexer.Kind {
	case js_lexer.TEndOfFile:
		return false
	case js_lexer.TPunctuator:
		switch p.lexer.Text {
		case ")", "]", "}", ",", ";", ":", "?":
			return false
		}
	case js_lexer.TIdentifier:
		return !p.lexer.IsWord("in") && !p.lexer.IsWord("of")
	}
	return true
}

// "async" is only a keyword right before a function or the arguments of an
// arrow function
func (p *parser) parseAsyncPrefix(r logger.Range, level js_ast.Prec) js_ast.Expr {
	loc := r.Loc
	p.lexer.Next()
	if p.lexer.NewlineBefore {
		return p.parseIdentifierOrArrow(loc, "async", level)
	}

	switch {
	case p.lexer.IsWord("function"):
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: p.parseFnExpr(true)}}

	// "async a => a"
	case p.isIdentifier() && level <= js_ast.PrecAssign:
		argLoc := p.lexer.Loc()
		name := p.lexer.Text
		p.lexer.Next()
		if !p.lexer.Is("=>") {
			p.lexer.Expected(`"=>"`)
		}
		arg := js_ast.Arg{Binding: js_ast.Binding{Loc: argLoc, Data: &js_ast.BIdentifier{Name: name}}}
		return js_ast.Expr{Loc: loc, Data: p.parseArrowBody([]js_ast.Arg{arg}, false, true)}

	// "async (a) => a" or a call to a function named "async"
	case p.lexer.Is("("):
		items := p.parseParenItems()
		if p.lexer.Is("=>") && level <= js_ast.PrecAssign {
			args, hasRest := p.arrowArgs(items)
			return js_ast.Expr{Loc: loc, Data: p.parseArrowBody(args, hasRest, true)}
		}
		target := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Name: "async"}}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: target, Args: items.items}}
	}

	return p.parseIdentifierOrArrow(loc, "async", level)
}

////////////////////////////////////////////////////////////////////////////////
// Parentheses and arrow functions

// The contents of a parenthesized list, which is an expression, the
// arguments of an arrow function or the arguments of "async(...)" depending
// on what comes after it
type parenItems struct {
	items []js_ast.Expr

	// Where the first "..." is, and the first "," after one
	spreadRange      logger.Range
	commaAfterSpread logger.Range

	closeRange    logger.Range
	trailingComma bool
}

func (p *parser) parseParenItems() parenItems {
	var result parenItems
	p.lexer.Expect("(")

	oldAllowIn := p.allowIn
	p.allowIn = true

	for !p.lexer.Is(")") {
		result.trailingComma = false
		if p.lexer.Is("...") {
			spreadRange := p.lexer.Range()
			if result.spreadRange.Len == 0 {
				result.spreadRange = spreadRange
			}
			p.lexer.Next()
			value := p.parseExpr(js_ast.PrecComma)
			result.items = append(result.items, js_ast.Expr{Loc: spreadRange.Loc, Data: &js_ast.ESpread{Value: value}})
			if p.lexer.Is(",") && result.commaAfterSpread.Len == 0 {
				result.commaAfterSpread = p.lexer.Range()
			}
		} else {
			result.items = append(result.items, p.parseExpr(js_ast.PrecComma))
		}
		if !p.lexer.Eat(",") {
			break
		}
		result.trailingComma = true
	}

	p.allowIn = oldAllowIn
	result.closeRange = p.lexer.Range()
	p.lexer.Expect(")")
	return result
}

func (p *parser) parseParenOrArrow(loc logger.Loc, level js_ast.Prec) js_ast.Expr {
	items := p.parseParenItems()

	if p.lexer.Is("=>") && level <= js_ast.PrecAssign {
		args, hasRest := p.arrowArgs(items)
		return js_ast.Expr{Loc: loc, Data: p.parseArrowBody(args, hasRest, false)}
	}

	// Everything below is only valid in an arrow function's argument list
	if len(items.items) == 0 || items.trailingComma {
		p.failAt(items.closeRange, `Unexpected ")"`)
	}
	if items.spreadRange.Len != 0 {
		p.failAt(items.spreadRange, `Unexpected "..."`)
	}

	value := items.items[0]
	for _, item := range items.items[1:] {
		value = js_ast.Expr{Loc: value.Loc, Data: &js_ast.EBinary{Op: ",", Left: value, Right: item}}
	}
	return value
}

func (p *parser) arrowArgs(items parenItems) (args []js_ast.Arg, hasRest bool) {
	if items.commaAfterSpread.Len != 0 {
		p.failAt(items.commaAfterSpread, `Unexpected "," after rest pattern`)
	}
	for _, item := range items.items {
		if spread, ok := item.Data.(*js_ast.ESpread); ok {
			hasRest = true
			item = spread.Value
		}
		binding, def := p.exprToBinding(item)
		args = append(args, js_ast.Arg{Binding: binding, Default: def})
	}
	return
}

func (p *parser) parseArrowBody(args []js_ast.Arg, hasRest bool, isAsync bool) *js_ast.EArrow {
	if p.lexer.NewlineBefore {
		p.lexer.Fail(`Unexpected newline before "=>"`)
	}
	p.lexer.Expect("=>")

	arrow := &js_ast.EArrow{Args: args, HasRestArg: hasRest, IsAsync: isAsync}
	oldFn := p.fn
	p.fn = fnContext{isAsync: isAsync}

	if p.lexer.Is("{") {
		arrow.Body = p.parseFnBody()
	} else {
		value := p.parseExpr(js_ast.PrecComma)
		arrow.Body = []js_ast.Stmt{{Loc: value.Loc, Data: &js_ast.SReturn{Value: &value}}}
		arrow.ExprBody = true
	}

	p.fn = oldFn
	return arrow
}

// Converts what was parsed as an expression into the binding pattern it
// turned out to be. The second result is the default value, if any.
func (p *parser) exprToBinding(expr js_ast.Expr) (js_ast.Binding, *js_ast.Expr) {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		return js_ast.Binding{Loc: expr.Loc, Data: &js_ast.BIdentifier{Name: e.Name}}, nil

	case *js_ast.EBinary:
		if e.Op == "=" {
			binding, def := p.exprToBinding(e.Left)
			if def == nil {
				return binding, &e.Right
			}
		}

	case *js_ast.EArray:
		b := &js_ast.BArray{}
		for i, item := range e.Items {
			if _, ok := item.Data.(*js_ast.EMissing); ok {
				b.Items = append(b.Items, js_ast.ArrayBinding{Binding: js_ast.Binding{Loc: item.Loc, Data: &js_ast.BMissing{}}})
				continue
			}
			if spread, ok := item.Data.(*js_ast.ESpread); ok {
				if i+1 != len(e.Items) {
					p.failAt(logger.Range{Loc: item.Loc, Len: 3}, `Unexpected "," after rest pattern`)
				}
				b.HasSpread = true
				item = spread.Value
			}
			binding, def := p.exprToBinding(item)
			b.Items = append(b.Items, js_ast.ArrayBinding{Binding: binding, Default: def})
		}
		return js_ast.Binding{Loc: expr.Loc, Data: b}, nil

	case *js_ast.EObject:
		b := &js_ast.BObject{}
		for _, property := range e.Properties {
			if property.Kind == js_ast.PropertySpread {
				binding, _ := p.exprToBinding(*property.Value)
				b.Properties = append(b.Properties, js_ast.PropertyBinding{Value: binding, IsSpread: true})
				continue
			}
			if property.Kind != js_ast.PropertyNormal || property.IsMethod {
				break
			}
			binding, def := p.exprToBinding(*property.Value)
			if property.Initializer != nil {
				def = property.Initializer
			}
			b.Properties = append(b.Properties, js_ast.PropertyBinding{
				Key:        property.Key,
				Value:      binding,
				Default:    def,
				IsComputed: property.IsComputed,
			})
		}
		if len(b.Properties) == len(e.Properties) {
			return js_ast.Binding{Loc: expr.Loc, Data: b}, nil
		}
	}

	p.failAt(logger.Range{Loc: expr.Loc}, "Invalid binding pattern")
	return js_ast.Binding{}, nil
}

////////////////////////////////////////////////////////////////////////////////
// Operators

func (p *parser) checkAssignTarget(target js_ast.Expr, op string) {
	switch target.Data.(type) {
	case *js_ast.EIdentifier:
		return
	case *js_ast.EDot, *js_ast.EIndex:
		if !js_ast.IsOptionalChain(target) {
			return
		}
	case *js_ast.EArray, *js_ast.EObject:
		if op == "=" {
			return
		}
	}
	p.failAt(logger.Range{Loc: target.Loc}, "Invalid assignment target")
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	items := p.parseParenItems()
	return items.items
}

// Returns the operator at the current token, which may be a punctuator or
// one of the keywords "in" and "instanceof"
func (p *parser) currentOp() string {
	switch p.lexer.Kind {
	case js_lexer.TPunctuator:
		return p.lexer.Text
	case js_lexer.TIdentifier:
		if p.lexer.IsWord("instanceof") || (p.lexer.IsWord("in") && p.allowIn) {
			return p.lexer.Text
		}
	}
	return ""
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.Prec) js_ast.Expr {
	// Set once "?." has been seen. The rest of the chain is skipped along
	// with it, which ends at a closing parenthesis.
	inChain := false
	continuation := func() js_ast.OptionalChain {
		if inChain {
			return js_ast.OptionalChainContinue
		}
		return js_ast.OptionalChainNone
	}

	for {
		// An arrow function can't be called or indexed without parentheses
		if _, ok := left.Data.(*js_ast.EArrow); ok {
			if op := p.currentOp(); op == "." || op == "?." || op == "[" || op == "(" ||
				p.lexer.Kind == js_lexer.TTemplate || p.lexer.Kind == js_lexer.TTemplateHead {
				return left
			}
		}

		if p.lexer.Kind == js_lexer.TTemplate || p.lexer.Kind == js_lexer.TTemplateHead {
			if inChain {
				p.lexer.Fail("Template literals cannot have an optional chain as a tag")
			}
			tag := left
			left = js_ast.Expr{Loc: left.Loc, Data: p.parseTemplate(&tag)}
			continue
		}

		op := p.currentOp()
		switch op {
		case ".":
			p.lexer.Next()
			left = p.parseMemberName(left, continuation())
			continue

		case "?.":
			if level >= js_ast.PrecCall {
				p.lexer.Fail("Invalid optional chain from new expression")
			}
			p.lexer.Next()
			inChain = true
			switch {
			case p.lexer.Is("["):
				left = p.parseIndex(left, js_ast.OptionalChainStart)
			case p.lexer.Is("("):
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: p.parseCallArgs(), OptionalChain: js_ast.OptionalChainStart}}
			default:
				left = p.parseMemberName(left, js_ast.OptionalChainStart)
			}
			continue

		case "[":
			left = p.parseIndex(left, continuation())
			continue

		case "(":
			if level >= js_ast.PrecCall {
				return left
			}
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: p.parseCallArgs(), OptionalChain: continuation()}}
			continue

		case "++", "--":
			if p.lexer.NewlineBefore || level >= js_ast.PrecPostfix {
				return left
			}
			p.checkAssignTarget(left, op)
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: op, Value: left, Postfix: true}}
			continue
		}

		// Nothing below continues an optional chain
		inChain = false

		switch op {
		case "?":
			if level >= js_ast.PrecConditional {
				return left
			}
			p.lexer.Next()
			yes := p.parseNestedExpr(js_ast.PrecComma)
			p.lexer.Expect(":")
			no := p.parseExpr(js_ast.PrecComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECond{Test: left, Yes: yes, No: no}}
			continue
		}

		prec, ok := js_ast.BinaryPrec[op]
		if !ok || level >= prec {
			return left
		}
		if _, isPrivate := left.Data.(*js_ast.EPrivateIdentifier); isPrivate && op != "in" {
			p.lexer.Unexpected()
		}

		rightLevel := prec
		if js_ast.IsRightAssociative(op) {
			rightLevel--
		}
		if prec == js_ast.PrecAssign {
			p.checkAssignTarget(left, op)
		}
		p.lexer.Next()
		right := p.parseExpr(rightLevel)
		left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
	}
}

// Parses the name after "." or "?."
func (p *parser) parseMemberName(target js_ast.Expr, chain js_ast.OptionalChain) js_ast.Expr {
	nameLoc := p.lexer.Loc()
	switch p.lexer.Kind {
	case js_lexer.TPrivateName:
		name := p.lexer.Text
		p.lexer.Next()
		index := js_ast.Expr{Loc: nameLoc, Data: &js_ast.EPrivateIdentifier{Name: name}}
		return js_ast.Expr{Loc: target.Loc, Data: &js_ast.EIndex{Target: target, Index: index, OptionalChain: chain}}

	case js_lexer.TIdentifier:
		name := p.lexer.Text
		p.lexer.Next()
		return js_ast.Expr{Loc: target.Loc, Data: &js_ast.EDot{Target: target, Name: name, NameLoc: nameLoc, OptionalChain: chain}}
	}

	p.lexer.Expected("identifier")
	return js_ast.Expr{}
}

func (p *parser) parseIndex(target js_ast.Expr, chain js_ast.OptionalChain) js_ast.Expr {
	p.lexer.Expect("[")
	index := p.parseNestedExpr(js_ast.PrecLowest)
	p.lexer.Expect("]")
	return js_ast.Expr{Loc: target.Loc, Data: &js_ast.EIndex{Target: target, Index: index, OptionalChain: chain}}
}

// Parses a template literal starting at its first token. The text of each
// part is kept raw.
func (p *parser) parseTemplate(tag *js_ast.Expr) *js_ast.ETemplate {
	template := &js_ast.ETemplate{Tag: tag, Head: p.lexer.TemplateText()}
	if p.lexer.Kind == js_lexer.TTemplate {
		p.lexer.Next()
		return template
	}

	for {
		p.lexer.Next()
		value := p.parseNestedExpr(js_ast.PrecLowest)
		p.lexer.RescanTemplate()
		template.Parts = append(template.Parts, js_ast.TemplatePart{Value: value, Tail: p.lexer.TemplateText()})
		if p.lexer.Kind == js_lexer.TTemplateTail {
			break
		}
	}
	p.lexer.Next()
	return template
}
