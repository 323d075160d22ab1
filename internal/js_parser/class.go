package js_parser

import (
	"fmt"

	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/js_lexer"
)

////////////////////////////////////////////////////////////////////////////////
// Functions

// Parses "function name(...) {...}" where the name is required unless this
// follows "export default"
func (p *parser) parseFnDecl(isAsync bool, nameOptional bool) js_ast.Fn {
	p.lexer.ExpectWord("function")
	isGenerator := p.lexer.Eat("*")

	var name *js_ast.Ident
	if !nameOptional || p.isIdentifier() {
		ident := p.parseIdent()
		name = &ident
	}
	return p.parseFn(name, isAsync, isGenerator)
}

func (p *parser) parseFnExpr(isAsync bool) js_ast.Fn {
	p.lexer.ExpectWord("function")
	isGenerator := p.lexer.Eat("*")

	var name *js_ast.Ident
	if p.isIdentifier() {
		ident := p.parseIdent()
		name = &ident
	}
	return p.parseFn(name, isAsync, isGenerator)
}

// Parses the arguments and the body of a function
func (p *parser) parseFn(name *js_ast.Ident, isAsync bool, isGenerator bool) js_ast.Fn {
	fn := js_ast.Fn{Name: name, IsAsync: isAsync, IsGenerator: isGenerator}
	oldFn := p.fn
	p.fn = fnContext{isAsync: isAsync, isGenerator: isGenerator}

	oldAllowIn := p.allowIn
	p.allowIn = true

	p.lexer.Expect("(")
	for !p.lexer.Is(")") {
		if p.lexer.Eat("...") {
			fn.HasRestArg = true
		}
		arg := js_ast.Arg{Binding: p.parseBinding()}
		if p.lexer.Eat("=") {
			value := p.parseExpr(js_ast.PrecComma)
			arg.Default = &value
		}
		fn.Args = append(fn.Args, arg)

		if fn.HasRestArg {
			if p.lexer.Is(",") {
				p.lexer.Fail(`Unexpected "," after rest pattern`)
			}
			break
		}
		if !p.lexer.Eat(",") {
			break
		}
	}
	p.lexer.Expect(")")
	p.allowIn = oldAllowIn

	fn.Body = p.parseFnBody()
	p.fn = oldFn
	return fn
}

func (p *parser) parseFnBody() []js_ast.Stmt {
	oldAllowIn := p.allowIn
	p.allowIn = true
	p.lexer.Expect("{")
	stmts := p.parseStmtsUntil("}", false)
	p.lexer.Next()
	p.allowIn = oldAllowIn
	return stmts
}

////////////////////////////////////////////////////////////////////////////////
// Bindings

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch {
	case p.lexer.Is("["):
		p.lexer.Next()
		b := &js_ast.BArray{}
		for !p.lexer.Is("]") {
			if p.lexer.Is(",") {
				b.Items = append(b.Items, js_ast.ArrayBinding{Binding: js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}}})
				p.lexer.Next()
				continue
			}
			if p.lexer.Eat("...") {
				b.HasSpread = true
			}
			item := js_ast.ArrayBinding{Binding: p.parseBinding()}
			if !b.HasSpread && p.lexer.Eat("=") {
				value := p.parseNestedExpr(js_ast.PrecComma)
				item.Default = &value
			}
			b.Items = append(b.Items, item)

			if b.HasSpread {
				if p.lexer.Is(",") {
					p.lexer.Fail(`Unexpected "," after rest pattern`)
				}
				break
			}
			if !p.lexer.Eat(",") {
				break
			}
		}
		p.lexer.Expect("]")
		return js_ast.Binding{Loc: loc, Data: b}

	case p.lexer.Is("{"):
		p.lexer.Next()
		b := &js_ast.BObject{}
		for !p.lexer.Is("}") {
			property := p.parsePropertyBinding()
			b.Properties = append(b.Properties, property)
			if property.IsSpread {
				if p.lexer.Is(",") {
					p.lexer.Fail(`Unexpected "," after rest pattern`)
				}
				break
			}
			if !p.lexer.Eat(",") {
				break
			}
		}
		p.lexer.Expect("}")
		return js_ast.Binding{Loc: loc, Data: b}
	}

	ident := p.parseIdent()
	return js_ast.Binding{Loc: ident.Loc, Data: &js_ast.BIdentifier{Name: ident.Name}}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	if p.lexer.Eat("...") {
		ident := p.parseIdent()
		return js_ast.PropertyBinding{
			Value:    js_ast.Binding{Loc: ident.Loc, Data: &js_ast.BIdentifier{Name: ident.Name}},
			IsSpread: true,
		}
	}

	var property js_ast.PropertyBinding
	isShorthand := p.isIdentifier()
	property.Key, property.IsComputed = p.parsePropertyKey(false)

	if isShorthand && !p.lexer.Is(":") {
		name := property.Key.Data.(*js_ast.EString).Value
		property.Value = js_ast.Binding{Loc: property.Key.Loc, Data: &js_ast.BIdentifier{Name: name}}
	} else {
		p.lexer.Expect(":")
		property.Value = p.parseBinding()
	}

	if p.lexer.Eat("=") {
		value := p.parseNestedExpr(js_ast.PrecComma)
		property.Default = &value
	}
	return property
}

////////////////////////////////////////////////////////////////////////////////
// Classes and objects

// Parses "class name extends base {...}". The name is required for
// declarations other than "export default class".
func (p *parser) parseClass(nameOptional bool) js_ast.Class {
	p.lexer.ExpectWord("class")
	var class js_ast.Class

	if !p.lexer.IsWord("extends") && (!nameOptional || p.isIdentifier()) {
		name := p.parseIdent()
		class.Name = &name
	}

	if p.lexer.IsWord("extends") {
		p.lexer.Next()
		base := p.parseNestedExpr(js_ast.PrecPostfix)
		class.Extends = &base
	}

	p.lexer.Expect("{")
	hasConstructor := false

	for !p.lexer.Is("}") {
		if p.lexer.Eat(";") {
			continue
		}
		if p.lexer.Kind == js_lexer.TEndOfFile {
			p.lexer.Expected(`"}"`)
		}

		keyRange := p.lexer.Range()
		property := p.parseProperty(true)

		if !property.IsStatic && !property.IsComputed && property.Kind != js_ast.PropertyStaticBlock {
			if str, ok := property.Key.Data.(*js_ast.EString); ok && str.Value == "constructor" && property.Value != nil {
				if hasConstructor {
					p.failAt(keyRange, "Classes cannot contain more than one constructor")
				}
				hasConstructor = true
			}
		}
		class.Properties = append(class.Properties, property)
	}

	p.lexer.Next()
	return class
}

func (p *parser) parseObject() js_ast.Expr {
	loc := p.lexer.Loc()
	p.lexer.Expect("{")
	var properties []js_ast.Property

	for !p.lexer.Is("}") {
		if p.lexer.Is("...") {
			p.lexer.Next()
			value := p.parseNestedExpr(js_ast.PrecComma)
			properties = append(properties, js_ast.Property{Kind: js_ast.PropertySpread, Value: &value})
		} else {
			properties = append(properties, p.parseProperty(false))
		}
		if !p.lexer.Eat(",") {
			break
		}
	}

	p.lexer.Expect("}")
	return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}
}

// Reports whether the current token can start a property key, which tells a
// modifier such as "get" apart from a member named "get"
func (p *parser) startsPropertyKey() bool {
	switch p.lexer.Kind {
	case js_lexer.TIdentifier, js_lexer.TString, js_lexer.TNumber, js_lexer.TBigInt, js_lexer.TPrivateName:
		return true
	case js_lexer.TPunctuator:
		return p.lexer.Is("[") || p.lexer.Is("*")
	}
	return false
}

// Parses a non-computed or computed key. Identifiers become strings without
// a raw form, so they print without quotes.
func (p *parser) parsePropertyKey(isClass bool) (js_ast.Expr, bool) {
	loc := p.lexer.Loc()

	switch p.lexer.Kind {
	case js_lexer.TPunctuator:
		if p.lexer.Is("[") {
			p.lexer.Next()
			key := p.parseNestedExpr(js_ast.PrecComma)
			p.lexer.Expect("]")
			return key, true
		}

	case js_lexer.TIdentifier:
		key := js_ast.StringExpr(loc, p.lexer.Text)
		p.lexer.Next()
		return key, false

	case js_lexer.TString:
		key := js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: p.lexer.Text, Raw: p.lexer.Raw()}}
		p.lexer.Next()
		return key, false

	case js_lexer.TNumber:
		key := js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Raw: p.lexer.Raw()}}
		p.lexer.Next()
		return key, false

	case js_lexer.TBigInt:
		key := js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Raw: p.lexer.Raw()}}
		p.lexer.Next()
		return key, false

	case js_lexer.TPrivateName:
		if isClass {
			name := p.lexer.Text
			if name == "#constructor" {
				p.lexer.Fail(fmt.Sprintf("Invalid field name %q", name))
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: name}}, false
		}
	}

	p.lexer.Expected("identifier")
	return js_ast.Expr{}, false
}

// Parses a member of a class body or an object literal, other than a spread
func (p *parser) parseProperty(isClass bool) js_ast.Property {
	var property js_ast.Property

	if isClass && p.lexer.IsWord("static") {
		if p.lookahead(func() bool { return p.lexer.Is("{") }) {
			p.lexer.Next()
			oldFn := p.fn
			p.fn = fnContext{}
			property.Kind = js_ast.PropertyStaticBlock
			property.IsStatic = true
			property.Body = p.parseFnBody()
			p.fn = oldFn
			return property
		}
		if p.lookahead(p.startsPropertyKey) {
			p.lexer.Next()
			property.IsStatic = true
		}
	}

	isAsync := false
	if p.lexer.IsWord("async") && p.lookahead(func() bool { return !p.lexer.NewlineBefore && p.startsPropertyKey() }) {
		p.lexer.Next()
		isAsync = true
	}

	isGenerator := p.lexer.Eat("*")

	if !isAsync && !isGenerator && (p.lexer.IsWord("get") || p.lexer.IsWord("set")) && p.lookahead(p.startsPropertyKey) {
		property.Kind = js_ast.PropertyGet
		if p.lexer.Text == "set" {
			property.Kind = js_ast.PropertySet
		}
		p.lexer.Next()
	}

	keyRange := p.lexer.Range()
	isShorthand := p.isIdentifier()
	property.Key, property.IsComputed = p.parsePropertyKey(isClass)
	keyName, _ := js_ast.PropertyKeyName(property.Key)

	// Methods and accessors
	if p.lexer.Is("(") || isAsync || isGenerator || property.Kind != js_ast.PropertyNormal {
		if isClass && !property.IsStatic && !property.IsComputed && keyName == "constructor" &&
			(isAsync || isGenerator || property.Kind != js_ast.PropertyNormal) {
			p.failAt(keyRange, "Class constructor cannot be an accessor, an async function or a generator")
		}

		fn := p.parseFn(nil, isAsync, isGenerator)
		switch {
		case property.Kind == js_ast.PropertyGet && len(fn.Args) != 0:
			p.failAt(keyRange, "Getter functions must have no arguments")
		case property.Kind == js_ast.PropertySet && (len(fn.Args) != 1 || fn.HasRestArg):
			p.failAt(keyRange, "Setter functions must have exactly one argument")
		}

		value := js_ast.Expr{Loc: keyRange.Loc, Data: &js_ast.EFunction{Fn: fn}}
		property.Value = &value
		property.IsMethod = property.Kind == js_ast.PropertyNormal
		return property
	}

	if isClass {
		if !property.IsComputed && (keyName == "constructor" || (property.IsStatic && keyName == "prototype")) {
			p.failAt(keyRange, fmt.Sprintf("Invalid field name %q", keyName))
		}
		if p.lexer.Eat("=") {
			// Field initializers run as if in a method with no arguments
			oldFn := p.fn
			p.fn = fnContext{}
			value := p.parseNestedExpr(js_ast.PrecComma)
			property.Initializer = &value
			p.fn = oldFn
		}
		p.lexer.ExpectSemicolon()
		return property
	}

	if p.lexer.Eat(":") {
		value := p.parseNestedExpr(js_ast.PrecComma)
		property.Value = &value
		return property
	}

	// "{a}" and "{a = b}", where the second form is only valid as a pattern
	if !isShorthand || property.IsComputed {
		p.lexer.Expected(`":"`)
	}
	value := js_ast.Expr{Loc: property.Key.Loc, Data: &js_ast.EIdentifier{Name: keyName}}
	property.Value = &value
	property.IsShorthand = true
	if p.lexer.Eat("=") {
		init := p.parseNestedExpr(js_ast.PrecComma)
		property.Initializer = &init
	}
	return property
}

