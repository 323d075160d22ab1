package privatize

import (
	"fmt"
	"strconv"

	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/js_lexer"
	"github.com/unprivate/unprivate/internal/logger"
)

type memberAction uint8

const (
	// Methods, accessors and static blocks stay in the class body
	memberKeep memberAction = iota

	// Fields without a value are dropped. Private ones were already given a
	// name while scanning the class body.
	memberRemove

	// "static x = 1" becomes "C.x = 1;" after the class statement
	memberHoist

	// "x = 1" is not supported
	memberReject
)

func isField(property *js_ast.Property) bool {
	return property.Kind == js_ast.PropertyNormal && !property.IsMethod && property.Value == nil
}

func classifyMember(property *js_ast.Property) memberAction {
	if property.Kind == js_ast.PropertyStaticBlock || !isField(property) {
		return memberKeep
	}
	if property.Initializer == nil {
		return memberRemove
	}
	if property.IsStatic {
		return memberHoist
	}
	return memberReject
}

// Returns the name of a member the way it is written in the source, used in
// diagnostics and the rename map
func memberDisplayName(source *logger.Source, property *js_ast.Property) string {
	if property.IsComputed {
		if text := computedKeyText(source, property.Key.Loc); text != "" {
			return "[" + text + "]"
		}
		return "[...]"
	}
	switch k := property.Key.Data.(type) {
	case *js_ast.EPrivateIdentifier:
		return k.Name
	case *js_ast.EString:
		if js_lexer.IsIdentifier(k.Value) {
			return k.Value
		}
		return strconv.Quote(k.Value)
	case *js_ast.ENumber:
		return k.Raw
	case *js_ast.EBigInt:
		return k.Raw
	}
	return fmt.Sprintf("%T", property.Key.Data)
}

// Returns the source text of a computed key up to the closing bracket, or
// nothing if the brackets are not balanced on the way there
func computedKeyText(source *logger.Source, loc logger.Loc) string {
	text := source.Contents
	start := int(loc.Start)
	if start < 0 || start >= len(text) {
		return ""
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '[', '(', '{':
			depth++
		case ')', '}':
			depth--
		case ']':
			if depth == 0 {
				return text[start:i]
			}
			depth--
		}
	}
	return ""
}

// Returns the public names declared by the class body, which a renamed
// private member must not shadow
func publicMemberNames(properties []js_ast.Property) map[string]bool {
	names := make(map[string]bool)
	for i := range properties {
		property := &properties[i]
		if property.IsComputed || property.Kind == js_ast.PropertyStaticBlock {
			continue
		}
		if _, ok := property.Key.Data.(*js_ast.EPrivateIdentifier); ok {
			continue
		}
		if name, ok := js_ast.PropertyKeyName(property.Key); ok {
			names[name] = true
		}
	}
	return names
}

// Builds the target of the statement that replaces a static field:
//
//   static #x = 1   =>  C.ᐁ = 1
//   static y = 1    =>  C.y = 1
//   static "a-b" = 1 => C["a-b"] = 1
//   static 2 = 1    =>  C[2] = 1
//   static [k] = 1  =>  C[k] = 1
//
func hoistTarget(className string, classLoc logger.Loc, property *js_ast.Property, id string) js_ast.Expr {
	target := js_ast.Expr{Loc: classLoc, Data: &js_ast.EIdentifier{Name: className}}
	key := property.Key

	if property.IsComputed {
		return js_ast.Expr{Loc: key.Loc, Data: &js_ast.EIndex{Target: target, Index: key}}
	}

	switch k := key.Data.(type) {
	case *js_ast.EPrivateIdentifier:
		return js_ast.Expr{Loc: key.Loc, Data: &js_ast.EDot{Target: target, Name: id, NameLoc: key.Loc}}

	case *js_ast.EString:
		// The printer switches to "C[...]" for names that aren't identifiers
		return js_ast.Expr{Loc: key.Loc, Data: &js_ast.EDot{Target: target, Name: k.Value, NameLoc: key.Loc}}

	case *js_ast.ENumber:
		index := js_ast.Expr{Loc: key.Loc, Data: &js_ast.ENumber{Raw: k.Raw}}
		return js_ast.Expr{Loc: key.Loc, Data: &js_ast.EIndex{Target: target, Index: index}}
	}

	return js_ast.Expr{Loc: key.Loc, Data: &js_ast.EIndex{Target: target, Index: key}}
}

func privateKeyRange(key js_ast.Expr, name string) logger.Range {
	return logger.Range{Loc: key.Loc, Len: int32(len(name))}
}

// A getter and a setter with the same name (and the same placement) share one
// private name
func isAccessorPair(a js_ast.PropertyKind, aStatic bool, b js_ast.PropertyKind, bStatic bool) bool {
	if aStatic != bStatic {
		return false
	}
	return (a == js_ast.PropertyGet && b == js_ast.PropertySet) || (a == js_ast.PropertySet && b == js_ast.PropertyGet)
}
