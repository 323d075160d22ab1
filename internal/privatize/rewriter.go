package privatize

// This pass removes private class members from a syntax tree. Each "#name"
// declared by a class is replaced with an ordinary property name, either by
// prepending a prefix ("#count" => "_count") or by minting a single-character
// identifier from a block table ("#count" => "ᐂ"). Every reference to a
// private name ("this.#count", "this?.#count", "#count in obj") is rewritten
// to the same public name.
//
// Class bodies are scanned for their private declarations before anything is
// rewritten, so references may appear before the member that declares them.
// Classes are visited outermost first in document order, which keeps the
// allocation order (and therefore the minified names) deterministic.
//
// Fields are removed from the class body. A static field with a value is
// turned into an assignment statement inserted right after the class:
//
//   class C { static #n = 1 }   =>   class C {}
//                                    C.ᐁ = 1;
//
// Instance fields with a value can't be moved anywhere without changing
// when the value is evaluated, so they are reported as errors instead.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unprivate/unprivate/internal/config"
	"github.com/unprivate/unprivate/internal/js_ast"
	"github.com/unprivate/unprivate/internal/logger"
)

const anonymousClassName = "<anonymous>"

// Rename describes one private member that was replaced
type Rename struct {
	Class   string `json:"class" yaml:"class"`
	Private string `json:"private" yaml:"private"`
	Public  string `json:"public" yaml:"public"`
	Static  bool   `json:"static" yaml:"static"`
}

type Result struct {
	Renames []Rename
}

// This is used to abort the unit after the first error, the same way the
// parser uses "js_lexer.LexerPanic"
type rewritePanic struct{}

type classKind uint8

const (
	classDeclaration classKind = iota
	classExpression
)

type privateName struct {
	id       string
	keyRange logger.Range
	kind     js_ast.PropertyKind
	isStatic bool
	paired   bool
}

type classScope struct {
	// Empty for anonymous classes
	name string

	record  *Record
	private map[string]*privateName
	order   []string
}

func (scope *classScope) displayName() string {
	if scope.name == "" {
		return anonymousClassName
	}
	return scope.name
}

// Set while visiting the value of a static field that will be moved after
// the class. Both "this" and "super" mean something different there.
type hoistScope struct {
	className string
	fieldName string
}

type rewriter struct {
	log       logger.Log
	source    *logger.Source
	options   config.Options
	store     *Store
	allocator *Allocator
	classes   []*classScope
	hoist     *hoistScope
	renames   []Rename
}

// Run rewrites the tree in place. Records for named classes are added to (and
// looked up in) "store", which lets classes in later units extend classes
// from earlier ones. Errors are written to the log, and "ok" is false if the
// tree must not be printed.
func Run(log logger.Log, source *logger.Source, tree *js_ast.AST, options config.Options, store *Store) (result Result, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isRewritePanic := r.(rewritePanic); isRewritePanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	options = options.WithDefaults()
	r := &rewriter{
		log:       log,
		source:    source,
		options:   options,
		store:     store,
		allocator: NewAllocator(BlockTable(options.Minify, options.ExtendedAlphabet)),
	}

	tree.Stmts = r.visitStmts(tree.Stmts)
	result.Renames = r.renames
	return
}

func (r *rewriter) addRangeErrorAndPanic(rng logger.Range, text string) {
	r.log.AddRangeError(r.source, rng, text)
	panic(rewritePanic{})
}

func (r *rewriter) keyRange(key js_ast.Expr) logger.Range {
	switch k := key.Data.(type) {
	case *js_ast.EPrivateIdentifier:
		return privateKeyRange(key, k.Name)
	case *js_ast.EString:
		if k.Raw != "" {
			return logger.Range{Loc: key.Loc, Len: int32(len(k.Raw))}
		}
		return logger.Range{Loc: key.Loc, Len: int32(len(k.Value))}
	case *js_ast.ENumber:
		return logger.Range{Loc: key.Loc, Len: int32(len(k.Raw))}
	}
	return logger.Range{Loc: key.Loc}
}

////////////////////////////////////////////////////////////////////////////////
// Statements

func (r *rewriter) visitStmts(stmts []js_ast.Stmt) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		result = r.visitAndAppendStmt(result, stmt)
	}
	return result
}

// Statements in a position that only allows a single statement are wrapped in
// a block if visiting them produced more than one
func (r *rewriter) visitSingleStmt(stmt js_ast.Stmt) js_ast.Stmt {
	stmts := r.visitAndAppendStmt(nil, stmt)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: stmts}}
}

func (r *rewriter) visitAndAppendStmt(stmts []js_ast.Stmt, stmt js_ast.Stmt) []js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SClass:
		hoisted := r.visitClass(&s.Class, classDeclaration)
		stmts = append(stmts, stmt)
		return append(stmts, hoisted...)

	case *js_ast.SExportDefault:
		if s.Stmt != nil {
			if class, ok := s.Stmt.Data.(*js_ast.SClass); ok {
				hoisted := r.visitClass(&class.Class, classDeclaration)
				stmts = append(stmts, stmt)
				return append(stmts, hoisted...)
			}
		}
	}

	r.visitStmt(stmt)
	return append(stmts, stmt)
}

func (r *rewriter) visitStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		s.Stmts = r.visitStmts(s.Stmts)

	case *js_ast.SEmpty, *js_ast.SDebugger, *js_ast.SDirective,
		*js_ast.SImport, *js_ast.SExportList, *js_ast.SJump:

	case *js_ast.SExportDefault:
		if s.Expr != nil {
			*s.Expr = r.visitExpr(*s.Expr)
		} else if s.Stmt != nil {
			r.visitStmt(*s.Stmt)
		}

	case *js_ast.SExpr:
		s.Value = r.visitExpr(s.Value)

	case *js_ast.SFunction:
		r.visitFn(&s.Fn)

	case *js_ast.SClass:
		// Class declarations are always visited from a statement list
		panic("Internal error: class declaration outside of a statement list")

	case *js_ast.SLabel:
		s.Stmt = r.visitSingleStmt(s.Stmt)

	case *js_ast.SIf:
		s.Test = r.visitExpr(s.Test)
		s.Yes = r.visitSingleStmt(s.Yes)
		if s.No != nil {
			*s.No = r.visitSingleStmt(*s.No)
		}

	case *js_ast.SFor:
		if s.Init != nil {
			r.visitStmt(*s.Init)
		}
		if s.Test != nil {
			*s.Test = r.visitExpr(*s.Test)
		}
		if s.Update != nil {
			*s.Update = r.visitExpr(*s.Update)
		}
		s.Body = r.visitSingleStmt(s.Body)

	case *js_ast.SForEach:
		r.visitStmt(s.Init)
		s.Value = r.visitExpr(s.Value)
		s.Body = r.visitSingleStmt(s.Body)

	case *js_ast.SDoWhile:
		s.Body = r.visitSingleStmt(s.Body)
		s.Test = r.visitExpr(s.Test)

	case *js_ast.SWhile:
		s.Test = r.visitExpr(s.Test)
		s.Body = r.visitSingleStmt(s.Body)

	case *js_ast.STry:
		s.Body = r.visitStmts(s.Body)
		if s.Catch != nil {
			if s.Catch.Binding != nil {
				r.visitBinding(*s.Catch.Binding)
			}
			s.Catch.Body = r.visitStmts(s.Catch.Body)
		}
		if s.Finally != nil {
			*s.Finally = r.visitStmts(*s.Finally)
		}

	case *js_ast.SSwitch:
		s.Test = r.visitExpr(s.Test)
		for i := range s.Cases {
			c := &s.Cases[i]
			if c.Value != nil {
				*c.Value = r.visitExpr(*c.Value)
			}
			c.Body = r.visitStmts(c.Body)
		}

	case *js_ast.SReturn:
		if s.Value != nil {
			*s.Value = r.visitExpr(*s.Value)
		}

	case *js_ast.SThrow:
		s.Value = r.visitExpr(s.Value)

	case *js_ast.SLocal:
		for i := range s.Decls {
			decl := &s.Decls[i]
			r.visitBinding(decl.Binding)
			if decl.Value != nil {
				*decl.Value = r.visitExpr(*decl.Value)
			}
		}

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

func (r *rewriter) visitBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing, *js_ast.BIdentifier:

	case *js_ast.BArray:
		for i := range b.Items {
			item := &b.Items[i]
			r.visitBinding(item.Binding)
			if item.Default != nil {
				*item.Default = r.visitExpr(*item.Default)
			}
		}

	case *js_ast.BObject:
		for i := range b.Properties {
			property := &b.Properties[i]
			if property.IsComputed {
				property.Key = r.visitExpr(property.Key)
			}
			r.visitBinding(property.Value)
			if property.Default != nil {
				*property.Default = r.visitExpr(*property.Default)
			}
		}

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (r *rewriter) visitArgs(args []js_ast.Arg) {
	for i := range args {
		arg := &args[i]
		r.visitBinding(arg.Binding)
		if arg.Default != nil {
			*arg.Default = r.visitExpr(*arg.Default)
		}
	}
}

// Functions that aren't arrow functions have their own "this"
func (r *rewriter) visitFn(fn *js_ast.Fn) {
	oldHoist := r.hoist
	r.hoist = nil
	r.visitArgs(fn.Args)
	fn.Body = r.visitStmts(fn.Body)
	r.hoist = oldHoist
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

func (r *rewriter) visitExprs(exprs []js_ast.Expr) {
	for i, expr := range exprs {
		exprs[i] = r.visitExpr(expr)
	}
}

func (r *rewriter) visitExpr(expr js_ast.Expr) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing, *js_ast.EBoolean, *js_ast.ENull, *js_ast.ENumber, *js_ast.EBigInt,
		*js_ast.EString, *js_ast.ERegExp, *js_ast.EIdentifier, *js_ast.EImportMeta:

	case *js_ast.EThis:
		if r.hoist != nil {
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EIdentifier{Name: r.hoist.className}}
		}

	case *js_ast.ESuper:
		if r.hoist != nil {
			r.addRangeErrorAndPanic(logger.Range{Loc: expr.Loc, Len: 5}, fmt.Sprintf(
				"class %s: Cannot use \"super\" in the initializer of static field %s because it is moved out of the class body.",
				r.hoist.className, r.hoist.fieldName))
		}

	case *js_ast.ENewTarget:
		if r.hoist != nil {
			r.addRangeErrorAndPanic(logger.Range{Loc: expr.Loc, Len: 10}, fmt.Sprintf(
				"class %s: Cannot use \"new.target\" in the initializer of static field %s because it is moved out of the class body.",
				r.hoist.className, r.hoist.fieldName))
		}

	case *js_ast.EPrivateIdentifier:
		// These are only valid in the positions handled below
		panic("Internal error: unexpected private name")

	case *js_ast.EArray:
		r.visitExprs(e.Items)

	case *js_ast.EUnary:
		e.Value = r.visitExpr(e.Value)

	case *js_ast.EBinary:
		// "#x in obj" => "'_x' in obj"
		if private, ok := e.Left.Data.(*js_ast.EPrivateIdentifier); ok && e.Op == "in" {
			id := r.resolvePrivateName(e.Left.Loc, private.Name)
			e.Left = js_ast.StringExpr(e.Left.Loc, id)
		} else {
			e.Left = r.visitExpr(e.Left)
		}
		e.Right = r.visitExpr(e.Right)

	case *js_ast.ENew:
		e.Target = r.visitExpr(e.Target)
		r.visitExprs(e.Args)

	case *js_ast.ECall:
		e.Target = r.visitExpr(e.Target)
		r.visitExprs(e.Args)

	case *js_ast.EDot:
		e.Target = r.visitExpr(e.Target)

	case *js_ast.EIndex:
		e.Target = r.visitExpr(e.Target)

		// "obj.#x" => "obj._x" and "obj?.#x" => "obj?._x"
		if private, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			id := r.resolvePrivateName(e.Index.Loc, private.Name)
			return js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EDot{
				Target:        e.Target,
				Name:          id,
				NameLoc:       e.Index.Loc,
				OptionalChain: e.OptionalChain,
			}}
		}
		e.Index = r.visitExpr(e.Index)

	case *js_ast.EArrow:
		r.visitArgs(e.Args)
		e.Body = r.visitStmts(e.Body)

	case *js_ast.EFunction:
		r.visitFn(&e.Fn)

	case *js_ast.EClass:
		r.visitClass(&e.Class, classExpression)

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.IsComputed {
				property.Key = r.visitExpr(property.Key)
			}
			if property.Value != nil {
				*property.Value = r.visitExpr(*property.Value)
			}
			if property.Initializer != nil {
				*property.Initializer = r.visitExpr(*property.Initializer)
			}
		}

	case *js_ast.ESpread:
		e.Value = r.visitExpr(e.Value)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			*e.Tag = r.visitExpr(*e.Tag)
		}
		for i := range e.Parts {
			e.Parts[i].Value = r.visitExpr(e.Parts[i].Value)
		}

	case *js_ast.EAwait:
		e.Value = r.visitExpr(e.Value)

	case *js_ast.EYield:
		if e.Value != nil {
			*e.Value = r.visitExpr(*e.Value)
		}

	case *js_ast.ECond:
		e.Test = r.visitExpr(e.Test)
		e.Yes = r.visitExpr(e.Yes)
		e.No = r.visitExpr(e.No)

	case *js_ast.EImport:
		e.Path = r.visitExpr(e.Path)

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}

	return expr
}

// Private names resolve to the innermost enclosing class that declares them
func (r *rewriter) resolvePrivateName(loc logger.Loc, name string) string {
	for i := len(r.classes) - 1; i >= 0; i-- {
		if private, ok := r.classes[i].private[name]; ok {
			return private.id
		}
	}
	r.addRangeErrorAndPanic(logger.Range{Loc: loc, Len: int32(len(name))},
		fmt.Sprintf("Private name %q must be declared in an enclosing class", name))
	return ""
}

////////////////////////////////////////////////////////////////////////////////
// Classes

// Rewrites the class in place and returns the statements that must be
// inserted after the statement containing the class
func (r *rewriter) visitClass(class *js_ast.Class, kind classKind) []js_ast.Stmt {
	// The base class expression is evaluated outside of the class body
	base := ""
	if class.Extends != nil {
		*class.Extends = r.visitExpr(*class.Extends)
		if id, ok := class.Extends.Data.(*js_ast.EIdentifier); ok {
			base = id.Name
		}
	}

	scope := &classScope{private: make(map[string]*privateName)}
	if class.Name != nil {
		scope.name = class.Name.Name
	}
	scope.record = r.store.GetOrCreate(scope.name, base)

	r.declarePrivateNames(scope, class.Properties)

	// Names minted for this class can't account for members inherited
	// through a base that isn't a plain class name
	if r.options.Minify && base == "" && class.Extends != nil && len(scope.order) > 0 {
		r.log.AddRangeWarning(r.source, logger.Range{Loc: class.Extends.Loc}, fmt.Sprintf(
			"class %s: The base class is not a class name, so the minified names of its private members may collide with members it inherits",
			scope.displayName()))
	}

	for i := range class.Properties {
		property := &class.Properties[i]
		if classifyMember(property) == memberReject {
			r.addRangeErrorAndPanic(r.keyRange(property.Key), fmt.Sprintf(
				"class %s: You must initialize %s in the constructor, not in the class body.",
				scope.displayName(), memberDisplayName(r.source, property)))
		}
	}

	r.classes = append(r.classes, scope)
	oldHoist := r.hoist

	// Computed keys are evaluated with the "this" of the surrounding code
	for i := range class.Properties {
		property := &class.Properties[i]
		if property.IsComputed {
			property.Key = r.visitExpr(property.Key)
		}
	}

	r.hoist = nil
	var hoisted []js_ast.Stmt
	properties := class.Properties[:0]

	for _, property := range class.Properties {
		switch classifyMember(&property) {
		case memberKeep:
			if property.Kind == js_ast.PropertyStaticBlock {
				property.Body = r.visitStmts(property.Body)
			} else {
				if private, ok := property.Key.Data.(*js_ast.EPrivateIdentifier); ok {
					id := scope.private[private.Name].id
					property.Key = js_ast.StringExpr(property.Key.Loc, id)
				}
				if property.Value != nil {
					*property.Value = r.visitExpr(*property.Value)
				}
			}
			properties = append(properties, property)

		case memberRemove:

		case memberHoist:
			hoisted = append(hoisted, r.hoistStaticField(scope, class, kind, &property))
		}
	}

	class.Properties = properties
	r.hoist = oldHoist
	r.classes = r.classes[:len(r.classes)-1]
	return hoisted
}

func (r *rewriter) hoistStaticField(scope *classScope, class *js_ast.Class, kind classKind, property *js_ast.Property) js_ast.Stmt {
	fieldName := memberDisplayName(r.source, property)

	// There is no statement to insert the assignment after, and no name to
	// assign through
	if kind == classExpression || scope.name == "" {
		where := "a class expression"
		if kind == classDeclaration {
			where = "an anonymous class"
		}
		r.addRangeErrorAndPanic(r.keyRange(property.Key), fmt.Sprintf(
			"class %s: Cannot move the initializer of static field %s out of %s.",
			scope.displayName(), fieldName, where))
	}

	id := ""
	if private, ok := property.Key.Data.(*js_ast.EPrivateIdentifier); ok {
		id = scope.private[private.Name].id
	}

	r.hoist = &hoistScope{className: scope.name, fieldName: fieldName}
	value := r.visitExpr(*property.Initializer)
	r.hoist = nil

	target := hoistTarget(scope.name, class.Name.Loc, property, id)
	return js_ast.AssignStmt(target, value)
}

// Gives every private member of the class its public name before any of the
// class body is rewritten
func (r *rewriter) declarePrivateNames(scope *classScope, properties []js_ast.Property) {
	for i := range properties {
		property := &properties[i]
		private, ok := property.Key.Data.(*js_ast.EPrivateIdentifier)
		if !ok {
			continue
		}
		name := private.Name
		keyRange := privateKeyRange(property.Key, name)

		if existing, ok := scope.private[name]; ok {
			if !existing.paired && isAccessorPair(existing.kind, existing.isStatic, property.Kind, property.IsStatic) {
				existing.paired = true
				continue
			}
			r.addRangeErrorAndPanic(keyRange, fmt.Sprintf("%q has already been declared", name))
		}

		id := r.allocate(scope, name, keyRange)
		scope.private[name] = &privateName{
			id:       id,
			keyRange: keyRange,
			kind:     property.Kind,
			isStatic: property.IsStatic,
		}
		scope.order = append(scope.order, name)
		r.renames = append(r.renames, Rename{
			Class:   scope.displayName(),
			Private: name,
			Public:  id,
			Static:  property.IsStatic,
		})
	}

	// Renaming a private member to the name of a public member of the same
	// class makes one of them overwrite the other
	if len(scope.order) > 0 {
		public := publicMemberNames(properties)
		for _, name := range scope.order {
			private := scope.private[name]
			if public[private.id] {
				r.log.AddRangeWarning(r.source, private.keyRange, fmt.Sprintf(
					"%q becomes %q in class %s, which is also the name of a public member of that class",
					name, private.id, scope.displayName()))
			}
		}
	}
}

func (r *rewriter) allocate(scope *classScope, name string, keyRange logger.Range) string {
	if r.options.Minify {
		id, err := r.allocator.Allocate(scope.record, scope.name, name)
		if err != nil {
			var exhausted *ExhaustedError
			if errors.As(err, &exhausted) && exhausted.Class == "" {
				exhausted.Class = anonymousClassName
			}
			r.addRangeErrorAndPanic(keyRange, err.Error())
		}
		return id
	}

	// Prefix mode can give the same name to two different members of related
	// classes, which is only worth a warning
	id := r.options.Prefix + strings.TrimPrefix(name, "#")
	if owner, collides := scope.record.claim(memoKey(scope.name, name), id); collides {
		ownerClass, ownerName := splitMemoKey(owner)
		r.log.AddRangeWarning(r.source, keyRange, fmt.Sprintf(
			"%q becomes %q in class %s, which is already the name of %q in class %s",
			name, id, scope.displayName(), ownerName, ownerClass))
	}
	return id
}

func splitMemoKey(key string) (class string, name string) {
	i := strings.LastIndexByte(key, '#')
	if i < 0 {
		return anonymousClassName, key
	}
	class, name = key[:i], key[i:]
	if class == "" {
		class = anonymousClassName
	}
	return
}
