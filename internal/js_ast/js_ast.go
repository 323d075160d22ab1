package js_ast

import (
	"github.com/unprivate/unprivate/internal/logger"
)

// This is a plain syntax tree for one file. There is no symbol table:
// identifiers carry their names, since the only pass that renames anything
// works on class members, which ordinary scoping never touches. Literals
// keep the text they were written with and are printed back unchanged.
//
// The tree is meant to be changed in place by a single pass and then
// printed.

// Prec is the binding strength of an operator. A subexpression needs
// parentheses when its own precedence is lower than its position requires.
type Prec uint8

const (
	PrecLowest Prec = iota
	PrecComma
	PrecSpread
	PrecYield
	PrecAssign
	PrecConditional
	PrecNullish
	PrecLogicalOr
	PrecLogicalAnd
	PrecBitwiseOr
	PrecBitwiseXor
	PrecBitwiseAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecExponent
	PrecPrefix
	PrecPostfix
	PrecNew
	PrecCall
	PrecMember
)

// BinaryPrec gives the precedence of every binary operator by its text
var BinaryPrec = map[string]Prec{
	",": PrecComma,

	"=": PrecAssign, "+=": PrecAssign, "-=": PrecAssign, "*=": PrecAssign,
	"/=": PrecAssign, "%=": PrecAssign, "**=": PrecAssign, "<<=": PrecAssign,
	">>=": PrecAssign, ">>>=": PrecAssign, "&=": PrecAssign, "|=": PrecAssign,
	"^=": PrecAssign, "&&=": PrecAssign, "||=": PrecAssign, "??=": PrecAssign,

	"??": PrecNullish,
	"||": PrecLogicalOr,
	"&&": PrecLogicalAnd,
	"|":  PrecBitwiseOr,
	"^":  PrecBitwiseXor,
	"&":  PrecBitwiseAnd,

	"==": PrecEquality, "!=": PrecEquality, "===": PrecEquality, "!==": PrecEquality,

	"<": PrecRelational, ">": PrecRelational, "<=": PrecRelational, ">=": PrecRelational,
	"in": PrecRelational, "instanceof": PrecRelational,

	"<<": PrecShift, ">>": PrecShift, ">>>": PrecShift,
	"+": PrecAdditive, "-": PrecAdditive,
	"*": PrecMultiplicative, "/": PrecMultiplicative, "%": PrecMultiplicative,
	"**": PrecExponent,
}

// Assignments and "**" group to the right, everything else to the left
func IsRightAssociative(op string) bool {
	return op == "**" || BinaryPrec[op] == PrecAssign
}

func IsAssign(op string) bool {
	return BinaryPrec[op] == PrecAssign
}

// A name together with where it was written
type Ident struct {
	Loc  logger.Loc
	Name string
}

////////////////////////////////////////////////////////////////////////////////
// Expressions

type Expr struct {
	Loc  logger.Loc
	Data E
}

// E is implemented by every expression node. The method is never called.
type E interface{ isExpr() }

type EMissing struct{} // An array hole
type EThis struct{}
type ESuper struct{}
type ENull struct{}
type ENewTarget struct{}
type EImportMeta struct{}

type EBoolean struct{ Value bool }

type EIdentifier struct{ Name string }

// A class-private name such as "#x", which only appears as a class member
// key, as the index of an EIndex, or on the left of "in"
type EPrivateIdentifier struct{ Name string }

type ENumber struct{ Raw string }

type EBigInt struct{ Raw string } // Includes the "n" suffix

type ERegExp struct{ Raw string }

// Value is the decoded string. Raw is the literal as written, with quotes,
// and is empty for strings made up by a pass.
type EString struct {
	Value string
	Raw   string
}

type TemplatePart struct {
	Value Expr
	Tail  string // Raw text up to the next "${" or the closing backtick
}

type ETemplate struct {
	Tag   *Expr
	Head  string // Raw text between the opening backtick and the first "${"
	Parts []TemplatePart
}

type EArray struct{ Items []Expr }

type EObject struct{ Properties []Property }

type ESpread struct{ Value Expr }

type EUnary struct {
	Op      string // "!", "typeof", "++", ...
	Value   Expr
	Postfix bool // "a++" instead of "++a"
}

type EBinary struct {
	Op    string
	Left  Expr
	Right Expr
}

type ECond struct {
	Test Expr
	Yes  Expr
	No   Expr
}

type OptionalChain uint8

const (
	// "a.b"
	OptionalChainNone OptionalChain = iota

	// "a?.b"
	OptionalChainStart

	// The ".c" in "a?.b.c", which is skipped along with the rest of the chain
	// when "a" is nullish. The ".c" in "(a?.b).c" is OptionalChainNone.
	OptionalChainContinue
)

type EDot struct {
	Target        Expr
	Name          string
	NameLoc       logger.Loc
	OptionalChain OptionalChain
}

type EIndex struct {
	Target        Expr
	Index         Expr
	OptionalChain OptionalChain
}

type ECall struct {
	Target        Expr
	Args          []Expr
	OptionalChain OptionalChain
}

type ENew struct {
	Target Expr
	Args   []Expr
}

// A dynamic "import(path)"
type EImport struct{ Path Expr }

type EAwait struct{ Value Expr }

type EYield struct {
	Value    *Expr
	Delegate bool // "yield*"
}

type EFunction struct{ Fn Fn }

type EArrow struct {
	Args       []Arg
	HasRestArg bool
	IsAsync    bool
	Body       []Stmt

	// The body was written as an expression, which is kept in Body as a
	// single return statement
	ExprBody bool
}

type EClass struct{ Class Class }

func (*EMissing) isExpr()           {}
func (*EThis) isExpr()              {}
func (*ESuper) isExpr()             {}
func (*ENull) isExpr()              {}
func (*ENewTarget) isExpr()         {}
func (*EImportMeta) isExpr()        {}
func (*EBoolean) isExpr()           {}
func (*EIdentifier) isExpr()        {}
func (*EPrivateIdentifier) isExpr() {}
func (*ENumber) isExpr()            {}
func (*EBigInt) isExpr()            {}
func (*ERegExp) isExpr()            {}
func (*EString) isExpr()            {}
func (*ETemplate) isExpr()          {}
func (*EArray) isExpr()             {}
func (*EObject) isExpr()            {}
func (*ESpread) isExpr()            {}
func (*EUnary) isExpr()             {}
func (*EBinary) isExpr()            {}
func (*ECond) isExpr()              {}
func (*EDot) isExpr()               {}
func (*EIndex) isExpr()             {}
func (*ECall) isExpr()              {}
func (*ENew) isExpr()               {}
func (*EImport) isExpr()            {}
func (*EAwait) isExpr()             {}
func (*EYield) isExpr()             {}
func (*EFunction) isExpr()          {}
func (*EArrow) isExpr()             {}
func (*EClass) isExpr()             {}

////////////////////////////////////////////////////////////////////////////////
// Functions, classes and object members

type Arg struct {
	Binding Binding
	Default *Expr
}

type Fn struct {
	Name        *Ident
	Args        []Arg
	HasRestArg  bool
	IsAsync     bool
	IsGenerator bool
	Body        []Stmt
}

type Class struct {
	Name       *Ident
	Extends    *Expr
	Properties []Property
}

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread      // "...a" in an object literal
	PropertyStaticBlock // "static { ... }" in a class body
)

// Property is a member of an object literal or a class body:
//
//	a: 1          Value
//	a() {}        Value is an EFunction, IsMethod
//	get a() {}    Kind PropertyGet, Value is an EFunction
//	a = 1         Initializer (class fields and "({a = 1} = b)")
//	a             neither (class fields and shorthand properties)
type Property struct {
	Kind        PropertyKind
	Key         Expr
	Value       *Expr
	Initializer *Expr

	// The statements of a static block
	Body []Stmt

	IsComputed  bool
	IsMethod    bool
	IsStatic    bool
	IsShorthand bool
}

// PropertyKeyName returns the name of a property key that isn't computed.
// Numbers are returned as written.
func PropertyKeyName(key Expr) (string, bool) {
	switch k := key.Data.(type) {
	case *EString:
		return k.Value, true
	case *ENumber:
		return k.Raw, true
	case *EPrivateIdentifier:
		return k.Name, true
	}
	return "", false
}

////////////////////////////////////////////////////////////////////////////////
// Bindings

type Binding struct {
	Loc  logger.Loc
	Data B
}

// B is implemented by every binding pattern. The method is never called.
type B interface{ isBinding() }

type BMissing struct{}

type BIdentifier struct{ Name string }

type ArrayBinding struct {
	Binding Binding
	Default *Expr
}

type BArray struct {
	Items     []ArrayBinding
	HasSpread bool // The last item is "...rest"
}

type PropertyBinding struct {
	Key        Expr
	Value      Binding
	Default    *Expr
	IsComputed bool
	IsSpread   bool
}

type BObject struct{ Properties []PropertyBinding }

func (*BMissing) isBinding()    {}
func (*BIdentifier) isBinding() {}
func (*BArray) isBinding()      {}
func (*BObject) isBinding()     {}

////////////////////////////////////////////////////////////////////////////////
// Statements

type Stmt struct {
	Loc  logger.Loc
	Data S
}

// S is implemented by every statement node. The method is never called.
type S interface{ isStmt() }

type SEmpty struct{}
type SDebugger struct{}

// A string literal statement such as "'use strict'" at the start of a body
type SDirective struct{ Raw string }

type SBlock struct{ Stmts []Stmt }

type SExpr struct{ Value Expr }

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type Decl struct {
	Binding Binding
	Value   *Expr
}

type SLocal struct {
	Kind     LocalKind
	Decls    []Decl
	IsExport bool
}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

type SClass struct {
	Class    Class
	IsExport bool
}

type SIf struct {
	Test Expr
	Yes  Stmt
	No   *Stmt
}

type SFor struct {
	Init   *Stmt // SLocal or SExpr
	Test   *Expr
	Update *Expr
	Body   Stmt
}

// "for (a in b)", "for (a of b)" and "for await (a of b)"
type SForEach struct {
	Init    Stmt // SLocal or SExpr
	Value   Expr
	Body    Stmt
	IsOf    bool
	IsAwait bool
}

type SWhile struct {
	Test Expr
	Body Stmt
}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

type Catch struct {
	Binding *Binding
	Body    []Stmt
}

type STry struct {
	Body    []Stmt
	Catch   *Catch
	Finally *[]Stmt
}

type Case struct {
	Value *Expr // Nil for "default:"
	Body  []Stmt
}

type SSwitch struct {
	Test  Expr
	Cases []Case
}

type SLabel struct {
	Name Ident
	Stmt Stmt
}

// "break" and "continue"
type SJump struct {
	IsContinue bool
	Label      *Ident
}

type SReturn struct{ Value *Expr }

type SThrow struct{ Value Expr }

// For "import {a as b}" Name is "a" and Alias is "b". For "export {a as b}"
// it is the same. Alias is empty when there is no "as".
type ClauseItem struct {
	Name  string
	Alias string
}

// Every form of import declaration. Path is the raw string literal.
//
//	import 'path'
//	import a, {b, c as d} from 'path'
//	import a, * as ns from 'path'
type SImport struct {
	Default *Ident
	Star    *Ident
	Items   *[]ClauseItem
	Path    string
}

// Every export declaration that only lists names:
//
//	export {a, b as c}
//	export {a} from 'path'
//	export * from 'path'
//	export * as ns from 'path'
type SExportList struct {
	Items  []ClauseItem
	IsStar bool
	Alias  string // "ns" in "export * as ns"
	Path   string // The raw string literal, or empty without "from"
}

// "export default" followed by either an expression or a function or class
// declaration. Exactly one of Expr and Stmt is set.
type SExportDefault struct {
	Expr *Expr
	Stmt *Stmt
}

func (*SEmpty) isStmt()         {}
func (*SDebugger) isStmt()      {}
func (*SDirective) isStmt()     {}
func (*SBlock) isStmt()         {}
func (*SExpr) isStmt()          {}
func (*SLocal) isStmt()         {}
func (*SFunction) isStmt()      {}
func (*SClass) isStmt()         {}
func (*SIf) isStmt()            {}
func (*SFor) isStmt()           {}
func (*SForEach) isStmt()       {}
func (*SWhile) isStmt()         {}
func (*SDoWhile) isStmt()       {}
func (*STry) isStmt()           {}
func (*SSwitch) isStmt()        {}
func (*SLabel) isStmt()         {}
func (*SJump) isStmt()          {}
func (*SReturn) isStmt()        {}
func (*SThrow) isStmt()         {}
func (*SImport) isStmt()        {}
func (*SExportList) isStmt()    {}
func (*SExportDefault) isStmt() {}

type AST struct {
	Hashbang string
	Stmts    []Stmt
}

////////////////////////////////////////////////////////////////////////////////
// Helpers

func Assign(target Expr, value Expr) Expr {
	return Expr{Loc: target.Loc, Data: &EBinary{Op: "=", Left: target, Right: value}}
}

func AssignStmt(target Expr, value Expr) Stmt {
	return Stmt{Loc: target.Loc, Data: &SExpr{Value: Assign(target, value)}}
}

// StringExpr makes a string literal that is quoted when printed
func StringExpr(loc logger.Loc, value string) Expr {
	return Expr{Loc: loc, Data: &EString{Value: value}}
}

func IsOptionalChain(e Expr) bool {
	switch e := e.Data.(type) {
	case *EDot:
		return e.OptionalChain != OptionalChainNone
	case *EIndex:
		return e.OptionalChain != OptionalChainNone
	case *ECall:
		return e.OptionalChain != OptionalChainNone
	}
	return false
}
