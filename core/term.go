package core

// Term is a resolved, import-free Dhall expression. Every concrete type in
// this file implements Term. Nodes produced by the parser/import layers are
// expected to already satisfy the invariants of whichever constructor is
// used (unique record/union labels, non-negative De Bruijn indices,
// non-empty NonEmptyList, etc) -- this package does not re-validate them,
// except where doing so is required to decide a typechecking rule.
type Term interface {
	isTerm()
}

// Universe is one of Dhall's three sorts, forming the stratified hierarchy
// Type : Kind : Sort. A Universe value doubles as its own normal-form
// Value, since universes never reduce further.
type Universe int

const (
	Type Universe = iota
	Kind
	Sort
)

func (Universe) isTerm() {}

func (u Universe) String() string {
	switch u {
	case Type:
		return "Type"
	case Kind:
		return "Kind"
	case Sort:
		return "Sort"
	default:
		return "<unknown universe>"
	}
}

// Builtin names one of Dhall's fixed catalogue of primitive functions and
// base types. Builtins with no special reduction rule (Bool, Natural,
// List, ...) are returned as-is by the normalizer; the rest carry their own
// Value type so that partial application can be tracked (see builtins.go).
type Builtin string

const (
	Bool     Builtin = "Bool"
	Natural  Builtin = "Natural"
	Integer  Builtin = "Integer"
	Double   Builtin = "Double"
	Text     Builtin = "Text"
	List     Builtin = "List"
	Optional Builtin = "Optional"
	None     Builtin = "None"

	NaturalBuild      Builtin = "Natural/build"
	NaturalFold       Builtin = "Natural/fold"
	NaturalIsZero     Builtin = "Natural/isZero"
	NaturalEven       Builtin = "Natural/even"
	NaturalOdd        Builtin = "Natural/odd"
	NaturalToInteger  Builtin = "Natural/toInteger"
	NaturalShow       Builtin = "Natural/show"
	NaturalSubtract   Builtin = "Natural/subtract"
	IntegerShow       Builtin = "Integer/show"
	IntegerToDouble   Builtin = "Integer/toDouble"
	IntegerNegate     Builtin = "Integer/negate"
	IntegerClamp      Builtin = "Integer/clamp"
	DoubleShow        Builtin = "Double/show"
	TextShow          Builtin = "Text/show"
	ListBuild         Builtin = "List/build"
	ListFold          Builtin = "List/fold"
	ListLength        Builtin = "List/length"
	ListHead          Builtin = "List/head"
	ListLast          Builtin = "List/last"
	ListIndexed       Builtin = "List/indexed"
	ListReverse       Builtin = "List/reverse"
	OptionalBuild     Builtin = "Optional/build"
	OptionalFold      Builtin = "Optional/fold"
)

func (Builtin) isTerm() {}

// Var is a reference to a bound variable: Index counts binders of Name
// above the use site, with 0 being the innermost.
type Var struct {
	Name  string
	Index int
}

func (Var) isTerm() {}

// NewVar constructs a reference to the innermost binder of the given name.
func NewVar(name string) Var { return Var{Name: name, Index: 0} }

// LocalVar is an opaque free variable with no further binder to resolve;
// it is what quoting produces for a context variable whose binder lies
// outside the term being reified, and is otherwise inert under evaluation.
type LocalVar struct {
	Name  string
	Index int
}

func (LocalVar) isTerm() {}

// LambdaTerm is `λ(Label : Type) → Body`.
type LambdaTerm struct {
	Label string
	Type  Term
	Body  Term
}

func (LambdaTerm) isTerm() {}

// NewLambda is a convenience constructor matching Dhall's λ(label : ty) →
// body syntax.
func NewLambda(label string, ty Term, body Term) LambdaTerm {
	return LambdaTerm{Label: label, Type: ty, Body: body}
}

// PiTerm is `∀(Label : Type) → Body`, Dhall's dependent function type.
type PiTerm struct {
	Label string
	Type  Term
	Body  Term
}

func (PiTerm) isTerm() {}

// NewAnonPi builds a non-dependent function type `domain → codomain`.
func NewAnonPi(domain, codomain Term) PiTerm {
	return PiTerm{Label: "_", Type: domain, Body: codomain}
}

// AppTerm is function application `Fn Arg`.
type AppTerm struct {
	Fn  Term
	Arg Term
}

func (AppTerm) isTerm() {}

// Apply curries a chain of arguments onto fn.
func Apply(fn Term, args ...Term) Term {
	for _, a := range args {
		fn = AppTerm{Fn: fn, Arg: a}
	}
	return fn
}

// Binding is one `let Variable : Type? = Value` clause. Dhall allows
// chains of let-bindings under a single `in`; Let collects them so that the
// normalizer can process the whole chain without re-entering evalWith once
// per binding.
type Binding struct {
	Variable string
	Type     Term // nil if the binding carries no annotation
	Value    Term
}

// Let is `let b1 let b2 ... in Body`.
type Let struct {
	Bindings []Binding
	Body     Term
}

func (Let) isTerm() {}

// Annot is a type ascription `Expr : Annotation`.
type Annot struct {
	Expr       Term
	Annotation Term
}

func (Annot) isTerm() {}

// BoolLit, NaturalLit, IntegerLit and DoubleLit are literal terms. Each
// doubles as its own Value, since literals are already in normal form.
type BoolLit bool

func (BoolLit) isTerm() {}

var (
	True  = BoolLit(true)
	False = BoolLit(false)
)

// NaturalLit is a non-negative integer literal.
type NaturalLit uint64

func (NaturalLit) isTerm() {}

// IntegerLit is a signed integer literal.
type IntegerLit int64

func (IntegerLit) isTerm() {}

// DoubleLit is an IEEE-754 double-precision literal.
type DoubleLit float64

func (DoubleLit) isTerm() {}

// Chunk is one `prefix${Expr}` segment of a text literal; Chunks is the
// full interpolation sequence and Suffix is the trailing literal text
// after the last interpolation.
type Chunk struct {
	Prefix string
	Expr   Term
}

type Chunks []Chunk

// TextLitTerm is a (possibly interpolated) text literal.
type TextLitTerm struct {
	Chunks Chunks
	Suffix string
}

func (TextLitTerm) isTerm() {}

// PlainText builds a TextLitTerm with no interpolation.
func PlainText(s string) TextLitTerm { return TextLitTerm{Suffix: s} }

// EmptyList is `[] : Type` where Type must normalize to `List a`.
type EmptyList struct {
	Type Term
}

func (EmptyList) isTerm() {}

// NonEmptyList is a non-empty list literal `[e1, e2, ...]`.
type NonEmptyList []Term

func (NonEmptyList) isTerm() {}

// Some is `Some e`, the non-empty Optional constructor.
type Some struct {
	Val Term
}

func (Some) isTerm() {}

// RecordType is `{ l1 : T1, l2 : T2, ... }`. Construction is responsible
// for rejecting duplicate labels; this type assumes uniqueness.
type RecordType map[string]Term

func (RecordType) isTerm() {}

// RecordLit is `{ l1 = e1, l2 = e2, ... }`.
type RecordLit map[string]Term

func (RecordLit) isTerm() {}

// Field is record field access `Record.FieldName`.
type Field struct {
	Record    Term
	FieldName string
}

func (Field) isTerm() {}

// Project is record projection `Record.{ l1, l2, ... }`.
type Project struct {
	Record     Term
	FieldNames []string
}

func (Project) isTerm() {}

// ProjectType is projection-by-expression `Record.(Selector)`, where
// Selector must evaluate to a RecordType naming the fields to keep.
type ProjectType struct {
	Record   Term
	Selector Term
}

func (ProjectType) isTerm() {}

// UnionType is `< Alt1 : T1 | Alt2 | ... >`; a nil entry marks a bare
// (payload-less) alternative.
type UnionType map[string]Term

func (UnionType) isTerm() {}

// Merge is `merge Handler Union : Annotation?`.
type Merge struct {
	Handler    Term
	Union      Term
	Annotation Term // nil if absent
}

func (Merge) isTerm() {}

// ToMap is `toMap Record : Type?`.
type ToMap struct {
	Record Term
	Type   Term // nil if absent
}

func (ToMap) isTerm() {}

// Assert is `assert : Annotation`, which must type as an Equivalence whose
// two sides are judgmentally equal.
type Assert struct {
	Annotation Term
}

func (Assert) isTerm() {}

// OpCode enumerates Dhall's binary operators.
type OpCode int

const (
	OrOp OpCode = iota
	AndOp
	EqOp
	NeOp
	PlusOp
	TimesOp
	TextAppendOp
	ListAppendOp
	RecordMergeOp
	RecordTypeMergeOp
	RightBiasedRecordMergeOp
	ImportAltOp
	EquivOp
	CompleteOp
)

// OpTerm is a binary operator application `L op R`.
type OpTerm struct {
	OpCode OpCode
	L      Term
	R      Term
}

func (OpTerm) isTerm() {}

// BoolIf is `if Cond then T else F`.
type BoolIf struct {
	Cond Term
	T    Term
	F    Term
}

func (BoolIf) isTerm() {}
