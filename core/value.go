package core

// Value is a weak-head-normal-form Dhall value: its outermost constructor
// is already final, but constructor arguments may still be further
// reducible values (for closures, via Callable; for literals and
// already-stuck nodes, Universe/Builtin/NaturalLit/... double as both Term
// and Value since they can't reduce any further).
type Value interface {
	isValue()
}

func (Universe) isValue() {}
func (Builtin) isValue()  {}
func (Var) isValue()      {}
func (LocalVar) isValue() {}
func (BoolLit) isValue()    {}
func (NaturalLit) isValue() {}
func (IntegerLit) isValue() {}
func (DoubleLit) isValue()  {}

// localVar is the Value bound to a variable opened during typechecking: a
// fresh opaque placeholder identified by label and binder depth, used so
// that Pi codomains and Lambda bodies can be evaluated under a binder
// without a concrete argument in hand. It is distinct from the exported
// LocalVar term so that quoting (which produces LocalVar terms) can't be
// confused with values still participating in evaluation.
type localVar struct {
	Name  string
	Index int
}

func (localVar) isValue() {}

// quoteVar is localVar's sibling used only inside judgmentallyEqualVals: a
// throwaway placeholder for comparing two closures' bodies at a given
// nesting depth. Kept as a separate type so a genuine localVar captured
// inside a closure can never collide with one manufactured purely for an
// equality check.
type quoteVar struct {
	Name  string
	Index int
}

func (quoteVar) isValue() {}

// Callable is implemented by values that can be applied to an argument.
// Call returns nil when no reduction rule fires for this argument, in
// which case the caller is responsible for building the stuck AppValue.
type Callable interface {
	Value
	Call(Value) Value
}

// LambdaValue is a normalized `λ(Label : Domain) → ...`. Fn closes over
// its defining environment; calling it substitutes its argument and
// continues normalizing the body.
type LambdaValue struct {
	Label  string
	Domain Value
	Fn     func(Value) Value
}

func (LambdaValue) isValue() {}

func (v LambdaValue) Call(arg Value) Value { return v.Fn(arg) }

// NewPiVal and NewFnTypeVal build PiValue from a Go closure, primarily
// useful for constructing builtin type schemas and test fixtures.
type PiValue struct {
	Label  string
	Domain Value
	Range  func(Value) Value
}

func (PiValue) isValue() {}

func NewPiVal(label string, domain Value, rng func(Value) Value) PiValue {
	return PiValue{Label: label, Domain: domain, Range: rng}
}

// NewFnTypeVal builds a non-dependent function type `domain -> codomain`.
func NewFnTypeVal(label string, domain, codomain Value) PiValue {
	return PiValue{Label: label, Domain: domain, Range: func(Value) Value { return codomain }}
}

// AppValue is a stuck application: its function position could not be
// reduced further against its argument.
type AppValue struct {
	Fn  Value
	Arg Value
}

func (AppValue) isValue() {}

// EmptyListVal is `[] : List Type`; Type holds the element type.
type EmptyListVal struct {
	Type Value
}

func (EmptyListVal) isValue() {}

// NonEmptyListVal is a non-empty, fully reduced list.
type NonEmptyListVal []Value

func (NonEmptyListVal) isValue() {}

// EmptyOptionalVal and SomeVal are Optional's two constructors in value
// form. Dhall represents the empty Optional as `None Type` at the term
// level; EmptyOptionalVal only appears once that application has reduced.
type EmptyOptionalVal struct {
	Type Value
}

func (EmptyOptionalVal) isValue() {}

type SomeVal struct {
	Val Value
}

func (SomeVal) isValue() {}

// ChunkVal and TextLitVal mirror Chunk/TextLitTerm at the value level. The
// invariant maintained by the normalizer (see evalTextLit in eval.go) is
// that no chunk's Expr is itself a TextLitVal and no two adjacent chunks
// could be merged into a single literal run.
type ChunkVal struct {
	Prefix string
	Expr   Value
}

type ChunkVals []ChunkVal

type TextLitVal struct {
	Chunks ChunkVals
	Suffix string
}

func (TextLitVal) isValue() {}

// RecordTypeVal and RecordLitVal are records in value form.
type RecordTypeVal map[string]Value

func (RecordTypeVal) isValue() {}

type RecordLitVal map[string]Value

func (RecordLitVal) isValue() {}

// UnionTypeVal mirrors UnionType; a nil entry marks a bare alternative.
type UnionTypeVal map[string]Value

func (UnionTypeVal) isValue() {}

// fieldVal and projectVal are stuck field access / projection, retained so
// that substituting into their Record may later unlock reduction (e.g.
// once a free variable receives a concrete RecordLitVal).
type fieldVal struct {
	Record    Value
	FieldName string
}

func (fieldVal) isValue() {}

type projectVal struct {
	Record     Value
	FieldNames []string
}

func (projectVal) isValue() {}

// opValue is a binary operator application that didn't fold to a simpler
// form (e.g. two distinct free variables compared with ===).
type opValue struct {
	OpCode OpCode
	L      Value
	R      Value
}

func (opValue) isValue() {}

// ifVal is a stuck `if` whose condition didn't reduce to a literal and
// whose branches aren't equal.
type ifVal struct {
	Cond Value
	T    Value
	F    Value
}

func (ifVal) isValue() {}

// toMapVal is a stuck `toMap`, kept around with its declared type (if any)
// so Merge/typecheck can still see it.
type toMapVal struct {
	Record Value
	Type   Value
}

func (toMapVal) isValue() {}

// mergeVal is a stuck `merge`, produced when neither the handler record
// nor the scrutinee has reduced far enough to pick a branch.
type mergeVal struct {
	Handler    Value
	Union      Value
	Annotation Value // nil if absent
}

func (mergeVal) isValue() {}

// assertVal is the (never-reducible) value of an `assert`.
type assertVal struct {
	Annotation Value
}

func (assertVal) isValue() {}
