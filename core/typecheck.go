package core

import "github.com/pkg/errors"

// TypeOf infers the type of a closed expression, typechecking it under an
// empty context.
func TypeOf(t Term) (Value, error) {
	return TypeWith(EmptyContext(), t)
}

// TypeWith is the bidirectional type-inference judgement `ctx ⊢ t : ?`,
// recursing through every Term variant. There is no global mutable state:
// each call only consumes its own ctx and whatever its subterms return.
func TypeWith(ctx Context, t Term) (Value, error) {
	switch t := t.(type) {
	case Universe:
		switch t {
		case Type:
			return Kind, nil
		case Kind:
			return Sort, nil
		default: // Sort
			return nil, mkTypeErr(ctx, SortError, t, "Sort has no type")
		}

	case Builtin:
		schema, err := builtinTypeSchema(t)
		if err != nil {
			return nil, mkTypeErr(ctx, Unimplemented, t, "%s", err)
		}
		return Eval(schema), nil

	case Var:
		ty, ok := ctx.lookupType(t)
		if !ok {
			return nil, mkTypeErr(ctx, UnboundVariable, t, "unbound variable %q", t.Name)
		}
		return ty, nil

	case LocalVar:
		return nil, mkTypeErr(ctx, UnboundVariable, t, "free variable %q has no binder in this context", t.Name)

	case LambdaTerm:
		domainKind, err := TypeWith(ctx, t.Type)
		if err != nil {
			return nil, err
		}
		if _, ok := domainKind.(Universe); !ok {
			return nil, mkTypeErr(ctx, InvalidInputType, t, "function input annotation is not a type")
		}
		domainVal := Eval(t.Type)
		bodyCtx := ctx.insertType(t.Label, domainVal)
		if _, err := TypeWith(bodyCtx, t.Body); err != nil {
			return nil, err
		}
		label, body := t.Label, t.Body
		return PiValue{
			Label:  label,
			Domain: domainVal,
			Range: func(x Value) Value {
				return mustTypeWith(ctx.insertValue(label, x, domainVal), body)
			},
		}, nil

	case PiTerm:
		domainKind, err := TypeWith(ctx, t.Type)
		if err != nil {
			return nil, err
		}
		domainUniv, ok := domainKind.(Universe)
		if !ok {
			return nil, mkTypeErr(ctx, InvalidInputType, t, "pi input annotation is not a type")
		}
		domainVal := Eval(t.Type)
		codomainKind, err := TypeWith(ctx.insertType(t.Label, domainVal), t.Body)
		if err != nil {
			return nil, err
		}
		codomainUniv, ok := codomainKind.(Universe)
		if !ok {
			return nil, mkTypeErr(ctx, InvalidOutputType, t, "pi output annotation is not a type")
		}
		result, err := functionCheck(domainUniv, codomainUniv)
		if err != nil {
			return nil, mkTypeErr(ctx, NoDependentTypes, t, "%s", err)
		}
		return result, nil

	case AppTerm:
		fnType, err := TypeWith(ctx, t.Fn)
		if err != nil {
			return nil, err
		}
		piVal, ok := fnType.(PiValue)
		if !ok {
			return nil, mkTypeErr(ctx, NotAFunction, t, "not a function")
		}
		argType, err := TypeWith(ctx, t.Arg)
		if err != nil {
			return nil, err
		}
		if !judgmentallyEqualVals(argType, piVal.Domain) {
			return nil, mkTypeErr(ctx, TypeMismatch, t, "argument type does not match function input")
		}
		return piVal.Range(Eval(t.Arg)), nil

	case Let:
		curCtx := ctx
		for _, b := range t.Bindings {
			valType, err := TypeWith(curCtx, b.Value)
			if err != nil {
				return nil, err
			}
			if b.Type != nil {
				if _, err := TypeWith(curCtx, b.Type); err != nil {
					return nil, err
				}
				if annotVal := Eval(b.Type); !judgmentallyEqualVals(valType, annotVal) {
					return nil, mkTypeErr(curCtx, AnnotMismatch, t, "let binding %q does not match its annotation", b.Variable)
				}
			}
			curCtx = curCtx.insertValue(b.Variable, Eval(b.Value), valType)
		}
		return TypeWith(curCtx, t.Body)

	case Annot:
		exprType, err := TypeWith(ctx, t.Expr)
		if err != nil {
			return nil, err
		}
		if _, err := TypeWith(ctx, t.Annotation); err != nil {
			return nil, err
		}
		annotVal := Eval(t.Annotation)
		if !judgmentallyEqualVals(exprType, annotVal) {
			return nil, mkTypeErr(ctx, AnnotMismatch, t, "annotation does not match inferred type")
		}
		return annotVal, nil

	case BoolLit:
		return Bool, nil
	case NaturalLit:
		return Natural, nil
	case IntegerLit:
		return Integer, nil
	case DoubleLit:
		return Double, nil

	case TextLitTerm:
		for _, c := range t.Chunks {
			cty, err := TypeWith(ctx, c.Expr)
			if err != nil {
				return nil, err
			}
			if cty != Value(Text) {
				return nil, mkTypeErr(ctx, InvalidTextInterpolation, t, "interpolated expression is not Text")
			}
		}
		return Text, nil

	case BoolIf:
		condType, err := TypeWith(ctx, t.Cond)
		if err != nil {
			return nil, err
		}
		if condType != Value(Bool) {
			return nil, mkTypeErr(ctx, InvalidPredicate, t, "if condition is not Bool")
		}
		tType, err := TypeWith(ctx, t.T)
		if err != nil {
			return nil, err
		}
		if err := requireTermKind(ctx, tType); err != nil {
			return nil, mkTypeErr(ctx, IfBranchMustBeTerm, t, "if branches must have type Type")
		}
		fType, err := TypeWith(ctx, t.F)
		if err != nil {
			return nil, err
		}
		if !judgmentallyEqualVals(tType, fType) {
			return nil, mkTypeErr(ctx, IfBranchMismatch, t, "if branches disagree on their type")
		}
		return tType, nil

	case EmptyList:
		if _, err := TypeWith(ctx, t.Type); err != nil {
			return nil, err
		}
		listTypeVal := Eval(t.Type)
		if !isListOf(listTypeVal) {
			return nil, mkTypeErr(ctx, MissingListType, t, "[] annotation must be `List a`")
		}
		return listTypeVal, nil

	case NonEmptyList:
		elemType, err := TypeWith(ctx, t[0])
		if err != nil {
			return nil, err
		}
		if err := requireTermKind(ctx, elemType); err != nil {
			return nil, mkTypeErr(ctx, InvalidListType, t, "list element type is not a type")
		}
		for _, elem := range t[1:] {
			eType, err := TypeWith(ctx, elem)
			if err != nil {
				return nil, err
			}
			if !judgmentallyEqualVals(eType, elemType) {
				return nil, mkTypeErr(ctx, InvalidListElement, t, "list elements have mismatched types")
			}
		}
		return AppValue{Fn: List, Arg: elemType}, nil

	case Some:
		valType, err := TypeWith(ctx, t.Val)
		if err != nil {
			return nil, err
		}
		return AppValue{Fn: Optional, Arg: valType}, nil

	case RecordType:
		var universe *Universe
		for _, fieldTy := range t {
			k, err := TypeWith(ctx, fieldTy)
			if err != nil {
				return nil, err
			}
			u, ok := k.(Universe)
			if !ok {
				return nil, mkTypeErr(ctx, RecordMixedKinds, t, "record type field is not itself a type")
			}
			if universe == nil {
				universe = &u
			} else if *universe != u {
				return nil, mkTypeErr(ctx, RecordMixedKinds, t, "record type fields live in different universes")
			}
		}
		if universe == nil {
			return Type, nil
		}
		return *universe, nil

	case UnionType:
		var universe *Universe
		for _, alt := range t {
			if alt == nil {
				continue
			}
			k, err := TypeWith(ctx, alt)
			if err != nil {
				return nil, err
			}
			u, ok := k.(Universe)
			if !ok {
				return nil, mkTypeErr(ctx, UnionTypeMixedKinds, t, "union alternative is not itself a type")
			}
			if universe == nil {
				universe = &u
			} else if *universe != u {
				return nil, mkTypeErr(ctx, UnionTypeMixedKinds, t, "union alternatives live in different universes")
			}
		}
		if universe == nil {
			return Type, nil
		}
		return *universe, nil

	case RecordLit:
		fields := make(RecordTypeVal, len(t))
		for k, v := range t {
			fty, err := TypeWith(ctx, v)
			if err != nil {
				return nil, err
			}
			fields[k] = fty
		}
		return fields, nil

	case Field:
		recType, err := TypeWith(ctx, t.Record)
		if err != nil {
			return nil, err
		}
		if rt, ok := recType.(RecordTypeVal); ok {
			fty, ok := rt[t.FieldName]
			if !ok {
				return nil, mkTypeErr(ctx, MissingRecordField, t, "record has no field %q", t.FieldName)
			}
			return fty, nil
		}
		if ut, ok := Eval(t.Record).(UnionTypeVal); ok {
			alt, ok := ut[t.FieldName]
			if !ok {
				return nil, mkTypeErr(ctx, MissingUnionField, t, "union has no alternative %q", t.FieldName)
			}
			if alt == nil {
				return ut, nil
			}
			return NewFnTypeVal(t.FieldName, alt, ut), nil
		}
		return nil, mkTypeErr(ctx, NotARecord, t, "field access target is neither a record nor a union type")

	case Project:
		recType, err := TypeWith(ctx, t.Record)
		if err != nil {
			return nil, err
		}
		rt, ok := recType.(RecordTypeVal)
		if !ok {
			return nil, mkTypeErr(ctx, ProjectionMustBeRecord, t, "projection target is not a record")
		}
		seen := make(map[string]bool, len(t.FieldNames))
		result := make(RecordTypeVal, len(t.FieldNames))
		for _, name := range t.FieldNames {
			if seen[name] {
				return nil, mkTypeErr(ctx, ProjectionDuplicateField, t, "duplicate projected field %q", name)
			}
			seen[name] = true
			fty, ok := rt[name]
			if !ok {
				return nil, mkTypeErr(ctx, ProjectionMissingEntry, t, "record has no field %q", name)
			}
			result[name] = fty
		}
		return result, nil

	case ProjectType:
		recType, err := TypeWith(ctx, t.Record)
		if err != nil {
			return nil, err
		}
		rt, ok := recType.(RecordTypeVal)
		if !ok {
			return nil, mkTypeErr(ctx, ProjectionMustBeRecord, t, "projection target is not a record")
		}
		if _, err := TypeWith(ctx, t.Selector); err != nil {
			return nil, err
		}
		selVal, ok := Eval(t.Selector).(RecordTypeVal)
		if !ok {
			return nil, mkTypeErr(ctx, ProjectionMustBeRecord, t, "projection selector must evaluate to a record type")
		}
		result := make(RecordTypeVal, len(selVal))
		for name := range selVal {
			fty, ok := rt[name]
			if !ok {
				return nil, mkTypeErr(ctx, ProjectionMissingEntry, t, "record has no field %q", name)
			}
			result[name] = fty
		}
		return result, nil

	case OpTerm:
		return typeOfOp(ctx, t)

	case Merge:
		return typeOfMerge(ctx, t)

	case ToMap:
		return typeOfToMap(ctx, t)

	case Assert:
		op, ok := t.Annotation.(OpTerm)
		if !ok || op.OpCode != EquivOp {
			return nil, mkTypeErr(ctx, AssertMustTakeEquivalence, t, "assert requires an equivalence `x ≡ y`")
		}
		annotKind, err := TypeWith(ctx, t.Annotation)
		if err != nil {
			return nil, err
		}
		if annotKind != Value(Type) {
			return nil, mkTypeErr(ctx, AssertMustTakeEquivalence, t, "assert requires an equivalence `x ≡ y`")
		}
		if !judgmentallyEqualVals(Eval(op.L), Eval(op.R)) {
			return nil, mkTypeErr(ctx, AssertMismatch, t, "assert sides are not equivalent")
		}
		return Eval(t.Annotation), nil

	default:
		panic("core: unknown term type in TypeWith")
	}
}

// mustTypeWith is used only to build a Pi's Range closure: the body was
// already typechecked once (under a placeholder for its bound variable)
// by the caller, so re-deriving it here under a concrete value can only
// fail if that prior check was unsound -- in which case there is no
// sensible type-value to hand back to the caller anyway.
func mustTypeWith(ctx Context, t Term) Value {
	v, err := TypeWith(ctx, t)
	if err != nil {
		return nil
	}
	return v
}

// requireTermKind checks that a value used as a term's type itself has
// kind Type -- i.e. rejects the term from secretly being a type or kind.
func requireTermKind(ctx Context, ty Value) error {
	kind, err := TypeWith(ctx, ToExpression(ty, false))
	if err != nil {
		return err
	}
	if kind != Value(Type) {
		return errors.New("core: expected a term, found a type or kind")
	}
	return nil
}

func isListOf(v Value) bool {
	app, ok := v.(AppValue)
	if !ok {
		return false
	}
	b, ok := app.Fn.(Builtin)
	return ok && b == List
}

// functionCheck implements the Pi-typing rule combining a domain universe
// and a codomain universe into the Pi's own universe. Dhall's restricted
// dependent types only admit the six combinations below; a term-indexed
// type family (a codomain universe strictly above Type while the domain
// lives below it, e.g. (Type, Kind)) is exactly what the restriction
// forbids, so every other combination is rejected.
func functionCheck(in, out Universe) (Universe, error) {
	switch {
	case out == Type:
		return Type, nil
	case in == Kind && out == Kind:
		return Kind, nil
	case in == Sort && out == Sort:
		return Sort, nil
	case in == Sort && out == Kind:
		return Sort, nil
	}
	return 0, errors.New("core: dependent function types are not allowed here")
}

func typeOfOp(ctx Context, t OpTerm) (Value, error) {
	if t.OpCode == CompleteOp {
		return TypeWith(ctx, Annot{
			Expr:       OpTerm{OpCode: RightBiasedRecordMergeOp, L: Field{Record: t.L, FieldName: "default"}, R: t.R},
			Annotation: Field{Record: t.L, FieldName: "Type"},
		})
	}

	lt, err := TypeWith(ctx, t.L)
	if err != nil {
		return nil, err
	}
	rt, err := TypeWith(ctx, t.R)
	if err != nil {
		return nil, err
	}

	switch t.OpCode {
	case OrOp, AndOp, EqOp, NeOp:
		if lt != Value(Bool) || rt != Value(Bool) {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "operator requires Bool operands")
		}
		return Bool, nil
	case PlusOp, TimesOp:
		if lt != Value(Natural) || rt != Value(Natural) {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "operator requires Natural operands")
		}
		return Natural, nil
	case TextAppendOp:
		if lt != Value(Text) || rt != Value(Text) {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "operator requires Text operands")
		}
		return Text, nil
	case ListAppendOp:
		if !isListOf(lt) || !isListOf(rt) {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "operator requires List operands")
		}
		if !judgmentallyEqualVals(lt, rt) {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "list append element types disagree")
		}
		return lt, nil
	case RecordMergeOp:
		lr, lok := lt.(RecordTypeVal)
		rr, rok := rt.(RecordTypeVal)
		if !lok || !rok {
			return nil, mkTypeErr(ctx, RecordTypeMismatch, t, "recursive record merge requires record operands")
		}
		return mergeRecordTypesChecked(ctx, t, lr, rr)
	case RecordTypeMergeOp:
		lu, lok := lt.(Universe)
		ru, rok := rt.(Universe)
		if !lok || !rok {
			return nil, mkTypeErr(ctx, RecordTypeMismatch, t, "recursive record type merge requires record type operands")
		}
		lv, lvok := Eval(t.L).(RecordTypeVal)
		rv, rvok := Eval(t.R).(RecordTypeVal)
		if !lvok || !rvok {
			return nil, mkTypeErr(ctx, RecordTypeMismatch, t, "recursive record type merge requires record type operands")
		}
		if lu != ru {
			return nil, mkTypeErr(ctx, RecordMixedKinds, t, "record type merge operands live in different universes")
		}
		merged, err := mergeRecordTypes(lv, rv)
		if err != nil {
			return nil, mkTypeErr(ctx, RecordTypeMismatch, t, "incompatible record type merge")
		}
		return merged, nil
	case RightBiasedRecordMergeOp:
		lr, lok := lt.(RecordTypeVal)
		rr, rok := rt.(RecordTypeVal)
		if !lok || !rok {
			return nil, mkTypeErr(ctx, RecordTypeMismatch, t, "right-biased record merge requires record operands")
		}
		out := make(RecordTypeVal, len(lr)+len(rr))
		for k, v := range lr {
			out[k] = v
		}
		for k, v := range rr {
			out[k] = v
		}
		return out, nil
	case ImportAltOp:
		return lt, nil
	case EquivOp:
		if !judgmentallyEqualVals(lt, rt) {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "equivalence operands have different types")
		}
		if err := requireTermKind(ctx, lt); err != nil {
			return nil, mkTypeErr(ctx, BinOpTypeMismatch, t, "equivalence operands must be terms")
		}
		return Type, nil
	}
	panic("core: unknown OpCode in typeOfOp")
}

// mergeRecordTypesChecked is mergeRecordTypes (eval.go) with TypeError
// reporting, used for RecursiveRecordMerge where the operands are the
// inferred types of two record literals rather than record-type
// expressions in their own right.
func mergeRecordTypesChecked(ctx Context, t Term, l, r RecordTypeVal) (Value, error) {
	result := make(RecordTypeVal, len(l)+len(r))
	for k, v := range l {
		result[k] = v
	}
	for k, v := range r {
		if lv, ok := result[k]; ok {
			lsub, lok := lv.(RecordTypeVal)
			rsub, rok := v.(RecordTypeVal)
			if !lok || !rok {
				return nil, mkTypeErr(ctx, RecordTypeMismatch, t, "recursive record merge collision on non-record field %q", k)
			}
			merged, err := mergeRecordTypesChecked(ctx, t, lsub, rsub)
			if err != nil {
				return nil, err
			}
			result[k] = merged.(RecordTypeVal)
		} else {
			result[k] = v
		}
	}
	return result, nil
}

func typeOfMerge(ctx Context, t Merge) (Value, error) {
	handlerType, err := TypeWith(ctx, t.Handler)
	if err != nil {
		return nil, err
	}
	handlers, ok := handlerType.(RecordTypeVal)
	if !ok {
		return nil, mkTypeErr(ctx, Merge1ArgMustBeRecord, t, "merge's first argument must be a record of handlers")
	}

	unionType, err := TypeWith(ctx, t.Union)
	if err != nil {
		return nil, err
	}
	variants, ok := unionVariants(unionType)
	if !ok {
		return nil, mkTypeErr(ctx, Merge2ArgMustBeUnionOrOptional, t, "merge's second argument must be a union or an Optional")
	}

	if len(variants) == 0 {
		if t.Annotation == nil {
			return nil, mkTypeErr(ctx, MergeEmptyNeedsAnnotation, t, "merge over an empty union requires a type annotation")
		}
		if _, err := TypeWith(ctx, t.Annotation); err != nil {
			return nil, err
		}
		return Eval(t.Annotation), nil
	}

	var resultType Value
	for label, payload := range variants {
		h, ok := handlers[label]
		if !ok {
			return nil, mkTypeErr(ctx, MergeVariantMissingHandler, t, "no handler for alternative %q", label)
		}
		var branchType Value
		if payload == nil {
			branchType = h
		} else {
			hPi, ok := h.(PiValue)
			if !ok {
				return nil, mkTypeErr(ctx, MergeHandlerTypeMismatch, t, "handler for %q must be a function", label)
			}
			if !judgmentallyEqualVals(hPi.Domain, payload) {
				return nil, mkTypeErr(ctx, MergeHandlerTypeMismatch, t, "handler for %q has the wrong input type", label)
			}
			probe1 := hPi.Range(localVar{Name: "_", Index: -1})
			probe2 := hPi.Range(localVar{Name: "_", Index: -2})
			if !judgmentallyEqualVals(probe1, probe2) {
				return nil, mkTypeErr(ctx, MergeHandlerReturnTypeMustNotBeDependent, t, "handler for %q's result type depends on its argument", label)
			}
			branchType = probe1
		}
		if resultType == nil {
			resultType = branchType
		} else if !judgmentallyEqualVals(resultType, branchType) {
			return nil, mkTypeErr(ctx, MergeHandlerTypeMismatch, t, "merge handlers disagree on their result type")
		}
	}
	for label := range handlers {
		if _, ok := variants[label]; !ok {
			return nil, mkTypeErr(ctx, MergeHandlerMissingVariant, t, "handler %q has no matching alternative", label)
		}
	}

	if t.Annotation != nil {
		if _, err := TypeWith(ctx, t.Annotation); err != nil {
			return nil, err
		}
		annotVal := Eval(t.Annotation)
		if !judgmentallyEqualVals(annotVal, resultType) {
			return nil, mkTypeErr(ctx, MergeAnnotMismatch, t, "merge annotation does not match the inferred result type")
		}
	}
	return resultType, nil
}

// unionVariants normalizes either a UnionType or an Optional's type into a
// common label->payload-type map (nil payload = bare alternative), so
// typeOfMerge can treat both scrutinee shapes uniformly.
func unionVariants(ty Value) (map[string]Value, bool) {
	if ut, ok := ty.(UnionTypeVal); ok {
		return map[string]Value(ut), true
	}
	if app, ok := ty.(AppValue); ok {
		if b, ok := app.Fn.(Builtin); ok && b == Optional {
			return map[string]Value{"Some": app.Arg, "None": nil}, true
		}
	}
	return nil, false
}

func typeOfToMap(ctx Context, t ToMap) (Value, error) {
	recType, err := TypeWith(ctx, t.Record)
	if err != nil {
		return nil, err
	}
	rt, ok := recType.(RecordTypeVal)
	if !ok {
		return nil, mkTypeErr(ctx, NotARecord, t, "toMap's argument must be a record")
	}

	if len(rt) == 0 {
		if t.Type == nil {
			return nil, mkTypeErr(ctx, MissingListType, t, "toMap of an empty record requires a type annotation")
		}
		if _, err := TypeWith(ctx, t.Type); err != nil {
			return nil, err
		}
		return Eval(t.Type), nil
	}

	var entryType Value
	for _, fty := range rt {
		if entryType == nil {
			entryType = fty
		} else if !judgmentallyEqualVals(entryType, fty) {
			return nil, mkTypeErr(ctx, RecordMixedKinds, t, "toMap requires every field to share a type")
		}
	}
	result := Value(AppValue{Fn: List, Arg: RecordTypeVal{"mapKey": Text, "mapValue": entryType}})

	if t.Type != nil {
		if _, err := TypeWith(ctx, t.Type); err != nil {
			return nil, err
		}
		if annotVal := Eval(t.Type); !judgmentallyEqualVals(annotVal, result) {
			return nil, mkTypeErr(ctx, AnnotMismatch, t, "toMap annotation does not match the inferred type")
		}
	}
	return result, nil
}

// TypedValue pairs a normalized value with its inferred type, the result
// of a successful Typecheck/TypecheckAgainst call.
type TypedValue struct {
	Value Value
	Type  Value
}

// Typecheck is the core's first external entry point: infer ast's type
// and evaluate it, or report why it doesn't typecheck.
func Typecheck(ast Term) (TypedValue, error) {
	ty, err := TypeOf(ast)
	if err != nil {
		return TypedValue{}, err
	}
	return TypedValue{Value: Eval(ast), Type: ty}, nil
}

// TypecheckAgainst additionally requires ast's inferred type to match
// expectedType, Dhall's `:` annotation at the top level (e.g. a config
// file checked against a schema supplied out-of-band).
func TypecheckAgainst(ast, expectedType Term) (TypedValue, error) {
	ty, err := TypeOf(ast)
	if err != nil {
		return TypedValue{}, err
	}
	if _, err := TypeOf(expectedType); err != nil {
		return TypedValue{}, err
	}
	expected := Eval(expectedType)
	if !judgmentallyEqualVals(ty, expected) {
		return TypedValue{}, mkTypeErr(EmptyContext(), AnnotMismatch, ast, "expression's type does not match the expected type")
	}
	return TypedValue{Value: Eval(ast), Type: ty}, nil
}

// Normalize is the core's third external entry point: reify a typed
// value's already-evaluated Value back to its canonical AST.
func Normalize(tv TypedValue) Term {
	return ToExpression(tv.Value, false)
}
