package core

import (
	"sort"
	"strings"
)

// Eval normalizes t to a Value under the empty environment, without
// renaming bound labels.
func Eval(t Term) Value {
	return evalWith(t, Env{}, false)
}

// AlphaBetaEval normalizes t and additionally renames every bound label to
// "_", producing the alpha-canonical value used for content-addressed
// hashing (see quote.go's ToExpression).
func AlphaBetaEval(t Term) Value {
	return evalWith(t, Env{}, true)
}

// evalWith is the normalizer's single entry point: it reduces t (and,
// through recursive calls, every subterm) to a Value, given bindings for
// its free variables in e. shouldAlphaNormalize controls whether
// freshly-introduced binder labels are kept or replaced with "_".
//
// This corresponds to Phase A of the spec's normalizer (generic
// reductions); builtin-specific Phase B reductions are dispatched to
// applyBuiltin in builtins.go once a builtin has soaked up an argument.
func evalWith(t Term, e Env, shouldAlphaNormalize bool) Value {
	switch t := t.(type) {
	case Universe:
		return t
	case Builtin:
		switch t {
		case NaturalBuild:
			return NaturalBuildVal
		case NaturalEven:
			return NaturalEvenVal
		case NaturalFold:
			return NaturalFoldVal
		case NaturalIsZero:
			return NaturalIsZeroVal
		case NaturalOdd:
			return NaturalOddVal
		case NaturalShow:
			return NaturalShowVal
		case NaturalSubtract:
			return NaturalSubtractVal
		case NaturalToInteger:
			return NaturalToIntegerVal
		case IntegerShow:
			return IntegerShowVal
		case IntegerToDouble:
			return IntegerToDoubleVal
		case IntegerNegate:
			return IntegerNegateVal
		case IntegerClamp:
			return IntegerClampVal
		case DoubleShow:
			return DoubleShowVal
		case OptionalBuild:
			return OptionalBuildVal
		case OptionalFold:
			return OptionalFoldVal
		case TextShow:
			return TextShowVal
		case ListBuild:
			return ListBuildVal
		case ListFold:
			return ListFoldVal
		case ListHead:
			return ListHeadVal
		case ListIndexed:
			return ListIndexedVal
		case ListLength:
			return ListLengthVal
		case ListLast:
			return ListLastVal
		case ListReverse:
			return ListReverseVal
		default:
			return t
		}
	case Var:
		if stack, ok := e[t.Name]; ok && t.Index < len(stack) {
			return stack[t.Index].Force()
		}
		return t
	case LocalVar:
		return t
	case LambdaTerm:
		domain := evalWith(t.Type, e, shouldAlphaNormalize)
		label := t.Label
		v := LambdaValue{
			Label:  label,
			Domain: domain,
			Fn: func(x Value) Value {
				return evalWith(t.Body, e.extend(label, forcedThunk(x)), shouldAlphaNormalize)
			},
		}
		if shouldAlphaNormalize {
			v.Label = "_"
		}
		return v
	case PiTerm:
		domain := evalWith(t.Type, e, shouldAlphaNormalize)
		label := t.Label
		v := PiValue{
			Label:  label,
			Domain: domain,
			Range: func(x Value) Value {
				return evalWith(t.Body, e.extend(label, forcedThunk(x)), shouldAlphaNormalize)
			},
		}
		if shouldAlphaNormalize {
			v.Label = "_"
		}
		return v
	case AppTerm:
		fn := evalWith(t.Fn, e, shouldAlphaNormalize)
		arg := evalWith(t.Arg, e, shouldAlphaNormalize)
		return applyVal(fn, arg)
	case Let:
		newEnv := e
		for _, b := range t.Bindings {
			// lazy: the binding's expression is only evaluated the first
			// time it (or a later binding, or the body) looks it up.
			newEnv = newEnv.extend(b.Variable, NewThunk(b.Value, newEnv, shouldAlphaNormalize))
		}
		return evalWith(t.Body, newEnv, shouldAlphaNormalize)
	case Annot:
		return evalWith(t.Expr, e, shouldAlphaNormalize)
	case DoubleLit:
		return t
	case TextLitTerm:
		return evalTextLit(t, e, shouldAlphaNormalize)
	case BoolLit:
		return t
	case BoolIf:
		return evalBoolIf(t, e, shouldAlphaNormalize)
	case NaturalLit:
		return t
	case IntegerLit:
		return t
	case OpTerm:
		return evalOp(t, e, shouldAlphaNormalize)
	case EmptyList:
		// the annotation is `List a`; EmptyListVal keeps only the element type a
		listType := evalWith(t.Type, e, shouldAlphaNormalize)
		if isListOf(listType) {
			return EmptyListVal{Type: listType.(AppValue).Arg}
		}
		return EmptyListVal{Type: listType}
	case NonEmptyList:
		result := make(NonEmptyListVal, len(t))
		for i, elem := range t {
			result[i] = evalWith(elem, e, shouldAlphaNormalize)
		}
		return result
	case Some:
		return SomeVal{Val: evalWith(t.Val, e, shouldAlphaNormalize)}
	case RecordType:
		newRT := make(RecordTypeVal, len(t))
		for k, v := range t {
			newRT[k] = evalWith(v, e, shouldAlphaNormalize)
		}
		return newRT
	case RecordLit:
		newRT := make(RecordLitVal, len(t))
		for k, v := range t {
			newRT[k] = evalWith(v, e, shouldAlphaNormalize)
		}
		return newRT
	case ToMap:
		return evalToMap(t, e, shouldAlphaNormalize)
	case Field:
		return evalField(evalWith(t.Record, e, shouldAlphaNormalize), t.FieldName)
	case Project:
		return evalProject(evalWith(t.Record, e, shouldAlphaNormalize), append([]string{}, t.FieldNames...))
	case ProjectType:
		s, ok := evalWith(t.Selector, e, shouldAlphaNormalize).(RecordTypeVal)
		if !ok {
			// ill-typed; stay total rather than panic
			return fieldVal{Record: evalWith(t.Record, e, shouldAlphaNormalize), FieldName: "?"}
		}
		fieldNames := make([]string, 0, len(s))
		for fieldName := range s {
			fieldNames = append(fieldNames, fieldName)
		}
		return evalProject(evalWith(t.Record, e, shouldAlphaNormalize), fieldNames)
	case UnionType:
		result := make(UnionTypeVal, len(t))
		for k, v := range t {
			if v == nil {
				result[k] = nil
				continue
			}
			result[k] = evalWith(v, e, shouldAlphaNormalize)
		}
		return result
	case Merge:
		return evalMerge(t, e, shouldAlphaNormalize)
	case Assert:
		return assertVal{Annotation: evalWith(t.Annotation, e, shouldAlphaNormalize)}
	default:
		panic("core: unknown term type in evalWith")
	}
}

func evalTextLit(t TextLitTerm, e Env, alpha bool) Value {
	var str strings.Builder
	var newChunks ChunkVals
	for _, chunk := range t.Chunks {
		str.WriteString(chunk.Prefix)
		normExpr := evalWith(chunk.Expr, e, alpha)
		if text, ok := normExpr.(TextLitVal); ok {
			// squash any TextLit landing in an interpolation slot: its
			// first chunk absorbs the prefix accumulated so far.
			if len(text.Chunks) != 0 {
				str.WriteString(text.Chunks[0].Prefix)
				newChunks = append(newChunks, ChunkVal{Prefix: str.String(), Expr: text.Chunks[0].Expr})
				newChunks = append(newChunks, text.Chunks[1:]...)
				str.Reset()
			}
			str.WriteString(text.Suffix)
		} else {
			newChunks = append(newChunks, ChunkVal{Prefix: str.String(), Expr: normExpr})
			str.Reset()
		}
	}
	str.WriteString(t.Suffix)
	newSuffix := str.String()

	// "${<expr>}" alone reduces to <expr> itself, dropping the Text wrapper
	if len(newChunks) == 1 && newChunks[0].Prefix == "" && newSuffix == "" {
		return newChunks[0].Expr
	}
	return TextLitVal{Chunks: newChunks, Suffix: newSuffix}
}

func evalBoolIf(t BoolIf, e Env, alpha bool) Value {
	condVal := evalWith(t.Cond, e, alpha)
	if condVal == Value(True) {
		return evalWith(t.T, e, alpha)
	}
	if condVal == Value(False) {
		return evalWith(t.F, e, alpha)
	}
	tVal := evalWith(t.T, e, alpha)
	fVal := evalWith(t.F, e, alpha)
	if tVal == Value(True) && fVal == Value(False) {
		return condVal
	}
	if judgmentallyEqualVals(tVal, fVal) {
		return tVal
	}
	return ifVal{Cond: condVal, T: tVal, F: fVal}
}

func evalOp(t OpTerm, e Env, alpha bool) Value {
	l := evalWith(t.L, e, alpha)
	r := evalWith(t.R, e, alpha)
	switch t.OpCode {
	case OrOp, AndOp, EqOp, NeOp:
		lb, lok := l.(BoolLit)
		rb, rok := r.(BoolLit)
		switch t.OpCode {
		case OrOp:
			if lok {
				if lb {
					return True
				}
				return r
			}
			if rok {
				if rb {
					return True
				}
				return l
			}
			if judgmentallyEqualVals(l, r) {
				return l
			}
		case AndOp:
			if lok {
				if lb {
					return r
				}
				return False
			}
			if rok {
				if rb {
					return l
				}
				return False
			}
			if judgmentallyEqualVals(l, r) {
				return l
			}
		case EqOp:
			if lok && bool(lb) {
				return r
			}
			if rok && bool(rb) {
				return l
			}
			if judgmentallyEqualVals(l, r) {
				return True
			}
		case NeOp:
			if lok && !bool(lb) {
				return r
			}
			if rok && !bool(rb) {
				return l
			}
			if judgmentallyEqualVals(l, r) {
				return False
			}
		}
	case TextAppendOp:
		return evalTextLit(TextLitTerm{Chunks: Chunks{{Expr: t.L}, {Expr: t.R}}}, e, alpha)
	case ListAppendOp:
		return OpValueListAppend(l, r)
	case PlusOp:
		ln, lok := l.(NaturalLit)
		rn, rok := r.(NaturalLit)
		if lok && rok {
			return NaturalLit(ln + rn)
		}
		if lok && ln == 0 {
			return r
		}
		if rok && rn == 0 {
			return l
		}
	case TimesOp:
		ln, lok := l.(NaturalLit)
		rn, rok := r.(NaturalLit)
		if lok && rok {
			return NaturalLit(ln * rn)
		}
		if lok && ln == 0 {
			return NaturalLit(0)
		}
		if rok && rn == 0 {
			return NaturalLit(0)
		}
		if lok && ln == 1 {
			return r
		}
		if rok && rn == 1 {
			return l
		}
	case RecordMergeOp:
		lR, lOk := l.(RecordLitVal)
		rR, rOk := r.(RecordLitVal)
		if lOk && len(lR) == 0 {
			return r
		}
		if rOk && len(rR) == 0 {
			return l
		}
		if lOk && rOk {
			return mergeRecordLitVals(lR, rR)
		}
	case RecordTypeMergeOp:
		lRT, lOk := l.(RecordTypeVal)
		rRT, rOk := r.(RecordTypeVal)
		if lOk && len(lRT) == 0 {
			return r
		}
		if rOk && len(rRT) == 0 {
			return l
		}
		if lOk && rOk {
			if merged, err := mergeRecordTypes(lRT, rRT); err == nil {
				return merged
			}
		}
	case RightBiasedRecordMergeOp:
		lLit, lOk := l.(RecordLitVal)
		rLit, rOk := r.(RecordLitVal)
		if lOk && len(lLit) == 0 {
			return r
		}
		if rOk && len(rLit) == 0 {
			return l
		}
		if lOk && rOk {
			result := make(RecordLitVal, len(lLit)+len(rLit))
			for k, v := range lLit {
				result[k] = v
			}
			for k, v := range rLit {
				result[k] = v
			}
			return result
		}
		if judgmentallyEqualVals(l, r) {
			return l
		}
	case ImportAltOp:
		return l // imports are resolved before the core runs; `?` is a no-op here
	case EquivOp:
		// never reduced; only meaningful structurally
	case CompleteOp:
		return evalWith(Annot{
			Expr:       OpTerm{OpCode: RightBiasedRecordMergeOp, L: Field{Record: t.L, FieldName: "default"}, R: t.R},
			Annotation: Field{Record: t.L, FieldName: "Type"},
		}, e, alpha)
	}
	return opValue{OpCode: t.OpCode, L: l, R: r}
}

func evalToMap(t ToMap, e Env, alpha bool) Value {
	recordVal := evalWith(t.Record, e, alpha)
	var typeVal Value
	if t.Type != nil {
		typeVal = evalWith(t.Type, e, alpha)
	}
	record, ok := recordVal.(RecordLitVal)
	if !ok {
		return toMapVal{Record: recordVal, Type: typeVal}
	}
	if len(record) == 0 {
		if isListOf(typeVal) {
			return EmptyListVal{Type: typeVal.(AppValue).Arg}
		}
		return EmptyListVal{Type: typeVal}
	}
	fieldNames := make([]string, 0, len(record))
	for k := range record {
		fieldNames = append(fieldNames, k)
	}
	sort.Strings(fieldNames)
	result := make(NonEmptyListVal, len(fieldNames))
	for i, k := range fieldNames {
		result[i] = RecordLitVal{"mapKey": TextLitVal{Suffix: k}, "mapValue": record[k]}
	}
	return result
}

// evalField implements Phase A's Field rules, including the simplifications
// that let substitution into a record-merge or projection later unlock
// plain field access.
func evalField(record Value, fieldName string) Value {
	for {
		if proj, ok := record.(projectVal); ok {
			record = proj.Record
			continue
		}
		if op, ok := record.(opValue); ok {
			switch op.OpCode {
			case RecordMergeOp:
				if l, ok := op.L.(RecordLitVal); ok {
					if lField, ok := l[fieldName]; ok {
						return fieldVal{Record: opValue{L: RecordLitVal{fieldName: lField}, R: op.R, OpCode: RecordMergeOp}, FieldName: fieldName}
					}
					record = op.R
					continue
				}
				if r, ok := op.R.(RecordLitVal); ok {
					if rField, ok := r[fieldName]; ok {
						return fieldVal{Record: opValue{L: op.L, R: RecordLitVal{fieldName: rField}, OpCode: RecordMergeOp}, FieldName: fieldName}
					}
					record = op.L
					continue
				}
			case RightBiasedRecordMergeOp:
				if l, ok := op.L.(RecordLitVal); ok {
					if lField, ok := l[fieldName]; ok {
						return fieldVal{Record: opValue{L: RecordLitVal{fieldName: lField}, R: op.R, OpCode: RightBiasedRecordMergeOp}, FieldName: fieldName}
					}
					record = op.R
					continue
				}
				if r, ok := op.R.(RecordLitVal); ok {
					if rField, ok := r[fieldName]; ok {
						return rField
					}
					record = op.L
					continue
				}
			}
		}
		break
	}
	if lit, ok := record.(RecordLitVal); ok {
		return lit[fieldName]
	}
	return fieldVal{Record: record, FieldName: fieldName}
}

func evalProject(record Value, fieldNames []string) Value {
	sort.Strings(fieldNames)
	for {
		if proj, ok := record.(projectVal); ok {
			record = proj.Record
			continue
		}
		if op, ok := record.(opValue); ok && op.OpCode == RightBiasedRecordMergeOp {
			if r, ok := op.R.(RecordLitVal); ok {
				notOverridden := []string{}
				overrides := RecordLitVal{}
				for _, fieldName := range fieldNames {
					if override, ok := r[fieldName]; ok {
						overrides[fieldName] = override
					} else {
						notOverridden = append(notOverridden, fieldName)
					}
				}
				if len(notOverridden) == 0 {
					return overrides
				}
				return opValue{
					OpCode: RightBiasedRecordMergeOp,
					L:      projectVal{Record: op.L, FieldNames: notOverridden},
					R:      overrides,
				}
			}
		}
		break
	}
	if lit, ok := record.(RecordLitVal); ok {
		result := make(RecordLitVal, len(fieldNames))
		for _, k := range fieldNames {
			result[k] = lit[k]
		}
		return result
	}
	if len(fieldNames) == 0 {
		return RecordLitVal{}
	}
	return projectVal{Record: record, FieldNames: fieldNames}
}

func evalMerge(t Merge, e Env, alpha bool) Value {
	handlerVal := evalWith(t.Handler, e, alpha)
	unionVal := evalWith(t.Union, e, alpha)
	output := mergeVal{Handler: handlerVal, Union: unionVal}
	if t.Annotation != nil {
		output.Annotation = evalWith(t.Annotation, e, alpha)
	}
	return reduceMerge(handlerVal, unionVal, output)
}

// reduceMerge picks the handler matching the scrutinee's alternative when
// both the handler record and the union/Optional literal are visible, and
// returns stuck otherwise. Its only caller is evalMerge; a merge inside a
// closure body is re-evaluated (and so retried here) each time the closure
// is called.
func reduceMerge(handlerVal, unionVal Value, stuck mergeVal) Value {
	handlers, ok := handlerVal.(RecordLitVal)
	if !ok {
		return stuck
	}
	switch union := unionVal.(type) {
	case AppValue:
		if field, ok := union.Fn.(fieldVal); ok {
			if h, ok := handlers[field.FieldName]; ok {
				return applyVal(h, union.Arg)
			}
		}
	case fieldVal:
		// bare (payload-less) alternative
		if h, ok := handlers[union.FieldName]; ok {
			return h
		}
	case EmptyOptionalVal:
		if h, ok := handlers["None"]; ok {
			return h
		}
	case SomeVal:
		if h, ok := handlers["Some"]; ok {
			return applyVal(h, union.Val)
		}
	}
	return stuck
}

// applyVal applies fn to each argument in turn, dispatching to whichever
// reduction rule (generic beta, builtin) applies; anything left over
// becomes a stuck AppValue.
func applyVal(fn Value, args ...Value) Value {
	out := fn
	for _, arg := range args {
		if f, ok := out.(Callable); ok {
			if result := f.Call(arg); result != nil {
				out = result
				continue
			}
		}
		out = AppValue{Fn: out, Arg: arg}
	}
	return out
}

// mergeRecordTypes implements RecursiveRecordTypeMerge: fields present in
// only one side pass through; fields in both must themselves be record
// types (merged recursively) or the merge fails. typeOfOp's
// RecordTypeMergeOp rule calls this too and reports the failure as a
// RecordTypeMismatch, so a well-typed term never hits the error branch
// during evaluation.
func mergeRecordTypes(l, r RecordTypeVal) (RecordTypeVal, error) {
	result := make(RecordTypeVal, len(l)+len(r))
	for k, v := range l {
		result[k] = v
	}
	for k, v := range r {
		if lField, ok := result[k]; ok {
			lSub, lok := lField.(RecordTypeVal)
			rSub, rok := v.(RecordTypeVal)
			if !(lok && rok) {
				return nil, errRecordTypeMismatch
			}
			merged, err := mergeRecordTypes(lSub, rSub)
			if err != nil {
				return nil, err
			}
			result[k] = merged
		} else {
			result[k] = v
		}
	}
	return result, nil
}

// mergeRecordLitVals implements RecursiveRecordMerge on values. Per §5
// (totality), normalization must never fail even on ill-typed input: on a
// key collision where both sides aren't records, it keeps the right-hand
// side rather than panicking -- a real type error there is already the
// typechecker's job, not the normalizer's.
func mergeRecordLitVals(l, r RecordLitVal) RecordLitVal {
	output := make(RecordLitVal, len(l)+len(r))
	for k, v := range l {
		output[k] = v
	}
	for k, v := range r {
		if lField, ok := output[k]; ok {
			lSub, lok := lField.(RecordLitVal)
			rSub, rok := v.(RecordLitVal)
			if lok && rok {
				output[k] = mergeRecordLitVals(lSub, rSub)
				continue
			}
		}
		output[k] = v
	}
	return output
}
