package core

import "sort"

// ToExpression reifies a Value back into a Term (the inverse of Eval),
// used both for error reporting (showing a type-value to a human) and
// for the external `normalize` interface. When alpha is true, every
// bound label is replaced by "_" and De Bruijn indices are recomputed
// per the "_" bucket, producing the alpha-canonical form two
// alpha/beta-equivalent expressions share byte-for-byte -- what
// content-addressed hashing of Dhall expressions relies on.
func ToExpression(v Value, alpha bool) Term {
	return quoteWith(map[string]int{}, v, alpha)
}

// quoteWith carries, for each label, how many binders of that label this
// call has itself opened so far. A localVar whose Index falls below that
// count refers to one of those binders and becomes a properly-indexed
// Var; one whose Index is at or beyond it was already free before
// quoting started (bound further out, in an ambient Context) and is
// reified as an opaque LocalVar instead.
func quoteWith(level map[string]int, v Value, alpha bool) Term {
	switch v := v.(type) {
	case Universe:
		return v
	case Builtin:
		return v
	case Var:
		return v
	case LocalVar:
		return v
	case BoolLit:
		return v
	case NaturalLit:
		return v
	case IntegerLit:
		return v
	case DoubleLit:
		return v
	case localVar:
		return quoteLocal(level, v.Name, v.Index, alpha)
	case quoteVar:
		return quoteLocal(level, v.Name, v.Index, alpha)

	case naturalBuildVal:
		return NaturalBuild
	case naturalEvenVal:
		return NaturalEven
	case naturalFoldVal:
		return NaturalFold
	case naturalIsZeroVal:
		return NaturalIsZero
	case naturalOddVal:
		return NaturalOdd
	case naturalShowVal:
		return NaturalShow
	case naturalSubtractVal:
		return NaturalSubtract
	case naturalToIntegerVal:
		return NaturalToInteger
	case integerShowVal:
		return IntegerShow
	case integerToDoubleVal:
		return IntegerToDouble
	case integerNegateVal:
		return IntegerNegate
	case integerClampVal:
		return IntegerClamp
	case doubleShowVal:
		return DoubleShow
	case optionalBuildVal:
		return OptionalBuild
	case optionalFoldVal:
		return OptionalFold
	case textShowVal:
		return TextShow
	case listBuildVal:
		return ListBuild
	case listFoldVal:
		return ListFold
	case listHeadVal:
		return ListHead
	case listIndexedVal:
		return ListIndexed
	case listLengthVal:
		return ListLength
	case listLastVal:
		return ListLast
	case listReverseVal:
		return ListReverse
	case partialBuiltin:
		fn := Term(v.b)
		for _, a := range v.args {
			fn = AppTerm{Fn: fn, Arg: quoteWith(level, a, alpha)}
		}
		return fn

	case naturalSuccVal:
		return NewLambda("x", Natural, OpTerm{OpCode: PlusOp, L: NewVar("x"), R: NaturalLit(1)})
	case listConsVal:
		elem := quoteWith(level, v.elem, alpha)
		listElem := AppTerm{Fn: List, Arg: elem}
		return NewLambda("x", elem,
			NewLambda("xs", listElem,
				OpTerm{OpCode: ListAppendOp, L: NonEmptyList{NewVar("x")}, R: NewVar("xs")}))
	case partialListCons:
		head := quoteWith(level, v.head, alpha)
		listElem := AppTerm{Fn: List, Arg: quoteWith(level, v.elemType, alpha)}
		return NewLambda("xs", listElem, OpTerm{OpCode: ListAppendOp, L: NonEmptyList{head}, R: NewVar("xs")})
	case someCtorVal:
		elem := quoteWith(level, v.elemType, alpha)
		return NewLambda("x", elem, Some{Val: NewVar("x")})

	case LambdaValue:
		label := v.Label
		bucket := label
		if alpha {
			bucket = "_"
		}
		body := quoteWith(bump(level, bucket), v.Call(localVar{Name: label, Index: level[bucket]}), alpha)
		outLabel := label
		if alpha {
			outLabel = "_"
		}
		return LambdaTerm{Label: outLabel, Type: quoteWith(level, v.Domain, alpha), Body: body}
	case PiValue:
		label := v.Label
		bucket := label
		if alpha {
			bucket = "_"
		}
		body := quoteWith(bump(level, bucket), v.Range(localVar{Name: label, Index: level[bucket]}), alpha)
		outLabel := label
		if alpha {
			outLabel = "_"
		}
		return PiTerm{Label: outLabel, Type: quoteWith(level, v.Domain, alpha), Body: body}
	case AppValue:
		return AppTerm{Fn: quoteWith(level, v.Fn, alpha), Arg: quoteWith(level, v.Arg, alpha)}
	case EmptyListVal:
		return EmptyList{Type: AppTerm{Fn: List, Arg: quoteWith(level, v.Type, alpha)}}
	case NonEmptyListVal:
		out := make(NonEmptyList, len(v))
		for i, elem := range v {
			out[i] = quoteWith(level, elem, alpha)
		}
		return out
	case EmptyOptionalVal:
		return AppTerm{Fn: None, Arg: quoteWith(level, v.Type, alpha)}
	case SomeVal:
		return Some{Val: quoteWith(level, v.Val, alpha)}
	case TextLitVal:
		chunks := make(Chunks, len(v.Chunks))
		for i, c := range v.Chunks {
			chunks[i] = Chunk{Prefix: c.Prefix, Expr: quoteWith(level, c.Expr, alpha)}
		}
		return TextLitTerm{Chunks: chunks, Suffix: v.Suffix}
	case RecordTypeVal:
		out := make(RecordType, len(v))
		for k, val := range v {
			out[k] = quoteWith(level, val, alpha)
		}
		return out
	case RecordLitVal:
		out := make(RecordLit, len(v))
		for k, val := range v {
			out[k] = quoteWith(level, val, alpha)
		}
		return out
	case UnionTypeVal:
		out := make(UnionType, len(v))
		for k, val := range v {
			if val == nil {
				out[k] = nil
				continue
			}
			out[k] = quoteWith(level, val, alpha)
		}
		return out
	case fieldVal:
		return Field{Record: quoteWith(level, v.Record, alpha), FieldName: v.FieldName}
	case projectVal:
		names := append([]string{}, v.FieldNames...)
		sort.Strings(names)
		return Project{Record: quoteWith(level, v.Record, alpha), FieldNames: names}
	case opValue:
		return OpTerm{OpCode: v.OpCode, L: quoteWith(level, v.L, alpha), R: quoteWith(level, v.R, alpha)}
	case ifVal:
		return BoolIf{
			Cond: quoteWith(level, v.Cond, alpha),
			T:    quoteWith(level, v.T, alpha),
			F:    quoteWith(level, v.F, alpha),
		}
	case toMapVal:
		t := ToMap{Record: quoteWith(level, v.Record, alpha)}
		if v.Type != nil {
			t.Type = quoteWith(level, v.Type, alpha)
		}
		return t
	case mergeVal:
		m := Merge{Handler: quoteWith(level, v.Handler, alpha), Union: quoteWith(level, v.Union, alpha)}
		if v.Annotation != nil {
			m.Annotation = quoteWith(level, v.Annotation, alpha)
		}
		return m
	case assertVal:
		return Assert{Annotation: quoteWith(level, v.Annotation, alpha)}
	}
	panic("core: unknown Value type in quoteWith")
}

// quoteLocal turns an opened binder placeholder back into a Var (bound
// within the term being quoted) or a LocalVar (free, bound further out in
// an ambient Context). Under alpha, every bound name collapses into a
// single "_" bucket before counting, matching the indices a same-shaped
// expression built with different source labels would produce.
func quoteLocal(level map[string]int, name string, index int, alpha bool) Term {
	bucket := name
	if alpha {
		bucket = "_"
	}
	opened := level[bucket]
	if index >= opened {
		return LocalVar{Name: name, Index: index - opened}
	}
	outName := name
	if alpha {
		outName = "_"
	}
	return Var{Name: outName, Index: opened - index - 1}
}

func bump(level map[string]int, label string) map[string]int {
	out := make(map[string]int, len(level)+1)
	for k, v := range level {
		out[k] = v
	}
	out[label]++
	return out
}
