package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind categorizes why TypeOf rejected an expression. The taxonomy
// mirrors the Dhall standard's own error variants rather than ad-hoc Go
// error strings, so callers (diagnostics renderers, import layers) can
// switch on Kind without parsing messages.
type ErrorKind int

const (
	UnboundVariable ErrorKind = iota
	InvalidInputType
	InvalidOutputType
	NoDependentTypes
	NotAFunction
	TypeMismatch
	AnnotMismatch
	InvalidPredicate
	IfBranchMismatch
	IfBranchMustBeTerm
	InvalidListType
	InvalidListElement
	MissingListType
	InvalidOptionalType
	RecordTypeDuplicateField
	UnionTypeDuplicateField
	RecordMixedKinds
	RecordTypeMismatch
	MissingRecordField
	NotARecord
	ProjectionMissingEntry
	ProjectionDuplicateField
	ProjectionMustBeRecord
	MissingUnionField
	UnionTypeMixedKinds
	Merge1ArgMustBeRecord
	Merge2ArgMustBeUnionOrOptional
	MergeHandlerMissingVariant
	MergeVariantMissingHandler
	MergeHandlerTypeMismatch
	MergeHandlerReturnTypeMustNotBeDependent
	MergeAnnotMismatch
	MergeEmptyNeedsAnnotation
	BinOpTypeMismatch
	AssertMismatch
	AssertMustTakeEquivalence
	InvalidTextInterpolation
	SortError
	Unimplemented
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundVariable:
		return "UnboundVariable"
	case InvalidInputType:
		return "InvalidInputType"
	case InvalidOutputType:
		return "InvalidOutputType"
	case NoDependentTypes:
		return "NoDependentTypes"
	case NotAFunction:
		return "NotAFunction"
	case TypeMismatch:
		return "TypeMismatch"
	case AnnotMismatch:
		return "AnnotMismatch"
	case InvalidPredicate:
		return "InvalidPredicate"
	case IfBranchMismatch:
		return "IfBranchMismatch"
	case IfBranchMustBeTerm:
		return "IfBranchMustBeTerm"
	case InvalidListType:
		return "InvalidListType"
	case InvalidListElement:
		return "InvalidListElement"
	case MissingListType:
		return "MissingListType"
	case InvalidOptionalType:
		return "InvalidOptionalType"
	case RecordTypeDuplicateField:
		return "RecordTypeDuplicateField"
	case UnionTypeDuplicateField:
		return "UnionTypeDuplicateField"
	case RecordMixedKinds:
		return "RecordMixedKinds"
	case RecordTypeMismatch:
		return "RecordTypeMismatch"
	case MissingRecordField:
		return "MissingRecordField"
	case NotARecord:
		return "NotARecord"
	case ProjectionMissingEntry:
		return "ProjectionMissingEntry"
	case ProjectionDuplicateField:
		return "ProjectionDuplicateField"
	case ProjectionMustBeRecord:
		return "ProjectionMustBeRecord"
	case MissingUnionField:
		return "MissingUnionField"
	case UnionTypeMixedKinds:
		return "UnionTypeMixedKinds"
	case Merge1ArgMustBeRecord:
		return "Merge1ArgMustBeRecord"
	case Merge2ArgMustBeUnionOrOptional:
		return "Merge2ArgMustBeUnionOrOptional"
	case MergeHandlerMissingVariant:
		return "MergeHandlerMissingVariant"
	case MergeVariantMissingHandler:
		return "MergeVariantMissingHandler"
	case MergeHandlerTypeMismatch:
		return "MergeHandlerTypeMismatch"
	case MergeHandlerReturnTypeMustNotBeDependent:
		return "MergeHandlerReturnTypeMustNotBeDependent"
	case MergeAnnotMismatch:
		return "MergeAnnotMismatch"
	case MergeEmptyNeedsAnnotation:
		return "MergeEmptyNeedsAnnotation"
	case BinOpTypeMismatch:
		return "BinOpTypeMismatch"
	case AssertMismatch:
		return "AssertMismatch"
	case AssertMustTakeEquivalence:
		return "AssertMustTakeEquivalence"
	case InvalidTextInterpolation:
		return "InvalidTextInterpolation"
	case SortError:
		return "Sort"
	case Unimplemented:
		return "Unimplemented"
	default:
		return "UnknownError"
	}
}

// TypeError is returned by TypeOf/TypeWith whenever an expression fails to
// typecheck. Expr is the offending sub-expression (not the whole program),
// so callers can report a precise location once spans are reattached by
// the parser layer; Context is the typing context in effect at that point,
// useful for "did you mean" style diagnostics upstream.
type TypeError struct {
	Kind    ErrorKind
	Expr    Term
	Context Context
	msg     string
}

func (e *TypeError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.msg)
	}
	return e.Kind.String()
}

func mkTypeErr(ctx Context, kind ErrorKind, expr Term, format string, args ...interface{}) error {
	return errors.WithStack(&TypeError{
		Kind:    kind,
		Expr:    expr,
		Context: ctx,
		msg:     fmt.Sprintf(format, args...),
	})
}

// errRecordTypeMismatch is the sentinel mergeRecordTypes returns when a
// RecursiveRecordTypeMerge collision isn't itself a pair of record types.
// It never escapes to a caller outside this package: evalOp leaves the
// merge stuck when it sees it, and typeOfOp's RecordTypeMergeOp rule (see
// typecheck.go) reports it as a RecordTypeMismatch TypeError.
var errRecordTypeMismatch = errors.New("core: recursive record type merge collision on non-record field")
