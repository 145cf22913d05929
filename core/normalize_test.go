package core

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// errKind unwraps the *TypeError a mkTypeErr call wraps in, so tests can
// assert on the taxonomy instead of message text.
func errKind(err error) ErrorKind {
	te, ok := errors.Cause(err).(*TypeError)
	if !ok {
		return -1
	}
	return te.Kind
}

var _ = Describe("Eval", func() {
	It("beta-reduces an applied lambda", func() {
		t := Apply(
			NewLambda("x", Natural, OpTerm{OpCode: PlusOp, L: NewVar("x"), R: NaturalLit(1)}),
			NaturalLit(3),
		)
		Ω(Eval(t)).Should(Equal(NaturalLit(4)))
	})

	It("computes List/length", func() {
		t := Apply(ListLength, Natural, NonEmptyList{NaturalLit(1), NaturalLit(2), NaturalLit(3)})
		Ω(Eval(t)).Should(Equal(NaturalLit(3)))
	})

	It("fuses List/build around a partially-applied List/fold", func() {
		xs := NonEmptyList{NaturalLit(1), NaturalLit(2)}
		g := Apply(ListFold, Natural, xs)
		t := Apply(ListBuild, Natural, g)
		Ω(Eval(t)).Should(Equal(Eval(xs)))
	})

	It("reduces if/then/else on a literal condition", func() {
		t := BoolIf{Cond: True, T: PlainText("yes"), F: PlainText("no")}
		Ω(Eval(t)).Should(Equal(TextLitVal{Suffix: "yes"}))
	})

	It("right-biases overlapping fields of a recursive record merge", func() {
		l := RecordLit{"a": NaturalLit(1), "b": NaturalLit(2)}
		r := RecordLit{"b": NaturalLit(3), "c": NaturalLit(4)}
		t := OpTerm{OpCode: RecordMergeOp, L: l, R: r}
		Ω(Eval(t)).Should(Equal(RecordLitVal{
			"a": NaturalLit(1),
			"b": NaturalLit(3),
			"c": NaturalLit(4),
		}))
	})

	It("dispatches merge to the handler matching the Optional's variant", func() {
		t := Merge{
			Handler: RecordLit{
				"Some": NewLambda("x", Natural, NewVar("x")),
				"None": NaturalLit(0),
			},
			Union: Some{Val: NaturalLit(5)},
		}
		Ω(Eval(t)).Should(Equal(NaturalLit(5)))
	})
})

var _ = Describe("TypeOf rejections", func() {
	It("rejects self-application of a Bool as NotAFunction", func() {
		t := NewLambda("x", Bool, AppTerm{Fn: NewVar("x"), Arg: NewVar("x")})
		_, err := TypeOf(t)
		Ω(err).Should(HaveOccurred())
		Ω(errKind(err)).Should(Equal(NotAFunction))
	})

	It("rejects a list literal whose elements disagree in type", func() {
		t := NonEmptyList{NaturalLit(1), True}
		_, err := TypeOf(t)
		Ω(err).Should(HaveOccurred())
		Ω(errKind(err)).Should(Equal(InvalidListElement))
	})

	It("rejects a recursive record type merge whose overlapping field isn't itself a record", func() {
		t := OpTerm{
			OpCode: RecordTypeMergeOp,
			L:      RecordType{"a": Natural, "b": Natural},
			R:      RecordType{"b": Natural, "c": Natural},
		}
		_, err := TypeOf(t)
		Ω(err).Should(HaveOccurred())
		Ω(errKind(err)).Should(Equal(RecordTypeMismatch))
	})

	It("requires an annotation to merge over an empty union", func() {
		t := NewLambda("x", UnionType{}, Merge{Handler: RecordLit{}, Union: NewVar("x")})
		_, err := TypeOf(t)
		Ω(err).Should(HaveOccurred())
		Ω(errKind(err)).Should(Equal(MergeEmptyNeedsAnnotation))
	})
})
