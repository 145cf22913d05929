package core

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("normalization properties", func() {
	It("is idempotent: normalizing a normal form returns it unchanged", func() {
		t := OpTerm{OpCode: RecordMergeOp,
			L: RecordLit{"a": NaturalLit(1)},
			R: RecordLit{"b": NaturalLit(2)},
		}
		once := ToExpression(Eval(t), false)
		twice := ToExpression(Eval(once), false)
		Ω(twice).Should(Equal(once))
	})

	It("preserves a well-typed term's inferred type across evaluation (subject reduction)", func() {
		t := Apply(NewLambda("x", Natural, OpTerm{OpCode: PlusOp, L: NewVar("x"), R: NaturalLit(1)}), NaturalLit(41))
		ty, err := TypeOf(t)
		Ω(err).ShouldNot(HaveOccurred())
		normalized := ToExpression(Eval(t), false)
		normalizedTy, err := TypeOf(normalized)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(judgmentallyEqualVals(ty, normalizedTy)).Should(BeTrue())
	})

	It("is insensitive to the names chosen for bound variables", func() {
		byX := Apply(NewLambda("x", Natural, OpTerm{OpCode: TimesOp, L: NewVar("x"), R: NaturalLit(2)}), NaturalLit(5))
		byY := Apply(NewLambda("y", Natural, OpTerm{OpCode: TimesOp, L: NewVar("y"), R: NaturalLit(2)}), NaturalLit(5))
		Ω(judgmentallyEqual(byX, byY)).Should(BeTrue())
		Ω(Eval(byX)).Should(Equal(Eval(byY)))
	})

	It("fuses List/build with List/fold without constructing the intermediate church list", func() {
		xs := NonEmptyList{NaturalLit(7), NaturalLit(8), NaturalLit(9)}
		fused := Apply(ListBuild, Natural, Apply(ListFold, Natural, xs))
		Ω(Eval(fused)).Should(Equal(Eval(xs)))
	})

	It("fuses Natural/build with Natural/fold", func() {
		n := NaturalLit(6)
		fused := Apply(NaturalBuild, Apply(NaturalFold, n))
		Ω(Eval(fused)).Should(Equal(Eval(n)))
	})

	It("fuses Optional/build with Optional/fold", func() {
		opt := Some{Val: NaturalLit(12)}
		fused := Apply(OptionalBuild, Natural, Apply(OptionalFold, Natural, opt))
		Ω(Eval(fused)).Should(Equal(Eval(opt)))
	})

	It("treats equality via normalization as reflexive, symmetric and transitive", func() {
		a := OpTerm{OpCode: PlusOp, L: NaturalLit(2), R: NaturalLit(2)}
		b := NaturalLit(4)
		c := OpTerm{OpCode: TimesOp, L: NaturalLit(2), R: NaturalLit(2)}

		Ω(judgmentallyEqual(a, a)).Should(BeTrue())
		Ω(judgmentallyEqual(a, b)).Should(Equal(judgmentallyEqual(b, a)))
		Ω(judgmentallyEqual(a, b)).Should(BeTrue())
		Ω(judgmentallyEqual(b, c)).Should(BeTrue())
		Ω(judgmentallyEqual(a, c)).Should(BeTrue())
	})

	It("normalizes a record literal the same way regardless of field insertion order", func() {
		first := RecordLit{"a": NaturalLit(1), "b": NaturalLit(2), "c": NaturalLit(3)}
		second := RecordLit{"c": NaturalLit(3), "a": NaturalLit(1), "b": NaturalLit(2)}
		Ω(Eval(first)).Should(Equal(Eval(second)))
		Ω(ToExpression(Eval(first), false)).Should(Equal(ToExpression(Eval(second), false)))
	})
})
