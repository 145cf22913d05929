package core

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ToExpression", func() {
	It("round-trips a lambda back to its source labels when alpha is false", func() {
		t := NewLambda("x", Natural, NewVar("x"))
		Ω(ToExpression(Eval(t), false)).Should(Equal(LambdaTerm{
			Label: "x",
			Type:  Natural,
			Body:  Var{Name: "x", Index: 0},
		}))
	})

	It("collapses distinct source labels to the same alpha-canonical form", func() {
		t1 := NewLambda("x", Natural, NewLambda("y", Natural, NewVar("x")))
		t2 := NewLambda("a", Natural, NewLambda("b", Natural, NewVar("a")))
		Ω(ToExpression(Eval(t1), true)).Should(Equal(ToExpression(Eval(t2), true)))
	})

	It("keeps a shadowed-name reference and an explicit distinct-name reference alpha-equal", func() {
		shadowed := NewLambda("x", Natural, NewLambda("x", Bool, NewVar("x")))
		distinct := NewLambda("x", Natural, NewLambda("y", Bool, NewVar("y")))
		Ω(ToExpression(Eval(shadowed), true)).Should(Equal(ToExpression(Eval(distinct), true)))
	})

	It("still distinguishes a reference to the outer binder from one to the inner", func() {
		outer := NewLambda("x", Natural, NewLambda("y", Bool, NewVar("x")))
		Ω(ToExpression(Eval(outer), true)).ShouldNot(Equal(
			ToExpression(Eval(NewLambda("x", Natural, NewLambda("y", Bool, NewVar("y")))), true),
		))
	})

	It("sorts projected field names", func() {
		v := projectVal{
			Record:     RecordLitVal{"b": NaturalLit(1), "a": NaturalLit(2), "c": NaturalLit(3)},
			FieldNames: []string{"c", "a", "b"},
		}
		Ω(ToExpression(v, false)).Should(Equal(Project{
			Record:     RecordLit{"b": NaturalLit(1), "a": NaturalLit(2), "c": NaturalLit(3)},
			FieldNames: []string{"a", "b", "c"},
		}))
	})
})
