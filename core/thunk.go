package core

// Thunk is a memoising holder of a lazily-reduced value: constructed over
// an unevaluated expression and the environment it closes over, it forces
// to a Value on first demand and caches the result. The state transition
// is one-way (unevaluated -> forced) and idempotent: forcing an
// already-forced thunk just returns the cached value, so sharing one
// Thunk across many use sites never repeats work.
//
// This engine's normalizer always reduces an expression the whole way in
// one evalWith call, so there is no useful distinguishable WHNF-vs-NF
// state to track separately here (unlike an implementation that reduces
// one layer at a time); Force reduces straight to the value this package
// calls NF. Thunk still buys genuine call-by-need for let-bindings, since
// the expression inside isn't touched at all until something actually
// looks up the bound name.
type Thunk struct {
	expr  Term
	env   Env
	alpha bool

	forced bool
	value  Value
}

// NewThunk wraps an expression and its environment without evaluating it.
func NewThunk(t Term, e Env, alpha bool) *Thunk {
	return &Thunk{expr: t, env: e, alpha: alpha}
}

// forcedThunk wraps an already-computed value, for call sites (function
// application, builtin arguments) that have a concrete Value in hand and
// gain nothing from deferring.
func forcedThunk(v Value) *Thunk {
	return &Thunk{forced: true, value: v}
}

// Force evaluates the thunk if it hasn't been already, and returns the
// (memoised) value.
func (th *Thunk) Force() Value {
	if !th.forced {
		th.value = evalWith(th.expr, th.env, th.alpha)
		th.expr = nil
		th.env = nil
		th.forced = true
	}
	return th.value
}

// Env maps each in-scope label to a stack of thunks, innermost binder
// first, mirroring the indexing scheme of Var/LocalVar.
type Env map[string][]*Thunk

func (e Env) extend(label string, th *Thunk) Env {
	newEnv := make(Env, len(e)+1)
	for k, v := range e {
		newEnv[k] = v
	}
	newEnv[label] = append([]*Thunk{th}, newEnv[label]...)
	return newEnv
}
