package core

// Context is the typechecker's persistent environment: a stack of bindings
// threaded alongside a normalization Env, so that dependent types can be
// evaluated under open binders without a concrete argument in hand.
// Extending a Context never mutates the receiver, so sibling subterms (the
// two branches of a BoolIf, the handlers of a Merge, ...) can each extend
// the same parent context independently.
type Context struct {
	types Env // name -> stack of *type* thunks, innermost first
	vals  Env // name -> stack of *value* thunks, for evaluating dependent types
}

// EmptyContext returns a Context with no bindings, used to typecheck
// closed, top-level expressions.
func EmptyContext() Context {
	return Context{types: Env{}, vals: Env{}}
}

// insertType pushes a binder-style entry: label is now bound, with type
// ty. It also binds label's value to a fresh localVar, so that opening a
// Pi or Lambda body can be evaluated (e.g. to surface the bound variable
// in a dependent return type) without supplying a real argument.
func (ctx Context) insertType(label string, ty Value) Context {
	depth := len(ctx.types[label])
	return Context{
		types: ctx.types.extend(label, forcedThunk(ty)),
		vals:  ctx.vals.extend(label, forcedThunk(localVar{Name: label, Index: depth})),
	}
}

// insertValue pushes a let-style entry: label is bound to the value v
// (typically itself evaluated from a let-binding), with inferred type ty.
func (ctx Context) insertValue(label string, v Value, ty Value) Context {
	return Context{
		types: ctx.types.extend(label, forcedThunk(ty)),
		vals:  ctx.vals.extend(label, forcedThunk(v)),
	}
}

// lookupType returns the type bound to Var v, or ok=false if v is
// unbound in this context.
func (ctx Context) lookupType(v Var) (Value, bool) {
	stack := ctx.types[v.Name]
	if v.Index >= len(stack) {
		return nil, false
	}
	return stack[v.Index].Force(), true
}

// lookupValue returns the value bound to Var v (a concrete let-bound
// value, or the localVar opened for a binder), or ok=false if unbound.
func (ctx Context) lookupValue(v Var) (Value, bool) {
	stack := ctx.vals[v.Name]
	if v.Index >= len(stack) {
		return nil, false
	}
	return stack[v.Index].Force(), true
}
