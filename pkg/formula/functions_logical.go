package formula

// registerLogicalFunctions wires SPEC_FULL.md §10's logical category: AND,
// OR, NOT, XOR, CHOOSE, and the lazy SWITCH/IFS forms.
func registerLogicalFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "AND", MinArgs: 1, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			result := true
			for _, a := range args {
				v := a.Evaluate(ctx)
				if v.IsError() {
					return v
				}
				if !scalarTruthy(v) {
					result = false
				}
			}
			return Boolean(result)
		},
	})

	r.Register(&FunctionDef{
		Name: "OR", MinArgs: 1, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			result := false
			for _, a := range args {
				v := a.Evaluate(ctx)
				if v.IsError() {
					return v
				}
				if scalarTruthy(v) {
					result = true
				}
			}
			return Boolean(result)
		},
	})

	r.Register(&FunctionDef{
		Name: "NOT", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Boolean(!args[0].IsTruthy())
		},
	})

	r.Register(&FunctionDef{
		Name: "XOR", MinArgs: 1, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			count := 0
			for _, a := range args {
				v := a.Evaluate(ctx)
				if v.IsError() {
					return v
				}
				if scalarTruthy(v) {
					count++
				}
			}
			return Boolean(count%2 == 1)
		},
	})

	r.Register(&FunctionDef{
		Name: "CHOOSE", MinArgs: 2, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			idxVal := args[0].Evaluate(ctx)
			if idxVal.IsError() {
				return idxVal
			}
			idxF, ok := idxVal.ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			idx := int(idxF)
			if idx < 1 || idx > len(args)-1 {
				return Err(ErrValue)
			}
			return args[idx].Evaluate(ctx)
		},
	})

	// SWITCH(expr, val1, result1, [val2, result2, ...], [default]) evaluates
	// expr once, then compares it against each candidate in source order,
	// returning the first match's result, or the trailing default.
	r.Register(&FunctionDef{
		Name: "SWITCH", MinArgs: 3, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			expr := args[0].Evaluate(ctx)
			if expr.IsError() {
				return expr
			}
			rest := args[1:]
			i := 0
			for ; i+1 < len(rest); i += 2 {
				cand := rest[i].Evaluate(ctx)
				if cand.IsError() {
					return cand
				}
				if valuesMatchExact(expr, cand) {
					return rest[i+1].Evaluate(ctx)
				}
			}
			if i < len(rest) {
				return rest[i].Evaluate(ctx)
			}
			return Err(ErrNA)
		},
	})

	// IFS(cond1, result1, [cond2, result2, ...]) returns the first result
	// whose guarding condition is truthy; no catch-all branch exists.
	r.Register(&FunctionDef{
		Name: "IFS", MinArgs: 2, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			if len(args)%2 != 0 {
				return Err(ErrValue)
			}
			for i := 0; i+1 < len(args); i += 2 {
				cond := args[i].Evaluate(ctx)
				if cond.IsError() {
					return cond
				}
				if cond.IsTruthy() {
					return args[i+1].Evaluate(ctx)
				}
			}
			return Err(ErrNA)
		},
	})
}

func scalarTruthy(v Value) bool {
	if v.Kind == KindRange {
		return v.IsTruthy()
	}
	return v.ToBool()
}
