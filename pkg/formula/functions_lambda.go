package formula

// registerLambdaFunctions wires SPEC_FULL.md §10's lambda/higher-order
// category: LAMBDA, LET, MAP, REDUCE, FILTER, BYROW, BYCOL. These are what
// actually exercise the Value.Function/Value.Omitted variants (spec §3.2)
// and CallExpressionNode (spec §3.4) beyond the single end-to-end scenario
// spec.md names.
func registerLambdaFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "LAMBDA", MinArgs: 1, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			params := make([]string, len(args)-1)
			for i, a := range args[:len(args)-1] {
				name, ok := a.(NameNode)
				if !ok {
					return Err(ErrValue)
				}
				params[i] = name.Ident
			}
			body := args[len(args)-1]
			return FunctionValue(&Closure{Params: params, Body: body, Scope: ctx})
		},
	})

	// LET(name1, value1, [name2, value2, ...], body) binds each name to its
	// evaluated value in order, each subsequent binding able to reference
	// the ones before it, then evaluates body in the fully bound scope.
	r.Register(&FunctionDef{
		Name: "LET", MinArgs: 3, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			if len(args)%2 != 1 {
				return Err(ErrValue)
			}
			scoped := NewScopedContext(ctx, nil)
			for i := 0; i+1 < len(args); i += 2 {
				name, ok := args[i].(NameNode)
				if !ok {
					return Err(ErrValue)
				}
				v := args[i+1].Evaluate(scoped)
				if v.IsError() {
					return v
				}
				scoped = scoped.With(name.Ident, v)
			}
			body := args[len(args)-1]
			return body.Evaluate(scoped)
		},
	})

	r.Register(&FunctionDef{
		Name: "MAP", MinArgs: 2, MaxArgs: -1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			lambdaVal := args[len(args)-1].Evaluate(ctx)
			if lambdaVal.IsError() {
				return lambdaVal
			}
			if lambdaVal.Kind != KindFunction {
				return Err(ErrValue)
			}
			arrays := make([][]Value, len(args)-1)
			for i, a := range args[:len(args)-1] {
				v := a.Evaluate(ctx)
				if v.IsError() {
					return v
				}
				arrays[i] = flattenScalars(v)
				if ctx.IsCancelled() {
					return Err(ErrCalc)
				}
			}
			n := len(arrays[0])
			for _, arr := range arrays {
				if len(arr) != n {
					return Err(ErrValue)
				}
			}
			rows := make([][]Value, n)
			for i := 0; i < n; i++ {
				if ctx.IsCancelled() {
					return Err(ErrCalc)
				}
				elems := make([]Value, len(arrays))
				for j, arr := range arrays {
					elems[j] = arr[i]
				}
				res := callClosure(lambdaVal.Closure, elems)
				if res.IsError() {
					return res
				}
				rows[i] = []Value{res}
			}
			return RangeValue(rows)
		},
	})

	r.Register(&FunctionDef{
		Name: "REDUCE", MinArgs: 3, MaxArgs: 3, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			acc := args[0].Evaluate(ctx)
			if acc.IsError() {
				return acc
			}
			arrayVal := args[1].Evaluate(ctx)
			if arrayVal.IsError() {
				return arrayVal
			}
			lambdaVal := args[2].Evaluate(ctx)
			if lambdaVal.IsError() {
				return lambdaVal
			}
			if lambdaVal.Kind != KindFunction {
				return Err(ErrValue)
			}
			for _, v := range flattenScalars(arrayVal) {
				if ctx.IsCancelled() {
					return Err(ErrCalc)
				}
				acc = callClosure(lambdaVal.Closure, []Value{acc, v})
				if acc.IsError() {
					return acc
				}
			}
			return acc
		},
	})

	r.Register(&FunctionDef{
		Name: "FILTER", MinArgs: 2, MaxArgs: 2, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			arrayVal := args[0].Evaluate(ctx)
			if arrayVal.IsError() {
				return arrayVal
			}
			includeVal := args[1].Evaluate(ctx)
			if includeVal.IsError() {
				return includeVal
			}
			arr := flattenScalars(arrayVal)
			include := flattenScalars(includeVal)
			if len(arr) != len(include) {
				return Err(ErrValue)
			}
			var out []Value
			for i, v := range arr {
				if include[i].IsTruthy() {
					out = append(out, v)
				}
			}
			if len(out) == 0 {
				return Err(ErrCalc)
			}
			rows := make([][]Value, len(out))
			for i, v := range out {
				rows[i] = []Value{v}
			}
			return RangeValue(rows)
		},
	})

	r.Register(&FunctionDef{
		Name: "BYROW", MinArgs: 2, MaxArgs: 2, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			arrayVal := args[0].Evaluate(ctx)
			if arrayVal.IsError() {
				return arrayVal
			}
			lambdaVal := args[1].Evaluate(ctx)
			if lambdaVal.IsError() {
				return lambdaVal
			}
			if lambdaVal.Kind != KindFunction {
				return Err(ErrValue)
			}
			m := toMatrix(arrayVal)
			rows := make([][]Value, len(m))
			for i, row := range m {
				if ctx.IsCancelled() {
					return Err(ErrCalc)
				}
				res := callClosure(lambdaVal.Closure, []Value{RangeValue([][]Value{row})})
				if res.IsError() {
					return res
				}
				rows[i] = []Value{res}
			}
			return RangeValue(rows)
		},
	})

	r.Register(&FunctionDef{
		Name: "BYCOL", MinArgs: 2, MaxArgs: 2, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			arrayVal := args[0].Evaluate(ctx)
			if arrayVal.IsError() {
				return arrayVal
			}
			lambdaVal := args[1].Evaluate(ctx)
			if lambdaVal.IsError() {
				return lambdaVal
			}
			if lambdaVal.Kind != KindFunction {
				return Err(ErrValue)
			}
			m := toMatrix(arrayVal)
			cols := 0
			if len(m) > 0 {
				cols = len(m[0])
			}
			row := make([]Value, cols)
			for c := 0; c < cols; c++ {
				if ctx.IsCancelled() {
					return Err(ErrCalc)
				}
				colVals := make([][]Value, len(m))
				for r2, mr := range m {
					if c < len(mr) {
						colVals[r2] = []Value{mr[c]}
					}
				}
				res := callClosure(lambdaVal.Closure, []Value{RangeValue(colVals)})
				if res.IsError() {
					return res
				}
				row[c] = res
			}
			return RangeValue([][]Value{row})
		},
	})
}

// callClosure binds args to a closure's parameters by position (extra
// params bind to Omitted, per spec §4.2's CallExpression rule) and
// evaluates the body in a scope layered over the closure's captured scope.
func callClosure(c *Closure, args []Value) Value {
	if len(args) > len(c.Params) {
		return Err(ErrValue)
	}
	vars := make(map[string]Value, len(c.Params))
	for i, p := range c.Params {
		if i < len(args) {
			vars[p] = args[i]
		} else {
			vars[p] = Omitted()
		}
	}
	scoped := NewScopedContext(c.Scope, vars)
	return c.Body.Evaluate(scoped)
}
