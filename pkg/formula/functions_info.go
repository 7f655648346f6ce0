package formula

// registerInfoFunctions wires SPEC_FULL.md §10's information category:
// ISBLANK, ISNUMBER, ISTEXT, ISLOGICAL, ISERROR, ISNA, ISEVEN, ISODD, NA,
// ERROR.TYPE, TYPE.
func registerInfoFunctions(r *Registry) {
	is := func(name string, f func(Value) bool) {
		r.Register(&FunctionDef{
			Name: name, MinArgs: 1, MaxArgs: 1, Lazy: true,
			LazyFn: func(ctx EvaluationContext, args []Node) Value {
				return Boolean(f(args[0].Evaluate(ctx)))
			},
		})
	}
	is("ISBLANK", func(v Value) bool { return v.Kind == KindEmpty })
	is("ISNUMBER", func(v Value) bool { return v.Kind == KindNumber })
	is("ISTEXT", func(v Value) bool { return v.Kind == KindText })
	is("ISLOGICAL", func(v Value) bool { return v.Kind == KindBoolean })
	is("ISERROR", func(v Value) bool { return v.Kind == KindError })
	is("ISNA", func(v Value) bool { return v.Kind == KindError && v.Err == ErrNA })

	r.Register(&FunctionDef{
		Name: "ISEVEN", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[0].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			return Boolean(int64(n)%2 == 0)
		},
	})

	r.Register(&FunctionDef{
		Name: "ISODD", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[0].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			return Boolean(int64(n)%2 != 0)
		},
	})

	r.Register(&FunctionDef{
		Name: "NA", MinArgs: 0, MaxArgs: 0,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Err(ErrNA)
		},
	})

	r.Register(&FunctionDef{
		Name: "ERROR.TYPE", MinArgs: 1, MaxArgs: 1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			v := args[0].Evaluate(ctx)
			if v.Kind != KindError {
				return Err(ErrNA)
			}
			return Number(float64(v.Err) + 1)
		},
	})

	r.Register(&FunctionDef{
		Name: "TYPE", MinArgs: 1, MaxArgs: 1, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			v := args[0].Evaluate(ctx)
			switch v.Kind {
			case KindNumber:
				return Number(1)
			case KindText:
				return Number(2)
			case KindBoolean:
				return Number(4)
			case KindError:
				return Number(16)
			case KindRange:
				return Number(64)
			default:
				return Number(1)
			}
		},
	})
}
