package formula

// registerCoreFunctions wires spec.md §4.4's representative function set:
// SUM, AVERAGE, MIN, MAX, IF, IFERROR, IFNA, MATCH, VLOOKUP.
func registerCoreFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "SUM", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			var sum float64
			for _, v := range args {
				sum += sumNumbers(v)
			}
			return Number(sum)
		},
	})

	r.Register(&FunctionDef{
		Name: "AVERAGE", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			var sum float64
			var count int
			for _, v := range args {
				s, c := sumAndCount(v)
				sum += s
				count += c
			}
			if count == 0 {
				return Err(ErrDivZero)
			}
			return Number(sum / float64(count))
		},
	})

	r.Register(&FunctionDef{
		Name: "MIN", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) == 0 {
				return Number(0)
			}
			m := nums[0]
			for _, n := range nums[1:] {
				if n < m {
					m = n
				}
			}
			return Number(m)
		},
	})

	r.Register(&FunctionDef{
		Name: "MAX", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) == 0 {
				return Number(0)
			}
			m := nums[0]
			for _, n := range nums[1:] {
				if n > m {
					m = n
				}
			}
			return Number(m)
		},
	})

	r.Register(&FunctionDef{
		Name: "IF", MinArgs: 2, MaxArgs: 3, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			cond := args[0].Evaluate(ctx)
			if cond.IsError() {
				return cond
			}
			if cond.IsTruthy() {
				return args[1].Evaluate(ctx)
			}
			if len(args) == 3 {
				return args[2].Evaluate(ctx)
			}
			return Boolean(false)
		},
	})

	r.Register(&FunctionDef{
		Name: "IFERROR", MinArgs: 2, MaxArgs: 2, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			v := args[0].Evaluate(ctx)
			if v.IsError() {
				return args[1].Evaluate(ctx)
			}
			return v
		},
	})

	r.Register(&FunctionDef{
		Name: "IFNA", MinArgs: 2, MaxArgs: 2, Lazy: true,
		LazyFn: func(ctx EvaluationContext, args []Node) Value {
			v := args[0].Evaluate(ctx)
			if v.Kind == KindError && v.Err == ErrNA {
				return args[1].Evaluate(ctx)
			}
			return v
		},
	})

	r.Register(&FunctionDef{
		Name: "MATCH", MinArgs: 2, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			lookup := args[0]
			array := flattenScalars(args[1])
			mode := 1
			if len(args) == 3 {
				n, ok := args[2].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				mode = int(n)
			}
			switch mode {
			case 0:
				for i, v := range array {
					if valuesMatchExact(lookup, v) {
						return Number(float64(i + 1))
					}
				}
			case 1:
				best := -1
				for i, v := range array {
					if compareForMatch(v, lookup) <= 0 {
						best = i
					} else {
						break
					}
				}
				if best >= 0 {
					return Number(float64(best + 1))
				}
			case -1:
				best := -1
				for i, v := range array {
					if compareForMatch(v, lookup) >= 0 {
						best = i
					} else {
						break
					}
				}
				if best >= 0 {
					return Number(float64(best + 1))
				}
			}
			return Err(ErrNA)
		},
	})

	r.Register(&FunctionDef{
		Name: "VLOOKUP", MinArgs: 3, MaxArgs: 4,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			lookup := args[0]
			table := args[1]
			if table.Kind != KindRange {
				return Err(ErrRef)
			}
			colIdxF, ok := args[2].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			colIdx := int(colIdxF)
			if colIdx < 1 || len(table.Range) == 0 || colIdx > len(table.Range[0]) {
				return Err(ErrRef)
			}
			approx := true
			if len(args) == 4 {
				approx = args[3].ToBool()
			}
			if !approx {
				for _, row := range table.Range {
					if valuesMatchExact(lookup, row[0]) {
						return row[colIdx-1]
					}
				}
				return Err(ErrNA)
			}
			best := -1
			for i, row := range table.Range {
				if compareForMatch(row[0], lookup) <= 0 {
					best = i
				} else {
					break
				}
			}
			if best < 0 {
				return Err(ErrNA)
			}
			return table.Range[best][colIdx-1]
		},
	})
}

func sumNumbers(v Value) float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindRange:
		var sum float64
		for _, row := range v.Range {
			for _, cell := range row {
				sum += sumNumbers(cell)
			}
		}
		return sum
	}
	return 0
}

func sumAndCount(v Value) (sum float64, count int) {
	switch v.Kind {
	case KindNumber:
		return v.Num, 1
	case KindRange:
		for _, row := range v.Range {
			for _, cell := range row {
				s, c := sumAndCount(cell)
				sum += s
				count += c
			}
		}
		return sum, count
	}
	return 0, 0
}

func flattenNumbers(args []Value) []float64 {
	var out []float64
	var walk func(Value)
	walk = func(v Value) {
		switch v.Kind {
		case KindNumber:
			out = append(out, v.Num)
		case KindRange:
			for _, row := range v.Range {
				for _, cell := range row {
					walk(cell)
				}
			}
		}
	}
	for _, a := range args {
		walk(a)
	}
	return out
}

// flattenScalars lowers a single argument (scalar or Range) into a flat,
// row-major list of scalar Values, for lookup-style functions.
func flattenScalars(v Value) []Value {
	if v.Kind != KindRange {
		return []Value{v}
	}
	var out []Value
	for _, row := range v.Range {
		out = append(out, row...)
	}
	return out
}

func valuesMatchExact(lookup, candidate Value) bool {
	if lookup.Kind == KindText && candidate.Kind == KindText {
		return upper(lookup.Str) == upper(candidate.Str)
	}
	if ln, lok := lookup.ToNumber(); lok {
		if cn, cok := candidate.ToNumber(); cok {
			return ln == cn
		}
	}
	return lookup.Equal(candidate)
}

// compareForMatch orders candidate relative to lookup the way MATCH's
// ascending/descending modes require: numeric when both coerce, else
// case-insensitive text.
func compareForMatch(candidate, lookup Value) int {
	if cn, cok := candidate.ToNumber(); cok {
		if ln, lok := lookup.ToNumber(); lok {
			return compareFloat(cn, ln)
		}
	}
	return compareSameKind(Text(upper(candidate.ToText())), Text(upper(lookup.ToText())))
}
