package formula

import (
	"math"
	"math/rand"
)

// registerMathFunctions wires SPEC_FULL.md §10's math category.
func registerMathFunctions(r *Registry) {
	unary := func(name string, f func(float64) Value) {
		r.Register(&FunctionDef{
			Name: name, MinArgs: 1, MaxArgs: 1,
			Eager: func(ctx EvaluationContext, args []Value) Value {
				n, ok := args[0].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				return f(n)
			},
		})
	}

	unary("ABS", func(n float64) Value { return Number(math.Abs(n)) })
	unary("INT", func(n float64) Value { return Number(math.Floor(n)) })
	unary("SIGN", func(n float64) Value { return Number(float64(sign(n))) })
	unary("SQRT", func(n float64) Value {
		if n < 0 {
			return Err(ErrNum)
		}
		return Number(math.Sqrt(n))
	})
	unary("LN", func(n float64) Value {
		if n <= 0 {
			return Err(ErrNum)
		}
		return Number(math.Log(n))
	})
	unary("LOG10", func(n float64) Value {
		if n <= 0 {
			return Err(ErrNum)
		}
		return Number(math.Log10(n))
	})
	unary("SIN", func(n float64) Value { return Number(math.Sin(n)) })
	unary("COS", func(n float64) Value { return Number(math.Cos(n)) })
	unary("TAN", func(n float64) Value { return Number(math.Tan(n)) })
	unary("SINH", func(n float64) Value { return Number(math.Sinh(n)) })
	unary("COSH", func(n float64) Value { return Number(math.Cosh(n)) })
	unary("TANH", func(n float64) Value { return Number(math.Tanh(n)) })
	unary("ODD", func(n float64) Value { return Number(roundAwayToParity(n, true)) })
	unary("EVEN", func(n float64) Value { return Number(roundAwayToParity(n, false)) })

	r.Register(&FunctionDef{
		Name: "LOG", MinArgs: 1, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[0].ToNumber()
			if !ok || n <= 0 {
				return Err(ErrNum)
			}
			base := 10.0
			if len(args) == 2 {
				b, ok := args[1].ToNumber()
				if !ok || b <= 0 || b == 1 {
					return Err(ErrNum)
				}
				base = b
			}
			return Number(math.Log(n) / math.Log(base))
		},
	})

	r.Register(&FunctionDef{
		Name: "ROUND", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value { return roundTo(args, math.Round) },
	})
	r.Register(&FunctionDef{
		Name: "ROUNDUP", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return roundTo(args, func(x float64) float64 {
				if x < 0 {
					return math.Floor(x)
				}
				return math.Ceil(x)
			})
		},
	})
	r.Register(&FunctionDef{
		Name: "ROUNDDOWN", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return roundTo(args, math.Trunc)
		},
	})
	r.Register(&FunctionDef{
		Name: "TRUNC", MinArgs: 1, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			full := append([]Value{args[0]}, args[1:]...)
			if len(full) == 1 {
				full = append(full, Number(0))
			}
			return roundTo(full, math.Trunc)
		},
	})

	r.Register(&FunctionDef{
		Name: "MOD", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			a, aok := args[0].ToNumber()
			b, bok := args[1].ToNumber()
			if !aok || !bok {
				return Err(ErrValue)
			}
			if b == 0 {
				return Err(ErrDivZero)
			}
			m := math.Mod(a, b)
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return Number(m)
		},
	})

	r.Register(&FunctionDef{
		Name: "POWER", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			a, aok := args[0].ToNumber()
			b, bok := args[1].ToNumber()
			if !aok || !bok {
				return Err(ErrValue)
			}
			return Number(math.Pow(a, b))
		},
	})

	r.Register(&FunctionDef{
		Name: "QUOTIENT", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			a, aok := args[0].ToNumber()
			b, bok := args[1].ToNumber()
			if !aok || !bok {
				return Err(ErrValue)
			}
			if b == 0 {
				return Err(ErrDivZero)
			}
			return Number(math.Trunc(a / b))
		},
	})

	r.Register(&FunctionDef{
		Name: "MROUND", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			a, aok := args[0].ToNumber()
			m, mok := args[1].ToNumber()
			if !aok || !mok {
				return Err(ErrValue)
			}
			if m == 0 {
				return Number(0)
			}
			return Number(math.Round(a/m) * m)
		},
	})

	r.Register(&FunctionDef{
		Name: "GCD", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) == 0 {
				return Number(0)
			}
			g := int64(nums[0])
			for _, n := range nums[1:] {
				g = gcd(g, int64(n))
			}
			return Number(float64(abs64(g)))
		},
	})

	r.Register(&FunctionDef{
		Name: "LCM", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) == 0 {
				return Number(0)
			}
			l := int64(nums[0])
			for _, n := range nums[1:] {
				l = lcm(l, int64(n))
			}
			return Number(float64(abs64(l)))
		},
	})

	r.Register(&FunctionDef{
		Name: "FACT", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[0].ToNumber()
			if !ok || n < 0 {
				return Err(ErrNum)
			}
			return Number(factorial(math.Trunc(n)))
		},
	})

	r.Register(&FunctionDef{
		Name: "COMBIN", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, nok := args[0].ToNumber()
			k, kok := args[1].ToNumber()
			if !nok || !kok || k < 0 || k > n {
				return Err(ErrNum)
			}
			return Number(factorial(n) / (factorial(k) * factorial(n-k)))
		},
	})

	r.Register(&FunctionDef{
		Name: "PERMUT", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, nok := args[0].ToNumber()
			k, kok := args[1].ToNumber()
			if !nok || !kok || k < 0 || k > n {
				return Err(ErrNum)
			}
			return Number(factorial(n) / factorial(n-k))
		},
	})

	r.Register(&FunctionDef{
		Name: "PI", MinArgs: 0, MaxArgs: 0,
		Eager: func(ctx EvaluationContext, args []Value) Value { return Number(math.Pi) },
	})

	// RAND is volatile: it must re-evaluate every call rather than ever
	// being treated as a cached result (SPEC_FULL.md §10). The AST node
	// itself is still cached by the Engine; only the Value is not.
	r.Register(&FunctionDef{
		Name: "RAND", MinArgs: 0, MaxArgs: 0,
		Eager: func(ctx EvaluationContext, args []Value) Value { return Number(rand.Float64()) },
	})
}

func sign(n float64) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func roundTo(args []Value, round func(float64) float64) Value {
	n, nok := args[0].ToNumber()
	digits, dok := args[1].ToNumber()
	if !nok || !dok {
		return Err(ErrValue)
	}
	mult := math.Pow(10, digits)
	return Number(round(n*mult) / mult)
}

func roundAwayToParity(n float64, odd bool) float64 {
	mag := math.Ceil(math.Abs(n))
	isOdd := math.Mod(mag, 2) != 0
	if isOdd != odd {
		mag++
	}
	if n < 0 {
		return -mag
	}
	return mag
}

func gcd(a, b int64) int64 {
	a, b = abs64(a), abs64(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return abs64(a/gcd(a, b)*b)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func factorial(n float64) float64 {
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result
}
