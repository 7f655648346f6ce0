package formula

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// registerStatFunctions wires SPEC_FULL.md §10's statistical category:
// MEDIAN, LARGE, SMALL, STDEV, VAR, COUNTIF, SUMIF, AVERAGEIF, COUNT,
// COUNTA, COUNTBLANK.
func registerStatFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "MEDIAN", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) == 0 {
				return Err(ErrNum)
			}
			sort.Float64s(nums)
			mid := len(nums) / 2
			if len(nums)%2 == 1 {
				return Number(nums[mid])
			}
			return Number((nums[mid-1] + nums[mid]) / 2)
		},
	})

	r.Register(&FunctionDef{
		Name: "LARGE", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return kthOrderStat(args[0], args[1], false)
		},
	})

	r.Register(&FunctionDef{
		Name: "SMALL", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return kthOrderStat(args[0], args[1], true)
		},
	})

	r.Register(&FunctionDef{
		Name: "STDEV", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) < 2 {
				return Err(ErrDivZero)
			}
			return Number(math.Sqrt(sampleVariance(nums)))
		},
	})

	r.Register(&FunctionDef{
		Name: "VAR", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			nums := flattenNumbers(args)
			if len(nums) < 2 {
				return Err(ErrDivZero)
			}
			return Number(sampleVariance(nums))
		},
	})

	r.Register(&FunctionDef{
		Name: "COUNT", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Number(float64(len(flattenNumbers(args))))
		},
	})

	r.Register(&FunctionDef{
		Name: "COUNTA", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			count := 0
			for _, a := range args {
				for _, v := range flattenScalars(a) {
					if v.Kind != KindEmpty {
						count++
					}
				}
			}
			return Number(float64(count))
		},
	})

	r.Register(&FunctionDef{
		Name: "COUNTBLANK", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			count := 0
			for _, v := range flattenScalars(args[0]) {
				if v.Kind == KindEmpty || (v.Kind == KindText && v.Str == "") {
					count++
				}
			}
			return Number(float64(count))
		},
	})

	r.Register(&FunctionDef{
		Name: "COUNTIF", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			crit := compileCriteria(args[1])
			count := 0
			for _, v := range flattenScalars(args[0]) {
				if crit(v) {
					count++
				}
			}
			return Number(float64(count))
		},
	})

	r.Register(&FunctionDef{
		Name: "SUMIF", MinArgs: 2, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			rng := flattenScalars(args[0])
			crit := compileCriteria(args[1])
			sumRange := rng
			if len(args) == 3 {
				sumRange = flattenScalars(args[2])
			}
			if len(sumRange) != len(rng) {
				return Err(ErrValue)
			}
			var sum float64
			for i, v := range rng {
				if crit(v) {
					if n, ok := sumRange[i].ToNumber(); ok {
						sum += n
					}
				}
			}
			return Number(sum)
		},
	})

	r.Register(&FunctionDef{
		Name: "AVERAGEIF", MinArgs: 2, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			rng := flattenScalars(args[0])
			crit := compileCriteria(args[1])
			avgRange := rng
			if len(args) == 3 {
				avgRange = flattenScalars(args[2])
			}
			if len(avgRange) != len(rng) {
				return Err(ErrValue)
			}
			var sum float64
			var count int
			for i, v := range rng {
				if crit(v) {
					if n, ok := avgRange[i].ToNumber(); ok {
						sum += n
						count++
					}
				}
			}
			if count == 0 {
				return Err(ErrDivZero)
			}
			return Number(sum / float64(count))
		},
	})
}

func kthOrderStat(rangeArg, kArg Value, smallest bool) Value {
	nums := append([]float64{}, func() []float64 {
		var out []float64
		appendNumbers(rangeArg, &out)
		return out
	}()...)
	kF, ok := kArg.ToNumber()
	if !ok {
		return Err(ErrValue)
	}
	k := int(kF)
	if k < 1 || k > len(nums) {
		return Err(ErrNum)
	}
	sort.Float64s(nums)
	if smallest {
		return Number(nums[k-1])
	}
	return Number(nums[len(nums)-k])
}

func sampleVariance(nums []float64) float64 {
	var mean float64
	for _, n := range nums {
		mean += n
	}
	mean /= float64(len(nums))
	var sq float64
	for _, n := range nums {
		d := n - mean
		sq += d * d
	}
	return sq / float64(len(nums)-1)
}

// compileCriteria turns a COUNTIF/SUMIF/AVERAGEIF criteria argument into a
// predicate: a bare value means equality (case-insensitive for text,
// numeric for numbers), a leading comparison operator in a text value
// (">5", "<=10", "<>0") selects that comparison.
func compileCriteria(crit Value) func(Value) bool {
	if crit.Kind != KindText {
		return func(v Value) bool { return valuesMatchExact(crit, v) }
	}
	s := strings.TrimSpace(crit.Str)
	for _, op := range []string{">=", "<=", "<>", ">", "<", "="} {
		if strings.HasPrefix(s, op) {
			rest := strings.TrimSpace(s[len(op):])
			if n, err := strconv.ParseFloat(rest, 64); err == nil {
				return func(v Value) bool {
					vn, ok := v.ToNumber()
					if !ok {
						return false
					}
					return evalComparisonResult(op, compareFloat(vn, n))
				}
			}
			return func(v Value) bool {
				return evalComparisonResult(op, strings.Compare(strings.ToUpper(v.ToText()), strings.ToUpper(rest)))
			}
		}
	}
	return func(v Value) bool { return valuesMatchExact(crit, v) }
}
