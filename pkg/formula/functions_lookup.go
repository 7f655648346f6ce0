package formula

import (
	"sort"
	"strconv"
)

// registerLookupFunctions wires SPEC_FULL.md §10's lookup/dynamic-array
// category: XLOOKUP, XMATCH, HSTACK, VSTACK, TAKE, DROP, INDEX, ADDRESS,
// UNIQUE, SORT.
func registerLookupFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "XLOOKUP", MinArgs: 3, MaxArgs: 6,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			lookup := args[0]
			lookupArray := flattenScalars(args[1])
			returnArray := flattenScalars(args[2])
			if len(lookupArray) != len(returnArray) {
				return Err(ErrValue)
			}
			for i, v := range lookupArray {
				if valuesMatchExact(lookup, v) {
					return returnArray[i]
				}
			}
			if len(args) >= 4 {
				return args[3]
			}
			return Err(ErrNA)
		},
	})

	r.Register(&FunctionDef{
		Name: "XMATCH", MinArgs: 2, MaxArgs: 4,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			lookup := args[0]
			array := flattenScalars(args[1])
			for i, v := range array {
				if valuesMatchExact(lookup, v) {
					return Number(float64(i + 1))
				}
			}
			return Err(ErrNA)
		},
	})

	r.Register(&FunctionDef{
		Name: "HSTACK", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			matrices := make([][][]Value, len(args))
			rows := 0
			for i, a := range args {
				matrices[i] = toMatrix(a)
				if len(matrices[i]) > rows {
					rows = len(matrices[i])
				}
			}
			out := make([][]Value, rows)
			for rIdx := range out {
				var row []Value
				for _, m := range matrices {
					if rIdx < len(m) {
						row = append(row, m[rIdx]...)
					}
				}
				out[rIdx] = row
			}
			return RangeValue(out)
		},
	})

	r.Register(&FunctionDef{
		Name: "VSTACK", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			var out [][]Value
			for _, a := range args {
				out = append(out, toMatrix(a)...)
			}
			return RangeValue(out)
		},
	})

	r.Register(&FunctionDef{
		Name: "TAKE", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			m := toMatrix(args[0])
			n, ok := args[1].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			count := int(n)
			if count >= 0 {
				if count > len(m) {
					count = len(m)
				}
				return RangeValue(append([][]Value{}, m[:count]...))
			}
			if -count > len(m) {
				count = -len(m)
			}
			return RangeValue(append([][]Value{}, m[len(m)+count:]...))
		},
	})

	r.Register(&FunctionDef{
		Name: "DROP", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			m := toMatrix(args[0])
			n, ok := args[1].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			count := int(n)
			if count >= 0 {
				if count > len(m) {
					count = len(m)
				}
				return RangeValue(append([][]Value{}, m[count:]...))
			}
			if -count > len(m) {
				count = -len(m)
			}
			return RangeValue(append([][]Value{}, m[:len(m)+count]...))
		},
	})

	r.Register(&FunctionDef{
		Name: "INDEX", MinArgs: 2, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			m := toMatrix(args[0])
			rowF, ok := args[1].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			row := int(rowF)
			col := 1
			if len(args) == 3 {
				colF, ok := args[2].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				col = int(colF)
			}
			if row < 1 || row > len(m) {
				return Err(ErrRef)
			}
			if col < 1 || len(m[row-1]) == 0 || col > len(m[row-1]) {
				return Err(ErrRef)
			}
			return m[row-1][col-1]
		},
	})

	r.Register(&FunctionDef{
		Name: "ADDRESS", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			rowF, ok1 := args[0].ToNumber()
			colF, ok2 := args[1].ToNumber()
			if !ok1 || !ok2 {
				return Err(ErrValue)
			}
			row, col := int(rowF), int(colF)
			if row < 1 || col < 1 {
				return Err(ErrValue)
			}
			return Text(ColToLetter(col-1) + strconv.Itoa(row))
		},
	})

	r.Register(&FunctionDef{
		Name: "UNIQUE", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			flat := flattenScalars(args[0])
			var out []Value
			for _, v := range flat {
				dup := false
				for _, u := range out {
					if valuesMatchExact(v, u) {
						dup = true
						break
					}
				}
				if !dup {
					out = append(out, v)
				}
			}
			rows := make([][]Value, len(out))
			for i, v := range out {
				rows[i] = []Value{v}
			}
			return RangeValue(rows)
		},
	})

	r.Register(&FunctionDef{
		Name: "SORT", MinArgs: 1, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			flat := append([]Value{}, flattenScalars(args[0])...)
			desc := false
			if len(args) >= 3 {
				n, ok := args[2].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				desc = n < 0
			}
			sort.SliceStable(flat, func(i, j int) bool {
				c := compareForMatch(flat[i], flat[j])
				if desc {
					return c > 0
				}
				return c < 0
			})
			rows := make([][]Value, len(flat))
			for i, v := range flat {
				rows[i] = []Value{v}
			}
			return RangeValue(rows)
		},
	})
}

// toMatrix lowers a scalar or Range argument to a row-major matrix, so
// HSTACK/VSTACK/TAKE/DROP/INDEX can treat scalars and ranges uniformly.
func toMatrix(v Value) [][]Value {
	if v.Kind == KindRange {
		return v.Range
	}
	return [][]Value{{v}}
}
