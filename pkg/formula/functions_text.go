package formula

import (
	"regexp"
	"strconv"
	"strings"
)

// registerTextFunctions wires SPEC_FULL.md §10's text category, including
// the RE2-backed REGEX* functions (a documented deviation from Excel's
// PCRE-style backreferences, since Go's regexp package is RE2-only).
func registerTextFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "CONCATENATE", MinArgs: 1, MaxArgs: -1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			var b strings.Builder
			for _, a := range args {
				b.WriteString(a.ToText())
			}
			return Text(b.String())
		},
	})

	r.Register(&FunctionDef{
		Name: "LEFT", MinArgs: 1, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			s := args[0].ToText()
			n := 1
			if len(args) == 2 {
				nf, ok := args[1].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				n = int(nf)
			}
			r := []rune(s)
			if n < 0 {
				return Err(ErrValue)
			}
			if n > len(r) {
				n = len(r)
			}
			return Text(string(r[:n]))
		},
	})

	r.Register(&FunctionDef{
		Name: "RIGHT", MinArgs: 1, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			s := args[0].ToText()
			n := 1
			if len(args) == 2 {
				nf, ok := args[1].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				n = int(nf)
			}
			r := []rune(s)
			if n < 0 {
				return Err(ErrValue)
			}
			if n > len(r) {
				n = len(r)
			}
			return Text(string(r[len(r)-n:]))
		},
	})

	r.Register(&FunctionDef{
		Name: "MID", MinArgs: 3, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			s := []rune(args[0].ToText())
			startF, sok := args[1].ToNumber()
			lenF, lok := args[2].ToNumber()
			if !sok || !lok || startF < 1 || lenF < 0 {
				return Err(ErrValue)
			}
			start := int(startF) - 1
			length := int(lenF)
			if start >= len(s) {
				return Text("")
			}
			end := start + length
			if end > len(s) {
				end = len(s)
			}
			return Text(string(s[start:end]))
		},
	})

	r.Register(&FunctionDef{
		Name: "LEN", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Number(float64(len([]rune(args[0].ToText()))))
		},
	})

	r.Register(&FunctionDef{
		Name: "LOWER", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value { return Text(strings.ToLower(args[0].ToText())) },
	})
	r.Register(&FunctionDef{
		Name: "UPPER", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value { return Text(strings.ToUpper(args[0].ToText())) },
	})
	r.Register(&FunctionDef{
		Name: "TRIM", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			fields := strings.Fields(args[0].ToText())
			return Text(strings.Join(fields, " "))
		},
	})

	r.Register(&FunctionDef{
		Name: "SUBSTITUTE", MinArgs: 3, MaxArgs: 4,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			s := args[0].ToText()
			old := args[1].ToText()
			new := args[2].ToText()
			if len(args) == 3 {
				return Text(strings.ReplaceAll(s, old, new))
			}
			occF, ok := args[3].ToNumber()
			if !ok || occF < 1 {
				return Err(ErrValue)
			}
			occ := int(occF)
			count := 0
			idx := 0
			for {
				i := strings.Index(s[idx:], old)
				if i < 0 {
					return Text(s)
				}
				count++
				abs := idx + i
				if count == occ {
					return Text(s[:abs] + new + s[abs+len(old):])
				}
				idx = abs + len(old)
			}
		},
	})

	r.Register(&FunctionDef{
		Name: "REPT", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[1].ToNumber()
			if !ok || n < 0 {
				return Err(ErrValue)
			}
			return Text(strings.Repeat(args[0].ToText(), int(n)))
		},
	})

	r.Register(&FunctionDef{
		Name: "EXACT", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Boolean(args[0].ToText() == args[1].ToText())
		},
	})

	r.Register(&FunctionDef{
		Name: "DOLLAR", MinArgs: 1, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[0].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			decimals := 2
			if len(args) == 2 {
				d, ok := args[1].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				decimals = int(d)
			}
			return Text("$" + strconv.FormatFloat(n, 'f', decimals, 64))
		},
	})

	r.Register(&FunctionDef{
		Name: "FIND", MinArgs: 2, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			needle, hay := args[0].ToText(), args[1].ToText()
			start := 1
			if len(args) == 3 {
				s, ok := args[2].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				start = int(s)
			}
			return findIn(needle, hay, start, false)
		},
	})

	r.Register(&FunctionDef{
		Name: "SEARCH", MinArgs: 2, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			needle, hay := args[0].ToText(), args[1].ToText()
			start := 1
			if len(args) == 3 {
				s, ok := args[2].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				start = int(s)
			}
			return findIn(needle, hay, start, true)
		},
	})

	r.Register(&FunctionDef{
		Name: "TEXT", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Text(args[0].ToText())
		},
	})

	r.Register(&FunctionDef{
		Name: "VALUE", MinArgs: 1, MaxArgs: 1,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			n, ok := args[0].ToNumber()
			if !ok {
				return Err(ErrValue)
			}
			return Number(n)
		},
	})

	r.Register(&FunctionDef{
		Name: "REGEXMATCH", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			re, err := regexp.Compile(args[1].ToText())
			if err != nil {
				return Err(ErrValue)
			}
			return Boolean(re.MatchString(args[0].ToText()))
		},
	})

	r.Register(&FunctionDef{
		Name: "REGEXEXTRACT", MinArgs: 2, MaxArgs: 2,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			re, err := regexp.Compile(args[1].ToText())
			if err != nil {
				return Err(ErrValue)
			}
			m := re.FindStringSubmatch(args[0].ToText())
			if m == nil {
				return Err(ErrNA)
			}
			if len(m) > 1 {
				return Text(m[1])
			}
			return Text(m[0])
		},
	})

	r.Register(&FunctionDef{
		Name: "REGEXREPLACE", MinArgs: 3, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			re, err := regexp.Compile(args[1].ToText())
			if err != nil {
				return Err(ErrValue)
			}
			return Text(re.ReplaceAllString(args[0].ToText(), args[2].ToText()))
		},
	})
}

func findIn(needle, hay string, start int, caseInsensitive bool) Value {
	hr := []rune(hay)
	if start < 1 || start > len(hr)+1 {
		return Err(ErrValue)
	}
	h := hay
	n := needle
	if caseInsensitive {
		h = strings.ToUpper(h)
		n = strings.ToUpper(n)
	}
	hrCI := []rune(h)
	offsetBytes := len(string(hrCI[:start-1]))
	idx := strings.Index(h[offsetBytes:], n)
	if idx < 0 {
		return Err(ErrValue)
	}
	runeIdx := len([]rune(h[:offsetBytes+idx]))
	return Number(float64(runeIdx + 1))
}
