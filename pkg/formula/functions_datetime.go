package formula

import "time"

// excelEpoch is the Excel serial-date zero point, 1899-12-30 (chosen to
// reproduce Excel's spurious 1900-02-29 leap day via the standard library's
// correct calendar, since no date before that epoch is ever represented).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func timeToSerial(t time.Time) float64 {
	d := t.Sub(excelEpoch)
	return d.Hours() / 24
}

func serialToTime(serial float64) time.Time {
	days := int64(serial)
	frac := serial - float64(days)
	t := excelEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(frac * 24 * float64(time.Hour)))
}

// registerDateTimeFunctions wires SPEC_FULL.md §10's date/time category.
// Every value is represented as a plain Excel serial-date Number per
// spec §3.2 — no new Value kind is introduced. TODAY/NOW are volatile:
// they are never memoized, only the AST evaluating them is cached.
func registerDateTimeFunctions(r *Registry) {
	r.Register(&FunctionDef{
		Name: "TODAY", MinArgs: 0, MaxArgs: 0,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			now := time.Now().UTC()
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			return Number(timeToSerial(today))
		},
	})

	r.Register(&FunctionDef{
		Name: "NOW", MinArgs: 0, MaxArgs: 0,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			return Number(timeToSerial(time.Now().UTC()))
		},
	})

	r.Register(&FunctionDef{
		Name: "DATE", MinArgs: 3, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			y, ok1 := args[0].ToNumber()
			m, ok2 := args[1].ToNumber()
			d, ok3 := args[2].ToNumber()
			if !ok1 || !ok2 || !ok3 {
				return Err(ErrValue)
			}
			t := time.Date(int(y), time.Month(int(m)), int(d), 0, 0, 0, 0, time.UTC)
			return Number(timeToSerial(t))
		},
	})

	dateField := func(name string, f func(time.Time) float64) {
		r.Register(&FunctionDef{
			Name: name, MinArgs: 1, MaxArgs: 1,
			Eager: func(ctx EvaluationContext, args []Value) Value {
				n, ok := args[0].ToNumber()
				if !ok {
					return Err(ErrValue)
				}
				return Number(f(serialToTime(n)))
			},
		})
	}
	dateField("YEAR", func(t time.Time) float64 { return float64(t.Year()) })
	dateField("MONTH", func(t time.Time) float64 { return float64(t.Month()) })
	dateField("DAY", func(t time.Time) float64 { return float64(t.Day()) })
	dateField("HOUR", func(t time.Time) float64 { return float64(t.Hour()) })
	dateField("MINUTE", func(t time.Time) float64 { return float64(t.Minute()) })
	dateField("SECOND", func(t time.Time) float64 { return float64(t.Second()) })
	dateField("WEEKDAY", func(t time.Time) float64 { return float64(t.Weekday()) + 1 })

	r.Register(&FunctionDef{
		Name: "TIME", MinArgs: 3, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			h, ok1 := args[0].ToNumber()
			m, ok2 := args[1].ToNumber()
			s, ok3 := args[2].ToNumber()
			if !ok1 || !ok2 || !ok3 {
				return Err(ErrValue)
			}
			total := h*3600 + m*60 + s
			return Number(total / 86400)
		},
	})

	r.Register(&FunctionDef{
		Name: "DATEDIF", MinArgs: 3, MaxArgs: 3,
		Eager: func(ctx EvaluationContext, args []Value) Value {
			start, ok1 := args[0].ToNumber()
			end, ok2 := args[1].ToNumber()
			if !ok1 || !ok2 || args[2].Kind != KindText {
				return Err(ErrValue)
			}
			st, et := serialToTime(start), serialToTime(end)
			switch upper(args[2].Str) {
			case "D":
				return Number(et.Sub(st).Hours() / 24)
			case "M":
				months := (et.Year()-st.Year())*12 + int(et.Month()) - int(st.Month())
				if et.Day() < st.Day() {
					months--
				}
				return Number(float64(months))
			case "Y":
				years := et.Year() - st.Year()
				if et.Month() < st.Month() || (et.Month() == st.Month() && et.Day() < st.Day()) {
					years--
				}
				return Number(float64(years))
			}
			return Err(ErrNum)
		},
	})
}
