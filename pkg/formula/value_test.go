package formula

import "testing"

func TestValueToNumber(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"number", Number(3.5), 3.5, true},
		{"bool true", Boolean(true), 1, true},
		{"bool false", Boolean(false), 0, true},
		{"empty", Empty(), 0, true},
		{"text numeric", Text("42"), 42, true},
		{"text non-numeric", Text("abc"), 0, false},
		{"error", Err(ErrValue), 0, false},
		{"range 1x1", RangeValue([][]Value{{Number(9)}}), 9, true},
		{"range 2x2", RangeValue([][]Value{{Number(1), Number(2)}, {Number(3), Number(4)}}), 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.v.ToNumber()
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("ToNumber() = (%v, %v), want (%v, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestValueToText(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"number", Number(1.5), "1.5"},
		{"bool true", Boolean(true), "TRUE"},
		{"bool false", Boolean(false), "FALSE"},
		{"empty", Empty(), ""},
		{"error", Err(ErrDivZero), "#DIV/0!"},
		{"range", RangeValue([][]Value{{Number(1), Number(2)}, {Text("a"), Text("b")}}), "1,2;a,b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.v.ToText(); got != tc.want {
				t.Errorf("ToText() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValueIsTruthy(t *testing.T) {
	if !Number(1).IsTruthy() {
		t.Error("Number(1) should be truthy")
	}
	if Number(0).IsTruthy() {
		t.Error("Number(0) should not be truthy")
	}
	if Err(ErrNA).IsTruthy() {
		t.Error("Error should never be truthy")
	}
	if !RangeValue([][]Value{{Number(1)}}).IsTruthy() {
		t.Error("non-empty range should be truthy")
	}
	if RangeValue(nil).IsTruthy() {
		t.Error("empty range should not be truthy")
	}
}

func TestValueEqual(t *testing.T) {
	if !RangeValue([][]Value{{Number(1), Number(2)}}).Equal(RangeValue([][]Value{{Number(1), Number(2)}})) {
		t.Error("element-wise equal ranges should compare equal")
	}
	if Number(1).Equal(Text("1")) {
		t.Error("different kinds should never be equal")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:    "0",
		1:    "1",
		1.5:  "1.5",
		-2.25: "-2.25",
	}
	for n, want := range cases {
		if got := FormatNumber(n); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", n, got, want)
		}
	}
}
