package store

import (
	"strconv"

	"github.com/go-mizu/blueprints/formulaengine/pkg/formula"
)

// EncodeValue splits a scalar formula.Value into the (kind, payload) pair
// every backend persists it as. Range/Function/Omitted values are never
// persisted directly (they are computed results of formulas, not stored
// literals), so EncodeValue degrades them to Empty.
func EncodeValue(v formula.Value) (kind int, payload string) {
	switch v.Kind {
	case formula.KindNumber:
		return int(formula.KindNumber), strconv.FormatFloat(v.Num, 'g', -1, 64)
	case formula.KindText:
		return int(formula.KindText), v.Str
	case formula.KindBoolean:
		if v.Bool {
			return int(formula.KindBoolean), "1"
		}
		return int(formula.KindBoolean), "0"
	case formula.KindError:
		return int(formula.KindError), v.Err.Code()
	default:
		return int(formula.KindEmpty), ""
	}
}

// DecodeValue is the inverse of EncodeValue.
func DecodeValue(kind int, payload string) formula.Value {
	switch formula.Kind(kind) {
	case formula.KindNumber:
		n, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return formula.Empty()
		}
		return formula.Number(n)
	case formula.KindText:
		return formula.Text(payload)
	case formula.KindBoolean:
		return formula.Boolean(payload == "1")
	case formula.KindError:
		k, ok := formula.ParseErrorLiteral(payload)
		if !ok {
			return formula.Err(formula.ErrValue)
		}
		return formula.Err(k)
	default:
		return formula.Empty()
	}
}
