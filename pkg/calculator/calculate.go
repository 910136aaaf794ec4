package calculator

import (
	"math"
	"strconv"

	"github.com/aretw0/abacus/pkg/domain"
)

// Precision is the number of fractional digits kept in a computed result.
// Operands entered by the user are never rounded.
const Precision = 4

// Calculate applies op to the decimal operands a and b.
// Finite results are rounded to Precision fractional digits and returned in
// their shortest form ("13.0000" -> "13"). Division by zero, any other
// non-finite outcome, an unparsable operand or an invalid operator yield an
// undefined result.
func Calculate(op domain.Operator, a, b string) domain.Result {
	if !op.Valid() {
		return domain.Undefined()
	}
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return domain.Undefined()
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return domain.Undefined()
	}

	v := op.Apply(x, y)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return domain.Undefined()
	}
	return domain.OK(format(v))
}

// format rounds v to Precision digits and strips trailing zeros.
func format(v float64) string {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', Precision, 64), 64)
	if rounded == 0 {
		rounded = 0 // -0 displays as "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
