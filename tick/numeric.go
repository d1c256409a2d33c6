package tick

import (
	"math"

	"github.com/shopspring/decimal"
)

// maxDecimals caps the fractional digits of default numeric labels.
const maxDecimals = 8

// niceFactors are the step mantissas tried in order.
var niceFactors = []int64{1, 2, 5, 10}

// niceStep returns the smallest 1/2/5×10^n step not below the provided raw step.
func niceStep(raw float64) decimal.Decimal {
	exp := int32(math.Floor(math.Log10(raw)))
	for _, factor := range niceFactors {
		step := decimal.New(factor, exp)
		if step.InexactFloat64() >= raw {
			if factor == 10 {
				return decimal.New(1, exp+1)
			}
			return step
		}
	}

	return decimal.New(1, exp+1)
}

// widen returns the next nice step after the provided step.
func widen(step decimal.Decimal) decimal.Decimal {
	exp := step.Exponent()
	mantissa := step.Coefficient().Int64()
	switch mantissa {
	case 1:
		return decimal.New(2, exp)
	case 2:
		return decimal.New(5, exp)
	default:
		return decimal.New(1, exp+1)
	}
}

// multiples returns the multiples of step within [min, max].
func multiples(min, max float64, step decimal.Decimal) []float64 {
	first := decimal.NewFromFloat(min).Div(step).Ceil().IntPart()
	last := decimal.NewFromFloat(max).Div(step).Floor().IntPart()
	if last < first {
		return nil
	}

	values := make([]float64, 0, last-first+1)
	for k := first; k <= last; k++ {
		values = append(values, decimal.NewFromInt(k).Mul(step).InexactFloat64())
	}

	return values
}

// Numeric returns nice tick values within [min, max] targeting the provided
// count, along with the step used. It never returns more than count+1 values;
// spans the nice ladder cannot tick fall back to uniform division.
func Numeric(min, max float64, count int) ([]float64, decimal.Decimal) {
	if count < 1 {
		count = 1
	}
	if !(max > min) || math.IsInf(max-min, 0) {
		return []float64{min}, decimal.Zero
	}

	step := niceStep((max - min) / float64(count))
	values := multiples(min, max, step)
	for len(values) > count+1 {
		step = widen(step)
		values = multiples(min, max, step)
	}

	if len(values) < 2 {
		uniform := Uniform(min, max, count)
		return uniform, decimal.NewFromFloat((max - min) / float64(count))
	}

	return values, step
}

// Uniform returns count+1 evenly spaced values from min to max.
func Uniform(min, max float64, count int) []float64 {
	if count < 1 {
		count = 1
	}

	values := make([]float64, count+1)
	for idx := 0; idx <= count; idx++ {
		values[idx] = min + (max-min)*float64(idx)/float64(count)
	}
	values[count] = max

	return values
}

// decimals returns the number of fractional digits needed to print values of
// the provided step.
func decimals(step decimal.Decimal) int {
	if step.IsZero() {
		return 2
	}

	exp := int(step.Exponent())
	if exp >= 0 {
		return 0
	}

	// Trim trailing zeros from the coefficient.
	coeff := step.Coefficient().Int64()
	for coeff != 0 && coeff%10 == 0 && exp < 0 {
		coeff /= 10
		exp++
	}

	return min(-exp, maxDecimals)
}
