// Package bigmath provides arbitrary-precision real arithmetic support for the
// resonance search engine: the precision policy, a precision context passed
// explicitly through every call, and the transcendental functions (pi, sine,
// principal-angle reduction) that math/big does not supply. Exponential,
// logarithm and power come from github.com/ALTree/bigfloat and operate at the
// precision of their operands, so every big.Float in the engine is allocated
// through a Context.
package bigmath

import (
	"math"
	"math/big"
)

// precisionGuardBits is added on top of the decimal-digit conversion so that
// intermediate rounding cannot eat into the requested digits.
const precisionGuardBits = 16

// RequiredPrecision derives the working decimal precision from the bit length
// of the input:
//
//	precision = max(configuredPrecision, bitLength*4 + 200)
//
// The candidate mapper exponentiates a logarithmic quantity, so error
// propagates exponentially and precision must scale linearly with the input
// bit length, with a safety margin independent of scale. Pure function; the
// orchestrator logs the derived value for reproducibility.
//
// Parameters:
//   - bitLength: The bit length of the search target.
//   - configuredPrecision: The statically configured precision in decimal digits.
//
// Returns:
//   - int: The working precision in decimal digits.
func RequiredPrecision(bitLength, configuredPrecision int) int {
	floor := bitLength*4 + 200
	if configuredPrecision > floor {
		return configuredPrecision
	}
	return floor
}

// Context carries the decimal precision for a single search call. It is a
// plain value passed by parameter; there is deliberately no package-level
// precision state.
type Context struct {
	// Digits is the working precision in decimal digits.
	Digits int
}

// NewContext creates a precision context for the given number of decimal
// digits. Non-positive values are clamped to 1.
func NewContext(digits int) Context {
	if digits < 1 {
		digits = 1
	}
	return Context{Digits: digits}
}

// Bits converts the decimal precision to a big.Float mantissa precision,
// rounding up and adding guard bits.
func (c Context) Bits() uint {
	return uint(math.Ceil(float64(c.Digits)*math.Log2(10))) + precisionGuardBits
}

// NewFloat allocates a zero big.Float at the context precision.
func (c Context) NewFloat() *big.Float {
	return new(big.Float).SetPrec(c.Bits())
}

// FromInt converts a big.Int to a big.Float at the context precision.
func (c Context) FromInt(x *big.Int) *big.Float {
	return c.NewFloat().SetInt(x)
}

// FromFloat64 converts a float64 to a big.Float at the context precision.
func (c Context) FromFloat64(x float64) *big.Float {
	return c.NewFloat().SetFloat64(x)
}

// PowerOfTen returns 10^exp at the context precision. Negative exponents give
// the corresponding small epsilon values used by the singularity guard.
func (c Context) PowerOfTen(exp int) *big.Float {
	ten := big.NewInt(10)
	if exp >= 0 {
		n := new(big.Int).Exp(ten, big.NewInt(int64(exp)), nil)
		return c.FromInt(n)
	}
	n := new(big.Int).Exp(ten, big.NewInt(int64(-exp)), nil)
	return c.NewFloat().Quo(c.FromFloat64(1), c.FromInt(n))
}

// Floor truncates x toward negative infinity and returns the result as a
// big.Int. big.Float.Int truncates toward zero, which already equals floor for
// non-negative values; for negative non-integers the truncated value lies
// above x and is corrected down by one.
func Floor(x *big.Float) *big.Int {
	i, acc := x.Int(nil)
	if acc == big.Above {
		i.Sub(i, big.NewInt(1))
	}
	return i
}
