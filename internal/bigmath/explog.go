package bigmath

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Exp computes e**x at the context precision.
func Exp(ctx Context, x *big.Float) *big.Float {
	return bigfloat.Exp(ctx.NewFloat().Set(x))
}

// Log computes the natural logarithm of x at the context precision.
// x must be positive.
func Log(ctx Context, x *big.Float) *big.Float {
	return bigfloat.Log(ctx.NewFloat().Set(x))
}

// LogInt computes the natural logarithm of the positive integer n at the
// context precision.
func LogInt(ctx Context, n *big.Int) *big.Float {
	return bigfloat.Log(ctx.FromInt(n))
}

// Pow computes x**y at the context precision. x must be positive.
func Pow(ctx Context, x, y *big.Float) *big.Float {
	return bigfloat.Pow(ctx.NewFloat().Set(x), ctx.NewFloat().Set(y))
}

// Sqrt computes the square root of x at the context precision.
func Sqrt(ctx Context, x *big.Float) *big.Float {
	return ctx.NewFloat().Sqrt(x)
}
