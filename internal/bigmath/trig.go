package bigmath

import (
	"math/big"
	"sync"
)

// piCache memoizes pi per mantissa precision. The kernel amplitude function
// reduces every phase angle to the principal range, so pi at the working
// precision is requested for every sample; recomputing the AGM each time
// would dominate the scoring cost.
var piCache sync.Map // uint -> *big.Float

// Pi returns pi at the context precision using the Gauss-Legendre AGM
// iteration. The returned value is shared and must not be mutated; callers
// that need a scratch copy should Set it into their own big.Float.
func Pi(ctx Context) *big.Float {
	prec := ctx.Bits()
	if v, ok := piCache.Load(prec); ok {
		return v.(*big.Float)
	}

	// Work with extra bits so the cached value is correctly rounded.
	wp := prec + 32
	one := new(big.Float).SetPrec(wp).SetInt64(1)
	two := new(big.Float).SetPrec(wp).SetInt64(2)
	four := new(big.Float).SetPrec(wp).SetInt64(4)

	a := new(big.Float).SetPrec(wp).SetInt64(1)
	b := new(big.Float).SetPrec(wp).Quo(one, new(big.Float).SetPrec(wp).Sqrt(two))
	t := new(big.Float).SetPrec(wp).Quo(one, four)
	p := new(big.Float).SetPrec(wp).SetInt64(1)

	// Quadratic convergence: log2(wp) iterations suffice.
	steps := 1
	for n := wp; n > 1; n >>= 1 {
		steps++
	}
	for i := 0; i < steps; i++ {
		an := new(big.Float).SetPrec(wp).Add(a, b)
		an.Quo(an, two)
		b = new(big.Float).SetPrec(wp).Sqrt(new(big.Float).SetPrec(wp).Mul(a, b))
		d := new(big.Float).SetPrec(wp).Sub(a, an)
		d.Mul(d, d)
		d.Mul(d, p)
		t.Sub(t, d)
		p.Mul(p, two)
		a = an
	}

	sum := new(big.Float).SetPrec(wp).Add(a, b)
	sum.Mul(sum, sum)
	pi := new(big.Float).SetPrec(prec).Quo(sum, new(big.Float).SetPrec(wp).Mul(four, t))

	piCache.Store(prec, pi)
	return pi
}

// PrincipalAngle reduces theta to the principal range (-pi, pi].
//
// Parameters:
//   - ctx: The precision context.
//   - theta: The angle to reduce (not mutated).
//
// Returns:
//   - *big.Float: The reduced angle at the context precision.
func PrincipalAngle(ctx Context, theta *big.Float) *big.Float {
	pi := Pi(ctx)
	twoPi := ctx.NewFloat().Add(pi, pi)

	// r = theta - 2*pi*round(theta / 2*pi)
	q := ctx.NewFloat().Quo(theta, twoPi)
	q.Add(q, ctx.FromFloat64(0.5))
	k := Floor(q)
	r := ctx.NewFloat().Sub(theta, new(big.Float).SetPrec(ctx.Bits()).Mul(twoPi, ctx.FromInt(k)))

	// Rounding at the half-turn boundary can leave r just outside the range.
	negPi := ctx.NewFloat().Neg(pi)
	if r.Cmp(negPi) <= 0 {
		r.Add(r, twoPi)
	}
	if r.Cmp(pi) > 0 {
		r.Sub(r, twoPi)
	}
	return r
}

// maxSinIterations bounds the Taylor loop. At the precisions the engine uses
// (hundreds of digits) convergence needs well under a thousand terms for any
// argument already reduced to the principal range.
const maxSinIterations = 4096

// Sin computes sin(x) at the context precision using the Taylor series after
// reduction to the principal range. The series alternates and |x| <= pi after
// reduction, so the truncation error is bounded by the first omitted term.
//
// Parameters:
//   - ctx: The precision context.
//   - x: The argument (not mutated).
//
// Returns:
//   - *big.Float: sin(x) at the context precision.
func Sin(ctx Context, x *big.Float) *big.Float {
	wp := ctx.Bits() + 32
	r := new(big.Float).SetPrec(wp).Set(PrincipalAngle(ctx, x))

	sum := new(big.Float).SetPrec(wp).Set(r)
	term := new(big.Float).SetPrec(wp).Set(r)
	x2 := new(big.Float).SetPrec(wp).Mul(r, r)

	// Stop once the next term can no longer affect the result.
	limit := new(big.Float).SetPrec(wp).SetMantExp(
		new(big.Float).SetPrec(wp).SetInt64(1), -int(wp))

	for n := 1; n <= maxSinIterations; n++ {
		// term *= -x^2 / ((2n)(2n+1))
		term.Mul(term, x2)
		term.Quo(term, new(big.Float).SetPrec(wp).SetInt64(int64(2*n)*int64(2*n+1)))
		term.Neg(term)
		sum.Add(sum, term)

		if term.Sign() == 0 {
			break
		}
		if new(big.Float).SetPrec(wp).Abs(term).Cmp(limit) < 0 {
			break
		}
	}

	return ctx.NewFloat().Set(sum)
}
