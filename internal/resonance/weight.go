package resonance

import (
	"math/big"

	"github.com/agbru/resofactor/internal/bigmath"
)

// divisorExponent is the exponent of the approximate divisor-count proxy
// ln(candidate)^0.4 in the curvature weight.
const divisorExponent = 0.4

// CurvatureWeight computes the diagnostic ranking weight of a candidate:
//
//	ln(candidate)^0.4 * ln(candidate+1) / e^2
//
// The weight combines an approximate divisor-count proxy with a normalized
// logarithmic term. It is used only to order and log candidates for human
// inspection. It never gates acceptance or rejection: the search outcome must
// be identical with weighting enabled or disabled.
//
// candidate must be >= 2.
//
// Parameters:
//   - ctx: The precision context.
//   - candidate: The candidate integer.
//
// Returns:
//   - *big.Float: The weight at the context precision.
func CurvatureWeight(ctx bigmath.Context, candidate *big.Int) *big.Float {
	lnC := bigmath.LogInt(ctx, candidate)
	proxy := bigmath.Pow(ctx, lnC, ctx.FromFloat64(divisorExponent))

	next := new(big.Int).Add(candidate, big.NewInt(1))
	lnNext := bigmath.LogInt(ctx, next)

	eSquared := bigmath.Exp(ctx, ctx.FromFloat64(2))

	w := ctx.NewFloat().Mul(proxy, lnNext)
	return w.Quo(w, eSquared)
}
