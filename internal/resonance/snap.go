package resonance

import (
	"math/big"

	"github.com/agbru/resofactor/internal/bigmath"
)

// Snap maps a logarithm and a phase angle to a concrete integer candidate:
//
//	candidate = floor(exp((lnN - principalAngle(theta)) / 2))
//
// Candidates are centered near the square root of the input, with theta acting
// as a logarithmic perturbation. The output is truncated toward negative
// infinity (floor, not rounding) to keep the mapping monotonic and
// deterministic; since exp() is strictly positive, truncation toward zero and
// floor coincide here.
//
// Snap has no error conditions. It may yield values <= 1 or >= N, which the
// caller must reject before use.
//
// Parameters:
//   - ctx: The precision context.
//   - lnN: The natural logarithm of the search target.
//   - theta: The phase angle (not mutated).
//
// Returns:
//   - *big.Int: The candidate integer.
func Snap(ctx bigmath.Context, lnN, theta *big.Float) *big.Int {
	reduced := bigmath.PrincipalAngle(ctx, theta)
	arg := ctx.NewFloat().Sub(lnN, reduced)
	arg.Quo(arg, ctx.FromFloat64(2))
	return bigmath.Floor(bigmath.Exp(ctx, arg))
}

// CandidatePhase returns the phase angle at which Snap maps lnN exactly onto
// the given candidate: principalAngle(lnN - 2*ln(candidate)). It is the
// inverse of Snap along the theta axis and is used by the sweep to score
// integer neighbors of a base candidate.
//
// candidate must be >= 1.
func CandidatePhase(ctx bigmath.Context, lnN *big.Float, candidate *big.Int) *big.Float {
	lnC := bigmath.LogInt(ctx, candidate)
	theta := ctx.NewFloat().Sub(lnN, ctx.NewFloat().Add(lnC, lnC))
	return bigmath.PrincipalAngle(ctx, theta)
}
