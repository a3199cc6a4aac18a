// Package resonance implements the spectral scoring primitives of the divisor
// search: the Dirichlet-style kernel amplitude function, the phase-corrected
// candidate mapper ("snap"), the curvature weighting used for diagnostics, and
// the deterministic low-discrepancy sampler for kernel parameters.
package resonance

import (
	"math/big"

	"github.com/agbru/resofactor/internal/bigmath"
)

// MaxGuardDigits caps the adaptive epsilon of the singularity guard. Beyond
// this many digits the guard threshold no longer shrinks with precision, so
// arguments within 10^-MaxGuardDigits of a multiple of 2*pi are always snapped
// to the kernel's limiting value.
const MaxGuardDigits = 40

// guardEpsilon returns the adaptive threshold below which |sin(theta/2)| is
// treated as exactly zero.
func guardEpsilon(ctx bigmath.Context) *big.Float {
	digits := ctx.Digits / 2
	if digits > MaxGuardDigits {
		digits = MaxGuardDigits
	}
	if digits < 1 {
		digits = 1
	}
	return ctx.PowerOfTen(-digits)
}

// Amplitude evaluates the normalized kernel amplitude
//
//	|sin((2*order+1)*theta/2) / ((2*order+1)*sin(theta/2))|
//
// after reducing theta to the principal range (-pi, pi]. The result lies in
// [0, ~1] and peaks at exactly 1 at theta = 0.
//
// Singularity guard: when |sin(theta/2)| falls below the adaptive epsilon the
// function returns exactly 1, the kernel's true limiting value at theta = 0.
// The guard is load-bearing: samples landing on or extremely near the
// singularity must not divide by a vanishing denominator.
//
// Parameters:
//   - ctx: The precision context.
//   - theta: The phase angle (not mutated).
//   - order: The kernel order (>= 1).
//
// Returns:
//   - *big.Float: The amplitude at the context precision.
func Amplitude(ctx bigmath.Context, theta *big.Float, order int) *big.Float {
	m := int64(2*order + 1)

	reduced := bigmath.PrincipalAngle(ctx, theta)
	half := ctx.NewFloat().Quo(reduced, ctx.FromFloat64(2))

	denSin := bigmath.Sin(ctx, half)
	absDenSin := ctx.NewFloat().Abs(denSin)
	if absDenSin.Cmp(guardEpsilon(ctx)) < 0 {
		return ctx.FromFloat64(1)
	}

	numArg := ctx.NewFloat().Mul(half, ctx.FromFloat64(float64(m)))
	num := ctx.NewFloat().Abs(bigmath.Sin(ctx, numArg))

	den := ctx.NewFloat().Mul(absDenSin, ctx.FromFloat64(float64(m)))
	return ctx.NewFloat().Quo(num, den)
}
