// Package shells implements the shell exclusion filter: the space of absolute
// offsets from sqrt(N) is partitioned into concentric annular bands, each
// band's amplitude profile is sampled, and kernel-parameter samples whose
// induced candidates fall into low-signal bands are pruned from the search
// pool. The filter is purely advisory; at worst it removes zero shells and the
// search proceeds unchanged.
package shells

import (
	"math/big"

	"github.com/agbru/resofactor/internal/bigmath"
	"github.com/agbru/resofactor/internal/logging"
	"github.com/agbru/resofactor/internal/resonance"
)

// radiusGrowth is the geometric growth factor between consecutive shell radii.
const radiusGrowth = 2.0

// Config holds the filter tunables. All values are supplied by the caller;
// the filter performs no environment I/O.
type Config struct {
	// BandWidth is the base radius delta of the innermost shell, as an
	// absolute offset from sqrt(N).
	BandWidth float64
	// Count is the number of shells generated on each side of sqrt(N).
	Count int
	// AmplitudeFloor is tau: a shell whose maximum sampled amplitude stays
	// below it is a candidate for exclusion.
	AmplitudeFloor float64
	// SpikeFloor is tau_spike: a local maximum at or above it rescues a shell
	// from exclusion.
	SpikeFloor float64
	// Overlap is the fractional radius overlap between adjacent shells.
	Overlap float64
	// SamplesPerShell is the number of kernel parameters sampled per shell.
	SamplesPerShell int
}

// Shell is an annular band of absolute offsets from sqrt(N). Negative indices
// denote shells below the square root, positive above; radius pairs are
// generated symmetrically.
type Shell struct {
	// Index identifies the shell; the sign encodes the side of sqrt(N).
	Index int
	// Inner is the inner radius (absolute offset from sqrt(N)).
	Inner *big.Float
	// Outer is the outer radius.
	Outer *big.Float
}

// Filter evaluates and applies shell exclusion for a single search call.
type Filter struct {
	ctx    bigmath.Context
	cfg    Config
	order  int
	low    *big.Float
	high   *big.Float
	logger logging.Logger
}

// NewFilter creates a filter for the given precision context, tunables,
// kernel order and kernel-parameter range.
func NewFilter(ctx bigmath.Context, cfg Config, order int, low, high *big.Float, logger logging.Logger) *Filter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Filter{ctx: ctx, cfg: cfg, order: order, low: low, high: high, logger: logger}
}

// Generate builds the symmetric shell list around sqrt(N). Radii grow
// geometrically, the innermost shell starts at offset zero, and each shell's
// outer radius is extended by the overlap fraction so adjacent bands share a
// margin:
//
//	inner(k) = delta * (growth^(k-1) - 1)
//	outer(k) = delta * growth^k * (1 + overlap)
func (f *Filter) Generate() []Shell {
	shells := make([]Shell, 0, 2*f.cfg.Count)
	delta := f.ctx.FromFloat64(f.cfg.BandWidth)
	growth := f.ctx.FromFloat64(radiusGrowth)
	overlapFactor := f.ctx.FromFloat64(1 + f.cfg.Overlap)

	pow := f.ctx.FromFloat64(1) // growth^(k-1)
	for k := 1; k <= f.cfg.Count; k++ {
		inner := f.ctx.NewFloat().Sub(pow, f.ctx.FromFloat64(1))
		inner.Mul(inner, delta)

		pow = f.ctx.NewFloat().Mul(pow, growth) // now growth^k
		outer := f.ctx.NewFloat().Mul(pow, delta)
		outer.Mul(outer, overlapFactor)

		shells = append(shells,
			Shell{Index: k, Inner: inner, Outer: outer},
			Shell{Index: -k, Inner: inner, Outer: outer},
		)
	}
	return shells
}

// profile samples the shell's amplitude profile at the theta = 0 comparison
// baseline used by this filter, drawing SamplesPerShell kernel parameters
// from the configured range.
func (f *Filter) profile() []*big.Float {
	count := f.cfg.SamplesPerShell
	if count < 1 {
		count = 1
	}
	sampler := resonance.NewSampler(f.ctx, f.low, f.high)
	amps := make([]*big.Float, count)
	zero := f.ctx.NewFloat()
	for i := 0; i < count; i++ {
		sampler.Next()
		amps[i] = resonance.Amplitude(f.ctx, zero, f.order)
	}
	return amps
}

// hasSpike reports whether the profile contains a rescuing spike: a sample at
// or above SpikeFloor that is a local maximum among its immediate neighbors,
// boundary samples included. With fewer than 3 samples the local-maximum test
// is ambiguous and the rule falls back to "any sample >= SpikeFloor"; the
// asymmetry with the full rule is intentional and preserved as-is.
func (f *Filter) hasSpike(amps []*big.Float) bool {
	spikeFloor := f.ctx.FromFloat64(f.cfg.SpikeFloor)

	if len(amps) < 3 {
		for _, a := range amps {
			if a.Cmp(spikeFloor) >= 0 {
				return true
			}
		}
		return false
	}

	for i, a := range amps {
		if a.Cmp(spikeFloor) < 0 {
			continue
		}
		switch i {
		case 0:
			if a.Cmp(amps[1]) >= 0 {
				return true
			}
		case len(amps) - 1:
			if a.Cmp(amps[i-1]) >= 0 {
				return true
			}
		default:
			if a.Cmp(amps[i-1]) >= 0 && a.Cmp(amps[i+1]) >= 0 {
				return true
			}
		}
	}
	return false
}

// Excluded profiles every shell and returns the excluded subset. A shell is
// excluded iff its maximum sampled amplitude is below AmplitudeFloor and no
// sample exhibits a rescuing spike.
func (f *Filter) Excluded(shells []Shell) []Shell {
	amplitudeFloor := f.ctx.FromFloat64(f.cfg.AmplitudeFloor)

	var excluded []Shell
	for _, shell := range shells {
		amps := f.profile()

		maxAmp := amps[0]
		for _, a := range amps[1:] {
			if a.Cmp(maxAmp) > 0 {
				maxAmp = a
			}
		}

		if maxAmp.Cmp(amplitudeFloor) < 0 && !f.hasSpike(amps) {
			excluded = append(excluded, shell)
		}
	}
	if len(excluded) > 0 {
		f.logger.Debug("shells excluded",
			logging.Int("excluded", len(excluded)),
			logging.Int("total", len(shells)))
	}
	return excluded
}

// logRange converts a shell's absolute radius band into a logarithmic offset
// band around ln(sqrt(N)) = lnN/2:
//
//	[ln(1 + inner/sqrt(N)), ln(1 + outer/sqrt(N))]
//
// The range is computed on the upper side and applied symmetrically via the
// absolute log offset, matching the symmetric shell generation.
func (f *Filter) logRange(shell Shell, sqrtN *big.Float) (lo, hi *big.Float) {
	one := f.ctx.FromFloat64(1)

	rel := f.ctx.NewFloat().Quo(shell.Inner, sqrtN)
	lo = bigmath.Log(f.ctx, f.ctx.NewFloat().Add(one, rel))

	rel = f.ctx.NewFloat().Quo(shell.Outer, sqrtN)
	hi = bigmath.Log(f.ctx, f.ctx.NewFloat().Add(one, rel))
	return lo, hi
}

// Prune drops samples whose induced candidate's logarithmic position falls
// within an excluded shell's logarithmic radius range. candidateOf maps a
// kernel parameter to its induced candidate; lnN is the natural logarithm of
// the search target. Samples mapping to non-positive candidates are kept:
// bounds rejection belongs to the orchestrator, not this filter.
func (f *Filter) Prune(samples []resonance.ScoredSample, lnN *big.Float, excluded []Shell,
	candidateOf func(*big.Float) *big.Int) []resonance.ScoredSample {

	if len(excluded) == 0 {
		return samples
	}

	halfLnN := f.ctx.NewFloat().Quo(lnN, f.ctx.FromFloat64(2))
	sqrtN := bigmath.Exp(f.ctx, halfLnN)

	type band struct{ lo, hi *big.Float }
	bands := make([]band, 0, len(excluded))
	for _, shell := range excluded {
		lo, hi := f.logRange(shell, sqrtN)
		bands = append(bands, band{lo, hi})
	}

	kept := samples[:0]
	for _, sample := range samples {
		candidate := candidateOf(sample.KernelParam)
		if candidate.Sign() <= 0 {
			kept = append(kept, sample)
			continue
		}

		logPos := f.ctx.NewFloat().Sub(bigmath.LogInt(f.ctx, candidate), halfLnN)
		logPos.Abs(logPos)

		inside := false
		for _, b := range bands {
			if logPos.Cmp(b.lo) >= 0 && logPos.Cmp(b.hi) <= 0 {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, sample)
		}
	}

	if dropped := len(samples) - len(kept); dropped > 0 {
		f.logger.Debug("shell filter pruned samples",
			logging.Int("dropped", dropped),
			logging.Int("kept", len(kept)))
	}
	return kept
}
