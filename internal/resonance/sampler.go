package resonance

import (
	"math/big"
	"sort"

	"github.com/agbru/resofactor/internal/bigmath"
)

// Sampler generates a deterministic low-discrepancy sequence of kernel
// parameters over a closed interval using the golden-ratio Kronecker
// recurrence u_i = frac(i * (sqrt(5)-1)/2). There is no pseudo-random seed:
// two samplers over the same interval at the same precision produce the same
// sequence, which is what makes whole search runs reproducible.
type Sampler struct {
	ctx   bigmath.Context
	low   *big.Float
	span  *big.Float
	step  *big.Float // fractional part generator, (sqrt(5)-1)/2
	acc   *big.Float // running frac(i * step)
	index int
}

// NewSampler creates a sampler over [low, high]. Requires low < high.
func NewSampler(ctx bigmath.Context, low, high *big.Float) *Sampler {
	span := ctx.NewFloat().Sub(high, low)
	sqrt5 := bigmath.Sqrt(ctx, ctx.FromFloat64(5))
	step := ctx.NewFloat().Sub(sqrt5, ctx.FromFloat64(1))
	step.Quo(step, ctx.FromFloat64(2))
	return &Sampler{
		ctx:  ctx,
		low:  ctx.NewFloat().Set(low),
		span: span,
		step: step,
		acc:  ctx.NewFloat(),
	}
}

// Next returns the next kernel parameter in the sequence.
func (s *Sampler) Next() *big.Float {
	s.index++
	s.acc.Add(s.acc, s.step)
	if s.acc.Cmp(s.ctx.FromFloat64(1)) >= 0 {
		s.acc.Sub(s.acc, s.ctx.FromFloat64(1))
	}
	v := s.ctx.NewFloat().Mul(s.acc, s.span)
	return v.Add(v, s.low)
}

// Index returns the number of samples drawn so far.
func (s *Sampler) Index() int { return s.index }

// ScoredSample pairs a kernel parameter with its baseline amplitude.
type ScoredSample struct {
	// KernelParam is the sampled kernel parameter.
	KernelParam *big.Float
	// Amplitude is the baseline amplitude score in [0, ~1].
	Amplitude *big.Float
}

// SortByAmplitude orders samples by amplitude descending. Ties keep insertion
// order (stable sort) so that scoring produces a deterministic pool even when
// many samples share a score.
func SortByAmplitude(samples []ScoredSample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Amplitude.Cmp(samples[j].Amplitude) > 0
	})
}
