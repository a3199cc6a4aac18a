package search

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/resofactor/internal/adaptive"
	"github.com/agbru/resofactor/internal/bigmath"
	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/logging"
	"github.com/agbru/resofactor/internal/parallel"
	"github.com/agbru/resofactor/internal/resonance"
	"github.com/agbru/resofactor/internal/shells"
)

// scanSampleCap bounds the coarse scan regardless of the adaptive budget:
// the scan takes min(scanSampleCap, budget) samples and leaves the rest of
// the budget to refinement.
const scanSampleCap = 1000

// Refinement takes the top scoring fraction of the scan pool (at least
// refineMinimum seeds) and spends up to maxPerturbationsPerSeed symmetric
// perturbations on each, bounded by the remaining sample budget.
const (
	refineFraction          = 0.10
	refineMinimum           = 10
	maxPerturbationsPerSeed = 2
)

// sweepClaimCheckStride is the number of sweep offsets a worker processes
// between checks of the shared claim and the group context.
const sweepClaimCheckStride = 64

// errDivisorClaimed cancels the sweep group once a worker certifies a
// divisor. It never escapes the sweep.
var errDivisorClaimed = errors.New("divisor claimed")

// Orchestrator runs the three-phase divisor search pipeline: a coarse
// kernel parameter scan, a local refinement of the best scores, and a
// parallel certified sweep around the snapped candidates.
type Orchestrator struct {
	cfg      SearchConfig
	logger   logging.Logger
	observer ProgressObserver
}

// NewOrchestrator validates the configuration and creates an orchestrator.
//
// Parameters:
//   - cfg: The search configuration.
//
// Returns:
//   - *Orchestrator: A ready orchestrator.
//   - error: A ConfigError if the configuration is inconsistent.
func NewOrchestrator(cfg SearchConfig) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		cfg:      cfg,
		logger:   cfg.logger(),
		observer: cfg.observer(),
	}, nil
}

// Factor runs a complete divisor search for n. It is the package entry point:
// repeated calls with the same input and configuration perform the same
// sampling and return the same result.
//
// Parameters:
//   - ctx: Context for cancellation. The engine adds its own deadline on top
//     unless the effective timeout is zero.
//   - n: The integer to search for divisors.
//   - cfg: The search configuration.
//
// Returns:
//   - FactorizationResult: The outcome. Timeout and exhaustion are carried
//     here as ordinary statuses.
//   - error: A DomainError or ConfigError for rejected calls, or the context
//     error when the caller cancels. Never set for timeout or exhaustion.
func Factor(ctx context.Context, n *big.Int, cfg SearchConfig) (FactorizationResult, error) {
	orchestrator, err := NewOrchestrator(cfg)
	if err != nil {
		return FactorizationResult{}, err
	}
	return orchestrator.Run(ctx, n)
}

// runState carries the per-call derived parameters through the phases.
type runState struct {
	mctx      bigmath.Context
	n         *big.Int
	lnN       *big.Float
	order     int
	low, high *big.Float
	threshold *big.Float
	span      int
	budget    int
}

// candidateFor maps a kernel parameter to its snapped candidate.
func (s *runState) candidateFor(param *big.Float) *big.Int {
	theta := s.mctx.NewFloat().Mul(param, s.lnN)
	return resonance.Snap(s.mctx, s.lnN, theta)
}

// phaseAngle maps a kernel parameter to its principal phase angle.
func (s *runState) phaseAngle(param *big.Float) *big.Float {
	theta := s.mctx.NewFloat().Mul(param, s.lnN)
	return bigmath.PrincipalAngle(s.mctx, theta)
}

// Run executes the full pipeline for n. See Factor for the contract.
func (o *Orchestrator) Run(parent context.Context, n *big.Int) (FactorizationResult, error) {
	start := time.Now()

	// Domain policy runs before any precision derivation or sampling, so a
	// rejected input consumes no search time.
	if err := o.cfg.Domain.Check(n); err != nil {
		return FactorizationResult{}, err
	}

	bits := n.BitLen()
	digits := bigmath.RequiredPrecision(bits, o.cfg.Precision)
	state := &runState{
		mctx:   bigmath.NewContext(digits),
		n:      n,
		order:  o.cfg.KernelOrder,
		span:   o.cfg.SweepSpan,
		budget: o.cfg.SampleBudget,
	}

	low, high := o.cfg.KernelParamLow, o.cfg.KernelParamHigh
	threshold := o.cfg.ScoreThreshold
	timeout := o.cfg.Timeout
	if o.cfg.AdaptiveScalingEnabled {
		state.span = adaptive.SweepSpan(bits, o.cfg.SweepSpan)
		state.budget = adaptive.Samples(bits, o.cfg.SampleBudget)
		low, high = adaptive.KernelRange(bits, o.cfg.KernelParamLow, o.cfg.KernelParamHigh)
		threshold = adaptive.Threshold(bits, o.cfg.ScoreThreshold, o.cfg.ThresholdAttenuation)
		timeout = adaptive.Timeout(bits, o.cfg.Timeout)
	}
	state.low = state.mctx.FromFloat64(low)
	state.high = state.mctx.FromFloat64(high)
	state.threshold = state.mctx.FromFloat64(threshold)
	state.lnN = bigmath.LogInt(state.mctx, n)

	// A zero timeout leaves the call bounded only by the caller's context.
	ctx := parent
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, timeout)
		defer cancel()
	}

	o.logger.Info("search started",
		logging.String("n", n.String()),
		logging.Int("bits", bits),
		logging.Int("precision_digits", digits),
		logging.Int("sample_budget", state.budget),
		logging.Int("sweep_span", state.span),
		logging.String("timeout", timeout.String()))

	result := FactorizationResult{
		Input:     new(big.Int).Set(n),
		Precision: digits,
		ConfigUsed: EffectiveConfig{
			PrecisionDigits:        digits,
			KernelOrder:            o.cfg.KernelOrder,
			KernelParamLow:         low,
			KernelParamHigh:        high,
			SampleBudget:           state.budget,
			SweepSpan:              state.span,
			ScoreThreshold:         threshold,
			Timeout:                timeout,
			Workers:                o.cfg.workerCount(),
			ShellFilterEnabled:     o.cfg.ShellFilterEnabled,
			AdaptiveScalingEnabled: o.cfg.AdaptiveScalingEnabled,
		},
	}

	pool := o.scan(ctx, state, &result)
	if ctx.Err() == nil {
		o.refine(ctx, state, pool[:len(pool):len(pool)], &pool, &result)
	}
	if ctx.Err() == nil && o.cfg.ShellFilterEnabled {
		pool = o.pruneShells(state, pool)
	}

	var winner *big.Int
	if ctx.Err() == nil {
		winner = o.sweep(ctx, state, pool, &result)
	}

	result.Elapsed = time.Since(start)

	switch {
	case winner != nil:
		o.finishSuccess(n, winner, &result)
	case parent.Err() != nil:
		// Caller cancellation is an error, not a search outcome.
		o.observer.Completed(StatusTimeout, result.Elapsed)
		return FactorizationResult{}, apperrors.WrapError(parent.Err(), "search canceled")
	case ctx.Err() != nil:
		result.Status = StatusTimeout
	default:
		result.Status = StatusExhausted
	}

	o.observer.Completed(result.Status, result.Elapsed)
	o.logger.Info("search finished",
		logging.String("status", string(result.Status)),
		logging.Int("samples_scored", result.SamplesScored),
		logging.Int("candidates_tested", result.CandidatesTested),
		logging.String("elapsed", result.Elapsed.String()))
	return result, nil
}

// finishSuccess fills the divisor pair and re-checks it by exact
// multiplication. A certified divisor that fails the product check means the
// mapper or the certifier is defective, which is raised as a fault.
func (o *Orchestrator) finishSuccess(n, divisor *big.Int, result *FactorizationResult) {
	cofactor := new(big.Int).Div(n, divisor)

	product := new(big.Int).Mul(divisor, cofactor)
	if product.Cmp(n) != 0 {
		panic(apperrors.NewInternalFault(
			"certified pair %s * %s = %s does not reproduce %s",
			divisor, cofactor, product, n))
	}

	if divisor.Cmp(cofactor) <= 0 {
		result.DivisorA, result.DivisorB = divisor, cofactor
	} else {
		result.DivisorA, result.DivisorB = cofactor, divisor
	}
	result.Status = StatusSuccess
}

// scan performs the coarse low-discrepancy scan of the kernel parameter
// range, scoring each sample at its own phase angle.
func (o *Orchestrator) scan(ctx context.Context, state *runState, result *FactorizationResult) []resonance.ScoredSample {
	count := scanSampleCap
	if state.budget < count {
		count = state.budget
	}

	sampler := resonance.NewSampler(state.mctx, state.low, state.high)
	pool := make([]resonance.ScoredSample, 0, count)

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			return pool
		}
		param := sampler.Next()
		amp := resonance.Amplitude(state.mctx, state.phaseAngle(param), state.order)
		pool = append(pool, resonance.ScoredSample{KernelParam: param, Amplitude: amp})
		result.SamplesScored++

		if i%32 == 0 {
			o.observer.Update(PhaseScan, float64(i)/float64(count))
		}
	}
	o.observer.Update(PhaseScan, 1.0)
	return pool
}

// refine perturbs the top scoring scan samples. Each seed receives up to
// maxPerturbationsPerSeed symmetric perturbations, bounded by the remaining
// sample budget; new scores are appended to the pool.
func (o *Orchestrator) refine(ctx context.Context, state *runState, scanned []resonance.ScoredSample, pool *[]resonance.ScoredSample, result *FactorizationResult) {
	remaining := state.budget - result.SamplesScored
	if remaining <= 0 || len(scanned) == 0 {
		o.observer.Update(PhaseRefine, 1.0)
		return
	}

	seeds := make([]resonance.ScoredSample, len(scanned))
	copy(seeds, scanned)
	resonance.SortByAmplitude(seeds)

	seedCount := int(float64(len(seeds)) * refineFraction)
	if seedCount < refineMinimum {
		seedCount = refineMinimum
	}
	if seedCount > len(seeds) {
		seedCount = len(seeds)
	}

	// Perturbation step: the kernel range divided by the full budget, so
	// refinement looks strictly between scan samples.
	step := state.mctx.NewFloat().Sub(state.high, state.low)
	step.Quo(step, state.mctx.FromFloat64(float64(state.budget)))

	for i := 0; i < seedCount && remaining > 0; i++ {
		if ctx.Err() != nil {
			return
		}
		seed := seeds[i].KernelParam
		for _, sign := range []float64{-1, 1} {
			if remaining <= 0 {
				break
			}
			offset := state.mctx.NewFloat().Mul(step, state.mctx.FromFloat64(sign))
			param := state.mctx.NewFloat().Add(seed, offset)
			if param.Cmp(state.low) < 0 || param.Cmp(state.high) > 0 {
				continue
			}
			amp := resonance.Amplitude(state.mctx, state.phaseAngle(param), state.order)
			*pool = append(*pool, resonance.ScoredSample{KernelParam: param, Amplitude: amp})
			result.SamplesScored++
			remaining--
		}
		o.observer.Update(PhaseRefine, float64(i+1)/float64(seedCount))
	}
	o.observer.Update(PhaseRefine, 1.0)
}

// pruneShells applies the shell exclusion filter to the scored pool.
func (o *Orchestrator) pruneShells(state *runState, pool []resonance.ScoredSample) []resonance.ScoredSample {
	filter := shells.NewFilter(state.mctx, o.cfg.Shell, state.order, state.low, state.high, o.logger)
	excluded := filter.Excluded(filter.Generate())
	return filter.Prune(pool, state.lnN, excluded, state.candidateFor)
}

// sweep runs the parallel certification sweep over the surviving pool. For
// each pooled sample, the snapped candidate anchors a window of
// 2*span+1 integer offsets that is fanned out across the workers. The first
// certified divisor claims the result slot and cancels the remaining work.
func (o *Orchestrator) sweep(ctx context.Context, state *runState, pool []resonance.ScoredSample, result *FactorizationResult) *big.Int {
	if len(pool) == 0 {
		return nil
	}
	resonance.SortByAmplitude(pool)

	certifier := NewCertifier(o.cfg.RadiusPercent, o.cfg.MaxRadiusCap, o.logger)
	workers := o.cfg.workerCount()
	one := big.NewInt(1)

	var claim parallel.Claim[*big.Int]
	var faults parallel.FaultLog
	var tested atomic.Int64

	for i, sample := range pool {
		if ctx.Err() != nil || claim.Claimed() {
			break
		}
		center := state.candidateFor(sample.KernelParam)

		offsets := 2*state.span + 1
		chunk := (offsets + workers - 1) / workers

		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			begin := -state.span + w*chunk
			end := begin + chunk - 1
			if end > state.span {
				end = state.span
			}
			if begin > end {
				break
			}
			g.Go(func() error {
				// A worker that starts after the claim is settled skips its
				// whole chunk; the batch still counts as completed.
				if claim.Claimed() {
					return nil
				}
				return o.sweepChunk(gctx, state, certifier, &claim, &tested, center, one, begin, end)
			})
		}
		if err := g.Wait(); err != nil && !errors.Is(err, errDivisorClaimed) && !apperrors.IsContextError(err) {
			faults.Record(err)
		}

		o.observer.Update(PhaseSweep, float64(i+1)/float64(len(pool)))
	}
	o.observer.Update(PhaseSweep, 1.0)

	// Batch failures never abort the sweep; the surviving batches may still
	// produce a certified divisor. They are reported once, aggregated.
	if err := faults.Err(); err != nil {
		o.logger.Error("sweep batches failed", err,
			logging.Int("failed_batches", faults.Count()))
	}

	result.CandidatesTested = int(tested.Load())
	winner, ok := claim.Value()
	if !ok {
		return nil
	}
	return winner
}

// sweepChunk scores and certifies one contiguous offset range of a sweep
// batch. Candidates outside the open interval (1, n) are rejected before
// scoring; candidates below the score threshold are never certified.
func (o *Orchestrator) sweepChunk(ctx context.Context, state *runState, certifier *Certifier, claim *parallel.Claim[*big.Int], tested *atomic.Int64, center, one *big.Int, begin, end int) error {
	for k := begin; k <= end; k++ {
		if (k-begin)%sweepClaimCheckStride == 0 {
			if ctx.Err() != nil {
				return nil
			}
			if claim.Claimed() {
				return nil
			}
		}

		candidate := new(big.Int).Add(center, big.NewInt(int64(k)))
		if candidate.Cmp(one) <= 0 || candidate.Cmp(state.n) >= 0 {
			continue
		}

		phase := resonance.CandidatePhase(state.mctx, state.lnN, candidate)
		amp := resonance.Amplitude(state.mctx, phase, state.order)
		if amp.Cmp(state.threshold) < 0 {
			continue
		}

		weight, _ := resonance.CurvatureWeight(state.mctx, candidate).Float64()
		o.logger.Debug("candidate passed score gate",
			logging.String("candidate", candidate.String()),
			logging.Float64("curvature_weight", weight))

		tested.Add(1)
		if divisor, ok := certifier.Certify(ctx, state.n, candidate); ok {
			claim.TryClaim(divisor)
			return errDivisorClaimed
		}
	}
	return nil
}
