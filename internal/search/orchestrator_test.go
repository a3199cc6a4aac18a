package search

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/resofactor/internal/errors"
)

func testConfig() SearchConfig {
	return DefaultConfig()
}

func TestFactor_Reference30Bit(t *testing.T) {
	t.Parallel()

	n := big.NewInt(1073217479)
	result, err := Factor(context.Background(), n, testConfig())
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s, want success", result.Status)
	}
	if result.DivisorA.Cmp(big.NewInt(32749)) != 0 || result.DivisorB.Cmp(big.NewInt(32771)) != 0 {
		t.Errorf("divisor pair = (%s, %s), want (32749, 32771)", result.DivisorA, result.DivisorB)
	}
	if result.SamplesScored == 0 || result.CandidatesTested == 0 {
		t.Errorf("expected non-zero work counters, got samples=%d candidates=%d",
			result.SamplesScored, result.CandidatesTested)
	}
}

func TestFactor_Reference60Bit(t *testing.T) {
	t.Parallel()

	n := big.NewInt(1152921470247108503)
	result, err := Factor(context.Background(), n, testConfig())
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s, want success", result.Status)
	}

	product := new(big.Int).Mul(result.DivisorA, result.DivisorB)
	if product.Cmp(n) != 0 {
		t.Errorf("divisor product %s does not reproduce %s", product, n)
	}
	if result.DivisorA.Cmp(result.DivisorB) > 0 {
		t.Errorf("divisor pair (%s, %s) is not ordered", result.DivisorA, result.DivisorB)
	}
	if result.DivisorA.Cmp(big.NewInt(1)) <= 0 {
		t.Errorf("trivial divisor %s", result.DivisorA)
	}
}

func TestFactor_DomainRejection(t *testing.T) {
	t.Parallel()

	start := time.Now()
	result, err := Factor(context.Background(), big.NewInt(5), testConfig())
	elapsed := time.Since(start)

	if !apperrors.IsDomainError(err) {
		t.Fatalf("Factor(5) error = %v, want DomainError", err)
	}
	if result.Status != "" || result.DivisorA != nil {
		t.Errorf("rejected input must yield a zero result, got %+v", result)
	}
	if result.SamplesScored != 0 {
		t.Errorf("rejected input must consume no samples, got %d", result.SamplesScored)
	}
	// The rejection runs before precision derivation and sampling.
	if elapsed > time.Second {
		t.Errorf("rejection took %v, want immediate", elapsed)
	}
}

func TestFactor_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.KernelOrder = 0
	_, err := Factor(context.Background(), big.NewInt(1073217479), cfg)
	if err == nil {
		t.Fatal("expected a config error")
	}
	var ce apperrors.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("error = %T, want ConfigError", err)
	}
}

func TestFactor_ShellFilterExcludesEverything(t *testing.T) {
	t.Parallel()

	// An amplitude floor above the zero-angle baseline with an unreachable
	// spike floor excludes every shell, and the shell coverage spans the whole
	// reachable candidate range: the surviving pool is empty and the search
	// reports exhaustion without any certification work.
	cfg := testConfig()
	cfg.Shell.AmplitudeFloor = 1.2
	cfg.Shell.SpikeFloor = 1.5
	cfg.Shell.Count = 12

	result, err := Factor(context.Background(), big.NewInt(1073217479), cfg)
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if result.Status != StatusExhausted {
		t.Errorf("Status = %s, want exhausted", result.Status)
	}
	if result.CandidatesTested != 0 {
		t.Errorf("expected zero certification work, got %d candidates", result.CandidatesTested)
	}
}

func TestFactor_Timeout(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Timeout = time.Nanosecond

	result, err := Factor(context.Background(), big.NewInt(1073217479), cfg)
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if result.Status != StatusTimeout {
		t.Errorf("Status = %s, want timeout", result.Status)
	}
	if result.DivisorA != nil {
		t.Errorf("timeout result must carry no divisors, got %s", result.DivisorA)
	}
}

func TestFactor_UnboundedTimeout(t *testing.T) {
	t.Parallel()

	// A zero timeout disables the engine deadline; the call is bounded only
	// by the caller's context.
	cfg := testConfig()
	cfg.Timeout = 0

	result, err := Factor(context.Background(), big.NewInt(1073217479), cfg)
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s, want success", result.Status)
	}
	if result.ConfigUsed.Timeout != 0 {
		t.Errorf("effective timeout = %v, want 0", result.ConfigUsed.Timeout)
	}
}

func TestFactor_AdaptiveScalingDisabled(t *testing.T) {
	t.Parallel()

	// With the toggle off, the 60-bit input runs on the untouched 30-bit
	// baselines instead of the rescaled values.
	cfg := testConfig()
	cfg.AdaptiveScalingEnabled = false

	result, err := Factor(context.Background(), big.NewInt(1152921470247108503), cfg)
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	used := result.ConfigUsed
	if used.SampleBudget != cfg.SampleBudget || used.SweepSpan != cfg.SweepSpan {
		t.Errorf("effective budget/span = %d/%d, want the baselines %d/%d",
			used.SampleBudget, used.SweepSpan, cfg.SampleBudget, cfg.SweepSpan)
	}
	if used.Timeout != cfg.Timeout {
		t.Errorf("effective timeout = %v, want the baseline %v", used.Timeout, cfg.Timeout)
	}
	if used.ScoreThreshold != cfg.ScoreThreshold {
		t.Errorf("effective threshold = %v, want the baseline %v", used.ScoreThreshold, cfg.ScoreThreshold)
	}
	if used.AdaptiveScalingEnabled {
		t.Error("effective config should record the disabled toggle")
	}
}

func TestFactor_ResultSelfDescribing(t *testing.T) {
	t.Parallel()

	n := big.NewInt(1073217479)
	result, err := Factor(context.Background(), n, testConfig())
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if result.Input == nil || result.Input.Cmp(n) != 0 {
		t.Errorf("Input = %v, want %s", result.Input, n)
	}
	used := result.ConfigUsed
	if used.PrecisionDigits != result.Precision {
		t.Errorf("ConfigUsed precision = %d, result precision = %d", used.PrecisionDigits, result.Precision)
	}
	if used.Workers < 1 {
		t.Errorf("ConfigUsed workers = %d, want at least 1", used.Workers)
	}
	if used.KernelParamLow >= used.KernelParamHigh {
		t.Errorf("ConfigUsed kernel range [%v, %v] is empty", used.KernelParamLow, used.KernelParamHigh)
	}
	if !used.ShellFilterEnabled || !used.AdaptiveScalingEnabled {
		t.Errorf("ConfigUsed toggles = %+v, want the defaults recorded", used)
	}
}

func TestFactor_CallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Factor(ctx, big.NewInt(1073217479), testConfig())
	if !apperrors.IsContextError(err) {
		t.Errorf("Factor under canceled context = %v, want a context error", err)
	}
}

func TestFactor_Deterministic(t *testing.T) {
	t.Parallel()

	n := big.NewInt(1073217479)
	first, err := Factor(context.Background(), n, testConfig())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Factor(context.Background(), n, testConfig())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Status != second.Status {
		t.Fatalf("statuses differ: %s vs %s", first.Status, second.Status)
	}
	if first.DivisorA.Cmp(second.DivisorA) != 0 || first.DivisorB.Cmp(second.DivisorB) != 0 {
		t.Errorf("divisor pairs differ: (%s, %s) vs (%s, %s)",
			first.DivisorA, first.DivisorB, second.DivisorA, second.DivisorB)
	}
	if first.SamplesScored != second.SamplesScored {
		t.Errorf("sample counts differ: %d vs %d", first.SamplesScored, second.SamplesScored)
	}
}

func TestFactor_ResultInvariantProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 10
	properties := gopter.NewProperties(parameters)

	properties.Property("certified pairs are ordered and reproduce the input", prop.ForAll(
		func(p, q int64) bool {
			n := new(big.Int).Mul(big.NewInt(p), big.NewInt(q))
			result, err := Factor(context.Background(), n, testConfig())
			if err != nil || result.Status != StatusSuccess {
				return false
			}
			product := new(big.Int).Mul(result.DivisorA, result.DivisorB)
			return product.Cmp(n) == 0 && result.DivisorA.Cmp(result.DivisorB) <= 0
		},
		gen.Int64Range(1025, 1200),
		gen.Int64Range(1025, 1200),
	))

	properties.TestingRun(t)
}
