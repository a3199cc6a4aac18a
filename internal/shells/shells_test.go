package shells

import (
	"math/big"
	"testing"

	"github.com/agbru/resofactor/internal/bigmath"
	"github.com/agbru/resofactor/internal/resonance"
)

func testFilter(cfg Config) *Filter {
	ctx := bigmath.NewContext(bigmath.RequiredPrecision(30, 0))
	low := ctx.FromFloat64(0.75)
	high := ctx.FromFloat64(1.25)
	return NewFilter(ctx, cfg, 6, low, high, nil)
}

func TestGenerate_SymmetricPairs(t *testing.T) {
	t.Parallel()
	f := testFilter(Config{BandWidth: 10, Count: 4, Overlap: 0.1, SamplesPerShell: 5})

	shells := f.Generate()
	if len(shells) != 8 {
		t.Fatalf("Expected 8 shells for count 4, got %d", len(shells))
	}

	for i := 0; i < len(shells); i += 2 {
		up, down := shells[i], shells[i+1]
		if up.Index != -down.Index {
			t.Errorf("Shell pair %d has indices %d and %d, want mirrored", i/2, up.Index, down.Index)
		}
		if up.Inner.Cmp(down.Inner) != 0 || up.Outer.Cmp(down.Outer) != 0 {
			t.Errorf("Shell pair %d has asymmetric radii", i/2)
		}
	}
}

func TestGenerate_GeometricGrowthWithOverlap(t *testing.T) {
	t.Parallel()
	f := testFilter(Config{BandWidth: 10, Count: 3, Overlap: 0.25, SamplesPerShell: 5})

	shells := f.Generate()

	// inner(k) = 10*(2^(k-1)-1), outer(k) = 10*2^k*1.25.
	wantInner := []float64{0, 10, 30}
	wantOuter := []float64{25, 50, 100}
	for k := 1; k <= 3; k++ {
		shell := shells[2*(k-1)]
		if got, _ := shell.Inner.Float64(); got != wantInner[k-1] {
			t.Errorf("Shell %d inner = %v, want %v", k, got, wantInner[k-1])
		}
		if got, _ := shell.Outer.Float64(); got != wantOuter[k-1] {
			t.Errorf("Shell %d outer = %v, want %v", k, got, wantOuter[k-1])
		}
	}

	// Adjacent shells must overlap: outer(k) > inner(k+1).
	for k := 1; k < 3; k++ {
		if shells[2*(k-1)].Outer.Cmp(shells[2*k].Inner) <= 0 {
			t.Errorf("Shells %d and %d do not overlap", k, k+1)
		}
	}
}

func TestExcluded_FloorAboveBaseline(t *testing.T) {
	t.Parallel()

	// The profile is sampled at the zero-angle baseline, where the kernel
	// amplitude is the guarded value 1. An amplitude floor above 1 with an
	// unreachable spike floor therefore excludes every shell.
	f := testFilter(Config{
		BandWidth: 10, Count: 3, Overlap: 0.1,
		AmplitudeFloor: 1.2, SpikeFloor: 1.5, SamplesPerShell: 9,
	})

	shells := f.Generate()
	excluded := f.Excluded(shells)
	if len(excluded) != len(shells) {
		t.Errorf("Expected all %d shells excluded, got %d", len(shells), len(excluded))
	}
}

func TestExcluded_BaselineMeetsFloor(t *testing.T) {
	t.Parallel()

	// With the floor at or below the baseline amplitude no shell is excluded.
	f := testFilter(Config{
		BandWidth: 10, Count: 3, Overlap: 0.1,
		AmplitudeFloor: 0.9, SpikeFloor: 1.5, SamplesPerShell: 9,
	})

	if excluded := f.Excluded(f.Generate()); len(excluded) != 0 {
		t.Errorf("Expected no exclusions, got %d", len(excluded))
	}
}

func TestExcluded_SpikeRescues(t *testing.T) {
	t.Parallel()

	// A reachable spike floor rescues shells even when the amplitude floor is
	// above the baseline: every flat profile sample is a boundary or interior
	// local maximum under the non-strict comparison.
	f := testFilter(Config{
		BandWidth: 10, Count: 2, Overlap: 0.1,
		AmplitudeFloor: 1.2, SpikeFloor: 1.0, SamplesPerShell: 9,
	})

	if excluded := f.Excluded(f.Generate()); len(excluded) != 0 {
		t.Errorf("Expected spike rescue to keep all shells, got %d exclusions", len(excluded))
	}
}

func TestExcluded_FewSamplesFallback(t *testing.T) {
	t.Parallel()

	// Below 3 samples the spike rule degrades to a bare threshold test.
	rescued := testFilter(Config{
		BandWidth: 10, Count: 1, Overlap: 0.1,
		AmplitudeFloor: 1.2, SpikeFloor: 1.0, SamplesPerShell: 2,
	})
	if excluded := rescued.Excluded(rescued.Generate()); len(excluded) != 0 {
		t.Errorf("Expected two-sample spike fallback to rescue, got %d exclusions", len(excluded))
	}

	dropped := testFilter(Config{
		BandWidth: 10, Count: 1, Overlap: 0.1,
		AmplitudeFloor: 1.2, SpikeFloor: 1.5, SamplesPerShell: 2,
	})
	if excluded := dropped.Excluded(dropped.Generate()); len(excluded) != 2 {
		t.Errorf("Expected both shells excluded under fallback, got %d", len(excluded))
	}
}

func TestPrune_DropsSamplesInsideExcludedBands(t *testing.T) {
	t.Parallel()
	f := testFilter(Config{BandWidth: 100, Count: 3, Overlap: 0.1, SamplesPerShell: 5})
	ctx := f.ctx

	n := big.NewInt(1073217479)
	lnN := bigmath.LogInt(ctx, n)
	sqrtN := new(big.Int).Sqrt(n) // 32759

	// Treat every generated shell as excluded; coverage spans offsets [0, 880].
	excluded := f.Generate()

	samples := []resonance.ScoredSample{
		{KernelParam: ctx.FromFloat64(1)}, // candidate at sqrt(N): inside
		{KernelParam: ctx.FromFloat64(2)}, // offset 500: inside
		{KernelParam: ctx.FromFloat64(3)}, // offset 50000: outside
	}
	candidates := map[string]*big.Int{
		"1": new(big.Int).Set(sqrtN),
		"2": new(big.Int).Add(sqrtN, big.NewInt(500)),
		"3": new(big.Int).Add(sqrtN, big.NewInt(50000)),
	}
	candidateOf := func(param *big.Float) *big.Int {
		return candidates[param.Text('f', 0)]
	}

	kept := f.Prune(samples, lnN, excluded, candidateOf)
	if len(kept) != 1 {
		t.Fatalf("Expected 1 surviving sample, got %d", len(kept))
	}
	if got := kept[0].KernelParam.Text('f', 0); got != "3" {
		t.Errorf("Wrong survivor: kernel param %s", got)
	}
}

func TestPrune_NoExclusionsIsIdentity(t *testing.T) {
	t.Parallel()
	f := testFilter(Config{BandWidth: 100, Count: 3, Overlap: 0.1, SamplesPerShell: 5})
	ctx := f.ctx

	samples := []resonance.ScoredSample{
		{KernelParam: ctx.FromFloat64(1)},
		{KernelParam: ctx.FromFloat64(2)},
	}
	lnN := bigmath.LogInt(ctx, big.NewInt(1073217479))

	kept := f.Prune(samples, lnN, nil, func(*big.Float) *big.Int {
		t.Fatal("candidateOf must not be called without exclusions")
		return nil
	})
	if len(kept) != len(samples) {
		t.Errorf("Expected identity prune, got %d of %d", len(kept), len(samples))
	}
}
