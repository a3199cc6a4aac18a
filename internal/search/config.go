package search

import (
	"runtime"
	"time"

	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/logging"
	"github.com/agbru/resofactor/internal/shells"
)

// Default engine parameters. Every value is a 30-bit baseline; the adaptive
// layer rescales it to the bit length of the actual input.
const (
	// DefaultKernelOrder is the Dirichlet kernel order (2k+1 terms).
	DefaultKernelOrder = 6
	// DefaultKernelParamLow is the lower bound of the kernel parameter range.
	DefaultKernelParamLow = 0.75
	// DefaultKernelParamHigh is the upper bound of the kernel parameter range.
	DefaultKernelParamHigh = 1.25
	// DefaultSampleBudget is the total evaluation budget across all phases.
	DefaultSampleBudget = 3000
	// DefaultSweepSpan is the half-width of the local sweep around a snapped
	// candidate.
	DefaultSweepSpan = 120
	// DefaultScoreThreshold is the minimum amplitude a sweep candidate must
	// score before certification is attempted.
	DefaultScoreThreshold = 0.92
	// DefaultThresholdAttenuation lowers the score threshold per doubling of
	// the input bit length.
	DefaultThresholdAttenuation = 0.05
	// DefaultTimeout bounds a whole search call.
	DefaultTimeout = 30 * time.Second
	// DefaultRadiusPercent sizes the certification radius relative to the
	// candidate under test.
	DefaultRadiusPercent = 0.05
	// DefaultMaxRadiusCap is the absolute ceiling on the certification radius.
	DefaultMaxRadiusCap = 20_000_000
)

// Default shell filter parameters.
const (
	DefaultShellBandWidth       = 64.0
	DefaultShellCount           = 8
	DefaultShellAmplitudeFloor  = 0.5
	DefaultShellSpikeFloor      = 0.9
	DefaultShellOverlap         = 0.15
	DefaultShellSamplesPerShell = 16
)

// SearchConfig holds every tunable of a divisor search. The zero value is not
// usable; start from DefaultConfig and override.
type SearchConfig struct {
	// Precision is the requested decimal precision. The engine derives a
	// floor from the input's bit length and uses whichever is larger, so 0
	// means "derived precision only".
	Precision int

	// KernelOrder is the Dirichlet kernel order.
	KernelOrder int
	// KernelParamLow and KernelParamHigh bound the kernel parameter range at
	// the 30-bit baseline. The adaptive layer narrows the range for larger
	// inputs.
	KernelParamLow  float64
	KernelParamHigh float64

	// SampleBudget is the baseline total sample budget.
	SampleBudget int
	// SweepSpan is the baseline sweep half-width.
	SweepSpan int
	// ScoreThreshold is the baseline certification gate.
	ScoreThreshold float64
	// ThresholdAttenuation controls how fast the gate relaxes with scale.
	ThresholdAttenuation float64
	// Timeout is the baseline wall-clock budget. Zero means unbounded.
	Timeout time.Duration

	// AdaptiveScalingEnabled toggles bit-length rescaling of the budget, span,
	// threshold, kernel range and timeout. When disabled the baseline values
	// are used verbatim regardless of input size.
	AdaptiveScalingEnabled bool

	// RadiusPercent and MaxRadiusCap bound the certification radius:
	// radius = min(candidate * RadiusPercent, MaxRadiusCap).
	RadiusPercent float64
	MaxRadiusCap  int64

	// ShellFilterEnabled toggles the shell exclusion filter between the
	// scoring phases and the sweep.
	ShellFilterEnabled bool
	// Shell holds the shell filter tunables.
	Shell shells.Config

	// Domain is the input acceptance policy.
	Domain DomainPolicy

	// Workers caps the sweep parallelism. Zero means runtime.NumCPU().
	Workers int

	// Logger receives engine diagnostics. Nil means no logging.
	Logger logging.Logger
	// Observer receives progress updates. Nil means no observation.
	Observer ProgressObserver
}

// DefaultConfig returns the engine defaults with the standard domain policy.
func DefaultConfig() SearchConfig {
	return SearchConfig{
		KernelOrder:            DefaultKernelOrder,
		KernelParamLow:         DefaultKernelParamLow,
		KernelParamHigh:        DefaultKernelParamHigh,
		SampleBudget:           DefaultSampleBudget,
		SweepSpan:              DefaultSweepSpan,
		ScoreThreshold:         DefaultScoreThreshold,
		ThresholdAttenuation:   DefaultThresholdAttenuation,
		Timeout:                DefaultTimeout,
		RadiusPercent:          DefaultRadiusPercent,
		MaxRadiusCap:           DefaultMaxRadiusCap,
		AdaptiveScalingEnabled: true,
		ShellFilterEnabled:     true,
		Shell: shells.Config{
			BandWidth:       DefaultShellBandWidth,
			Count:           DefaultShellCount,
			AmplitudeFloor:  DefaultShellAmplitudeFloor,
			SpikeFloor:      DefaultShellSpikeFloor,
			Overlap:         DefaultShellOverlap,
			SamplesPerShell: DefaultShellSamplesPerShell,
		},
		Domain: DefaultDomainPolicy(),
	}
}

// Validate checks the configuration for internal consistency.
//
// Returns:
//   - error: A ConfigError describing the first violation found, or nil.
func (c SearchConfig) Validate() error {
	if c.KernelOrder < 1 {
		return apperrors.NewConfigError("kernel order must be at least 1, got %d", c.KernelOrder)
	}
	if c.KernelParamLow >= c.KernelParamHigh {
		return apperrors.NewConfigError("kernel parameter range is empty: low %v >= high %v",
			c.KernelParamLow, c.KernelParamHigh)
	}
	if c.SampleBudget < 1 {
		return apperrors.NewConfigError("sample budget must be positive, got %d", c.SampleBudget)
	}
	if c.SweepSpan < 0 {
		return apperrors.NewConfigError("sweep span must be non-negative, got %d", c.SweepSpan)
	}
	if c.ScoreThreshold <= 0 || c.ScoreThreshold > 1.05 {
		return apperrors.NewConfigError("score threshold must be in (0, 1.05], got %v", c.ScoreThreshold)
	}
	if c.ThresholdAttenuation < 0 {
		return apperrors.NewConfigError("threshold attenuation must be non-negative, got %v", c.ThresholdAttenuation)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must be non-negative, got %v", c.Timeout)
	}
	if c.RadiusPercent <= 0 {
		return apperrors.NewConfigError("radius percent must be positive, got %v", c.RadiusPercent)
	}
	if c.MaxRadiusCap < 1 {
		return apperrors.NewConfigError("max radius cap must be positive, got %d", c.MaxRadiusCap)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be non-negative, got %d", c.Workers)
	}
	if err := c.Domain.Validate(); err != nil {
		return err
	}
	return nil
}

// workerCount resolves the effective sweep parallelism.
func (c SearchConfig) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// logger resolves the effective logger.
func (c SearchConfig) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.NewNopLogger()
}

// observer resolves the effective observer.
func (c SearchConfig) observer() ProgressObserver {
	if c.Observer != nil {
		return c.Observer
	}
	return NewNoOpObserver()
}
