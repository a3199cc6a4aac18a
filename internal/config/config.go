// Package config provides the configuration management for the resofactor
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"time"

	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/search"
)

const (
	// EnvPrefix is the prefix for all environment variables used by resofactor.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "RESOFACTOR_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultPort is the default server port.
	DefaultPort = "8080"
)

// AppConfig aggregates the application's configuration parameters, parsed
// from command-line flags. It encapsulates both the search engine tunables
// and the presentation settings of the CLI and server front ends.
type AppConfig struct {
	// N is the decimal representation of the integer to search for divisors.
	N string
	// Verbose, if true, prints additional search diagnostics.
	Verbose bool
	// Details, if true, provides a detailed report including work counters.
	Details bool
	// Timeout is the baseline wall-clock budget; the engine rescales it to
	// the input size. Zero means unbounded.
	Timeout time.Duration
	// Precision is the requested decimal precision (0 = derived only).
	Precision int
	// KernelOrder is the Dirichlet kernel order.
	KernelOrder int
	// KernelLow and KernelHigh bound the baseline kernel parameter range.
	KernelLow  float64
	KernelHigh float64
	// Samples is the baseline sample budget.
	Samples int
	// Span is the baseline sweep half-width.
	Span int
	// Threshold is the baseline certification score gate.
	Threshold float64
	// Attenuation relaxes the gate per doubling of the input size.
	Attenuation float64
	// RadiusPercent and RadiusCap bound the certification radius.
	RadiusPercent float64
	RadiusCap     int64
	// AdaptiveScaling toggles bit-length rescaling of the engine tunables.
	AdaptiveScaling bool
	// ShellFilter toggles the shell exclusion filter.
	ShellFilter bool
	// ShellBandWidth, ShellCount, ShellFloor, ShellSpike, ShellOverlap and
	// ShellSamples tune the shell filter.
	ShellBandWidth float64
	ShellCount     int
	ShellFloor     float64
	ShellSpike     float64
	ShellOverlap   float64
	ShellSamples   int
	// Workers caps the sweep parallelism (0 = all logical CPUs).
	Workers int
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// OutputFile, if specified, saves the result to this file path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses progress bars, banners, and informational messages.
	Quiet bool
	// Completion, if set, generates shell completion script for the specified
	// shell. Valid values are: "bash", "zsh", "fish", "powershell".
	Completion string
}

// ParseN converts the configured input string into a big integer.
//
// Returns:
//   - *big.Int: The parsed value.
//   - error: A ConfigError if the string is not a decimal integer.
func (c AppConfig) ParseN() (*big.Int, error) {
	n, ok := new(big.Int).SetString(c.N, 10)
	if !ok {
		return nil, apperrors.NewConfigError("'n' must be a decimal integer, got %q", c.N)
	}
	return n, nil
}

// ToSearchConfig converts the application configuration into the engine's
// search.SearchConfig. Logger and observer wiring is left to the caller.
func (c AppConfig) ToSearchConfig() search.SearchConfig {
	cfg := search.DefaultConfig()
	cfg.Precision = c.Precision
	cfg.KernelOrder = c.KernelOrder
	cfg.KernelParamLow = c.KernelLow
	cfg.KernelParamHigh = c.KernelHigh
	cfg.SampleBudget = c.Samples
	cfg.SweepSpan = c.Span
	cfg.ScoreThreshold = c.Threshold
	cfg.ThresholdAttenuation = c.Attenuation
	cfg.Timeout = c.Timeout
	cfg.RadiusPercent = c.RadiusPercent
	cfg.MaxRadiusCap = c.RadiusCap
	cfg.AdaptiveScalingEnabled = c.AdaptiveScaling
	cfg.ShellFilterEnabled = c.ShellFilter
	cfg.Shell.BandWidth = c.ShellBandWidth
	cfg.Shell.Count = c.ShellCount
	cfg.Shell.AmplitudeFloor = c.ShellFloor
	cfg.Shell.SpikeFloor = c.ShellSpike
	cfg.Shell.Overlap = c.ShellOverlap
	cfg.Shell.SamplesPerShell = c.ShellSamples
	cfg.Workers = c.Workers
	return cfg
}

// Validate checks the semantic consistency of the configuration parameters.
// Engine tunables are validated by the search package itself; this method
// covers the front-end settings and the presence of the input.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout value must be non-negative (0 = unbounded)")
	}
	if c.Completion == "" && !c.ServerMode {
		if c.N == "" {
			return apperrors.NewConfigError("missing required input: use -n to specify the integer to factor")
		}
		if _, err := c.ParseN(); err != nil {
			return err
		}
	}
	if err := c.ToSearchConfig().Validate(); err != nil {
		return err
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values,
// and handles the parsing process. After parsing, it performs validation on
// the resulting configuration.
//
// The function is designed to be testable by allowing the input arguments and
// output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.StringVar(&config.N, "n", "", "Integer to search for divisors (decimal).")
	fs.BoolVar(&config.Verbose, "v", false, "Display additional search diagnostics.")
	fs.BoolVar(&config.Details, "d", false, "Display work counters and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.DurationVar(&config.Timeout, "timeout", search.DefaultTimeout, "Baseline wall-clock budget (rescaled to the input size, 0 = unbounded).")
	fs.IntVar(&config.Precision, "precision", 0, "Requested decimal precision (0 = derived from the input size).")
	fs.IntVar(&config.KernelOrder, "order", search.DefaultKernelOrder, "Dirichlet kernel order.")
	fs.Float64Var(&config.KernelLow, "kernel-low", search.DefaultKernelParamLow, "Baseline lower bound of the kernel parameter range.")
	fs.Float64Var(&config.KernelHigh, "kernel-high", search.DefaultKernelParamHigh, "Baseline upper bound of the kernel parameter range.")
	fs.IntVar(&config.Samples, "samples", search.DefaultSampleBudget, "Baseline total sample budget.")
	fs.IntVar(&config.Span, "span", search.DefaultSweepSpan, "Baseline sweep half-width around each candidate.")
	fs.Float64Var(&config.Threshold, "threshold", search.DefaultScoreThreshold, "Baseline certification score gate.")
	fs.Float64Var(&config.Attenuation, "attenuation", search.DefaultThresholdAttenuation, "Gate relaxation per doubling of the input size.")
	fs.Float64Var(&config.RadiusPercent, "radius-percent", search.DefaultRadiusPercent, "Certification radius as a fraction of the candidate.")
	fs.Int64Var(&config.RadiusCap, "radius-cap", search.DefaultMaxRadiusCap, "Absolute ceiling on the certification radius.")
	fs.BoolVar(&config.AdaptiveScaling, "adaptive", true, "Rescale budget, span, threshold and timeout to the input size.")
	fs.BoolVar(&config.ShellFilter, "shell-filter", true, "Enable the shell exclusion filter.")
	fs.Float64Var(&config.ShellBandWidth, "shell-bandwidth", search.DefaultShellBandWidth, "Base radius of the innermost shell.")
	fs.IntVar(&config.ShellCount, "shell-count", search.DefaultShellCount, "Number of shells on each side of the square root.")
	fs.Float64Var(&config.ShellFloor, "shell-floor", search.DefaultShellAmplitudeFloor, "Amplitude floor below which a shell may be excluded.")
	fs.Float64Var(&config.ShellSpike, "shell-spike", search.DefaultShellSpikeFloor, "Spike floor that rescues a shell from exclusion.")
	fs.Float64Var(&config.ShellOverlap, "shell-overlap", search.DefaultShellOverlap, "Fractional overlap between adjacent shells.")
	fs.IntVar(&config.ShellSamples, "shell-samples", search.DefaultShellSamplesPerShell, "Kernel parameters sampled per shell profile.")
	fs.IntVar(&config.Workers, "workers", 0, "Sweep parallelism (0 = all logical CPUs).")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}

// setCustomUsage installs a usage message grouping the flags by concern.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s -n <integer> [options]\n\n", fs.Name())
		fmt.Fprintf(out, "Searches for a certified divisor pair of the given integer.\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
	}
}
