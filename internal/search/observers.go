// Package search implements the resonance divisor search engine.
// This file contains concrete observer implementations for the Observer pattern.
package search

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Phase identifies a stage of the search pipeline for progress reporting.
type Phase string

const (
	// PhaseScan is the coarse kernel parameter scan.
	PhaseScan Phase = "scan"
	// PhaseRefine is the local refinement of top-scoring parameters.
	PhaseRefine Phase = "refine"
	// PhaseSweep is the parallel candidate sweep and certification.
	PhaseSweep Phase = "sweep"
)

// ProgressUpdate carries a normalized progress value for one phase.
type ProgressUpdate struct {
	// Phase is the pipeline stage reporting progress.
	Phase Phase
	// Value is the normalized progress (0.0 to 1.0).
	Value float64
}

// ProgressObserver receives progress updates from a running search.
// Implementations must be safe for concurrent use: the sweep phase reports
// from multiple goroutines.
type ProgressObserver interface {
	// Update reports phase progress in the range [0.0, 1.0].
	Update(phase Phase, progress float64)
	// Completed reports the terminal state of the search.
	Completed(status Status, elapsed time.Duration)
}

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver adapts the Observer pattern to channel-based communication
// for UI code that renders progress from a channel.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver creates an observer that sends updates to a channel.
// The channel should have sufficient buffer capacity to avoid blocking.
//
// Parameters:
//   - ch: The channel to send progress updates to. If nil, updates are discarded.
//
// Returns:
//   - *ChannelObserver: A new observer that forwards to the channel.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update implements ProgressObserver by sending to the channel.
// Uses non-blocking send to avoid deadlocks when the channel is full.
func (o *ChannelObserver) Update(phase Phase, progress float64) {
	if o.channel == nil {
		return
	}

	// Clamp progress to valid range
	if progress > 1.0 {
		progress = 1.0
	}

	// Non-blocking send to avoid deadlocks
	select {
	case o.channel <- ProgressUpdate{Phase: phase, Value: progress}:
	default:
		// Channel full, drop update (UI will catch up on next update)
	}
}

// Completed implements ProgressObserver. Channel consumers detect completion
// by the channel closing, so nothing is sent here.
func (o *ChannelObserver) Completed(status Status, elapsed time.Duration) {}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver logs progress updates using zerolog.
// It throttles logging based on a threshold to avoid log spam.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64           // Minimum progress change to log
	lastLog   map[Phase]float64 // Last logged progress per phase
	mu        sync.Mutex
}

// NewLoggingObserver creates an observer that logs progress.
// It only logs when progress changes by at least the threshold amount.
//
// Parameters:
//   - logger: The zerolog logger to use.
//   - threshold: Minimum progress change to trigger a log (e.g., 0.1 for 10%).
//
// Returns:
//   - *LoggingObserver: A new observer that logs to zerolog.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1 // Default to 10%
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[Phase]float64),
	}
}

// Update implements ProgressObserver by logging significant progress changes.
func (o *LoggingObserver) Update(phase Phase, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	lastProgress := o.lastLog[phase]

	// Log at boundaries or significant changes
	shouldLog := progress >= 1.0 ||
		lastProgress == 0 && progress > 0 ||
		progress-lastProgress >= o.threshold

	if shouldLog {
		o.logger.Debug().
			Str("phase", string(phase)).
			Float64("progress", progress).
			Msg("search progress")
		o.lastLog[phase] = progress
	}
}

// Completed implements ProgressObserver by logging the terminal state.
func (o *LoggingObserver) Completed(status Status, elapsed time.Duration) {
	o.logger.Info().
		Str("status", string(status)).
		Dur("elapsed", elapsed).
		Msg("search completed")
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

var (
	// progressGauge tracks per-phase search progress.
	// Registered once globally to avoid duplicate registration errors.
	progressGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resofactor_search_progress",
			Help: "Current progress of the search phases (0.0 to 1.0)",
		},
		[]string{"phase"},
	)

	// searchesTotal counts completed searches by terminal status.
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resofactor_searches_total",
			Help: "Total completed searches by terminal status",
		},
		[]string{"status"},
	)

	// searchDuration observes wall-clock search durations.
	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resofactor_search_duration_seconds",
			Help:    "Wall-clock duration of completed searches",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		},
	)
)

// MetricsObserver exports progress and outcomes to Prometheus.
type MetricsObserver struct {
	gauge *prometheus.GaugeVec
}

// NewMetricsObserver creates an observer that updates Prometheus metrics.
//
// Returns:
//   - *MetricsObserver: A new observer that exports to Prometheus.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		gauge: progressGauge,
	}
}

// Update implements ProgressObserver by updating the Prometheus gauge.
func (o *MetricsObserver) Update(phase Phase, progress float64) {
	o.gauge.WithLabelValues(string(phase)).Set(progress)
}

// Completed implements ProgressObserver by recording outcome metrics.
func (o *MetricsObserver) Completed(status Status, elapsed time.Duration) {
	searchesTotal.WithLabelValues(string(status)).Inc()
	searchDuration.Observe(elapsed.Seconds())
}

// ResetMetrics resets the progress metrics for all phases.
// This should be called at the start of a new search.
func (o *MetricsObserver) ResetMetrics() {
	o.gauge.Reset()
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer (Null Object Pattern)
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver is a null object that discards all progress updates.
// Useful for testing or when progress tracking is not needed.
type NoOpObserver struct{}

// NewNoOpObserver creates a no-op observer that discards updates.
//
// Returns:
//   - *NoOpObserver: A new no-op observer.
func NewNoOpObserver() *NoOpObserver {
	return &NoOpObserver{}
}

// Update implements ProgressObserver by doing nothing.
func (o *NoOpObserver) Update(phase Phase, progress float64) {
	// Intentionally empty - Null Object pattern
}

// Completed implements ProgressObserver by doing nothing.
func (o *NoOpObserver) Completed(status Status, elapsed time.Duration) {}
