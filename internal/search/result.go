package search

import (
	"math/big"
	"time"
)

// Status classifies the terminal state of a search call.
type Status string

const (
	// StatusSuccess means a certified divisor pair was found.
	StatusSuccess Status = "success"
	// StatusTimeout means the wall-clock budget expired first.
	StatusTimeout Status = "timeout"
	// StatusExhausted means every budgeted sample was spent without a
	// certified divisor.
	StatusExhausted Status = "exhausted"
)

// EffectiveConfig records the parameters a search actually ran with, after
// scale-adaptive derivation. It makes a result self-describing: two results
// can be compared without knowing the baseline configuration that produced
// them.
type EffectiveConfig struct {
	PrecisionDigits        int
	KernelOrder            int
	KernelParamLow         float64
	KernelParamHigh        float64
	SampleBudget           int
	SweepSpan              int
	ScoreThreshold         float64
	Timeout                time.Duration
	Workers                int
	ShellFilterEnabled     bool
	AdaptiveScalingEnabled bool
}

// FactorizationResult is the outcome of a single search call. Timeout and
// exhaustion are ordinary outcomes carried here, not errors.
type FactorizationResult struct {
	// Status is the terminal state.
	Status Status
	// Input is the integer the search ran on.
	Input *big.Int
	// ConfigUsed holds the effective parameters of the run.
	ConfigUsed EffectiveConfig
	// DivisorA and DivisorB are the certified pair with DivisorA <= DivisorB
	// and DivisorA * DivisorB equal to the input. Both are nil unless Status
	// is StatusSuccess.
	DivisorA *big.Int
	DivisorB *big.Int
	// SamplesScored counts kernel parameter evaluations across all phases.
	SamplesScored int
	// CandidatesTested counts sweep candidates submitted to certification.
	CandidatesTested int
	// Precision is the decimal precision the search ran at.
	Precision int
	// Elapsed is the wall-clock duration of the call.
	Elapsed time.Duration
}

// Succeeded reports whether the search produced a certified divisor pair.
func (r FactorizationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
