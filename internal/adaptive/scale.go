// Package adaptive derives search parameters from the bit length of the input.
// Resonance peaks narrow as the target grows, so the sample budget, sweep
// width, score threshold, kernel-parameter window and timeout all scale with
// bit length following fixed power-law or logarithmic formulas. Each
// derivation is an independent, side-effect-free function of a
// (bitLength, baseline) pair and is unit-testable against its closed form.
package adaptive

import (
	"math"
	"time"
)

// BaselineBits is the reference bit length at which every adaptive formula
// returns its baseline value unchanged.
const BaselineBits = 30

// Threshold clamp bounds. Larger inputs produce systematically lower peak
// amplitudes, so the threshold relaxes with scale, but never below 0.5.
const (
	ThresholdMin = 0.5
	ThresholdMax = 1.0
)

// ratio returns bitLength/BaselineBits as a float, guarding degenerate inputs.
func ratio(bitLength int) float64 {
	if bitLength < 1 {
		bitLength = 1
	}
	return float64(bitLength) / BaselineBits
}

// Samples derives the sample budget: base * (bitLength/30)^1.5.
// Super-linear growth; more samples are needed as resonance peaks narrow.
func Samples(bitLength, base int) int {
	return int(float64(base) * math.Pow(ratio(bitLength), 1.5))
}

// SweepSpan derives the secondary sweep half-width: base * (bitLength/30).
// Linear growth.
func SweepSpan(bitLength, base int) int {
	return int(float64(base) * ratio(bitLength))
}

// Threshold derives the score threshold:
//
//	base - attenuation * log2(bitLength/30)
//
// clamped to [0.5, 1.0]. The relaxation is slow by design.
func Threshold(bitLength int, base, attenuation float64) float64 {
	t := base - attenuation*math.Log2(ratio(bitLength))
	if t < ThresholdMin {
		return ThresholdMin
	}
	if t > ThresholdMax {
		return ThresholdMax
	}
	return t
}

// KernelRange narrows the kernel-parameter window by 1/sqrt(bitLength/30)
// around the same center: a tighter search window at scale.
func KernelRange(bitLength int, baseLow, baseHigh float64) (low, high float64) {
	center := (baseLow + baseHigh) / 2
	halfWidth := (baseHigh - baseLow) / 2 / math.Sqrt(ratio(bitLength))
	return center - halfWidth, center + halfWidth
}

// Timeout derives the wall-clock budget: base * (bitLength/30)^2.
// Quadratic growth bounds the worst-case run time at scale.
func Timeout(bitLength int, base time.Duration) time.Duration {
	r := ratio(bitLength)
	return time.Duration(float64(base) * r * r)
}
