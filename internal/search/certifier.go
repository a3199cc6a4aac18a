package search

import (
	"context"
	"math/big"

	"github.com/agbru/resofactor/internal/logging"
)

// certifyCheckInterval is the number of trial divisions between context
// cancellation checks inside a certification pass.
const certifyCheckInterval = 4096

// radiusPercentScale converts the fractional radius percentage into integer
// arithmetic: radius = center * (RadiusPercent * scale) / scale.
const radiusPercentScale = 1_000_000

// Certifier performs exact divisibility certification around a candidate.
// Scores and weights never certify anything; the only accepted proof is a
// zero remainder from integer division.
type Certifier struct {
	radiusPercent float64
	maxRadiusCap  int64
	logger        logging.Logger
}

// NewCertifier creates a certifier with the given radius bounds.
func NewCertifier(radiusPercent float64, maxRadiusCap int64, logger logging.Logger) *Certifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Certifier{
		radiusPercent: radiusPercent,
		maxRadiusCap:  maxRadiusCap,
		logger:        logger,
	}
}

// Radius computes the certification radius for a candidate:
// min(center * radiusPercent, maxRadiusCap). The cap keeps the cost of a
// single certification bounded no matter how large the candidate grows; a
// cap-bound radius is reported at debug level since it narrows the
// effective search.
func (c *Certifier) Radius(center *big.Int) *big.Int {
	scaled := new(big.Int).Mul(center, big.NewInt(int64(c.radiusPercent*radiusPercentScale)))
	radius := scaled.Div(scaled, big.NewInt(radiusPercentScale))

	ceiling := big.NewInt(c.maxRadiusCap)
	if radius.Cmp(ceiling) > 0 {
		c.logger.Debug("certification radius capped",
			logging.String("center", center.String()),
			logging.Int64("cap", c.maxRadiusCap))
		return ceiling
	}
	return radius
}

// Certify searches for an exact divisor of n within the radius around center,
// expanding outward in alternating steps (center, center-1, center+1,
// center-2, ...). Offsets that leave the open interval (1, n) are skipped.
//
// Parameters:
//   - ctx: Context for cancellation; checked every certifyCheckInterval steps.
//   - n: The integer to divide.
//   - center: The candidate the radius is centered on.
//
// Returns:
//   - *big.Int: A divisor of n with 1 < divisor < n, or nil.
//   - bool: Whether a divisor was found.
func (c *Certifier) Certify(ctx context.Context, n, center *big.Int) (*big.Int, bool) {
	radius := c.Radius(center)
	if !radius.IsInt64() {
		// Radius is min(percent, cap), so it always fits an int64.
		radius = big.NewInt(c.maxRadiusCap)
	}
	maxOffset := radius.Int64()

	one := big.NewInt(1)
	candidate := new(big.Int)
	remainder := new(big.Int)

	tryDivide := func(offset int64) *big.Int {
		candidate.Add(center, big.NewInt(offset))
		if candidate.Cmp(one) <= 0 || candidate.Cmp(n) >= 0 {
			return nil
		}
		if remainder.Mod(n, candidate).Sign() == 0 {
			return new(big.Int).Set(candidate)
		}
		return nil
	}

	if d := tryDivide(0); d != nil {
		return d, true
	}
	for offset := int64(1); offset <= maxOffset; offset++ {
		if offset%certifyCheckInterval == 0 && ctx.Err() != nil {
			return nil, false
		}
		if d := tryDivide(-offset); d != nil {
			return d, true
		}
		if d := tryDivide(offset); d != nil {
			return d, true
		}
	}
	return nil, false
}
