package search

import (
	"math/big"

	apperrors "github.com/agbru/resofactor/internal/errors"
)

// Domain policy bounds, expressed as bit positions: accepted inputs lie in
// the inclusive range [2^DomainMinBits, 2^DomainMaxBits].
const (
	DomainMinBits = 20
	DomainMaxBits = 80
)

// DomainPolicy decides which inputs the engine accepts. An input passes if it
// is whitelisted or falls within the inclusive [Min, Max] range. The check
// runs synchronously before any precision derivation or sampling work, so a
// rejected input costs no search time.
type DomainPolicy struct {
	// Whitelist holds inputs accepted regardless of the range.
	Whitelist []*big.Int
	// Min and Max bound the accepted range, inclusive on both ends.
	Min *big.Int
	Max *big.Int
}

// DefaultDomainPolicy returns the standard policy: the two reference
// semiprimes plus the [2^20, 2^80] range.
func DefaultDomainPolicy() DomainPolicy {
	return DomainPolicy{
		Whitelist: []*big.Int{
			big.NewInt(1073217479),
			big.NewInt(1152921470247108503),
		},
		Min: new(big.Int).Lsh(big.NewInt(1), DomainMinBits),
		Max: new(big.Int).Lsh(big.NewInt(1), DomainMaxBits),
	}
}

// Validate checks that the policy is internally consistent.
func (p DomainPolicy) Validate() error {
	if p.Min == nil || p.Max == nil {
		return apperrors.NewConfigError("domain policy requires both min and max bounds")
	}
	if p.Min.Cmp(p.Max) > 0 {
		return apperrors.NewConfigError("domain policy range is empty: min %s > max %s", p.Min, p.Max)
	}
	return nil
}

// Check reports whether n is accepted.
//
// Returns:
//   - error: nil if n passes, otherwise a DomainError naming the violated rule.
func (p DomainPolicy) Check(n *big.Int) error {
	if n == nil {
		return apperrors.NewDomainError(big.NewInt(0), "input is nil")
	}
	for _, allowed := range p.Whitelist {
		if n.Cmp(allowed) == 0 {
			return nil
		}
	}
	if n.Cmp(p.Min) < 0 {
		return apperrors.NewDomainError(n, "below the accepted minimum %s", p.Min)
	}
	if n.Cmp(p.Max) > 0 {
		return apperrors.NewDomainError(n, "above the accepted maximum %s", p.Max)
	}
	return nil
}
