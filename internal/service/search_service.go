// Package service exposes the divisor search engine behind a small interface
// suitable for dependency injection into the HTTP server and other front ends.
package service

import (
	"context"
	"errors"
	"math/big"

	"github.com/agbru/resofactor/internal/search"
)

var (
	// ErrMaxBitsExceeded is returned when the input exceeds the configured
	// maximum bit length.
	ErrMaxBitsExceeded = errors.New("maximum input bit length exceeded")
)

// Service defines the interface for divisor search services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Factor runs a divisor search for n.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - n: The integer to search.
	//
	// Returns:
	//   - search.FactorizationResult: The outcome.
	//   - error: An error if validation or the search fails.
	Factor(ctx context.Context, n *big.Int) (search.FactorizationResult, error)
}

// SearchService handles the core logic for running divisor searches.
// It centralizes validation and engine configuration. Implements the Service
// interface.
type SearchService struct {
	config  search.SearchConfig
	maxBits int
}

// Ensure SearchService implements Service interface.
var _ Service = (*SearchService)(nil)

// NewSearchService creates a new instance of SearchService.
//
// Parameters:
//   - cfg: The engine configuration used for every search.
//   - maxBits: The maximum allowed input bit length (0 for no limit).
func NewSearchService(cfg search.SearchConfig, maxBits int) *SearchService {
	return &SearchService{
		config:  cfg,
		maxBits: maxBits,
	}
}

// Factor validates the input size and runs the search with the configured
// engine settings. The bit guard runs before the engine's own domain policy
// so oversized server requests are rejected with a stable sentinel error.
func (s *SearchService) Factor(ctx context.Context, n *big.Int) (search.FactorizationResult, error) {
	if s.maxBits > 0 && n != nil && n.BitLen() > s.maxBits {
		return search.FactorizationResult{}, ErrMaxBitsExceeded
	}
	return search.Factor(ctx, n, s.config)
}
