package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/search"
	"github.com/agbru/resofactor/internal/service"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleFactor processes divisor search requests.
// It parses the query parameter 'n' (the integer to search), executes the
// search, and returns the result in JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleFactor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Parse and validate parameters using helper
	n, err := parseFactorParams(r)
	if err != nil {
		if parseErr, ok := err.(FactorParseError); ok {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Create a context with timeout for the search
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	// Perform the search
	start := time.Now()
	result, err := s.service.Factor(ctx, n)
	duration := time.Since(start)

	// Handle bit-length guard errors
	if errors.Is(err, service.ErrMaxBitsExceeded) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Input exceeds maximum allowed size (%d bits). This limit prevents resource exhaustion.", s.securityConfig.MaxInputBits))
		return
	}

	// Domain policy violations are client errors, not search outcomes
	if apperrors.IsDomainError(err) {
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Build and send response using helper
	resp := buildFactorResponse(n, result, duration, err)
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// parseFactorParams extracts and validates the search parameters from the request.
//
// Parameters:
//   - r: The HTTP request containing query parameters.
//
// Returns:
//   - n: The parsed integer to search.
//   - err: A FactorParseError if validation fails, nil otherwise.
func parseFactorParams(r *http.Request) (*big.Int, error) {
	nStr := r.URL.Query().Get("n")
	if nStr == "" {
		return nil, FactorParseError{
			Message:    "Missing 'n' parameter",
			StatusCode: http.StatusBadRequest,
		}
	}

	n, ok := new(big.Int).SetString(nStr, 10)
	if !ok || n.Sign() <= 0 {
		return nil, FactorParseError{
			Message:    "Invalid 'n' parameter: must be a positive decimal integer",
			StatusCode: http.StatusBadRequest,
		}
	}

	return n, nil
}

// buildFactorResponse constructs the response struct for a search.
//
// Parameters:
//   - n: The integer that was searched.
//   - result: The search result.
//   - duration: The time taken for the request.
//   - err: Any error that occurred during the search.
//
// Returns:
//   - Response: The constructed response struct.
func buildFactorResponse(n *big.Int, result search.FactorizationResult, duration time.Duration, err error) Response {
	resp := Response{
		N:        n.String(),
		Duration: duration.String(),
	}

	if err != nil {
		resp.Error = err.Error()
		return resp
	}

	resp.Status = string(result.Status)
	resp.SamplesScored = result.SamplesScored
	resp.CandidatesTested = result.CandidatesTested
	resp.Precision = result.Precision
	if result.Succeeded() {
		resp.DivisorA = result.DivisorA.String()
		resp.DivisorB = result.DivisorB.String()
	}
	return resp
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
