package server

// Response represents the standardized JSON response for a search request.
type Response struct {
	// N is the decimal representation of the searched integer.
	N string `json:"n"`
	// Status is the terminal search status (success, timeout, exhausted).
	Status string `json:"status,omitempty"`
	// DivisorA and DivisorB are the certified divisor pair, present only on
	// success, with DivisorA <= DivisorB.
	DivisorA string `json:"divisor_a,omitempty"`
	DivisorB string `json:"divisor_b,omitempty"`
	// SamplesScored counts kernel parameter evaluations.
	SamplesScored int `json:"samples_scored,omitempty"`
	// CandidatesTested counts candidates submitted to certification.
	CandidatesTested int `json:"candidates_tested,omitempty"`
	// Precision is the decimal precision the search ran at.
	Precision int `json:"precision,omitempty"`
	// Duration is the formatted request execution time string.
	Duration string `json:"duration"`
	// Error contains the error message if the search failed.
	Error string `json:"error,omitempty"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// FactorParseError represents a parameter parsing error with HTTP status.
type FactorParseError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e FactorParseError) Error() string {
	return e.Message
}
