// Package cli provides output utilities for exporting search results.
package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/resofactor/internal/search"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows full integer values regardless of size.
	Verbose bool
	// Details shows work counters and result metadata.
	Details bool
}

// WriteResultToFile writes a search result to a file.
//
// Parameters:
//   - result: The search result.
//   - n: The input integer.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result search.FactorizationResult, n *big.Int, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Write header
	fmt.Fprintf(file, "# Divisor Search Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Status: %s\n", result.Status)
	fmt.Fprintf(file, "# Duration: %s\n", result.Elapsed)
	fmt.Fprintf(file, "# N: %s\n", n.String())
	fmt.Fprintf(file, "# Bits: %d\n", n.BitLen())
	fmt.Fprintf(file, "# Samples scored: %d\n", result.SamplesScored)
	fmt.Fprintf(file, "# Candidates certified: %d\n", result.CandidatesTested)
	fmt.Fprintf(file, "\n")

	// Write result
	if result.Succeeded() {
		fmt.Fprintf(file, "%s = %s * %s\n", n.String(), result.DivisorA, result.DivisorB)
	} else {
		fmt.Fprintf(file, "no certified divisor\n")
	}

	return nil
}

// FormatQuietResult formats a result for quiet mode output.
// Returns a single-line result suitable for scripting: the divisor pair
// separated by a space on success, or the terminal status otherwise.
//
// Parameters:
//   - result: The search result.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(result search.FactorizationResult) string {
	if result.Succeeded() {
		return fmt.Sprintf("%s %s", result.DivisorA, result.DivisorB)
	}
	return string(result.Status)
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - result: The search result.
func DisplayQuietResult(out io.Writer, result search.FactorizationResult) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResultWithConfig displays a result with the given output
// configuration. This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - result: The search result.
//   - n: The input integer.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result search.FactorizationResult, n *big.Int, config OutputConfig) error {
	// Handle quiet mode
	if config.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, n, config.Verbose, config.Details, out)
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(result, n, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}

	return nil
}
