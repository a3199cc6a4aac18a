package cli

import (
	"fmt"
	"io"
	"math/big"

	"github.com/agbru/resofactor/internal/config"
	"github.com/agbru/resofactor/internal/search"
)

// PrintExecutionConfig prints a summary of the search parameters before the
// search starts. It is skipped in quiet and JSON modes.
//
// Parameters:
//   - out: The io.Writer for the output.
//   - cfg: The application configuration.
//   - n: The parsed input integer.
func PrintExecutionConfig(out io.Writer, cfg config.AppConfig, n *big.Int) {
	fmt.Fprintf(out, "%sSearching for a divisor pair of%s %s%s%s (%s bits)\n",
		ColorBold(), ColorReset(),
		ColorMagenta(), truncateInteger(n, false), ColorReset(),
		formatNumberString(fmt.Sprintf("%d", n.BitLen())))
	fmt.Fprintf(out, "Kernel order %s%d%s, sample budget %s%s%s, baseline timeout %s%s%s\n",
		ColorCyan(), cfg.KernelOrder, ColorReset(),
		ColorCyan(), formatNumberString(fmt.Sprintf("%d", cfg.Samples)), ColorReset(),
		ColorCyan(), cfg.Timeout, ColorReset())
	if !cfg.ShellFilter {
		fmt.Fprintf(out, "%sShell exclusion filter disabled%s\n", ColorYellow(), ColorReset())
	}
}

// DisplayResult formats and prints the final search result.
// It provides different levels of detail based on the verbose and details
// flags, including metadata like the derived precision and work counters.
// Very large inputs and divisors are truncated unless verbose is true.
//
// Parameters:
//   - result: The search result.
//   - n: The input integer.
//   - verbose: If true, prints full integers regardless of size.
//   - details: If true, prints detailed execution metrics.
//   - out: The io.Writer for the output.
func DisplayResult(result search.FactorizationResult, n *big.Int, verbose, details bool, out io.Writer) {
	switch result.Status {
	case search.StatusSuccess:
		fmt.Fprintf(out, "%s✓ Divisor pair certified%s in %s%s%s\n",
			ColorGreen(), ColorReset(),
			ColorCyan(), FormatExecutionDuration(result.Elapsed), ColorReset())
		fmt.Fprintf(out, "%s%s%s = %s%s%s × %s%s%s\n",
			ColorMagenta(), truncateInteger(n, verbose), ColorReset(),
			ColorGreen(), truncateInteger(result.DivisorA, verbose), ColorReset(),
			ColorGreen(), truncateInteger(result.DivisorB, verbose), ColorReset())
	case search.StatusTimeout:
		fmt.Fprintf(out, "%s✗ Search timed out%s after %s without a certified divisor\n",
			ColorYellow(), ColorReset(), FormatExecutionDuration(result.Elapsed))
	case search.StatusExhausted:
		fmt.Fprintf(out, "%s✗ Sample budget exhausted%s after %s without a certified divisor\n",
			ColorYellow(), ColorReset(), FormatExecutionDuration(result.Elapsed))
	default:
		fmt.Fprintf(out, "%s✗ Search ended with status %q%s\n", ColorRed(), result.Status, ColorReset())
	}

	if details {
		fmt.Fprintf(out, "\n%s--- Detailed search analysis ---%s\n", ColorBold(), ColorReset())
		durationStr := FormatExecutionDuration(result.Elapsed)
		if result.Elapsed == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Search time           : %s%s%s\n", ColorGreen(), durationStr, ColorReset())
		fmt.Fprintf(out, "Samples scored        : %s%s%s\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", result.SamplesScored)), ColorReset())
		fmt.Fprintf(out, "Candidates certified  : %s%s%s\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", result.CandidatesTested)), ColorReset())
		fmt.Fprintf(out, "Working precision     : %s%s%s decimal digits\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", result.Precision)), ColorReset())
		fmt.Fprintf(out, "Input size            : %s%s%s bits\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", n.BitLen())), ColorReset())
	}

	if result.Status == search.StatusSuccess && !verbose && len(n.String()) > TruncationLimit {
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full values)\n", ColorYellow(), ColorReset())
	}
}

// truncateInteger renders a big integer for terminal display, keeping only
// the leading and trailing digits of very large values unless verbose output
// was requested.
//
// Parameters:
//   - v: The integer to render.
//   - verbose: If true, the full decimal expansion is returned.
//
// Returns:
//   - string: The rendered integer.
func truncateInteger(v *big.Int, verbose bool) string {
	if v == nil {
		return "<nil>"
	}
	s := v.String()
	if verbose || len(s) <= TruncationLimit {
		return formatNumberString(s)
	}
	return fmt.Sprintf("%s...%s (%d digits)", s[:DisplayEdges], s[len(s)-DisplayEdges:], len(s))
}

// JSONResult is the serializable form of a search result for --json output.
type JSONResult struct {
	N                string `json:"n"`
	Status           string `json:"status"`
	DivisorA         string `json:"divisor_a,omitempty"`
	DivisorB         string `json:"divisor_b,omitempty"`
	SamplesScored    int    `json:"samples_scored"`
	CandidatesTested int    `json:"candidates_tested"`
	Precision        int    `json:"precision"`
	DurationMS       int64  `json:"duration_ms"`
}

// NewJSONResult converts a search result into its serializable form.
//
// Parameters:
//   - result: The search result.
//   - n: The input integer.
//
// Returns:
//   - JSONResult: The serializable result.
func NewJSONResult(result search.FactorizationResult, n *big.Int) JSONResult {
	out := JSONResult{
		N:                n.String(),
		Status:           string(result.Status),
		SamplesScored:    result.SamplesScored,
		CandidatesTested: result.CandidatesTested,
		Precision:        result.Precision,
		DurationMS:       result.Elapsed.Milliseconds(),
	}
	if result.DivisorA != nil {
		out.DivisorA = result.DivisorA.String()
	}
	if result.DivisorB != nil {
		out.DivisorB = result.DivisorB.String()
	}
	return out
}
