package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/agbru/resofactor/internal/cli"
	"github.com/agbru/resofactor/internal/config"
	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/logging"
	"github.com/agbru/resofactor/internal/search"
	"github.com/agbru/resofactor/internal/server"
	"github.com/agbru/resofactor/internal/ui"
)

// Application represents the resofactor application instance.
// It encapsulates the configuration and provides methods to run
// the application in its various modes (CLI, server, completion).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	// args[0] is program name, args[1:] are the actual arguments
	programName := "resofactor"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (completion, server, or CLI search).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Handle completion script generation
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	// Server mode
	if a.Config.ServerMode {
		return a.runServer()
	}

	// Standard CLI search mode
	return a.runSearch(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runSearch orchestrates the execution of the CLI divisor search.
// The engine derives its own deadline from the baseline timeout and the input
// size, so the application only layers signal handling on top of the context.
func (a *Application) runSearch(ctx context.Context, out io.Writer) int {
	n, err := a.Config.ParseN()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	ctx, stopSignals := SetupSignals(ctx)
	defer stopSignals()

	searchCfg := a.Config.ToSearchConfig()
	if a.Config.Verbose {
		searchCfg.Logger = logging.NewLogger(a.ErrWriter, "search")
	}

	// Skip banners and progress display in quiet and JSON modes
	interactive := !a.Config.Quiet && !a.Config.JSONOutput
	if interactive {
		cli.PrintExecutionConfig(out, a.Config, n)
	}

	var wg sync.WaitGroup
	var progressChan chan search.ProgressUpdate
	if interactive {
		progressChan = make(chan search.ProgressUpdate, 64)
		searchCfg.Observer = search.NewChannelObserver(progressChan)
		wg.Add(1)
		go cli.DisplayProgress(&wg, progressChan, out)
	}

	result, err := search.Factor(ctx, n, searchCfg)

	if progressChan != nil {
		close(progressChan)
		wg.Wait()
	}

	if err != nil {
		return apperrors.HandleSearchError(err, result.Elapsed, a.ErrWriter, themeColors{})
	}

	// Handle JSON output
	if a.Config.JSONOutput {
		return printJSONResult(result, n, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}
	if err := cli.DisplayResultWithConfig(out, result, n, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	return exitCodeForStatus(result.Status)
}

// exitCodeForStatus maps a terminal search status to a process exit code.
// Timeout and exhaustion are ordinary outcomes of a bounded search, but
// scripts still need to distinguish them from a certified pair.
func exitCodeForStatus(status search.Status) int {
	switch status {
	case search.StatusSuccess:
		return apperrors.ExitSuccess
	case search.StatusTimeout:
		return apperrors.ExitErrorTimeout
	case search.StatusExhausted:
		return apperrors.ExitErrorExhausted
	default:
		return apperrors.ExitErrorGeneric
	}
}

// themeColors adapts the active UI theme to the error handler's
// ColorProvider interface.
type themeColors struct{}

func (themeColors) Yellow() string { return cli.ColorYellow() }
func (themeColors) Reset() string  { return cli.ColorReset() }

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// printJSONResult formats the search result as JSON and writes it to the
// output. This is useful for programmatic consumption of the result.
func printJSONResult(result search.FactorizationResult, n *big.Int, out io.Writer) int {
	payload := cli.NewJSONResult(result, n)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return exitCodeForStatus(result.Status)
}
