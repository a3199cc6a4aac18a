// Command resofactor searches for certified divisor pairs of large integers
// using resonance-scored candidate generation.
//
// Usage:
//
//	resofactor -n <integer> [options]
//	resofactor -server [-port 8080]
//	resofactor -completion bash
//
// Run with --help for the full option list.
package main

import (
	"context"
	"os"

	"github.com/agbru/resofactor/internal/app"
	apperrors "github.com/agbru/resofactor/internal/errors"
)

func main() {
	// Version flags short-circuit everything else so that
	// "resofactor --version" works regardless of other arguments.
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
