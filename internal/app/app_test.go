package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"strings"
	"testing"

	apperrors "github.com/agbru/resofactor/internal/errors"
	"github.com/agbru/resofactor/internal/search"
)

func TestNew_ValidArguments(t *testing.T) {
	var errOut bytes.Buffer
	application, err := New([]string{"resofactor", "-n", "1073217479", "-q"}, &errOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if application.Config.N != "1073217479" {
		t.Errorf("N = %q, want 1073217479", application.Config.N)
	}
	if !application.Config.Quiet {
		t.Error("quiet flag not applied")
	}
}

func TestNew_MissingInput(t *testing.T) {
	var errOut bytes.Buffer
	if _, err := New([]string{"resofactor"}, &errOut); err == nil {
		t.Fatal("expected an error without -n")
	}
	if !strings.Contains(errOut.String(), "missing required input") {
		t.Errorf("error output missing explanation: %q", errOut.String())
	}
}

func TestNew_InvalidFlag(t *testing.T) {
	var errOut bytes.Buffer
	if _, err := New([]string{"resofactor", "-definitely-not-a-flag"}, &errOut); err == nil {
		t.Fatal("expected an error for an unknown flag")
	}
}

func TestIsHelpError(t *testing.T) {
	t.Parallel()

	if !IsHelpError(flag.ErrHelp) {
		t.Error("flag.ErrHelp should be a help error")
	}
	if IsHelpError(errors.New("boom")) {
		t.Error("arbitrary errors are not help errors")
	}
	if IsHelpError(nil) {
		t.Error("nil is not a help error")
	}
}

func TestRun_CompletionMode(t *testing.T) {
	var errOut, out bytes.Buffer
	application, err := New([]string{"resofactor", "-completion", "bash"}, &errOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want success", code)
	}
	if !strings.Contains(out.String(), "_resofactor_completions") {
		t.Errorf("completion output missing script body: %q", out.String())
	}
}

func TestRun_CompletionUnsupportedShell(t *testing.T) {
	var errOut, out bytes.Buffer
	application, err := New([]string{"resofactor", "-completion", "tcsh"}, &errOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRun_QuietSearch(t *testing.T) {
	var errOut, out bytes.Buffer
	application, err := New([]string{"resofactor", "-n", "1073217479", "-q", "-no-color"}, &errOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if got := strings.TrimSpace(out.String()); got != "32749 32771" {
		t.Errorf("quiet output = %q, want the divisor pair", got)
	}
}

func TestRun_JSONSearch(t *testing.T) {
	var errOut, out bytes.Buffer
	application, err := New([]string{"resofactor", "-n", "1073217479", "-json", "-no-color"}, &errOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if payload["status"] != "success" || payload["n"] != "1073217479" {
		t.Errorf("unexpected JSON payload: %v", payload)
	}
	if payload["divisor_a"] != "32749" || payload["divisor_b"] != "32771" {
		t.Errorf("divisors missing from payload: %v", payload)
	}
}

func TestRun_DomainRejection(t *testing.T) {
	var errOut, out bytes.Buffer
	// 1048573 sits just below the 2^20 domain floor.
	application, err := New([]string{"resofactor", "-n", "1048573", "-q", "-no-color"}, &errOut)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorDomain {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorDomain)
	}
	if !strings.Contains(errOut.String(), "Rejected") {
		t.Errorf("stderr missing rejection message: %q", errOut.String())
	}
}

func TestExitCodeForStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status search.Status
		want   int
	}{
		{search.StatusSuccess, apperrors.ExitSuccess},
		{search.StatusTimeout, apperrors.ExitErrorTimeout},
		{search.StatusExhausted, apperrors.ExitErrorExhausted},
		{search.Status("unknown"), apperrors.ExitErrorGeneric},
	}

	for _, tc := range testCases {
		if got := exitCodeForStatus(tc.status); got != tc.want {
			t.Errorf("exitCodeForStatus(%s) = %d, want %d", tc.status, got, tc.want)
		}
	}
}
