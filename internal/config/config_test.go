package config

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("resofactor", []string{"-n", "1073217479"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.N != "1073217479" {
		t.Errorf("N = %q, want 1073217479", cfg.N)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if !cfg.ShellFilter {
		t.Error("shell filter should default to enabled")
	}
	if !cfg.AdaptiveScaling {
		t.Error("adaptive scaling should default to enabled")
	}
	if cfg.ServerMode || cfg.JSONOutput || cfg.Quiet {
		t.Error("mode flags should default to false")
	}
}

func TestParseConfig_MissingN(t *testing.T) {
	var buf strings.Builder
	if _, err := ParseConfig("resofactor", nil, &buf); err == nil {
		t.Fatal("expected an error without -n")
	}
	if !strings.Contains(buf.String(), "missing required input") {
		t.Errorf("error output %q does not name the missing input", buf.String())
	}
}

func TestParseConfig_ServerModeNeedsNoN(t *testing.T) {
	cfg, err := ParseConfig("resofactor", []string{"-server", "-port", "9090"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if !cfg.ServerMode || cfg.Port != "9090" {
		t.Errorf("server config = %+v", cfg)
	}
}

func TestParseConfig_InvalidN(t *testing.T) {
	if _, err := ParseConfig("resofactor", []string{"-n", "bogus"}, io.Discard); err == nil {
		t.Fatal("expected an error for a non-decimal input")
	}
}

func TestParseConfig_EngineFlagValidation(t *testing.T) {
	if _, err := ParseConfig("resofactor", []string{"-n", "1073217479", "-order", "0"}, io.Discard); err == nil {
		t.Fatal("expected the engine validation to reject order 0")
	}
}

func TestParseConfig_ZeroTimeoutIsUnbounded(t *testing.T) {
	cfg, err := ParseConfig("resofactor", []string{"-n", "1073217479", "-timeout", "0"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig rejected a zero timeout: %v", err)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout)
	}
	if err := cfg.ToSearchConfig().Validate(); err != nil {
		t.Errorf("engine validation rejected a zero timeout: %v", err)
	}
}

func TestParseConfig_NegativeTimeoutRejected(t *testing.T) {
	if _, err := ParseConfig("resofactor", []string{"-n", "1073217479", "-timeout", "-1s"}, io.Discard); err == nil {
		t.Fatal("expected a negative timeout to be rejected")
	}
}

func TestParseConfig_AdaptiveToggle(t *testing.T) {
	cfg, err := ParseConfig("resofactor", []string{"-n", "1073217479", "-adaptive=false"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.AdaptiveScaling {
		t.Error("AdaptiveScaling should be disabled by the flag")
	}
	if sc := cfg.ToSearchConfig(); sc.AdaptiveScalingEnabled {
		t.Error("ToSearchConfig should carry the disabled toggle")
	}
}

func TestParseN(t *testing.T) {
	cfg := AppConfig{N: "1152921470247108503"}
	n, err := cfg.ParseN()
	if err != nil {
		t.Fatalf("ParseN failed: %v", err)
	}
	if n.String() != cfg.N {
		t.Errorf("ParseN = %s, want %s", n, cfg.N)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"N", "1073217479")
	t.Setenv(EnvPrefix+"SAMPLES", "500")
	t.Setenv(EnvPrefix+"TIMEOUT", "2m")
	t.Setenv(EnvPrefix+"SHELL_FILTER", "no")
	t.Setenv(EnvPrefix+"ADAPTIVE", "no")

	cfg, err := ParseConfig("resofactor", nil, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.N != "1073217479" {
		t.Errorf("N = %q, want env value", cfg.N)
	}
	if cfg.Samples != 500 {
		t.Errorf("Samples = %d, want 500", cfg.Samples)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if cfg.ShellFilter {
		t.Error("shell filter should be disabled via env")
	}
	if cfg.AdaptiveScaling {
		t.Error("adaptive scaling should be disabled via env")
	}
}

func TestEnvOverrides_FlagWins(t *testing.T) {
	t.Setenv(EnvPrefix+"SAMPLES", "500")

	cfg, err := ParseConfig("resofactor", []string{"-n", "1073217479", "-samples", "750"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if cfg.Samples != 750 {
		t.Errorf("Samples = %d, want the explicit flag value 750", cfg.Samples)
	}
}

func TestToSearchConfig(t *testing.T) {
	cfg, err := ParseConfig("resofactor", []string{
		"-n", "1073217479", "-samples", "1234", "-span", "99", "-workers", "2",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	sc := cfg.ToSearchConfig()
	if sc.SampleBudget != 1234 || sc.SweepSpan != 99 || sc.Workers != 2 {
		t.Errorf("ToSearchConfig carried wrong tunables: %+v", sc)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("converted config should validate, got %v", err)
	}
}
