// config_test.go
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Blocked["rm"] {
		t.Errorf("expected 'rm' in the default blocklist")
	}
	if cfg.Threshold != DefaultThreshold {
		t.Errorf("got threshold %d, want %d", cfg.Threshold, DefaultThreshold)
	}
	if cfg.MaxSubshellDepth != DefaultMaxSubshellDepth {
		t.Errorf("got max subshell depth %d, want %d", cfg.MaxSubshellDepth, DefaultMaxSubshellDepth)
	}
	if cfg.Mode != ModeEnforce {
		t.Errorf("got mode %q, want %q", cfg.Mode, ModeEnforce)
	}
}

func TestLoadConfig_FileOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INIT_CWD", dir)
	t.Setenv("PWD", "")
	t.Setenv("HOME", dir)

	fc := fileConfig{
		Blocked:   []string{"frobnicate"},
		Allowed:   []string{"rm"},
		Threshold: intPtr(5),
		Mode:      "permissive",
	}
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".shellshield.json"), data, 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Blocked["frobnicate"] {
		t.Errorf("expected file-supplied blocked command to be present")
	}
	if !cfg.Allowed["rm"] {
		t.Errorf("expected file-supplied allowed command to be present")
	}
	if cfg.Threshold != 5 {
		t.Errorf("got threshold %d, want 5", cfg.Threshold)
	}
	if cfg.Mode != ModePermissive {
		t.Errorf("got mode %q, want permissive", cfg.Mode)
	}
	if cfg.Source == "" {
		t.Errorf("expected Source to record the loaded file path")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("INIT_CWD", dir)
	t.Setenv("PWD", "")
	t.Setenv("HOME", dir)
	t.Setenv("SHELLSHIELD_MODE", "interactive")
	t.Setenv("SHELLSHIELD_THRESHOLD", "7")

	fc := fileConfig{Mode: "permissive", Threshold: intPtr(5)}
	data, _ := json.Marshal(fc)
	if err := os.WriteFile(filepath.Join(dir, ".shellshield.json"), data, 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != ModeInteractive {
		t.Errorf("got mode %q, want interactive (env must win over file)", cfg.Mode)
	}
	if cfg.Threshold != 7 {
		t.Errorf("got threshold %d, want 7 (env must win over file)", cfg.Threshold)
	}
}

func TestShouldSkip(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true, "on": true, "Enabled": true,
		"0": false, "false": false, "": false, "nope": false,
	}
	for v, want := range cases {
		t.Setenv("SHELLSHIELD_SKIP", v)
		if got := ShouldSkip(); got != want {
			t.Errorf("ShouldSkip() with SHELLSHIELD_SKIP=%q = %v, want %v", v, got, want)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, b ,, c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func intPtr(n int) *int { return &n }
