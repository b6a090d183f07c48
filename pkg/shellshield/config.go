// config.go: JSON file + environment-override configuration loader
//
// Grounded on _examples/fnzv-trash/config.go's flat LoadConfig() (*Config, error)
// style: plain os.Getenv reads with fallback defaults and comma-split lists,
// no config/viper library — the same unadorned shape the rest of the
// retrieval pack uses for single-file JSON/env config.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Mode selects how the CLI wrapper maps a Decision to an exit code — the
// mapping itself is the caller's job (spec.md §4.8), not the analyzer's.
type Mode string

const (
	ModeEnforce     Mode = "enforce"
	ModePermissive  Mode = "permissive"
	ModeInteractive Mode = "interactive"
)

// CustomRule is a user-supplied regex rule entry (spec.md §4.6).
type CustomRule struct {
	Pattern    string `json:"pattern"`
	Suggestion string `json:"suggestion"`
}

// Config is immutable once loaded and shared read-only across the call tree,
// including recursive subshell analyses (spec.md §3 Ownership).
type Config struct {
	Blocked          map[string]bool
	Allowed          map[string]bool
	TrustedDomains   []string
	Threshold        int
	MaxSubshellDepth int
	Mode             Mode
	CustomRules      []CustomRule
	ContextPath      string
	AuditPath        string

	// Source records which config file (if any) was loaded, surfaced by
	// `shellshield doctor` for troubleshooting — SPEC_FULL.md §3.9.
	Source string
}

// fileConfig is the JSON on-disk shape (spec.md §6). Unknown keys ignored.
type fileConfig struct {
	Blocked          []string     `json:"blocked"`
	Allowed          []string     `json:"allowed"`
	TrustedDomains   []string     `json:"trustedDomains"`
	Threshold        *int         `json:"threshold"`
	MaxSubshellDepth *int         `json:"maxSubshellDepth"`
	Mode             string       `json:"mode"`
	CustomRules      []CustomRule `json:"customRules"`
	ContextPath      string       `json:"contextPath"`
}

// DefaultConfig returns a Config seeded entirely from patterns.go's defaults,
// with no file or environment layering applied.
func DefaultConfig() *Config {
	return &Config{
		Blocked:          toSet(defaultBlockedCommands),
		Allowed:          toSet(defaultAllowedCommands),
		TrustedDomains:   append([]string(nil), defaultTrustedDomains...),
		Threshold:        DefaultThreshold,
		MaxSubshellDepth: DefaultMaxSubshellDepth,
		Mode:             ModeEnforce,
	}
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// configSearchPaths implements spec.md §6's search order: $INIT_CWD, $PWD,
// CWD, the invoker-script's directory, one directory above that, then $HOME.
func configSearchPaths() []string {
	var paths []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		paths = append(paths, filepath.Join(dir, ".shellshield.json"))
	}

	add(os.Getenv("INIT_CWD"))
	add(os.Getenv("PWD"))
	if cwd, err := os.Getwd(); err == nil {
		add(cwd)
	}
	if exe, err := os.Executable(); err == nil {
		scriptDir := filepath.Dir(exe)
		add(scriptDir)
		add(filepath.Dir(scriptDir))
	}
	if home, err := os.UserHomeDir(); err == nil {
		add(home)
	}
	return paths
}

// LoadConfig implements spec.md §6: searches the configured locations for
// `.shellshield.json`, applies it over DefaultConfig, then layers environment
// overrides on top (environment wins over file, per spec.md §6).
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range configSearchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue // missing/unreadable config file => defaults, spec.md §7
		}
		var fc fileConfig
		if jsonErr := json.Unmarshal(data, &fc); jsonErr != nil {
			if os.Getenv("DEBUG") != "" {
				os.Stderr.WriteString("shellshield: ignoring invalid config " + path + ": " + jsonErr.Error() + "\n")
			}
			continue
		}
		applyFileConfig(cfg, &fc)
		cfg.Source = path
		break
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyFileConfig(cfg *Config, fc *fileConfig) {
	for _, b := range fc.Blocked {
		cfg.Blocked[b] = true
	}
	for _, a := range fc.Allowed {
		cfg.Allowed[a] = true
	}
	if len(fc.TrustedDomains) > 0 {
		cfg.TrustedDomains = append(cfg.TrustedDomains, fc.TrustedDomains...)
	}
	if fc.Threshold != nil && *fc.Threshold > 0 {
		cfg.Threshold = *fc.Threshold
	}
	if fc.MaxSubshellDepth != nil && *fc.MaxSubshellDepth > 0 {
		cfg.MaxSubshellDepth = *fc.MaxSubshellDepth
	}
	if m := Mode(fc.Mode); m == ModeEnforce || m == ModePermissive || m == ModeInteractive {
		cfg.Mode = m
	}
	cfg.CustomRules = append(cfg.CustomRules, fc.CustomRules...)
	if fc.ContextPath != "" {
		cfg.ContextPath = fc.ContextPath
	}
}

// applyEnvOverrides implements spec.md §6's environment-override list. These
// always win over file values, consistent with spec.md's "Environment
// overrides file values."
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENCODE_BLOCK_COMMANDS"); v != "" {
		for _, n := range splitCSV(v) {
			cfg.Blocked[n] = true
		}
	}
	if v := os.Getenv("OPENCODE_ALLOW_COMMANDS"); v != "" {
		for _, n := range splitCSV(v) {
			cfg.Allowed[n] = true
		}
	}
	if v := os.Getenv("SHELLSHIELD_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Threshold = n
		}
	}
	if v := os.Getenv("SHELLSHIELD_MAX_SUBSHELL_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSubshellDepth = n
		}
	}
	if v := Mode(os.Getenv("SHELLSHIELD_MODE")); v == ModeEnforce || v == ModePermissive || v == ModeInteractive {
		cfg.Mode = v
	}
	if v := os.Getenv("SHELLSHIELD_CONTEXT_PATH"); v != "" {
		cfg.ContextPath = v
	}
	if v := os.Getenv("SHELLSHIELD_AUDIT_PATH"); v != "" {
		cfg.AuditPath = v
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ShouldSkip implements the SHELLSHIELD_SKIP bypass (spec.md §6): case
// insensitive membership in {1, true, yes, on, enable, enabled}.
func ShouldSkip() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SHELLSHIELD_SKIP")))
	switch v {
	case "1", "true", "yes", "on", "enable", "enabled":
		return true
	default:
		return false
	}
}
