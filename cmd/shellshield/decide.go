// decide.go: shared analyze -> audit -> mode-mapping pipeline
//
// Every invocation shape (hook, check, paste, run) funnels through decide,
// which is the one place SPEC_FULL.md §3.12's mode mapping lives: enforce
// maps a block to exit 2, permissive logs a warning and allows, interactive
// prompts y/N on a TTY and falls back to block otherwise — spec.md §4.8
// performed by the caller, not the analyzer.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

// gate bundles the loaded Config, Analyzer, and (optional) audit storage a
// command handler needs to decide on a candidate command line.
type gate struct {
	cfg     *shellshield.Config
	az      *shellshield.Analyzer
	storage shellshield.AuditStorage
}

// newGate loads configuration, the optional shell-context snapshot, and
// constructs an Analyzer. modeOverride, if non-empty, wins over both the
// config file and environment (spec.md §6's override order, extended one
// level further by the CLI's own --mode flag).
func newGate(modeOverride string) (*gate, error) {
	cfg, err := shellshield.LoadConfig()
	if err != nil {
		return nil, shellshield.ConfigError("", err.Error())
	}
	if modeOverride != "" {
		if m := shellshield.Mode(modeOverride); m == shellshield.ModeEnforce || m == shellshield.ModePermissive || m == shellshield.ModeInteractive {
			cfg.Mode = m
		}
	}

	var shellCtx *shellshield.ShellContext
	if cfg.ContextPath != "" {
		if sc, err := shellshield.LoadShellContext(cfg.ContextPath); err == nil {
			shellCtx = sc
		}
		// missing/unreadable snapshot => skip override check, spec.md §7
	}

	az := shellshield.NewAnalyzer(cfg, shellCtx, nil)

	var storage shellshield.AuditStorage
	if path := auditPath(cfg); path != "" {
		if s, err := shellshield.NewFileAuditStorage(path); err == nil {
			storage = s
		}
		// audit storage failing to open must not fail the gate, spec.md §7
	}

	return &gate{cfg: cfg, az: az, storage: storage}, nil
}

// auditPath resolves $HOME/.shellshield/audit.log, overridable by
// Config.AuditPath (itself populated from SHELLSHIELD_AUDIT_PATH).
func auditPath(cfg *shellshield.Config) string {
	if cfg.AuditPath != "" {
		return cfg.AuditPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.shellshield/audit.log"
}

func (g *gate) close() {
	if g.storage != nil {
		g.storage.Close()
	}
}

// decide runs the analyzer on command, applies the mode mapping, appends an
// audit record, and returns a *blockedError when the net effect is "the
// caller should exit non-zero" (enforce block, or interactive refusal).
func (g *gate) decide(ctx *cli.Context, command string, source shellshield.AuditSource) error {
	d := g.az.Analyze(command)

	auditDecision, exitErr := g.applyMode(ctx, command, d)
	g.audit(command, d, auditDecision, source)
	return exitErr
}

// applyMode implements spec.md §4.8's caller-side mode mapping.
func (g *gate) applyMode(ctx *cli.Context, command string, d shellshield.Decision) (shellshield.AuditDecision, error) {
	if !d.Blocked {
		return shellshield.AuditAllowed, nil
	}

	switch g.cfg.Mode {
	case shellshield.ModePermissive:
		g.logWarning(ctx, command, d)
		return shellshield.AuditWarn, nil

	case shellshield.ModeInteractive:
		if promptApprove(command, d) {
			return shellshield.AuditApproved, nil
		}
		return shellshield.AuditBlocked, &blockedError{code: 2}

	default: // ModeEnforce, and any unrecognized mode fails closed
		printBlockMessage(os.Stderr, command, d)
		return shellshield.AuditBlocked, &blockedError{code: 2}
	}
}

func (g *gate) logWarning(ctx *cli.Context, command string, d shellshield.Decision) {
	if al := ctx.AuditLogger(); al != nil {
		al.LogSecurity(context.Background(), d.Reason, "warning",
			shellshield.StringField("command", command),
			shellshield.StringField("rule", d.Rule),
			shellshield.StringField("suggestion", d.Suggestion))
	}
}

// promptApprove asks the operator y/N on a TTY; a non-interactive stdin
// (piped hook, CI) falls back to block, per spec.md §4.8.
func promptApprove(command string, d shellshield.Decision) bool {
	if !isTTY(os.Stdin) {
		return false
	}
	printBlockMessage(os.Stderr, command, d)
	fmt.Fprint(os.Stderr, "Run anyway? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (g *gate) audit(command string, d shellshield.Decision, decision shellshield.AuditDecision, source shellshield.AuditSource) {
	if g.storage == nil {
		return
	}
	cwd, _ := os.Getwd()
	record := shellshield.NewRecord(time.Now().UTC().Format(time.RFC3339), command, d, decision, g.cfg.Mode, source, cwd)
	g.storage.Append(context.Background(), record)
}

// printBlockMessage writes the human-readable, stderr block explanation
// spec.md §6 requires to contain reason and suggestion verbatim.
func printBlockMessage(w *os.File, command string, d shellshield.Decision) {
	fmt.Fprintf(w, "shellshield: blocked [%s]\n", d.Rule)
	fmt.Fprintf(w, "  command:    %s\n", command)
	fmt.Fprintf(w, "  reason:     %s\n", d.Reason)
	fmt.Fprintf(w, "  suggestion: %s\n", d.Suggestion)
}
