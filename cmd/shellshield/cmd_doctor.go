// cmd_doctor.go: environment/config diagnostics, SPEC_FULL.md §3.12
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os/exec"
	"sort"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func newDoctorCommand() *cli.Command {
	return cli.NewCommand("doctor", "Report the effective configuration and environment health").
		SetHandler(runDoctor)
}

func runDoctor(ctx *cli.Context) error {
	cfg, err := shellshield.LoadConfig()
	if err != nil {
		return cli.ExecutionError("doctor", err.Error())
	}

	fmt.Println("shellshield doctor")
	fmt.Println()

	if cfg.Source != "" {
		fmt.Printf("config file:        %s\n", cfg.Source)
	} else {
		fmt.Println("config file:        none found (using defaults)")
	}
	fmt.Printf("mode:               %s\n", cfg.Mode)
	fmt.Printf("threshold:          %d\n", cfg.Threshold)
	fmt.Printf("maxSubshellDepth:   %d\n", cfg.MaxSubshellDepth)
	fmt.Printf("blocked commands:   %d (%s)\n", len(cfg.Blocked), joinedSortedKeys(cfg.Blocked, 8))
	fmt.Printf("allowed commands:   %d (%s)\n", len(cfg.Allowed), joinedSortedKeys(cfg.Allowed, 8))
	fmt.Printf("trusted domains:    %d (%s)\n", len(cfg.TrustedDomains), joinedStrings(cfg.TrustedDomains, 8))
	fmt.Printf("custom rules:       %d\n", len(cfg.CustomRules))

	if cfg.ContextPath != "" {
		if _, err := shellshield.LoadShellContext(cfg.ContextPath); err != nil {
			fmt.Printf("shell context:      %s configured but unreadable: %v\n", cfg.ContextPath, err)
		} else {
			fmt.Printf("shell context:      %s (loaded)\n", cfg.ContextPath)
		}
	} else {
		fmt.Println("shell context:      not configured")
	}

	if path, err := exec.LookPath("git"); err == nil {
		fmt.Printf("git:                found at %s\n", path)
	} else {
		fmt.Println("git:                not found on $PATH — uncommitted-changes check degrades to \"not dirty\"")
	}

	if path := auditPath(cfg); path != "" {
		fmt.Printf("audit log:          %s\n", path)
	} else {
		fmt.Println("audit log:          disabled ($HOME unresolvable)")
	}

	return nil
}

func joinedSortedKeys(m map[string]bool, limit int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return joinedStrings(keys, limit)
}

func joinedStrings(items []string, limit int) string {
	if len(items) == 0 {
		return "none"
	}
	shown := items
	suffix := ""
	if len(items) > limit {
		shown = items[:limit]
		suffix = ", ..."
	}
	out := ""
	for i, s := range shown {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out + suffix
}
