// main.go: the shellshield CLI entry point
//
// Adapted from cmd/demo/main.go's fluent App-builder wiring style; every
// subcommand below maps onto one of the invocation shapes SPEC_FULL.md §3.12
// names.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hevlyo/shellshield/internal/cli"
)

const version = "1.0.0"

func main() {
	app := cli.New("shellshield").
		SetDescription("Pre-execution shell-command security gate").
		SetVersion(version)

	app.AddGlobalFlag("config", "c", "", "Accepted but not read: configuration comes from the .shellshield.json search order").
		AddGlobalFlag("mode", "", "", "Override mode: enforce, permissive, or interactive")

	app.AddCommand(newHookCommand())
	app.AddCommand(newCheckCommand())
	app.AddCommand(newPasteCommand())
	app.AddCommand(newInitCommand())
	app.AddCommand(newDoctorCommand())
	app.AddCommand(newStatsCommand())
	app.AddCommand(newReceiptCommand())
	app.AddCommand(newWhyCommand())
	app.AddCommand(newSnapshotCommand())
	app.AddCommand(newRunCommand())

	if err := app.Run(rewriteLegacyCheckFlag(os.Args[1:])); err != nil {
		if be, ok := err.(*blockedError); ok {
			os.Exit(be.code)
		}
		fmt.Fprintln(os.Stderr, "shellshield:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to a process exit code. CLI dispatch
// faults (bad flags, unknown command) are always 1; a *blockedError carries
// the policy exit code 2 a Decision produces (SPEC_FULL.md §3.12).
func exitCodeFor(err error) int {
	if be, ok := err.(*blockedError); ok {
		return be.code
	}
	return 1
}

// rewriteLegacyCheckFlag accepts `shellshield --check "<cmd>"` as a drop-in
// alias for `shellshield check "<cmd>"`, matching existing preexec traps
// written against the bare-flag calling convention (SPEC_FULL.md §3.12).
func rewriteLegacyCheckFlag(args []string) []string {
	for i, a := range args {
		switch {
		case a == "--check":
			if i+1 < len(args) {
				return append([]string{"check", args[i+1]}, args[i+2:]...)
			}
			return []string{"check"}
		case strings.HasPrefix(a, "--check="):
			return append([]string{"check", strings.TrimPrefix(a, "--check=")}, args[i+1:]...)
		}
	}
	return args
}

// blockedError signals that a command's own handler already printed its
// explanation and wants a specific process exit code, bypassing the
// generic "shellshield: <err>" stderr line main() prints for real errors.
type blockedError struct {
	code int
}

func (e *blockedError) Error() string { return "" }
