// cmd_check.go: --check "<cmd>" invocation shape, spec.md §6.2
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"strings"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func newCheckCommand() *cli.Command {
	return cli.NewCommand("check", "Analyze a single command line given on the command line").
		SetUsage("check <command>").
		AddExample(`shellshield check "rm -rf /"`).
		SetHandler(runCheck)
}

func runCheck(ctx *cli.Context) error {
	if shellshield.ShouldSkip() {
		return nil
	}

	if ctx.ArgCount() == 0 {
		return cli.ValidationError("check", "no command given")
	}
	command := strings.Join(argsSlice(ctx), " ")

	g, err := newGate(ctx.GetGlobalFlagString("mode"))
	if err != nil {
		return err
	}
	defer g.close()

	return g.decide(ctx, command, shellshield.SourceCheck)
}

// argsSlice collects every positional argument, so `shellshield check rm -rf /`
// (unquoted) behaves the same as `shellshield check "rm -rf /"`.
func argsSlice(ctx *cli.Context) []string {
	out := make([]string, ctx.ArgCount())
	for i := range out {
		out[i] = ctx.GetArg(i)
	}
	return out
}
