// cmd_snapshot.go: shell-context snapshot producer wiring, SPEC_FULL.md §3.12
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/internal/snapshot"
)

func newSnapshotCommand() *cli.Command {
	return cli.NewCommand("snapshot", "Build a shell-context snapshot from alias/function declarations on stdin").
		SetLongDescription("Reads `{ alias; declare -f; }` output piped in on stdin, resolves each\n" +
			"discovered name via `type`, and writes the JSON-lines snapshot file\n" +
			"LoadShellContext/contextPath consumes.").
		AddFlag("out", "o", "", "Output path (default: stdout)").
		SetHandler(runSnapshot)
}

func runSnapshot(ctx *cli.Context) error {
	producer := snapshot.NewProducer()
	snap, err := producer.Build(context.Background(), os.Stdin)
	if err != nil {
		return cli.ExecutionError("snapshot", err.Error())
	}

	out := os.Stdout
	if path := ctx.GetFlagString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return cli.ExecutionError("snapshot", "create "+path+": "+err.Error())
		}
		defer f.Close()
		out = f
	}

	if err := snapshot.WriteJSONLines(out, snap); err != nil {
		return cli.ExecutionError("snapshot", err.Error())
	}
	if out == os.Stdout {
		fmt.Fprintf(os.Stderr, "wrote %d entries\n", len(snap.Entries))
	}
	return nil
}
