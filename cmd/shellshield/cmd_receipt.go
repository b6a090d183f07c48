// cmd_receipt.go: pretty-print a single audit record, SPEC_FULL.md §3.12
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hevlyo/shellshield/internal/cli"
)

func newReceiptCommand() *cli.Command {
	return cli.NewCommand("receipt", "Pretty-print the n-th most recent audit record").
		SetUsage("receipt <n>").
		AddExample("shellshield receipt 1").
		SetHandler(runReceipt)
}

func runReceipt(ctx *cli.Context) error {
	n := 1
	if ctx.ArgCount() > 0 {
		v, err := strconv.Atoi(ctx.GetArg(0))
		if err != nil || v < 1 {
			return cli.ValidationError("receipt", "n must be a positive integer")
		}
		n = v
	}

	g, err := newGate("")
	if err != nil {
		return err
	}
	defer g.close()

	if g.storage == nil {
		fmt.Println("no audit log available")
		return nil
	}

	records, err := g.storage.Tail(context.Background(), n)
	if err != nil {
		return cli.ExecutionError("receipt", err.Error())
	}
	if len(records) < n {
		return cli.ExecutionError("receipt", fmt.Sprintf("audit log has only %d record(s)", len(records)))
	}

	r := records[len(records)-n]
	fmt.Printf("timestamp:  %s\n", r.Timestamp)
	fmt.Printf("command:    %s\n", r.Command)
	fmt.Printf("decision:   %s\n", r.Decision)
	fmt.Printf("mode:       %s\n", r.Mode)
	fmt.Printf("source:     %s\n", r.Source)
	if r.Rule != "" {
		fmt.Printf("rule:       %s\n", r.Rule)
		fmt.Printf("reason:     %s\n", r.Reason)
		fmt.Printf("suggestion: %s\n", r.Suggestion)
	}
	if r.Cwd != "" {
		fmt.Printf("cwd:        %s\n", r.Cwd)
	}
	return nil
}
