// cmd_stats.go: audit-log summary, SPEC_FULL.md §3.12
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func newStatsCommand() *cli.Command {
	return cli.NewCommand("stats", "Summarize the audit log: counts by decision and by rule").
		AddIntFlag("n", "", 1000, "Number of trailing audit-log lines to summarize").
		SetHandler(runStats)
}

func runStats(ctx *cli.Context) error {
	g, err := newGate("")
	if err != nil {
		return err
	}
	defer g.close()

	if g.storage == nil {
		fmt.Println("no audit log available")
		return nil
	}

	records, err := g.storage.Tail(context.Background(), ctx.GetFlagInt("n"))
	if err != nil {
		return cli.ExecutionError("stats", err.Error())
	}
	if len(records) == 0 {
		fmt.Println("audit log is empty")
		return nil
	}

	byDecision := map[shellshield.AuditDecision]int{}
	byRule := map[string]int{}
	for _, r := range records {
		byDecision[r.Decision]++
		if r.Rule != "" {
			byRule[r.Rule]++
		}
	}

	fmt.Printf("%d record(s)\n\n", len(records))
	fmt.Println("by decision:")
	printCounts(toCountMap(byDecision))
	fmt.Println("\nby rule:")
	printCounts(byRule)
	return nil
}

func toCountMap(m map[shellshield.AuditDecision]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	for _, k := range keys {
		fmt.Printf("  %-30s %d\n", k, counts[k])
	}
}
