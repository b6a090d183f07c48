// cmd_why.go: explain a decision in multi-line human-readable form,
// SPEC_FULL.md §3.12
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func newWhyCommand() *cli.Command {
	return cli.NewCommand("why", "Explain why a command would be allowed or blocked").
		SetUsage(`why "<command>"`).
		SetHandler(runWhy)
}

func runWhy(ctx *cli.Context) error {
	if ctx.ArgCount() == 0 {
		return cli.ValidationError("why", "no command given")
	}
	command := strings.Join(argsSlice(ctx), " ")

	cfg, err := shellshield.LoadConfig()
	if err != nil {
		return cli.ExecutionError("why", err.Error())
	}
	var shellCtx *shellshield.ShellContext
	if cfg.ContextPath != "" {
		shellCtx, _ = shellshield.LoadShellContext(cfg.ContextPath)
	}
	az := shellshield.NewAnalyzer(cfg, shellCtx, nil)
	d := az.Analyze(command)

	fmt.Printf("command:  %s\n", command)
	if !d.Blocked {
		fmt.Println("verdict:  allowed")
		fmt.Println("no rule in the ordered rule set raised an objection.")
		return nil
	}

	fmt.Println("verdict:  blocked")
	fmt.Printf("rule:     %s\n", d.Rule)
	fmt.Printf("reason:   %s\n", d.Reason)
	fmt.Printf("suggestion:\n  %s\n", d.Suggestion)
	fmt.Println()
	fmt.Println(explain(d.Rule))
	return nil
}

// explain expands the terse rule name into a paragraph naming the phase and
// what class of evidence it looks for — the "multi-line human-readable
// form" SPEC_FULL.md §3.12 describes beyond Decision's single-line fields.
func explain(rule string) string {
	switch rule {
	case "Homograph":
		return "This fired in the pre-tokenization phase: a hostname in the raw\n" +
			"command text mixes Unicode scripts in a way that can visually\n" +
			"impersonate a trusted domain."
	case "TerminalInjection":
		return "This fired in the pre-tokenization phase: the raw command text\n" +
			"contains an ANSI control sequence or a zero-width/BOM character,\n" +
			"either of which can hide the command's true effect from a terminal."
	case "RawThreat":
		return "This fired in the pre-tokenization phase: the raw command text\n" +
			"matched one of the fixed download-and-execute or encoded-payload\n" +
			"patterns (PowerShell -EncodedCommand, eval $(curl ...), base64 -d |\n" +
			"sh, and similar)."
	case "Custom":
		return "This fired against one of this project's own configured\n" +
			"customRules patterns."
	case "CoreAst":
		return "This fired during the token-stream walk: the resolved command name,\n" +
			"its arguments, or the shape of a pipeline matched one of the\n" +
			"blocklist, critical-path, download-and-exec, or process-substitution\n" +
			"checks."
	case "Tokenizer":
		return "The command could not be tokenized as valid shell syntax at all —\n" +
			"unbalanced quotes or parentheses are the usual cause."
	case "Analyzer":
		return "The command recursed into nested shell -c subshells past the\n" +
			"configured depth limit."
	default:
		return "No further explanation is available for this rule name."
	}
}
