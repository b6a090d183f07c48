// cmd_paste.go: bracketed-paste invocation shape, spec.md §6.3
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"io"
	"os"
	"strings"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func newPasteCommand() *cli.Command {
	return cli.NewCommand("paste", "Analyze every line of a bracketed-paste block from stdin").
		SetLongDescription("Reads stdin, splits on CR/LF, and analyzes each non-empty line in\n" +
			"turn. Exits on the first blocked line; does not evaluate the rest.").
		SetHandler(runPaste)
}

func runPaste(ctx *cli.Context) error {
	if shellshield.ShouldSkip() {
		return nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return cli.ExecutionError("paste", "read stdin: "+err.Error())
	}
	if len(data) == 0 {
		return nil
	}

	g, err := newGate(ctx.GetGlobalFlagString("mode"))
	if err != nil {
		return err
	}
	defer g.close()

	for _, line := range strings.FieldsFunc(string(data), func(r rune) bool { return r == '\n' || r == '\r' }) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := g.decide(ctx, line, shellshield.SourcePaste); err != nil {
			return err
		}
	}
	return nil
}
