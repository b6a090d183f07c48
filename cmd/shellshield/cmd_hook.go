// cmd_hook.go: tool-hook invocation shape, spec.md §6.1
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

// hookPayload accepts both {"tool_input":{"command":"..."}} (the shape
// coding-agent tool hooks emit) and the flat {"command":"..."} shape.
type hookPayload struct {
	Command   string `json:"command"`
	ToolInput struct {
		Command string `json:"command"`
	} `json:"tool_input"`
}

func newHookCommand() *cli.Command {
	return cli.NewCommand("hook", "Tool-hook mode: read a candidate command from stdin JSON").
		SetLongDescription("Reads a JSON payload from stdin shaped like {\"tool_input\":{\"command\":\"...\"}}\n" +
			"or {\"command\":\"...\"}, analyzes the command, and exits 2 with a\n" +
			"stderr explanation on block, 0 otherwise. Intended for wiring into a\n" +
			"coding-agent's pre-tool-use hook.").
		SetHandler(runHook)
}

func runHook(ctx *cli.Context) error {
	if shellshield.ShouldSkip() {
		return nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return cli.ExecutionError("hook", "read stdin: "+err.Error())
	}
	if len(data) == 0 {
		return nil // no input => exit 0, spec.md §6.4
	}

	var payload hookPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return cli.ValidationError("hook", "invalid JSON payload: "+err.Error())
	}

	command := payload.Command
	if command == "" {
		command = payload.ToolInput.Command
	}
	if command == "" {
		return nil
	}

	g, err := newGate(ctx.GetGlobalFlagString("mode"))
	if err != nil {
		return err
	}
	defer g.close()

	return g.decide(ctx, command, shellshield.SourceStdin)
}
