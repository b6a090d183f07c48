// cmd_run.go: analyze-then-execute a local or (opt-in) remote script,
// SPEC_FULL.md §3.12
//
// `run` is itself a ShellShield client, not a bypass: every non-empty,
// non-comment line is analyzed with the same analyzer used for interactive
// commands before the script is handed to the shell.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/hevlyo/shellshield/internal/cli"
	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func newRunCommand() *cli.Command {
	return cli.NewCommand("run", "Analyze every line of a script, then execute it if nothing blocks").
		SetUsage("run <path-or-url>").
		SetLongDescription("Local paths are read directly. Remote URLs are refused unless\n" +
			"--allow-remote is given AND the host is in Config.trustedDomains —\n" +
			"the same predicate curl|bash pipelines are checked against.").
		AddBoolFlag("allow-remote", "", false, "Permit fetching a remote URL").
		SetHandler(runRun)
}

func runRun(ctx *cli.Context) error {
	if ctx.ArgCount() == 0 {
		return cli.ValidationError("run", "no path or URL given")
	}
	target := ctx.GetArg(0)

	script, err := loadScript(ctx, target)
	if err != nil {
		return err
	}

	g, err := newGate(ctx.GetGlobalFlagString("mode"))
	if err != nil {
		return err
	}
	defer g.close()

	for _, line := range scriptLines(script) {
		if err := g.decide(ctx, line, shellshield.SourceRun); err != nil {
			return err
		}
	}

	cmd := exec.Command("sh", "-c", script)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return cli.ExecutionError("run", "script exited with error: "+err.Error())
	}
	return nil
}

func loadScript(ctx *cli.Context, target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		data, err := os.ReadFile(target)
		if err != nil {
			return "", cli.ExecutionError("run", "read "+target+": "+err.Error())
		}
		return string(data), nil
	}

	if !ctx.GetFlagBool("allow-remote") {
		return "", cli.ValidationError("run", "remote URL given without --allow-remote: "+target)
	}

	cfg, err := shellshield.LoadConfig()
	if err != nil {
		return "", cli.ExecutionError("run", err.Error())
	}
	if !shellshield.IsTrustedDomain(target, cfg.TrustedDomains) {
		return "", cli.ValidationError("run", "host not in trustedDomains: "+u.Host)
	}

	resp, err := http.Get(target)
	if err != nil {
		return "", cli.ExecutionError("run", "fetch "+target+": "+err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", cli.ExecutionError("run", "fetch "+target+": HTTP "+resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", cli.ExecutionError("run", "read response body: "+err.Error())
	}
	return string(body), nil
}

func scriptLines(script string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(script))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
