// cmd_init.go: shell-integration snippet emitter, spec.md §1/§6 "--init"
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/hevlyo/shellshield/internal/cli"
)

const bashSnippet = `# shellshield bash integration — add to ~/.bashrc
shellshield_preexec() {
    [ -z "$BASH_COMMAND" ] && return
    shellshield check "$BASH_COMMAND" || {
        history -d $(history 1 | awk '{print $1}') 2>/dev/null
        return 1
    }
}
trap 'shellshield_preexec' DEBUG
`

const zshSnippet = `# shellshield zsh integration — add to ~/.zshrc
shellshield_preexec() {
    shellshield check "$1" || return 1
}
autoload -Uz add-zsh-hook
add-zsh-hook preexec shellshield_preexec
`

const fishSnippet = `# shellshield fish integration — add to ~/.config/fish/config.fish
function shellshield_preexec --on-event fish_preexec
    shellshield check "$argv"
end
`

func newInitCommand() *cli.Command {
	return cli.NewCommand("init", "Print a shell-integration snippet for bash, zsh, or fish").
		SetUsage("init <bash|zsh|fish>").
		AddExample("shellshield init zsh >> ~/.zshrc").
		SetHandler(runInit)
}

func runInit(ctx *cli.Context) error {
	if ctx.ArgCount() == 0 {
		return cli.ValidationError("init", "shell name required: bash, zsh, or fish")
	}
	switch ctx.GetArg(0) {
	case "bash":
		fmt.Print(bashSnippet)
	case "zsh":
		fmt.Print(zshSnippet)
	case "fish":
		fmt.Print(fishSnippet)
	default:
		return cli.ValidationError("init", fmt.Sprintf("unsupported shell %q: want bash, zsh, or fish", ctx.GetArg(0)))
	}
	return nil
}
