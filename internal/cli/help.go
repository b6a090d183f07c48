// help.go: automatic help generation
//
// Adapted from pkg/orpheus/help.go, unchanged in structure.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"sort"
	"strings"

	flashflags "github.com/agilira/flash-flags"
)

// HelpGenerator produces help text for commands and the application.
type HelpGenerator struct {
	app *App
}

func NewHelpGenerator(app *App) *HelpGenerator {
	return &HelpGenerator{app: app}
}

func (h *HelpGenerator) GenerateCommandHelp(cmd *Command) string {
	var sb strings.Builder
	h.addCommandUsage(&sb, cmd)
	h.addCommandDescription(&sb, cmd)
	h.addSubcommands(&sb, cmd)
	h.addExamples(&sb, cmd)
	h.addCommandFlags(&sb, cmd)
	return sb.String()
}

func (h *HelpGenerator) addCommandUsage(sb *strings.Builder, cmd *Command) {
	usage := cmd.Usage()
	if cmd.HasSubcommands() {
		usage = cmd.name + " <subcommand> [flags]"
	}
	sb.WriteString(fmt.Sprintf("Usage: %s %s\n\n", h.app.name, usage))
}

func (h *HelpGenerator) addCommandDescription(sb *strings.Builder, cmd *Command) {
	if cmd.Description() != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", cmd.Description()))
	}
	if cmd.longDescription != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", cmd.longDescription))
	}
}

func (h *HelpGenerator) addSubcommands(sb *strings.Builder, cmd *Command) {
	if !cmd.HasSubcommands() {
		return
	}
	sb.WriteString("Available Subcommands:\n")
	subcommands := cmd.GetSubcommands()
	var names []string
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", name, subcommands[name].Description()))
	}
	sb.WriteString("\n")
}

func (h *HelpGenerator) addExamples(sb *strings.Builder, cmd *Command) {
	if len(cmd.examples) == 0 {
		return
	}
	sb.WriteString("Examples:\n")
	for _, example := range cmd.examples {
		sb.WriteString(fmt.Sprintf("  %s\n", example))
	}
	sb.WriteString("\n")
}

func (h *HelpGenerator) addCommandFlags(sb *strings.Builder, cmd *Command) {
	if !h.hasCommandFlags(cmd) {
		return
	}
	sb.WriteString("Flags:\n")
	sb.WriteString(h.generateFlagHelp(cmd))
}

// GenerateAppHelp generates the main application help.
func (h *HelpGenerator) GenerateAppHelp() string {
	var sb strings.Builder
	if h.app.description != "" {
		sb.WriteString(h.app.description + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("Usage: %s [command] [flags]\n\n", h.app.name))

	if len(h.app.commands) > 0 {
		sb.WriteString("Available Commands:\n")
		var names []string
		for name := range h.app.commands {
			names = append(names, name)
		}
		sort.Strings(names)

		maxLen := 0
		for _, name := range names {
			if len(name) > maxLen {
				maxLen = len(name)
			}
		}
		for _, name := range names {
			cmd := h.app.commands[name]
			padding := strings.Repeat(" ", maxLen-len(name)+2)
			sb.WriteString(fmt.Sprintf("  %s%s%s\n", name, padding, cmd.Description()))
		}
		padding := strings.Repeat(" ", maxLen-4+2)
		sb.WriteString(fmt.Sprintf("  help%sShow help for commands\n", padding))
		sb.WriteString("\n")
	}

	sb.WriteString("Global Flags:\n")
	sb.WriteString("  -h, --help      Show help\n")
	if h.app.version != "" {
		sb.WriteString("  -v, --version   Show version\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Use \"%s help [command]\" for more information about a command.\n", h.app.name))
	return sb.String()
}

func (h *HelpGenerator) generateFlagHelp(cmd *Command) string {
	var sb strings.Builder
	if cmd.Flags() != nil {
		cmd.Flags().VisitAll(func(flag *flashflags.Flag) {
			sb.WriteString(h.formatFlagHelp(flag))
		})
	}
	sb.WriteString("  -h, --help      Show help for this command\n")
	return sb.String()
}

func (h *HelpGenerator) hasCommandFlags(cmd *Command) bool {
	if cmd.Flags() == nil {
		return false
	}
	has := false
	cmd.Flags().VisitAll(func(flag *flashflags.Flag) { has = true })
	return has
}

func (h *HelpGenerator) formatFlagHelp(flag *flashflags.Flag) string {
	var line strings.Builder
	line.WriteString("  --")
	line.WriteString(flag.Name())
	if flag.Type() != "bool" {
		line.WriteString(" ")
		line.WriteString(strings.ToUpper(flag.Type()))
	}
	for line.Len() < 30 {
		line.WriteString(" ")
	}
	line.WriteString(flag.Usage())
	if flag.Type() != "bool" && flag.Value() != nil {
		line.WriteString(fmt.Sprintf(" (default: %v)", flag.Value()))
	}
	line.WriteString("\n")
	return line.String()
}
