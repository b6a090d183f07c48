// command.go: commands in the shellshield CLI dispatcher
//
// Adapted from pkg/orpheus/command.go: kept the fluent builder, subcommand
// tree, and flash-flags-backed flag parsing; dropped the tab-completion
// handler plumbing (CompletionRequest/Result/Directive) since none of
// ShellShield's subcommands need dynamic shell completion beyond the static
// integration scripts `shellshield init <shell>` emits — see DESIGN.md.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strings"

	flashflags "github.com/agilira/flash-flags"
)

// CommandHandler is the function signature for command handlers.
type CommandHandler func(ctx *Context) error

// Command represents a CLI command with its configuration and behavior.
type Command struct {
	name            string
	description     string
	longDescription string
	usage           string
	examples        []string
	flags           *flashflags.FlagSet
	handler         CommandHandler
	subcommands     map[string]*Command
	parent          *Command
}

// NewCommand creates a new command with the specified name and description.
func NewCommand(name, description string) *Command {
	return &Command{
		name:        name,
		description: description,
		flags:       flashflags.New(name),
		subcommands: make(map[string]*Command),
	}
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }

func (c *Command) Usage() string {
	if c.usage != "" {
		return c.usage
	}
	return c.name + " [flags]"
}

func (c *Command) SetUsage(usage string) *Command {
	c.usage = usage
	return c
}

func (c *Command) SetHandler(handler CommandHandler) *Command {
	c.handler = handler
	return c
}

func (c *Command) AddFlag(name, shorthand, defaultValue, description string) *Command {
	if shorthand != "" {
		c.flags.StringVar(name, shorthand, defaultValue, description)
	} else {
		c.flags.String(name, defaultValue, description)
	}
	return c
}

func (c *Command) AddBoolFlag(name, shorthand string, defaultValue bool, description string) *Command {
	if shorthand != "" {
		c.flags.BoolVar(name, shorthand, defaultValue, description)
	} else {
		c.flags.Bool(name, defaultValue, description)
	}
	return c
}

func (c *Command) AddIntFlag(name, shorthand string, defaultValue int, description string) *Command {
	if shorthand != "" {
		c.flags.IntVar(name, shorthand, defaultValue, description)
	} else {
		c.flags.Int(name, defaultValue, description)
	}
	return c
}

// Execute runs the command with the given context.
func (c *Command) Execute(ctx *Context) error {
	argsToParse := c.prepareArgs(ctx.Args)

	if c.hasHelpFlag(argsToParse) {
		return c.showHelp(ctx)
	}

	subcommandExecuted, err := c.handleSubcommands(ctx, argsToParse)
	if err != nil {
		return err
	}
	if subcommandExecuted {
		return nil
	}

	if c.HasSubcommands() && c.handler == nil {
		return c.showHelp(ctx)
	}

	if err := c.validateHandler(); err != nil {
		return err
	}

	return c.parseAndExecute(ctx, argsToParse)
}

func (c *Command) prepareArgs(args []string) []string {
	if len(args) > 0 && args[0] == c.name {
		return args[1:]
	}
	return args
}

func (c *Command) hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

func (c *Command) handleSubcommands(ctx *Context, args []string) (bool, error) {
	if !c.HasSubcommands() || len(args) == 0 {
		return false, nil
	}

	potentialSubcmd := args[0]
	if strings.HasPrefix(potentialSubcmd, "-") {
		return false, nil
	}

	if subcmd := c.GetSubcommand(potentialSubcmd); subcmd != nil {
		newCtx := &Context{
			App:         ctx.App,
			Args:        args[1:],
			GlobalFlags: ctx.GlobalFlags,
			Command:     subcmd,
		}
		return true, subcmd.Execute(newCtx)
	}

	return false, NotFoundError(c.name+" "+potentialSubcmd, fmt.Sprintf("unknown subcommand %q for command %q", potentialSubcmd, c.name))
}

func (c *Command) validateHandler() error {
	if c.handler == nil && !c.HasSubcommands() {
		return ExecutionError(c.name, "no handler defined for command")
	}
	return nil
}

func (c *Command) parseAndExecute(ctx *Context, args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return ValidationError(c.name, "flag parsing failed: "+err.Error())
	}
	ctx.Flags = c.flags
	ctx.Command = c
	return c.handler(ctx)
}

// Flags returns the command's flag set for advanced usage.
func (c *Command) Flags() *flashflags.FlagSet { return c.flags }

func (c *Command) AddSubcommand(cmd *Command) *Command {
	cmd.parent = c
	c.subcommands[cmd.name] = cmd
	return c
}

func (c *Command) Subcommand(name, description string, handler CommandHandler) *Command {
	subcmd := NewCommand(name, description).SetHandler(handler)
	c.AddSubcommand(subcmd)
	return subcmd
}

func (c *Command) GetSubcommands() map[string]*Command {
	out := make(map[string]*Command, len(c.subcommands))
	for name, cmd := range c.subcommands {
		out[name] = cmd
	}
	return out
}

func (c *Command) HasSubcommands() bool { return len(c.subcommands) > 0 }

func (c *Command) GetSubcommand(name string) *Command { return c.subcommands[name] }

func (c *Command) Parent() *Command { return c.parent }

func (c *Command) FullName() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.FullName() + " " + c.name
}

func (c *Command) SetLongDescription(description string) *Command {
	c.longDescription = description
	return c
}

func (c *Command) AddExample(example string) *Command {
	c.examples = append(c.examples, example)
	return c
}

func (c *Command) showHelp(ctx *Context) error {
	generator := NewHelpGenerator(ctx.App)
	fmt.Print(generator.GenerateCommandHelp(c))
	return nil
}
