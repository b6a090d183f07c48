// app.go: the shellshield CLI application
//
// Adapted from pkg/orpheus/app.go's fluent App builder and Run() dispatch
// loop: global-flag splitting, built-in --help/--version handling, and
// command-name resolution all carry over unchanged in shape; the handler
// glue now wires to shellshield.Analyzer-backed subcommands instead of a
// generic example app.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"strings"

	flashflags "github.com/agilira/flash-flags"

	"github.com/hevlyo/shellshield/pkg/shellshield"
)

// App represents the shellshield CLI application.
type App struct {
	name             string
	description      string
	version          string
	commands         map[string]*Command
	globalFlags      *flashflags.FlagSet
	defaultCmd       string
	logger           shellshield.Logger
	auditLogger      shellshield.AuditLogger
	tracer           shellshield.Tracer
	metricsCollector shellshield.MetricsCollector
}

// New creates a new CLI application.
func New(name string) *App {
	return &App{
		name:        name,
		commands:    make(map[string]*Command),
		globalFlags: flashflags.New(name),
	}
}

func (app *App) SetDescription(description string) *App {
	app.description = description
	return app
}

func (app *App) SetVersion(version string) *App {
	app.version = version
	return app
}

func (app *App) SetLogger(logger shellshield.Logger) *App {
	app.logger = logger
	return app
}

func (app *App) SetAuditLogger(auditLogger shellshield.AuditLogger) *App {
	app.auditLogger = auditLogger
	return app
}

func (app *App) SetTracer(tracer shellshield.Tracer) *App {
	app.tracer = tracer
	return app
}

func (app *App) SetMetricsCollector(collector shellshield.MetricsCollector) *App {
	app.metricsCollector = collector
	return app
}

func (app *App) AddGlobalFlag(name, shorthand, defaultValue, description string) *App {
	if shorthand != "" {
		app.globalFlags.StringVar(name, shorthand, defaultValue, description)
	} else {
		app.globalFlags.String(name, defaultValue, description)
	}
	return app
}

func (app *App) AddGlobalBoolFlag(name, shorthand string, defaultValue bool, description string) *App {
	if shorthand != "" {
		app.globalFlags.BoolVar(name, shorthand, defaultValue, description)
	} else {
		app.globalFlags.Bool(name, defaultValue, description)
	}
	return app
}

// Command adds a command using a simple handler function.
func (app *App) Command(name, description string, handler CommandHandler) *Command {
	cmd := NewCommand(name, description).SetHandler(handler)
	app.commands[name] = cmd
	return cmd
}

// AddCommand adds a pre-configured command.
func (app *App) AddCommand(cmd *Command) *App {
	app.commands[cmd.Name()] = cmd
	return app
}

// SetDefaultCommand sets the command to run when no command is specified.
func (app *App) SetDefaultCommand(cmdName string) *App {
	app.defaultCmd = cmdName
	return app
}

// Run executes the application with the given arguments.
func (app *App) Run(args []string) error {
	if len(args) == 0 {
		return app.handleEmptyArgs()
	}

	if handled, err := app.handleBuiltinFlags(args); handled {
		return err
	}

	globalArgs, cmdArgs := app.splitGlobalArgs(args)
	if err := app.globalFlags.Parse(globalArgs); err != nil {
		return ValidationError("", "global flag parsing failed: "+err.Error())
	}

	return app.handleCommandExecution(cmdArgs)
}

func (app *App) handleEmptyArgs() error {
	if app.defaultCmd != "" {
		return app.runCommand(app.defaultCmd, []string{})
	}
	return app.helpHandler(&Context{App: app})
}

func (app *App) handleBuiltinFlags(args []string) (handled bool, err error) {
	switch args[0] {
	case "--help", "-h":
		return true, app.helpHandler(&Context{App: app})
	case "--version", "-v":
		app.printVersion()
		return true, nil
	}
	return false, nil
}

func (app *App) printVersion() {
	if app.version != "" {
		fmt.Printf("%s version %s\n", app.name, app.version)
	} else {
		fmt.Printf("%s (no version set)\n", app.name)
	}
}

func (app *App) handleCommandExecution(cmdArgs []string) error {
	if len(cmdArgs) == 0 {
		return app.handleEmptyArgs()
	}

	cmdName := cmdArgs[0]
	cmdArgs = cmdArgs[1:]

	if cmdName == "help" {
		return app.handleHelpCommand(cmdArgs)
	}

	return app.runCommand(cmdName, cmdArgs)
}

func (app *App) handleHelpCommand(cmdArgs []string) error {
	if len(cmdArgs) > 0 {
		return app.showCommandHelp(cmdArgs[0])
	}
	return app.helpHandler(&Context{App: app})
}

func (app *App) runCommand(cmdName string, args []string) error {
	cmd, exists := app.commands[cmdName]
	if !exists {
		return NotFoundError(cmdName, fmt.Sprintf("command %q not found", cmdName))
	}

	ctx := &Context{App: app, Args: args, GlobalFlags: app.globalFlags}
	return cmd.Execute(ctx)
}

func (app *App) splitGlobalArgs(args []string) (globalArgs, cmdArgs []string) {
	var i int
	for i = 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		processed, skipNext := app.processSingleFlag(args, i)
		globalArgs = append(globalArgs, processed...)
		if skipNext {
			i++
		}
	}
	return globalArgs, args[i:]
}

func (app *App) processSingleFlag(args []string, i int) (processed []string, skipNext bool) {
	arg := args[i]
	if app.isBooleanGlobalFlag(arg) || strings.Contains(arg, "=") {
		return []string{arg}, false
	}
	if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
		return []string{arg, args[i+1]}, true
	}
	return []string{arg}, false
}

func (app *App) isBooleanGlobalFlag(arg string) bool {
	if strings.HasPrefix(arg, "--") {
		flagName := arg[2:]
		if eq := strings.IndexByte(flagName, '='); eq != -1 {
			flagName = flagName[:eq]
		}
		if flag := app.globalFlags.Lookup(flagName); flag != nil && flag.Type() == "bool" {
			return true
		}
		return false
	}
	if len(arg) == 2 && arg[0] == '-' {
		shortKey := string(arg[1])
		return shortKey == "v" || shortKey == "h"
	}
	return false
}

func (app *App) helpHandler(ctx *Context) error {
	fmt.Print(NewHelpGenerator(app).GenerateAppHelp())
	return nil
}

func (app *App) showCommandHelp(cmdName string) error {
	cmd, exists := app.commands[cmdName]
	if !exists {
		return NotFoundError(cmdName, fmt.Sprintf("command %q not found", cmdName))
	}
	fmt.Print(NewHelpGenerator(app).GenerateCommandHelp(cmd))
	return nil
}

// Name returns the application name.
func (app *App) Name() string { return app.name }

// Version returns the application version.
func (app *App) Version() string { return app.version }

// Description returns the application description.
func (app *App) Description() string { return app.description }
