// context.go: the execution context passed to every command handler
//
// Adapted from pkg/orpheus/context.go, substituting shellshield's own
// observability interfaces (Logger/AuditLogger/Tracer/MetricsCollector) for
// the teacher's package-local ones, so the CLI layer and the analyzer share
// one observability contract instead of duplicating it.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	flashflags "github.com/agilira/flash-flags"

	"github.com/hevlyo/shellshield/pkg/shellshield"
)

// Context carries parsed arguments, flags, and application state into a
// command handler.
type Context struct {
	App         *App
	Command     *Command
	Args        []string
	Flags       *flashflags.FlagSet
	GlobalFlags *flashflags.FlagSet
}

func (ctx *Context) GetArg(index int) string {
	if index < 0 || index >= len(ctx.Args) {
		return ""
	}
	return ctx.Args[index]
}

func (ctx *Context) ArgCount() int { return len(ctx.Args) }

func (ctx *Context) GetFlagString(name string) string {
	if ctx.Flags != nil {
		return ctx.Flags.GetString(name)
	}
	return ""
}

func (ctx *Context) GetFlagBool(name string) bool {
	if ctx.Flags != nil {
		return ctx.Flags.GetBool(name)
	}
	return false
}

func (ctx *Context) GetFlagInt(name string) int {
	if ctx.Flags != nil {
		return ctx.Flags.GetInt(name)
	}
	return 0
}

func (ctx *Context) FlagChanged(name string) bool {
	if ctx.Flags != nil {
		return ctx.Flags.Changed(name)
	}
	return false
}

func (ctx *Context) GetGlobalFlagString(name string) string {
	if ctx.GlobalFlags != nil {
		return ctx.GlobalFlags.GetString(name)
	}
	return ""
}

func (ctx *Context) GetGlobalFlagBool(name string) bool {
	if ctx.GlobalFlags != nil {
		return ctx.GlobalFlags.GetBool(name)
	}
	return false
}

// Logger returns the configured logger, or nil if not set.
func (ctx *Context) Logger() shellshield.Logger {
	if ctx.App != nil {
		return ctx.App.logger
	}
	return nil
}

// AuditLogger returns the configured audit logger, or nil if not set.
func (ctx *Context) AuditLogger() shellshield.AuditLogger {
	if ctx.App != nil {
		return ctx.App.auditLogger
	}
	return nil
}

// Tracer returns the configured tracer, or nil if not set.
func (ctx *Context) Tracer() shellshield.Tracer {
	if ctx.App != nil {
		return ctx.App.tracer
	}
	return nil
}

// MetricsCollector returns the configured metrics collector, or nil if not set.
func (ctx *Context) MetricsCollector() shellshield.MetricsCollector {
	if ctx.App != nil {
		return ctx.App.metricsCollector
	}
	return nil
}
