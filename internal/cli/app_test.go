// app_test.go: App/Command dispatch
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import "testing"

func TestApp_RunsRegisteredCommand(t *testing.T) {
	var got string
	app := New("ss").SetVersion("1.0.0")
	app.Command("echo", "echo first arg", func(ctx *Context) error {
		got = ctx.GetArg(0)
		return nil
	})

	if err := app.Run([]string{"echo", "hello"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestApp_UnknownCommandIsNotFoundError(t *testing.T) {
	app := New("ss")
	err := app.Run([]string{"bogus"})
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if _, ok := err.(*CLIError); !ok {
		t.Errorf("err = %v (%T), want *CLIError", err, err)
	}
}

func TestApp_GlobalFlagsParsedBeforeCommand(t *testing.T) {
	var mode string
	app := New("ss")
	app.AddGlobalFlag("mode", "", "enforce", "mode override")
	app.Command("noop", "no-op", func(ctx *Context) error {
		mode = ctx.GetGlobalFlagString("mode")
		return nil
	})

	if err := app.Run([]string{"--mode", "permissive", "noop"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if mode != "permissive" {
		t.Errorf("mode = %q, want %q", mode, "permissive")
	}
}

func TestCommand_SubcommandDispatch(t *testing.T) {
	var called string
	parent := NewCommand("remote", "remote ops")
	parent.Subcommand("add", "add a remote", func(ctx *Context) error {
		called = "add"
		return nil
	})

	app := New("ss")
	app.AddCommand(parent)
	if err := app.Run([]string{"remote", "add"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if called != "add" {
		t.Errorf("called = %q, want %q", called, "add")
	}
}
