// errors.go: CLI usage/execution error taxonomy
//
// Adapted from pkg/orpheus/errors.go's OrpheusError, narrowed to the CLI
// dispatch faults this package itself raises (unknown command, bad flags,
// missing handler) — policy blocks are never represented as errors here,
// only as shellshield.Decision values (spec.md §7).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/agilira/go-errors"
)

const (
	ErrCodeValidation errors.ErrorCode = "SSC2000"
	ErrCodeExecution  errors.ErrorCode = "SSC2001"
	ErrCodeNotFound   errors.ErrorCode = "SSC2002"
)

// CLIError represents a CLI dispatch fault — always exit code 1 (spec.md §6).
type CLIError struct {
	goError *errors.Error
	Command string
}

func newCLIError(code errors.ErrorCode, command, message string) *CLIError {
	err := errors.New(code, message).WithContext("command", command).WithSeverity("error")
	return &CLIError{goError: err, Command: command}
}

func (e *CLIError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("command %q: %s", e.Command, e.goError.Error())
	}
	return e.goError.Error()
}

// ExitCode is always 1: CLI dispatch faults are environment/usage errors,
// distinct from the exit-code-2 policy blocks a Decision produces.
func (e *CLIError) ExitCode() int { return 1 }

func (e *CLIError) Unwrap() error { return e.goError }

// ValidationError reports malformed flags or arguments.
func ValidationError(command, message string) *CLIError {
	return newCLIError(ErrCodeValidation, command, message)
}

// ExecutionError reports a command that failed while running, including one
// with no usable handler.
func ExecutionError(command, message string) *CLIError {
	return newCLIError(ErrCodeExecution, command, message)
}

// NotFoundError reports an unknown command or subcommand name.
func NotFoundError(command, message string) *CLIError {
	return newCLIError(ErrCodeNotFound, command, message)
}
