// git.go: batched git-uncommitted-changes collaborator
//
// spec.md §9 mandates a single batched `git status` invocation, not one
// subprocess per file — grounded on _examples/fnzv-trash/git.go's direct
// os/exec.Command("git", ...) style (no shell-out wrapper library).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"context"
	"os/exec"
	"strings"
)

// GitStatus reports which of a batch of paths have uncommitted changes. It is
// a stubbable collaborator per spec.md §9's design note, not something the
// analyzer calls directly into os/exec for — tests substitute a fake.
type GitStatus interface {
	Dirty(ctx context.Context, paths []string) (map[string]bool, error)
}

// execGitStatus shells out to a single `git status --porcelain=v1 -z --`
// invocation covering every path at once.
type execGitStatus struct{}

// NewGitStatus returns the built-in os/exec-backed GitStatus implementation.
func NewGitStatus() GitStatus { return execGitStatus{} }

func (execGitStatus) Dirty(ctx context.Context, paths []string) (map[string]bool, error) {
	dirty := make(map[string]bool, len(paths))
	if len(paths) == 0 {
		return dirty, nil
	}

	args := append([]string{"status", "--porcelain=v1", "-z", "--"}, paths...)
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		// Not a repo, git not installed, or any other tooling fault: fail
		// open on "is this dirty" rather than blocking the destructive-
		// command rule entirely on systems without git — see DESIGN.md's
		// "Git collaborator fail-open" resolution.
		return dirty, nil
	}

	for _, entry := range strings.Split(string(out), "\x00") {
		if len(entry) < 4 {
			continue
		}
		path := entry[3:]
		dirty[path] = true
	}
	return dirty, nil
}
