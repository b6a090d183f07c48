// shellcontext.go: alias/function override lookup
//
// Abstracted behind a read-only interface per spec §9 — the analyzer never
// shells out to produce this snapshot; internal/snapshot does that outside
// the analysis path.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"bufio"
	"encoding/json"
	"os"
)

// ShellContextKind enumerates the kinds a snapshot entry can have.
type ShellContextKind string

const (
	ShellContextAlias    ShellContextKind = "alias"
	ShellContextFunction ShellContextKind = "function"
	ShellContextBuiltin  ShellContextKind = "builtin"
	ShellContextFile     ShellContextKind = "file"
)

// ShellContextEntry is one resolved `type <cmd>` record from the snapshot.
type ShellContextEntry struct {
	Name             string           `json:"name"`
	Kind             ShellContextKind `json:"kind"`
	Body             string           `json:"body"`
	ReferencedTokens []string         `json:"referencedTokens"`
}

// ShellContext is the read-only lookup the analyzer consumes. A nil
// *ShellContext (no contextPath configured) means "skip the override check."
type ShellContext struct {
	entries map[string]ShellContextEntry
}

// LoadShellContext parses a snapshot file: one JSON object per line (the form
// internal/snapshot writes), or a single JSON array on the first non-empty
// line. An array spread over several lines is not parsed as an array.
func LoadShellContext(path string) (*ShellContext, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, SnapshotError("", "open snapshot: "+err.Error())
	}
	defer f.Close()

	ctx := &ShellContext{entries: make(map[string]ShellContextEntry)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if first && line[0] == '[' {
			var all []ShellContextEntry
			if jsonErr := json.Unmarshal([]byte(line), &all); jsonErr == nil {
				for _, e := range all {
					ctx.entries[e.Name] = e
				}
				return ctx, nil
			}
		}
		first = false
		var e ShellContextEntry
		if jsonErr := json.Unmarshal([]byte(line), &e); jsonErr != nil {
			continue
		}
		ctx.entries[e.Name] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, SnapshotError("", "read snapshot: "+err.Error())
	}
	return ctx, nil
}

// Lookup returns the entry for a resolved command name, if any.
func (c *ShellContext) Lookup(name string) (ShellContextEntry, bool) {
	if c == nil {
		return ShellContextEntry{}, false
	}
	e, ok := c.entries[name]
	return e, ok
}

// ReferencesBlocked implements spec §4.4: for an alias or function entry,
// does its referencedTokens set intersect Config.blocked?
func (e ShellContextEntry) ReferencesBlocked(blocked map[string]bool) bool {
	if e.Kind != ShellContextAlias && e.Kind != ShellContextFunction {
		return false
	}
	for _, tok := range e.ReferencedTokens {
		if blocked[tok] {
			return true
		}
	}
	return false
}
