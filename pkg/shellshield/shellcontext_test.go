// shellcontext_test.go
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadShellContext_JSONLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.jsonl")
	content := `{"name":"rm","kind":"alias","body":"rm -i","referencedTokens":["rm"]}
{"name":"ll","kind":"alias","body":"ls -la","referencedTokens":["ls"]}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ctx, err := LoadShellContext(path)
	if err != nil {
		t.Fatalf("LoadShellContext: %v", err)
	}
	entry, ok := ctx.Lookup("rm")
	if !ok {
		t.Fatalf("expected a lookup hit for 'rm'")
	}
	if entry.Kind != ShellContextAlias || entry.Body != "rm -i" {
		t.Errorf("got %+v, want alias 'rm -i'", entry)
	}
	if _, ok := ctx.Lookup("missing"); ok {
		t.Errorf("expected no entry for an unknown command")
	}
}

func TestLoadShellContext_JSONArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	content := `[{"name":"ls","kind":"function","body":"ls --color=auto \"$@\"","referencedTokens":["ls"]}]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ctx, err := LoadShellContext(path)
	if err != nil {
		t.Fatalf("LoadShellContext: %v", err)
	}
	entry, ok := ctx.Lookup("ls")
	if !ok || entry.Kind != ShellContextFunction {
		t.Fatalf("got %+v ok=%v, want a function entry for 'ls'", entry, ok)
	}
}

func TestLoadShellContext_MissingFile(t *testing.T) {
	if _, err := LoadShellContext("/nonexistent/path/snapshot.json"); err == nil {
		t.Fatalf("expected an error for a missing snapshot file")
	}
}

func TestShellContextEntry_ReferencesBlocked(t *testing.T) {
	blocked := map[string]bool{"rm": true}
	alias := ShellContextEntry{Kind: ShellContextAlias, ReferencedTokens: []string{"echo", "rm"}}
	if !alias.ReferencesBlocked(blocked) {
		t.Errorf("expected alias referencing a blocked token to match")
	}
	builtin := ShellContextEntry{Kind: ShellContextBuiltin, ReferencedTokens: []string{"rm"}}
	if builtin.ReferencesBlocked(blocked) {
		t.Errorf("builtin/file entries should never match, regardless of referencedTokens")
	}
}

func TestNilShellContextLookup(t *testing.T) {
	var ctx *ShellContext
	if _, ok := ctx.Lookup("rm"); ok {
		t.Errorf("a nil *ShellContext must report no lookup hits")
	}
}
