// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package snapshot

import (
	"context"
	"strings"
	"testing"

	"github.com/hevlyo/shellshield/pkg/shellshield"
)

func TestDiscoverNames_AliasAndFunction(t *testing.T) {
	input := strings.Join([]string{
		"alias ll='ls -la'",
		"alias rm='rm -i'",
		"rmf ()",
		"{",
		"    command rm -rf \"$@\"",
		"}",
	}, "\n")

	names, err := discoverNames(strings.NewReader(input))
	if err != nil {
		t.Fatalf("discoverNames: %v", err)
	}
	want := map[string]bool{"ll": true, "rm": true, "rmf": true}
	if len(names) != len(want) {
		t.Fatalf("got %v, want keys of %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected name %q", n)
		}
	}
}

func TestProducer_Build_ResolvesViaStubbedRunner(t *testing.T) {
	p := &Producer{
		Shell: "sh",
		Runner: func(_ context.Context, _ string, name string) (string, error) {
			switch name {
			case "rm":
				return "rm is aliased to `rm -i'", nil
			case "rmf":
				return "rmf is a function\nrmf () \n{ \n    command rm -rf \"$@\"\n}", nil
			case "ls":
				return "ls is /bin/ls", nil
			}
			return "", errNotFound
		},
	}

	input := "alias rm='rm -i'\nrmf ()\n{\n    command rm -rf \"$@\"\n}\n"
	snap, err := p.Build(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(snap.Entries), snap.Entries)
	}

	byName := map[string]shellshield.ShellContextEntry{}
	for _, e := range snap.Entries {
		byName[e.Name] = e
	}

	rm, ok := byName["rm"]
	if !ok || rm.Kind != shellshield.ShellContextAlias {
		t.Fatalf("rm entry missing or wrong kind: %+v", rm)
	}
	if !contains(rm.ReferencedTokens, "rm") {
		t.Errorf("rm alias should reference rm, got %v", rm.ReferencedTokens)
	}

	rmf, ok := byName["rmf"]
	if !ok || rmf.Kind != shellshield.ShellContextFunction {
		t.Fatalf("rmf entry missing or wrong kind: %+v", rmf)
	}
	if !contains(rmf.ReferencedTokens, "rm") {
		t.Errorf("rmf function should reference rm, got %v", rmf.ReferencedTokens)
	}
}

func TestProducer_Build_SkipsUnresolvable(t *testing.T) {
	p := &Producer{
		Shell: "sh",
		Runner: func(_ context.Context, _ string, _ string) (string, error) {
			return "", errNotFound
		},
	}
	snap, err := p.Build(context.Background(), strings.NewReader("alias ghost='does-not-exist'"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Entries) != 0 {
		t.Fatalf("expected no entries, got %+v", snap.Entries)
	}
}

func TestWriteJSONLines_RoundTrips(t *testing.T) {
	snap := &Snapshot{Entries: []shellshield.ShellContextEntry{
		{Name: "rm", Kind: shellshield.ShellContextAlias, Body: "rm -i", ReferencedTokens: []string{"rm"}},
	}}
	var buf strings.Builder
	if err := WriteJSONLines(&buf, snap); err != nil {
		t.Fatalf("WriteJSONLines: %v", err)
	}
	if !strings.Contains(buf.String(), `"name":"rm"`) {
		t.Errorf("expected name field in output, got %q", buf.String())
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

type stubErr string

func (e stubErr) Error() string { return string(e) }

var errNotFound = stubErr("not found")
