// path_test.go
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

func TestIsCriticalPath(t *testing.T) {
	cases := map[string]bool{
		"/":                 true,
		"/etc":              true,
		"/etc/":             true,
		"/ETC":              true,
		"repo/.git":         true,
		".git":              true,
		"C:/Windows/System32": true,
		"/home/user/project": false,
		"./notes.txt":        false,
		"":                   true,
	}
	for p, want := range cases {
		if got := isCriticalPath(p); got != want {
			t.Errorf("isCriticalPath(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestIsSensitivePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available in this environment")
	}
	cases := map[string]bool{
		"~/.bashrc":                      true,
		"~/.ssh":                         true,
		"~/.ssh/id_rsa":                  true,
		"~/notes.txt":                    false,
		filepath.Join(home, ".zshrc"):    true,
		"/tmp/somewhere/.bashrc":         false,
	}
	for p, want := range cases {
		if got := isSensitivePath(p); got != want {
			t.Errorf("isSensitivePath(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		`C:\Windows\System32\`: "c:/windows/system32",
		"/etc/":                "/etc",
		" /Etc ":                "/etc",
		"/":                     "/",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
