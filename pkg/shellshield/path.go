// path.go: critical-path and sensitive-path classifiers
//
// Grounded on pkg/orpheus/security.go's isSystemPath/getDefaultDeniedPaths,
// generalized from "deny this CLI flag value" to "classify this
// destructive command's target path."
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"os"
	"strings"
)

// criticalUnixPaths are root system directories whose deletion or
// modification would damage the OS install.
var criticalUnixPaths = []string{
	"/", "/bin", "/sbin", "/usr", "/usr/bin", "/usr/sbin",
	"/etc", "/boot", "/dev", "/proc", "/sys", "/lib", "/lib64", "/var",
	"/root", "/home",
}

// criticalWindowsPaths covers both slash-separated and concatenated forms.
var criticalWindowsPaths = []string{
	"c:/windows", "c:windows",
	"c:/windows/system32", "c:windows/system32", "c:/system32", "system32",
	"c:/program files", "c:program files",
	"c:/program files (x86)", "c:program files (x86)",
	"c:/users", "c:users",
}

// sensitivePathSuffixes are per-user dotfiles matched after expanding a
// leading ~ to $HOME.
var sensitivePathSuffixes = []string{
	"/.ssh", "/.bashrc", "/.zshrc", "/.profile", "/.gitconfig",
}

// normalizePath lowercases and converts backslashes to forward slashes,
// stripping trailing slashes — the shared normal form for both classifiers.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ToLower(strings.TrimSpace(p))
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}

// isCriticalPath implements spec §4.3.
func isCriticalPath(p string) bool {
	norm := normalizePath(p)
	if norm == "" || norm == "/" {
		return true
	}
	if norm == ".git" || strings.HasSuffix(norm, "/.git") {
		return true
	}
	for _, c := range criticalUnixPaths {
		if norm == c {
			return true
		}
	}
	for _, c := range criticalWindowsPaths {
		if norm == c || strings.HasPrefix(norm, c+"/") {
			return true
		}
	}
	return false
}

// isSensitivePath implements spec §4.3: expands a leading ~ to $HOME and
// matches against per-user-sensitive patterns.
func isSensitivePath(p string) bool {
	expanded := expandHome(p)
	norm := normalizePath(expanded)
	home := normalizePath(expandHome("~"))
	if home == "" {
		return false
	}
	if !strings.HasPrefix(norm, home) {
		return false
	}
	rest := strings.TrimPrefix(norm, home)
	for _, suffix := range sensitivePathSuffixes {
		if rest == suffix || strings.HasPrefix(rest, suffix+"/") {
			return true
		}
	}
	return false
}

func expandHome(p string) string {
	if p == "~" {
		return userHomeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return userHomeDir() + p[1:]
	}
	return p
}

func userHomeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
