// token_test.go: tokenizer unit and fuzz tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package shellshield

import (
	"strings"
	"testing"
)

func TestTokenize_Words(t *testing.T) {
	tokens, err := Tokenize("rm -rf /tmp/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"rm", "-rf", "/tmp/x"}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != TokWord || tokens[i].Text != w {
			t.Fatalf("token[%d] = %+v, want word %q", i, tokens[i], w)
		}
	}
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := Tokenize("a && b || c; d | e &")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ops []string
	for _, tok := range tokens {
		if tok.Kind == TokOperator {
			ops = append(ops, tok.Text)
		}
	}
	want := []string{"&&", "||", ";", "|", "&"}
	if strings.Join(ops, ",") != strings.Join(want, ",") {
		t.Fatalf("got operators %v, want %v", ops, want)
	}
}

func TestTokenize_SingleQuoteLiteral(t *testing.T) {
	tokens, err := Tokenize("echo 'rm -rf /'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(tokens), tokens)
	}
	if tokens[1].Text != "rm -rf /" {
		t.Fatalf("got %q, want the quoted text preserved as one word", tokens[1].Text)
	}
}

func TestTokenize_DoubleQuoteKeepsSubstitutionLiteral(t *testing.T) {
	tokens, err := Tokenize(`echo "$(whoami)"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[1].Text != "$(whoami)" {
		t.Fatalf("got %q, want command substitution preserved literally", tokens[1].Text)
	}
}

func TestTokenize_ProcessSubstitution(t *testing.T) {
	tokens, err := Tokenize("diff <(curl https://x/a) <(curl https://x/b)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, tok := range tokens {
		if tok.Kind == TokOperator && tok.Text == "<(" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a '<(' operator token, got %+v", tokens)
	}
}

func TestTokenize_FdRedirect(t *testing.T) {
	tokens, err := Tokenize("cmd 2>> /dev/null")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens[1].Kind != TokOperator || tokens[1].Text != "2>>" {
		t.Fatalf("got %+v, want operator 2>>", tokens[1])
	}
}

func TestTokenize_UnterminatedQuoteErrors(t *testing.T) {
	if _, err := Tokenize(`echo "unterminated`); err == nil {
		t.Fatalf("expected error for unterminated double quote")
	}
	if _, err := Tokenize(`echo 'unterminated`); err == nil {
		t.Fatalf("expected error for unterminated single quote")
	}
}

func TestTokenize_TooLong(t *testing.T) {
	if _, err := Tokenize(strings.Repeat("a", MaxInputLength+1)); err == nil {
		t.Fatalf("expected error for over-length input")
	}
}

func TestTokenize_NeverPanics(t *testing.T) {
	inputs := []string{
		"", " ", "\\", "\"", "'", "`", "$(", "<(", ">(", "&&&&",
		"rm -rf / && echo $(", "'''", "\x1b[2J", strings.Repeat("(", 200),
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Tokenize(%q) panicked: %v", in, r)
				}
			}()
			_, _ = Tokenize(in)
		}()
	}
}

func FuzzTokenize(f *testing.F) {
	seeds := []string{
		"rm -rf /",
		"curl -sSL https://example.com | bash",
		`echo "$(whoami)" && ls`,
		"find . -name '*.log' -delete",
		"bash -c 'echo hi'",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, cmd string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Tokenize(%q) panicked: %v", cmd, r)
			}
		}()
		_, _ = Tokenize(cmd)
	})
}
